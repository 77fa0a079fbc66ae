package models

import "gorm.io/gorm"

// MaxMysteryBoxTokens caps the spin tokens a user can hold.
const MaxMysteryBoxTokens = 3

// User is a player profile. Level is never stored; it is always derived from
// TotalXP through progression.LevelFromXP.
type User struct {
	gorm.Model
	Nickname string `gorm:"size:255;unique;not null"`
	Role     string `gorm:"size:50;not null;default:'user';index"`

	TotalXP          int `gorm:"not null;default:0;index"`
	VerifiedTotalXP  int `gorm:"not null;default:0;index"`
	MysteryBoxTokens int `gorm:"not null;default:3"`
}

// IsAdmin reports whether the user may moderate logs.
func (u User) IsAdmin() bool {
	return u.Role == "admin"
}
