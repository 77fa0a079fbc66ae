package models

import (
	"time"

	"roundtracker/backend/internal/progression"
)

// ChallengeLog is one completed round-based run. XPAwarded is fixed when the
// log is created.
type ChallengeLog struct {
	ID                uint                      `gorm:"primaryKey" json:"id"`
	UserID            uint                      `gorm:"not null;index:idx_challenge_user_map" json:"user_id"`
	MapID             uint                      `gorm:"not null;index:idx_challenge_user_map;index:idx_challenge_board" json:"map_id"`
	ChallengeType     progression.ChallengeType `gorm:"size:40;not null;index:idx_challenge_user_map;index:idx_challenge_board" json:"challenge_type"`
	RoundReached      int                       `gorm:"not null" json:"round_reached"`
	CompletionSeconds *int                      `json:"completion_seconds,omitempty"`
	PlayerCount       int                       `gorm:"not null;default:1" json:"player_count"`
	ProofURL          string                    `gorm:"size:512" json:"proof_url,omitempty"`
	Notes             string                    `json:"notes,omitempty"`
	XPAwarded         int                       `gorm:"not null;default:0" json:"xp_awarded"`
	IsVerified        bool                      `gorm:"not null;default:false;index" json:"is_verified"`
	VerifiedAt        *time.Time                `json:"verified_at,omitempty"`
	VerifiedByID      *uint                     `json:"verified_by_id,omitempty"`
	CreatedAt         time.Time                 `json:"created_at"`

	Map  *Map  `gorm:"foreignKey:MapID" json:"map,omitempty"`
	User *User `gorm:"foreignKey:UserID" json:"-"`
}

// EasterEggLog is one Easter egg completion. Only the first log per
// (user, egg) carries XP.
type EasterEggLog struct {
	ID                uint       `gorm:"primaryKey" json:"id"`
	UserID            uint       `gorm:"not null;index:idx_egg_user" json:"user_id"`
	EasterEggID       uint       `gorm:"not null;index:idx_egg_user" json:"easter_egg_id"`
	PlayerCount       int        `gorm:"not null;default:1" json:"player_count"`
	IsSolo            bool       `gorm:"not null;default:false" json:"is_solo"`
	NoGuide           bool       `gorm:"not null;default:false" json:"no_guide"`
	CompletionSeconds *int       `json:"completion_seconds,omitempty"`
	ProofURL          string     `gorm:"size:512" json:"proof_url,omitempty"`
	XPAwarded         int        `gorm:"not null;default:0" json:"xp_awarded"`
	IsVerified        bool       `gorm:"not null;default:false;index" json:"is_verified"`
	VerifiedAt        *time.Time `json:"verified_at,omitempty"`
	VerifiedByID      *uint      `json:"verified_by_id,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`

	EasterEgg *EasterEgg `gorm:"foreignKey:EasterEggID" json:"easter_egg,omitempty"`
}
