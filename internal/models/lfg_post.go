package models

import (
	"gorm.io/gorm"

	"roundtracker/backend/internal/progression"
)

// LfgPost is a looking-for-group listing a player publishes to find teammates.
type LfgPost struct {
	gorm.Model
	HostID        uint                      `gorm:"not null;index" json:"host_id"`
	MapID         uint                      `gorm:"not null;index" json:"map_id"`
	ChallengeType progression.ChallengeType `gorm:"size:40;not null;default:'HIGHEST_ROUND'" json:"challenge_type"`
	Platform      string                    `gorm:"size:50" json:"platform,omitempty"`
	Description   string                    `json:"description"`
	PlayersNeeded int                       `gorm:"not null;default:1" json:"players_needed"`

	Map  *Map  `gorm:"foreignKey:MapID" json:"map,omitempty"`
	Host *User `gorm:"foreignKey:HostID" json:"-"`
}
