package models

import (
	"time"

	"gorm.io/datatypes"

	"roundtracker/backend/internal/progression"
)

// MaxLobbyMembers is the member cap, excluding the host.
const MaxLobbyMembers = 3

// MysteryBoxLobby is the host-owned party that rolls challenges together.
type MysteryBoxLobby struct {
	ID            uint  `gorm:"primaryKey"`
	HostID        uint  `gorm:"not null;uniqueIndex"`
	CurrentRollID *uint `gorm:"index"`
	CreatedAt     time.Time
	UpdatedAt     time.Time

	Host        User                    `gorm:"foreignKey:HostID"`
	Members     []MysteryBoxLobbyMember `gorm:"foreignKey:LobbyID"`
	CurrentRoll *MysteryBoxRoll         `gorm:"foreignKey:CurrentRollID"`
}

// MysteryBoxLobbyMember is a non-host participant. A user holds at most one
// membership at a time.
type MysteryBoxLobbyMember struct {
	ID       uint      `gorm:"primaryKey"`
	LobbyID  uint      `gorm:"not null;index"`
	UserID   uint      `gorm:"not null;uniqueIndex"`
	JoinedAt time.Time `gorm:"not null"`

	User User `gorm:"foreignKey:UserID"`
}

// MysteryBoxRoll is the randomly assigned challenge for a lobby. It stays
// active until completed by the host or discarded by vote.
type MysteryBoxRoll struct {
	ID              uint                      `gorm:"primaryKey" json:"id"`
	LobbyID         uint                      `gorm:"not null;index" json:"lobby_id"`
	MapID           uint                      `gorm:"not null" json:"map_id"`
	ChallengeType   progression.ChallengeType `gorm:"size:40;not null" json:"challenge_type"`
	CompletedByHost bool                      `gorm:"not null;default:false" json:"completed_by_host"`
	CompletedAt     *time.Time                `json:"completed_at,omitempty"`
	ChallengeLogID  *uint                     `json:"challenge_log_id,omitempty"`
	CreatedAt       time.Time                 `json:"created_at"`

	Map *Map `gorm:"foreignKey:MapID" json:"map,omitempty"`
}

// VoteIntent is what an approved discard vote does with the roll.
type VoteIntent string

const (
	IntentDiscard VoteIntent = "discard"
	IntentReroll  VoteIntent = "reroll"
)

// Valid reports whether i is a known intent.
func (i VoteIntent) Valid() bool {
	return i == IntentDiscard || i == IntentReroll
}

// MysteryBoxDiscardVote is the latest vote of a lobby. Voters is the
// participant set captured when the vote started. A resolved vote keeps its
// row with the outcome in Status until the next vote, membership change or
// completion replaces it.
type MysteryBoxDiscardVote struct {
	ID            uint                          `gorm:"primaryKey"`
	LobbyID       uint                          `gorm:"not null;uniqueIndex"`
	RollID        uint                          `gorm:"not null;index"`
	Intent        VoteIntent                    `gorm:"size:20;not null"`
	Status        string                        `gorm:"size:20;not null;default:PENDING"`
	InitiatedByID uint                          `gorm:"not null"`
	Voters        datatypes.JSONType[[]uint]    `gorm:"not null"`
	Votes         datatypes.JSONType[VoteTally] `gorm:"not null"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
