package models

import "time"

// Game is a title in the series, e.g. "Black Ops".
type Game struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Slug      string    `gorm:"size:100;uniqueIndex;not null" json:"slug"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	SortOrder int       `gorm:"not null;default:0" json:"-"`
	Maps      []Map     `gorm:"foreignKey:GameID" json:"maps,omitempty"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

// Map is a playable map. RoundCap limits the rounds that earn XP; 0 is uncapped.
type Map struct {
	ID         uint        `gorm:"primaryKey" json:"id"`
	GameID     uint        `gorm:"not null;index" json:"game_id"`
	Slug       string      `gorm:"size:100;uniqueIndex;not null" json:"slug"`
	Name       string      `gorm:"size:255;not null" json:"name"`
	RoundCap   int         `gorm:"not null;default:0" json:"round_cap"`
	Game       *Game       `gorm:"foreignKey:GameID" json:"game,omitempty"`
	EasterEggs []EasterEgg `gorm:"foreignKey:MapID" json:"easter_eggs,omitempty"`
	CreatedAt  time.Time   `json:"-"`
	UpdatedAt  time.Time   `json:"-"`
}

// EasterEggType distinguishes the flagship quest from smaller secrets.
type EasterEggType string

const (
	EasterEggMainQuest EasterEggType = "MAIN_QUEST"
	EasterEggSideQuest EasterEggType = "SIDE_QUEST"
	EasterEggMusical   EasterEggType = "MUSICAL"
	EasterEggBuildable EasterEggType = "BUILDABLE"
)

// Valid reports whether t is a known Easter egg type.
func (t EasterEggType) Valid() bool {
	switch t {
	case EasterEggMainQuest, EasterEggSideQuest, EasterEggMusical, EasterEggBuildable:
		return true
	}
	return false
}

// EasterEgg is an in-game secret quest on a map.
type EasterEgg struct {
	ID        uint          `gorm:"primaryKey" json:"id"`
	MapID     uint          `gorm:"not null;index" json:"map_id"`
	Slug      string        `gorm:"size:100;uniqueIndex;not null" json:"slug"`
	Name      string        `gorm:"size:255;not null" json:"name"`
	Type      EasterEggType `gorm:"size:20;not null" json:"type"`
	Map       *Map          `gorm:"foreignKey:MapID" json:"map,omitempty"`
	CreatedAt time.Time     `json:"-"`
	UpdatedAt time.Time     `json:"-"`
}

// IsMainQuest reports whether the egg earns the main-quest base award.
func (e EasterEgg) IsMainQuest() bool {
	return e.Type == EasterEggMainQuest
}
