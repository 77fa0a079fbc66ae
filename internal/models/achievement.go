package models

import (
	"time"

	"gorm.io/datatypes"
)

// AchievementType selects the predicate an achievement is evaluated with.
type AchievementType string

const (
	AchievementRoundMilestone    AchievementType = "ROUND_MILESTONE"
	AchievementChallengeComplete AchievementType = "CHALLENGE_COMPLETE"
	AchievementEasterEggComplete AchievementType = "EASTER_EGG_COMPLETE"
)

// AchievementCriteria holds the predicate parameters. Unused fields stay zero.
type AchievementCriteria struct {
	Round         int    `json:"round,omitempty" yaml:"round,omitempty"`
	ChallengeType string `json:"challenge_type,omitempty" yaml:"challenge_type,omitempty"`
	EasterEggSlug string `json:"easter_egg,omitempty" yaml:"easter_egg,omitempty"`
	RequireSolo   bool   `json:"require_solo,omitempty" yaml:"require_solo,omitempty"`
	VerifiedOnly  bool   `json:"verified_only,omitempty" yaml:"verified_only,omitempty"`
}

// Achievement is a catalog definition. (MapSlug, Name, Type) is unique, with
// MapSlug empty for map-independent achievements.
type Achievement struct {
	ID          uint                                    `gorm:"primaryKey" json:"id"`
	Slug        string                                  `gorm:"size:150;uniqueIndex;not null" json:"slug"`
	MapSlug     string                                  `gorm:"size:100;not null;default:'';uniqueIndex:idx_achievement_key" json:"map_slug,omitempty"`
	Name        string                                  `gorm:"size:255;not null;uniqueIndex:idx_achievement_key" json:"name"`
	Type        AchievementType                         `gorm:"size:40;not null;uniqueIndex:idx_achievement_key" json:"type"`
	Description string                                  `gorm:"size:512" json:"description,omitempty"`
	XPReward    int                                     `gorm:"not null;default:0" json:"xp_reward"`
	Criteria    datatypes.JSONType[AchievementCriteria] `gorm:"not null" json:"criteria"`
	IsActive    bool                                    `gorm:"not null" json:"is_active"`
	CreatedAt   time.Time                               `json:"-"`
	UpdatedAt   time.Time                               `json:"-"`
}

// UserAchievement records an unlock. Its existence is the only record that the
// reward XP was granted; XPAwarded is that reward as it stood at unlock time.
type UserAchievement struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	UserID        uint      `gorm:"not null;uniqueIndex:idx_user_achievement" json:"user_id"`
	AchievementID uint      `gorm:"not null;uniqueIndex:idx_user_achievement" json:"achievement_id"`
	UnlockedAt    time.Time `gorm:"not null" json:"unlocked_at"`
	XPAwarded     int       `gorm:"not null;default:0" json:"xp_awarded"`

	Achievement Achievement `gorm:"foreignKey:AchievementID" json:"achievement"`
}
