// Package achievement grants and revokes achievements against a user's
// logged runs.
package achievement

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"roundtracker/backend/internal/apperr"
	"roundtracker/backend/internal/catalog"
	"roundtracker/backend/internal/models"
)

var ErrNotUnlocked = apperr.NotFound("ACHIEVEMENT_NOT_UNLOCKED", "You have not unlocked this achievement")

// Unlock is an achievement granted by one evaluation pass.
type Unlock struct {
	AchievementID uint   `json:"achievement_id"`
	Slug          string `json:"slug"`
	Name          string `json:"name"`
	XPReward      int    `json:"xp_reward"`
}

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// CheckAllAchievements evaluates every active definition in cat against the
// user's history and grants the satisfied ones not yet held. It returns only
// the achievements unlocked by this call, and nothing for an unknown user.
func (s *Service) CheckAllAchievements(ctx context.Context, userID uint, cat *catalog.Catalog) ([]Unlock, error) {
	db := s.db.WithContext(ctx)
	unlocked := []Unlock{}
	if err := db.Select("id").First(&models.User{}, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return unlocked, nil
		}
		return nil, err
	}

	h, err := s.loadHistory(db, userID)
	if err != nil {
		return nil, err
	}

	var heldIDs []uint
	if err := db.Model(&models.UserAchievement{}).Where("user_id = ?", userID).Pluck("achievement_id", &heldIDs).Error; err != nil {
		return nil, fmt.Errorf("load unlocks: %w", err)
	}
	held := make(map[uint]bool, len(heldIDs))
	for _, id := range heldIDs {
		held[id] = true
	}

	for _, def := range cat.Achievements() {
		if held[def.ID] || !Satisfied(def, h) {
			continue
		}
		granted, err := s.grant(db, userID, def)
		if err != nil {
			return unlocked, fmt.Errorf("grant %s: %w", def.Slug, err)
		}
		if granted {
			unlocked = append(unlocked, Unlock{AchievementID: def.ID, Slug: def.Slug, Name: def.Name, XPReward: def.XPReward})
		}
	}
	if len(unlocked) > 0 {
		log.Printf("user %d unlocked %d achievement(s)", userID, len(unlocked))
	}
	return unlocked, nil
}

// grant inserts the unlock row and adds the reward in one transaction. A
// concurrent pass that got there first makes the insert a no-op, and then no
// XP is added.
func (s *Service) grant(db *gorm.DB, userID uint, def catalog.Definition) (bool, error) {
	granted := false
	err := db.Transaction(func(tx *gorm.DB) error {
		res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&models.UserAchievement{
			UserID:        userID,
			AchievementID: def.ID,
			UnlockedAt:    time.Now(),
			XPAwarded:     def.XPReward,
		})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		if err := tx.Model(&models.User{}).Where("id = ?", userID).
			UpdateColumn("total_xp", gorm.Expr("total_xp + ?", def.XPReward)).Error; err != nil {
			return err
		}
		granted = true
		return tx.Create(&models.Notification{
			UserID:  userID,
			Type:    models.NotificationAchievementUnlocked,
			Message: fmt.Sprintf("Achievement unlocked: %s (+%d XP)", def.Name, def.XPReward),
		}).Error
	})
	return granted, err
}

// RevokeSingleAchievement deletes the user's unlock and subtracts exactly the
// reward it granted, even if the catalog reward changed since. It returns the
// XP removed.
func (s *Service) RevokeSingleAchievement(ctx context.Context, userID, achievementID uint) (int, error) {
	var reward int
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var ua models.UserAchievement
		err := tx.Where("user_id = ? AND achievement_id = ?", userID, achievementID).
			First(&ua).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotUnlocked
		}
		if err != nil {
			return err
		}

		res := tx.Where("id = ?", ua.ID).Delete(&models.UserAchievement{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotUnlocked
		}

		reward = ua.XPAwarded
		return tx.Model(&models.User{}).Where("id = ?", userID).
			UpdateColumn("total_xp", gorm.Expr("total_xp - ?", reward)).Error
	})
	if err != nil {
		return 0, err
	}
	return reward, nil
}

// ListUnlocked returns the user's unlocks, newest first.
func (s *Service) ListUnlocked(ctx context.Context, userID uint) ([]models.UserAchievement, error) {
	var out []models.UserAchievement
	err := s.db.WithContext(ctx).Preload("Achievement").
		Where("user_id = ?", userID).
		Order("unlocked_at DESC").
		Find(&out).Error
	return out, err
}

func (s *Service) loadHistory(db *gorm.DB, userID uint) (History, error) {
	var h History

	var challenges []models.ChallengeLog
	if err := db.Select("map_id", "challenge_type", "round_reached", "is_verified").
		Where("user_id = ?", userID).Find(&challenges).Error; err != nil {
		return h, fmt.Errorf("load challenge logs: %w", err)
	}
	for _, l := range challenges {
		h.Challenges = append(h.Challenges, ChallengeRun{
			MapID:         l.MapID,
			ChallengeType: l.ChallengeType,
			Round:         l.RoundReached,
			Verified:      l.IsVerified,
		})
	}

	var eggs []models.EasterEggLog
	if err := db.Select("easter_egg_id", "is_solo", "is_verified").
		Where("user_id = ?", userID).Find(&eggs).Error; err != nil {
		return h, fmt.Errorf("load easter egg logs: %w", err)
	}
	for _, l := range eggs {
		h.EasterEggs = append(h.EasterEggs, EasterEggRun{EasterEggID: l.EasterEggID, Solo: l.IsSolo, Verified: l.IsVerified})
	}
	return h, nil
}
