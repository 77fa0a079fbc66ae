package runlog

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"roundtracker/backend/internal/achievement"
	"roundtracker/backend/internal/models"
)

// VerifyResult is returned by the admin verify operations.
type VerifyResult struct {
	LogID      uint                 `json:"log_id"`
	UserID     uint                 `json:"user_id"`
	XPVerified int                  `json:"xp_verified"`
	Unlocked   []achievement.Unlock `json:"unlocked"`
}

// VerifyChallengeLog marks a challenge log verified by adminID and adds its
// XP to the owner's verified total.
func (s *Service) VerifyChallengeLog(ctx context.Context, adminID, logID uint) (*VerifyResult, error) {
	return s.verify(ctx, &models.ChallengeLog{}, adminID, logID)
}

// VerifyEasterEggLog is VerifyChallengeLog for Easter egg logs.
func (s *Service) VerifyEasterEggLog(ctx context.Context, adminID, logID uint) (*VerifyResult, error) {
	return s.verify(ctx, &models.EasterEggLog{}, adminID, logID)
}

// verify works on either log model; both share the verification columns.
func (s *Service) verify(ctx context.Context, model any, adminID, logID uint) (*VerifyResult, error) {
	result := &VerifyResult{LogID: logID}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row struct {
			UserID     uint
			XPAwarded  int
			IsVerified bool
		}
		res := tx.Model(model).Clauses(clause.Locking{Strength: "UPDATE"}).
			Select("user_id", "xp_awarded", "is_verified").
			Where("id = ?", logID).Limit(1).Find(&row)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrLogNotFound
		}
		if row.IsVerified {
			return ErrAlreadyVerified
		}

		upd := tx.Model(model).Where("id = ? AND is_verified = ?", logID, false).Updates(map[string]any{
			"is_verified":    true,
			"verified_at":    now(),
			"verified_by_id": adminID,
		})
		if upd.Error != nil {
			return upd.Error
		}
		if upd.RowsAffected == 0 {
			return ErrAlreadyVerified
		}

		result.UserID = row.UserID
		result.XPVerified = row.XPAwarded
		return addXP(tx, row.UserID, "verified_total_xp", row.XPAwarded)
	})
	if err != nil {
		return nil, err
	}

	result.Unlocked = s.checkAchievements(ctx, result.UserID)
	return result, nil
}

// RecomputeVerifiedXP sets the user's verified total to the XP of their
// verified logs and returns it.
func (s *Service) RecomputeVerifiedXP(ctx context.Context, userID uint) (int, error) {
	var total int
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockUser(tx, userID); err != nil {
			return err
		}

		var challenges, eggs int
		if err := tx.Model(&models.ChallengeLog{}).
			Where("user_id = ? AND is_verified = ?", userID, true).
			Select("COALESCE(SUM(xp_awarded), 0)").Scan(&challenges).Error; err != nil {
			return fmt.Errorf("sum verified challenge xp: %w", err)
		}
		if err := tx.Model(&models.EasterEggLog{}).
			Where("user_id = ? AND is_verified = ?", userID, true).
			Select("COALESCE(SUM(xp_awarded), 0)").Scan(&eggs).Error; err != nil {
			return fmt.Errorf("sum verified easter egg xp: %w", err)
		}

		total = challenges + eggs
		return tx.Model(&models.User{}).Where("id = ?", userID).
			UpdateColumn("verified_total_xp", total).Error
	})
	if err != nil {
		return 0, err
	}
	return total, nil
}
