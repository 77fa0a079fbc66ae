package mysterybox

import (
	"context"
	"time"

	"gorm.io/gorm"

	"roundtracker/backend/internal/models"
	"roundtracker/backend/internal/progression"
)

type rollPayload struct {
	RollID        uint                      `json:"roll_id"`
	MapSlug       string                    `json:"map_slug"`
	ChallengeType progression.ChallengeType `json:"challenge_type"`
}

// Spin spends one of the host's tokens on a random (map, challenge type) roll.
func (s *Service) Spin(ctx context.Context, hostID uint) (*models.MysteryBoxRoll, error) {
	var roll *models.MysteryBoxRoll
	err := s.transact(ctx, func(tx *gorm.DB, out *outbox) error {
		l, err := ensureHostLobby(tx, hostID)
		if err != nil {
			return err
		}
		active, err := activeRoll(tx, l)
		if err != nil {
			return err
		}
		if active != nil {
			return ErrRollActive
		}
		roll, err = s.spinRoll(tx, l, out)
		return err
	})
	if err != nil {
		return nil, err
	}
	return roll, nil
}

// spinRoll consumes a host token and attaches a fresh roll to l. The token
// decrement is conditional so the balance never goes negative.
func (s *Service) spinRoll(tx *gorm.DB, l *models.MysteryBoxLobby, out *outbox) (*models.MysteryBoxRoll, error) {
	maps := s.cat.Maps()
	if len(maps) == 0 {
		return nil, ErrNoMaps
	}

	res := tx.Model(&models.User{}).
		Where("id = ? AND mystery_box_tokens > 0", l.HostID).
		UpdateColumn("mystery_box_tokens", gorm.Expr("mystery_box_tokens - 1"))
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrNoTokens
	}

	m := maps[s.intn(len(maps))]
	types := progression.ChallengeTypes()
	roll := &models.MysteryBoxRoll{
		LobbyID:       l.ID,
		MapID:         m.ID,
		ChallengeType: types[s.intn(len(types))],
	}
	if err := tx.Create(roll).Error; err != nil {
		return nil, err
	}
	if err := tx.Model(&models.MysteryBoxLobby{}).Where("id = ?", l.ID).Update("current_roll_id", roll.ID).Error; err != nil {
		return nil, err
	}
	l.CurrentRollID = &roll.ID

	out.add(l.ID, EventRollSpun, rollPayload{RollID: roll.ID, MapSlug: m.Slug, ChallengeType: roll.ChallengeType})
	return roll, nil
}

// CompleteRoll marks the active roll of the lobby hostID hosts as completed
// when the logged run matches it. The roll is kept as history and the lobby
// returns to EMPTY. It reports whether a roll was completed.
func (s *Service) CompleteRoll(ctx context.Context, hostID uint, run models.ChallengeLog) (bool, error) {
	completed := false
	err := s.transact(ctx, func(tx *gorm.DB, out *outbox) error {
		l, err := hostedLobby(tx, hostID)
		if err != nil || l == nil {
			return err
		}
		roll, err := activeRoll(tx, l)
		if err != nil || roll == nil {
			return err
		}
		if roll.MapID != run.MapID || roll.ChallengeType != run.ChallengeType {
			return nil
		}

		now := time.Now()
		logID := run.ID
		if err := tx.Model(roll).Updates(map[string]any{
			"completed_by_host": true,
			"completed_at":      &now,
			"challenge_log_id":  &logID,
		}).Error; err != nil {
			return err
		}
		if _, err := cancelVote(tx, l.ID); err != nil {
			return err
		}
		if err := tx.Model(&models.MysteryBoxLobby{}).Where("id = ?", l.ID).Update("current_roll_id", nil).Error; err != nil {
			return err
		}

		completed = true
		out.add(l.ID, EventRollCompleted, struct {
			RollID         uint `json:"roll_id"`
			ChallengeLogID uint `json:"challenge_log_id"`
		}{roll.ID, run.ID})
		return nil
	})
	return completed, err
}

// RefillTokens gives every user below the cap one token back.
func RefillTokens(ctx context.Context, db *gorm.DB) (int64, error) {
	res := db.WithContext(ctx).Model(&models.User{}).
		Where("mystery_box_tokens < ?", models.MaxMysteryBoxTokens).
		UpdateColumn("mystery_box_tokens", gorm.Expr("mystery_box_tokens + 1"))
	return res.RowsAffected, res.Error
}
