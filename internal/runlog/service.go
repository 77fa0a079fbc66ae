// Package runlog records challenge and Easter egg runs, awards their XP and
// handles admin verification.
package runlog

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"roundtracker/backend/internal/achievement"
	"roundtracker/backend/internal/apperr"
	"roundtracker/backend/internal/catalog"
	"roundtracker/backend/internal/models"
	"roundtracker/backend/internal/progression"
)

// MaxPlayers is the largest supported party size.
const MaxPlayers = 4

var (
	ErrUserNotFound      = apperr.NotFound("USER_NOT_FOUND", "User not found")
	ErrMapNotFound       = apperr.NotFound("MAP_NOT_FOUND", "Unknown map")
	ErrEasterEggNotFound = apperr.NotFound("EASTER_EGG_NOT_FOUND", "Unknown Easter egg")
	ErrLogNotFound       = apperr.NotFound("LOG_NOT_FOUND", "Log not found")
	ErrAlreadyVerified   = apperr.Conflict("ALREADY_VERIFIED", "This log is already verified")

	ErrInvalidChallengeType = apperr.Invalid("INVALID_CHALLENGE_TYPE", "Unknown challenge type")
	ErrInvalidRound         = apperr.Invalid("INVALID_ROUND", "Round must be at least 1")
	ErrInvalidPlayerCount   = apperr.Invalid("INVALID_PLAYER_COUNT", fmt.Sprintf("Player count must be between 1 and %d", MaxPlayers))
	ErrSpeedrunIncomplete   = apperr.Invalid("SPEEDRUN_INCOMPLETE", "A speedrun needs a completion time and must reach its target round")
)

// AchievementChecker evaluates achievements after a run is stored.
type AchievementChecker interface {
	CheckAllAchievements(ctx context.Context, userID uint, cat *catalog.Catalog) ([]achievement.Unlock, error)
}

// RollCompleter completes the mystery box roll a host's run matches.
type RollCompleter interface {
	CompleteRoll(ctx context.Context, hostID uint, run models.ChallengeLog) (bool, error)
}

type Service struct {
	db           *gorm.DB
	cat          *catalog.Catalog
	achievements AchievementChecker
	rolls        RollCompleter
}

// NewService wires the run log. rolls may be nil.
func NewService(db *gorm.DB, cat *catalog.Catalog, achievements AchievementChecker, rolls RollCompleter) *Service {
	return &Service{db: db, cat: cat, achievements: achievements, rolls: rolls}
}

type ChallengeInput struct {
	MapSlug           string
	ChallengeType     progression.ChallengeType
	RoundReached      int
	CompletionSeconds *int
	PlayerCount       int
	ProofURL          string
	Notes             string
}

func (in ChallengeInput) validate() error {
	if !in.ChallengeType.Valid() {
		return ErrInvalidChallengeType
	}
	if in.RoundReached < 1 {
		return ErrInvalidRound
	}
	if in.PlayerCount < 1 || in.PlayerCount > MaxPlayers {
		return ErrInvalidPlayerCount
	}
	if in.ChallengeType.IsSpeedrun() {
		if in.CompletionSeconds == nil || *in.CompletionSeconds <= 0 || in.RoundReached < in.ChallengeType.SpeedrunTarget() {
			return ErrSpeedrunIncomplete
		}
	}
	return nil
}

type ChallengeResult struct {
	Log           models.ChallengeLog  `json:"log"`
	XPGained      int                  `json:"xp_gained"`
	Unlocked      []achievement.Unlock `json:"unlocked"`
	RollCompleted bool                 `json:"roll_completed"`
}

// challengeXP is the award for improving the user's best on a (map, type)
// from prev to next. Only net progress earns XP.
func challengeXP(t progression.ChallengeType, prev, next, roundCap int) int {
	if t == progression.ChallengeHighestRound {
		return progression.CalculateXPGain(prev, next, roundCap)
	}
	clamp := func(r int) int {
		if roundCap > 0 && r > roundCap {
			return roundCap
		}
		return r
	}
	gain := progression.CalculateChallengeXP(t, clamp(next)) - progression.CalculateChallengeXP(t, clamp(prev))
	return max(0, gain)
}

// LogChallenge stores a run and adds its XP to the user's total in one
// transaction. Achievements and the host's mystery box roll are checked once
// the run is committed.
func (s *Service) LogChallenge(ctx context.Context, userID uint, in ChallengeInput) (*ChallengeResult, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	m, ok := s.cat.Map(in.MapSlug)
	if !ok {
		return nil, ErrMapNotFound
	}

	result := &ChallengeResult{}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockUser(tx, userID); err != nil {
			return err
		}

		var prevBest int
		if err := tx.Model(&models.ChallengeLog{}).
			Where("user_id = ? AND map_id = ? AND challenge_type = ?", userID, m.ID, in.ChallengeType).
			Select("COALESCE(MAX(round_reached), 0)").
			Scan(&prevBest).Error; err != nil {
			return fmt.Errorf("load best run: %w", err)
		}

		xp := challengeXP(in.ChallengeType, prevBest, in.RoundReached, m.RoundCap)
		result.Log = models.ChallengeLog{
			UserID:            userID,
			MapID:             m.ID,
			ChallengeType:     in.ChallengeType,
			RoundReached:      in.RoundReached,
			CompletionSeconds: in.CompletionSeconds,
			PlayerCount:       in.PlayerCount,
			ProofURL:          in.ProofURL,
			Notes:             in.Notes,
			XPAwarded:         xp,
		}
		if err := tx.Create(&result.Log).Error; err != nil {
			return err
		}
		result.XPGained = xp
		return addXP(tx, userID, "total_xp", xp)
	})
	if err != nil {
		return nil, err
	}

	if s.rolls != nil {
		done, err := s.rolls.CompleteRoll(ctx, userID, result.Log)
		if err != nil {
			log.Printf("complete mystery box roll for user %d: %v", userID, err)
		}
		result.RollCompleted = done
	}
	result.Unlocked = s.checkAchievements(ctx, userID)
	return result, nil
}

type EasterEggInput struct {
	EasterEggSlug     string
	PlayerCount       int
	NoGuide           bool
	CompletionSeconds *int
	ProofURL          string
}

type EasterEggResult struct {
	Log      models.EasterEggLog  `json:"log"`
	XPGained int                  `json:"xp_gained"`
	Unlocked []achievement.Unlock `json:"unlocked"`
}

// LogEasterEgg stores a completion. Only the user's first completion of an
// egg carries XP.
func (s *Service) LogEasterEgg(ctx context.Context, userID uint, in EasterEggInput) (*EasterEggResult, error) {
	if in.PlayerCount < 1 || in.PlayerCount > MaxPlayers {
		return nil, ErrInvalidPlayerCount
	}

	result := &EasterEggResult{}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockUser(tx, userID); err != nil {
			return err
		}

		var egg models.EasterEgg
		err := tx.Where("slug = ?", in.EasterEggSlug).First(&egg).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrEasterEggNotFound
		}
		if err != nil {
			return err
		}

		var prior int64
		if err := tx.Model(&models.EasterEggLog{}).
			Where("user_id = ? AND easter_egg_id = ?", userID, egg.ID).
			Count(&prior).Error; err != nil {
			return err
		}

		solo := in.PlayerCount == 1
		xp := 0
		if prior == 0 {
			xp = progression.CalculateEasterEggXP(egg.IsMainQuest(), solo, in.NoGuide)
		}
		result.Log = models.EasterEggLog{
			UserID:            userID,
			EasterEggID:       egg.ID,
			PlayerCount:       in.PlayerCount,
			IsSolo:            solo,
			NoGuide:           in.NoGuide,
			CompletionSeconds: in.CompletionSeconds,
			ProofURL:          in.ProofURL,
			XPAwarded:         xp,
		}
		if err := tx.Create(&result.Log).Error; err != nil {
			return err
		}
		result.Log.EasterEgg = &egg
		result.XPGained = xp
		return addXP(tx, userID, "total_xp", xp)
	})
	if err != nil {
		return nil, err
	}

	result.Unlocked = s.checkAchievements(ctx, userID)
	return result, nil
}

// checkAchievements runs the evaluator for a committed run. A failure here
// does not undo the run, so it is logged rather than returned.
func (s *Service) checkAchievements(ctx context.Context, userID uint) []achievement.Unlock {
	if s.achievements == nil {
		return []achievement.Unlock{}
	}
	unlocked, err := s.achievements.CheckAllAchievements(ctx, userID, s.cat)
	if err != nil {
		log.Printf("check achievements for user %d: %v", userID, err)
	}
	if unlocked == nil {
		unlocked = []achievement.Unlock{}
	}
	return unlocked
}

// History is a page of the user's runs, newest first.
type History struct {
	Challenges []models.ChallengeLog `json:"challenges"`
	EasterEggs []models.EasterEggLog `json:"easter_eggs"`
}

// ListLogs returns up to limit of the user's most recent runs of each kind.
func (s *Service) ListLogs(ctx context.Context, userID uint, limit int) (*History, error) {
	db := s.db.WithContext(ctx)
	h := &History{}
	if err := db.Preload("Map").Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").Limit(limit).
		Find(&h.Challenges).Error; err != nil {
		return nil, err
	}
	if err := db.Preload("EasterEgg").Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").Limit(limit).
		Find(&h.EasterEggs).Error; err != nil {
		return nil, err
	}
	return h, nil
}

func lockUser(tx *gorm.DB, userID uint) error {
	var u models.User
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Select("id").First(&u, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrUserNotFound
	}
	return err
}

func addXP(tx *gorm.DB, userID uint, column string, xp int) error {
	if xp == 0 {
		return nil
	}
	return tx.Model(&models.User{}).Where("id = ?", userID).
		UpdateColumn(column, gorm.Expr(column+" + ?", xp)).Error
}

func now() *time.Time {
	t := time.Now()
	return &t
}
