// Package leaderboard ranks players per map and by total XP.
package leaderboard

import (
	"context"

	"gorm.io/gorm"

	"roundtracker/backend/internal/apperr"
	"roundtracker/backend/internal/catalog"
	"roundtracker/backend/internal/models"
	"roundtracker/backend/internal/progression"
)

const (
	DefaultLimit = 25
	MaxLimit     = 100
)

var (
	ErrMapNotFound          = apperr.NotFound("MAP_NOT_FOUND", "Unknown map")
	ErrInvalidChallengeType = apperr.Invalid("INVALID_CHALLENGE_TYPE", "Unknown challenge type")
)

type Service struct {
	db  *gorm.DB
	cat *catalog.Catalog
}

func NewService(db *gorm.DB, cat *catalog.Catalog) *Service {
	return &Service{db: db, cat: cat}
}

// Window is a page request. Out of range values are clamped.
type Window struct {
	Page  int
	Limit int
}

func (w Window) normalize() Window {
	if w.Page < 1 {
		w.Page = 1
	}
	if w.Limit < 1 {
		w.Limit = DefaultLimit
	}
	if w.Limit > MaxLimit {
		w.Limit = MaxLimit
	}
	return w
}

func (w Window) offset() int { return (w.Page - 1) * w.Limit }

// MapQuery selects one map board. PlayerCount 0 means any party size.
type MapQuery struct {
	MapSlug       string
	ChallengeType progression.ChallengeType
	PlayerCount   int
	VerifiedOnly  bool
	Window
}

// MapEntry is a user's best run on the board.
type MapEntry struct {
	Rank              int    `json:"rank"`
	LogID             uint   `json:"log_id"`
	UserID            uint   `json:"user_id"`
	Nickname          string `json:"nickname"`
	RoundReached      int    `json:"round_reached"`
	CompletionSeconds *int   `json:"completion_seconds,omitempty"`
	PlayerCount       int    `json:"player_count"`
	IsVerified        bool   `json:"is_verified"`
	IsViewer          bool   `json:"is_viewer,omitempty" gorm:"-"`
}

// Board is one page of ranked entries.
type Board[T any] struct {
	Entries []T
	Total   int64
	Window  Window
}

// MapBoard ranks each user's best run on a map. Round-based types rank by
// round reached, speedruns by completion time. Ties go to the earlier run.
func (s *Service) MapBoard(ctx context.Context, q MapQuery) (*Board[MapEntry], error) {
	if q.ChallengeType == "" {
		q.ChallengeType = progression.ChallengeHighestRound
	}
	if !q.ChallengeType.Valid() {
		return nil, ErrInvalidChallengeType
	}
	m, ok := s.cat.Map(q.MapSlug)
	if !ok {
		return nil, ErrMapNotFound
	}
	w := q.normalize()

	order := "round_reached DESC, created_at ASC, id ASC"
	outer := "best.round_reached DESC, best.created_at ASC, best.id ASC"
	if q.ChallengeType.IsSpeedrun() {
		order = "completion_seconds ASC, created_at ASC, id ASC"
		outer = "best.completion_seconds ASC, best.created_at ASC, best.id ASC"
	}

	db := s.db.WithContext(ctx)
	runs := db.Model(&models.ChallengeLog{}).
		Select("challenge_logs.*, ROW_NUMBER() OVER (PARTITION BY user_id ORDER BY "+order+") AS rn").
		Where("map_id = ? AND challenge_type = ?", m.ID, q.ChallengeType)
	if q.ChallengeType.IsSpeedrun() {
		runs = runs.Where("completion_seconds IS NOT NULL")
	}
	if q.PlayerCount > 0 {
		runs = runs.Where("player_count = ?", q.PlayerCount)
	}
	if q.VerifiedOnly {
		runs = runs.Where("is_verified = ?", true)
	}

	best := func() *gorm.DB {
		return db.Table("(?) AS best", runs).
			Joins("JOIN users ON users.id = best.user_id AND users.deleted_at IS NULL").
			Where("best.rn = 1")
	}

	board := &Board[MapEntry]{Entries: []MapEntry{}, Window: w}
	if err := best().Count(&board.Total).Error; err != nil {
		return nil, err
	}
	if err := best().
		Select("best.id AS log_id, best.user_id, users.nickname, best.round_reached, best.completion_seconds, best.player_count, best.is_verified").
		Order(outer).Offset(w.offset()).Limit(w.Limit).
		Scan(&board.Entries).Error; err != nil {
		return nil, err
	}
	for i := range board.Entries {
		board.Entries[i].Rank = w.offset() + i + 1
	}
	return board, nil
}

// XPEntry is a user's position on the XP board.
type XPEntry struct {
	Rank     int    `json:"rank"`
	UserID   uint   `json:"user_id"`
	Nickname string `json:"nickname"`
	XP       int    `json:"xp"`
	Level    int    `json:"level"`
	Title    string `json:"title"`
}

// XPBoard ranks users by total XP, or by verified XP when verifiedOnly is set.
func (s *Service) XPBoard(ctx context.Context, verifiedOnly bool, win Window) (*Board[XPEntry], error) {
	w := win.normalize()
	column := "total_xp"
	if verifiedOnly {
		column = "verified_total_xp"
	}

	db := s.db.WithContext(ctx)
	board := &Board[XPEntry]{Entries: []XPEntry{}, Window: w}
	if err := db.Model(&models.User{}).Count(&board.Total).Error; err != nil {
		return nil, err
	}

	var users []models.User
	if err := db.Select("id", "nickname", column).
		Order(column + " DESC, id ASC").
		Offset(w.offset()).Limit(w.Limit).
		Find(&users).Error; err != nil {
		return nil, err
	}
	for i, u := range users {
		xp := u.TotalXP
		if verifiedOnly {
			xp = u.VerifiedTotalXP
		}
		info := progression.LevelFromXP(xp)
		board.Entries = append(board.Entries, XPEntry{
			Rank:     w.offset() + i + 1,
			UserID:   u.ID,
			Nickname: u.Nickname,
			XP:       xp,
			Level:    info.Level,
			Title:    info.Rank,
		})
	}
	return board, nil
}
