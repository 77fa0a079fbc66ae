// Package testutil opens throwaway databases for package tests.
package testutil

import (
	"fmt"
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"roundtracker/backend/internal/database"
	"roundtracker/backend/internal/models"
)

// NewDB returns a migrated in-memory SQLite database private to t. A single
// connection keeps the in-memory database alive and serialises transactions.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()

	db, err := database.Open(sqlite.Open(":memory:"), nil)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// CreateUser inserts a user with the given nickname.
func CreateUser(t testing.TB, db *gorm.DB, nickname string) models.User {
	t.Helper()
	u := models.User{Nickname: nickname, MysteryBoxTokens: models.MaxMysteryBoxTokens}
	if err := db.Create(&u).Error; err != nil {
		t.Fatalf("create user %s: %v", nickname, err)
	}
	return u
}

// MakeFriends stores an accepted relation between a and b.
func MakeFriends(t testing.TB, db *gorm.DB, a, b uint) {
	t.Helper()
	rel := models.UserRelation{FromUserID: a, ToUserID: b, Status: models.StatusAccepted}
	if err := db.Create(&rel).Error; err != nil {
		t.Fatalf("make friends %d/%d: %v", a, b, err)
	}
}

// CreateMap inserts a game with a single map and returns the map.
func CreateMap(t testing.TB, db *gorm.DB, slug string, roundCap int) models.Map {
	t.Helper()
	g := models.Game{Slug: "game-" + slug, Name: "Game " + slug}
	if err := db.Create(&g).Error; err != nil {
		t.Fatalf("create game: %v", err)
	}
	m := models.Map{GameID: g.ID, Slug: slug, Name: fmt.Sprintf("Map %s", slug), RoundCap: roundCap}
	if err := db.Create(&m).Error; err != nil {
		t.Fatalf("create map: %v", err)
	}
	return m
}

// Reload fetches a fresh copy of user id.
func Reload(t testing.TB, db *gorm.DB, id uint) models.User {
	t.Helper()
	var u models.User
	if err := db.First(&u, id).Error; err != nil {
		t.Fatalf("reload user %d: %v", id, err)
	}
	return u
}
