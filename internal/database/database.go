package database

import (
	"log"
	"os"
	"time"

	"roundtracker/backend/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// Connect initializes the Postgres connection and runs migrations.
func Connect(dsn string) {
	db, err := Open(postgres.Open(dsn), newLogger(logger.Warn))
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Println("Database connection established.")

	if err := Migrate(db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	log.Println("Database migrated successfully.")

	DB = db
}

// Open opens a gorm handle on any dialector. Tests pass an in-memory SQLite one.
func Open(dialector gorm.Dialector, l logger.Interface) (*gorm.DB, error) {
	if l == nil {
		l = newLogger(logger.Silent)
	}
	return gorm.Open(dialector, &gorm.Config{
		Logger: l,
	})
}

// Migrate creates or updates every table the service owns.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.UserRelation{},
		&models.Message{},
		&models.Notification{},
		&models.Game{},
		&models.Map{},
		&models.EasterEgg{},
		&models.ChallengeLog{},
		&models.EasterEggLog{},
		&models.Achievement{},
		&models.UserAchievement{},
		&models.MysteryBoxRoll{},
		&models.MysteryBoxLobby{},
		&models.MysteryBoxLobbyMember{},
		&models.MysteryBoxDiscardVote{},
		&models.LfgPost{},
	)
}

func newLogger(level logger.LogLevel) logger.Interface {
	return logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  level,
			IgnoreRecordNotFoundError: true,
			Colorful:                  true,
		},
	)
}
