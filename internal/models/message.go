package models

import (
	"time"

	"gorm.io/gorm"
)

// Message is a direct message between two friends.
type Message struct {
	gorm.Model
	SenderID    uint   `gorm:"not null;index:idx_message_pair"`
	RecipientID uint   `gorm:"not null;index:idx_message_pair;index"`
	Content     string `gorm:"not null"`
	ReadAt      *time.Time

	Sender User `gorm:"foreignKey:SenderID"`
}
