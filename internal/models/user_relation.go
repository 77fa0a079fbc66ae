package models

import (
	"time"

	"gorm.io/gorm"
)

// FriendshipStatus defines the state of a relationship between two users.
type FriendshipStatus string

const (
	// StatusPending means a friend request has been sent but not yet accepted.
	StatusPending FriendshipStatus = "pending"

	// StatusAccepted means the request was accepted and the users are friends.
	StatusAccepted FriendshipStatus = "accepted"
)

// UserRelation is a directed request row keyed by (FromUserID, ToUserID).
// Accepting flips the single row to accepted, so friendship is symmetric on read.
type UserRelation struct {
	FromUserID uint             `gorm:"primaryKey"`
	ToUserID   uint             `gorm:"primaryKey"`
	Status     FriendshipStatus `gorm:"type:varchar(20);not null"`
	CreatedAt  time.Time
	UpdatedAt  time.Time

	FromUser User `gorm:"foreignKey:FromUserID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	ToUser   User `gorm:"foreignKey:ToUserID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

// AreFriends reports whether a and b share an accepted relation in either direction.
func AreFriends(db *gorm.DB, a, b uint) (bool, error) {
	var count int64
	err := db.Model(&UserRelation{}).
		Where("status = ?", StatusAccepted).
		Where("(from_user_id = ? AND to_user_id = ?) OR (from_user_id = ? AND to_user_id = ?)", a, b, b, a).
		Count(&count).Error
	return count > 0, err
}
