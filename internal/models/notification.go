package models

import "time"

// NotificationType names what a notification is about.
type NotificationType string

const (
	NotificationLobbyInvite         NotificationType = "MYSTERY_BOX_INVITE"
	NotificationFriendRequest       NotificationType = "FRIEND_REQUEST"
	NotificationAchievementUnlocked NotificationType = "ACHIEVEMENT_UNLOCKED"
	NotificationDirectMessage       NotificationType = "DIRECT_MESSAGE"
)

// Notification is an inbox entry. Lobby invites are deleted when accepted or
// declined.
type Notification struct {
	ID        uint             `gorm:"primaryKey"`
	UserID    uint             `gorm:"not null;index"`
	Type      NotificationType `gorm:"size:40;not null;index"`
	ActorID   *uint
	LobbyID   *uint  `gorm:"index"`
	Message   string `gorm:"size:512"`
	ReadAt    *time.Time
	CreatedAt time.Time

	Actor *User `gorm:"foreignKey:ActorID"`
}
