package handler

import (
	"fmt"
	"net/http"
	"time"

	"roundtracker/backend/internal/apperr"
	"roundtracker/backend/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

var (
	errNotFriends           = apperr.Forbidden("NOT_FRIENDS", "You can only message friends")
	errNotificationNotFound = apperr.NotFound("NOTIFICATION_NOT_FOUND", "Notification not found")
)

// region --- DTOs ---

// MessageInput is a direct message body.
type MessageInput struct {
	Content string `json:"content" binding:"required,max=2000" example:"GG, again tomorrow?"`
}

type DirectMessageResponse struct {
	ID          uint       `json:"id"`
	SenderID    uint       `json:"sender_id"`
	RecipientID uint       `json:"recipient_id"`
	Content     string     `json:"content"`
	ReadAt      *time.Time `json:"read_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

func newDirectMessageResponse(m models.Message) DirectMessageResponse {
	return DirectMessageResponse{
		ID:          m.ID,
		SenderID:    m.SenderID,
		RecipientID: m.RecipientID,
		Content:     m.Content,
		ReadAt:      m.ReadAt,
		CreatedAt:   m.CreatedAt,
	}
}

type NotificationResponse struct {
	ID        uint                    `json:"id"`
	Type      models.NotificationType `json:"type"`
	ActorID   *uint                   `json:"actor_id,omitempty"`
	Actor     string                  `json:"actor,omitempty"`
	LobbyID   *uint                   `json:"lobby_id,omitempty"`
	Message   string                  `json:"message"`
	ReadAt    *time.Time              `json:"read_at,omitempty"`
	CreatedAt time.Time               `json:"created_at"`
}

func newNotificationResponse(n models.Notification) NotificationResponse {
	resp := NotificationResponse{
		ID:        n.ID,
		Type:      n.Type,
		ActorID:   n.ActorID,
		LobbyID:   n.LobbyID,
		Message:   n.Message,
		ReadAt:    n.ReadAt,
		CreatedAt: n.CreatedAt,
	}
	if n.Actor != nil {
		resp.Actor = n.Actor.Nickname
	}
	return resp
}

// endregion

// GetConversation godoc
// @Summary      Get a conversation
// @Description  Lists the messages between the caller and a friend, newest first, and marks the received ones read.
// @Tags         messages
// @Produce      json
// @Security     BearerAuth
// @Param        userID path      int  true   "Friend's user ID"
// @Param        page   query     int  false  "Page number" default(1)
// @Param        limit  query     int  false  "Items per page" default(10)
// @Success      200    {object}  PaginatedResponse[DirectMessageResponse]
// @Failure      403    {object}  ErrorResponse "Not friends"
// @Router       /messages/{userID} [get]
func (h *Handler) GetConversation(c *gin.Context) {
	viewerID := currentUserID(c)
	otherID, ok := pathID(c, "userID")
	if !ok {
		return
	}
	page, limit := pageParams(c, defaultPageSize)

	db := h.DB.WithContext(c.Request.Context())
	if err := requireFriend(db, viewerID, otherID); err != nil {
		respondError(c, err)
		return
	}

	query := db.Where("(sender_id = ? AND recipient_id = ?) OR (sender_id = ? AND recipient_id = ?)",
		viewerID, otherID, otherID, viewerID).Order("created_at DESC, id DESC")
	messages, err := Paginate[models.Message](query, page, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	now := time.Now()
	if err := db.Model(&models.Message{}).
		Where("sender_id = ? AND recipient_id = ? AND read_at IS NULL", otherID, viewerID).
		Update("read_at", &now).Error; err != nil {
		respondError(c, err)
		return
	}

	responses := make([]DirectMessageResponse, 0, len(messages.Data))
	for _, m := range messages.Data {
		responses = append(responses, newDirectMessageResponse(m))
	}
	c.JSON(http.StatusOK, PaginatedResponse[DirectMessageResponse]{Data: responses, Meta: messages.Meta})
}

// SendMessage godoc
// @Summary      Send a direct message
// @Description  Sends a message to a friend and leaves them a notification.
// @Tags         messages
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        userID path      int           true  "Friend's user ID"
// @Param        input  body      MessageInput  true  "Message"
// @Success      201    {object}  DirectMessageResponse
// @Failure      400    {object}  ErrorResponse
// @Failure      403    {object}  ErrorResponse "Not friends"
// @Router       /messages/{userID} [post]
func (h *Handler) SendMessage(c *gin.Context) {
	viewerID := currentUserID(c)
	otherID, ok := pathID(c, "userID")
	if !ok {
		return
	}
	var input MessageInput
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err)
		return
	}

	msg := models.Message{SenderID: viewerID, RecipientID: otherID, Content: input.Content}
	err := h.DB.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		if err := requireFriend(tx, viewerID, otherID); err != nil {
			return err
		}
		var sender models.User
		if err := tx.Select("id", "nickname").First(&sender, viewerID).Error; err != nil {
			return userLookupError(err)
		}
		if err := tx.Create(&msg).Error; err != nil {
			return err
		}
		return tx.Create(&models.Notification{
			UserID:  otherID,
			Type:    models.NotificationDirectMessage,
			ActorID: &viewerID,
			Message: fmt.Sprintf("New message from %s", sender.Nickname),
		}).Error
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, newDirectMessageResponse(msg))
}

// GetNotifications godoc
// @Summary      List notifications
// @Description  Lists the caller's notifications, newest first.
// @Tags         notifications
// @Produce      json
// @Security     BearerAuth
// @Param        unread query     bool  false  "Only unread notifications"
// @Param        page   query     int   false  "Page number" default(1)
// @Param        limit  query     int   false  "Items per page" default(10)
// @Success      200    {object}  PaginatedResponse[NotificationResponse]
// @Router       /notifications [get]
func (h *Handler) GetNotifications(c *gin.Context) {
	page, limit := pageParams(c, defaultPageSize)

	query := h.DB.WithContext(c.Request.Context()).Preload("Actor").
		Where("user_id = ?", currentUserID(c)).Order("created_at DESC, id DESC")
	if c.Query("unread") == "true" {
		query = query.Where("read_at IS NULL")
	}

	notifications, err := Paginate[models.Notification](query, page, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	responses := make([]NotificationResponse, 0, len(notifications.Data))
	for _, n := range notifications.Data {
		responses = append(responses, newNotificationResponse(n))
	}
	c.JSON(http.StatusOK, PaginatedResponse[NotificationResponse]{Data: responses, Meta: notifications.Meta})
}

// MarkNotificationRead godoc
// @Summary      Mark a notification read
// @Tags         notifications
// @Produce      json
// @Security     BearerAuth
// @Param        id  path      int  true  "Notification ID"
// @Success      200 {object}  MessageResponse
// @Failure      404 {object}  ErrorResponse
// @Router       /notifications/{id}/read [post]
func (h *Handler) MarkNotificationRead(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	db := h.DB.WithContext(c.Request.Context())
	var n models.Notification
	if err := db.Where("id = ? AND user_id = ?", id, currentUserID(c)).First(&n).Error; err != nil {
		if isRecordNotFound(err) {
			err = errNotificationNotFound
		}
		respondError(c, err)
		return
	}
	if n.ReadAt == nil {
		now := time.Now()
		if err := db.Model(&n).Update("read_at", &now).Error; err != nil {
			respondError(c, err)
			return
		}
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "Notification marked read"})
}

// requireFriend returns errNotFriends unless a and b are friends.
func requireFriend(db *gorm.DB, a, b uint) error {
	ok, err := models.AreFriends(db, a, b)
	if err != nil {
		return err
	}
	if !ok {
		return errNotFriends
	}
	return nil
}
