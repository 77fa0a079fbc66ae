package handler

import (
	"fmt"
	"net/http"

	"roundtracker/backend/internal/apperr"
	"roundtracker/backend/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

var (
	errSelfRequest      = apperr.Invalid("CANNOT_FRIEND_SELF", "Cannot send request to yourself")
	errRelationExists   = apperr.Conflict("RELATION_EXISTS", "A request or friendship already exists")
	errRequestNotFound  = apperr.NotFound("REQUEST_NOT_FOUND", "Pending request not found")
	errRelationNotFound = apperr.NotFound("RELATION_NOT_FOUND", "Relation not found to remove")
	errBadDirection     = apperr.Invalid("INVALID_DIRECTION", "direction must be incoming or outgoing")
)

// GetRelations godoc
// @Summary      Get user relations
// @Description  Fetches the caller's relations, optionally filtered by status and direction.
// @Tags         friendship
// @Produce      json
// @Security     BearerAuth
// @Param        status    query     string  false  "Filter by status (pending, accepted)"
// @Param        direction query     string  false  "Filter by direction (incoming, outgoing)"
// @Success      200       {array}   PublicUserResponse
// @Failure      400       {object}  ErrorResponse
// @Failure      401       {object}  ErrorResponse
// @Router       /users/me/relations [get]
func (h *Handler) GetRelations(c *gin.Context) {
	viewerID := currentUserID(c)
	direction := c.Query("direction")

	query := h.DB.WithContext(c.Request.Context())
	switch direction {
	case "incoming":
		query = query.Where("to_user_id = ?", viewerID).Preload("FromUser")
	case "outgoing":
		query = query.Where("from_user_id = ?", viewerID).Preload("ToUser")
	case "":
		query = query.Where("from_user_id = ? OR to_user_id = ?", viewerID, viewerID).
			Preload("FromUser").Preload("ToUser")
	default:
		respondError(c, errBadDirection)
		return
	}
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var relations []models.UserRelation
	if err := query.Order("updated_at DESC").Find(&relations).Error; err != nil {
		respondError(c, err)
		return
	}

	responses := []PublicUserResponse{}
	for _, r := range relations {
		// The user in the relation that is NOT the viewer
		other := r.FromUser
		if r.FromUserID == viewerID {
			other = r.ToUser
		}
		if other.ID == 0 {
			continue
		}
		responses = append(responses, h.buildPublicUserResponse(c, other, viewerID))
	}

	c.JSON(http.StatusOK, responses)
}

// SendRequest godoc
// @Summary      Send friend request
// @Description  Sends a friend request to another user. A pending request in the other direction is accepted instead.
// @Tags         friendship
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Target User ID"
// @Success      201  {object}  MessageResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse "Target user not found"
// @Failure      409  {object}  ErrorResponse "Relation already exists"
// @Router       /users/{id}/request [post]
func (h *Handler) SendRequest(c *gin.Context) {
	viewerID := currentUserID(c)
	targetID, ok := pathID(c, "id")
	if !ok {
		return
	}
	if viewerID == targetID {
		respondError(c, errSelfRequest)
		return
	}

	accepted := false
	err := h.DB.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		var users []models.User
		if err := tx.Select("id", "nickname").Find(&users, []uint{viewerID, targetID}).Error; err != nil {
			return err
		}
		if len(users) != 2 {
			return errUserNotFound
		}

		var existing []models.UserRelation
		if err := tx.Where("(from_user_id = ? AND to_user_id = ?) OR (from_user_id = ? AND to_user_id = ?)",
			viewerID, targetID, targetID, viewerID).Find(&existing).Error; err != nil {
			return err
		}
		for _, r := range existing {
			if r.FromUserID == targetID && r.Status == models.StatusPending {
				accepted = true
				return tx.Model(&r).Update("status", models.StatusAccepted).Error
			}
		}
		if len(existing) > 0 {
			return errRelationExists
		}

		if err := tx.Create(&models.UserRelation{FromUserID: viewerID, ToUserID: targetID, Status: models.StatusPending}).Error; err != nil {
			return err
		}
		sender := users[0]
		if sender.ID != viewerID {
			sender = users[1]
		}
		return tx.Create(&models.Notification{
			UserID:  targetID,
			Type:    models.NotificationFriendRequest,
			ActorID: &viewerID,
			Message: fmt.Sprintf("%s sent you a friend request", sender.Nickname),
		}).Error
	})
	if err != nil {
		respondError(c, err)
		return
	}

	if accepted {
		c.JSON(http.StatusOK, MessageResponse{Message: "Request accepted"})
		return
	}
	c.JSON(http.StatusCreated, MessageResponse{Message: "Request sent successfully"})
}

// AcceptRequest godoc
// @Summary      Accept friend request
// @Description  Accepts a pending friend request from another user.
// @Tags         friendship
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Requesting User ID"
// @Success      200  {object}  MessageResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse "Request not found"
// @Router       /users/{id}/accept [post]
func (h *Handler) AcceptRequest(c *gin.Context) {
	requesterID, ok := pathID(c, "id")
	if !ok {
		return
	}

	res := h.DB.WithContext(c.Request.Context()).Model(&models.UserRelation{}).
		Where("from_user_id = ? AND to_user_id = ? AND status = ?", requesterID, currentUserID(c), models.StatusPending).
		Update("status", models.StatusAccepted)
	if res.Error != nil {
		respondError(c, res.Error)
		return
	}
	if res.RowsAffected == 0 {
		respondError(c, errRequestNotFound)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "Request accepted"})
}

// DeclineRequest godoc
// @Summary      Decline friend request
// @Description  Declines a pending friend request from another user.
// @Tags         friendship
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Requesting User ID"
// @Success      200  {object}  MessageResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse "Request not found"
// @Router       /users/{id}/decline [post]
func (h *Handler) DeclineRequest(c *gin.Context) {
	requesterID, ok := pathID(c, "id")
	if !ok {
		return
	}

	res := h.DB.WithContext(c.Request.Context()).
		Where("from_user_id = ? AND to_user_id = ? AND status = ?", requesterID, currentUserID(c), models.StatusPending).
		Delete(&models.UserRelation{})
	if res.Error != nil {
		respondError(c, res.Error)
		return
	}
	if res.RowsAffected == 0 {
		respondError(c, errRequestNotFound)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "Request declined"})
}

// RemoveRelation godoc
// @Summary      Remove relation
// @Description  Cancels a sent request, or removes a user from friends.
// @Tags         friendship
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Target User ID"
// @Success      200  {object}  MessageResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse "Relation not found"
// @Router       /users/{id}/remove [post]
func (h *Handler) RemoveRelation(c *gin.Context) {
	viewerID := currentUserID(c)
	targetID, ok := pathID(c, "id")
	if !ok {
		return
	}

	// An outgoing request of either status, or a friendship in either direction.
	res := h.DB.WithContext(c.Request.Context()).
		Where("(from_user_id = ? AND to_user_id = ?) OR (from_user_id = ? AND to_user_id = ? AND status = ?)",
			viewerID, targetID, targetID, viewerID, models.StatusAccepted).
		Delete(&models.UserRelation{})
	if res.Error != nil {
		respondError(c, res.Error)
		return
	}
	if res.RowsAffected == 0 {
		respondError(c, errRelationNotFound)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "Relation removed"})
}
