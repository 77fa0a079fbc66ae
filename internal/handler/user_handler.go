package handler

import (
	"net/http"
	"strings"
	"time"

	"roundtracker/backend/internal/apperr"
	"roundtracker/backend/internal/models"
	"roundtracker/backend/internal/progression"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

var (
	errUserNotFound  = apperr.NotFound("USER_NOT_FOUND", "User not found")
	errNicknameTaken = apperr.Conflict("NICKNAME_TAKEN", "That nickname is already taken")
)

// region --- DTOs ---

// ProfileInput provisions or renames the caller's profile.
type ProfileInput struct {
	Nickname string `json:"nickname" binding:"required,min=3,max=32" example:"MoonRunner"`
}

// PublicUserResponse defines the structure for a user's public profile.
type PublicUserResponse struct {
	ID              uint                     `json:"id" example:"1"`
	Nickname        string                   `json:"nickname" example:"MoonRunner"`
	TotalXP         int                      `json:"total_xp"`
	VerifiedTotalXP int                      `json:"verified_total_xp"`
	Level           progression.LevelInfo    `json:"level"`
	FriendsCount    int64                    `json:"friends_count"`
	RelationToMe    *models.FriendshipStatus `json:"relation_to_me,omitempty"`
	MeToRelation    *models.FriendshipStatus `json:"me_to_relation,omitempty"`
	CreatedAt       time.Time                `json:"created_at"`
}

// PrivateUserResponse defines the structure for the authenticated user's own profile.
type PrivateUserResponse struct {
	PublicUserResponse
	Role             string `json:"role" example:"user"`
	MysteryBoxTokens int    `json:"mystery_box_tokens" example:"3"`
	MaxTokens        int    `json:"max_tokens" example:"3"`
}

// endregion

// region --- User Handlers ---

// UpsertMe godoc
// @Summary      Provision the current user's profile
// @Description  Creates the profile for the token's subject on first call, renames it afterwards.
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input body ProfileInput true "Profile"
// @Success      200  {object}  PrivateUserResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      409  {object}  ErrorResponse "Nickname taken"
// @Router       /users/me [put]
func (h *Handler) UpsertMe(c *gin.Context) {
	var input ProfileInput
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err)
		return
	}
	userID := currentUserID(c)
	nickname := strings.TrimSpace(input.Nickname)

	var user models.User
	err := h.DB.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		var taken int64
		if err := tx.Model(&models.User{}).
			Where("LOWER(nickname) = LOWER(?) AND id <> ?", nickname, userID).
			Count(&taken).Error; err != nil {
			return err
		}
		if taken > 0 {
			return errNicknameTaken
		}

		err := tx.First(&user, userID).Error
		if isRecordNotFound(err) {
			user = models.User{Nickname: nickname, Role: "user", MysteryBoxTokens: models.MaxMysteryBoxTokens}
			user.ID = userID
			return tx.Create(&user).Error
		}
		if err != nil {
			return err
		}
		if err := tx.Model(&user).Update("nickname", nickname).Error; err != nil {
			return err
		}
		user.Nickname = nickname
		return nil
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, h.buildPrivateUserResponse(c, user))
}

// GetMe godoc
// @Summary      Get current user's info
// @Description  Retrieves the private profile for the currently authenticated user.
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  PrivateUserResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /users/me [get]
func (h *Handler) GetMe(c *gin.Context) {
	var user models.User
	if err := h.DB.WithContext(c.Request.Context()).First(&user, currentUserID(c)).Error; err != nil {
		respondError(c, userLookupError(err))
		return
	}

	c.JSON(http.StatusOK, h.buildPrivateUserResponse(c, user))
}

// GetUserByID godoc
// @Summary      Get user by ID
// @Description  Retrieves the public profile for a specific user by their ID, including relationship data.
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "User ID"
// @Success      200  {object}  PublicUserResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /users/{id} [get]
func (h *Handler) GetUserByID(c *gin.Context) {
	targetID, ok := pathID(c, "id")
	if !ok {
		return
	}

	// If target is the same as viewer, answer as /me
	if targetID == currentUserID(c) {
		h.GetMe(c)
		return
	}

	var target models.User
	if err := h.DB.WithContext(c.Request.Context()).First(&target, targetID).Error; err != nil {
		respondError(c, userLookupError(err))
		return
	}

	c.JSON(http.StatusOK, h.buildPublicUserResponse(c, target, currentUserID(c)))
}

// SearchUsers godoc
// @Summary      Search for users
// @Description  Searches for users by nickname with pagination. The caller is left out.
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        q     query     string  false  "Search query for nickname"
// @Param        page  query     int     false  "Page number" default(1)
// @Param        limit query     int     false  "Items per page" default(10)
// @Success      200   {object}  PaginatedResponse[PublicUserResponse]
// @Failure      401   {object}  ErrorResponse
// @Router       /users [get]
func (h *Handler) SearchUsers(c *gin.Context) {
	viewerID := currentUserID(c)
	page, limit := pageParams(c, defaultPageSize)

	query := h.DB.WithContext(c.Request.Context()).Where("id <> ?", viewerID).Order("nickname")
	if q := strings.TrimSpace(c.Query("q")); q != "" {
		query = query.Where("LOWER(nickname) LIKE ?", "%"+strings.ToLower(q)+"%")
	}

	users, err := Paginate[models.User](query, page, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	responses := make([]PublicUserResponse, 0, len(users.Data))
	for _, u := range users.Data {
		responses = append(responses, h.buildPublicUserResponse(c, u, viewerID))
	}
	c.JSON(http.StatusOK, PaginatedResponse[PublicUserResponse]{Data: responses, Meta: users.Meta})
}

// endregion

// region --- Helpers ---

func userLookupError(err error) error {
	if isRecordNotFound(err) {
		return errUserNotFound
	}
	return err
}

func (h *Handler) friendsCount(c *gin.Context, userID uint) int64 {
	var n int64
	h.DB.WithContext(c.Request.Context()).Model(&models.UserRelation{}).
		Where("(from_user_id = ? OR to_user_id = ?) AND status = ?", userID, userID, models.StatusAccepted).
		Count(&n)
	return n
}

func (h *Handler) buildPublicUserResponse(c *gin.Context, target models.User, viewerID uint) PublicUserResponse {
	resp := PublicUserResponse{
		ID:              target.ID,
		Nickname:        target.Nickname,
		TotalXP:         target.TotalXP,
		VerifiedTotalXP: target.VerifiedTotalXP,
		Level:           progression.LevelFromXP(target.TotalXP),
		FriendsCount:    h.friendsCount(c, target.ID),
		CreatedAt:       target.CreatedAt,
	}
	if viewerID == 0 || viewerID == target.ID {
		return resp
	}

	db := h.DB.WithContext(c.Request.Context())
	var relationToMe, meToRelation models.UserRelation
	err := db.Where("from_user_id = ? AND to_user_id = ?", target.ID, viewerID).First(&relationToMe).Error
	if err == nil {
		resp.RelationToMe = &relationToMe.Status
	}
	err = db.Where("from_user_id = ? AND to_user_id = ?", viewerID, target.ID).First(&meToRelation).Error
	if err == nil {
		resp.MeToRelation = &meToRelation.Status
	}
	return resp
}

func (h *Handler) buildPrivateUserResponse(c *gin.Context, user models.User) PrivateUserResponse {
	return PrivateUserResponse{
		PublicUserResponse: h.buildPublicUserResponse(c, user, user.ID),
		Role:               user.Role,
		MysteryBoxTokens:   user.MysteryBoxTokens,
		MaxTokens:          models.MaxMysteryBoxTokens,
	}
}

// endregion
