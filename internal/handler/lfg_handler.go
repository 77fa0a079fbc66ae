package handler

import (
	"net/http"
	"time"

	"roundtracker/backend/internal/apperr"
	"roundtracker/backend/internal/models"
	"roundtracker/backend/internal/progression"

	"github.com/gin-gonic/gin"
)

var (
	errPostNotFound        = apperr.NotFound("LFG_POST_NOT_FOUND", "Post not found")
	errNotPostHost         = apperr.Forbidden("NOT_POST_HOST", "Only the author can delete a post")
	errInvalidChallengeArg = apperr.Invalid("INVALID_CHALLENGE_TYPE", "Unknown challenge type")
)

// region --- DTOs ---

// LfgPostInput is a new looking-for-group listing.
type LfgPostInput struct {
	MapSlug       string                    `json:"map_slug" binding:"required" example:"kino-der-toten"`
	ChallengeType progression.ChallengeType `json:"challenge_type" example:"HIGHEST_ROUND"`
	Platform      string                    `json:"platform" binding:"max=50" example:"PC"`
	Description   string                    `json:"description" binding:"max=500"`
	PlayersNeeded int                       `json:"players_needed" binding:"required,min=1,max=3" example:"2"`
}

type LfgPostResponse struct {
	ID            uint                      `json:"id"`
	Map           MapSummary                `json:"map"`
	ChallengeType progression.ChallengeType `json:"challenge_type"`
	Platform      string                    `json:"platform,omitempty"`
	Description   string                    `json:"description"`
	PlayersNeeded int                       `json:"players_needed"`
	Host          PublicUserResponse        `json:"host"`
	CreatedAt     time.Time                 `json:"created_at"`
}

type MapSummary struct {
	ID   uint   `json:"id"`
	Slug string `json:"slug"`
	Name string `json:"name"`
}

func (h *Handler) newLfgPostResponse(c *gin.Context, p models.LfgPost) LfgPostResponse {
	resp := LfgPostResponse{
		ID:            p.ID,
		ChallengeType: p.ChallengeType,
		Platform:      p.Platform,
		Description:   p.Description,
		PlayersNeeded: p.PlayersNeeded,
		CreatedAt:     p.CreatedAt,
	}
	if p.Map != nil {
		resp.Map = MapSummary{ID: p.Map.ID, Slug: p.Map.Slug, Name: p.Map.Name}
	}
	if p.Host != nil {
		resp.Host = h.buildPublicUserResponse(c, *p.Host, 0)
	}
	return resp
}

// endregion

// CreateLfgPost godoc
// @Summary      Create a group-finding post
// @Description  Publishes a listing for teammates on a map and challenge.
// @Tags         lfg
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input body LfgPostInput true "Post"
// @Success      201  {object}  LfgPostResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse "Unknown map"
// @Router       /lfg [post]
func (h *Handler) CreateLfgPost(c *gin.Context) {
	var input LfgPostInput
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err)
		return
	}
	if input.ChallengeType == "" {
		input.ChallengeType = progression.ChallengeHighestRound
	}
	if !input.ChallengeType.Valid() {
		respondError(c, errInvalidChallengeArg)
		return
	}
	m, ok := h.Catalog.Map(input.MapSlug)
	if !ok {
		respondError(c, errMapNotFound)
		return
	}

	post := models.LfgPost{
		HostID:        currentUserID(c),
		MapID:         m.ID,
		ChallengeType: input.ChallengeType,
		Platform:      input.Platform,
		Description:   input.Description,
		PlayersNeeded: input.PlayersNeeded,
	}
	db := h.DB.WithContext(c.Request.Context())
	if err := db.Create(&post).Error; err != nil {
		respondError(c, err)
		return
	}

	// Reload with associations
	if err := db.Preload("Map").Preload("Host").First(&post, post.ID).Error; err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, h.newLfgPostResponse(c, post))
}

// SearchLfgPosts godoc
// @Summary      Search group-finding posts
// @Description  Lists posts, newest first, optionally filtered by map, challenge type and the caller's party size.
// @Tags         lfg
// @Produce      json
// @Security     BearerAuth
// @Param        map            query string false "Map slug"
// @Param        challenge_type query string false "Challenge type"
// @Param        players        query int    false "Minimum open slots"
// @Param        page           query int    false "Page number" default(1)
// @Param        limit          query int    false "Items per page" default(10)
// @Success      200 {object} PaginatedResponse[LfgPostResponse]
// @Failure      400 {object} ErrorResponse
// @Router       /lfg [get]
func (h *Handler) SearchLfgPosts(c *gin.Context) {
	page, limit := pageParams(c, defaultPageSize)

	query := h.DB.WithContext(c.Request.Context()).Preload("Map").Preload("Host").
		Order("created_at DESC, id DESC")
	if slug := c.Query("map"); slug != "" {
		m, ok := h.Catalog.Map(slug)
		if !ok {
			respondError(c, errMapNotFound)
			return
		}
		query = query.Where("map_id = ?", m.ID)
	}
	if t := progression.ChallengeType(c.Query("challenge_type")); t != "" {
		if !t.Valid() {
			respondError(c, errInvalidChallengeArg)
			return
		}
		query = query.Where("challenge_type = ?", t)
	}
	if players := queryInt(c, "players", 0); players > 0 {
		query = query.Where("players_needed >= ?", players)
	}

	posts, err := Paginate[models.LfgPost](query, page, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	responses := make([]LfgPostResponse, 0, len(posts.Data))
	for _, p := range posts.Data {
		responses = append(responses, h.newLfgPostResponse(c, p))
	}
	c.JSON(http.StatusOK, PaginatedResponse[LfgPostResponse]{Data: responses, Meta: posts.Meta})
}

// GetLfgPost godoc
// @Summary      Get a group-finding post
// @Tags         lfg
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Post ID"
// @Success      200 {object} LfgPostResponse
// @Failure      404 {object} ErrorResponse "Post not found"
// @Router       /lfg/{id} [get]
func (h *Handler) GetLfgPost(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var post models.LfgPost
	if err := h.DB.WithContext(c.Request.Context()).Preload("Map").Preload("Host").First(&post, id).Error; err != nil {
		if isRecordNotFound(err) {
			err = errPostNotFound
		}
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, h.newLfgPostResponse(c, post))
}

// DeleteLfgPost godoc
// @Summary      Delete a group-finding post (Author only)
// @Tags         lfg
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Post ID"
// @Success      200 {object} MessageResponse
// @Failure      403 {object} ErrorResponse "Only the author can delete a post"
// @Failure      404 {object} ErrorResponse "Post not found"
// @Router       /lfg/{id} [delete]
func (h *Handler) DeleteLfgPost(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	db := h.DB.WithContext(c.Request.Context())
	var post models.LfgPost
	if err := db.Select("id", "host_id").First(&post, id).Error; err != nil {
		if isRecordNotFound(err) {
			err = errPostNotFound
		}
		respondError(c, err)
		return
	}
	if post.HostID != currentUserID(c) {
		respondError(c, errNotPostHost)
		return
	}
	if err := db.Delete(&post).Error; err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "Post deleted"})
}
