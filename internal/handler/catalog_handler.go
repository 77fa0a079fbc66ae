package handler

import (
	"net/http"

	"roundtracker/backend/internal/apperr"
	"roundtracker/backend/internal/models"
	"roundtracker/backend/internal/progression"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

var errMapNotFound = apperr.NotFound("MAP_NOT_FOUND", "Unknown map")

// region --- DTOs ---

type ChallengeTypeResponse struct {
	Type           progression.ChallengeType `json:"type" example:"NO_DOWNS"`
	IsSpeedrun     bool                      `json:"is_speedrun"`
	SpeedrunTarget int                       `json:"speedrun_target,omitempty"`
}

// MapResponse is a map with its game, Easter eggs and active achievements.
type MapResponse struct {
	models.Map
	Achievements []models.Achievement `json:"achievements"`
}

type CatalogResponse struct {
	Games          []models.Game           `json:"games"`
	ChallengeTypes []ChallengeTypeResponse `json:"challenge_types"`
}

// endregion

// GetGames godoc
// @Summary      Get the game catalog
// @Description  Lists every game with its maps and Easter eggs, plus the known challenge types.
// @Tags         catalog
// @Produce      json
// @Success      200 {object} CatalogResponse
// @Router       /catalog/games [get]
func (h *Handler) GetGames(c *gin.Context) {
	var games []models.Game
	err := h.DB.WithContext(c.Request.Context()).
		Preload("Maps", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		Preload("Maps.EasterEggs", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		Order("sort_order, id").
		Find(&games).Error
	if err != nil {
		respondError(c, err)
		return
	}

	types := progression.ChallengeTypes()
	resp := CatalogResponse{Games: games, ChallengeTypes: make([]ChallengeTypeResponse, 0, len(types))}
	for _, t := range types {
		resp.ChallengeTypes = append(resp.ChallengeTypes, ChallengeTypeResponse{
			Type:           t,
			IsSpeedrun:     t.IsSpeedrun(),
			SpeedrunTarget: t.SpeedrunTarget(),
		})
	}

	c.JSON(http.StatusOK, resp)
}

// GetMapBySlug godoc
// @Summary      Get a map
// @Description  Retrieves a map with its game, Easter eggs and the achievements tied to it.
// @Tags         catalog
// @Produce      json
// @Param        slug path     string  true  "Map slug"
// @Success      200  {object} MapResponse
// @Failure      404  {object} ErrorResponse "Map not found"
// @Router       /catalog/maps/{slug} [get]
func (h *Handler) GetMapBySlug(c *gin.Context) {
	db := h.DB.WithContext(c.Request.Context())

	var m models.Map
	if err := db.Preload("Game").Preload("EasterEggs").Where("slug = ?", c.Param("slug")).First(&m).Error; err != nil {
		if isRecordNotFound(err) {
			err = errMapNotFound
		}
		respondError(c, err)
		return
	}

	resp := MapResponse{Map: m, Achievements: []models.Achievement{}}
	if err := db.Where("map_slug = ? AND is_active = ?", m.Slug, true).Order("id").Find(&resp.Achievements).Error; err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
