package handler

import (
	"net/http"

	"roundtracker/backend/internal/achievement"
	"roundtracker/backend/internal/models"

	"github.com/gin-gonic/gin"
)

// RevokeResponse reports the XP returned by a revocation.
type RevokeResponse struct {
	AchievementID uint `json:"achievement_id"`
	XPRemoved     int  `json:"xp_removed"`
}

// GetMyAchievements godoc
// @Summary      List the caller's unlocked achievements
// @Tags         achievements
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} models.UserAchievement
// @Router       /achievements/me [get]
func (h *Handler) GetMyAchievements(c *gin.Context) {
	unlocked, err := h.Achievements.ListUnlocked(c.Request.Context(), currentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	if unlocked == nil {
		unlocked = []models.UserAchievement{}
	}

	c.JSON(http.StatusOK, unlocked)
}

// CheckAchievements godoc
// @Summary      Re-evaluate achievements
// @Description  Runs every active achievement against the caller's history and grants the newly satisfied ones. A caller without a profile gets an empty list.
// @Tags         achievements
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array}  achievement.Unlock
// @Router       /achievements/check [post]
func (h *Handler) CheckAchievements(c *gin.Context) {
	unlocked, err := h.Achievements.CheckAllAchievements(c.Request.Context(), currentUserID(c), h.Catalog)
	if err != nil {
		respondError(c, err)
		return
	}
	if unlocked == nil {
		unlocked = []achievement.Unlock{}
	}

	c.JSON(http.StatusOK, unlocked)
}

// RevokeAchievement godoc
// @Summary      Revoke an unlocked achievement
// @Description  Removes the unlock and subtracts its reward from the caller's XP.
// @Tags         achievements
// @Produce      json
// @Security     BearerAuth
// @Param        id  path      int  true  "Achievement ID"
// @Success      200 {object}  RevokeResponse
// @Failure      404 {object}  ErrorResponse "Not unlocked"
// @Router       /achievements/me/{id} [delete]
func (h *Handler) RevokeAchievement(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	removed, err := h.Achievements.RevokeSingleAchievement(c.Request.Context(), currentUserID(c), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, RevokeResponse{AchievementID: id, XPRemoved: removed})
}
