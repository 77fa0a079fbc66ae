package handler

import (
	"net/http"

	"roundtracker/backend/internal/progression"
	"roundtracker/backend/internal/runlog"

	"github.com/gin-gonic/gin"
)

// region --- DTOs ---

// ChallengeLogInput is a submitted round-based run.
type ChallengeLogInput struct {
	MapSlug           string                    `json:"map_slug" binding:"required" example:"kino-der-toten"`
	ChallengeType     progression.ChallengeType `json:"challenge_type" binding:"required" example:"HIGHEST_ROUND"`
	RoundReached      int                       `json:"round_reached" binding:"required,min=1" example:"42"`
	CompletionSeconds *int                      `json:"completion_seconds" binding:"omitempty,min=1" example:"3600"`
	PlayerCount       int                       `json:"player_count" binding:"omitempty,min=1,max=4" example:"1"`
	ProofURL          string                    `json:"proof_url" binding:"omitempty,url,max=512"`
	Notes             string                    `json:"notes" binding:"max=2000"`
}

// EasterEggLogInput is a submitted Easter egg completion.
type EasterEggLogInput struct {
	EasterEggSlug     string `json:"easter_egg_slug" binding:"required" example:"ascension-main-quest"`
	PlayerCount       int    `json:"player_count" binding:"omitempty,min=1,max=4" example:"1"`
	NoGuide           bool   `json:"no_guide"`
	CompletionSeconds *int   `json:"completion_seconds" binding:"omitempty,min=1"`
	ProofURL          string `json:"proof_url" binding:"omitempty,url,max=512"`
}

// endregion

// LogChallenge godoc
// @Summary      Log a challenge run
// @Description  Stores a run and awards XP for net progress over the caller's best on the same map and challenge.
// @Tags         logs
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input body      ChallengeLogInput  true  "Run"
// @Success      201   {object}  runlog.ChallengeResult
// @Failure      400   {object}  ErrorResponse
// @Failure      404   {object}  ErrorResponse "Unknown map"
// @Router       /logs/challenges [post]
func (h *Handler) LogChallenge(c *gin.Context) {
	var input ChallengeLogInput
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err)
		return
	}
	if input.PlayerCount == 0 {
		input.PlayerCount = 1
	}

	result, err := h.Runs.LogChallenge(c.Request.Context(), currentUserID(c), runlog.ChallengeInput{
		MapSlug:           input.MapSlug,
		ChallengeType:     input.ChallengeType,
		RoundReached:      input.RoundReached,
		CompletionSeconds: input.CompletionSeconds,
		PlayerCount:       input.PlayerCount,
		ProofURL:          input.ProofURL,
		Notes:             input.Notes,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, result)
}

// LogEasterEgg godoc
// @Summary      Log an Easter egg completion
// @Description  Stores a completion. XP is granted only for the caller's first completion of the egg.
// @Tags         logs
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input body      EasterEggLogInput  true  "Completion"
// @Success      201   {object}  runlog.EasterEggResult
// @Failure      400   {object}  ErrorResponse
// @Failure      404   {object}  ErrorResponse "Unknown Easter egg"
// @Router       /logs/easter-eggs [post]
func (h *Handler) LogEasterEgg(c *gin.Context) {
	var input EasterEggLogInput
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err)
		return
	}
	if input.PlayerCount == 0 {
		input.PlayerCount = 1
	}

	result, err := h.Runs.LogEasterEgg(c.Request.Context(), currentUserID(c), runlog.EasterEggInput{
		EasterEggSlug:     input.EasterEggSlug,
		PlayerCount:       input.PlayerCount,
		NoGuide:           input.NoGuide,
		CompletionSeconds: input.CompletionSeconds,
		ProofURL:          input.ProofURL,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, result)
}

// GetMyLogs godoc
// @Summary      List the caller's runs
// @Tags         logs
// @Produce      json
// @Security     BearerAuth
// @Param        limit query     int  false  "Runs of each kind" default(25)
// @Success      200   {object}  runlog.History
// @Router       /logs/me [get]
func (h *Handler) GetMyLogs(c *gin.Context) {
	_, limit := pageParams(c, 25)

	history, err := h.Runs.ListLogs(c.Request.Context(), currentUserID(c), limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, history)
}

// region --- Admin Handlers ---

// VerifyChallengeLog godoc
// @Summary      Verify a challenge log
// @Description  Marks the log verified and adds its XP to the owner's verified total, once.
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        id  path      int  true  "Challenge log ID"
// @Success      200 {object}  runlog.VerifyResult
// @Failure      403 {object}  ErrorResponse "Admin access required"
// @Failure      404 {object}  ErrorResponse
// @Failure      409 {object}  ErrorResponse "Already verified"
// @Router       /admin/logs/challenges/{id}/verify [post]
func (h *Handler) VerifyChallengeLog(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	result, err := h.Runs.VerifyChallengeLog(c.Request.Context(), currentUserID(c), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// VerifyEasterEggLog godoc
// @Summary      Verify an Easter egg log
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        id  path      int  true  "Easter egg log ID"
// @Success      200 {object}  runlog.VerifyResult
// @Failure      403 {object}  ErrorResponse "Admin access required"
// @Failure      404 {object}  ErrorResponse
// @Failure      409 {object}  ErrorResponse "Already verified"
// @Router       /admin/logs/easter-eggs/{id}/verify [post]
func (h *Handler) VerifyEasterEggLog(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	result, err := h.Runs.VerifyEasterEggLog(c.Request.Context(), currentUserID(c), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// RecomputeVerifiedXP godoc
// @Summary      Recompute a user's verified XP
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        id  path      int  true  "User ID"
// @Success      200 {object}  map[string]int "{"verified_total_xp": 1234}"
// @Failure      403 {object}  ErrorResponse "Admin access required"
// @Failure      404 {object}  ErrorResponse
// @Router       /admin/users/{id}/recompute-verified-xp [post]
func (h *Handler) RecomputeVerifiedXP(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	total, err := h.Runs.RecomputeVerifiedXP(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"verified_total_xp": total})
}

// endregion
