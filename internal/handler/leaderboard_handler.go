package handler

import (
	"net/http"

	"roundtracker/backend/internal/leaderboard"
	"roundtracker/backend/internal/progression"

	"github.com/gin-gonic/gin"
)

// GetMapLeaderboard godoc
// @Summary      Get a map leaderboard
// @Description  Best run per player on a map. Round-based challenges rank by round, speedruns by time. With a token the caller's entry is flagged.
// @Tags         leaderboards
// @Produce      json
// @Param        slug           path      string  true   "Map slug"
// @Param        challenge_type query     string  false  "Challenge type" default(HIGHEST_ROUND)
// @Param        player_count   query     int     false  "Party size, 0 for any"
// @Param        verified       query     bool    false  "Verified runs only"
// @Param        page           query     int     false  "Page number" default(1)
// @Param        limit          query     int     false  "Items per page" default(25)
// @Success      200 {object}  PaginatedResponse[leaderboard.MapEntry]
// @Failure      400 {object}  ErrorResponse
// @Failure      404 {object}  ErrorResponse "Map not found"
// @Router       /leaderboards/maps/{slug} [get]
func (h *Handler) GetMapLeaderboard(c *gin.Context) {
	page, limit := pageParams(c, leaderboard.DefaultLimit)

	board, err := h.Boards.MapBoard(c.Request.Context(), leaderboard.MapQuery{
		MapSlug:       c.Param("slug"),
		ChallengeType: progression.ChallengeType(c.Query("challenge_type")),
		PlayerCount:   queryInt(c, "player_count", 0),
		VerifiedOnly:  c.Query("verified") == "true",
		Window:        leaderboard.Window{Page: page, Limit: limit},
	})
	if err != nil {
		respondError(c, err)
		return
	}
	if viewerID := currentUserID(c); viewerID != 0 {
		for i := range board.Entries {
			board.Entries[i].IsViewer = board.Entries[i].UserID == viewerID
		}
	}

	c.JSON(http.StatusOK, NewPaginatedResponse(board.Entries, board.Total, board.Window.Page, board.Window.Limit))
}

// GetXPLeaderboard godoc
// @Summary      Get the XP leaderboard
// @Tags         leaderboards
// @Produce      json
// @Param        verified query     bool  false  "Rank by verified XP"
// @Param        page     query     int   false  "Page number" default(1)
// @Param        limit    query     int   false  "Items per page" default(25)
// @Success      200 {object}  PaginatedResponse[leaderboard.XPEntry]
// @Router       /leaderboards/xp [get]
func (h *Handler) GetXPLeaderboard(c *gin.Context) {
	page, limit := pageParams(c, leaderboard.DefaultLimit)

	board, err := h.Boards.XPBoard(c.Request.Context(), c.Query("verified") == "true", leaderboard.Window{Page: page, Limit: limit})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, NewPaginatedResponse(board.Entries, board.Total, board.Window.Page, board.Window.Limit))
}
