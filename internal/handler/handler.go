// Package handler exposes the services over HTTP.
package handler

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"roundtracker/backend/internal/achievement"
	"roundtracker/backend/internal/apperr"
	"roundtracker/backend/internal/catalog"
	"roundtracker/backend/internal/hub"
	"roundtracker/backend/internal/leaderboard"
	"roundtracker/backend/internal/mysterybox"
	"roundtracker/backend/internal/runlog"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Handler carries the dependencies every route needs.
type Handler struct {
	DB           *gorm.DB
	Catalog      *catalog.Catalog
	Runs         *runlog.Service
	Achievements *achievement.Service
	Boxes        *mysterybox.Service
	Boards       *leaderboard.Service
	Hub          *hub.Hub
}

// New wires the services on top of db and cat.
func New(db *gorm.DB, cat *catalog.Catalog, events *hub.Hub) *Handler {
	achievements := achievement.NewService(db)
	boxes := mysterybox.NewService(db, cat, events)
	return &Handler{
		DB:           db,
		Catalog:      cat,
		Runs:         runlog.NewService(db, cat, achievements, boxes),
		Achievements: achievements,
		Boxes:        boxes,
		Boards:       leaderboard.NewService(db, cat),
		Hub:          events,
	}
}

// ErrorResponse represents a generic error response.
type ErrorResponse struct {
	Error string `json:"error" example:"An error message"`
	Code  string `json:"code" example:"LOBBY_FULL"`
}

// MessageResponse is the body of endpoints that only acknowledge.
type MessageResponse struct {
	Message string `json:"message" example:"ok"`
}

var (
	errBadRequest = apperr.Invalid("BAD_REQUEST", "Malformed request")
	errBadID      = apperr.Invalid("INVALID_ID", "Invalid id")
)

// respondError writes err in the {"error","code"} shape. Errors outside the
// apperr taxonomy are logged and hidden behind a generic 500.
func respondError(c *gin.Context, err error) {
	if e, ok := apperr.As(err); ok {
		c.JSON(e.Kind.Status(), ErrorResponse{Error: e.Message, Code: e.Code})
		return
	}
	if isRecordNotFound(err) {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "Not found", Code: "NOT_FOUND"})
		return
	}
	log.Printf("[%s] %s %s: %v", c.GetString("requestID"), c.Request.Method, c.FullPath(), err)
	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Internal server error", Code: "INTERNAL"})
}

// bindError reports a binding or validation failure as 400.
func bindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error(), Code: errBadRequest.Code})
}

// currentUserID is the id AuthMiddleware stored. Callers sit behind it.
func currentUserID(c *gin.Context) uint {
	id, _ := c.Get("userID")
	uid, _ := id.(uint)
	return uid
}

// pathID parses a numeric path parameter, writing a 400 when it is not one.
func pathID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		respondError(c, errBadID)
		return 0, false
	}
	return uint(id), true
}

// queryInt reads an integer query parameter, falling back to def.
func queryInt(c *gin.Context, name string, def int) int {
	v, err := strconv.Atoi(c.Query(name))
	if err != nil {
		return def
	}
	return v
}

func isRecordNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
