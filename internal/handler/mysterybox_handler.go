package handler

import (
	"io"
	"net/http"
	"time"

	"roundtracker/backend/internal/models"
	"roundtracker/backend/internal/mysterybox"

	"github.com/gin-gonic/gin"
)

// sseKeepAlive is how often an idle event stream gets a comment line.
const sseKeepAlive = 25 * time.Second

// region --- DTOs ---

type InviteInput struct {
	FriendUserID uint `json:"friend_user_id" binding:"required" example:"2"`
}

type VoteInput struct {
	Intent models.VoteIntent `json:"intent" binding:"required" example:"reroll"`
}

type BallotInput struct {
	Choice models.Ballot `json:"choice" binding:"required" example:"YES"`
}

type ParticipantResponse struct {
	UserID   uint       `json:"user_id"`
	Nickname string     `json:"nickname"`
	IsHost   bool       `json:"is_host"`
	JoinedAt *time.Time `json:"joined_at,omitempty"`
}

type LobbyResponse struct {
	ID           uint                   `json:"id"`
	HostID       uint                   `json:"host_id"`
	State        mysterybox.State       `json:"state" example:"EMPTY"`
	Participants []ParticipantResponse  `json:"participants"`
	MaxMembers   int                    `json:"max_members"`
	InvitesOpen  bool                   `json:"invites_open"`
	Roll         *models.MysteryBoxRoll `json:"roll,omitempty"`
	Vote         *mysterybox.VoteResult `json:"vote,omitempty"`
}

func newLobbyResponse(l *mysterybox.Lobby) LobbyResponse {
	resp := LobbyResponse{
		ID:         l.ID,
		HostID:     l.HostID,
		State:      l.State(),
		MaxMembers: models.MaxLobbyMembers,
		Participants: []ParticipantResponse{{
			UserID:   l.HostID,
			Nickname: l.Host.Nickname,
			IsHost:   true,
		}},
	}
	for _, m := range l.Members {
		joined := m.JoinedAt
		resp.Participants = append(resp.Participants, ParticipantResponse{
			UserID:   m.UserID,
			Nickname: m.User.Nickname,
			JoinedAt: &joined,
		})
	}
	resp.InvitesOpen = len(l.Members) < models.MaxLobbyMembers && resp.State == mysterybox.StateEmpty
	if resp.State == mysterybox.StateRolling {
		resp.Roll = l.Roll
	}
	if l.Vote != nil {
		v := mysterybox.Summarize(l.Vote)
		resp.Vote = &v
	}
	return resp
}

// endregion

// GetMysteryBoxLobby godoc
// @Summary      Get the caller's lobby
// @Description  Returns the lobby the caller is a member of, or else the one they host, creating it on first use.
// @Tags         mystery-box
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} LobbyResponse
// @Failure      404 {object} ErrorResponse "User not found"
// @Router       /mystery-box/lobby [get]
func (h *Handler) GetMysteryBoxLobby(c *gin.Context) {
	lobby, err := h.Boxes.GetOrCreateLobby(c.Request.Context(), currentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, newLobbyResponse(lobby))
}

// StreamLobbyEvents godoc
// @Summary      Stream lobby events
// @Description  Server-sent events for the caller's lobby. The stream ends when the lobby closes or the caller is kicked or leaves.
// @Tags         mystery-box
// @Produce      text/event-stream
// @Security     BearerAuth
// @Success      200 {object} hub.Event
// @Failure      404 {object} ErrorResponse "Not in a lobby"
// @Router       /mystery-box/lobby/events [get]
func (h *Handler) StreamLobbyEvents(c *gin.Context) {
	viewer := currentUserID(c)
	lobbyID, err := h.Boxes.CurrentLobbyID(c.Request.Context(), viewer)
	if err != nil {
		respondError(c, err)
		return
	}

	client := h.Hub.Subscribe(lobbyID)
	defer h.Hub.Unsubscribe(lobbyID, client)

	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	keepAlive := time.NewTicker(sseKeepAlive)
	defer keepAlive.Stop()

	c.Stream(func(w io.Writer) bool {
		select {
		case msg, ok := <-client:
			if !ok {
				return false
			}
			c.SSEvent("lobby", string(msg))
			return !mysterybox.RemovesUser(msg, viewer)
		case <-keepAlive.C:
			_, err := io.WriteString(w, ": keep-alive\n\n")
			return err == nil
		case <-c.Request.Context().Done():
			return false
		}
	})
}

// InviteToLobby godoc
// @Summary      Invite a friend
// @Description  Sends a lobby invite. Invites lock while a challenge is active; a full lobby answers LOBBY_FULL.
// @Tags         mystery-box
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input body      InviteInput  true  "Friend"
// @Success      201   {object}  NotificationResponse
// @Failure      403   {object}  ErrorResponse "Host only or not friends"
// @Failure      409   {object}  ErrorResponse "Invites locked or lobby full"
// @Router       /mystery-box/invites [post]
func (h *Handler) InviteToLobby(c *gin.Context) {
	var input InviteInput
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err)
		return
	}

	n, err := h.Boxes.Invite(c.Request.Context(), currentUserID(c), input.FriendUserID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, newNotificationResponse(*n))
}

// AcceptLobbyInvite godoc
// @Summary      Accept a lobby invite
// @Description  Joins the host's lobby, leaving or closing the caller's current one in the same step.
// @Tags         mystery-box
// @Produce      json
// @Security     BearerAuth
// @Param        id  path      int  true  "Invite notification ID"
// @Success      200 {object}  LobbyResponse
// @Failure      404 {object}  ErrorResponse "Invite not found"
// @Failure      409 {object}  ErrorResponse "Lobby already rolled, full, or own roll active"
// @Router       /mystery-box/invites/{id}/accept [post]
func (h *Handler) AcceptLobbyInvite(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	ctx := c.Request.Context()

	lobbyID, err := h.Boxes.AcceptInvite(ctx, currentUserID(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	lobby, err := h.Boxes.Lobby(ctx, lobbyID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, newLobbyResponse(lobby))
}

// DeclineLobbyInvite godoc
// @Summary      Decline a lobby invite
// @Tags         mystery-box
// @Produce      json
// @Security     BearerAuth
// @Param        id  path      int  true  "Invite notification ID"
// @Success      200 {object}  MessageResponse
// @Failure      404 {object}  ErrorResponse "Invite not found"
// @Router       /mystery-box/invites/{id}/decline [post]
func (h *Handler) DeclineLobbyInvite(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.Boxes.DeclineInvite(c.Request.Context(), currentUserID(c), id); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "Invite declined"})
}

// LeaveMysteryBoxLobby godoc
// @Summary      Leave the current lobby
// @Description  A member leaves; a host leaving closes the lobby for everyone.
// @Tags         mystery-box
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} MessageResponse
// @Failure      404 {object} ErrorResponse "Not in a lobby"
// @Router       /mystery-box/lobby/leave [post]
func (h *Handler) LeaveMysteryBoxLobby(c *gin.Context) {
	if err := h.Boxes.Leave(c.Request.Context(), currentUserID(c)); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "Left lobby successfully"})
}

// KickLobbyMember godoc
// @Summary      Kick a member (Host only)
// @Tags         mystery-box
// @Produce      json
// @Security     BearerAuth
// @Param        userID path int true "User ID of member to kick"
// @Success      200 {object} MessageResponse
// @Failure      403 {object} ErrorResponse "Only the host can kick members"
// @Failure      404 {object} ErrorResponse "Member not found"
// @Router       /mystery-box/lobby/members/{userID} [delete]
func (h *Handler) KickLobbyMember(c *gin.Context) {
	memberID, ok := pathID(c, "userID")
	if !ok {
		return
	}

	if err := h.Boxes.Kick(c.Request.Context(), currentUserID(c), memberID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "Member kicked successfully"})
}

// SpinMysteryBox godoc
// @Summary      Spin the mystery box (Host only)
// @Description  Spends a token on a random map and challenge type.
// @Tags         mystery-box
// @Produce      json
// @Security     BearerAuth
// @Success      201 {object} models.MysteryBoxRoll
// @Failure      409 {object} ErrorResponse "Roll active or no tokens"
// @Router       /mystery-box/spin [post]
func (h *Handler) SpinMysteryBox(c *gin.Context) {
	roll, err := h.Boxes.Spin(c.Request.Context(), currentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, roll)
}

// StartDiscardVote godoc
// @Summary      Start a discard vote (Host only)
// @Description  Opens a unanimous vote to discard or reroll the active roll.
// @Tags         mystery-box
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input body      VoteInput  true  "Intent"
// @Success      201   {object}  mysterybox.VoteResult
// @Failure      409   {object}  ErrorResponse "No active roll or vote in progress"
// @Router       /mystery-box/votes [post]
func (h *Handler) StartDiscardVote(c *gin.Context) {
	var input VoteInput
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err)
		return
	}

	result, err := h.Boxes.StartDiscardVote(c.Request.Context(), currentUserID(c), input.Intent)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, result)
}

// CastBallot godoc
// @Summary      Cast a ballot
// @Description  Records the caller's YES or NO. The last ballot of a voter wins.
// @Tags         mystery-box
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input body      BallotInput  true  "Choice"
// @Success      200   {object}  mysterybox.VoteResult
// @Failure      403   {object}  ErrorResponse "Not a voter"
// @Failure      409   {object}  ErrorResponse "No vote in progress"
// @Router       /mystery-box/votes/ballot [post]
func (h *Handler) CastBallot(c *gin.Context) {
	var input BallotInput
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err)
		return
	}

	result, err := h.Boxes.CastVote(c.Request.Context(), currentUserID(c), input.Choice)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
