package handler

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"roundtracker/backend/internal/hub"
	"roundtracker/backend/internal/models"
	"roundtracker/backend/internal/mysterybox"
	"roundtracker/backend/internal/testutil"
	"roundtracker/backend/pkg/jwt"
)

// party puts member in host's lobby through the invite endpoints.
func (e *env) party(host, member models.User) LobbyResponse {
	e.t.Helper()
	testutil.MakeFriends(e.t, e.db, host.ID, member.ID)
	invite := expect[NotificationResponse](e.t, e.do(http.MethodPost, "/api/v1/mystery-box/invites", host.ID, InviteInput{FriendUserID: member.ID}), http.StatusCreated)
	return expect[LobbyResponse](e.t, e.do(http.MethodPost, "/api/v1/mystery-box/invites/"+itoa(invite.ID)+"/accept", member.ID, nil), http.StatusOK)
}

func TestGetMysteryBoxLobby(t *testing.T) {
	e := newEnv(t)
	host := e.user("host")

	first := expect[LobbyResponse](t, e.do(http.MethodGet, "/api/v1/mystery-box/lobby", host.ID, nil), http.StatusOK)
	if first.HostID != host.ID || first.State != mysterybox.StateEmpty || !first.InvitesOpen {
		t.Fatalf("lobby = %+v", first)
	}
	if len(first.Participants) != 1 || !first.Participants[0].IsHost || first.Participants[0].Nickname != "host" {
		t.Errorf("participants = %+v", first.Participants)
	}

	again := expect[LobbyResponse](t, e.do(http.MethodGet, "/api/v1/mystery-box/lobby", host.ID, nil), http.StatusOK)
	if again.ID != first.ID {
		t.Errorf("second GET created lobby %d, want %d", again.ID, first.ID)
	}
}

func TestInviteFlow(t *testing.T) {
	e := newEnv(t)
	host := e.user("host")
	member := e.user("member")
	stranger := e.user("stranger")

	expectError(t, e.do(http.MethodPost, "/api/v1/mystery-box/invites", host.ID, InviteInput{FriendUserID: stranger.ID}), http.StatusForbidden, "NOT_FRIENDS")
	expectError(t, e.do(http.MethodPost, "/api/v1/mystery-box/invites", host.ID, map[string]any{}), http.StatusBadRequest, "BAD_REQUEST")

	lobby := e.party(host, member)
	if lobby.HostID != host.ID || len(lobby.Participants) != 2 {
		t.Fatalf("lobby after accept = %+v", lobby)
	}
	if p := lobby.Participants[1]; p.UserID != member.ID || p.IsHost || p.JoinedAt == nil {
		t.Errorf("member = %+v", p)
	}

	// The member sees the host's lobby, not a new one of their own.
	seen := expect[LobbyResponse](t, e.do(http.MethodGet, "/api/v1/mystery-box/lobby", member.ID, nil), http.StatusOK)
	if seen.ID != lobby.ID {
		t.Errorf("member lobby = %d, want %d", seen.ID, lobby.ID)
	}

	expectError(t, e.do(http.MethodPost, "/api/v1/mystery-box/invites/9999/accept", member.ID, nil), http.StatusNotFound, "INVITE_NOT_FOUND")
}

func TestInviteToLobby_LockedAndFull(t *testing.T) {
	cases := []struct {
		name    string
		members int
		rolling bool
		code    string
	}{
		{"full", models.MaxLobbyMembers, false, "LOBBY_FULL"},
		{"rolling", 1, true, "INVITES_LOCKED"},
		{"rolling and full", models.MaxLobbyMembers, true, "INVITES_LOCKED"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := newEnv(t)
			host := e.user("host")
			for i := 0; i < tc.members; i++ {
				e.party(host, e.user("member"+strconv.Itoa(i)))
			}
			if tc.rolling {
				expect[models.MysteryBoxRoll](t, e.do(http.MethodPost, "/api/v1/mystery-box/spin", host.ID, nil), http.StatusCreated)
			}
			lobby := expect[LobbyResponse](t, e.do(http.MethodGet, "/api/v1/mystery-box/lobby", host.ID, nil), http.StatusOK)
			if lobby.InvitesOpen {
				t.Errorf("invites_open = true for %s lobby", tc.name)
			}

			late := e.user("late")
			testutil.MakeFriends(t, e.db, host.ID, late.ID)
			expectError(t, e.do(http.MethodPost, "/api/v1/mystery-box/invites", host.ID, InviteInput{FriendUserID: late.ID}), http.StatusConflict, tc.code)
		})
	}
}

func TestDeclineLobbyInvite(t *testing.T) {
	e := newEnv(t)
	host := e.user("host")
	friend := e.user("friend")
	testutil.MakeFriends(t, e.db, host.ID, friend.ID)

	invite := expect[NotificationResponse](t, e.do(http.MethodPost, "/api/v1/mystery-box/invites", host.ID, InviteInput{FriendUserID: friend.ID}), http.StatusCreated)
	expect[MessageResponse](t, e.do(http.MethodPost, "/api/v1/mystery-box/invites/"+itoa(invite.ID)+"/decline", friend.ID, nil), http.StatusOK)
	expectError(t, e.do(http.MethodPost, "/api/v1/mystery-box/invites/"+itoa(invite.ID)+"/accept", friend.ID, nil), http.StatusNotFound, "INVITE_NOT_FOUND")
}

func TestKickAndLeave(t *testing.T) {
	e := newEnv(t)
	host := e.user("host")
	a := e.user("alpha")
	b := e.user("bravo")
	e.party(host, a)
	e.party(host, b)

	expectError(t, e.do(http.MethodDelete, "/api/v1/mystery-box/lobby/members/"+itoa(b.ID), a.ID, nil), http.StatusForbidden, "HOST_ONLY")
	expectError(t, e.do(http.MethodDelete, "/api/v1/mystery-box/lobby/members/"+itoa(host.ID), host.ID, nil), http.StatusConflict, "CANNOT_KICK_SELF")
	expect[MessageResponse](t, e.do(http.MethodDelete, "/api/v1/mystery-box/lobby/members/"+itoa(b.ID), host.ID, nil), http.StatusOK)

	expect[MessageResponse](t, e.do(http.MethodPost, "/api/v1/mystery-box/lobby/leave", a.ID, nil), http.StatusOK)

	lobby := expect[LobbyResponse](t, e.do(http.MethodGet, "/api/v1/mystery-box/lobby", host.ID, nil), http.StatusOK)
	if len(lobby.Participants) != 1 {
		t.Errorf("participants after kick and leave = %+v", lobby.Participants)
	}
}

func TestSpinAndDiscardVote(t *testing.T) {
	e := newEnv(t)
	host := e.user("host")
	member := e.user("member")
	e.party(host, member)

	expectError(t, e.do(http.MethodPost, "/api/v1/mystery-box/spin", member.ID, nil), http.StatusForbidden, "HOST_ONLY")
	expectError(t, e.do(http.MethodPost, "/api/v1/mystery-box/votes", host.ID, VoteInput{Intent: models.IntentDiscard}), http.StatusConflict, "NO_ACTIVE_ROLL")

	roll := expect[models.MysteryBoxRoll](t, e.do(http.MethodPost, "/api/v1/mystery-box/spin", host.ID, nil), http.StatusCreated)
	if roll.ID == 0 || !roll.ChallengeType.Valid() {
		t.Fatalf("roll = %+v", roll)
	}
	expectError(t, e.do(http.MethodPost, "/api/v1/mystery-box/spin", host.ID, nil), http.StatusConflict, "ROLL_ACTIVE")

	me := expect[PrivateUserResponse](t, e.do(http.MethodGet, "/api/v1/users/me", host.ID, nil), http.StatusOK)
	if me.MysteryBoxTokens != models.MaxMysteryBoxTokens-1 {
		t.Errorf("tokens after spin = %d", me.MysteryBoxTokens)
	}

	lobby := expect[LobbyResponse](t, e.do(http.MethodGet, "/api/v1/mystery-box/lobby", member.ID, nil), http.StatusOK)
	if lobby.State != mysterybox.StateRolling || lobby.Roll == nil || lobby.Roll.ID != roll.ID {
		t.Fatalf("lobby while rolling = %+v", lobby)
	}
	if lobby.InvitesOpen {
		t.Error("invites_open while rolling, want false")
	}

	started := expect[mysterybox.VoteResult](t, e.do(http.MethodPost, "/api/v1/mystery-box/votes", host.ID, VoteInput{Intent: models.IntentDiscard}), http.StatusCreated)
	if started.Status != mysterybox.VotePending || started.VotersNeeded != 2 {
		t.Fatalf("started = %+v", started)
	}
	expectError(t, e.do(http.MethodPost, "/api/v1/mystery-box/votes/ballot", member.ID, map[string]string{"choice": "MAYBE"}), http.StatusBadRequest, "BAD_REQUEST")

	expect[mysterybox.VoteResult](t, e.do(http.MethodPost, "/api/v1/mystery-box/votes/ballot", host.ID, BallotInput{Choice: models.BallotYes}), http.StatusOK)
	done := expect[mysterybox.VoteResult](t, e.do(http.MethodPost, "/api/v1/mystery-box/votes/ballot", member.ID, BallotInput{Choice: models.BallotYes}), http.StatusOK)
	if done.Status != mysterybox.VoteApproved {
		t.Fatalf("after unanimous yes = %+v", done)
	}

	lobby = expect[LobbyResponse](t, e.do(http.MethodGet, "/api/v1/mystery-box/lobby", host.ID, nil), http.StatusOK)
	if lobby.State != mysterybox.StateEmpty || lobby.Vote != nil || !lobby.InvitesOpen {
		t.Errorf("lobby after discard = %+v", lobby)
	}

	// Repeating the final ballot reports the same approval.
	again := expect[mysterybox.VoteResult](t, e.do(http.MethodPost, "/api/v1/mystery-box/votes/ballot", member.ID, BallotInput{Choice: models.BallotYes}), http.StatusOK)
	if again.Status != mysterybox.VoteApproved || again.VoteID != done.VoteID {
		t.Errorf("repeated final ballot = %+v", again)
	}
}

// stream opens the SSE endpoint as userID. Headers only arrive with the first
// event, so trigger runs once the stream is subscribed to lobbyID.
func (e *env) stream(ctx context.Context, url string, userID, lobbyID uint, trigger func()) *http.Response {
	e.t.Helper()
	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, url+"/api/v1/mystery-box/lobby/events", nil)
	tok, err := jwt.GenerateToken(userID)
	if err != nil {
		e.t.Fatalf("token: %v", err)
	}
	req.Header.Set("Authorization", "Bearer "+tok)

	type result struct {
		resp *http.Response
		err  error
	}
	connected := make(chan result, 1)
	go func() {
		resp, err := http.DefaultClient.Do(req)
		connected <- result{resp, err}
	}()

	for e.h.Hub.Subscribers(lobbyID) == 0 {
		select {
		case <-ctx.Done():
			e.t.Fatal("stream never subscribed")
		case <-time.After(10 * time.Millisecond):
		}
	}
	trigger()

	r := <-connected
	if r.err != nil {
		e.t.Fatalf("connect: %v", r.err)
	}
	e.t.Cleanup(func() { r.resp.Body.Close() })
	return r.resp
}

// events reads SSE data frames until the stream ends or limit is reached.
func events(t *testing.T, resp *http.Response, limit int) []hub.Event {
	t.Helper()
	var out []hub.Event
	scanner := bufio.NewScanner(resp.Body)
	for len(out) < limit && scanner.Scan() {
		if data, ok := strings.CutPrefix(scanner.Text(), "data:"); ok {
			var evt hub.Event
			if err := json.Unmarshal([]byte(data), &evt); err != nil {
				t.Fatalf("decode %q: %v", data, err)
			}
			out = append(out, evt)
		}
	}
	return out
}

func TestStreamLobbyEvents(t *testing.T) {
	e := newEnv(t)
	host := e.user("host")
	member := e.user("member")
	lobby := e.party(host, member)

	expectError(t, e.do(http.MethodGet, "/api/v1/mystery-box/lobby/events", e.user("loner").ID, nil), http.StatusNotFound, "NOT_IN_LOBBY")

	srv := httptest.NewServer(e.router)
	defer srv.Close()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	resp := e.stream(ctx, srv.URL, member.ID, lobby.ID, func() {
		expect[models.MysteryBoxRoll](t, e.do(http.MethodPost, "/api/v1/mystery-box/spin", host.ID, nil), http.StatusCreated)
	})
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/event-stream") {
		t.Errorf("content type = %q", ct)
	}

	got := events(t, resp, 1)
	if len(got) != 1 || got[0].Type != mysterybox.EventRollSpun || got[0].LobbyID != lobby.ID {
		t.Errorf("events = %+v", got)
	}
}

func TestStreamLobbyEvents_EndsWhenViewerRemoved(t *testing.T) {
	cases := []struct {
		name string
		remove func(e *env, host, member models.User)
		want string
	}{
		{"kicked", func(e *env, host, member models.User) {
			expect[MessageResponse](e.t, e.do(http.MethodDelete, "/api/v1/mystery-box/lobby/members/"+itoa(member.ID), host.ID, nil), http.StatusOK)
		}, mysterybox.EventMemberKicked},
		{"left", func(e *env, host, member models.User) {
			expect[MessageResponse](e.t, e.do(http.MethodPost, "/api/v1/mystery-box/lobby/leave", member.ID, nil), http.StatusOK)
		}, mysterybox.EventMemberLeft},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := newEnv(t)
			host := e.user("host")
			member := e.user("member")
			lobby := e.party(host, member)

			srv := httptest.NewServer(e.router)
			defer srv.Close()
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			resp := e.stream(ctx, srv.URL, member.ID, lobby.ID, func() { tc.remove(e, host, member) })

			// Reading to the end only returns because the server closed the stream.
			got := events(t, resp, 10)
			if ctx.Err() != nil {
				t.Fatal("stream stayed open after removal")
			}
			if len(got) == 0 {
				t.Fatal("no events before the stream ended")
			}
			last := got[len(got)-1]
			if last.Type != tc.want {
				t.Errorf("last event = %+v, want %s", last, tc.want)
			}
			if n := e.h.Hub.Subscribers(lobby.ID); n != 0 {
				t.Errorf("subscribers after removal = %d, want 0", n)
			}
		})
	}
}
