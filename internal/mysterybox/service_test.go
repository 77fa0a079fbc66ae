package mysterybox

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"gorm.io/gorm"

	"roundtracker/backend/internal/catalog"
	"roundtracker/backend/internal/hub"
	"roundtracker/backend/internal/models"
	"roundtracker/backend/internal/progression"
	"roundtracker/backend/internal/testutil"
)

type env struct {
	db   *gorm.DB
	svc  *Service
	hub  *hub.Hub
	kino models.Map
}

func newEnv(t *testing.T) env {
	t.Helper()
	db := testutil.NewDB(t)
	kino := testutil.CreateMap(t, db, "kino", 0)
	cat := catalog.New([]catalog.MapRef{{ID: kino.ID, Slug: kino.Slug, Name: kino.Name}}, nil)
	h := hub.New()
	svc := NewService(db, cat, h)
	// First map, first challenge type: kino / HIGHEST_ROUND.
	svc.intn = func(int) int { return 0 }
	return env{db: db, svc: svc, hub: h, kino: kino}
}

func (e env) users(t *testing.T, names ...string) []models.User {
	t.Helper()
	out := make([]models.User, len(names))
	for i, n := range names {
		out[i] = testutil.CreateUser(t, e.db, n)
	}
	return out
}

// join befriends host and member and walks member through invite + accept.
func (e env) join(t *testing.T, host, member models.User) {
	t.Helper()
	testutil.MakeFriends(t, e.db, host.ID, member.ID)
	invite, err := e.svc.Invite(context.Background(), host.ID, member.ID)
	if err != nil {
		t.Fatalf("invite %s: %v", member.Nickname, err)
	}
	if _, err := e.svc.AcceptInvite(context.Background(), member.ID, invite.ID); err != nil {
		t.Fatalf("accept %s: %v", member.Nickname, err)
	}
}

func (e env) spin(t *testing.T, host models.User) *models.MysteryBoxRoll {
	t.Helper()
	roll, err := e.svc.Spin(context.Background(), host.ID)
	if err != nil {
		t.Fatalf("spin: %v", err)
	}
	return roll
}

func (e env) rollExists(t *testing.T, id uint) bool {
	t.Helper()
	var n int64
	e.db.Model(&models.MysteryBoxRoll{}).Where("id = ?", id).Count(&n)
	return n > 0
}

func (e env) memberships(t *testing.T, userID uint) []models.MysteryBoxLobbyMember {
	t.Helper()
	var ms []models.MysteryBoxLobbyMember
	if err := e.db.Where("user_id = ?", userID).Find(&ms).Error; err != nil {
		t.Fatalf("load memberships: %v", err)
	}
	return ms
}

func wantErr(t *testing.T, err, want error) {
	t.Helper()
	if !errors.Is(err, want) {
		t.Fatalf("error = %v, want %v", err, want)
	}
}

func TestGetOrCreateLobby_CreatesOncePerHost(t *testing.T) {
	e := newEnv(t)
	host := e.users(t, "host")[0]
	ctx := context.Background()

	first, err := e.svc.GetOrCreateLobby(ctx, host.ID)
	if err != nil {
		t.Fatalf("GetOrCreateLobby: %v", err)
	}
	second, err := e.svc.GetOrCreateLobby(ctx, host.ID)
	if err != nil {
		t.Fatalf("GetOrCreateLobby: %v", err)
	}
	if first.ID != second.ID || first.HostID != host.ID {
		t.Fatalf("lobbies %d and %d, want the same lobby hosted by %d", first.ID, second.ID, host.ID)
	}
	if first.State() != StateEmpty {
		t.Errorf("new lobby state = %s", first.State())
	}
}

func TestGetOrCreateLobby_ReturnsJoinedLobby(t *testing.T) {
	e := newEnv(t)
	u := e.users(t, "host", "guest")
	e.join(t, u[0], u[1])

	l, err := e.svc.GetOrCreateLobby(context.Background(), u[1].ID)
	if err != nil {
		t.Fatalf("GetOrCreateLobby: %v", err)
	}
	if l.HostID != u[0].ID {
		t.Fatalf("guest sees lobby hosted by %d, want %d", l.HostID, u[0].ID)
	}
	if got := l.Participants(); len(got) != 2 || got[1] != u[1].ID {
		t.Fatalf("participants = %v", got)
	}
}

func TestInvite_LockedWhileRollingEvenWhenFull(t *testing.T) {
	e := newEnv(t)
	u := e.users(t, "host", "a", "b", "c", "d")
	for _, m := range u[1:4] {
		e.join(t, u[0], m)
	}
	testutil.MakeFriends(t, e.db, u[0].ID, u[4].ID)

	_, err := e.svc.Invite(context.Background(), u[0].ID, u[4].ID)
	wantErr(t, err, ErrLobbyFull)

	e.spin(t, u[0])
	_, err = e.svc.Invite(context.Background(), u[0].ID, u[4].ID)
	wantErr(t, err, ErrInvitesLocked)
}

func TestInvite_Preconditions(t *testing.T) {
	e := newEnv(t)
	u := e.users(t, "host", "friend", "stranger")
	ctx := context.Background()

	_, err := e.svc.Invite(ctx, u[0].ID, u[0].ID)
	wantErr(t, err, ErrCannotInviteSelf)

	_, err = e.svc.Invite(ctx, u[0].ID, u[2].ID)
	wantErr(t, err, ErrNotFriends)

	_, err = e.svc.Invite(ctx, u[0].ID, 9999)
	wantErr(t, err, ErrUserNotFound)

	e.join(t, u[0], u[1])
	_, err = e.svc.Invite(ctx, u[0].ID, u[1].ID)
	wantErr(t, err, ErrAlreadyMember)

	// A member cannot invite on the host's behalf.
	testutil.MakeFriends(t, e.db, u[1].ID, u[2].ID)
	_, err = e.svc.Invite(ctx, u[1].ID, u[2].ID)
	wantErr(t, err, ErrHostOnly)
}

func TestInvite_RepeatReplacesNotification(t *testing.T) {
	e := newEnv(t)
	u := e.users(t, "host", "friend")
	testutil.MakeFriends(t, e.db, u[0].ID, u[1].ID)
	ctx := context.Background()

	if _, err := e.svc.Invite(ctx, u[0].ID, u[1].ID); err != nil {
		t.Fatalf("invite: %v", err)
	}
	second, err := e.svc.Invite(ctx, u[0].ID, u[1].ID)
	if err != nil {
		t.Fatalf("invite: %v", err)
	}

	var invites []models.Notification
	e.db.Where("user_id = ? AND type = ?", u[1].ID, models.NotificationLobbyInvite).Find(&invites)
	if len(invites) != 1 || invites[0].ID != second.ID {
		t.Fatalf("invites = %+v, want only the latest", invites)
	}
}

func TestAcceptInvite_LeavesPreviousLobby(t *testing.T) {
	e := newEnv(t)
	u := e.users(t, "hostA", "hostB", "guest")
	e.join(t, u[0], u[2])

	testutil.MakeFriends(t, e.db, u[1].ID, u[2].ID)
	invite, err := e.svc.Invite(context.Background(), u[1].ID, u[2].ID)
	if err != nil {
		t.Fatalf("invite: %v", err)
	}
	lobbyID, err := e.svc.AcceptInvite(context.Background(), u[2].ID, invite.ID)
	if err != nil {
		t.Fatalf("accept: %v", err)
	}

	ms := e.memberships(t, u[2].ID)
	if len(ms) != 1 || ms[0].LobbyID != lobbyID {
		t.Fatalf("memberships = %+v, want exactly one in lobby %d", ms, lobbyID)
	}
	var n int64
	e.db.Model(&models.Notification{}).Where("id = ?", invite.ID).Count(&n)
	if n != 0 {
		t.Error("accepted invite should be consumed")
	}
}

func TestAcceptInvite_DeletesOwnIdleLobby(t *testing.T) {
	e := newEnv(t)
	u := e.users(t, "host", "guest")
	ctx := context.Background()
	own, err := e.svc.GetOrCreateLobby(ctx, u[1].ID)
	if err != nil {
		t.Fatalf("GetOrCreateLobby: %v", err)
	}
	client := e.hub.Subscribe(own.ID)

	e.join(t, u[0], u[1])

	var n int64
	e.db.Model(&models.MysteryBoxLobby{}).Where("id = ?", own.ID).Count(&n)
	if n != 0 {
		t.Fatal("guest's own lobby should be deleted")
	}
	var last hub.Event
	for msg := range client {
		_ = json.Unmarshal(msg, &last)
	}
	if last.Type != EventLobbyClosed {
		t.Errorf("last event on closed lobby = %q, want %q", last.Type, EventLobbyClosed)
	}
}

func TestAcceptInvite_LobbyAlreadyRolled(t *testing.T) {
	e := newEnv(t)
	u := e.users(t, "host", "guest")
	testutil.MakeFriends(t, e.db, u[0].ID, u[1].ID)
	invite, err := e.svc.Invite(context.Background(), u[0].ID, u[1].ID)
	if err != nil {
		t.Fatalf("invite: %v", err)
	}
	e.spin(t, u[0])

	_, err = e.svc.AcceptInvite(context.Background(), u[1].ID, invite.ID)
	wantErr(t, err, ErrLobbyAlreadyRolled)
	if ms := e.memberships(t, u[1].ID); len(ms) != 0 {
		t.Fatalf("memberships = %+v, want none", ms)
	}
}

func TestAcceptInvite_OwnActiveChallenge(t *testing.T) {
	e := newEnv(t)
	u := e.users(t, "host", "guest")
	testutil.MakeFriends(t, e.db, u[0].ID, u[1].ID)
	invite, err := e.svc.Invite(context.Background(), u[0].ID, u[1].ID)
	if err != nil {
		t.Fatalf("invite: %v", err)
	}
	ownRoll := e.spin(t, u[1])

	_, err = e.svc.AcceptInvite(context.Background(), u[1].ID, invite.ID)
	wantErr(t, err, ErrOwnActiveChallenge)
	if !e.rollExists(t, ownRoll.ID) {
		t.Error("failed accept must not touch the guest's own roll")
	}
	var n int64
	e.db.Model(&models.Notification{}).Where("id = ?", invite.ID).Count(&n)
	if n != 1 {
		t.Error("failed accept must not consume the invite")
	}
}

func TestAcceptInvite_Errors(t *testing.T) {
	e := newEnv(t)
	u := e.users(t, "host", "guest", "other")
	ctx := context.Background()

	_, err := e.svc.AcceptInvite(ctx, u[1].ID, 12345)
	wantErr(t, err, ErrInviteNotFound)

	testutil.MakeFriends(t, e.db, u[0].ID, u[1].ID)
	invite, err := e.svc.Invite(ctx, u[0].ID, u[1].ID)
	if err != nil {
		t.Fatalf("invite: %v", err)
	}
	// Someone else's invite is not found for this user.
	_, err = e.svc.AcceptInvite(ctx, u[2].ID, invite.ID)
	wantErr(t, err, ErrInviteNotFound)

	if err := e.svc.DeclineInvite(ctx, u[1].ID, invite.ID); err != nil {
		t.Fatalf("decline: %v", err)
	}
	wantErr(t, e.svc.DeclineInvite(ctx, u[1].ID, invite.ID), ErrInviteNotFound)
}

func TestKick(t *testing.T) {
	e := newEnv(t)
	u := e.users(t, "host", "a", "b")
	e.join(t, u[0], u[1])
	e.join(t, u[0], u[2])
	ctx := context.Background()

	wantErr(t, e.svc.Kick(ctx, u[0].ID, u[0].ID), ErrCannotKickSelf)
	wantErr(t, e.svc.Kick(ctx, u[1].ID, u[2].ID), ErrHostOnly)
	wantErr(t, e.svc.Kick(ctx, u[0].ID, 9999), ErrMemberNotFound)

	if err := e.svc.Kick(ctx, u[0].ID, u[1].ID); err != nil {
		t.Fatalf("kick: %v", err)
	}
	if ms := e.memberships(t, u[1].ID); len(ms) != 0 {
		t.Fatalf("kicked user memberships = %+v", ms)
	}
}

func TestLeave_HostDeletesLobby(t *testing.T) {
	e := newEnv(t)
	u := e.users(t, "host", "a")
	e.join(t, u[0], u[1])
	e.spin(t, u[0])
	if _, err := e.svc.StartDiscardVote(context.Background(), u[0].ID, models.IntentDiscard); err != nil {
		t.Fatalf("start vote: %v", err)
	}

	if err := e.svc.Leave(context.Background(), u[0].ID); err != nil {
		t.Fatalf("leave: %v", err)
	}
	for _, m := range []any{&models.MysteryBoxLobby{}, &models.MysteryBoxLobbyMember{}, &models.MysteryBoxRoll{}, &models.MysteryBoxDiscardVote{}} {
		var n int64
		e.db.Model(m).Count(&n)
		if n != 0 {
			t.Errorf("%T rows = %d after host left", m, n)
		}
	}
	wantErr(t, e.svc.Leave(context.Background(), u[1].ID), ErrNotInLobby)
}

func TestSpin(t *testing.T) {
	e := newEnv(t)
	host := e.users(t, "host")[0]
	ctx := context.Background()

	roll := e.spin(t, host)
	if roll.MapID != e.kino.ID || roll.ChallengeType != progression.ChallengeHighestRound {
		t.Fatalf("roll = %+v", roll)
	}
	if got := testutil.Reload(t, e.db, host.ID).MysteryBoxTokens; got != models.MaxMysteryBoxTokens-1 {
		t.Errorf("tokens = %d, want %d", got, models.MaxMysteryBoxTokens-1)
	}
	_, err := e.svc.Spin(ctx, host.ID)
	wantErr(t, err, ErrRollActive)

	l, err := e.svc.GetOrCreateLobby(ctx, host.ID)
	if err != nil {
		t.Fatalf("GetOrCreateLobby: %v", err)
	}
	if l.State() != StateRolling || l.Roll == nil || l.Roll.ID != roll.ID {
		t.Fatalf("lobby state = %s roll = %+v", l.State(), l.Roll)
	}
}

func TestSpin_NoTokens(t *testing.T) {
	e := newEnv(t)
	host := e.users(t, "host")[0]
	e.db.Model(&models.User{}).Where("id = ?", host.ID).Update("mystery_box_tokens", 0)

	_, err := e.svc.Spin(context.Background(), host.ID)
	wantErr(t, err, ErrNoTokens)
}

func TestCompleteRoll(t *testing.T) {
	e := newEnv(t)
	u := e.users(t, "host", "a")
	e.join(t, u[0], u[1])
	roll := e.spin(t, u[0])
	ctx := context.Background()

	other := models.ChallengeLog{ID: 41, MapID: e.kino.ID, ChallengeType: progression.ChallengeNoDowns}
	done, err := e.svc.CompleteRoll(ctx, u[0].ID, other)
	if err != nil || done {
		t.Fatalf("non-matching run completed roll: %v %v", done, err)
	}
	done, err = e.svc.CompleteRoll(ctx, u[1].ID, models.ChallengeLog{ID: 42, MapID: e.kino.ID, ChallengeType: roll.ChallengeType})
	if err != nil || done {
		t.Fatalf("member run completed roll: %v %v", done, err)
	}

	done, err = e.svc.CompleteRoll(ctx, u[0].ID, models.ChallengeLog{ID: 43, MapID: e.kino.ID, ChallengeType: roll.ChallengeType})
	if err != nil || !done {
		t.Fatalf("matching run did not complete roll: %v %v", done, err)
	}

	var stored models.MysteryBoxRoll
	e.db.First(&stored, roll.ID)
	if !stored.CompletedByHost || stored.ChallengeLogID == nil || *stored.ChallengeLogID != 43 {
		t.Errorf("stored roll = %+v", stored)
	}
	l, _ := e.svc.GetOrCreateLobby(ctx, u[0].ID)
	if l.State() != StateEmpty {
		t.Errorf("lobby state after completion = %s", l.State())
	}

	// Invites unlock again.
	c := e.users(t, "c")[0]
	testutil.MakeFriends(t, e.db, u[0].ID, c.ID)
	if _, err := e.svc.Invite(ctx, u[0].ID, c.ID); err != nil {
		t.Errorf("invite after completion: %v", err)
	}
}

func TestRefillTokens_StopsAtCap(t *testing.T) {
	e := newEnv(t)
	u := e.users(t, "empty", "full")
	e.db.Model(&models.User{}).Where("id = ?", u[0].ID).Update("mystery_box_tokens", 0)

	for i := 0; i < 5; i++ {
		if _, err := RefillTokens(context.Background(), e.db); err != nil {
			t.Fatalf("refill: %v", err)
		}
	}
	for _, user := range u {
		if got := testutil.Reload(t, e.db, user.ID).MysteryBoxTokens; got != models.MaxMysteryBoxTokens {
			t.Errorf("%s tokens = %d, want %d", user.Nickname, got, models.MaxMysteryBoxTokens)
		}
	}
}

// threeParty returns host and two members of a lobby with an active roll.
func threeParty(t *testing.T, e env) ([]models.User, *models.MysteryBoxRoll) {
	t.Helper()
	u := e.users(t, "host", "a", "b")
	e.join(t, u[0], u[1])
	e.join(t, u[0], u[2])
	return u, e.spin(t, u[0])
}

func cast(t *testing.T, e env, u models.User, b models.Ballot) *VoteResult {
	t.Helper()
	r, err := e.svc.CastVote(context.Background(), u.ID, b)
	if err != nil {
		t.Fatalf("%s votes %s: %v", u.Nickname, b, err)
	}
	return r
}

func TestDiscardVote_PendingThenRejected(t *testing.T) {
	e := newEnv(t)
	u, roll := threeParty(t, e)

	start, err := e.svc.StartDiscardVote(context.Background(), u[0].ID, models.IntentDiscard)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if start.VotersNeeded != 3 || start.Status != VotePending {
		t.Fatalf("start = %+v", start)
	}

	cast(t, e, u[0], models.BallotYes)
	r := cast(t, e, u[1], models.BallotYes)
	if r.Status != VotePending || r.Tally.Yes != 2 {
		t.Fatalf("after two YES: %+v", r)
	}

	r = cast(t, e, u[2], models.BallotNo)
	if r.Status != VoteRejected {
		t.Fatalf("after NO: %+v", r)
	}
	if !e.rollExists(t, roll.ID) {
		t.Fatal("rejected vote must leave the roll")
	}
	_, err = e.svc.CastVote(context.Background(), u[0].ID, models.BallotYes)
	wantErr(t, err, ErrNoVoteInProgress)
}

func TestDiscardVote_Approved(t *testing.T) {
	e := newEnv(t)
	u, roll := threeParty(t, e)
	if _, err := e.svc.StartDiscardVote(context.Background(), u[0].ID, models.IntentDiscard); err != nil {
		t.Fatalf("start: %v", err)
	}

	cast(t, e, u[0], models.BallotYes)
	cast(t, e, u[1], models.BallotYes)
	r := cast(t, e, u[2], models.BallotYes)
	if r.Status != VoteApproved || r.Rerolled {
		t.Fatalf("after three YES: %+v", r)
	}
	if e.rollExists(t, roll.ID) {
		t.Fatal("approved vote must delete the roll")
	}
	l, _ := e.svc.GetOrCreateLobby(context.Background(), u[0].ID)
	if l.State() != StateEmpty || l.Vote != nil {
		t.Fatalf("lobby after approval: state %s vote %+v", l.State(), l.Vote)
	}
}

func TestDiscardVote_LastBallotWins(t *testing.T) {
	e := newEnv(t)
	u, roll := threeParty(t, e)
	if _, err := e.svc.StartDiscardVote(context.Background(), u[0].ID, models.IntentDiscard); err != nil {
		t.Fatalf("start: %v", err)
	}

	cast(t, e, u[1], models.BallotNo)
	r := cast(t, e, u[1], models.BallotYes)
	if r.Status != VotePending || r.Tally.No != 0 || r.Tally.Yes != 1 {
		t.Fatalf("after change of mind: %+v", r)
	}
	cast(t, e, u[0], models.BallotYes)
	cast(t, e, u[2], models.BallotYes)
	if e.rollExists(t, roll.ID) {
		t.Fatal("roll should be discarded")
	}
}

func TestDiscardVote_RerollSpendsToken(t *testing.T) {
	e := newEnv(t)
	u, roll := threeParty(t, e)
	if _, err := e.svc.StartDiscardVote(context.Background(), u[0].ID, models.IntentReroll); err != nil {
		t.Fatalf("start: %v", err)
	}
	cast(t, e, u[0], models.BallotYes)
	cast(t, e, u[1], models.BallotYes)
	r := cast(t, e, u[2], models.BallotYes)

	if r.Status != VoteApproved || !r.Rerolled || r.Roll == nil || r.Roll.ID == roll.ID {
		t.Fatalf("reroll result = %+v", r)
	}
	if got := testutil.Reload(t, e.db, u[0].ID).MysteryBoxTokens; got != models.MaxMysteryBoxTokens-2 {
		t.Errorf("host tokens = %d, want %d", got, models.MaxMysteryBoxTokens-2)
	}
	l, _ := e.svc.GetOrCreateLobby(context.Background(), u[0].ID)
	if l.Roll == nil || l.Roll.ID != r.Roll.ID {
		t.Fatalf("lobby roll = %+v, want %d", l.Roll, r.Roll.ID)
	}
}

func TestDiscardVote_RerollWithoutTokens(t *testing.T) {
	e := newEnv(t)
	u, roll := threeParty(t, e)
	e.db.Model(&models.User{}).Where("id = ?", u[0].ID).Update("mystery_box_tokens", 0)
	if _, err := e.svc.StartDiscardVote(context.Background(), u[0].ID, models.IntentReroll); err != nil {
		t.Fatalf("start: %v", err)
	}
	cast(t, e, u[0], models.BallotYes)
	cast(t, e, u[1], models.BallotYes)
	r := cast(t, e, u[2], models.BallotYes)

	if r.Status != VoteApproved || r.Rerolled {
		t.Fatalf("result = %+v, want approved without reroll", r)
	}
	if e.rollExists(t, roll.ID) {
		t.Fatal("roll should be discarded")
	}
}

func TestDiscardVote_RepeatedFinalBallot(t *testing.T) {
	cases := []struct {
		name       string
		intent     models.VoteIntent
		concurrent bool
		wantState  State
		wantTokens int
	}{
		{"discard", models.IntentDiscard, false, StateEmpty, models.MaxMysteryBoxTokens - 1},
		{"discard concurrent", models.IntentDiscard, true, StateEmpty, models.MaxMysteryBoxTokens - 1},
		{"reroll", models.IntentReroll, false, StateRolling, models.MaxMysteryBoxTokens - 2},
		{"reroll concurrent", models.IntentReroll, true, StateRolling, models.MaxMysteryBoxTokens - 2},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := newEnv(t)
			u, roll := threeParty(t, e)
			ctx := context.Background()
			if _, err := e.svc.StartDiscardVote(ctx, u[0].ID, tc.intent); err != nil {
				t.Fatalf("start: %v", err)
			}
			cast(t, e, u[0], models.BallotYes)
			cast(t, e, u[1], models.BallotYes)

			results := make([]*VoteResult, 2)
			errs := make([]error, 2)
			if tc.concurrent {
				var wg sync.WaitGroup
				for i := range results {
					wg.Add(1)
					go func(i int) {
						defer wg.Done()
						results[i], errs[i] = e.svc.CastVote(ctx, u[2].ID, models.BallotYes)
					}(i)
				}
				wg.Wait()
			} else {
				for i := range results {
					results[i], errs[i] = e.svc.CastVote(ctx, u[2].ID, models.BallotYes)
				}
			}

			var newRoll uint
			for i, r := range results {
				if errs[i] != nil {
					t.Fatalf("final ballot %d: %v", i, errs[i])
				}
				if r.Status != VoteApproved {
					t.Fatalf("final ballot %d status = %s", i, r.Status)
				}
				if r.Rerolled != (tc.intent == models.IntentReroll) {
					t.Fatalf("final ballot %d rerolled = %v", i, r.Rerolled)
				}
				if r.Roll != nil {
					if newRoll != 0 && r.Roll.ID != newRoll {
						t.Errorf("final ballots report rolls %d and %d", newRoll, r.Roll.ID)
					}
					newRoll = r.Roll.ID
				}
			}

			if e.rollExists(t, roll.ID) {
				t.Error("original roll should be gone")
			}
			if got := testutil.Reload(t, e.db, u[0].ID).MysteryBoxTokens; got != tc.wantTokens {
				t.Errorf("host tokens = %d, want %d", got, tc.wantTokens)
			}
			l, err := e.svc.GetOrCreateLobby(ctx, u[1].ID)
			if err != nil {
				t.Fatalf("GetOrCreateLobby: %v", err)
			}
			if l.State() != tc.wantState || l.Vote != nil {
				t.Fatalf("lobby after approval: state %s vote %+v", l.State(), l.Vote)
			}
			if tc.wantState == StateRolling && l.Roll.ID != newRoll {
				t.Errorf("lobby roll = %d, want %d", l.Roll.ID, newRoll)
			}

			// The recorded approval does not block the next vote.
			if tc.wantState == StateRolling {
				if _, err := e.svc.StartDiscardVote(ctx, u[0].ID, models.IntentDiscard); err != nil {
					t.Fatalf("next vote: %v", err)
				}
			}
		})
	}
}

func TestDiscardVote_MembershipChangeCancels(t *testing.T) {
	e := newEnv(t)
	u, roll := threeParty(t, e)
	if _, err := e.svc.StartDiscardVote(context.Background(), u[0].ID, models.IntentDiscard); err != nil {
		t.Fatalf("start: %v", err)
	}
	cast(t, e, u[0], models.BallotYes)

	if err := e.svc.Leave(context.Background(), u[2].ID); err != nil {
		t.Fatalf("leave: %v", err)
	}
	_, err := e.svc.CastVote(context.Background(), u[1].ID, models.BallotYes)
	wantErr(t, err, ErrNoVoteInProgress)
	if !e.rollExists(t, roll.ID) {
		t.Fatal("cancelled vote must leave the roll")
	}

	// A fresh vote needs only the remaining two.
	r, err := e.svc.StartDiscardVote(context.Background(), u[0].ID, models.IntentDiscard)
	if err != nil {
		t.Fatalf("restart: %v", err)
	}
	if r.VotersNeeded != 2 {
		t.Errorf("voters needed = %d, want 2", r.VotersNeeded)
	}
}

func TestDiscardVote_Preconditions(t *testing.T) {
	e := newEnv(t)
	u := e.users(t, "host", "a", "loner")
	e.join(t, u[0], u[1])
	ctx := context.Background()

	_, err := e.svc.StartDiscardVote(ctx, u[0].ID, models.IntentDiscard)
	wantErr(t, err, ErrNoActiveRoll)

	e.spin(t, u[0])
	_, err = e.svc.StartDiscardVote(ctx, u[0].ID, "burn")
	wantErr(t, err, ErrInvalidIntent)
	_, err = e.svc.StartDiscardVote(ctx, u[1].ID, models.IntentDiscard)
	wantErr(t, err, ErrHostOnly)

	if _, err := e.svc.StartDiscardVote(ctx, u[0].ID, models.IntentDiscard); err != nil {
		t.Fatalf("start: %v", err)
	}
	_, err = e.svc.StartDiscardVote(ctx, u[0].ID, models.IntentReroll)
	wantErr(t, err, ErrVoteInProgress)

	_, err = e.svc.CastVote(ctx, u[2].ID, models.BallotYes)
	wantErr(t, err, ErrNotInLobby)
	_, err = e.svc.CastVote(ctx, u[1].ID, "MAYBE")
	wantErr(t, err, ErrInvalidBallot)
}

func TestEvents_PublishedAfterCommit(t *testing.T) {
	e := newEnv(t)
	u := e.users(t, "host", "a")
	l, err := e.svc.GetOrCreateLobby(context.Background(), u[0].ID)
	if err != nil {
		t.Fatalf("GetOrCreateLobby: %v", err)
	}
	client := e.hub.Subscribe(l.ID)
	defer e.hub.Unsubscribe(l.ID, client)

	e.join(t, u[0], u[1])
	e.spin(t, u[0])

	var types []string
	for len(client) > 0 {
		var evt hub.Event
		if err := json.Unmarshal(<-client, &evt); err != nil {
			t.Fatalf("decode: %v", err)
		}
		types = append(types, evt.Type)
	}
	if len(types) != 2 || types[0] != EventMemberJoined || types[1] != EventRollSpun {
		t.Fatalf("events = %v, want [%s %s]", types, EventMemberJoined, EventRollSpun)
	}

	// A failed operation publishes nothing.
	_, _ = e.svc.Spin(context.Background(), u[0].ID)
	if len(client) != 0 {
		t.Fatalf("failed spin published %d event(s)", len(client))
	}
}

func TestRemovesUser(t *testing.T) {
	encode := func(typ string, payload any) []byte {
		b, err := json.Marshal(hub.Event{Type: typ, LobbyID: 1, Payload: payload})
		if err != nil {
			t.Fatalf("encode: %v", err)
		}
		return b
	}
	cases := []struct {
		name string
		msg  []byte
		want bool
	}{
		{"viewer kicked", encode(EventMemberKicked, userPayload{UserID: 7}), true},
		{"viewer left", encode(EventMemberLeft, userPayload{UserID: 7}), true},
		{"other member kicked", encode(EventMemberKicked, userPayload{UserID: 8}), false},
		{"viewer joined", encode(EventMemberJoined, userPayload{UserID: 7}), false},
		{"roll event", encode(EventRollSpun, map[string]uint{"id": 7}), false},
		{"garbage", []byte("not json"), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := RemovesUser(tc.msg, 7); got != tc.want {
				t.Errorf("RemovesUser = %v, want %v", got, tc.want)
			}
		})
	}
}
