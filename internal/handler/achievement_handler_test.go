package handler

import (
	"net/http"
	"testing"

	"roundtracker/backend/internal/achievement"
	"roundtracker/backend/internal/models"
	"roundtracker/backend/internal/progression"
	"roundtracker/backend/internal/runlog"
	"roundtracker/backend/internal/testutil"
)

func TestCheckAchievements(t *testing.T) {
	e := newEnv(t)
	u := e.user("runner")

	cases := []struct {
		name   string
		userID uint
	}{
		{"no history", u.ID},
		{"no profile", u.ID + 100},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := e.do(http.MethodPost, "/api/v1/achievements/check", tc.userID, nil)
			expect[[]achievement.Unlock](t, w, http.StatusOK)
			if body := w.Body.String(); body != "[]" {
				t.Errorf("body = %s, want []", body)
			}
		})
	}
}

func TestAchievementUnlockAndRevoke(t *testing.T) {
	e := newEnv(t)
	u := e.user("runner")

	run := expect[runlog.ChallengeResult](t, e.do(http.MethodPost, "/api/v1/logs/challenges", u.ID,
		ChallengeLogInput{MapSlug: "kino-der-toten", ChallengeType: progression.ChallengeHighestRound, RoundReached: 10}), http.StatusCreated)
	var first achievement.Unlock
	for _, un := range run.Unlocked {
		if un.Slug == "first-steps" {
			first = un
		}
	}
	if first.AchievementID == 0 {
		t.Fatalf("first-steps not unlocked: %+v", run.Unlocked)
	}

	mine := expect[[]models.UserAchievement](t, e.do(http.MethodGet, "/api/v1/achievements/me", u.ID, nil), http.StatusOK)
	if len(mine) != len(run.Unlocked) {
		t.Fatalf("listed %d unlocks, want %d", len(mine), len(run.Unlocked))
	}
	for _, ua := range mine {
		if ua.AchievementID == first.AchievementID && ua.XPAwarded != first.XPReward {
			t.Errorf("xp_awarded = %d, want %d", ua.XPAwarded, first.XPReward)
		}
	}

	before := testutil.Reload(t, e.db, u.ID).TotalXP
	path := "/api/v1/achievements/me/" + itoa(first.AchievementID)
	revoked := expect[RevokeResponse](t, e.do(http.MethodDelete, path, u.ID, nil), http.StatusOK)
	if revoked.XPRemoved != first.XPReward {
		t.Errorf("removed = %d, want %d", revoked.XPRemoved, first.XPReward)
	}
	if got := testutil.Reload(t, e.db, u.ID).TotalXP; got != before-first.XPReward {
		t.Errorf("total xp = %d, want %d", got, before-first.XPReward)
	}
	expectError(t, e.do(http.MethodDelete, path, u.ID, nil), http.StatusNotFound, "ACHIEVEMENT_NOT_UNLOCKED")
}
