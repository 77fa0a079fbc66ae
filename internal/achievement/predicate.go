package achievement

import (
	"roundtracker/backend/internal/catalog"
	"roundtracker/backend/internal/models"
	"roundtracker/backend/internal/progression"
)

// ChallengeRun is the part of a challenge log the predicates look at.
type ChallengeRun struct {
	MapID         uint
	ChallengeType progression.ChallengeType
	Round         int
	Verified      bool
}

// EasterEggRun is the part of an Easter egg log the predicates look at.
type EasterEggRun struct {
	EasterEggID uint
	Solo        bool
	Verified    bool
}

// History is everything a user has logged.
type History struct {
	Challenges []ChallengeRun
	EasterEggs []EasterEggRun
}

// Satisfied reports whether h meets def. Verified-only definitions ignore
// unverified runs.
func Satisfied(def catalog.Definition, h History) bool {
	c := def.Criteria
	switch def.Type {
	case models.AchievementRoundMilestone:
		for _, r := range h.Challenges {
			if c.VerifiedOnly && !r.Verified {
				continue
			}
			if !onMap(def, r.MapID) || !ofType(c.ChallengeType, r.ChallengeType) {
				continue
			}
			if r.Round >= c.Round {
				return true
			}
		}
	case models.AchievementChallengeComplete:
		for _, r := range h.Challenges {
			if c.VerifiedOnly && !r.Verified {
				continue
			}
			if !onMap(def, r.MapID) || string(r.ChallengeType) != c.ChallengeType {
				continue
			}
			if r.Round >= c.Round {
				return true
			}
		}
	case models.AchievementEasterEggComplete:
		for _, r := range h.EasterEggs {
			if c.VerifiedOnly && !r.Verified {
				continue
			}
			if r.EasterEggID != def.EasterEggID {
				continue
			}
			if !c.RequireSolo || r.Solo {
				return true
			}
		}
	}
	return false
}

func onMap(def catalog.Definition, mapID uint) bool {
	return def.MapID == 0 || def.MapID == mapID
}

func ofType(want string, got progression.ChallengeType) bool {
	return want == "" || progression.ChallengeType(want) == got
}
