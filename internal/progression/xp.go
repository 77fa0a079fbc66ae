// Package progression holds the XP formulas and the XP → level mapping.
// Everything here is pure and deterministic.
package progression

import "math"

// GlobalMultiplier scales every XP award.
const GlobalMultiplier = 1.25

// bracket is a range of rounds sharing a base rate. End == 0 marks the open
// top bracket, whose ramp spans openRampRounds and then holds at the top rate.
type bracket struct {
	Start      int
	End        int
	Base       float64
	Multiplier float64
}

const openRampRounds = 100

var roundBrackets = []bracket{
	{Start: 1, End: 10, Base: 10, Multiplier: 1.0},
	{Start: 11, End: 30, Base: 15, Multiplier: 1.2},
	{Start: 31, End: 50, Base: 20, Multiplier: 1.4},
	{Start: 51, End: 100, Base: 30, Multiplier: 1.6},
	{Start: 101, End: 200, Base: 40, Multiplier: 1.8},
	{Start: 201, End: 0, Base: 50, Multiplier: 2.0},
}

// perRound is the floored XP for a single round inside b. The rate ramps
// linearly from base*mult at Start to 1.5*base*mult at End.
func (b bracket) perRound(round int) int {
	rate := b.Base * b.Multiplier
	span := b.End - b.Start
	if b.End == 0 {
		span = openRampRounds
	}
	frac := 1.0
	if span > 0 {
		frac = math.Min(float64(round-b.Start)/float64(span), 1)
	}
	return int(math.Floor(rate * (1 + 0.5*frac)))
}

// CalculateRoundXP returns the XP value of reaching round. roundCap <= 0 means
// uncapped.
func CalculateRoundXP(round, roundCap int) int {
	effective := round
	if roundCap > 0 && roundCap < effective {
		effective = roundCap
	}
	if effective <= 0 {
		return 0
	}

	total := 0
	for _, b := range roundBrackets {
		if effective < b.Start {
			break
		}
		top := effective
		if b.End != 0 && b.End < top {
			top = b.End
		}
		for r := b.Start; r <= top; r++ {
			total += b.perRound(r)
		}
	}
	return int(math.Floor(float64(total) * GlobalMultiplier))
}

// CalculateXPGain is the XP earned by moving from prev to next. Only net
// forward progress is rewarded.
func CalculateXPGain(prev, next, roundCap int) int {
	gain := CalculateRoundXP(next, roundCap) - CalculateRoundXP(prev, roundCap)
	if gain < 0 {
		return 0
	}
	return gain
}

// ChallengeType is a named rule-set for a round-based run.
type ChallengeType string

const (
	ChallengeHighestRound  ChallengeType = "HIGHEST_ROUND"
	ChallengeNoDowns       ChallengeType = "NO_DOWNS"
	ChallengeNoPerks       ChallengeType = "NO_PERKS"
	ChallengeNoJug         ChallengeType = "NO_JUG"
	ChallengeNoArmor       ChallengeType = "NO_ARMOR"
	ChallengePistolOnly    ChallengeType = "PISTOL_ONLY"
	ChallengeStartingRoom  ChallengeType = "STARTING_ROOM"
	ChallengeOneBox        ChallengeType = "ONE_BOX"
	ChallengeNoATS         ChallengeType = "NO_ATS"
	ChallengeRound30Speed  ChallengeType = "ROUND_30_SPEEDRUN"
	ChallengeRound50Speed  ChallengeType = "ROUND_50_SPEEDRUN"
	ChallengeRound100Speed ChallengeType = "ROUND_100_SPEEDRUN"
)

var challengeBaseXP = map[ChallengeType]float64{
	ChallengeNoDowns:       200,
	ChallengeNoPerks:       250,
	ChallengeNoJug:         200,
	ChallengeNoArmor:       150,
	ChallengePistolOnly:    300,
	ChallengeStartingRoom:  300,
	ChallengeOneBox:        250,
	ChallengeNoATS:         150,
	ChallengeRound30Speed:  200,
	ChallengeRound50Speed:  300,
	ChallengeRound100Speed: 450,
}

// ChallengeTypes lists every known type, HIGHEST_ROUND first.
func ChallengeTypes() []ChallengeType {
	return []ChallengeType{
		ChallengeHighestRound,
		ChallengeNoDowns,
		ChallengeNoPerks,
		ChallengeNoJug,
		ChallengeNoArmor,
		ChallengePistolOnly,
		ChallengeStartingRoom,
		ChallengeOneBox,
		ChallengeNoATS,
		ChallengeRound30Speed,
		ChallengeRound50Speed,
		ChallengeRound100Speed,
	}
}

// Valid reports whether t is a known challenge type.
func (t ChallengeType) Valid() bool {
	if t == ChallengeHighestRound {
		return true
	}
	_, ok := challengeBaseXP[t]
	return ok
}

// IsSpeedrun reports whether runs of this type are ranked by completion time.
func (t ChallengeType) IsSpeedrun() bool {
	switch t {
	case ChallengeRound30Speed, ChallengeRound50Speed, ChallengeRound100Speed:
		return true
	}
	return false
}

// SpeedrunTarget is the round a speedrun type finishes on, 0 for other types.
func (t ChallengeType) SpeedrunTarget() int {
	switch t {
	case ChallengeRound30Speed:
		return 30
	case ChallengeRound50Speed:
		return 50
	case ChallengeRound100Speed:
		return 100
	}
	return 0
}

// CalculateChallengeXP returns the award for completing a challenge of type t
// at round. HIGHEST_ROUND has no flat bonus and uses the round formula.
func CalculateChallengeXP(t ChallengeType, round int) int {
	if t == ChallengeHighestRound {
		return CalculateRoundXP(round, 0)
	}
	base, ok := challengeBaseXP[t]
	if !ok || round <= 0 {
		return 0
	}
	scalar := math.Min(float64(round)/20, 3)
	return int(math.Floor(base * GlobalMultiplier * scalar))
}

const (
	mainQuestBaseXP   = 1000
	sideQuestBaseXP   = 250
	soloMultiplier    = 1.5
	noGuideMultiplier = 1.25
)

// CalculateEasterEggXP returns the award for an Easter egg completion.
// Callers grant it at most once per (user, Easter egg).
func CalculateEasterEggXP(isMainQuest, isSolo, isNoGuide bool) int {
	xp := float64(sideQuestBaseXP)
	if isMainQuest {
		xp = mainQuestBaseXP
	}
	xp *= GlobalMultiplier
	if isSolo {
		xp *= soloMultiplier
	}
	if isNoGuide {
		xp *= noGuideMultiplier
	}
	return int(math.Floor(xp))
}
