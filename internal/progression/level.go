package progression

import "sort"

// MaxLevel is the highest reachable level.
const MaxLevel = 100

// levelThresholds[i] is the cumulative XP needed for level i+1.
var levelThresholds = buildThresholds()

func buildThresholds() []int {
	t := make([]int, MaxLevel)
	for n := 1; n <= MaxLevel; n++ {
		k := n - 1
		t[n-1] = 100*k*k + 400*k
	}
	return t
}

// LevelThreshold returns the cumulative XP required for level. Out-of-range
// levels are clamped.
func LevelThreshold(level int) int {
	if level < 1 {
		level = 1
	}
	if level > MaxLevel {
		level = MaxLevel
	}
	return levelThresholds[level-1]
}

// LevelInfo describes where a cumulative XP total sits on the level table.
// For the max level NextLevelXP equals CurrentLevelXP and XPToNext is zero.
type LevelInfo struct {
	Level          int    `json:"level"`
	Rank           string `json:"rank"`
	TotalXP        int    `json:"total_xp"`
	CurrentLevelXP int    `json:"current_level_xp"`
	NextLevelXP    int    `json:"next_level_xp"`
	XPToNext       int    `json:"xp_to_next"`
	Progress       int    `json:"progress"`
	IsMaxLevel     bool   `json:"is_max_level"`
}

// LevelFromXP maps cumulative XP to a level. This is the only place a level is
// computed; nothing persists it.
func LevelFromXP(totalXP int) LevelInfo {
	if totalXP < 0 {
		totalXP = 0
	}

	// First index whose threshold exceeds totalXP; the level is that index.
	level := sort.Search(len(levelThresholds), func(i int) bool {
		return levelThresholds[i] > totalXP
	})
	if level < 1 {
		level = 1
	}

	info := LevelInfo{
		Level:          level,
		Rank:           RankForLevel(level),
		TotalXP:        totalXP,
		CurrentLevelXP: levelThresholds[level-1],
	}

	if level >= MaxLevel {
		info.NextLevelXP = info.CurrentLevelXP
		info.Progress = 100
		info.IsMaxLevel = true
		return info
	}

	info.NextLevelXP = levelThresholds[level]
	info.XPToNext = info.NextLevelXP - totalXP
	span := info.NextLevelXP - info.CurrentLevelXP
	info.Progress = (totalXP - info.CurrentLevelXP) * 100 / span
	return info
}

var rankTitles = []string{
	"Recruit",
	"Survivor",
	"Scavenger",
	"Trainer",
	"Slayer",
	"Veteran",
	"Elite",
	"Commander",
	"Warlord",
	"Legend",
}

// RankForLevel returns the rank title for a level; ranks span ten levels each.
func RankForLevel(level int) string {
	if level < 1 {
		level = 1
	}
	idx := (level - 1) / 10
	if idx >= len(rankTitles) {
		idx = len(rankTitles) - 1
	}
	return rankTitles[idx]
}
