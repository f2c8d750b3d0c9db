package domain

import "math"

// ─── Reward Formulas ────────────────────────────────────────────────────────
// Pure functions mapping study time to experience, coins, and level.
// Every write to Character.Experience must be followed by
// Level = LevelFor(Experience); level is derived state, never authored.

// ExperienceFor converts study minutes to experience points: 1 minute = 10 XP.
func ExperienceFor(minutes float64) int {
	if minutes <= 0 {
		return 0
	}
	return int(minutes * 10)
}

// LevelFor computes the level for an experience total.
// Level 1: 0–99 XP, level 2: 100–399, level 3: 400–899, and so on —
// level = isqrt(exp/100) + 1 once exp reaches 100.
func LevelFor(experience int) int {
	if experience < 100 {
		return 1
	}
	return isqrt(experience/100) + 1
}

// NextLevelThreshold returns the experience total at which LevelFor first
// reports level+1. Kept in exact lockstep with LevelFor.
func NextLevelThreshold(level int) int {
	if level < 1 {
		level = 1
	}
	return level * level * 100
}

// CoinsFor converts study minutes to base coins: 1 coin per full minute,
// +10 at the 30-minute tier and a further +20 at the 60-minute tier.
// The tiers stack — a 60-minute session gets the full +30.
func CoinsFor(minutes float64) int {
	if minutes <= 0 {
		return 0
	}
	coins := int(minutes)
	if minutes >= 30 {
		coins += 10
	}
	if minutes >= 60 {
		coins += 20
	}
	return coins
}

// isqrt is the integer square root: the largest r with r*r <= n.
// math.Sqrt is corrected afterwards so boundary values (1, 4, 9, …) never
// fall on the wrong side through floating imprecision.
func isqrt(n int) int {
	if n < 0 {
		return 0
	}
	r := int(math.Sqrt(float64(n)))
	for r*r > n {
		r--
	}
	for (r+1)*(r+1) <= n {
		r++
	}
	return r
}

// ─── Appearance Table ───────────────────────────────────────────────────────

// appearanceByLevel is the fixed look-up for levels 1–5. Appearance plateaus
// at level 5; beyond that only equipped items add accessories.
var appearanceByLevel = [5]Appearance{
	{Color: "#8B4513", Size: "small", Accessories: []string{}},
	{Color: "#32CD32", Size: "small", Accessories: []string{"hat"}},
	{Color: "#4169E1", Size: "medium", Accessories: []string{"hat", "book"}},
	{Color: "#FF6347", Size: "medium", Accessories: []string{"hat", "book", "glasses"}},
	{Color: "#FFD700", Size: "large", Accessories: []string{"crown", "book", "glasses", "robe"}},
}

// AppearanceFor returns the level-derived appearance. Levels above 5 return
// the level-5 entry unchanged.
func AppearanceFor(level int) Appearance {
	if level < 1 {
		level = 1
	}
	if level > 5 {
		level = 5
	}
	entry := appearanceByLevel[level-1]
	// Copy the accessory slice so callers can append without aliasing the table.
	acc := make([]string, len(entry.Accessories))
	copy(acc, entry.Accessories)
	entry.Accessories = acc
	return entry
}
