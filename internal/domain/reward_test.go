package domain

import "testing"

// ─── Experience Tests ───────────────────────────────────────────────────────

func TestExperienceFor(t *testing.T) {
	tests := []struct {
		minutes float64
		want    int
	}{
		{0, 0},
		{1.5, 15},
		{10, 100},
		{65, 650},
		{0.25, 2},
		{-3, 0},
	}

	for _, tt := range tests {
		if got := ExperienceFor(tt.minutes); got != tt.want {
			t.Errorf("ExperienceFor(%v) = %d, want %d", tt.minutes, got, tt.want)
		}
	}
}

// ─── Level Tests ────────────────────────────────────────────────────────────

func TestLevelFor(t *testing.T) {
	tests := []struct {
		exp  int
		want int
	}{
		{0, 1},
		{99, 1},
		{100, 2},
		{399, 2},
		{400, 3},
		{650, 3},
		{899, 3},
		{900, 4},
		{1600, 5},
		{2500, 6},
	}

	for _, tt := range tests {
		if got := LevelFor(tt.exp); got != tt.want {
			t.Errorf("LevelFor(%d) = %d, want %d", tt.exp, got, tt.want)
		}
	}
}

func TestLevelFor_NonDecreasing(t *testing.T) {
	prev := 1
	for exp := 0; exp <= 50_000; exp++ {
		lvl := LevelFor(exp)
		if lvl < 1 {
			t.Fatalf("LevelFor(%d) = %d, below 1", exp, lvl)
		}
		if lvl < prev {
			t.Fatalf("LevelFor(%d) = %d, decreased from %d", exp, lvl, prev)
		}
		prev = lvl
	}
}

// Threshold and level formulas must agree exactly: the threshold for level N
// is the first experience value at which LevelFor reports N+1.
func TestNextLevelThreshold_CrossConsistency(t *testing.T) {
	for level := 1; level <= 20; level++ {
		threshold := NextLevelThreshold(level)

		if got := LevelFor(threshold); got != level+1 {
			t.Errorf("LevelFor(threshold %d) = %d, want %d", threshold, got, level+1)
		}
		if got := LevelFor(threshold - 1); got != level {
			t.Errorf("LevelFor(threshold-1 %d) = %d, want %d", threshold-1, got, level)
		}
	}
}

// ─── Coin Tests ─────────────────────────────────────────────────────────────

func TestCoinsFor(t *testing.T) {
	tests := []struct {
		minutes float64
		want    int
	}{
		{0, 0},
		{10, 10},
		{29.9, 29},
		{30, 40},  // +10 tier
		{59, 69},
		{60, 90},  // +10 and +20 tiers stack
		{90, 120},
		{-1, 0},
	}

	for _, tt := range tests {
		if got := CoinsFor(tt.minutes); got != tt.want {
			t.Errorf("CoinsFor(%v) = %d, want %d", tt.minutes, got, tt.want)
		}
	}
}

// ─── Appearance Tests ───────────────────────────────────────────────────────

func TestAppearanceFor(t *testing.T) {
	tests := []struct {
		level       int
		color       string
		size        string
		accessories int
	}{
		{1, "#8B4513", "small", 0},
		{2, "#32CD32", "small", 1},
		{3, "#4169E1", "medium", 2},
		{4, "#FF6347", "medium", 3},
		{5, "#FFD700", "large", 4},
		{6, "#FFD700", "large", 4},  // plateau
		{42, "#FFD700", "large", 4}, // plateau
	}

	for _, tt := range tests {
		got := AppearanceFor(tt.level)
		if got.Color != tt.color {
			t.Errorf("AppearanceFor(%d).Color = %q, want %q", tt.level, got.Color, tt.color)
		}
		if got.Size != tt.size {
			t.Errorf("AppearanceFor(%d).Size = %q, want %q", tt.level, got.Size, tt.size)
		}
		if len(got.Accessories) != tt.accessories {
			t.Errorf("AppearanceFor(%d) has %d accessories, want %d",
				tt.level, len(got.Accessories), tt.accessories)
		}
	}
}

func TestAppearanceFor_NoTableAliasing(t *testing.T) {
	a := AppearanceFor(5)
	a.Accessories[0] = "mutated"

	b := AppearanceFor(5)
	if b.Accessories[0] != "crown" {
		t.Errorf("appearance table was mutated through a returned slice")
	}
}
