package domain

import (
	"math"
	"testing"
)

// ─── Bonus Resolution Tests ─────────────────────────────────────────────────

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestResolveBonus_Neutral(t *testing.T) {
	b := ResolveBonus(nil)

	if b.ExpMultiplier != 1.0 || b.CoinMultiplier != 1.0 {
		t.Errorf("neutral bonus = %+v, want 1.0/1.0", b)
	}
	if len(b.Effects) != 0 {
		t.Errorf("neutral bonus has effects %v", b.Effects)
	}
}

func TestResolveBonus_CrownAndBook(t *testing.T) {
	b := ResolveBonus([]string{"crown", "book"})

	if !almostEqual(b.ExpMultiplier, 1.26) {
		t.Errorf("exp multiplier = %v, want 1.26 (1.2 × 1.05)", b.ExpMultiplier)
	}
	if b.CoinMultiplier != 1.0 {
		t.Errorf("coin multiplier = %v, want 1.0", b.CoinMultiplier)
	}

	want := []string{"王者の威厳", "知識の蓄積"}
	if len(b.Effects) != 2 || b.Effects[0] != want[0] || b.Effects[1] != want[1] {
		t.Errorf("effects = %v, want %v", b.Effects, want)
	}
}

func TestResolveBonus_MultiplicativeNotAdditive(t *testing.T) {
	// glasses ×1.10 and robe ×1.15 on the coin axis: 1.10 × 1.15 = 1.265.
	b := ResolveBonus([]string{"glasses", "robe"})

	if !almostEqual(b.CoinMultiplier, 1.265) {
		t.Errorf("coin multiplier = %v, want 1.265", b.CoinMultiplier)
	}
	if b.ExpMultiplier != 1.0 {
		t.Errorf("exp multiplier = %v, want 1.0", b.ExpMultiplier)
	}
}

func TestResolveBonus_OrderIndependentMultipliers(t *testing.T) {
	ab := ResolveBonus([]string{"crown", "book", "glasses"})
	ba := ResolveBonus([]string{"glasses", "book", "crown"})

	if !almostEqual(ab.ExpMultiplier, ba.ExpMultiplier) ||
		!almostEqual(ab.CoinMultiplier, ba.CoinMultiplier) {
		t.Errorf("multipliers depend on item order: %+v vs %+v", ab, ba)
	}
}

func TestResolveBonus_IgnoresUnknownAndColors(t *testing.T) {
	b := ResolveBonus([]string{"color_gold", "no_such_item", "book"})

	if !almostEqual(b.ExpMultiplier, 1.05) {
		t.Errorf("exp multiplier = %v, want 1.05", b.ExpMultiplier)
	}
	if len(b.Effects) != 1 {
		t.Errorf("effects = %v, want only the book effect", b.Effects)
	}
}

func TestBonus_ScaleTruncates(t *testing.T) {
	b := ResolveBonus([]string{"book"}) // ×1.05

	if got := b.ScaleExperience(650); got != 682 { // 682.5 → 682
		t.Errorf("ScaleExperience(650) = %d, want 682", got)
	}
	if got := b.ScaleCoins(95); got != 95 {
		t.Errorf("ScaleCoins(95) = %d, want 95 (coin axis untouched)", got)
	}
}
