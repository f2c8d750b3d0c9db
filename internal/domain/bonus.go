package domain

// ─── Equipment Bonus Resolution ─────────────────────────────────────────────
// Accessories carry multiplicative reward bonuses; color skins never do.
// Stacking is a fold over a small lookup table: multipliers combine by
// multiplication (two +10% items give ×1.21, not ×1.20), effect names are
// appended in the order the item ids are given.

// Bonus is a combined multiplicative reward scaling.
type Bonus struct {
	ExpMultiplier  float64  `json:"exp_multiplier"`
	CoinMultiplier float64  `json:"coin_multiplier"`
	Effects        []string `json:"effects"`
}

// NeutralBonus is the fold identity: no scaling, no effects.
func NeutralBonus() Bonus {
	return Bonus{ExpMultiplier: 1.0, CoinMultiplier: 1.0, Effects: []string{}}
}

// itemBonus is one accessory's contribution.
type itemBonus struct {
	exp    float64
	coin   float64
	effect string
}

// accessoryBonuses maps accessory ids to their contributions.
// Axes an item does not touch stay at 1.0.
var accessoryBonuses = map[string]itemBonus{
	"hat":     {exp: 1.02, coin: 1.0, effect: "学習の心得"},
	"glasses": {exp: 1.0, coin: 1.10, effect: "集中力アップ"},
	"book":    {exp: 1.05, coin: 1.0, effect: "知識の蓄積"},
	"robe":    {exp: 1.0, coin: 1.15, effect: "賢者の加護"},
	"crown":   {exp: 1.20, coin: 1.0, effect: "王者の威厳"},
}

// ResolveBonus folds the equipped item ids into one combined Bonus.
// Unrecognized ids (including color skins) are ignored, not errors.
func ResolveBonus(equippedIDs []string) Bonus {
	b := NeutralBonus()
	for _, id := range equippedIDs {
		item, ok := accessoryBonuses[id]
		if !ok {
			continue
		}
		b.ExpMultiplier *= item.exp
		b.CoinMultiplier *= item.coin
		b.Effects = append(b.Effects, item.effect)
	}
	return b
}

// ScaleExperience applies the experience multiplier, truncating to an integer.
func (b Bonus) ScaleExperience(base int) int {
	return int(float64(base) * b.ExpMultiplier)
}

// ScaleCoins applies the coin multiplier, truncating to an integer.
func (b Bonus) ScaleCoins(base int) int {
	return int(float64(base) * b.CoinMultiplier)
}
