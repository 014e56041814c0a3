// Package reward maps quest difficulty, rarity and time efficiency to
// XP and coin payouts. Every function is pure.
package reward

import (
	"fmt"
	"math"

	"github.com/questforge/questforge/internal/domain"
)

// Multipliers is the per-difficulty scaling of XP and coins.
type Multipliers struct {
	XP    float64
	Coins float64
	// BaseMinutes is the default estimate for the tier.
	BaseMinutes int
}

var difficultyTable = map[domain.Difficulty]Multipliers{
	domain.DifficultyTrivial: {XP: 0.5, Coins: 0.25, BaseMinutes: 5},
	domain.DifficultyEasy:    {XP: 0.75, Coins: 0.5, BaseMinutes: 15},
	domain.DifficultyNormal:  {XP: 1, Coins: 1, BaseMinutes: 30},
	domain.DifficultyHard:    {XP: 1.5, Coins: 1.5, BaseMinutes: 60},
	domain.DifficultyEpic:    {XP: 2.5, Coins: 2.5, BaseMinutes: 120},
	domain.DifficultyBoss:    {XP: 5, Coins: 5, BaseMinutes: 240},
}

// CoinBaseRatio is the coin base of a rarity relative to its XP base.
const CoinBaseRatio = 0.5

// MaxTimeBonus caps the efficiency bonus at +30%.
const MaxTimeBonus = 0.3

// For returns the multipliers of a difficulty tier.
func For(d domain.Difficulty) (Multipliers, bool) {
	m, ok := difficultyTable[d]
	return m, ok
}

// BaseXP returns the rarity's XP base: common 10, rare 25, legendary 50.
func BaseXP(r domain.Rarity) float64 {
	switch r {
	case domain.RarityCommon:
		return 10
	case domain.RarityRare:
		return 25
	case domain.RarityLegendary:
		return 50
	}
	return 0
}

// BaseCoins returns the rarity's coin base.
func BaseCoins(r domain.Rarity) float64 {
	return BaseXP(r) * CoinBaseRatio
}

// TimeBonus returns the efficiency multiplier for finishing in actual minutes
// a task estimated at est minutes. Slower than estimated yields 1.
func TimeBonus(est, actual int) float64 {
	if est <= 0 || actual <= 0 {
		return 1
	}
	eff := float64(est) / float64(actual)
	if eff < 1 {
		return 1
	}
	return 1 + math.Min((eff-1)*0.2, MaxTimeBonus)
}

// Compute returns the reward for a quest. est and actual are optional
// (pass 0 when unknown); the time bonus applies only when both are set.
func Compute(d domain.Difficulty, r domain.Rarity, est, actual int) (domain.Reward, error) {
	m, ok := difficultyTable[d]
	if !ok {
		return domain.Reward{}, fmt.Errorf("%w: %q", domain.ErrInvalidDifficulty, d)
	}
	if !r.IsValid() {
		return domain.Reward{}, fmt.Errorf("%w: %q", domain.ErrInvalidRarity, r)
	}
	bonus := TimeBonus(est, actual)
	return domain.Reward{
		XP:    int64(math.Round(BaseXP(r) * m.XP * bonus)),
		Coins: int64(math.Round(BaseCoins(r) * m.Coins * bonus)),
	}, nil
}

// Boost scales a reward by (1+xpBonus) on XP and (1+coinBonus) on coins,
// rounding each. Zero bonuses return r unchanged.
func Boost(r domain.Reward, xpBonus, coinBonus float64) domain.Reward {
	if xpBonus != 0 {
		r.XP = int64(math.Round(float64(r.XP) * (1 + xpBonus)))
	}
	if coinBonus != 0 {
		r.Coins = int64(math.Round(float64(r.Coins) * (1 + coinBonus)))
	}
	return r
}
