// Package domain holds the pure types of the QuestForge progression engine:
// quests, habits, companion, skills, challenges, wallet and the aggregate
// State they live in. Nothing here touches storage or transport.
package domain

import "fmt"

// ─── Difficulty ─────────────────────────────────────────────────────────────

// Difficulty is the six-tier task classification driving reward multipliers.
type Difficulty string

const (
	DifficultyTrivial Difficulty = "trivial"
	DifficultyEasy    Difficulty = "easy"
	DifficultyNormal  Difficulty = "normal"
	DifficultyHard    Difficulty = "hard"
	DifficultyEpic    Difficulty = "epic"
	DifficultyBoss    Difficulty = "boss"
)

// Difficulties lists every tier in ascending order.
var Difficulties = []Difficulty{
	DifficultyTrivial, DifficultyEasy, DifficultyNormal,
	DifficultyHard, DifficultyEpic, DifficultyBoss,
}

// IsValid reports whether d is a known tier.
func (d Difficulty) IsValid() bool { return d.Tier() > 0 }

// Tier returns the 1-based ordinal of d, or 0 if unknown.
func (d Difficulty) Tier() int {
	for i, v := range Difficulties {
		if v == d {
			return i + 1
		}
	}
	return 0
}

// ParseDifficulty validates a user-supplied difficulty.
func ParseDifficulty(s string) (Difficulty, error) {
	d := Difficulty(s)
	if !d.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidDifficulty, s)
	}
	return d, nil
}

// ─── Rarity ─────────────────────────────────────────────────────────────────

// Rarity is the three-tier quest classification driving base XP.
type Rarity string

const (
	RarityCommon    Rarity = "common"
	RarityRare      Rarity = "rare"
	RarityLegendary Rarity = "legendary"
)

// Rarities lists every rarity in ascending order.
var Rarities = []Rarity{RarityCommon, RarityRare, RarityLegendary}

// IsValid reports whether r is a known rarity.
func (r Rarity) IsValid() bool { return r.Tier() > 0 }

// Tier returns the 1-based ordinal of r, or 0 if unknown.
func (r Rarity) Tier() int {
	for i, v := range Rarities {
		if v == r {
			return i + 1
		}
	}
	return 0
}

// ParseRarity validates a user-supplied rarity.
func ParseRarity(s string) (Rarity, error) {
	r := Rarity(s)
	if !r.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidRarity, s)
	}
	return r, nil
}

// ─── Energy ─────────────────────────────────────────────────────────────────

// EnergyType classifies the kind of effort a task demands.
type EnergyType string

const (
	EnergyMental   EnergyType = "mental"
	EnergyPhysical EnergyType = "physical"
	EnergyCreative EnergyType = "creative"
)

// IsValid reports whether e is a known energy type.
func (e EnergyType) IsValid() bool {
	switch e {
	case EnergyMental, EnergyPhysical, EnergyCreative:
		return true
	}
	return false
}

// ─── Rewards & Levels ───────────────────────────────────────────────────────

// Reward is an XP and coin payout.
type Reward struct {
	XP    int64 `json:"xp"`
	Coins int64 `json:"coins"`
}

// Add returns the sum of two rewards.
func (r Reward) Add(o Reward) Reward {
	return Reward{XP: r.XP + o.XP, Coins: r.Coins + o.Coins}
}

// IsZero reports whether the reward pays nothing.
func (r Reward) IsZero() bool { return r.XP == 0 && r.Coins == 0 }

// PlayerRole is the title shown for a level band.
type PlayerRole string

const (
	RoleNovice     PlayerRole = "Novice"
	RoleApprentice PlayerRole = "Apprentice"
	RoleWarrior    PlayerRole = "Warrior"
	RoleKnight     PlayerRole = "Knight"
	RoleChampion   PlayerRole = "Champion"
	RoleHero       PlayerRole = "Hero"
	RoleLegend     PlayerRole = "Legend"
	RoleMythic     PlayerRole = "Mythic"
)

// LevelInfo is the inverse lookup of a total XP amount.
type LevelInfo struct {
	Level          int        `json:"level"`
	CurrentLevelXP int64      `json:"current_level_xp"`
	XPForNextLevel int64      `json:"xp_for_next_level"`
	Role           PlayerRole `json:"role"`
}

// ProgressPct returns progress toward the next level (0-100).
func (l LevelInfo) ProgressPct() float64 {
	if l.XPForNextLevel <= 0 {
		return 100
	}
	return float64(l.CurrentLevelXP) / float64(l.XPForNextLevel) * 100
}
