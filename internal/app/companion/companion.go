// Package companion implements the companion's evolution state machine.
// Evolution points only grow; the stage advances when points cross the
// next threshold and never regresses. Mood is derived, never stored.
package companion

import (
	"fmt"
	"strings"
	"time"

	"github.com/questforge/questforge/internal/domain"
)

// Point values per unit of activity.
const (
	PointsPerTask        = 5.0
	PointsPerFocusMinute = 0.5
	PointsPerHabit       = 3.0
)

// Energy and happiness tuning.
const (
	MaxStat               = 100
	EnergyDailyRecovery   = 20
	EnergyOverworkCost    = 15
	EnergyActivityCost    = 3
	HappinessPerTask      = 3
	HappinessPerHabit     = 2
	HappinessOverworkCost = 10
	HappinessDailyReturn  = 5
	HappinessPerAbsentDay = 10
	FeedHappiness         = 5
	DefaultName           = "Pixel"
)

// stageThresholds[i] is the points needed to reach stage i+1.
var stageThresholds = [domain.MaxEvolutionStage]float64{0, 100, 500, 2000, 10000}

// Threshold returns the points needed to reach stage (1..5).
func Threshold(stage int) float64 {
	if stage < 1 {
		return 0
	}
	if stage > domain.MaxEvolutionStage {
		stage = domain.MaxEvolutionStage
	}
	return stageThresholds[stage-1]
}

// New returns a stage-1 balanced companion.
func New(id string, now time.Time, today domain.Date) domain.Companion {
	return domain.Companion{
		ID:                  id,
		Name:                DefaultName,
		Archetype:           domain.ArchetypeBalanced,
		EvolutionStage:      1,
		EvolutionPath:       []domain.Archetype{},
		Energy:              MaxStat,
		Happiness:           70,
		LastInteractionDate: today,
		CreatedAt:           now,
	}
}

// Dominant returns the archetype with the strictly highest score, checked
// in the order focus, habit, project. Ties fall back to balanced.
func Dominant(c domain.Companion) domain.Archetype {
	focus := c.TotalFocusMinutes / 60
	habit := float64(c.TotalHabitsWitnessed * 2)
	task := float64(c.TotalTasksWitnessed)
	switch {
	case focus > habit && focus > task:
		return domain.ArchetypeFocus
	case habit > focus && habit > task:
		return domain.ArchetypeHabit
	case task > focus && task > habit:
		return domain.ArchetypeProject
	}
	return domain.ArchetypeBalanced
}

// Update folds a batch of activity into the companion. The returned bool is
// true when the evolution stage advanced.
func Update(c domain.Companion, a domain.Activity, today domain.Date) (domain.Companion, bool) {
	c.TotalTasksWitnessed += a.TasksCompleted
	c.TotalFocusMinutes += a.FocusMinutes
	c.TotalHabitsWitnessed += a.HabitsCompleted
	c.EvolutionPoints += float64(a.TasksCompleted)*PointsPerTask +
		a.FocusMinutes*PointsPerFocusMinute +
		float64(a.HabitsCompleted)*PointsPerHabit

	stage := c.EvolutionStage
	for s := c.EvolutionStage + 1; s <= domain.MaxEvolutionStage; s++ {
		if c.EvolutionPoints >= Threshold(s) {
			stage = s
		}
	}
	evolved := stage > c.EvolutionStage
	if evolved {
		c.EvolutionStage = stage
		c.Archetype = Dominant(c)
		c.EvolutionPath = append(append([]domain.Archetype(nil), c.EvolutionPath...), c.Archetype)
	}

	energy, happy := EnergyActivityCost, HappinessPerTask*a.TasksCompleted+HappinessPerHabit*a.HabitsCompleted
	if a.Overworking {
		energy = EnergyOverworkCost
		happy -= HappinessOverworkCost
	}
	c.Energy = clamp(c.Energy - energy)
	c.Happiness = clamp(c.Happiness + happy)
	c.LastInteractionDate = today
	return c, evolved
}

// Tick is the once-per-day passive update. Energy recovers when the
// companion has not been seen today; happiness rises after a one-day gap
// and falls by 10 per day for longer absences. Running Tick again on the
// same day is a no-op.
func Tick(c domain.Companion, today domain.Date) domain.Companion {
	if !today.After(c.LastInteractionDate) {
		return c
	}
	gap := domain.DaysBetween(c.LastInteractionDate, today)
	c.Energy = clamp(c.Energy + EnergyDailyRecovery)
	if gap == 1 {
		c.ConsecutiveDaysActive++
		c.Happiness = clamp(c.Happiness + HappinessDailyReturn)
	} else {
		c.ConsecutiveDaysActive = 1
		c.Happiness = clamp(c.Happiness - HappinessPerAbsentDay*gap)
	}
	c.LastInteractionDate = today
	return c
}

// Feed restores energy, e.g. from a Companion Treat.
func Feed(c domain.Companion, amount int) (domain.Companion, error) {
	if amount <= 0 {
		return c, fmt.Errorf("%w: feed amount %d", domain.ErrNonPositiveAmount, amount)
	}
	c.Energy = clamp(c.Energy + amount)
	c.Happiness = clamp(c.Happiness + FeedHappiness)
	return c, nil
}

// Rename sets the companion's display name.
func Rename(c domain.Companion, name string) (domain.Companion, error) {
	name = strings.TrimSpace(name)
	if name == "" || len(name) > 32 {
		return c, fmt.Errorf("%w: companion name must be 1-32 characters", domain.ErrInvalidInput)
	}
	c.Name = name
	return c, nil
}

// MoodFor maps the energy/happiness average to one of seven bands.
func MoodFor(energy, happiness int) domain.Mood {
	avg := float64(energy+happiness) / 2
	switch {
	case avg >= 90:
		return domain.MoodEcstatic
	case avg >= 70:
		return domain.MoodHappy
	case avg >= 50:
		return domain.MoodContent
	case avg >= 30:
		return domain.MoodNeutral
	case avg >= 15:
		return domain.MoodTired
	case avg >= 5:
		return domain.MoodExhausted
	}
	return domain.MoodSad
}

var bonusTable = map[domain.Archetype][4]domain.CompanionBonus{
	domain.ArchetypeFocus: {
		{Type: domain.BonusFocus, Value: 0.05, Description: "+5% focus session XP"},
		{Type: domain.BonusFocus, Value: 0.10, Description: "+10% focus session XP"},
		{Type: domain.BonusFocus, Value: 0.15, Description: "+15% focus session XP"},
		{Type: domain.BonusFocus, Value: 0.25, Description: "+25% focus session XP"},
	},
	domain.ArchetypeHabit: {
		{Type: domain.BonusHabitStreak, Value: 0.05, Description: "+5% habit streak protection"},
		{Type: domain.BonusHabitStreak, Value: 0.10, Description: "+10% habit streak protection"},
		{Type: domain.BonusHabitStreak, Value: 0.15, Description: "+15% habit streak protection"},
		{Type: domain.BonusHabitStreak, Value: 0.25, Description: "+25% habit streak protection"},
	},
	domain.ArchetypeProject: {
		{Type: domain.BonusXP, Value: 0.05, Description: "+5% project XP"},
		{Type: domain.BonusXP, Value: 0.10, Description: "+10% project XP"},
		{Type: domain.BonusXP, Value: 0.15, Description: "+15% project XP"},
		{Type: domain.BonusCoins, Value: 0.25, Description: "+25% project coins"},
	},
	domain.ArchetypeBalanced: {
		{Type: domain.BonusXP, Value: 0.03, Description: "+3% all XP"},
		{Type: domain.BonusCoins, Value: 0.05, Description: "+5% all coins"},
		{Type: domain.BonusTaskEfficiency, Value: 0.08, Description: "+8% task efficiency"},
		{Type: domain.BonusXP, Value: 0.12, Description: "+12% all XP"},
	},
}

// BonusFor returns the active bonus for an archetype at a stage, or nil
// below stage 2.
func BonusFor(a domain.Archetype, stage int) *domain.CompanionBonus {
	if stage < 2 {
		return nil
	}
	tiers, ok := bonusTable[a]
	if !ok {
		tiers = bonusTable[domain.ArchetypeBalanced]
	}
	idx := stage - 2
	if idx > len(tiers)-1 {
		idx = len(tiers) - 1
	}
	b := tiers[idx]
	return &b
}

// View annotates a companion with its derived mood and bonus.
func View(c domain.Companion) domain.CompanionView {
	return domain.CompanionView{
		Companion:   c,
		Mood:        MoodFor(c.Energy, c.Happiness),
		ActiveBonus: BonusFor(c.Archetype, c.EvolutionStage),
	}
}

func clamp(v int) int {
	if v < 0 {
		return 0
	}
	if v > MaxStat {
		return MaxStat
	}
	return v
}
