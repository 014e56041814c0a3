// Package habit implements the per-habit streak and momentum engine.
//
// A day counts if the habit was completed. Completing grows the streak by
// exactly one and builds momentum (capped at 2x). Missing decays the streak
// by StreakDecayRate, compounding once per missed day. Passive decay is keyed
// off LastReconciledDate so running it repeatedly never double-penalizes.
package habit

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/questforge/questforge/internal/domain"
)

// Defaults used when a HabitInput leaves tuning fields unset.
const (
	DefaultMissToleranceDays   = 1
	DefaultStreakDecayRate     = 0.2
	DefaultMomentumGrowthRate  = 0.05
	DefaultDifficultyScaleRate = 0.1
	DefaultBaseXP              = 15
	DefaultBaseCoins           = 5

	// MaxMomentumBonus caps momentum at 1 + 1 = 2x.
	MaxMomentumBonus = 1.0
	// MomentumMissPenalty is subtracted from momentum per missed day.
	MomentumMissPenalty = 0.1
	// HistoryLimit is the number of history entries retained.
	HistoryLimit = 365
	// MaxProtection caps how much decay protection can soften a miss.
	MaxProtection = 0.9
)

// New validates input and returns a fresh habit.
func New(in domain.HabitInput, id string, now time.Time) (domain.Habit, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return domain.Habit{}, fmt.Errorf("%w: habit title is required", domain.ErrInvalidInput)
	}
	h := domain.Habit{
		ID:                  id,
		Title:               title,
		Description:         in.Description,
		Type:                in.Type,
		Polarity:            in.Polarity,
		TargetValue:         in.TargetValue,
		Unit:                in.Unit,
		MissToleranceDays:   DefaultMissToleranceDays,
		StreakDecayRate:     DefaultStreakDecayRate,
		MomentumMultiplier:  1,
		MomentumGrowthRate:  DefaultMomentumGrowthRate,
		DifficultyLevel:     1,
		DifficultyScaleRate: DefaultDifficultyScaleRate,
		BaseXP:              in.BaseXP,
		BaseCoins:           in.BaseCoins,
		History:             []domain.HabitEntry{},
		CreatedAt:           now,
	}
	if h.Type == "" {
		h.Type = domain.HabitBinary
	}
	if h.Polarity == "" {
		h.Polarity = domain.PolarityPositive
	}
	if h.BaseXP == 0 {
		h.BaseXP = DefaultBaseXP
	}
	if h.BaseCoins == 0 {
		h.BaseCoins = DefaultBaseCoins
	}
	if in.MissToleranceDays != nil {
		h.MissToleranceDays = *in.MissToleranceDays
	}
	if in.StreakDecayRate != nil {
		h.StreakDecayRate = *in.StreakDecayRate
	}
	if in.MomentumGrowthRate != nil {
		h.MomentumGrowthRate = *in.MomentumGrowthRate
	}
	if in.DifficultyScaleRate != nil {
		h.DifficultyScaleRate = *in.DifficultyScaleRate
	}

	switch {
	case h.Type != domain.HabitBinary && h.Type != domain.HabitScaled:
		return domain.Habit{}, fmt.Errorf("%w: unknown habit type %q", domain.ErrInvalidInput, h.Type)
	case h.Polarity != domain.PolarityPositive && h.Polarity != domain.PolarityNegative:
		return domain.Habit{}, fmt.Errorf("%w: unknown polarity %q", domain.ErrInvalidInput, h.Polarity)
	case h.MissToleranceDays < 0:
		return domain.Habit{}, fmt.Errorf("%w: miss tolerance must be >= 0", domain.ErrInvalidInput)
	case h.StreakDecayRate < 0 || h.StreakDecayRate > 1:
		return domain.Habit{}, fmt.Errorf("%w: streak decay rate must be in [0,1]", domain.ErrInvalidInput)
	case h.MomentumGrowthRate < 0 || h.DifficultyScaleRate < 0:
		return domain.Habit{}, fmt.Errorf("%w: growth rates must be >= 0", domain.ErrInvalidInput)
	case h.BaseXP < 0 || h.BaseCoins < 0:
		return domain.Habit{}, fmt.Errorf("%w: base rewards must be >= 0", domain.ErrInvalidInput)
	}
	return h, nil
}

// Momentum returns 1 + min(streak*growth, 1).
func Momentum(streak int, growth float64) float64 {
	return 1 + math.Min(float64(streak)*growth, MaxMomentumBonus)
}

// Decay applies one miss to a streak: floor(streak*(1-rate)), never negative.
func Decay(streak int, rate float64) int {
	v := int(math.Floor(float64(streak) * (1 - rate)))
	if v < 0 {
		return 0
	}
	return v
}

// Complete records today's completion. A second completion on the same day
// is a no-op and returns ok=false with a zero reward.
func Complete(h domain.Habit, today domain.Date, value *float64) (domain.Habit, domain.Reward, bool) {
	if h.CompletedOn(today) {
		return h, domain.Reward{}, false
	}

	streak := h.CurrentStreak + 1
	momentum := Momentum(streak, h.MomentumGrowthRate)
	r := domain.Reward{
		XP:    int64(math.Round(float64(h.BaseXP) * momentum * h.DifficultyLevel)),
		Coins: int64(math.Round(float64(h.BaseCoins) * momentum)),
	}

	h.CurrentStreak = streak
	if streak > h.BestStreak {
		h.BestStreak = streak
	}
	h.MomentumMultiplier = momentum
	if streak%7 == 0 {
		h.DifficultyLevel = math.Min(domain.MaxHabitDifficulty, h.DifficultyLevel+h.DifficultyScaleRate)
	}
	h.TotalCompletions++
	h.LastCompletedDate = today

	entry := domain.HabitEntry{Date: today, Completed: true}
	if h.Type == domain.HabitScaled && value != nil {
		v := *value
		entry.Value = &v
	}
	h.History = upsert(h.History, entry)
	return h, r, true
}

// Miss records an explicit miss for today. Only one history entry is kept
// per day, so missing a day that already has an entry is a no-op.
func Miss(h domain.Habit, today domain.Date) (domain.Habit, bool) {
	if _, ok := h.EntryFor(today); ok {
		return h, false
	}
	h.CurrentStreak = Decay(h.CurrentStreak, h.StreakDecayRate)
	h.MomentumMultiplier = math.Max(1, h.MomentumMultiplier-MomentumMissPenalty)
	h.TotalMisses++
	h.LastMissedDate = today
	h.History = upsert(h.History, domain.HabitEntry{Date: today, Completed: false})
	return h, true
}

// Guard softens passive decay. Shields each absorb one missed day;
// Protection (0..MaxProtection) scales the decay rate down.
type Guard struct {
	Shields    int
	Protection float64
}

// Outcome reports what a reconcile pass did.
type Outcome struct {
	Missed   int `json:"missed"`
	Absorbed int `json:"absorbed"`
}

// missesAt returns how many days past tolerance the habit has gone
// uncompleted as of day.
func missesAt(h domain.Habit, day domain.Date) int {
	n := domain.DaysBetween(h.LastCompletedDate, day) - h.MissToleranceDays - 1
	if n < 0 {
		return 0
	}
	return n
}

// ReconcileGap applies passive decay for days missed since the last
// completion. It is idempotent for a given day.
func ReconcileGap(h domain.Habit, today domain.Date) (domain.Habit, Outcome) {
	return ReconcileGapGuarded(h, today, Guard{})
}

// ReconcileGapGuarded is ReconcileGap with streak shields and protection.
func ReconcileGapGuarded(h domain.Habit, today domain.Date, g Guard) (domain.Habit, Outcome) {
	var out Outcome
	if h.LastCompletedDate.IsZero() {
		return h, out
	}

	total := missesAt(h, today)
	applied := 0
	if h.LastReconciledDate.After(h.LastCompletedDate) {
		applied = missesAt(h, h.LastReconciledDate)
	}
	if today.After(h.LastReconciledDate) {
		h.LastReconciledDate = today
	}

	n := total - applied
	if n <= 0 {
		return h, out
	}

	if g.Shields > 0 {
		out.Absorbed = min(n, g.Shields)
		n -= out.Absorbed
	}
	if n == 0 {
		return h, out
	}

	rate := h.StreakDecayRate * (1 - clamp(g.Protection, 0, MaxProtection))
	streak := h.CurrentStreak
	for i := 0; i < n; i++ {
		streak = Decay(streak, rate)
	}
	h.CurrentStreak = streak
	h.TotalMisses += n
	h.MomentumMultiplier = math.Max(1, h.MomentumMultiplier-MomentumMissPenalty*float64(n))
	out.Missed = n
	return h, out
}

// Stats summarizes a habit's history.
func Stats(h domain.Habit) domain.HabitStats {
	st := domain.HabitStats{
		CurrentStreak: h.CurrentStreak,
		BestStreak:    h.BestStreak,
	}
	var completed int
	var valueSum float64
	var misses [7]int
	for _, e := range h.History {
		if e.Completed {
			completed++
			if e.Value != nil {
				valueSum += *e.Value
			}
			continue
		}
		misses[e.Date.Weekday()]++
	}
	if n := len(h.History); n > 0 {
		st.SuccessRate = float64(completed) / float64(n) * 100
	}
	if h.Type == domain.HabitScaled && completed > 0 {
		avg := valueSum / float64(completed)
		st.AverageValue = &avg
	}
	for d := 1; d < 7; d++ {
		if misses[d] > misses[st.WeakestDay] {
			st.WeakestDay = d
		}
	}
	return st
}

// upsert replaces the entry for e.Date or appends it, keeping the newest
// HistoryLimit entries.
func upsert(hist []domain.HabitEntry, e domain.HabitEntry) []domain.HabitEntry {
	out := make([]domain.HabitEntry, 0, len(hist)+1)
	for _, h := range hist {
		if h.Date != e.Date {
			out = append(out, h)
		}
	}
	out = append(out, e)
	if len(out) > HistoryLimit {
		out = out[len(out)-HistoryLimit:]
	}
	return out
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
