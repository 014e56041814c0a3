package domain

import "time"

// HabitType distinguishes yes/no habits from measured ones.
type HabitType string

const (
	HabitBinary HabitType = "binary"
	HabitScaled HabitType = "scaled"
)

// HabitPolarity marks habits to build versus habits to break.
type HabitPolarity string

const (
	PolarityPositive HabitPolarity = "positive"
	PolarityNegative HabitPolarity = "negative"
)

// MaxHabitDifficulty caps the difficulty level of any habit.
const MaxHabitDifficulty = 5.0

// HabitEntry is one day in a habit's history. At most one entry per date.
type HabitEntry struct {
	Date      Date     `json:"date"`
	Completed bool     `json:"completed"`
	Value     *float64 `json:"value,omitempty"`
}

// Habit is a recurring behavior with a decaying streak and momentum.
type Habit struct {
	ID          string        `json:"id"`
	Title       string        `json:"title"`
	Description string        `json:"description,omitempty"`
	Type        HabitType     `json:"type"`
	Polarity    HabitPolarity `json:"polarity"`
	TargetValue float64       `json:"target_value,omitempty"`
	Unit        string        `json:"unit,omitempty"`

	CurrentStreak       int     `json:"current_streak"`
	BestStreak          int     `json:"best_streak"`
	MissToleranceDays   int     `json:"miss_tolerance_days"`
	StreakDecayRate     float64 `json:"streak_decay_rate"`
	MomentumMultiplier  float64 `json:"momentum_multiplier"`
	MomentumGrowthRate  float64 `json:"momentum_growth_rate"`
	DifficultyLevel     float64 `json:"difficulty_level"`
	DifficultyScaleRate float64 `json:"difficulty_scale_rate"`

	BaseXP    int64 `json:"base_xp"`
	BaseCoins int64 `json:"base_coins"`

	TotalCompletions int          `json:"total_completions"`
	TotalMisses      int          `json:"total_misses"`
	History          []HabitEntry `json:"history"`

	CreatedAt          time.Time `json:"created_at"`
	LastCompletedDate  Date      `json:"last_completed_date,omitempty"`
	LastMissedDate     Date      `json:"last_missed_date,omitempty"`
	LastReconciledDate Date      `json:"last_reconciled_date,omitempty"`
}

// EntryFor returns the history entry for day, if any.
func (h *Habit) EntryFor(day Date) (HabitEntry, bool) {
	for i := len(h.History) - 1; i >= 0; i-- {
		if h.History[i].Date == day {
			return h.History[i], true
		}
	}
	return HabitEntry{}, false
}

// CompletedOn reports whether the habit was completed on day.
func (h *Habit) CompletedOn(day Date) bool {
	e, ok := h.EntryFor(day)
	return ok && e.Completed
}

// HabitInput carries the user-supplied fields of a new habit.
// Zero tuning values fall back to defaults.
type HabitInput struct {
	Title               string        `json:"title"`
	Description         string        `json:"description,omitempty"`
	Type                HabitType     `json:"type,omitempty"`
	Polarity            HabitPolarity `json:"polarity,omitempty"`
	TargetValue         float64       `json:"target_value,omitempty"`
	Unit                string        `json:"unit,omitempty"`
	MissToleranceDays   *int          `json:"miss_tolerance_days,omitempty"`
	StreakDecayRate     *float64      `json:"streak_decay_rate,omitempty"`
	MomentumGrowthRate  *float64      `json:"momentum_growth_rate,omitempty"`
	DifficultyScaleRate *float64      `json:"difficulty_scale_rate,omitempty"`
	BaseXP              int64         `json:"base_xp,omitempty"`
	BaseCoins           int64         `json:"base_coins,omitempty"`
}

// HabitStats summarizes a habit's history.
type HabitStats struct {
	SuccessRate   float64  `json:"success_rate"`
	CurrentStreak int      `json:"current_streak"`
	BestStreak    int      `json:"best_streak"`
	AverageValue  *float64 `json:"average_value,omitempty"`
	WeakestDay    int      `json:"weakest_day"`
}
