package domain

import "time"

// Archetype is the dominant behavior a companion evolved around.
type Archetype string

const (
	ArchetypeFocus    Archetype = "focus"
	ArchetypeHabit    Archetype = "habit"
	ArchetypeProject  Archetype = "project"
	ArchetypeBalanced Archetype = "balanced"
)

// Mood is derived from energy and happiness; it is never stored on its own.
type Mood string

const (
	MoodEcstatic  Mood = "ecstatic"
	MoodHappy     Mood = "happy"
	MoodContent   Mood = "content"
	MoodNeutral   Mood = "neutral"
	MoodTired     Mood = "tired"
	MoodExhausted Mood = "exhausted"
	MoodSad       Mood = "sad"
)

// MaxEvolutionStage is the final companion stage.
const MaxEvolutionStage = 5

// BonusType names what a companion bonus boosts.
type BonusType string

const (
	BonusXP             BonusType = "xp"
	BonusCoins          BonusType = "coins"
	BonusFocus          BonusType = "focus"
	BonusHabitStreak    BonusType = "habit-streak"
	BonusTaskEfficiency BonusType = "task-efficiency"
)

// CompanionBonus is the passive perk of an evolved companion.
type CompanionBonus struct {
	Type        BonusType `json:"type"`
	Value       float64   `json:"value"`
	Description string    `json:"description"`
}

// Companion is the evolving pet that mirrors the player's activity.
// EvolutionStage and EvolutionPoints never decrease.
type Companion struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Archetype Archetype `json:"archetype"`

	EvolutionStage  int         `json:"evolution_stage"`
	EvolutionPoints float64     `json:"evolution_points"`
	EvolutionPath   []Archetype `json:"evolution_path"`

	Energy    int `json:"energy"`
	Happiness int `json:"happiness"`

	TotalTasksWitnessed  int     `json:"total_tasks_witnessed"`
	TotalFocusMinutes    float64 `json:"total_focus_minutes"`
	TotalHabitsWitnessed int     `json:"total_habits_witnessed"`

	LastInteractionDate   Date      `json:"last_interaction_date"`
	ConsecutiveDaysActive int       `json:"consecutive_days_active"`
	CreatedAt             time.Time `json:"created_at"`
}

// Activity is a batch of player activity observed by the companion.
type Activity struct {
	TasksCompleted  int     `json:"tasks_completed"`
	FocusMinutes    float64 `json:"focus_minutes"`
	HabitsCompleted int     `json:"habits_completed"`
	Overworking     bool    `json:"overworking"`
}

// IsEmpty reports whether the batch carries no activity.
func (a Activity) IsEmpty() bool {
	return a.TasksCompleted == 0 && a.FocusMinutes == 0 && a.HabitsCompleted == 0
}

// CompanionView is a companion plus its derived fields, for display.
type CompanionView struct {
	Companion
	Mood        Mood            `json:"mood"`
	ActiveBonus *CompanionBonus `json:"active_bonus"`
}
