package domain

import "time"

// DailyStatsRetention is how many days of stats are kept.
const DailyStatsRetention = 365

// DailyStats aggregates one day of activity.
type DailyStats struct {
	Date               Date               `json:"date"`
	TasksCompleted     int                `json:"tasks_completed"`
	TasksCreated       int                `json:"tasks_created"`
	XPEarned           int64              `json:"xp_earned"`
	CoinsEarned        int64              `json:"coins_earned"`
	FocusMinutes       int                `json:"focus_minutes"`
	HabitsCompleted    int                `json:"habits_completed"`
	HabitsMissed       int                `json:"habits_missed"`
	EnergyDistribution map[EnergyType]int `json:"energy_distribution"`
	ProductivityScore  int                `json:"productivity_score"`
}

// WeeklyReport summarizes the current Sunday-started week.
type WeeklyReport struct {
	WeekStart           Date      `json:"week_start"`
	WeekEnd             Date      `json:"week_end"`
	TotalTasks          int       `json:"total_tasks"`
	CompletedTasks      int       `json:"completed_tasks"`
	MissedTasks         int       `json:"missed_tasks"`
	TotalXP             int64     `json:"total_xp"`
	TotalCoins          int64     `json:"total_coins"`
	TotalFocusMinutes   int       `json:"total_focus_minutes"`
	AverageFocusQuality float64   `json:"average_focus_quality"`
	HabitSuccessRate    float64   `json:"habit_success_rate"`
	MostProductiveDay   int       `json:"most_productive_day"`
	Insights            []string  `json:"insights"`
	Recommendations     []string  `json:"recommendations"`
	GeneratedAt         time.Time `json:"generated_at"`
}
