package domain

import "time"

// FocusType classifies a focus session.
type FocusType string

const (
	FocusDeepWork FocusType = "deep-work"
	FocusShallow  FocusType = "shallow"
	FocusCreative FocusType = "creative"
	FocusLearning FocusType = "learning"
)

// IsValid reports whether f is a known session type.
func (f FocusType) IsValid() bool {
	switch f {
	case FocusDeepWork, FocusShallow, FocusCreative, FocusLearning:
		return true
	}
	return false
}

// BreakInterval is one pause inside a session. End is nil while open.
type BreakInterval struct {
	Start time.Time  `json:"start"`
	End   *time.Time `json:"end,omitempty"`
}

// Distraction is a logged interruption.
type Distraction struct {
	Timestamp       time.Time `json:"timestamp"`
	Description     string    `json:"description"`
	DurationMinutes float64   `json:"duration_minutes"`
}

// FocusSession is a timed block of work. It is mutable only while active
// and immutable once EndedAt is set.
type FocusSession struct {
	ID             string          `json:"id"`
	Type           FocusType       `json:"type"`
	TaskID         string          `json:"task_id,omitempty"`
	PlannedMinutes int             `json:"planned_minutes"`
	ActualMinutes  int             `json:"actual_minutes"`
	StartedAt      time.Time       `json:"started_at"`
	EndedAt        *time.Time      `json:"ended_at,omitempty"`
	Breaks         []BreakInterval `json:"breaks"`
	Distractions   []Distraction   `json:"distractions"`
	Quality        float64         `json:"quality"`
	XPEarned       int64           `json:"xp_earned"`
	CoinsEarned    int64           `json:"coins_earned"`
}

// OnBreak reports whether a break is currently open.
func (s *FocusSession) OnBreak() bool {
	n := len(s.Breaks)
	return n > 0 && s.Breaks[n-1].End == nil
}

// FocusStreak tracks consecutive days with at least one finished session.
type FocusStreak struct {
	Current         int     `json:"current"`
	Best            int     `json:"best"`
	LastSessionDate Date    `json:"last_session_date,omitempty"`
	TodayDate       Date    `json:"today_date,omitempty"`
	TodayMinutes    int     `json:"today_minutes"`
	SessionCount    int     `json:"session_count"`
	AverageQuality  float64 `json:"average_quality"`
}

// FocusState is the active session (if any) plus finished history.
type FocusState struct {
	Active  *FocusSession  `json:"active,omitempty"`
	History []FocusSession `json:"history"`
	Streak  FocusStreak    `json:"streak"`
}
