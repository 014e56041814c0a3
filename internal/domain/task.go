package domain

import "time"

// TaskStatus tracks the quest lifecycle.
//
//	active ──complete──▶ completed
//	  │ ▲                   (repeating tasks stay active)
//	  ▼ │
//	blocked     postponed / abandoned (manual)
//	  hard deadline passed ──▶ missed
type TaskStatus string

const (
	TaskActive    TaskStatus = "active"
	TaskCompleted TaskStatus = "completed"
	TaskMissed    TaskStatus = "missed"
	TaskAbandoned TaskStatus = "abandoned"
	TaskPostponed TaskStatus = "postponed"
	TaskBlocked   TaskStatus = "blocked"
)

// IsValid reports whether s is a known status.
func (s TaskStatus) IsValid() bool {
	switch s {
	case TaskActive, TaskCompleted, TaskMissed, TaskAbandoned, TaskPostponed, TaskBlocked:
		return true
	}
	return false
}

// Priority is the Eisenhower quadrant of a task.
type Priority string

const (
	PriorityUrgentImportant Priority = "urgent-important"
	PriorityUrgent          Priority = "urgent"
	PriorityImportant       Priority = "important"
	PriorityNeither         Priority = "neither"
)

// IsValid reports whether p is a known quadrant.
func (p Priority) IsValid() bool {
	switch p {
	case PriorityUrgentImportant, PriorityUrgent, PriorityImportant, PriorityNeither:
		return true
	}
	return false
}

// RepeatFrequency controls whether a task re-arms after completion.
type RepeatFrequency string

const (
	RepeatNone   RepeatFrequency = "none"
	RepeatDaily  RepeatFrequency = "daily"
	RepeatWeekly RepeatFrequency = "weekly"
	RepeatCustom RepeatFrequency = "custom"
)

// IsValid reports whether f is a known frequency.
func (f RepeatFrequency) IsValid() bool {
	switch f {
	case RepeatNone, RepeatDaily, RepeatWeekly, RepeatCustom:
		return true
	}
	return false
}

// DependencyRelation describes how a task relates to another.
type DependencyRelation string

const (
	// RelationBlockedBy means the owning task waits for TaskID.
	RelationBlockedBy DependencyRelation = "blocked-by"
	// RelationBlocks means the owning task gates TaskID.
	RelationBlocks DependencyRelation = "blocks"
)

// Dependency links two tasks.
type Dependency struct {
	TaskID   string             `json:"task_id"`
	Relation DependencyRelation `json:"relation"`
}

// Subtask is an ordered checklist entry inside a task.
type Subtask struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Completed   bool       `json:"completed"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// Task is a quest: a trackable unit of work carrying a reward.
// XPReward and CoinReward are fixed at creation.
type Task struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Category    string     `json:"category,omitempty"`
	ProjectID   string     `json:"project_id,omitempty"`
	Rarity      Rarity     `json:"rarity"`
	Difficulty  Difficulty `json:"difficulty"`
	EnergyType  EnergyType `json:"energy_type"`
	Priority    Priority   `json:"priority"`
	Status      TaskStatus `json:"status"`

	XPReward   int64  `json:"xp_reward"`
	CoinReward int64  `json:"coin_reward"`
	Earned     Reward `json:"earned"`

	EstimatedMinutes int `json:"estimated_minutes,omitempty"`
	ActualMinutes    int `json:"actual_minutes,omitempty"`

	CreatedAt   time.Time  `json:"created_at"`
	StartedAt   *time.Time `json:"started_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`

	SoftDeadline       *time.Time `json:"soft_deadline,omitempty"`
	HardDeadline       *time.Time `json:"hard_deadline,omitempty"`
	DeadlineExtensions int        `json:"deadline_extensions"`

	RepeatFrequency   RepeatFrequency `json:"repeat_frequency"`
	RepeatDays        []int           `json:"repeat_days,omitempty"`
	LastCompletedDate Date            `json:"last_completed_date,omitempty"`

	Dependencies []Dependency `json:"dependencies"`
	Subtasks     []Subtask    `json:"subtasks"`
}

// IsTerminal returns true if the task can no longer be worked on.
func (t *Task) IsTerminal() bool {
	return t.Status == TaskCompleted || t.Status == TaskMissed || t.Status == TaskAbandoned
}

// IsRepeating reports whether completion re-arms the task.
func (t *Task) IsRepeating() bool {
	return t.RepeatFrequency != "" && t.RepeatFrequency != RepeatNone
}

// BlockedBy returns the IDs this task waits on.
func (t *Task) BlockedBy() []string {
	var ids []string
	for _, d := range t.Dependencies {
		if d.Relation == RelationBlockedBy {
			ids = append(ids, d.TaskID)
		}
	}
	return ids
}

// SubtaskProgress returns completed and total subtask counts.
func (t *Task) SubtaskProgress() (done, total int) {
	for _, s := range t.Subtasks {
		if s.Completed {
			done++
		}
	}
	return done, len(t.Subtasks)
}

// TaskInput carries the user-supplied fields of a new task.
type TaskInput struct {
	Title            string          `json:"title"`
	Description      string          `json:"description,omitempty"`
	Category         string          `json:"category,omitempty"`
	ProjectID        string          `json:"project_id,omitempty"`
	Rarity           Rarity          `json:"rarity"`
	Difficulty       Difficulty      `json:"difficulty"`
	EnergyType       EnergyType      `json:"energy_type"`
	Priority         Priority        `json:"priority"`
	EstimatedMinutes int             `json:"estimated_minutes,omitempty"`
	SoftDeadline     *time.Time      `json:"soft_deadline,omitempty"`
	HardDeadline     *time.Time      `json:"hard_deadline,omitempty"`
	RepeatFrequency  RepeatFrequency `json:"repeat_frequency,omitempty"`
	RepeatDays       []int           `json:"repeat_days,omitempty"`
	Subtasks         []string        `json:"subtasks,omitempty"`
	DependsOn        []string        `json:"depends_on,omitempty"`
}

// SuggestionCategory explains why a task was suggested.
type SuggestionCategory string

const (
	SuggestQuickWin      SuggestionCategory = "quick-win"
	SuggestTimeSensitive SuggestionCategory = "time-sensitive"
	SuggestEnergyMatch   SuggestionCategory = "energy-match"
)

// TaskSuggestion is a ranked "do this next" hint.
type TaskSuggestion struct {
	TaskID   string             `json:"task_id"`
	Reason   string             `json:"reason"`
	Priority int                `json:"priority"`
	Category SuggestionCategory `json:"category"`
}
