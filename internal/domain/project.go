package domain

import "time"

// ProjectStatus tracks a project's lifecycle.
type ProjectStatus string

const (
	ProjectPlanning  ProjectStatus = "planning"
	ProjectActive    ProjectStatus = "active"
	ProjectPaused    ProjectStatus = "paused"
	ProjectCompleted ProjectStatus = "completed"
	ProjectAbandoned ProjectStatus = "abandoned"
)

// IsValid reports whether s is a known status.
func (s ProjectStatus) IsValid() bool {
	switch s {
	case ProjectPlanning, ProjectActive, ProjectPaused, ProjectCompleted, ProjectAbandoned:
		return true
	}
	return false
}

// RiskBehindSchedule is the risk factor added when time outruns milestones.
const RiskBehindSchedule = "Behind schedule"

// Milestone is one ordered checkpoint of a project.
type Milestone struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	XPReward    int64      `json:"xp_reward"`
	TargetDate  *time.Time `json:"target_date,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// Project is a long-running goal made of milestones completed in order.
// CurrentMilestoneIndex always equals the number of completed milestones.
type Project struct {
	ID                    string        `json:"id"`
	Title                 string        `json:"title"`
	Description           string        `json:"description,omitempty"`
	Status                ProjectStatus `json:"status"`
	Milestones            []Milestone   `json:"milestones"`
	CurrentMilestoneIndex int           `json:"current_milestone_index"`
	RiskLevel             int           `json:"risk_level"`
	RiskFactors           []string      `json:"risk_factors"`
	StartDate             time.Time     `json:"start_date"`
	TargetEndDate         *time.Time    `json:"target_end_date,omitempty"`
	ActualEndDate         *time.Time    `json:"actual_end_date,omitempty"`
	TotalXPEarned         int64         `json:"total_xp_earned"`
	TotalCoinsEarned      int64         `json:"total_coins_earned"`
	CreatedAt             time.Time     `json:"created_at"`
}

// MilestoneInput is a milestone in a project creation request.
type MilestoneInput struct {
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	XPReward    int64      `json:"xp_reward"`
	TargetDate  *time.Time `json:"target_date,omitempty"`
}

// ProjectInput carries the user-supplied fields of a new project.
type ProjectInput struct {
	Title         string           `json:"title"`
	Description   string           `json:"description,omitempty"`
	TargetEndDate *time.Time       `json:"target_end_date,omitempty"`
	Milestones    []MilestoneInput `json:"milestones"`
}
