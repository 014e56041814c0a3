package domain

import "time"

// BurnoutFactors are the four stress inputs, each kept in [0,100] by callers.
type BurnoutFactors struct {
	Overwork        float64 `json:"overwork"`
	MissedBreaks    float64 `json:"missed_breaks"`
	StreakPressure  float64 `json:"streak_pressure"`
	DeadlineDensity float64 `json:"deadline_density"`
}

// BurnoutPatch is a partial factor update; nil fields are left unchanged.
type BurnoutPatch struct {
	Overwork        *float64 `json:"overwork,omitempty"`
	MissedBreaks    *float64 `json:"missed_breaks,omitempty"`
	StreakPressure  *float64 `json:"streak_pressure,omitempty"`
	DeadlineDensity *float64 `json:"deadline_density,omitempty"`
}

// BurnoutSeverity is the level-band of a burnout score.
type BurnoutSeverity string

const (
	SeverityNone     BurnoutSeverity = "none"
	SeverityModerate BurnoutSeverity = "moderate"
	SeverityHigh     BurnoutSeverity = "high"
	SeverityCritical BurnoutSeverity = "critical"
)

// Burnout is the composite stress indicator.
type Burnout struct {
	Level       int             `json:"level"`
	Severity    BurnoutSeverity `json:"severity"`
	Factors     BurnoutFactors  `json:"factors"`
	Warnings    []string        `json:"warnings"`
	LastChecked time.Time       `json:"last_checked"`
}
