// Package burnout scores stress as a weighted composite of four factors.
package burnout

import (
	"math"
	"time"

	"github.com/questforge/questforge/internal/domain"
)

// Factor weights. They sum to 1.
const (
	WeightOverwork        = 0.4
	WeightMissedBreaks    = 0.2
	WeightStreakPressure  = 0.2
	WeightDeadlineDensity = 0.2
)

// Level band thresholds.
const (
	CriticalLevel = 80
	HighLevel     = 60
	ModerateLevel = 40
)

// Per-factor warning thresholds (strictly greater than).
const (
	OverworkThreshold        = 70
	MissedBreaksThreshold    = 60
	StreakPressureThreshold  = 50
	DeadlineDensityThreshold = 60
)

// Warning texts.
const (
	WarnCritical        = "Critical burnout risk - consider taking a break"
	WarnHigh            = "High stress detected - pace yourself"
	WarnModerate        = "Moderate stress - remember to take breaks"
	WarnOverwork        = "Working too many hours today"
	WarnMissedBreaks    = "Missing regular breaks"
	WarnStreakPressure  = "Don't let streak pressure control you"
	WarnDeadlineDensity = "Many deadlines approaching"
)

// Level returns round(0.4*overwork + 0.2*(breaks+pressure+deadlines)),
// capped at 100.
func Level(f domain.BurnoutFactors) int {
	v := WeightOverwork*f.Overwork +
		WeightMissedBreaks*f.MissedBreaks +
		WeightStreakPressure*f.StreakPressure +
		WeightDeadlineDensity*f.DeadlineDensity
	return int(math.Min(100, math.Max(0, math.Round(v))))
}

// SeverityOf returns the level band.
func SeverityOf(level int) domain.BurnoutSeverity {
	switch {
	case level >= CriticalLevel:
		return domain.SeverityCritical
	case level >= HighLevel:
		return domain.SeverityHigh
	case level >= ModerateLevel:
		return domain.SeverityModerate
	}
	return domain.SeverityNone
}

// Compute scores the factors. At most one level warning is emitted, first,
// followed by any per-factor warnings in fixed order.
func Compute(f domain.BurnoutFactors, now time.Time) domain.Burnout {
	f = clampFactors(f)
	level := Level(f)
	sev := SeverityOf(level)

	warnings := []string{}
	switch sev {
	case domain.SeverityCritical:
		warnings = append(warnings, WarnCritical)
	case domain.SeverityHigh:
		warnings = append(warnings, WarnHigh)
	case domain.SeverityModerate:
		warnings = append(warnings, WarnModerate)
	}
	if f.Overwork > OverworkThreshold {
		warnings = append(warnings, WarnOverwork)
	}
	if f.MissedBreaks > MissedBreaksThreshold {
		warnings = append(warnings, WarnMissedBreaks)
	}
	if f.StreakPressure > StreakPressureThreshold {
		warnings = append(warnings, WarnStreakPressure)
	}
	if f.DeadlineDensity > DeadlineDensityThreshold {
		warnings = append(warnings, WarnDeadlineDensity)
	}

	return domain.Burnout{
		Level:       level,
		Severity:    sev,
		Factors:     f,
		Warnings:    warnings,
		LastChecked: now,
	}
}

// Update merges a partial factor update and rescores.
func Update(b domain.Burnout, p domain.BurnoutPatch, now time.Time) domain.Burnout {
	f := b.Factors
	if p.Overwork != nil {
		f.Overwork = *p.Overwork
	}
	if p.MissedBreaks != nil {
		f.MissedBreaks = *p.MissedBreaks
	}
	if p.StreakPressure != nil {
		f.StreakPressure = *p.StreakPressure
	}
	if p.DeadlineDensity != nil {
		f.DeadlineDensity = *p.DeadlineDensity
	}
	return Compute(f, now)
}

// Overworking reports whether the companion should treat activity as
// overwork.
func Overworking(b domain.Burnout) bool {
	return b.Factors.Overwork > OverworkThreshold
}

func clampFactors(f domain.BurnoutFactors) domain.BurnoutFactors {
	c := func(v float64) float64 { return math.Max(0, math.Min(100, v)) }
	return domain.BurnoutFactors{
		Overwork:        c(f.Overwork),
		MissedBreaks:    c(f.MissedBreaks),
		StreakPressure:  c(f.StreakPressure),
		DeadlineDensity: c(f.DeadlineDensity),
	}
}
