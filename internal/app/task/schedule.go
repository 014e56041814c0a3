package task

import (
	"fmt"
	"sort"
	"time"

	"github.com/questforge/questforge/internal/domain"
)

const (
	quickWinMinutes = 15
	urgentWindow    = 48 * time.Hour
	maxSuggestions  = 5
	perCategory     = 2
)

// CheckDeadlines marks active tasks whose hard deadline has passed as
// missed, returning the ids it changed.
func CheckDeadlines(tasks []domain.Task, now time.Time) ([]domain.Task, []string) {
	var out []domain.Task
	var missed []string
	for i := range tasks {
		t := tasks[i]
		if t.Status != domain.TaskActive || t.HardDeadline == nil || !t.HardDeadline.Before(now) {
			continue
		}
		if out == nil {
			out = append([]domain.Task(nil), tasks...)
		}
		out[i].Status = domain.TaskMissed
		missed = append(missed, t.ID)
	}
	if out == nil {
		return tasks, nil
	}
	return out, missed
}

// Active returns tasks that are active or blocked.
func Active(tasks []domain.Task) []domain.Task {
	var out []domain.Task
	for _, t := range tasks {
		if t.Status == domain.TaskActive || t.Status == domain.TaskBlocked {
			out = append(out, t)
		}
	}
	return out
}

// Suggest ranks what to do next: quick wins, tasks matching the current
// energy and deadlines inside 48 hours. At most five are returned, highest
// priority first.
func Suggest(tasks []domain.Task, energy domain.EnergyType, now time.Time) []domain.TaskSuggestion {
	var quick, match, urgent []domain.Task
	for _, t := range tasks {
		if t.Status != domain.TaskActive {
			continue
		}
		est := t.EstimatedMinutes
		if est == 0 {
			est = DefaultEstimateMinutes
		}
		if est <= quickWinMinutes {
			quick = append(quick, t)
		}
		if t.EnergyType == energy {
			match = append(match, t)
		}
		if t.HardDeadline != nil {
			if left := t.HardDeadline.Sub(now); left > 0 && left < urgentWindow {
				urgent = append(urgent, t)
			}
		}
	}

	var out []domain.TaskSuggestion
	for i, t := range quick {
		if i == perCategory {
			break
		}
		out = append(out, domain.TaskSuggestion{
			TaskID: t.ID, Reason: "Quick win - easy to start",
			Priority: 80 - i*10, Category: domain.SuggestQuickWin,
		})
	}
	for i, t := range match {
		if i == perCategory {
			break
		}
		out = append(out, domain.TaskSuggestion{
			TaskID: t.ID, Reason: fmt.Sprintf("Matches your %s energy", energy),
			Priority: 70 - i*10, Category: domain.SuggestEnergyMatch,
		})
	}
	for i, t := range urgent {
		out = append(out, domain.TaskSuggestion{
			TaskID: t.ID, Reason: "Deadline approaching",
			Priority: 90 - i*5, Category: domain.SuggestTimeSensitive,
		})
	}

	sort.SliceStable(out, func(a, b int) bool { return out[a].Priority > out[b].Priority })
	if len(out) > maxSuggestions {
		out = out[:maxSuggestions]
	}
	return out
}

// UpcomingDeadlines returns active tasks with a hard deadline in the next
// days, soonest first.
func UpcomingDeadlines(tasks []domain.Task, now time.Time, days int) []domain.Task {
	horizon := now.AddDate(0, 0, days)
	var out []domain.Task
	for _, t := range tasks {
		if t.Status != domain.TaskActive || t.HardDeadline == nil {
			continue
		}
		if t.HardDeadline.After(now) && !t.HardDeadline.After(horizon) {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(a, b int) bool { return out[a].HardDeadline.Before(*out[b].HardDeadline) })
	return out
}

// DeadlineDensity scores 0-100 how crowded the next week is, 20 points per
// upcoming hard deadline. It feeds the burnout estimator.
func DeadlineDensity(tasks []domain.Task, now time.Time) float64 {
	n := len(UpcomingDeadlines(tasks, now, 7))
	return float64(min(100, n*20))
}
