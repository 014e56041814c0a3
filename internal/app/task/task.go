// Package task implements the quest lifecycle: creation with fixed rewards,
// subtasks, dependencies, deadlines and completion.
package task

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/questforge/questforge/internal/app/reward"
	"github.com/questforge/questforge/internal/domain"
)

const (
	// MaxDeadlineExtensions is how often a hard deadline can be pushed back.
	MaxDeadlineExtensions = 2
	// DefaultEstimateMinutes stands in for tasks without an estimate when
	// ranking quick wins.
	DefaultEstimateMinutes = 30
)

// New validates input and returns an active task. Unset enums fall back to
// common, normal, mental, important and no repeat. newID supplies subtask ids.
func New(in domain.TaskInput, id string, newID func() string, now time.Time) (domain.Task, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return domain.Task{}, fmt.Errorf("%w: task title is required", domain.ErrInvalidInput)
	}
	if in.Rarity == "" {
		in.Rarity = domain.RarityCommon
	}
	if in.Difficulty == "" {
		in.Difficulty = domain.DifficultyNormal
	}
	if in.EnergyType == "" {
		in.EnergyType = domain.EnergyMental
	}
	if in.Priority == "" {
		in.Priority = domain.PriorityImportant
	}
	if in.RepeatFrequency == "" {
		in.RepeatFrequency = domain.RepeatNone
	}
	switch {
	case !in.EnergyType.IsValid():
		return domain.Task{}, fmt.Errorf("%w: energy type %q", domain.ErrInvalidInput, in.EnergyType)
	case !in.Priority.IsValid():
		return domain.Task{}, fmt.Errorf("%w: priority %q", domain.ErrInvalidInput, in.Priority)
	case !in.RepeatFrequency.IsValid():
		return domain.Task{}, fmt.Errorf("%w: repeat frequency %q", domain.ErrInvalidInput, in.RepeatFrequency)
	case in.EstimatedMinutes < 0:
		return domain.Task{}, fmt.Errorf("%w: estimated minutes must not be negative", domain.ErrInvalidInput)
	}
	for _, d := range in.RepeatDays {
		if d < 0 || d > 6 {
			return domain.Task{}, fmt.Errorf("%w: repeat day %d out of range 0-6", domain.ErrInvalidInput, d)
		}
	}
	r, err := reward.Compute(in.Difficulty, in.Rarity, in.EstimatedMinutes, 0)
	if err != nil {
		return domain.Task{}, err
	}

	subs := make([]domain.Subtask, 0, len(in.Subtasks))
	for _, s := range in.Subtasks {
		if s = strings.TrimSpace(s); s != "" {
			subs = append(subs, domain.Subtask{ID: newID(), Title: s})
		}
	}
	return domain.Task{
		ID:               id,
		Title:            title,
		Description:      in.Description,
		Category:         in.Category,
		ProjectID:        in.ProjectID,
		Rarity:           in.Rarity,
		Difficulty:       in.Difficulty,
		EnergyType:       in.EnergyType,
		Priority:         in.Priority,
		Status:           domain.TaskActive,
		XPReward:         r.XP,
		CoinReward:       r.Coins,
		EstimatedMinutes: in.EstimatedMinutes,
		CreatedAt:        now,
		SoftDeadline:     in.SoftDeadline,
		HardDeadline:     in.HardDeadline,
		RepeatFrequency:  in.RepeatFrequency,
		RepeatDays:       in.RepeatDays,
		Dependencies:     []domain.Dependency{},
		Subtasks:         subs,
	}, nil
}

// Start stamps the start time used for the efficiency bonus.
func Start(t domain.Task, now time.Time) (domain.Task, error) {
	if t.IsTerminal() {
		return t, fmt.Errorf("%w: task is %s", domain.ErrTaskNotCompletable, t.Status)
	}
	at := now
	t.StartedAt = &at
	return t, nil
}

// CompleteSubtask ticks one checklist entry.
func CompleteSubtask(t domain.Task, subtaskID string, now time.Time) (domain.Task, error) {
	subs := append([]domain.Subtask(nil), t.Subtasks...)
	for i := range subs {
		if subs[i].ID != subtaskID {
			continue
		}
		if !subs[i].Completed {
			at := now
			subs[i].Completed = true
			subs[i].CompletedAt = &at
		}
		t.Subtasks = subs
		return t, nil
	}
	return t, fmt.Errorf("%w: %s", domain.ErrSubtaskNotFound, subtaskID)
}

// Complete pays out the task. Actual minutes are measured from StartedAt
// when set, feeding the efficiency bonus. Repeating tasks re-arm and stay
// active, completing at most once per day.
func Complete(t domain.Task, now time.Time, today domain.Date) (domain.Task, domain.Reward, error) {
	switch t.Status {
	case domain.TaskBlocked:
		return t, domain.Reward{}, fmt.Errorf("%w: waiting on %s", domain.ErrTaskBlocked, strings.Join(t.BlockedBy(), ", "))
	case domain.TaskCompleted:
		return t, domain.Reward{}, domain.ErrTaskAlreadyCompleted
	case domain.TaskMissed, domain.TaskAbandoned:
		return t, domain.Reward{}, fmt.Errorf("%w: task is %s", domain.ErrTaskNotCompletable, t.Status)
	}
	if t.IsRepeating() && t.LastCompletedDate == today {
		return t, domain.Reward{}, fmt.Errorf("%w: already completed today", domain.ErrTaskAlreadyCompleted)
	}

	actual := 0
	if t.StartedAt != nil {
		actual = int(math.Round(now.Sub(*t.StartedAt).Minutes()))
	}
	r, err := reward.Compute(t.Difficulty, t.Rarity, t.EstimatedMinutes, actual)
	if err != nil {
		return t, domain.Reward{}, err
	}

	if t.IsRepeating() {
		subs := make([]domain.Subtask, len(t.Subtasks))
		for i, s := range t.Subtasks {
			subs[i] = domain.Subtask{ID: s.ID, Title: s.Title}
		}
		t.Subtasks = subs
		t.LastCompletedDate = today
		t.StartedAt = nil
		t.ActualMinutes = 0
		t.Earned = t.Earned.Add(r)
		return t, r, nil
	}

	done := now
	t.Status = domain.TaskCompleted
	t.CompletedAt = &done
	t.ActualMinutes = actual
	t.Earned = r
	return t, r, nil
}

// SetStatus applies a manual transition of task id to active, postponed or
// abandoned. A task waiting on an open dependency can only be abandoned.
func SetStatus(tasks []domain.Task, id string, s domain.TaskStatus) ([]domain.Task, domain.Task, error) {
	switch s {
	case domain.TaskActive, domain.TaskPostponed, domain.TaskAbandoned:
	default:
		return tasks, domain.Task{}, fmt.Errorf("%w: cannot set status %q manually", domain.ErrInvalidInput, s)
	}
	i, err := Find(tasks, id)
	if err != nil {
		return tasks, domain.Task{}, err
	}
	t := tasks[i]
	if t.Status == domain.TaskCompleted {
		return tasks, t, domain.ErrTaskAlreadyCompleted
	}
	if s != domain.TaskAbandoned {
		if open := Waiting(tasks, t); len(open) > 0 {
			return tasks, t, fmt.Errorf("%w: waiting on %s", domain.ErrTaskBlocked, strings.Join(open, ", "))
		}
	}
	t.Status = s
	out := append([]domain.Task(nil), tasks...)
	out[i] = t
	return out, t, nil
}

// ExtendDeadline pushes the hard deadline back by days. A missed task whose
// new deadline lies in the future becomes active again.
func ExtendDeadline(t domain.Task, days int, now time.Time) (domain.Task, error) {
	if days <= 0 {
		return t, fmt.Errorf("%w: extension must be at least one day", domain.ErrInvalidInput)
	}
	if t.HardDeadline == nil {
		return t, domain.ErrNoHardDeadline
	}
	if t.Status == domain.TaskCompleted || t.Status == domain.TaskAbandoned {
		return t, fmt.Errorf("%w: task is %s", domain.ErrTaskNotCompletable, t.Status)
	}
	if t.DeadlineExtensions >= MaxDeadlineExtensions {
		return t, domain.ErrExtensionLimit
	}
	d := t.HardDeadline.AddDate(0, 0, days)
	t.HardDeadline = &d
	t.DeadlineExtensions++
	if t.Status == domain.TaskMissed && d.After(now) {
		t.Status = domain.TaskActive
	}
	return t, nil
}
