package game

import (
	"context"
	"fmt"

	"github.com/questforge/questforge/internal/app/habit"
	"github.com/questforge/questforge/internal/domain"
)

// HabitResult is a habit after a completion. Counted is false when the habit
// was already done today and nothing was paid.
type HabitResult struct {
	Habit   domain.Habit  `json:"habit"`
	Reward  domain.Reward `json:"reward"`
	Counted bool          `json:"counted"`
}

func (tx *txn) habitIndex(id string) (int, error) {
	i := tx.st.HabitIndex(id)
	if i < 0 {
		return -1, fmt.Errorf("%w: %s", domain.ErrHabitNotFound, id)
	}
	return i, nil
}

func (tx *txn) setHabit(i int, h domain.Habit) {
	habits := append([]domain.Habit(nil), tx.st.Habits...)
	habits[i] = h
	tx.st.Habits = habits
}

// CreateHabit stores a new habit.
func (s *Service) CreateHabit(ctx context.Context, in domain.HabitInput) (domain.Habit, error) {
	var out domain.Habit
	err := s.mutate(ctx, "create_habit", func(tx *txn) error {
		h, err := habit.New(in, s.newID(), tx.now)
		if err != nil {
			return err
		}
		tx.st.Habits = append(append([]domain.Habit(nil), tx.st.Habits...), h)
		out = h
		return nil
	})
	return out, err
}

// CompleteHabit records today's completion. Completing twice on one day is
// not an error; the second call pays nothing.
func (s *Service) CompleteHabit(ctx context.Context, id string, value *float64) (HabitResult, error) {
	var out HabitResult
	err := s.mutate(ctx, "complete_habit", func(tx *txn) error {
		i, err := tx.habitIndex(id)
		if err != nil {
			return err
		}
		h, r, ok := habit.Complete(tx.st.Habits[i], tx.today, value)
		out = HabitResult{Habit: h}
		if !ok {
			return nil
		}
		tx.setHabit(i, h)
		paid, err := tx.grant(SourceHabit, "Habit: "+h.Title, r)
		if err != nil {
			return err
		}
		tx.activity.HabitsCompleted++
		tx.day.HabitsCompleted++
		out = HabitResult{Habit: h, Reward: paid, Counted: true}
		tx.emit(domain.EventHabitCompleted, out)
		return nil
	})
	return out, err
}

// MissHabit records an explicit miss for today. It can be undone within the
// undo window.
func (s *Service) MissHabit(ctx context.Context, id string) (domain.Habit, error) {
	var out domain.Habit
	err := s.mutate(ctx, "miss_habit", func(tx *txn) error {
		i, err := tx.habitIndex(id)
		if err != nil {
			return err
		}
		before := tx.st.Habits[i]
		h, ok := habit.Miss(before, tx.today)
		out = h
		if !ok {
			return nil
		}
		tx.setHabit(i, h)
		tx.day.HabitsMissed++
		if err := tx.pushUndo(domain.UndoHabitMiss, "Miss "+h.Title, domain.HabitUndo{Habit: before}); err != nil {
			return err
		}
		tx.emit(domain.EventHabitMissed, map[string]any{"habit_id": h.ID, "missed_days": 1})
		return nil
	})
	return out, err
}

// DeleteHabit removes a habit and its history.
func (s *Service) DeleteHabit(ctx context.Context, id string) error {
	return s.mutate(ctx, "delete_habit", func(tx *txn) error {
		i, err := tx.habitIndex(id)
		if err != nil {
			return err
		}
		habits := make([]domain.Habit, 0, len(tx.st.Habits)-1)
		habits = append(habits, tx.st.Habits[:i]...)
		tx.st.Habits = append(habits, tx.st.Habits[i+1:]...)
		return nil
	})
}

// Habits returns every habit, reconciled to today.
func (s *Service) Habits(ctx context.Context) ([]domain.Habit, error) {
	var out []domain.Habit
	err := s.view(ctx, func(tx *txn) error {
		out = tx.st.Habits
		return nil
	})
	return out, err
}

// HabitStats summarizes one habit's history.
func (s *Service) HabitStats(ctx context.Context, id string) (domain.HabitStats, error) {
	var out domain.HabitStats
	err := s.view(ctx, func(tx *txn) error {
		i, err := tx.habitIndex(id)
		if err != nil {
			return err
		}
		out = habit.Stats(tx.st.Habits[i])
		return nil
	})
	return out, err
}
