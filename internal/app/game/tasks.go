package game

import (
	"context"
	"fmt"
	"strings"

	"github.com/questforge/questforge/internal/app/task"
	"github.com/questforge/questforge/internal/app/wallet"
	"github.com/questforge/questforge/internal/domain"
)

// TimeCrystalItem extends a hard deadline by one day.
const TimeCrystalItem = "deadline-extend-1d"

// TaskResult is a task after a completion plus what it paid.
type TaskResult struct {
	Task   domain.Task   `json:"task"`
	Reward domain.Reward `json:"reward"`
}

// CreateTask validates in, links its dependencies and stores the task.
func (s *Service) CreateTask(ctx context.Context, in domain.TaskInput) (domain.Task, error) {
	var out domain.Task
	err := s.mutate(ctx, "create_task", func(tx *txn) error {
		t, err := task.New(in, s.newID(), s.newID, tx.now)
		if err != nil {
			return err
		}
		tasks := append(append([]domain.Task(nil), tx.st.Tasks...), t)
		for _, dep := range in.DependsOn {
			if tasks, err = task.AddDependency(tasks, t.ID, dep); err != nil {
				return err
			}
		}
		tasks, _, _ = task.Relink(tasks)
		tx.st.Tasks = tasks

		i, _ := task.Find(tasks, t.ID)
		out = tasks[i]
		tx.day.TasksCreated++
		tx.emit(domain.EventTaskCreated, out)
		return nil
	})
	return out, err
}

// updateTask applies fn to task id in place.
func (tx *txn) updateTask(id string, fn func(domain.Task) (domain.Task, error)) (domain.Task, error) {
	i, err := task.Find(tx.st.Tasks, id)
	if err != nil {
		return domain.Task{}, err
	}
	t, err := fn(tx.st.Tasks[i])
	if err != nil {
		return domain.Task{}, err
	}
	tasks := append([]domain.Task(nil), tx.st.Tasks...)
	tasks[i] = t
	tx.st.Tasks = tasks
	return t, nil
}

// StartTask records when work on a task began.
func (s *Service) StartTask(ctx context.Context, id string) (domain.Task, error) {
	var out domain.Task
	err := s.mutate(ctx, "start_task", func(tx *txn) error {
		t, err := tx.updateTask(id, func(t domain.Task) (domain.Task, error) {
			return task.Start(t, tx.now)
		})
		out = t
		return err
	})
	return out, err
}

// CompleteSubtask checks off one subtask.
func (s *Service) CompleteSubtask(ctx context.Context, id, subtaskID string) (domain.Task, error) {
	var out domain.Task
	err := s.mutate(ctx, "complete_subtask", func(tx *txn) error {
		t, err := tx.updateTask(id, func(t domain.Task) (domain.Task, error) {
			return task.CompleteSubtask(t, subtaskID, tx.now)
		})
		out = t
		return err
	})
	return out, err
}

// CompleteTask completes a task, pays its reward and unblocks dependents.
// The completion can be undone within the undo window.
func (s *Service) CompleteTask(ctx context.Context, id string) (TaskResult, error) {
	var out TaskResult
	err := s.mutate(ctx, "complete_task", func(tx *txn) error {
		i, err := task.Find(tx.st.Tasks, id)
		if err != nil {
			return err
		}
		before := tx.st.Tasks[i]
		if open := task.Waiting(tx.st.Tasks, before); len(open) > 0 && !before.IsTerminal() {
			return fmt.Errorf("%w: waiting on %s", domain.ErrTaskBlocked, strings.Join(open, ", "))
		}
		var base domain.Reward
		t, err := tx.updateTask(id, func(t domain.Task) (domain.Task, error) {
			next, r, err := task.Complete(t, tx.now, tx.today)
			base = r
			return next, err
		})
		if err != nil {
			return err
		}

		paid, err := tx.grant(SourceTask, "Quest: "+t.Title, base)
		if err != nil {
			return err
		}
		tx.st.Player.QuestsCompleted++
		if t.Rarity == domain.RarityLegendary {
			tx.st.Player.LegendaryCompleted++
		}
		tx.activity.TasksCompleted++
		tx.progress = append(tx.progress, domain.ChallengeEvent{
			Type: domain.ChallengeCompleteQuests, Value: 1, Rarity: t.Rarity,
		})
		tx.day.TasksCompleted++
		tx.day.EnergyDistribution = map[domain.EnergyType]int{t.EnergyType: 1}
		tx.st.Tasks, _ = task.ResolveDependencies(tx.st.Tasks)

		if err := tx.pushUndo(domain.UndoTaskComplete, "Complete "+t.Title,
			domain.TaskUndo{Task: before, Reward: paid}); err != nil {
			return err
		}
		out = TaskResult{Task: t, Reward: paid}
		tx.emit(domain.EventTaskCompleted, out)
		return nil
	})
	return out, err
}

// DeleteTask removes a task and its links. It can be undone within the
// undo window.
func (s *Service) DeleteTask(ctx context.Context, id string) (domain.Task, error) {
	var out domain.Task
	err := s.mutate(ctx, "delete_task", func(tx *txn) error {
		tasks, removed, pos, err := task.Remove(tx.st.Tasks, id)
		if err != nil {
			return err
		}
		tasks, _ = task.ResolveDependencies(tasks)
		tx.st.Tasks = tasks
		if err := tx.pushUndo(domain.UndoTaskDelete, "Delete "+removed.Title,
			domain.TaskUndo{Task: removed, Position: pos}); err != nil {
			return err
		}
		out = removed
		tx.emit(domain.EventTaskDeleted, removed)
		return nil
	})
	return out, err
}

// AddDependency makes id wait on dependsOn.
func (s *Service) AddDependency(ctx context.Context, id, dependsOn string) (domain.Task, error) {
	var out domain.Task
	err := s.mutate(ctx, "add_dependency", func(tx *txn) error {
		tasks, err := task.AddDependency(tx.st.Tasks, id, dependsOn)
		if err != nil {
			return err
		}
		tx.st.Tasks = tasks
		i, _ := task.Find(tasks, id)
		out = tasks[i]
		return nil
	})
	return out, err
}

// SetTaskStatus applies a manual status change.
func (s *Service) SetTaskStatus(ctx context.Context, id string, status domain.TaskStatus) (domain.Task, error) {
	var out domain.Task
	err := s.mutate(ctx, "set_task_status", func(tx *txn) error {
		tasks, t, err := task.SetStatus(tx.st.Tasks, id, status)
		if err != nil {
			return err
		}
		tx.st.Tasks, _, _ = task.Relink(tasks)
		out = t
		return nil
	})
	return out, err
}

// ExtendDeadline spends a Time Crystal to push a hard deadline back a day.
func (s *Service) ExtendDeadline(ctx context.Context, id string) (domain.Task, error) {
	var out domain.Task
	err := s.mutate(ctx, "extend_deadline", func(tx *txn) error {
		t, err := tx.extendDeadline(id)
		out = t
		return err
	})
	return out, err
}

func (tx *txn) extendDeadline(id string) (domain.Task, error) {
	it, ok := wallet.Lookup(TimeCrystalItem)
	if !ok {
		return domain.Task{}, fmt.Errorf("%w: %s", domain.ErrItemNotFound, TimeCrystalItem)
	}
	w, effect, err := wallet.Use(tx.st.Wallet, it.ID, tx.now)
	if err != nil {
		return domain.Task{}, err
	}
	t, err := tx.updateTask(id, func(t domain.Task) (domain.Task, error) {
		return task.ExtendDeadline(t, int(effect.Value), tx.now)
	})
	if err != nil {
		return domain.Task{}, err
	}
	tx.st.Wallet = w
	tx.refreshDeadlineDensity()
	tx.emit(domain.EventItemUsed, map[string]string{"item_id": it.ID, "task_id": id})
	return t, nil
}

// Tasks returns every task.
func (s *Service) Tasks(ctx context.Context) ([]domain.Task, error) {
	var out []domain.Task
	err := s.view(ctx, func(tx *txn) error {
		out = tx.st.Tasks
		return nil
	})
	return out, err
}

// SuggestTasks ranks what to do next for the given energy type.
func (s *Service) SuggestTasks(ctx context.Context, energy domain.EnergyType) ([]domain.TaskSuggestion, error) {
	var out []domain.TaskSuggestion
	err := s.view(ctx, func(tx *txn) error {
		out = task.Suggest(tx.st.Tasks, energy, tx.now)
		return nil
	})
	return out, err
}
