package game

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/questforge/questforge/internal/app/task"
	"github.com/questforge/questforge/internal/app/undo"
	"github.com/questforge/questforge/internal/app/wallet"
	"github.com/questforge/questforge/internal/domain"
)

// Undo pops the most recent live undo entry and applies its inverse.
// An entry that cannot be reversed, a skill unlock or a purchase whose item
// was already used, is still dropped from the stack so older entries stay
// reachable; its error is returned.
func (s *Service) Undo(ctx context.Context) (domain.UndoAction, error) {
	var (
		out     domain.UndoAction
		refused error
	)
	err := s.mutate(ctx, "undo", func(tx *txn) error {
		stack, a := undo.Pop(tx.st.Undo, tx.now)
		if a == nil {
			return domain.ErrNothingToUndo
		}
		tx.st.Undo = stack
		out = *a
		if a.Type == domain.UndoSkillUnlock {
			refused = fmt.Errorf("%w: %s", domain.ErrIrreversible, a.Description)
			return nil
		}
		// applyUndo fails before touching state, so committing here only
		// drops the entry.
		if err := tx.applyUndo(*a); err != nil {
			refused = fmt.Errorf("undo %s: %w", a.Description, err)
			tx.s.log.Info("undo entry dropped", zap.String("type", string(a.Type)), zap.Error(err))
			return nil
		}
		tx.emit(domain.EventUndo, a)
		return nil
	})
	if err != nil {
		return domain.UndoAction{}, err
	}
	if refused != nil {
		return out, refused
	}
	return out, nil
}

func (tx *txn) applyUndo(a domain.UndoAction) error {
	switch a.Type {
	case domain.UndoTaskDelete:
		var p domain.TaskUndo
		if err := undo.Decode(a, &p); err != nil {
			return err
		}
		tasks := task.Restore(tx.st.Tasks, p.Task, p.Position)
		tx.st.Tasks, _, _ = task.Relink(tasks)
		return nil

	case domain.UndoTaskComplete:
		var p domain.TaskUndo
		if err := undo.Decode(a, &p); err != nil {
			return err
		}
		i, err := task.Find(tx.st.Tasks, p.Task.ID)
		if err != nil {
			return err
		}
		tasks := append([]domain.Task(nil), tx.st.Tasks...)
		tasks[i] = p.Task
		tx.st.Tasks, _, _ = task.Relink(tasks)

		tx.revoke("Undo: "+p.Task.Title, p.Reward)
		pl := &tx.st.Player
		pl.QuestsCompleted = max(0, pl.QuestsCompleted-1)
		if p.Task.Rarity == domain.RarityLegendary {
			pl.LegendaryCompleted = max(0, pl.LegendaryCompleted-1)
		}
		tx.day.TasksCompleted--
		tx.day.EnergyDistribution = map[domain.EnergyType]int{p.Task.EnergyType: -1}
		return nil

	case domain.UndoHabitMiss:
		var p domain.HabitUndo
		if err := undo.Decode(a, &p); err != nil {
			return err
		}
		i, err := tx.habitIndex(p.Habit.ID)
		if err != nil {
			return err
		}
		tx.setHabit(i, p.Habit)
		tx.day.HabitsMissed--
		return nil

	case domain.UndoItemPurchase:
		var p domain.PurchaseUndo
		if err := undo.Decode(a, &p); err != nil {
			return err
		}
		w, entries, err := wallet.ReturnPurchase(tx.st.Wallet, p.ItemID, p.Price, tx.today, tx.s.newID(), tx.now)
		if err != nil {
			return err
		}
		tx.st.Wallet = w
		tx.cs.Ledger = append(tx.cs.Ledger, entries...)
		return nil
	}
	return fmt.Errorf("%w: unknown undo type %q", domain.ErrIrreversible, a.Type)
}

// UndoStack lists the live undo entries, oldest first.
func (s *Service) UndoStack(ctx context.Context) ([]domain.UndoAction, error) {
	var out []domain.UndoAction
	err := s.view(ctx, func(tx *txn) error {
		out = tx.st.Undo
		return nil
	})
	return out, err
}
