package game

import (
	"context"
	"fmt"

	"github.com/questforge/questforge/internal/app/achievement"
	"github.com/questforge/questforge/internal/app/analytics"
	"github.com/questforge/questforge/internal/app/companion"
	"github.com/questforge/questforge/internal/app/leveling"
	"github.com/questforge/questforge/internal/app/reward"
	"github.com/questforge/questforge/internal/app/skilltree"
	"github.com/questforge/questforge/internal/app/task"
	"github.com/questforge/questforge/internal/app/undo"
	"github.com/questforge/questforge/internal/app/wallet"
	"github.com/questforge/questforge/internal/domain"
)

// DefaultTransactionLimit caps transaction listings when no limit is given.
const DefaultTransactionLimit = 50

// Status builds the dashboard from the reconciled state.
func (s *Service) Status(ctx context.Context) (domain.Status, error) {
	var out domain.Status
	err := s.view(ctx, func(tx *txn) error {
		st := tx.st
		info, err := leveling.FromTotalXP(st.Player.TotalXP)
		if err != nil {
			return err
		}
		out = domain.Status{
			Player:      st.Player,
			LevelInfo:   info,
			Coins:       st.Wallet.Balance,
			SkillPoints: st.Skills.Points,
			Companion:   companion.View(st.Companion),
			Burnout:     st.Burnout,
			Challenges:  st.Challenges,
			Focus:       st.Focus.Active,
			FocusStreak: st.Focus.Streak,
			Today:       analytics.Today(st.Daily, tx.today),
			ActiveTasks: len(task.Active(st.Tasks)),
			Habits:      len(st.Habits),
			XPBoost:     wallet.XPBoost(st.Wallet, tx.now),
			Undo:        undo.Latest(st.Undo, tx.now),
			Suggestions: task.Suggest(st.Tasks, "", tx.now),
		}
		return nil
	})
	return out, err
}

// PreviewReward computes what a task would pay with the bonuses active
// right now.
func (s *Service) PreviewReward(ctx context.Context, d domain.Difficulty, r domain.Rarity, est, actual int) (domain.Reward, error) {
	base, err := reward.Compute(d, r, est, actual)
	if err != nil {
		return domain.Reward{}, err
	}
	if !s.cfg.ApplyBonuses {
		return base, nil
	}
	var out domain.Reward
	err = s.view(ctx, func(tx *txn) error {
		xp, coins := tx.bonuses(SourceTask)
		out = reward.Boost(base, xp, coins)
		return nil
	})
	return out, err
}

// Level maps a total XP to its level summary.
func (s *Service) Level(xp int64) (domain.LevelInfo, error) {
	return leveling.FromTotalXP(xp)
}

// WeeklyReport summarizes the current Sunday-started week.
func (s *Service) WeeklyReport(ctx context.Context) (domain.WeeklyReport, error) {
	var out domain.WeeklyReport
	err := s.view(ctx, func(tx *txn) error {
		out = analytics.WeeklyReport(tx.st.Daily, analytics.WeekInput{
			Sessions:     tx.st.Focus.History,
			Tasks:        tx.st.Tasks,
			BurnoutLevel: tx.st.Burnout.Level,
		}, tx.today, tx.now)
		return nil
	})
	return out, err
}

// Trend returns the productivity score for each of the last days.
func (s *Service) Trend(ctx context.Context, days int) ([]analytics.TrendPoint, error) {
	var out []analytics.TrendPoint
	err := s.view(ctx, func(tx *txn) error {
		out = analytics.Trend(tx.st.Daily, tx.today, days)
		return nil
	})
	return out, err
}

// Companion returns the companion with its mood and active bonus.
func (s *Service) Companion(ctx context.Context) (domain.CompanionView, error) {
	var out domain.CompanionView
	err := s.view(ctx, func(tx *txn) error {
		out = companion.View(tx.st.Companion)
		return nil
	})
	return out, err
}

// Burnout returns the current burnout assessment.
func (s *Service) Burnout(ctx context.Context) (domain.Burnout, error) {
	var out domain.Burnout
	err := s.view(ctx, func(tx *txn) error {
		out = tx.st.Burnout
		return nil
	})
	return out, err
}

// Skills returns every skill node with its unlock state and the points left.
func (s *Service) Skills(ctx context.Context) ([]domain.SkillView, int, error) {
	var (
		out    []domain.SkillView
		points int
	)
	err := s.view(ctx, func(tx *txn) error {
		out = skilltree.Views(tx.st.Skills)
		points = tx.st.Skills.Points
		return nil
	})
	return out, points, err
}

// Challenges returns today's board.
func (s *Service) Challenges(ctx context.Context) (domain.ChallengeBoard, error) {
	var out domain.ChallengeBoard
	err := s.view(ctx, func(tx *txn) error {
		out = tx.st.Challenges
		return nil
	})
	return out, err
}

// Shop returns the catalog annotated with today's stock and inventory.
func (s *Service) Shop(ctx context.Context) ([]domain.ShopView, error) {
	var out []domain.ShopView
	err := s.view(ctx, func(tx *txn) error {
		out = wallet.Views(tx.st.Wallet, tx.today)
		return nil
	})
	return out, err
}

// Wallet returns the balance, inventory and live effects.
func (s *Service) Wallet(ctx context.Context) (domain.Wallet, error) {
	var out domain.Wallet
	err := s.view(ctx, func(tx *txn) error {
		out = tx.st.Wallet
		return nil
	})
	return out, err
}

// Transactions lists recent purse movements, newest first.
func (s *Service) Transactions(ctx context.Context, limit int) ([]domain.Transaction, error) {
	if limit <= 0 {
		limit = DefaultTransactionLimit
	}
	entries, err := s.store.LedgerEntries(ctx, domain.AccountPurse, limit)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return wallet.Transactions(entries), nil
}

// Achievements lists the catalog with progress and unlock times.
func (s *Service) Achievements(ctx context.Context) ([]domain.AchievementView, error) {
	var stats domain.PlayerStats
	if err := s.view(ctx, func(tx *txn) error {
		stats = statsOf(tx.st)
		return nil
	}); err != nil {
		return nil, err
	}
	return achievement.NewService(s.store).List(ctx, stats)
}

// Notifications lists notifications not yet shown, oldest first.
func (s *Service) Notifications(ctx context.Context, limit int) ([]domain.Notification, error) {
	if s.notes == nil {
		return []domain.Notification{}, nil
	}
	return s.notes.Pending(ctx, limit)
}

// MarkNotificationShown acknowledges a notification.
func (s *Service) MarkNotificationShown(ctx context.Context, id int64) error {
	if s.notes == nil {
		return fmt.Errorf("%w: %d", domain.ErrNotificationNotFound, id)
	}
	return s.notes.MarkShown(ctx, id)
}
