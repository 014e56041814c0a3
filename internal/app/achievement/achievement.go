// Package achievement evaluates threshold achievements against a stats
// snapshot. Evaluation is pure; unlocks are persisted by the caller in the
// same transaction as the change that earned them.
package achievement

import (
	"context"
	"fmt"
	"time"

	"github.com/questforge/questforge/internal/domain"
)

// Evaluate returns definitions whose requirement stats now meets and that
// are not yet in unlocked. It is idempotent for a fixed unlocked set.
func Evaluate(stats domain.PlayerStats, unlocked map[string]bool) []domain.AchievementDef {
	var out []domain.AchievementDef
	for _, d := range catalog {
		if unlocked[d.ID] {
			continue
		}
		if stats.Value(d.Kind) >= d.Requirement {
			out = append(out, d)
		}
	}
	return out
}

// Reward sums the payout of the given definitions.
func Reward(defs []domain.AchievementDef) domain.Reward {
	var r domain.Reward
	for _, d := range defs {
		r = r.Add(domain.Reward{XP: d.RewardXP, Coins: d.RewardCoins})
	}
	return r
}

// UnlockedSet indexes unlock records by id.
func UnlockedSet(us []domain.UnlockedAchievement) map[string]bool {
	set := make(map[string]bool, len(us))
	for _, u := range us {
		set[u.ID] = true
	}
	return set
}

// Views annotates every definition with unlock state and progress.
func Views(stats domain.PlayerStats, us []domain.UnlockedAchievement) []domain.AchievementView {
	at := make(map[string]time.Time, len(us))
	for _, u := range us {
		at[u.ID] = u.UnlockedAt
	}
	out := make([]domain.AchievementView, 0, len(catalog))
	for _, d := range catalog {
		v := domain.AchievementView{AchievementDef: d, Progress: min(stats.Value(d.Kind), d.Requirement)}
		if t, ok := at[d.ID]; ok {
			v.Unlocked = true
			v.UnlockedAt = &t
			v.Progress = d.Requirement
		}
		out = append(out, v)
	}
	return out
}

// Service reads achievement state from the store.
type Service struct {
	store domain.StateStore
}

// NewService creates an achievement service.
func NewService(store domain.StateStore) *Service {
	return &Service{store: store}
}

// List returns every achievement annotated for stats.
func (s *Service) List(ctx context.Context, stats domain.PlayerStats) ([]domain.AchievementView, error) {
	us, err := s.store.UnlockedAchievements(ctx)
	if err != nil {
		return nil, fmt.Errorf("list unlocked achievements: %w", err)
	}
	return Views(stats, us), nil
}

// UnlockedCount returns how many achievements are unlocked and the total.
func (s *Service) UnlockedCount(ctx context.Context) (int, int, error) {
	us, err := s.store.UnlockedAchievements(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("list unlocked achievements: %w", err)
	}
	return len(us), len(catalog), nil
}
