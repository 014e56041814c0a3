package sqlite

import (
	"context"
	"time"

	"github.com/questforge/questforge/internal/domain"
)

// ─── Achievements ───────────────────────────────────────────────────────────

// unlockAchievement records an achievement as unlocked.
// Returns false if already unlocked (idempotent).
func unlockAchievement(ctx context.Context, ex execer, a domain.UnlockedAchievement) (bool, error) {
	result, err := ex.ExecContext(ctx,
		`INSERT OR IGNORE INTO achievements (id, unlocked_at) VALUES (?, ?)`,
		a.ID, a.UnlockedAt.Unix(),
	)
	if err != nil {
		return false, err
	}
	n, _ := result.RowsAffected()
	return n > 0, nil // true = newly unlocked
}

// UnlockAchievement records a single unlock outside a commit.
func (d *DB) UnlockAchievement(ctx context.Context, id string, at time.Time) (bool, error) {
	return unlockAchievement(ctx, d.db, domain.UnlockedAchievement{ID: id, UnlockedAt: at})
}

// UnlockedAchievements returns all unlocked achievements, oldest first.
func (d *DB) UnlockedAchievements(ctx context.Context) ([]domain.UnlockedAchievement, error) {
	rows, err := d.db.QueryContext(ctx,
		`SELECT id, unlocked_at FROM achievements ORDER BY unlocked_at, id`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.UnlockedAchievement
	for rows.Next() {
		var a domain.UnlockedAchievement
		var unlockedAt int64
		if err := rows.Scan(&a.ID, &unlockedAt); err != nil {
			return nil, err
		}
		a.UnlockedAt = time.Unix(unlockedAt, 0)
		out = append(out, a)
	}
	return out, rows.Err()
}
