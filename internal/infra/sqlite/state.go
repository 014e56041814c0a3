package sqlite

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/questforge/questforge/internal/domain"
)

// ─── State Sections ─────────────────────────────────────────────────────────

type section struct {
	key string
	v   any
}

// sections binds each state key to the field it persists.
func sections(st *domain.State) []section {
	return []section{
		{domain.SectionPlayer, &st.Player},
		{domain.SectionTasks, &st.Tasks},
		{domain.SectionHabits, &st.Habits},
		{domain.SectionProjects, &st.Projects},
		{domain.SectionFocus, &st.Focus},
		{domain.SectionCompanion, &st.Companion},
		{domain.SectionBurnout, &st.Burnout},
		{domain.SectionSkills, &st.Skills},
		{domain.SectionChallenges, &st.Challenges},
		{domain.SectionWallet, &st.Wallet},
		{domain.SectionUndo, &st.Undo},
		{domain.SectionDaily, &st.Daily},
	}
}

// LoadState reads every state section. found is false when nothing has
// been committed yet.
func (d *DB) LoadState(ctx context.Context) (domain.State, bool, error) {
	var st domain.State
	rows, err := d.db.QueryContext(ctx, `SELECT key, value FROM state`)
	if err != nil {
		return st, false, err
	}
	defer rows.Close()

	raw := make(map[string]string)
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return st, false, err
		}
		raw[k] = v
	}
	if err := rows.Err(); err != nil {
		return st, false, err
	}
	if len(raw) == 0 {
		return st, false, nil
	}

	for _, s := range sections(&st) {
		v, ok := raw[s.key]
		if !ok {
			continue
		}
		if err := json.Unmarshal([]byte(v), s.v); err != nil {
			return st, false, fmt.Errorf("decode %s: %w", s.key, err)
		}
	}
	return st, true, nil
}

// Commit writes every state section, the ledger entries and the
// achievement unlocks of cs in a single transaction.
func (d *DB) Commit(ctx context.Context, st domain.State, cs domain.ChangeSet) error {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().Unix()
	for _, s := range sections(&st) {
		b, err := json.Marshal(s.v)
		if err != nil {
			return fmt.Errorf("encode %s: %w", s.key, err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO state (key, value, updated_at) VALUES (?, ?, ?)
			 ON CONFLICT(key) DO UPDATE SET value=excluded.value, updated_at=excluded.updated_at`,
			s.key, string(b), now,
		); err != nil {
			return fmt.Errorf("write %s: %w", s.key, err)
		}
	}

	for _, e := range cs.Ledger {
		if _, err := insertLedgerEntry(ctx, tx, e); err != nil {
			return fmt.Errorf("ledger: %w", err)
		}
	}
	for _, a := range cs.Unlocked {
		if _, err := unlockAchievement(ctx, tx, a); err != nil {
			return fmt.Errorf("achievement %s: %w", a.ID, err)
		}
	}

	return tx.Commit()
}
