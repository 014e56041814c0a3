package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/questforge/questforge/internal/domain"
)

// ─── Coin Ledger ────────────────────────────────────────────────────────────

func insertLedgerEntry(ctx context.Context, ex execer, e domain.LedgerEntry) (int64, error) {
	result, err := ex.ExecContext(ctx,
		`INSERT INTO coin_ledger (tx_id, timestamp, type, entry_type, account, amount, source, description, balance)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.TxID, e.Timestamp.Unix(), string(e.Type), string(e.EntryType),
		e.Account, e.Amount, e.Source, nullStr(e.Description), e.Balance,
	)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

// InsertLedgerEntry adds a single ledger entry outside a commit.
func (d *DB) InsertLedgerEntry(ctx context.Context, e domain.LedgerEntry) (int64, error) {
	return insertLedgerEntry(ctx, d.db, e)
}

// LedgerBalance returns the running balance of the latest entry for an
// account.
func (d *DB) LedgerBalance(ctx context.Context, account string) (int64, error) {
	var balance sql.NullInt64
	err := d.db.QueryRowContext(ctx,
		`SELECT balance FROM coin_ledger WHERE account = ? ORDER BY id DESC LIMIT 1`,
		account,
	).Scan(&balance)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return balance.Int64, nil
}

// LedgerTotals returns the sums of all debits and all credits. A healthy
// ledger has them equal.
func (d *DB) LedgerTotals(ctx context.Context) (debits, credits int64, err error) {
	err = d.db.QueryRowContext(ctx,
		`SELECT
			COALESCE(SUM(CASE WHEN entry_type = 'DEBIT' THEN amount END), 0),
			COALESCE(SUM(CASE WHEN entry_type = 'CREDIT' THEN amount END), 0)
		 FROM coin_ledger`,
	).Scan(&debits, &credits)
	return debits, credits, err
}

// LedgerEntries returns recent ledger entries for an account, newest first.
func (d *DB) LedgerEntries(ctx context.Context, account string, limit int) ([]domain.LedgerEntry, error) {
	rows, err := d.db.QueryContext(ctx,
		`SELECT id, tx_id, timestamp, type, entry_type, account, amount, source, description, balance
		 FROM coin_ledger WHERE account = ? ORDER BY id DESC LIMIT ?`,
		account, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []domain.LedgerEntry
	for rows.Next() {
		var e domain.LedgerEntry
		var ts int64
		var desc sql.NullString
		err := rows.Scan(&e.ID, &e.TxID, &ts, &e.Type, &e.EntryType, &e.Account,
			&e.Amount, &e.Source, &desc, &e.Balance)
		if err != nil {
			return nil, err
		}
		e.Timestamp = time.Unix(ts, 0)
		if desc.Valid {
			e.Description = desc.String
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
