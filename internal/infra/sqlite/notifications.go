package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/questforge/questforge/internal/domain"
)

// ─── Notifications ──────────────────────────────────────────────────────────

// InsertNotification creates a new notification, keyed to the calendar day
// of its CreatedAt.
func (d *DB) InsertNotification(ctx context.Context, n domain.Notification) (int64, error) {
	result, err := d.db.ExecContext(ctx,
		`INSERT INTO notifications (type, title, body, day, created_at, shown)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		string(n.Type), n.Title, n.Body, string(domain.DateOf(n.CreatedAt)), n.CreatedAt.Unix(), n.Shown,
	)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

// NotificationCountOn returns how many notifications were created on day.
func (d *DB) NotificationCountOn(ctx context.Context, day domain.Date) (int, error) {
	var count int
	err := d.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM notifications WHERE day = ?`, string(day),
	).Scan(&count)
	return count, err
}

// ListPendingNotifications returns unshown notifications, oldest first.
func (d *DB) ListPendingNotifications(ctx context.Context, limit int) ([]domain.Notification, error) {
	rows, err := d.db.QueryContext(ctx,
		`SELECT id, type, title, body, created_at, shown
		 FROM notifications WHERE shown = 0 ORDER BY created_at, id LIMIT ?`, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notifs []domain.Notification
	for rows.Next() {
		var n domain.Notification
		var createdAt int64
		if err := rows.Scan(&n.ID, &n.Type, &n.Title, &n.Body, &createdAt, &n.Shown); err != nil {
			return nil, err
		}
		n.CreatedAt = time.Unix(createdAt, 0)
		notifs = append(notifs, n)
	}
	return notifs, rows.Err()
}

// MarkNotificationShown marks a notification as shown.
func (d *DB) MarkNotificationShown(ctx context.Context, id int64) error {
	result, err := d.db.ExecContext(ctx, `UPDATE notifications SET shown = 1 WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %d", domain.ErrNotificationNotFound, id)
	}
	return nil
}
