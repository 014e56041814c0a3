package domain

import (
	"context"
	"time"
)

// ─── Service Interfaces ─────────────────────────────────────────────────────
// These interfaces define boundaries between layers.
// Infrastructure implements them; application layer depends on them.

// StateStore is the persistence boundary around the State aggregate.
// Implemented by infra/sqlite.DB.
type StateStore interface {
	// LoadState returns the persisted state. found is false on a fresh store.
	LoadState(ctx context.Context) (st State, found bool, err error)

	// Commit writes every state section plus the change set in one transaction.
	Commit(ctx context.Context, st State, cs ChangeSet) error

	// UnlockedAchievements lists what has been earned so far.
	UnlockedAchievements(ctx context.Context) ([]UnlockedAchievement, error)

	// LedgerEntries returns recent entries for an account, newest first.
	LedgerEntries(ctx context.Context, account string, limit int) ([]LedgerEntry, error)
}

// NotificationStore persists notifications outside the game transaction.
type NotificationStore interface {
	InsertNotification(ctx context.Context, n Notification) (int64, error)
	NotificationCountOn(ctx context.Context, day Date) (int, error)
	ListPendingNotifications(ctx context.Context, limit int) ([]Notification, error)
	MarkNotificationShown(ctx context.Context, id int64) error
}

// Publisher fans committed events out to live subscribers.
// Implemented by infra/events.Hub.
type Publisher interface {
	Publish(ev Event)
}

// Recorder observes committed game activity for metrics.
// Implemented by infra/metrics.
type Recorder interface {
	RecordEvent(ev Event)
	RecordReward(source string, r Reward)
	RecordState(st State)
	RecordSweep(d time.Duration, changed bool)
}
