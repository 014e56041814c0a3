package sqlite

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/questforge/questforge/internal/domain"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	dir := t.TempDir()
	db, err := Open(dir)
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

var t0 = time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC)

// ─── Database Lifecycle ─────────────────────────────────────────────────────

func TestOpen_CreatesDatabase(t *testing.T) {
	dir := t.TempDir()
	db, err := Open(dir)
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	defer db.Close()

	if _, err := os.Stat(filepath.Join(dir, "state.db")); os.IsNotExist(err) {
		t.Error("state.db should exist")
	}
}

func TestOpen_Reopen(t *testing.T) {
	dir := t.TempDir()
	db, err := Open(dir)
	if err != nil {
		t.Fatal(err)
	}
	db.Close()
	db, err = Open(dir)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		t.Fatalf("Ping() error: %v", err)
	}
}

// ─── State ──────────────────────────────────────────────────────────────────

func TestLoadState_Fresh(t *testing.T) {
	db := newTestDB(t)
	_, found, err := db.LoadState(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if found {
		t.Error("fresh store should report found=false")
	}
}

func TestCommit_RoundTrip(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	st := domain.State{
		Player: domain.Player{Name: "ada", TotalXP: 420, Level: 4, CreatedAt: t0},
		Tasks:  []domain.Task{{ID: "t1", Title: "Write report", Status: domain.TaskActive}},
		Wallet: domain.Wallet{Balance: 30, Treasury: -30, Inventory: map[string]int{"streak-freeze": 1}},
		Daily:  []domain.DailyStats{{Date: "2024-01-15", TasksCompleted: 2}},
	}
	cs := domain.ChangeSet{
		Ledger: []domain.LedgerEntry{
			{TxID: "tx1", Timestamp: t0, Type: domain.TxEarn, EntryType: domain.EntryDebit, Account: domain.AccountTreasury, Amount: 30, Balance: -30},
			{TxID: "tx1", Timestamp: t0, Type: domain.TxEarn, EntryType: domain.EntryCredit, Account: domain.AccountPurse, Amount: 30, Balance: 30, Description: "quest"},
		},
		Unlocked: []domain.UnlockedAchievement{{ID: "first_quest", UnlockedAt: t0}},
	}
	if err := db.Commit(ctx, st, cs); err != nil {
		t.Fatalf("Commit: %v", err)
	}

	got, found, err := db.LoadState(ctx)
	if err != nil || !found {
		t.Fatalf("LoadState = %v, %v", found, err)
	}
	if got.Player.TotalXP != 420 || got.Player.Name != "ada" {
		t.Errorf("player = %+v", got.Player)
	}
	if len(got.Tasks) != 1 || got.Tasks[0].ID != "t1" {
		t.Errorf("tasks = %+v", got.Tasks)
	}
	if got.Wallet.Owned("streak-freeze") != 1 || got.Wallet.Treasury != -30 {
		t.Errorf("wallet = %+v", got.Wallet)
	}

	bal, err := db.LedgerBalance(ctx, domain.AccountPurse)
	if err != nil || bal != 30 {
		t.Errorf("purse balance = %d, %v", bal, err)
	}
	debits, credits, err := db.LedgerTotals(ctx)
	if err != nil || debits != credits || debits != 30 {
		t.Errorf("totals = %d/%d, %v", debits, credits, err)
	}

	entries, err := db.LedgerEntries(ctx, domain.AccountPurse, 10)
	if err != nil || len(entries) != 1 || entries[0].Description != "quest" || entries[0].TxID != "tx1" {
		t.Errorf("entries = %+v, %v", entries, err)
	}

	us, err := db.UnlockedAchievements(ctx)
	if err != nil || len(us) != 1 || us[0].ID != "first_quest" {
		t.Errorf("unlocked = %+v, %v", us, err)
	}
}

func TestCommit_AchievementsIdempotent(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	cs := domain.ChangeSet{Unlocked: []domain.UnlockedAchievement{{ID: "quest_10", UnlockedAt: t0}}}
	for i := 0; i < 2; i++ {
		if err := db.Commit(ctx, domain.State{}, cs); err != nil {
			t.Fatalf("Commit #%d: %v", i, err)
		}
	}
	us, _ := db.UnlockedAchievements(ctx)
	if len(us) != 1 {
		t.Errorf("unlocked %d times, want 1", len(us))
	}
	fresh, err := db.UnlockAchievement(ctx, "quest_10", t0)
	if err != nil || fresh {
		t.Errorf("re-unlock = %v, %v", fresh, err)
	}
}

func TestCommit_CanceledContextWritesNothing(t *testing.T) {
	db := newTestDB(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := db.Commit(ctx, domain.State{Player: domain.Player{TotalXP: 1}}, domain.ChangeSet{}); err == nil {
		t.Fatal("commit with canceled context should fail")
	}
	_, found, _ := db.LoadState(context.Background())
	if found {
		t.Error("failed commit left state behind")
	}
}

// ─── Notifications ──────────────────────────────────────────────────────────

func TestNotifications(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	id1, err := db.InsertNotification(ctx, domain.Notification{Type: domain.NotifyLevelUp, Title: "Level 2", Body: "b", CreatedAt: t0})
	if err != nil {
		t.Fatal(err)
	}
	db.InsertNotification(ctx, domain.Notification{Type: domain.NotifyAchievement, Title: "First", Body: "b", CreatedAt: t0.Add(time.Minute)})
	db.InsertNotification(ctx, domain.Notification{Type: domain.NotifyAchievement, Title: "Next day", Body: "b", CreatedAt: t0.Add(24 * time.Hour)})

	n, err := db.NotificationCountOn(ctx, "2024-01-15")
	if err != nil || n != 2 {
		t.Errorf("count = %d, %v", n, err)
	}

	if err := db.MarkNotificationShown(ctx, id1); err != nil {
		t.Fatal(err)
	}
	pending, err := db.ListPendingNotifications(ctx, 10)
	if err != nil || len(pending) != 2 || pending[0].Title != "First" {
		t.Errorf("pending = %+v, %v", pending, err)
	}
	if err := db.MarkNotificationShown(ctx, 999); !errors.Is(err, domain.ErrNotificationNotFound) {
		t.Errorf("unknown id err = %v", err)
	}
}
