package health

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/questforge/questforge/internal/infra/metrics"
	"github.com/questforge/questforge/internal/infra/sqlite"
)

func newTestDB(t *testing.T) *sqlite.DB {
	t.Helper()
	dir := t.TempDir()
	db, err := sqlite.Open(dir)
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

type fakePinger struct{ err error }

func (p fakePinger) Ping() error { return p.err }

func statusOf(t *testing.T, c *Checker, name string) Status {
	t.Helper()
	for _, s := range c.Statuses() {
		if s.Name == name {
			return s
		}
	}
	t.Fatalf("check %q not found in statuses", name)
	return Status{}
}

// ─── Checker Tests ──────────────────────────────────────────────────────────

func TestNewChecker(t *testing.T) {
	db := newTestDB(t)

	c := NewChecker(Options{DB: db, DataDir: t.TempDir()})
	if len(c.checks) != 2 {
		t.Errorf("checks = %d, want 2", len(c.checks))
	}
	if c.interval != DefaultInterval {
		t.Errorf("interval = %v, want %v", c.interval, DefaultInterval)
	}

	c = NewChecker(Options{DB: db, DataDir: t.TempDir(), LastSweep: time.Now})
	if len(c.checks) != 3 {
		t.Errorf("checks with sweeper = %d, want 3", len(c.checks))
	}
}

func TestChecker_RunAllHealthy(t *testing.T) {
	db := newTestDB(t)
	c := NewChecker(Options{
		DB:          db,
		DataDir:     t.TempDir(),
		LastSweep:   time.Now,
		SweepMaxAge: time.Minute,
	})
	c.runAll(context.Background())

	statuses := c.Statuses()
	if len(statuses) != 3 {
		t.Fatalf("Statuses() = %d, want 3", len(statuses))
	}
	for _, s := range statuses {
		if !s.Healthy {
			t.Errorf("check %q should be healthy, got error: %s", s.Name, s.Error)
		}
	}
	if !c.IsHealthy() {
		t.Error("IsHealthy() should be true when all checks pass")
	}
	if got := testutil.ToFloat64(metrics.HealthCheckStatus.WithLabelValues("sqlite")); got != 1 {
		t.Errorf("health_check_status{sqlite} = %v, want 1", got)
	}
}

func TestChecker_IsHealthy_BeforeRun(t *testing.T) {
	c := NewChecker(Options{DB: newTestDB(t), DataDir: t.TempDir()})

	// No statuses yet, so vacuously healthy.
	if !c.IsHealthy() {
		t.Error("IsHealthy() should be true before first run (no statuses)")
	}
}

func TestChecker_SQLiteFailure(t *testing.T) {
	c := NewChecker(Options{DB: fakePinger{err: errors.New("database is locked")}, DataDir: t.TempDir()})
	c.runAll(context.Background())

	s := statusOf(t, c, "sqlite")
	if s.Healthy || s.Error == "" {
		t.Errorf("sqlite status = %+v, want unhealthy with error", s)
	}
	if c.IsHealthy() {
		t.Error("IsHealthy() should be false")
	}
	if got := testutil.ToFloat64(metrics.HealthCheckStatus.WithLabelValues("sqlite")); got != 0 {
		t.Errorf("health_check_status{sqlite} = %v, want 0", got)
	}
}

func TestChecker_DataDirRecovers(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "missing")
	c := NewChecker(Options{DB: fakePinger{}, DataDir: dir})
	before := testutil.ToFloat64(metrics.HealthRecoveries.WithLabelValues("data_dir"))

	c.runAll(context.Background())
	if statusOf(t, c, "data_dir").Healthy {
		t.Fatal("data_dir should fail when the directory is missing")
	}
	if got := testutil.ToFloat64(metrics.HealthRecoveries.WithLabelValues("data_dir")); got != before+1 {
		t.Errorf("recoveries = %v, want %v", got, before+1)
	}
	if _, err := os.Stat(dir); err != nil {
		t.Fatalf("recovery should create the directory: %v", err)
	}

	c.runAll(context.Background())
	if !statusOf(t, c, "data_dir").Healthy {
		t.Error("data_dir should be healthy after recovery")
	}
}

func TestChecker_DataDirIsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data")
	if err := os.WriteFile(path, []byte("not a dir"), 0644); err != nil {
		t.Fatal(err)
	}
	c := NewChecker(Options{DB: fakePinger{}, DataDir: path})
	c.runAll(context.Background())

	if statusOf(t, c, "data_dir").Healthy {
		t.Error("data_dir should fail when path is a file")
	}
}

func TestCheckFreshness(t *testing.T) {
	now := time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		name    string
		last    time.Time
		maxAge  time.Duration
		wantErr bool
	}{
		{"never swept", time.Time{}, time.Minute, false},
		{"fresh", now.Add(-30 * time.Second), time.Minute, false},
		{"stale", now.Add(-5 * time.Minute), time.Minute, true},
		{"no limit", now.Add(-time.Hour), 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := checkFreshness(tt.last, tt.maxAge, now)
			if (err != nil) != tt.wantErr {
				t.Errorf("checkFreshness() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestChecker_CustomCheck(t *testing.T) {
	c := &Checker{
		log: NewChecker(Options{DB: fakePinger{}}).log,
		checks: []Check{
			{
				Name: "always_pass",
				CheckFn: func(ctx context.Context) error {
					return nil
				},
			},
			{
				Name: "always_fail",
				CheckFn: func(ctx context.Context) error {
					return os.ErrPermission
				},
			},
		},
	}

	c.runAll(context.Background())

	statuses := c.Statuses()
	if len(statuses) != 2 {
		t.Fatalf("statuses = %d, want 2", len(statuses))
	}
	if !statuses[0].Healthy {
		t.Error("always_pass check should be healthy")
	}
	if statuses[1].Healthy || statuses[1].Error == "" {
		t.Error("always_fail check should be unhealthy with an error")
	}
}

func TestChecker_StatusesCopy(t *testing.T) {
	c := NewChecker(Options{DB: newTestDB(t), DataDir: t.TempDir()})
	c.runAll(context.Background())

	s1 := c.Statuses()
	s2 := c.Statuses()

	s1[0].Healthy = false
	if !s2[0].Healthy {
		t.Error("Statuses() should return a copy, not a reference")
	}
}

func TestChecker_RunStopsOnCancel(t *testing.T) {
	c := NewChecker(Options{DB: fakePinger{}, DataDir: t.TempDir(), Interval: time.Millisecond})
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- c.Run(ctx) }()

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run() error = %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run() did not return after cancel")
	}
	if len(c.Statuses()) != 2 {
		t.Errorf("Run() should check once on start, statuses = %d", len(c.Statuses()))
	}
}
