// Package health provides periodic health checks with auto-recovery.
// Results feed /health and the questforge_health_* metrics.
package health

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/questforge/questforge/internal/infra/metrics"
)

// DefaultInterval is how often checks run.
const DefaultInterval = 60 * time.Second

// Pinger is satisfied by *sqlite.DB.
type Pinger interface {
	Ping() error
}

// Check defines a single health check with optional recovery action.
type Check struct {
	Name      string
	CheckFn   func(ctx context.Context) error
	RecoverFn func(ctx context.Context) error
}

// Status represents the result of a health check.
type Status struct {
	Name      string    `json:"name"`
	Healthy   bool      `json:"healthy"`
	Error     string    `json:"error,omitempty"`
	CheckedAt time.Time `json:"checked_at"`
}

// Checker runs periodic health checks with auto-recovery.
type Checker struct {
	mu       sync.RWMutex
	checks   []Check
	statuses []Status
	interval time.Duration
	log      *zap.Logger
}

// Options configures the standard checks.
type Options struct {
	DB      Pinger
	DataDir string
	// LastSweep reports when the sweeper last finished. Nil skips the
	// sweeper check.
	LastSweep func() time.Time
	// SweepMaxAge is how stale the last sweep may be before the check
	// fails.
	SweepMaxAge time.Duration
	Interval    time.Duration
	Logger      *zap.Logger
}

// NewChecker creates a health checker with the standard checks: sqlite,
// data_dir and, when LastSweep is set, sweeper.
func NewChecker(opts Options) *Checker {
	c := &Checker{
		interval: opts.Interval,
		log:      opts.Logger,
	}
	if c.interval <= 0 {
		c.interval = DefaultInterval
	}
	if c.log == nil {
		c.log = zap.NewNop()
	}
	c.log = c.log.Named("health")

	c.checks = []Check{
		{
			Name: "sqlite",
			CheckFn: func(ctx context.Context) error {
				return opts.DB.Ping()
			},
		},
		{
			Name: "data_dir",
			CheckFn: func(ctx context.Context) error {
				return checkDataDir(opts.DataDir)
			},
			RecoverFn: func(ctx context.Context) error {
				return os.MkdirAll(opts.DataDir, 0700)
			},
		},
	}
	if opts.LastSweep != nil {
		c.checks = append(c.checks, Check{
			Name: "sweeper",
			CheckFn: func(ctx context.Context) error {
				return checkFreshness(opts.LastSweep(), opts.SweepMaxAge, time.Now())
			},
		})
	}
	return c
}

// Run starts the health check loop and returns when ctx is done.
func (c *Checker) Run(ctx context.Context) error {
	// Run immediately on start
	c.runAll(ctx)

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			c.runAll(ctx)
		}
	}
}

func (c *Checker) runAll(ctx context.Context) {
	statuses := make([]Status, len(c.checks))
	for i, check := range c.checks {
		s := Status{
			Name:      check.Name,
			CheckedAt: time.Now(),
		}
		if err := check.CheckFn(ctx); err != nil {
			s.Error = err.Error()
			c.log.Warn("check failed", zap.String("check", check.Name), zap.Error(err))
			if check.RecoverFn != nil {
				metrics.HealthRecoveries.WithLabelValues(check.Name).Inc()
				if rerr := check.RecoverFn(ctx); rerr != nil {
					c.log.Error("recovery failed", zap.String("check", check.Name), zap.Error(rerr))
				}
			}
		} else {
			s.Healthy = true
		}
		statuses[i] = s
		metrics.HealthCheckStatus.WithLabelValues(check.Name).Set(boolGauge(s.Healthy))
	}

	c.mu.Lock()
	c.statuses = statuses
	c.mu.Unlock()
}

// Statuses returns the latest health check results.
func (c *Checker) Statuses() []Status {
	c.mu.RLock()
	defer c.mu.RUnlock()
	result := make([]Status, len(c.statuses))
	copy(result, c.statuses)
	return result
}

// IsHealthy returns true if all checks pass.
func (c *Checker) IsHealthy() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, s := range c.statuses {
		if !s.Healthy {
			return false
		}
	}
	return true
}

// ─── Check Implementations ──────────────────────────────────────────────────

// checkDataDir verifies the data directory exists and accepts writes.
func checkDataDir(dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("check data dir: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", dir)
	}
	f, err := os.CreateTemp(dir, ".health-*")
	if err != nil {
		return fmt.Errorf("data dir not writable: %w", err)
	}
	name := f.Name()
	f.Close()
	return os.Remove(name)
}

// checkFreshness fails when last is older than maxAge. A zero last means no
// sweep has finished yet.
func checkFreshness(last time.Time, maxAge time.Duration, now time.Time) error {
	if last.IsZero() || maxAge <= 0 {
		return nil
	}
	if age := now.Sub(last); age > maxAge {
		return fmt.Errorf("last sweep %s ago exceeds %s", age.Round(time.Second), maxAge)
	}
	return nil
}

func boolGauge(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
