package metrics

import (
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/questforge/questforge/internal/domain"
)

func gatheredNames(t *testing.T) map[string]bool {
	t.Helper()
	families, err := prometheus.DefaultGatherer.Gather()
	if err != nil {
		t.Fatalf("Gather() error: %v", err)
	}
	names := make(map[string]bool)
	for _, f := range families {
		names[f.GetName()] = true
	}
	return names
}

func TestRecordEvent(t *testing.T) {
	r := NewRecorder()
	before := testutil.ToFloat64(EventsTotal.WithLabelValues("task.completed"))
	r.RecordEvent(domain.Event{Type: domain.EventTaskCompleted})
	r.RecordEvent(domain.Event{Type: domain.EventTaskCompleted})

	if got := testutil.ToFloat64(EventsTotal.WithLabelValues("task.completed")); got != before+2 {
		t.Errorf("events_total = %v, want %v", got, before+2)
	}
	if !gatheredNames(t)["questforge_events_total"] {
		t.Error("questforge_events_total not found")
	}
}

func TestRecordReward(t *testing.T) {
	r := NewRecorder()
	xp := testutil.ToFloat64(XPAwarded.WithLabelValues("habit"))
	coins := testutil.ToFloat64(CoinsAwarded.WithLabelValues("habit"))

	r.RecordReward("habit", domain.Reward{XP: 15, Coins: 5})
	r.RecordReward("habit", domain.Reward{})

	if got := testutil.ToFloat64(XPAwarded.WithLabelValues("habit")); got != xp+15 {
		t.Errorf("xp_awarded = %v, want %v", got, xp+15)
	}
	if got := testutil.ToFloat64(CoinsAwarded.WithLabelValues("habit")); got != coins+5 {
		t.Errorf("coins_awarded = %v, want %v", got, coins+5)
	}
}

func TestRecordState(t *testing.T) {
	r := NewRecorder()
	r.RecordState(domain.State{
		Player: domain.Player{Level: 4, TotalXP: 420},
		Wallet: domain.Wallet{Balance: 73},
		Tasks: []domain.Task{
			{ID: "a", Status: domain.TaskActive},
			{ID: "b", Status: domain.TaskBlocked},
			{ID: "c", Status: domain.TaskCompleted},
		},
		Habits:    []domain.Habit{{Title: "Read", CurrentStreak: 6}},
		Burnout:   domain.Burnout{Level: 35},
		Companion: domain.Companion{EvolutionStage: 2},
	})

	checks := []struct {
		name string
		c    prometheus.Collector
		want float64
	}{
		{"level", PlayerLevel, 4},
		{"xp", PlayerXP, 420},
		{"balance", CoinsBalance, 73},
		{"active tasks", TasksActive, 2},
		{"burnout", BurnoutLevel, 35},
		{"companion", CompanionStage, 2},
		{"streak", HabitStreak.WithLabelValues("Read"), 6},
	}
	for _, c := range checks {
		if got := testutil.ToFloat64(c.c); got != c.want {
			t.Errorf("%s = %v, want %v", c.name, got, c.want)
		}
	}
}

func TestRecordSweep(t *testing.T) {
	r := NewRecorder()
	changed := testutil.ToFloat64(SweepsTotal.WithLabelValues("true"))
	r.RecordSweep(3*time.Millisecond, true)
	r.RecordSweep(time.Millisecond, false)

	if got := testutil.ToFloat64(SweepsTotal.WithLabelValues("true")); got != changed+1 {
		t.Errorf("sweeps_total{changed=true} = %v, want %v", got, changed+1)
	}
	if !gatheredNames(t)["questforge_sweep_duration_seconds"] {
		t.Error("questforge_sweep_duration_seconds not found")
	}
}

func TestHealthMetrics(t *testing.T) {
	HealthCheckStatus.WithLabelValues("sqlite").Set(1)
	HealthRecoveries.WithLabelValues("sqlite").Inc()

	names := gatheredNames(t)
	for _, name := range []string{"questforge_health_check_status", "questforge_health_recoveries_total"} {
		if !names[name] {
			t.Errorf("metric %q not found", name)
		}
	}
}

func TestAllMetricsGatherable(t *testing.T) {
	NewRecorder().RecordState(domain.State{})
	n := 0
	for name := range gatheredNames(t) {
		if strings.HasPrefix(name, "questforge_") {
			n++
		}
	}
	// Vec metrics without children are not gathered.
	if n < 7 {
		t.Errorf("expected at least 7 questforge_ metrics, got %d", n)
	}
}
