// Package metrics provides Prometheus metrics for QuestForge: committed
// events, rewards paid, player progression and sweeper runs.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/questforge/questforge/internal/app/task"
	"github.com/questforge/questforge/internal/domain"
)

// ─── Events ─────────────────────────────────────────────────────────────────

// EventsTotal counts committed game events by type.
var EventsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "questforge",
	Name:      "events_total",
	Help:      "Total committed game events.",
}, []string{"type"})

// ─── Rewards ────────────────────────────────────────────────────────────────

// XPAwarded tracks XP paid by source.
var XPAwarded = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "questforge",
	Name:      "xp_awarded_total",
	Help:      "Total XP awarded.",
}, []string{"source"})

// CoinsAwarded tracks coins paid by source.
var CoinsAwarded = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "questforge",
	Name:      "coins_awarded_total",
	Help:      "Total coins awarded.",
}, []string{"source"})

// ─── Progression ────────────────────────────────────────────────────────────

// PlayerLevel tracks the current player level.
var PlayerLevel = promauto.NewGauge(prometheus.GaugeOpts{
	Namespace: "questforge",
	Name:      "player_level",
	Help:      "Current player level.",
})

// PlayerXP tracks the player's lifetime XP.
var PlayerXP = promauto.NewGauge(prometheus.GaugeOpts{
	Namespace: "questforge",
	Name:      "player_xp",
	Help:      "Lifetime XP of the player.",
})

// CoinsBalance tracks the purse balance.
var CoinsBalance = promauto.NewGauge(prometheus.GaugeOpts{
	Namespace: "questforge",
	Name:      "coins_balance_current",
	Help:      "Current coin balance.",
})

// TasksActive tracks tasks that are active or blocked.
var TasksActive = promauto.NewGauge(prometheus.GaugeOpts{
	Namespace: "questforge",
	Name:      "tasks_active",
	Help:      "Number of active or blocked tasks.",
})

// HabitStreak tracks the current streak per habit.
var HabitStreak = promauto.NewGaugeVec(prometheus.GaugeOpts{
	Namespace: "questforge",
	Name:      "habit_streak_days",
	Help:      "Current streak per habit.",
}, []string{"habit"})

// BurnoutLevel tracks the composite burnout score (0-100).
var BurnoutLevel = promauto.NewGauge(prometheus.GaugeOpts{
	Namespace: "questforge",
	Name:      "burnout_level",
	Help:      "Composite burnout score (0-100).",
})

// CompanionStage tracks the companion evolution stage (1-5).
var CompanionStage = promauto.NewGauge(prometheus.GaugeOpts{
	Namespace: "questforge",
	Name:      "companion_stage",
	Help:      "Companion evolution stage (1-5).",
})

// ─── Sweeper ────────────────────────────────────────────────────────────────

// SweepDuration tracks how long a sweep takes.
var SweepDuration = promauto.NewHistogram(prometheus.HistogramOpts{
	Namespace: "questforge",
	Name:      "sweep_duration_seconds",
	Help:      "Duration of a reconcile sweep.",
	Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
})

// SweepsTotal counts sweeps by whether they committed a change.
var SweepsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "questforge",
	Name:      "sweeps_total",
	Help:      "Total sweeps by outcome.",
}, []string{"changed"})

// ─── Health ─────────────────────────────────────────────────────────────────

// HealthCheckStatus tracks health check results (1=healthy, 0=unhealthy).
var HealthCheckStatus = promauto.NewGaugeVec(prometheus.GaugeOpts{
	Namespace: "questforge",
	Name:      "health_check_status",
	Help:      "Health check result per component (1=healthy, 0=unhealthy).",
}, []string{"check"})

// HealthRecoveries tracks auto-recovery attempts.
var HealthRecoveries = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "questforge",
	Name:      "health_recoveries_total",
	Help:      "Total auto-recovery attempts per check.",
}, []string{"check"})

// ─── Recorder ───────────────────────────────────────────────────────────────

// Recorder feeds committed game activity into the package metrics.
// It implements domain.Recorder.
type Recorder struct{}

// NewRecorder returns a Recorder.
func NewRecorder() *Recorder { return &Recorder{} }

// RecordEvent counts one committed event.
func (*Recorder) RecordEvent(ev domain.Event) {
	EventsTotal.WithLabelValues(string(ev.Type)).Inc()
}

// RecordReward adds a paid reward to the per-source counters.
func (*Recorder) RecordReward(source string, r domain.Reward) {
	if r.XP > 0 {
		XPAwarded.WithLabelValues(source).Add(float64(r.XP))
	}
	if r.Coins > 0 {
		CoinsAwarded.WithLabelValues(source).Add(float64(r.Coins))
	}
}

// RecordState refreshes the progression gauges from a committed state.
func (*Recorder) RecordState(st domain.State) {
	PlayerLevel.Set(float64(st.Player.Level))
	PlayerXP.Set(float64(st.Player.TotalXP))
	CoinsBalance.Set(float64(st.Wallet.Balance))
	TasksActive.Set(float64(len(task.Active(st.Tasks))))
	BurnoutLevel.Set(float64(st.Burnout.Level))
	CompanionStage.Set(float64(st.Companion.EvolutionStage))

	HabitStreak.Reset()
	for _, h := range st.Habits {
		HabitStreak.WithLabelValues(h.Title).Set(float64(h.CurrentStreak))
	}
}

// RecordSweep observes one sweeper run.
func (*Recorder) RecordSweep(d time.Duration, changed bool) {
	SweepDuration.Observe(d.Seconds())
	label := "false"
	if changed {
		label = "true"
	}
	SweepsTotal.WithLabelValues(label).Inc()
}
