// Package game is the application service around the single-user State
// aggregate. Every mutation runs the same pipeline: lock, load, reconcile
// today, apply a pure transition, settle its knock-on effects and commit
// state, ledger entries and achievement unlocks in one transaction. Events,
// notifications and metrics follow a successful commit.
package game

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/questforge/questforge/internal/app/achievement"
	"github.com/questforge/questforge/internal/app/analytics"
	"github.com/questforge/questforge/internal/app/burnout"
	"github.com/questforge/questforge/internal/app/challenge"
	"github.com/questforge/questforge/internal/app/companion"
	"github.com/questforge/questforge/internal/app/notify"
	"github.com/questforge/questforge/internal/app/undo"
	"github.com/questforge/questforge/internal/domain"
)

// Config tunes the service.
type Config struct {
	// Location decides where calendar days start and end.
	Location            *time.Location
	UndoWindow          time.Duration
	UndoMax             int
	SkillPointsPerLevel int
	// ApplyBonuses enables skill, companion and XP-scroll multipliers on
	// activity rewards.
	ApplyBonuses bool
	PlayerName   string
}

// DefaultConfig returns the stock tuning.
func DefaultConfig() Config {
	return Config{
		Location:            time.Local,
		UndoWindow:          undo.DefaultWindow,
		UndoMax:             undo.DefaultMax,
		SkillPointsPerLevel: 1,
		ApplyBonuses:        true,
		PlayerName:          "Adventurer",
	}
}

// Option customizes a Service.
type Option func(*Service)

// WithNotifier writes notifications for level ups, achievements, evolutions,
// burnout warnings and completed challenges.
func WithNotifier(n *notify.Service) Option { return func(s *Service) { s.notes = n } }

// WithPublisher fans committed events out, e.g. to the live feed.
func WithPublisher(p domain.Publisher) Option { return func(s *Service) { s.pub = p } }

// WithRecorder reports committed activity to metrics.
func WithRecorder(r domain.Recorder) Option { return func(s *Service) { s.rec = r } }

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option { return func(s *Service) { s.log = l } }

// WithClock replaces time.Now. Accepts a clock for testability.
func WithClock(now func() time.Time) Option { return func(s *Service) { s.now = now } }

// WithIDs replaces the uuid generator.
func WithIDs(newID func() string) Option { return func(s *Service) { s.newID = newID } }

// Service owns the game state. It is safe for concurrent use; mutations are
// serialized.
type Service struct {
	mu    sync.Mutex
	store domain.StateStore
	notes *notify.Service
	pub   domain.Publisher
	rec   domain.Recorder
	log   *zap.Logger
	cfg   Config
	undo  undo.Ledger
	now   func() time.Time
	newID func() string
}

// NewService creates a game service over store.
func NewService(store domain.StateStore, cfg Config, opts ...Option) *Service {
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	if cfg.SkillPointsPerLevel < 0 {
		cfg.SkillPointsPerLevel = 0
	}
	if cfg.PlayerName == "" {
		cfg.PlayerName = DefaultConfig().PlayerName
	}
	s := &Service{
		store: store,
		cfg:   cfg,
		undo:  undo.NewLedger(cfg.UndoMax, cfg.UndoWindow),
		log:   zap.NewNop(),
		now:   time.Now,
		newID: uuid.NewString,
	}
	for _, o := range opts {
		o(s)
	}
	s.log = s.log.Named("game")
	return s
}

// Config returns the active configuration.
func (s *Service) Config() Config { return s.cfg }

// ─── Pipeline ───────────────────────────────────────────────────────────────

// granted is a reward paid during a mutation, kept for metrics.
type granted struct {
	source string
	reward domain.Reward
}

// txn carries one mutation from load to commit.
type txn struct {
	s        *Service
	st       domain.State
	cs       domain.ChangeSet
	now      time.Time
	today    domain.Date
	unlocked map[string]bool

	events  []domain.Event
	notes   []domain.Notification
	rewards []granted

	// Accumulated by apply, consumed by settle.
	activity domain.Activity
	day      domain.DailyStats
	progress []domain.ChallengeEvent
}

// load reads the state (or starts a fresh one) without reconciling it.
func (s *Service) load(ctx context.Context) (*txn, error) {
	now := s.now().In(s.cfg.Location)
	today := domain.DateOf(now)

	st, found, err := s.store.LoadState(ctx)
	if err != nil {
		return nil, fmt.Errorf("load state: %w", err)
	}
	if !found {
		st = s.fresh(now, today)
	}
	if st.Companion.ID == "" {
		st.Companion = companion.New(s.newID(), now, today)
	}
	if st.Player.Level < 1 {
		st.Player.Level = 1
	}
	st.Player.PeakLevel = max(st.Player.PeakLevel, st.Player.Level)

	us, err := s.store.UnlockedAchievements(ctx)
	if err != nil {
		return nil, fmt.Errorf("load achievements: %w", err)
	}
	return &txn{
		s:        s,
		st:       st,
		now:      now,
		today:    today,
		unlocked: achievement.UnlockedSet(us),
	}, nil
}

func (s *Service) fresh(now time.Time, today domain.Date) domain.State {
	return domain.State{
		Player: domain.Player{
			Name:      s.cfg.PlayerName,
			Level:     1,
			PeakLevel: 1,
			CreatedAt: now,
		},
		Companion:  companion.New(s.newID(), now, today),
		Burnout:    burnout.Compute(domain.BurnoutFactors{}, now),
		Challenges: challenge.Rollover(domain.ChallengeBoard{}, today),
		Wallet:     domain.Wallet{Inventory: map[string]int{}},
	}
}

// begin loads and reconciles.
func (s *Service) begin(ctx context.Context) (*txn, error) {
	tx, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	tx.reconcile()
	return tx, nil
}

// commit settles tx and writes it in one store transaction, then runs the
// post-commit side effects.
func (s *Service) commit(ctx context.Context, op string, tx *txn) error {
	if err := tx.settle(); err != nil {
		return err
	}
	if err := s.store.Commit(ctx, tx.st, tx.cs); err != nil {
		s.log.Error("commit failed", zap.String("op", op), zap.Error(err))
		return fmt.Errorf("commit: %w", err)
	}
	s.after(ctx, op, tx)
	return nil
}

// mutate runs fn inside the full pipeline. Nothing is written when fn fails.
func (s *Service) mutate(ctx context.Context, op string, fn func(tx *txn) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.begin(ctx)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		return err
	}
	return s.commit(ctx, op, tx)
}

// view runs fn against the reconciled state without committing.
func (s *Service) view(ctx context.Context, fn func(tx *txn) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.begin(ctx)
	if err != nil {
		return err
	}
	return fn(tx)
}

// after publishes events, records metrics and writes notifications.
// Failures here are logged, never returned: the state is already committed.
func (s *Service) after(ctx context.Context, op string, tx *txn) {
	for _, ev := range tx.events {
		if s.pub != nil {
			s.pub.Publish(ev)
		}
		if s.rec != nil {
			s.rec.RecordEvent(ev)
		}
	}
	if s.rec != nil {
		for _, g := range tx.rewards {
			s.rec.RecordReward(g.source, g.reward)
		}
		s.rec.RecordState(tx.st)
	}
	if s.notes != nil {
		for _, n := range tx.notes {
			if _, err := s.notes.Create(ctx, n, tx.now); err != nil {
				s.log.Warn("notification dropped", zap.String("type", string(n.Type)), zap.Error(err))
			}
		}
	}
	s.log.Debug("committed",
		zap.String("op", op),
		zap.Int("events", len(tx.events)),
		zap.Int("ledger_entries", len(tx.cs.Ledger)),
		zap.Int64("total_xp", tx.st.Player.TotalXP))
}

// ─── Sweep ──────────────────────────────────────────────────────────────────

// SweepResult reports what a sweep changed.
type SweepResult struct {
	ReconcileResult
	Changed bool `json:"changed"`
}

// Sweep purges expired undo entries and shop effects and re-runs the daily
// reconcile. It commits only when something changed, so repeated sweeps
// with no new events write nothing.
func (s *Service) Sweep(ctx context.Context) (SweepResult, error) {
	start := time.Now()
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.load(ctx)
	if err != nil {
		return SweepResult{}, err
	}
	before, err := json.Marshal(tx.st)
	if err != nil {
		return SweepResult{}, err
	}
	res := SweepResult{ReconcileResult: tx.reconcile()}
	if err := tx.settle(); err != nil {
		return res, err
	}
	after, err := json.Marshal(tx.st)
	if err != nil {
		return res, err
	}
	res.Changed = string(before) != string(after) || len(tx.cs.Ledger) > 0 || len(tx.cs.Unlocked) > 0

	if res.Changed {
		if err := s.store.Commit(ctx, tx.st, tx.cs); err != nil {
			return res, fmt.Errorf("commit: %w", err)
		}
		s.after(ctx, "sweep", tx)
	}
	if s.rec != nil {
		s.rec.RecordSweep(time.Since(start), res.Changed)
	}
	if res.Changed {
		s.log.Info("sweep applied",
			zap.Int("undo_expired", res.UndoExpired),
			zap.Int("effects_expired", res.EffectsExpired),
			zap.Int("habit_misses", res.HabitMisses),
			zap.Int("tasks_missed", res.TasksMissed))
	}
	return res, nil
}

// ─── Helpers ────────────────────────────────────────────────────────────────

func (tx *txn) emit(t domain.EventType, data any) {
	tx.events = append(tx.events, domain.Event{
		ID:        tx.s.newID(),
		Type:      t,
		Timestamp: tx.now,
		Data:      data,
	})
}

func (tx *txn) notify(t domain.NotificationType, title, body string) {
	tx.notes = append(tx.notes, domain.Notification{Type: t, Title: title, Body: body})
}

func (tx *txn) pushUndo(t domain.UndoType, desc string, payload any) error {
	a, err := tx.s.undo.Action(tx.s.newID(), t, desc, payload, tx.now)
	if err != nil {
		return fmt.Errorf("record undo: %w", err)
	}
	tx.st.Undo = tx.s.undo.Push(tx.st.Undo, a)
	return nil
}

// statsOf snapshots the achievement inputs. Streak is the best live streak
// across habits and the focus streak.
func statsOf(st domain.State) domain.PlayerStats {
	streak := st.Focus.Streak.Current
	for _, h := range st.Habits {
		streak = max(streak, h.CurrentStreak)
	}
	return domain.PlayerStats{
		QuestsCompleted:    st.Player.QuestsCompleted,
		TotalXP:            st.Player.TotalXP,
		Streak:             int64(streak),
		LegendaryCompleted: st.Player.LegendaryCompleted,
		DailyChallenges:    int64(st.Challenges.CompletedCount),
		FocusMinutes:       int64(st.Companion.TotalFocusMinutes),
		SkillsUnlocked:     int64(len(st.Skills.Unlocked)),
		CompanionStage:     int64(st.Companion.EvolutionStage),
		Level:              int64(st.Player.Level),
	}
}

func dayEmpty(d domain.DailyStats) bool {
	return d.TasksCompleted == 0 && d.TasksCreated == 0 && d.XPEarned == 0 &&
		d.CoinsEarned == 0 && d.FocusMinutes == 0 && d.HabitsCompleted == 0 &&
		d.HabitsMissed == 0 && len(d.EnergyDistribution) == 0
}

// recordDay folds the mutation's counters into today's stats.
func (tx *txn) recordDay() {
	if dayEmpty(tx.day) {
		return
	}
	tx.st.Daily = analytics.Record(tx.st.Daily, tx.today, tx.day)
	tx.day = domain.DailyStats{}
}
