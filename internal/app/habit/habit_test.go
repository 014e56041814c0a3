package habit

import (
	"errors"
	"testing"
	"time"

	"github.com/questforge/questforge/internal/domain"
)

func newHabit(t *testing.T) domain.Habit {
	t.Helper()
	h, err := New(domain.HabitInput{Title: "Read"}, "h1", time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return h
}

func TestNew_Defaults(t *testing.T) {
	h := newHabit(t)
	if h.MomentumMultiplier != 1 || h.DifficultyLevel != 1 {
		t.Errorf("momentum=%f difficulty=%f, want 1/1", h.MomentumMultiplier, h.DifficultyLevel)
	}
	if h.BaseXP != DefaultBaseXP || h.BaseCoins != DefaultBaseCoins {
		t.Errorf("base rewards = %d/%d", h.BaseXP, h.BaseCoins)
	}
	if h.Type != domain.HabitBinary || h.Polarity != domain.PolarityPositive {
		t.Errorf("type/polarity = %s/%s", h.Type, h.Polarity)
	}
}

func TestNew_Validation(t *testing.T) {
	bad := 1.5
	tests := []domain.HabitInput{
		{Title: "  "},
		{Title: "x", Type: "weird"},
		{Title: "x", StreakDecayRate: &bad},
	}
	for _, in := range tests {
		if _, err := New(in, "id", time.Now()); !errors.Is(err, domain.ErrInvalidInput) {
			t.Errorf("New(%+v) err = %v, want ErrInvalidInput", in, err)
		}
	}
}

func TestComplete_IncrementsOncePerDay(t *testing.T) {
	h := newHabit(t)
	h, r, ok := Complete(h, "2024-01-01", nil)
	if !ok {
		t.Fatal("first completion rejected")
	}
	if h.CurrentStreak != 1 || h.BestStreak != 1 {
		t.Errorf("streak=%d best=%d", h.CurrentStreak, h.BestStreak)
	}
	// momentum 1.05 → xp round(15*1.05*1)=16, coins round(5*1.05)=5
	if r.XP != 16 || r.Coins != 5 {
		t.Errorf("reward = %+v, want {16 5}", r)
	}

	h2, r2, ok := Complete(h, "2024-01-01", nil)
	if ok || !r2.IsZero() || h2.CurrentStreak != 1 {
		t.Errorf("second same-day completion changed state: ok=%v r=%+v streak=%d", ok, r2, h2.CurrentStreak)
	}
	if len(h2.History) != 1 {
		t.Errorf("history len = %d, want 1", len(h2.History))
	}
}

func TestMomentum_Capped(t *testing.T) {
	if m := Momentum(20, 0.05); m != 2 {
		t.Errorf("Momentum(20, 0.05) = %f, want 2", m)
	}
	if m := Momentum(100, 0.05); m != 2 {
		t.Errorf("Momentum(100, 0.05) = %f, want 2", m)
	}
}

func TestComplete_DifficultyScalesEverySeventh(t *testing.T) {
	h := newHabit(t)
	day := domain.Date("2024-01-01")
	for i := 0; i < 7; i++ {
		h, _, _ = Complete(h, day.AddDays(i), nil)
	}
	if h.DifficultyLevel < 1.099 || h.DifficultyLevel > 1.101 {
		t.Errorf("difficulty after 7 days = %f, want 1.1", h.DifficultyLevel)
	}
	h.DifficultyLevel = 4.95
	h.CurrentStreak = 13
	h, _, _ = Complete(h, day.AddDays(7), nil)
	if h.DifficultyLevel != domain.MaxHabitDifficulty {
		t.Errorf("difficulty = %f, want capped at 5", h.DifficultyLevel)
	}
}

func TestMiss_Decay(t *testing.T) {
	h := newHabit(t)
	h.CurrentStreak = 10
	h.MomentumMultiplier = 1.5
	h, ok := Miss(h, "2024-01-10")
	if !ok {
		t.Fatal("miss rejected")
	}
	if h.CurrentStreak != 8 {
		t.Errorf("streak = %d, want 8", h.CurrentStreak)
	}
	if h.MomentumMultiplier < 1.399 || h.MomentumMultiplier > 1.401 {
		t.Errorf("momentum = %f, want 1.4", h.MomentumMultiplier)
	}
	if _, ok := Miss(h, "2024-01-10"); ok {
		t.Error("second miss on same day accepted")
	}
}

func TestDecay_ZeroIsFixedPoint(t *testing.T) {
	if Decay(0, 0.5) != 0 {
		t.Error("Decay(0) != 0")
	}
	if Decay(1, 1) != 0 {
		t.Error("full decay should reach 0")
	}
}

func TestReconcileGap_Compounds(t *testing.T) {
	h := newHabit(t)
	h.CurrentStreak = 10
	h.LastCompletedDate = "2024-01-01"
	// tolerance 1 → gap of 5 days is 3 misses: 10 → 8 → 6 → 4
	got, out := ReconcileGap(h, "2024-01-06")
	if out.Missed != 3 {
		t.Fatalf("missed = %d, want 3", out.Missed)
	}
	if got.CurrentStreak != 4 {
		t.Errorf("streak = %d, want 4", got.CurrentStreak)
	}
	if got.TotalMisses != 3 {
		t.Errorf("total misses = %d, want 3", got.TotalMisses)
	}
}

func TestReconcileGap_Idempotent(t *testing.T) {
	h := newHabit(t)
	h.CurrentStreak = 10
	h.LastCompletedDate = "2024-01-01"

	once, _ := ReconcileGap(h, "2024-01-06")
	twice, out := ReconcileGap(once, "2024-01-06")
	if out.Missed != 0 || twice.CurrentStreak != once.CurrentStreak || twice.TotalMisses != once.TotalMisses {
		t.Errorf("second reconcile changed state: %+v", out)
	}
}

func TestReconcileGap_DailyEqualsOneShot(t *testing.T) {
	h := newHabit(t)
	h.CurrentStreak = 20
	h.MomentumMultiplier = 1.8
	h.LastCompletedDate = "2024-01-01"

	oneShot, _ := ReconcileGap(h, "2024-01-09")

	daily := h
	for d := domain.Date("2024-01-02"); !d.After("2024-01-09"); d = d.AddDays(1) {
		daily, _ = ReconcileGap(daily, d)
	}
	if daily.CurrentStreak != oneShot.CurrentStreak || daily.TotalMisses != oneShot.TotalMisses {
		t.Errorf("daily %d/%d != one-shot %d/%d",
			daily.CurrentStreak, daily.TotalMisses, oneShot.CurrentStreak, oneShot.TotalMisses)
	}
}

func TestReconcileGap_WithinTolerance(t *testing.T) {
	h := newHabit(t)
	h.CurrentStreak = 5
	h.LastCompletedDate = "2024-01-01"
	got, out := ReconcileGap(h, "2024-01-03")
	if out.Missed != 0 || got.CurrentStreak != 5 {
		t.Errorf("within tolerance decayed: %+v streak=%d", out, got.CurrentStreak)
	}
}

func TestReconcileGapGuarded_Shields(t *testing.T) {
	h := newHabit(t)
	h.CurrentStreak = 10
	h.LastCompletedDate = "2024-01-01"
	got, out := ReconcileGapGuarded(h, "2024-01-06", Guard{Shields: 2})
	if out.Absorbed != 2 || out.Missed != 1 {
		t.Fatalf("outcome = %+v, want absorbed 2 missed 1", out)
	}
	if got.CurrentStreak != 8 {
		t.Errorf("streak = %d, want 8", got.CurrentStreak)
	}
}

func TestStats(t *testing.T) {
	h := newHabit(t)
	h.Type = domain.HabitScaled
	v1, v2 := 10.0, 20.0
	h, _, _ = Complete(h, "2024-01-01", &v1) // Monday
	h, _, _ = Complete(h, "2024-01-02", &v2)
	h, _ = Miss(h, "2024-01-07") // Sunday
	h, _ = Miss(h, "2024-01-03") // Wednesday
	h, _ = Miss(h, "2024-01-10") // Wednesday

	st := Stats(h)
	if st.SuccessRate != 40 {
		t.Errorf("success rate = %f, want 40", st.SuccessRate)
	}
	if st.AverageValue == nil || *st.AverageValue != 15 {
		t.Errorf("average value = %v, want 15", st.AverageValue)
	}
	if st.WeakestDay != int(time.Wednesday) {
		t.Errorf("weakest day = %d, want Wednesday", st.WeakestDay)
	}
}
