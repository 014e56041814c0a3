package burnout

import (
	"testing"
	"time"

	"github.com/questforge/questforge/internal/domain"
)

var now = time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)

func contains(ws []string, w string) bool {
	for _, x := range ws {
		if x == w {
			return true
		}
	}
	return false
}

func TestCompute_OverworkOnly(t *testing.T) {
	b := Compute(domain.BurnoutFactors{Overwork: 100}, now)
	if b.Level != 40 {
		t.Errorf("level = %d, want 40", b.Level)
	}
	if !contains(b.Warnings, WarnOverwork) {
		t.Errorf("missing overwork warning: %v", b.Warnings)
	}
	if contains(b.Warnings, WarnHigh) || contains(b.Warnings, WarnCritical) {
		t.Errorf("unexpected high/critical warning: %v", b.Warnings)
	}
	if b.Warnings[0] != WarnModerate {
		t.Errorf("first warning = %q, want moderate level warning", b.Warnings[0])
	}
}

func TestCompute_Bands(t *testing.T) {
	tests := []struct {
		name string
		f    domain.BurnoutFactors
		sev  domain.BurnoutSeverity
	}{
		{"calm", domain.BurnoutFactors{}, domain.SeverityNone},
		{"moderate", domain.BurnoutFactors{Overwork: 50, MissedBreaks: 100}, domain.SeverityModerate},
		{"high", domain.BurnoutFactors{Overwork: 100, MissedBreaks: 50, StreakPressure: 50}, domain.SeverityHigh},
		{"critical", domain.BurnoutFactors{Overwork: 100, MissedBreaks: 100, StreakPressure: 100, DeadlineDensity: 100}, domain.SeverityCritical},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := Compute(tt.f, now)
			if b.Severity != tt.sev {
				t.Errorf("severity = %s (level %d), want %s", b.Severity, b.Level, tt.sev)
			}
		})
	}
}

func TestCompute_OnlyOneLevelWarning(t *testing.T) {
	b := Compute(domain.BurnoutFactors{Overwork: 100, MissedBreaks: 100, StreakPressure: 100, DeadlineDensity: 100}, now)
	want := []string{WarnCritical, WarnOverwork, WarnMissedBreaks, WarnStreakPressure, WarnDeadlineDensity}
	if len(b.Warnings) != len(want) {
		t.Fatalf("warnings = %v, want %v", b.Warnings, want)
	}
	for i := range want {
		if b.Warnings[i] != want[i] {
			t.Errorf("warning[%d] = %q, want %q", i, b.Warnings[i], want[i])
		}
	}
}

func TestCompute_ThresholdsAreStrict(t *testing.T) {
	b := Compute(domain.BurnoutFactors{Overwork: 70, MissedBreaks: 60, StreakPressure: 50, DeadlineDensity: 60}, now)
	for _, w := range []string{WarnOverwork, WarnMissedBreaks, WarnStreakPressure, WarnDeadlineDensity} {
		if contains(b.Warnings, w) {
			t.Errorf("factor at threshold should not warn: %q", w)
		}
	}
}

func TestUpdate_MergesPartial(t *testing.T) {
	b := Compute(domain.BurnoutFactors{Overwork: 50, MissedBreaks: 20}, now)
	v := 80.0
	b = Update(b, domain.BurnoutPatch{StreakPressure: &v}, now)
	if b.Factors.Overwork != 50 || b.Factors.MissedBreaks != 20 || b.Factors.StreakPressure != 80 {
		t.Errorf("factors = %+v", b.Factors)
	}
	// 0.4*50 + 0.2*20 + 0.2*80 = 40
	if b.Level != 40 {
		t.Errorf("level = %d, want 40", b.Level)
	}
}

func TestCompute_ClampsFactors(t *testing.T) {
	b := Compute(domain.BurnoutFactors{Overwork: 500, MissedBreaks: -20}, now)
	if b.Factors.Overwork != 100 || b.Factors.MissedBreaks != 0 {
		t.Errorf("factors not clamped: %+v", b.Factors)
	}
	if b.Level > 100 {
		t.Errorf("level = %d exceeds 100", b.Level)
	}
}

func TestOverworking(t *testing.T) {
	if Overworking(Compute(domain.BurnoutFactors{Overwork: 70}, now)) {
		t.Error("70 should not count as overworking")
	}
	if !Overworking(Compute(domain.BurnoutFactors{Overwork: 71}, now)) {
		t.Error("71 should count as overworking")
	}
}
