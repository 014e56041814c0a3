package domain

import (
	"errors"
	"testing"
	"time"
)

// ─── Enum Tests ─────────────────────────────────────────────────────────────

func TestDifficulty_Tier(t *testing.T) {
	for i, d := range Difficulties {
		if got := d.Tier(); got != i+1 {
			t.Errorf("%s.Tier() = %d, want %d", d, got, i+1)
		}
	}
	if Difficulty("legendary").IsValid() {
		t.Error("rarity name accepted as difficulty")
	}
}

func TestParseDifficulty_Invalid(t *testing.T) {
	_, err := ParseDifficulty("impossible")
	if !errors.Is(err, ErrInvalidDifficulty) {
		t.Fatalf("err = %v, want ErrInvalidDifficulty", err)
	}
}

func TestParseRarity(t *testing.T) {
	r, err := ParseRarity("rare")
	if err != nil || r != RarityRare {
		t.Fatalf("ParseRarity(rare) = %q, %v", r, err)
	}
	if _, err := ParseRarity("epic"); !errors.Is(err, ErrInvalidRarity) {
		t.Errorf("err = %v, want ErrInvalidRarity", err)
	}
}

func TestTaskStatus_Constants(t *testing.T) {
	statuses := []TaskStatus{
		TaskActive, TaskCompleted, TaskMissed,
		TaskAbandoned, TaskPostponed, TaskBlocked,
	}
	seen := make(map[TaskStatus]bool)
	for _, s := range statuses {
		if seen[s] {
			t.Errorf("duplicate TaskStatus: %s", s)
		}
		if !s.IsValid() {
			t.Errorf("%s should be valid", s)
		}
		seen[s] = true
	}
	if len(seen) != 6 {
		t.Errorf("expected 6 unique TaskStatus, got %d", len(seen))
	}
}

func TestTask_IsTerminal(t *testing.T) {
	tests := []struct {
		status   TaskStatus
		terminal bool
	}{
		{TaskActive, false},
		{TaskBlocked, false},
		{TaskPostponed, false},
		{TaskCompleted, true},
		{TaskMissed, true},
		{TaskAbandoned, true},
	}
	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			task := Task{Status: tt.status}
			if got := task.IsTerminal(); got != tt.terminal {
				t.Errorf("IsTerminal() = %v, want %v", got, tt.terminal)
			}
		})
	}
}

func TestTask_BlockedBy(t *testing.T) {
	task := Task{Dependencies: []Dependency{
		{TaskID: "a", Relation: RelationBlockedBy},
		{TaskID: "b", Relation: RelationBlocks},
		{TaskID: "c", Relation: RelationBlockedBy},
	}}
	got := task.BlockedBy()
	if len(got) != 2 || got[0] != "a" || got[1] != "c" {
		t.Errorf("BlockedBy() = %v, want [a c]", got)
	}
}

// ─── Date Tests ─────────────────────────────────────────────────────────────

func TestDate_AddDaysAndBetween(t *testing.T) {
	d := Date("2024-02-28")
	if got := d.AddDays(2); got != "2024-03-01" {
		t.Errorf("AddDays(2) = %s, want 2024-03-01", got)
	}
	if n := DaysBetween("2024-01-01", "2024-01-15"); n != 14 {
		t.Errorf("DaysBetween = %d, want 14", n)
	}
	if n := DaysBetween("", "2024-01-15"); n != 0 {
		t.Errorf("DaysBetween with unset date = %d, want 0", n)
	}
}

func TestDateOf_UsesLocation(t *testing.T) {
	tz := time.FixedZone("UTC+10", 10*3600)
	ts := time.Date(2024, 1, 14, 20, 0, 0, 0, time.UTC)
	if got := DateOf(ts.In(tz)); got != "2024-01-15" {
		t.Errorf("DateOf = %s, want 2024-01-15", got)
	}
}

func TestParseDate_Invalid(t *testing.T) {
	if _, err := ParseDate("15/01/2024"); !errors.Is(err, ErrInvalidDate) {
		t.Errorf("err = %v, want ErrInvalidDate", err)
	}
}

// ─── Misc ───────────────────────────────────────────────────────────────────

func TestLevelInfo_ProgressPct(t *testing.T) {
	li := LevelInfo{Level: 2, CurrentLevelXP: 57, XPForNextLevel: 115}
	if p := li.ProgressPct(); p < 49.5 || p > 49.6 {
		t.Errorf("ProgressPct() = %f, want ~49.57", p)
	}
}

func TestPlayerStats_Value(t *testing.T) {
	s := PlayerStats{QuestsCompleted: 3, TotalXP: 500, Level: 7}
	if s.Value(KindQuestsCompleted) != 3 || s.Value(KindXPEarned) != 500 || s.Value(KindLevel) != 7 {
		t.Errorf("Value lookups mismatch: %+v", s)
	}
	if s.Value("unknown") != 0 {
		t.Error("unknown kind should be 0")
	}
}

func TestUndoAction_Expired(t *testing.T) {
	now := time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)
	a := UndoAction{ExpiresAt: now.Add(30 * time.Second)}
	if a.Expired(now) {
		t.Error("fresh action reported expired")
	}
	if !a.Expired(now.Add(30 * time.Second)) {
		t.Error("action at expiry instant should be expired")
	}
}
