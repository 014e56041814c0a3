package task

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/questforge/questforge/internal/domain"
)

var t0 = time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC)

func ids() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("s%d", n)
	}
}

func mk(t *testing.T, id string, in domain.TaskInput) domain.Task {
	t.Helper()
	if in.Title == "" {
		in.Title = "quest " + id
	}
	task, err := New(in, id, ids(), t0)
	if err != nil {
		t.Fatalf("New(%s): %v", id, err)
	}
	return task
}

func TestNew_RewardsAndDefaults(t *testing.T) {
	task := mk(t, "t1", domain.TaskInput{Difficulty: domain.DifficultyHard, Rarity: domain.RarityRare, Subtasks: []string{"a", " ", "b"}})
	if task.XPReward != 38 || task.CoinReward != 19 {
		t.Errorf("rewards = %d/%d, want 38/19", task.XPReward, task.CoinReward)
	}
	if task.Status != domain.TaskActive || task.EnergyType != domain.EnergyMental || task.RepeatFrequency != domain.RepeatNone {
		t.Errorf("defaults = %+v", task)
	}
	if len(task.Subtasks) != 2 || task.Subtasks[1].ID != "s2" {
		t.Errorf("subtasks = %+v", task.Subtasks)
	}
}

func TestNew_Validation(t *testing.T) {
	tests := []struct {
		name string
		in   domain.TaskInput
		want error
	}{
		{"empty title", domain.TaskInput{Title: "  "}, domain.ErrInvalidInput},
		{"bad difficulty", domain.TaskInput{Title: "x", Difficulty: "legend"}, domain.ErrInvalidDifficulty},
		{"bad rarity", domain.TaskInput{Title: "x", Rarity: "mythic"}, domain.ErrInvalidRarity},
		{"bad energy", domain.TaskInput{Title: "x", EnergyType: "spiritual"}, domain.ErrInvalidInput},
		{"bad priority", domain.TaskInput{Title: "x", Priority: "meh"}, domain.ErrInvalidInput},
		{"negative estimate", domain.TaskInput{Title: "x", EstimatedMinutes: -5}, domain.ErrInvalidInput},
		{"bad repeat day", domain.TaskInput{Title: "x", RepeatFrequency: domain.RepeatCustom, RepeatDays: []int{7}}, domain.ErrInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(tt.in, "t", ids(), t0); !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestComplete_EfficiencyBonus(t *testing.T) {
	task := mk(t, "t1", domain.TaskInput{EstimatedMinutes: 60})
	task, _ = Start(task, t0)
	task, r, err := Complete(task, t0.Add(30*time.Minute), "2024-01-15")
	if err != nil {
		t.Fatal(err)
	}
	// efficiency 2 → bonus 1.2: xp 12, coins 6
	if r.XP != 12 || r.Coins != 6 {
		t.Errorf("reward = %+v, want 12/6", r)
	}
	if task.Status != domain.TaskCompleted || task.ActualMinutes != 30 || task.Earned != r {
		t.Errorf("task = %+v", task)
	}
	if task.XPReward != 10 {
		t.Errorf("creation reward mutated to %d", task.XPReward)
	}
	if _, _, err := Complete(task, t0, "2024-01-15"); !errors.Is(err, domain.ErrTaskAlreadyCompleted) {
		t.Errorf("second completion err = %v", err)
	}
}

func TestComplete_Repeating(t *testing.T) {
	task := mk(t, "t1", domain.TaskInput{RepeatFrequency: domain.RepeatDaily, Subtasks: []string{"a"}})
	task, _ = CompleteSubtask(task, "s1", t0)
	task, r, err := Complete(task, t0, "2024-01-15")
	if err != nil {
		t.Fatal(err)
	}
	if r.XP != 10 || task.Status != domain.TaskActive || task.Subtasks[0].Completed {
		t.Errorf("repeating completion = %+v", task)
	}
	if _, _, err := Complete(task, t0.Add(time.Hour), "2024-01-15"); !errors.Is(err, domain.ErrTaskAlreadyCompleted) {
		t.Errorf("same-day repeat err = %v", err)
	}
	if _, _, err := Complete(task, t0.Add(24*time.Hour), "2024-01-16"); err != nil {
		t.Errorf("next-day repeat err = %v", err)
	}
}

func TestComplete_NotCompletable(t *testing.T) {
	for _, s := range []domain.TaskStatus{domain.TaskMissed, domain.TaskAbandoned} {
		task := mk(t, "t", domain.TaskInput{})
		task.Status = s
		if _, _, err := Complete(task, t0, "2024-01-15"); !errors.Is(err, domain.ErrTaskNotCompletable) {
			t.Errorf("%s err = %v", s, err)
		}
	}
}

func TestDependencies(t *testing.T) {
	tasks := []domain.Task{mk(t, "a", domain.TaskInput{}), mk(t, "b", domain.TaskInput{}), mk(t, "c", domain.TaskInput{})}

	tasks, err := AddDependency(tasks, "b", "a")
	if err != nil {
		t.Fatal(err)
	}
	if tasks[1].Status != domain.TaskBlocked {
		t.Fatalf("b status = %s, want blocked", tasks[1].Status)
	}
	if _, _, err := Complete(tasks[1], t0, "2024-01-15"); !errors.Is(err, domain.ErrTaskBlocked) {
		t.Errorf("complete blocked err = %v", err)
	}

	tasks, _ = AddDependency(tasks, "c", "b")
	if _, err := AddDependency(tasks, "a", "c"); !errors.Is(err, domain.ErrDependencyCycle) {
		t.Errorf("cycle err = %v", err)
	}
	if _, err := AddDependency(tasks, "a", "a"); !errors.Is(err, domain.ErrSelfDependency) {
		t.Errorf("self err = %v", err)
	}
	again, _ := AddDependency(tasks, "b", "a")
	if len(again[1].Dependencies) != len(tasks[1].Dependencies) {
		t.Error("duplicate dependency added")
	}

	tasks[0], _, _ = Complete(tasks[0], t0, "2024-01-15")
	tasks, unblocked := ResolveDependencies(tasks)
	if len(unblocked) != 1 || unblocked[0] != "b" || tasks[1].Status != domain.TaskActive {
		t.Errorf("unblocked = %v, b = %s", unblocked, tasks[1].Status)
	}
	if tasks[2].Status != domain.TaskBlocked {
		t.Errorf("c unblocked early")
	}
}

func TestRemoveRestore(t *testing.T) {
	tasks := []domain.Task{mk(t, "a", domain.TaskInput{}), mk(t, "b", domain.TaskInput{})}
	tasks, _ = AddDependency(tasks, "b", "a")

	rest, removed, pos, err := Remove(tasks, "a")
	if err != nil || pos != 0 || removed.ID != "a" || len(rest) != 1 {
		t.Fatalf("Remove = %v %d %v", rest, pos, err)
	}
	if len(rest[0].Dependencies) != 0 {
		t.Errorf("dangling links: %+v", rest[0].Dependencies)
	}
	rest, unblocked := ResolveDependencies(rest)
	if len(unblocked) != 1 {
		t.Errorf("deleting a dependency should unblock: %v", unblocked)
	}

	back := Restore(rest, removed, pos)
	if back[0].ID != "a" || len(back[1].BlockedBy()) != 1 || back[1].Status != domain.TaskBlocked {
		t.Errorf("restore = %+v", back)
	}
}

func TestDeadlines(t *testing.T) {
	past := t0.Add(-time.Hour)
	soon := t0.Add(24 * time.Hour)
	later := t0.Add(5 * 24 * time.Hour)
	tasks := []domain.Task{
		mk(t, "late", domain.TaskInput{HardDeadline: &past}),
		mk(t, "soon", domain.TaskInput{HardDeadline: &soon}),
		mk(t, "later", domain.TaskInput{HardDeadline: &later}),
	}
	tasks, missed := CheckDeadlines(tasks, t0)
	if len(missed) != 1 || tasks[0].Status != domain.TaskMissed {
		t.Fatalf("missed = %v", missed)
	}
	if _, again := CheckDeadlines(tasks, t0); len(again) != 0 {
		t.Error("CheckDeadlines not idempotent")
	}
	up := UpcomingDeadlines(tasks, t0, 7)
	if len(up) != 2 || up[0].ID != "soon" {
		t.Errorf("upcoming = %v", up)
	}
	if DeadlineDensity(tasks, t0) != 40 {
		t.Errorf("density = %f, want 40", DeadlineDensity(tasks, t0))
	}
}

func TestExtendDeadline(t *testing.T) {
	past := t0.Add(-time.Hour)
	task := mk(t, "t", domain.TaskInput{HardDeadline: &past})
	task.Status = domain.TaskMissed

	task, err := ExtendDeadline(task, 1, t0)
	if err != nil {
		t.Fatal(err)
	}
	if task.Status != domain.TaskActive || task.DeadlineExtensions != 1 {
		t.Errorf("after extension: %s %d", task.Status, task.DeadlineExtensions)
	}
	task, _ = ExtendDeadline(task, 1, t0)
	if _, err := ExtendDeadline(task, 1, t0); !errors.Is(err, domain.ErrExtensionLimit) {
		t.Errorf("third extension err = %v", err)
	}
	if _, err := ExtendDeadline(mk(t, "n", domain.TaskInput{}), 1, t0); !errors.Is(err, domain.ErrNoHardDeadline) {
		t.Errorf("no deadline err = %v", err)
	}
}

func TestSetStatus(t *testing.T) {
	tasks := []domain.Task{mk(t, "t", domain.TaskInput{})}
	tasks, got, err := SetStatus(tasks, "t", domain.TaskPostponed)
	if err != nil || got.Status != domain.TaskPostponed || tasks[0].Status != domain.TaskPostponed {
		t.Errorf("postpone = %s %v", got.Status, err)
	}
	if _, _, err := SetStatus(tasks, "t", domain.TaskCompleted); !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("manual complete err = %v", err)
	}
	if _, _, err := SetStatus(tasks, "nope", domain.TaskActive); !errors.Is(err, domain.ErrTaskNotFound) {
		t.Errorf("unknown task err = %v", err)
	}
}

func TestSetStatus_Waiting(t *testing.T) {
	tasks := []domain.Task{mk(t, "a", domain.TaskInput{}), mk(t, "b", domain.TaskInput{})}
	tasks, _ = AddDependency(tasks, "b", "a")

	for _, s := range []domain.TaskStatus{domain.TaskActive, domain.TaskPostponed} {
		if _, _, err := SetStatus(tasks, "b", s); !errors.Is(err, domain.ErrTaskBlocked) {
			t.Errorf("%s while waiting err = %v", s, err)
		}
	}

	// A stale active status is still rejected while the dependency is open.
	tasks[1].Status = domain.TaskPostponed
	if _, _, err := SetStatus(tasks, "b", domain.TaskActive); !errors.Is(err, domain.ErrTaskBlocked) {
		t.Errorf("postponed -> active while waiting err = %v", err)
	}

	tasks, got, err := SetStatus(tasks, "b", domain.TaskAbandoned)
	if err != nil || got.Status != domain.TaskAbandoned {
		t.Errorf("abandon while waiting = %s %v", got.Status, err)
	}
	if tasks[0].Status != domain.TaskActive {
		t.Errorf("dependency status changed: %s", tasks[0].Status)
	}
}

func TestRefreshBlocking(t *testing.T) {
	tasks := []domain.Task{mk(t, "a", domain.TaskInput{}), mk(t, "b", domain.TaskInput{}), mk(t, "c", domain.TaskInput{})}
	tasks, _ = AddDependency(tasks, "b", "a")
	tasks[0], _, _ = Complete(tasks[0], t0, "2024-01-15")
	tasks, _ = ResolveDependencies(tasks)
	if tasks[1].Status != domain.TaskActive {
		t.Fatalf("b status = %s, want active", tasks[1].Status)
	}

	// Reopening a blocks b again.
	tasks[0].Status = domain.TaskActive
	tasks[0].CompletedAt = nil
	tasks, blocked := RefreshBlocking(tasks)
	if len(blocked) != 1 || blocked[0] != "b" || tasks[1].Status != domain.TaskBlocked {
		t.Errorf("blocked = %v, b = %s", blocked, tasks[1].Status)
	}
	if tasks[2].Status != domain.TaskActive {
		t.Errorf("c status = %s, want active", tasks[2].Status)
	}
	if got := Waiting(tasks, tasks[1]); len(got) != 1 || got[0] != "a" {
		t.Errorf("Waiting(b) = %v", got)
	}

	again, none := RefreshBlocking(tasks)
	if none != nil || &again[0] != &tasks[0] {
		t.Error("second pass changed something")
	}

	tasks[0], _, _ = Complete(tasks[0], t0, "2024-01-15")
	tasks, blocked, unblocked := Relink(tasks)
	if len(blocked) != 0 || len(unblocked) != 1 || tasks[1].Status != domain.TaskActive {
		t.Errorf("relink blocked=%v unblocked=%v b=%s", blocked, unblocked, tasks[1].Status)
	}
}

func TestSuggest(t *testing.T) {
	soon := t0.Add(10 * time.Hour)
	tasks := []domain.Task{
		mk(t, "q1", domain.TaskInput{EstimatedMinutes: 10}),
		mk(t, "q2", domain.TaskInput{EstimatedMinutes: 15, EnergyType: domain.EnergyCreative}),
		mk(t, "q3", domain.TaskInput{EstimatedMinutes: 5}),
		mk(t, "c1", domain.TaskInput{EnergyType: domain.EnergyCreative}),
		mk(t, "c2", domain.TaskInput{EnergyType: domain.EnergyCreative}),
		mk(t, "u1", domain.TaskInput{HardDeadline: &soon}),
		mk(t, "u2", domain.TaskInput{HardDeadline: &soon}),
	}
	got := Suggest(tasks, domain.EnergyCreative, t0)
	want := []struct {
		id  string
		pri int
	}{{"u1", 90}, {"u2", 85}, {"q1", 80}, {"q2", 70}, {"q2", 70}}
	if len(got) != len(want) {
		t.Fatalf("got %d suggestions, want %d: %+v", len(got), len(want), got)
	}
	for i, w := range want {
		if got[i].TaskID != w.id || got[i].Priority != w.pri {
			t.Errorf("suggestion %d = %s/%d, want %s/%d", i, got[i].TaskID, got[i].Priority, w.id, w.pri)
		}
	}
	if got[3].Category != domain.SuggestQuickWin || got[4].Category != domain.SuggestEnergyMatch {
		t.Errorf("stable order broken: %+v", got[3:])
	}
}
