package achievement

import (
	"testing"
	"time"

	"github.com/questforge/questforge/internal/domain"
)

func TestCatalog_UniqueIDs(t *testing.T) {
	seen := map[string]bool{}
	for _, d := range Catalog() {
		if seen[d.ID] {
			t.Errorf("duplicate id %s", d.ID)
		}
		seen[d.ID] = true
		if d.Requirement <= 0 {
			t.Errorf("%s has requirement %d", d.ID, d.Requirement)
		}
	}
	if len(seen) != 22 {
		t.Errorf("catalog has %d achievements, want 22", len(seen))
	}
	if d, ok := Lookup("legendary_1"); !ok || d.Name != "Dragon Slayer" {
		t.Errorf("Lookup(legendary_1) = %+v", d)
	}
}

func TestEvaluate(t *testing.T) {
	stats := domain.PlayerStats{QuestsCompleted: 10, TotalXP: 600, Streak: 3}
	got := Evaluate(stats, nil)
	ids := map[string]bool{}
	for _, d := range got {
		ids[d.ID] = true
	}
	for _, want := range []string{"first_quest", "quest_10", "xp_500", "streak_3"} {
		if !ids[want] {
			t.Errorf("missing %s in %v", want, ids)
		}
	}
	if ids["quest_50"] || ids["streak_7"] {
		t.Errorf("unexpected unlocks: %v", ids)
	}
	if len(got) != 4 {
		t.Errorf("unlocked %d, want 4", len(got))
	}

	again := Evaluate(stats, ids)
	if len(again) != 0 {
		t.Errorf("re-evaluation unlocked %d more", len(again))
	}
}

func TestReward(t *testing.T) {
	first, _ := Lookup("first_quest")
	xp, _ := Lookup("xp_500")
	r := Reward([]domain.AchievementDef{first, xp})
	if r.XP != 10 || r.Coins != 30 {
		t.Errorf("reward = %+v, want 10/30", r)
	}
}

func TestViews(t *testing.T) {
	at := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	vs := Views(domain.PlayerStats{QuestsCompleted: 7}, []domain.UnlockedAchievement{{ID: "first_quest", UnlockedAt: at}})
	byID := map[string]domain.AchievementView{}
	for _, v := range vs {
		byID[v.ID] = v
	}
	if v := byID["first_quest"]; !v.Unlocked || v.UnlockedAt == nil || !v.UnlockedAt.Equal(at) {
		t.Errorf("first_quest view = %+v", v)
	}
	if v := byID["quest_10"]; v.Unlocked || v.Progress != 7 {
		t.Errorf("quest_10 view = %+v", v)
	}
}
