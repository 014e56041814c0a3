package analytics

import (
	"fmt"
	"testing"
	"time"

	"github.com/questforge/questforge/internal/domain"
)

var now = time.Date(2024, 1, 17, 18, 0, 0, 0, time.UTC)

func TestScore(t *testing.T) {
	tests := []struct {
		name string
		s    domain.DailyStats
		want int
	}{
		{"empty", domain.DailyStats{}, 0},
		{"mixed", domain.DailyStats{TasksCompleted: 2, FocusMinutes: 45, HabitsCompleted: 1, HabitsMissed: 1}, 53},
		{"capped", domain.DailyStats{TasksCompleted: 20}, 100},
		{"negative", domain.DailyStats{HabitsMissed: 3}, -15},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Score(tt.s); got != tt.want {
				t.Errorf("Score = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestRecord_Upserts(t *testing.T) {
	var daily []domain.DailyStats
	day := domain.Date("2024-01-15")
	daily = Record(daily, day, domain.DailyStats{TasksCompleted: 1, XPEarned: 30,
		EnergyDistribution: map[domain.EnergyType]int{domain.EnergyMental: 1}})
	daily = Record(daily, day, domain.DailyStats{TasksCompleted: 1, FocusMinutes: 20,
		EnergyDistribution: map[domain.EnergyType]int{domain.EnergyMental: 1}})

	if len(daily) != 1 {
		t.Fatalf("entries = %d, want 1", len(daily))
	}
	s := daily[0]
	if s.TasksCompleted != 2 || s.XPEarned != 30 || s.FocusMinutes != 20 {
		t.Errorf("stats = %+v", s)
	}
	if s.EnergyDistribution[domain.EnergyMental] != 2 {
		t.Errorf("energy = %v", s.EnergyDistribution)
	}
	if s.ProductivityScore != 30 {
		t.Errorf("score = %d, want 30", s.ProductivityScore)
	}
}

func TestRecord_Retention(t *testing.T) {
	start := domain.Date("2023-01-01")
	var daily []domain.DailyStats
	for i := 0; i < domain.DailyStatsRetention+5; i++ {
		daily = Record(daily, start.AddDays(i), domain.DailyStats{TasksCompleted: 1})
	}
	if len(daily) != domain.DailyStatsRetention {
		t.Fatalf("kept %d days, want %d", len(daily), domain.DailyStatsRetention)
	}
	if daily[0].Date != start.AddDays(5) {
		t.Errorf("oldest = %s, want %s", daily[0].Date, start.AddDays(5))
	}
}

func TestWeekStart(t *testing.T) {
	tests := map[domain.Date]domain.Date{
		"2024-01-14": "2024-01-14",
		"2024-01-15": "2024-01-14",
		"2024-01-20": "2024-01-14",
		"2024-01-21": "2024-01-21",
	}
	for in, want := range tests {
		if got := WeekStart(in); got != want {
			t.Errorf("WeekStart(%s) = %s, want %s", in, got, want)
		}
	}
}

func TestWeeklyReport(t *testing.T) {
	today := domain.Date("2024-01-17")
	var daily []domain.DailyStats
	// Last week's Saturday is excluded.
	daily = Record(daily, "2024-01-13", domain.DailyStats{TasksCompleted: 50})
	daily = Record(daily, "2024-01-15", domain.DailyStats{TasksCompleted: 12, FocusMinutes: 200, HabitsCompleted: 2, XPEarned: 400})
	daily = Record(daily, "2024-01-16", domain.DailyStats{TasksCompleted: 10, FocusMinutes: 150, HabitsCompleted: 1, CoinsEarned: 90})

	end := now.Add(-time.Hour)
	deadline := time.Date(2024, 1, 16, 9, 0, 0, 0, time.UTC)
	in := WeekInput{
		Sessions: []domain.FocusSession{
			{Quality: 90, EndedAt: &end},
			{Quality: 71, EndedAt: &end},
		},
		Tasks:        []domain.Task{{Status: domain.TaskMissed, HardDeadline: &deadline}},
		BurnoutLevel: 55,
	}
	r := WeeklyReport(daily, in, today, now)

	if r.WeekStart != "2024-01-14" || r.WeekEnd != today {
		t.Errorf("week = %s..%s", r.WeekStart, r.WeekEnd)
	}
	if r.CompletedTasks != 22 || r.MissedTasks != 1 || r.TotalTasks != 23 {
		t.Errorf("tasks = %d/%d/%d", r.CompletedTasks, r.MissedTasks, r.TotalTasks)
	}
	if r.TotalXP != 400 || r.TotalCoins != 90 || r.TotalFocusMinutes != 350 {
		t.Errorf("totals = %+v", r)
	}
	if r.HabitSuccessRate != 100 {
		t.Errorf("habit rate = %f", r.HabitSuccessRate)
	}
	if r.AverageFocusQuality != 81 {
		t.Errorf("avg quality = %f, want 81", r.AverageFocusQuality)
	}
	if r.MostProductiveDay != int(time.Monday) {
		t.Errorf("most productive day = %d", r.MostProductiveDay)
	}
	wantInsights := []string{
		"Great week! Completed 22 tasks.",
		fmt.Sprintf("Strong focus: %d hours of deep work.", 6),
		"Perfect habit completion!",
	}
	if len(r.Insights) != len(wantInsights) {
		t.Fatalf("insights = %v", r.Insights)
	}
	for i := range wantInsights {
		if r.Insights[i] != wantInsights[i] {
			t.Errorf("insight[%d] = %q, want %q", i, r.Insights[i], wantInsights[i])
		}
	}
	if len(r.Recommendations) != 1 || r.Recommendations[0] != "Your burnout indicator is elevated - consider more rest" {
		t.Errorf("recommendations = %v", r.Recommendations)
	}
}

func TestWeeklyReport_EmptyWeek(t *testing.T) {
	r := WeeklyReport(nil, WeekInput{}, "2024-01-14", now)
	if len(r.Insights) != 0 {
		t.Errorf("insights = %v", r.Insights)
	}
	if len(r.Recommendations) != 1 || r.Recommendations[0] != "Try adding more focus sessions to boost productivity" {
		t.Errorf("recommendations = %v", r.Recommendations)
	}
	if r.HabitSuccessRate != 0 {
		t.Errorf("habit rate = %f", r.HabitSuccessRate)
	}
}

func TestWeeklyReport_LowHabitRate(t *testing.T) {
	daily := Record(nil, "2024-01-15", domain.DailyStats{HabitsCompleted: 1, HabitsMissed: 2, FocusMinutes: 200})
	r := WeeklyReport(daily, WeekInput{}, "2024-01-15", now)
	if len(r.Recommendations) != 1 || r.Recommendations[0] != "Focus on habit consistency - aim for 70%+ completion" {
		t.Errorf("recommendations = %v", r.Recommendations)
	}
}

func TestTrendAndEnergy(t *testing.T) {
	var daily []domain.DailyStats
	start := domain.Date("2024-01-01")
	for i := 0; i < 10; i++ {
		daily = Record(daily, start.AddDays(i), domain.DailyStats{TasksCompleted: i,
			EnergyDistribution: map[domain.EnergyType]int{domain.EnergyPhysical: 1}})
	}
	tr := Trend(daily, "2024-01-10", 3)
	if len(tr) != 3 || tr[2].Date != "2024-01-10" || tr[2].Score != 90 {
		t.Errorf("trend = %+v", tr)
	}
	bal := EnergyBalance(daily)
	if bal[domain.EnergyPhysical] != 7 || bal[domain.EnergyMental] != 0 {
		t.Errorf("balance = %v", bal)
	}
}
