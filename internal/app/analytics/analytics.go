// Package analytics keeps per-day activity stats and builds weekly reports
// from them.
package analytics

import (
	"fmt"
	"math"
	"time"

	"github.com/questforge/questforge/internal/domain"
)

// Report thresholds.
const (
	InsightTasks         = 20
	InsightFocusMinutes  = 300
	LowHabitRate         = 0.7
	LowFocusMinutes      = 120
	ElevatedBurnoutLevel = 50
	DefaultTrendDays     = 7
	EnergyBalanceDays    = 7
)

// Score returns the day's productivity score:
// min(100, round(10*tasks + 0.5*focus + 15*habits - 5*missed)).
func Score(s domain.DailyStats) int {
	v := 10*float64(s.TasksCompleted) +
		0.5*float64(s.FocusMinutes) +
		15*float64(s.HabitsCompleted) -
		5*float64(s.HabitsMissed)
	return int(math.Min(100, math.Round(v)))
}

// Record adds the counters of delta to today's entry, creating it when
// missing, rescores it and trims history to DailyStatsRetention days.
func Record(daily []domain.DailyStats, today domain.Date, delta domain.DailyStats) []domain.DailyStats {
	out := append([]domain.DailyStats(nil), daily...)
	idx := -1
	for i := range out {
		if out[i].Date == today {
			idx = i
			break
		}
	}
	if idx < 0 {
		out = append(out, domain.DailyStats{Date: today})
		idx = len(out) - 1
	}

	s := out[idx]
	s.TasksCompleted += delta.TasksCompleted
	s.TasksCreated += delta.TasksCreated
	s.XPEarned += delta.XPEarned
	s.CoinsEarned += delta.CoinsEarned
	s.FocusMinutes += delta.FocusMinutes
	s.HabitsCompleted += delta.HabitsCompleted
	s.HabitsMissed += delta.HabitsMissed
	if len(delta.EnergyDistribution) > 0 {
		dist := make(map[domain.EnergyType]int, 3)
		for k, v := range s.EnergyDistribution {
			dist[k] = v
		}
		for k, v := range delta.EnergyDistribution {
			dist[k] += v
		}
		s.EnergyDistribution = dist
	}
	s.ProductivityScore = Score(s)
	out[idx] = s

	if n := len(out); n > domain.DailyStatsRetention {
		out = out[n-domain.DailyStatsRetention:]
	}
	return out
}

// Today returns the entry for today, or an empty one.
func Today(daily []domain.DailyStats, today domain.Date) domain.DailyStats {
	for i := len(daily) - 1; i >= 0; i-- {
		if daily[i].Date == today {
			return daily[i]
		}
	}
	return domain.DailyStats{Date: today}
}

// TrendPoint is one day's score.
type TrendPoint struct {
	Date  domain.Date `json:"date"`
	Score int         `json:"score"`
}

// Trend returns the scores of the last days days, oldest first.
func Trend(daily []domain.DailyStats, today domain.Date, days int) []TrendPoint {
	if days <= 0 {
		days = DefaultTrendDays
	}
	from := today.AddDays(-days)
	var out []TrendPoint
	for _, s := range daily {
		if !s.Date.Before(from) && !s.Date.After(today) {
			out = append(out, TrendPoint{Date: s.Date, Score: s.ProductivityScore})
		}
	}
	if len(out) > days {
		out = out[len(out)-days:]
	}
	return out
}

// EnergyBalance sums the energy distribution of the last seven entries.
func EnergyBalance(daily []domain.DailyStats) map[domain.EnergyType]int {
	out := map[domain.EnergyType]int{
		domain.EnergyMental:   0,
		domain.EnergyPhysical: 0,
		domain.EnergyCreative: 0,
	}
	start := max(0, len(daily)-EnergyBalanceDays)
	for _, s := range daily[start:] {
		for k, v := range s.EnergyDistribution {
			out[k] += v
		}
	}
	return out
}

// WeekStart returns the Sunday on or before d.
func WeekStart(d domain.Date) domain.Date {
	return d.AddDays(-int(d.Weekday()))
}

// WeekInput is everything a weekly report reads besides daily stats.
type WeekInput struct {
	Sessions     []domain.FocusSession
	Tasks        []domain.Task
	BurnoutLevel int
}

// WeeklyReport aggregates the current Sunday-started week up to today.
func WeeklyReport(daily []domain.DailyStats, in WeekInput, today domain.Date, now time.Time) domain.WeeklyReport {
	start := WeekStart(today)
	r := domain.WeeklyReport{
		WeekStart:       start,
		WeekEnd:         today,
		Insights:        []string{},
		Recommendations: []string{},
		GeneratedAt:     now,
	}

	var habits, missed int
	var dayScores [7]int
	for _, s := range daily {
		if s.Date.Before(start) || s.Date.After(today) {
			continue
		}
		r.CompletedTasks += s.TasksCompleted
		r.TotalXP += s.XPEarned
		r.TotalCoins += s.CoinsEarned
		r.TotalFocusMinutes += s.FocusMinutes
		habits += s.HabitsCompleted
		missed += s.HabitsMissed
		dayScores[s.Date.Weekday()] += s.ProductivityScore
	}

	for _, t := range in.Tasks {
		if t.Status != domain.TaskMissed || t.HardDeadline == nil {
			continue
		}
		d := domain.DateOf(*t.HardDeadline)
		if !d.Before(start) && !d.After(today) {
			r.MissedTasks++
		}
	}
	r.TotalTasks = r.CompletedTasks + r.MissedTasks

	for i := 1; i < len(dayScores); i++ {
		if dayScores[i] > dayScores[r.MostProductiveDay] {
			r.MostProductiveDay = i
		}
	}

	var qualitySum float64
	var sessions int
	for _, s := range in.Sessions {
		if s.EndedAt == nil {
			continue
		}
		d := domain.DateOf(*s.EndedAt)
		if d.Before(start) || d.After(today) {
			continue
		}
		qualitySum += s.Quality
		sessions++
	}
	if sessions > 0 {
		r.AverageFocusQuality = math.Round(qualitySum / float64(sessions))
	}

	var rate float64
	if habits+missed > 0 {
		rate = float64(habits) / float64(habits+missed)
	}
	r.HabitSuccessRate = rate * 100

	if r.CompletedTasks > InsightTasks {
		r.Insights = append(r.Insights, fmt.Sprintf("Great week! Completed %d tasks.", r.CompletedTasks))
	}
	if r.TotalFocusMinutes > InsightFocusMinutes {
		hours := int(math.Round(float64(r.TotalFocusMinutes) / 60))
		r.Insights = append(r.Insights, fmt.Sprintf("Strong focus: %d hours of deep work.", hours))
	}
	if habits > 0 && missed == 0 {
		r.Insights = append(r.Insights, "Perfect habit completion!")
	}

	if habits+missed > 0 && rate < LowHabitRate {
		r.Recommendations = append(r.Recommendations, "Focus on habit consistency - aim for 70%+ completion")
	}
	if r.TotalFocusMinutes < LowFocusMinutes {
		r.Recommendations = append(r.Recommendations, "Try adding more focus sessions to boost productivity")
	}
	if in.BurnoutLevel > ElevatedBurnoutLevel {
		r.Recommendations = append(r.Recommendations, "Your burnout indicator is elevated - consider more rest")
	}
	return r
}
