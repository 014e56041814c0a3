// Package focus runs timed focus sessions with breaks, a distraction log and
// a quality score that scales the session reward.
package focus

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/questforge/questforge/internal/domain"
)

const (
	// XPPerMinute and CoinsPerMinute are scaled by quality/100.
	XPPerMinute    = 2.0
	CoinsPerMinute = 0.5

	// Each distraction costs 2 quality points per minute, at most 20.
	DistractionCostPerMinute = 2.0
	MaxDistractionCost       = 20.0

	StartQuality = 100.0
	HistoryLimit = 1000
)

// Start opens a new session. Only one session may be active.
func Start(fs domain.FocusState, id string, typ domain.FocusType, planned int, taskID string, now time.Time) (domain.FocusState, domain.FocusSession, error) {
	if fs.Active != nil {
		return fs, domain.FocusSession{}, domain.ErrSessionActive
	}
	if !typ.IsValid() {
		return fs, domain.FocusSession{}, fmt.Errorf("%w: focus type %q", domain.ErrInvalidInput, typ)
	}
	if planned <= 0 {
		return fs, domain.FocusSession{}, fmt.Errorf("%w: planned minutes must be positive", domain.ErrInvalidInput)
	}
	s := domain.FocusSession{
		ID:             id,
		Type:           typ,
		TaskID:         taskID,
		PlannedMinutes: planned,
		StartedAt:      now,
		Breaks:         []domain.BreakInterval{},
		Distractions:   []domain.Distraction{},
		Quality:        StartQuality,
	}
	fs.Active = &s
	return fs, s, nil
}

// active returns a private copy of the active session so callers never
// mutate the input state.
func active(fs domain.FocusState) (*domain.FocusSession, error) {
	if fs.Active == nil {
		return nil, domain.ErrNoActiveSession
	}
	s := *fs.Active
	s.Breaks = append([]domain.BreakInterval(nil), fs.Active.Breaks...)
	s.Distractions = append([]domain.Distraction(nil), fs.Active.Distractions...)
	return &s, nil
}

// StartBreak opens a break.
func StartBreak(fs domain.FocusState, now time.Time) (domain.FocusState, error) {
	s, err := active(fs)
	if err != nil {
		return fs, err
	}
	if s.OnBreak() {
		return fs, domain.ErrBreakActive
	}
	s.Breaks = append(s.Breaks, domain.BreakInterval{Start: now})
	fs.Active = s
	return fs, nil
}

// EndBreak closes the open break.
func EndBreak(fs domain.FocusState, now time.Time) (domain.FocusState, error) {
	s, err := active(fs)
	if err != nil {
		return fs, err
	}
	if !s.OnBreak() {
		return fs, domain.ErrNoActiveBreak
	}
	end := now
	s.Breaks[len(s.Breaks)-1].End = &end
	fs.Active = s
	return fs, nil
}

// LogDistraction records an interruption and lowers quality by
// min(2*minutes, 20), floored at 0.
func LogDistraction(fs domain.FocusState, desc string, minutes float64, now time.Time) (domain.FocusState, error) {
	s, err := active(fs)
	if err != nil {
		return fs, err
	}
	if minutes < 0 {
		return fs, fmt.Errorf("%w: distraction minutes must not be negative", domain.ErrInvalidInput)
	}
	s.Distractions = append(s.Distractions, domain.Distraction{
		Timestamp:       now,
		Description:     strings.TrimSpace(desc),
		DurationMinutes: minutes,
	})
	cost := math.Min(minutes*DistractionCostPerMinute, MaxDistractionCost)
	s.Quality = math.Max(0, s.Quality-cost)
	fs.Active = s
	return fs, nil
}

// EffectiveMinutes is round(elapsed) minus the rounded length of each break,
// floored at 0. An open break counts up to now.
func EffectiveMinutes(s domain.FocusSession, now time.Time) int {
	elapsed := int(math.Round(now.Sub(s.StartedAt).Minutes()))
	breaks := 0
	for _, b := range s.Breaks {
		end := now
		if b.End != nil {
			end = *b.End
		}
		breaks += int(math.Round(end.Sub(b.Start).Minutes()))
	}
	if eff := elapsed - breaks; eff > 0 {
		return eff
	}
	return 0
}

// Reward returns the XP and coins for effective minutes at a quality.
func Reward(effective int, quality float64) domain.Reward {
	q := quality / 100
	return domain.Reward{
		XP:    int64(math.Round(float64(effective) * XPPerMinute * q)),
		Coins: int64(math.Round(float64(effective) * CoinsPerMinute * q)),
	}
}

// End finalizes the active session, closing any open break, and advances
// the focus streak.
func End(fs domain.FocusState, now time.Time, today domain.Date) (domain.FocusState, domain.FocusSession, error) {
	s, err := active(fs)
	if err != nil {
		return fs, domain.FocusSession{}, err
	}
	if s.OnBreak() {
		end := now
		s.Breaks[len(s.Breaks)-1].End = &end
	}
	eff := EffectiveMinutes(*s, now)
	r := Reward(eff, s.Quality)
	ended := now
	s.ActualMinutes = eff
	s.EndedAt = &ended
	s.XPEarned = r.XP
	s.CoinsEarned = r.Coins

	next := domain.FocusState{
		History: append(append([]domain.FocusSession(nil), fs.History...), *s),
		Streak:  advance(ReconcileStreak(fs.Streak, today), *s, today),
	}
	if over := len(next.History) - HistoryLimit; over > 0 {
		next.History = next.History[over:]
	}
	return next, *s, nil
}

func advance(st domain.FocusStreak, s domain.FocusSession, today domain.Date) domain.FocusStreak {
	if st.LastSessionDate != today {
		st.Current++
		if st.Current > st.Best {
			st.Best = st.Current
		}
		st.LastSessionDate = today
	}
	st.TodayMinutes += s.ActualMinutes
	st.AverageQuality = math.Round((st.AverageQuality*float64(st.SessionCount) + s.Quality) / float64(st.SessionCount+1))
	st.SessionCount++
	return st
}

// Cancel discards the active session without touching anything else.
func Cancel(fs domain.FocusState) (domain.FocusState, error) {
	if fs.Active == nil {
		return fs, domain.ErrNoActiveSession
	}
	fs.Active = nil
	return fs, nil
}

// ReconcileStreak resets the streak when more than one day has passed since
// the last session and rolls today's minutes over. It is idempotent.
func ReconcileStreak(st domain.FocusStreak, today domain.Date) domain.FocusStreak {
	if !st.LastSessionDate.IsZero() && domain.DaysBetween(st.LastSessionDate, today) > 1 {
		st.Current = 0
	}
	if st.TodayDate != today {
		st.TodayDate = today
		st.TodayMinutes = 0
	}
	return st
}
