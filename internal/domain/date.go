package domain

import (
	"fmt"
	"time"
)

// DateLayout is the calendar-day format used for every day-keyed field.
const DateLayout = "2006-01-02"

// Date is a calendar day formatted YYYY-MM-DD. The zero value means "never".
// Day-level reconciliation (habit gaps, companion ticks, daily resets) is
// keyed off Date values rather than wall-clock deltas.
type Date string

// DateOf returns the calendar day of t in t's location.
func DateOf(t time.Time) Date {
	return Date(t.Format(DateLayout))
}

// ParseDate validates s and returns it as a Date.
func ParseDate(s string) (Date, error) {
	if _, err := time.Parse(DateLayout, s); err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return Date(s), nil
}

// IsZero reports whether the date is unset.
func (d Date) IsZero() bool { return d == "" }

// String implements fmt.Stringer.
func (d Date) String() string { return string(d) }

// Time returns midnight UTC of the day. Invalid dates yield the zero time.
func (d Date) Time() time.Time {
	t, err := time.Parse(DateLayout, string(d))
	if err != nil {
		return time.Time{}
	}
	return t
}

// AddDays returns the date n days later (or earlier for negative n).
func (d Date) AddDays(n int) Date {
	return DateOf(d.Time().AddDate(0, 0, n))
}

// Weekday returns the day of week (Sunday = 0).
func (d Date) Weekday() time.Weekday {
	return d.Time().Weekday()
}

// Before reports whether d is strictly earlier than o.
// ISO dates order lexically, so string comparison is exact.
func (d Date) Before(o Date) bool { return d < o }

// After reports whether d is strictly later than o.
func (d Date) After(o Date) bool { return d > o }

// DaysBetween returns the whole number of days from `from` to `to`.
// Either date being unset yields 0.
func DaysBetween(from, to Date) int {
	if from.IsZero() || to.IsZero() {
		return 0
	}
	a, b := from.Time(), to.Time()
	if a.IsZero() || b.IsZero() {
		return 0
	}
	return int(b.Sub(a).Hours() / 24)
}
