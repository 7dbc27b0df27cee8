package event

import (
	"fmt"
	"time"
)

const (
	// DateTimeLayout is the wall-clock format used across the service
	// boundary, e.g. "2025-03-03T09:00".
	DateTimeLayout = "2006-01-02T15:04"
	// DateTimeSecondsLayout additionally carries seconds.
	DateTimeSecondsLayout = "2006-01-02T15:04:05"
	// DateLayout is the plain calendar-date format.
	DateLayout = "2006-01-02"
)

// ParseLocalDateTime parses a wall-clock timestamp in the given
// location, accepting the layout with or without seconds.
func ParseLocalDateTime(s string, loc *time.Location) (time.Time, error) {
	if t, err := time.ParseInLocation(DateTimeLayout, s, loc); err == nil {
		return t, nil
	}
	t, err := time.ParseInLocation(DateTimeSecondsLayout, s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: cannot parse %q as a date-time", ErrInvalidDate, s)
	}
	return t, nil
}

// ParseLocalDate parses a calendar date in the given location.
func ParseLocalDate(s string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: cannot parse %q as a date", ErrInvalidDate, s)
	}
	return t, nil
}

// SameDate reports whether two instants fall on the same calendar date,
// each interpreted in its own location.
func SameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// DateAfter compares calendar dates only, ignoring time-of-day.
func DateAfter(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	if ay != by {
		return ay > by
	}
	if am != bm {
		return am > bm
	}
	return ad > bd
}

// DateBefore is the calendar-date counterpart of Before.
func DateBefore(a, b time.Time) bool {
	return DateAfter(b, a)
}
