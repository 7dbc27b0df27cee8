package test_utils

import (
	"testing"
	"time"

	"github.com/kalendo/kalendo/pkg/event"
)

// MustLocation loads an IANA timezone, failing the test on error.
func MustLocation(t *testing.T, name string) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation(name)
	if err != nil {
		t.Fatalf("Failed to load location %s: %v", name, err)
	}
	return loc
}

// MustDateTime parses a 2006-01-02T15:04 wall-clock time in loc,
// failing the test on error.
func MustDateTime(t *testing.T, value string, loc *time.Location) time.Time {
	t.Helper()
	parsed, err := event.ParseLocalDateTime(value, loc)
	if err != nil {
		t.Fatalf("Failed to parse date-time %s: %v", value, err)
	}
	return parsed
}

// MustDate parses a 2006-01-02 date at midnight in loc, failing the
// test on error.
func MustDate(t *testing.T, value string, loc *time.Location) time.Time {
	t.Helper()
	parsed, err := event.ParseLocalDate(value, loc)
	if err != nil {
		t.Fatalf("Failed to parse date %s: %v", value, err)
	}
	return parsed
}
