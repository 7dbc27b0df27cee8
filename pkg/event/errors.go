package event

import (
	"errors"
	"fmt"
)

// ErrInvalidDate marks malformed or logically inconsistent date/time
// construction: end before start, recurring template spanning more than
// one day, or a recurrence rule with no termination mode.
var ErrInvalidDate = errors.New("invalid date")

// ConflictError is returned when an insertion is declined because the
// new event overlaps an existing one and auto-decline was requested.
type ConflictError struct {
	Subject  string // subject of the rejected event
	Existing string // subject of the event already in the store
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("event %q conflicts with existing event %q", e.Subject, e.Existing)
}
