package event

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Kind discriminates the two event variants. All dispatch happens on
// this tag; there is no runtime type inspection anywhere.
type Kind int

const (
	Single Kind = iota
	Recurring
)

// Recurrence describes how a recurring event repeats. At least one of
// Count or Until must be set; the generator refuses rules with neither.
type Recurrence struct {
	// Days is the non-empty set of weekdays on which occurrences fall.
	Days []time.Weekday
	// Count limits the number of occurrences. The sentinel -1 means the
	// series is not bounded by count.
	Count int
	// Until is the date of the last possible occurrence (time-of-day is
	// ignored). Nil when the series is not bounded by date.
	Until *time.Time
}

// Event is a calendar event template. For Kind == Single, Start and End
// are the concrete interval. For Kind == Recurring, Start carries the
// first scan date and the time-of-day of every occurrence, and End only
// defines the time-of-day span; occurrences are produced on demand.
//
// Times are wall-clock values in the owning calendar's location. The
// event itself carries no timezone semantics beyond that.
type Event struct {
	ID          uuid.UUID
	Kind        Kind
	Subject     string
	Description string
	Location    string
	Public      bool
	AutoDecline bool
	Start       time.Time
	End         time.Time
	Recurrence  *Recurrence // nil unless Kind == Recurring
}

// NewSingle creates a single event. End must not be before Start.
func NewSingle(subject string, start, end time.Time, description, location string, public bool) (*Event, error) {
	if end.Before(start) {
		return nil, fmt.Errorf("%w: end time %s is before start time %s", ErrInvalidDate, end.Format(DateTimeLayout), start.Format(DateTimeLayout))
	}
	return &Event{
		ID:          uuid.New(),
		Kind:        Single,
		Subject:     subject,
		Description: description,
		Location:    location,
		Public:      public,
		Start:       start,
		End:         end,
	}, nil
}

// NewAllDay creates a single event spanning 00:00 to 23:59 of one date.
func NewAllDay(subject string, date time.Time, description, location string, public bool) (*Event, error) {
	y, m, d := date.Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, date.Location())
	end := time.Date(y, m, d, 23, 59, 0, 0, date.Location())
	return NewSingle(subject, start, end, description, location, public)
}

// NewRecurring creates a recurring event template. Start and End must
// fall on the same calendar day, days must be non-empty, and at least
// one termination mode (count >= 1 or a non-nil until date) is required.
func NewRecurring(subject string, start, end time.Time, description, location string, public bool,
	days []time.Weekday, count int, until *time.Time) (*Event, error) {

	if end.Before(start) {
		return nil, fmt.Errorf("%w: end time %s is before start time %s", ErrInvalidDate, end.Format(DateTimeLayout), start.Format(DateTimeLayout))
	}
	if !SameDate(start, end) {
		return nil, fmt.Errorf("%w: recurring event must start and end on the same day", ErrInvalidDate)
	}
	if len(days) == 0 {
		return nil, fmt.Errorf("%w: recurring event requires at least one recurrence day", ErrInvalidDate)
	}
	if count < 1 && until == nil {
		return nil, fmt.Errorf("%w: recurring event requires an occurrence count or an end date", ErrInvalidDate)
	}
	if count < 1 {
		count = -1
	}
	return &Event{
		ID:          uuid.New(),
		Kind:        Recurring,
		Subject:     subject,
		Description: description,
		Location:    location,
		Public:      public,
		Start:       start,
		End:         end,
		Recurrence: &Recurrence{
			Days:  append([]time.Weekday(nil), days...),
			Count: count,
			Until: until,
		},
	}, nil
}

// Duration returns the time-of-day span of one occurrence.
func (e *Event) Duration() time.Duration {
	return e.End.Sub(e.Start)
}

// Clone returns a deep copy, including the recurrence rule.
func (e *Event) Clone() *Event {
	c := *e
	if e.Recurrence != nil {
		r := *e.Recurrence
		r.Days = append([]time.Weekday(nil), e.Recurrence.Days...)
		if e.Recurrence.Until != nil {
			u := *e.Recurrence.Until
			r.Until = &u
		}
		c.Recurrence = &r
	}
	return &c
}

// Rebase moves all event times into loc, preserving absolute instants.
// The recurrence rule (weekday set, count, until date) is untouched;
// weekday matching naturally follows the new local dates.
func (e *Event) Rebase(loc *time.Location) {
	e.Start = e.Start.In(loc)
	e.End = e.End.In(loc)
	if e.Recurrence != nil && e.Recurrence.Until != nil {
		y, m, d := e.Recurrence.Until.Date()
		u := time.Date(y, m, d, 0, 0, 0, 0, loc)
		e.Recurrence.Until = &u
	}
}

