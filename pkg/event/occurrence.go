package event

import (
	"fmt"
	"time"

	"github.com/teambition/rrule-go"
)

// Occurrences materializes an event into its concrete single-interval
// instances, in chronological order. A single event yields itself; a
// recurring event is expanded one occurrence per matching weekday,
// starting at the template's start date, until the occurrence count is
// exhausted or the cursor passes the until date.
//
// Each occurrence carries the template's ID, so (ID, occurrence start)
// identifies one instance of a series.
func (e *Event) Occurrences() ([]Event, error) {
	if e.Kind == Single {
		return []Event{*e}, nil
	}

	rec := e.Recurrence
	if rec == nil || (rec.Count < 1 && rec.Until == nil) {
		return nil, fmt.Errorf("%w: recurrence rule has no termination mode", ErrInvalidDate)
	}

	rule, err := rrule.NewRRule(rrule.ROption{
		Freq:      rrule.WEEKLY,
		Dtstart:   e.Start,
		Byweekday: toRRuleWeekdays(rec.Days),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build recurrence rule: %w", err)
	}

	span := e.Duration()
	occurrences := make([]Event, 0, 8)
	next := rule.Iterator()
	for {
		start, ok := next()
		if !ok {
			break
		}
		if rec.Until != nil && DateAfter(start, *rec.Until) {
			break
		}
		occ := *e
		occ.Kind = Single
		occ.Recurrence = nil
		occ.Start = start
		occ.End = start.Add(span)
		occurrences = append(occurrences, occ)
		if rec.Count > 0 && len(occurrences) == rec.Count {
			break
		}
	}
	return occurrences, nil
}

// OccursOn reports whether any occurrence of the event falls on the
// given date. A single event occurs on every date its interval touches.
func (e *Event) OccursOn(date time.Time) (bool, error) {
	if e.Kind == Single {
		return !DateBefore(date, e.Start) && !DateAfter(date, e.End), nil
	}
	occurrences, err := e.Occurrences()
	if err != nil {
		return false, err
	}
	for _, occ := range occurrences {
		if SameDate(occ.Start, date) {
			return true, nil
		}
	}
	return false, nil
}

func toRRuleWeekdays(days []time.Weekday) []rrule.Weekday {
	mapping := map[time.Weekday]rrule.Weekday{
		time.Monday:    rrule.MO,
		time.Tuesday:   rrule.TU,
		time.Wednesday: rrule.WE,
		time.Thursday:  rrule.TH,
		time.Friday:    rrule.FR,
		time.Saturday:  rrule.SA,
		time.Sunday:    rrule.SU,
	}
	out := make([]rrule.Weekday, 0, len(days))
	for _, d := range days {
		out = append(out, mapping[d])
	}
	return out
}
