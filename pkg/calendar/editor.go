package calendar

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/kalendo/kalendo/pkg/event"
	log "github.com/sirupsen/logrus"
)

// Scope is the breadth of an edit across a recurring series.
type Scope int

const (
	// ScopeSingle edits one occurrence (or one non-recurring event).
	ScopeSingle Scope = iota
	// ScopeFrom edits this occurrence onward, splitting the series.
	ScopeFrom
	// ScopeAll edits the whole series template.
	ScopeAll
)

func ParseScope(s string) (Scope, error) {
	switch strings.ToLower(s) {
	case "single":
		return ScopeSingle, nil
	case "from":
		return ScopeFrom, nil
	case "all":
		return ScopeAll, nil
	default:
		return 0, fmt.Errorf("%w: unknown edit scope %q", ErrUnsupportedEdit, s)
	}
}

func (s Scope) String() string {
	switch s {
	case ScopeSingle:
		return "single"
	case ScopeFrom:
		return "from"
	case ScopeAll:
		return "all"
	default:
		return "unknown"
	}
}

var (
	// ErrUnsupportedEdit marks a scope/property combination that is not
	// permitted (e.g. series start edit outside "from" scope).
	ErrUnsupportedEdit = errors.New("unsupported edit")
	// ErrInvalidEdit marks value or ordering violations, including the
	// rollback-on-conflict case for auto-decline events.
	ErrInvalidEdit = errors.New("invalid edit")
	// ErrNoMatch means no stored event or occurrence matched the edit.
	ErrNoMatch = errors.New("no matching event")
	// ErrNoCalendarSelected is returned by operations that need an
	// active calendar context when none has been selected.
	ErrNoCalendarSelected = errors.New("no calendar selected")
)

// overrideKey identifies one occurrence of a series by the series'
// stable identifier and the occurrence's absolute start instant.
type overrideKey struct {
	series uuid.UUID
	start  int64
}

// Editor applies scoped edits to the events of one store. It owns the
// override index: SINGLE-scope edits of recurring events never touch
// the series template and are recorded here instead.
type Editor struct {
	store     *Store
	loc       *time.Location
	overrides map[overrideKey]*event.Event
}

func NewEditor(store *Store, loc *time.Location) *Editor {
	return &Editor{
		store:     store,
		loc:       loc,
		overrides: make(map[overrideKey]*event.Event),
	}
}

// Override returns the replacement recorded for the given series
// occurrence, if any.
func (ed *Editor) Override(series uuid.UUID, occurrenceStart time.Time) (*event.Event, bool) {
	ov, ok := ed.overrides[overrideKey{series: series, start: occurrenceStart.Unix()}]
	return ov, ok
}

// Rebase moves the editor and all recorded overrides into a new
// location. Keys are instant-based, so they survive the move.
func (ed *Editor) Rebase(loc *time.Location) {
	ed.loc = loc
	for _, ov := range ed.overrides {
		ov.Rebase(loc)
	}
}

// Edit applies one property change to every stored event whose subject
// matches (case-insensitively), honoring the scope semantics:
//
//   - non-recurring events accept only ScopeSingle and match on start time;
//   - ScopeAll mutates the recurring template (time edits are rejected);
//   - ScopeSingle on a series records an override for one occurrence;
//   - ScopeFrom truncates the series and inserts an edited successor
//     series covering the occurrences on/after the given time.
func (ed *Editor) Edit(subject string, from time.Time, property, newValue string, scope Scope) error {
	edited := false
	var newSeries []*event.Event
	var truncated []truncation

	for _, ev := range ed.store.events {
		if !strings.EqualFold(ev.Subject, subject) {
			continue
		}

		if ev.Kind == event.Single {
			if scope != ScopeSingle {
				return fmt.Errorf("%w: non-recurring events only support the single scope", ErrUnsupportedEdit)
			}
			if ev.Start.Equal(from) {
				if err := ed.apply(ev, property, newValue, applyOpts{checkConflict: true}); err != nil {
					return err
				}
				edited = true
			}
			continue
		}

		switch scope {
		case ScopeAll:
			if err := ed.apply(ev, property, newValue, applyOpts{checkConflict: true}); err != nil {
				return err
			}
			edited = true

		case ScopeSingle:
			ok, err := ed.overrideOccurrence(ev, from, property, newValue)
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("%w: no occurrence of %q found at %s", ErrNoMatch,
					ev.Subject, from.Format(event.DateTimeLayout))
			}
			edited = true

		case ScopeFrom:
			prevUntil := ev.Recurrence.Until
			successor, err := ed.splitFrom(ev, from, property, newValue)
			if err != nil {
				return err
			}
			if successor != nil {
				newSeries = append(newSeries, successor)
				truncated = append(truncated, truncation{series: ev, prevUntil: prevUntil})
				edited = true
			}
		}
	}

	// Successors from FROM splits go through the conflict check of the
	// normal add path, so auto-decline rejection applies to them as
	// well. The insertion is two-phase: validation failure un-truncates
	// every split series and leaves the store untouched.
	for _, ns := range newSeries {
		if !ns.AutoDecline {
			continue
		}
		conflicting, err := ed.store.Conflicts(ns)
		if err == nil && conflicting != nil {
			err = &event.ConflictError{Subject: ns.Subject, Existing: conflicting.Subject}
		}
		if err != nil {
			for _, tr := range truncated {
				tr.series.Recurrence.Until = tr.prevUntil
			}
			return err
		}
	}
	for _, ns := range newSeries {
		if err := ed.store.Add(ns); err != nil {
			return err
		}
	}

	if !edited {
		return fmt.Errorf("%w: no event with subject %q to edit", ErrNoMatch, subject)
	}
	return nil
}

// truncation remembers a series' pre-split until date so a rejected
// successor can undo the split.
type truncation struct {
	series    *event.Event
	prevUntil *time.Time
}

type applyOpts struct {
	// checkConflict enables the rollback-on-conflict rule for time edits
	// of auto-decline events. Overrides skip it: they live outside the
	// store and are never conflict-gated.
	checkConflict bool
	// seriesTimes permits start/end edits on a recurring template. Only
	// the freshly created successor of a split allows this.
	seriesTimes bool
	// keepSpan moves the end together with a start edit so the event
	// keeps its duration. Occurrence overrides move this way; a stored
	// single event keeps its end and rejects a start past it.
	keepSpan bool
}

// apply performs one property update on the event, rolling back on
// validation or conflict failure so the event is left unchanged.
func (ed *Editor) apply(ev *event.Event, property, newValue string, opts applyOpts) error {
	switch strings.ToLower(property) {
	case "subject":
		ev.Subject = newValue
	case "description":
		ev.Description = newValue
	case "location":
		ev.Location = newValue
	case "public":
		b, err := strconv.ParseBool(newValue)
		if err != nil {
			return fmt.Errorf("%w: %q is not a boolean", ErrInvalidEdit, newValue)
		}
		ev.Public = b
	case "autodecline":
		b, err := strconv.ParseBool(newValue)
		if err != nil {
			return fmt.Errorf("%w: %q is not a boolean", ErrInvalidEdit, newValue)
		}
		ev.AutoDecline = b
	case "start", "startdatetime":
		return ed.applyStart(ev, newValue, opts)
	case "end", "enddatetime":
		return ed.applyEnd(ev, newValue, opts)
	default:
		return fmt.Errorf("%w: editing property %q is not supported", ErrUnsupportedEdit, property)
	}
	return nil
}

func (ed *Editor) applyStart(ev *event.Event, newValue string, opts applyOpts) error {
	if ev.Kind == event.Recurring && !opts.seriesTimes {
		return fmt.Errorf("%w: cannot edit the start time of a whole series; use the from scope", ErrUnsupportedEdit)
	}
	newStart, err := event.ParseLocalDateTime(newValue, ed.loc)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidEdit, err)
	}

	oldStart, oldEnd := ev.Start, ev.End
	if ev.Kind == event.Recurring || opts.keepSpan {
		// The end travels with the start: a moved occurrence or a split
		// successor keeps its duration, so any target slot is valid.
		ev.Start, ev.End = newStart, newStart.Add(oldEnd.Sub(oldStart))
		return nil
	}

	if newStart.After(ev.End) {
		return fmt.Errorf("%w: start time cannot be after end time", ErrInvalidEdit)
	}
	ev.Start = newStart
	if opts.checkConflict && ev.AutoDecline {
		if err := ed.rollbackOnConflict(ev, oldStart, oldEnd); err != nil {
			return err
		}
	}
	return nil
}

func (ed *Editor) applyEnd(ev *event.Event, newValue string, opts applyOpts) error {
	if ev.Kind == event.Recurring && !opts.seriesTimes {
		return fmt.Errorf("%w: cannot edit the end time of a whole series; use the from scope", ErrUnsupportedEdit)
	}
	newEnd, err := event.ParseLocalDateTime(newValue, ed.loc)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidEdit, err)
	}

	oldStart, oldEnd := ev.Start, ev.End
	if ev.Kind == event.Recurring {
		// Project onto the series' start date to keep the one-day span.
		h, m, sec := newEnd.Clock()
		y, mo, d := ev.Start.Date()
		projected := time.Date(y, mo, d, h, m, sec, 0, ev.Start.Location())
		if projected.Before(ev.Start) {
			return fmt.Errorf("%w: end time cannot be before start time", ErrInvalidEdit)
		}
		ev.End = projected
		return nil
	}

	if newEnd.Before(ev.Start) {
		return fmt.Errorf("%w: end time cannot be before start time", ErrInvalidEdit)
	}
	ev.End = newEnd
	if opts.checkConflict && ev.AutoDecline {
		if err := ed.rollbackOnConflict(ev, oldStart, oldEnd); err != nil {
			return err
		}
	}
	return nil
}

// rollbackOnConflict restores the previous interval and fails when the
// already-applied time edit collides with another stored event.
func (ed *Editor) rollbackOnConflict(ev *event.Event, oldStart, oldEnd time.Time) error {
	for _, other := range ed.store.events {
		if other == ev {
			continue
		}
		overlap, err := other.ConflictsWith(ev)
		if err != nil {
			ev.Start, ev.End = oldStart, oldEnd
			return err
		}
		if overlap {
			ev.Start, ev.End = oldStart, oldEnd
			log.Debugf("rolled back time edit of %q: conflicts with %q", ev.Subject, other.Subject)
			return fmt.Errorf("%w: edit would cause a conflict", ErrInvalidEdit)
		}
	}
	return nil
}

// overrideOccurrence records a SINGLE-scope override for the occurrence
// of the series starting exactly at from. The series is untouched.
func (ed *Editor) overrideOccurrence(series *event.Event, from time.Time, property, newValue string) (bool, error) {
	occurrences, err := series.Occurrences()
	if err != nil {
		return false, err
	}
	for _, occ := range occurrences {
		if !occ.Start.Equal(from) {
			continue
		}
		ov := occ // full copy of the generated occurrence
		if err := ed.apply(&ov, property, newValue, applyOpts{keepSpan: true}); err != nil {
			return false, err
		}
		ed.overrides[overrideKey{series: series.ID, start: occ.Start.Unix()}] = &ov
		return true, nil
	}
	return false, nil
}

// splitFrom implements the FROM scope: the original series is truncated
// to the day before the earliest occurrence on/after from, and a fresh
// series covering the remaining occurrences is returned with the
// property change applied. A nil result means no future occurrence
// matched and nothing was changed.
func (ed *Editor) splitFrom(series *event.Event, from time.Time, property, newValue string) (*event.Event, error) {
	occurrences, err := series.Occurrences()
	if err != nil {
		return nil, err
	}
	var future []event.Event
	for _, occ := range occurrences {
		if !occ.Start.Before(from) {
			future = append(future, occ)
		}
	}
	if len(future) == 0 {
		return nil, nil
	}

	first, last := future[0], future[len(future)-1]

	newStart := first.Start
	h, m, sec := series.End.Clock()
	y, mo, d := newStart.Date()
	newEnd := time.Date(y, mo, d, h, m, sec, 0, newStart.Location())
	ly, lm, ld := last.Start.Date()
	lastDay := time.Date(ly, lm, ld, 0, 0, 0, 0, newStart.Location())

	successor, err := event.NewRecurring(series.Subject, newStart, newEnd,
		series.Description, series.Location, series.Public,
		series.Recurrence.Days, series.Recurrence.Count, &lastDay)
	if err != nil {
		return nil, err
	}
	successor.AutoDecline = series.AutoDecline

	// The successor is a fresh creation, so even start/end edits are
	// legal here; conflicts are handled by the add path afterwards.
	if err := ed.apply(successor, property, newValue, applyOpts{seriesTimes: true}); err != nil {
		return nil, err
	}

	// Truncate the original only after the successor is fully built, so
	// a failed edit leaves the series unchanged.
	cy, cm, cd := first.Start.AddDate(0, 0, -1).Date()
	cutoff := time.Date(cy, cm, cd, 0, 0, 0, 0, series.Start.Location())
	series.Recurrence.Until = &cutoff

	log.Debugf("split series %q at %s: truncated to %s, successor until %s",
		series.Subject, from.Format(event.DateTimeLayout),
		cutoff.Format(event.DateLayout), lastDay.Format(event.DateLayout))
	return successor, nil
}
