package multi_calendar

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/kalendo/kalendo/pkg/calendar"
	"github.com/kalendo/kalendo/pkg/event"
	log "github.com/sirupsen/logrus"
)

// CopyEvent copies one occurrence of the active calendar, identified by
// subject and start time, into the target calendar at targetStart
// (wall-clock in the target's timezone). The occurrence's duration and
// editable fields are preserved; the copy goes through the normal add
// path, so auto-decline conflict rejection applies.
func (s *Service) CopyEvent(ctx context.Context, subject string, sourceStart time.Time,
	targetName string, targetStart time.Time) error {

	s.mu.Lock()
	defer s.mu.Unlock()
	active, ok := s.manager.Active()
	if !ok {
		return ErrNoCalendarSelected
	}
	target, ok := s.manager.Get(targetName)
	if !ok {
		return fmt.Errorf("%w: %q", ErrCalendarNotFound, targetName)
	}

	occurrences, err := active.Occurrences()
	if err != nil {
		return err
	}
	for i := range occurrences {
		occ := &occurrences[i]
		if !strings.EqualFold(occ.Subject, subject) || !occ.Start.Equal(sourceStart) {
			continue
		}
		cp, err := copyOccurrence(occ, targetStart, targetStart.Add(occ.End.Sub(occ.Start)))
		if err != nil {
			return err
		}
		if err := target.Calendar().Add(cp); err != nil {
			return err
		}
		log.Infof("copied event %q to calendar %q at %s", subject, targetName,
			targetStart.Format(event.DateTimeLayout))
		return nil
	}
	return fmt.Errorf("%w: no occurrence of %q at %s", calendar.ErrNoMatch, subject,
		sourceStart.Format(event.DateTimeLayout))
}

// CopyEventsOn copies every occurrence of the active calendar on
// sourceDate to the target calendar on targetDate. Times are re-based
// into the target's timezone preserving the absolute instant, then
// shifted by whole days so the copies land on targetDate's local
// calendar day. The copy is two-phase: all conflicts are checked before
// anything is inserted, so a rejection leaves the target unchanged.
func (s *Service) CopyEventsOn(ctx context.Context, sourceDate time.Time,
	targetName string, targetDate time.Time) (int, error) {

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.copyRange(sourceDate, sourceDate, targetName, targetDate)
}

// CopyEventsBetween copies the occurrences whose date falls within
// [startDate, endDate] (inclusive) to the target calendar, shifted so
// startDate maps onto targetStartDate.
func (s *Service) CopyEventsBetween(ctx context.Context, startDate, endDate time.Time,
	targetName string, targetStartDate time.Time) (int, error) {

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.copyRange(startDate, endDate, targetName, targetStartDate)
}

func (s *Service) copyRange(startDate, endDate time.Time, targetName string, targetStartDate time.Time) (int, error) {
	active, ok := s.manager.Active()
	if !ok {
		return 0, ErrNoCalendarSelected
	}
	target, ok := s.manager.Get(targetName)
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrCalendarNotFound, targetName)
	}
	targetLoc := target.Calendar().Location()
	dayDelta := daysBetween(startDate, targetStartDate)

	occurrences, err := active.Occurrences()
	if err != nil {
		return 0, err
	}

	copies := make([]*event.Event, 0, len(occurrences))
	for i := range occurrences {
		occ := &occurrences[i]
		if event.DateBefore(occ.Start, startDate) || event.DateAfter(occ.Start, endDate) {
			continue
		}
		start := occ.Start.In(targetLoc).AddDate(0, 0, dayDelta)
		end := occ.End.In(targetLoc).AddDate(0, 0, dayDelta)
		cp, err := copyOccurrence(occ, start, end)
		if err != nil {
			return 0, err
		}
		copies = append(copies, cp)
	}

	// Phase one: validate every copy against the target store and the
	// other copies before mutating anything.
	for i, cp := range copies {
		if !cp.AutoDecline {
			continue
		}
		conflicting, err := target.Calendar().Conflicts(cp)
		if err != nil {
			return 0, err
		}
		if conflicting != nil {
			return 0, &event.ConflictError{Subject: cp.Subject, Existing: conflicting.Subject}
		}
		for _, prev := range copies[:i] {
			if event.Overlaps(cp.Start, cp.End, prev.Start, prev.End) {
				return 0, &event.ConflictError{Subject: cp.Subject, Existing: prev.Subject}
			}
		}
	}

	// Phase two: insert.
	for _, cp := range copies {
		if err := target.Calendar().Add(cp); err != nil {
			return 0, err
		}
	}
	if len(copies) > 0 {
		log.Infof("copied %d occurrences to calendar %q", len(copies), targetName)
	}
	return len(copies), nil
}

// copyOccurrence materializes an occurrence as a fresh single event
// with the given interval.
func copyOccurrence(occ *event.Event, start, end time.Time) (*event.Event, error) {
	cp, err := event.NewSingle(occ.Subject, start, end, occ.Description, occ.Location, occ.Public)
	if err != nil {
		return nil, err
	}
	cp.AutoDecline = occ.AutoDecline
	return cp, nil
}

// daysBetween counts whole calendar days from a to b, ignoring
// time-of-day and timezone.
func daysBetween(a, b time.Time) int {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	ua := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	ub := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
	return int(ub.Sub(ua).Hours() / 24)
}
