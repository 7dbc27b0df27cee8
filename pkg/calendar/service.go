package calendar

import (
	"fmt"
	"time"

	"github.com/kalendo/kalendo/pkg/event"
)

// Service is the operation surface of one calendar, consumed by the
// HTTP layer and by the multi-calendar service.
type Service struct {
	cal     *Calendar
	printer *Printer
}

func NewService(cal *Calendar) *Service {
	return &Service{
		cal:     cal,
		printer: NewPrinter(cal),
	}
}

func (s *Service) Calendar() *Calendar {
	return s.cal
}

// AddSingleEvent creates and stores a single event. Times are
// wall-clock values in the calendar's timezone.
func (s *Service) AddSingleEvent(subject string, start, end time.Time,
	description, location string, public, autoDecline bool) (*event.Event, error) {

	ev, err := event.NewSingle(subject, start, end, description, location, public)
	if err != nil {
		return nil, err
	}
	ev.AutoDecline = autoDecline
	if err := s.cal.Add(ev); err != nil {
		return nil, err
	}
	return ev, nil
}

// AddAllDayEvent creates a single event spanning 00:00 to 23:59 of the
// given date.
func (s *Service) AddAllDayEvent(subject string, date time.Time,
	description, location string, public, autoDecline bool) (*event.Event, error) {

	ev, err := event.NewAllDay(subject, date, description, location, public)
	if err != nil {
		return nil, err
	}
	ev.AutoDecline = autoDecline
	if err := s.cal.Add(ev); err != nil {
		return nil, err
	}
	return ev, nil
}

// AddRecurringEvent creates and stores a recurring event template.
func (s *Service) AddRecurringEvent(subject string, start, end time.Time,
	description, location string, public bool,
	days []time.Weekday, count int, until *time.Time, autoDecline bool) (*event.Event, error) {

	ev, err := event.NewRecurring(subject, start, end, description, location, public, days, count, until)
	if err != nil {
		return nil, err
	}
	ev.AutoDecline = autoDecline
	if err := s.cal.Add(ev); err != nil {
		return nil, err
	}
	return ev, nil
}

// EditEvent applies a scoped property change to the events matching the
// subject.
func (s *Service) EditEvent(subject string, from time.Time, property, newValue string, scope Scope) error {
	if err := s.cal.Edit(subject, from, property, newValue, scope); err != nil {
		return fmt.Errorf("failed to edit event %q: %w", subject, err)
	}
	return nil
}

// GetEventsOn returns the unexpanded templates with an occurrence on
// the date, in insertion order.
func (s *Service) GetEventsOn(date time.Time) ([]*event.Event, error) {
	return s.cal.EventsOn(date)
}

// GetAllEvents returns a snapshot of all stored templates.
func (s *Service) GetAllEvents() []*event.Event {
	return s.cal.All()
}

// Occurrences expands all templates, overrides included.
func (s *Service) Occurrences() ([]event.Event, error) {
	return s.cal.Occurrences()
}

// IsBusyAt reports strict-interior busyness at the instant.
func (s *Service) IsBusyAt(t time.Time) (bool, error) {
	return s.cal.IsBusyAt(t)
}

// PrintEventsOn renders a text listing of the events on a date.
func (s *Service) PrintEventsOn(date time.Time) (string, error) {
	return s.printer.EventsOn(date)
}

// PrintEventsRange renders a text listing of the occurrences starting
// within [start, end).
func (s *Service) PrintEventsRange(start, end time.Time) (string, error) {
	return s.printer.EventsRange(start, end)
}
