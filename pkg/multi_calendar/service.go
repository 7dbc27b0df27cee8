package multi_calendar

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/kalendo/kalendo/internal/event_bus"
	"github.com/kalendo/kalendo/pkg/calendar"
	"github.com/kalendo/kalendo/pkg/event"
	"github.com/kalendo/kalendo/pkg/export"
	log "github.com/sirupsen/logrus"
)

// Service is the full multi-calendar operation surface: calendar
// lifecycle, event operations on the active calendar, cross-calendar
// copies, and CSV export.
//
// The calendar model itself is single-writer; this service guards all
// operations with one mutex because the HTTP layer introduces
// concurrent callers.
type Service struct {
	mu        sync.Mutex
	manager   *Manager
	renderer  *export.CSVRenderer
	exportDir string
	bus       *event_bus.EventBus
}

func NewService(manager *Manager, renderer *export.CSVRenderer, exportDir string, bus *event_bus.EventBus) *Service {
	return &Service{
		manager:   manager,
		renderer:  renderer,
		exportDir: exportDir,
		bus:       bus,
	}
}

// CreateCalendar registers a new empty calendar bound to the timezone.
func (s *Service) CreateCalendar(ctx context.Context, name, timezone string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.manager.Create(name, timezone); err != nil {
		return err
	}
	s.publish(ctx, event_bus.TypeCalendarCreated, event_bus.CalendarCreated{Name: name, Timezone: timezone})
	return nil
}

// EditCalendar renames a calendar or migrates it to a new timezone.
func (s *Service) EditCalendar(ctx context.Context, name, property, newValue string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.manager.Edit(name, property, newValue); err != nil {
		return err
	}
	if strings.EqualFold(property, "timezone") {
		s.publish(ctx, event_bus.TypeCalendarTimezoneChanged,
			event_bus.CalendarTimezoneChanged{Name: name, Timezone: newValue})
	}
	return nil
}

// UseCalendar selects the active calendar context.
func (s *Service) UseCalendar(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.manager.Use(name)
}

// ActiveCalendar returns the active calendar's name and timezone.
func (s *Service) ActiveCalendar() (name string, timezone string, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	svc, found := s.manager.Active()
	if !found {
		return "", "", false
	}
	cal := svc.Calendar()
	return cal.Name(), cal.Location().String(), true
}

// ActiveLocation returns the active calendar's timezone for wall-clock
// parsing at the boundary.
func (s *Service) ActiveLocation() (*time.Location, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	svc, found := s.manager.Active()
	if !found {
		return nil, false
	}
	return svc.Calendar().Location(), true
}

// CalendarNames returns the names of all registered calendars.
func (s *Service) CalendarNames() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.manager.Names()
}

// CalendarLocation returns the named calendar's timezone.
func (s *Service) CalendarLocation(name string) (*time.Location, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	svc, found := s.manager.Get(name)
	if !found {
		return nil, fmt.Errorf("%w: %q", ErrCalendarNotFound, name)
	}
	return svc.Calendar().Location(), nil
}

// AddSingleEvent schedules a single event on the active calendar.
func (s *Service) AddSingleEvent(ctx context.Context, subject string, start, end time.Time,
	description, location string, public, autoDecline bool) (*event.Event, error) {

	s.mu.Lock()
	defer s.mu.Unlock()
	active, ok := s.manager.Active()
	if !ok {
		return nil, ErrNoCalendarSelected
	}
	ev, err := active.AddSingleEvent(subject, start, end, description, location, public, autoDecline)
	if err != nil {
		return nil, err
	}
	s.publishScheduled(ctx, active.Calendar().Name(), ev)
	return ev, nil
}

// AddAllDayEvent schedules an event spanning 00:00 to 23:59 of a date.
func (s *Service) AddAllDayEvent(ctx context.Context, subject string, date time.Time,
	description, location string, public, autoDecline bool) (*event.Event, error) {

	s.mu.Lock()
	defer s.mu.Unlock()
	active, ok := s.manager.Active()
	if !ok {
		return nil, ErrNoCalendarSelected
	}
	ev, err := active.AddAllDayEvent(subject, date, description, location, public, autoDecline)
	if err != nil {
		return nil, err
	}
	s.publishScheduled(ctx, active.Calendar().Name(), ev)
	return ev, nil
}

// AddRecurringEvent schedules a recurring event template on the active
// calendar.
func (s *Service) AddRecurringEvent(ctx context.Context, subject string, start, end time.Time,
	description, location string, public bool,
	days []time.Weekday, count int, until *time.Time, autoDecline bool) (*event.Event, error) {

	s.mu.Lock()
	defer s.mu.Unlock()
	active, ok := s.manager.Active()
	if !ok {
		return nil, ErrNoCalendarSelected
	}
	ev, err := active.AddRecurringEvent(subject, start, end, description, location, public, days, count, until, autoDecline)
	if err != nil {
		return nil, err
	}
	s.publishScheduled(ctx, active.Calendar().Name(), ev)
	return ev, nil
}

// EditEvent applies a scoped property change on the active calendar.
func (s *Service) EditEvent(ctx context.Context, subject string, from time.Time,
	property, newValue string, scope calendar.Scope) error {

	s.mu.Lock()
	defer s.mu.Unlock()
	active, ok := s.manager.Active()
	if !ok {
		return ErrNoCalendarSelected
	}
	return active.EditEvent(subject, from, property, newValue, scope)
}

// GetEventsOn returns the templates with an occurrence on the date.
// With no calendar selected the result is a defined empty list, not an
// error, mirroring the other query operations.
func (s *Service) GetEventsOn(ctx context.Context, date time.Time) ([]*event.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	active, ok := s.manager.Active()
	if !ok {
		return nil, nil
	}
	return active.GetEventsOn(date)
}

// GetAllEvents returns a snapshot of the active calendar's templates,
// or an empty result when no calendar is selected.
func (s *Service) GetAllEvents(ctx context.Context) []*event.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	active, ok := s.manager.Active()
	if !ok {
		return nil
	}
	return active.GetAllEvents()
}

// IsBusyAt reports strict-interior busyness on the active calendar. No
// selected calendar means not busy.
func (s *Service) IsBusyAt(ctx context.Context, t time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	active, ok := s.manager.Active()
	if !ok {
		return false, nil
	}
	return active.IsBusyAt(t)
}

// PrintEventsOn renders a text listing of the active calendar's events
// on a date.
func (s *Service) PrintEventsOn(ctx context.Context, date time.Time) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	active, ok := s.manager.Active()
	if !ok {
		return "", ErrNoCalendarSelected
	}
	return active.PrintEventsOn(date)
}

// PrintEventsRange renders a text listing of occurrences starting
// within [start, end).
func (s *Service) PrintEventsRange(ctx context.Context, start, end time.Time) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	active, ok := s.manager.Active()
	if !ok {
		return "", ErrNoCalendarSelected
	}
	return active.PrintEventsRange(start, end)
}

// ExportCSV renders the active calendar's expanded occurrences as CSV.
func (s *Service) ExportCSV(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	active, ok := s.manager.Active()
	if !ok {
		return "", ErrNoCalendarSelected
	}
	occurrences, err := active.Occurrences()
	if err != nil {
		return "", err
	}
	return s.renderer.Render(occurrences)
}

// ExportCSVToFile writes the active calendar's occurrences to a file in
// the configured export directory and returns its absolute path.
func (s *Service) ExportCSVToFile(ctx context.Context, fileName string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	active, ok := s.manager.Active()
	if !ok {
		return "", ErrNoCalendarSelected
	}
	occurrences, err := active.Occurrences()
	if err != nil {
		return "", err
	}
	return s.renderer.ExportToFile(filepath.Join(s.exportDir, fileName), occurrences)
}

func (s *Service) publish(ctx context.Context, eventType event_bus.EventType, data any) {
	if s.bus == nil {
		return
	}
	if err := s.bus.Publish(event_bus.NewEvent(ctx, eventType, data)); err != nil {
		log.Warnf("failed to publish %s: %v", eventType, err)
	}
}

func (s *Service) publishScheduled(ctx context.Context, calendarName string, ev *event.Event) {
	s.publish(ctx, event_bus.TypeEventScheduled, event_bus.EventScheduled{
		Calendar: calendarName,
		Subject:  ev.Subject,
		Start:    ev.Start,
		End:      ev.End,
	})
}
