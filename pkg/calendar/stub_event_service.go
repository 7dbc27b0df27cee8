package calendar

import (
	"context"
	"time"

	"github.com/kalendo/kalendo/pkg/event"
)

// StubEventService is an in-memory EventService backed by one calendar,
// for handler tests and local experimentation.
type StubEventService struct {
	service *Service
}

func NewStubEventService(loc *time.Location) *StubEventService {
	return &StubEventService{service: NewService(New("stub", loc))}
}

func (s *StubEventService) AddSingleEvent(_ context.Context, subject string, start, end time.Time,
	description, location string, public, autoDecline bool) (*event.Event, error) {
	return s.service.AddSingleEvent(subject, start, end, description, location, public, autoDecline)
}

func (s *StubEventService) AddAllDayEvent(_ context.Context, subject string, date time.Time,
	description, location string, public, autoDecline bool) (*event.Event, error) {
	return s.service.AddAllDayEvent(subject, date, description, location, public, autoDecline)
}

func (s *StubEventService) AddRecurringEvent(_ context.Context, subject string, start, end time.Time,
	description, location string, public bool,
	days []time.Weekday, count int, until *time.Time, autoDecline bool) (*event.Event, error) {
	return s.service.AddRecurringEvent(subject, start, end, description, location, public, days, count, until, autoDecline)
}

func (s *StubEventService) EditEvent(_ context.Context, subject string, from time.Time,
	property, newValue string, scope Scope) error {
	return s.service.EditEvent(subject, from, property, newValue, scope)
}

func (s *StubEventService) GetEventsOn(_ context.Context, date time.Time) ([]*event.Event, error) {
	return s.service.GetEventsOn(date)
}

func (s *StubEventService) IsBusyAt(_ context.Context, t time.Time) (bool, error) {
	return s.service.IsBusyAt(t)
}

func (s *StubEventService) PrintEventsOn(_ context.Context, date time.Time) (string, error) {
	return s.service.PrintEventsOn(date)
}

func (s *StubEventService) PrintEventsRange(_ context.Context, start, end time.Time) (string, error) {
	return s.service.PrintEventsRange(start, end)
}

func (s *StubEventService) ActiveLocation() (*time.Location, bool) {
	return s.service.Calendar().Location(), true
}
