package multi_calendar

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/kalendo/kalendo/pkg/calendar"
	log "github.com/sirupsen/logrus"
)

var (
	// ErrCalendarExists is returned when creating or renaming to a name
	// that is already taken.
	ErrCalendarExists = errors.New("calendar already exists")
	// ErrCalendarNotFound is returned when the named calendar does not exist.
	ErrCalendarNotFound = errors.New("calendar not found")
	// ErrNoCalendarSelected is returned by mutating operations invoked
	// before any calendar was selected with UseCalendar.
	ErrNoCalendarSelected = calendar.ErrNoCalendarSelected
	// ErrUnknownTimezone is returned for timezone identifiers the
	// platform database does not know.
	ErrUnknownTimezone = errors.New("unknown timezone")
	// ErrUnsupportedProperty is returned for calendar edits other than
	// name and timezone.
	ErrUnsupportedProperty = errors.New("unsupported calendar property")
)

// Manager owns the named calendars and tracks which one is active.
// Calendar names are the identity other operations address calendars
// by; renames re-key the index so the old name is released.
type Manager struct {
	calendars map[string]*calendar.Service
	active    string
}

func NewManager() *Manager {
	return &Manager{calendars: make(map[string]*calendar.Service)}
}

// Create registers an empty calendar bound to the given timezone.
func (m *Manager) Create(name, timezone string) error {
	if _, exists := m.calendars[name]; exists {
		return fmt.Errorf("%w: %q", ErrCalendarExists, name)
	}
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return fmt.Errorf("%w: %q", ErrUnknownTimezone, timezone)
	}
	m.calendars[name] = calendar.NewService(calendar.New(name, loc))
	log.Infof("created calendar %q in timezone %s", name, timezone)
	return nil
}

// Edit changes a calendar property. Renames fail when the target name
// is taken; timezone edits migrate all stored events, preserving
// absolute instants.
func (m *Manager) Edit(name, property, newValue string) error {
	svc, exists := m.calendars[name]
	if !exists {
		return fmt.Errorf("%w: %q", ErrCalendarNotFound, name)
	}
	switch strings.ToLower(property) {
	case "name":
		if _, taken := m.calendars[newValue]; taken {
			return fmt.Errorf("%w: %q", ErrCalendarExists, newValue)
		}
		delete(m.calendars, name)
		m.calendars[newValue] = svc
		svc.Calendar().Rename(newValue)
		if m.active == name {
			m.active = newValue
		}
		return nil
	case "timezone":
		loc, err := time.LoadLocation(newValue)
		if err != nil {
			return fmt.Errorf("%w: %q", ErrUnknownTimezone, newValue)
		}
		svc.Calendar().SetLocation(loc)
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedProperty, property)
	}
}

// Use selects the active calendar for subsequent single-calendar
// operations.
func (m *Manager) Use(name string) error {
	if _, exists := m.calendars[name]; !exists {
		return fmt.Errorf("%w: %q", ErrCalendarNotFound, name)
	}
	m.active = name
	return nil
}

// Get returns the named calendar's service.
func (m *Manager) Get(name string) (*calendar.Service, bool) {
	svc, ok := m.calendars[name]
	return svc, ok
}

// Active returns the currently selected calendar's service, or false
// when none is selected.
func (m *Manager) Active() (*calendar.Service, bool) {
	if m.active == "" {
		return nil, false
	}
	svc, ok := m.calendars[m.active]
	return svc, ok
}

// ActiveName returns the selected calendar's name.
func (m *Manager) ActiveName() (string, bool) {
	if m.active == "" {
		return "", false
	}
	return m.active, true
}

// Names returns all calendar names, unordered.
func (m *Manager) Names() []string {
	names := make([]string, 0, len(m.calendars))
	for name := range m.calendars {
		names = append(names, name)
	}
	return names
}
