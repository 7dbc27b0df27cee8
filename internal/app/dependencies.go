package app

import (
	"github.com/kalendo/kalendo/internal/config"
	"github.com/kalendo/kalendo/internal/event_bus"
	"github.com/kalendo/kalendo/internal/utils"
	"github.com/kalendo/kalendo/pkg/calendar"
	"github.com/kalendo/kalendo/pkg/export"
	"github.com/kalendo/kalendo/pkg/multi_calendar"
	log "github.com/sirupsen/logrus"
)

// Dependencies holds all services and handlers for the application.
type Dependencies struct {
	Bus *event_bus.EventBus

	Manager         *multi_calendar.Manager
	CSVRenderer     *export.CSVRenderer
	CalendarService *multi_calendar.Service
	CalendarHandler *multi_calendar.Handler

	EventHandler *calendar.Handler

	Clock utils.Clock
}

// BuildDependencies initializes and wires all application services and handlers.
func BuildDependencies(cfg config.Application) *Dependencies {
	deps := &Dependencies{}

	deps.Bus = event_bus.NewEventBus()
	registerAuditLog(deps.Bus)

	deps.Manager = multi_calendar.NewManager()
	deps.CSVRenderer = export.NewCSVRenderer()
	deps.CalendarService = multi_calendar.NewService(deps.Manager, deps.CSVRenderer, cfg.Export.Dir, deps.Bus)
	deps.CalendarHandler = multi_calendar.NewHandler(deps.CalendarService)

	deps.Clock = &utils.SystemClock{}
	deps.EventHandler = calendar.NewHandler(deps.CalendarService, deps.Clock)

	return deps
}

// registerAuditLog logs calendar lifecycle and scheduling events so the
// server keeps an operational trail without persistence.
func registerAuditLog(bus *event_bus.EventBus) {
	bus.Subscribe(event_bus.TypeCalendarCreated, func(e event_bus.Event) error {
		if data, ok := e.Data.(event_bus.CalendarCreated); ok {
			log.Infof("calendar %q created in timezone %s", data.Name, data.Timezone)
		}
		return nil
	})
	bus.Subscribe(event_bus.TypeCalendarTimezoneChanged, func(e event_bus.Event) error {
		if data, ok := e.Data.(event_bus.CalendarTimezoneChanged); ok {
			log.Infof("calendar %q migrated to timezone %s", data.Name, data.Timezone)
		}
		return nil
	})
	bus.Subscribe(event_bus.TypeEventScheduled, func(e event_bus.Event) error {
		if data, ok := e.Data.(event_bus.EventScheduled); ok {
			log.Infof("event %q scheduled on calendar %q (%s - %s)",
				data.Subject, data.Calendar, data.Start, data.End)
		}
		return nil
	})
}
