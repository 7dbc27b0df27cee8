package app

import (
	"github.com/gorilla/mux"
	"github.com/kalendo/kalendo/internal/config"
)

// RegisterRoutes registers all API endpoints.
func RegisterRoutes(r *mux.Router, deps *Dependencies, cfg config.Application) {

	// Calendars
	r.HandleFunc("/api/calendar", deps.CalendarHandler.ListCalendars).Methods("GET")
	r.HandleFunc("/api/calendar", deps.CalendarHandler.CreateCalendar).Methods("POST")
	r.HandleFunc("/api/calendar/active", deps.CalendarHandler.UseCalendar).Methods("PUT")
	r.HandleFunc("/api/calendar/{calendarName}", deps.CalendarHandler.EditCalendar).Methods("PUT")

	// Events
	r.HandleFunc("/api/event", deps.EventHandler.CreateEvent).Methods("POST")
	r.HandleFunc("/api/event", deps.EventHandler.EditEvent).Methods("PATCH")
	r.HandleFunc("/api/event", deps.EventHandler.GetEventsOn).Queries("date", "{date}").Methods("GET")
	r.HandleFunc("/api/event/print", deps.EventHandler.PrintEvents).Methods("GET")
	r.HandleFunc("/api/status", deps.EventHandler.GetStatus).Methods("GET")

	// Cross-calendar copies
	r.HandleFunc("/api/calendar/copy/event", deps.CalendarHandler.CopyEvent).Methods("POST")
	r.HandleFunc("/api/calendar/copy/day", deps.CalendarHandler.CopyDay).Methods("POST")
	r.HandleFunc("/api/calendar/copy/range", deps.CalendarHandler.CopyRange).Methods("POST")

	// Export
	r.HandleFunc("/api/export/csv", deps.CalendarHandler.ExportCSV).Methods("GET")
	r.HandleFunc("/api/export/csv", deps.CalendarHandler.ExportCSVToFile).Methods("POST")
}
