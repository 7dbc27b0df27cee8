package calendar

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/kalendo/kalendo/internal/rest"
	"github.com/kalendo/kalendo/internal/utils"
	"github.com/kalendo/kalendo/pkg/event"
	log "github.com/sirupsen/logrus"
)

// EventService is the slice of the multi-calendar service the event
// endpoints need: operations on the currently active calendar.
type EventService interface {
	AddSingleEvent(ctx context.Context, subject string, start, end time.Time,
		description, location string, public, autoDecline bool) (*event.Event, error)
	AddAllDayEvent(ctx context.Context, subject string, date time.Time,
		description, location string, public, autoDecline bool) (*event.Event, error)
	AddRecurringEvent(ctx context.Context, subject string, start, end time.Time,
		description, location string, public bool,
		days []time.Weekday, count int, until *time.Time, autoDecline bool) (*event.Event, error)
	EditEvent(ctx context.Context, subject string, from time.Time, property, newValue string, scope Scope) error
	GetEventsOn(ctx context.Context, date time.Time) ([]*event.Event, error)
	IsBusyAt(ctx context.Context, t time.Time) (bool, error)
	PrintEventsOn(ctx context.Context, date time.Time) (string, error)
	PrintEventsRange(ctx context.Context, start, end time.Time) (string, error)
	ActiveLocation() (*time.Location, bool)
}

// Handler exposes the event operations of the active calendar.
type Handler struct {
	service EventService
	clock   utils.Clock
}

func NewHandler(service EventService, clock utils.Clock) *Handler {
	return &Handler{service: service, clock: clock}
}

type RecurrenceDTO struct {
	Days  []string `json:"days"`
	Count int      `json:"count,omitempty"`
	Until string   `json:"until,omitempty"`
}

type EventDTO struct {
	Subject     string         `json:"subject"`
	Start       string         `json:"start,omitempty"`
	End         string         `json:"end,omitempty"`
	Date        string         `json:"date,omitempty"`
	Description string         `json:"description,omitempty"`
	Location    string         `json:"location,omitempty"`
	Public      bool           `json:"public"`
	AutoDecline bool           `json:"autoDecline"`
	AllDay      bool           `json:"allDay,omitempty"`
	Recurrence  *RecurrenceDTO `json:"recurrence,omitempty"`
}

type EditDTO struct {
	Subject  string `json:"subject"`
	From     string `json:"from"`
	Property string `json:"property"`
	NewValue string `json:"newValue"`
	Scope    string `json:"scope"`
}

// CreateEvent schedules a single, all-day, or recurring event on the
// active calendar, depending on the DTO shape.
func (h *Handler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var dto EventDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}
	loc, ok := h.service.ActiveLocation()
	if !ok {
		rest.WriteError(w, http.StatusConflict, "No calendar selected", "select a calendar with PUT /api/calendar/active first")
		return
	}

	ev, err := h.createFromDTO(r.Context(), dto, loc)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusCreated, eventToDTO(ev))
}

func (h *Handler) createFromDTO(ctx context.Context, dto EventDTO, loc *time.Location) (*event.Event, error) {
	if dto.AllDay {
		date, err := event.ParseLocalDate(dto.Date, loc)
		if err != nil {
			return nil, err
		}
		return h.service.AddAllDayEvent(ctx, dto.Subject, date, dto.Description, dto.Location, dto.Public, dto.AutoDecline)
	}

	start, err := event.ParseLocalDateTime(dto.Start, loc)
	if err != nil {
		return nil, err
	}
	end, err := event.ParseLocalDateTime(dto.End, loc)
	if err != nil {
		return nil, err
	}

	if dto.Recurrence == nil {
		return h.service.AddSingleEvent(ctx, dto.Subject, start, end, dto.Description, dto.Location, dto.Public, dto.AutoDecline)
	}

	days, err := parseWeekdays(dto.Recurrence.Days)
	if err != nil {
		return nil, err
	}
	count := dto.Recurrence.Count
	if count < 1 {
		count = -1
	}
	var until *time.Time
	if dto.Recurrence.Until != "" {
		u, err := event.ParseLocalDate(dto.Recurrence.Until, loc)
		if err != nil {
			return nil, err
		}
		until = &u
	}
	return h.service.AddRecurringEvent(ctx, dto.Subject, start, end, dto.Description, dto.Location, dto.Public,
		days, count, until, dto.AutoDecline)
}

// EditEvent applies a scoped property change to the matching events.
func (h *Handler) EditEvent(w http.ResponseWriter, r *http.Request) {
	var dto EditDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}
	loc, ok := h.service.ActiveLocation()
	if !ok {
		rest.WriteError(w, http.StatusConflict, "No calendar selected", "")
		return
	}
	scope, err := ParseScope(dto.Scope)
	if err != nil {
		rest.WriteError(w, http.StatusUnprocessableEntity, "Invalid edit scope", err.Error())
		return
	}
	from, err := event.ParseLocalDateTime(dto.From, loc)
	if err != nil && dto.From != "" {
		rest.WriteError(w, http.StatusBadRequest, "Invalid from date-time", err.Error())
		return
	}
	if err := h.service.EditEvent(r.Context(), dto.Subject, from, dto.Property, dto.NewValue, scope); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// GetEventsOn lists the templates with an occurrence on the date.
func (h *Handler) GetEventsOn(w http.ResponseWriter, r *http.Request) {
	loc, ok := h.service.ActiveLocation()
	if !ok {
		rest.WriteJSON(w, http.StatusOK, []EventDTO{})
		return
	}
	date, err := event.ParseLocalDate(r.URL.Query().Get("date"), loc)
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid date format", "'date' must be formatted as 2006-01-02")
		return
	}
	events, err := h.service.GetEventsOn(r.Context(), date)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	dtos := make([]EventDTO, 0, len(events))
	for _, ev := range events {
		dtos = append(dtos, eventToDTO(ev))
	}
	rest.WriteJSON(w, http.StatusOK, dtos)
}

// PrintEvents renders a text listing for a date or a date-time range.
func (h *Handler) PrintEvents(w http.ResponseWriter, r *http.Request) {
	loc, ok := h.service.ActiveLocation()
	if !ok {
		rest.WriteError(w, http.StatusConflict, "No calendar selected", "")
		return
	}

	var listing string
	if dateParam := r.URL.Query().Get("date"); dateParam != "" {
		date, err := event.ParseLocalDate(dateParam, loc)
		if err != nil {
			rest.WriteError(w, http.StatusBadRequest, "Invalid date format", err.Error())
			return
		}
		listing, err = h.service.PrintEventsOn(r.Context(), date)
		if err != nil {
			writeServiceError(w, err)
			return
		}
	} else {
		from, err := event.ParseLocalDateTime(r.URL.Query().Get("from"), loc)
		if err != nil {
			rest.WriteError(w, http.StatusBadRequest, "Invalid from date-time", err.Error())
			return
		}
		to, err := event.ParseLocalDateTime(r.URL.Query().Get("to"), loc)
		if err != nil {
			rest.WriteError(w, http.StatusBadRequest, "Invalid to date-time", err.Error())
			return
		}
		listing, err = h.service.PrintEventsRange(r.Context(), from, to)
		if err != nil {
			writeServiceError(w, err)
			return
		}
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(listing)); err != nil {
		log.Errorf("failed to write listing: %v", err)
	}
}

// GetStatus reports busyness at the given instant, defaulting to now.
func (h *Handler) GetStatus(w http.ResponseWriter, r *http.Request) {
	loc, ok := h.service.ActiveLocation()
	if !ok {
		rest.WriteJSON(w, http.StatusOK, map[string]bool{"busy": false})
		return
	}
	at := h.clock.Now().In(loc)
	if atParam := r.URL.Query().Get("at"); atParam != "" {
		parsed, err := event.ParseLocalDateTime(atParam, loc)
		if err != nil {
			rest.WriteError(w, http.StatusBadRequest, "Invalid at date-time", err.Error())
			return
		}
		at = parsed
	}
	busy, err := h.service.IsBusyAt(r.Context(), at)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusOK, map[string]bool{"busy": busy})
}

func eventToDTO(ev *event.Event) EventDTO {
	dto := EventDTO{
		Subject:     ev.Subject,
		Start:       ev.Start.Format(event.DateTimeLayout),
		End:         ev.End.Format(event.DateTimeLayout),
		Description: ev.Description,
		Location:    ev.Location,
		Public:      ev.Public,
		AutoDecline: ev.AutoDecline,
	}
	if ev.Kind == event.Recurring {
		rec := &RecurrenceDTO{Count: ev.Recurrence.Count}
		for _, d := range ev.Recurrence.Days {
			rec.Days = append(rec.Days, strings.ToLower(d.String()))
		}
		if ev.Recurrence.Until != nil {
			rec.Until = ev.Recurrence.Until.Format(event.DateLayout)
		}
		dto.Recurrence = rec
	}
	return dto
}

func parseWeekdays(names []string) ([]time.Weekday, error) {
	lookup := map[string]time.Weekday{
		"monday": time.Monday, "tuesday": time.Tuesday, "wednesday": time.Wednesday,
		"thursday": time.Thursday, "friday": time.Friday, "saturday": time.Saturday,
		"sunday": time.Sunday,
	}
	days := make([]time.Weekday, 0, len(names))
	for _, name := range names {
		d, ok := lookup[strings.ToLower(name)]
		if !ok {
			return nil, fmt.Errorf("%w: unknown weekday %q", event.ErrInvalidDate, name)
		}
		days = append(days, d)
	}
	return days, nil
}

// writeServiceError maps core failures onto HTTP status codes.
func writeServiceError(w http.ResponseWriter, err error) {
	var conflict *event.ConflictError
	switch {
	case errors.As(err, &conflict):
		rest.WriteError(w, http.StatusConflict, "Event conflict", conflict.Error())
	case errors.Is(err, event.ErrInvalidDate), errors.Is(err, ErrInvalidEdit):
		rest.WriteError(w, http.StatusBadRequest, "Invalid request", err.Error())
	case errors.Is(err, ErrUnsupportedEdit):
		rest.WriteError(w, http.StatusUnprocessableEntity, "Unsupported edit", err.Error())
	case errors.Is(err, ErrNoMatch):
		rest.WriteError(w, http.StatusNotFound, "No matching event", err.Error())
	case errors.Is(err, ErrNoCalendarSelected):
		rest.WriteError(w, http.StatusConflict, "No calendar selected", err.Error())
	default:
		rest.WriteError(w, http.StatusInternalServerError, "Internal error", err.Error())
	}
}
