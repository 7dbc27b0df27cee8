package multi_calendar

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/kalendo/kalendo/internal/rest"
	"github.com/kalendo/kalendo/pkg/calendar"
	"github.com/kalendo/kalendo/pkg/event"
	log "github.com/sirupsen/logrus"
)

// Handler exposes calendar management, cross-calendar copy, and CSV
// export endpoints on top of the multi-calendar service.
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type CalendarDTO struct {
	Name     string `json:"name"`
	Timezone string `json:"timezone"`
	Active   bool   `json:"active,omitempty"`
}

type CalendarEditDTO struct {
	Property string `json:"property"`
	NewValue string `json:"newValue"`
}

type CopyEventDTO struct {
	Subject     string `json:"subject"`
	SourceStart string `json:"sourceStart"`
	Target      string `json:"target"`
	TargetStart string `json:"targetStart"`
}

type CopyRangeDTO struct {
	StartDate  string `json:"startDate"`
	EndDate    string `json:"endDate,omitempty"`
	Target     string `json:"target"`
	TargetDate string `json:"targetDate"`
}

type ExportDTO struct {
	FileName string `json:"fileName"`
}

// CreateCalendar registers a new calendar in the given IANA timezone.
func (h *Handler) CreateCalendar(w http.ResponseWriter, r *http.Request) {
	var dto CalendarDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}
	if dto.Name == "" {
		rest.WriteError(w, http.StatusBadRequest, "Invalid calendar name", "'name' must not be empty")
		return
	}
	if err := h.service.CreateCalendar(r.Context(), dto.Name, dto.Timezone); err != nil {
		writeManagerError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusCreated, dto)
}

// EditCalendar renames a calendar or migrates it to another timezone.
func (h *Handler) EditCalendar(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["calendarName"]
	var dto CalendarEditDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}
	if err := h.service.EditCalendar(r.Context(), name, dto.Property, dto.NewValue); err != nil {
		writeManagerError(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// UseCalendar selects the active calendar.
func (h *Handler) UseCalendar(w http.ResponseWriter, r *http.Request) {
	var dto CalendarDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}
	if err := h.service.UseCalendar(r.Context(), dto.Name); err != nil {
		writeManagerError(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// ListCalendars returns all calendars, flagging the active one.
func (h *Handler) ListCalendars(w http.ResponseWriter, r *http.Request) {
	activeName, _, _ := h.service.ActiveCalendar()
	names := h.service.CalendarNames()
	dtos := make([]CalendarDTO, 0, len(names))
	for _, name := range names {
		loc, err := h.service.CalendarLocation(name)
		if err != nil {
			continue
		}
		dtos = append(dtos, CalendarDTO{
			Name:     name,
			Timezone: loc.String(),
			Active:   name == activeName,
		})
	}
	rest.WriteJSON(w, http.StatusOK, dtos)
}

// CopyEvent copies one occurrence of the active calendar into another
// calendar at a new start time.
func (h *Handler) CopyEvent(w http.ResponseWriter, r *http.Request) {
	var dto CopyEventDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}
	sourceLoc, ok := h.service.ActiveLocation()
	if !ok {
		writeManagerError(w, ErrNoCalendarSelected)
		return
	}
	sourceStart, err := event.ParseLocalDateTime(dto.SourceStart, sourceLoc)
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid source start", err.Error())
		return
	}
	targetLoc, err := h.service.CalendarLocation(dto.Target)
	if err != nil {
		writeManagerError(w, err)
		return
	}
	targetStart, err := event.ParseLocalDateTime(dto.TargetStart, targetLoc)
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid target start", err.Error())
		return
	}
	if err := h.service.CopyEvent(r.Context(), dto.Subject, sourceStart, dto.Target, targetStart); err != nil {
		writeManagerError(w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
}

// CopyDay copies every occurrence on one date to another calendar.
func (h *Handler) CopyDay(w http.ResponseWriter, r *http.Request) {
	dto, sourceDate, targetDate, ok := h.decodeCopyRange(w, r)
	if !ok {
		return
	}
	copied, err := h.service.CopyEventsOn(r.Context(), sourceDate, dto.Target, targetDate)
	if err != nil {
		writeManagerError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusCreated, map[string]int{"copied": copied})
}

// CopyRange copies the occurrences within an inclusive date range.
func (h *Handler) CopyRange(w http.ResponseWriter, r *http.Request) {
	dto, startDate, targetDate, ok := h.decodeCopyRange(w, r)
	if !ok {
		return
	}
	sourceLoc, _ := h.service.ActiveLocation()
	endDate, err := event.ParseLocalDate(dto.EndDate, sourceLoc)
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid end date", err.Error())
		return
	}
	copied, err := h.service.CopyEventsBetween(r.Context(), startDate, endDate, dto.Target, targetDate)
	if err != nil {
		writeManagerError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusCreated, map[string]int{"copied": copied})
}

func (h *Handler) decodeCopyRange(w http.ResponseWriter, r *http.Request) (CopyRangeDTO, time.Time, time.Time, bool) {
	var dto CopyRangeDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return dto, time.Time{}, time.Time{}, false
	}
	sourceLoc, ok := h.service.ActiveLocation()
	if !ok {
		writeManagerError(w, ErrNoCalendarSelected)
		return dto, time.Time{}, time.Time{}, false
	}
	startDate, err := event.ParseLocalDate(dto.StartDate, sourceLoc)
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid start date", err.Error())
		return dto, time.Time{}, time.Time{}, false
	}
	targetLoc, err := h.service.CalendarLocation(dto.Target)
	if err != nil {
		writeManagerError(w, err)
		return dto, time.Time{}, time.Time{}, false
	}
	targetDate, err := event.ParseLocalDate(dto.TargetDate, targetLoc)
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid target date", err.Error())
		return dto, time.Time{}, time.Time{}, false
	}
	return dto, startDate, targetDate, true
}

// ExportCSV returns the active calendar's occurrences as CSV.
func (h *Handler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	data, err := h.service.ExportCSV(r.Context())
	if err != nil {
		writeManagerError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="calendar.csv"`)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(data)); err != nil {
		log.Errorf("failed to write CSV response: %v", err)
	}
}

// ExportCSVToFile writes the CSV export into the configured export
// directory and returns the absolute path.
func (h *Handler) ExportCSVToFile(w http.ResponseWriter, r *http.Request) {
	var dto ExportDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}
	if dto.FileName == "" {
		rest.WriteError(w, http.StatusBadRequest, "Invalid file name", "'fileName' must not be empty")
		return
	}
	path, err := h.service.ExportCSVToFile(r.Context(), dto.FileName)
	if err != nil {
		writeManagerError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusCreated, map[string]string{"path": path})
}

func writeManagerError(w http.ResponseWriter, err error) {
	var conflict *event.ConflictError
	switch {
	case errors.As(err, &conflict):
		rest.WriteError(w, http.StatusConflict, "Event conflict", conflict.Error())
	case errors.Is(err, ErrCalendarExists):
		rest.WriteError(w, http.StatusConflict, "Calendar already exists", err.Error())
	case errors.Is(err, ErrCalendarNotFound):
		rest.WriteError(w, http.StatusNotFound, "Calendar not found", err.Error())
	case errors.Is(err, ErrNoCalendarSelected):
		rest.WriteError(w, http.StatusConflict, "No calendar selected", err.Error())
	case errors.Is(err, ErrUnknownTimezone):
		rest.WriteError(w, http.StatusBadRequest, "Unknown timezone", err.Error())
	case errors.Is(err, ErrUnsupportedProperty):
		rest.WriteError(w, http.StatusUnprocessableEntity, "Unsupported property", err.Error())
	case errors.Is(err, calendar.ErrNoMatch):
		rest.WriteError(w, http.StatusNotFound, "No matching event", err.Error())
	case errors.Is(err, event.ErrInvalidDate):
		rest.WriteError(w, http.StatusBadRequest, "Invalid request", err.Error())
	default:
		rest.WriteError(w, http.StatusInternalServerError, "Internal error", err.Error())
	}
}
