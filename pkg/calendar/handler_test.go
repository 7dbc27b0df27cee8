package calendar

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/kalendo/kalendo/internal/test_utils"
	"github.com/kalendo/kalendo/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupHandlerTest(t *testing.T) *Handler {
	t.Helper()
	loc := test_utils.MustLocation(t, "Europe/Warsaw")
	clock := &utils.MockClock{FixedNow: test_utils.MustDateTime(t, "2025-03-03T09:30", loc)}
	return NewHandler(NewStubEventService(loc), clock)
}

func postEvent(t *testing.T, handler *Handler, dto EventDTO) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(dto)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/api/event", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	handler.CreateEvent(w, req)
	return w
}

func TestHandler_CreateEvent(t *testing.T) {
	t.Run("creates a single event", func(t *testing.T) {
		handler := setupHandlerTest(t)

		w := postEvent(t, handler, EventDTO{
			Subject: "Meeting",
			Start:   "2025-03-03T09:00",
			End:     "2025-03-03T10:00",
		})

		assert.Equal(t, http.StatusCreated, w.Code)
		var got EventDTO
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		assert.Equal(t, "Meeting", got.Subject)
		assert.Equal(t, "2025-03-03T09:00", got.Start)
	})

	t.Run("creates an all-day event", func(t *testing.T) {
		handler := setupHandlerTest(t)

		w := postEvent(t, handler, EventDTO{
			Subject: "Conference",
			AllDay:  true,
			Date:    "2025-03-05",
		})

		assert.Equal(t, http.StatusCreated, w.Code)
		var got EventDTO
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		assert.Equal(t, "2025-03-05T00:00", got.Start)
		assert.Equal(t, "2025-03-05T23:59", got.End)
	})

	t.Run("creates a recurring event", func(t *testing.T) {
		handler := setupHandlerTest(t)

		w := postEvent(t, handler, EventDTO{
			Subject: "Standup",
			Start:   "2025-03-03T09:00",
			End:     "2025-03-03T09:30",
			Recurrence: &RecurrenceDTO{
				Days:  []string{"monday", "Wednesday"},
				Count: 4,
			},
		})

		assert.Equal(t, http.StatusCreated, w.Code)
		var got EventDTO
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		require.NotNil(t, got.Recurrence)
		assert.Equal(t, []string{"monday", "wednesday"}, got.Recurrence.Days)
		assert.Equal(t, 4, got.Recurrence.Count)
	})

	t.Run("rejects invalid dates", func(t *testing.T) {
		handler := setupHandlerTest(t)

		w := postEvent(t, handler, EventDTO{
			Subject: "Meeting",
			Start:   "2025-03-03T10:00",
			End:     "2025-03-03T09:00",
		})

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("reports conflicts for auto-decline events", func(t *testing.T) {
		handler := setupHandlerTest(t)
		w := postEvent(t, handler, EventDTO{
			Subject: "Meeting",
			Start:   "2025-03-03T09:00",
			End:     "2025-03-03T10:00",
		})
		require.Equal(t, http.StatusCreated, w.Code)

		w = postEvent(t, handler, EventDTO{
			Subject:     "Clash",
			Start:       "2025-03-03T09:30",
			End:         "2025-03-03T10:30",
			AutoDecline: true,
		})

		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("rejects unknown weekday names", func(t *testing.T) {
		handler := setupHandlerTest(t)

		w := postEvent(t, handler, EventDTO{
			Subject: "Standup",
			Start:   "2025-03-03T09:00",
			End:     "2025-03-03T09:30",
			Recurrence: &RecurrenceDTO{
				Days:  []string{"Mondayish"},
				Count: 4,
			},
		})

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestHandler_EditEvent(t *testing.T) {
	handler := setupHandlerTest(t)
	w := postEvent(t, handler, EventDTO{
		Subject: "Meeting",
		Start:   "2025-03-03T09:00",
		End:     "2025-03-03T10:00",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	edit := func(dto EditDTO) *httptest.ResponseRecorder {
		body, err := json.Marshal(dto)
		require.NoError(t, err)
		req := httptest.NewRequest(http.MethodPatch, "/api/event", bytes.NewBuffer(body))
		w := httptest.NewRecorder()
		handler.EditEvent(w, req)
		return w
	}

	t.Run("edits a matching event", func(t *testing.T) {
		w := edit(EditDTO{
			Subject:  "Meeting",
			From:     "2025-03-03T09:00",
			Property: "location",
			NewValue: "Room 5",
			Scope:    "single",
		})
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("unknown subject is a 404", func(t *testing.T) {
		w := edit(EditDTO{
			Subject:  "Ghost",
			From:     "2025-03-03T09:00",
			Property: "location",
			NewValue: "Room 5",
			Scope:    "single",
		})
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("bad scope is a 422", func(t *testing.T) {
		w := edit(EditDTO{
			Subject:  "Meeting",
			From:     "2025-03-03T09:00",
			Property: "location",
			NewValue: "Room 5",
			Scope:    "everything",
		})
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})
}

func TestHandler_GetEventsOn(t *testing.T) {
	handler := setupHandlerTest(t)
	w := postEvent(t, handler, EventDTO{
		Subject: "Meeting",
		Start:   "2025-03-03T09:00",
		End:     "2025-03-03T10:00",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/event?date=2025-03-03", nil)
	w = httptest.NewRecorder()
	handler.GetEventsOn(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var got []EventDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "Meeting", got[0].Subject)

	req = httptest.NewRequest(http.MethodGet, "/api/event?date=03.03.2025", nil)
	w = httptest.NewRecorder()
	handler.GetEventsOn(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandler_GetStatus(t *testing.T) {
	handler := setupHandlerTest(t)
	w := postEvent(t, handler, EventDTO{
		Subject: "Meeting",
		Start:   "2025-03-03T09:00",
		End:     "2025-03-03T10:00",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	status := func(url string) map[string]bool {
		req := httptest.NewRequest(http.MethodGet, url, nil)
		w := httptest.NewRecorder()
		handler.GetStatus(w, req)
		require.Equal(t, http.StatusOK, w.Code)
		var got map[string]bool
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		return got
	}

	// The mock clock is fixed inside the event's interval.
	assert.True(t, status("/api/status")["busy"])
	assert.False(t, status("/api/status?at=2025-03-03T11:00")["busy"])
	assert.True(t, status("/api/status?at=2025-03-03T09:45")["busy"])
}

func TestHandler_PrintEvents(t *testing.T) {
	handler := setupHandlerTest(t)
	w := postEvent(t, handler, EventDTO{
		Subject: "Meeting",
		Start:   "2025-03-03T09:00",
		End:     "2025-03-03T10:00",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/event/print?date=2025-03-03", nil)
	w = httptest.NewRecorder()
	handler.PrintEvents(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Events on 2025-03-03:\n- Meeting at 2025-03-03T09:00\n", w.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/api/event/print?from=2025-03-03T00:00&to=2025-03-04T00:00", nil)
	w = httptest.NewRecorder()
	handler.PrintEvents(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "- Meeting at 2025-03-03T09:00")
}
