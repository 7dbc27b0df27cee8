package calendar

import (
	"testing"
	"time"

	"github.com/kalendo/kalendo/internal/test_utils"
	"github.com/kalendo/kalendo/pkg/event"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrinter_EventsOn(t *testing.T) {
	loc := test_utils.MustLocation(t, "Europe/Warsaw")
	cal := New("work", loc)
	printer := NewPrinter(cal)

	withLocation := singleEvent(t, "Meeting", "2025-03-05T14:00", "2025-03-05T15:00", loc, false)
	withLocation.Location = "Room 2"
	require.NoError(t, cal.Add(withLocation))
	require.NoError(t, cal.Add(singleEvent(t, "Lunch", "2025-03-05T12:00", "2025-03-05T13:00", loc, false)))

	out, err := printer.EventsOn(test_utils.MustDate(t, "2025-03-05", loc))

	require.NoError(t, err)
	assert.Equal(t, "Events on 2025-03-05:\n"+
		"- Meeting at Room 2 2025-03-05T14:00\n"+
		"- Lunch at 2025-03-05T12:00\n", out)
}

func TestPrinter_EventsOn_EmptyDay(t *testing.T) {
	loc := test_utils.MustLocation(t, "Europe/Warsaw")
	printer := NewPrinter(New("work", loc))

	out, err := printer.EventsOn(test_utils.MustDate(t, "2025-03-05", loc))

	require.NoError(t, err)
	assert.Equal(t, "Events on 2025-03-05:\n", out)
}

func TestPrinter_EventsRange(t *testing.T) {
	loc := test_utils.MustLocation(t, "Europe/Warsaw")
	cal := New("work", loc)
	printer := NewPrinter(cal)

	series, err := event.NewRecurring("Standup",
		test_utils.MustDateTime(t, "2025-03-03T09:00", loc),
		test_utils.MustDateTime(t, "2025-03-03T09:30", loc),
		"", "", false, []time.Weekday{time.Monday, time.Wednesday}, 4, nil)
	require.NoError(t, err)
	require.NoError(t, cal.Add(series))

	// [Mar 5 00:00, Mar 12 00:00) keeps the middle two occurrences; the
	// range end is exclusive.
	out, err := printer.EventsRange(
		test_utils.MustDateTime(t, "2025-03-05T00:00", loc),
		test_utils.MustDateTime(t, "2025-03-12T00:00", loc))

	require.NoError(t, err)
	assert.Equal(t, "Events from 2025-03-05T00:00 to 2025-03-12T00:00:\n"+
		"- Standup at 2025-03-05T09:00\n"+
		"- Standup at 2025-03-10T09:00\n", out)
}
