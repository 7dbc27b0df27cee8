package export

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/kalendo/kalendo/internal/test_utils"
	"github.com/kalendo/kalendo/pkg/event"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSVRenderer_Render(t *testing.T) {
	loc := test_utils.MustLocation(t, "Europe/Warsaw")
	renderer := NewCSVRenderer()

	meeting, err := event.NewSingle("Team Meeting",
		test_utils.MustDateTime(t, "2025-03-03T09:00", loc),
		test_utils.MustDateTime(t, "2025-03-03T10:00", loc),
		"weekly sync", "Room 2", true)
	require.NoError(t, err)
	lunch, err := event.NewSingle("Lunch, extended",
		test_utils.MustDateTime(t, "2025-03-03T12:00:30", loc),
		test_utils.MustDateTime(t, "2025-03-03T13:00", loc),
		"", "", false)
	require.NoError(t, err)

	out, err := renderer.Render([]event.Event{*meeting, *lunch})

	require.NoError(t, err)
	assert.Equal(t,
		"Subject,Start Date,Start Time,End Date,End Time,Description,Location,Public\n"+
			"Team Meeting,2025-03-03,09:00,2025-03-03,10:00,weekly sync,Room 2,true\n"+
			// A comma in the subject gets quoted; seconds only appear
			// when non-zero.
			"\"Lunch, extended\",2025-03-03,12:00:30,2025-03-03,13:00,,,false\n",
		out)
}

func TestCSVRenderer_Render_Empty(t *testing.T) {
	out, err := NewCSVRenderer().Render(nil)

	require.NoError(t, err)
	assert.Equal(t, "Subject,Start Date,Start Time,End Date,End Time,Description,Location,Public\n", out)
}

func TestCSVRenderer_Render_ExpandedSeries(t *testing.T) {
	loc := test_utils.MustLocation(t, "Europe/Warsaw")
	series, err := event.NewRecurring("Standup",
		test_utils.MustDateTime(t, "2025-03-03T09:00", loc),
		test_utils.MustDateTime(t, "2025-03-03T09:30", loc),
		"", "", false, []time.Weekday{time.Monday}, 3, nil)
	require.NoError(t, err)
	occurrences, err := series.Occurrences()
	require.NoError(t, err)

	out, err := NewCSVRenderer().Render(occurrences)

	require.NoError(t, err)
	assert.Contains(t, out, "Standup,2025-03-03,09:00,2025-03-03,09:30,,,false\n")
	assert.Contains(t, out, "Standup,2025-03-10,09:00,2025-03-10,09:30,,,false\n")
	assert.Contains(t, out, "Standup,2025-03-17,09:00,2025-03-17,09:30,,,false\n")
}

func TestCSVRenderer_ExportToFile(t *testing.T) {
	loc := test_utils.MustLocation(t, "Europe/Warsaw")
	meeting, err := event.NewSingle("Meeting",
		test_utils.MustDateTime(t, "2025-03-03T09:00", loc),
		test_utils.MustDateTime(t, "2025-03-03T10:00", loc),
		"", "", false)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "calendar.csv")
	absPath, err := NewCSVRenderer().ExportToFile(path, []event.Event{*meeting})

	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(absPath))
	content, err := os.ReadFile(absPath)
	require.NoError(t, err)
	assert.Contains(t, string(content), "Meeting,2025-03-03,09:00,2025-03-03,10:00,,,false\n")
}
