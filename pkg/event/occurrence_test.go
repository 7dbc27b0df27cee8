package event

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 2025-03-03 is a Monday.

func TestEvent_Occurrences_Single(t *testing.T) {
	ev, err := NewSingle("Meeting", mustDateTime(t, "2025-03-03T09:00"), mustDateTime(t, "2025-03-03T10:00"),
		"", "", false)
	require.NoError(t, err)

	occurrences, err := ev.Occurrences()

	require.NoError(t, err)
	require.Len(t, occurrences, 1)
	assert.Equal(t, ev.ID, occurrences[0].ID)
	assert.Equal(t, ev.Start, occurrences[0].Start)
}

func TestEvent_Occurrences_CountTermination(t *testing.T) {
	ev, err := NewRecurring("Standup", mustDateTime(t, "2025-03-03T09:00"), mustDateTime(t, "2025-03-03T09:30"),
		"", "", false, []time.Weekday{time.Monday, time.Wednesday}, 5, nil)
	require.NoError(t, err)

	occurrences, err := ev.Occurrences()

	require.NoError(t, err)
	require.Len(t, occurrences, 5)
	wantStarts := []string{
		"2025-03-03T09:00", // Mon
		"2025-03-05T09:00", // Wed
		"2025-03-10T09:00",
		"2025-03-12T09:00",
		"2025-03-17T09:00",
	}
	for i, occ := range occurrences {
		assert.Equal(t, wantStarts[i], occ.Start.Format(DateTimeLayout))
		assert.Equal(t, 30*time.Minute, occ.Duration())
		assert.Equal(t, Single, occ.Kind)
		assert.Nil(t, occ.Recurrence)
		assert.Equal(t, ev.ID, occ.ID)
	}
}

func TestEvent_Occurrences_UntilTermination(t *testing.T) {
	until := mustDate(t, "2025-03-12")
	ev, err := NewRecurring("Standup", mustDateTime(t, "2025-03-03T09:00"), mustDateTime(t, "2025-03-03T09:30"),
		"", "", false, []time.Weekday{time.Monday, time.Wednesday}, -1, &until)
	require.NoError(t, err)

	occurrences, err := ev.Occurrences()

	require.NoError(t, err)
	require.Len(t, occurrences, 4)
	// The until date itself is included.
	assert.Equal(t, "2025-03-12T09:00", occurrences[3].Start.Format(DateTimeLayout))
}

func TestEvent_Occurrences_BothTerminations(t *testing.T) {
	// Count would allow ten occurrences, the until date cuts at three.
	until := mustDate(t, "2025-03-10")
	ev, err := NewRecurring("Standup", mustDateTime(t, "2025-03-03T09:00"), mustDateTime(t, "2025-03-03T09:30"),
		"", "", false, []time.Weekday{time.Monday, time.Wednesday}, 10, &until)
	require.NoError(t, err)

	occurrences, err := ev.Occurrences()

	require.NoError(t, err)
	assert.Len(t, occurrences, 3)

	// And the other way round: count cuts before the until date.
	until = mustDate(t, "2025-12-31")
	ev, err = NewRecurring("Standup", mustDateTime(t, "2025-03-03T09:00"), mustDateTime(t, "2025-03-03T09:30"),
		"", "", false, []time.Weekday{time.Monday, time.Wednesday}, 2, &until)
	require.NoError(t, err)

	occurrences, err = ev.Occurrences()

	require.NoError(t, err)
	assert.Len(t, occurrences, 2)
}

func TestEvent_Occurrences_StartNotOnRecurrenceDay(t *testing.T) {
	// The template starts on a Monday but only Fridays recur; the first
	// occurrence is the following Friday.
	ev, err := NewRecurring("Review", mustDateTime(t, "2025-03-03T15:00"), mustDateTime(t, "2025-03-03T16:00"),
		"", "", false, []time.Weekday{time.Friday}, 2, nil)
	require.NoError(t, err)

	occurrences, err := ev.Occurrences()

	require.NoError(t, err)
	require.Len(t, occurrences, 2)
	assert.Equal(t, "2025-03-07T15:00", occurrences[0].Start.Format(DateTimeLayout))
	assert.Equal(t, "2025-03-14T15:00", occurrences[1].Start.Format(DateTimeLayout))
}

func TestEvent_Occurrences_MissingTermination(t *testing.T) {
	ev, err := NewRecurring("Standup", mustDateTime(t, "2025-03-03T09:00"), mustDateTime(t, "2025-03-03T09:30"),
		"", "", false, []time.Weekday{time.Monday}, 3, nil)
	require.NoError(t, err)
	ev.Recurrence.Count = -1 // simulate corruption of the stored rule

	_, err = ev.Occurrences()

	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestEvent_OccursOn(t *testing.T) {
	t.Run("single event spanning midnight", func(t *testing.T) {
		ev, err := NewSingle("Night shift", mustDateTime(t, "2025-03-03T22:00"), mustDateTime(t, "2025-03-04T06:00"),
			"", "", false)
		require.NoError(t, err)

		for date, want := range map[string]bool{
			"2025-03-02": false,
			"2025-03-03": true,
			"2025-03-04": true,
			"2025-03-05": false,
		} {
			on, err := ev.OccursOn(mustDate(t, date))
			require.NoError(t, err)
			assert.Equal(t, want, on, date)
		}
	})

	t.Run("recurring event matches occurrence dates only", func(t *testing.T) {
		ev, err := NewRecurring("Standup", mustDateTime(t, "2025-03-03T09:00"), mustDateTime(t, "2025-03-03T09:30"),
			"", "", false, []time.Weekday{time.Monday}, 2, nil)
		require.NoError(t, err)

		on, err := ev.OccursOn(mustDate(t, "2025-03-10"))
		require.NoError(t, err)
		assert.True(t, on)

		on, err = ev.OccursOn(mustDate(t, "2025-03-11"))
		require.NoError(t, err)
		assert.False(t, on)

		// Count exhausted before the third Monday.
		on, err = ev.OccursOn(mustDate(t, "2025-03-17"))
		require.NoError(t, err)
		assert.False(t, on)
	})
}
