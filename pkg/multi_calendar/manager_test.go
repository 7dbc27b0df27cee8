package multi_calendar

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager_Create(t *testing.T) {
	manager := NewManager()

	require.NoError(t, manager.Create("work", "Europe/Warsaw"))

	t.Run("duplicate name is rejected", func(t *testing.T) {
		err := manager.Create("work", "UTC")
		assert.ErrorIs(t, err, ErrCalendarExists)
	})

	t.Run("unknown timezone is rejected", func(t *testing.T) {
		err := manager.Create("home", "Mars/Olympus_Mons")
		assert.ErrorIs(t, err, ErrUnknownTimezone)
	})
}

func TestManager_Use(t *testing.T) {
	manager := NewManager()
	require.NoError(t, manager.Create("work", "Europe/Warsaw"))

	_, ok := manager.Active()
	assert.False(t, ok, "no calendar selected initially")

	assert.ErrorIs(t, manager.Use("ghost"), ErrCalendarNotFound)

	require.NoError(t, manager.Use("work"))
	svc, ok := manager.Active()
	require.True(t, ok)
	assert.Equal(t, "work", svc.Calendar().Name())
	name, ok := manager.ActiveName()
	require.True(t, ok)
	assert.Equal(t, "work", name)
}

func TestManager_Edit_Rename(t *testing.T) {
	manager := NewManager()
	require.NoError(t, manager.Create("work", "Europe/Warsaw"))
	require.NoError(t, manager.Create("home", "Europe/Warsaw"))
	require.NoError(t, manager.Use("work"))

	t.Run("rename to a taken name is rejected", func(t *testing.T) {
		assert.ErrorIs(t, manager.Edit("work", "name", "home"), ErrCalendarExists)
	})

	t.Run("rename re-keys the index and follows the active selection", func(t *testing.T) {
		require.NoError(t, manager.Edit("work", "name", "office"))

		_, ok := manager.Get("work")
		assert.False(t, ok, "old name is released")
		svc, ok := manager.Get("office")
		require.True(t, ok)
		assert.Equal(t, "office", svc.Calendar().Name())
		name, ok := manager.ActiveName()
		require.True(t, ok)
		assert.Equal(t, "office", name)
	})
}

func TestManager_Edit_Timezone(t *testing.T) {
	manager := NewManager()
	require.NoError(t, manager.Create("work", "America/New_York"))

	require.NoError(t, manager.Edit("work", "timezone", "Europe/London"))

	svc, _ := manager.Get("work")
	assert.Equal(t, "Europe/London", svc.Calendar().Location().String())

	assert.ErrorIs(t, manager.Edit("work", "timezone", "Nowhere/Here"), ErrUnknownTimezone)
	assert.ErrorIs(t, manager.Edit("ghost", "timezone", "UTC"), ErrCalendarNotFound)
	assert.ErrorIs(t, manager.Edit("work", "color", "blue"), ErrUnsupportedProperty)
}

func TestManager_Names(t *testing.T) {
	manager := NewManager()
	require.NoError(t, manager.Create("work", "UTC"))
	require.NoError(t, manager.Create("home", "UTC"))

	assert.ElementsMatch(t, []string{"work", "home"}, manager.Names())
}
