package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-VenueSlots/pkg/types"
)

func TestGenerateTimeSlots(t *testing.T) {
	t.Run("hourly grid", func(t *testing.T) {
		slots, err := GenerateTimeSlots("06:00", "22:00", 60)
		require.NoError(t, err)

		require.Len(t, slots, 16)
		assert.Equal(t, types.TimeString("06:00"), slots[0])
		assert.Equal(t, types.TimeString("21:00"), slots[15])
	})

	t.Run("partial trailing slot is dropped", func(t *testing.T) {
		slots, err := GenerateTimeSlots("06:00", "22:30", 60)
		require.NoError(t, err)

		require.Len(t, slots, 16)
		assert.Equal(t, types.TimeString("21:00"), slots[15])
	})

	t.Run("half hour steps across hour boundary", func(t *testing.T) {
		slots, err := GenerateTimeSlots("09:30", "11:00", 30)
		require.NoError(t, err)
		assert.Equal(t, []types.TimeString{"09:30", "10:00", "10:30"}, slots)
	})

	t.Run("slot ending at midnight", func(t *testing.T) {
		slots, err := GenerateTimeSlots("22:00", "24:00", 60)
		require.NoError(t, err)
		assert.Equal(t, []types.TimeString{"22:00", "23:00"}, slots)
	})

	t.Run("start not before end", func(t *testing.T) {
		slots, err := GenerateTimeSlots("22:00", "06:00", 60)
		require.NoError(t, err)
		assert.Empty(t, slots)
	})

	t.Run("unpadded bounds are normalized", func(t *testing.T) {
		slots, err := GenerateTimeSlots("9:00", "11:00", 60)
		require.NoError(t, err)
		assert.Equal(t, []types.TimeString{"09:00", "10:00"}, slots)
	})

	t.Run("non-positive duration", func(t *testing.T) {
		_, err := GenerateTimeSlots("06:00", "22:00", 0)
		assert.ErrorIs(t, err, ErrInvalidConfig)
	})

	t.Run("malformed time", func(t *testing.T) {
		_, err := GenerateTimeSlots("6am", "22:00", 60)
		assert.ErrorIs(t, err, types.ErrInvalidTimeFormat)
	})
}

func TestEndTimeOf(t *testing.T) {
	end, err := EndTimeOf("21:00", 60)
	require.NoError(t, err)
	assert.Equal(t, types.TimeString("22:00"), end)

	end, err = EndTimeOf("10:45", 30)
	require.NoError(t, err)
	assert.Equal(t, types.TimeString("11:15"), end)

	end, err = EndTimeOf("23:00", 60)
	require.NoError(t, err)
	assert.Equal(t, types.TimeString("24:00"), end)

	_, err = EndTimeOf("23:30", 60)
	assert.ErrorIs(t, err, types.ErrOutOfDay)
}
