package domain

import (
	"fmt"

	"github.com/m04kA/SMC-VenueSlots/pkg/types"
)

// GenerateTimeSlots returns slot start times from start, stepping by
// durationMinutes. A slot whose end would pass end is not emitted, so a
// trailing partial slot is dropped. start >= end yields an empty grid.
// Times are emitted in the normalized "HH:MM" form.
func GenerateTimeSlots(start, end types.TimeString, durationMinutes int) ([]types.TimeString, error) {
	if durationMinutes <= 0 {
		return nil, fmt.Errorf("%w: slot duration must be positive, got %d", ErrInvalidConfig, durationMinutes)
	}
	start, err := start.Normalize()
	if err != nil {
		return nil, err
	}
	end, err = end.Normalize()
	if err != nil {
		return nil, err
	}

	slots := make([]types.TimeString, 0)
	current := start
	for current.IsBefore(end) {
		slotEnd, err := current.AddMinutes(durationMinutes)
		if err != nil || slotEnd.IsAfter(end) {
			break
		}
		slots = append(slots, current)
		current = slotEnd
	}
	return slots, nil
}

// EndTimeOf returns start + durationMinutes. "24:00" is a valid result;
// anything later returns types.ErrOutOfDay.
func EndTimeOf(start types.TimeString, durationMinutes int) (types.TimeString, error) {
	return start.AddMinutes(durationMinutes)
}
