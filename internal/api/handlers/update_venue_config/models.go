package update_venue_config

import (
	"github.com/m04kA/SMC-VenueSlots/internal/domain"
	"github.com/m04kA/SMC-VenueSlots/pkg/types"
)

// UpdateVenueConfigRequest частичное обновление; отсутствующие поля не меняются
type UpdateVenueConfigRequest struct {
	StartTime           *string `json:"startTime,omitempty"`
	EndTime             *string `json:"endTime,omitempty"`
	SlotDurationMinutes *int    `json:"slotDurationMinutes,omitempty"`
	DaysOfWeek          []int   `json:"daysOfWeek,omitempty"`
	Timezone            *string `json:"timezone,omitempty"`
}

// ToDomain конвертирует запрос в доменный патч
func (r UpdateVenueConfigRequest) ToDomain() (domain.PartialVenueSlotConfig, error) {
	patch := domain.PartialVenueSlotConfig{
		SlotDurationMinutes: r.SlotDurationMinutes,
		DaysOfWeek:          r.DaysOfWeek,
		Timezone:            r.Timezone,
	}
	if r.StartTime != nil {
		start, err := types.NewTimeStringFromString(*r.StartTime)
		if err != nil {
			return domain.PartialVenueSlotConfig{}, err
		}
		patch.StartTime = &start
	}
	if r.EndTime != nil {
		end, err := types.NewTimeStringFromString(*r.EndTime)
		if err != nil {
			return domain.PartialVenueSlotConfig{}, err
		}
		patch.EndTime = &end
	}
	return patch, nil
}
