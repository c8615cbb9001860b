package initialize_venue

import (
	"github.com/m04kA/SMC-VenueSlots/internal/domain"
	"github.com/m04kA/SMC-VenueSlots/pkg/types"
)

// InitializeVenueRequest тело запроса инициализации площадки
type InitializeVenueRequest struct {
	StartTime           string `json:"startTime"`
	EndTime             string `json:"endTime"`
	SlotDurationMinutes int    `json:"slotDurationMinutes"`
	DaysOfWeek          []int  `json:"daysOfWeek"`
	Timezone            string `json:"timezone,omitempty"`
}

// ToDomain конвертирует запрос в доменную конфигурацию
func (r InitializeVenueRequest) ToDomain() (domain.VenueSlotConfig, error) {
	start, err := types.NewTimeStringFromString(r.StartTime)
	if err != nil {
		return domain.VenueSlotConfig{}, err
	}
	end, err := types.NewTimeStringFromString(r.EndTime)
	if err != nil {
		return domain.VenueSlotConfig{}, err
	}
	return domain.VenueSlotConfig{
		StartTime:           start,
		EndTime:             end,
		SlotDurationMinutes: r.SlotDurationMinutes,
		DaysOfWeek:          r.DaysOfWeek,
		Timezone:            r.Timezone,
	}, nil
}
