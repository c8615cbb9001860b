package handlers

import "github.com/m04kA/SMC-VenueSlots/internal/domain"

// VenueConfigResponse HTTP модель конфигурации слотов площадки
type VenueConfigResponse struct {
	VenueID             string `json:"venueId"`
	StartTime           string `json:"startTime"`
	EndTime             string `json:"endTime"`
	SlotDurationMinutes int    `json:"slotDurationMinutes"`
	DaysOfWeek          []int  `json:"daysOfWeek"`
	Timezone            string `json:"timezone"`
}

// FromVenueConfig конвертирует доменную конфигурацию в HTTP модель
func FromVenueConfig(venueID string, cfg domain.VenueSlotConfig) *VenueConfigResponse {
	return &VenueConfigResponse{
		VenueID:             venueID,
		StartTime:           cfg.StartTime.String(),
		EndTime:             cfg.EndTime.String(),
		SlotDurationMinutes: cfg.SlotDurationMinutes,
		DaysOfWeek:          cfg.SortedDays(),
		Timezone:            cfg.Timezone,
	}
}
