package get_venue_slots

import (
	"github.com/m04kA/SMC-VenueSlots/internal/api/handlers"
	"github.com/m04kA/SMC-VenueSlots/internal/domain"
	getVenueSlots "github.com/m04kA/SMC-VenueSlots/internal/usecase/get_venue_slots"
)

// VenueSlotsResponse HTTP response model
type VenueSlotsResponse struct {
	VenueID             string                  `json:"venueId"`
	StartDate           string                  `json:"startDate"`
	EndDate             string                  `json:"endDate"`
	Initialized         bool                    `json:"initialized"`
	SlotDurationMinutes int                     `json:"slotDurationMinutes,omitempty"`
	Timezone            string                  `json:"timezone,omitempty"`
	Slots               []handlers.SlotResponse `json:"slots"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getVenueSlots.Response) *VenueSlotsResponse {
	slots := make([]handlers.SlotResponse, len(resp.Slots))
	for i, slot := range resp.Slots {
		slots[i] = handlers.FromReconstructedSlot(slot)
	}

	return &VenueSlotsResponse{
		VenueID:             resp.VenueID,
		StartDate:           resp.StartDate.Format(domain.DateFormat),
		EndDate:             resp.EndDate.Format(domain.DateFormat),
		Initialized:         resp.Initialized,
		SlotDurationMinutes: resp.SlotDurationMinutes,
		Timezone:            resp.Timezone,
		Slots:               slots,
	}
}

// ToUseCaseRequest создает запрос use case из query параметров.
// Пустой endDate означает один день.
func ToUseCaseRequest(venueID, startDateStr, endDateStr string) (*getVenueSlots.Request, error) {
	startDate, err := handlers.ParseDate(startDateStr)
	if err != nil {
		return nil, err
	}
	endDate := startDate
	if endDateStr != "" {
		if endDate, err = handlers.ParseDate(endDateStr); err != nil {
			return nil, err
		}
	}

	return &getVenueSlots.Request{
		VenueID:   venueID,
		StartDate: startDate,
		EndDate:   endDate,
	}, nil
}
