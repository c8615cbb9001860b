package reserve_slot

import (
	"time"

	"github.com/m04kA/SMC-VenueSlots/internal/service/slots/models"
)

// ReserveSlotRequest тело запроса резерва (может отсутствовать)
type ReserveSlotRequest struct {
	Note *string `json:"note,omitempty"`
}

// ReserveSlotResponse HTTP модель резерва
type ReserveSlotResponse struct {
	ReservationID string    `json:"reservationId"`
	VenueID       string    `json:"venueId"`
	Date          string    `json:"date"`
	StartTime     string    `json:"startTime"`
	ReservedBy    string    `json:"reservedBy"`
	Note          *string   `json:"note,omitempty"`
	ReservedAt    time.Time `json:"reservedAt"`
}

// FromServiceResponse конвертирует ответ сервиса в HTTP модель
func FromServiceResponse(venueID string, resp *models.ReserveResponse) *ReserveSlotResponse {
	return &ReserveSlotResponse{
		ReservationID: resp.ReservationID,
		VenueID:       venueID,
		Date:          resp.Reserved.Date,
		StartTime:     resp.Reserved.StartTime.String(),
		ReservedBy:    resp.Reserved.ReservedBy,
		Note:          resp.Reserved.Note,
		ReservedAt:    resp.Reserved.ReservedAt,
	}
}
