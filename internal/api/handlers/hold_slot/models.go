package hold_slot

import (
	"time"

	"github.com/m04kA/SMC-VenueSlots/internal/service/slots/models"
)

// HoldSlotRequest тело запроса удержания
type HoldSlotRequest struct {
	BookingID       string `json:"bookingId"`
	DurationMinutes int    `json:"durationMinutes,omitempty"`
}

// HoldSlotResponse HTTP модель удержания
type HoldSlotResponse struct {
	VenueID       string    `json:"venueId"`
	Date          string    `json:"date"`
	StartTime     string    `json:"startTime"`
	UserID        string    `json:"userId"`
	BookingID     string    `json:"bookingId"`
	HoldExpiresAt time.Time `json:"holdExpiresAt"`
	Created       bool      `json:"created"`
}

// ToServiceRequest конвертирует HTTP запрос в модель сервиса
func (r HoldSlotRequest) ToServiceRequest(ref models.SlotRef, userID string) *models.HoldRequest {
	return &models.HoldRequest{
		SlotRef:         ref,
		UserID:          userID,
		BookingID:       r.BookingID,
		DurationMinutes: r.DurationMinutes,
	}
}

// FromServiceResponse конвертирует ответ сервиса в HTTP модель
func FromServiceResponse(venueID string, resp *models.HoldResponse) *HoldSlotResponse {
	return &HoldSlotResponse{
		VenueID:       venueID,
		Date:          resp.Hold.Date,
		StartTime:     resp.Hold.StartTime.String(),
		UserID:        resp.Hold.UserID,
		BookingID:     resp.Hold.BookingID,
		HoldExpiresAt: resp.Hold.HoldExpiresAt,
		Created:       resp.Created,
	}
}
