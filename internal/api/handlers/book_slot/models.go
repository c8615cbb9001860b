package book_slot

import (
	"time"

	"github.com/m04kA/SMC-VenueSlots/internal/domain"
	"github.com/m04kA/SMC-VenueSlots/internal/service/slots/models"
	"github.com/m04kA/SMC-VenueSlots/pkg/ptr"
)

// BookSlotRequest тело запроса бронирования.
// userId по умолчанию берется из X-User-ID.
type BookSlotRequest struct {
	BookingID     string  `json:"bookingId"`
	BookingType   string  `json:"bookingType"`
	Status        string  `json:"status"`
	CustomerName  *string `json:"customerName,omitempty"`
	CustomerPhone *string `json:"customerPhone,omitempty"`
	Notes         *string `json:"notes,omitempty"`
	UserID        *string `json:"userId,omitempty"`
}

// BookSlotResponse HTTP модель бронирования
type BookSlotResponse struct {
	VenueID       string    `json:"venueId"`
	Date          string    `json:"date"`
	StartTime     string    `json:"startTime"`
	BookingID     string    `json:"bookingId"`
	BookingType   string    `json:"bookingType"`
	Status        string    `json:"status"`
	CustomerName  *string   `json:"customerName,omitempty"`
	CustomerPhone *string   `json:"customerPhone,omitempty"`
	Notes         *string   `json:"notes,omitempty"`
	UserID        *string   `json:"userId,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
}

// ToServiceRequest конвертирует HTTP запрос в модель сервиса
func (r BookSlotRequest) ToServiceRequest(ref models.SlotRef, callerID string) *models.BookRequest {
	userID := r.UserID
	if userID == nil || *userID == "" {
		userID = ptr.NilIfEmpty(callerID)
	}
	status := domain.BookedStatus(r.Status)
	if status == "" {
		status = domain.BookedStatusConfirmed
	}
	return &models.BookRequest{
		SlotRef:       ref,
		BookingID:     r.BookingID,
		BookingType:   domain.BookingType(r.BookingType),
		Status:        status,
		CustomerName:  r.CustomerName,
		CustomerPhone: r.CustomerPhone,
		Notes:         r.Notes,
		UserID:        userID,
	}
}

// FromDomain конвертирует запись бронирования в HTTP модель
func FromDomain(venueID string, b *domain.BookedSlot) *BookSlotResponse {
	return &BookSlotResponse{
		VenueID:       venueID,
		Date:          b.Date,
		StartTime:     b.StartTime.String(),
		BookingID:     b.BookingID,
		BookingType:   string(b.BookingType),
		Status:        string(b.Status),
		CustomerName:  b.CustomerName,
		CustomerPhone: b.CustomerPhone,
		Notes:         b.Notes,
		UserID:        b.UserID,
		CreatedAt:     b.CreatedAt,
	}
}
