package handlers

import (
	"time"

	"github.com/m04kA/SMC-VenueSlots/internal/domain"
	"github.com/m04kA/SMC-VenueSlots/pkg/ptr"
)

// SlotResponse HTTP модель восстановленного слота
type SlotResponse struct {
	Date          string     `json:"date"`
	StartTime     string     `json:"startTime"`
	EndTime       string     `json:"endTime"`
	Status        string     `json:"status"`
	BookingType   *string    `json:"bookingType,omitempty"`
	BookingStatus *string    `json:"bookingStatus,omitempty"`
	BookingID     *string    `json:"bookingId,omitempty"`
	CustomerName  *string    `json:"customerName,omitempty"`
	CustomerPhone *string    `json:"customerPhone,omitempty"`
	UserID        *string    `json:"userId,omitempty"`
	Reason        *string    `json:"reason,omitempty"`
	Note          *string    `json:"note,omitempty"`
	HoldExpiresAt *time.Time `json:"holdExpiresAt,omitempty"`
}

// FromReconstructedSlot конвертирует доменный слот в HTTP модель
func FromReconstructedSlot(s domain.ReconstructedSlot) SlotResponse {
	resp := SlotResponse{
		Date:          s.Date,
		StartTime:     s.StartTime.String(),
		EndTime:       s.EndTime.String(),
		Status:        string(s.Status),
		BookingID:     s.BookingID,
		CustomerName:  s.CustomerName,
		CustomerPhone: s.CustomerPhone,
		UserID:        s.UserID,
		Reason:        s.Reason,
		Note:          s.Note,
		HoldExpiresAt: s.HoldExpiresAt,
	}
	if s.BookingType != nil {
		resp.BookingType = ptr.Ptr(string(*s.BookingType))
	}
	if s.BookingStatus != nil {
		resp.BookingStatus = ptr.Ptr(string(*s.BookingStatus))
	}
	return resp
}
