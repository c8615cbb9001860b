package domain

import (
	"time"

	"github.com/m04kA/SMC-VenueSlots/pkg/types"
)

// BookingType represents how a booking was made
type BookingType string

const (
	BookingTypePhysical BookingType = "physical"
	BookingTypeOnline   BookingType = "online"
)

// IsValid returns true for known booking types
func (t BookingType) IsValid() bool {
	return t == BookingTypePhysical || t == BookingTypeOnline
}

// BookedStatus represents the payment state of a booking
type BookedStatus string

const (
	BookedStatusConfirmed      BookedStatus = "confirmed"
	BookedStatusPendingPayment BookedStatus = "pending_payment"
)

// IsValid returns true for known booking statuses
func (s BookedStatus) IsValid() bool {
	return s == BookedStatusConfirmed || s == BookedStatusPendingPayment
}

// BlockedSlot marks a slot as closed by the venue
type BlockedSlot struct {
	Date      string
	StartTime types.TimeString
	Reason    *string
	BlockedBy *string
	BlockedAt time.Time
}

func (s BlockedSlot) Key() SlotKey {
	return SlotKey{Date: s.Date, StartTime: s.StartTime}
}

// BookedSlot is a confirmed or pending-payment booking
type BookedSlot struct {
	Date          string
	StartTime     types.TimeString
	BookingID     string
	BookingType   BookingType
	Status        BookedStatus
	CustomerName  *string
	CustomerPhone *string
	Notes         *string
	UserID        *string
	CreatedAt     time.Time
}

func (s BookedSlot) Key() SlotKey {
	return SlotKey{Date: s.Date, StartTime: s.StartTime}
}

// HeldSlot is a temporary hold taken while the user completes payment
type HeldSlot struct {
	Date          string
	StartTime     types.TimeString
	UserID        string
	BookingID     string
	HoldExpiresAt time.Time
	CreatedAt     time.Time
}

func (s HeldSlot) Key() SlotKey {
	return SlotKey{Date: s.Date, StartTime: s.StartTime}
}

// IsActive returns true while the hold has not expired
func (s HeldSlot) IsActive(now time.Time) bool {
	return s.HoldExpiresAt.After(now)
}

// ReservedSlot is set aside by the venue, e.g. for a walk-in customer
type ReservedSlot struct {
	Date       string
	StartTime  types.TimeString
	ReservedBy string
	Note       *string
	ReservedAt time.Time
}

func (s ReservedSlot) Key() SlotKey {
	return SlotKey{Date: s.Date, StartTime: s.StartTime}
}
