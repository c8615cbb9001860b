package domain

import (
	"time"

	"github.com/m04kA/SMC-VenueSlots/pkg/types"
)

// SlotStatus is the derived state of a slot cell
type SlotStatus string

const (
	SlotStatusAvailable SlotStatus = "AVAILABLE"
	SlotStatusBlocked   SlotStatus = "BLOCKED"
	SlotStatusBooked    SlotStatus = "BOOKED"
	SlotStatusHeld      SlotStatus = "HELD"
	SlotStatusReserved  SlotStatus = "RESERVED"
)

// SlotKey identifies a slot cell within one venue aggregate
type SlotKey struct {
	Date      string // YYYY-MM-DD
	StartTime types.TimeString
}

// NewSlotKey builds a key from the calendar date of day
func NewSlotKey(day time.Time, startTime types.TimeString) SlotKey {
	return SlotKey{Date: day.Format(DateFormat), StartTime: startTime}
}

func (k SlotKey) String() string {
	return k.Date + " " + k.StartTime.String()
}

// ReconstructedSlot is one cell of the grid annotated with its status.
// Optional fields are set only for the status that owns them.
type ReconstructedSlot struct {
	Date          string
	StartTime     types.TimeString
	EndTime       types.TimeString
	Status        SlotStatus
	BookingType   *BookingType
	BookingStatus *BookedStatus
	BookingID     *string
	CustomerName  *string
	CustomerPhone *string
	UserID        *string
	Reason        *string
	Note          *string
	HoldExpiresAt *time.Time
}

// IsAvailable returns true if the slot can be held or booked
func (s *ReconstructedSlot) IsAvailable() bool {
	return s.Status == SlotStatusAvailable
}
