package domain

import (
	"time"

	"github.com/m04kA/SMC-VenueSlots/pkg/types"
)

// SlotEventType names a committed change of the venue aggregate
type SlotEventType string

const (
	EventSlotHeld           SlotEventType = "slot.held"
	EventSlotHoldReleased   SlotEventType = "slot.hold_released"
	EventSlotBooked         SlotEventType = "slot.booked"
	EventSlotUnbooked       SlotEventType = "slot.unbooked"
	EventSlotBlocked        SlotEventType = "slot.blocked"
	EventSlotUnblocked      SlotEventType = "slot.unblocked"
	EventSlotReserved       SlotEventType = "slot.reserved"
	EventSlotUnreserved     SlotEventType = "slot.unreserved"
	EventHoldsCleaned       SlotEventType = "slot.holds_cleaned"
	EventVenueInitialized   SlotEventType = "venue.initialized"
	EventVenueConfigUpdated SlotEventType = "venue.config_updated"
)

// SlotEvent is published after a state change has been committed.
// Date/StartTime are empty for venue-wide events.
type SlotEvent struct {
	Type       SlotEventType
	VenueID    string
	Date       string
	StartTime  types.TimeString
	UserID     *string
	BookingID  *string
	Count      *int
	OccurredAt time.Time
}
