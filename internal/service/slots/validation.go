package slots

import (
	"fmt"
	"strings"

	"github.com/m04kA/SMC-VenueSlots/internal/domain"
	"github.com/m04kA/SMC-VenueSlots/internal/service/slots/models"
	"github.com/m04kA/SMC-VenueSlots/pkg/types"
)

// validateSlotRef проверяет площадку, дату и время начала слота
// и приводит время начала к виду "HH:MM", чтобы "9:00" и "09:00" давали один ключ
func validateSlotRef(ref *models.SlotRef) error {
	if strings.TrimSpace(ref.VenueID) == "" {
		return fmt.Errorf("%w: venueId is required", ErrInvalidInput)
	}
	if ref.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}
	minutes, err := ref.StartTime.Minutes()
	if err != nil {
		return fmt.Errorf("%w: startTime: %v", ErrInvalidInput, err)
	}
	if minutes >= 24*60 {
		return fmt.Errorf("%w: startTime %s is not a slot start", ErrInvalidInput, ref.StartTime)
	}
	ref.StartTime, err = types.NewTimeStringFromMinutes(minutes)
	if err != nil {
		return fmt.Errorf("%w: startTime: %v", ErrInvalidInput, err)
	}
	return nil
}

func validateHoldRequest(req *models.HoldRequest) error {
	if err := validateSlotRef(&req.SlotRef); err != nil {
		return err
	}
	if strings.TrimSpace(req.UserID) == "" {
		return fmt.Errorf("%w: userId is required", ErrInvalidInput)
	}
	if strings.TrimSpace(req.BookingID) == "" {
		return fmt.Errorf("%w: bookingId is required", ErrInvalidInput)
	}
	if req.DurationMinutes != 0 &&
		(req.DurationMinutes < domain.MinHoldDurationMinutes || req.DurationMinutes > domain.MaxHoldDurationMinutes) {
		return fmt.Errorf("%w: hold duration must be between %d and %d minutes",
			ErrInvalidInput, domain.MinHoldDurationMinutes, domain.MaxHoldDurationMinutes)
	}
	return nil
}

func validateBookRequest(req *models.BookRequest) error {
	if err := validateSlotRef(&req.SlotRef); err != nil {
		return err
	}
	if strings.TrimSpace(req.BookingID) == "" {
		return fmt.Errorf("%w: bookingId is required", ErrInvalidInput)
	}
	if !req.BookingType.IsValid() {
		return fmt.Errorf("%w: unknown booking type %q", ErrInvalidInput, req.BookingType)
	}
	if !req.Status.IsValid() {
		return fmt.Errorf("%w: unknown booking status %q", ErrInvalidInput, req.Status)
	}
	if req.Notes != nil && len(*req.Notes) > domain.MaxNotesLength {
		return fmt.Errorf("%w: notes exceed %d characters", ErrInvalidInput, domain.MaxNotesLength)
	}
	return nil
}

func validateBlockRequest(req *models.BlockRequest) error {
	if err := validateSlotRef(&req.SlotRef); err != nil {
		return err
	}
	if req.Reason != nil && len(*req.Reason) > domain.MaxReasonLength {
		return fmt.Errorf("%w: reason exceeds %d characters", ErrInvalidInput, domain.MaxReasonLength)
	}
	return nil
}

func validateReserveRequest(req *models.ReserveRequest) error {
	if err := validateSlotRef(&req.SlotRef); err != nil {
		return err
	}
	if strings.TrimSpace(req.ReservedBy) == "" {
		return fmt.Errorf("%w: reservedBy is required", ErrInvalidInput)
	}
	if req.Note != nil && len(*req.Note) > domain.MaxNotesLength {
		return fmt.Errorf("%w: note exceeds %d characters", ErrInvalidInput, domain.MaxNotesLength)
	}
	return nil
}
