package get_venue_slots

import (
	"fmt"
	"strings"

	"github.com/m04kA/SMC-VenueSlots/internal/domain"
)

func validateRequest(req *Request) error {
	if req == nil {
		return fmt.Errorf("%w: request is required", ErrInvalidInput)
	}
	if strings.TrimSpace(req.VenueID) == "" {
		return fmt.Errorf("%w: venueId is required", ErrInvalidInput)
	}
	if req.StartDate.IsZero() || req.EndDate.IsZero() {
		return fmt.Errorf("%w: startDate and endDate are required", ErrInvalidInput)
	}

	from, to := calendarDate(req.StartDate), calendarDate(req.EndDate)
	if to.Before(from) {
		return fmt.Errorf("%w: endDate is before startDate", ErrInvalidInput)
	}
	if days := int(to.Sub(from).Hours()/24) + 1; days > domain.MaxReconstructDays {
		return fmt.Errorf("%w: range of %d days exceeds %d", ErrInvalidInput, days, domain.MaxReconstructDays)
	}
	return nil
}

func validateStatusRequest(req *SlotStatusRequest) error {
	if req == nil {
		return fmt.Errorf("%w: request is required", ErrInvalidInput)
	}
	if strings.TrimSpace(req.VenueID) == "" {
		return fmt.Errorf("%w: venueId is required", ErrInvalidInput)
	}
	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}
	startTime, err := req.StartTime.Normalize()
	if err != nil {
		return fmt.Errorf("%w: startTime: %v", ErrInvalidInput, err)
	}
	req.StartTime = startTime
	return nil
}
