package get_venue_slots

import (
	"time"

	"github.com/m04kA/SMC-VenueSlots/internal/domain"
	"github.com/m04kA/SMC-VenueSlots/pkg/ptr"
	"github.com/m04kA/SMC-VenueSlots/pkg/types"
)

// reconstruct строит сетку за период [from, to] и размечает каждую ячейку статусом.
// Прошедшие ячейки пропускаются целиком.
func reconstruct(slots *domain.VenueSlots, from, to, now time.Time) ([]domain.ReconstructedSlot, error) {
	cfg := slots.Config
	grid, err := domain.GenerateTimeSlots(cfg.StartTime, cfg.EndTime, cfg.SlotDurationMinutes)
	if err != nil {
		return nil, err
	}
	loc := cfg.Location()
	index := slots.Index()

	result := make([]domain.ReconstructedSlot, 0)
	for day := from; !day.After(to); day = day.AddDate(0, 0, 1) {
		if !cfg.IsOpenOn(day.Weekday()) {
			continue
		}
		for _, start := range grid {
			startsAt, err := start.On(day, loc)
			if err != nil {
				return nil, err
			}
			if startsAt.Before(now) {
				continue
			}
			slot, err := resolve(index, domain.NewSlotKey(day, start), cfg.SlotDurationMinutes, now)
			if err != nil {
				return nil, err
			}
			result = append(result, slot)
		}
	}
	return result, nil
}

// resolve определяет статус ячейки по приоритету:
// BLOCKED > BOOKED > HELD (активный) > RESERVED > AVAILABLE
func resolve(index *domain.SlotIndex, key domain.SlotKey, durationMinutes int, now time.Time) (domain.ReconstructedSlot, error) {
	end, err := domain.EndTimeOf(key.StartTime, durationMinutes)
	if err != nil {
		return domain.ReconstructedSlot{}, err
	}
	slot := domain.ReconstructedSlot{
		Date:      key.Date,
		StartTime: key.StartTime,
		EndTime:   end,
		Status:    domain.SlotStatusAvailable,
	}

	if blocked, ok := index.Blocked(key); ok {
		slot.Status = domain.SlotStatusBlocked
		slot.Reason = blocked.Reason
		return slot, nil
	}
	if booking, ok := index.Booking(key); ok {
		slot.Status = domain.SlotStatusBooked
		slot.BookingID = ptr.Ptr(booking.BookingID)
		slot.BookingType = ptr.Ptr(booking.BookingType)
		slot.BookingStatus = ptr.Ptr(booking.Status)
		slot.CustomerName = booking.CustomerName
		slot.CustomerPhone = booking.CustomerPhone
		slot.UserID = booking.UserID
		slot.Note = booking.Notes
		return slot, nil
	}
	if hold, ok := index.ActiveHold(key, now); ok {
		slot.Status = domain.SlotStatusHeld
		slot.UserID = ptr.Ptr(hold.UserID)
		slot.BookingID = ptr.Ptr(hold.BookingID)
		slot.HoldExpiresAt = ptr.Ptr(hold.HoldExpiresAt)
		return slot, nil
	}
	if reserved, ok := index.Reserved(key); ok {
		slot.Status = domain.SlotStatusReserved
		slot.UserID = ptr.NilIfEmpty(reserved.ReservedBy)
		slot.Note = reserved.Note
		return slot, nil
	}
	return slot, nil
}

// onGrid проверяет, что startTime является началом ячейки сетки
func onGrid(cfg domain.VenueSlotConfig, startTime types.TimeString) (bool, error) {
	grid, err := domain.GenerateTimeSlots(cfg.StartTime, cfg.EndTime, cfg.SlotDurationMinutes)
	if err != nil {
		return false, err
	}
	for _, start := range grid {
		if start.Equal(startTime) {
			return true, nil
		}
	}
	return false, nil
}

// calendarDate отбрасывает время и зону, оставляя календарную дату в UTC
func calendarDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
