package get_slot_status

import (
	"context"

	"github.com/m04kA/SMC-VenueSlots/internal/domain"
	getVenueSlots "github.com/m04kA/SMC-VenueSlots/internal/usecase/get_venue_slots"
)

type GetSlotStatusUseCase interface {
	GetSlotStatus(ctx context.Context, req *getVenueSlots.SlotStatusRequest) (*domain.ReconstructedSlot, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
