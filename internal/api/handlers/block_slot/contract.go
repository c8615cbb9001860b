package block_slot

import (
	"context"

	"github.com/m04kA/SMC-VenueSlots/internal/domain"
	"github.com/m04kA/SMC-VenueSlots/internal/service/slots/models"
)

type SlotsService interface {
	Block(ctx context.Context, req *models.BlockRequest) (*domain.BlockedSlot, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
