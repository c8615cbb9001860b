package initialize_venue

import (
	"context"

	"github.com/m04kA/SMC-VenueSlots/internal/domain"
)

type VenueService interface {
	Initialize(ctx context.Context, venueID string, config domain.VenueSlotConfig) (*domain.VenueSlots, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
