package update_venue_config

import (
	"context"

	"github.com/m04kA/SMC-VenueSlots/internal/domain"
)

type VenueService interface {
	UpdateConfig(ctx context.Context, venueID string, patch domain.PartialVenueSlotConfig) (*domain.VenueSlotConfig, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
