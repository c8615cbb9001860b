package clean_expired_holds

import (
	"context"

	"github.com/m04kA/SMC-VenueSlots/internal/service/slots/models"
)

type SlotsService interface {
	CleanExpiredHolds(ctx context.Context, venueID string) (*models.CleanupResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
