package reserve_slot

import (
	"context"

	"github.com/m04kA/SMC-VenueSlots/internal/service/slots/models"
)

type SlotsService interface {
	Reserve(ctx context.Context, req *models.ReserveRequest) (*models.ReserveResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
