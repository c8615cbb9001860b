package release_hold

import (
	"context"

	"github.com/m04kA/SMC-VenueSlots/internal/service/slots/models"
)

type SlotsService interface {
	ReleaseHold(ctx context.Context, ref models.SlotRef) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
