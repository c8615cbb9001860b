package unblock_slot

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-VenueSlots/internal/api/handlers"
	"github.com/m04kA/SMC-VenueSlots/internal/domain"
	"github.com/m04kA/SMC-VenueSlots/internal/service/slots"
)

const (
	msgInvalidSlot    = "некорректный адрес слота"
	msgNotInitialized = "площадка не инициализирована"
	msgConflict       = "слот изменяется параллельно, повторите запрос"
)

type Handler struct {
	service SlotsService
	logger  Logger
}

func NewHandler(service SlotsService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle DELETE /api/v1/venues/{venueId}/slots/{date}/{startTime}/block
// Повторный вызов не является ошибкой.
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	ref, err := handlers.SlotRef(r)
	if err != nil {
		h.logger.Warn("DELETE /venues/{id}/slots/{date}/{time}/block - Invalid slot: %v", err)
		handlers.RespondBadRequest(w, msgInvalidSlot)
		return
	}

	if err := h.service.Unblock(r.Context(), ref); err != nil {
		switch {
		case errors.Is(err, slots.ErrInvalidInput):
			h.logger.Warn("DELETE /venues/{id}/slots/{date}/{time}/block - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidSlot)

		case errors.Is(err, domain.ErrNotInitialized):
			h.logger.Warn("DELETE /venues/{id}/slots/{date}/{time}/block - Venue not initialized: venue_id=%s", ref.VenueID)
			handlers.RespondNotFound(w, msgNotInitialized)

		case errors.Is(err, domain.ErrConflict):
			h.logger.Warn("DELETE /venues/{id}/slots/{date}/{time}/block - Conflict: venue_id=%s, slot=%s", ref.VenueID, ref.Key())
			handlers.RespondConflict(w, msgConflict)

		default:
			h.logger.Error("DELETE /venues/{id}/slots/{date}/{time}/block - Failed to unblock: venue_id=%s, slot=%s, error=%v",
				ref.VenueID, ref.Key(), err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("DELETE /venues/{id}/slots/{date}/{time}/block - Slot unblocked: venue_id=%s, slot=%s", ref.VenueID, ref.Key())
	handlers.RespondNoContent(w)
}
