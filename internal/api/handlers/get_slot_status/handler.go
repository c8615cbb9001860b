package get_slot_status

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-VenueSlots/internal/api/handlers"
	"github.com/m04kA/SMC-VenueSlots/internal/domain"
	getVenueSlots "github.com/m04kA/SMC-VenueSlots/internal/usecase/get_venue_slots"
)

const (
	msgInvalidSlot    = "некорректный адрес слота"
	msgNotInitialized = "площадка не инициализирована"
	msgSlotNotFound   = "слот не найден"
)

type Handler struct {
	useCase GetSlotStatusUseCase
	logger  Logger
}

func NewHandler(useCase GetSlotStatusUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/venues/{venueId}/slots/{date}/{startTime}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	ref, err := handlers.SlotRef(r)
	if err != nil {
		h.logger.Warn("GET /venues/{id}/slots/{date}/{time} - Invalid slot: %v", err)
		handlers.RespondBadRequest(w, msgInvalidSlot)
		return
	}

	slot, err := h.useCase.GetSlotStatus(r.Context(), &getVenueSlots.SlotStatusRequest{
		VenueID:   ref.VenueID,
		Date:      ref.Date,
		StartTime: ref.StartTime,
	})
	if err != nil {
		switch {
		case errors.Is(err, getVenueSlots.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidSlot)

		case errors.Is(err, domain.ErrNotInitialized):
			handlers.RespondNotFound(w, msgNotInitialized)

		case errors.Is(err, getVenueSlots.ErrSlotNotFound):
			h.logger.Warn("GET /venues/{id}/slots/{date}/{time} - Slot not found: venue_id=%s, slot=%s",
				ref.VenueID, ref.Key())
			handlers.RespondNotFound(w, msgSlotNotFound)

		default:
			h.logger.Error("GET /venues/{id}/slots/{date}/{time} - Failed to get slot: venue_id=%s, slot=%s, error=%v",
				ref.VenueID, ref.Key(), err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, handlers.FromReconstructedSlot(*slot))
}
