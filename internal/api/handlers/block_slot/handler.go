package block_slot

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-VenueSlots/internal/api/handlers"
	"github.com/m04kA/SMC-VenueSlots/internal/api/middleware"
	"github.com/m04kA/SMC-VenueSlots/internal/domain"
	"github.com/m04kA/SMC-VenueSlots/internal/service/slots"
	"github.com/m04kA/SMC-VenueSlots/internal/service/slots/models"
	"github.com/m04kA/SMC-VenueSlots/pkg/ptr"
)

const (
	msgInvalidSlot        = "некорректный адрес слота"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidData        = "некорректные данные блокировки"
	msgNotInitialized     = "площадка не инициализирована"
	msgConflict           = "слот изменяется параллельно, повторите запрос"
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

// Handle POST /api/v1/venues/{venueId}/slots/{date}/{startTime}/block
// Наличие бронирования не проверяется: менеджер сверяется с календарем сам.
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	ref, err := handlers.SlotRef(r)
	if err != nil {
		h.logger.Warn("POST /venues/{id}/slots/{date}/{time}/block - Invalid slot: %v", err)
		handlers.RespondBadRequest(w, msgInvalidSlot)
		return
	}

	var req BlockSlotRequest
	if err := handlers.DecodeOptionalJSON(r, &req); err != nil {
		h.logger.Warn("POST /venues/{id}/slots/{date}/{time}/block - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	managerID, _ := middleware.UserIDFromContext(r.Context())
	blocked, err := h.service.Block(r.Context(), &models.BlockRequest{
		SlotRef:   ref,
		Reason:    req.Reason,
		BlockedBy: ptr.NilIfEmpty(managerID),
	})
	if err != nil {
		switch {
		case errors.Is(err, slots.ErrInvalidInput):
			h.logger.Warn("POST /venues/{id}/slots/{date}/{time}/block - Invalid data: %v", err)
			handlers.RespondBadRequest(w, msgInvalidData)

		case errors.Is(err, domain.ErrNotInitialized):
			h.logger.Warn("POST /venues/{id}/slots/{date}/{time}/block - Venue not initialized: venue_id=%s", ref.VenueID)
			handlers.RespondNotFound(w, msgNotInitialized)

		case errors.Is(err, domain.ErrConflict):
			handlers.RespondConflict(w, msgConflict)

		default:
			h.logger.Error("POST /venues/{id}/slots/{date}/{time}/block - Failed to block: venue_id=%s, slot=%s, error=%v",
				ref.VenueID, ref.Key(), err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /venues/{id}/slots/{date}/{time}/block - Slot blocked: venue_id=%s, slot=%s, manager_id=%s",
		ref.VenueID, ref.Key(), managerID)
	handlers.RespondJSON(w, http.StatusCreated, FromDomain(ref.VenueID, blocked))
}
