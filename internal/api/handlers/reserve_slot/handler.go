package reserve_slot

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-VenueSlots/internal/api/handlers"
	"github.com/m04kA/SMC-VenueSlots/internal/api/middleware"
	"github.com/m04kA/SMC-VenueSlots/internal/domain"
	"github.com/m04kA/SMC-VenueSlots/internal/service/slots"
	"github.com/m04kA/SMC-VenueSlots/internal/service/slots/models"
)

const (
	msgInvalidSlot        = "некорректный адрес слота"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidData        = "некорректные данные резерва"
	msgUnauthorized       = "не указан пользователь"
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

// Handle POST /api/v1/venues/{venueId}/slots/{date}/{startTime}/reserve
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	ref, err := handlers.SlotRef(r)
	if err != nil {
		h.logger.Warn("POST /venues/{id}/slots/{date}/{time}/reserve - Invalid slot: %v", err)
		handlers.RespondBadRequest(w, msgInvalidSlot)
		return
	}

	managerID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	var req ReserveSlotRequest
	if err := handlers.DecodeOptionalJSON(r, &req); err != nil {
		h.logger.Warn("POST /venues/{id}/slots/{date}/{time}/reserve - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.Reserve(r.Context(), &models.ReserveRequest{
		SlotRef:    ref,
		ReservedBy: managerID,
		Note:       req.Note,
	})
	if err != nil {
		switch {
		case errors.Is(err, slots.ErrInvalidInput):
			h.logger.Warn("POST /venues/{id}/slots/{date}/{time}/reserve - Invalid data: %v", err)
			handlers.RespondBadRequest(w, msgInvalidData)

		case errors.Is(err, domain.ErrNotInitialized):
			h.logger.Warn("POST /venues/{id}/slots/{date}/{time}/reserve - Venue not initialized: venue_id=%s", ref.VenueID)
			handlers.RespondNotFound(w, msgNotInitialized)

		case errors.Is(err, domain.ErrConflict):
			handlers.RespondConflict(w, msgConflict)

		default:
			h.logger.Error("POST /venues/{id}/slots/{date}/{time}/reserve - Failed to reserve: venue_id=%s, slot=%s, error=%v",
				ref.VenueID, ref.Key(), err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /venues/{id}/slots/{date}/{time}/reserve - Slot reserved: venue_id=%s, slot=%s, reservation_id=%s",
		ref.VenueID, ref.Key(), result.ReservationID)
	handlers.RespondJSON(w, http.StatusCreated, FromServiceResponse(ref.VenueID, result))
}
