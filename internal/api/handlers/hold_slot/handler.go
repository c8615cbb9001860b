package hold_slot

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-VenueSlots/internal/api/handlers"
	"github.com/m04kA/SMC-VenueSlots/internal/api/middleware"
	"github.com/m04kA/SMC-VenueSlots/internal/domain"
	"github.com/m04kA/SMC-VenueSlots/internal/service/slots"
)

const (
	msgInvalidSlot        = "некорректный адрес слота"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidData        = "некорректные данные удержания"
	msgUnauthorized       = "не указан пользователь"
	msgNotInitialized     = "площадка не инициализирована"
	msgAlreadyBooked      = "слот уже забронирован"
	msgHeldByOther        = "слот удерживается другим пользователем"
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

// Handle POST /api/v1/venues/{venueId}/slots/{date}/{startTime}/hold
// 201 при новом удержании, 200 если действующее удержание пользователя уже есть
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	ref, err := handlers.SlotRef(r)
	if err != nil {
		h.logger.Warn("POST /venues/{id}/slots/{date}/{time}/hold - Invalid slot: %v", err)
		handlers.RespondBadRequest(w, msgInvalidSlot)
		return
	}

	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	var req HoldSlotRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /venues/{id}/slots/{date}/{time}/hold - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.Hold(r.Context(), req.ToServiceRequest(ref, userID))
	if err != nil {
		switch {
		case errors.Is(err, slots.ErrInvalidInput):
			h.logger.Warn("POST /venues/{id}/slots/{date}/{time}/hold - Invalid data: %v", err)
			handlers.RespondBadRequest(w, msgInvalidData)

		case errors.Is(err, domain.ErrNotInitialized):
			h.logger.Warn("POST /venues/{id}/slots/{date}/{time}/hold - Venue not initialized: venue_id=%s", ref.VenueID)
			handlers.RespondNotFound(w, msgNotInitialized)

		case errors.Is(err, domain.ErrAlreadyBooked):
			h.logger.Warn("POST /venues/{id}/slots/{date}/{time}/hold - Already booked: venue_id=%s, slot=%s", ref.VenueID, ref.Key())
			handlers.RespondConflict(w, msgAlreadyBooked)

		case errors.Is(err, domain.ErrHeldByOther):
			h.logger.Warn("POST /venues/{id}/slots/{date}/{time}/hold - Held by other: venue_id=%s, slot=%s, user_id=%s",
				ref.VenueID, ref.Key(), userID)
			handlers.RespondConflict(w, msgHeldByOther)

		case errors.Is(err, domain.ErrConflict):
			h.logger.Warn("POST /venues/{id}/slots/{date}/{time}/hold - Conflict: venue_id=%s, slot=%s", ref.VenueID, ref.Key())
			handlers.RespondConflict(w, msgConflict)

		default:
			h.logger.Error("POST /venues/{id}/slots/{date}/{time}/hold - Failed to hold: venue_id=%s, slot=%s, error=%v",
				ref.VenueID, ref.Key(), err)
			handlers.RespondInternalError(w)
		}
		return
	}

	status := http.StatusOK
	if result.Created {
		status = http.StatusCreated
	}
	h.logger.Info("POST /venues/{id}/slots/{date}/{time}/hold - Slot held: venue_id=%s, slot=%s, user_id=%s, created=%t",
		ref.VenueID, ref.Key(), userID, result.Created)
	handlers.RespondJSON(w, status, FromServiceResponse(ref.VenueID, result))
}
