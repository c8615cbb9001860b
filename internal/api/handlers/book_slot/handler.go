package book_slot

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
	msgInvalidData        = "некорректные данные бронирования"
	msgNotInitialized     = "площадка не инициализирована"
	msgAlreadyBooked      = "слот уже забронирован"
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

// Handle POST /api/v1/venues/{venueId}/slots/{date}/{startTime}/book
// Вызывается после подтверждения оплаты или при бронировании на кассе.
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	ref, err := handlers.SlotRef(r)
	if err != nil {
		h.logger.Warn("POST /venues/{id}/slots/{date}/{time}/book - Invalid slot: %v", err)
		handlers.RespondBadRequest(w, msgInvalidSlot)
		return
	}

	var req BookSlotRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /venues/{id}/slots/{date}/{time}/book - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	callerID, _ := middleware.UserIDFromContext(r.Context())
	booked, err := h.service.Book(r.Context(), req.ToServiceRequest(ref, callerID))
	if err != nil {
		switch {
		case errors.Is(err, slots.ErrInvalidInput):
			h.logger.Warn("POST /venues/{id}/slots/{date}/{time}/book - Invalid data: %v", err)
			handlers.RespondBadRequest(w, msgInvalidData)

		case errors.Is(err, domain.ErrNotInitialized):
			h.logger.Warn("POST /venues/{id}/slots/{date}/{time}/book - Venue not initialized: venue_id=%s", ref.VenueID)
			handlers.RespondNotFound(w, msgNotInitialized)

		case errors.Is(err, domain.ErrAlreadyBooked):
			h.logger.Warn("POST /venues/{id}/slots/{date}/{time}/book - Already booked: venue_id=%s, slot=%s, booking_id=%s",
				ref.VenueID, ref.Key(), req.BookingID)
			handlers.RespondConflict(w, msgAlreadyBooked)

		case errors.Is(err, domain.ErrConflict):
			h.logger.Warn("POST /venues/{id}/slots/{date}/{time}/book - Conflict: venue_id=%s, slot=%s", ref.VenueID, ref.Key())
			handlers.RespondConflict(w, msgConflict)

		default:
			h.logger.Error("POST /venues/{id}/slots/{date}/{time}/book - Failed to book: venue_id=%s, slot=%s, error=%v",
				ref.VenueID, ref.Key(), err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /venues/{id}/slots/{date}/{time}/book - Slot booked: venue_id=%s, slot=%s, booking_id=%s",
		ref.VenueID, ref.Key(), booked.BookingID)
	handlers.RespondJSON(w, http.StatusCreated, FromDomain(ref.VenueID, booked))
}
