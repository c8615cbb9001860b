package get_venue_slots

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-VenueSlots/internal/api/handlers"
	getVenueSlots "github.com/m04kA/SMC-VenueSlots/internal/usecase/get_venue_slots"
)

const (
	msgInvalidVenueID = "некорректный ID площадки"
	msgMissingDate    = "startDate обязателен"
	msgInvalidDate    = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidRange   = "некорректный период"
)

type Handler struct {
	useCase GetVenueSlotsUseCase
	logger  Logger
}

func NewHandler(useCase GetVenueSlotsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/venues/{venueId}/slots
// Query params: startDate (required, YYYY-MM-DD), endDate (optional, YYYY-MM-DD)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	venueID, err := handlers.VenueID(r)
	if err != nil {
		h.logger.Warn("GET /venues/{id}/slots - Invalid venue ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidVenueID)
		return
	}

	query := r.URL.Query()
	startDateStr := query.Get("startDate")
	if startDateStr == "" {
		h.logger.Warn("GET /venues/{id}/slots - Missing startDate: venue_id=%s", venueID)
		handlers.RespondBadRequest(w, msgMissingDate)
		return
	}

	// Формируем запрос к use case (с парсингом дат)
	useCaseReq, err := ToUseCaseRequest(venueID, startDateStr, query.Get("endDate"))
	if err != nil {
		h.logger.Warn("GET /venues/{id}/slots - Invalid date format: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, getVenueSlots.ErrInvalidInput):
			h.logger.Warn("GET /venues/{id}/slots - Invalid range: venue_id=%s, error=%v", venueID, err)
			handlers.RespondBadRequest(w, msgInvalidRange)

		default:
			h.logger.Error("GET /venues/{id}/slots - Failed to get slots: venue_id=%s, error=%v", venueID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /venues/{id}/slots - Slots retrieved successfully: venue_id=%s, slots_count=%d",
		venueID, len(result.Slots))
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
