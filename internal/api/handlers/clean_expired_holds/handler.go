package clean_expired_holds

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-VenueSlots/internal/api/handlers"
	"github.com/m04kA/SMC-VenueSlots/internal/domain"
)

const (
	msgInvalidVenueID = "некорректный ID площадки"
	msgNotInitialized = "площадка не инициализирована"
	msgConflict       = "площадка изменяется параллельно, повторите запрос"
)

// CleanupResponse HTTP модель результата очистки
type CleanupResponse struct {
	VenueID string `json:"venueId"`
	Removed int    `json:"removed"`
}

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

// Handle POST /api/v1/venues/{venueId}/holds/cleanup
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	venueID, err := handlers.VenueID(r)
	if err != nil {
		h.logger.Warn("POST /venues/{id}/holds/cleanup - Invalid venue ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidVenueID)
		return
	}

	result, err := h.service.CleanExpiredHolds(r.Context(), venueID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotInitialized):
			handlers.RespondNotFound(w, msgNotInitialized)

		case errors.Is(err, domain.ErrConflict):
			handlers.RespondConflict(w, msgConflict)

		default:
			h.logger.Error("POST /venues/{id}/holds/cleanup - Failed to clean holds: venue_id=%s, error=%v", venueID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /venues/{id}/holds/cleanup - Expired holds removed: venue_id=%s, removed=%d", venueID, result.Removed)
	handlers.RespondJSON(w, http.StatusOK, CleanupResponse{VenueID: result.VenueID, Removed: result.Removed})
}
