package update_venue_config

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-VenueSlots/internal/api/handlers"
	"github.com/m04kA/SMC-VenueSlots/internal/domain"
	"github.com/m04kA/SMC-VenueSlots/internal/service/venues"
)

const (
	msgInvalidVenueID     = "некорректный ID площадки"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidData        = "некорректные данные конфигурации"
	msgNotInitialized     = "площадка не инициализирована"
	msgConflict           = "конфигурация изменяется параллельно, повторите запрос"
)

type Handler struct {
	service VenueService
	logger  Logger
}

func NewHandler(service VenueService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/venues/{venueId}/config
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	venueID, err := handlers.VenueID(r)
	if err != nil {
		h.logger.Warn("PATCH /venues/{id}/config - Invalid venue ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidVenueID)
		return
	}

	// Декодируем body
	var req UpdateVenueConfigRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /venues/{id}/config - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	patch, err := req.ToDomain()
	if err != nil {
		h.logger.Warn("PATCH /venues/{id}/config - Invalid time: venue_id=%s, error=%v", venueID, err)
		handlers.RespondBadRequest(w, msgInvalidData)
		return
	}

	result, err := h.service.UpdateConfig(r.Context(), venueID, patch)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidConfig), errors.Is(err, venues.ErrInvalidInput):
			h.logger.Warn("PATCH /venues/{id}/config - Invalid data: venue_id=%s, error=%v", venueID, err)
			handlers.RespondBadRequest(w, msgInvalidData)

		case errors.Is(err, domain.ErrNotInitialized):
			h.logger.Warn("PATCH /venues/{id}/config - Venue not initialized: venue_id=%s", venueID)
			handlers.RespondNotFound(w, msgNotInitialized)

		case errors.Is(err, domain.ErrConflict):
			h.logger.Warn("PATCH /venues/{id}/config - Conflict: venue_id=%s, error=%v", venueID, err)
			handlers.RespondConflict(w, msgConflict)

		default:
			h.logger.Error("PATCH /venues/{id}/config - Failed to update config: venue_id=%s, error=%v", venueID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /venues/{id}/config - Config updated successfully: venue_id=%s", venueID)
	handlers.RespondJSON(w, http.StatusOK, handlers.FromVenueConfig(venueID, *result))
}
