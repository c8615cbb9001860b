package get_venue_config

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-VenueSlots/internal/api/handlers"
	"github.com/m04kA/SMC-VenueSlots/internal/domain"
)

const (
	msgInvalidVenueID = "некорректный ID площадки"
	msgNotInitialized = "площадка не инициализирована"
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

// Handle GET /api/v1/venues/{venueId}/config
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	venueID, err := handlers.VenueID(r)
	if err != nil {
		h.logger.Warn("GET /venues/{id}/config - Invalid venue ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidVenueID)
		return
	}

	cfg, err := h.service.GetConfig(r.Context(), venueID)
	if err != nil {
		if errors.Is(err, domain.ErrNotInitialized) {
			h.logger.Warn("GET /venues/{id}/config - Venue not initialized: venue_id=%s", venueID)
			handlers.RespondNotFound(w, msgNotInitialized)
			return
		}
		h.logger.Error("GET /venues/{id}/config - Failed to get config: venue_id=%s, error=%v", venueID, err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, handlers.FromVenueConfig(venueID, *cfg))
}
