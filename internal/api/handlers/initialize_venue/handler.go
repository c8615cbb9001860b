package initialize_venue

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
	msgInvalidConfig      = "некорректная конфигурация слотов"
	msgAlreadyInitialized = "площадка уже инициализирована"
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

// Handle POST /api/v1/venues/{venueId}/init
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	venueID, err := handlers.VenueID(r)
	if err != nil {
		h.logger.Warn("POST /venues/{id}/init - Invalid venue ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidVenueID)
		return
	}

	var req InitializeVenueRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /venues/{id}/init - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	cfg, err := req.ToDomain()
	if err != nil {
		h.logger.Warn("POST /venues/{id}/init - Invalid time: venue_id=%s, error=%v", venueID, err)
		handlers.RespondBadRequest(w, msgInvalidConfig)
		return
	}

	slots, err := h.service.Initialize(r.Context(), venueID, cfg)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidConfig), errors.Is(err, venues.ErrInvalidInput):
			h.logger.Warn("POST /venues/{id}/init - Invalid config: venue_id=%s, error=%v", venueID, err)
			handlers.RespondBadRequest(w, msgInvalidConfig)

		case errors.Is(err, domain.ErrAlreadyInitialized):
			h.logger.Warn("POST /venues/{id}/init - Already initialized: venue_id=%s", venueID)
			handlers.RespondConflict(w, msgAlreadyInitialized)

		default:
			h.logger.Error("POST /venues/{id}/init - Failed to initialize: venue_id=%s, error=%v", venueID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /venues/{id}/init - Venue initialized: venue_id=%s", venueID)
	handlers.RespondJSON(w, http.StatusCreated, handlers.FromVenueConfig(venueID, slots.Config))
}
