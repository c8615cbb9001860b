package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-VenueSlots/internal/domain"
	"github.com/m04kA/SMC-VenueSlots/internal/service/slots/models"
	"github.com/m04kA/SMC-VenueSlots/pkg/types"
)

// Имена переменных пути
const (
	VarVenueID   = "venueId"
	VarDate      = "date"
	VarStartTime = "startTime"
)

var (
	ErrMissingVenueID   = errors.New("venue id is required")
	ErrInvalidDate      = errors.New("invalid date, expected YYYY-MM-DD")
	ErrInvalidStartTime = errors.New("invalid start time, expected HH:MM")
)

// VenueID извлекает venueId из пути
func VenueID(r *http.Request) (string, error) {
	venueID := strings.TrimSpace(mux.Vars(r)[VarVenueID])
	if venueID == "" {
		return "", ErrMissingVenueID
	}
	return venueID, nil
}

// ParseDate разбирает дату в формате YYYY-MM-DD
func ParseDate(s string) (time.Time, error) {
	date, err := time.Parse(domain.DateFormat, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return date, nil
}

// SlotRef извлекает адрес ячейки из пути /venues/{venueId}/slots/{date}/{startTime}
func SlotRef(r *http.Request) (models.SlotRef, error) {
	venueID, err := VenueID(r)
	if err != nil {
		return models.SlotRef{}, err
	}
	vars := mux.Vars(r)
	date, err := ParseDate(vars[VarDate])
	if err != nil {
		return models.SlotRef{}, err
	}
	startTime, err := types.NewTimeStringFromString(vars[VarStartTime])
	if err != nil {
		return models.SlotRef{}, fmt.Errorf("%w: %q", ErrInvalidStartTime, vars[VarStartTime])
	}
	return models.SlotRef{VenueID: venueID, Date: date, StartTime: startTime}, nil
}
