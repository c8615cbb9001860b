package models

import (
	"time"

	"github.com/m04kA/SMC-VenueSlots/internal/domain"
	"github.com/m04kA/SMC-VenueSlots/pkg/types"
)

// SlotRef адрес ячейки: площадка, дата и время начала
type SlotRef struct {
	VenueID   string
	Date      time.Time
	StartTime types.TimeString
}

// Key ключ ячейки внутри агрегата площадки
func (r SlotRef) Key() domain.SlotKey {
	return domain.NewSlotKey(r.Date, r.StartTime)
}

// HoldRequest запрос на временное удержание слота.
// DurationMinutes = 0 означает длительность по умолчанию.
type HoldRequest struct {
	SlotRef
	UserID          string
	BookingID       string
	DurationMinutes int
}

// BookRequest запрос на фиксацию бронирования (после оплаты или на кассе)
type BookRequest struct {
	SlotRef
	BookingID     string
	BookingType   domain.BookingType
	Status        domain.BookedStatus
	CustomerName  *string
	CustomerPhone *string
	Notes         *string
	UserID        *string
}

// BlockRequest запрос на блокировку слота площадкой
type BlockRequest struct {
	SlotRef
	Reason    *string
	BlockedBy *string
}

// ReserveRequest запрос на резерв слота администратором
type ReserveRequest struct {
	SlotRef
	ReservedBy string
	Note       *string
}

// HoldResponse результат удержания
type HoldResponse struct {
	Hold domain.HeldSlot
	// Created = false, если возвращено уже действующее удержание того же пользователя
	Created bool
}

// ReserveResponse результат резерва
type ReserveResponse struct {
	ReservationID string
	Reserved      domain.ReservedSlot
}

// CleanupResponse результат очистки истекших удержаний
type CleanupResponse struct {
	VenueID string
	Removed int
}
