package get_venue_slots

import (
	"time"

	"github.com/m04kA/SMC-VenueSlots/internal/domain"
	"github.com/m04kA/SMC-VenueSlots/pkg/types"
)

// Request модель запроса сетки слотов за период
type Request struct {
	VenueID   string
	StartDate time.Time // первый день периода (время игнорируется)
	EndDate   time.Time // последний день периода включительно
}

// Response модель ответа со слотами площадки
type Response struct {
	VenueID             string
	StartDate           time.Time
	EndDate             time.Time
	Initialized         bool // false, если площадка еще не инициализирована
	SlotDurationMinutes int
	Timezone            string
	Slots               []domain.ReconstructedSlot
}

// SlotStatusRequest модель запроса состояния одной ячейки
type SlotStatusRequest struct {
	VenueID   string
	Date      time.Time
	StartTime types.TimeString
}
