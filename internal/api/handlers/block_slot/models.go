package block_slot

import (
	"time"

	"github.com/m04kA/SMC-VenueSlots/internal/domain"
)

// BlockSlotRequest тело запроса блокировки (может отсутствовать)
type BlockSlotRequest struct {
	Reason *string `json:"reason,omitempty"`
}

// BlockSlotResponse HTTP модель блокировки
type BlockSlotResponse struct {
	VenueID   string    `json:"venueId"`
	Date      string    `json:"date"`
	StartTime string    `json:"startTime"`
	Reason    *string   `json:"reason,omitempty"`
	BlockedBy *string   `json:"blockedBy,omitempty"`
	BlockedAt time.Time `json:"blockedAt"`
}

// FromDomain конвертирует запись блокировки в HTTP модель
func FromDomain(venueID string, b *domain.BlockedSlot) *BlockSlotResponse {
	return &BlockSlotResponse{
		VenueID:   venueID,
		Date:      b.Date,
		StartTime: b.StartTime.String(),
		Reason:    b.Reason,
		BlockedBy: b.BlockedBy,
		BlockedAt: b.BlockedAt,
	}
}
