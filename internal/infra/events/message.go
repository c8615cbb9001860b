package events

import (
	"context"
	"time"

	"github.com/m04kA/SMC-VenueSlots/internal/domain"
)

// Message JSON-представление события в топике
type Message struct {
	Type       string  `json:"type"`
	VenueID    string  `json:"venueId"`
	Date       string  `json:"date,omitempty"`
	StartTime  string  `json:"startTime,omitempty"`
	UserID     *string `json:"userId,omitempty"`
	BookingID  *string `json:"bookingId,omitempty"`
	Count      *int    `json:"count,omitempty"`
	OccurredAt string  `json:"occurredAt"`
}

// NewMessage конвертирует доменное событие в сообщение
func NewMessage(event domain.SlotEvent) Message {
	return Message{
		Type:       string(event.Type),
		VenueID:    event.VenueID,
		Date:       event.Date,
		StartTime:  event.StartTime.String(),
		UserID:     event.UserID,
		BookingID:  event.BookingID,
		Count:      event.Count,
		OccurredAt: event.OccurredAt.UTC().Format(time.RFC3339Nano),
	}
}

// NoopPublisher используется, когда публикация событий выключена
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, domain.SlotEvent) error {
	return nil
}

func (NoopPublisher) Close() error {
	return nil
}
