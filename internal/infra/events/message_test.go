package events

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-VenueSlots/internal/domain"
	"github.com/m04kA/SMC-VenueSlots/pkg/ptr"
)

func TestNewMessage(t *testing.T) {
	loc := time.FixedZone("NPT", 5*3600+45*60)
	event := domain.SlotEvent{
		Type:       domain.EventSlotHeld,
		VenueID:    "venue-1",
		Date:       "2026-03-10",
		StartTime:  "10:00",
		UserID:     ptr.Ptr("u1"),
		BookingID:  ptr.Ptr("b1"),
		OccurredAt: time.Date(2026, 3, 9, 13, 45, 0, 0, loc),
	}

	raw, err := json.Marshal(NewMessage(event))
	require.NoError(t, err)

	assert.JSONEq(t, `{
		"type": "slot.held",
		"venueId": "venue-1",
		"date": "2026-03-10",
		"startTime": "10:00",
		"userId": "u1",
		"bookingId": "b1",
		"occurredAt": "2026-03-09T08:00:00Z"
	}`, string(raw))
}

func TestNewMessage_VenueWide(t *testing.T) {
	event := domain.SlotEvent{
		Type:       domain.EventHoldsCleaned,
		VenueID:    "venue-1",
		Count:      ptr.Ptr(3),
		OccurredAt: time.Date(2026, 3, 9, 8, 0, 0, 0, time.UTC),
	}

	raw, err := json.Marshal(NewMessage(event))
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"slot.holds_cleaned","venueId":"venue-1","count":3,"occurredAt":"2026-03-09T08:00:00Z"}`, string(raw))
}

func TestNoopPublisher(t *testing.T) {
	var p NoopPublisher
	assert.NoError(t, p.Publish(context.Background(), domain.SlotEvent{}))
	assert.NoError(t, p.Close())
}
