package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-VenueSlots/internal/domain"
	"github.com/m04kA/SMC-VenueSlots/pkg/ptr"
	"github.com/m04kA/SMC-VenueSlots/pkg/types"
)

func TestRespondError(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondConflict(rec, "занято")

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/json")

	var body ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, ErrorResponse{Code: http.StatusConflict, Message: "занято"}, body)
}

func TestDecodeJSON(t *testing.T) {
	type payload struct {
		Name string `json:"name"`
	}

	t.Run("ok", func(t *testing.T) {
		var p payload
		req := httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(`{"name":"x"}`))
		require.NoError(t, DecodeJSON(req, &p))
		assert.Equal(t, "x", p.Name)
	})

	t.Run("empty body", func(t *testing.T) {
		var p payload
		req := httptest.NewRequest(http.MethodPost, "/", http.NoBody)
		assert.Error(t, DecodeJSON(req, &p))
	})

	t.Run("unknown field", func(t *testing.T) {
		var p payload
		req := httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(`{"other":1}`))
		assert.Error(t, DecodeJSON(req, &p))
	})

	t.Run("optional empty body", func(t *testing.T) {
		var p payload
		req := httptest.NewRequest(http.MethodPost, "/", http.NoBody)
		assert.NoError(t, DecodeOptionalJSON(req, &p))
	})
}

func TestSlotRef(t *testing.T) {
	newReq := func(vars map[string]string) *http.Request {
		return mux.SetURLVars(httptest.NewRequest(http.MethodGet, "/", nil), vars)
	}

	ref, err := SlotRef(newReq(map[string]string{VarVenueID: "v1", VarDate: "2026-03-09", VarStartTime: "9:00"}))
	require.NoError(t, err)
	assert.Equal(t, "v1", ref.VenueID)
	assert.Equal(t, time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC), ref.Date)
	assert.Equal(t, types.TimeString("09:00"), ref.StartTime)

	_, err = SlotRef(newReq(map[string]string{VarDate: "2026-03-09", VarStartTime: "09:00"}))
	assert.ErrorIs(t, err, ErrMissingVenueID)

	_, err = SlotRef(newReq(map[string]string{VarVenueID: "v1", VarDate: "09.03.2026", VarStartTime: "09:00"}))
	assert.ErrorIs(t, err, ErrInvalidDate)

	_, err = SlotRef(newReq(map[string]string{VarVenueID: "v1", VarDate: "2026-03-09", VarStartTime: "25:00"}))
	assert.ErrorIs(t, err, ErrInvalidStartTime)
}

func TestFromReconstructedSlot(t *testing.T) {
	slot := domain.ReconstructedSlot{
		Date:          "2026-03-09",
		StartTime:     "10:00",
		EndTime:       "11:00",
		Status:        domain.SlotStatusBooked,
		BookingType:   ptr.Ptr(domain.BookingTypeOnline),
		BookingStatus: ptr.Ptr(domain.BookedStatusConfirmed),
		BookingID:     ptr.Ptr("b1"),
	}

	resp := FromReconstructedSlot(slot)
	assert.Equal(t, "BOOKED", resp.Status)
	assert.Equal(t, "online", *resp.BookingType)
	assert.Equal(t, "confirmed", *resp.BookingStatus)
	assert.Nil(t, resp.HoldExpiresAt)

	raw, err := json.Marshal(FromReconstructedSlot(domain.ReconstructedSlot{Date: "2026-03-09", StartTime: "09:00", EndTime: "10:00", Status: domain.SlotStatusAvailable}))
	require.NoError(t, err)
	assert.JSONEq(t, `{"date":"2026-03-09","startTime":"09:00","endTime":"10:00","status":"AVAILABLE"}`, string(raw))
}
