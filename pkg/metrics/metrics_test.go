package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_Counters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewWithRegistry("venue-slots-test", reg)

	m.ObserveTransition("hold", "ok")
	m.ObserveTransition("hold", "ok")
	m.ObserveTransition("book", "already_booked")
	m.IncStoreConflict("book")
	m.AddHoldsSwept(3)
	m.AddHoldsSwept(0)
	m.ObserveHTTPRequest("POST", "/api/v1/venues/{venueId}/init", 201, 15*time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.slotTransitions.WithLabelValues("hold", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.slotTransitions.WithLabelValues("book", "already_booked")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.storeConflicts.WithLabelValues("book")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.holdsSwept))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.httpRequestsTotal.WithLabelValues("POST", "/api/v1/venues/{venueId}/init", "201")))
}

func TestMetrics_DBPoolStats(t *testing.T) {
	m := NewWithRegistry("venue-slots-test", prometheus.NewRegistry())

	m.SetDBPoolStats(10, 4, 6)

	assert.Equal(t, 10.0, testutil.ToFloat64(m.dbOpenConnections))
	assert.Equal(t, 4.0, testutil.ToFloat64(m.dbInUse))
	assert.Equal(t, 6.0, testutil.ToFloat64(m.dbIdle))
}
