package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLedgerMetrics_Counters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewLedgerMetrics(reg)

	m.ObserveMovement("SALE", 3)
	m.ObserveMovement("SALE", 2)
	m.ObserveMovement("PURCHASE", 10)
	m.ObserveSale(2500)
	m.IncFailure("process_sale", "INSUFFICIENT_STOCK")
	m.IncBelowMinimum()
	m.ObserveDuration("process_sale", 15*time.Millisecond)

	assert.Equal(t, float64(2), testutil.ToFloat64(m.movements.WithLabelValues("SALE")))
	assert.Equal(t, float64(5), testutil.ToFloat64(m.quantity.WithLabelValues("SALE")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.movements.WithLabelValues("PURCHASE")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.sales))
	assert.Equal(t, float64(2500), testutil.ToFloat64(m.salesAmount))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.failures.WithLabelValues("process_sale", "INSUFFICIENT_STOCK")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.belowMin))

	count, err := testutil.GatherAndCount(reg, "ledger_operation_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestLedgerMetrics_NilSafe(t *testing.T) {
	var m *LedgerMetrics
	assert.NotPanics(t, func() {
		m.ObserveMovement("SALE", 1)
		m.ObserveSale(1)
		m.IncFailure("x", "y")
		m.IncBelowMinimum()
		m.ObserveDuration("x", time.Second)
	})

	unregistered := NewLedgerMetrics(nil)
	assert.NotPanics(t, func() { unregistered.ObserveSale(1) })
}

func TestHTTPMetrics_Observe(t *testing.T) {
	reg := prometheus.NewRegistry()
	h := NewHTTPMetrics(reg)

	h.Observe("POST", "/api/sales", 201, 20*time.Millisecond)
	h.Observe("POST", "", 404, time.Millisecond)

	count, err := testutil.GatherAndCount(reg, "http_request_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}
