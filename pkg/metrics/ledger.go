package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// LedgerMetrics contadores del libro de stock y de ventas. Un valor nil no registra nada.
type LedgerMetrics struct {
	movements   *prometheus.CounterVec
	quantity    *prometheus.CounterVec
	sales       prometheus.Counter
	salesAmount prometheus.Counter
	failures    *prometheus.CounterVec
	duration    *prometheus.HistogramVec
	belowMin    prometheus.Counter
}

// NewLedgerMetrics registra las métricas del libro en reg.
func NewLedgerMetrics(reg prometheus.Registerer) *LedgerMetrics {
	if reg == nil {
		return &LedgerMetrics{}
	}
	m := &LedgerMetrics{
		movements: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ledger_movements_total",
			Help: "Stock movements appended to the ledger by type.",
		}, []string{"type"}),
		quantity: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ledger_movement_units_total",
			Help: "Units moved by movement type.",
		}, []string{"type"}),
		sales: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ledger_sales_total",
			Help: "Committed sales orders.",
		}),
		salesAmount: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ledger_sales_amount_minor_total",
			Help: "Sum of committed sale totals in minor currency units.",
		}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ledger_operation_failures_total",
			Help: "Failed top-level operations by operation and error code.",
		}, []string{"operation", "code"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "ledger_operation_duration_seconds",
			Help:    "Duration of top-level ledger operations.",
			Buckets: prometheus.DefBuckets,
		}, []string{"operation"}),
		belowMin: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ledger_stock_below_minimum_total",
			Help: "Movements that left a record below its minimum.",
		}),
	}
	reg.MustRegister(m.movements, m.quantity, m.sales, m.salesAmount, m.failures, m.duration, m.belowMin)
	return m
}

// ObserveMovement registra un movimiento confirmado.
func (m *LedgerMetrics) ObserveMovement(movementType string, quantity int64) {
	if m == nil || m.movements == nil {
		return
	}
	label := normalizeLabel(movementType)
	m.movements.WithLabelValues(label).Inc()
	m.quantity.WithLabelValues(label).Add(float64(quantity))
}

// ObserveSale registra una venta confirmada.
func (m *LedgerMetrics) ObserveSale(totalMinor int64) {
	if m == nil || m.sales == nil {
		return
	}
	m.sales.Inc()
	m.salesAmount.Add(float64(totalMinor))
}

// IncBelowMinimum cuenta un registro que quedó bajo su mínimo.
func (m *LedgerMetrics) IncBelowMinimum() {
	if m == nil || m.belowMin == nil {
		return
	}
	m.belowMin.Inc()
}

// IncFailure cuenta una operación fallida con su código de error.
func (m *LedgerMetrics) IncFailure(operation, code string) {
	if m == nil || m.failures == nil {
		return
	}
	m.failures.WithLabelValues(normalizeLabel(operation), normalizeLabel(code)).Inc()
}

// ObserveDuration registra la duración de una operación.
func (m *LedgerMetrics) ObserveDuration(operation string, d time.Duration) {
	if m == nil || m.duration == nil {
		return
	}
	m.duration.WithLabelValues(normalizeLabel(operation)).Observe(d.Seconds())
}

func normalizeLabel(v string) string {
	if v == "" {
		return "unknown"
	}
	return v
}
