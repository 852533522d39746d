package metrics

import "github.com/prometheus/client_golang/prometheus"

// Stock movement directions.
const (
	StockDebit  = "debit"
	StockCredit = "credit"
)

// CartMetrics counts coordinator outcomes and the stock units they move.
type CartMetrics struct {
	operations *prometheus.CounterVec
	stock      *prometheus.CounterVec
}

func NewCartMetrics(reg prometheus.Registerer) *CartMetrics {
	if reg == nil {
		return &CartMetrics{}
	}
	m := &CartMetrics{
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cart",
			Name:      "operations_total",
			Help:      "Cart operations by name and outcome code.",
		}, []string{"operation", "outcome"}),
		stock: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cart",
			Name:      "stock_units_total",
			Help:      "Stock units debited from or credited to products by cart operations.",
		}, []string{"direction"}),
	}
	reg.MustRegister(m.operations, m.stock)
	return m
}

// Observe records one finished operation. outcome is "ok" or an error code.
func (m *CartMetrics) Observe(operation, outcome string) {
	if m == nil || m.operations == nil {
		return
	}
	m.operations.WithLabelValues(normalizeLabel(operation), normalizeLabel(outcome)).Inc()
}

func (m *CartMetrics) AddStock(direction string, units int) {
	if m == nil || m.stock == nil || units <= 0 {
		return
	}
	m.stock.WithLabelValues(direction).Add(float64(units))
}
