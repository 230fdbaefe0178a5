package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus metrics for the trading API.
type Metrics struct {
	OrdersSettled  *prometheus.CounterVec // labels: side
	OrdersRejected prometheus.Counter
	CashOperations *prometheus.CounterVec // labels: type
	CatalogRefresh prometheus.Counter
	QuoteFailures  prometheus.Counter
}

// New creates and registers the metric set on the default registry.
func New() *Metrics {
	m := &Metrics{
		OrdersSettled: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "atlasbourse_orders_settled_total",
			Help: "Number of settled orders by side.",
		}, []string{"side"}),
		OrdersRejected: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "atlasbourse_orders_rejected_total",
			Help: "Number of orders rejected during validation.",
		}),
		CashOperations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "atlasbourse_cash_operations_total",
			Help: "Number of executed cash operations by type.",
		}, []string{"type"}),
		CatalogRefresh: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "atlasbourse_catalog_refresh_total",
			Help: "Number of full price catalog refreshes.",
		}),
		QuoteFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "atlasbourse_quote_failures_total",
			Help: "Number of per-symbol quote fetch failures.",
		}),
	}

	prometheus.MustRegister(
		m.OrdersSettled,
		m.OrdersRejected,
		m.CashOperations,
		m.CatalogRefresh,
		m.QuoteFailures,
	)
	return m
}

// NewUnregistered creates the metric set without registering it, for tests.
func NewUnregistered() *Metrics {
	return &Metrics{
		OrdersSettled: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "atlasbourse_orders_settled_total",
		}, []string{"side"}),
		OrdersRejected: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "atlasbourse_orders_rejected_total",
		}),
		CashOperations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "atlasbourse_cash_operations_total",
		}, []string{"type"}),
		CatalogRefresh: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "atlasbourse_catalog_refresh_total",
		}),
		QuoteFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "atlasbourse_quote_failures_total",
		}),
	}
}
