// Package metrics holds the prometheus collectors exposed on /metrics.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "stockroom"

// Metrics groups every collector the service registers.
type Metrics struct {
	registry *prometheus.Registry

	storeOps      *prometheus.CounterVec
	storeDuration *prometheus.HistogramVec
	ledgerOps     *prometheus.CounterVec
	reconciled    prometheus.Counter
	unknownKinds  prometheus.Counter
	itemsByStatus *prometheus.GaugeVec
	httpRequests  *prometheus.CounterVec
	alertsSent    *prometheus.CounterVec
}

// New creates collectors on a private registry together with the Go and
// process collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		storeOps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "operations_total",
			Help:      "Store reads and writes by key and result.",
		}, []string{"op", "key", "result"}),
		storeDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "operation_duration_seconds",
			Help:      "Store operation latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"op"}),
		ledgerOps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ledger",
			Name:      "operations_total",
			Help:      "Ledger operations by kind and result.",
		}, []string{"op", "result"}),
		reconciled: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ledger",
			Name:      "items_reconciled_total",
			Help:      "Items whose quantity was recomputed from the ledger.",
		}),
		unknownKinds: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ledger",
			Name:      "unknown_kind_transactions_total",
			Help:      "Stored transactions skipped because their kind is not recognised.",
		}),
		itemsByStatus: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "inventory",
			Name:      "items",
			Help:      "Stock items by status after the last full reconciliation.",
		}, []string{"status"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by route and status code.",
		}, []string{"method", "route", "status"}),
		alertsSent: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "alerts",
			Name:      "sent_total",
			Help:      "Low-stock alerts by notifier and result.",
		}, []string{"notifier", "result"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.storeOps,
		m.storeDuration,
		m.ledgerOps,
		m.reconciled,
		m.unknownKinds,
		m.itemsByStatus,
		m.httpRequests,
		m.alertsSent,
	)
	return m
}

// Registry exposes the underlying registry (tests).
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler serves the registry in the prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// StoreOp records one store call.
func (m *Metrics) StoreOp(op, key string, err error, elapsed time.Duration) {
	m.storeOps.WithLabelValues(op, key, result(err)).Inc()
	m.storeDuration.WithLabelValues(op).Observe(elapsed.Seconds())
}

// LedgerOp records one ledger operation.
func (m *Metrics) LedgerOp(op string, err error) {
	m.ledgerOps.WithLabelValues(op, result(err)).Inc()
}

// Reconciled records a reconciliation pass.
func (m *Metrics) Reconciled(items, unknown int) {
	m.reconciled.Add(float64(items))
	m.unknownKinds.Add(float64(unknown))
}

// ItemsByStatus replaces the per-status gauge values.
func (m *Metrics) ItemsByStatus(counts map[string]int) {
	m.itemsByStatus.Reset()
	for status, n := range counts {
		m.itemsByStatus.WithLabelValues(status).Set(float64(n))
	}
}

// HTTPRequest records a served request.
func (m *Metrics) HTTPRequest(method, route, status string) {
	m.httpRequests.WithLabelValues(method, route, status).Inc()
}

// AlertSent records one notifier delivery.
func (m *Metrics) AlertSent(notifier string, err error) {
	m.alertsSent.WithLabelValues(notifier, result(err)).Inc()
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
