package telemetry

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const metricsNamespace = "zenkar"

// Metrics owns the Prometheus registry of the service. It records the HTTP
// series plus the order-engine and audit counters.
type Metrics struct {
	registry *prometheus.Registry

	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	requestInFlight prometheus.Gauge

	ordersCreated      *prometheus.CounterVec
	idempotentReplays  prometheus.Counter
	paymentsReconciled *prometheus.CounterVec
	auditDispatch      *prometheus.CounterVec
}

// NewMetrics creates and registers every collector on a fresh registry
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
		requestTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests.",
		}, []string{"method", "route", "status"}),
		requestInFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Subsystem: "http",
			Name:      "requests_in_flight",
			Help:      "Number of HTTP requests currently being served.",
		}),
		ordersCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "orders",
			Name:      "created_total",
			Help:      "Orders created, by quick-sale flag.",
		}, []string{"quick_sale"}),
		idempotentReplays: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "orders",
			Name:      "idempotent_replays_total",
			Help:      "Create requests answered from an existing Idempotency-Key.",
		}),
		paymentsReconciled: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "payments",
			Name:      "reconciled_total",
			Help:      "Payment rows touched by sync, by operation.",
		}, []string{"op"}),
		auditDispatch: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "audit",
			Name:      "dispatch_total",
			Help:      "Audit entries by dispatch outcome.",
		}, []string{"outcome"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.requestDuration,
		m.requestTotal,
		m.requestInFlight,
		m.ordersCreated,
		m.idempotentReplays,
		m.paymentsReconciled,
		m.auditDispatch,
	)
	return m
}

// Registry exposes the registry for additional collectors
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the scrape endpoint
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	})
}

// RequestStarted marks one request in flight and returns the function that
// records its completion
func (m *Metrics) RequestStarted() func(method, route string, status int) {
	start := time.Now()
	m.requestInFlight.Inc()
	return func(method, route string, status int) {
		m.requestInFlight.Dec()
		code := strconv.Itoa(status)
		m.requestDuration.WithLabelValues(method, route, code).Observe(time.Since(start).Seconds())
		m.requestTotal.WithLabelValues(method, route, code).Inc()
	}
}

// OrderCreated counts a new order
func (m *Metrics) OrderCreated(quickSale bool) {
	m.ordersCreated.WithLabelValues(strconv.FormatBool(quickSale)).Inc()
}

// IdempotentReplay counts a create answered from an existing key
func (m *Metrics) IdempotentReplay() {
	m.idempotentReplays.Inc()
}

// PaymentsReconciled counts the rows one sync created, updated and deleted
func (m *Metrics) PaymentsReconciled(created, updated, deleted int) {
	m.paymentsReconciled.WithLabelValues("created").Add(float64(created))
	m.paymentsReconciled.WithLabelValues("updated").Add(float64(updated))
	m.paymentsReconciled.WithLabelValues("deleted").Add(float64(deleted))
}

// AuditDispatched counts one audit entry outcome
func (m *Metrics) AuditDispatched(outcome string) {
	m.auditDispatch.WithLabelValues(outcome).Inc()
}
