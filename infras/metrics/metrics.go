package metrics

import (
	"net/http"
	"salonbook/config"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const defaultNamespace = "salonbook"

const (
	ResultSuccess  = "success"
	ResultFailure  = "failure"
	ResultConflict = "conflict"
	ResultDropped  = "dropped"
)

// Metrics holds all prometheus metrics
type Metrics struct {
	registry *prometheus.Registry

	BookingOperations *prometheus.CounterVec
	BookingConflicts  *prometheus.CounterVec
	Notifications     *prometheus.CounterVec
	HTTPRequests      *prometheus.CounterVec
	HTTPDuration      *prometheus.HistogramVec
}

// New registers the collectors on a dedicated registry so repeated construction is safe.
func New(cfg *config.Config) *Metrics {
	namespace := cfg.Metrics.Namespace
	if namespace == "" {
		namespace = defaultNamespace
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,
		BookingOperations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "booking_operations_total",
			Help:      "Scheduler operations by name and result",
		}, []string{"operation", "result"}),
		BookingConflicts: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "booking_conflicts_total",
			Help:      "Requests rejected because the window overlaps a confirmed booking",
		}, []string{"operation"}),
		Notifications: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notifications_total",
			Help:      "Notifications by type and delivery result",
		}, []string{"type", "result"}),
		HTTPRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status",
		}, []string{"method", "route", "status"}),
		HTTPDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
}

// Observe records the outcome of a scheduler operation.
func (m *Metrics) Observe(operation string, err error) {
	result := ResultSuccess
	if err != nil {
		result = ResultFailure
	}

	m.BookingOperations.WithLabelValues(operation, result).Inc()
}

// Conflict records a rejected overlapping window.
func (m *Metrics) Conflict(operation string) {
	m.BookingConflicts.WithLabelValues(operation).Inc()
	m.BookingOperations.WithLabelValues(operation, ResultConflict).Inc()
}

func (m *Metrics) Notification(notificationType, result string) {
	m.Notifications.WithLabelValues(notificationType, result).Inc()
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
