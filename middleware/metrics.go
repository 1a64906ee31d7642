package middleware

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/felixge/httpsnoop"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "overlay"

// Metrics holds the service's Prometheus collectors on a private registry.
type Metrics struct {
	Registry        *prometheus.Registry
	RequestDuration *prometheus.HistogramVec
	RequestsTotal   *prometheus.CounterVec
	InFlight        prometheus.Gauge
	FeedClients     prometheus.Gauge
}

func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	m := &Metrics{
		Registry: reg,
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status_code"}),
		RequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests.",
		}, []string{"method", "route", "status_code"}),
		InFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "in_flight_requests",
			Help:      "Number of HTTP requests currently being processed.",
		}),
		FeedClients: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "ws",
			Name:      "clients",
			Help:      "Number of connected overlay feed clients.",
		}),
	}

	reg.MustRegister(m.RequestDuration, m.RequestsTotal, m.InFlight, m.FeedClients)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}

// SetFeedClients matches socket.Hub's OnClientCount hook.
func (m *Metrics) SetFeedClients(n int) {
	m.FeedClients.Set(float64(n))
}

// Middleware records request metrics. It must wrap the ServeMux directly so the
// matched pattern is visible on the request afterwards. Scrapes, probes and the
// long-lived feed connection are skipped.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path
		if path == "/metrics" || path == "/ws" || strings.HasPrefix(path, "/health/") {
			next.ServeHTTP(w, r)
			return
		}

		m.InFlight.Inc()
		defer m.InFlight.Dec()

		snoop := httpsnoop.CaptureMetrics(next, w, r)

		route := routeLabel(r.Pattern)
		status := strconv.Itoa(snoop.Code)
		m.RequestDuration.WithLabelValues(r.Method, route, status).Observe(snoop.Duration.Seconds())
		m.RequestsTotal.WithLabelValues(r.Method, route, status).Inc()
	})
}

// routeLabel drops the method prefix from a ServeMux pattern.
func routeLabel(pattern string) string {
	if pattern == "" {
		return "unmatched"
	}
	if _, path, ok := strings.Cut(pattern, " "); ok {
		return path
	}
	return pattern
}
