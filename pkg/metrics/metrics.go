package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "waspceptor"

// Metrics holds the server's collectors and the registry they belong to.
type Metrics struct {
	registry *prometheus.Registry

	// RequestsTotal counts matched mock requests.
	RequestsTotal *prometheus.CounterVec

	// RequestDuration tracks mock response time in seconds, delay included.
	RequestDuration *prometheus.HistogramVec

	// MissesTotal counts requests that matched no active endpoint.
	MissesTotal *prometheus.CounterVec

	// AdminRequestsTotal counts admin API requests by route pattern.
	AdminRequestsTotal *prometheus.CounterVec
}

// New creates a Metrics value with its own registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		RequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "mock_requests_total",
			Help:      "Total number of matched mock requests",
		}, []string{"method", "status"}),
		RequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "mock_request_duration_seconds",
			Help:      "Mock response time in seconds, including configured delay",
			Buckets:   []float64{.001, .005, .01, .05, .1, .25, .5, 1, 2.5, 5, 10},
		}, []string{"method"}),
		MissesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "mock_misses_total",
			Help:      "Total number of mock requests with no matching endpoint",
		}, []string{"method"}),
		AdminRequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "admin_requests_total",
			Help:      "Total number of admin API requests",
		}, []string{"method", "route", "status"}),
	}
}

// ObserveDispatch records a matched mock request.
func (m *Metrics) ObserveDispatch(method string, status int, elapsed time.Duration) {
	m.RequestsTotal.WithLabelValues(method, strconv.Itoa(status)).Inc()
	m.RequestDuration.WithLabelValues(method).Observe(elapsed.Seconds())
}

// ObserveMiss records an unmatched mock request.
func (m *Metrics) ObserveMiss(method string) {
	m.MissesTotal.WithLabelValues(method).Inc()
}

// ObserveAdmin records an admin API request.
func (m *Metrics) ObserveAdmin(method, route string, status int) {
	m.AdminRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
}

// TrackEndpoints registers gauges that read the registry size on scrape.
func (m *Metrics) TrackEndpoints(count func() (total, active int)) {
	factory := promauto.With(m.registry)
	factory.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "endpoints_total",
		Help:      "Number of configured mock endpoints",
	}, func() float64 {
		total, _ := count()
		return float64(total)
	})
	factory.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "endpoints_active",
		Help:      "Number of active mock endpoints",
	}, func() float64 {
		_, active := count()
		return float64(active)
	})
}

// TrackRequestLog registers a gauge that reads the request log size on scrape.
func (m *Metrics) TrackRequestLog(count func() int) {
	promauto.With(m.registry).NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "request_log_entries",
		Help:      "Number of entries currently held in the request log",
	}, func() float64 {
		return float64(count())
	})
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
