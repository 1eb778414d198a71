package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all HTTP-related metrics on a private registry so multiple
// servers (and tests) never collide on registration.
type Metrics struct {
	registry       *prometheus.Registry
	requestsTotal  *prometheus.CounterVec
	requestDur     *prometheus.HistogramVec
	mutationsTotal *prometheus.CounterVec
}

// NewMetrics creates a Metrics instance with its own registry.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		requestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "taskd_http_requests_total",
			Help: "Total HTTP requests labeled by method, endpoint, and status code.",
		}, []string{"method", "endpoint", "status"}),
		requestDur: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "taskd_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds, labeled by method and endpoint.",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5},
		}, []string{"method", "endpoint"}),
		mutationsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "taskd_store_mutations_total",
			Help: "Successful store mutations labeled by operation.",
		}, []string{"op"}),
	}
}

// Middleware records request count and duration. Echo's route template
// (c.Path) is used as the endpoint label, so path parameters never explode
// cardinality.
func (m *Metrics) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			endpoint := c.Path()
			if endpoint == "" {
				endpoint = "/"
			}
			method := c.Request().Method
			status := strconv.Itoa(c.Response().Status)

			m.requestsTotal.WithLabelValues(method, endpoint, status).Inc()
			m.requestDur.WithLabelValues(method, endpoint).Observe(time.Since(start).Seconds())
			return err
		}
	}
}

// RecordMutation counts one successful store mutation.
func (m *Metrics) RecordMutation(op string) {
	m.mutationsTotal.WithLabelValues(op).Inc()
}

// Handler serves the metrics registry in Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
