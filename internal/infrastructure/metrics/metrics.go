package metrics

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/practicas/core/internal/ports"
)

// Metrics holds the Prometheus collectors of the service
type Metrics struct {
	registry        *prometheus.Registry
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	storeOps        *prometheus.CounterVec
	storeDuration   *prometheus.HistogramVec
	storeRecords    *prometheus.GaugeVec
}

// New creates and registers all collectors on a private registry
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		storeOps: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "store_operations_total",
				Help: "Total number of collection loads and saves",
			},
			[]string{"collection", "operation", "result"},
		),
		storeDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "store_operation_duration_seconds",
				Help:    "Collection load and save duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"collection", "operation"},
		),
		storeRecords: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "store_records",
				Help: "Number of records seen in a collection by the last load or save",
			},
			[]string{"collection"},
		),
	}

	m.registry.MustRegister(m.requestsTotal, m.requestDuration, m.storeOps, m.storeDuration, m.storeRecords)

	return m
}

// Middleware records request count and latency per route
func (m *Metrics) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)
			if err != nil {
				// Resolve the status now; the error handler skips committed responses.
				c.Error(err)
			}

			duration := time.Since(start)
			status := c.Response().Status

			m.requestsTotal.WithLabelValues(
				c.Request().Method,
				c.Path(),
				fmt.Sprintf("%d", status),
			).Inc()

			m.requestDuration.WithLabelValues(
				c.Request().Method,
				c.Path(),
			).Observe(duration.Seconds())

			return err
		}
	}
}

// Handler exposes the registry
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry returns the underlying registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

type instrumentedStore[T any] struct {
	inner      ports.Store[T]
	collection string
	metrics    *Metrics
}

// InstrumentStore wraps a store so every load and save is counted and timed.
// A nil Metrics returns the store unchanged.
func InstrumentStore[T any](inner ports.Store[T], collection string, m *Metrics) ports.Store[T] {
	if m == nil {
		return inner
	}
	return &instrumentedStore[T]{inner: inner, collection: collection, metrics: m}
}

func (s *instrumentedStore[T]) Load(ctx context.Context) ([]T, error) {
	start := time.Now()
	records, err := s.inner.Load(ctx)
	s.observe("load", start, len(records), err)
	return records, err
}

func (s *instrumentedStore[T]) Save(ctx context.Context, records []T) error {
	start := time.Now()
	err := s.inner.Save(ctx, records)
	s.observe("save", start, len(records), err)
	return err
}

func (s *instrumentedStore[T]) observe(op string, start time.Time, records int, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	} else {
		s.metrics.storeRecords.WithLabelValues(s.collection).Set(float64(records))
	}
	s.metrics.storeOps.WithLabelValues(s.collection, op, result).Inc()
	s.metrics.storeDuration.WithLabelValues(s.collection, op).Observe(time.Since(start).Seconds())
}
