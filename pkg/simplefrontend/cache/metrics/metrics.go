// Package metrics instruments cache stores with Prometheus metrics.
package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/tendant/simple-frontend/pkg/simplefrontend"
)

// Results recorded in the result label.
const (
	ResultHit   = "hit"
	ResultMiss  = "miss"
	ResultOK    = "ok"
	ResultError = "error"
)

// Metrics holds the cache collectors and the registry they are registered with.
type Metrics struct {
	operations *prometheus.CounterVec
	duration   *prometheus.HistogramVec
	registry   *prometheus.Registry
}

// New creates the cache collectors under namespace and registers them with a
// dedicated registry.
func New(namespace string) *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		operations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "cache",
				Name:      "operations_total",
				Help:      "Total number of cache operations by backend, operation and result",
			},
			[]string{"backend", "operation", "result"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "cache",
				Name:      "operation_duration_seconds",
				Help:      "Duration of cache operations in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"backend", "operation"},
		),
	}

	registry.MustRegister(m.operations, m.duration)
	return m
}

// Registry returns the registry the collectors are registered with.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler returns an HTTP handler for the metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	})
}

// Wrap returns a CacheStore recording every call made to store under the
// given backend label.
func (m *Metrics) Wrap(backend string, store simplefrontend.CacheStore) simplefrontend.CacheStore {
	return &instrumentedStore{metrics: m, backend: backend, next: store}
}

func (m *Metrics) record(backend, operation, result string, start time.Time) {
	m.operations.WithLabelValues(backend, operation, result).Inc()
	m.duration.WithLabelValues(backend, operation).Observe(time.Since(start).Seconds())
}

type instrumentedStore struct {
	metrics *Metrics
	backend string
	next    simplefrontend.CacheStore
}

func (s *instrumentedStore) Get(ctx context.Context, key string) ([]byte, error) {
	start := time.Now()
	value, err := s.next.Get(ctx, key)
	switch {
	case err == nil:
		s.metrics.record(s.backend, "get", ResultHit, start)
	case errors.Is(err, simplefrontend.ErrCacheMiss):
		s.metrics.record(s.backend, "get", ResultMiss, start)
	default:
		s.metrics.record(s.backend, "get", ResultError, start)
	}
	return value, err
}

func (s *instrumentedStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	start := time.Now()
	err := s.next.Set(ctx, key, value, ttl)
	s.metrics.record(s.backend, "set", resultOf(err), start)
	return err
}

func (s *instrumentedStore) Has(ctx context.Context, key string) (bool, error) {
	start := time.Now()
	ok, err := s.next.Has(ctx, key)
	switch {
	case err != nil:
		s.metrics.record(s.backend, "has", ResultError, start)
	case ok:
		s.metrics.record(s.backend, "has", ResultHit, start)
	default:
		s.metrics.record(s.backend, "has", ResultMiss, start)
	}
	return ok, err
}

func (s *instrumentedStore) Delete(ctx context.Context, key string) error {
	start := time.Now()
	err := s.next.Delete(ctx, key)
	s.metrics.record(s.backend, "delete", resultOf(err), start)
	return err
}

func resultOf(err error) string {
	if err != nil {
		return ResultError
	}
	return ResultOK
}
