// Package metrics exposes load run counters for Prometheus scraping.
package metrics

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metric names
const (
	MetricRequestsTotal          = "loadgen_requests_total"
	MetricRequestDurationSeconds = "loadgen_request_duration_seconds"
	MetricPoolSize               = "loadgen_pool_size"
	MetricDuplicateNumbersTotal  = "loadgen_duplicate_numbers_total"
)

// Exporter serves run metrics over HTTP.
//
// Thread Safety: Safe for concurrent use by multiple goroutines.
type Exporter struct {
	mu       sync.Mutex
	registry *prometheus.Registry

	requestsTotal    *prometheus.CounterVec
	requestDuration  *prometheus.HistogramVec
	poolSize         prometheus.Gauge
	duplicateNumbers prometheus.Counter

	server *http.Server
}

// NewExporter creates an exporter with its own registry
func NewExporter() *Exporter {
	e := &Exporter{
		registry: prometheus.NewRegistry(),
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: MetricRequestsTotal,
			Help: "Requests sent, by operation and outcome",
		}, []string{"operation", "outcome"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    MetricRequestDurationSeconds,
			Help:    "Request latency by operation",
			Buckets: prometheus.DefBuckets,
		}, []string{"operation"}),
		poolSize: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: MetricPoolSize,
			Help: "Orders currently held for status changes",
		}),
		duplicateNumbers: prometheus.NewCounter(prometheus.CounterOpts{
			Name: MetricDuplicateNumbersTotal,
			Help: "Order numbers seen for two different idempotency keys",
		}),
	}
	e.registry.MustRegister(e.requestsTotal, e.requestDuration, e.poolSize, e.duplicateNumbers)
	return e
}

// RecordRequest counts one request; outcome is e.g. ok, replayed, conflict, error
func (e *Exporter) RecordRequest(operation, outcome string, latency time.Duration) {
	e.requestsTotal.WithLabelValues(operation, outcome).Inc()
	if latency > 0 {
		e.requestDuration.WithLabelValues(operation).Observe(latency.Seconds())
	}
}

// SetPoolSize updates the pooled order gauge
func (e *Exporter) SetPoolSize(n int) {
	e.poolSize.Set(float64(n))
}

// RecordDuplicate counts a duplicated order number
func (e *Exporter) RecordDuplicate() {
	e.duplicateNumbers.Inc()
}

// Registry returns the underlying registry
func (e *Exporter) Registry() *prometheus.Registry {
	return e.registry
}

// Start serves /metrics on addr, e.g. ":9090"
func (e *Exporter) Start(addr string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.server != nil {
		return nil
	}

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("starting Prometheus exporter: %w", err)
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(e.registry, promhttp.HandlerOpts{EnableOpenMetrics: true}))
	e.server = &http.Server{Handler: mux, ReadHeaderTimeout: 10 * time.Second}

	go func(srv *http.Server) {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			fmt.Printf("Prometheus exporter stopped: %v\n", err)
		}
	}(e.server)
	return nil
}

// Stop shuts the HTTP server down
func (e *Exporter) Stop(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.server == nil {
		return nil
	}
	err := e.server.Shutdown(ctx)
	e.server = nil
	return err
}
