package metrics

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// StoreMetrics records operations of a sandbox backing store (item tree or
// content blobs).
//
// outcome follows the adapter convention: OutcomeOK, OutcomeNotFound or
// OutcomeError.
type StoreMetrics interface {
	RecordOperation(operation, outcome string, duration time.Duration)
	RecordBytes(direction string, n int64)
}

type storeMetrics struct {
	store             string
	operationsTotal   *prometheus.CounterVec
	operationDuration *prometheus.HistogramVec
	bytesTotal        *prometheus.CounterVec
}

// NewStoreMetrics creates store metrics on the global registry, or a no-op
// implementation when metrics are disabled. store labels the series, e.g.
// "items_badger" or "content_s3".
func NewStoreMetrics(store string) StoreMetrics {
	if !IsEnabled() {
		return NewNoopStoreMetrics()
	}
	return NewStoreMetricsWith(GetRegistry(), store)
}

// NewStoreMetricsWith creates store metrics registered on reg. Stores share
// the collectors; repeated calls reuse what is already registered.
func NewStoreMetricsWith(reg prometheus.Registerer, store string) StoreMetrics {
	return &storeMetrics{
		store: store,
		operationsTotal: registerOrReuse(reg, prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sharefs_store_operations_total",
				Help: "Total number of backing store operations by store, operation and outcome",
			},
			[]string{"store", "operation", "outcome"},
		)),
		operationDuration: registerOrReuse(reg, prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name: "sharefs_store_operation_duration_seconds",
				Help: "Duration of backing store operations in seconds",
				Buckets: []float64{
					0.0001, // 100µs
					0.0005, // 500µs
					0.001,  // 1ms
					0.005,  // 5ms
					0.01,   // 10ms
					0.05,   // 50ms
					0.1,    // 100ms
					0.5,    // 500ms
					1,      // 1s
				},
			},
			[]string{"store", "operation"},
		)),
		bytesTotal: registerOrReuse(reg, prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sharefs_store_bytes_total",
				Help: "Bytes read from or written to a backing store",
			},
			[]string{"store", "direction"},
		)),
	}
}

// registerOrReuse registers c, or returns the collector already registered
// under the same descriptor.
func registerOrReuse[T prometheus.Collector](reg prometheus.Registerer, c T) T {
	if err := reg.Register(c); err != nil {
		var already prometheus.AlreadyRegisteredError
		if errors.As(err, &already) {
			if existing, ok := already.ExistingCollector.(T); ok {
				return existing
			}
		}
		panic(err)
	}
	return c
}

func (m *storeMetrics) RecordOperation(operation, outcome string, duration time.Duration) {
	m.operationsTotal.WithLabelValues(m.store, operation, outcome).Inc()
	m.operationDuration.WithLabelValues(m.store, operation).Observe(duration.Seconds())
}

func (m *storeMetrics) RecordBytes(direction string, n int64) {
	if n <= 0 {
		return
	}
	m.bytesTotal.WithLabelValues(m.store, direction).Add(float64(n))
}

type noopStoreMetrics struct{}

// NewNoopStoreMetrics returns a StoreMetrics that discards everything.
func NewNoopStoreMetrics() StoreMetrics {
	return noopStoreMetrics{}
}

func (noopStoreMetrics) RecordOperation(string, string, time.Duration) {}
func (noopStoreMetrics) RecordBytes(string, int64)                     {}
