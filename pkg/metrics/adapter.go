package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// AdapterMetrics records filesystem adapter operations.
//
// outcome is one of OutcomeOK, OutcomeNotFound (unresolvable or denied) and
// OutcomeError (remote failure).
type AdapterMetrics interface {
	RecordOperation(operation, outcome string, duration time.Duration)
	RecordBytes(direction string, n int64)
}

type adapterMetrics struct {
	operationsTotal   *prometheus.CounterVec
	operationDuration *prometheus.HistogramVec
	bytesTransferred  *prometheus.CounterVec
}

// NewAdapterMetrics creates adapter metrics on the global registry, or a no-op
// implementation when metrics are disabled.
func NewAdapterMetrics() AdapterMetrics {
	if !IsEnabled() {
		return NewNoopAdapterMetrics()
	}
	return NewAdapterMetricsWith(GetRegistry())
}

// NewAdapterMetricsWith creates adapter metrics registered on reg.
func NewAdapterMetricsWith(reg prometheus.Registerer) AdapterMetrics {
	return &adapterMetrics{
		operationsTotal: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "sharefs_adapter_operations_total",
				Help: "Total number of adapter operations by operation and outcome",
			},
			[]string{"operation", "outcome"},
		),
		operationDuration: promauto.With(reg).NewHistogramVec(
			prometheus.HistogramOpts{
				Name: "sharefs_adapter_operation_duration_seconds",
				Help: "Duration of adapter operations in seconds, remote calls included",
				Buckets: []float64{
					0.01,  // 10ms
					0.05,  // 50ms
					0.1,   // 100ms
					0.25,  // 250ms
					0.5,   // 500ms
					1,     // 1s
					2.5,   // 2.5s
					5,     // 5s
					10,    // 10s
				},
			},
			[]string{"operation"},
		),
		bytesTransferred: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "sharefs_adapter_bytes_total",
				Help: "Bytes read from or written to the remote store through buffered operations",
			},
			[]string{"direction"},
		),
	}
}

func (m *adapterMetrics) RecordOperation(operation, outcome string, duration time.Duration) {
	m.operationsTotal.WithLabelValues(operation, outcome).Inc()
	m.operationDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

func (m *adapterMetrics) RecordBytes(direction string, n int64) {
	if n <= 0 {
		return
	}
	m.bytesTransferred.WithLabelValues(direction).Add(float64(n))
}

type noopAdapterMetrics struct{}

// NewNoopAdapterMetrics returns an AdapterMetrics that discards everything.
func NewNoopAdapterMetrics() AdapterMetrics {
	return noopAdapterMetrics{}
}

func (noopAdapterMetrics) RecordOperation(string, string, time.Duration) {}
func (noopAdapterMetrics) RecordBytes(string, int64)                     {}
