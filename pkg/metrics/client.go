package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ClientMetrics records calls issued by a remote client implementation.
//
// status is the HTTP status code, or 0 when the request never got a response.
type ClientMetrics interface {
	RecordRequest(endpoint string, status int, duration time.Duration)
	RecordRetry(endpoint string)
}

type clientMetrics struct {
	clientType      string
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	retriesTotal    *prometheus.CounterVec
}

// NewClientMetrics creates client metrics on the global registry, or a no-op
// implementation when metrics are disabled.
func NewClientMetrics(clientType string) ClientMetrics {
	if !IsEnabled() {
		return NewNoopClientMetrics()
	}
	return NewClientMetricsWith(GetRegistry(), clientType)
}

// NewClientMetricsWith creates client metrics registered on reg.
func NewClientMetricsWith(reg prometheus.Registerer, clientType string) ClientMetrics {
	return &clientMetrics{
		clientType: clientType,
		requestsTotal: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "sharefs_client_requests_total",
				Help: "Total number of remote API requests by client type, endpoint and status",
			},
			[]string{"client_type", "endpoint", "status"},
		),
		requestDuration: promauto.With(reg).NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "sharefs_client_request_duration_seconds",
				Help:    "Duration of remote API requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"client_type", "endpoint"},
		),
		retriesTotal: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "sharefs_client_retries_total",
				Help: "Total number of retried remote API requests",
			},
			[]string{"client_type", "endpoint"},
		),
	}
}

func (m *clientMetrics) RecordRequest(endpoint string, status int, duration time.Duration) {
	m.requestsTotal.WithLabelValues(m.clientType, endpoint, strconv.Itoa(status)).Inc()
	m.requestDuration.WithLabelValues(m.clientType, endpoint).Observe(duration.Seconds())
}

func (m *clientMetrics) RecordRetry(endpoint string) {
	m.retriesTotal.WithLabelValues(m.clientType, endpoint).Inc()
}

type noopClientMetrics struct{}

// NewNoopClientMetrics returns a ClientMetrics that discards everything.
func NewNoopClientMetrics() ClientMetrics {
	return noopClientMetrics{}
}

func (noopClientMetrics) RecordRequest(string, int, time.Duration) {}
func (noopClientMetrics) RecordRetry(string)                       {}
