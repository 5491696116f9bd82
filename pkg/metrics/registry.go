// Package metrics provides Prometheus metrics collection for sharefs components.
//
// All metrics are optional - if the registry is not initialized, constructors
// return no-op implementations with zero overhead.
//
// Usage:
//
//	metrics.InitRegistry()
//	adapterMetrics := metrics.NewAdapterMetrics()
//	clientMetrics := metrics.NewClientMetrics("rest")
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registry     *prometheus.Registry
	registryOnce sync.Once
)

// InitRegistry initializes the global Prometheus registry. Subsequent calls
// are ignored.
func InitRegistry() {
	registryOnce.Do(func() {
		registry = prometheus.NewRegistry()
	})
}

// GetRegistry returns the global registry, or nil if InitRegistry was never
// called.
func GetRegistry() *prometheus.Registry {
	return registry
}

// IsEnabled reports whether metrics collection is active.
func IsEnabled() bool {
	return GetRegistry() != nil
}

// Outcome labels used by every operation counter.
const (
	OutcomeOK       = "ok"
	OutcomeNotFound = "not_found"
	OutcomeError    = "error"
)
