package config

import (
	"github.com/marmos91/sharefs/pkg/metrics"
)

// MetricsResult contains all metrics-related components created from configuration.
type MetricsResult struct {
	// Server is the HTTP server exposing Prometheus metrics (nil if disabled)
	Server *metrics.Server

	// AdapterMetrics is never nil; it is a no-op when disabled
	AdapterMetrics metrics.AdapterMetrics

	// ClientMetrics is never nil; it is a no-op when disabled
	ClientMetrics metrics.ClientMetrics
}

// InitializeMetrics creates the metrics components described by cfg.
//
// When metrics are enabled the global registry is initialized and the
// collectors are registered on it. Call it once per process.
func InitializeMetrics(cfg *Config) *MetricsResult {
	if !cfg.Metrics.Enabled {
		return &MetricsResult{
			AdapterMetrics: metrics.NewNoopAdapterMetrics(),
			ClientMetrics:  metrics.NewNoopClientMetrics(),
		}
	}

	metrics.InitRegistry()

	return &MetricsResult{
		Server:         metrics.NewServer(metrics.ServerConfig{Port: cfg.Metrics.Port}),
		AdapterMetrics: metrics.NewAdapterMetrics(),
		ClientMetrics:  metrics.NewClientMetrics(cfg.Client.Type),
	}
}
