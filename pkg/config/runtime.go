package config

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/marmos91/sharefs/internal/logger"
	"github.com/marmos91/sharefs/pkg/adapter"
	"github.com/marmos91/sharefs/pkg/sharefile"
)

// Runtime is a fully wired adapter and the collaborators it owns.
type Runtime struct {
	Adapter *adapter.Adapter
	Client  sharefile.Client
	Metrics *MetricsResult
}

// Initialize wires the components described by cfg:
//  1. Configures the process logger
//  2. Creates the metrics components (no-op when disabled)
//  3. Creates the remote client (REST or sandbox with its stores)
//  4. Builds the adapter over the client
//
// The metrics server is created but not started; see Runtime.StartMetrics.
//
// Example:
//
//	cfg, _ := config.Load("")
//	rt, err := config.Initialize(ctx, cfg)
//	if err != nil {
//	    return err
//	}
//	defer rt.Close()
//	meta, err := rt.Adapter.GetMetadata(ctx, "report.pdf")
func Initialize(ctx context.Context, cfg *Config) (*Runtime, error) {
	if err := logger.Init(logger.Config{
		Level:      cfg.Logging.Level,
		Format:     cfg.Logging.Format,
		Output:     cfg.Logging.Output,
		MaxSizeMB:  cfg.Logging.MaxSizeMB,
		MaxAgeDays: cfg.Logging.MaxAgeDays,
		MaxBackups: cfg.Logging.MaxBackups,
	}); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	metricsResult := InitializeMetrics(cfg)

	client, err := CreateClient(ctx, &cfg.Client, metricsResult.ClientMetrics)
	if err != nil {
		return nil, err
	}

	return &Runtime{
		Adapter: CreateAdapter(&cfg.Adapter, client, metricsResult.AdapterMetrics),
		Client:  client,
		Metrics: metricsResult,
	}, nil
}

// StartMetrics serves /metrics in the background until ctx is cancelled.
// It does nothing when metrics are disabled.
func (r *Runtime) StartMetrics(ctx context.Context) {
	if r.Metrics == nil || r.Metrics.Server == nil {
		return
	}
	go func() {
		if err := r.Metrics.Server.Start(ctx); err != nil {
			logger.Error("Metrics server error: %v", err)
		}
	}()
}

// Close releases the client and flushes the logger.
func (r *Runtime) Close() error {
	var errs []error
	if closer, ok := r.Client.(io.Closer); ok {
		errs = append(errs, closer.Close())
	}
	// Sync fails on terminals; the error carries no information.
	_ = logger.Sync()
	return errors.Join(errs...)
}
