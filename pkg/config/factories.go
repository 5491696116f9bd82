package config

import (
	"context"
	"errors"
	"fmt"

	"github.com/marmos91/sharefs/internal/logger"
	"github.com/marmos91/sharefs/pkg/content"
	"github.com/marmos91/sharefs/pkg/itemstore"
	"github.com/marmos91/sharefs/pkg/metrics"
	"github.com/marmos91/sharefs/pkg/sharefile"
	"github.com/marmos91/sharefs/pkg/sharefile/rest"
	"github.com/marmos91/sharefs/pkg/sharefile/sandbox"
)

// CreateClient creates the remote client selected by cfg.Type.
//
// The sandbox client owns its stores; callers release them by closing the
// returned client when it implements io.Closer.
func CreateClient(ctx context.Context, cfg *ClientConfig, clientMetrics metrics.ClientMetrics) (sharefile.Client, error) {
	switch cfg.Type {
	case "rest":
		return createRESTClient(ctx, &cfg.REST, clientMetrics)
	case "sandbox":
		return createSandboxClient(ctx, &cfg.Sandbox)
	default:
		return nil, fmt.Errorf("unknown client type: %q", cfg.Type)
	}
}

func createRESTClient(ctx context.Context, cfg *RESTConfig, clientMetrics metrics.ClientMetrics) (sharefile.Client, error) {
	policy := rest.DefaultRetryPolicy
	policy.MaxRetries = cfg.MaxRetries

	client, err := rest.New(ctx, rest.Config{
		Hostname:          cfg.Hostname,
		ClientID:          cfg.ClientID,
		ClientSecret:      cfg.ClientSecret,
		Username:          cfg.Username,
		Password:          cfg.Password,
		TokenURL:          cfg.TokenURL,
		BaseURL:           cfg.BaseURL,
		Timeout:           cfg.Timeout,
		Retry:             policy,
		RequestsPerSecond: cfg.RequestsPerSecond,
		Burst:             cfg.Burst,
		Metrics:           clientMetrics,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create rest client: %w", err)
	}

	logger.Info("ShareFile REST client ready: api=%s user=%s", client.BaseURL(), cfg.Username)
	return client, nil
}

func createSandboxClient(ctx context.Context, cfg *SandboxConfig) (sharefile.Client, error) {
	items, err := CreateItemStore(ctx, &cfg.Items)
	if err != nil {
		return nil, err
	}

	blobs, err := CreateContentStore(ctx, &cfg.Content)
	if err != nil {
		return nil, errors.Join(err, items.Close())
	}

	if metrics.IsEnabled() {
		items = itemstore.Instrument(items, metrics.NewStoreMetrics("items_"+cfg.Items.Type))
		blobs = content.Instrument(blobs, metrics.NewStoreMetrics("content_"+cfg.Content.Type))
	}

	client, err := sandbox.New(ctx, sandbox.Config{
		Items:      items,
		Content:    blobs,
		HomeFolder: cfg.HomeFolder,
	})
	if err != nil {
		return nil, errors.Join(fmt.Errorf("failed to create sandbox client: %w", err), items.Close())
	}

	logger.Info("Sandbox client ready: items=%s content=%s home=%q",
		cfg.Items.Type, cfg.Content.Type, cfg.HomeFolder)
	return client, nil
}
