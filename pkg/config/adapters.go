package config

import (
	"github.com/marmos91/sharefs/pkg/adapter"
	"github.com/marmos91/sharefs/pkg/metrics"
	"github.com/marmos91/sharefs/pkg/sharefile"
)

// CreateAdapter builds the filesystem adapter over client.
//
// adapterMetrics may be nil, in which case the adapter records nothing.
func CreateAdapter(cfg *AdapterConfig, client sharefile.Client, adapterMetrics metrics.AdapterMetrics) *adapter.Adapter {
	opts := []adapter.Option{
		adapter.WithPrefix(cfg.Prefix),
		adapter.WithReturnItem(cfg.ReturnItem),
		adapter.WithHomeFolderLabel(cfg.HomeFolderLabel),
	}
	if adapterMetrics != nil {
		opts = append(opts, adapter.WithMetrics(adapterMetrics))
	}

	return adapter.New(client, opts...)
}
