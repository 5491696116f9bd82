package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/marmos91/sharefs/pkg/adapter"
	"github.com/marmos91/sharefs/pkg/sharefile/sandbox"
)

// ApplyDefaults sets default values for any unspecified configuration fields.
//
// Zero values are replaced with defaults; explicit values are preserved.
// Store-specific option maps get defaults for every backend so that a
// generated config file documents all of them.
func ApplyDefaults(cfg *Config) {
	applyLoggingDefaults(&cfg.Logging)
	applyAdapterDefaults(&cfg.Adapter)
	applyClientDefaults(&cfg.Client)
	applyMetricsDefaults(&cfg.Metrics)
}

// applyLoggingDefaults sets logging defaults and normalizes values.
func applyLoggingDefaults(cfg *LoggingConfig) {
	if cfg.Level == "" {
		cfg.Level = "INFO"
	}
	cfg.Level = strings.ToUpper(cfg.Level)

	if cfg.Format == "" {
		cfg.Format = "text"
	}
	// stdout carries command output (e.g. cat), so logs go to stderr
	if cfg.Output == "" {
		cfg.Output = "stderr"
	}
	if cfg.MaxSizeMB == 0 {
		cfg.MaxSizeMB = 100
	}
	if cfg.MaxBackups == 0 {
		cfg.MaxBackups = 5
	}
}

func applyAdapterDefaults(cfg *AdapterConfig) {
	if cfg.HomeFolderLabel == "" {
		cfg.HomeFolderLabel = adapter.DefaultHomeFolderLabel
	}
}

func applyClientDefaults(cfg *ClientConfig) {
	if cfg.Type == "" {
		cfg.Type = "sandbox"
	}
	cfg.Type = strings.ToLower(cfg.Type)

	applyRESTDefaults(&cfg.REST)
	applySandboxDefaults(&cfg.Sandbox)
}

func applyRESTDefaults(cfg *RESTConfig) {
	if cfg.Timeout == 0 {
		cfg.Timeout = 60 * time.Second
	}
	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = 3
	}
	if cfg.Burst == 0 {
		cfg.Burst = cfg.RequestsPerSecond
	}
}

func applySandboxDefaults(cfg *SandboxConfig) {
	if cfg.HomeFolder == "" {
		cfg.HomeFolder = sandbox.DefaultHomeFolder
	}

	base := filepath.Join(os.TempDir(), "sharefs-sandbox")

	if cfg.Items.Type == "" {
		cfg.Items.Type = "badger"
	}
	if cfg.Items.Memory == nil {
		cfg.Items.Memory = make(map[string]any)
	}
	if cfg.Items.Badger == nil {
		cfg.Items.Badger = make(map[string]any)
	}
	if _, ok := cfg.Items.Badger["db_path"]; !ok {
		cfg.Items.Badger["db_path"] = filepath.Join(base, "items")
	}

	if cfg.Content.Type == "" {
		cfg.Content.Type = "filesystem"
	}
	if cfg.Content.Memory == nil {
		cfg.Content.Memory = make(map[string]any)
	}
	if cfg.Content.Filesystem == nil {
		cfg.Content.Filesystem = make(map[string]any)
	}
	if _, ok := cfg.Content.Filesystem["path"]; !ok {
		cfg.Content.Filesystem["path"] = filepath.Join(base, "content")
	}
	if cfg.Content.S3 == nil {
		cfg.Content.S3 = make(map[string]any)
	}
}

func applyMetricsDefaults(cfg *MetricsConfig) {
	if cfg.Port == 0 {
		cfg.Port = 9090
	}
}

// GetDefaultConfig returns a Config struct with all default values applied.
//
// This is useful for generating sample configuration files and for tests.
func GetDefaultConfig() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}
