package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config represents the complete sharefs configuration.
//
// Configuration sources (in order of precedence):
//  1. CLI flags (highest priority)
//  2. Environment variables (SHAREFS_*)
//  3. Configuration file (YAML or TOML)
//  4. Default values (lowest priority)
//
// Backend-specific sections (item and content stores) are kept as raw maps and
// decoded by the factory of the selected type, so only the section matching
// the configured type is ever interpreted.
type Config struct {
	// Logging controls log output behavior
	Logging LoggingConfig `mapstructure:"logging" yaml:"logging"`

	// Adapter configures the filesystem view over the remote account
	Adapter AdapterConfig `mapstructure:"adapter" yaml:"adapter"`

	// Client selects and configures the remote client
	Client ClientConfig `mapstructure:"client" yaml:"client"`

	// Metrics controls the Prometheus endpoint
	Metrics MetricsConfig `mapstructure:"metrics" yaml:"metrics"`
}

// LoggingConfig controls logging behavior.
type LoggingConfig struct {
	// Level is the minimum log level to output
	// Valid values: DEBUG, INFO, WARN, ERROR (case-insensitive, normalized to uppercase)
	Level string `mapstructure:"level" yaml:"level" validate:"required,oneof=DEBUG INFO WARN ERROR debug info warn error"`

	// Format specifies the log output format
	// Valid values: text, json
	Format string `mapstructure:"format" yaml:"format" validate:"required,oneof=text json"`

	// Output specifies where logs are written
	// Valid values: stdout, stderr, or a file path
	Output string `mapstructure:"output" yaml:"output" validate:"required"`

	// MaxSizeMB, MaxAgeDays and MaxBackups rotate file outputs
	MaxSizeMB  int `mapstructure:"max_size_mb" yaml:"max_size_mb" validate:"gte=0"`
	MaxAgeDays int `mapstructure:"max_age_days" yaml:"max_age_days" validate:"gte=0"`
	MaxBackups int `mapstructure:"max_backups" yaml:"max_backups" validate:"gte=0"`
}

// AdapterConfig configures the adapter.
type AdapterConfig struct {
	// Prefix is prepended to every logical path before it reaches the remote
	// account, e.g. "/Personal Folders/app".
	Prefix string `mapstructure:"prefix" yaml:"prefix"`

	// ReturnItem attaches the raw remote item to every metadata record
	ReturnItem bool `mapstructure:"return_item" yaml:"return_item"`

	// HomeFolderLabel is the label under which the root listing is served
	HomeFolderLabel string `mapstructure:"home_folder_label" yaml:"home_folder_label" validate:"required"`
}

// ClientConfig selects the remote client implementation.
type ClientConfig struct {
	// Type specifies which client to use
	// Valid values: rest, sandbox
	Type string `mapstructure:"type" yaml:"type" validate:"required,oneof=rest sandbox"`

	// REST is used when Type = "rest"
	REST RESTConfig `mapstructure:"rest" yaml:"rest"`

	// Sandbox is used when Type = "sandbox"
	Sandbox SandboxConfig `mapstructure:"sandbox" yaml:"sandbox"`
}

// RESTConfig configures the ShareFile REST client.
type RESTConfig struct {
	// Hostname is the account host, e.g. "acme.sharefile.com"
	Hostname string `mapstructure:"hostname" yaml:"hostname"`

	ClientID     string `mapstructure:"client_id" yaml:"client_id"`
	ClientSecret string `mapstructure:"client_secret" yaml:"client_secret"`
	Username     string `mapstructure:"username" yaml:"username"`
	Password     string `mapstructure:"password" yaml:"password"`

	// TokenURL overrides "https://<hostname>/oauth/token"
	TokenURL string `mapstructure:"token_url" yaml:"token_url" validate:"omitempty,url"`

	// BaseURL overrides the API root advertised by the token response
	BaseURL string `mapstructure:"base_url" yaml:"base_url" validate:"omitempty,url"`

	// Timeout bounds each HTTP request
	Timeout time.Duration `mapstructure:"timeout" yaml:"timeout" validate:"gte=0"`

	// MaxRetries is the number of retries of a transient failure
	MaxRetries int `mapstructure:"max_retries" yaml:"max_retries" validate:"gte=0"`

	// RequestsPerSecond throttles outgoing calls (0 = unlimited)
	RequestsPerSecond uint `mapstructure:"requests_per_second" yaml:"requests_per_second"`

	// Burst is the token bucket size (defaults to RequestsPerSecond)
	Burst uint `mapstructure:"burst" yaml:"burst"`
}

// SandboxConfig configures the local emulated account.
type SandboxConfig struct {
	// HomeFolder is the name of the home folder under the account root
	HomeFolder string `mapstructure:"home_folder" yaml:"home_folder" validate:"required"`

	// Items stores the item tree
	Items ItemStoreConfig `mapstructure:"items" yaml:"items"`

	// Content stores file bodies
	Content ContentStoreConfig `mapstructure:"content" yaml:"content"`
}

// ItemStoreConfig specifies the sandbox item store.
type ItemStoreConfig struct {
	// Type specifies which item store implementation to use
	// Valid values: memory, badger
	Type string `mapstructure:"type" yaml:"type" validate:"required,oneof=memory badger"`

	// Memory contains memory-specific configuration
	// Only used when Type = "memory"
	Memory map[string]any `mapstructure:"memory" yaml:"memory"`

	// Badger contains BadgerDB-specific configuration
	// Only used when Type = "badger"
	Badger map[string]any `mapstructure:"badger" yaml:"badger"`
}

// ContentStoreConfig specifies the sandbox content store.
type ContentStoreConfig struct {
	// Type specifies which content store implementation to use
	// Valid values: memory, filesystem, s3
	Type string `mapstructure:"type" yaml:"type" validate:"required,oneof=memory filesystem s3"`

	// Memory contains memory-specific configuration
	// Only used when Type = "memory"
	Memory map[string]any `mapstructure:"memory" yaml:"memory"`

	// Filesystem contains filesystem-specific configuration
	// Only used when Type = "filesystem"
	Filesystem map[string]any `mapstructure:"filesystem" yaml:"filesystem"`

	// S3 contains S3-specific configuration
	// Only used when Type = "s3"
	S3 map[string]any `mapstructure:"s3" yaml:"s3"`
}

// MetricsConfig controls the Prometheus endpoint.
type MetricsConfig struct {
	// Enabled starts the /metrics HTTP server
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`

	// Port is the listen port of the metrics server
	Port int `mapstructure:"port" yaml:"port" validate:"gte=0,lte=65535"`
}

// envKeys are bound to the environment explicitly so that a REST account can
// be configured without a config file.
var envKeys = []string{
	"client.type",
	"client.rest.hostname",
	"client.rest.client_id",
	"client.rest.client_secret",
	"client.rest.username",
	"client.rest.password",
	"client.rest.token_url",
	"client.rest.base_url",
}

// Load loads configuration from file, environment, and defaults.
//
// Configuration precedence (highest to lowest):
//  1. Environment variables (SHAREFS_*)
//  2. Configuration file
//  3. Default values
//
// An empty configPath searches the default location; a missing file there is
// not an error.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	setupViper(v, configPath)

	if err := readConfigFile(v); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	ApplyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// setupViper configures viper with environment variables and config file settings.
func setupViper(v *viper.Viper, configPath string) {
	// Example: SHAREFS_LOGGING_LEVEL=DEBUG, SHAREFS_CLIENT_REST_PASSWORD=...
	v.SetEnvPrefix("SHAREFS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for _, key := range envKeys {
		_ = v.BindEnv(key)
	}

	if configPath != "" {
		v.SetConfigFile(configPath)
		return
	}

	// Default location: $XDG_CONFIG_HOME/sharefs/config.{yaml,toml}
	v.AddConfigPath(getConfigDir())
	v.SetConfigName("config")
	v.SetConfigType("yaml")
}

// readConfigFile reads the configuration file if it exists.
func readConfigFile(v *viper.Viper) error {
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil
		}
		// An explicit path that does not exist surfaces as a path error.
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to read config file: %w", err)
	}
	return nil
}

// getConfigDir returns the configuration directory path.
//
// Uses XDG_CONFIG_HOME if set, otherwise ~/.config, or falls back to the
// current directory if the home directory cannot be determined.
func getConfigDir() string {
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "sharefs")
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}

	return filepath.Join(home, ".config", "sharefs")
}

// GetDefaultConfigPath returns the default configuration file path.
func GetDefaultConfigPath() string {
	return filepath.Join(getConfigDir(), "config.yaml")
}

// ConfigExists checks if a config file exists at the default location.
func ConfigExists() bool {
	_, err := os.Stat(GetDefaultConfigPath())
	return err == nil
}

// GetConfigDir returns the configuration directory path.
func GetConfigDir() string {
	return getConfigDir()
}
