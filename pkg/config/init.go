package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"text/template"

	"gopkg.in/yaml.v3"
)

// InitConfig writes a commented default configuration file to the default
// location and returns its path. An existing file is kept unless force is
// set.
func InitConfig(force bool) (string, error) {
	configPath := GetDefaultConfigPath()
	return configPath, writeDefaultConfig(configPath, force)
}

// InitConfigAt is InitConfig for an explicit path.
func InitConfigAt(configPath string, force bool) error {
	return writeDefaultConfig(configPath, force)
}

func writeDefaultConfig(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("config file already exists at %s (use --force to overwrite)", configPath)
	}

	rendered, err := renderDefaultConfig()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// Credentials may end up in this file.
	if err := os.WriteFile(configPath, rendered, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// renderDefaultConfig renders the sample file from GetDefaultConfig and checks
// that it parses back into a Config.
func renderDefaultConfig() ([]byte, error) {
	var buf bytes.Buffer
	if err := defaultConfigTemplate.Execute(&buf, GetDefaultConfig()); err != nil {
		return nil, fmt.Errorf("failed to render default config: %w", err)
	}

	var check Config
	if err := yaml.Unmarshal(buf.Bytes(), &check); err != nil {
		return nil, fmt.Errorf("default config is not valid YAML: %w", err)
	}

	return buf.Bytes(), nil
}

var defaultConfigTemplate = template.Must(template.New("config").Parse(`# sharefs Configuration File
#
# Values can be overridden with SHAREFS_* environment variables, e.g.
# SHAREFS_LOGGING_LEVEL=DEBUG or SHAREFS_CLIENT_REST_PASSWORD=...

logging:
  # DEBUG, INFO, WARN or ERROR
  level: "{{ .Logging.Level }}"
  # text or json
  format: "{{ .Logging.Format }}"
  # stdout, stderr or a file path
  output: "{{ .Logging.Output }}"
  # Rotation of file outputs (0 disables the age limit)
  max_size_mb: {{ .Logging.MaxSizeMB }}
  max_age_days: {{ .Logging.MaxAgeDays }}
  max_backups: {{ .Logging.MaxBackups }}

adapter:
  # Remote folder every path is relative to, e.g. "/Personal Folders/app"
  prefix: "{{ .Adapter.Prefix }}"
  # Attach the raw remote item to every metadata record
  return_item: {{ .Adapter.ReturnItem }}
  # Label under which the root listing is served
  home_folder_label: "{{ .Adapter.HomeFolderLabel }}"

client:
  # rest (a real ShareFile account) or sandbox (local emulation)
  type: "{{ .Client.Type }}"

  rest:
    hostname: ""
    client_id: ""
    client_secret: ""
    username: ""
    password: ""
    # Leave empty to derive https://<hostname>/oauth/token
    token_url: ""
    # Leave empty to use the API host advertised at login
    base_url: ""
    timeout: "{{ .Client.REST.Timeout }}"
    max_retries: {{ .Client.REST.MaxRetries }}
    # 0 disables rate limiting
    requests_per_second: {{ .Client.REST.RequestsPerSecond }}
    burst: {{ .Client.REST.Burst }}

  sandbox:
    home_folder: "{{ .Client.Sandbox.HomeFolder }}"

    items:
      # memory or badger
      type: "{{ .Client.Sandbox.Items.Type }}"
      badger:
        db_path: "{{ index .Client.Sandbox.Items.Badger "db_path" }}"

    content:
      # memory, filesystem or s3
      type: "{{ .Client.Sandbox.Content.Type }}"
      filesystem:
        path: "{{ index .Client.Sandbox.Content.Filesystem "path" }}"
      s3:
        region: ""
        bucket: ""
        key_prefix: ""
        # Custom endpoint for MinIO or Localstack
        endpoint: ""
        access_key_id: ""
        secret_access_key: ""

metrics:
  enabled: {{ .Metrics.Enabled }}
  port: {{ .Metrics.Port }}
`))
