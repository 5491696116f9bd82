package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

func useTempConfigDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	return filepath.Join(dir, "sharefs")
}

func TestInitConfig_Success(t *testing.T) {
	configDir := useTempConfigDir(t)

	configPath, err := InitConfig(false)
	if err != nil {
		t.Fatalf("InitConfig failed: %v", err)
	}
	if configPath != filepath.Join(configDir, "config.yaml") {
		t.Errorf("Unexpected config path %q", configPath)
	}

	content, err := os.ReadFile(configPath)
	if err != nil {
		t.Fatalf("Failed to read config file: %v", err)
	}

	contentStr := string(content)
	for _, section := range []string{
		"# sharefs Configuration File",
		"logging:",
		"adapter:",
		"client:",
		"sandbox:",
		"metrics:",
	} {
		if !strings.Contains(contentStr, section) {
			t.Errorf("Config file missing section: %s", section)
		}
	}

	var cfg Config
	if err := yaml.Unmarshal(content, &cfg); err != nil {
		t.Fatalf("Generated config is not valid YAML: %v", err)
	}
}

func TestInitConfig_LoadsBackIntoDefaults(t *testing.T) {
	useTempConfigDir(t)

	configPath, err := InitConfig(false)
	if err != nil {
		t.Fatalf("InitConfig failed: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Generated config does not load: %v", err)
	}

	defaults := GetDefaultConfig()
	if cfg.Client.Type != defaults.Client.Type {
		t.Errorf("Expected client type %q, got %q", defaults.Client.Type, cfg.Client.Type)
	}
	if cfg.Client.REST.Timeout != defaults.Client.REST.Timeout {
		t.Errorf("Expected timeout %v, got %v", defaults.Client.REST.Timeout, cfg.Client.REST.Timeout)
	}
	if cfg.Client.Sandbox.Content.Filesystem["path"] != defaults.Client.Sandbox.Content.Filesystem["path"] {
		t.Errorf("Content path did not survive the round trip")
	}
}

func TestInitConfig_AlreadyExists(t *testing.T) {
	useTempConfigDir(t)

	if _, err := InitConfig(false); err != nil {
		t.Fatalf("First InitConfig failed: %v", err)
	}

	_, err := InitConfig(false)
	if err == nil {
		t.Fatal("Expected error when config already exists")
	}
	if !strings.Contains(err.Error(), "already exists") {
		t.Errorf("Expected 'already exists' error, got: %v", err)
	}
}

func TestInitConfig_Force(t *testing.T) {
	useTempConfigDir(t)

	configPath, err := InitConfig(false)
	if err != nil {
		t.Fatalf("First InitConfig failed: %v", err)
	}
	if err := os.WriteFile(configPath, []byte("# custom\n"), 0600); err != nil {
		t.Fatalf("Failed to modify config: %v", err)
	}

	if _, err := InitConfig(true); err != nil {
		t.Fatalf("Force InitConfig failed: %v", err)
	}

	content, err := os.ReadFile(configPath)
	if err != nil {
		t.Fatalf("Failed to read config file: %v", err)
	}
	if strings.Contains(string(content), "# custom") {
		t.Error("Force should overwrite the existing file")
	}
}

func TestInitConfigAt_FilePermissions(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "nested", "sharefs.yaml")

	if err := InitConfigAt(configPath, false); err != nil {
		t.Fatalf("InitConfigAt failed: %v", err)
	}

	info, err := os.Stat(configPath)
	if err != nil {
		t.Fatalf("Config file was not created: %v", err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("Expected mode 0600, got %v", info.Mode().Perm())
	}
}
