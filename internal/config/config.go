package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config is the top-level configuration.
type Config struct {
	// ADBPath overrides adb auto-discovery when set.
	ADBPath string `yaml:"adb_path,omitempty"`

	PingHost            string `yaml:"ping_host"`
	PingCount           int    `yaml:"ping_count"`
	PingDeadlineSeconds int    `yaml:"ping_deadline_seconds"`

	SettleDelaySeconds    int `yaml:"settle_delay_seconds"`
	ReconnectDelaySeconds int `yaml:"reconnect_delay_seconds"`

	LookupURL string `yaml:"lookup_url"`

	// Optional log file with rotation. Empty means console only.
	LogFile       string `yaml:"log_file,omitempty"`
	LogMaxSizeMB  int    `yaml:"log_max_size_mb,omitempty"`
	LogMaxBackups int    `yaml:"log_max_backups,omitempty"`
	LogMaxAgeDays int    `yaml:"log_max_age_days,omitempty"`
}

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		PingHost:              "www.google.com",
		PingCount:             4,
		PingDeadlineSeconds:   10,
		SettleDelaySeconds:    5,
		ReconnectDelaySeconds: 10,
		LookupURL:             "ip-api.com/json/",
		LogMaxSizeMB:          10,
		LogMaxBackups:         3,
		LogMaxAgeDays:         30,
	}
}

// ConfigDir returns the config directory path.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "aircycle")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "aircycle")
}

// ConfigPath returns the config file path.
func ConfigPath() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

// Load reads the config file, returning defaults if it doesn't exist.
func Load() (*Config, error) {
	path := ConfigPath()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// Save writes the config to disk.
func Save(cfg *Config) error {
	dir := ConfigDir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(ConfigPath(), data, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
