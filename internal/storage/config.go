package storage

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const (
	// userConfigFile is the name of the user configuration file inside the
	// data directory. It is user-managed and never written by pace.
	userConfigFile = ".paceconfig.yaml"

	// Default configuration values
	DefaultServerURL      = "http://localhost:5010"
	DefaultTimeoutSeconds = 10
)

// Config represents user configuration from .paceconfig.yaml.
type Config struct {
	// ServerURL is the base URL of the paced backend used by
	// `pace update` and `pace chat`.
	ServerURL string `yaml:"server_url"`

	// TimeoutSeconds bounds every network call made by the CLI.
	TimeoutSeconds int `yaml:"timeout_seconds"`
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		ServerURL:      DefaultServerURL,
		TimeoutSeconds: DefaultTimeoutSeconds,
	}
}

// LoadConfig loads .paceconfig.yaml if it exists, otherwise returns
// defaults. Partial config files are merged with defaults.
func (s *Store) LoadConfig() (*Config, error) {
	configPath := filepath.Join(s.dir, userConfigFile)

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", userConfigFile, err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", userConfigFile, err)
	}

	return cfg, nil
}

// ConfigPath returns the path to the user config file.
func (s *Store) ConfigPath() string {
	return filepath.Join(s.dir, userConfigFile)
}
