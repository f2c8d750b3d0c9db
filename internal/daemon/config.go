// Package daemon holds the server process configuration. Config lives in a
// TOML file under the studyquest home directory and every field has a usable
// default, so a missing file is not an error.
package daemon

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config is the full server configuration.
type Config struct {
	API     APIConfig     `toml:"api"`
	Storage StorageConfig `toml:"storage"`
	Metrics MetricsConfig `toml:"metrics"`
	Sweep   SweepConfig   `toml:"sweep"`
}

// APIConfig configures the HTTP listener.
type APIConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// StorageConfig configures the SQLite database location.
type StorageConfig struct {
	Path string `toml:"path"`
}

// MetricsConfig toggles the Prometheus /metrics endpoint.
type MetricsConfig struct {
	Enabled bool `toml:"enabled"`
}

// SweepConfig configures the orphaned-session reconciler.
type SweepConfig struct {
	// OnStartup closes orphaned sessions once when the server boots.
	OnStartup bool `toml:"on_startup"`
	// MaxAge is the minimum age of an unfinished session before the sweep
	// considers it orphaned. Parsed by time.ParseDuration.
	MaxAge string `toml:"max_age"`
}

// Addr returns the host:port listen address.
func (c APIConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// DefaultConfig returns the configuration used when no config file exists.
func DefaultConfig() *Config {
	return &Config{
		API: APIConfig{
			Host: "127.0.0.1",
			Port: 8000,
		},
		Storage: StorageConfig{
			Path: filepath.Join(Home(), "studyquest.db"),
		},
		Metrics: MetricsConfig{
			Enabled: true,
		},
		Sweep: SweepConfig{
			OnStartup: true,
			MaxAge:    "24h",
		},
	}
}

// Home returns the studyquest home directory (~/.studyquest), overridable
// via STUDYQUEST_HOME.
func Home() string {
	if home := os.Getenv("STUDYQUEST_HOME"); home != "" {
		return home
	}
	userHome, err := os.UserHomeDir()
	if err != nil {
		return ".studyquest"
	}
	return filepath.Join(userHome, ".studyquest")
}

// ConfigPath returns the config file location inside the home directory.
func ConfigPath() string {
	return filepath.Join(Home(), "config.toml")
}

// Load reads the config file at path, filling unset fields from defaults.
// A missing file returns the defaults unchanged.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes the config to path, creating the parent directory if needed.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(c)
}
