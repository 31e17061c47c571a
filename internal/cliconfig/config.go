// Package cliconfig loads the command-line client's settings from a TOML
// file with environment overrides.
package cliconfig

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"

	"folio/internal/models"
)

// Environment variables read by Load.
const (
	EnvConfigPath = "FOLIO_CONFIG"
	EnvServerURL  = "FOLIO_SERVER_URL"
)

const (
	defaultServerURL         = "http://localhost:8080"
	defaultTimeout           = "15s"
	defaultRequestsPerSecond = 10
)

// Config holds the client settings.
type Config struct {
	ServerURL         string `toml:"server_url"`
	StateDir          string `toml:"state_dir"`
	Timeout           string `toml:"timeout"` // duration string, default "15s"
	Currency          string `toml:"currency"`
	RequestsPerSecond int    `toml:"requests_per_second"`
}

// GetTimeout parses the timeout, falling back to the default when unset or
// malformed.
func (c *Config) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil || d <= 0 {
		d, _ = time.ParseDuration(defaultTimeout)
	}
	return d
}

// NewDefaultConfig returns a config with defaults for every field.
func NewDefaultConfig() *Config {
	return &Config{
		ServerURL:         defaultServerURL,
		StateDir:          defaultDir(),
		Timeout:           defaultTimeout,
		Currency:          models.DefaultCurrency,
		RequestsPerSecond: defaultRequestsPerSecond,
	}
}

// DefaultPath is $FOLIO_CONFIG, else ~/.config/folio/config.toml.
func DefaultPath() string {
	if p := os.Getenv(EnvConfigPath); p != "" {
		return p
	}
	return filepath.Join(defaultDir(), "config.toml")
}

func defaultDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".folio"
	}
	return filepath.Join(dir, "folio")
}

// Load reads the file at path over the defaults. A missing file is not an
// error. FOLIO_SERVER_URL overrides the file.
func Load(path string) (*Config, error) {
	cfg := NewDefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		default:
			if err := toml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
			}
		}
	}

	if url := os.Getenv(EnvServerURL); url != "" {
		cfg.ServerURL = url
	}

	cfg.ServerURL = strings.TrimRight(cfg.ServerURL, "/")
	cfg.Currency = strings.ToUpper(strings.TrimSpace(cfg.Currency))
	if cfg.Currency == "" {
		cfg.Currency = models.DefaultCurrency
	}
	if cfg.StateDir == "" {
		cfg.StateDir = defaultDir()
	}
	if cfg.RequestsPerSecond <= 0 {
		cfg.RequestsPerSecond = defaultRequestsPerSecond
	}
	if cfg.ServerURL == "" {
		return nil, fmt.Errorf("server_url must not be empty")
	}
	return cfg, nil
}

// Save writes cfg to path as TOML, creating parent directories.
func Save(path string, cfg *Config) error {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file %s: %w", path, err)
	}
	return nil
}
