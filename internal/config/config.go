// Package config loads and validates app config from env and an optional .env file using Viper.
package config

import (
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration loaded from the environment.
type Config struct {
	// APIBaseURL is the CareConnect backend base URL (e.g. https://api.careconnect.example).
	APIBaseURL string `mapstructure:"API_BASE_URL"`
	// APITimeout is the per-request HTTP timeout (e.g. "15s").
	APITimeout string `mapstructure:"API_TIMEOUT"`
	// DataDir is where the client keeps its local state (session db, install id). Defaults to ~/.careconnect.
	DataDir string `mapstructure:"DATA_DIR"`
	// AdminCacheTTL is how long a verified admin check stays fresh (e.g. "5m").
	AdminCacheTTL string `mapstructure:"ADMIN_CACHE_TTL"`
	// OTLPEndpoint is the OTLP gRPC collector endpoint (e.g. localhost:4317). Empty disables export.
	OTLPEndpoint string `mapstructure:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	// OTLPInsecure disables TLS on the OTLP connection; for local collectors only.
	OTLPInsecure bool `mapstructure:"OTEL_EXPORTER_OTLP_INSECURE"`
	// Env is the application environment (e.g. "development", "production").
	Env string `mapstructure:"APP_ENV"`
}

// Load reads .env (if present), then builds and validates Config from the environment via Viper.
// Missing .env is ignored. Env vars override .env.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigFile(".env")
	v.SetConfigType("env")
	_ = v.ReadInConfig() // ignore ErrConfigFileNotFound

	v.AutomaticEnv()

	v.SetDefault("API_BASE_URL", "http://localhost:8080")
	v.SetDefault("API_TIMEOUT", "15s")
	v.SetDefault("DATA_DIR", "")
	v.SetDefault("ADMIN_CACHE_TTL", "5m")
	v.SetDefault("OTEL_EXPORTER_OTLP_ENDPOINT", "")
	v.SetDefault("OTEL_EXPORTER_OTLP_INSECURE", false)
	v.SetDefault("APP_ENV", "")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if cfg.APIBaseURL == "" {
		return nil, errors.New("config: API_BASE_URL must be set")
	}

	return &cfg, nil
}

// Timeout parses APITimeout as a time.Duration. Returns 15s if unset or invalid.
func (c *Config) Timeout() time.Duration {
	d, err := time.ParseDuration(c.APITimeout)
	if err != nil || d <= 0 {
		return 15 * time.Second
	}
	return d
}

// CacheTTL parses AdminCacheTTL as a time.Duration. Returns 5m if unset or invalid.
func (c *Config) CacheTTL() time.Duration {
	d, err := time.ParseDuration(c.AdminCacheTTL)
	if err != nil || d <= 0 {
		return 5 * time.Minute
	}
	return d
}

// ResolveDataDir returns DataDir, defaulting to ~/.careconnect when unset.
// Falls back to a .careconnect directory under the working directory when
// the home directory cannot be determined.
func (c *Config) ResolveDataDir() string {
	if c.DataDir != "" {
		return c.DataDir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".careconnect"
	}
	return filepath.Join(home, ".careconnect")
}

// SessionDBPath is the path of the local session database.
func (c *Config) SessionDBPath() string {
	return filepath.Join(c.ResolveDataDir(), "session.db")
}

// InstallIDPath is the path of the persisted per-install client id.
func (c *Config) InstallIDPath() string {
	return filepath.Join(c.ResolveDataDir(), "install_id")
}
