// Package config loads and validates monikerd's service configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all monikerd configuration.
type Config struct {
	// Server settings.
	Server ServerConfig `yaml:"server"`

	// Catalog settings.
	Catalog CatalogConfig `yaml:"catalog"`

	// Cache settings.
	Cache CacheConfig `yaml:"cache"`

	// Logging settings.
	Logging LoggingConfig `yaml:"logging"`
}

// ServerConfig controls the HTTP listener.
type ServerConfig struct {
	BindAddress  string `yaml:"bind_address"`
	Port         int    `yaml:"port"`
	DrainSeconds int    `yaml:"drain_seconds"`
}

// CatalogConfig controls catalog loading and hot reload.
type CatalogConfig struct {
	Path                  string `yaml:"path"`
	ReloadIntervalSeconds int    `yaml:"reload_interval_seconds"`
	WatchFiles            bool   `yaml:"watch_files"`
}

// CacheConfig controls the optional read-through cache.
type CacheConfig struct {
	Enabled bool   `yaml:"enabled"`
	TTL     string `yaml:"ttl"`
	MaxSize int    `yaml:"max_size"`
}

// LoggingConfig controls the logging subsystem.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // "json" or "console"
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			BindAddress:  "0.0.0.0",
			Port:         8080,
			DrainSeconds: 30,
		},
		Catalog: CatalogConfig{
			Path:                  "catalog.yaml",
			ReloadIntervalSeconds: 60,
			WatchFiles:            true,
		},
		Cache: CacheConfig{
			Enabled: true,
			TTL:     "5m",
			MaxSize: 10000,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load loads configuration from a YAML file, falling back to defaults for a
// missing file and applying environment overrides on top either way.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.applyEnvOverrides()
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// Save writes the configuration to a YAML file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// applyEnvOverrides applies MONIKERD_* environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("MONIKERD_BIND_ADDRESS"); v != "" {
		c.Server.BindAddress = v
	}
	if v := os.Getenv("MONIKERD_PORT"); v != "" {
		var port int
		if _, err := fmt.Sscanf(v, "%d", &port); err == nil {
			c.Server.Port = port
		}
	}
	if v := os.Getenv("MONIKERD_CATALOG_PATH"); v != "" {
		c.Catalog.Path = v
	}
	if v := os.Getenv("MONIKERD_RELOAD_INTERVAL_SECONDS"); v != "" {
		var secs int
		if _, err := fmt.Sscanf(v, "%d", &secs); err == nil {
			c.Catalog.ReloadIntervalSeconds = secs
		}
	}
	if v := os.Getenv("MONIKERD_CACHE_TTL"); v != "" {
		c.Cache.TTL = v
	}
	if v := os.Getenv("MONIKERD_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
}

// ReloadInterval returns the reload interval as a duration, defaulting to 60s.
func (c *Config) ReloadInterval() time.Duration {
	if c.Catalog.ReloadIntervalSeconds <= 0 {
		return 60 * time.Second
	}
	return time.Duration(c.Catalog.ReloadIntervalSeconds) * time.Second
}

// CacheTTL returns the cache TTL as a duration, defaulting to 5 minutes.
func (c *Config) CacheTTL() time.Duration {
	d, err := time.ParseDuration(c.Cache.TTL)
	if err != nil {
		return 5 * time.Minute
	}
	return d
}

// DrainTimeout returns the shutdown drain period, defaulting to 30s.
func (c *Config) DrainTimeout() time.Duration {
	if c.Server.DrainSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.Server.DrainSeconds) * time.Second
}

// Addr returns the host:port listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.BindAddress, c.Server.Port)
}

// Validate checks the configuration for obviously invalid values.
func (c *Config) Validate() error {
	if c.Catalog.Path == "" {
		return fmt.Errorf("catalog.path must not be empty")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port out of range: %d", c.Server.Port)
	}
	if _, err := time.ParseDuration(c.Cache.TTL); err != nil {
		return fmt.Errorf("cache.ttl invalid: %w", err)
	}
	return nil
}
