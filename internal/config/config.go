package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"cosmic/internal/types"

	"gopkg.in/yaml.v3"
)

// Config holds all cosmic configuration.
type Config struct {
	// Core settings
	Name    string `yaml:"name"`
	Version string `yaml:"version"`

	// Logging
	Logging LoggingConfig `yaml:"logging"`

	// Space-weather data source
	Solar SolarConfig `yaml:"solar"`

	// Per-calculator toggles keyed by system ID (missing means enabled)
	Systems map[string]bool `yaml:"systems"`

	// Metadata enrichment hook
	Enrichment EnrichmentConfig `yaml:"enrichment"`

	// Snapshot archive
	Store StoreConfig `yaml:"store"`

	// Default birth moment used by the CLI when no flags are given
	Birth BirthConfig `yaml:"birth"`

	// Watch loop
	Watch WatchConfig `yaml:"watch"`
}

// SolarConfig configures the NOAA SWPC fetcher.
type SolarConfig struct {
	Enabled bool   `yaml:"enabled"`  // false = always use defaults, never fetch
	BaseURL string `yaml:"base_url"` // SWPC services root
	Timeout string `yaml:"timeout"`
}

// EnrichmentConfig configures the memory enrichment hook.
type EnrichmentConfig struct {
	Enabled bool `yaml:"enabled"`
}

// StoreConfig configures the sqlite snapshot archive.
type StoreConfig struct {
	DatabasePath string `yaml:"database_path"`
}

// BirthConfig is the default natal reference. Time is RFC3339.
type BirthConfig struct {
	Time      string  `yaml:"time"`
	Latitude  float64 `yaml:"latitude"`
	Longitude float64 `yaml:"longitude"`
	Timezone  string  `yaml:"timezone"`
}

// WatchConfig configures `cosmic watch`.
type WatchConfig struct {
	Interval string `yaml:"interval"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Name:    "cosmic",
		Version: "0.4.0",

		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},

		Solar: SolarConfig{
			Enabled: true,
			BaseURL: "https://services.swpc.noaa.gov",
			Timeout: "10s",
		},

		Systems: map[string]bool{},

		Enrichment: EnrichmentConfig{
			Enabled: true,
		},

		Store: StoreConfig{
			DatabasePath: filepath.Join(".cosmic", "snapshots.db"),
		},

		Watch: WatchConfig{
			Interval: "15m",
		},
	}
}

// Load loads configuration from a YAML file.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// Return defaults if config file doesn't exist
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

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
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

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if url := os.Getenv("COSMIC_SWPC_URL"); url != "" {
		c.Solar.BaseURL = url
	}
	if path := os.Getenv("COSMIC_DB"); path != "" {
		c.Store.DatabasePath = path
	}
	if level := os.Getenv("COSMIC_LOG_LEVEL"); level != "" {
		c.Logging.Level = level
	}
	if v := os.Getenv("COSMIC_ENRICHMENT"); v != "" {
		if enabled, err := strconv.ParseBool(v); err == nil {
			c.Enrichment.Enabled = enabled
		}
	}
}

// GetSolarTimeout returns the space-weather fetch timeout as a duration.
func (c *Config) GetSolarTimeout() time.Duration {
	d, err := time.ParseDuration(c.Solar.Timeout)
	if err != nil || d <= 0 {
		return 10 * time.Second
	}
	return d
}

// GetWatchInterval returns the watch loop interval as a duration.
func (c *Config) GetWatchInterval() time.Duration {
	d, err := time.ParseDuration(c.Watch.Interval)
	if err != nil || d <= 0 {
		return 15 * time.Minute
	}
	return d
}

// IsSystemEnabled reports whether the calculator with the given ID should be
// registered. Systems not listed are enabled.
func (c *Config) IsSystemEnabled(id string) bool {
	if c.Systems == nil {
		return true
	}
	enabled, ok := c.Systems[id]
	if !ok {
		return true
	}
	return enabled
}

// HasBirth reports whether a default birth moment is configured.
func (c *Config) HasBirth() bool {
	return c.Birth.Time != ""
}

// BirthMoment converts the configured birth section. It returns nil, nil
// when no birth time is configured.
func (c *Config) BirthMoment() (*types.BirthMoment, error) {
	if !c.HasBirth() {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, c.Birth.Time)
	if err != nil {
		return nil, fmt.Errorf("birth.time must be RFC3339: %w", err)
	}
	b, err := types.NewBirthMoment(t, c.Birth.Latitude, c.Birth.Longitude, c.Birth.Timezone)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// ValidLogLevels lists the accepted logging levels.
var ValidLogLevels = []string{"debug", "info", "warn", "error"}

// Validate validates the configuration.
func (c *Config) Validate() error {
	validLevel := false
	for _, l := range ValidLogLevels {
		if c.Logging.Level == l {
			validLevel = true
			break
		}
	}
	if !validLevel {
		return fmt.Errorf("invalid log level: %s (valid: %v)", c.Logging.Level, ValidLogLevels)
	}

	if c.Solar.Enabled && c.Solar.BaseURL == "" {
		return fmt.Errorf("solar.base_url must be set when solar.enabled is true")
	}

	if c.HasBirth() {
		if _, err := time.Parse(time.RFC3339, c.Birth.Time); err != nil {
			return fmt.Errorf("birth.time must be RFC3339: %w", err)
		}
		if c.Birth.Latitude < -90 || c.Birth.Latitude > 90 {
			return fmt.Errorf("birth.latitude out of range: %v", c.Birth.Latitude)
		}
		if c.Birth.Longitude < -180 || c.Birth.Longitude > 180 {
			return fmt.Errorf("birth.longitude out of range: %v", c.Birth.Longitude)
		}
	}

	return nil
}
