// Package config provides centralized configuration management.
//
// Configuration can be loaded from:
//  1. YAML file (config.yaml)
//  2. Environment variables (fallback)
//
// Example usage:
//
//	cfg := config.LoadOrEnv()
//	dbPath := cfg.Storage.DatabasePath
//	pageSize := cfg.Dashboard.DefaultPageSize
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the entire application configuration
type Config struct {
	Server        ServerConfig        `yaml:"server"`
	Storage       StorageConfig       `yaml:"storage"`
	Dashboard     DashboardConfig     `yaml:"dashboard"`
	Observability ObservabilityConfig `yaml:"observability"`
}

// ServerConfig holds HTTP API settings
type ServerConfig struct {
	Port           int             `yaml:"port"`
	AllowedOrigins []string        `yaml:"allowed_origins"`
	RateLimit      RateLimitConfig `yaml:"rate_limit"`
}

// RateLimitConfig holds per-client request limits. Zero disables limiting.
type RateLimitConfig struct {
	RequestsPerSecond float64 `yaml:"requests_per_second"`
	Burst             int     `yaml:"burst"`
}

// StorageConfig holds database configuration
type StorageConfig struct {
	DatabasePath string `yaml:"database_path"`
}

// DashboardConfig holds view defaults and the seed source
type DashboardConfig struct {
	DefaultPageSize int    `yaml:"default_page_size"`
	TopProducts     int    `yaml:"top_products"`
	SeedPath        string `yaml:"seed_path"` // empty uses the bundled sample

	// Live per-profile views are dropped after ProfileTTL without a request,
	// and the least recently used goes first beyond MaxProfiles.
	ProfileTTL  time.Duration `yaml:"profile_ttl"`
	MaxProfiles int           `yaml:"max_profiles"`
}

// ObservabilityConfig holds observability settings
type ObservabilityConfig struct {
	Logging LoggingConfig `yaml:"logging"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// MetricsConfig controls the /metrics endpoint
type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

// Default returns the configuration used when nothing else is set
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:           8080,
			AllowedOrigins: []string{"http://localhost:3000", "http://localhost:5173"},
			RateLimit: RateLimitConfig{
				RequestsPerSecond: 20,
				Burst:             40,
			},
		},
		Storage: StorageConfig{
			DatabasePath: "dashboard.db",
		},
		Dashboard: DashboardConfig{
			DefaultPageSize: 10,
			TopProducts:     8,
			ProfileTTL:      30 * time.Minute,
			MaxProfiles:     10000,
		},
		Observability: ObservabilityConfig{
			Logging: LoggingConfig{
				Level:  "info",
				Format: "text",
			},
			Metrics: MetricsConfig{
				Enabled: true,
			},
		},
	}
}

// Load reads and parses the config file. Fields absent from the file keep
// their defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	// Expand environment variables (e.g., ${DASHBOARD_DB_PATH})
	expanded := os.ExpandEnv(string(data))

	cfg := Default()
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadFromEnv loads configuration from environment variables only
func LoadFromEnv() *Config {
	def := Default()
	return &Config{
		Server: ServerConfig{
			Port:           getEnvInt("DASHBOARD_PORT", def.Server.Port),
			AllowedOrigins: getEnvList("DASHBOARD_ALLOWED_ORIGINS", def.Server.AllowedOrigins),
			RateLimit: RateLimitConfig{
				RequestsPerSecond: getEnvFloat("DASHBOARD_RATE_LIMIT_RPS", def.Server.RateLimit.RequestsPerSecond),
				Burst:             getEnvInt("DASHBOARD_RATE_LIMIT_BURST", def.Server.RateLimit.Burst),
			},
		},
		Storage: StorageConfig{
			DatabasePath: getEnv("DASHBOARD_DB_PATH", def.Storage.DatabasePath),
		},
		Dashboard: DashboardConfig{
			DefaultPageSize: getEnvInt("DASHBOARD_PAGE_SIZE", def.Dashboard.DefaultPageSize),
			TopProducts:     getEnvInt("DASHBOARD_TOP_PRODUCTS", def.Dashboard.TopProducts),
			SeedPath:        getEnv("DASHBOARD_SEED_PATH", ""),
			ProfileTTL:      getEnvDuration("DASHBOARD_PROFILE_TTL", def.Dashboard.ProfileTTL),
			MaxProfiles:     getEnvInt("DASHBOARD_MAX_PROFILES", def.Dashboard.MaxProfiles),
		},
		Observability: ObservabilityConfig{
			Logging: LoggingConfig{
				Level:  getEnv("LOG_LEVEL", def.Observability.Logging.Level),
				Format: getEnv("LOG_FORMAT", def.Observability.Logging.Format),
			},
			Metrics: MetricsConfig{
				Enabled: getEnv("DASHBOARD_METRICS", "true") != "false",
			},
		},
	}
}

// LoadOrEnv tries to load from config.yaml, falls back to environment variables
func LoadOrEnv() *Config {
	return LoadOrEnv_WithPath("config.yaml")
}

// LoadOrEnv_WithPath tries to load from specified path, falls back to environment variables
func LoadOrEnv_WithPath(path string) *Config {
	return LoadOrEnvLogged(path, slog.Default())
}

// LoadOrEnvLogged is LoadOrEnv_WithPath with the fallback reason logged.
// A missing file is logged at debug, an unreadable or invalid one at warn.
func LoadOrEnvLogged(path string, logger *slog.Logger) *Config {
	cfg, err := Load(path)
	if err == nil {
		return cfg
	}
	if logger != nil {
		if errors.Is(err, fs.ErrNotExist) {
			logger.Debug("config file not found, using environment", "path", path)
		} else {
			logger.Warn("config file rejected, using environment", "path", path, "error", err)
		}
	}
	return LoadFromEnv()
}

// Validate rejects values the server cannot start with
func (c *Config) Validate() error {
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port out of range: %d", c.Server.Port)
	}
	if c.Dashboard.DefaultPageSize < 0 {
		return fmt.Errorf("dashboard.default_page_size must not be negative: %d", c.Dashboard.DefaultPageSize)
	}
	if c.Server.RateLimit.RequestsPerSecond < 0 || c.Server.RateLimit.Burst < 0 {
		return fmt.Errorf("server.rate_limit must not be negative")
	}
	if c.Dashboard.ProfileTTL < 0 || c.Dashboard.MaxProfiles < 0 {
		return fmt.Errorf("dashboard.profile_ttl and dashboard.max_profiles must not be negative")
	}
	return nil
}

// getEnv retrieves an environment variable with a fallback default
func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

// getEnvInt retrieves an integer environment variable with a fallback default
func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		var result int
		if _, err := fmt.Sscanf(val, "%d", &result); err == nil {
			return result
		}
	}
	return fallback
}

// getEnvFloat retrieves a float environment variable with a fallback default
func getEnvFloat(key string, fallback float64) float64 {
	if val := os.Getenv(key); val != "" {
		var result float64
		if _, err := fmt.Sscanf(val, "%g", &result); err == nil {
			return result
		}
	}
	return fallback
}

// getEnvDuration parses a duration such as "30m" with a fallback default
func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return fallback
}

// getEnvList splits a comma separated environment variable
func getEnvList(key string, fallback []string) []string {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(val, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
