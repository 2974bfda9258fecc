package config

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
	"github.com/kelseyhightower/envconfig"
)

// Config holds all application configuration.
type Config struct {
	Relay     RelayConfig
	Platform  PlatformConfig
	Storage   StorageConfig
	Logging   LogConfig
	RateLimit RateLimitConfig
}

// RelayConfig holds relay daemon configuration.
type RelayConfig struct {
	Port string `envconfig:"RELAY_PORT" default:"5000" yaml:"port"`
	Host string `envconfig:"RELAY_HOST" default:"0.0.0.0" yaml:"host"`
	// URL is the relay endpoint the panel dials.
	URL string `envconfig:"RELAY_URL" default:"ws://localhost:5000/relay" yaml:"url"`
}

// PlatformConfig holds the cloud platform endpoints.
type PlatformConfig struct {
	// LoginURL receives JSON credentials and returns a session.
	LoginURL string `envconfig:"PLATFORM_LOGIN_URL" default:"https://dm-us.informaticacloud.com/saas/public/core/v3/login" yaml:"login_url"`
	// SessionURL is the lightweight authenticated session check.
	SessionURL string `envconfig:"PLATFORM_SESSION_URL" default:"https://dm-us.informaticacloud.com/saas/public/core/v3/session" yaml:"session_url"`
	// PodURL is the org's pod-specific API base, e.g.
	// https://use4.dm-us.informaticacloud.com/saas.
	PodURL string `envconfig:"PLATFORM_POD_URL" default:"https://use4.dm-us.informaticacloud.com/saas" yaml:"pod_url"`
}

// StorageConfig holds durable storage configuration.
type StorageConfig struct {
	Path string `envconfig:"STORAGE_PATH" default:"panel.db" yaml:"path"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" default:"info" yaml:"level"`
	Development bool   `envconfig:"LOG_DEV" default:"false" yaml:"development"`
}

// RateLimitConfig holds relay rate limiting configuration.
type RateLimitConfig struct {
	RequestsPerSecond float64 `envconfig:"RATE_LIMIT_RPS" default:"20" yaml:"requests_per_second"`
	Enabled           bool    `envconfig:"RATE_LIMIT_ENABLED" default:"true" yaml:"enabled"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &cfg, nil
}

// LoadOrDefault loads configuration from environment or returns default.
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// LoadFile overlays YAML file values onto an environment-derived
// config. Unset file fields keep their environment values.
func LoadFile(path string) (*Config, error) {
	cfg, err := Load()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return cfg, nil
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Relay: RelayConfig{
			Port: "5000",
			Host: "0.0.0.0",
			URL:  "ws://localhost:5000/relay",
		},
		Platform: PlatformConfig{
			LoginURL:   "https://dm-us.informaticacloud.com/saas/public/core/v3/login",
			SessionURL: "https://dm-us.informaticacloud.com/saas/public/core/v3/session",
			PodURL:     "https://use4.dm-us.informaticacloud.com/saas",
		},
		Storage: StorageConfig{
			Path: "panel.db",
		},
		Logging: LogConfig{
			Level:       "info",
			Development: false,
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 20,
			Enabled:           true,
		},
	}
}
