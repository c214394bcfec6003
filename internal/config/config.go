// Package config loads and validates app config from env and an optional .env file using Viper.
package config

import (
	"errors"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration loaded from the environment.
type Config struct {
	// HTTPAddr is the address the HTTP server listens on (e.g. :8080).
	HTTPAddr string `mapstructure:"HTTP_ADDR"`
	// DatabaseURL is the Postgres DSN. Required by server, migrate, and seed;
	// optional for the worker, which then runs without rehydration.
	DatabaseURL string `mapstructure:"DATABASE_URL"`
	// Env is the application environment (e.g. "development", "production").
	Env string `mapstructure:"APP_ENV"`

	// DefaultCapacity is the fallback location capacity when a location record has none.
	DefaultCapacity int `mapstructure:"DEFAULT_CAPACITY"`
	// LiveWindowMinutes is the rolling window length for live counter state.
	LiveWindowMinutes int `mapstructure:"LIVE_WINDOW_MINUTES"`
	// StaleThresholdMinutes is how long a counting device may stay silent before it is flagged.
	StaleThresholdMinutes int `mapstructure:"STALE_THRESHOLD_MINUTES"`
	// HighActivityVolume is the entry count above which a high-activity signal is raised; 0 disables it.
	HighActivityVolume int `mapstructure:"HIGH_ACTIVITY_VOLUME"`
	// DisplayLimit caps how many integrity issues are surfaced per response.
	DisplayLimit int `mapstructure:"DISPLAY_LIMIT"`

	// KafkaBrokers is a comma-separated list of Kafka broker addresses (e.g. "localhost:9092").
	// When set, the worker consumes entry events and the seeder may publish to Kafka.
	KafkaBrokers string `mapstructure:"KAFKA_BROKERS"`
	// EntryEventsTopic is the Kafka topic carrying raw entry events (default venue-entry-events).
	EntryEventsTopic string `mapstructure:"ENTRY_EVENTS_TOPIC"`
	// KafkaGroupID is the consumer group ID for the live worker.
	KafkaGroupID string `mapstructure:"KAFKA_GROUP_ID"`
	// TelemetryTopic is the Kafka topic carrying telemetry events (default venue-pulse-telemetry).
	TelemetryTopic string `mapstructure:"TELEMETRY_KAFKA_TOPIC"`

	// LokiURL is the Loki push endpoint for the worker (e.g. http://localhost:3100); empty disables it.
	LokiURL string `mapstructure:"LOKI_URL"`
	// OTLPEndpoint is the OTLP gRPC collector endpoint (e.g. localhost:4317); empty disables OTel export.
	OTLPEndpoint string `mapstructure:"OTLP_ENDPOINT"`
	// OTLPInsecure disables TLS on the OTLP connection; intended for local collectors.
	OTLPInsecure bool `mapstructure:"OTLP_INSECURE"`
}

// Load reads .env (if present), then builds and validates Config from the environment via Viper.
// Missing .env is ignored (e.g. in CI). Env vars override .env. Returns an error if required fields are invalid.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigFile(".env")
	v.SetConfigType("env")
	_ = v.ReadInConfig() // ignore ErrConfigFileNotFound

	v.AutomaticEnv()

	v.SetDefault("HTTP_ADDR", ":8080")
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("APP_ENV", "")
	v.SetDefault("DEFAULT_CAPACITY", 120)
	v.SetDefault("LIVE_WINDOW_MINUTES", 60)
	v.SetDefault("STALE_THRESHOLD_MINUTES", 30)
	v.SetDefault("HIGH_ACTIVITY_VOLUME", 0)
	v.SetDefault("DISPLAY_LIMIT", 3)
	v.SetDefault("KAFKA_BROKERS", "")
	v.SetDefault("ENTRY_EVENTS_TOPIC", "venue-entry-events")
	v.SetDefault("KAFKA_GROUP_ID", "venue-pulse-live-worker")
	v.SetDefault("TELEMETRY_KAFKA_TOPIC", "venue-pulse-telemetry")
	v.SetDefault("LOKI_URL", "")
	v.SetDefault("OTLP_ENDPOINT", "")
	v.SetDefault("OTLP_INSECURE", true)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if cfg.HTTPAddr == "" {
		return nil, errors.New("config: HTTP_ADDR must be set")
	}
	if cfg.DefaultCapacity < 0 {
		return nil, errors.New("config: DEFAULT_CAPACITY must not be negative")
	}
	if cfg.LiveWindowMinutes <= 0 {
		return nil, errors.New("config: LIVE_WINDOW_MINUTES must be positive")
	}
	if cfg.DisplayLimit <= 0 {
		return nil, errors.New("config: DISPLAY_LIMIT must be positive")
	}

	return &cfg, nil
}

// LiveWindow returns the rolling window length as a duration.
func (c *Config) LiveWindow() time.Duration {
	return time.Duration(c.LiveWindowMinutes) * time.Minute
}

// StaleThreshold returns the device staleness threshold as a duration.
func (c *Config) StaleThreshold() time.Duration {
	return time.Duration(c.StaleThresholdMinutes) * time.Minute
}

// KafkaBrokersList returns Kafka broker addresses from the comma-separated config.
// Used to decide if the live pipeline is enabled (non-empty list) and to create readers and writers.
func (c *Config) KafkaBrokersList() []string {
	if c == nil || c.KafkaBrokers == "" {
		return nil
	}
	parts := strings.Split(c.KafkaBrokers, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}
