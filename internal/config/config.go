// Package config holds all service settings, layered from defaults, an
// optional YAML file, and RISK_-prefixed environment variables.
package config

import (
	"errors"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Config holds all service settings.
type Config struct {
	Addr            string        `koanf:"addr"`
	LogLevel        string        `koanf:"log_level"`
	LogFormat       string        `koanf:"log_format"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`

	// CatalogPath points at the cost catalogue YAML; empty disables
	// catalogue-based cost lookups (explicit replacement costs on nodes
	// still apply).
	CatalogPath string `koanf:"catalog_path"`

	// Risk band lower bounds (see domain.BandThresholds).
	BandMedium float64 `koanf:"band_medium"`
	BandHigh   float64 `koanf:"band_high"`

	// TopAssets is the default top-N size when a request does not name one.
	TopAssets int `koanf:"top_assets"`

	// CacheSize bounds the analysis result cache; 0 disables caching.
	CacheSize int `koanf:"cache_size"`

	// Kafka risk-summary publishing (feature-flagged).
	KafkaEnabled bool     `koanf:"kafka_enabled"`
	KafkaBrokers []string `koanf:"kafka_brokers"`
	KafkaTopic   string   `koanf:"kafka_topic"`
}

// New returns the default configuration.
func New() *Config {
	return &Config{
		Addr:            ":8080",
		LogLevel:        "info",
		LogFormat:       "json",
		ShutdownTimeout: 10 * time.Second,
		BandMedium:      0.25,
		BandHigh:        0.51,
		TopAssets:       5,
		CacheSize:       256,
		KafkaBrokers:    []string{"localhost:9092"},
		KafkaTopic:      "risk-summaries",
	}
}

// Load builds a Config by layering defaults, an optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if RISK_CONFIG is set
//  3. env (prefix RISK_)
func Load() (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path := os.Getenv("RISK_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, err
		}
	}

	// Environment variables: RISK_ADDR, RISK_BAND_HIGH, ... mapped to the
	// flat koanf keys on the struct, underscores preserved.
	envProvider := env.Provider("RISK_", ".", func(s string) string {
		s = strings.ToLower(s)
		return strings.TrimPrefix(s, "risk_")
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, err
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Addr == "" {
		return errors.New("addr must not be empty")
	}
	if c.BandMedium <= 0 || c.BandHigh <= c.BandMedium || c.BandHigh > 1 {
		return errors.New("band thresholds must satisfy 0 < band_medium < band_high <= 1")
	}
	if c.TopAssets <= 0 {
		return errors.New("top_assets must be positive")
	}
	if c.CacheSize < 0 {
		return errors.New("cache_size must not be negative")
	}
	if c.KafkaEnabled {
		if len(c.KafkaBrokers) == 0 {
			return errors.New("kafka_enabled is true but kafka_brokers is empty")
		}
		if c.KafkaTopic == "" {
			return errors.New("kafka_enabled is true but kafka_topic is empty")
		}
	}
	return nil
}
