package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Empty(t, cfg.CatalogPath)
	assert.Equal(t, 0.25, cfg.BandMedium)
	assert.Equal(t, 0.51, cfg.BandHigh)
	assert.Equal(t, 5, cfg.TopAssets)
	assert.Equal(t, 256, cfg.CacheSize)
	assert.False(t, cfg.KafkaEnabled)
	assert.Equal(t, []string{"localhost:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "risk-summaries", cfg.KafkaTopic)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("RISK_ADDR", ":9090")
	t.Setenv("RISK_LOG_LEVEL", "debug")
	t.Setenv("RISK_LOG_FORMAT", "text")
	t.Setenv("RISK_BAND_MEDIUM", "0.3")
	t.Setenv("RISK_BAND_HIGH", "0.7")
	t.Setenv("RISK_TOP_ASSETS", "10")
	t.Setenv("RISK_CACHE_SIZE", "0")
	t.Setenv("RISK_KAFKA_ENABLED", "true")
	t.Setenv("RISK_KAFKA_BROKERS", "broker-1:9092")
	t.Setenv("RISK_KAFKA_TOPIC", "summaries")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Addr)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, 0.3, cfg.BandMedium)
	assert.Equal(t, 0.7, cfg.BandHigh)
	assert.Equal(t, 10, cfg.TopAssets)
	assert.Equal(t, 0, cfg.CacheSize)
	assert.True(t, cfg.KafkaEnabled)
	assert.Equal(t, []string{"broker-1:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "summaries", cfg.KafkaTopic)
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "risk.yaml")
	doc := `addr: ":7070"
catalog_path: /etc/risk/costs.yaml
top_assets: 8
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))
	t.Setenv("RISK_CONFIG", path)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":7070", cfg.Addr)
	assert.Equal(t, "/etc/risk/costs.yaml", cfg.CatalogPath)
	assert.Equal(t, 8, cfg.TopAssets)
	// Untouched keys keep their defaults.
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoadEnvBeatsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "risk.yaml")
	require.NoError(t, os.WriteFile(path, []byte("addr: \":7070\"\n"), 0o644))
	t.Setenv("RISK_CONFIG", path)
	t.Setenv("RISK_ADDR", ":6060")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":6060", cfg.Addr)
}

func TestLoadValidation(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"inverted bands", map[string]string{"RISK_BAND_MEDIUM": "0.6"}},
		{"band above one", map[string]string{"RISK_BAND_HIGH": "1.5"}},
		{"zero top assets", map[string]string{"RISK_TOP_ASSETS": "0"}},
		{"negative cache", map[string]string{"RISK_CACHE_SIZE": "-1"}},
		{"kafka enabled without topic", map[string]string{"RISK_KAFKA_ENABLED": "true", "RISK_KAFKA_TOPIC": ""}},
		{"missing config file", map[string]string{"RISK_CONFIG": "/nonexistent/risk.yaml"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.Error(t, err)
		})
	}
}
