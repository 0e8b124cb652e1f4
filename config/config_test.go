package config

import (
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("DB_DRIVER", "")
	t.Setenv("WAITLIST_OFFER_TTL", "")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, DriverPostgres, cfg.DB.Driver)
	assert.Equal(t, "8088", cfg.App.Port)
	assert.Equal(t, 24*time.Hour, cfg.Rating.WaitlistOfferTTL)
	assert.Equal(t, time.Minute, cfg.Rating.SweepInterval)
	assert.Contains(t, cfg.DSN(), "dbname=rally")
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("DB_DRIVER", "memory")
	t.Setenv("WAITLIST_OFFER_TTL", "2h")
	t.Setenv("SWEEP_INTERVAL", "30s")
	t.Setenv("EVENT_CAPACITIES", "league:4=8,tournament:2=32")
	t.Setenv("REDIS_ADDR", "localhost:6379")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, DriverMemory, cfg.DB.Driver)
	assert.Equal(t, 2*time.Hour, cfg.Rating.WaitlistOfferTTL)
	assert.Equal(t, 30*time.Second, cfg.Rating.SweepInterval)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, map[string]int{"league:4": 8, "tournament:2": 32}, cfg.Rating.EventCapacities)
}

func TestLoadConfigRejects(t *testing.T) {
	tests := map[string]map[string]string{
		"unknown driver": {"DB_DRIVER": "sqlite"},
		"zero ttl":       {"WAITLIST_OFFER_TTL": "0s"},
		"bad duration":   {"SWEEP_INTERVAL": "soon"},
	}
	for name, vars := range tests {
		t.Run(name, func(t *testing.T) {
			for k, v := range vars {
				t.Setenv(k, v)
			}
			_, err := LoadConfig()
			assert.Error(t, err)
		})
	}
}

func TestNewLogger(t *testing.T) {
	cfg := &Config{}
	cfg.App.Env = "production"
	cfg.App.LogLevel = "debug"
	log := NewLogger(cfg)
	assert.Equal(t, logrus.DebugLevel, log.Logger.GetLevel())
	assert.IsType(t, &logrus.JSONFormatter{}, log.Logger.Formatter)

	cfg.App.Env = "development"
	cfg.App.LogLevel = "loud"
	log = NewLogger(cfg)
	assert.Equal(t, logrus.InfoLevel, log.Logger.GetLevel())
}
