package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnvDefaults(t *testing.T) {
	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, "5000", cfg.Port)
	assert.Equal(t, ":5000", cfg.Addr())
	assert.Equal(t, DriverMongo, cfg.StoreDriver)
	assert.Equal(t, "overlay_db", cfg.MongoDatabase)
	assert.Equal(t, "overlays", cfg.MongoCollection)
	assert.Equal(t, 5*time.Second, cfg.StoreTimeout)
	assert.Equal(t, 5, cfg.ConnectRetries)
	assert.Equal(t, 2*time.Second, cfg.ConnectRetryInterval)
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("STORE_DRIVER", "memory")
	t.Setenv("STORE_TIMEOUT", "250ms")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Addr())
	assert.Equal(t, DriverMemory, cfg.StoreDriver)
	assert.Equal(t, 250*time.Millisecond, cfg.StoreTimeout)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestFromEnvValidation(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"unknown driver", map[string]string{"STORE_DRIVER": "redis"}},
		{"postgres without dsn", map[string]string{"STORE_DRIVER": "postgres"}},
		{"non-positive timeout", map[string]string{"STORE_TIMEOUT": "0s"}},
		{"no retries", map[string]string{"CONNECT_RETRIES": "0"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := FromEnv()
			assert.Error(t, err)
		})
	}
}

func TestFromEnvPostgres(t *testing.T) {
	t.Setenv("STORE_DRIVER", "postgres")
	t.Setenv("DATABASE_URL", "postgres://u:p@localhost:5432/overlays?sslmode=disable")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, DriverPostgres, cfg.StoreDriver)
}
