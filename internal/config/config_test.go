package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Store.Driver)
	assert.Equal(t, "vcoin.db", cfg.Store.SQLitePath)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 4, cfg.Batch.MaxConcurrentScenarios)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("VCOIN_STORE_DRIVER", "postgres")
	t.Setenv("VCOIN_STORE_DATABASE_URL", "postgres://localhost/vcoin")
	t.Setenv("VCOIN_LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.Store.Driver)
	assert.Equal(t, "postgres://localhost/vcoin", cfg.Store.DatabaseURL)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"defaults ok", func(c *Config) {}, ""},
		{"sqlite missing path", func(c *Config) { c.Store.SQLitePath = "" }, "sqlite_path"},
		{"postgres missing url", func(c *Config) { c.Store.Driver = "postgres" }, "database_url"},
		{"unknown driver", func(c *Config) { c.Store.Driver = "dynamo" }, "unknown store driver"},
		{"bad port", func(c *Config) { c.Server.Port = 0 }, "port"},
		{"bad concurrency", func(c *Config) { c.Batch.MaxConcurrentScenarios = 0 }, "max_concurrent_scenarios"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load()
			require.NoError(t, err)
			tt.mutate(cfg)

			err = cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestInitLogger(t *testing.T) {
	require.NoError(t, InitLogger(LogConfig{Level: "debug", Format: "console"}))
	require.NoError(t, InitLogger(LogConfig{Level: "info", Format: "json"}))

	err := InitLogger(LogConfig{Level: "loud", Format: "json"})
	assert.Error(t, err)
}
