package scenario

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mikefara123/vcoin-engine/internal/model"
)

func TestDefaultConfigValidates(t *testing.T) {
	assert.NoError(t, DefaultConfig().Validate())
}

func TestConfigValidate_Failures(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"unknown strategy", func(c *Config) { c.Strategy = "hyperdrive" }},
		{"zero users", func(c *Config) { c.InitialUsers = 0 }},
		{"growth below -1", func(c *Config) { c.UserGrowthRate = -1.5 }},
		{"creator pct above 1", func(c *Config) { c.CreatorPct = 1.5 }},
		{"zero content per creator", func(c *Config) { c.ContentPerCreator = 0 }},
		{"zero price", func(c *Config) { c.InitialPrice = 0 }},
		{"zero supply", func(c *Config) { c.TotalSupply = 0 }},
		{"staked above total", func(c *Config) { c.StakedSupply = c.TotalSupply + 1 }},
		{"bad pool shares", func(c *Config) { c.Pool.CreatorShare = 0.9 }},
		{"bad adjustment bounds", func(c *Config) { c.Adjustment.MinRewardRatio = 1.5 }},
		{"bad mix", func(c *Config) { c.Cohort.Mix[model.ContentTypeText] = 0.9 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.True(t, eris.Is(err, model.ErrConfiguration))
		})
	}
}

func TestValueBackedConfigOnlyCheckedForValueBacked(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ValueBacked.ValuePerContentUSD = -1
	assert.NoError(t, cfg.Validate())

	cfg.Strategy = StrategyValueBacked
	err := cfg.Validate()
	require.Error(t, err)
	assert.True(t, eris.Is(err, model.ErrConfiguration))
}

func TestParseConfig_OverridesDefaults(t *testing.T) {
	cfg, err := ParseConfig([]byte(`
name: growth-case
strategy: dynamic_adjusted
initial_users: 250000
price_appreciation_rate: 0.05
`))
	require.NoError(t, err)

	assert.Equal(t, "growth-case", cfg.Name)
	assert.Equal(t, StrategyDynamicAdjusted, cfg.Strategy)
	assert.Equal(t, 250_000, cfg.InitialUsers)
	assert.InDelta(t, 0.05, cfg.PriceAppreciationRate, 1e-12)
	// Untouched fields keep their defaults.
	assert.InDelta(t, 57_600_000, cfg.Pool.DailyTokenBudget, 1e-9)
}

func TestParseConfig_RejectsUnknownFields(t *testing.T) {
	_, err := ParseConfig([]byte("daily_budget: 100\n"))
	require.Error(t, err)
}

func TestParseConfig_RejectsInvalid(t *testing.T) {
	_, err := ParseConfig([]byte("initial_users: -5\n"))
	require.Error(t, err)
	assert.True(t, eris.Is(err, model.ErrConfiguration))
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte("name: from-file\nstrategy: value_backed\n"), 0o600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "from-file", cfg.Name)
	assert.Equal(t, StrategyValueBacked, cfg.Strategy)

	_, err = LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}
