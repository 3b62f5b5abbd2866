// Package scenario orchestrates full simulation runs: it derives cohorts
// from aggregate platform parameters, picks a reward strategy, invokes the
// scoring/allocation/adjustment/sink/projection pipeline once per period,
// and emits one EconomicSnapshot per period.
package scenario

import (
	"bytes"
	"errors"
	"io"
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/mikefara123/vcoin-engine/internal/adjuster"
	"github.com/mikefara123/vcoin-engine/internal/allocator"
	"github.com/mikefara123/vcoin-engine/internal/model"
	"github.com/mikefara123/vcoin-engine/internal/projector"
	"github.com/mikefara123/vcoin-engine/internal/scorer"
)

// Strategy names selectable in a scenario file.
const (
	StrategyFixedPool       = "fixed_pool"
	StrategyDynamicAdjusted = "dynamic_adjusted"
	StrategyValueBacked     = "value_backed"
)

// ValueBackedConfig parameterizes the value-backed minting strategy.
type ValueBackedConfig struct {
	// ValuePerContentUSD is the baseline economic value of one medium-
	// quality content piece.
	ValuePerContentUSD float64 `yaml:"value_per_content_usd" json:"value_per_content_usd" mapstructure:"value_per_content_usd"`
	// NFTContentPct is the fraction of content minted as NFTs, which
	// carries a 3x value premium.
	NFTContentPct float64 `yaml:"nft_content_pct" json:"nft_content_pct" mapstructure:"nft_content_pct"`
	// DailyARPUUSD is platform revenue per active user per day, used for
	// the funding-sustainability sub-score.
	DailyARPUUSD float64 `yaml:"daily_arpu_usd" json:"daily_arpu_usd" mapstructure:"daily_arpu_usd"`
}

// DefaultValueBackedConfig returns the launch value model: $5 per content
// piece, 20% NFT share, $0.08 daily ARPU.
func DefaultValueBackedConfig() ValueBackedConfig {
	return ValueBackedConfig{
		ValuePerContentUSD: 5.0,
		NFTContentPct:      0.20,
		DailyARPUUSD:       0.08,
	}
}

// Validate checks the value model parameters.
func (c ValueBackedConfig) Validate() error {
	if c.ValuePerContentUSD <= 0 {
		return eris.Wrapf(model.ErrConfiguration, "scenario: value_per_content_usd %.2f must be positive", c.ValuePerContentUSD)
	}
	if c.NFTContentPct < 0 || c.NFTContentPct > 1 {
		return eris.Wrapf(model.ErrConfiguration, "scenario: nft_content_pct %.2f outside [0, 1]", c.NFTContentPct)
	}
	if c.DailyARPUUSD < 0 {
		return eris.Wrapf(model.ErrConfiguration, "scenario: daily_arpu_usd %.2f must be non-negative", c.DailyARPUUSD)
	}
	return nil
}

// Config fully describes one scenario. It is the YAML schema of scenario
// files and the JSON payload of the serve endpoint.
type Config struct {
	Name     string `yaml:"name" json:"name"`
	Strategy string `yaml:"strategy" json:"strategy"`

	// Platform path.
	InitialUsers      int     `yaml:"initial_users" json:"initial_users"`
	UserGrowthRate    float64 `yaml:"user_growth_rate" json:"user_growth_rate"`
	CreatorPct        float64 `yaml:"creator_pct" json:"creator_pct"`
	ContentPerCreator float64 `yaml:"content_per_creator" json:"content_per_creator"`

	// Token path.
	InitialPrice          float64 `yaml:"initial_token_price" json:"initial_token_price"`
	BasePrice             float64 `yaml:"base_token_price" json:"base_token_price"`
	PriceAppreciationRate float64 `yaml:"price_appreciation_rate" json:"price_appreciation_rate"`
	TotalSupply           float64 `yaml:"total_token_supply" json:"total_token_supply"`
	StakedSupply          float64 `yaml:"staked_token_supply" json:"staked_token_supply"`

	// AvgDailyViewsPerCreator feeds the RPM derivation.
	AvgDailyViewsPerCreator float64 `yaml:"avg_daily_views_per_creator" json:"avg_daily_views_per_creator"`

	Scoring     scorer.Params          `yaml:"scoring" json:"scoring"`
	Pool        allocator.PoolConfig   `yaml:"pool" json:"pool"`
	Adjustment  adjuster.Config        `yaml:"adjustment" json:"adjustment"`
	Health      projector.HealthConfig `yaml:"health" json:"health"`
	ValueBacked ValueBackedConfig      `yaml:"value_backed" json:"value_backed"`
	Cohort      CohortParams           `yaml:"cohort" json:"cohort"`

	// Sinks selects built-in sinks by name; empty means the full catalog.
	Sinks []string `yaml:"sinks" json:"sinks"`

	// KeepAllocations includes per-item allocations in each snapshot.
	// Off by default: synthetic cohorts can run to 100k items per period.
	KeepAllocations bool `yaml:"keep_allocations" json:"keep_allocations"`
}

// DefaultConfig returns a runnable baseline scenario: 100k users on the
// fixed-pool strategy at the launch price.
func DefaultConfig() Config {
	return Config{
		Name:                    "baseline",
		Strategy:                StrategyFixedPool,
		InitialUsers:            100_000,
		UserGrowthRate:          0.08,
		CreatorPct:              0.05,
		ContentPerCreator:       1.5,
		InitialPrice:            0.10,
		BasePrice:               0.10,
		PriceAppreciationRate:   0,
		TotalSupply:             1_000_000_000,
		StakedSupply:            0,
		AvgDailyViewsPerCreator: 1_500,
		Scoring:                 scorer.DefaultParams(),
		Pool:                    allocator.DefaultPoolConfig(),
		Adjustment:              adjuster.DefaultConfig(),
		Health:                  projector.DefaultHealthConfig(),
		ValueBacked:             DefaultValueBackedConfig(),
		Cohort:                  DefaultCohortParams(),
	}
}

// Validate checks the scenario is fully specified and internally
// consistent. All failures are configuration errors raised before any
// period runs.
func (c Config) Validate() error {
	switch c.Strategy {
	case StrategyFixedPool, StrategyDynamicAdjusted, StrategyValueBacked:
	default:
		return eris.Wrapf(model.ErrConfiguration, "scenario: unknown strategy %q", c.Strategy)
	}

	if c.InitialUsers <= 0 {
		return eris.Wrapf(model.ErrConfiguration, "scenario: initial_users %d must be positive", c.InitialUsers)
	}
	if c.UserGrowthRate <= -1 {
		return eris.Wrapf(model.ErrConfiguration, "scenario: user_growth_rate %.3f must exceed -1", c.UserGrowthRate)
	}
	if c.CreatorPct <= 0 || c.CreatorPct > 1 {
		return eris.Wrapf(model.ErrConfiguration, "scenario: creator_pct %.3f outside (0, 1]", c.CreatorPct)
	}
	if c.ContentPerCreator <= 0 {
		return eris.Wrapf(model.ErrConfiguration, "scenario: content_per_creator %.2f must be positive", c.ContentPerCreator)
	}
	if c.InitialPrice <= 0 || c.BasePrice <= 0 {
		return eris.Wrap(model.ErrConfiguration, "scenario: token prices must be positive")
	}
	if c.PriceAppreciationRate <= -1 {
		return eris.Wrapf(model.ErrConfiguration, "scenario: price_appreciation_rate %.3f must exceed -1", c.PriceAppreciationRate)
	}
	if c.TotalSupply <= 0 {
		return eris.Wrapf(model.ErrConfiguration, "scenario: total_token_supply %.2f must be positive", c.TotalSupply)
	}
	if c.StakedSupply < 0 || c.StakedSupply > c.TotalSupply {
		return eris.Wrap(model.ErrConfiguration, "scenario: staked_token_supply outside [0, total_token_supply]")
	}
	if c.AvgDailyViewsPerCreator < 0 {
		return eris.Wrap(model.ErrConfiguration, "scenario: avg_daily_views_per_creator must be non-negative")
	}

	if err := c.Scoring.Validate(); err != nil {
		return err
	}
	if err := c.Pool.Validate(); err != nil {
		return err
	}
	if err := c.Adjustment.Validate(); err != nil {
		return err
	}
	if err := c.Health.Validate(); err != nil {
		return err
	}
	if err := c.Cohort.Validate(); err != nil {
		return err
	}
	if c.Strategy == StrategyValueBacked {
		if err := c.ValueBacked.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// LoadConfig reads and validates a scenario YAML file. Unknown fields are
// rejected to catch typos in hand-written scenarios.
func LoadConfig(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "scenario: read %s", path)
	}
	return ParseConfig(raw)
}

// ParseConfig parses scenario YAML on top of the defaults.
func ParseConfig(raw []byte) (*Config, error) {
	cfg := DefaultConfig()
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, eris.Wrap(err, "scenario: parse config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
