// Package adjuster computes the bounded reward multiplier applied to
// token payouts as the token price appreciates.
//
// Paying a constant token count at a rising price pays an ever-larger USD
// amount. The multiplier shrinks token rewards so USD payout grows
// sub-linearly with price: recipients still benefit from appreciation,
// just less than proportionally. The floor guarantees a minimum fraction
// of base reward at extreme appreciation.
package adjuster

import (
	"math"

	"github.com/rotisserie/eris"

	"github.com/mikefara123/vcoin-engine/internal/model"
)

// Config bounds the dynamic adjustment. MinRewardRatio <= 1 <= MaxRewardRatio
// is enforced at construction so the neutral multiplier is always reachable.
type Config struct {
	// AdjustmentFactor controls how aggressively rewards shrink as price
	// rises; typically in [0.1, 0.5].
	AdjustmentFactor float64 `yaml:"adjustment_factor" json:"adjustment_factor" mapstructure:"adjustment_factor"`
	MinRewardRatio   float64 `yaml:"min_reward_ratio" json:"min_reward_ratio" mapstructure:"min_reward_ratio"`
	MaxRewardRatio   float64 `yaml:"max_reward_ratio" json:"max_reward_ratio" mapstructure:"max_reward_ratio"`
}

// DefaultConfig returns the launch adjustment parameters: 0.3 factor,
// 20% floor, 200% ceiling.
func DefaultConfig() Config {
	return Config{
		AdjustmentFactor: 0.3,
		MinRewardRatio:   0.2,
		MaxRewardRatio:   2.0,
	}
}

// Validate checks the factor is positive and the bounds bracket 1.0.
func (c Config) Validate() error {
	if c.AdjustmentFactor <= 0 {
		return eris.Wrapf(model.ErrConfiguration, "adjuster: adjustment_factor %.3f must be positive", c.AdjustmentFactor)
	}
	if c.MinRewardRatio <= 0 {
		return eris.Wrapf(model.ErrConfiguration, "adjuster: min_reward_ratio %.3f must be positive", c.MinRewardRatio)
	}
	if c.MinRewardRatio > 1.0 || c.MaxRewardRatio < 1.0 {
		return eris.Wrapf(model.ErrConfiguration,
			"adjuster: bounds [%.3f, %.3f] must bracket 1.0", c.MinRewardRatio, c.MaxRewardRatio)
	}
	return nil
}

// Multiplier returns the bounded reward multiplier for the given price
// state. At or below the base price the multiplier is exactly 1.0; above
// it the raw multiplier is appreciation^-factor, clamped to the
// configured bounds. Pure and monotonic-decreasing in appreciation.
func Multiplier(price model.PriceState, cfg Config) (float64, error) {
	if err := cfg.Validate(); err != nil {
		return 0, err
	}
	if err := price.Validate(); err != nil {
		return 0, eris.Wrap(err, "adjuster: multiplier")
	}

	if price.CurrentPrice <= price.BasePrice {
		return 1.0, nil
	}

	raw := 1.0 / math.Pow(price.Appreciation(), cfg.AdjustmentFactor)
	return clamp(raw, cfg.MinRewardRatio, cfg.MaxRewardRatio), nil
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
