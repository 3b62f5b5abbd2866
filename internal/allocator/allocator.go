// Package allocator distributes a bounded daily token pool across a
// cohort of scored content.
//
// The sum of all allocations always equals the daily budget regardless of
// cohort size: more competing content strictly reduces each item's share,
// never the total payout.
package allocator

import (
	"math"

	"github.com/rotisserie/eris"

	"github.com/mikefara123/vcoin-engine/internal/model"
	"github.com/mikefara123/vcoin-engine/internal/scorer"
)

// shareEpsilon is the tolerance for the three shares summing to 1.
const shareEpsilon = 1e-9

// PoolConfig is the economic configuration for a period's pool.
type PoolConfig struct {
	DailyTokenBudget float64 `yaml:"daily_token_budget" json:"daily_token_budget" mapstructure:"daily_token_budget"`
	CreatorShare     float64 `yaml:"creator_share" json:"creator_share" mapstructure:"creator_share"`
	EngagementShare  float64 `yaml:"engagement_share" json:"engagement_share" mapstructure:"engagement_share"`
	PlatformShare    float64 `yaml:"platform_share" json:"platform_share" mapstructure:"platform_share"`
}

// DefaultPoolConfig returns the launch pool split: 40% creator, 40%
// engagement, 20% platform over a 57.6M token daily budget.
func DefaultPoolConfig() PoolConfig {
	return PoolConfig{
		DailyTokenBudget: 57_600_000,
		CreatorShare:     0.40,
		EngagementShare:  0.40,
		PlatformShare:    0.20,
	}
}

// Validate checks the budget is positive and the shares sum to 1.
func (p PoolConfig) Validate() error {
	if p.DailyTokenBudget <= 0 {
		return eris.Wrapf(model.ErrConfiguration, "allocator: daily_token_budget %.2f must be positive", p.DailyTokenBudget)
	}
	if p.CreatorShare < 0 || p.EngagementShare < 0 || p.PlatformShare < 0 {
		return eris.Wrap(model.ErrConfiguration, "allocator: shares must be non-negative")
	}
	sum := p.CreatorShare + p.EngagementShare + p.PlatformShare
	if math.Abs(sum-1.0) > shareEpsilon {
		return eris.Wrapf(model.ErrConfiguration, "allocator: shares sum to %.12f, want 1.0", sum)
	}
	return nil
}

// Result holds one period's pool distribution.
type Result struct {
	Items       []model.Allocation `json:"items"`
	TotalWeight float64            `json:"total_weight"`
	TotalTokens float64            `json:"total_tokens"`
}

// Allocator normalizes cohort weights into token allocations.
type Allocator struct {
	engine *scorer.Engine
}

// New creates an Allocator scoring with the given engine.
func New(engine *scorer.Engine) *Allocator {
	return &Allocator{engine: engine}
}

// Allocate scores every item, normalizes across the cohort, and splits
// each item's tokens by recipient class.
//
// A cohort that cannot be allocated over (empty, or with every weight
// zero) fails with ErrDegenerateInput so callers can special-case "no
// content today" without treating it as a bug.
func (a *Allocator) Allocate(cohort model.Cohort, pool PoolConfig) (*Result, error) {
	if err := pool.Validate(); err != nil {
		return nil, err
	}
	if len(cohort) == 0 {
		return nil, eris.Wrap(model.ErrDegenerateInput, "allocator: empty cohort")
	}

	weights, total, err := a.engine.ScoreCohort(cohort)
	if err != nil {
		return nil, eris.Wrap(err, "allocator: allocate")
	}
	if total == 0 {
		return nil, eris.Wrap(model.ErrDegenerateInput, "allocator: total cohort weight is zero")
	}

	items := make([]model.Allocation, len(cohort))
	for i, w := range weights {
		tokens := pool.DailyTokenBudget * w / total
		items[i] = model.Allocation{
			Index:      i,
			Weight:     w,
			Creator:    tokens * pool.CreatorShare,
			Engagement: tokens * pool.EngagementShare,
			Platform:   tokens * pool.PlatformShare,
			Total:      tokens,
		}
	}

	return &Result{
		Items:       items,
		TotalWeight: total,
		TotalTokens: pool.DailyTokenBudget,
	}, nil
}
