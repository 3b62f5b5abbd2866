package model

import (
	"time"

	"github.com/rotisserie/eris"
	"github.com/shopspring/decimal"
)

// PriceState carries the reference (launch) token price and the current
// market price. Both are strictly positive; a zero or negative price is
// an input error, not a clamping case.
type PriceState struct {
	BasePrice    float64 `json:"base_token_price" yaml:"base_token_price"`
	CurrentPrice float64 `json:"current_token_price" yaml:"current_token_price"`
}

// Validate checks both prices are strictly positive.
func (p PriceState) Validate() error {
	if p.BasePrice <= 0 {
		return eris.Wrapf(ErrValidation, "model: base_token_price %.6f must be positive", p.BasePrice)
	}
	if p.CurrentPrice <= 0 {
		return eris.Wrapf(ErrValidation, "model: current_token_price %.6f must be positive", p.CurrentPrice)
	}
	return nil
}

// Appreciation returns current/base.
func (p PriceState) Appreciation() float64 {
	return p.CurrentPrice / p.BasePrice
}

// PlatformScale describes one period's platform activity for sink volume
// functions. TokenPrice lets USD-denominated sinks convert to tokens.
type PlatformScale struct {
	DailyActiveUsers int     `json:"daily_active_users" yaml:"daily_active_users"`
	DailyCreators    int     `json:"daily_creators" yaml:"daily_creators"`
	DailyContent     int     `json:"daily_content" yaml:"daily_content"`
	TokenPrice       float64 `json:"token_price" yaml:"token_price"`
}

// Validate checks counts are non-negative and the price positive.
func (s PlatformScale) Validate() error {
	if s.DailyActiveUsers < 0 || s.DailyCreators < 0 || s.DailyContent < 0 {
		return eris.Wrap(ErrValidation, "model: platform scale counts must be non-negative")
	}
	if s.TokenPrice <= 0 {
		return eris.Wrapf(ErrValidation, "model: token_price %.6f must be positive", s.TokenPrice)
	}
	return nil
}

// ScenarioState is the single mutable object of a simulation run, owned
// exclusively by the scenario runner. Concurrent runs must each use their
// own state; within a run, periods update it strictly sequentially.
type ScenarioState struct {
	PeriodIndex      int     `json:"period_index"`
	DailyActiveUsers int     `json:"daily_active_users"`
	CurrentPrice     float64 `json:"current_token_price"`
	TotalSupply      float64 `json:"total_token_supply"`
	StakedSupply     float64 `json:"staked_token_supply"`
}

// Allocation is one content item's share of the period pool, split across
// the three recipient classes. Index refers to the item's position in the
// cohort (items carry no natural key).
type Allocation struct {
	Index      int     `json:"index"`
	Weight     float64 `json:"weight"`
	Creator    float64 `json:"creator_tokens"`
	Engagement float64 `json:"engagement_tokens"`
	Platform   float64 `json:"platform_tokens"`
	Total      float64 `json:"total_tokens"`
}

// HealthBreakdown holds the composite economic health score and its
// sub-scores, each on a 0-100 scale. Sustainability is nil for strategies
// with no external funding concept; Overall is the arithmetic mean of the
// applicable sub-scores.
type HealthBreakdown struct {
	PriceStability float64  `json:"price_stability_score"`
	Creator        float64  `json:"creator_competitiveness_score"`
	BurnEfficiency float64  `json:"burn_efficiency_score"`
	Sustainability *float64 `json:"sustainability_score,omitempty"`
	Overall        float64  `json:"overall_score"`
}

// EconomicSnapshot is the output record of one simulated period. The
// engine retains no history; callers accumulate snapshots themselves
// (the CLI persists them through internal/store).
//
// USD-denominated aggregates are decimal.Decimal: transcendental math
// stays in float64 and is converted to decimal at the money boundary.
type EconomicSnapshot struct {
	Period           int     `json:"period"`
	Strategy         string  `json:"strategy"`
	DailyActiveUsers int     `json:"daily_active_users"`
	DailyContent     int     `json:"daily_content"`
	TokenPrice       float64 `json:"token_price"`

	TotalWeight      float64 `json:"total_weight"`
	RewardMultiplier float64 `json:"reward_multiplier"`
	GrossMinted      float64 `json:"gross_minted"`
	NetMinted        float64 `json:"net_minted"`
	TotalBurned      float64 `json:"total_burned"`
	NetFlow          float64 `json:"net_flow"`
	TotalSupply      float64 `json:"total_supply"`

	DailyInflation  float64 `json:"daily_inflation"`
	AnnualInflation float64 `json:"annual_inflation"`
	TokenVelocity   float64 `json:"token_velocity"`
	RecaptureRate   float64 `json:"recapture_rate"`
	ActualRPM       float64 `json:"actual_rpm"`

	Health        HealthBreakdown    `json:"health"`
	BurnBreakdown map[string]float64 `json:"burn_breakdown"`
	Allocations   []Allocation       `json:"allocations,omitempty"`

	MarketCapUSD     decimal.Decimal `json:"market_cap_usd"`
	CreatorPayoutUSD decimal.Decimal `json:"creator_payout_usd"`
	BurnValueUSD     decimal.Decimal `json:"burn_value_usd"`
}

// USDScale is the rounding scale for USD-denominated snapshot fields.
const USDScale int32 = 2

// USDValue converts a float64 token-math result into a rounded USD
// decimal. Money is never kept in float64 beyond this boundary.
func USDValue(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v).Round(USDScale)
}

// RunStatus is the lifecycle state of a persisted simulation run.
type RunStatus string

const (
	RunStatusIdle      RunStatus = "idle"
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	RunStatusFailed    RunStatus = "failed"
)

// SimRun records one scenario execution for the run history store.
type SimRun struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Strategy   string    `json:"strategy"`
	Status     RunStatus `json:"status"`
	Periods    int       `json:"periods"`
	FailPeriod int       `json:"fail_period,omitempty"`
	Error      string    `json:"error,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
