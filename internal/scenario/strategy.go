package scenario

import (
	"math"

	"github.com/rotisserie/eris"

	"github.com/mikefara123/vcoin-engine/internal/adjuster"
	"github.com/mikefara123/vcoin-engine/internal/allocator"
	"github.com/mikefara123/vcoin-engine/internal/model"
)

// MintResult is one period's gross payout as computed by a strategy,
// before sink recapture is applied.
type MintResult struct {
	// Pool holds the per-item allocations over the strategy's budget.
	Pool *allocator.Result
	// Multiplier rescales token payouts before minting (1.0 when the
	// strategy does no dynamic adjustment).
	Multiplier float64
	// Funding figures feed the sustainability sub-score; HasFunding is
	// false for pool-only strategies with no external funding concept.
	FundingAvailableUSD float64
	FundingRequiredUSD  float64
	HasFunding          bool
}

// Strategy computes a period's minting from the cohort and current state.
// The three variants reconcile the incompatible formula families found in
// the platform's design iterations behind one interface.
type Strategy interface {
	Name() string
	Mint(cohort model.Cohort, scale model.PlatformScale, st *model.ScenarioState) (*MintResult, error)
}

// newStrategy builds the strategy named in the config.
func newStrategy(cfg Config, alloc *allocator.Allocator) (Strategy, error) {
	switch cfg.Strategy {
	case StrategyFixedPool:
		return &fixedPool{alloc: alloc, pool: cfg.Pool}, nil
	case StrategyDynamicAdjusted:
		return &dynamicAdjusted{
			alloc:     alloc,
			pool:      cfg.Pool,
			adjust:    cfg.Adjustment,
			basePrice: cfg.BasePrice,
		}, nil
	case StrategyValueBacked:
		return &valueBacked{alloc: alloc, pool: cfg.Pool, value: cfg.ValueBacked}, nil
	default:
		return nil, eris.Wrapf(model.ErrConfiguration, "scenario: unknown strategy %q", cfg.Strategy)
	}
}

// fixedPool distributes a constant daily token budget (Algorithm 5).
type fixedPool struct {
	alloc *allocator.Allocator
	pool  allocator.PoolConfig
}

func (s *fixedPool) Name() string { return StrategyFixedPool }

func (s *fixedPool) Mint(cohort model.Cohort, _ model.PlatformScale, _ *model.ScenarioState) (*MintResult, error) {
	res, err := s.alloc.Allocate(cohort, s.pool)
	if err != nil {
		return nil, err
	}
	return &MintResult{Pool: res, Multiplier: 1.0}, nil
}

// dynamicAdjusted is the fixed pool rescaled by the price-appreciation
// multiplier (the 4.0-era design).
type dynamicAdjusted struct {
	alloc     *allocator.Allocator
	pool      allocator.PoolConfig
	adjust    adjuster.Config
	basePrice float64
}

func (s *dynamicAdjusted) Name() string { return StrategyDynamicAdjusted }

func (s *dynamicAdjusted) Mint(cohort model.Cohort, _ model.PlatformScale, st *model.ScenarioState) (*MintResult, error) {
	res, err := s.alloc.Allocate(cohort, s.pool)
	if err != nil {
		return nil, err
	}
	mult, err := adjuster.Multiplier(model.PriceState{
		BasePrice:    s.basePrice,
		CurrentPrice: st.CurrentPrice,
	}, s.adjust)
	if err != nil {
		return nil, err
	}
	return &MintResult{Pool: res, Multiplier: mult}, nil
}

// valueBacked mints against the USD value the day's content created (the
// 2.0-era design): quality-tiered content value plus network value plus
// the NFT premium, converted to tokens at the current price.
type valueBacked struct {
	alloc *allocator.Allocator
	pool  allocator.PoolConfig
	value ValueBackedConfig
}

// Quality tiers of the value-backed model: 20% of content is high quality
// at a 2x value, 60% medium at 1x, 20% low at 0.3x.
const (
	highQualityShare = 0.20
	highQualityMult  = 2.0
	medQualityShare  = 0.60
	lowQualityShare  = 0.20
	lowQualityMult   = 0.3

	networkValuePerSqrtUser = 0.10
	nftValuePremium         = 3.0
)

func (s *valueBacked) Name() string { return StrategyValueBacked }

func (s *valueBacked) dailyValueUSD(scale model.PlatformScale) float64 {
	content := float64(scale.DailyContent)
	base := s.value.ValuePerContentUSD

	contentValue := content*highQualityShare*base*highQualityMult +
		content*medQualityShare*base +
		content*lowQualityShare*base*lowQualityMult
	networkValue := math.Sqrt(float64(scale.DailyActiveUsers)) * networkValuePerSqrtUser
	nftValue := content * s.value.NFTContentPct * base * nftValuePremium

	return contentValue + networkValue + nftValue
}

func (s *valueBacked) Mint(cohort model.Cohort, scale model.PlatformScale, st *model.ScenarioState) (*MintResult, error) {
	valueUSD := s.dailyValueUSD(scale)
	targetMint := valueUSD / st.CurrentPrice
	if targetMint <= 0 {
		return nil, eris.Wrap(model.ErrDegenerateInput, "scenario: value-backed mint target is zero")
	}

	pool := s.pool
	pool.DailyTokenBudget = targetMint
	res, err := s.alloc.Allocate(cohort, pool)
	if err != nil {
		return nil, err
	}

	return &MintResult{
		Pool:                res,
		Multiplier:          1.0,
		FundingAvailableUSD: float64(scale.DailyActiveUsers) * s.value.DailyARPUUSD,
		FundingRequiredUSD:  targetMint * st.CurrentPrice,
		HasFunding:          true,
	}, nil
}
