package scenario

import (
	"math"

	"github.com/rotisserie/eris"

	"github.com/mikefara123/vcoin-engine/internal/allocator"
	"github.com/mikefara123/vcoin-engine/internal/model"
	"github.com/mikefara123/vcoin-engine/internal/projector"
	"github.com/mikefara123/vcoin-engine/internal/scorer"
	"github.com/mikefara123/vcoin-engine/internal/sinks"
)

// Runner executes a scenario period by period. It owns the run's only
// mutable state; a Runner must not be shared across concurrent runs.
// Create one per run instead, they are cheap.
type Runner struct {
	cfg      Config
	strategy Strategy
	ledger   *sinks.Ledger
	explicit model.Cohort
	state    model.ScenarioState
}

// New validates the config and builds a runner in its initial state.
func New(cfg Config) (*Runner, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	engine, err := scorer.New(cfg.Scoring)
	if err != nil {
		return nil, err
	}
	strategy, err := newStrategy(cfg, allocator.New(engine))
	if err != nil {
		return nil, err
	}
	selected, err := sinks.Select(cfg.Sinks)
	if err != nil {
		return nil, err
	}
	ledger, err := sinks.NewLedger(selected...)
	if err != nil {
		return nil, err
	}

	return &Runner{
		cfg:      cfg,
		strategy: strategy,
		ledger:   ledger,
		state: model.ScenarioState{
			DailyActiveUsers: cfg.InitialUsers,
			CurrentPrice:     cfg.InitialPrice,
			TotalSupply:      cfg.TotalSupply,
			StakedSupply:     cfg.StakedSupply,
		},
	}, nil
}

// SetCohort makes the runner use the given explicit cohort every period
// instead of synthesizing one from aggregate parameters.
func (r *Runner) SetCohort(cohort model.Cohort) error {
	if err := cohort.Validate(); err != nil {
		return eris.Wrap(err, "scenario: explicit cohort")
	}
	r.explicit = append(model.Cohort(nil), cohort...)
	return nil
}

// State returns a copy of the current scenario state.
func (r *Runner) State() model.ScenarioState {
	return r.state
}

// Run simulates the given number of periods and returns one snapshot per
// period. Periods are strictly sequential; the first failing period
// aborts the whole run, and the error reports its index.
func (r *Runner) Run(periods int) ([]model.EconomicSnapshot, error) {
	if periods <= 0 {
		return nil, eris.Wrapf(model.ErrValidation, "scenario: periods %d must be positive", periods)
	}

	snapshots := make([]model.EconomicSnapshot, 0, periods)
	for period := 1; period <= periods; period++ {
		snap, err := r.step(period)
		if err != nil {
			return nil, eris.Wrapf(err, "scenario: period %d", period)
		}
		snapshots = append(snapshots, snap)
	}
	return snapshots, nil
}

// step advances the platform path, runs the reward pipeline once, and
// applies the net supply flow to the state.
func (r *Runner) step(period int) (model.EconomicSnapshot, error) {
	st := &r.state
	if period > 1 {
		st.DailyActiveUsers = int(math.Round(float64(st.DailyActiveUsers) * (1 + r.cfg.UserGrowthRate)))
		st.CurrentPrice *= 1 + r.cfg.PriceAppreciationRate
	}

	creators := int(math.Round(float64(st.DailyActiveUsers) * r.cfg.CreatorPct))
	content := int(math.Round(float64(creators) * r.cfg.ContentPerCreator))
	scale := model.PlatformScale{
		DailyActiveUsers: st.DailyActiveUsers,
		DailyCreators:    creators,
		DailyContent:     content,
		TokenPrice:       st.CurrentPrice,
	}

	cohort := r.explicit
	if cohort == nil {
		var err error
		cohort, err = r.cfg.Cohort.Build(scale)
		if err != nil {
			return model.EconomicSnapshot{}, err
		}
	}

	mint, err := r.strategy.Mint(cohort, scale, st)
	if err != nil {
		return model.EconomicSnapshot{}, err
	}

	burnBreakdown, recapture, err := r.ledger.Breakdown(scale)
	if err != nil {
		return model.EconomicSnapshot{}, err
	}

	proj, err := projector.Project(projector.Inputs{
		AllocationsTotal: mint.Pool.TotalTokens,
		Multiplier:       mint.Multiplier,
		Recapture:        recapture,
		TotalSupply:      st.TotalSupply,
	})
	if err != nil {
		return model.EconomicSnapshot{}, err
	}

	creatorTokens := proj.NetMinted * r.cfg.Pool.CreatorShare
	creatorUSD := creatorTokens * st.CurrentPrice
	rpm := 0.0
	if views := float64(creators) * r.cfg.AvgDailyViewsPerCreator; views > 0 {
		rpm = creatorUSD / views * 1000
	}

	health, err := projector.Health(projector.HealthInputs{
		AnnualInflation:       proj.AnnualInflation,
		ActualRPM:             rpm,
		Recapture:             recapture,
		NetMinted:             proj.NetMinted,
		FundingAvailable:      mint.FundingAvailableUSD,
		FundingRequired:       mint.FundingRequiredUSD,
		IncludeSustainability: mint.HasFunding,
	}, r.cfg.Health)
	if err != nil {
		return model.EconomicSnapshot{}, err
	}

	st.TotalSupply += proj.NetFlow
	st.PeriodIndex = period

	snap := model.EconomicSnapshot{
		Period:           period,
		Strategy:         r.strategy.Name(),
		DailyActiveUsers: st.DailyActiveUsers,
		DailyContent:     content,
		TokenPrice:       st.CurrentPrice,
		TotalWeight:      mint.Pool.TotalWeight,
		RewardMultiplier: mint.Multiplier,
		GrossMinted:      mint.Pool.TotalTokens,
		NetMinted:        proj.NetMinted,
		TotalBurned:      recapture,
		NetFlow:          proj.NetFlow,
		TotalSupply:      st.TotalSupply,
		DailyInflation:   proj.DailyInflation,
		AnnualInflation:  proj.AnnualInflation,
		TokenVelocity:    projector.Velocity(proj.NetMinted, st.TotalSupply, st.StakedSupply),
		RecaptureRate:    sinks.RecaptureRate(recapture, proj.NetMinted),
		ActualRPM:        rpm,
		Health:           health,
		BurnBreakdown:    burnBreakdown,
		MarketCapUSD:     model.USDValue(st.TotalSupply * st.CurrentPrice),
		CreatorPayoutUSD: model.USDValue(creatorUSD),
		BurnValueUSD:     model.USDValue(recapture * st.CurrentPrice),
	}
	if r.cfg.KeepAllocations {
		snap.Allocations = mint.Pool.Items
	}
	return snap, nil
}
