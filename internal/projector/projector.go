// Package projector combines the period's pool allocation, reward
// multiplier, and sink recapture into supply-delta and inflation figures,
// plus the composite economic health score.
package projector

import (
	"github.com/rotisserie/eris"

	"github.com/mikefara123/vcoin-engine/internal/model"
)

// daysPerYear annualizes daily inflation.
const daysPerYear = 365

// Inputs are the token flows of one period.
type Inputs struct {
	AllocationsTotal float64 `json:"allocations_total"`
	Multiplier       float64 `json:"multiplier"`
	Recapture        float64 `json:"recapture"`
	TotalSupply      float64 `json:"total_supply"`
}

// Projection is the resulting supply dynamics.
type Projection struct {
	NetMinted       float64 `json:"net_minted"`
	NetFlow         float64 `json:"net_flow"`
	DailyInflation  float64 `json:"daily_inflation"`
	AnnualInflation float64 `json:"annual_inflation"`
}

// Project computes the period's net supply delta and inflation:
//
//	net_minted = allocations_total × multiplier
//	net_flow   = net_minted − recapture
//	daily      = net_flow / total_supply
//	annual     = daily × 365
func Project(in Inputs) (Projection, error) {
	if in.AllocationsTotal < 0 {
		return Projection{}, eris.Wrapf(model.ErrValidation, "projector: allocations total %.2f must be non-negative", in.AllocationsTotal)
	}
	if in.Multiplier <= 0 {
		return Projection{}, eris.Wrapf(model.ErrValidation, "projector: multiplier %.4f must be positive", in.Multiplier)
	}
	if in.Recapture < 0 {
		return Projection{}, eris.Wrapf(model.ErrValidation, "projector: recapture %.2f must be non-negative", in.Recapture)
	}
	if in.TotalSupply <= 0 {
		return Projection{}, eris.Wrapf(model.ErrValidation, "projector: total supply %.2f must be positive", in.TotalSupply)
	}

	netMinted := in.AllocationsTotal * in.Multiplier
	netFlow := netMinted - in.Recapture
	daily := netFlow / in.TotalSupply

	return Projection{
		NetMinted:       netMinted,
		NetFlow:         netFlow,
		DailyInflation:  daily,
		AnnualInflation: daily * daysPerYear,
	}, nil
}

// Velocity returns annualized token velocity: daily transaction volume
// over the actively circulating (non-staked) supply. A fully staked or
// empty supply has zero velocity rather than an error.
func Velocity(dailyVolume, circulating, staked float64) float64 {
	active := circulating - staked
	if active <= 0 {
		return 0
	}
	return dailyVolume / active * daysPerYear
}
