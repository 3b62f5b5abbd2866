package projector

import (
	"math"

	"github.com/rotisserie/eris"

	"github.com/mikefara123/vcoin-engine/internal/model"
)

// HealthConfig tunes the composite health score.
type HealthConfig struct {
	// InflationBand is the two-sided tolerance in percentage points;
	// |annual inflation| inside the band scores 90.
	InflationBand float64 `yaml:"inflation_band" json:"inflation_band" mapstructure:"inflation_band"`
	// InflationSlope is the penalty per percentage point beyond the band.
	InflationSlope float64 `yaml:"inflation_slope" json:"inflation_slope" mapstructure:"inflation_slope"`
	// TargetRPM is the competitive creator payout in USD per 1,000 views.
	TargetRPM float64 `yaml:"target_rpm" json:"target_rpm" mapstructure:"target_rpm"`
}

// DefaultHealthConfig returns a ±5-point inflation band with an 8
// points-per-point penalty and the $3 market-standard RPM target.
func DefaultHealthConfig() HealthConfig {
	return HealthConfig{
		InflationBand:  5.0,
		InflationSlope: 8.0,
		TargetRPM:      3.0,
	}
}

// Validate checks band and slope are non-negative and the RPM target
// positive.
func (c HealthConfig) Validate() error {
	if c.InflationBand < 0 {
		return eris.Wrapf(model.ErrConfiguration, "projector: inflation_band %.2f must be non-negative", c.InflationBand)
	}
	if c.InflationSlope < 0 {
		return eris.Wrapf(model.ErrConfiguration, "projector: inflation_slope %.2f must be non-negative", c.InflationSlope)
	}
	if c.TargetRPM <= 0 {
		return eris.Wrapf(model.ErrConfiguration, "projector: target_rpm %.2f must be positive", c.TargetRPM)
	}
	return nil
}

// HealthInputs feed the composite score. Funding fields only matter when
// IncludeSustainability is set; pool-only strategies have no external
// funding concept and omit that sub-score.
type HealthInputs struct {
	AnnualInflation       float64
	ActualRPM             float64
	Recapture             float64
	NetMinted             float64
	FundingAvailable      float64
	FundingRequired       float64
	IncludeSustainability bool
}

// Health computes the composite economic health score: the arithmetic
// mean of the applicable 0-100 sub-scores.
func Health(in HealthInputs, cfg HealthConfig) (model.HealthBreakdown, error) {
	if err := cfg.Validate(); err != nil {
		return model.HealthBreakdown{}, err
	}

	burnEff, err := burnEfficiencyScore(in.Recapture, in.NetMinted)
	if err != nil {
		return model.HealthBreakdown{}, err
	}

	hb := model.HealthBreakdown{
		PriceStability: priceStabilityScore(in.AnnualInflation, cfg),
		Creator:        capped(in.ActualRPM / cfg.TargetRPM * 100),
		BurnEfficiency: burnEff,
	}

	scores := []float64{hb.PriceStability, hb.Creator, hb.BurnEfficiency}
	if in.IncludeSustainability {
		s, err := sustainabilityScore(in.FundingAvailable, in.FundingRequired)
		if err != nil {
			return model.HealthBreakdown{}, err
		}
		hb.Sustainability = &s
		scores = append(scores, s)
	}

	var sum float64
	for _, s := range scores {
		sum += s
	}
	hb.Overall = sum / float64(len(scores))

	return hb, nil
}

// priceStabilityScore is two-sided: hyperinflation and deep deflation are
// penalized alike, linearly in the excess over the band edge.
func priceStabilityScore(annualInflation float64, cfg HealthConfig) float64 {
	points := math.Abs(annualInflation) * 100
	if points <= cfg.InflationBand {
		return 90
	}
	return math.Max(0, 90-(points-cfg.InflationBand)*cfg.InflationSlope)
}

func burnEfficiencyScore(recapture, netMinted float64) (float64, error) {
	if netMinted == 0 {
		return 0, eris.Wrap(model.ErrDegenerateInput, "projector: burn efficiency undefined with zero net minted")
	}
	return capped(recapture / netMinted * 100), nil
}

func sustainabilityScore(available, required float64) (float64, error) {
	if required <= 0 {
		return 0, eris.Wrap(model.ErrDegenerateInput, "projector: sustainability undefined with zero funding requirement")
	}
	return capped(available / required * 100), nil
}

func capped(v float64) float64 {
	if v > 100 {
		return 100
	}
	if v < 0 {
		return 0
	}
	return v
}
