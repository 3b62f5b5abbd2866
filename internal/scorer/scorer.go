// Package scorer computes the content weight that drives pool allocation.
//
// The weight formula is deliberately asymmetric as an anti-manipulation
// device: raw engagement (easy to inflate with bots) enters through a
// natural log and is therefore sub-linear, while quality and credibility
// (externally verified, harder to fake) enter as power terms and dominate
// at the margins.
package scorer

import (
	"math"

	"github.com/rotisserie/eris"

	"github.com/mikefara123/vcoin-engine/internal/model"
)

// Params holds the scoring exponents.
type Params struct {
	// Alpha is the creator-credibility exponent.
	Alpha float64 `yaml:"alpha" json:"alpha" mapstructure:"alpha"`
	// Beta is the post-value exponent.
	Beta float64 `yaml:"beta" json:"beta" mapstructure:"beta"`
}

// DefaultParams returns the canonical exponents (alpha 0.3, beta 0.8).
func DefaultParams() Params {
	return Params{Alpha: 0.3, Beta: 0.8}
}

// Validate checks both exponents are strictly positive.
func (p Params) Validate() error {
	if p.Alpha <= 0 {
		return eris.Wrapf(model.ErrConfiguration, "scorer: alpha %.3f must be positive", p.Alpha)
	}
	if p.Beta <= 0 {
		return eris.Wrapf(model.ErrConfiguration, "scorer: beta %.3f must be positive", p.Beta)
	}
	return nil
}

// Engine scores content items. It is stateless and safe for concurrent use.
type Engine struct {
	params Params
}

// New creates a scoring engine with the given exponents.
func New(params Params) (*Engine, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	return &Engine{params: params}, nil
}

// Score computes the content weight:
//
//	weight = ln(1 + engagement_total)
//	       × (post_value_score / 100) ^ beta
//	       × (creator_credibility_score / 500) ^ alpha
//	       × trust_score
//	       × content_type_multiplier
//
// The item is validated first; out-of-range input fails rather than
// being clamped.
func (e *Engine) Score(item model.ContentItem) (float64, error) {
	if err := item.Validate(); err != nil {
		return 0, eris.Wrap(err, "scorer: score")
	}

	typeMult, err := item.Type.Multiplier()
	if err != nil {
		return 0, eris.Wrap(err, "scorer: score")
	}

	engagement := math.Log(1 + float64(item.EngagementTotal))
	postValue := math.Pow(item.PostValueScore/100, e.params.Beta)
	credibility := math.Pow(item.CreatorCredibility/500, e.params.Alpha)

	return engagement * postValue * credibility * item.TrustScore * typeMult, nil
}

// ScoreCohort scores every item in cohort order and returns the per-item
// weights together with their sum.
func (e *Engine) ScoreCohort(cohort model.Cohort) ([]float64, float64, error) {
	weights := make([]float64, len(cohort))
	var total float64
	for i, item := range cohort {
		w, err := e.Score(item)
		if err != nil {
			return nil, 0, eris.Wrapf(err, "scorer: cohort item %d", i)
		}
		weights[i] = w
		total += w
	}
	return weights, total, nil
}
