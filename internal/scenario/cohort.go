package scenario

import (
	"math"

	"github.com/rotisserie/eris"

	"github.com/mikefara123/vcoin-engine/internal/model"
)

// mixEpsilon is the tolerance for the content-type mix summing to 1.
const mixEpsilon = 1e-9

// CohortParams derives a synthetic cohort from aggregate platform scale.
// Derivation is fully deterministic: each content type contributes a block
// of identical representative items, sized by the mix fraction, with
// engagement proportional to the reachable audience.
type CohortParams struct {
	// Mix is the content-type distribution; fractions must sum to 1.
	Mix map[model.ContentType]float64 `yaml:"mix" json:"mix"`
	// EngagementRate is the per-type share of the reachable audience
	// that interacts with one representative item.
	EngagementRate map[model.ContentType]float64 `yaml:"engagement_rate" json:"engagement_rate"`
	// AudienceShare is the fraction of DAU any item can reach.
	AudienceShare float64 `yaml:"audience_share" json:"audience_share"`
	// InteractionRate is the fraction of viewers who act (like, share,
	// comment) rather than just view.
	InteractionRate float64 `yaml:"interaction_rate" json:"interaction_rate"`

	// Representative quality scores applied to every synthetic item.
	PostValueScore float64 `yaml:"post_value_score" json:"post_value_score"`
	Credibility    float64 `yaml:"creator_credibility_score" json:"creator_credibility_score"`
	TrustScore     float64 `yaml:"trust_score" json:"trust_score"`
}

// DefaultCohortParams returns the observed launch-platform mix: mostly
// short video, engagement rates by format, average quality scores.
func DefaultCohortParams() CohortParams {
	return CohortParams{
		Mix: map[model.ContentType]float64{
			model.ContentTypePodcast:    0.05,
			model.ContentTypeLongVideo:  0.15,
			model.ContentTypeShortVideo: 0.60,
			model.ContentTypeText:       0.20,
		},
		EngagementRate: map[model.ContentType]float64{
			model.ContentTypePodcast:    0.03,
			model.ContentTypeLongVideo:  0.05,
			model.ContentTypeShortVideo: 0.12,
			model.ContentTypeText:       0.08,
		},
		AudienceShare:   0.40,
		InteractionRate: 0.175,
		PostValueScore:  75,
		Credibility:     300,
		TrustScore:      0.8,
	}
}

// Validate checks the mix sums to 1 over known types and all rates and
// scores are in range.
func (p CohortParams) Validate() error {
	var mixSum float64
	for ct, frac := range p.Mix {
		if !ct.Valid() {
			return eris.Wrapf(model.ErrConfiguration, "scenario: unknown content type %q in mix", string(ct))
		}
		if frac < 0 {
			return eris.Wrapf(model.ErrConfiguration, "scenario: mix fraction for %s must be non-negative", ct)
		}
		mixSum += frac
	}
	if math.Abs(mixSum-1.0) > mixEpsilon {
		return eris.Wrapf(model.ErrConfiguration, "scenario: content mix sums to %.12f, want 1.0", mixSum)
	}
	for ct, rate := range p.EngagementRate {
		if !ct.Valid() {
			return eris.Wrapf(model.ErrConfiguration, "scenario: unknown content type %q in engagement_rate", string(ct))
		}
		if rate < 0 || rate > 1 {
			return eris.Wrapf(model.ErrConfiguration, "scenario: engagement rate for %s outside [0, 1]", ct)
		}
	}
	if p.AudienceShare < 0 || p.AudienceShare > 1 {
		return eris.Wrapf(model.ErrConfiguration, "scenario: audience_share %.2f outside [0, 1]", p.AudienceShare)
	}
	if p.InteractionRate < 0 || p.InteractionRate > 1 {
		return eris.Wrapf(model.ErrConfiguration, "scenario: interaction_rate %.2f outside [0, 1]", p.InteractionRate)
	}

	// Reuse the item validation for the representative quality scores.
	probe := model.ContentItem{
		PostValueScore:     p.PostValueScore,
		CreatorCredibility: p.Credibility,
		TrustScore:         p.TrustScore,
		Type:               model.ContentTypeText,
	}
	if err := probe.Validate(); err != nil {
		return eris.Wrap(err, "scenario: cohort quality scores")
	}
	return nil
}

// Build synthesizes the period's cohort for the given platform scale.
// Counts are apportioned by mix fraction with the rounding remainder
// assigned to the largest fraction, so the cohort size always equals
// scale.DailyContent.
func (p CohortParams) Build(scale model.PlatformScale) (model.Cohort, error) {
	if err := scale.Validate(); err != nil {
		return nil, eris.Wrap(err, "scenario: build cohort")
	}

	counts := make(map[model.ContentType]int, len(p.Mix))
	assigned := 0
	var largest model.ContentType
	for _, ct := range model.ContentTypes {
		frac, ok := p.Mix[ct]
		if !ok {
			continue
		}
		n := int(math.Floor(float64(scale.DailyContent) * frac))
		counts[ct] = n
		assigned += n
		if largest == "" || frac > p.Mix[largest] {
			largest = ct
		}
	}
	if largest != "" {
		counts[largest] += scale.DailyContent - assigned
	}

	audience := float64(scale.DailyActiveUsers) * p.AudienceShare
	cohort := make(model.Cohort, 0, scale.DailyContent)
	for _, ct := range model.ContentTypes {
		n := counts[ct]
		if n == 0 {
			continue
		}
		views := audience * p.EngagementRate[ct]
		engagement := int(math.Round(views * p.InteractionRate))
		item := model.ContentItem{
			EngagementTotal:    engagement,
			PostValueScore:     p.PostValueScore,
			CreatorCredibility: p.Credibility,
			TrustScore:         p.TrustScore,
			Type:               ct,
		}
		for i := 0; i < n; i++ {
			cohort = append(cohort, item)
		}
	}
	return cohort, nil
}
