// Package model holds the domain types shared across the engine: content
// and cohort inputs, price and platform state, and the per-period
// economic snapshot the scenario runner emits.
package model

import "github.com/rotisserie/eris"

// ContentType classifies a piece of content for reward weighting.
type ContentType string

const (
	ContentTypeText       ContentType = "text"
	ContentTypeShortVideo ContentType = "short_video"
	ContentTypeLongVideo  ContentType = "long_video"
	ContentTypePodcast    ContentType = "podcast"
)

// typeMultipliers is the fixed reward multiplier table. Longer-form
// content carries a higher multiplier to compensate production effort.
var typeMultipliers = map[ContentType]float64{
	ContentTypeText:       0.8,
	ContentTypeShortVideo: 1.0,
	ContentTypeLongVideo:  2.0,
	ContentTypePodcast:    2.5,
}

// ContentTypes lists all valid content types in display order.
var ContentTypes = []ContentType{
	ContentTypeText,
	ContentTypeShortVideo,
	ContentTypeLongVideo,
	ContentTypePodcast,
}

// Multiplier returns the fixed reward multiplier for the content type.
func (t ContentType) Multiplier() (float64, error) {
	m, ok := typeMultipliers[t]
	if !ok {
		return 0, eris.Wrapf(ErrValidation, "model: unknown content type %q", string(t))
	}
	return m, nil
}

// Valid reports whether t is a known content type.
func (t ContentType) Valid() bool {
	_, ok := typeMultipliers[t]
	return ok
}

// ContentItem is one piece of user-generated content competing in a
// period's reward pool. Quality and trust scores are supplied by an
// external moderation system; the engine only consumes them. Items are
// constructed fresh per scoring call and never mutated.
type ContentItem struct {
	EngagementTotal    int         `json:"engagement_total" yaml:"engagement_total"`
	PostValueScore     float64     `json:"post_value_score" yaml:"post_value_score"`
	CreatorCredibility float64     `json:"creator_credibility_score" yaml:"creator_credibility_score"`
	TrustScore         float64     `json:"trust_score" yaml:"trust_score"`
	Type               ContentType `json:"content_type" yaml:"content_type"`
}

// Validate checks every field against its documented range. Out-of-range
// input is an error, never clamped.
func (c ContentItem) Validate() error {
	if c.EngagementTotal < 0 {
		return eris.Wrapf(ErrValidation, "model: engagement_total %d must be non-negative", c.EngagementTotal)
	}
	if c.PostValueScore < 0 || c.PostValueScore > 100 {
		return eris.Wrapf(ErrValidation, "model: post_value_score %.2f outside [0, 100]", c.PostValueScore)
	}
	if c.CreatorCredibility < 0 || c.CreatorCredibility > 500 {
		return eris.Wrapf(ErrValidation, "model: creator_credibility_score %.2f outside [0, 500]", c.CreatorCredibility)
	}
	if c.TrustScore < 0.2 || c.TrustScore > 1.0 {
		return eris.Wrapf(ErrValidation, "model: trust_score %.2f outside [0.2, 1.0]", c.TrustScore)
	}
	if !c.Type.Valid() {
		return eris.Wrapf(ErrValidation, "model: unknown content type %q", string(c.Type))
	}
	return nil
}

// Cohort is the full set of content competing for a single period's pool.
// Insertion order is preserved so allocations can be reported per item.
type Cohort []ContentItem

// Validate checks every item in the cohort. An empty cohort is legal here;
// allocation over an empty cohort fails with ErrDegenerateInput instead.
func (c Cohort) Validate() error {
	for i, item := range c {
		if err := item.Validate(); err != nil {
			return eris.Wrapf(err, "model: cohort item %d", i)
		}
	}
	return nil
}
