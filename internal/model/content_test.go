package model

import (
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validItem() ContentItem {
	return ContentItem{
		EngagementTotal:    1000,
		PostValueScore:     75,
		CreatorCredibility: 300,
		TrustScore:         0.8,
		Type:               ContentTypeShortVideo,
	}
}

func TestContentTypeMultiplier(t *testing.T) {
	cases := []struct {
		ct   ContentType
		want float64
	}{
		{ContentTypeText, 0.8},
		{ContentTypeShortVideo, 1.0},
		{ContentTypeLongVideo, 2.0},
		{ContentTypePodcast, 2.5},
	}
	for _, tc := range cases {
		m, err := tc.ct.Multiplier()
		require.NoError(t, err, tc.ct)
		assert.Equal(t, tc.want, m, tc.ct)
	}
}

func TestContentTypeMultiplier_Unknown(t *testing.T) {
	_, err := ContentType("livestream").Multiplier()
	require.Error(t, err)
	assert.True(t, eris.Is(err, ErrValidation))
}

func TestContentItemValidate(t *testing.T) {
	assert.NoError(t, validItem().Validate())
}

func TestContentItemValidate_OutOfRange(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*ContentItem)
	}{
		{"negative engagement", func(c *ContentItem) { c.EngagementTotal = -1 }},
		{"post value above 100", func(c *ContentItem) { c.PostValueScore = 100.5 }},
		{"negative post value", func(c *ContentItem) { c.PostValueScore = -0.1 }},
		{"credibility above 500", func(c *ContentItem) { c.CreatorCredibility = 501 }},
		{"trust below floor", func(c *ContentItem) { c.TrustScore = 0.1 }},
		{"trust above ceiling", func(c *ContentItem) { c.TrustScore = 1.2 }},
		{"unknown type", func(c *ContentItem) { c.Type = "gif" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			item := validItem()
			tc.mutate(&item)
			err := item.Validate()
			require.Error(t, err)
			assert.True(t, eris.Is(err, ErrValidation))
		})
	}
}

func TestCohortValidate_ReportsItemIndex(t *testing.T) {
	bad := validItem()
	bad.TrustScore = 0
	cohort := Cohort{validItem(), bad}

	err := cohort.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cohort item 1")
}

func TestPriceStateValidate(t *testing.T) {
	assert.NoError(t, PriceState{BasePrice: 0.10, CurrentPrice: 1.0}.Validate())

	err := PriceState{BasePrice: 0, CurrentPrice: 1.0}.Validate()
	require.Error(t, err)
	assert.True(t, eris.Is(err, ErrValidation))

	err = PriceState{BasePrice: 0.10, CurrentPrice: -2}.Validate()
	require.Error(t, err)
	assert.True(t, eris.Is(err, ErrValidation))
}

func TestUSDValue_Rounds(t *testing.T) {
	assert.Equal(t, "1234.57", USDValue(1234.5678).StringFixed(2))
}
