package adjuster

import (
	"math"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mikefara123/vcoin-engine/internal/model"
)

func price(base, current float64) model.PriceState {
	return model.PriceState{BasePrice: base, CurrentPrice: current}
}

func TestConfigValidate(t *testing.T) {
	assert.NoError(t, DefaultConfig().Validate())

	cases := []struct {
		name string
		cfg  Config
	}{
		{"zero factor", Config{AdjustmentFactor: 0, MinRewardRatio: 0.2, MaxRewardRatio: 2.0}},
		{"min above one", Config{AdjustmentFactor: 0.3, MinRewardRatio: 1.1, MaxRewardRatio: 2.0}},
		{"max below one", Config{AdjustmentFactor: 0.3, MinRewardRatio: 0.2, MaxRewardRatio: 0.9}},
		{"non-positive min", Config{AdjustmentFactor: 0.3, MinRewardRatio: 0, MaxRewardRatio: 2.0}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			require.Error(t, err)
			assert.True(t, eris.Is(err, model.ErrConfiguration))
		})
	}
}

func TestMultiplier_AtBasePriceIsExactlyOne(t *testing.T) {
	m, err := Multiplier(price(0.10, 0.10), DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, 1.0, m)
}

func TestMultiplier_BelowBasePriceIsOne(t *testing.T) {
	m, err := Multiplier(price(0.10, 0.05), DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, 1.0, m)
}

func TestMultiplier_BoundaryAppreciations(t *testing.T) {
	cfg := DefaultConfig()
	cases := []struct {
		appreciation float64
		want         float64
	}{
		{1, 1.0},
		{2, math.Pow(2, -0.3)},
		{10, math.Pow(10, -0.3)},
		{100, math.Pow(100, -0.3)},
	}
	for _, tc := range cases {
		m, err := Multiplier(price(0.10, 0.10*tc.appreciation), cfg)
		require.NoError(t, err, "appreciation %gx", tc.appreciation)
		assert.InDelta(t, tc.want, m, 1e-12, "appreciation %gx", tc.appreciation)
	}
}

func TestMultiplier_TenXExample(t *testing.T) {
	// base 0.10 -> current 1.00 with factor 0.3 halves token rewards.
	m, err := Multiplier(price(0.10, 1.00), DefaultConfig())
	require.NoError(t, err)
	assert.InDelta(t, 0.50, m, 0.01)
}

func TestMultiplier_AlwaysWithinBounds(t *testing.T) {
	cfg := DefaultConfig()
	for _, ratio := range []float64{0.01, 0.5, 1, 3, 10, 1_000, 1e6} {
		m, err := Multiplier(price(0.10, 0.10*ratio), cfg)
		require.NoError(t, err, "ratio %g", ratio)
		assert.GreaterOrEqual(t, m, cfg.MinRewardRatio, "ratio %g", ratio)
		assert.LessOrEqual(t, m, cfg.MaxRewardRatio, "ratio %g", ratio)
	}
}

func TestMultiplier_FloorAtExtremeAppreciation(t *testing.T) {
	m, err := Multiplier(price(0.10, 1e6), DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, 0.2, m)
}

func TestMultiplier_MonotonicDecreasing(t *testing.T) {
	cfg := Config{AdjustmentFactor: 0.3, MinRewardRatio: 0.001, MaxRewardRatio: 2.0}
	prev := math.Inf(1)
	for _, ratio := range []float64{1.1, 2, 5, 10, 50, 100} {
		m, err := Multiplier(price(0.10, 0.10*ratio), cfg)
		require.NoError(t, err)
		assert.Less(t, m, prev, "ratio %g", ratio)
		prev = m
	}
}

func TestMultiplier_InvalidPrice(t *testing.T) {
	_, err := Multiplier(price(0, 1), DefaultConfig())
	require.Error(t, err)
	assert.True(t, eris.Is(err, model.ErrValidation))

	_, err = Multiplier(price(0.10, -1), DefaultConfig())
	require.Error(t, err)
	assert.True(t, eris.Is(err, model.ErrValidation))
}
