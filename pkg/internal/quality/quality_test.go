package quality_test

import (
	"math"
	"testing"

	"github.com/joeydtaylor/muedit/pkg/internal/quality"
	"github.com/joeydtaylor/muedit/pkg/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify_Bands(t *testing.T) {
	const th = types.DefaultBandThreshold
	cases := []struct {
		delta float64
		want  types.SILBand
	}{
		{0.03, types.BandLargePositive},
		{0.02, types.BandSmallPositive},
		{0.001, types.BandSmallPositive},
		{0, types.BandNone},
		{-0.01, types.BandSmallNegative},
		{-0.02, types.BandSmallNegative},
		{-0.03, types.BandLargeNegative},
		{math.NaN(), types.BandNone},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, quality.Classify(tc.delta, th), "delta %v", tc.delta)
	}
}

func TestClassify_Colors(t *testing.T) {
	assert.Equal(t, "limegreen", quality.Classify(0.03, 0.02).Color())
	assert.Equal(t, "lightcoral", quality.Classify(-0.01, 0.02).Color())
	assert.Equal(t, "black", quality.Classify(0, 0.02).Color())
}

func TestSIL_PerfectSeparation(t *testing.T) {
	pulse := make(types.PulseTrain, 100)
	d := types.DischargeTrain{10, 40, 70}
	for _, i := range d {
		pulse[i] = 1
	}
	sil, err := quality.SIL(pulse, d)
	require.NoError(t, err)
	assert.InDelta(t, 1, sil, 1e-12)
}

func TestSIL_WrongDischargesScoreLower(t *testing.T) {
	pulse := make(types.PulseTrain, 100)
	for _, i := range []int{10, 40, 70} {
		pulse[i] = 1
	}
	pulse[20] = 0.4

	good, err := quality.SIL(pulse, types.DischargeTrain{10, 40, 70})
	require.NoError(t, err)
	bad, err := quality.SIL(pulse, types.DischargeTrain{10, 20, 55})
	require.NoError(t, err)
	assert.Less(t, bad, good)
	assert.GreaterOrEqual(t, bad, -1.0)
}

func TestSIL_Errors(t *testing.T) {
	_, err := quality.SIL(make(types.PulseTrain, 10), nil)
	assert.ErrorIs(t, err, types.ErrInsufficientData)

	_, err = quality.SIL(make(types.PulseTrain, 10), types.DischargeTrain{3, 12})
	assert.ErrorIs(t, err, types.ErrLengthMismatch)
}

func TestDischargeRate(t *testing.T) {
	rate, at := quality.DischargeRate(types.DischargeTrain{0, 1024, 1536}, 2048)
	assert.Equal(t, []int{1024, 1536}, at)
	require.Len(t, rate, 2)
	assert.InDelta(t, 2, rate[0], 1e-12)
	assert.InDelta(t, 4, rate[1], 1e-12)

	rate, at = quality.DischargeRate(types.DischargeTrain{5}, 2048)
	assert.Nil(t, rate)
	assert.Nil(t, at)
}
