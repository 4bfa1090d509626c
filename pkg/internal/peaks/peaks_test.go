package peaks_test

import (
	"math/rand"
	"testing"

	"github.com/joeydtaylor/muedit/pkg/internal/peaks"
	"github.com/stretchr/testify/assert"
)

func TestDetect_LocalMaxima(t *testing.T) {
	x := []float64{0, 1, 0, 2, 0, 3, 0}
	assert.Equal(t, []int{1, 3, 5}, peaks.Detect(x, 1))
}

func TestDetect_MinDistanceKeepsHigher(t *testing.T) {
	x := []float64{0, 1, 0, 2, 0, 3, 0}
	assert.Equal(t, []int{1, 5}, peaks.Detect(x, 2))
	assert.Equal(t, []int{5}, peaks.Detect(x, 4))
}

func TestDetect_PlateauTakesRisingEdge(t *testing.T) {
	assert.Equal(t, []int{1}, peaks.Detect([]float64{0, 1, 1, 0}, 1))
}

func TestDetect_EndpointsNeverPeaks(t *testing.T) {
	assert.Empty(t, peaks.Detect([]float64{5, 1, 5}, 1))
	assert.Empty(t, peaks.Detect([]float64{1, 2}, 1))
}

func TestDetect_NoAmplitudeThreshold(t *testing.T) {
	x := []float64{0, 1e-9, 0, -5, -4, -5}
	assert.Equal(t, []int{1, 4}, peaks.Detect(x, 1))
}

func TestDetect_DistanceInvariant(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	x := make([]float64, 5000)
	for i := range x {
		x[i] = rng.NormFloat64()
	}
	const mpd = 10
	got := peaks.Detect(x, mpd)
	assert.NotEmpty(t, got)
	for i := 1; i < len(got); i++ {
		assert.Greater(t, got[i]-got[i-1], mpd)
	}
}
