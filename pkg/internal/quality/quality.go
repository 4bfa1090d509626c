// Package quality scores how well a discharge train separates from the rest
// of its pulse train (SIL) and classifies score changes for display.
package quality

import (
	"fmt"
	"math"

	"github.com/joeydtaylor/muedit/pkg/internal/types"
	"gonum.org/v1/gonum/stat"
)

// SIL returns the silhouette-like separability of the pulse values at the
// discharges (peak cluster) against all remaining samples (noise cluster):
// (inter - intra) / max(intra, inter), where intra sums the squared distances
// of peak values to the peak centroid and inter sums their squared distances
// to the noise centroid.
func SIL(pulse types.PulseTrain, discharges types.DischargeTrain) (float64, error) {
	if len(discharges) == 0 {
		return 0, types.ErrInsufficientData
	}
	if !discharges.Valid(len(pulse)) {
		return 0, fmt.Errorf("quality: discharges outside pulse train of length %d: %w", len(pulse), types.ErrLengthMismatch)
	}

	peak := make([]float64, 0, len(discharges))
	noise := make([]float64, 0, len(pulse)-len(discharges))
	j := 0
	for i, v := range pulse {
		if j < len(discharges) && discharges[j] == i {
			peak = append(peak, v)
			j++
			continue
		}
		noise = append(noise, v)
	}
	if len(noise) == 0 {
		return 0, types.ErrInsufficientData
	}

	peakCentroid := stat.Mean(peak, nil)
	noiseCentroid := stat.Mean(noise, nil)

	intra, inter := 0.0, 0.0
	for _, v := range peak {
		intra += (v - peakCentroid) * (v - peakCentroid)
		inter += (v - noiseCentroid) * (v - noiseCentroid)
	}
	den := math.Max(intra, inter)
	if den == 0 {
		return 0, nil
	}
	return (inter - intra) / den, nil
}

// Classify maps a SIL delta to its display band. threshold separates small
// from large changes (0.02 in the reference editor).
func Classify(delta, threshold float64) types.SILBand {
	switch {
	case math.IsNaN(delta):
		return types.BandNone
	case delta > threshold:
		return types.BandLargePositive
	case delta > 0:
		return types.BandSmallPositive
	case delta == 0:
		return types.BandNone
	case delta >= -threshold:
		return types.BandSmallNegative
	default:
		return types.BandLargeNegative
	}
}

// DischargeRate returns the instantaneous firing rate in pulses per second at
// every discharge after the first, paired with the discharge sample index.
func DischargeRate(discharges types.DischargeTrain, fs float64) (rate []float64, at []int) {
	if len(discharges) < 2 {
		return nil, nil
	}
	rate = make([]float64, 0, len(discharges)-1)
	at = make([]int, 0, len(discharges)-1)
	for i := 1; i < len(discharges); i++ {
		dt := float64(discharges[i]-discharges[i-1]) / fs
		rate = append(rate, 1/dt)
		at = append(at, discharges[i])
	}
	return rate, at
}
