// Package projection estimates a motor unit's separation filter from its
// discharge instants and projects it through the whitened, extended recording
// to obtain a fresh pulse train.
package projection

import (
	"fmt"
	"sort"

	"github.com/joeydtaylor/muedit/pkg/internal/peaks"
	"github.com/joeydtaylor/muedit/pkg/internal/types"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Result is the output of one estimation.
type Result struct {
	Filter     types.SeparationFilter
	Pulse      types.PulseTrain
	Candidates []int // peak candidates of Pulse, handed to classification
	Scale      float64
}

// Estimate runs filter estimation, projection and post-processing for one
// unit. fs is the recording sample rate.
func Estimate(state *types.WhiteningState, discharges types.DischargeTrain, fs float64, cfg types.RecalcConfig) (*Result, error) {
	filter, err := FilterFromDischarges(state, discharges)
	if err != nil {
		return nil, err
	}

	pulse := Project(state, filter)
	ZeroEdges(pulse, types.Samples(cfg.EdgeTrim, fs))
	SignedSquare(pulse)

	candidates := peaks.Detect(pulse, types.Samples(cfg.MinPeakDistance, fs))

	scale := TopKMean(pulse, cfg.TopK)
	if scale > 0 {
		floats.Scale(1/scale, pulse)
	}

	return &Result{
		Filter:     filter,
		Pulse:      pulse,
		Candidates: candidates,
		Scale:      scale,
	}, nil
}

// FilterFromDischarges sums the whitened extended columns at the discharge
// indices.
func FilterFromDischarges(state *types.WhiteningState, discharges types.DischargeTrain) (types.SeparationFilter, error) {
	if len(discharges) == 0 {
		return nil, types.ErrInsufficientData
	}
	m, cols := state.Whitened.Dims()
	filter := make(types.SeparationFilter, m)
	col := make([]float64, m)
	for _, idx := range discharges {
		if idx < 0 || idx >= cols {
			return nil, fmt.Errorf("projection: discharge %d outside [0, %d): %w", idx, cols, ErrIndexOutOfRange)
		}
		mat.Col(col, idx, state.Whitened)
		floats.Add(filter, col)
	}
	return filter, nil
}

// Project maps filter back to extended space with the dewhitening matrix and
// returns (dewhitenedᵀ · R⁺) · X truncated (or zero-padded) to the raw sample
// count.
func Project(state *types.WhiteningState, filter types.SeparationFilter) types.PulseTrain {
	w := mat.NewVecDense(len(filter), []float64(filter))

	var dewhite mat.VecDense
	dewhite.MulVec(state.Dewhitening, w)

	var weights mat.VecDense
	weights.MulVec(state.InverseCorrelation.T(), &dewhite)

	var full mat.VecDense
	full.MulVec(state.Extended.Data.T(), &weights)

	n := state.Extended.Samples
	out := make(types.PulseTrain, n)
	for i := 0; i < n && i < full.Len(); i++ {
		out[i] = full.AtVec(i)
	}
	return out
}

// ZeroEdges clears the first and last edge samples in place.
func ZeroEdges(x []float64, edge int) {
	if edge <= 0 {
		return
	}
	if edge > len(x) {
		edge = len(x)
	}
	for i := 0; i < edge; i++ {
		x[i] = 0
		x[len(x)-1-i] = 0
	}
}

// SignedSquare replaces every value v by v·|v|.
func SignedSquare(x []float64) {
	for i, v := range x {
		if v < 0 {
			x[i] = -v * v
		} else {
			x[i] = v * v
		}
	}
}

// TopKMean returns the mean of the k largest values of x.
func TopKMean(x []float64, k int) float64 {
	if len(x) == 0 || k <= 0 {
		return 0
	}
	if k > len(x) {
		k = len(x)
	}
	sorted := append([]float64(nil), x...)
	sort.Sort(sort.Reverse(sort.Float64Slice(sorted)))
	return floats.Sum(sorted[:k]) / float64(k)
}
