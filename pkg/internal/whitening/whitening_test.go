package whitening_test

import (
	"math/rand"
	"testing"

	"github.com/joeydtaylor/muedit/pkg/internal/signalprep"
	"github.com/joeydtaylor/muedit/pkg/internal/types"
	"github.com/joeydtaylor/muedit/pkg/internal/whitening"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func randomSignal(t *testing.T, chans, n int, seed int64) *types.MultichannelSignal {
	t.Helper()
	rng := rand.New(rand.NewSource(seed))
	rows := make([][]float64, chans)
	for c := range rows {
		rows[c] = make([]float64, n)
		for i := range rows[c] {
			rows[c][i] = rng.NormFloat64()
		}
	}
	sig, err := types.NewMultichannelSignal(rows, 2048)
	require.NoError(t, err)
	return sig
}

func TestCorrelation(t *testing.T) {
	x := mat.NewDense(2, 2, []float64{1, 2, 3, 4})
	r := whitening.Correlation(x)
	assert.InDelta(t, 2.5, r.At(0, 0), 1e-12)
	assert.InDelta(t, 5.5, r.At(0, 1), 1e-12)
	assert.InDelta(t, 12.5, r.At(1, 1), 1e-12)
}

func TestPseudoInverse_Invertible(t *testing.T) {
	a := mat.NewDense(2, 2, []float64{4, 7, 2, 6})
	p := whitening.PseudoInverse(a)

	var id mat.Dense
	id.Mul(a, p)
	assert.True(t, mat.EqualApprox(&id, mat.NewDiagDense(2, []float64{1, 1}), 1e-10))
}

func TestPseudoInverse_Singular(t *testing.T) {
	a := mat.NewDense(2, 2, []float64{1, 0, 0, 0})
	p := whitening.PseudoInverse(a)
	want := mat.NewDense(2, 2, []float64{1, 0, 0, 0})
	assert.True(t, mat.EqualApprox(want, p, 1e-12))
}

func TestPseudoInverse_Zero(t *testing.T) {
	p := whitening.PseudoInverse(mat.NewDense(3, 3, nil))
	assert.Equal(t, 0.0, mat.Sum(p))
}

func TestPCA_RankTolerance(t *testing.T) {
	ext, err := signalprep.Extend(randomSignal(t, 2, 4000, 7), 4, false)
	require.NoError(t, err)

	vecs, vals := whitening.PCA(ext.Data)
	require.NotNil(t, vecs)
	require.NotEmpty(t, vals)

	m, _ := ext.Data.Dims()
	r, c := vecs.Dims()
	assert.Equal(t, m, r)
	assert.Equal(t, len(vals), c)
	assert.Less(t, len(vals), m+1)
	for i := 1; i < len(vals); i++ {
		assert.LessOrEqual(t, vals[i-1], vals[i])
	}
}

func TestCompute_WhitenedCovarianceIsProjector(t *testing.T) {
	ext, err := signalprep.Extend(randomSignal(t, 3, 3000, 11), 3, false)
	require.NoError(t, err)

	state := whitening.Compute(ext)
	require.Greater(t, state.Rank(), 0)

	m, _ := ext.Data.Dims()
	var proj mat.Dense
	proj.Mul(state.Eigenvectors, state.Eigenvectors.T())

	cov := whitening.Covariance(state.Whitened)
	assert.True(t, mat.EqualApprox(cov, &proj, 1e-8))

	var round mat.Dense
	round.Mul(state.Dewhitening, state.Whitening)
	assert.True(t, mat.EqualApprox(&round, &proj, 1e-8))

	ir, ic := state.InverseCorrelation.Dims()
	assert.Equal(t, m, ir)
	assert.Equal(t, m, ic)
}

func TestCompute_DegenerateInput(t *testing.T) {
	sig, err := types.NewMultichannelSignal([][]float64{make([]float64, 50), make([]float64, 50)}, 1000)
	require.NoError(t, err)
	ext, err := signalprep.Extend(sig, 2, false)
	require.NoError(t, err)

	state := whitening.Compute(ext)
	assert.Equal(t, 0, state.Rank())
	assert.Equal(t, 0.0, mat.Sum(state.InverseCorrelation))
	assert.Equal(t, 0.0, mat.Sum(state.Whitened))
}

func TestPrepare_DerivesFactor(t *testing.T) {
	cfg := types.DefaultRecalcConfig()
	cfg.ExtensionTarget = 8
	cfg.BandPass.Disabled = true

	state, err := whitening.Prepare(randomSignal(t, 2, 500, 3), cfg)
	require.NoError(t, err)
	assert.Equal(t, 4, state.Extended.Factor)
	assert.Equal(t, 503, state.Extended.Columns())
	assert.NotNil(t, state.Filtered)
}
