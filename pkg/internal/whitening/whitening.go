// Package whitening computes the per-session whitening state of a
// delay-embedded EMG recording: the correlation matrix pseudo-inverse, the
// PCA eigen-components and the whitening/dewhitening matrix pair.
//
// Near-singular and fully degenerate inputs never fail; the pseudo-inverse
// drops singular values below the cutoff and PCA drops components below the
// rank tolerance, so the worst case is an all-zero state.
package whitening

import (
	"math"

	"github.com/joeydtaylor/muedit/pkg/internal/signalprep"
	"github.com/joeydtaylor/muedit/pkg/internal/types"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// PinvRcond is the relative singular-value cutoff of the pseudo-inverse.
const PinvRcond = 1e-15

// Prepare runs the whole chain from the raw recording: band-pass, extension
// and whitening.
func Prepare(raw *types.MultichannelSignal, cfg types.RecalcConfig) (*types.WhiteningState, error) {
	filtered, err := signalprep.BandPass(raw, cfg.BandPass)
	if err != nil {
		return nil, err
	}
	factor := cfg.ExtensionFactor
	if factor <= 0 {
		factor = signalprep.ExtensionFactor(cfg.ExtensionTarget, filtered.Channels())
	}
	ext, err := signalprep.Extend(filtered, factor, cfg.DifferentialMode)
	if err != nil {
		return nil, err
	}
	state := Compute(ext)
	state.Filtered = filtered
	return state, nil
}

// Compute derives the whitening state of an extended signal.
func Compute(ext *types.ExtendedSignal) *types.WhiteningState {
	x := ext.Data
	m, _ := x.Dims()

	corr := Correlation(x)
	inv := PseudoInverse(corr)
	vecs, vals := PCA(x)

	white, dewhite := WhiteningPair(vecs, vals, m)

	var whitened mat.Dense
	whitened.Mul(white, x)

	return &types.WhiteningState{
		Extended:           ext,
		Whitened:           &whitened,
		Whitening:          white,
		Dewhitening:        dewhite,
		InverseCorrelation: inv,
		Eigenvectors:       vecs,
		Eigenvalues:        vals,
	}
}

// Correlation returns X·Xᵀ/N for an m×N observation matrix.
func Correlation(x mat.Matrix) *mat.SymDense {
	m, n := x.Dims()
	r := mat.NewSymDense(m, nil)
	r.SymOuterK(1/float64(n), x)
	return r
}

// PseudoInverse returns the Moore-Penrose inverse of a, discarding singular
// values at or below PinvRcond times the largest one.
func PseudoInverse(a mat.Matrix) *mat.Dense {
	r, c := a.Dims()
	out := mat.NewDense(c, r, nil)

	var svd mat.SVD
	if !svd.Factorize(a, mat.SVDThin) {
		return out
	}
	s := svd.Values(nil)
	if len(s) == 0 || s[0] <= 0 {
		return out
	}
	cut := PinvRcond * s[0]

	var u, v mat.Dense
	svd.UTo(&u)
	svd.VTo(&v)

	vs := mat.DenseCopyOf(&v)
	vr, _ := vs.Dims()
	for j, sv := range s {
		scale := 0.0
		if sv > cut {
			scale = 1 / sv
		}
		for i := 0; i < vr; i++ {
			vs.Set(i, j, vs.At(i, j)*scale)
		}
	}
	out.Mul(vs, u.T())
	return out
}

// Covariance returns the population (biased) covariance of the rows of x.
func Covariance(x mat.Matrix) *mat.SymDense {
	m, n := x.Dims()
	centered := mat.NewDense(m, n, nil)
	row := make([]float64, n)
	for i := 0; i < m; i++ {
		mat.Row(row, i, x)
		mean := floats.Sum(row) / float64(n)
		floats.AddConst(-mean, row)
		centered.SetRow(i, row)
	}
	cov := mat.NewSymDense(m, nil)
	cov.SymOuterK(1/float64(n), centered)
	return cov
}

// PCA eigendecomposes the covariance of x and keeps the components whose
// eigenvalue exceeds the rank tolerance, the mean of the lower half of the
// spectrum (never below zero). Eigenvalues are returned in ascending order
// with their eigenvectors as columns; vecs is nil when nothing is retained.
func PCA(x mat.Matrix) (vecs *mat.Dense, vals []float64) {
	cov := Covariance(x)
	m := cov.SymmetricDim()

	var es mat.EigenSym
	if !es.Factorize(cov, true) {
		return nil, nil
	}
	all := es.Values(nil)
	var ev mat.Dense
	es.VectorsTo(&ev)

	tol := 0.0
	if half := m / 2; half > 0 {
		tol = floats.Sum(all[:half]) / float64(half)
	}
	if tol < 0 {
		tol = 0
	}

	kept := 0
	for _, v := range all {
		if v > tol {
			kept++
		}
	}
	if kept == 0 {
		return nil, nil
	}
	lower := m - kept

	vecs = mat.DenseCopyOf(ev.Slice(0, m, lower, m))
	vals = append([]float64(nil), all[lower:]...)
	return vecs, vals
}

// WhiteningPair builds W = E·D^-1/2·Eᵀ and its inverse E·D^1/2·Eᵀ over the
// retained subspace. An empty subspace yields m×m zero matrices.
func WhiteningPair(vecs *mat.Dense, vals []float64, m int) (white, dewhite *mat.Dense) {
	white = mat.NewDense(m, m, nil)
	dewhite = mat.NewDense(m, m, nil)
	if vecs == nil || len(vals) == 0 {
		return white, dewhite
	}

	inv := mat.DenseCopyOf(vecs)
	fwd := mat.DenseCopyOf(vecs)
	for j, v := range vals {
		s := math.Sqrt(v)
		for i := 0; i < m; i++ {
			inv.Set(i, j, inv.At(i, j)/s)
			fwd.Set(i, j, fwd.At(i, j)*s)
		}
	}
	white.Mul(inv, vecs.T())
	dewhite.Mul(fwd, vecs.T())
	return white, dewhite
}
