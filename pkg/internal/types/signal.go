package types

import (
	"gonum.org/v1/gonum/mat"
)

// MultichannelSignal is a channels×samples recording plus its sample rate.
// It is treated as immutable once constructed; callers that need to modify
// samples must work on a copy obtained from Clone or RawRow.
type MultichannelSignal struct {
	Data       *mat.Dense
	SampleRate float64
}

// NewMultichannelSignal copies rows into a new signal. All rows must share the
// same length.
func NewMultichannelSignal(rows [][]float64, sampleRate float64) (*MultichannelSignal, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, ErrEmptySignal
	}
	if sampleRate <= 0 {
		return nil, ErrInvalidSampleRate
	}
	n := len(rows[0])
	data := mat.NewDense(len(rows), n, nil)
	for i, r := range rows {
		if len(r) != n {
			return nil, ErrRaggedSignal
		}
		data.SetRow(i, r)
	}
	return &MultichannelSignal{Data: data, SampleRate: sampleRate}, nil
}

// Channels returns the number of rows.
func (s *MultichannelSignal) Channels() int {
	if s == nil || s.Data == nil {
		return 0
	}
	r, _ := s.Data.Dims()
	return r
}

// Samples returns the number of columns.
func (s *MultichannelSignal) Samples() int {
	if s == nil || s.Data == nil {
		return 0
	}
	_, c := s.Data.Dims()
	return c
}

// RawRow returns a copy of channel i.
func (s *MultichannelSignal) RawRow(i int) []float64 {
	return mat.Row(nil, i, s.Data)
}

// Rows returns a copy of every channel.
func (s *MultichannelSignal) Rows() [][]float64 {
	out := make([][]float64, s.Channels())
	for i := range out {
		out[i] = s.RawRow(i)
	}
	return out
}

// Clone returns a deep copy.
func (s *MultichannelSignal) Clone() *MultichannelSignal {
	if s == nil {
		return nil
	}
	return &MultichannelSignal{Data: mat.DenseCopyOf(s.Data), SampleRate: s.SampleRate}
}

// ExtendedSignal is the delay-embedded observation matrix built from a
// MultichannelSignal. Rows are grouped in Factor blocks of Channels rows; block
// i holds every channel delayed by i samples.
type ExtendedSignal struct {
	Data     *mat.Dense
	Factor   int
	Channels int
	Samples  int // sample count of the source signal
}

// Columns returns the number of observations in the extended matrix.
func (e *ExtendedSignal) Columns() int {
	_, c := e.Data.Dims()
	return c
}

// WhiteningState holds everything derived once per raw signal and shared by
// every motor unit of a session. It must not be mutated after construction.
type WhiteningState struct {
	Filtered           *MultichannelSignal
	Extended           *ExtendedSignal
	Whitened           *mat.Dense
	Whitening          *mat.Dense
	Dewhitening        *mat.Dense
	InverseCorrelation *mat.Dense
	Eigenvectors       *mat.Dense
	Eigenvalues        []float64
}

// Rank returns the number of retained principal components.
func (w *WhiteningState) Rank() int {
	return len(w.Eigenvalues)
}

// SeparationFilter is the extended-space filter estimated from a unit's
// discharges. It is recomputed on every recalculation and never persisted.
type SeparationFilter []float64

// PulseTrain is the continuous source estimate of one motor unit.
type PulseTrain []float64

// Clone returns a copy of the pulse train.
func (p PulseTrain) Clone() PulseTrain {
	if p == nil {
		return nil
	}
	out := make(PulseTrain, len(p))
	copy(out, p)
	return out
}
