package signalprep

import (
	"math"

	"github.com/joeydtaylor/muedit/pkg/internal/types"
	"gonum.org/v1/gonum/mat"
)

// ExtensionFactor derives the delay-embedding factor that brings the
// extended row count close to target. It never returns less than 1.
func ExtensionFactor(target, channels int) int {
	if channels <= 0 {
		return 1
	}
	f := int(math.RoundToEven(float64(target) / float64(channels)))
	if f < 1 {
		return 1
	}
	return f
}

// Extend builds the delay-embedded observation matrix. Row block i holds every
// channel shifted right by i samples, so column t carries x[t], x[t-1], ...,
// x[t-factor+1]. The result has factor-1 extra trailing columns. With
// differential set, the first difference of each channel is embedded instead,
// which shortens the record by one sample.
func Extend(sig *types.MultichannelSignal, factor int, differential bool) (*types.ExtendedSignal, error) {
	if factor < 1 {
		return nil, ErrInvalidFactor
	}
	chans, n := sig.Channels(), sig.Samples()
	if chans == 0 || n == 0 {
		return nil, types.ErrEmptySignal
	}

	src := sig.Data
	if differential {
		if n < 2 {
			return nil, types.ErrEmptySignal
		}
		d := mat.NewDense(chans, n-1, nil)
		for ch := 0; ch < chans; ch++ {
			for t := 0; t < n-1; t++ {
				d.Set(ch, t, src.At(ch, t+1)-src.At(ch, t))
			}
		}
		src = d
		n--
	}

	out := mat.NewDense(chans*factor, n+factor-1, nil)
	row := make([]float64, n)
	for ch := 0; ch < chans; ch++ {
		mat.Row(row, ch, src)
		for i := 0; i < factor; i++ {
			dst := out.RawRowView(i*chans + ch)
			copy(dst[i:i+n], row)
		}
	}

	return &types.ExtendedSignal{
		Data:     out,
		Factor:   factor,
		Channels: chans,
		Samples:  sig.Samples(),
	}, nil
}
