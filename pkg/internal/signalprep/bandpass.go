// Package signalprep prepares raw multichannel EMG for source separation:
// Butterworth band-pass filtering and delay embedding ("extension").
package signalprep

import (
	"math"
	"math/cmplx"

	"github.com/joeydtaylor/muedit/pkg/internal/types"
	"github.com/mjibson/go-dsp/fft"
	"gonum.org/v1/gonum/mat"
)

// section is one IIR stage in direct form: (b0 + b1 z^-1 + b2 z^-2) / (1 + a1 z^-1 + a2 z^-2).
// First-order stages leave b2 and a2 at zero.
type section struct {
	b0, b1, b2 float64
	a1, a2     float64
}

func (s section) response(z1 complex128) complex128 {
	z2 := z1 * z1
	num := complex(s.b0, 0) + complex(s.b1, 0)*z1 + complex(s.b2, 0)*z2
	den := 1 + complex(s.a1, 0)*z1 + complex(s.a2, 0)*z2
	return num / den
}

// Butterworth is a cascade of bilinear-transformed Butterworth sections.
type Butterworth struct {
	sections []section
}

// NewButterworthBandPass designs a band-pass as a high-pass at lowHz followed by
// a low-pass at highHz, each of the given order. lowHz <= 0 drops the high-pass
// stage; highHz is clamped below Nyquist.
func NewButterworthBandPass(order int, sampleRate, lowHz, highHz float64) *Butterworth {
	if order < 1 {
		order = 1
	}
	if highHz >= sampleRate*0.499 {
		highHz = sampleRate * 0.499
	}
	var secs []section
	if lowHz > 0 {
		secs = append(secs, butterworthSections(order, sampleRate, lowHz, true)...)
	}
	if highHz > 0 {
		secs = append(secs, butterworthSections(order, sampleRate, highHz, false)...)
	}
	return &Butterworth{sections: secs}
}

func butterworthSections(order int, fs, cutoff float64, highPass bool) []section {
	w0 := 2 * math.Pi * cutoff / fs
	cosw := math.Cos(w0)
	sinw := math.Sin(w0)

	secs := make([]section, 0, order/2+1)
	for k := 0; k < order/2; k++ {
		theta := math.Pi * float64(2*k+1) / float64(2*order)
		q := 1 / (2 * math.Sin(theta))
		alpha := sinw / (2 * q)
		a0 := 1 + alpha

		var s section
		if highPass {
			s.b0 = (1 + cosw) / 2 / a0
			s.b1 = -(1 + cosw) / a0
			s.b2 = (1 + cosw) / 2 / a0
		} else {
			s.b0 = (1 - cosw) / 2 / a0
			s.b1 = (1 - cosw) / a0
			s.b2 = (1 - cosw) / 2 / a0
		}
		s.a1 = -2 * cosw / a0
		s.a2 = (1 - alpha) / a0
		secs = append(secs, s)
	}

	if order%2 == 1 {
		kk := math.Tan(w0 / 2)
		var s section
		if highPass {
			s.b0 = 1 / (1 + kk)
			s.b1 = -1 / (1 + kk)
		} else {
			s.b0 = kk / (1 + kk)
			s.b1 = kk / (1 + kk)
		}
		s.a1 = (kk - 1) / (kk + 1)
		secs = append(secs, s)
	}
	return secs
}

// Gain returns |H(e^jw)| at normalized angular frequency w (radians/sample).
func (b *Butterworth) Gain(w float64) float64 {
	z1 := cmplx.Exp(complex(0, -w))
	h := complex(1, 0)
	for _, s := range b.sections {
		h *= s.response(z1)
	}
	return cmplx.Abs(h)
}

// FilterZeroPhase applies the filter forward and backward, which amounts to
// weighting every spectral bin by |H|^2 with no phase shift. The spectrum is
// taken over the whole record, so the result is the circular equivalent of a
// forward-backward pass.
func (b *Butterworth) FilterZeroPhase(x []float64) []float64 {
	n := len(x)
	if n == 0 {
		return nil
	}
	spectrum := fft.FFTReal(x)
	for k := range spectrum {
		bin := k
		if bin > n/2 {
			bin = n - k
		}
		g := b.Gain(2 * math.Pi * float64(bin) / float64(n))
		spectrum[k] *= complex(g*g, 0)
	}
	back := fft.IFFT(spectrum)
	out := make([]float64, n)
	for i, v := range back {
		out[i] = real(v)
	}
	return out
}

// BandPass filters every channel of sig and returns a new signal. A disabled
// config returns sig itself.
func BandPass(sig *types.MultichannelSignal, cfg types.BandPassConfig) (*types.MultichannelSignal, error) {
	if sig.Channels() == 0 || sig.Samples() == 0 {
		return nil, types.ErrEmptySignal
	}
	if cfg.Disabled {
		return sig, nil
	}
	filter := NewButterworthBandPass(cfg.Order, sig.SampleRate, cfg.LowHz, cfg.HighHz)

	out := mat.NewDense(sig.Channels(), sig.Samples(), nil)
	for ch := 0; ch < sig.Channels(); ch++ {
		out.SetRow(ch, filter.FilterZeroPhase(sig.RawRow(ch)))
	}
	return &types.MultichannelSignal{Data: out, SampleRate: sig.SampleRate}, nil
}
