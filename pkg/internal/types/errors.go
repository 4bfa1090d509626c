package types

import "errors"

var (
	// ErrEmptySignal indicates a signal with no channels or no samples.
	ErrEmptySignal = errors.New("muedit: signal must have at least one channel and one sample")
	// ErrRaggedSignal indicates channels of differing lengths.
	ErrRaggedSignal = errors.New("muedit: all channels must have the same length")
	// ErrInvalidSampleRate indicates a non-positive sample rate.
	ErrInvalidSampleRate = errors.New("muedit: sample rate must be positive")
	// ErrInsufficientData indicates a recalculation or score request without discharges.
	ErrInsufficientData = errors.New("muedit: insufficient data")
	// ErrUnknownUnit indicates a motor unit id that is not part of the session.
	ErrUnknownUnit = errors.New("muedit: unknown motor unit")
	// ErrLengthMismatch indicates a pulse train whose length differs from the raw signal.
	ErrLengthMismatch = errors.New("muedit: pulse train length differs from signal length")
)
