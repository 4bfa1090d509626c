package codec

import "errors"

var (
	// ErrUnknownCompression indicates an unsupported compression name.
	ErrUnknownCompression = errors.New("codec: unknown compression")
	// ErrMissingField indicates a snapshot document without a required field.
	ErrMissingField = errors.New("codec: missing snapshot field")
	// ErrInvalidSnapshot indicates a document whose fields contradict each other.
	ErrInvalidSnapshot = errors.New("codec: invalid snapshot")
)
