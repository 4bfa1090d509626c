// Package codec reads and writes the persisted session snapshot: a JSON
// document with fixed upper-case fields whose matrices are split-oriented
// frames, compressed as a whole. It also exports discharges as parquet rows.
package codec

import (
	"io"
)

// Decoder decodes one value from a reader.
type Decoder[T any] interface {
	Decode(io.Reader) (T, error)
}

// Encoder encodes one value to a writer.
type Encoder[T any] interface {
	Encode(io.Writer, T) error
}
