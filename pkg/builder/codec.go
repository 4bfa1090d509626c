package builder

import (
	"github.com/joeydtaylor/muedit/pkg/internal/codec"
)

type Compression = codec.Compression

const (
	CompressNone   = codec.CompressNone
	CompressGzip   = codec.CompressGzip
	CompressZstd   = codec.CompressZstd
	CompressSnappy = codec.CompressSnappy
	CompressBrotli = codec.CompressBrotli
	CompressLZ4    = codec.CompressLZ4
)

// ParseCompression maps "gzip", "zstd", "snappy", "brotli", "lz4" or "none"
// to a Compression. The empty string selects gzip.
func ParseCompression(s string) (Compression, error) {
	return codec.ParseCompression(s)
}

// NewSnapshotCodec creates a codec writing documents with compression c.
func NewSnapshotCodec(c Compression) *codec.SnapshotCodec {
	return codec.NewSnapshotCodec(c)
}

// NewFileStore creates a snapshot store writing <name>_edited.json files into
// dir. A non-empty compression replaces the default gzip.
func NewFileStore(dir string, compression ...Compression) *codec.FileStore {
	fs := codec.NewFileStore(dir)
	if len(compression) > 0 && compression[0] != "" {
		fs.Codec = codec.NewSnapshotCodec(compression[0])
	}
	return fs
}

// NewJSONEncoder creates a new JSONEncoder.
func NewJSONEncoder[T any]() codec.Encoder[T] {
	return codec.NewJSONEncoder[T]()
}

// NewJSONDecoder creates a new JSONDecoder.
func NewJSONDecoder[T any]() codec.Decoder[T] {
	return codec.NewJSONDecoder[T]()
}

type DischargeRow = codec.DischargeRow

// DischargeRows flattens a snapshot into one row per discharge.
func DischargeRows(snap *Snapshot) []DischargeRow {
	return codec.DischargeRows(snap)
}

// MarshalDischargesParquet encodes rows as a parquet file compressed with
// "snappy", "zstd" or "gzip".
func MarshalDischargesParquet(rows []DischargeRow, compression string) ([]byte, error) {
	return codec.MarshalDischargesParquet(rows, compression)
}
