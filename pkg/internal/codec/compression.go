package codec

import (
	"bytes"
	"compress/gzip"
	"fmt"
	"io"
	"strings"

	"github.com/andybalholm/brotli"
	"github.com/golang/snappy"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4"
)

// Compression names the algorithm wrapped around an encoded snapshot.
type Compression string

const (
	CompressNone   Compression = "none"
	CompressGzip   Compression = "gzip"
	CompressZstd   Compression = "zstd"
	CompressSnappy Compression = "snappy"
	CompressBrotli Compression = "brotli"
	CompressLZ4    Compression = "lz4"
)

// DefaultGzipLevel matches the level the desktop editor writes with.
const DefaultGzipLevel = 4

var (
	magicGzip   = []byte{0x1f, 0x8b}
	magicZstd   = []byte{0x28, 0xb5, 0x2f, 0xfd}
	magicLZ4    = []byte{0x04, 0x22, 0x4d, 0x18}
	magicSnappy = []byte("\xff\x06\x00\x00sNaPpY")
)

// ParseCompression maps a configuration string to a Compression. The empty
// string selects gzip.
func ParseCompression(s string) (Compression, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "gzip", "gz", "deflate":
		return CompressGzip, nil
	case "none", "off", "raw":
		return CompressNone, nil
	case "zstd", "zst":
		return CompressZstd, nil
	case "snappy":
		return CompressSnappy, nil
	case "brotli", "br":
		return CompressBrotli, nil
	case "lz4":
		return CompressLZ4, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownCompression, s)
	}
}

// DetectCompression guesses the algorithm from the leading bytes. Brotli has
// no magic number, so anything that is neither a known frame nor JSON text is
// treated as brotli.
func DetectCompression(data []byte) Compression {
	switch {
	case bytes.HasPrefix(data, magicGzip):
		return CompressGzip
	case bytes.HasPrefix(data, magicZstd):
		return CompressZstd
	case bytes.HasPrefix(data, magicLZ4):
		return CompressLZ4
	case bytes.HasPrefix(data, magicSnappy):
		return CompressSnappy
	}
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	if len(trimmed) == 0 || trimmed[0] == '{' {
		return CompressNone
	}
	return CompressBrotli
}

func compressData(data []byte, algorithm Compression, gzipLevel int) ([]byte, error) {
	var b bytes.Buffer
	var w io.WriteCloser

	switch algorithm {
	case CompressGzip, "":
		if gzipLevel == 0 {
			gzipLevel = DefaultGzipLevel
		}
		gw, err := gzip.NewWriterLevel(&b, gzipLevel)
		if err != nil {
			return nil, err
		}
		w = gw
	case CompressSnappy:
		w = snappy.NewBufferedWriter(&b)
	case CompressZstd:
		var err error
		w, err = zstd.NewWriter(&b)
		if err != nil {
			return nil, err
		}
	case CompressBrotli:
		w = brotli.NewWriterLevel(&b, brotli.DefaultCompression)
	case CompressLZ4:
		w = lz4.NewWriter(&b)
	case CompressNone:
		return data, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownCompression, string(algorithm))
	}

	if _, err := w.Write(data); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return b.Bytes(), nil
}

func decompressData(data []byte, algorithm Compression) ([]byte, error) {
	var b bytes.Buffer
	var r io.Reader

	switch algorithm {
	case CompressGzip:
		gr, err := gzip.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, err
		}
		defer gr.Close()
		r = gr
	case CompressSnappy:
		r = snappy.NewReader(bytes.NewReader(data))
	case CompressZstd:
		zr, err := zstd.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, err
		}
		defer zr.Close()
		r = zr
	case CompressBrotli:
		r = brotli.NewReader(bytes.NewReader(data))
	case CompressLZ4:
		r = lz4.NewReader(bytes.NewReader(data))
	default:
		return data, nil
	}

	if _, err := io.Copy(&b, r); err != nil {
		return nil, err
	}
	return b.Bytes(), nil
}
