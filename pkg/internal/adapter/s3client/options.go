package s3client

import (
	"fmt"

	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/joeydtaylor/muedit/pkg/internal/codec"
	"github.com/joeydtaylor/muedit/pkg/internal/types"
	"github.com/joeydtaylor/muedit/pkg/internal/utils"
)

var sseModes = []string{
	"",
	string(s3types.ServerSideEncryptionAes256),
	string(s3types.ServerSideEncryptionAwsKms),
}

// WithClient sets the S3 client and bucket.
func WithClient(cli ObjectAPI, bucket string) types.Option[*SnapshotStore] {
	return func(s *SnapshotStore) {
		s.cli = cli
		s.bucket = bucket
	}
}

// WithPrefix sets the key prefix. An empty prefix writes at the bucket root.
func WithPrefix(prefix string) types.Option[*SnapshotStore] {
	return func(s *SnapshotStore) {
		s.prefix = prefix
	}
}

// WithCompression selects the document compression.
func WithCompression(c codec.Compression) types.Option[*SnapshotStore] {
	return func(s *SnapshotStore) {
		s.codec = codec.NewSnapshotCodec(c)
	}
}

// WithSSE configures server-side encryption ("AES256" or "aws:kms"). Any
// other mode makes every call fail.
func WithSSE(mode, kmsKey string) types.Option[*SnapshotStore] {
	return func(s *SnapshotStore) {
		if !utils.Contains(sseModes, mode) {
			s.configErr = fmt.Errorf("s3client: unsupported SSE mode %q", mode)
			return
		}
		s.sseMode = mode
		s.kmsKey = kmsKey
	}
}

// WithClientSideEncryption encrypts every object with AES-256-GCM. keyHex is
// the 32-byte key in hex. An invalid key makes every call fail.
func WithClientSideEncryption(keyHex string) types.Option[*SnapshotStore] {
	return func(s *SnapshotStore) {
		key, err := parseAESGCMKeyHex(keyHex)
		if err != nil {
			s.configErr = err
			return
		}
		s.cseKey = key
	}
}

// WithRequireClientSideEncryption refuses to write or read plaintext
// objects.
func WithRequireClientSideEncryption() types.Option[*SnapshotStore] {
	return func(s *SnapshotStore) {
		s.requireCSE = true
	}
}

// WithDischargeExport writes a parquet discharge table next to every saved
// snapshot. compression is "snappy", "zstd" or "gzip".
func WithDischargeExport(compression string) types.Option[*SnapshotStore] {
	return func(s *SnapshotStore) {
		s.exportDischarges = true
		if compression != "" {
			s.parquetCompression = compression
		}
	}
}

// WithMaxAttempts bounds the retries of a single request.
func WithMaxAttempts(n int) types.Option[*SnapshotStore] {
	return func(s *SnapshotStore) {
		s.maxAttempts = n
	}
}

// WithLogger attaches loggers to the store.
func WithLogger(loggers ...types.Logger) types.Option[*SnapshotStore] {
	return func(s *SnapshotStore) {
		s.ConnectLogger(loggers...)
	}
}

// WithComponentMetadata sets the store name and id.
func WithComponentMetadata(name, id string) types.Option[*SnapshotStore] {
	return func(s *SnapshotStore) {
		s.SetComponentMetadata(name, id)
	}
}
