// Package s3client stores session snapshots as objects in an S3 bucket.
//
// Snapshots are written with the same document layout as the file store, so
// an object downloaded from the bucket can be opened from disk and the other
// way round. Objects may additionally be encrypted client side with AES-GCM
// and a parquet table of the discharges can be written next to each
// snapshot.
package s3client

import (
	"context"
	"sync"

	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/joeydtaylor/muedit/pkg/internal/codec"
	"github.com/joeydtaylor/muedit/pkg/internal/types"
	"github.com/joeydtaylor/muedit/pkg/internal/utils"
)

// ObjectAPI is the part of the S3 API the store needs. *s3.Client satisfies
// it.
type ObjectAPI interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	ListObjectsV2(ctx context.Context, in *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
}

var _ ObjectAPI = (*s3.Client)(nil)

// SnapshotStore implements types.SnapshotStore on top of an S3 bucket.
type SnapshotStore struct {
	componentMetadata types.ComponentMetadata

	cli    ObjectAPI
	bucket string
	prefix string
	codec  *codec.SnapshotCodec

	sseMode string // "" | "AES256" | "aws:kms"
	kmsKey  string

	cseKey     []byte
	requireCSE bool

	exportDischarges   bool
	parquetCompression string

	maxAttempts int

	configErr error

	loggers   []types.Logger
	loggersMu sync.Mutex
}

var _ types.SnapshotStore = (*SnapshotStore)(nil)

// NewSnapshotStore returns a store writing gzip documents under the
// "snapshots/" prefix. A client and bucket must be supplied with WithClient.
func NewSnapshotStore(options ...types.Option[*SnapshotStore]) *SnapshotStore {
	s := &SnapshotStore{
		componentMetadata: types.ComponentMetadata{
			ID:   utils.GenerateUniqueHash(),
			Type: "S3_SNAPSHOT_STORE",
		},
		prefix:             "snapshots/",
		codec:              codec.NewSnapshotCodec(codec.CompressGzip),
		parquetCompression: "snappy",
		maxAttempts:        defaultMaxAttempts,
	}
	for _, opt := range options {
		opt(s)
	}
	return s
}
