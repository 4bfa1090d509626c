package s3client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/joeydtaylor/muedit/pkg/internal/codec"
	"github.com/joeydtaylor/muedit/pkg/internal/types"
	"github.com/joeydtaylor/muedit/pkg/internal/utils"
)

const dischargesSuffix = "_discharges.parquet"

// Location formats a bucket and key as an s3:// URL.
func Location(bucket, key string) string {
	return "s3://" + bucket + "/" + key
}

// ParseLocation splits an s3:// URL into bucket and key.
func ParseLocation(location string) (bucket, key string, err error) {
	rest, ok := strings.CutPrefix(location, "s3://")
	if !ok {
		return "", "", fmt.Errorf("%w: %q is not an s3:// url", ErrInvalidLocation, location)
	}
	bucket, key, _ = strings.Cut(rest, "/")
	if bucket == "" || key == "" {
		return "", "", fmt.Errorf("%w: %q", ErrInvalidLocation, location)
	}
	return bucket, key, nil
}

// Bucket returns the configured bucket.
func (s *SnapshotStore) Bucket() string { return s.bucket }

// Prefix returns the key prefix snapshots are written under.
func (s *SnapshotStore) Prefix() string { return s.prefix }

// ObjectKey returns the key Save uses for a recording name.
func (s *SnapshotStore) ObjectKey(name string) string {
	return s.objectKey(codec.EditedName(name))
}

// Save uploads snap and returns its s3:// location. When discharge export
// is enabled a parquet table is written next to the document first; a failed
// export leaves no document behind.
func (s *SnapshotStore) Save(ctx context.Context, name string, snap *types.Snapshot) (string, error) {
	if err := s.ready(); err != nil {
		return "", err
	}
	data, err := s.codec.Marshal(snap)
	if err != nil {
		return "", err
	}
	if s.exportDischarges {
		if _, err := s.ExportDischarges(ctx, name, snap); err != nil {
			return "", fmt.Errorf("s3client: discharge export: %w", err)
		}
	}
	key := s.ObjectKey(name)
	if err := s.put(ctx, key, data, "application/json", contentEncoding(s.codec.Compression)); err != nil {
		s.NotifyLoggers(types.ErrorLevel, "Snapshot upload failed",
			"component", s.componentMetadata,
			"event", "Save",
			"result", "FAILURE",
			"bucket", s.bucket,
			"key", key,
			"error", err,
		)
		return "", err
	}
	s.NotifyLoggers(types.InfoLevel, "Snapshot uploaded",
		"component", s.componentMetadata,
		"event", "Save",
		"result", "SUCCESS",
		"bucket", s.bucket,
		"key", key,
		"bytes", len(data),
		"compression", s.codec.Compression,
	)
	return Location(s.bucket, key), nil
}

// Load downloads a snapshot. location is either an s3:// URL in the store's
// bucket or a bare object key.
func (s *SnapshotStore) Load(ctx context.Context, location string) (*types.Snapshot, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	key := location
	if strings.HasPrefix(location, "s3://") {
		bucket, k, err := ParseLocation(location)
		if err != nil {
			return nil, err
		}
		if bucket != s.bucket {
			return nil, fmt.Errorf("%w: bucket %q, store uses %q", ErrInvalidLocation, bucket, s.bucket)
		}
		key = k
	}
	if key == "" {
		return nil, fmt.Errorf("%w: empty key", ErrInvalidLocation)
	}

	var body []byte
	var meta map[string]string
	err := s.withRetry(ctx, "GetObject", key, func() error {
		out, err := s.cli.GetObject(ctx, &s3.GetObjectInput{
			Bucket: aws.String(s.bucket),
			Key:    aws.String(key),
		})
		if err != nil {
			return err
		}
		defer out.Body.Close()
		b, err := io.ReadAll(out.Body)
		if err != nil {
			return err
		}
		body, meta = b, out.Metadata
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("s3client: get %s: %w", key, err)
	}

	plain, err := s.open(meta, body)
	if err != nil {
		return nil, err
	}
	snap, err := s.codec.Unmarshal(plain)
	if err != nil {
		return nil, err
	}
	s.NotifyLoggers(types.DebugLevel, "Snapshot downloaded",
		"component", s.componentMetadata,
		"event", "Load",
		"result", "SUCCESS",
		"bucket", s.bucket,
		"key", key,
		"units", snap.Units,
	)
	return snap, nil
}

// List returns the keys of every snapshot under the prefix, in the order S3
// lists them.
func (s *SnapshotStore) List(ctx context.Context) ([]string, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	p := s3.NewListObjectsV2Paginator(s.cli, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(s.prefix),
	})
	var keys []string
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("s3client: list %s: %w", s.prefix, err)
		}
		for _, obj := range page.Contents {
			keys = append(keys, aws.ToString(obj.Key))
		}
	}
	return utils.Filter(keys, func(k string) bool {
		return strings.HasSuffix(k, codec.EditedSuffix)
	}), nil
}

// ExportDischarges writes the flat discharge table of snap as parquet and
// returns its s3:// location.
func (s *SnapshotStore) ExportDischarges(ctx context.Context, name string, snap *types.Snapshot) (string, error) {
	if err := s.ready(); err != nil {
		return "", err
	}
	data, err := codec.MarshalDischargesParquet(codec.DischargeRows(snap), s.parquetCompression)
	if err != nil {
		return "", err
	}
	key := s.objectKey(strings.TrimSuffix(codec.EditedName(name), ".json") + dischargesSuffix)
	if err := s.put(ctx, key, data, "application/parquet", ""); err != nil {
		s.NotifyLoggers(types.ErrorLevel, "Discharge export failed",
			"component", s.componentMetadata,
			"event", "ExportDischarges",
			"result", "FAILURE",
			"key", key,
			"error", err,
		)
		return "", err
	}
	s.NotifyLoggers(types.InfoLevel, "Discharges exported",
		"component", s.componentMetadata,
		"event", "ExportDischarges",
		"result", "SUCCESS",
		"key", key,
		"bytes", len(data),
	)
	return Location(s.bucket, key), nil
}

func (s *SnapshotStore) put(ctx context.Context, key string, data []byte, contentType, encoding string) error {
	payload, meta, err := s.seal(data, encoding)
	if err != nil {
		return err
	}
	if meta != nil {
		contentType, encoding = "application/octet-stream", ""
	}
	return s.withRetry(ctx, "PutObject", key, func() error {
		in := &s3.PutObjectInput{
			Bucket:        aws.String(s.bucket),
			Key:           aws.String(key),
			Body:          bytes.NewReader(payload),
			ContentLength: aws.Int64(int64(len(payload))),
			ContentType:   aws.String(contentType),
			Metadata:      meta,
		}
		if encoding != "" {
			in.ContentEncoding = aws.String(encoding)
		}
		switch s.sseMode {
		case "":
		case string(s3types.ServerSideEncryptionAwsKms):
			in.ServerSideEncryption = s3types.ServerSideEncryptionAwsKms
			if s.kmsKey != "" {
				in.SSEKMSKeyId = aws.String(s.kmsKey)
			}
		default:
			in.ServerSideEncryption = s3types.ServerSideEncryption(s.sseMode)
		}
		_, err := s.cli.PutObject(ctx, in)
		return err
	})
}

func (s *SnapshotStore) ready() error {
	if s.configErr != nil {
		return s.configErr
	}
	if s.cli == nil || s.bucket == "" {
		return ErrNotConfigured
	}
	return nil
}

func (s *SnapshotStore) objectKey(base string) string {
	if s.prefix == "" {
		return base
	}
	return strings.TrimSuffix(s.prefix, "/") + "/" + base
}

func contentEncoding(c codec.Compression) string {
	switch c {
	case codec.CompressGzip:
		return "gzip"
	case codec.CompressZstd:
		return "zstd"
	case codec.CompressBrotli:
		return "br"
	case codec.CompressSnappy:
		return "x-snappy-framed"
	case codec.CompressLZ4:
		return "x-lz4"
	default:
		return ""
	}
}
