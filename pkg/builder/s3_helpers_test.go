package builder

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
)

func TestS3ClientConfigFromEnv(t *testing.T) {
	t.Setenv(EnvS3Endpoint, "http://localhost:4566")
	t.Setenv(EnvS3Bucket, "edits")
	t.Setenv(EnvS3AccessKey, "test")
	t.Setenv(EnvS3SecretKey, "test")
	t.Setenv(EnvS3SessionDuration, "30m")

	cfg := S3ClientConfigFromEnv()
	if cfg.Region != "us-east-1" || cfg.Bucket != "edits" || cfg.Prefix != "snapshots/" {
		t.Fatalf("unexpected config %+v", cfg)
	}
	if !cfg.PathStyle {
		t.Fatalf("expected path-style addressing with an endpoint override")
	}
	if cfg.SessionDuration != 30*time.Minute {
		t.Fatalf("expected 30m session, got %v", cfg.SessionDuration)
	}
	if cfg.AuthMode() != S3AuthStatic {
		t.Fatalf("expected static auth, got %s", cfg.AuthMode())
	}
}

func TestS3AuthMode(t *testing.T) {
	cases := []struct {
		cfg  S3ClientConfig
		want S3AuthMode
	}{
		{S3ClientConfig{}, S3AuthDefault},
		{S3ClientConfig{AccessKey: "k", SecretKey: "s"}, S3AuthStatic},
		{S3ClientConfig{RoleARN: "arn:aws:iam::000000000000:role/muedit", AccessKey: "k", SecretKey: "s"}, S3AuthAssumeRole},
		{S3ClientConfig{RoleARN: "arn:aws:iam::000000000000:role/muedit", WebIdentityToken: "/var/run/token"}, S3AuthWebIdentity},
	}
	for _, tc := range cases {
		if got := tc.cfg.AuthMode(); got != tc.want {
			t.Fatalf("AuthMode(%+v) = %s, expected %s", tc.cfg, got, tc.want)
		}
	}
}

func TestNewS3ClientValidates(t *testing.T) {
	if _, err := NewS3Client(context.Background(), S3ClientConfig{}); err == nil {
		t.Fatalf("expected an error without region")
	}
	if _, err := NewS3Client(context.Background(), S3ClientConfig{Region: "us-east-1", AccessKey: "k"}); err == nil {
		t.Fatalf("expected an error with a key but no secret")
	}
	cli, err := NewS3Client(context.Background(), S3ClientConfig{
		Region: "us-east-1", AccessKey: "test", SecretKey: "test",
		Endpoint: "http://localhost:4566", PathStyle: true,
	})
	if err != nil || cli == nil {
		t.Fatalf("static client: %v", err)
	}
}

type bucketCreator struct {
	err   error
	calls []string
}

func (b *bucketCreator) CreateBucket(_ context.Context, in *s3.CreateBucketInput, _ ...func(*s3.Options)) (*s3.CreateBucketOutput, error) {
	b.calls = append(b.calls, aws.ToString(in.Bucket))
	if b.err != nil {
		return nil, b.err
	}
	return &s3.CreateBucketOutput{}, nil
}

func TestS3EnsureBucket(t *testing.T) {
	ok := &bucketCreator{}
	if err := S3EnsureBucket(context.Background(), ok, "edits"); err != nil {
		t.Fatalf("create: %v", err)
	}
	if len(ok.calls) != 1 || ok.calls[0] != "edits" {
		t.Fatalf("unexpected calls %v", ok.calls)
	}

	owned := &bucketCreator{err: &s3types.BucketAlreadyOwnedByYou{}}
	if err := S3EnsureBucket(context.Background(), owned, "edits"); err != nil {
		t.Fatalf("owned bucket should not fail: %v", err)
	}

	denied := &bucketCreator{err: errors.New("AccessDenied")}
	if err := S3EnsureBucket(context.Background(), denied, "edits"); err == nil {
		t.Fatalf("expected access error")
	}
	if err := S3EnsureBucket(context.Background(), ok, ""); err == nil {
		t.Fatalf("expected an error without bucket")
	}
}
