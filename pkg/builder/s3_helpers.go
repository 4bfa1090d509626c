package builder

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// Environment variables read by S3ClientConfigFromEnv.
const (
	EnvS3Region           = "MUEDIT_S3_REGION"
	EnvS3Endpoint         = "MUEDIT_S3_ENDPOINT"
	EnvS3Bucket           = "MUEDIT_S3_BUCKET"
	EnvS3Prefix           = "MUEDIT_S3_PREFIX"
	EnvS3AccessKey        = "MUEDIT_S3_ACCESS_KEY"
	EnvS3SecretKey        = "MUEDIT_S3_SECRET_KEY"
	EnvS3SessionToken     = "MUEDIT_S3_SESSION_TOKEN"
	EnvS3RoleARN          = "MUEDIT_S3_ROLE_ARN"
	EnvS3ExternalID       = "MUEDIT_S3_EXTERNAL_ID"
	EnvS3WebIdentityToken = "MUEDIT_S3_WEB_IDENTITY_TOKEN_FILE"
	EnvS3SessionDuration  = "MUEDIT_S3_SESSION_DURATION"
	EnvS3PathStyle        = "MUEDIT_S3_PATH_STYLE"
)

// S3AuthMode names the credential source NewS3Client picks.
type S3AuthMode string

const (
	S3AuthDefault     S3AuthMode = "default"
	S3AuthStatic      S3AuthMode = "static"
	S3AuthAssumeRole  S3AuthMode = "assume-role"
	S3AuthWebIdentity S3AuthMode = "web-identity"
)

// S3ClientConfig describes where snapshots live and how to authenticate.
type S3ClientConfig struct {
	Region           string
	Endpoint         string // LocalStack or MinIO; empty for AWS
	Bucket           string
	Prefix           string
	AccessKey        string
	SecretKey        string
	SessionToken     string
	RoleARN          string
	ExternalID       string
	WebIdentityToken string // token file path
	SessionDuration  time.Duration
	PathStyle        bool
}

// S3ClientConfigFromEnv reads the MUEDIT_S3_* variables. Path-style
// addressing defaults on whenever an endpoint override is set.
func S3ClientConfigFromEnv() S3ClientConfig {
	endpoint := EnvOr(EnvS3Endpoint, "")
	return S3ClientConfig{
		Region:           EnvOr(EnvS3Region, "us-east-1"),
		Endpoint:         endpoint,
		Bucket:           EnvOr(EnvS3Bucket, "muedit-snapshots"),
		Prefix:           EnvOr(EnvS3Prefix, "snapshots/"),
		AccessKey:        EnvOr(EnvS3AccessKey, ""),
		SecretKey:        EnvOr(EnvS3SecretKey, ""),
		SessionToken:     EnvOr(EnvS3SessionToken, ""),
		RoleARN:          EnvOr(EnvS3RoleARN, ""),
		ExternalID:       EnvOr(EnvS3ExternalID, ""),
		WebIdentityToken: EnvOr(EnvS3WebIdentityToken, ""),
		SessionDuration:  EnvDurationOr(EnvS3SessionDuration, 15*time.Minute),
		PathStyle:        EnvBoolOr(EnvS3PathStyle, endpoint != ""),
	}
}

// AuthMode reports which credential source the config selects: a role with a
// token file uses web identity, a role alone assumes it (from static keys
// when given), bare keys are static, and nothing falls back to the default
// chain.
func (c S3ClientConfig) AuthMode() S3AuthMode {
	switch {
	case c.RoleARN != "" && c.WebIdentityToken != "":
		return S3AuthWebIdentity
	case c.RoleARN != "":
		return S3AuthAssumeRole
	case c.AccessKey != "":
		return S3AuthStatic
	default:
		return S3AuthDefault
	}
}

func (c S3ClientConfig) validate() error {
	if c.Region == "" {
		return fmt.Errorf("s3 region is required")
	}
	if (c.AccessKey == "") != (c.SecretKey == "") {
		return fmt.Errorf("s3 access key and secret key must be set together")
	}
	return nil
}

// NewS3Client builds a client for cfg.AuthMode().
func NewS3Client(ctx context.Context, cfg S3ClientConfig) (*s3.Client, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	switch cfg.AuthMode() {
	case S3AuthWebIdentity:
		return NewS3ClientWebIdentity(ctx, cfg.Region, cfg.RoleARN, "muedit",
			cfg.WebIdentityToken, cfg.SessionDuration, cfg.Endpoint, cfg.PathStyle)
	case S3AuthAssumeRole:
		var source aws.CredentialsProvider
		if cfg.AccessKey != "" {
			source = aws.NewCredentialsCache(credentials.NewStaticCredentialsProvider(
				cfg.AccessKey, cfg.SecretKey, cfg.SessionToken))
		}
		return NewS3ClientAssumeRole(ctx, cfg.Region, cfg.RoleARN, "muedit",
			cfg.SessionDuration, cfg.ExternalID, source, cfg.Endpoint, cfg.PathStyle)
	case S3AuthStatic:
		return NewS3ClientStatic(ctx, cfg.Region, cfg.AccessKey, cfg.SecretKey,
			cfg.SessionToken, cfg.Endpoint, cfg.PathStyle)
	default:
		return NewS3ClientDefault(ctx, cfg.Region, cfg.Endpoint, cfg.PathStyle)
	}
}

// S3BucketCreator is the slice of the S3 API S3EnsureBucket needs.
type S3BucketCreator interface {
	CreateBucket(ctx context.Context, in *s3.CreateBucketInput, optFns ...func(*s3.Options)) (*s3.CreateBucketOutput, error)
}

// S3EnsureBucket creates bucket unless it already exists and is ours.
func S3EnsureBucket(ctx context.Context, cli S3BucketCreator, bucket string) error {
	if bucket == "" {
		return fmt.Errorf("bucket is required")
	}
	_, err := cli.CreateBucket(ctx, &s3.CreateBucketInput{Bucket: aws.String(bucket)})
	var owned *s3types.BucketAlreadyOwnedByYou
	if err == nil || errors.As(err, &owned) {
		return nil
	}
	return fmt.Errorf("create bucket %s: %w", bucket, err)
}
