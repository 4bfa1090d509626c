package builder

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/credentials/stscreds"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/sts"

	s3client "github.com/joeydtaylor/muedit/pkg/internal/adapter/s3client"
	"github.com/joeydtaylor/muedit/pkg/internal/types"
)

//////////////////////////////
// Snapshot store constructor
//////////////////////////////

type S3SnapshotStore = s3client.SnapshotStore

type S3ObjectAPI = s3client.ObjectAPI

// NewS3SnapshotStore creates a SnapshotStore that writes edited snapshots to
// S3. Without S3SnapshotStoreWithClient every call fails with a
// not-configured error.
func NewS3SnapshotStore(options ...types.Option[*s3client.SnapshotStore]) *S3SnapshotStore {
	return s3client.NewSnapshotStore(options...)
}

// S3SnapshotStoreWithClient injects the AWS client and bucket. *s3.Client
// satisfies S3ObjectAPI.
func S3SnapshotStoreWithClient(cli S3ObjectAPI, bucket string) types.Option[*s3client.SnapshotStore] {
	return s3client.WithClient(cli, bucket)
}

// S3SnapshotStoreWithPrefix sets the key prefix ("snapshots/" by default).
func S3SnapshotStoreWithPrefix(prefix string) types.Option[*s3client.SnapshotStore] {
	return s3client.WithPrefix(prefix)
}

func S3SnapshotStoreWithCompression(c Compression) types.Option[*s3client.SnapshotStore] {
	return s3client.WithCompression(c)
}

// S3SnapshotStoreWithSSE configures server-side encryption: "AES256" or
// "aws:kms" with an optional key id.
func S3SnapshotStoreWithSSE(mode, kmsKey string) types.Option[*s3client.SnapshotStore] {
	return s3client.WithSSE(mode, kmsKey)
}

// S3SnapshotStoreWithClientSideEncryption seals every object with
// AES-256-GCM using a hex encoded 32-byte key.
func S3SnapshotStoreWithClientSideEncryption(keyHex string) types.Option[*s3client.SnapshotStore] {
	return s3client.WithClientSideEncryption(keyHex)
}

func S3SnapshotStoreWithRequireClientSideEncryption() types.Option[*s3client.SnapshotStore] {
	return s3client.WithRequireClientSideEncryption()
}

// S3SnapshotStoreWithDischargeExport writes a parquet discharge table next to
// every snapshot.
func S3SnapshotStoreWithDischargeExport(compression string) types.Option[*s3client.SnapshotStore] {
	return s3client.WithDischargeExport(compression)
}

func S3SnapshotStoreWithMaxAttempts(n int) types.Option[*s3client.SnapshotStore] {
	return s3client.WithMaxAttempts(n)
}

func S3SnapshotStoreWithLogger(loggers ...types.Logger) types.Option[*s3client.SnapshotStore] {
	return s3client.WithLogger(loggers...)
}

func S3SnapshotStoreWithComponentMetadata(name, id string) types.Option[*s3client.SnapshotStore] {
	return s3client.WithComponentMetadata(name, id)
}

/////////////////////////////////////////////
// Compliant S3 client constructors (no env)
/////////////////////////////////////////////

// sharedResolver returns an endpoint resolver that maps BOTH S3 and STS to the same override.
func sharedResolver(endpoint string) aws.EndpointResolverWithOptionsFunc {
	return aws.EndpointResolverWithOptionsFunc(func(service, region string, _ ...interface{}) (aws.Endpoint, error) {
		switch service {
		case s3.ServiceID, sts.ServiceID:
			return aws.Endpoint{URL: endpoint, HostnameImmutable: true}, nil
		default:
			return aws.Endpoint{}, &aws.EndpointNotFoundError{}
		}
	})
}

// baseLoaders collects the config loaders shared by every constructor.
func baseLoaders(region, endpoint string) []func(*config.LoadOptions) error {
	var loaders []func(*config.LoadOptions) error
	if region != "" {
		loaders = append(loaders, config.WithRegion(region))
	}
	if endpoint != "" {
		loaders = append(loaders, config.WithEndpointResolverWithOptions(sharedResolver(endpoint)))
	}
	return loaders
}

// NewS3ClientStatic creates an S3 client using static credentials.
// If endpoint != "", it's used (LocalStack/MinIO). forcePathStyle=true for emulators.
func NewS3ClientStatic(
	ctx context.Context,
	region string,
	accessKey string,
	secretKey string,
	sessionToken string, // "" if none
	endpoint string, // "" for AWS
	forcePathStyle bool,
) (*s3.Client, error) {
	loaders := baseLoaders(region, endpoint)
	loaders = append(loaders, config.WithCredentialsProvider(
		credentials.NewStaticCredentialsProvider(accessKey, secretKey, sessionToken),
	))
	cfg, err := config.LoadDefaultConfig(ctx, loaders...)
	if err != nil {
		return nil, err
	}
	return s3.NewFromConfig(cfg, func(o *s3.Options) { o.UsePathStyle = forcePathStyle }), nil
}

// NewS3ClientDefault creates an S3 client from the default credential chain
// (environment, shared config, instance role).
func NewS3ClientDefault(ctx context.Context, region, endpoint string, forcePathStyle bool) (*s3.Client, error) {
	cfg, err := config.LoadDefaultConfig(ctx, baseLoaders(region, endpoint)...)
	if err != nil {
		return nil, err
	}
	return s3.NewFromConfig(cfg, func(o *s3.Options) { o.UsePathStyle = forcePathStyle }), nil
}

// NewS3ClientAssumeRole creates an S3 client by assuming an IAM role via STS.
// sourceCreds: underlying creds to call STS (static keys, SSO, etc.). If nil, default chain.
// externalID optional. duration capped by role MaxSessionDuration.
func NewS3ClientAssumeRole(
	ctx context.Context,
	region string,
	roleARN string,
	sessionName string,
	duration time.Duration,
	externalID string,
	sourceCreds aws.CredentialsProvider, // nil => default provider chain
	endpoint string, // optional S3/STS endpoint override
	forcePathStyle bool,
) (*s3.Client, error) {
	loaders := baseLoaders(region, endpoint)
	if sourceCreds != nil {
		loaders = append(loaders, config.WithCredentialsProvider(sourceCreds))
	}
	baseCfg, err := config.LoadDefaultConfig(ctx, loaders...)
	if err != nil {
		return nil, err
	}

	// STS client also uses the same resolver (so it doesn't go to real AWS).
	stsClient := sts.NewFromConfig(baseCfg)

	provider := stscreds.NewAssumeRoleProvider(stsClient, roleARN, func(o *stscreds.AssumeRoleOptions) {
		if sessionName != "" {
			o.RoleSessionName = sessionName
		}
		if duration > 0 {
			o.Duration = duration
		}
		if externalID != "" {
			o.ExternalID = &externalID
		}
	})

	assumed := baseCfg
	assumed.Credentials = aws.NewCredentialsCache(provider)

	return s3.NewFromConfig(assumed, func(o *s3.Options) { o.UsePathStyle = forcePathStyle }), nil
}

// NewS3ClientWebIdentity assumes a role using an OIDC/WebIdentity token file (e.g., EKS IRSA).
func NewS3ClientWebIdentity(
	ctx context.Context,
	region string,
	roleARN string,
	sessionName string,
	tokenFile string,
	duration time.Duration,
	endpoint string, // optional S3/STS endpoint override
	forcePathStyle bool,
) (*s3.Client, error) {
	cfg, err := config.LoadDefaultConfig(ctx, baseLoaders(region, endpoint)...)
	if err != nil {
		return nil, err
	}
	stsClient := sts.NewFromConfig(cfg)
	provider := stscreds.NewWebIdentityRoleProvider(
		stsClient,
		roleARN,
		stscreds.IdentityTokenFile(tokenFile),
		func(o *stscreds.WebIdentityRoleOptions) {
			if sessionName != "" {
				o.RoleSessionName = sessionName
			}
			if duration > 0 {
				o.Duration = duration
			}
		},
	)

	assumed := cfg
	assumed.Credentials = aws.NewCredentialsCache(provider)

	return s3.NewFromConfig(assumed, func(o *s3.Options) { o.UsePathStyle = forcePathStyle }), nil
}
