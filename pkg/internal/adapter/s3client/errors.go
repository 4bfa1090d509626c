package s3client

import "errors"

var (
	// ErrNotConfigured is returned when the store has no client or bucket.
	ErrNotConfigured = errors.New("s3client: client and bucket are required")

	// ErrInvalidLocation is returned by Load for a location in another
	// bucket or with an empty key.
	ErrInvalidLocation = errors.New("s3client: invalid location")

	// ErrEncryption covers client-side encryption misconfiguration and
	// objects that cannot be decrypted.
	ErrEncryption = errors.New("s3client: client-side encryption")
)
