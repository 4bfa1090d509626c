package s3client

import (
	"context"
	"errors"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/joeydtaylor/muedit/pkg/internal/types"
)

const (
	defaultMaxAttempts = 5
	defaultBaseBackoff = 100 * time.Millisecond
	defaultMaxBackoff  = 3 * time.Second
)

var (
	rngMu sync.Mutex
	rng   = rand.New(rand.NewSource(time.Now().UnixNano()))
)

// backoffDuration is exponential with full jitter.
func backoffDuration(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	d := defaultBaseBackoff << (attempt - 1)
	if d > defaultMaxBackoff || d <= 0 {
		d = defaultMaxBackoff
	}
	rngMu.Lock()
	defer rngMu.Unlock()
	return time.Duration(rng.Int63n(int64(d) + 1))
}

func isRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	msg := strings.ToLower(err.Error())
	for _, frag := range []string{
		"throttl", "slowdown", "timeout", "tempor", "connection reset",
		"eof", "internalerror", "service unavailable", "503", "500",
	} {
		if strings.Contains(msg, frag) {
			return true
		}
	}
	return false
}

// withRetry runs op until it succeeds, fails with a permanent error or the
// attempts run out.
func (s *SnapshotStore) withRetry(ctx context.Context, event, key string, op func() error) error {
	attempts := s.maxAttempts
	if attempts < 1 {
		attempts = 1
	}
	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err = op(); err == nil {
			return nil
		}
		if !isRetryable(err) || attempt == attempts || ctx.Err() != nil {
			return err
		}
		s.NotifyLoggers(types.WarnLevel, event+" retry",
			"component", s.componentMetadata,
			"event", event,
			"attempt", attempt,
			"max_attempts", attempts,
			"key", key,
			"error", err,
		)
		select {
		case <-time.After(backoffDuration(attempt)):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return err
}
