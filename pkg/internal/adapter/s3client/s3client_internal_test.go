package s3client

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"
)

func TestBackoffDurationBounds(t *testing.T) {
	for attempt := 0; attempt < 10; attempt++ {
		d := backoffDuration(attempt)
		if d < 0 || d > defaultMaxBackoff {
			t.Fatalf("attempt %d: backoff %v out of range", attempt, d)
		}
	}
}

func TestIsRetryable(t *testing.T) {
	cases := map[string]bool{
		"503 Service Unavailable":  true,
		"SlowDown":                 true,
		"connection reset by peer": true,
		"AccessDenied":             false,
	}
	for msg, want := range cases {
		if got := isRetryable(errors.New(msg)); got != want {
			t.Fatalf("%q: expected %v, got %v", msg, want, got)
		}
	}
	if isRetryable(context.Canceled) {
		t.Fatalf("context cancellation must not be retried")
	}
	if isRetryable(nil) {
		t.Fatalf("nil must not be retried")
	}
}

func TestAESGCMRoundTrip(t *testing.T) {
	key := bytes.Repeat([]byte{7}, 32)
	enc, err := encryptAESGCM([]byte("payload"), key)
	if err != nil {
		t.Fatalf("encrypt: %v", err)
	}
	dec, err := decryptAESGCM(enc, key)
	if err != nil {
		t.Fatalf("decrypt: %v", err)
	}
	if string(dec) != "payload" {
		t.Fatalf("expected payload, got %q", dec)
	}

	enc[len(enc)-1] ^= 0xff
	if _, err := decryptAESGCM(enc, key); !errors.Is(err, ErrEncryption) {
		t.Fatalf("expected ErrEncryption for tampered ciphertext, got %v", err)
	}
	if _, err := decryptAESGCM([]byte{1, 2}, key); !errors.Is(err, ErrEncryption) {
		t.Fatalf("expected ErrEncryption for short ciphertext, got %v", err)
	}
}

func TestWithRetryHonoursCancellation(t *testing.T) {
	s := NewSnapshotStore()
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	start := time.Now()
	err := s.withRetry(ctx, "PutObject", "k", func() error {
		calls++
		cancel()
		return errors.New("503")
	})
	if err == nil {
		t.Fatalf("expected an error")
	}
	if calls != 1 {
		t.Fatalf("expected 1 call, got %d", calls)
	}
	if time.Since(start) > time.Second {
		t.Fatalf("retry loop did not stop on cancellation")
	}
}

func TestObjectKey(t *testing.T) {
	s := NewSnapshotStore()
	if got := s.ObjectKey("/tmp/rec.csv"); got != "snapshots/rec_edited.json" {
		t.Fatalf("unexpected key %q", got)
	}
	s.prefix = ""
	if got := s.ObjectKey("rec"); got != "rec_edited.json" {
		t.Fatalf("unexpected key %q", got)
	}
}
