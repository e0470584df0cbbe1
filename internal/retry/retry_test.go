package retry

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestDoWithRetryEventualSuccess(t *testing.T) {
	calls := 0
	err := DoWithRetry(context.Background(), 3, time.Millisecond, func() error {
		calls++
		if calls < 3 {
			return errors.New("transient")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("expected success after retries, got %v", err)
	}
	if calls != 3 {
		t.Fatalf("expected 3 attempts, got %d", calls)
	}
}

func TestDoWithRetryExhaustsAttempts(t *testing.T) {
	wantErr := errors.New("still broken")
	calls := 0
	err := DoWithRetry(context.Background(), 2, time.Millisecond, func() error {
		calls++
		return wantErr
	})
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected last error, got %v", err)
	}
	if calls != 2 {
		t.Fatalf("expected 2 attempts, got %d", calls)
	}
}

func TestDoWithRetryStopsOnCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := DoWithRetry(ctx, 3, time.Millisecond, func() error {
		t.Fatal("fn must not run with canceled context")
		return nil
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
