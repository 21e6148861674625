package report

import (
	"context"
	"errors"
	"testing"
	"time"
)

// TestAwaitNetworkIdle_SignalReleases tests that an idle event lets the
// render proceed immediately
func TestAwaitNetworkIdle_SignalReleases(t *testing.T) {
	idle := make(chan struct{}, 1)
	idle <- struct{}{}

	start := time.Now()
	if err := awaitNetworkIdle(idle, time.Minute).Do(context.Background()); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if time.Since(start) > time.Second {
		t.Error("Expected immediate return on idle signal")
	}
}

// TestAwaitNetworkIdle_FallbackElapses tests that a page that never goes
// idle still prints after the fallback
func TestAwaitNetworkIdle_FallbackElapses(t *testing.T) {
	idle := make(chan struct{}, 1)

	if err := awaitNetworkIdle(idle, 10*time.Millisecond).Do(context.Background()); err != nil {
		t.Fatalf("Expected no error after fallback, got: %v", err)
	}
}

// TestAwaitNetworkIdle_ContextCancel tests that cancellation aborts the wait
func TestAwaitNetworkIdle_ContextCancel(t *testing.T) {
	idle := make(chan struct{}, 1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := awaitNetworkIdle(idle, time.Minute).Do(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Expected context.Canceled, got: %v", err)
	}
}
