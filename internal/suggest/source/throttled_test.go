package source

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestThrottled_Burst(t *testing.T) {
	next := &countingSource{}
	th := NewThrottled(next, 1000, 3)

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		res, err := th.Suggest(ctx, "go")
		if err != nil {
			t.Fatalf("Suggest() error = %v", err)
		}
		if res.Strings[0] != "go-1" {
			t.Errorf("Suggest() = %v, want [go-1]", res.Strings)
		}
	}
	if got := next.calls.Load(); got != 3 {
		t.Errorf("underlying calls = %d, want 3", got)
	}
}

func TestThrottled_ContextEndsWhileWaiting(t *testing.T) {
	next := &countingSource{}
	// One token every 100s: the second query cannot get one in time.
	th := NewThrottled(next, 0.01, 1)

	if _, err := th.Suggest(context.Background(), "go"); err != nil {
		t.Fatalf("first Suggest() error = %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := th.Suggest(ctx, "rust")
	if err == nil {
		t.Fatal("second Suggest() error = nil, want error")
	}
	if got := next.calls.Load(); got != 1 {
		t.Errorf("underlying calls = %d, want 1", got)
	}
}

func TestThrottled_Cancelled(t *testing.T) {
	next := &countingSource{}
	th := NewThrottled(next, 0.01, 1)
	_, _ = th.Suggest(context.Background(), "go")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := th.Suggest(ctx, "rust"); !errors.Is(err, context.Canceled) {
		t.Errorf("Suggest() error = %v, want context.Canceled", err)
	}
}
