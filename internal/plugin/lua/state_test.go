package lua

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/dshills/tagstorm/internal/tags"
)

func TestState_Call(t *testing.T) {
	s := NewState()
	defer s.Close()

	ctx := context.Background()
	err := s.DoString(ctx, `
		function echo(...) return ... end
		function shape() return {1, 2.5, "x"}, {a = true}, nil end
	`)
	if err != nil {
		t.Fatalf("DoString() error = %v", err)
	}

	got, err := s.Call(ctx, "echo", "go", 3, true, tags.Tag{"text": "go"})
	if err != nil {
		t.Fatalf("Call(echo) error = %v", err)
	}
	want := []any{"go", int64(3), true, map[string]any{"text": "go"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Call(echo) mismatch (-want +got):\n%s", diff)
	}

	got, err = s.Call(ctx, "shape")
	if err != nil {
		t.Fatalf("Call(shape) error = %v", err)
	}
	want = []any{[]any{int64(1), 2.5, "x"}, map[string]any{"a": true}, nil}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Call(shape) mismatch (-want +got):\n%s", diff)
	}
}

func TestState_CallMissing(t *testing.T) {
	s := NewState()
	defer s.Close()

	if _, err := s.Call(context.Background(), "nope"); !errors.Is(err, ErrNotFunction) {
		t.Errorf("Call() error = %v, want %v", err, ErrNotFunction)
	}
}

func TestState_Restricted(t *testing.T) {
	s := NewState()
	defer s.Close()

	for _, code := range []string{
		`io.write("x")`,
		`os.exit(1)`,
		`dofile("/etc/passwd")`,
		`require("os")`,
	} {
		if err := s.DoString(context.Background(), code); err == nil {
			t.Errorf("DoString(%q) error = nil, want error", code)
		}
	}
}

func TestState_Timeout(t *testing.T) {
	s := NewState(WithTimeout(50 * time.Millisecond))
	defer s.Close()

	done := make(chan error, 1)
	go func() {
		done <- s.DoString(context.Background(), `while true do end`)
	}()

	select {
	case err := <-done:
		if err == nil {
			t.Error("DoString() error = nil, want timeout")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("endless loop was not stopped")
	}
}

func TestState_Closed(t *testing.T) {
	s := NewState()
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
	if err := s.DoString(context.Background(), `x = 1`); !errors.Is(err, ErrStateClosed) {
		t.Errorf("DoString() error = %v, want %v", err, ErrStateClosed)
	}
	if s.Has("print") {
		t.Error("Has() = true on closed state")
	}
}
