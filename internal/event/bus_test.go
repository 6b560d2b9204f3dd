package event

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestResult_String(t *testing.T) {
	tests := []struct {
		r    Result
		want string
	}{
		{Continue, "continue"},
		{Veto, "veto"},
		{Result(42), "unknown"},
	}

	for _, tt := range tests {
		if got := tt.r.String(); got != tt.want {
			t.Errorf("Result(%d).String() = %q, want %q", tt.r, got, tt.want)
		}
	}
}

func TestParseTopics(t *testing.T) {
	got := ParseTopics("  tag-added   tag-removed invalid-tag ")
	want := []Topic{TopicTagAdded, TopicTagRemoved, TopicInvalidTag}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ParseTopics() mismatch (-want +got):\n%s", diff)
	}
}

func TestBus_RegistrationOrder(t *testing.T) {
	bus := NewBus()
	var order []string

	bus.On("tag-added", func(any) Result {
		order = append(order, "first")
		return Continue
	}).On("tag-added", func(any) Result {
		order = append(order, "second")
		return Continue
	})

	if !bus.Trigger(TopicTagAdded, nil) {
		t.Error("Trigger() = false, want true")
	}

	if diff := cmp.Diff([]string{"first", "second"}, order); diff != "" {
		t.Errorf("order mismatch (-want +got):\n%s", diff)
	}
}

func TestBus_Prioritized(t *testing.T) {
	bus := NewBus()
	var order []string

	bus.Observe("input-keydown", func(any) { order = append(order, "normal") })
	bus.Observe("input-keydown", func(any) { order = append(order, "priority") }, Prioritized())
	bus.Observe("input-keydown", func(any) { order = append(order, "late") })

	bus.Trigger(TopicInputKeyDown, nil)

	want := []string{"priority", "normal", "late"}
	if diff := cmp.Diff(want, order); diff != "" {
		t.Errorf("order mismatch (-want +got):\n%s", diff)
	}
}

func TestBus_MultipleNames(t *testing.T) {
	bus := NewBus()
	count := 0
	bus.Observe("tag-added tag-removed", func(any) { count++ })

	bus.Trigger(TopicTagAdded, nil)
	bus.Trigger(TopicTagRemoved, nil)
	bus.Trigger(TopicInvalidTag, nil)

	if count != 2 {
		t.Errorf("handler called %d times, want 2", count)
	}
	if got := bus.HandlerCount(TopicTagAdded); got != 1 {
		t.Errorf("HandlerCount(tag-added) = %d, want 1", got)
	}
}

func TestBus_Veto(t *testing.T) {
	bus := NewBus()
	reached := false

	bus.On("input-keydown", func(any) Result { return Veto })
	bus.Observe("input-keydown", func(any) { reached = true })

	if bus.Trigger(TopicInputKeyDown, nil) {
		t.Error("Trigger() = true, want false after veto")
	}
	if reached {
		t.Error("handler after veto was called")
	}

	stats := bus.Stats()
	if stats.Vetoed != 1 {
		t.Errorf("Stats().Vetoed = %d, want 1", stats.Vetoed)
	}
	if stats.HandlersExecuted != 1 {
		t.Errorf("Stats().HandlersExecuted = %d, want 1", stats.HandlersExecuted)
	}
}

func TestBus_NoHandlers(t *testing.T) {
	bus := NewBus()
	if !bus.Trigger(Topic("nothing"), 1) {
		t.Error("Trigger() with no handlers = false, want true")
	}
}

func TestBus_PayloadDelivered(t *testing.T) {
	type payload struct{ Name string }

	bus := NewBus()
	var got payload
	bus.On("option-change", Typed(func(p payload) Result {
		got = p
		return Continue
	}))

	bus.Trigger(TopicOptionChange, payload{Name: "maxTags"})
	if got.Name != "maxTags" {
		t.Errorf("payload.Name = %q, want %q", got.Name, "maxTags")
	}
}

func TestTyped_IgnoresOtherTypes(t *testing.T) {
	called := false
	h := Typed(func(int) Result {
		called = true
		return Veto
	})

	if r := h("not an int"); r != Continue {
		t.Errorf("Typed handler result = %v, want %v", r, Continue)
	}
	if called {
		t.Error("Typed handler called with mismatched payload")
	}
}

func TestWatch(t *testing.T) {
	var got []int
	h := Watch(func(v int) { got = append(got, v) })

	h(1)
	h("skip")
	h(2)

	if diff := cmp.Diff([]int{1, 2}, got); diff != "" {
		t.Errorf("Watch mismatch (-want +got):\n%s", diff)
	}
}

func TestBus_HandlerAddedDuringTrigger(t *testing.T) {
	bus := NewBus()
	late := 0

	bus.Observe("tag-added", func(any) {
		bus.Observe("tag-added", func(any) { late++ })
	})

	bus.Trigger(TopicTagAdded, nil)
	if late != 0 {
		t.Errorf("handler registered during delivery ran %d times, want 0", late)
	}

	bus.Trigger(TopicTagAdded, nil)
	if late != 1 {
		t.Errorf("late handler ran %d times, want 1", late)
	}
}

func TestBus_NilHandlerPanics(t *testing.T) {
	defer func() {
		if r := recover(); r != ErrNilHandler {
			t.Errorf("recover() = %v, want %v", r, ErrNilHandler)
		}
	}()
	NewBus().On("tag-added", nil)
}

func TestBus_Stats(t *testing.T) {
	bus := NewBus()
	bus.Observe("a b", func(any) {})
	bus.Observe("a", func(any) {})

	bus.Trigger("a", nil)
	bus.Trigger("b", nil)

	stats := bus.Stats()
	if stats.Published != 2 {
		t.Errorf("Published = %d, want 2", stats.Published)
	}
	if stats.HandlersExecuted != 3 {
		t.Errorf("HandlersExecuted = %d, want 3", stats.HandlersExecuted)
	}
	if stats.Subscriptions != 3 {
		t.Errorf("Subscriptions = %d, want 3", stats.Subscriptions)
	}
}
