package input

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/dshills/tagstorm/internal/event"
)

func TestText_PublishesChanges(t *testing.T) {
	bus := event.NewBus()
	var got []string
	bus.On("input-change", event.Watch(func(s string) { got = append(got, s) }))

	txt := NewText(bus)
	txt.Insert("gö")
	txt.Insert("")
	txt.DeleteBackward()
	txt.Set("")
	if txt.DeleteBackward() {
		t.Error("DeleteBackward() on empty text = true, want false")
	}

	want := []string{"gö", "g", ""}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("input-change payloads mismatch (-want +got):\n%s", diff)
	}
}

func TestText_Len(t *testing.T) {
	txt := NewText(event.NewBus())
	txt.Set("héllo")
	if got := txt.Len(); got != 5 {
		t.Errorf("Len() = %d, want 5", got)
	}
	if txt.Empty() {
		t.Error("Empty() = true for non-empty text")
	}
}

func TestText_Invalid(t *testing.T) {
	txt := NewText(event.NewBus())
	txt.SetInvalid(true)
	if !txt.Invalid() {
		t.Error("Invalid() = false after SetInvalid(true)")
	}
}
