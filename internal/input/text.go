package input

import (
	"unicode/utf8"

	"github.com/dshills/tagstorm/internal/event"
)

// Text is the input text plus the invalid marker set when the last
// attempt to add it was rejected. Like the engines it belongs to one run
// loop.
type Text struct {
	bus     *event.Bus
	value   string
	invalid bool
}

// NewText creates an empty input text publishing on bus.
func NewText(bus *event.Bus) *Text {
	return &Text{bus: bus}
}

// String returns the text.
func (t *Text) String() string { return t.value }

// Len returns the text length in runes.
func (t *Text) Len() int { return utf8.RuneCountInString(t.value) }

// Empty reports whether the text is empty.
func (t *Text) Empty() bool { return t.value == "" }

// Set replaces the text and publishes input-change, even when the value
// is unchanged.
func (t *Text) Set(s string) {
	t.value = s
	t.bus.Trigger(event.TopicInputChange, s)
}

// Insert appends s.
func (t *Text) Insert(s string) {
	if s == "" {
		return
	}
	t.Set(t.value + s)
}

// DeleteBackward removes the last rune. It reports whether anything was
// removed.
func (t *Text) DeleteBackward() bool {
	if t.value == "" {
		return false
	}
	_, size := utf8.DecodeLastRuneInString(t.value)
	t.Set(t.value[:len(t.value)-size])
	return true
}

// Invalid reports whether the text was rejected as a tag.
func (t *Text) Invalid() bool { return t.invalid }

// SetInvalid sets the invalid marker.
func (t *Text) SetInvalid(v bool) { t.invalid = v }
