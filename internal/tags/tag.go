// Package tags implements the tag collection of an editor: the ordered
// list of tags, its selection cursor and the gated add/remove protocol.
package tags

import (
	"regexp"
	"strings"
)

// Tag is a labeled item. It carries at least the display field and,
// optionally, a distinct key field used for identity.
type Tag map[string]string

// New returns a tag with a single field.
func New(field, text string) Tag {
	return Tag{field: text}
}

// Clone returns a copy of t.
func (t Tag) Clone() Tag {
	if t == nil {
		return nil
	}
	c := make(Tag, len(t))
	for k, v := range t {
		c[k] = v
	}
	return c
}

// Text returns the trimmed value of field.
func (t Tag) Text(field string) string {
	return strings.TrimSpace(t[field])
}

var whitespace = regexp.MustCompile(`\s`)

// Dashify trims s and replaces every remaining whitespace character with
// a dash.
func Dashify(s string) string {
	return whitespace.ReplaceAllString(strings.TrimSpace(s), "-")
}

// Equal compares two field values case-insensitively after trimming.
func Equal(a, b string) bool {
	return strings.ToLower(strings.TrimSpace(a)) == strings.ToLower(strings.TrimSpace(b))
}

// Find returns the index of the first tag whose field equals the same
// field of target according to eq, or -1. A nil eq uses Equal.
func Find(items []Tag, target Tag, field string, eq func(a, b string) bool) int {
	if eq == nil {
		eq = Equal
	}
	for i, t := range items {
		if eq(t[field], target[field]) {
			return i
		}
	}
	return -1
}

// FromStrings wraps plain strings as tags keyed by field.
func FromStrings(values []string, field string) []Tag {
	out := make([]Tag, len(values))
	for i, s := range values {
		out[i] = New(field, s)
	}
	return out
}

// Strings projects tags onto the trimmed values of field.
func Strings(items []Tag, field string) []string {
	out := make([]string, len(items))
	for i, t := range items {
		out[i] = t.Text(field)
	}
	return out
}

// Event is the payload of tag-added, tag-removed, invalid-tag and
// tag-clicked.
type Event struct {
	// Tag is the tag concerned.
	Tag Tag

	// Index is the tag's position, or -1 when it is not in the collection.
	Index int
}
