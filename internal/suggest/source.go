package suggest

import (
	"context"

	"github.com/dshills/tagstorm/internal/tags"
)

// Result is what a source returns: either plain strings or tags. Strings
// are wrapped on the collection's key field when applied.
type Result struct {
	Strings []string
	Tags    []tags.Tag
}

// Strings returns a Result of plain strings.
func Strings(s ...string) Result {
	return Result{Strings: s}
}

// Tags returns a Result of tags.
func Tags(t ...tags.Tag) Result {
	return Result{Tags: t}
}

// Len returns the number of suggestions.
func (r Result) Len() int {
	if r.Tags != nil {
		return len(r.Tags)
	}
	return len(r.Strings)
}

// Normalize returns the suggestions as tags, wrapping strings on field.
func (r Result) Normalize(field string) []tags.Tag {
	if r.Tags != nil {
		out := make([]tags.Tag, len(r.Tags))
		for i, t := range r.Tags {
			out[i] = t.Clone()
		}
		return out
	}
	return tags.FromStrings(r.Strings, field)
}

// Source produces suggestions for a query. Suggest is called on its own
// goroutine; ctx is cancelled once a newer query supersedes this one.
type Source interface {
	Suggest(ctx context.Context, query string) (Result, error)
}

// SourceFunc adapts a function to Source.
type SourceFunc func(ctx context.Context, query string) (Result, error)

// Suggest implements Source.
func (f SourceFunc) Suggest(ctx context.Context, query string) (Result, error) {
	return f(ctx, query)
}
