// Package suggest implements the suggestion list of an editor: debounced
// queries against a Source, suppression of stale responses, filtering
// against tags already chosen and a selection cursor.
package suggest

import (
	"context"

	"github.com/dshills/tagstorm/internal/config"
	"github.com/dshills/tagstorm/internal/event"
	"github.com/dshills/tagstorm/internal/logging"
	"github.com/dshills/tagstorm/internal/runloop"
	"github.com/dshills/tagstorm/internal/tags"
)

// Selection is the payload of suggestion-selected.
type Selection struct {
	Index int
	Item  tags.Tag
}

// Engine owns the suggestion list. Like tags.Collection it belongs to one
// run loop and every method must be called from a task on that loop.
type Engine struct {
	loop   *runloop.Loop
	bus    *event.Bus
	source Source

	tagOpts config.TagsInput
	opts    config.Autocomplete

	ctx    context.Context
	logger *logging.Logger

	debouncer *runloop.Debouncer

	// generation identifies the latest issued fetch; a response carrying
	// any other value is stale.
	generation uint64
	cancel     context.CancelFunc
	inFlight   int

	query    string
	items    []tags.Tag
	index    int
	selected tags.Tag
	visible  bool

	stats Stats
}

// Stats counts engine activity.
type Stats struct {
	Fetches int
	Stale   int
	Errors  int
	Applied int
}

// Option configures an Engine.
type Option func(*Engine)

// WithContext sets the parent context of every fetch.
func WithContext(ctx context.Context) Option {
	return func(e *Engine) {
		if ctx != nil {
			e.ctx = ctx
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// NewEngine creates an engine fetching from source. tagOpts supplies the
// key field and the dash policy used when filtering out existing tags.
func NewEngine(loop *runloop.Loop, bus *event.Bus, source Source, tagOpts config.TagsInput, opts config.Autocomplete, options ...Option) *Engine {
	e := &Engine{
		loop:    loop,
		bus:     bus,
		source:  source,
		tagOpts: tagOpts,
		opts:    opts,
		ctx:     context.Background(),
		logger:  logging.Nop(),
		index:   -1,
	}
	for _, opt := range options {
		opt(e)
	}
	e.logger = e.logger.WithComponent("suggest")
	e.debouncer = runloop.NewDebouncer(loop, opts.DebounceDelay())
	return e
}

// Query returns the query that produced the current list.
func (e *Engine) Query() string { return e.query }

// Items returns the current suggestions.
func (e *Engine) Items() []tags.Tag {
	out := make([]tags.Tag, len(e.items))
	copy(out, e.items)
	return out
}

// Len returns the number of suggestions.
func (e *Engine) Len() int { return len(e.items) }

// Visible reports whether the list is shown.
func (e *Engine) Visible() bool { return e.visible }

// Index returns the selection index, -1 when nothing is selected.
func (e *Engine) Index() int { return e.index }

// Selected returns the selected suggestion, nil when nothing is selected.
func (e *Engine) Selected() tags.Tag { return e.selected }

// Stats returns activity counters.
func (e *Engine) Stats() Stats { return e.stats }

// Pending reports whether a load is waiting for its debounce delay or a
// fetch has not answered yet.
func (e *Engine) Pending() bool {
	return e.debouncer.Pending() || e.inFlight > 0
}

// Load schedules a fetch for query. Calls within the debounce delay
// collapse into the last one. When the fetch answers, suggestions matching
// a tag of excluded are dropped and the rest, capped at maxResultsToShow,
// become the list. A response that is no longer the latest is ignored.
func (e *Engine) Load(query string, excluded []tags.Tag) {
	excluded = append([]tags.Tag(nil), excluded...)
	e.debouncer.SetDelay(e.opts.DebounceDelay())
	e.debouncer.Call(func() { e.fetch(query, excluded) })
}

// Reset hides and empties the list, drops a pending load and makes any
// in-flight fetch stale.
func (e *Engine) Reset() {
	e.debouncer.Cancel()
	e.clear()
}

// clear hides and empties the list and makes any in-flight fetch stale.
// A load still waiting for its debounce delay runs as scheduled.
func (e *Engine) clear() {
	e.invalidate()
	e.query = ""
	e.items = nil
	e.visible = false
	e.index = -1
	e.selected = nil
}

// Show makes the list visible, selecting the first suggestion when
// selectFirstMatch is set.
func (e *Engine) Show() {
	if e.opts.SelectFirstMatch() {
		e.Select(0)
	} else {
		e.index = -1
		e.selected = nil
	}
	e.visible = true
}

// Select moves the selection to i with the same wrap-around as
// tags.Collection and publishes suggestion-selected. On an empty list the
// selection stays empty and the event carries index -1.
func (e *Engine) Select(i int) {
	n := len(e.items)
	if n == 0 {
		e.index = -1
		e.selected = nil
		e.bus.Trigger(event.TopicSuggestionSelected, Selection{Index: -1})
		return
	}
	if i < 0 {
		i = n - 1
	} else if i >= n {
		i = 0
	}
	e.index = i
	e.selected = e.items[i]
	e.bus.Trigger(event.TopicSuggestionSelected, Selection{Index: i, Item: e.selected})
}

// SelectPrior moves the selection one suggestion up.
func (e *Engine) SelectPrior() {
	e.Select(e.index - 1)
}

// SelectNext moves the selection one suggestion down.
func (e *Engine) SelectNext() {
	e.Select(e.index + 1)
}

func (e *Engine) invalidate() {
	e.generation++
	if e.cancel != nil {
		e.cancel()
		e.cancel = nil
	}
}

func (e *Engine) fetch(query string, excluded []tags.Tag) {
	e.invalidate()
	e.query = query
	gen := e.generation

	ctx, cancel := context.WithCancel(e.ctx)
	e.cancel = cancel
	e.inFlight++
	e.stats.Fetches++

	go func() {
		res, err := e.source.Suggest(ctx, query)
		posted := e.loop.Post(func() {
			e.inFlight--
			e.apply(gen, excluded, res, err)
		})
		if !posted {
			cancel()
		}
	}()
}

func (e *Engine) apply(gen uint64, excluded []tags.Tag, res Result, err error) {
	if gen != e.generation {
		e.stats.Stale++
		e.logger.Debug("dropping stale suggestions for generation %d", gen)
		return
	}
	if e.cancel != nil {
		e.cancel()
		e.cancel = nil
	}
	if err != nil {
		e.stats.Errors++
		e.logger.Warn("suggestion source failed for %q: %v", e.query, err)
		return
	}

	items := e.difference(res.Normalize(e.tagOpts.KeyField()), excluded)
	if limit := e.opts.MaxResultsToShow(); limit >= 0 && len(items) > limit {
		items = items[:limit]
	}
	e.stats.Applied++

	if len(items) == 0 {
		e.clear()
		return
	}
	e.items = items
	e.Show()
}

// difference drops every item whose key matches a tag of excluded,
// comparing with dashes applied to both sides when the collection
// replaces spaces.
func (e *Engine) difference(items, excluded []tags.Tag) []tags.Tag {
	field := e.tagOpts.KeyField()
	eq := tags.Equal
	if e.tagOpts.ReplaceSpacesWithDashes() {
		eq = func(a, b string) bool { return tags.Equal(tags.Dashify(a), tags.Dashify(b)) }
	}

	out := items[:0]
	for _, it := range items {
		if tags.Find(excluded, it, field, eq) < 0 {
			out = append(out, it)
		}
	}
	return out
}
