package editor

import (
	"context"

	"github.com/dshills/tagstorm/internal/dispatcher"
	"github.com/dshills/tagstorm/internal/suggest"
)

// Suggestion is one rendered entry of the suggestion list.
type Suggestion struct {
	Text     string
	Segments []suggest.Segment
}

// Snapshot is a copy of everything a renderer needs, taken on the loop.
type Snapshot struct {
	Tags     []string
	Selected int
	Model    any

	Text        string
	Invalid     bool
	Placeholder string
	RemoveTag   string
	Focused     bool
	Disabled    bool
	Validity    dispatcher.Validity

	Suggestions        []Suggestion
	SuggestionIndex    int
	SuggestionsVisible bool
	Query              string
}

// Snapshot copies the current state.
func (e *Editor) Snapshot(ctx context.Context) (Snapshot, error) {
	var s Snapshot
	err := e.loop.Do(ctx, func() { s = e.snapshot() })
	return s, err
}

func (e *Editor) snapshot() Snapshot {
	s := Snapshot{
		Tags:            e.tags.Texts(),
		Selected:        e.tags.Index(),
		Model:           e.tags.Model(),
		Text:            e.text.String(),
		Invalid:         e.text.Invalid(),
		Placeholder:     e.tagOpts.Placeholder(),
		RemoveTag:       e.tagOpts.RemoveTagSymbol(),
		Focused:         e.dispatcher.Focused(),
		Disabled:        e.dispatcher.Disabled(),
		Validity:        e.dispatcher.Validity(),
		SuggestionIndex: -1,
	}
	if e.engine == nil || !e.engine.Visible() {
		return s
	}

	field := e.acOpts.DisplayProperty()
	if field == "" {
		field = e.tagOpts.DisplayProperty()
	}
	query := e.engine.Query()
	highlight := e.acOpts.HighlightMatchedText()

	for _, item := range e.engine.Items() {
		text := item.Text(field)
		segs := []suggest.Segment{{Text: text}}
		if highlight {
			segs = suggest.Highlight(text, query)
		}
		s.Suggestions = append(s.Suggestions, Suggestion{Text: text, Segments: segs})
	}
	s.SuggestionIndex = e.engine.Index()
	s.SuggestionsVisible = true
	s.Query = query
	return s
}
