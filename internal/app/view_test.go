package app

import (
	"strings"
	"testing"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/tagstorm/internal/dispatcher"
	"github.com/dshills/tagstorm/internal/editor"
	"github.com/dshills/tagstorm/internal/suggest"
)

func newScreen(t *testing.T) tcell.SimulationScreen {
	t.Helper()
	scr := tcell.NewSimulationScreen("UTF-8")
	if err := scr.Init(); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	t.Cleanup(scr.Fini)
	return scr
}

// row returns the text of row y with trailing blanks removed.
func row(scr tcell.SimulationScreen, y int) string {
	cells, w, _ := scr.GetContents()
	var b strings.Builder
	for x := 0; x < w; x++ {
		c := cells[y*w+x]
		if len(c.Runes) == 0 {
			b.WriteByte(' ')
			continue
		}
		b.WriteRune(c.Runes[0])
	}
	return strings.TrimRight(b.String(), " ")
}

func cellStyle(scr tcell.SimulationScreen, x, y int) tcell.Style {
	cells, w, _ := scr.GetContents()
	return cells[y*w+x].Style
}

func validSnapshot() editor.Snapshot {
	return editor.Snapshot{
		Placeholder:     "Add a tag",
		RemoveTag:       "×",
		Focused:         true,
		Selected:        -1,
		SuggestionIndex: -1,
		Validity:        dispatcher.Validity{MaxTags: true, MinTags: true, LeftoverText: true},
	}
}

func TestDraw_TagsTextAndSuggestions(t *testing.T) {
	scr := newScreen(t)
	st := DefaultStyles()

	s := validSnapshot()
	s.Tags = []string{"go", "rust"}
	s.Selected = 1
	s.Text = "py"
	s.SuggestionsVisible = true
	s.SuggestionIndex = 0
	s.Suggestions = []editor.Suggestion{
		{Text: "python", Segments: []suggest.Segment{{Text: "py", Match: true}, {Text: "thon"}}},
		{Text: "pypy", Segments: []suggest.Segment{{Text: "py", Match: true}, {Text: "py", Match: true}}},
	}

	l := draw(scr, s, st, statusLine(s))
	scr.Show()

	wantTop := " go " + "× " + " " + " rust " + "× " + " " + "py"
	if got := row(scr, 0); got != wantTop {
		t.Errorf("row 0 = %q, want %q", got, wantTop)
	}
	if got := row(scr, 1); got != "  python" {
		t.Errorf("row 1 = %q, want %q", got, "  python")
	}
	if got := row(scr, 2); got != "  pypy" {
		t.Errorf("row 2 = %q, want %q", got, "  pypy")
	}
	_, _, h := scr.GetContents()
	if got, want := row(scr, h-1), "2 tags · Ctrl-C to finish"; got != want {
		t.Errorf("status = %q, want %q", got, want)
	}

	if l.cursorX != len([]rune(wantTop)) || l.cursorY != 0 {
		t.Errorf("cursor = (%d, %d), want (%d, 0)", l.cursorX, l.cursorY, len([]rune(wantTop)))
	}

	if got := cellStyle(scr, 1, 0); got != st.Tag {
		t.Error("first tag not drawn with the tag style")
	}
	if got := cellStyle(scr, 8, 0); got != st.SelectedTag {
		t.Error("selected tag not drawn with the selected style")
	}
	if got := cellStyle(scr, 2, 1); got != st.Match.Reverse(true) {
		t.Error("match in selected suggestion not highlighted")
	}
	if got := cellStyle(scr, 4, 1); got != st.SelectedSuggestion {
		t.Error("selected suggestion not drawn with the selected style")
	}
}

func TestDraw_Regions(t *testing.T) {
	scr := newScreen(t)

	s := validSnapshot()
	s.Tags = []string{"go", "rust"}
	s.SuggestionsVisible = true
	s.Suggestions = []editor.Suggestion{{Text: "python", Segments: []suggest.Segment{{Text: "python"}}}}

	l := draw(scr, s, DefaultStyles(), "")

	tests := []struct {
		name      string
		x, y      int
		wantOK    bool
		wantKind  regionKind
		wantIndex int
	}{
		{"first tag", 1, 0, true, regionTag, 0},
		{"first remove", 4, 0, true, regionRemove, 0},
		{"gap between tags", 6, 0, false, 0, 0},
		{"second tag", 8, 0, true, regionTag, 1},
		{"second remove", 13, 0, true, regionRemove, 1},
		{"suggestion", 40, 1, true, regionSuggestion, 0},
		{"empty row", 3, 2, false, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, ok := l.hit(tt.x, tt.y)
			if ok != tt.wantOK {
				t.Fatalf("hit(%d, %d) ok = %v, want %v", tt.x, tt.y, ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if r.kind != tt.wantKind || r.index != tt.wantIndex {
				t.Errorf("hit(%d, %d) = kind %d index %d, want kind %d index %d",
					tt.x, tt.y, r.kind, r.index, tt.wantKind, tt.wantIndex)
			}
		})
	}
}

func TestDraw_Placeholder(t *testing.T) {
	scr := newScreen(t)
	st := DefaultStyles()

	s := validSnapshot()
	l := draw(scr, s, st, "")
	scr.Show()

	if got := row(scr, 0); got != "Add a tag" {
		t.Errorf("row 0 = %q, want placeholder", got)
	}
	if l.cursorX != 0 || l.cursorY != 0 {
		t.Errorf("cursor = (%d, %d), want (0, 0)", l.cursorX, l.cursorY)
	}
	if got := cellStyle(scr, 0, 0); got != st.Placeholder {
		t.Error("placeholder not drawn with the placeholder style")
	}
}

func TestDraw_DisabledHidesRemoveSymbol(t *testing.T) {
	scr := newScreen(t)

	s := validSnapshot()
	s.Tags = []string{"go"}
	s.Disabled = true
	l := draw(scr, s, DefaultStyles(), "")
	scr.Show()

	if got := row(scr, 0); got != " go" {
		t.Errorf("row 0 = %q, want %q", got, " go")
	}
	for _, r := range l.regions {
		if r.kind == regionRemove {
			t.Error("remove region present while disabled")
		}
	}
}

func TestDraw_Wraps(t *testing.T) {
	scr := newScreen(t)
	scr.SetSize(12, 5)

	s := validSnapshot()
	s.Tags = []string{"alpha", "beta"}
	s.RemoveTag = ""
	draw(scr, s, DefaultStyles(), "")
	scr.Show()

	if got := row(scr, 0); got != " alpha" {
		t.Errorf("row 0 = %q, want %q", got, " alpha")
	}
	if got := row(scr, 1); got != " beta" {
		t.Errorf("row 1 = %q, want %q", got, " beta")
	}
}

func TestDraw_InvalidText(t *testing.T) {
	scr := newScreen(t)
	st := DefaultStyles()

	s := validSnapshot()
	s.Text = "bad"
	s.Invalid = true
	draw(scr, s, st, "")
	scr.Show()

	if got := cellStyle(scr, 0, 0); got != st.Invalid {
		t.Error("invalid text not drawn with the invalid style")
	}
}

func TestStatusLine(t *testing.T) {
	tests := []struct {
		name     string
		tags     []string
		validity dispatcher.Validity
		want     string
	}{
		{"valid", []string{"a"}, dispatcher.Validity{MaxTags: true, MinTags: true, LeftoverText: true}, "1 tags · Ctrl-C to finish"},
		{"too many", []string{"a", "b"}, dispatcher.Validity{MinTags: true, LeftoverText: true}, "2 tags · too many tags · Ctrl-C to finish"},
		{"too few", nil, dispatcher.Validity{MaxTags: true, LeftoverText: true}, "0 tags · too few tags · Ctrl-C to finish"},
		{"leftover", nil, dispatcher.Validity{MaxTags: true, MinTags: true}, "0 tags · text not added · Ctrl-C to finish"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := editor.Snapshot{Tags: tt.tags, Validity: tt.validity}
			if got := statusLine(s); got != tt.want {
				t.Errorf("statusLine() = %q, want %q", got, tt.want)
			}
		})
	}
}
