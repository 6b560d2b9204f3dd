package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dshills/tagstorm/internal/config/attrs"
	"github.com/dshills/tagstorm/internal/config/options"
	"github.com/dshills/tagstorm/internal/event"
)

func TestDefaultTagsInput(t *testing.T) {
	ti := DefaultTagsInput()

	tests := []struct {
		name string
		got  any
		want any
	}{
		{"type", ti.Type(), "text"},
		{"placeholder", ti.Placeholder(), "Add a tag"},
		{"minLength", ti.MinLength(), 3},
		{"maxLength", ti.MaxLength(), MaxSafeInteger},
		{"maxTags", ti.MaxTags(), MaxSafeInteger},
		{"minTags", ti.MinTags(), 0},
		{"addOnEnter", ti.AddOnEnter(), true},
		{"addOnSpace", ti.AddOnSpace(), false},
		{"addOnComma", ti.AddOnComma(), true},
		{"addOnBlur", ti.AddOnBlur(), true},
		{"addOnPaste", ti.AddOnPaste(), false},
		{"replaceSpacesWithDashes", ti.ReplaceSpacesWithDashes(), true},
		{"displayProperty", ti.DisplayProperty(), "text"},
		{"keyField", ti.KeyField(), "text"},
		{"pasteSplitPattern", ti.PasteSplitPattern().String(), ","},
		{"allowedTagsPattern", ti.AllowedTagsPattern().String(), ".+"},
		{"spellcheck", ti.Spellcheck(), true},
		{"useStrings", ti.UseStrings(), false},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.want)
		}
	}
}

func TestDefaultAutocomplete(t *testing.T) {
	ac := DefaultAutocomplete()

	if got := ac.DebounceDelay(); got != 100*time.Millisecond {
		t.Errorf("DebounceDelay() = %v, want 100ms", got)
	}
	if got := ac.MinLength(); got != 3 {
		t.Errorf("MinLength() = %d, want 3", got)
	}
	if got := ac.MaxResultsToShow(); got != 10 {
		t.Errorf("MaxResultsToShow() = %d, want 10", got)
	}
	if !ac.SelectFirstMatch() || !ac.HighlightMatchedText() {
		t.Error("SelectFirstMatch/HighlightMatchedText default to false, want true")
	}
	if ac.LoadOnDownArrow() || ac.LoadOnEmpty() || ac.LoadOnFocus() {
		t.Error("loadOn* default to true, want false")
	}
}

func TestTagsInput_KeyField(t *testing.T) {
	v := options.NewValues(map[string]any{OptDisplayProperty: "label", OptKeyProperty: "id"})
	if got := NewTagsInput(v).KeyField(); got != "id" {
		t.Errorf("KeyField() = %q, want id", got)
	}
}

func TestTagsInputSchema_TypeValidator(t *testing.T) {
	src := attrs.NewSet(map[string]string{OptType: "password"})
	v, err := options.NewProvider().Load(DirectiveTagsInput, src, nil, TagsInputSchema())
	if err != nil {
		t.Fatal(err)
	}
	if got := NewTagsInput(v).Type(); got != "text" {
		t.Errorf("Type() = %q, want text", got)
	}
}

func TestConfig_SourceBeforeLoad(t *testing.T) {
	c := New(WithFile(filepath.Join(t.TempDir(), "x.toml")))
	if _, err := c.Source(DirectiveTagsInput); !errors.Is(err, ErrNotLoaded) {
		t.Errorf("Source() error = %v, want %v", err, ErrNotLoaded)
	}
	if _, err := c.Source("other"); !errors.Is(err, ErrUnknownDirective) {
		t.Errorf("Source(other) error = %v, want %v", err, ErrUnknownDirective)
	}
}

func TestConfig_MissingDefaultFile(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	c := New()
	if err := c.Load(context.Background()); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	defer c.Close()

	ti, err := c.LoadTagsInput(nil)
	if err != nil {
		t.Fatal(err)
	}
	if got := ti.MinLength(); got != 3 {
		t.Errorf("MinLength() = %d, want 3", got)
	}
}

func TestConfig_MissingExplicitFile(t *testing.T) {
	c := New(WithFile(filepath.Join(t.TempDir(), "nope.toml")))
	if err := c.Load(context.Background()); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Load() error = %v, want os.ErrNotExist", err)
	}
}

func TestConfig_OverridesAndDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tags.toml")
	content := "[tagsInput]\nminLength = 2\nplaceholder = \"From file\"\n[autoComplete]\ndebounceDelay = 5\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	c := New(
		WithFile(path),
		WithOverride(DirectiveTagsInput, OptPlaceholder, "From flag"),
		WithDefaults(DirectiveTagsInput, map[string]any{OptMaxTags: 4}),
	)
	if err := c.Load(context.Background()); err != nil {
		t.Fatal(err)
	}
	defer c.Close()

	ti, err := c.LoadTagsInput(nil)
	if err != nil {
		t.Fatal(err)
	}
	if got := ti.Placeholder(); got != "From flag" {
		t.Errorf("Placeholder() = %q, want override", got)
	}
	if got := ti.MinLength(); got != 2 {
		t.Errorf("MinLength() = %d, want 2", got)
	}
	if got := ti.MaxTags(); got != 4 {
		t.Errorf("MaxTags() = %d, want global default 4", got)
	}

	ac, err := c.LoadAutocomplete(nil)
	if err != nil {
		t.Fatal(err)
	}
	if got := ac.DebounceDelay(); got != 5*time.Millisecond {
		t.Errorf("DebounceDelay() = %v, want 5ms", got)
	}
}

func TestLayered_Observe(t *testing.T) {
	top := attrs.NewSet(map[string]string{"a": "top"})
	bottom := attrs.NewSet(map[string]string{"a": "bottom", "b": "1"})
	l := &layered{layers: []*attrs.Set{top, bottom}}

	var got []string
	sub := l.Observe("a", func(c attrs.Change) { got = append(got, c.Type.String()+":"+c.NewValue) })

	bottom.Set("a", "hidden", "")
	top.Set("a", "top2", "")
	top.Delete("a", "")
	bottom.Set("a", "visible", "")
	sub.Unsubscribe()
	bottom.Set("a", "after", "")

	want := []string{"set:top2", "set:hidden", "set:visible"}
	if len(got) != len(want) {
		t.Fatalf("observed %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("observed[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestConfig_LiveOption(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tags.toml")
	if err := os.WriteFile(path, []byte("[tagsInput]\nmaxTags = 3\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	c := New(WithFile(path), WithActive(DirectiveTagsInput, OptMaxTags))
	if err := c.Load(context.Background()); err != nil {
		t.Fatal(err)
	}

	bus := event.NewBus()
	changed := make(chan options.Change, 1)
	bus.On("option-change", event.Watch(func(ch options.Change) { changed <- ch }))

	ti, err := c.LoadTagsInput(bus)
	if err != nil {
		t.Fatal(err)
	}

	if err := os.WriteFile(path, []byte("[tagsInput]\nmaxTags = 8\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := c.file.Reload(); err != nil {
		t.Fatal(err)
	}

	select {
	case ch := <-changed:
		if ch.Name != OptMaxTags || ch.Value != 8 {
			t.Errorf("option-change = %+v, want maxTags=8", ch)
		}
	case <-time.After(time.Second):
		t.Fatal("no option-change published")
	}
	if got := ti.MaxTags(); got != 8 {
		t.Errorf("MaxTags() = %d, want 8", got)
	}
}
