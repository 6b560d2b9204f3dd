package options

import (
	"errors"
	"regexp"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/dshills/tagstorm/internal/config/attrs"
	"github.com/dshills/tagstorm/internal/event"
)

func testSchema() Schema {
	return Schema{
		"placeholder": {Kind: KindString, Default: "Add a tag"},
		"minLength":   {Kind: KindInt, Default: 3},
		"addOnSpace":  {Kind: KindBool, Default: false},
		"pattern":     {Kind: KindPattern, Default: regexp.MustCompile(".+")},
		"type": {Kind: KindString, Default: "text", Validate: func(raw string) bool {
			return raw == "text" || raw == "email" || raw == "url"
		}},
		"tabindex": {Kind: KindInt},
	}
}

func TestProvider_LoadConverts(t *testing.T) {
	src := attrs.NewSet(map[string]string{
		"placeholder": "Colour",
		"minLength":   "2",
		"addOnSpace":  "True",
		"pattern":     "^[a-z]+$",
		"type":        "email",
	})

	v, err := NewProvider().Load("tagsInput", src, nil, testSchema())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if got := v.String("placeholder"); got != "Colour" {
		t.Errorf("placeholder = %q, want Colour", got)
	}
	if got := v.Int("minLength"); got != 2 {
		t.Errorf("minLength = %d, want 2", got)
	}
	if !v.Bool("addOnSpace") {
		t.Error("addOnSpace = false, want true")
	}
	if got := v.Pattern("pattern").String(); got != "^[a-z]+$" {
		t.Errorf("pattern = %q", got)
	}
	if got := v.String("type"); got != "email" {
		t.Errorf("type = %q, want email", got)
	}
	if x, ok := v.Get("tabindex"); !ok || x != nil {
		t.Errorf("tabindex = (%v, %v), want (nil, true)", x, ok)
	}
}

func TestProvider_LoadFallbacks(t *testing.T) {
	src := attrs.NewSet(map[string]string{
		"type":      "password",
		"minLength": "",
		"pattern":   "([",
	})

	p := NewProvider().SetDefaults("tagsInput", map[string]any{
		"minLength": 5,
		"type":      "url",
	})

	v, err := p.Load("tagsInput", src, nil, testSchema())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	tests := []struct {
		name string
		got  any
		want any
	}{
		{"validator rejects -> global default", v.String("type"), "url"},
		{"empty -> global default", v.Int("minLength"), 5},
		{"missing -> local default", v.String("placeholder"), "Add a tag"},
		{"bad pattern -> local default", v.Pattern("pattern").String(), ".+"},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s: got %v, want %v", tt.name, tt.got, tt.want)
		}
	}
}

func TestProvider_DefaultsPerDirective(t *testing.T) {
	p := NewProvider().SetDefaults("autoComplete", map[string]any{"minLength": 1})

	v, err := p.Load("tagsInput", nil, nil, testSchema())
	if err != nil {
		t.Fatal(err)
	}
	if got := v.Int("minLength"); got != 3 {
		t.Errorf("minLength = %d, want 3 (other directive's default ignored)", got)
	}
}

func TestProvider_LoadUnknownKind(t *testing.T) {
	schema := Schema{"weird": {Kind: Kind(42)}}

	_, err := NewProvider().Load("tagsInput", nil, nil, schema)
	if !errors.Is(err, ErrUnknownKind) {
		t.Fatalf("Load() error = %v, want %v", err, ErrUnknownKind)
	}
	var ce *ConfigError
	if !errors.As(err, &ce) || ce.Option != "weird" || ce.Directive != "tagsInput" {
		t.Errorf("Load() error = %#v, want *ConfigError for tagsInput.weird", err)
	}
}

func TestProvider_LoadMistypedDefaults(t *testing.T) {
	local := Schema{"minLength": {Kind: KindInt, Default: "3"}}
	if _, err := NewProvider().Load("d", nil, nil, local); !errors.Is(err, ErrDefaultType) {
		t.Errorf("local: Load() error = %v, want %v", err, ErrDefaultType)
	}

	global := NewProvider().SetDefaults("d", map[string]any{"minLength": true})
	if _, err := global.Load("d", nil, nil, Schema{"minLength": {Kind: KindInt, Default: 3}}); !errors.Is(err, ErrDefaultType) {
		t.Errorf("global: Load() error = %v, want %v", err, ErrDefaultType)
	}
}

func TestProvider_MustLoadPanics(t *testing.T) {
	defer func() {
		r := recover()
		err, ok := r.(error)
		if !ok || !errors.Is(err, ErrUnknownKind) {
			t.Errorf("recover() = %v, want ErrUnknownKind", r)
		}
	}()
	NewProvider().MustLoad("d", nil, nil, Schema{"x": {}})
}

func TestProvider_ActiveInterpolation(t *testing.T) {
	src := attrs.NewSet(map[string]string{"minLength": "2", "placeholder": "a"})
	bus := event.NewBus()

	var changes []Change
	bus.On("option-change", event.Watch(func(c Change) { changes = append(changes, c) }))

	p := NewProvider().SetActiveInterpolation("tagsInput", "minLength")
	if !p.ActiveInterpolation("tagsInput", "minLength") {
		t.Fatal("ActiveInterpolation() = false")
	}

	var queued []func()
	v, err := p.Load("tagsInput", src, bus, testSchema(), WithExecutor(func(task func()) {
		queued = append(queued, task)
	}))
	if err != nil {
		t.Fatal(err)
	}
	defer v.Close()

	src.Set("minLength", "7", "test")
	src.Set("placeholder", "b", "test")

	if got := v.Int("minLength"); got != 2 {
		t.Errorf("minLength = %d before executor ran, want 2", got)
	}
	if len(queued) != 1 {
		t.Fatalf("queued %d tasks, want 1", len(queued))
	}
	queued[0]()

	if got := v.Int("minLength"); got != 7 {
		t.Errorf("minLength = %d, want 7", got)
	}
	if got := v.String("placeholder"); got != "a" {
		t.Errorf("placeholder = %q, want a (not observed)", got)
	}

	want := []Change{{Name: "minLength", Raw: "7", Value: 7}}
	if diff := cmp.Diff(want, changes); diff != "" {
		t.Errorf("option-change mismatch (-want +got):\n%s", diff)
	}

	src.Delete("minLength", "test")
	queued[1]()
	if got := v.Int("minLength"); got != 3 {
		t.Errorf("minLength = %d after delete, want 3", got)
	}
}

func TestValues_Close(t *testing.T) {
	src := attrs.NewSet(nil)
	p := NewProvider().SetActiveInterpolation("d", "x")

	v, err := p.Load("d", src, nil, Schema{"x": {Kind: KindString, Default: "a"}})
	if err != nil {
		t.Fatal(err)
	}
	v.Close()
	src.Set("x", "b", "")

	if got := v.String("x"); got != "a" {
		t.Errorf("x = %q after Close, want a", got)
	}
}

func TestValues_TypedGettersMismatch(t *testing.T) {
	v := NewValues(map[string]any{"n": "not an int"})
	if got := v.Int("n"); got != 0 {
		t.Errorf("Int() = %d, want 0", got)
	}
	if got := v.Pattern("missing"); got != nil {
		t.Errorf("Pattern() = %v, want nil", got)
	}
	if diff := cmp.Diff([]string{"n"}, v.Names()); diff != "" {
		t.Errorf("Names() mismatch (-want +got):\n%s", diff)
	}
}
