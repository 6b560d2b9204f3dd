package dispatcher

import (
	"unicode/utf8"

	"github.com/dshills/tagstorm/internal/config"
	"github.com/dshills/tagstorm/internal/config/options"
	"github.com/dshills/tagstorm/internal/event"
	"github.com/dshills/tagstorm/internal/input"
	"github.com/dshills/tagstorm/internal/input/key"
	"github.com/dshills/tagstorm/internal/logging"
	"github.com/dshills/tagstorm/internal/runloop"
	"github.com/dshills/tagstorm/internal/suggest"
	"github.com/dshills/tagstorm/internal/tags"
)

// Dispatcher routes input notifications to the tag collection and the
// suggestion engine through the bus.
type Dispatcher struct {
	loop   *runloop.Loop
	bus    *event.Bus
	text   *input.Text
	tags   *tags.Collection
	engine *suggest.Engine

	tagOpts config.TagsInput
	acOpts  config.Autocomplete

	logger *logging.Logger

	disabled bool
	focused  bool
	validity Validity

	stats Stats
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(d *Dispatcher) {
		if l != nil {
			d.logger = l
		}
	}
}

// WithDisabled starts the dispatcher disabled.
func WithDisabled(disabled bool) Option {
	return func(d *Dispatcher) {
		d.disabled = disabled
	}
}

// New creates a dispatcher and registers its handlers on bus. engine may
// be nil, in which case no autocomplete handlers are registered and acOpts
// is ignored.
func New(loop *runloop.Loop, bus *event.Bus, text *input.Text, collection *tags.Collection, engine *suggest.Engine,
	tagOpts config.TagsInput, acOpts config.Autocomplete, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		loop:    loop,
		bus:     bus,
		text:    text,
		tags:    collection,
		engine:  engine,
		tagOpts: tagOpts,
		acOpts:  acOpts,
		logger:  logging.Nop(),
	}
	for _, opt := range opts {
		opt(d)
	}
	d.logger = d.logger.WithComponent("dispatcher")
	d.validity = d.compute()

	d.registerTagHandlers()
	if engine != nil {
		d.registerAutocompleteHandlers()
	}
	return d
}

func (d *Dispatcher) registerTagHandlers() {
	d.bus.
		On("tag-added", event.Always(func() { d.text.Set("") })).
		On("tag-added tag-removed", event.Always(d.Revalidate)).
		On("invalid-tag", event.Always(func() { d.text.SetInvalid(true) })).
		On("option-change", event.Watch(func(c options.Change) {
			switch c.Name {
			case config.OptMinTags, config.OptMaxTags, config.OptAllowLeftoverText:
				d.Revalidate()
			}
		})).
		On("input-change", event.Always(func() {
			d.tags.ClearSelection()
			d.text.SetInvalid(false)
		})).
		On("input-focus", event.Always(d.Revalidate)).
		On("input-blur", event.Always(func() {
			if d.tagOpts.AddOnBlur() && !d.tagOpts.AddFromAutocompleteOnly() {
				d.tags.AddText(d.text.String())
			}
			d.Revalidate()
		})).
		On("input-keydown", event.Typed(d.onTagKey)).
		On("input-paste", event.Watch(d.onPaste))
}

func (d *Dispatcher) registerAutocompleteHandlers() {
	first := event.Prioritized()
	d.bus.
		On("tag-added tag-removed invalid-tag input-blur", event.Always(d.engine.Reset), first).
		On("input-change", event.Watch(func(value string) {
			if d.shouldLoad(value) {
				d.engine.Load(value, d.tags.Items())
			} else {
				d.engine.Reset()
			}
		}), first).
		On("input-focus", event.Always(func() {
			value := d.text.String()
			if d.acOpts.LoadOnFocus() && d.shouldLoad(value) {
				d.engine.Load(value, d.tags.Items())
			}
		}), first).
		On("input-keydown", event.Typed(d.onSuggestionKey), first)
}

// shouldLoad reports whether value qualifies as a suggestion query.
func (d *Dispatcher) shouldLoad(value string) bool {
	if value == "" {
		return d.acOpts.LoadOnEmpty()
	}
	return utf8.RuneCountInString(value) >= d.acOpts.MinLength()
}

// onTagKey fires at most one of add, edit last tag, remove selected and
// move selection, in that order.
func (d *Dispatcher) onTagKey(p *KeyPress) event.Result {
	if p.Event.IsModified() {
		return event.Continue
	}
	hk, ok := p.Event.Hotkey()
	if !ok {
		return event.Continue
	}

	var addKey bool
	switch hk {
	case key.HotkeyEnter:
		addKey = d.tagOpts.AddOnEnter()
	case key.HotkeyComma:
		addKey = d.tagOpts.AddOnComma()
	case key.HotkeySpace:
		addKey = d.tagOpts.AddOnSpace()
	case key.HotkeyBackspace, key.HotkeyDelete, key.HotkeyLeft, key.HotkeyRight:
	default:
		return event.Continue
	}

	backspace := hk == key.HotkeyBackspace
	empty := d.text.Empty()
	editLast := d.tagOpts.EnableEditingLastTag()

	switch {
	case addKey && !d.tagOpts.AddFromAutocompleteOnly():
		d.tags.AddText(d.text.String())
	case backspace && empty && editLast:
		d.tags.SelectPrior()
		field := d.tagOpts.DisplayProperty()
		d.tags.RemoveSelected().Then(d.loop, func(t tags.Tag) {
			if t != nil {
				d.text.Set(t[field])
			}
		})
	case (backspace || hk == key.HotkeyDelete) && d.tags.Selected() != nil:
		d.tags.RemoveSelected()
	case (backspace || hk == key.HotkeyLeft) && empty && !editLast:
		d.tags.SelectPrior()
	case hk == key.HotkeyRight && empty && !editLast:
		d.tags.SelectNext()
	default:
		return event.Continue
	}

	p.PreventDefault()
	return event.Continue
}

// onSuggestionKey consumes navigation keys while the panel is visible and
// vetoes the press so the tag handlers do not see it.
func (d *Dispatcher) onSuggestionKey(p *KeyPress) event.Result {
	if p.Event.IsModified() {
		return event.Continue
	}
	hk, ok := p.Event.Hotkey()
	if !ok {
		return event.Continue
	}

	handled := false
	switch {
	case d.engine.Visible():
		switch hk {
		case key.HotkeyDown:
			d.engine.SelectNext()
			handled = true
		case key.HotkeyUp:
			d.engine.SelectPrior()
			handled = true
		case key.HotkeyEscape:
			d.engine.Reset()
			handled = true
		case key.HotkeyEnter, key.HotkeyTab:
			handled = d.AddSuggestion()
		}
	case hk == key.HotkeyDown && d.acOpts.LoadOnDownArrow():
		d.engine.Load(d.text.String(), d.tags.Items())
		handled = true
	}

	if !handled {
		return event.Continue
	}
	p.PreventDefault()
	return event.Veto
}

func (d *Dispatcher) onPaste(p *Paste) {
	if !d.tagOpts.AddOnPaste() {
		return
	}
	re := d.tagOpts.PasteSplitPattern()
	if re == nil {
		return
	}
	parts := re.Split(p.Text, -1)
	if len(parts) < 2 {
		return
	}
	for _, part := range parts {
		d.tags.AddText(part)
	}
	p.PreventDefault()
}

// Press reports a key press and, unless a handler handled it, applies the
// default input behavior: a typed rune is appended to the text and
// backspace deletes the last rune. It reports whether the default was
// suppressed. A disabled dispatcher ignores the press.
func (d *Dispatcher) Press(ev key.Event) bool {
	if d.disabled {
		return false
	}
	if d.KeyDown(ev) {
		return true
	}

	switch {
	case ev.IsRune() && ev.Modifiers&^key.ModShift == key.ModNone:
		d.text.Insert(string(ev.Rune))
	case ev.Key == key.KeyBackspace && !ev.IsModified():
		d.text.DeleteBackward()
	}
	return false
}

// KeyDown publishes input-keydown for ev without applying any default
// behavior. It reports whether a handler handled the press.
func (d *Dispatcher) KeyDown(ev key.Event) bool {
	d.stats.Keys++
	p := &KeyPress{Event: ev}
	if !d.bus.Trigger(event.TopicInputKeyDown, p) {
		d.stats.Vetoed++
		d.stats.Prevented++
		return true
	}
	if p.Prevented() {
		d.stats.Prevented++
		return true
	}
	return false
}

// Type presses every rune of s in turn.
func (d *Dispatcher) Type(s string) {
	for _, r := range s {
		d.Press(key.Rune(r))
	}
}

// SetText replaces the input text, as when the host binds a new value.
func (d *Dispatcher) SetText(s string) {
	d.text.Set(s)
}

// Text returns the input text.
func (d *Dispatcher) Text() string {
	return d.text.String()
}

// Paste reports pasted text. Unless a handler consumed it the text is
// appended to the input. It reports whether the default was suppressed.
func (d *Dispatcher) Paste(s string) bool {
	if d.disabled {
		return false
	}
	d.stats.Pastes++
	p := &Paste{Text: s}
	if !d.bus.Trigger(event.TopicInputPaste, p) || p.Prevented() {
		return true
	}
	d.text.Insert(s)
	return false
}

// Focus reports the input gaining focus. Repeated calls are ignored until
// Blur.
func (d *Dispatcher) Focus() {
	if d.focused || d.disabled {
		return
	}
	d.focused = true
	d.bus.Trigger(event.TopicInputFocus, nil)
}

// Blur reports the input losing focus. It is ignored when the input is not
// focused.
func (d *Dispatcher) Blur() {
	if !d.focused {
		return
	}
	d.focused = false
	d.bus.Trigger(event.TopicInputBlur, nil)
}

// Focused reports whether the input has focus.
func (d *Dispatcher) Focused() bool {
	return d.focused
}

// AddSuggestion adds a copy of the selected suggestion and resets the
// panel. It reports false when no suggestion is selected.
func (d *Dispatcher) AddSuggestion() bool {
	if d.engine == nil {
		return false
	}
	selected := d.engine.Selected()
	if selected == nil {
		return false
	}
	d.tags.Add(selected.Clone())
	d.engine.Reset()
	return true
}

// AddSuggestionByIndex selects suggestion i and adds it.
func (d *Dispatcher) AddSuggestionByIndex(i int) bool {
	if d.engine == nil {
		return false
	}
	d.engine.Select(i)
	return d.AddSuggestion()
}

// RemoveAt removes the tag at i, as when its remove symbol is clicked.
// It is ignored while disabled.
func (d *Dispatcher) RemoveAt(i int) *runloop.Future[tags.Tag] {
	if d.disabled {
		f := runloop.NewFuture[tags.Tag]()
		f.Resolve(nil)
		return f
	}
	return d.tags.Remove(i)
}

// Click publishes tag-clicked for the tag at i.
func (d *Dispatcher) Click(i int) {
	d.tags.Click(i)
}

// SetDisabled enables or disables input handling.
func (d *Dispatcher) SetDisabled(disabled bool) {
	d.disabled = disabled
}

// Disabled reports whether input handling is disabled.
func (d *Dispatcher) Disabled() bool {
	return d.disabled
}

// Validity returns the current validity flags.
func (d *Dispatcher) Validity() Validity {
	return d.validity
}

// Revalidate recomputes the validity flags and publishes validity-change
// when they differ from the previous ones.
func (d *Dispatcher) Revalidate() {
	v := d.compute()
	if v == d.validity {
		return
	}
	d.validity = v
	d.logger.Debug("validity changed: %+v", v)
	d.bus.Trigger(event.TopicValidityChange, v)
}

// Stats returns activity counters.
func (d *Dispatcher) Stats() Stats {
	return d.stats
}

func (d *Dispatcher) compute() Validity {
	n := d.tags.Len()
	return Validity{
		MaxTags:      n <= d.tagOpts.MaxTags(),
		MinTags:      n >= d.tagOpts.MinTags(),
		LeftoverText: d.focused || d.tagOpts.AllowLeftoverText() || d.text.Empty(),
	}
}
