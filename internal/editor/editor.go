// Package editor assembles one tag editor instance: its run loop, event
// bus, input text, tag collection, suggestion engine and input dispatcher.
//
// Instances share nothing but the process-level configuration. Each gets
// its own bus and loop, so handlers registered on one never see the events
// of another.
package editor

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dshills/tagstorm/internal/config"
	"github.com/dshills/tagstorm/internal/config/options"
	"github.com/dshills/tagstorm/internal/dispatcher"
	"github.com/dshills/tagstorm/internal/event"
	"github.com/dshills/tagstorm/internal/gate"
	"github.com/dshills/tagstorm/internal/input"
	"github.com/dshills/tagstorm/internal/input/key"
	"github.com/dshills/tagstorm/internal/logging"
	"github.com/dshills/tagstorm/internal/plugin/lua"
	"github.com/dshills/tagstorm/internal/runloop"
	"github.com/dshills/tagstorm/internal/suggest"
	"github.com/dshills/tagstorm/internal/tags"
)

// settlePoll is the interval at which Settle re-checks pending work.
const settlePoll = 2 * time.Millisecond

// Editor is a single tag editor instance.
type Editor struct {
	id     uuid.UUID
	loop   *runloop.Loop
	bus    *event.Bus
	logger *logging.Logger

	ctx    context.Context
	cancel context.CancelFunc

	tagOpts config.TagsInput
	acOpts  config.Autocomplete

	text       *input.Text
	tags       *tags.Collection
	engine     *suggest.Engine
	dispatcher *dispatcher.Dispatcher

	scripts   []*lua.Script
	closeOnce sync.Once
	closeErr  error
}

type settings struct {
	logger      *logging.Logger
	source      suggest.Source
	addGates    []gate.Func[tags.Tag]
	removeGates []gate.Func[tags.Tag]
	scripts     []*lua.Script
	items       []string
	disabled    bool
}

// Option configures an Editor.
type Option func(*settings)

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(s *settings) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithSource enables autocomplete backed by src.
func WithSource(src suggest.Source) Option {
	return func(s *settings) {
		s.source = src
	}
}

// WithAddGate adds a gate consulted before a tag is added. Every gate
// must allow.
func WithAddGate(g gate.Func[tags.Tag]) Option {
	return func(s *settings) {
		if g != nil {
			s.addGates = append(s.addGates, g)
		}
	}
}

// WithRemoveGate adds a gate consulted before a tag is removed.
func WithRemoveGate(g gate.Func[tags.Tag]) Option {
	return func(s *settings) {
		if g != nil {
			s.removeGates = append(s.removeGates, g)
		}
	}
}

// WithScript installs the hooks a Lua script defines: its gates, and its
// suggestion source when no other source was set. The editor closes the
// script when it is closed.
func WithScript(script *lua.Script) Option {
	return func(s *settings) {
		if script != nil {
			s.scripts = append(s.scripts, script)
		}
	}
}

// WithItems sets the initial tags.
func WithItems(values ...string) Option {
	return func(s *settings) {
		s.items = append(s.items, values...)
	}
}

// WithDisabled starts the editor with input disabled.
func WithDisabled(disabled bool) Option {
	return func(s *settings) {
		s.disabled = disabled
	}
}

// New builds an editor from cfg, which must already be loaded. Option
// changes observed by cfg are applied on the editor's loop.
func New(cfg *config.Config, opts ...Option) (*Editor, error) {
	s := settings{logger: logging.Nop()}
	for _, opt := range opts {
		opt(&s)
	}
	for _, script := range s.scripts {
		s.addGates = appendGate(s.addGates, script.AddGate())
		s.removeGates = appendGate(s.removeGates, script.RemoveGate())
		if s.source == nil {
			s.source = script.Source()
		}
	}

	id := uuid.New()
	logger := s.logger.WithField("editor", id.String())

	loop := runloop.New(runloop.WithPanicHandler(func(r any, stack []byte) {
		logger.Error("editor task panicked: %v\n%s", r, stack)
	}))
	bus := event.NewBus()
	onLoop := options.WithExecutor(func(task func()) { loop.Post(task) })

	tagOpts, err := cfg.LoadTagsInput(bus, onLoop)
	if err != nil {
		return nil, fmt.Errorf("loading %s options: %w", config.DirectiveTagsInput, err)
	}
	acOpts, err := cfg.LoadAutocomplete(bus, onLoop)
	if err != nil {
		tagOpts.Values().Close()
		return nil, fmt.Errorf("loading %s options: %w", config.DirectiveAutoComplete, err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	e := &Editor{
		id:      id,
		loop:    loop,
		bus:     bus,
		logger:  logger.WithComponent("editor"),
		ctx:     ctx,
		cancel:  cancel,
		tagOpts: tagOpts,
		acOpts:  acOpts,
		scripts: s.scripts,
	}

	e.text = input.NewText(bus)
	e.tags = tags.NewCollection(loop, bus, tagOpts,
		tags.WithAddGate(combine(s.addGates)),
		tags.WithRemoveGate(combine(s.removeGates)),
		tags.WithContext(ctx),
		tags.WithLogger(logger),
	)
	if s.source != nil {
		e.engine = suggest.NewEngine(loop, bus, s.source, tagOpts, acOpts,
			suggest.WithContext(ctx),
			suggest.WithLogger(logger),
		)
	}
	e.dispatcher = dispatcher.New(loop, bus, e.text, e.tags, e.engine, tagOpts, acOpts,
		dispatcher.WithLogger(logger),
		dispatcher.WithDisabled(s.disabled),
	)

	// The loop is not running yet, so nothing else can touch the
	// collection.
	if len(s.items) > 0 {
		e.tags.SetStrings(s.items)
		e.dispatcher.Revalidate()
	}
	return e, nil
}

func appendGate(gates []gate.Func[tags.Tag], g gate.Func[tags.Tag]) []gate.Func[tags.Tag] {
	if g == nil {
		return gates
	}
	return append(gates, g)
}

func combine(gates []gate.Func[tags.Tag]) gate.Func[tags.Tag] {
	switch len(gates) {
	case 0:
		return nil
	case 1:
		return gates[0]
	default:
		return gate.All(gates...)
	}
}

// ID returns the instance identity.
func (e *Editor) ID() uuid.UUID { return e.id }

// Bus returns the instance's event bus.
func (e *Editor) Bus() *event.Bus { return e.bus }

// Autocomplete reports whether a suggestion source is installed.
func (e *Editor) Autocomplete() bool { return e.engine != nil }

// Start runs the editor's loop.
func (e *Editor) Start() error {
	if err := e.loop.Start(); err != nil {
		return err
	}
	e.logger.Debug("editor started")
	return nil
}

// Close stops the loop, cancels pending gates and fetches, and releases
// option observers and scripts. It is safe to call more than once.
func (e *Editor) Close(ctx context.Context) error {
	e.closeOnce.Do(func() {
		e.cancel()

		var errs []error
		if err := e.loop.Stop(ctx); err != nil && !errors.Is(err, runloop.ErrNotRunning) {
			errs = append(errs, err)
		}
		e.tagOpts.Values().Close()
		e.acOpts.Values().Close()
		for _, s := range e.scripts {
			if err := s.Close(); err != nil {
				errs = append(errs, fmt.Errorf("closing script %s: %w", s.Name(), err))
			}
		}
		e.closeErr = errors.Join(errs...)
		e.logger.Debug("editor closed")
	})
	return e.closeErr
}

// Do runs fn on the editor's loop with the dispatcher and waits for it.
func (e *Editor) Do(ctx context.Context, fn func(d *dispatcher.Dispatcher)) error {
	return e.loop.Do(ctx, func() { fn(e.dispatcher) })
}

// Press reports a key press. It returns whether the default behavior was
// suppressed.
func (e *Editor) Press(ctx context.Context, ev key.Event) (bool, error) {
	var prevented bool
	err := e.Do(ctx, func(d *dispatcher.Dispatcher) { prevented = d.Press(ev) })
	return prevented, err
}

// Feed presses every event in order, in a single loop task.
func (e *Editor) Feed(ctx context.Context, events []key.Event) error {
	return e.Do(ctx, func(d *dispatcher.Dispatcher) {
		for _, ev := range events {
			d.Press(ev)
		}
	})
}

// Paste reports pasted text.
func (e *Editor) Paste(ctx context.Context, text string) error {
	return e.Do(ctx, func(d *dispatcher.Dispatcher) { d.Paste(text) })
}

// Focus reports the input gaining focus.
func (e *Editor) Focus(ctx context.Context) error {
	return e.Do(ctx, func(d *dispatcher.Dispatcher) { d.Focus() })
}

// Blur reports the input losing focus.
func (e *Editor) Blur(ctx context.Context) error {
	return e.Do(ctx, func(d *dispatcher.Dispatcher) { d.Blur() })
}

// Settle waits until no add, remove or suggestion load is outstanding.
func (e *Editor) Settle(ctx context.Context) error {
	ticker := time.NewTicker(settlePoll)
	defer ticker.Stop()

	for {
		var busy bool
		err := e.loop.Do(ctx, func() {
			busy = e.tags.Pending() > 0 || (e.engine != nil && e.engine.Pending())
		})
		if err != nil {
			return err
		}
		if !busy {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
