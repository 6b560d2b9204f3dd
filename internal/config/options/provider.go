package options

import (
	"fmt"
	"sort"
	"sync"

	"github.com/dshills/tagstorm/internal/config/attrs"
	"github.com/dshills/tagstorm/internal/event"
	"github.com/dshills/tagstorm/internal/logging"
)

// Definition is one schema entry.
type Definition struct {
	// Kind selects the converter.
	Kind Kind

	// Default is the local default, used when neither the attribute nor a
	// global default supplies a value. It must be a value of Kind or nil.
	Default any

	// Validate accepts or rejects the raw attribute value. nil accepts
	// everything.
	Validate func(raw string) bool
}

// Schema maps option names to their definitions.
type Schema map[string]Definition

// Change is the payload of option-change.
type Change struct {
	// Name is the option that was re-resolved.
	Name string

	// Raw is the new raw attribute value, empty when it was removed.
	Raw string

	// Value is the resolved value now in effect.
	Value any
}

// Executor runs a task, typically on the editor's run loop.
type Executor func(task func())

// Provider holds process-level option configuration: global defaults and
// the set of actively interpolated options, both per directive.
type Provider struct {
	mu       sync.RWMutex
	defaults map[string]map[string]any
	active   map[string]map[string]bool
	logger   *logging.Logger
}

// ProviderOption configures a Provider.
type ProviderOption func(*Provider)

// WithLogger sets the provider's logger.
func WithLogger(l *logging.Logger) ProviderOption {
	return func(p *Provider) {
		if l != nil {
			p.logger = l
		}
	}
}

// NewProvider creates a provider with no global defaults.
func NewProvider(opts ...ProviderOption) *Provider {
	p := &Provider{
		defaults: make(map[string]map[string]any),
		active:   make(map[string]map[string]bool),
		logger:   logging.Nop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.logger = p.logger.WithComponent("options")
	return p
}

// SetDefaults replaces the global defaults of a directive. Values must be
// typed (string, int, bool, *regexp.Regexp) to match the schema kinds;
// a mismatch is reported by Load.
func (p *Provider) SetDefaults(directive string, defaults map[string]any) *Provider {
	m := make(map[string]any, len(defaults))
	for k, v := range defaults {
		m[k] = v
	}
	p.mu.Lock()
	p.defaults[directive] = m
	p.mu.Unlock()
	return p
}

// SetActiveInterpolation replaces the set of options of a directive that
// are kept live after load.
func (p *Provider) SetActiveInterpolation(directive string, names ...string) *Provider {
	m := make(map[string]bool, len(names))
	for _, n := range names {
		m[n] = true
	}
	p.mu.Lock()
	p.active[directive] = m
	p.mu.Unlock()
	return p
}

// ActiveInterpolation reports whether name is kept live for directive.
func (p *Provider) ActiveInterpolation(directive, name string) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.active[directive][name]
}

// LoadOption configures a single Load.
type LoadOption func(*loadConfig)

type loadConfig struct {
	exec Executor
}

// WithExecutor runs re-resolution and the option-change publish through
// exec. Without it they run on the goroutine that changed the attribute.
func WithExecutor(exec Executor) LoadOption {
	return func(c *loadConfig) {
		if exec != nil {
			c.exec = exec
		}
	}
}

// Load resolves every option of schema for directive from src. Options
// registered for active interpolation are observed when src implements
// attrs.Observable, and every later change is republished on bus as
// option-change with a Change payload.
//
// An unknown kind or a mistyped default is a configuration fault reported
// as *ConfigError; nothing is silently coerced.
func (p *Provider) Load(directive string, src attrs.Source, bus *event.Bus, schema Schema, opts ...LoadOption) (*Values, error) {
	cfg := loadConfig{exec: func(task func()) { task() }}
	for _, opt := range opts {
		opt(&cfg)
	}

	names := make([]string, 0, len(schema))
	for name := range schema {
		names = append(names, name)
	}
	sort.Strings(names)

	p.mu.RLock()
	globals := p.defaults[directive]
	active := p.active[directive]
	p.mu.RUnlock()

	for _, name := range names {
		def := schema[name]
		if !def.Kind.Valid() {
			return nil, &ConfigError{Directive: directive, Option: name, Err: fmt.Errorf("%w: %s", ErrUnknownKind, def.Kind)}
		}
		if !def.Kind.Accepts(def.Default) {
			return nil, &ConfigError{Directive: directive, Option: name, Err: fmt.Errorf("%w: local default %T for %s", ErrDefaultType, def.Default, def.Kind)}
		}
		if g, ok := globals[name]; ok && !def.Kind.Accepts(g) {
			return nil, &ConfigError{Directive: directive, Option: name, Err: fmt.Errorf("%w: global default %T for %s", ErrDefaultType, g, def.Kind)}
		}
	}

	values := NewValues(nil)
	observable, _ := src.(attrs.Observable)
	logger := p.logger.WithField("directive", directive)

	for _, name := range names {
		name, def := name, schema[name]
		resolve := func(raw string) any {
			return p.resolve(logger, name, def, globals, raw)
		}

		raw := lookup(src, name)
		values.Set(name, resolve(raw))

		if !active[name] || observable == nil {
			continue
		}
		sub := observable.Observe(name, func(c attrs.Change) {
			cfg.exec(func() {
				v := resolve(c.NewValue)
				values.Set(name, v)
				logger.Debug("option %s re-resolved to %v", name, v)
				if bus != nil {
					bus.Trigger(event.TopicOptionChange, Change{Name: name, Raw: c.NewValue, Value: v})
				}
			})
		})
		values.track(sub)
	}

	return values, nil
}

// MustLoad is like Load but panics on a configuration fault.
func (p *Provider) MustLoad(directive string, src attrs.Source, bus *event.Bus, schema Schema, opts ...LoadOption) *Values {
	v, err := p.Load(directive, src, bus, schema, opts...)
	if err != nil {
		panic(err)
	}
	return v
}

func (p *Provider) resolve(logger *logging.Logger, name string, def Definition, globals map[string]any, raw string) any {
	if raw != "" && (def.Validate == nil || def.Validate(raw)) {
		v, err := def.Kind.Convert(raw)
		if err == nil {
			return v
		}
		logger.Warn("option %s: %v, using default", name, err)
	}
	if g, ok := globals[name]; ok {
		return g
	}
	return def.Default
}

func lookup(src attrs.Source, name string) string {
	if src == nil {
		return ""
	}
	raw, _ := src.Lookup(name)
	return raw
}
