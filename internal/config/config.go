package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/dshills/tagstorm/internal/config/attrs"
	"github.com/dshills/tagstorm/internal/config/options"
	"github.com/dshills/tagstorm/internal/event"
	"github.com/dshills/tagstorm/internal/logging"
)

// DefaultFileName is the attribute file looked up in the user config dir.
const DefaultFileName = "tags.toml"

// Config owns the attribute sources and the options provider shared by
// the editor instances of a process.
type Config struct {
	mu sync.RWMutex

	provider *options.Provider
	logger   *logging.Logger

	// Attribute file and its watcher, nil when no file was found.
	file    *attrs.File
	watcher *attrs.Watcher

	// Flag-level overrides per directive, consulted before the file.
	overrides map[string]*attrs.Set

	path          string
	explicitPath  bool
	enableWatcher bool
	loaded        bool
}

// Option configures a Config instance.
type Option func(*Config)

// WithFile sets the attribute file. An explicit file must exist.
func WithFile(path string) Option {
	return func(c *Config) {
		if path != "" {
			c.path = path
			c.explicitPath = true
		}
	}
}

// WithWatcher enables file watching for live reload.
func WithWatcher(enable bool) Option {
	return func(c *Config) {
		c.enableWatcher = enable
	}
}

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(c *Config) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithOverride sets a raw attribute for a directive, taking precedence
// over the file.
func WithOverride(directive, name, value string) Option {
	return func(c *Config) {
		s, ok := c.overrides[directive]
		if !ok {
			s = attrs.NewSet(nil)
			c.overrides[directive] = s
		}
		s.Set(name, value, "override")
	}
}

// WithDefaults registers global defaults for a directive.
func WithDefaults(directive string, defaults map[string]any) Option {
	return func(c *Config) {
		c.provider.SetDefaults(directive, defaults)
	}
}

// WithActive keeps the named options of a directive live.
func WithActive(directive string, names ...string) Option {
	return func(c *Config) {
		c.provider.SetActiveInterpolation(directive, names...)
	}
}

// New creates a new Config instance with the given options.
func New(opts ...Option) *Config {
	c := &Config{
		provider:  options.NewProvider(),
		logger:    logging.Nop(),
		overrides: make(map[string]*attrs.Set),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.path == "" {
		c.path = filepath.Join(defaultUserConfigDir(), DefaultFileName)
	}
	c.logger = c.logger.WithComponent("config")
	return c
}

// Load reads the attribute file and starts the watcher if enabled. A
// missing default file is not an error.
func (c *Config) Load(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	f, err := attrs.LoadFile(c.path)
	switch {
	case err == nil:
		c.file = f
		c.logger.Debug("loaded attributes from %s", c.path)
	case errors.Is(err, os.ErrNotExist) && !c.explicitPath:
		c.logger.Debug("no attribute file at %s", c.path)
	default:
		return err
	}

	if c.file != nil && c.enableWatcher {
		w, err := attrs.Watch(c.file, attrs.WithLogger(c.logger))
		if err != nil {
			return fmt.Errorf("watching %s: %w", c.path, err)
		}
		c.watcher = w
	}

	c.loaded = true
	return nil
}

// Close shuts down the watcher.
func (c *Config) Close() {
	c.mu.Lock()
	w := c.watcher
	c.watcher = nil
	c.mu.Unlock()

	if w != nil {
		_ = w.Close()
	}
}

// Path returns the attribute file path.
func (c *Config) Path() string {
	return c.path
}

// Provider returns the options provider.
func (c *Config) Provider() *options.Provider {
	return c.provider
}

// Source returns the raw attributes of a directive: overrides first, then
// the file.
func (c *Config) Source(directive string) (attrs.Source, error) {
	if directive != DirectiveTagsInput && directive != DirectiveAutoComplete {
		return nil, fmt.Errorf("%w: %s", ErrUnknownDirective, directive)
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	if !c.loaded {
		return nil, ErrNotLoaded
	}

	var layers []*attrs.Set
	if s, ok := c.overrides[directive]; ok {
		layers = append(layers, s)
	}
	if c.file != nil {
		layers = append(layers, c.file.Directive(directive))
	}
	return &layered{layers: layers}, nil
}

// LoadTagsInput resolves the tagsInput options, publishing option-change
// on bus.
func (c *Config) LoadTagsInput(bus *event.Bus, opts ...options.LoadOption) (TagsInput, error) {
	v, err := c.load(DirectiveTagsInput, TagsInputSchema(), bus, opts...)
	if err != nil {
		return TagsInput{}, err
	}
	return NewTagsInput(v), nil
}

// LoadAutocomplete resolves the autoComplete options, publishing
// option-change on bus.
func (c *Config) LoadAutocomplete(bus *event.Bus, opts ...options.LoadOption) (Autocomplete, error) {
	v, err := c.load(DirectiveAutoComplete, AutocompleteSchema(), bus, opts...)
	if err != nil {
		return Autocomplete{}, err
	}
	return NewAutocomplete(v), nil
}

func (c *Config) load(directive string, schema options.Schema, bus *event.Bus, opts ...options.LoadOption) (*options.Values, error) {
	src, err := c.Source(directive)
	if err != nil {
		return nil, err
	}
	return c.provider.Load(directive, src, bus, schema, opts...)
}

// layered looks attributes up in each set in turn. Changes are observed
// on every layer, and an observer only fires when the changed layer is
// the one currently in effect for the name.
type layered struct {
	layers []*attrs.Set
}

func (l *layered) Lookup(name string) (string, bool) {
	for _, s := range l.layers {
		if v, ok := s.Lookup(name); ok {
			return v, true
		}
	}
	return "", false
}

func (l *layered) Observe(name string, fn attrs.Observer) *attrs.Subscription {
	var subs []*attrs.Subscription
	for i, s := range l.layers {
		i := i
		subs = append(subs, s.Observe(name, func(c attrs.Change) {
			for _, above := range l.layers[:i] {
				if _, shadowed := above.Lookup(name); shadowed {
					return
				}
			}
			if c.Type == attrs.ChangeDelete {
				// A lower layer may now be in effect.
				if v, ok := l.Lookup(name); ok {
					c.Type, c.NewValue = attrs.ChangeSet, v
				}
			}
			fn(c)
		}))
	}
	return attrs.Combine(subs...)
}

// defaultUserConfigDir returns the default user configuration directory.
func defaultUserConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "tagstorm")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "tagstorm")
}
