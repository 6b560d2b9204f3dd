package lua

import (
	"context"
	"fmt"
	"strings"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/tagstorm/internal/gate"
	"github.com/dshills/tagstorm/internal/logging"
	"github.com/dshills/tagstorm/internal/suggest"
	"github.com/dshills/tagstorm/internal/tags"
)

// Hook function names a script may define.
const (
	HookAdding   = "on_adding"
	HookRemoving = "on_removing"
	HookSuggest  = "suggest"
)

// Script is a loaded user script.
type Script struct {
	name   string
	state  *State
	logger *logging.Logger
}

// ScriptOption configures a Script.
type ScriptOption func(*scriptConfig)

type scriptConfig struct {
	logger *logging.Logger
	state  []StateOption
}

// WithLogger sets the logger used to report script failures.
func WithLogger(l *logging.Logger) ScriptOption {
	return func(c *scriptConfig) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithStateOptions passes options to the underlying State.
func WithStateOptions(opts ...StateOption) ScriptOption {
	return func(c *scriptConfig) {
		c.state = append(c.state, opts...)
	}
}

// LoadScript runs the Lua file at path and returns the script.
func LoadScript(ctx context.Context, path string, opts ...ScriptOption) (*Script, error) {
	s := newScript(path, opts)
	if err := s.state.DoFile(ctx, path); err != nil {
		s.Close()
		return nil, fmt.Errorf("load script %s: %w", path, err)
	}
	return s, nil
}

// NewScript runs code and returns the script. name labels log messages.
func NewScript(ctx context.Context, name, code string, opts ...ScriptOption) (*Script, error) {
	s := newScript(name, opts)
	if err := s.state.DoString(ctx, code); err != nil {
		s.Close()
		return nil, fmt.Errorf("load script %s: %w", name, err)
	}
	return s, nil
}

func newScript(name string, opts []ScriptOption) *Script {
	cfg := scriptConfig{logger: logging.Nop()}
	for _, opt := range opts {
		opt(&cfg)
	}

	s := &Script{
		name:   name,
		state:  NewState(cfg.state...),
		logger: cfg.logger.WithComponent("script").WithField("script", name),
	}
	s.state.Register("tags", map[string]lua.LGFunction{
		"dashify": func(L *lua.LState) int {
			L.Push(lua.LString(tags.Dashify(L.CheckString(1))))
			return 1
		},
		"equal": func(L *lua.LState) int {
			L.Push(lua.LBool(tags.Equal(L.CheckString(1), L.CheckString(2))))
			return 1
		},
	})
	return s
}

// Name returns the script name.
func (s *Script) Name() string { return s.name }

// AddGate returns a gate backed by on_adding, or nil when the script does
// not define it.
func (s *Script) AddGate() gate.Func[tags.Tag] {
	return s.gate(HookAdding)
}

// RemoveGate returns a gate backed by on_removing, or nil when the script
// does not define it.
func (s *Script) RemoveGate() gate.Func[tags.Tag] {
	return s.gate(HookRemoving)
}

func (s *Script) gate(hook string) gate.Func[tags.Tag] {
	if !s.state.Has(hook) {
		return nil
	}
	return gate.Async(func(ctx context.Context, t tags.Tag) bool {
		out, err := s.state.Call(ctx, hook, t)
		if err != nil {
			s.logger.Warn("%s failed: %v", hook, err)
			return false
		}
		// No return value means no objection.
		if len(out) == 0 || out[0] == nil {
			return true
		}
		ok, isBool := out[0].(bool)
		return !isBool || ok
	})
}

// Source returns a suggestion source backed by suggest, or nil when the
// script does not define it.
func (s *Script) Source() suggest.Source {
	if !s.state.Has(HookSuggest) {
		return nil
	}
	return suggest.SourceFunc(func(ctx context.Context, query string) (suggest.Result, error) {
		out, err := s.state.Call(ctx, HookSuggest, query)
		if err != nil {
			return suggest.Result{}, err
		}
		if len(out) == 0 || out[0] == nil {
			return suggest.Strings(), nil
		}
		return resultOf(out[0])
	})
}

// Close releases the Lua state.
func (s *Script) Close() error {
	return s.state.Close()
}

func resultOf(v any) (suggest.Result, error) {
	list, ok := v.([]any)
	if !ok {
		if m, isMap := v.(map[string]any); isMap && len(m) == 0 {
			return suggest.Strings(), nil
		}
		return suggest.Result{}, fmt.Errorf("suggest returned %T, want a list", v)
	}

	if _, isObj := list[0].(map[string]any); isObj {
		out := make([]tags.Tag, 0, len(list))
		for _, el := range list {
			m, ok := el.(map[string]any)
			if !ok {
				return suggest.Result{}, fmt.Errorf("suggest returned a mixed list")
			}
			t := make(tags.Tag, len(m))
			for k, fv := range m {
				if fv != nil {
					t[k] = strings.TrimSpace(fmt.Sprint(fv))
				}
			}
			out = append(out, t)
		}
		return suggest.Tags(out...), nil
	}

	out := make([]string, 0, len(list))
	for _, el := range list {
		switch el := el.(type) {
		case string:
			out = append(out, el)
		case int64, float64, bool:
			out = append(out, fmt.Sprint(el))
		default:
			return suggest.Result{}, fmt.Errorf("suggest returned a mixed list")
		}
	}
	return suggest.Strings(out...), nil
}
