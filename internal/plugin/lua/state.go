package lua

import (
	"context"
	"fmt"
	"sync"
	"time"

	lua "github.com/yuin/gopher-lua"
)

// DefaultTimeout bounds a single script call.
const DefaultTimeout = time.Second

// State wraps a restricted gopher-lua state. gopher-lua states are not
// goroutine-safe; State serializes every access with a mutex.
type State struct {
	mu     sync.Mutex
	L      *lua.LState
	closed bool

	timeout time.Duration
}

// StateOption configures a State.
type StateOption func(*State)

// WithTimeout sets the deadline of each call. Zero disables it.
func WithTimeout(d time.Duration) StateOption {
	return func(s *State) {
		s.timeout = d
	}
}

// NewState creates a restricted state.
func NewState(opts ...StateOption) *State {
	s := &State{timeout: DefaultTimeout}
	for _, opt := range opts {
		opt(s)
	}

	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)
	for _, name := range []string{"dofile", "loadfile", "load", "loadstring", "require", "module"} {
		L.SetGlobal(name, lua.LNil)
	}
	s.L = L
	return s
}

// DoString runs code.
func (s *State) DoString(ctx context.Context, code string) error {
	return s.run(ctx, func() error { return s.L.DoString(code) })
}

// DoFile runs the file at path.
func (s *State) DoFile(ctx context.Context, path string) error {
	return s.run(ctx, func() error { return s.L.DoFile(path) })
}

// Has reports whether the global name is a function.
func (s *State) Has(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	return s.L.GetGlobal(name).Type() == lua.LTFunction
}

// Register installs a module table of Go functions under name.
func (s *State) Register(name string, funcs map[string]lua.LGFunction) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.L.SetGlobal(name, s.L.SetFuncs(s.L.NewTable(), funcs))
}

// Call calls the global function fn with args converted to Lua and returns
// its results converted back to Go values.
func (s *State) Call(ctx context.Context, fn string, args ...any) ([]any, error) {
	var out []any
	err := s.run(ctx, func() error {
		f := s.L.GetGlobal(fn)
		if f.Type() != lua.LTFunction {
			return fmt.Errorf("%w: %s", ErrNotFunction, fn)
		}

		top := s.L.GetTop()
		s.L.Push(f)
		for _, a := range args {
			s.L.Push(toLua(s.L, a))
		}
		if err := s.L.PCall(len(args), lua.MultRet, nil); err != nil {
			return err
		}

		n := s.L.GetTop() - top
		out = make([]any, n)
		for i := 0; i < n; i++ {
			out[i] = toGo(s.L.Get(top+i+1), 0)
		}
		s.L.SetTop(top)
		return nil
	})
	return out, err
}

// Close releases the state. It is safe to call more than once.
func (s *State) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.closed {
		s.L.Close()
		s.closed = true
	}
	return nil
}

func (s *State) run(ctx context.Context, fn func() error) (err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrStateClosed
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	s.L.SetContext(ctx)
	defer s.L.RemoveContext()

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("lua panic: %v", r)
		}
	}()
	return fn()
}
