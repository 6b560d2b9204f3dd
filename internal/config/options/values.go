package options

import (
	"regexp"
	"sort"
	"sync"

	"github.com/dshills/tagstorm/internal/config/attrs"
)

// Values holds resolved options. Typed getters return the zero value for
// a missing option or a value of another type.
type Values struct {
	mu   sync.RWMutex
	m    map[string]any
	subs []*attrs.Subscription
}

// NewValues creates a value set from already resolved values.
func NewValues(m map[string]any) *Values {
	v := &Values{m: make(map[string]any, len(m))}
	for k, x := range m {
		v.m[k] = x
	}
	return v
}

// Get returns the value of name and whether the option exists.
func (v *Values) Get(name string) (any, bool) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	x, ok := v.m[name]
	return x, ok
}

// String returns a string option.
func (v *Values) String(name string) string {
	x, _ := v.Get(name)
	s, _ := x.(string)
	return s
}

// Int returns an integer option.
func (v *Values) Int(name string) int {
	x, _ := v.Get(name)
	n, _ := x.(int)
	return n
}

// Bool returns a boolean option.
func (v *Values) Bool(name string) bool {
	x, _ := v.Get(name)
	b, _ := x.(bool)
	return b
}

// Pattern returns a pattern option, nil if unset.
func (v *Values) Pattern(name string) *regexp.Regexp {
	x, _ := v.Get(name)
	re, _ := x.(*regexp.Regexp)
	return re
}

// Set replaces the value of name.
func (v *Values) Set(name string, value any) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.m[name] = value
}

// Names returns the option names in sorted order.
func (v *Values) Names() []string {
	v.mu.RLock()
	defer v.mu.RUnlock()
	names := make([]string, 0, len(v.m))
	for k := range v.m {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Snapshot returns a copy of all values.
func (v *Values) Snapshot() map[string]any {
	v.mu.RLock()
	defer v.mu.RUnlock()
	out := make(map[string]any, len(v.m))
	for k, x := range v.m {
		out[k] = x
	}
	return out
}

// Close stops observing the attribute source. Values keep their last
// resolution.
func (v *Values) Close() {
	v.mu.Lock()
	subs := v.subs
	v.subs = nil
	v.mu.Unlock()

	for _, s := range subs {
		s.Unsubscribe()
	}
}

func (v *Values) track(s *attrs.Subscription) {
	v.mu.Lock()
	v.subs = append(v.subs, s)
	v.mu.Unlock()
}
