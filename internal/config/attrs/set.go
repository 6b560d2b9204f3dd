// Package attrs provides the raw attribute sources read by the options
// loader: an in-memory set, TOML files with one table per directive, and a
// file watcher that reports changed values to observers.
//
// Attribute values are always strings. Conversion to typed options happens
// in package options.
package attrs

import (
	"sort"
	"sync"
)

// Source looks up raw attribute values.
type Source interface {
	// Lookup returns the raw value of name and whether it is present.
	Lookup(name string) (string, bool)
}

// Observable is a Source whose values can change after load.
type Observable interface {
	Source

	// Observe calls fn each time the value of name changes.
	Observe(name string, fn Observer) *Subscription
}

// ChangeType represents the type of attribute change.
type ChangeType int

const (
	// ChangeSet indicates a value was set or updated.
	ChangeSet ChangeType = iota

	// ChangeDelete indicates a value was removed.
	ChangeDelete
)

// String returns the change type name.
func (c ChangeType) String() string {
	switch c {
	case ChangeSet:
		return "set"
	case ChangeDelete:
		return "delete"
	default:
		return "unknown"
	}
}

// Change describes one attribute update.
type Change struct {
	// Name is the attribute name.
	Name string

	// Type is the type of change.
	Type ChangeType

	// OldValue is the previous raw value, empty if there was none.
	OldValue string

	// NewValue is the new raw value, empty for deletes.
	NewValue string

	// Source identifies where the change came from.
	Source string
}

// Observer is called when an attribute changes.
type Observer func(change Change)

// Subscription represents an active observer subscription.
type Subscription struct {
	id       uint64
	name     string
	set      *Set
	children []*Subscription
}

// Combine returns a subscription that releases all of subs.
func Combine(subs ...*Subscription) *Subscription {
	return &Subscription{children: subs}
}

// Unsubscribe removes this subscription. It is safe to call more than once.
func (s *Subscription) Unsubscribe() {
	if s == nil {
		return
	}
	if s.set != nil {
		s.set.unsubscribe(s.name, s.id)
	}
	for _, c := range s.children {
		c.Unsubscribe()
	}
}

// Set is an in-memory, observable attribute set. It is safe for
// concurrent use. Observers run synchronously on the goroutine that made
// the change, after the set's lock is released.
type Set struct {
	mu        sync.RWMutex
	values    map[string]string
	observers map[string]map[uint64]Observer
	nextID    uint64
}

// NewSet creates a set holding a copy of values.
func NewSet(values map[string]string) *Set {
	s := &Set{
		values:    make(map[string]string, len(values)),
		observers: make(map[string]map[uint64]Observer),
	}
	for k, v := range values {
		s.values[k] = v
	}
	return s
}

// Lookup implements Source.
func (s *Set) Lookup(name string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[name]
	return v, ok
}

// Names returns the attribute names in sorted order.
func (s *Set) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.values))
	for k := range s.values {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of attributes.
func (s *Set) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.values)
}

// Observe implements Observable.
func (s *Set) Observe(name string, fn Observer) *Subscription {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	if s.observers[name] == nil {
		s.observers[name] = make(map[uint64]Observer)
	}
	s.observers[name][id] = fn

	return &Subscription{id: id, name: name, set: s}
}

// Set stores value under name and notifies observers if it changed.
func (s *Set) Set(name, value, source string) {
	s.mu.Lock()
	old, existed := s.values[name]
	if existed && old == value {
		s.mu.Unlock()
		return
	}
	s.values[name] = value
	obs := s.observersFor(name)
	s.mu.Unlock()

	deliver(obs, Change{Name: name, Type: ChangeSet, OldValue: old, NewValue: value, Source: source})
}

// Delete removes name and notifies observers if it was present.
func (s *Set) Delete(name, source string) {
	s.mu.Lock()
	old, existed := s.values[name]
	if !existed {
		s.mu.Unlock()
		return
	}
	delete(s.values, name)
	obs := s.observersFor(name)
	s.mu.Unlock()

	deliver(obs, Change{Name: name, Type: ChangeDelete, OldValue: old, Source: source})
}

// Replace swaps the whole content of the set and notifies observers of
// every attribute whose value changed, in name order. It returns the
// changes that were delivered.
func (s *Set) Replace(values map[string]string, source string) []Change {
	type pending struct {
		change Change
		obs    []Observer
	}

	s.mu.Lock()
	var out []pending
	for name, old := range s.values {
		if _, ok := values[name]; !ok {
			out = append(out, pending{
				change: Change{Name: name, Type: ChangeDelete, OldValue: old, Source: source},
				obs:    s.observersFor(name),
			})
		}
	}
	for name, v := range values {
		old, existed := s.values[name]
		if existed && old == v {
			continue
		}
		out = append(out, pending{
			change: Change{Name: name, Type: ChangeSet, OldValue: old, NewValue: v, Source: source},
			obs:    s.observersFor(name),
		})
	}
	s.values = make(map[string]string, len(values))
	for k, v := range values {
		s.values[k] = v
	}
	s.mu.Unlock()

	sort.Slice(out, func(i, j int) bool { return out[i].change.Name < out[j].change.Name })

	changes := make([]Change, len(out))
	for i, p := range out {
		deliver(p.obs, p.change)
		changes[i] = p.change
	}
	return changes
}

// observersFor snapshots the observers of name in subscription order.
// Callers must hold s.mu.
func (s *Set) observersFor(name string) []Observer {
	m := s.observers[name]
	if len(m) == 0 {
		return nil
	}
	ids := make([]uint64, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	obs := make([]Observer, len(ids))
	for i, id := range ids {
		obs[i] = m[id]
	}
	return obs
}

func (s *Set) unsubscribe(name string, id uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if m := s.observers[name]; m != nil {
		delete(m, id)
		if len(m) == 0 {
			delete(s.observers, name)
		}
	}
}

func deliver(obs []Observer, change Change) {
	for _, fn := range obs {
		fn(change)
	}
}
