package event

import (
	"strings"
	"sync"
	"sync/atomic"
)

// Result is a handler's verdict on further delivery.
type Result int

const (
	// Continue lets delivery proceed to the next handler.
	Continue Result = iota

	// Veto stops delivery and marks the publish as vetoed.
	Veto
)

// String returns the result name.
func (r Result) String() string {
	switch r {
	case Continue:
		return "continue"
	case Veto:
		return "veto"
	default:
		return "unknown"
	}
}

// Handler receives the payload of a published topic.
type Handler func(payload any) Result

// SubscriptionOption configures how a handler is registered.
type SubscriptionOption func(*subscriptionConfig)

type subscriptionConfig struct {
	prioritized bool
}

// Prioritized inserts the handler before every handler already registered
// for the topic.
func Prioritized() SubscriptionOption {
	return func(c *subscriptionConfig) {
		c.prioritized = true
	}
}

// Stats holds bus counters.
type Stats struct {
	// Published counts Trigger calls.
	Published uint64

	// Vetoed counts Trigger calls stopped by a handler.
	Vetoed uint64

	// HandlersExecuted counts individual handler invocations.
	HandlersExecuted uint64

	// Subscriptions is the number of registered handlers across all topics.
	Subscriptions int
}

// Bus is an ordered publish/subscribe table with veto semantics.
// Registration and publishing are safe for concurrent use, although an
// editor only publishes from its run loop.
type Bus struct {
	mu       sync.RWMutex
	handlers map[Topic][]Handler

	published atomic.Uint64
	vetoed    atomic.Uint64
	executed  atomic.Uint64
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{
		handlers: make(map[Topic][]Handler),
	}
}

// On registers h for every topic in names, a space-separated list.
// It returns the bus for chaining. On panics if h is nil.
func (b *Bus) On(names string, h Handler, opts ...SubscriptionOption) *Bus {
	if h == nil {
		panic(ErrNilHandler)
	}

	var cfg subscriptionConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	topics := ParseTopics(names)

	b.mu.Lock()
	defer b.mu.Unlock()

	for _, t := range topics {
		existing := b.handlers[t]
		if cfg.prioritized {
			hs := make([]Handler, 0, len(existing)+1)
			hs = append(hs, h)
			b.handlers[t] = append(hs, existing...)
		} else {
			b.handlers[t] = append(existing, h)
		}
	}
	return b
}

// Observe registers a handler that never vetoes.
func (b *Bus) Observe(names string, fn func(payload any), opts ...SubscriptionOption) *Bus {
	if fn == nil {
		panic(ErrNilHandler)
	}
	return b.On(names, func(payload any) Result {
		fn(payload)
		return Continue
	}, opts...)
}

// Trigger delivers payload to the handlers registered for name, in order.
// It returns false if a handler vetoed, true otherwise (including when
// nothing is registered). Trigger does not return the bus; chain
// publishes as separate statements.
func (b *Bus) Trigger(name Topic, payload any) bool {
	b.published.Add(1)

	b.mu.RLock()
	// Handlers registered while delivering are not called for this publish.
	hs := b.handlers[name]
	b.mu.RUnlock()

	for _, h := range hs {
		b.executed.Add(1)
		if h(payload) == Veto {
			b.vetoed.Add(1)
			return false
		}
	}
	return true
}

// HandlerCount returns the number of handlers registered for name.
func (b *Bus) HandlerCount(name Topic) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.handlers[name])
}

// Stats returns a snapshot of the bus counters.
func (b *Bus) Stats() Stats {
	b.mu.RLock()
	subs := 0
	for _, hs := range b.handlers {
		subs += len(hs)
	}
	b.mu.RUnlock()

	return Stats{
		Published:        b.published.Load(),
		Vetoed:           b.vetoed.Load(),
		HandlersExecuted: b.executed.Load(),
		Subscriptions:    subs,
	}
}

// ParseTopics splits a space-separated list of topic names.
func ParseTopics(names string) []Topic {
	fields := strings.Fields(names)
	topics := make([]Topic, len(fields))
	for i, f := range fields {
		topics[i] = Topic(f)
	}
	return topics
}
