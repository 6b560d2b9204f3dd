// Package gate models the optional veto hooks consulted before the tag
// collection is mutated.
//
// A hook answers with a Decision: Allow, Deny, or Pending when the answer
// arrives later. A missing hook allows; there is no "no opinion" value that
// could be mistaken for either answer.
package gate

import (
	"context"
)

type kind uint8

const (
	kindAllow kind = iota
	kindDeny
	kindPending
)

// Decision is the answer of a gate. The zero Decision allows.
type Decision struct {
	kind   kind
	answer <-chan bool
}

// Allow permits the mutation.
func Allow() Decision {
	return Decision{kind: kindAllow}
}

// Deny rejects the mutation.
func Deny() Decision {
	return Decision{kind: kindDeny}
}

// Of converts a plain boolean answer.
func Of(ok bool) Decision {
	if ok {
		return Allow()
	}
	return Deny()
}

// Pending defers the answer to the first value received from answer. A
// channel closed without sending denies, as does a nil channel.
func Pending(answer <-chan bool) Decision {
	if answer == nil {
		return Deny()
	}
	return Decision{kind: kindPending, answer: answer}
}

// IsPending reports whether the answer is deferred.
func (d Decision) IsPending() bool {
	return d.kind == kindPending
}

// Immediate returns the answer of a non-pending decision. ok is false for
// a pending decision.
func (d Decision) Immediate() (allowed, ok bool) {
	switch d.kind {
	case kindAllow:
		return true, true
	case kindDeny:
		return false, true
	default:
		return false, false
	}
}

// Wait blocks until the decision is known. A cancelled ctx denies.
func (d Decision) Wait(ctx context.Context) bool {
	if allowed, ok := d.Immediate(); ok {
		return allowed
	}
	select {
	case v, ok := <-d.answer:
		return ok && v
	case <-ctx.Done():
		return false
	}
}

// String returns the decision name.
func (d Decision) String() string {
	switch d.kind {
	case kindAllow:
		return "allow"
	case kindDeny:
		return "deny"
	default:
		return "pending"
	}
}

// Func is a gate over candidates of type T.
type Func[T any] func(ctx context.Context, candidate T) Decision

// Check evaluates g, treating a nil gate as Allow.
func (g Func[T]) Check(ctx context.Context, candidate T) Decision {
	if g == nil {
		return Allow()
	}
	return g(ctx, candidate)
}

// Async runs fn on its own goroutine and returns its answer as a Pending
// decision.
func Async[T any](fn func(ctx context.Context, candidate T) bool) Func[T] {
	return func(ctx context.Context, candidate T) Decision {
		answer := make(chan bool, 1)
		go func() {
			answer <- fn(ctx, candidate)
		}()
		return Pending(answer)
	}
}

// All combines gates: every gate must allow. Pending answers are awaited in
// order on a separate goroutine.
func All[T any](gates ...Func[T]) Func[T] {
	return func(ctx context.Context, candidate T) Decision {
		var pending []Decision
		for _, g := range gates {
			d := g.Check(ctx, candidate)
			if allowed, ok := d.Immediate(); ok {
				if !allowed {
					return Deny()
				}
				continue
			}
			pending = append(pending, d)
		}
		if len(pending) == 0 {
			return Allow()
		}

		answer := make(chan bool, 1)
		go func() {
			for _, d := range pending {
				if !d.Wait(ctx) {
					answer <- false
					return
				}
			}
			answer <- true
		}()
		return Pending(answer)
	}
}
