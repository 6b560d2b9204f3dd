package event

// Typed adapts a handler for a concrete payload type. Payloads of any other
// type are passed over with Continue.
func Typed[T any](fn func(T) Result) Handler {
	return func(payload any) Result {
		v, ok := payload.(T)
		if !ok {
			return Continue
		}
		return fn(v)
	}
}

// Watch adapts a non-vetoing handler for a concrete payload type.
func Watch[T any](fn func(T)) Handler {
	return func(payload any) Result {
		if v, ok := payload.(T); ok {
			fn(v)
		}
		return Continue
	}
}

// Always adapts a payload-agnostic callback that never vetoes.
func Always(fn func()) Handler {
	return func(any) Result {
		fn()
		return Continue
	}
}
