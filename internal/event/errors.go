package event

import "errors"

// ErrNilHandler is the panic value when a nil handler is registered.
var ErrNilHandler = errors.New("event: handler cannot be nil")
