package runloop

import "errors"

var (
	// ErrAlreadyRunning is returned when Start is called twice.
	ErrAlreadyRunning = errors.New("runloop: already running")

	// ErrNotRunning is returned when Stop is called on a loop that is not running.
	ErrNotRunning = errors.New("runloop: not running")

	// ErrStopped is returned when work is submitted to a stopped loop.
	ErrStopped = errors.New("runloop: stopped")
)
