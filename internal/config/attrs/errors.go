package attrs

import (
	"errors"
	"fmt"
)

var (
	// ErrWatcherClosed is returned when using a closed watcher.
	ErrWatcherClosed = errors.New("attrs: watcher closed")

	// ErrNoPath is returned when reloading a file that was not read from disk.
	ErrNoPath = errors.New("attrs: file has no path")
)

// ParseError is returned when an attribute file cannot be decoded.
type ParseError struct {
	// Path is the file that failed to parse.
	Path string

	// Message describes the failure.
	Message string

	// Err is the underlying decoder error.
	Err error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("attrs: parsing %s: %s", e.Path, e.Message)
}

// Unwrap returns the underlying error.
func (e *ParseError) Unwrap() error {
	return e.Err
}
