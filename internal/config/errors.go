package config

import "errors"

// Errors returned by configuration operations.
var (
	// ErrNotLoaded indicates Load has not been called.
	ErrNotLoaded = errors.New("config: not loaded")

	// ErrUnknownDirective indicates a directive other than tagsInput or autoComplete.
	ErrUnknownDirective = errors.New("config: unknown directive")
)
