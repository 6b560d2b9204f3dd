package options

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownKind is a schema entry whose kind has no converter.
	ErrUnknownKind = errors.New("unknown option kind")

	// ErrConversion is a raw value the kind's converter rejected.
	ErrConversion = errors.New("option conversion failed")

	// ErrDefaultType is a default value that does not match the option kind.
	ErrDefaultType = errors.New("default does not match option kind")
)

// ConfigError is a schema or default that cannot be loaded. It is a setup
// fault, not a user input problem.
type ConfigError struct {
	// Directive is the directive being loaded.
	Directive string

	// Option is the offending option name.
	Option string

	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return fmt.Sprintf("options: %s.%s: %v", e.Directive, e.Option, e.Err)
}

// Unwrap returns the underlying error.
func (e *ConfigError) Unwrap() error {
	return e.Err
}
