package logging

import "errors"

var (
	// ErrNotInitialized is returned when a logger is requested from a
	// registry whose Initialize has not run (or ran after Shutdown).
	ErrNotInitialized = errors.New("logging registry not initialized")

	// ErrNilConfig is returned when a nil LoggerConfig reaches validation.
	ErrNilConfig = errors.New("logger config is nil")

	// ErrNoSinks is returned when a config enables neither console nor
	// file output; a logger without sinks would silently drop everything.
	ErrNoSinks = errors.New("no output sinks enabled")
)
