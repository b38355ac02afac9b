package logging

import (
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"go.uber.org/atomic"
)

const defaultCloseTimeout = 5 * time.Second

// Registry owns every named logger in a process. It is an explicit,
// injectable object: components that log receive a *Registry (or a *Logger
// taken from one) rather than reaching for package globals.
//
// Lifecycle: a new registry is empty and uninitialized. Initialize builds
// the "default" logger and flips the flag; Shutdown drains and closes every
// logger, clears the table and flips the flag back, after which the
// registry can be initialized again.
type Registry struct {
	baseDir      string
	consoleOut   io.Writer
	closeTimeout time.Duration

	initialized atomic.Bool

	mu      sync.RWMutex
	loggers map[string]*Logger
	def     *Logger
}

// Option adjusts registry construction.
type Option func(*Registry)

// WithConsoleOutput redirects every console sink built by this registry.
// Tests use it to capture console rendering in a buffer.
func WithConsoleOutput(w io.Writer) Option {
	return func(r *Registry) { r.consoleOut = w }
}

// WithCloseTimeout bounds how long Shutdown waits for in-flight events per
// logger before releasing its sinks.
func WithCloseTimeout(d time.Duration) Option {
	return func(r *Registry) {
		if d > 0 {
			r.closeTimeout = d
		}
	}
}

// NewRegistry returns an empty, uninitialized registry. Relative file
// paths in logger configs resolve against baseDir ("." when empty).
func NewRegistry(baseDir string, opts ...Option) *Registry {
	if baseDir == "" {
		baseDir = "."
	}
	r := &Registry{
		baseDir:      baseDir,
		closeTimeout: defaultCloseTimeout,
		loggers:      make(map[string]*Logger),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Initialize builds the default logger (console plus rotating file under
// logs/) at the given level and marks the registry ready. Idempotent: a
// second call on an initialized registry returns nil without side effects.
// On construction failure the registry stays uninitialized.
func (r *Registry) Initialize(level Level) error {
	return r.InitializeWith(DefaultConfig(level))
}

// InitializeWith is Initialize with a caller-supplied default-logger
// config; the daemon uses it so the config file decides sinks and levels.
// The logger name is forced to "default".
func (r *Registry) InitializeWith(cfg LoggerConfig) error {
	if r.initialized.Load() {
		return nil
	}

	cfg.Name = DefaultLoggerName
	if _, err := r.CreateLogger(cfg); err != nil {
		return fmt.Errorf("initializing default logger: %w", err)
	}

	r.initialized.Store(true)
	return nil
}

// CreateLogger validates cfg, builds the sink chain and registers the
// logger. Creating a name that already exists returns the existing
// instance: configs are immutable, so the second config is ignored rather
// than merged. Before Initialize only the bootstrap "default" name is
// accepted.
func (r *Registry) CreateLogger(cfg LoggerConfig) (*Logger, error) {
	norm := cfg.withDefaults()
	if err := validateConfig(&norm); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.initialized.Load() && norm.Name != DefaultLoggerName {
		return nil, fmt.Errorf("creating logger %q: %w", norm.Name, ErrNotInitialized)
	}

	if existing, ok := r.loggers[norm.Name]; ok {
		return existing, nil
	}

	lg, err := newLogger(&norm, r.baseDir, r.consoleOut, r.closeTimeout)
	if err != nil {
		return nil, fmt.Errorf("creating logger %q: %w", norm.Name, err)
	}

	r.loggers[norm.Name] = lg
	if norm.Name == DefaultLoggerName {
		r.def = lg
	}
	return lg, nil
}

// GetLogger looks up an existing logger by name. It never constructs.
func (r *Registry) GetLogger(name string) (*Logger, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	lg, ok := r.loggers[name]
	return lg, ok
}

// Default returns the bootstrap logger, or false when the registry was
// never initialized (or has been shut down).
func (r *Registry) Default() (*Logger, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.def, r.def != nil
}

// Initialized reports whether the registry is currently usable.
func (r *Registry) Initialized() bool {
	return r.initialized.Load()
}

// Shutdown drains and closes every registered logger, clears the table and
// resets the registry to uninitialized. Safe to call repeatedly; a
// shut-down registry accepts a fresh Initialize.
func (r *Registry) Shutdown() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.initialized.Load() {
		return nil
	}

	var errs []error
	for name, lg := range r.loggers {
		if err := lg.close(); err != nil {
			errs = append(errs, fmt.Errorf("closing logger %q: %w", name, err))
		}
	}

	r.loggers = make(map[string]*Logger)
	r.def = nil
	r.initialized.Store(false)

	return errors.Join(errs...)
}
