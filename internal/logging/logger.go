package logging

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"go.uber.org/atomic"
)

// sprintPool recycles builders for the print-style helpers.
var sprintPool = sync.Pool{
	New: func() interface{} {
		return new(strings.Builder)
	},
}

// loggerCore owns the sink chain and the in-flight event accounting for a
// logger and every child derived from it. Children share their parent's
// core so a registry shutdown drains and closes the whole family once.
type loggerCore struct {
	chain        *sinkChain
	closeTimeout time.Duration

	closed    atomic.Bool
	activeOps atomic.Int32
	mu        sync.RWMutex
	wg        sync.WaitGroup
}

func (c *loggerCore) track() {
	c.activeOps.Add(1)
	c.wg.Add(1)
}

func (c *loggerCore) untrack() {
	c.activeOps.Add(-1)
	c.wg.Done()
}

// close seals the core: new events are refused, in-flight events get up to
// closeTimeout to finish, then the file sink is released. Multi-call safe.
// A timed-out drain is not an error; the remaining events write into a
// reopened segment at worst.
func (c *loggerCore) close() error {
	if !c.closed.CompareAndSwap(false, true) {
		return nil
	}

	waitTimeout(&c.wg, c.closeTimeout)

	c.mu.Lock()
	defer c.mu.Unlock()
	return c.chain.Close()
}

// Logger emits structured events into its sink chain. Loggers are created
// and owned by a Registry; the zero value and a nil *Logger are safe no-ops
// for every method.
type Logger struct {
	name  string
	core  *loggerCore
	level atomic.Int32
	zlog  atomic.Pointer[zerolog.Logger]
}

func newLogger(cfg *LoggerConfig, baseDir string, consoleOut io.Writer, closeTimeout time.Duration) (*Logger, error) {
	lvl, err := ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}

	chain, err := newSinkChain(cfg, baseDir, consoleOut)
	if err != nil {
		return nil, err
	}

	zl := zerolog.New(chain.out).
		Level(lvl.zerologLevel()).
		With().
		Timestamp().
		Str("logger", cfg.Name).
		Logger()

	if cfg.CallerSkipFrames > 0 {
		zl = zl.With().CallerWithSkipFrameCount(cfg.CallerSkipFrames).Logger()
	}

	l := &Logger{
		name: cfg.Name,
		core: &loggerCore{chain: chain, closeTimeout: closeTimeout},
	}
	l.level.Store(int32(lvl))
	l.zlog.Store(&zl)
	return l, nil
}

// child wraps a derived zerolog logger in a Logger sharing this core.
func (l *Logger) child(zl *zerolog.Logger) *Logger {
	c := &Logger{name: l.name, core: l.core}
	c.level.Store(l.level.Load())
	c.zlog.Store(zl)
	return c
}

// Name returns the registry name this logger was created under.
func (l *Logger) Name() string {
	if l == nil {
		return ""
	}
	return l.name
}

// GetLevel reports the logger's current severity gate.
func (l *Logger) GetLevel() Level {
	if l == nil {
		return LevelOff
	}
	return Level(l.level.Load())
}

// SetLevel changes the logger's severity gate at runtime. Sink thresholds
// are fixed at construction; only the logger-wide gate moves.
func (l *Logger) SetLevel(lvl Level) {
	if l == nil || l.core == nil {
		return
	}
	for {
		old := l.zlog.Load()
		if old == nil {
			return
		}
		next := old.Level(lvl.zerologLevel())
		if l.zlog.CompareAndSwap(old, &next) {
			break
		}
	}
	l.level.Store(int32(lvl))
}

// Hook installs zerolog hooks on the logger. Installation is a
// compare-and-swap loop so concurrent SetLevel/Hook calls never lose an
// update.
func (l *Logger) Hook(hooks ...zerolog.Hook) {
	if l == nil || l.core == nil || len(hooks) == 0 {
		return
	}
	for {
		old := l.zlog.Load()
		if old == nil {
			return
		}
		next := old.Hook(hooks...)
		if l.zlog.CompareAndSwap(old, &next) {
			return
		}
	}
}

// eventAt builds the event for one emission. It registers the operation
// with the core before taking the read lock so close() waits for events
// already past the gate, and stays balanced when zerolog discards the
// event (disabled level returns a nil *zerolog.Event).
func (l *Logger) eventAt(lvl Level) LogEvent {
	if l == nil || l.core == nil || l.core.closed.Load() {
		return newLogEvent(nil)
	}
	cur := Level(l.level.Load())
	if cur == LevelOff || lvl < cur || lvl >= LevelOff {
		return newLogEvent(nil)
	}

	core := l.core
	core.track()
	core.mu.RLock()

	if core.closed.Load() {
		core.mu.RUnlock()
		core.untrack()
		return newLogEvent(nil)
	}
	zl := l.zlog.Load()
	if zl == nil {
		core.mu.RUnlock()
		core.untrack()
		return newLogEvent(nil)
	}

	var ev *zerolog.Event
	switch lvl {
	case LevelTrace:
		ev = zl.Trace()
	case LevelDebug:
		ev = zl.Debug()
	case LevelInfo:
		ev = zl.Info()
	case LevelWarning:
		ev = zl.Warn()
	case LevelError:
		ev = zl.Error()
	case LevelCritical:
		// WithLevel emits at fatal severity without exiting.
		ev = zl.WithLevel(zerolog.FatalLevel)
	default:
		core.mu.RUnlock()
		core.untrack()
		return newLogEvent(nil)
	}

	core.mu.RUnlock()
	return newTrackedLogEvent(ev, core)
}

// TraceWith returns a LogEvent for structured trace-level logging.
func (l *Logger) TraceWith() LogEvent { return l.eventAt(LevelTrace) }

// DebugWith returns a LogEvent for structured debug-level logging.
func (l *Logger) DebugWith() LogEvent { return l.eventAt(LevelDebug) }

// InfoWith returns a LogEvent for structured info-level logging.
// Example: logger.InfoWith().Str("camera", id).Int("fps", 30).Msg("stream up")
func (l *Logger) InfoWith() LogEvent { return l.eventAt(LevelInfo) }

// WarnWith returns a LogEvent for structured warning-level logging.
func (l *Logger) WarnWith() LogEvent { return l.eventAt(LevelWarning) }

// ErrorWith returns a LogEvent for structured error-level logging.
// Example: logger.ErrorWith().Err(err).Str("operation", "bind").Msg("start failed")
func (l *Logger) ErrorWith() LogEvent { return l.eventAt(LevelError) }

// CriticalWith returns a LogEvent at the highest severity. Unlike a fatal
// log it never terminates the process; termination decisions stay with the
// caller.
func (l *Logger) CriticalWith() LogEvent { return l.eventAt(LevelCritical) }

// With returns a LogContext for deriving a child logger with pre-populated
// fields. Example: camLogger := logger.With().Str("camera", id).Logger()
func (l *Logger) With() LogContext {
	if l == nil || l.core == nil || l.core.closed.Load() {
		return noopLogContext{}
	}
	zl := l.zlog.Load()
	if zl == nil {
		return noopLogContext{}
	}
	return &logContext{context: zl.With(), parent: l}
}

// Print-style helpers. The structured methods above are preferred; these
// exist for call sites that only have a message.

func (l *Logger) print(lvl Level, fields ...interface{}) {
	if !l.enabled(lvl) {
		return
	}

	buf := sprintPool.Get().(*strings.Builder)
	buf.Reset()
	defer sprintPool.Put(buf)

	fmt.Fprint(buf, fields...)
	l.eventAt(lvl).Msg(buf.String())
}

func (l *Logger) printf(lvl Level, format string, fields ...interface{}) {
	if !l.enabled(lvl) {
		return
	}
	l.eventAt(lvl).Msgf(format, fields...)
}

func (l *Logger) enabled(lvl Level) bool {
	if l == nil || l.core == nil || l.core.closed.Load() {
		return false
	}
	cur := Level(l.level.Load())
	return cur != LevelOff && lvl >= cur && lvl < LevelOff
}

func (l *Logger) Trace(fields ...interface{}) { l.print(LevelTrace, fields...) }

func (l *Logger) Tracef(format string, fields ...interface{}) {
	l.printf(LevelTrace, format, fields...)
}

func (l *Logger) Debug(fields ...interface{}) { l.print(LevelDebug, fields...) }

func (l *Logger) Debugf(format string, fields ...interface{}) {
	l.printf(LevelDebug, format, fields...)
}

func (l *Logger) Info(fields ...interface{}) { l.print(LevelInfo, fields...) }

func (l *Logger) Infof(format string, fields ...interface{}) {
	l.printf(LevelInfo, format, fields...)
}

func (l *Logger) Warn(fields ...interface{}) { l.print(LevelWarning, fields...) }

func (l *Logger) Warnf(format string, fields ...interface{}) {
	l.printf(LevelWarning, format, fields...)
}

func (l *Logger) Error(fields ...interface{}) { l.print(LevelError, fields...) }

func (l *Logger) Errorf(format string, fields ...interface{}) {
	l.printf(LevelError, format, fields...)
}

func (l *Logger) Critical(fields ...interface{}) { l.print(LevelCritical, fields...) }

func (l *Logger) Criticalf(format string, fields ...interface{}) {
	l.printf(LevelCritical, format, fields...)
}

// close seals the logger's core. Called by the owning registry.
func (l *Logger) close() error {
	if l == nil || l.core == nil {
		return nil
	}
	return l.core.close()
}
