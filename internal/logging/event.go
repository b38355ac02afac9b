package logging

import (
	"time"

	"github.com/rs/zerolog"
)

// LogEvent is the fluent, typed field builder returned by the *With
// methods. Implementations are nil-safe: an event below the current level
// (or from a closed logger) accepts fields and discards everything, so
// callers never branch on logger state.
type LogEvent interface {
	Str(key, val string) LogEvent
	Strs(key string, vals []string) LogEvent
	Int(key string, val int) LogEvent
	Int64(key string, val int64) LogEvent
	Uint(key string, val uint) LogEvent
	Uint64(key string, val uint64) LogEvent
	Float64(key string, val float64) LogEvent
	Bool(key string, val bool) LogEvent
	Time(key string, val time.Time) LogEvent
	Dur(key string, val time.Duration) LogEvent
	Err(err error) LogEvent
	AnErr(key string, err error) LogEvent
	Bytes(key string, val []byte) LogEvent
	Interface(key string, val interface{}) LogEvent
	Dict(key string, dict func(LogEvent)) LogEvent
	// Msg, Msgf and Send emit the event; exactly one of them must be
	// called, and the event must not be reused afterwards.
	Msg(msg string)
	Msgf(format string, v ...interface{})
	Send()
}

// LogContext accumulates fields for a child logger. Logger() returns a new
// logger sharing the parent's sink chain and lifecycle; all its events
// carry the accumulated fields.
type LogContext interface {
	Str(key, val string) LogContext
	Strs(key string, vals []string) LogContext
	Int(key string, val int) LogContext
	Int64(key string, val int64) LogContext
	Uint64(key string, val uint64) LogContext
	Float64(key string, val float64) LogContext
	Bool(key string, val bool) LogContext
	Time(key string, val time.Time) LogContext
	Err(err error) LogContext
	Interface(key string, val interface{}) LogContext
	Logger() *Logger
}

// logEvent wraps zerolog.Event behind nil checks. When core is set, the
// event holds a slot in that core's in-flight accounting and releases it
// on Msg/Msgf/Send, so Close can wait for lines already being built.
type logEvent struct {
	event *zerolog.Event
	core  *loggerCore
}

func newLogEvent(e *zerolog.Event) LogEvent {
	return &logEvent{event: e}
}

func newTrackedLogEvent(e *zerolog.Event, core *loggerCore) LogEvent {
	if core == nil {
		return &logEvent{event: e}
	}
	if e == nil {
		// The caller already registered the operation; release it here so
		// the accounting stays balanced even on the discard path.
		core.untrack()
		return &logEvent{event: nil}
	}
	return &logEvent{event: e, core: core}
}

// done releases the in-flight slot exactly once; emitting twice on the
// same event is a misuse zerolog already rejects, and the nil-out keeps
// the accounting safe regardless.
func (e *logEvent) done() {
	if e.core != nil {
		e.core.untrack()
		e.core = nil
	}
}

func (e *logEvent) Str(key, val string) LogEvent {
	if e.event != nil {
		e.event.Str(key, val)
	}
	return e
}

func (e *logEvent) Strs(key string, vals []string) LogEvent {
	if e.event != nil {
		e.event.Strs(key, vals)
	}
	return e
}

func (e *logEvent) Int(key string, val int) LogEvent {
	if e.event != nil {
		e.event.Int(key, val)
	}
	return e
}

func (e *logEvent) Int64(key string, val int64) LogEvent {
	if e.event != nil {
		e.event.Int64(key, val)
	}
	return e
}

func (e *logEvent) Uint(key string, val uint) LogEvent {
	if e.event != nil {
		e.event.Uint(key, val)
	}
	return e
}

func (e *logEvent) Uint64(key string, val uint64) LogEvent {
	if e.event != nil {
		e.event.Uint64(key, val)
	}
	return e
}

func (e *logEvent) Float64(key string, val float64) LogEvent {
	if e.event != nil {
		e.event.Float64(key, val)
	}
	return e
}

func (e *logEvent) Bool(key string, val bool) LogEvent {
	if e.event != nil {
		e.event.Bool(key, val)
	}
	return e
}

func (e *logEvent) Time(key string, val time.Time) LogEvent {
	if e.event != nil {
		e.event.Time(key, val)
	}
	return e
}

func (e *logEvent) Dur(key string, val time.Duration) LogEvent {
	if e.event != nil {
		e.event.Dur(key, val)
	}
	return e
}

// Err records the error plus its full cause chain: error_chain holds the
// messages outermost first, error_root the innermost cause, error_history
// a single arrow-joined string for humans.
func (e *logEvent) Err(err error) LogEvent {
	if e.event != nil {
		e.event.Err(err)
		if err != nil {
			if chain, root := buildErrorChain(err); len(chain) > 0 {
				e.event.Strs("error_chain", chain)
				e.event.Str("error_root", root)
				e.event.Str("error_history", joinChain(chain))
			}
		}
	}
	return e
}

func (e *logEvent) AnErr(key string, err error) LogEvent {
	if e.event != nil {
		e.event.AnErr(key, err)
		if err != nil {
			if chain, root := buildErrorChain(err); len(chain) > 0 {
				e.event.Strs(key+"_chain", chain)
				e.event.Str(key+"_root", root)
				e.event.Str(key+"_history", joinChain(chain))
			}
		}
	}
	return e
}

func (e *logEvent) Bytes(key string, val []byte) LogEvent {
	if e.event != nil {
		e.event.Bytes(key, val)
	}
	return e
}

func (e *logEvent) Interface(key string, val interface{}) LogEvent {
	if e.event != nil {
		e.event.Interface(key, val)
	}
	return e
}

func (e *logEvent) Dict(key string, dict func(LogEvent)) LogEvent {
	if e.event != nil {
		de := zerolog.Dict()
		dict(newLogEvent(de))
		e.event.Dict(key, de)
	}
	return e
}

func (e *logEvent) Msg(msg string) {
	defer e.done()
	if e.event != nil {
		e.event.Msg(msg)
	}
}

func (e *logEvent) Msgf(format string, v ...interface{}) {
	defer e.done()
	if e.event != nil {
		e.event.Msgf(format, v...)
	}
}

func (e *logEvent) Send() {
	defer e.done()
	if e.event != nil {
		e.event.Send()
	}
}

// logContext implements LogContext over zerolog.Context. The child logger
// shares the parent's core so shutdown accounting stays with the owner.
type logContext struct {
	context zerolog.Context
	parent  *Logger
}

func (c *logContext) Str(key, val string) LogContext {
	c.context = c.context.Str(key, val)
	return c
}

func (c *logContext) Strs(key string, vals []string) LogContext {
	c.context = c.context.Strs(key, vals)
	return c
}

func (c *logContext) Int(key string, val int) LogContext {
	c.context = c.context.Int(key, val)
	return c
}

func (c *logContext) Int64(key string, val int64) LogContext {
	c.context = c.context.Int64(key, val)
	return c
}

func (c *logContext) Uint64(key string, val uint64) LogContext {
	c.context = c.context.Uint64(key, val)
	return c
}

func (c *logContext) Float64(key string, val float64) LogContext {
	c.context = c.context.Float64(key, val)
	return c
}

func (c *logContext) Bool(key string, val bool) LogContext {
	c.context = c.context.Bool(key, val)
	return c
}

func (c *logContext) Time(key string, val time.Time) LogContext {
	c.context = c.context.Time(key, val)
	return c
}

func (c *logContext) Err(err error) LogContext {
	c.context = c.context.Err(err)
	return c
}

func (c *logContext) Interface(key string, val interface{}) LogContext {
	c.context = c.context.Interface(key, val)
	return c
}

func (c *logContext) Logger() *Logger {
	if c.parent == nil {
		return nil
	}
	zl := c.context.Logger()
	return c.parent.child(&zl)
}

// noopLogContext backs With() on nil or closed loggers.
type noopLogContext struct{}

func (n noopLogContext) Str(string, string) LogContext            { return n }
func (n noopLogContext) Strs(string, []string) LogContext         { return n }
func (n noopLogContext) Int(string, int) LogContext               { return n }
func (n noopLogContext) Int64(string, int64) LogContext           { return n }
func (n noopLogContext) Uint64(string, uint64) LogContext         { return n }
func (n noopLogContext) Float64(string, float64) LogContext       { return n }
func (n noopLogContext) Bool(string, bool) LogContext             { return n }
func (n noopLogContext) Time(string, time.Time) LogContext        { return n }
func (n noopLogContext) Err(error) LogContext                     { return n }
func (n noopLogContext) Interface(string, interface{}) LogContext { return n }
func (n noopLogContext) Logger() *Logger                          { return nil }
