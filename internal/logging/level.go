package logging

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"
)

// Level is the ordered severity scale shared by loggers and sinks.
// A message is emitted only when its level is at or above both the
// logger's current level and the receiving sink's threshold.
type Level int8

const (
	LevelTrace Level = iota
	LevelDebug
	LevelInfo
	LevelWarning
	LevelError
	LevelCritical
	// LevelOff disables emission entirely.
	LevelOff
)

var levelNames = map[Level]string{
	LevelTrace:    "trace",
	LevelDebug:    "debug",
	LevelInfo:     "info",
	LevelWarning:  "warning",
	LevelError:    "error",
	LevelCritical: "critical",
	LevelOff:      "off",
}

func (l Level) String() string {
	if name, ok := levelNames[l]; ok {
		return name
	}
	return fmt.Sprintf("level(%d)", int8(l))
}

// ParseLevel converts a level name into a Level. It accepts the short
// spellings used by config files ("warn", "fatal") as aliases.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trace":
		return LevelTrace, nil
	case "debug":
		return LevelDebug, nil
	case "info", "":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarning, nil
	case "error":
		return LevelError, nil
	case "critical", "fatal":
		return LevelCritical, nil
	case "off", "disabled":
		return LevelOff, nil
	default:
		return LevelOff, fmt.Errorf("unknown log level %q", s)
	}
}

// zerologLevel maps a Level onto the zerolog scale. Critical maps to
// zerolog's fatal level; emission goes through WithLevel so it never
// terminates the process.
func (l Level) zerologLevel() zerolog.Level {
	switch l {
	case LevelTrace:
		return zerolog.TraceLevel
	case LevelDebug:
		return zerolog.DebugLevel
	case LevelInfo:
		return zerolog.InfoLevel
	case LevelWarning:
		return zerolog.WarnLevel
	case LevelError:
		return zerolog.ErrorLevel
	case LevelCritical:
		return zerolog.FatalLevel
	default:
		return zerolog.Disabled
	}
}
