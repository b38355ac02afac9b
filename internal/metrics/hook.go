package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
)

// levelCountHook counts emitted log lines by level.
type levelCountHook struct {
	lines *prometheus.CounterVec
}

// LevelHook returns a zerolog hook that feeds the LogLines counter.
// Install it on a logger to have every emitted line counted. The hook
// from a nil collector set is a no-op.
func (c *Collectors) LevelHook() zerolog.Hook {
	if c == nil {
		return levelCountHook{}
	}
	return levelCountHook{lines: c.LogLines}
}

func (h levelCountHook) Run(_ *zerolog.Event, level zerolog.Level, _ string) {
	if h.lines == nil || level == zerolog.NoLevel {
		return
	}
	h.lines.WithLabelValues(level.String()).Inc()
}
