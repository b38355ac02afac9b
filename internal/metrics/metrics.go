package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Collectors bundles the daemon's Prometheus collectors. All record
// methods are nil-safe so callers never have to branch on whether
// metrics are enabled.
type Collectors struct {
	// FramesProcessed counts frames the main loop has handed to the
	// frame callback.
	FramesProcessed prometheus.Counter

	// FrameErrors counts frame callbacks that returned an error.
	FrameErrors prometheus.Counter

	// LogLines counts emitted log lines by level.
	LogLines *prometheus.CounterVec
}

// NewCollectors creates the collector set and registers it with reg.
// A nil registerer creates unregistered collectors, which tests use.
// Collectors already present in the registry are reused so counts
// survive a daemon restart within the same process.
func NewCollectors(reg prometheus.Registerer) *Collectors {
	c := &Collectors{
		FramesProcessed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "dashcam",
			Subsystem: "loop",
			Name:      "frames_processed_total",
			Help:      "Total number of frames handed to the frame callback",
		}),
		FrameErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "dashcam",
			Subsystem: "loop",
			Name:      "frame_errors_total",
			Help:      "Total number of frame callbacks that returned an error",
		}),
		LogLines: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "dashcam",
			Subsystem: "logging",
			Name:      "lines_total",
			Help:      "Total number of log lines emitted, by level",
		}, []string{"level"}),
	}

	if reg != nil {
		c.FramesProcessed = registerOrReuse(reg, c.FramesProcessed).(prometheus.Counter)
		c.FrameErrors = registerOrReuse(reg, c.FrameErrors).(prometheus.Counter)
		c.LogLines = registerOrReuse(reg, c.LogLines).(*prometheus.CounterVec)
	}

	return c
}

// RecordFrame increments the processed frame counter.
func (c *Collectors) RecordFrame() {
	if c == nil {
		return
	}
	c.FramesProcessed.Inc()
}

// RecordFrameError increments the frame error counter.
func (c *Collectors) RecordFrameError() {
	if c == nil {
		return
	}
	c.FrameErrors.Inc()
}

// registerOrReuse registers a collector, returning the existing one on
// an AlreadyRegisteredError so counts keep accumulating across
// restarts. Any other registration failure panics.
func registerOrReuse(reg prometheus.Registerer, c prometheus.Collector) prometheus.Collector {
	if err := reg.Register(c); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			return are.ExistingCollector
		}
		panic(err)
	}
	return c
}
