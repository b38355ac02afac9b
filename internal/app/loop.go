package app

import (
	"time"

	"github.com/roadeye/dashcam/internal/logging"
)

// Loop pacing and bounds. The frame ceiling is a safety backstop, not
// a normal termination path.
const (
	DefaultMaxFrames = 100000
	DefaultInterval  = 33 * time.Millisecond

	progressEvery = 100
)

// FrameFunc is the per-iteration callback the loop drives. Frames are
// numbered from zero. A returned error is logged and the loop keeps
// going; only the shutdown flag and the ceiling end it.
type FrameFunc func(frame uint64) error

// ExitReason reports why Run returned.
type ExitReason int

const (
	// ReasonShutdown means the shutdown flag was observed set.
	ReasonShutdown ExitReason = iota
	// ReasonFrameLimit means the frame ceiling was reached.
	ReasonFrameLimit
)

func (r ExitReason) String() string {
	switch r {
	case ReasonShutdown:
		return "shutdown"
	case ReasonFrameLimit:
		return "frame_limit"
	default:
		return "unknown"
	}
}

// Loop polls the shutdown flag once per iteration and invokes the
// frame callback while the flag is unset and the ceiling unreached,
// sleeping a fixed interval between iterations.
type Loop struct {
	shutdown  *Shutdown
	frame     FrameFunc
	log       *logging.Logger
	maxFrames uint64
	interval  time.Duration
}

// LoopOption adjusts loop construction.
type LoopOption func(*Loop)

// WithMaxFrames overrides the frame ceiling.
func WithMaxFrames(n uint64) LoopOption {
	return func(l *Loop) { l.maxFrames = n }
}

// WithInterval overrides the inter-frame pacing sleep.
func WithInterval(d time.Duration) LoopOption {
	return func(l *Loop) { l.interval = d }
}

// NewLoop builds a loop around the coordinator and callback. A nil
// callback is replaced with a no-op so the loop still paces and polls.
func NewLoop(shutdown *Shutdown, frame FrameFunc, log *logging.Logger, opts ...LoopOption) *Loop {
	if frame == nil {
		frame = func(uint64) error { return nil }
	}

	l := &Loop{
		shutdown:  shutdown,
		frame:     frame,
		log:       log,
		maxFrames: DefaultMaxFrames,
		interval:  DefaultInterval,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Run drives the loop to completion and returns the number of frames
// processed plus why it stopped. Shutdown and ceiling exits are
// reported distinctly; the ceiling also logs a warning since hitting
// it means nobody asked us to stop.
func (l *Loop) Run() (uint64, ExitReason) {
	l.log.InfoWith().
		Uint64("max_frames", l.maxFrames).
		Dur("interval", l.interval).
		Msg("starting main loop")

	var frames uint64
	for {
		if l.shutdown.Requested() {
			l.log.InfoWith().Uint64("frames", frames).Msg("shutdown requested, leaving main loop")
			return frames, ReasonShutdown
		}
		if frames >= l.maxFrames {
			l.log.WarnWith().Uint64("max_frames", l.maxFrames).Msg("frame ceiling reached, leaving main loop")
			return frames, ReasonFrameLimit
		}

		if err := l.frame(frames); err != nil {
			l.log.ErrorWith().Err(err).Uint64("frame", frames).Msg("frame callback failed")
		}
		frames++

		if frames%progressEvery == 0 {
			l.log.DebugWith().Uint64("frames", frames).Msg("frames processed")
		}
		time.Sleep(l.interval)
	}
}
