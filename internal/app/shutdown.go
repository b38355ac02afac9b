package app

import (
	"os"
	"os/signal"
	"sync"
	"syscall"

	"go.uber.org/atomic"
)

// Shutdown coalesces asynchronous termination signals into a single
// cooperative flag. The flag transitions unset to set exactly once per
// process lifetime and is never cleared; signals after the first are
// absorbed. The watcher does nothing but set the flag, so reacting to
// it (logging, teardown) belongs to whoever polls Requested.
type Shutdown struct {
	requested atomic.Bool
	watching  atomic.Bool

	sigCh    chan os.Signal
	done     chan struct{}
	stopOnce sync.Once
}

// NewShutdown returns a coordinator with the flag unset.
func NewShutdown() *Shutdown {
	return &Shutdown{}
}

// Watch subscribes to the given signals, defaulting to interrupt and
// terminate when none are named. Repeated calls are no-ops.
func (s *Shutdown) Watch(signals ...os.Signal) {
	if !s.watching.CompareAndSwap(false, true) {
		return
	}
	if len(signals) == 0 {
		signals = []os.Signal{os.Interrupt, syscall.SIGTERM}
	}

	s.sigCh = make(chan os.Signal, 1)
	s.done = make(chan struct{})
	signal.Notify(s.sigCh, signals...)

	go func() {
		defer close(s.done)
		for range s.sigCh {
			s.requested.CompareAndSwap(false, true)
		}
	}()
}

// Trigger sets the flag without a signal, reporting whether this call
// performed the transition.
func (s *Shutdown) Trigger() bool {
	return s.requested.CompareAndSwap(false, true)
}

// Requested reads the flag. Safe to call at any rate from any
// goroutine.
func (s *Shutdown) Requested() bool {
	return s.requested.Load()
}

// Stop unsubscribes from signals and reaps the watcher. The flag keeps
// its value; a stopped coordinator cannot be re-armed.
func (s *Shutdown) Stop() {
	if !s.watching.Load() {
		return
	}
	s.stopOnce.Do(func() {
		signal.Stop(s.sigCh)
		close(s.sigCh)
		<-s.done
	})
}
