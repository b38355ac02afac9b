package app

import (
	"context"
	"fmt"
	"time"

	"github.com/roadeye/dashcam/internal/logging"
)

// auxStopTimeout bounds the shutdown of each auxiliary component.
const auxStopTimeout = 5 * time.Second

// Lifecycle is the startable network service whose uptime the app
// governs.
type Lifecycle interface {
	Start() error
	Stop()
	WaitForShutdown() error
	IsRunning() bool
}

// Auxiliary is a secondary component started after the service and
// stopped before the log registry, such as the metrics endpoint.
type Auxiliary interface {
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
}

// App owns one daemon session: service up, auxiliaries up, main loop,
// then teardown with the service drained first and the log registry
// torn down strictly last so every stage can still log.
type App struct {
	Log      *logging.Logger
	Registry *logging.Registry
	Service  Lifecycle
	Loop     *Loop
	Aux      []Auxiliary
}

// Run executes the session and blocks until teardown completes. The
// loop decides when the session ends; Run only reports errors from
// bringing components up or tearing logging down. Error paths leave
// the registry to the caller's own cleanup, which is safe because
// registry shutdown is idempotent.
func (a *App) Run(ctx context.Context) error {
	if err := a.Service.Start(); err != nil {
		return fmt.Errorf("starting service: %w", err)
	}

	started := make([]Auxiliary, 0, len(a.Aux))
	for _, aux := range a.Aux {
		if err := aux.Start(ctx); err != nil {
			a.stopAuxiliaries(started)
			a.Service.Stop()
			return fmt.Errorf("starting auxiliary component: %w", err)
		}
		started = append(started, aux)
	}

	frames, reason := a.Loop.Run()
	a.Log.InfoWith().
		Uint64("frames", frames).
		Str("reason", reason.String()).
		Msg("main loop finished")

	a.Service.Stop()
	if err := a.Service.WaitForShutdown(); err != nil {
		a.Log.WarnWith().Err(err).Msg("waiting for service shutdown")
	}
	a.stopAuxiliaries(started)

	if err := a.Registry.Shutdown(); err != nil {
		return fmt.Errorf("shutting down logging: %w", err)
	}
	return nil
}

func (a *App) stopAuxiliaries(started []Auxiliary) {
	for i := len(started) - 1; i >= 0; i-- {
		ctx, cancel := context.WithTimeout(context.Background(), auxStopTimeout)
		if err := started[i].Stop(ctx); err != nil {
			a.Log.WarnWith().Err(err).Msg("auxiliary component stop failed")
		}
		cancel()
	}
}
