package commands

import (
	"fmt"
	"syscall"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/roadeye/dashcam/internal/app"
	"github.com/roadeye/dashcam/internal/config"
	"github.com/roadeye/dashcam/internal/logging"
	"github.com/roadeye/dashcam/internal/metrics"
	"github.com/roadeye/dashcam/internal/server"
)

// frameLogEvery is how often the frame callback notes progress.
const frameLogEvery = 1000

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the dashcam daemon",
	Long: `Start the dashcam daemon in the foreground.

The daemon brings up the gRPC endpoint, runs the recording session loop
until a SIGINT or SIGTERM arrives or the frame ceiling is reached, then
drains the endpoint and flushes the logs before exiting.

Use --config to specify a custom configuration file, or it will use the
default location at $XDG_CONFIG_HOME/dashcam/config.yaml.

Examples:
  # Start with the default config location
  dashcam start

  # Start with a custom config file
  dashcam start --config /etc/dashcam/config.yaml

  # Start with environment variable overrides
  DASHCAM_LOGGING_LEVEL=debug dashcam start`,
	RunE: runStart,
}

func runStart(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(GetConfigFile())
	if err != nil {
		return err
	}

	registry := logging.NewRegistry(cfg.Logging.Directory)
	if err := registry.InitializeWith(cfg.Logging.LoggerConfig()); err != nil {
		return fmt.Errorf("initializing logging: %w", err)
	}
	defer func() { _ = registry.Shutdown() }()

	log, ok := registry.Default()
	if !ok {
		return fmt.Errorf("initializing logging: default logger missing")
	}

	var (
		collectors *metrics.Collectors
		aux        []app.Auxiliary
	)
	if cfg.Metrics.Enabled {
		preg := prometheus.NewRegistry()
		collectors = metrics.NewCollectors(preg)
		log.Hook(collectors.LevelHook())
		aux = append(aux, metrics.NewServer(cfg.Metrics.Address, preg, log))
	}

	runLog := log.With().Str("run_id", uuid.NewString()).Logger()
	runLog.InfoWith().
		Str("version", Version).
		Str("address", cfg.Server.Address).
		Msg("dashcam daemon starting")
	runLog.Dump(cfg)

	srv, err := server.New(cfg.Server.Address, runLog, []server.ServiceSet{server.NewHealthService()})
	if err != nil {
		return err
	}

	shutdown := app.NewShutdown()
	shutdown.Watch(syscall.SIGINT, syscall.SIGTERM)
	defer shutdown.Stop()

	frame := observeFrames(collectors, captureFrame(runLog))
	loop := app.NewLoop(shutdown, frame, runLog,
		app.WithMaxFrames(cfg.Loop.MaxFrames),
		app.WithInterval(cfg.Loop.Interval),
	)

	daemon := &app.App{
		Log:      runLog,
		Registry: registry,
		Service:  srv,
		Loop:     loop,
		Aux:      aux,
	}
	return daemon.Run(cmd.Context())
}

// captureFrame returns the per-frame work. Today that is a placeholder
// that notes progress; camera capture plugs in here.
func captureFrame(log *logging.Logger) app.FrameFunc {
	return func(frame uint64) error {
		if frame%frameLogEvery == 0 {
			log.InfoWith().Uint64("frame", frame).Msg("processing frame")
		}
		return nil
	}
}

// observeFrames wraps a frame callback with the metric counters. A nil
// collector set leaves the callback's behavior unchanged.
func observeFrames(c *metrics.Collectors, inner app.FrameFunc) app.FrameFunc {
	return func(frame uint64) error {
		if err := inner(frame); err != nil {
			c.RecordFrameError()
			return err
		}
		c.RecordFrame()
		return nil
	}
}
