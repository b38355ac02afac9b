package config

import (
	"github.com/spf13/viper"

	"github.com/roadeye/dashcam/internal/app"
	"github.com/roadeye/dashcam/internal/bytesize"
	"github.com/roadeye/dashcam/internal/logging"
	"github.com/roadeye/dashcam/internal/server"
)

const (
	// DefaultServerAddress is where the daemon listens for RPCs.
	DefaultServerAddress = "0.0.0.0:50051"

	// DefaultClientAddress is where the status command looks for a
	// running daemon.
	DefaultClientAddress = "localhost:50051"

	// DefaultMetricsAddress serves the Prometheus endpoint. Loopback
	// only; expose it deliberately if a scraper lives elsewhere.
	DefaultMetricsAddress = "127.0.0.1:9091"
)

// Default returns the built-in configuration, the same values Load
// falls back to when file and environment are silent.
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:       "info",
			Directory:   ".",
			Console:     true,
			File:        true,
			FilePath:    logging.DefaultFilePath,
			MaxFileSize: bytesize.ByteSize(logging.DefaultMaxFileSize),
			MaxFiles:    logging.DefaultMaxFiles,
		},
		Server: ServerConfig{
			Address: DefaultServerAddress,
		},
		Client: ClientConfig{
			Address:        DefaultClientAddress,
			ConnectTimeout: server.DefaultConnectTimeout,
		},
		Loop: LoopConfig{
			MaxFrames: app.DefaultMaxFrames,
			Interval:  app.DefaultInterval,
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Address: DefaultMetricsAddress,
		},
	}
}

// setDefaults registers every key with viper so environment variables
// bind even when no config file exists.
func setDefaults(v *viper.Viper) {
	def := Default()

	v.SetDefault("logging.level", def.Logging.Level)
	v.SetDefault("logging.directory", def.Logging.Directory)
	v.SetDefault("logging.console", def.Logging.Console)
	v.SetDefault("logging.file", def.Logging.File)
	v.SetDefault("logging.file_path", def.Logging.FilePath)
	v.SetDefault("logging.max_file_size", def.Logging.MaxFileSize.Uint64())
	v.SetDefault("logging.max_files", def.Logging.MaxFiles)
	v.SetDefault("logging.max_age_days", def.Logging.MaxAgeDays)
	v.SetDefault("logging.console_level", def.Logging.ConsoleLevel)
	v.SetDefault("logging.file_level", def.Logging.FileLevel)
	v.SetDefault("logging.no_color", def.Logging.NoColor)
	v.SetDefault("logging.compress", def.Logging.Compress)

	v.SetDefault("server.address", def.Server.Address)

	v.SetDefault("client.address", def.Client.Address)
	v.SetDefault("client.connect_timeout", def.Client.ConnectTimeout)

	v.SetDefault("loop.max_frames", def.Loop.MaxFrames)
	v.SetDefault("loop.interval", def.Loop.Interval)

	v.SetDefault("metrics.enabled", def.Metrics.Enabled)
	v.SetDefault("metrics.address", def.Metrics.Address)
}
