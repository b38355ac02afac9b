package logging

import (
	"fmt"
	"sync"

	"github.com/go-playground/validator/v10"
)

const (
	// DefaultLoggerName is the name of the registry's bootstrap logger.
	DefaultLoggerName = "default"

	// DefaultFilePath is where the default logger writes, relative to the
	// registry's base directory.
	DefaultFilePath = "logs/dashcam.log"

	// DefaultMaxFileSize caps a log segment at 10 MiB before rotation.
	DefaultMaxFileSize int64 = 10 << 20

	// DefaultMaxFiles is the number of rotated segments retained.
	DefaultMaxFiles = 5

	defaultTimeFormat = "2006-01-02 15:04:05.000"
)

// LoggerConfig describes one logger and its sink chain. It is consumed at
// construction time only; a live logger never re-reads its config.
type LoggerConfig struct {
	// Name identifies the logger within a registry. Unique; a second
	// CreateLogger with the same name returns the existing instance.
	Name string `mapstructure:"name" validate:"required"`

	// Level is the logger-wide severity gate. Empty means "info".
	Level string `mapstructure:"level" validate:"omitempty,oneof=trace debug info warn warning error critical fatal off disabled"`

	// Console and File enable the two sink kinds. At least one must be on.
	Console bool `mapstructure:"console"`
	File    bool `mapstructure:"file"`

	// FilePath locates the rotating log file. Relative paths are resolved
	// against the registry base directory. Required when File is enabled.
	FilePath string `mapstructure:"file_path" validate:"required_if=File true"`

	// MaxFileSize is the rotation threshold in bytes; zero selects the
	// 10 MiB default.
	MaxFileSize int64 `mapstructure:"max_file_size" validate:"gte=0"`

	// MaxFiles is how many rotated segments are retained; the oldest is
	// evicted on rotation. Zero selects the default of 5.
	MaxFiles int `mapstructure:"max_files" validate:"gte=0"`

	// MaxAgeDays additionally evicts rotated segments older than this
	// many days. Zero keeps segments until MaxFiles evicts them.
	MaxAgeDays int `mapstructure:"max_age_days" validate:"gte=0"`

	// ConsoleLevel and FileLevel override the logger level for a single
	// sink, letting e.g. the console stay at info while the file keeps
	// warnings only. Empty inherits Level.
	ConsoleLevel string `mapstructure:"console_level" validate:"omitempty,oneof=trace debug info warn warning error critical fatal off disabled"`
	FileLevel    string `mapstructure:"file_level" validate:"omitempty,oneof=trace debug info warn warning error critical fatal off disabled"`

	// TimeFormat is the console timestamp layout; the file sink always
	// writes structured JSON with epoch timestamps.
	TimeFormat string `mapstructure:"time_format"`

	// CallerSkipFrames, when positive, annotates every event with the
	// caller location that many frames up the stack.
	CallerSkipFrames int `mapstructure:"caller_skip_frames" validate:"gte=0"`

	// NoColor disables ANSI color on the console sink.
	NoColor bool `mapstructure:"no_color"`

	// Compress gzips rotated segments.
	Compress bool `mapstructure:"compress"`
}

// DefaultConfig is the bootstrap logger configuration: both sinks enabled,
// standard file location and rotation bounds.
func DefaultConfig(level Level) LoggerConfig {
	return LoggerConfig{
		Name:        DefaultLoggerName,
		Level:       level.String(),
		Console:     true,
		File:        true,
		FilePath:    DefaultFilePath,
		MaxFileSize: DefaultMaxFileSize,
		MaxFiles:    DefaultMaxFiles,
	}
}

// withDefaults fills the zero-valued rotation and rendering fields.
func (c LoggerConfig) withDefaults() LoggerConfig {
	if c.Level == "" {
		c.Level = LevelInfo.String()
	}
	if c.MaxFileSize == 0 {
		c.MaxFileSize = DefaultMaxFileSize
	}
	if c.MaxFiles == 0 {
		c.MaxFiles = DefaultMaxFiles
	}
	if c.TimeFormat == "" {
		c.TimeFormat = defaultTimeFormat
	}
	return c
}

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func validateConfig(cfg *LoggerConfig) error {
	if cfg == nil {
		return ErrNilConfig
	}

	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})

	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("invalid logger config %q: %w", cfg.Name, err)
	}
	if !cfg.Console && !cfg.File {
		return ErrNoSinks
	}
	return nil
}
