package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/roadeye/dashcam/internal/bytesize"
	"github.com/roadeye/dashcam/internal/logging"
)

// Config is the daemon's full configuration surface.
//
// Sources in order of precedence: environment variables (DASHCAM_*),
// the configuration file, then built-in defaults. The file is YAML;
// keys nest with dots in env form, e.g. DASHCAM_SERVER_ADDRESS or
// DASHCAM_LOGGING_LEVEL.
type Config struct {
	Logging LoggingConfig `mapstructure:"logging" yaml:"logging"`
	Server  ServerConfig  `mapstructure:"server" yaml:"server"`
	Client  ClientConfig  `mapstructure:"client" yaml:"client"`
	Loop    LoopConfig    `mapstructure:"loop" yaml:"loop"`
	Metrics MetricsConfig `mapstructure:"metrics" yaml:"metrics"`
}

// LoggingConfig shapes the default logger built at startup.
type LoggingConfig struct {
	// Level gates the logger; per-sink levels may narrow further.
	Level string `mapstructure:"level" yaml:"level" validate:"required,oneof=trace debug info warn warning error critical fatal off disabled"`

	// Directory anchors relative log file paths.
	Directory string `mapstructure:"directory" yaml:"directory"`

	Console bool `mapstructure:"console" yaml:"console"`
	File    bool `mapstructure:"file" yaml:"file"`

	FilePath    string            `mapstructure:"file_path" yaml:"file_path" validate:"required_if=File true"`
	MaxFileSize bytesize.ByteSize `mapstructure:"max_file_size" yaml:"max_file_size"`
	MaxFiles    int               `mapstructure:"max_files" yaml:"max_files" validate:"gte=0"`
	MaxAgeDays  int               `mapstructure:"max_age_days" yaml:"max_age_days" validate:"gte=0"`

	ConsoleLevel string `mapstructure:"console_level" yaml:"console_level,omitempty"`
	FileLevel    string `mapstructure:"file_level" yaml:"file_level,omitempty"`
	NoColor      bool   `mapstructure:"no_color" yaml:"no_color"`
	Compress     bool   `mapstructure:"compress" yaml:"compress"`
}

// LoggerConfig converts the section into the logging package's
// construction config for the default logger.
func (c LoggingConfig) LoggerConfig() logging.LoggerConfig {
	return logging.LoggerConfig{
		Name:         logging.DefaultLoggerName,
		Level:        c.Level,
		Console:      c.Console,
		File:         c.File,
		FilePath:     c.FilePath,
		MaxFileSize:  c.MaxFileSize.Int64(),
		MaxFiles:     c.MaxFiles,
		MaxAgeDays:   c.MaxAgeDays,
		ConsoleLevel: c.ConsoleLevel,
		FileLevel:    c.FileLevel,
		NoColor:      c.NoColor,
		Compress:     c.Compress,
	}
}

// ServerConfig locates the gRPC endpoint the daemon exposes.
type ServerConfig struct {
	Address string `mapstructure:"address" yaml:"address" validate:"required,hostname_port"`
}

// ClientConfig locates the endpoint the status command queries.
type ClientConfig struct {
	Address        string        `mapstructure:"address" yaml:"address" validate:"required,hostname_port"`
	ConnectTimeout time.Duration `mapstructure:"connect_timeout" yaml:"connect_timeout" validate:"gt=0"`
}

// LoopConfig bounds and paces the frame loop.
type LoopConfig struct {
	MaxFrames uint64        `mapstructure:"max_frames" yaml:"max_frames" validate:"gt=0"`
	Interval  time.Duration `mapstructure:"interval" yaml:"interval" validate:"gte=0"`
}

// MetricsConfig controls the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled" yaml:"enabled"`
	Address string `mapstructure:"address" yaml:"address" validate:"required_if=Enabled true,omitempty,hostname_port"`
}

// Load reads configuration from the given file plus DASHCAM_* env
// variables, falling back to defaults for anything unset. An empty
// path searches the default config directory; a missing file is not
// an error, a malformed one is.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetEnvPrefix("DASHCAM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(Dir())
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !os.IsNotExist(err) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg, viper.DecodeHook(decodeHooks())); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Save writes the configuration as YAML, creating parent directories
// as needed. Permissions are restricted since deployments sometimes
// point log paths at sensitive locations.
func Save(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

// Validate checks the struct tags plus the cross-field rules the tags
// cannot express.
func Validate(cfg *Config) error {
	if err := configValidator().Struct(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if !cfg.Logging.Console && !cfg.Logging.File {
		return fmt.Errorf("invalid configuration: logging needs at least one sink enabled")
	}
	return nil
}

// Dir returns the configuration directory, honoring XDG_CONFIG_HOME.
func Dir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "dashcam")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".config", "dashcam")
}

// DefaultPath returns the default config file location.
func DefaultPath() string {
	return filepath.Join(Dir(), "config.yaml")
}

func decodeHooks() mapstructure.DecodeHookFunc {
	return mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		byteSizeHook(),
	)
}

// byteSizeHook converts config scalars into bytesize.ByteSize, so
// files may say max_file_size: "10MiB" or a raw byte count.
func byteSizeHook() mapstructure.DecodeHookFunc {
	return func(_ reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
		if to != reflect.TypeOf(bytesize.ByteSize(0)) {
			return data, nil
		}
		switch v := data.(type) {
		case string:
			return bytesize.Parse(v)
		case int:
			return bytesize.ByteSize(v), nil
		case int64:
			return bytesize.ByteSize(v), nil
		case uint64:
			return bytesize.ByteSize(v), nil
		case float64:
			return bytesize.ByteSize(v), nil
		default:
			return data, nil
		}
	}
}

var (
	validatorOnce sync.Once
	validatorInst *validator.Validate
)

func configValidator() *validator.Validate {
	validatorOnce.Do(func() {
		validatorInst = validator.New(validator.WithRequiredStructEnabled())
	})
	return validatorInst
}
