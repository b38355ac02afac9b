package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

// sinkChain is the set of output destinations behind one logger. Every sink
// carries its own severity threshold; the chain fans a rendered event out to
// each sink that accepts the event's level.
type sinkChain struct {
	out  zerolog.LevelWriter
	file *lumberjack.Logger // nil when the file sink is disabled
}

// newSinkChain builds the chain described by cfg. Relative file paths are
// resolved against baseDir; missing parent directories are created. Any
// failure leaves no partial state behind: the logger is simply not built.
func newSinkChain(cfg *LoggerConfig, baseDir string, consoleOut io.Writer) (*sinkChain, error) {
	chain := &sinkChain{}
	var writers []io.Writer

	if cfg.File {
		fileLevel, err := sinkLevel(cfg.FileLevel)
		if err != nil {
			return nil, fmt.Errorf("file sink: %w", err)
		}

		path := cfg.FilePath
		if !filepath.IsAbs(path) {
			path = filepath.Join(baseDir, path)
		}
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("creating log directory: %w", err)
		}

		chain.file = &lumberjack.Logger{
			Filename:   path,
			MaxSize:    megabytes(cfg.MaxFileSize),
			MaxBackups: cfg.MaxFiles,
			MaxAge:     cfg.MaxAgeDays,
			Compress:   cfg.Compress,
		}
		writers = append(writers, leveled(chain.file, fileLevel))
	}

	if cfg.Console {
		consoleLevel, err := sinkLevel(cfg.ConsoleLevel)
		if err != nil {
			return nil, fmt.Errorf("console sink: %w", err)
		}
		if consoleOut == nil {
			consoleOut = os.Stderr
		}
		cw := zerolog.ConsoleWriter{
			Out:        consoleOut,
			TimeFormat: cfg.TimeFormat,
			NoColor:    cfg.NoColor,
		}
		writers = append(writers, leveled(cw, consoleLevel))
	}

	if len(writers) == 0 {
		return nil, ErrNoSinks
	}

	chain.out = zerolog.MultiLevelWriter(writers...)
	return chain, nil
}

// Close releases the chain's file handle. Console sinks hold no resources.
func (c *sinkChain) Close() error {
	if c == nil || c.file == nil {
		return nil
	}
	return c.file.Close()
}

// leveled wraps a writer with its own severity threshold so each sink
// filters independently of the logger-wide level.
func leveled(w io.Writer, threshold Level) zerolog.LevelWriter {
	lw, ok := w.(zerolog.LevelWriter)
	if !ok {
		lw = zerolog.LevelWriterAdapter{Writer: w}
	}
	return &zerolog.FilteredLevelWriter{
		Writer: lw,
		Level:  threshold.zerologLevel(),
	}
}

// sinkLevel resolves a per-sink override. An unset override means the sink
// applies no filtering of its own: the logger-wide level (which can move
// at runtime via SetLevel) is then the only gate. Sink thresholds are
// fixed for the life of the chain.
func sinkLevel(override string) (Level, error) {
	if override == "" {
		return LevelTrace, nil
	}
	return ParseLevel(override)
}

// megabytes converts a byte count to lumberjack's whole-megabyte unit,
// rounding up so a segment never exceeds the configured byte bound by
// more than the rounding slack.
func megabytes(n int64) int {
	const mb = 1 << 20
	if n <= 0 {
		return int(DefaultMaxFileSize / mb)
	}
	return int((n + mb - 1) / mb)
}
