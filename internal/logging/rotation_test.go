package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func countBackups(t *testing.T, dir string) int {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)

	n := 0
	for _, e := range entries {
		name := e.Name()
		if name == "rotate.log" {
			continue
		}
		if strings.HasPrefix(name, "rotate-") && strings.HasSuffix(name, ".log") {
			n++
		}
	}
	return n
}

func TestFileRotation(t *testing.T) {
	dir := t.TempDir()
	reg := NewRegistry(dir)
	cfg := LoggerConfig{
		Name:        DefaultLoggerName,
		Level:       "debug",
		File:        true,
		FilePath:    "logs/rotate.log",
		MaxFileSize: 1 << 20, // 1 MiB segments
		MaxFiles:    2,
	}
	require.NoError(t, reg.InitializeWith(cfg))
	t.Cleanup(func() { _ = reg.Shutdown() })

	lg, ok := reg.Default()
	require.True(t, ok)

	// Roughly 4 MiB of payload forces several rollovers.
	payload := strings.Repeat("x", 64*1024)
	for i := 0; i < 64; i++ {
		lg.InfoWith().Int("seq", i).Str("payload", payload).Msg("bulk write")
	}
	lg.Info("final marker line")

	logsDir := filepath.Join(dir, "logs")
	active, err := os.ReadFile(filepath.Join(logsDir, "rotate.log"))
	require.NoError(t, err)
	assert.Contains(t, string(active), "final marker line")

	// Rotation itself is synchronous with the overflowing write.
	require.GreaterOrEqual(t, countBackups(t, logsDir), 1)

	// Pruning to MaxFiles happens on a background pass, so poll for it.
	require.Eventually(t, func() bool {
		return countBackups(t, logsDir) <= 2
	}, 3*time.Second, 25*time.Millisecond)
}

func TestActiveFileStaysUnderSegmentSize(t *testing.T) {
	dir := t.TempDir()
	reg := NewRegistry(dir)
	cfg := LoggerConfig{
		Name:        DefaultLoggerName,
		Level:       "debug",
		File:        true,
		FilePath:    "logs/rotate.log",
		MaxFileSize: 1 << 20,
		MaxFiles:    3,
	}
	require.NoError(t, reg.InitializeWith(cfg))
	t.Cleanup(func() { _ = reg.Shutdown() })

	lg, ok := reg.Default()
	require.True(t, ok)

	payload := strings.Repeat("y", 32*1024)
	for i := 0; i < 80; i++ {
		lg.Infof("chunk %d %s", i, payload)
	}

	info, err := os.Stat(filepath.Join(dir, "logs", "rotate.log"))
	require.NoError(t, err)
	assert.LessOrEqual(t, info.Size(), int64(1<<20))
}
