package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newFileLogger builds a registry with a file-only default logger in a
// temp dir and returns the logger plus the log file path.
func newFileLogger(t testing.TB, level string) (*Logger, string) {
	t.Helper()
	dir := t.TempDir()

	reg := NewRegistry(dir)
	cfg := LoggerConfig{
		Name:     DefaultLoggerName,
		Level:    level,
		Console:  false,
		File:     true,
		FilePath: "logs/test.log",
	}
	require.NoError(t, reg.InitializeWith(cfg))
	t.Cleanup(func() { _ = reg.Shutdown() })

	lg, ok := reg.Default()
	require.True(t, ok)
	return lg, filepath.Join(dir, "logs", "test.log")
}

func TestFileLoggingCreatesAndWrites(t *testing.T) {
	lg, logPath := newFileLogger(t, "debug")

	lg.Infof("hello %s", "world")
	lg.Warn("be careful")

	_, err := os.Stat(logPath)
	require.NoError(t, err)

	content, err := os.ReadFile(logPath)
	require.NoError(t, err)
	text := string(content)
	require.Contains(t, text, "hello world")
	require.Contains(t, text, "be careful")
}

func TestLevelFiltering(t *testing.T) {
	lg, logPath := newFileLogger(t, "warning")

	lg.Debug("this should not appear debug")
	lg.Info("this should not appear info")
	lg.Warn("this should appear warning")
	lg.Error("this should appear error")
	lg.Critical("this should appear critical")

	content, err := os.ReadFile(logPath)
	require.NoError(t, err)
	s := string(content)
	require.NotContains(t, s, "this should not appear debug")
	require.NotContains(t, s, "this should not appear info")
	require.Contains(t, s, "this should appear warning")
	require.Contains(t, s, "this should appear error")
	require.Contains(t, s, "this should appear critical")
}

func TestCriticalDoesNotExit(t *testing.T) {
	lg, logPath := newFileLogger(t, "info")

	lg.CriticalWith().Str("stage", "probe").Msg("still alive")
	lg.Info("after critical")

	content, err := os.ReadFile(logPath)
	require.NoError(t, err)
	s := string(content)
	require.Contains(t, s, `"level":"fatal"`)
	require.Contains(t, s, "still alive")
	require.Contains(t, s, "after critical")
}

func TestSetLevelTakesEffect(t *testing.T) {
	lg, logPath := newFileLogger(t, "info")

	lg.Debug("early debug dropped")
	assert.Equal(t, LevelInfo, lg.GetLevel())

	lg.SetLevel(LevelDebug)
	assert.Equal(t, LevelDebug, lg.GetLevel())
	lg.Debug("late debug visible")

	lg.SetLevel(LevelError)
	lg.Info("info now dropped")

	content, err := os.ReadFile(logPath)
	require.NoError(t, err)
	s := string(content)
	require.NotContains(t, s, "early debug dropped")
	require.Contains(t, s, "late debug visible")
	require.NotContains(t, s, "info now dropped")
}

func TestCallerAnnotation(t *testing.T) {
	dir := t.TempDir()
	reg := NewRegistry(dir)
	require.NoError(t, reg.InitializeWith(LoggerConfig{
		Name:             DefaultLoggerName,
		Level:            "info",
		File:             true,
		FilePath:         "logs/test.log",
		CallerSkipFrames: 4,
	}))
	t.Cleanup(func() { _ = reg.Shutdown() })

	lg, ok := reg.Default()
	require.True(t, ok)
	lg.Info("locate me")

	content, err := os.ReadFile(filepath.Join(dir, "logs", "test.log"))
	require.NoError(t, err)
	assert.Contains(t, string(content), `"caller":`)
}

func TestStructuredLogging(t *testing.T) {
	lg, logPath := newFileLogger(t, "debug")

	lg.InfoWith().
		Str("camera_id", "cam-12").
		Int("count", 42).
		Bool("active", true).
		Msg("frame batch processed")

	probeErr := fmt.Errorf("test error")
	lg.ErrorWith().
		Err(probeErr).
		Str("operation", "encode").
		Int("retry_count", 3).
		Msg("operation failed")

	lg.DebugWith().
		Float64("temperature", 48.5).
		Uint("port", 50051).
		Msg("board metrics")

	content, err := os.ReadFile(logPath)
	require.NoError(t, err)
	s := string(content)

	require.Contains(t, s, `"camera_id":"cam-12"`)
	require.Contains(t, s, `"count":42`)
	require.Contains(t, s, `"active":true`)
	require.Contains(t, s, `"error":"test error"`)
	require.Contains(t, s, `"operation":"encode"`)
	require.Contains(t, s, `"retry_count":3`)
	require.Contains(t, s, `"temperature":48.5`)
	require.Contains(t, s, `"port":50051`)
}

func TestStructuredLoggingWithContext(t *testing.T) {
	lg, logPath := newFileLogger(t, "debug")

	camLogger := lg.With().
		Str("camera_id", "cam-7").
		Str("session_id", "sess-456").
		Logger()

	camLogger.InfoWith().Str("action", "start").Msg("recording started")
	camLogger.InfoWith().Str("action", "end").Int("frames", 200).Msg("recording finished")

	content, err := os.ReadFile(logPath)
	require.NoError(t, err)
	s := string(content)

	require.Equal(t, 2, strings.Count(s, `"camera_id":"cam-7"`))
	require.Equal(t, 2, strings.Count(s, `"session_id":"sess-456"`))
	require.Contains(t, s, `"action":"start"`)
	require.Contains(t, s, `"action":"end"`)
	require.Contains(t, s, `"frames":200`)
}

func TestStructuredLoggingArraysAndDuration(t *testing.T) {
	lg, logPath := newFileLogger(t, "debug")

	lg.InfoWith().
		Strs("tags", []string{"night", "highway", "rain"}).
		Dur("elapsed", 250*time.Millisecond).
		Msg("clip tagged")

	content, err := os.ReadFile(logPath)
	require.NoError(t, err)
	s := string(content)

	require.Contains(t, s, `"tags":["night","highway","rain"]`)
	require.Contains(t, s, `"elapsed":250`)
}

func TestStructuredLoggingWithNesting(t *testing.T) {
	lg, logPath := newFileLogger(t, "debug")

	lg.InfoWith().
		Str("event", "trip_summary").
		Dict("vehicle", func(e LogEvent) {
			e.Str("vin", "vin-123")
			e.Int("odometer", 48211)
		}).
		Dict("route", func(e LogEvent) {
			e.Str("start", "garage")
			e.Bool("completed", true)
		}).
		Msg("nested structured log")

	content, err := os.ReadFile(logPath)
	require.NoError(t, err)
	s := string(content)

	require.Contains(t, s, `"vehicle":`)
	require.Contains(t, s, `"vin":"vin-123"`)
	require.Contains(t, s, `"odometer":48211`)
	require.Contains(t, s, `"route":`)
	require.Contains(t, s, `"start":"garage"`)
	require.Contains(t, s, `"completed":true`)
}

func TestConcurrentLogging(t *testing.T) {
	lg, _ := newFileLogger(t, "debug")

	const goroutines = 50
	const iterations = 50

	done := make(chan bool, goroutines)
	for i := 0; i < goroutines; i++ {
		go func(id int) {
			for j := 0; j < iterations; j++ {
				lg.Info("goroutine", id, "iteration", j)
				lg.InfoWith().Int("goroutine_id", id).Int("iteration", j).Msg("concurrent log")
				lg.Debugf("formatted %d:%d", id, j)
			}
			done <- true
		}(i)
	}
	for i := 0; i < goroutines; i++ {
		<-done
	}
}

func TestNilLoggerDoesNotPanic(t *testing.T) {
	var lg *Logger

	lg.Info("test")
	lg.Infof("test %d", 1)
	lg.Debug("test")
	lg.Warn("test")
	lg.Error("test")
	lg.Critical("test")
	lg.InfoWith().Str("key", "value").Msg("test")
	lg.ErrorWith().Err(fmt.Errorf("boom")).Msg("test")
	lg.Dump(struct{ A int }{A: 1})
	lg.SetLevel(LevelDebug)
	assert.Equal(t, LevelOff, lg.GetLevel())
	assert.Equal(t, "", lg.Name())

	child := lg.With().Str("key", "value").Logger()
	child.InfoWith().Msg("from nil parent")

	zero := &Logger{}
	zero.Info("zero value")
	zero.InfoWith().Msg("zero value structured")
}

func TestDumpOutputs(t *testing.T) {
	type mount struct {
		Name string
		Slot int
	}
	lg, logPath := newFileLogger(t, "debug")

	m := map[string]int{"front": 1, "rear": 2}
	s := []string{"h264", "h265"}
	p := mount{Name: "windshield", Slot: 3}

	lg.Dump(nil)
	lg.Dump(m)
	lg.Dump(s)
	lg.Dump(p)
	lg.Dump(&p)

	content, err := os.ReadFile(logPath)
	require.NoError(t, err)
	str := string(content)
	require.Contains(t, str, "<nil>")
	require.True(t, strings.Contains(str, "front") || strings.Contains(str, "rear"))
	require.Contains(t, str, "windshield")
}

func TestDumpCircularReference(t *testing.T) {
	type node struct {
		Name string
		Next *node
	}
	lg, logPath := newFileLogger(t, "debug")

	a := &node{Name: "a"}
	b := &node{Name: "b", Next: a}
	a.Next = b

	lg.Dump(a)

	content, err := os.ReadFile(logPath)
	require.NoError(t, err)
	require.Contains(t, string(content), "<circular reference>")
}
