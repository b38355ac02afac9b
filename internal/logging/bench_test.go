package logging

import (
	"errors"
	"fmt"
	"io"
	"testing"
)

func newBenchLogger(b *testing.B, level string) *Logger {
	b.Helper()

	reg := NewRegistry(b.TempDir(), WithConsoleOutput(io.Discard))
	cfg := LoggerConfig{
		Name:    DefaultLoggerName,
		Level:   level,
		Console: true,
		NoColor: true,
	}
	if err := reg.InitializeWith(cfg); err != nil {
		b.Fatal(err)
	}
	b.Cleanup(func() { _ = reg.Shutdown() })

	lg, ok := reg.Default()
	if !ok {
		b.Fatal("default logger missing after init")
	}
	return lg
}

func BenchmarkInfoPrint(b *testing.B) {
	lg := newBenchLogger(b, "info")
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		lg.Info("frame processed")
	}
}

func BenchmarkInfofFormat(b *testing.B) {
	lg := newBenchLogger(b, "info")
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		lg.Infof("frame %d processed in %dms", i, 33)
	}
}

func BenchmarkStructuredEvent(b *testing.B) {
	lg := newBenchLogger(b, "info")
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		lg.InfoWith().Str("camera", "front").Int("frame", i).Msg("processed")
	}
}

func BenchmarkStructuredEventDisabled(b *testing.B) {
	lg := newBenchLogger(b, "error")
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		lg.DebugWith().Str("camera", "front").Int("frame", i).Msg("dropped")
	}
}

func BenchmarkStructuredEventParallel(b *testing.B) {
	lg := newBenchLogger(b, "info")
	b.ReportAllocs()
	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			lg.InfoWith().Str("camera", "rear").Int("fps", 30).Msg("tick")
		}
	})
}

func BenchmarkErrorChainField(b *testing.B) {
	lg := newBenchLogger(b, "info")
	err := fmt.Errorf("write segment: %w", fmt.Errorf("flush: %w", errors.New("disk full")))
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		lg.ErrorWith().Err(err).Msg("segment write failed")
	}
}
