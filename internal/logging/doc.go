// Package logging provides the daemon's named-logger registry: a
// concurrency-safe wrapper over rs/zerolog with per-logger sink chains,
// file rotation, and an explicit init/shutdown lifecycle.
//
// Key features
//   - Registry-owned named loggers with a distinguished "default" logger;
//     creating an existing name returns the existing instance
//   - Sink chains: console and rotating-file sinks, each with its own
//     severity threshold on top of the logger-wide level
//   - Structured-first API: typed field builders via InfoWith et al.,
//     child loggers via With() for per-subsystem scoping
//   - Error history enrichment: Err/AnErr attach the full cause chain
//     (outermost -> root), the root cause, and a joined history string
//   - Shutdown drains in-flight events (bounded timeout) before closing
//     file sinks, and leaves the registry re-initializable
//
// Typical usage
//
//	reg := logging.NewRegistry(workDir)
//	if err := reg.Initialize(logging.LevelInfo); err != nil {
//		return err
//	}
//	defer reg.Shutdown()
//
//	log, _ := reg.Default()
//	log.InfoWith().Str("camera", id).Msg("stream up")
//	cam := log.With().Str("camera", id).Logger()
//	cam.ErrorWith().Err(err).Msg("frame drop")
package logging
