// Package diag delivers severity-levelled operator events from the SIDH
// engine to a pluggable sink.
//
// A Diagnostics value is a capability handed to sidh.New through
// sidh.Config; there is no process-wide state. The sink reference is a single
// atomic pointer, so Register and Unregister may race freely with Emit.
// Events are queued on a bounded buffer and delivered by one dispatcher
// goroutine; when the buffer is full, new events are dropped and counted
// rather than blocking the emitter.
//
// # Levels
//
//	0 none     never delivered
//	1 error
//	2 warning
//	3 info
//	4 debug
//	5 verbose
//	6 epic
//
// # Usage
//
//	d := diag.New(diag.Options{Level: diag.LevelDebug})
//	defer d.Close()
//	d.Register(diag.ZerologSink(zerolog.New(os.Stderr)))
//
//	eng := sidh.New(sidh.Config{Diagnostics: d})
//
// Adapters exist for log/slog, zerolog, logrus and jwalterweatherman;
// SinkFunc adapts any function.
package diag
