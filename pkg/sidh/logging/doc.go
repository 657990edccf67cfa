// Package logging is the structured logging facade of the SIDH engine.
//
// Logger is a small ctx-first interface with an slog implementation (New), a
// zerolog implementation (NewZerolog) and Discard. The engine and the circl
// backend describe every call with the same typed attributes, so records
// from either backend line up:
//
//	log := logging.NewZerolog(zerolog.New(os.Stderr))
//	eng := sidh.New(sidh.Config{Logger: log})
//
//	// emitted by the engine after each operation:
//	//   op=agree set=P434 role=B elapsed=41ms
//
// Use Op, Set, Role, Backend, Elapsed, Len and Err rather than ad-hoc keys.
//
// # Secrets
//
// Private scalars and shared secrets are never logged, not even their
// length. Mark a deliberately omitted value with Redacted:
//
//	logger.Debug(ctx, "scalar sampled", logging.Set(set), logging.Redacted("private_key"))
package logging
