package logging

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/rs/zerolog"
)

// Attribute keys shared by every backend and by the engine, so log queries
// work the same whichever Logger is installed.
const (
	KeyOp      = "op"
	KeySet     = "set"
	KeyRole    = "role"
	KeyBackend = "backend"
	KeyElapsed = "elapsed"
	KeyError   = "error"
	KeyLength  = "len"
)

const redactedPlaceholder = "[redacted]"

// Logger is the structured logger the engine and its backends write to.
// Arguments follow the slog convention: slog.Attr values, or alternating
// keys and values.
type Logger interface {
	Debug(ctx context.Context, msg string, args ...any)
	Info(ctx context.Context, msg string, args ...any)
	Warn(ctx context.Context, msg string, args ...any)
	Error(ctx context.Context, msg string, args ...any)
	With(args ...any) Logger
}

// Op names the key-agreement step being logged.
func Op(name string) slog.Attr { return slog.String(KeyOp, name) }

// Set records a parameter set by name.
func Set(set fmt.Stringer) slog.Attr { return slog.String(KeySet, set.String()) }

// Role records the party role.
func Role(role fmt.Stringer) slog.Attr { return slog.String(KeyRole, role.String()) }

// Backend records which key-agreement implementation produced the record.
func Backend(name string) slog.Attr { return slog.String(KeyBackend, name) }

// Elapsed records an operation's duration.
func Elapsed(d time.Duration) slog.Attr { return slog.Duration(KeyElapsed, d) }

// Len records the length of a public buffer such as a public key. Never use
// it to hint at the content of secret buffers.
func Len(n int) slog.Attr { return slog.Int(KeyLength, n) }

// Err records an error. A nil error yields an empty attribute, which every
// backend skips.
func Err(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any(KeyError, err)
}

// Operation returns the attributes identifying one call, for use with With.
func Operation(op string, set, role fmt.Stringer) []any {
	return []any{Op(op), Set(set), Role(role)}
}

// Redacted stands in for a sensitive value that was deliberately left out.
func Redacted(key string) slog.Attr {
	return slog.String(key, redactedPlaceholder)
}

// Placeholder returns the string Redacted logs in place of a value.
func Placeholder() string {
	return redactedPlaceholder
}

// New returns a Logger backed by an slog.Logger. Nil selects slog.Default().
func New(logger *slog.Logger) Logger {
	if logger == nil {
		logger = slog.Default()
	}
	return &slogLogger{logger: logger}
}

type slogLogger struct {
	logger *slog.Logger
}

func (l *slogLogger) Debug(ctx context.Context, msg string, args ...any) {
	l.logger.DebugContext(ctx, msg, args...)
}

func (l *slogLogger) Info(ctx context.Context, msg string, args ...any) {
	l.logger.InfoContext(ctx, msg, args...)
}

func (l *slogLogger) Warn(ctx context.Context, msg string, args ...any) {
	l.logger.WarnContext(ctx, msg, args...)
}

func (l *slogLogger) Error(ctx context.Context, msg string, args ...any) {
	l.logger.ErrorContext(ctx, msg, args...)
}

func (l *slogLogger) With(args ...any) Logger {
	return &slogLogger{logger: l.logger.With(args...)}
}

// NewZerolog returns a Logger that writes through a zerolog logger. Durations,
// integers and errors keep their zerolog field types.
func NewZerolog(l zerolog.Logger) Logger {
	return &zeroLogger{logger: l}
}

type zeroLogger struct {
	logger zerolog.Logger
}

func (l *zeroLogger) Debug(_ context.Context, msg string, args ...any) {
	l.log(l.logger.Debug(), msg, args)
}

func (l *zeroLogger) Info(_ context.Context, msg string, args ...any) {
	l.log(l.logger.Info(), msg, args)
}

func (l *zeroLogger) Warn(_ context.Context, msg string, args ...any) {
	l.log(l.logger.Warn(), msg, args)
}

func (l *zeroLogger) Error(_ context.Context, msg string, args ...any) {
	l.log(l.logger.Error(), msg, args)
}

func (l *zeroLogger) With(args ...any) Logger {
	ctx := l.logger.With()
	for _, a := range attrs(args) {
		ctx = ctx.Interface(a.Key, fieldValue(a.Value))
	}
	return &zeroLogger{logger: ctx.Logger()}
}

func (l *zeroLogger) log(ev *zerolog.Event, msg string, args []any) {
	if ev == nil {
		return
	}
	for _, a := range attrs(args) {
		switch a.Value.Kind() {
		case slog.KindDuration:
			ev = ev.Dur(a.Key, a.Value.Duration())
		case slog.KindInt64:
			ev = ev.Int64(a.Key, a.Value.Int64())
		case slog.KindBool:
			ev = ev.Bool(a.Key, a.Value.Bool())
		case slog.KindAny:
			if err, ok := a.Value.Any().(error); ok {
				ev = ev.AnErr(a.Key, err)
				continue
			}
			ev = ev.Str(a.Key, a.Value.String())
		default:
			ev = ev.Str(a.Key, a.Value.String())
		}
	}
	ev.Msg(msg)
}

func fieldValue(v slog.Value) any {
	switch v.Kind() {
	case slog.KindDuration:
		return v.Duration().String()
	case slog.KindInt64:
		return v.Int64()
	case slog.KindBool:
		return v.Bool()
	default:
		return v.String()
	}
}

// attrs pairs up slog-style arguments, dropping empty attributes. A dangling
// value is kept under "!BADKEY" as slog does.
func attrs(args []any) []slog.Attr {
	var out []slog.Attr
	for len(args) > 0 {
		switch k := args[0].(type) {
		case slog.Attr:
			if !k.Equal(slog.Attr{}) {
				out = append(out, k)
			}
			args = args[1:]
		case string:
			if len(args) == 1 {
				out = append(out, slog.String("!BADKEY", k))
				return out
			}
			out = append(out, slog.Any(k, args[1]))
			args = args[2:]
		default:
			out = append(out, slog.String("!BADKEY", fmt.Sprint(k)))
			args = args[1:]
		}
	}
	return out
}

// Discard returns a Logger that drops every record.
func Discard() Logger { return discard{} }

type discard struct{}

func (discard) Debug(context.Context, string, ...any) {}
func (discard) Info(context.Context, string, ...any)  {}
func (discard) Warn(context.Context, string, ...any)  {}
func (discard) Error(context.Context, string, ...any) {}
func (d discard) With(...any) Logger                  { return d }
