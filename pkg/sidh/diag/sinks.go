package diag

import (
	"context"
	"log/slog"

	"github.com/rs/zerolog"
	"github.com/sirupsen/logrus"
	jww "github.com/spf13/jwalterweatherman"
)

// SlogSink forwards events to an slog.Logger. Verbose and Epic map below
// slog.LevelDebug so handlers can filter them separately.
func SlogSink(l *slog.Logger) Sink {
	if l == nil {
		l = slog.Default()
	}
	return SinkFunc(func(ev Event) {
		l.LogAttrs(context.Background(), slogLevel(ev.Level), ev.Message,
			slog.String("diag_level", ev.Level.String()),
			slog.Time("emitted", ev.Time))
	})
}

func slogLevel(l Level) slog.Level {
	switch l {
	case LevelError:
		return slog.LevelError
	case LevelWarning:
		return slog.LevelWarn
	case LevelInfo:
		return slog.LevelInfo
	case LevelDebug:
		return slog.LevelDebug
	case LevelVerbose:
		return slog.LevelDebug - 4
	default:
		return slog.LevelDebug - 8
	}
}

// ZerologSink forwards events to a zerolog logger.
func ZerologSink(l zerolog.Logger) Sink {
	return SinkFunc(func(ev Event) {
		l.WithLevel(zerologLevel(ev.Level)).
			Str("diag_level", ev.Level.String()).
			Time("emitted", ev.Time).
			Msg(ev.Message)
	})
}

func zerologLevel(l Level) zerolog.Level {
	switch l {
	case LevelError:
		return zerolog.ErrorLevel
	case LevelWarning:
		return zerolog.WarnLevel
	case LevelInfo:
		return zerolog.InfoLevel
	case LevelDebug:
		return zerolog.DebugLevel
	default:
		return zerolog.TraceLevel
	}
}

// LogrusSink forwards events to a logrus logger. A nil logger selects
// logrus.StandardLogger().
func LogrusSink(l *logrus.Logger) Sink {
	if l == nil {
		l = logrus.StandardLogger()
	}
	return SinkFunc(func(ev Event) {
		l.WithFields(logrus.Fields{
			"diag_level": ev.Level.String(),
		}).WithTime(ev.Time).Log(logrusLevel(ev.Level), ev.Message)
	})
}

func logrusLevel(l Level) logrus.Level {
	switch l {
	case LevelError:
		return logrus.ErrorLevel
	case LevelWarning:
		return logrus.WarnLevel
	case LevelInfo:
		return logrus.InfoLevel
	case LevelDebug:
		return logrus.DebugLevel
	default:
		return logrus.TraceLevel
	}
}

// JWWSink forwards events to a jwalterweatherman notepad. A nil notepad
// writes through the package-level jww loggers.
func JWWSink(n *jww.Notepad) Sink {
	return SinkFunc(func(ev Event) {
		var trace, debug, info, warn, errl = jww.TRACE, jww.DEBUG, jww.INFO, jww.WARN, jww.ERROR
		if n != nil {
			trace, debug, info, warn, errl = n.TRACE, n.DEBUG, n.INFO, n.WARN, n.ERROR
		}
		switch ev.Level {
		case LevelError:
			errl.Println(ev.Message)
		case LevelWarning:
			warn.Println(ev.Message)
		case LevelInfo:
			info.Println(ev.Message)
		case LevelDebug:
			debug.Println(ev.Message)
		default:
			trace.Println(ev.Message)
		}
	})
}
