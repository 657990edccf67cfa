package logging

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

type name string

func (n name) String() string { return string(n) }

func TestSlogLoggerRedacts(t *testing.T) {
	var buf bytes.Buffer
	l := New(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	l.With(Set(name("P434"))).Debug(context.Background(), "sampled", Redacted("private_key"), Err(nil))

	out := buf.String()
	require.Contains(t, out, "set=P434")
	require.Contains(t, out, "private_key="+Placeholder())
	require.NotContains(t, out, KeyError)
}

func TestOperationAttributes(t *testing.T) {
	var buf bytes.Buffer
	l := New(slog.New(slog.NewJSONHandler(&buf, nil)))
	l.With(Operation("agree", name("P503Comp"), name("B"))...).
		Warn(context.Background(), "failed", Backend("native"), Len(223), Err(errors.New("invalid peer key")))

	out := buf.String()
	require.Contains(t, out, `"op":"agree"`)
	require.Contains(t, out, `"set":"P503Comp"`)
	require.Contains(t, out, `"role":"B"`)
	require.Contains(t, out, `"backend":"native"`)
	require.Contains(t, out, `"len":223`)
	require.Contains(t, out, `"error":"invalid peer key"`)
}

func TestZerologLogger(t *testing.T) {
	var buf bytes.Buffer
	l := NewZerolog(zerolog.New(&buf).Level(zerolog.InfoLevel))
	ctx := context.Background()

	l.Debug(ctx, "hidden")
	require.Empty(t, buf.String())

	l.With(Role(name("A")), Len(330)).Warn(ctx, "agree failed",
		Err(errors.New("bad key")), Elapsed(1500*time.Millisecond), Redacted("secret"), Err(nil), "dangling")
	out := buf.String()
	require.Contains(t, out, `"role":"A"`)
	require.Contains(t, out, `"len":330`)
	require.Contains(t, out, `"error":"bad key"`)
	require.Contains(t, out, `"elapsed":1500`)
	require.Contains(t, out, `"secret":"[redacted]"`)
	require.Contains(t, out, `"!BADKEY":"dangling"`)
	require.Contains(t, out, `"message":"agree failed"`)
}

func TestDiscard(t *testing.T) {
	l := Discard().With(Op("sample"))
	l.Error(context.Background(), "nothing")
}
