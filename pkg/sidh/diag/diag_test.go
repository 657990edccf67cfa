package diag

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/sirupsen/logrus"
	jww "github.com/spf13/jwalterweatherman"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *recorder) Emit(ev Event) {
	r.mu.Lock()
	r.events = append(r.events, ev)
	r.mu.Unlock()
}

func (r *recorder) messages() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.events))
	for i, ev := range r.events {
		out[i] = ev.Message
	}
	return out
}

func flush(t *testing.T, d *Diagnostics) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, d.Flush(ctx))
}

func TestNilDiagnosticsIsNoop(t *testing.T) {
	var d *Diagnostics
	require.False(t, d.Register(&recorder{}))
	require.False(t, d.Unregister())
	require.False(t, d.Enabled(LevelError))
	d.Emit(LevelError, "x")
	d.Emitf(LevelError, "%d", 1)
	d.SetLevel(LevelEpic)
	require.Zero(t, d.Dropped())
	require.NoError(t, d.Flush(context.Background()))
	d.Close()
}

func TestRegisterUnregister(t *testing.T) {
	d := New(Options{Level: LevelEpic})
	defer d.Close()

	require.False(t, d.Register(nil))
	require.False(t, d.Unregister(), "nothing registered yet")

	rec := &recorder{}
	require.True(t, d.Register(rec))
	d.Emit(LevelInfo, "one")
	flush(t, d)
	require.True(t, d.Unregister())
	require.False(t, d.Unregister())
	d.Emit(LevelInfo, "two")
	flush(t, d)

	require.Equal(t, []string{"one"}, rec.messages())
}

func TestLevelFiltering(t *testing.T) {
	d := New(Options{Level: LevelWarning})
	defer d.Close()
	rec := &recorder{}
	d.Register(rec)

	d.Emit(LevelNone, "suppressed")
	d.Emit(LevelError, "error")
	d.Emit(LevelWarning, "warning")
	d.Emit(LevelInfo, "info")
	d.Emitf(LevelDebug, "debug %d", 4)
	d.SetLevel(LevelEpic)
	d.Emitf(LevelEpic, "epic %d", 6)
	d.Emit(LevelNone, "still suppressed")
	flush(t, d)

	require.Equal(t, []string{"error", "warning", "epic 6"}, rec.messages())
}

func TestFullQueueDropsWithoutBlocking(t *testing.T) {
	d := New(Options{Buffer: 1, Level: LevelEpic})
	defer d.Close()

	entered := make(chan struct{})
	release := make(chan struct{})
	var once sync.Once
	rec := &recorder{}
	d.Register(SinkFunc(func(ev Event) {
		once.Do(func() {
			close(entered)
			<-release
		})
		rec.Emit(ev)
	}))

	d.Emit(LevelInfo, "first")
	<-entered
	d.Emit(LevelInfo, "queued")
	d.Emit(LevelInfo, "dropped")
	require.Equal(t, uint64(1), d.Dropped())

	close(release)
	flush(t, d)
	require.Equal(t, []string{"first", "queued"}, rec.messages())
}

func TestPanickingSinkIsContained(t *testing.T) {
	d := New(Options{Level: LevelEpic})
	defer d.Close()

	d.Register(SinkFunc(func(Event) { panic("sink failure") }))
	d.Emit(LevelError, "boom")
	flush(t, d)
	require.Equal(t, uint64(1), d.Dropped())

	rec := &recorder{}
	d.Register(rec)
	d.Emit(LevelError, "after")
	flush(t, d)
	require.Equal(t, []string{"after"}, rec.messages())
}

func TestCloseDrainsAndStops(t *testing.T) {
	d := New(Options{Level: LevelEpic})
	rec := &recorder{}
	d.Register(rec)
	d.Emit(LevelInfo, "a")
	d.Emit(LevelInfo, "b")
	d.Close()
	d.Close()

	require.Equal(t, []string{"a", "b"}, rec.messages())
	require.False(t, d.Register(rec))
	d.Emit(LevelInfo, "c")
	require.NoError(t, d.Flush(context.Background()))
	require.Equal(t, []string{"a", "b"}, rec.messages())
}

func TestConcurrentRegisterAndEmit(t *testing.T) {
	d := New(Options{Buffer: 16, Level: LevelEpic})
	defer d.Close()

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				d.Register(&recorder{})
				d.Unregister()
			}
		}()
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				d.Emitf(LevelDebug, "event %d", j)
			}
		}()
	}
	wg.Wait()
	flush(t, d)
}

func TestParseLevel(t *testing.T) {
	for l := LevelNone; l <= LevelEpic; l++ {
		got, err := ParseLevel(l.String())
		require.NoError(t, err)
		require.Equal(t, l, got)
	}
	_, err := ParseLevel("loud")
	require.Error(t, err)
}

func TestSinkAdapters(t *testing.T) {
	ev := Event{Level: LevelWarning, Message: "peer key rejected", Time: time.Now()}

	t.Run("slog", func(t *testing.T) {
		var buf bytes.Buffer
		l := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug - 8}))
		SlogSink(l).Emit(ev)
		SlogSink(l).Emit(Event{Level: LevelEpic, Message: "epic"})
		require.Contains(t, buf.String(), `"level":"WARN"`)
		require.Contains(t, buf.String(), "peer key rejected")
		require.Contains(t, buf.String(), `"diag_level":"epic"`)
	})

	t.Run("zerolog", func(t *testing.T) {
		var buf bytes.Buffer
		ZerologSink(zerolog.New(&buf)).Emit(ev)
		require.Contains(t, buf.String(), `"level":"warn"`)
		require.Contains(t, buf.String(), `"message":"peer key rejected"`)
	})

	t.Run("logrus", func(t *testing.T) {
		var buf bytes.Buffer
		l := logrus.New()
		l.SetOutput(&buf)
		l.SetLevel(logrus.TraceLevel)
		l.SetFormatter(&logrus.JSONFormatter{})
		LogrusSink(l).Emit(ev)
		LogrusSink(l).Emit(Event{Level: LevelVerbose, Message: "verbose"})
		require.Contains(t, buf.String(), `"level":"warning"`)
		require.Contains(t, buf.String(), `"level":"trace"`)
		require.Contains(t, buf.String(), `"diag_level":"verbose"`)
	})

	t.Run("jww", func(t *testing.T) {
		var out bytes.Buffer
		n := jww.NewNotepad(jww.LevelTrace, jww.LevelTrace, &out, io.Discard, "sidh", 0)
		JWWSink(n).Emit(ev)
		require.Contains(t, out.String(), "[sidh] WARN peer key rejected")
	})
}
