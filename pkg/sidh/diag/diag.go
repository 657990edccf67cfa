package diag

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"
)

// Level is the severity of an event. Larger values are more verbose.
type Level int32

const (
	LevelNone Level = iota
	LevelError
	LevelWarning
	LevelInfo
	LevelDebug
	LevelVerbose
	LevelEpic
)

func (l Level) String() string {
	switch l {
	case LevelNone:
		return "none"
	case LevelError:
		return "error"
	case LevelWarning:
		return "warning"
	case LevelInfo:
		return "info"
	case LevelDebug:
		return "debug"
	case LevelVerbose:
		return "verbose"
	case LevelEpic:
		return "epic"
	default:
		return fmt.Sprintf("Level(%d)", int32(l))
	}
}

// ParseLevel accepts the names printed by Level.String.
func ParseLevel(s string) (Level, error) {
	for l := LevelNone; l <= LevelEpic; l++ {
		if s == l.String() {
			return l, nil
		}
	}
	return LevelNone, fmt.Errorf("diag: unknown level %q", s)
}

// Event is one diagnostic message.
type Event struct {
	Level   Level
	Message string
	Time    time.Time
}

// Sink receives events on the dispatcher goroutine, one at a time.
type Sink interface {
	Emit(Event)
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(Event)

func (f SinkFunc) Emit(ev Event) { f(ev) }

// DefaultBuffer is the queue length used when Options.Buffer is zero.
const DefaultBuffer = 256

// Options configures New.
type Options struct {
	// Buffer is the number of events queued for the sink. Events emitted
	// while the queue is full are dropped and counted.
	Buffer int

	// Level is the most verbose level delivered. Zero delivers nothing until
	// SetLevel is called, so callers usually set it.
	Level Level
}

type sinkRef struct{ sink Sink }

type item struct {
	ev    Event
	flush chan struct{}
}

// Diagnostics forwards events to at most one registered sink. Emission is a
// non-blocking enqueue; a dispatcher goroutine owns delivery, so a slow,
// panicking or concurrently unregistered sink never stalls the caller.
//
// A nil *Diagnostics is valid and discards everything.
type Diagnostics struct {
	sink    atomic.Pointer[sinkRef]
	level   atomic.Int32
	dropped atomic.Uint64
	closed  atomic.Bool

	queue     chan item
	quit      chan struct{}
	done      chan struct{}
	closeOnce sync.Once
}

// New starts a dispatcher and returns its handle. Call Close to stop it.
func New(opts Options) *Diagnostics {
	n := opts.Buffer
	if n <= 0 {
		n = DefaultBuffer
	}
	d := &Diagnostics{
		queue: make(chan item, n),
		quit:  make(chan struct{}),
		done:  make(chan struct{}),
	}
	d.level.Store(int32(opts.Level))
	go d.run()
	return d
}

// Register installs s as the sink, replacing any previous one. It reports
// false for a nil sink or a closed Diagnostics.
func (d *Diagnostics) Register(s Sink) bool {
	if d == nil || s == nil || d.closed.Load() {
		return false
	}
	d.sink.Store(&sinkRef{sink: s})
	return true
}

// Unregister removes the sink and reports whether one was installed. Events
// already queued are discarded unless another sink is registered before
// they are dispatched.
func (d *Diagnostics) Unregister() bool {
	if d == nil {
		return false
	}
	return d.sink.Swap(nil) != nil
}

// SetLevel changes the most verbose level delivered.
func (d *Diagnostics) SetLevel(l Level) {
	if d == nil {
		return
	}
	d.level.Store(int32(l))
}

// Enabled reports whether an event at l would currently be queued.
func (d *Diagnostics) Enabled(l Level) bool {
	if d == nil || l <= LevelNone || d.closed.Load() {
		return false
	}
	return int32(l) <= d.level.Load() && d.sink.Load() != nil
}

// Emit queues msg at level l. Level zero is never delivered.
func (d *Diagnostics) Emit(l Level, msg string) {
	if !d.Enabled(l) {
		return
	}
	select {
	case d.queue <- item{ev: Event{Level: l, Message: msg, Time: time.Now()}}:
	default:
		d.dropped.Add(1)
	}
}

// Emitf formats and queues a message. Formatting is skipped when the event
// would not be delivered.
func (d *Diagnostics) Emitf(l Level, format string, args ...any) {
	if !d.Enabled(l) {
		return
	}
	d.Emit(l, fmt.Sprintf(format, args...))
}

// Dropped returns the number of events lost to a full queue or a panicking
// sink.
func (d *Diagnostics) Dropped() uint64 {
	if d == nil {
		return 0
	}
	return d.dropped.Load()
}

// Flush waits until every event queued before the call has been handed to
// the sink, or ctx is done.
func (d *Diagnostics) Flush(ctx context.Context) error {
	if d == nil || d.closed.Load() {
		return nil
	}
	ack := make(chan struct{})
	select {
	case d.queue <- item{flush: ack}:
	case <-d.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case <-ack:
		return nil
	case <-d.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close delivers the events already queued and stops the dispatcher. Emit
// after Close is a no-op. Close is idempotent.
func (d *Diagnostics) Close() {
	if d == nil {
		return
	}
	d.closeOnce.Do(func() {
		d.closed.Store(true)
		close(d.quit)
		<-d.done
	})
}

func (d *Diagnostics) run() {
	defer close(d.done)
	for {
		select {
		case it := <-d.queue:
			d.dispatch(it)
		case <-d.quit:
			for {
				select {
				case it := <-d.queue:
					d.dispatch(it)
				default:
					return
				}
			}
		}
	}
}

func (d *Diagnostics) dispatch(it item) {
	if it.flush != nil {
		close(it.flush)
		return
	}
	ref := d.sink.Load()
	if ref == nil {
		return
	}
	defer func() {
		if recover() != nil {
			d.dropped.Add(1)
		}
	}()
	ref.sink.Emit(it.ev)
}
