// Package eventloop implements the UI context: a single consumer that
// dispatches window events, connection update notifications and timer
// callbacks in the order they were posted.
//
// Post may be called from any goroutine. Everything else, including the
// handlers, runs on the goroutine that calls Drain or Run.
package eventloop

import (
	"context"
	"sync"

	"github.com/juju/errors"
	"github.com/op/go-logging"

	"github.com/go-vncview/vncview/canvas"
	"github.com/go-vncview/vncview/metrics"
)

var log = logging.MustGetLogger("eventloop")

// ErrLoopClosed is returned by Post once the loop has been closed.
var ErrLoopClosed = errors.New("event loop closed")

type Kind int

const (
	KindUpdate Kind = iota
	KindPaint
	KindPointer
	KindKeyDown
	KindKeyUp
	KindChar
	KindFocusLoss
	KindResize
	KindCall
)

var kindNames = [...]string{"update", "paint", "pointer", "keydown", "keyup", "char", "focusloss", "resize", "call"}

func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Event is a tagged union; which fields are meaningful depends on Kind.
// Native window events carry the canvas they were delivered to in
// Target. Updates and resizes are not targeted: every bound canvas sees
// them and keeps the ones from its own connection (Update.Conn).
type Event struct {
	Kind   Kind
	Target *canvas.Canvas

	Update  canvas.UpdateEvent
	Rects   []canvas.Rect
	Pointer canvas.PointerEvent
	Key     canvas.KeyEvent
	Fn      func()
}

type HandlerFunc func(Event)

type handlerEntry struct {
	id uint64
	fn HandlerFunc
}

type Option func(*Loop)

// WithWake installs a hook called after every Post, used to nudge a
// native event pump that is blocked waiting for window events.
func WithWake(wake func()) Option {
	return func(l *Loop) {
		l.wake = wake
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(l *Loop) {
		l.metrics = m
	}
}

type Loop struct {
	mu     sync.Mutex
	queue  []Event
	closed bool

	signal    chan struct{}
	done      chan struct{}
	closeOnce sync.Once

	hmu      sync.Mutex
	handlers map[Kind][]handlerEntry
	nextID   uint64

	wake    func()
	metrics *metrics.Metrics
}

func New(opts ...Option) *Loop {
	l := &Loop{
		signal:   make(chan struct{}, 1),
		done:     make(chan struct{}),
		handlers: map[Kind][]handlerEntry{},
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Handle registers fn for events of kind. Handlers of one kind run in
// registration order. The returned func removes the registration.
func (l *Loop) Handle(kind Kind, fn HandlerFunc) (remove func()) {
	l.hmu.Lock()
	defer l.hmu.Unlock()

	l.nextID++
	id := l.nextID
	l.handlers[kind] = append(l.handlers[kind], handlerEntry{id: id, fn: fn})

	return func() {
		l.hmu.Lock()
		defer l.hmu.Unlock()
		entries := l.handlers[kind]
		for i, entry := range entries {
			if entry.id == id {
				l.handlers[kind] = append(entries[:i:i], entries[i+1:]...)
				return
			}
		}
	}
}

// Post enqueues e. It never blocks and never drops: the queue is
// unbounded.
func (l *Loop) Post(e Event) error {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return ErrLoopClosed
	}
	l.queue = append(l.queue, e)
	depth := len(l.queue)
	l.mu.Unlock()

	l.metrics.SetQueueDepth(depth)

	select {
	case l.signal <- struct{}{}:
	default:
	}
	if l.wake != nil {
		l.wake()
	}
	return nil
}

// Call schedules fn to run in the UI context.
func (l *Loop) Call(fn func()) error {
	return l.Post(Event{Kind: KindCall, Fn: fn})
}

// Pending returns the number of queued events.
func (l *Loop) Pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.queue)
}

// Drain dispatches queued events until the queue is empty, including
// events posted by the handlers themselves. It returns how many events
// were dispatched.
func (l *Loop) Drain() int {
	n := 0
	for {
		l.mu.Lock()
		batch := l.queue
		l.queue = nil
		l.mu.Unlock()

		if len(batch) == 0 {
			l.metrics.SetQueueDepth(0)
			return n
		}
		for _, e := range batch {
			l.dispatch(e)
			n++
		}
	}
}

func (l *Loop) dispatch(e Event) {
	if e.Kind == KindCall {
		if e.Fn != nil {
			e.Fn()
		}
		return
	}

	l.hmu.Lock()
	entries := append([]handlerEntry(nil), l.handlers[e.Kind]...)
	l.hmu.Unlock()

	if len(entries) == 0 {
		log.Debugf("no handler for %s event; dropping", e.Kind)
		return
	}
	for _, entry := range entries {
		entry.fn(e)
	}
}

// Run dispatches events on the calling goroutine until ctx is done or
// the loop is closed. Events posted before Close are still delivered.
func (l *Loop) Run(ctx context.Context) error {
	for {
		l.Drain()
		select {
		case <-l.signal:
		case <-l.done:
			l.Drain()
			return nil
		case <-ctx.Done():
			return errors.Annotate(ctx.Err(), "event loop stopped")
		}
	}
}

// Close stops accepting events. It is safe to call more than once.
func (l *Loop) Close() error {
	l.closeOnce.Do(func() {
		l.mu.Lock()
		l.closed = true
		l.mu.Unlock()
		close(l.done)
	})
	return nil
}

// Done is closed when the loop is closed.
func (l *Loop) Done() <-chan struct{} {
	return l.done
}
