package eventloop

import (
	"github.com/go-vncview/vncview/canvas"
)

// Notifier is the entry point a connection uses to announce framebuffer
// changes. It may be called from the connection's own goroutines.
type Notifier struct {
	loop *Loop
}

func NewNotifier(l *Loop) *Notifier {
	return &Notifier{loop: l}
}

// Notify posts an UpdateEvent for rect of conn's framebuffer.
func (n *Notifier) Notify(conn canvas.Conn, rect canvas.Rect) error {
	return n.loop.Post(Event{
		Kind:   KindUpdate,
		Update: canvas.UpdateEvent{Conn: conn, Rect: rect},
	})
}

// Resized announces that conn's framebuffer dimensions changed.
func (n *Notifier) Resized(conn canvas.Conn) error {
	return n.loop.Post(Event{
		Kind:   KindResize,
		Update: canvas.UpdateEvent{Conn: conn},
	})
}

// For returns a notify func bound to conn, for connections that only
// know how to call a plain callback.
func (n *Notifier) For(conn canvas.Conn) func(canvas.Rect) {
	return func(rect canvas.Rect) {
		if err := n.Notify(conn, rect); err != nil {
			log.Debugf("dropping update %s after loop close", rect)
		}
	}
}

// Bind routes events to c: every update notification, and the native
// events targeted at c. The returned func unbinds c.
func (l *Loop) Bind(c *canvas.Canvas) (unbind func()) {
	targeted := func(fn func(Event)) HandlerFunc {
		return func(e Event) {
			if e.Target == c {
				fn(e)
			}
		}
	}

	removers := []func(){
		l.Handle(KindUpdate, func(e Event) { c.OnUpdate(e.Update) }),
		l.Handle(KindResize, func(e Event) {
			if e.Update.Conn == c.Conn() && !c.Destroyed() {
				c.AdjustSize()
			}
		}),
		l.Handle(KindPaint, targeted(func(e Event) { c.OnPaint(e.Rects) })),
		l.Handle(KindPointer, targeted(func(e Event) { c.OnPointer(e.Pointer) })),
		l.Handle(KindKeyDown, targeted(func(e Event) { c.OnKeyDown(e.Key) })),
		l.Handle(KindKeyUp, targeted(func(e Event) { c.OnKeyUp(e.Key) })),
		l.Handle(KindChar, targeted(func(e Event) { c.OnChar(e.Key) })),
		l.Handle(KindFocusLoss, targeted(func(Event) { c.OnFocusLoss() })),
	}
	return func() {
		for _, remove := range removers {
			remove()
		}
	}
}
