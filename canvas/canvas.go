// Package canvas renders a connection's framebuffer onto a window-system
// surface and forwards local input back to the connection.
//
// A Canvas lives in the UI context: every method is called from the one
// goroutine that dispatches window events (see package eventloop). The
// connection may change its framebuffer concurrently; it announces
// changes by posting UpdateEvents, never by calling the canvas directly.
package canvas

import (
	"fmt"
	"time"

	"github.com/op/go-logging"

	"github.com/go-vncview/vncview/metrics"
)

var log = logging.MustGetLogger("canvas")

// UpdateEvent announces that Rect of Conn's framebuffer changed.
type UpdateEvent struct {
	Conn Conn
	Rect Rect
}

type Option func(*Canvas)

func WithClipboard(cb Clipboard) Option {
	return func(c *Canvas) {
		c.clipboard = cb
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Canvas) {
		c.metrics = m
	}
}

func WithLabel(label string) Option {
	return func(c *Canvas) {
		c.label = label
	}
}

// Canvas is bound to exactly one connection for its whole life.
type Canvas struct {
	conn      Conn
	surface   Surface
	clipboard Clipboard
	metrics   *metrics.Metrics
	label     string
	destroyed bool
}

// New binds a canvas to conn, sizes the surface to the framebuffer and
// installs the canvas cursor.
func New(surface Surface, conn Conn, opts ...Option) *Canvas {
	c := &Canvas{
		conn:    conn,
		surface: surface,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.label == "" {
		c.label = fmt.Sprintf("%p", c)
	}

	c.AdjustSize()
	surface.SetCursor(VNCCursor())
	return c
}

func (c *Canvas) Conn() Conn {
	return c.conn
}

func (c *Canvas) Label() string {
	return c.label
}

// Destroy detaches the canvas. Later events are ignored.
func (c *Canvas) Destroy() {
	if c.destroyed {
		return
	}
	c.destroyed = true
	log.Debugf("[%s] canvas destroyed", c.label)
}

func (c *Canvas) Destroyed() bool {
	return c.destroyed
}

// drawable reports whether the surface has a non-zero area. Some window
// systems keep sending paint requests to zero-sized widgets.
func (c *Canvas) drawable() bool {
	if c.destroyed {
		return false
	}
	w, h := c.surface.Size()
	return w > 0 && h > 0
}

// OnPaint repaints the regions the window system asked for.
func (c *Canvas) OnPaint(rects []Rect) {
	if !c.drawable() {
		return
	}
	for _, r := range rects {
		log.Debugf("[%s] got repaint event: %s", c.label, r)
		c.draw(r, metrics.SourcePaint)
	}
}

// OnUpdate draws the changed region immediately if the event belongs to
// this canvas's connection.
func (c *Canvas) OnUpdate(evt UpdateEvent) {
	if evt.Conn != c.conn {
		c.metrics.NotificationDiscarded()
		return
	}
	c.DrawRegion(evt.Rect)
}

// DrawRegion fetches r from the connection and blits it at r's origin.
func (c *Canvas) DrawRegion(r Rect) {
	if !c.drawable() {
		return
	}
	c.draw(r, metrics.SourceUpdate)
}

func (c *Canvas) draw(r Rect, source string) {
	if r.Empty() {
		return
	}
	start := time.Now()

	region := c.conn.FramebufferRegion(r)
	if region != nil {
		c.surface.DrawImage(region, r.X, r.Y)
	}

	elapsed := time.Since(start)
	c.metrics.ObserveDraw(source, elapsed)
	log.Debugf("[%s] drawing region %s size %d took %v", c.label, r, r.Area(), elapsed)
}

// AdjustSize makes the surface exactly as large as the connection's
// framebuffer, recenters it and relayouts the parent.
func (c *Canvas) AdjustSize() {
	w, h := c.conn.FramebufferWidth(), c.conn.FramebufferHeight()
	log.Debugf("[%s] adjusting size to (%d, %d)", c.label, w, h)

	c.surface.SetSize(w, h)
	c.surface.CenterOnParent()
	c.surface.LayoutParent()
}
