// Package canvastest provides recording fakes of the canvas collaborators
// for tests.
package canvastest

import (
	"image"
	"sync"

	"github.com/go-vncview/vncview/canvas"
)

// Call is one recorded collaborator call, in order.
type Call struct {
	Method string
	Rect   canvas.Rect
	X, Y   int
	Text   string
	Key    canvas.KeyEvent
	Down   bool
	IsChar bool
	Ptr    canvas.PointerEvent
}

// Conn is a fake connection. Statistics fields may be set directly
// before use; calls are recorded in Calls.
type Conn struct {
	mu sync.Mutex

	Width, Height int
	Multicast     bool
	RawBytes      []string
	Counts        []string
	Latency       []string
	LossRatio     []string
	BufSize       int
	BufFill       int

	calls []Call
}

func NewConn(width, height int) *Conn {
	return &Conn{Width: width, Height: height}
}

func (c *Conn) record(call Call) {
	c.mu.Lock()
	c.calls = append(c.calls, call)
	c.mu.Unlock()
}

// Calls returns a copy of the recorded calls.
func (c *Conn) Calls() []Call {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Call(nil), c.calls...)
}

// CallsTo returns the recorded calls to one method.
func (c *Conn) CallsTo(method string) []Call {
	var out []Call
	for _, call := range c.Calls() {
		if call.Method == method {
			out = append(out, call)
		}
	}
	return out
}

func (c *Conn) SetSize(width, height int) {
	c.mu.Lock()
	c.Width, c.Height = width, height
	c.mu.Unlock()
}

// FramebufferRegion returns an image whose bounds equal the request.
func (c *Conn) FramebufferRegion(r canvas.Rect) image.Image {
	c.record(Call{Method: "FramebufferRegion", Rect: r})
	return image.NewRGBA(r.ImageRect())
}

func (c *Conn) FramebufferWidth() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.Width
}

func (c *Conn) FramebufferHeight() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.Height
}

func (c *Conn) SendPointerEvent(e canvas.PointerEvent) {
	c.record(Call{Method: "SendPointerEvent", Ptr: e})
}

func (c *Conn) SendKeyEvent(e canvas.KeyEvent, down, isChar bool) {
	c.record(Call{Method: "SendKeyEvent", Key: e, Down: down, IsChar: isChar})
}

func (c *Conn) SetCutText(text string) {
	c.record(Call{Method: "SetCutText", Text: text})
}

func (c *Conn) IsMulticast() bool          { return c.Multicast }
func (c *Conn) UpdRawByteStats() []string  { return c.RawBytes }
func (c *Conn) UpdCountStats() []string    { return c.Counts }
func (c *Conn) LatencyStats() []string     { return c.Latency }
func (c *Conn) MCLossRatioStats() []string { return c.LossRatio }
func (c *Conn) MCBufSize() int             { return c.BufSize }
func (c *Conn) MCBufFill() int             { return c.BufFill }

// Surface records draws and geometry requests.
type Surface struct {
	mu sync.Mutex

	width, height int
	Focused       int
	Centered      int
	Layouts       int
	Cursor        *canvas.Cursor
	draws         []Call
}

func (s *Surface) DrawImage(img image.Image, x, y int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.draws = append(s.draws, Call{
		Method: "DrawImage",
		Rect:   canvas.FromImageRect(img.Bounds()),
		X:      x,
		Y:      y,
	})
}

// Draws returns a copy of the recorded draws; Rect is the drawn image's
// bounds.
func (s *Surface) Draws() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Call(nil), s.draws...)
}

func (s *Surface) Size() (int, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.width, s.height
}

func (s *Surface) SetSize(width, height int) {
	s.mu.Lock()
	s.width, s.height = width, height
	s.mu.Unlock()
}

func (s *Surface) CenterOnParent()            { s.Centered++ }
func (s *Surface) LayoutParent()              { s.Layouts++ }
func (s *Surface) SetFocus()                  { s.Focused++ }
func (s *Surface) SetCursor(c *canvas.Cursor) { s.Cursor = c }

// Clipboard is a fake clipboard. Opens and Closes count calls; when
// Unavailable is set Open fails.
type Clipboard struct {
	Data        string
	HasText     bool
	Unavailable bool
	Opens       int
	Closes      int
}

func (c *Clipboard) Open() bool {
	c.Opens++
	return !c.Unavailable
}

func (c *Clipboard) Text() (string, bool) {
	return c.Data, c.HasText
}

func (c *Clipboard) Close() {
	c.Closes++
}
