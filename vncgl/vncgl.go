//go:build !no_gl
// +build !no_gl

// Package vncgl is the native window backend: a GLFW window whose
// contents are an OpenGL texture mirroring the remote framebuffer.
package vncgl

import (
	"context"
	"image"
	"image/draw"
	"runtime"
	"sync"
	"time"

	"github.com/go-gl/gl/v2.1/gl"
	"github.com/go-gl/glfw/v3.2/glfw"
	"github.com/juju/errors"
	"github.com/op/go-logging"

	"github.com/go-vncview/vncview/canvas"
	"github.com/go-vncview/vncview/eventloop"
)

var (
	log       = logging.MustGetLogger("vncgl")
	windows   int
	glfwState sync.Mutex
)

const pumpTimeout = 50 * time.Millisecond

// Window is a canvas.Surface. Only interact with this from the main
// thread.
type Window struct {
	rootTexture   uint32
	window        *glfw.Window
	width, height int
	closed        bool
	dirty         bool

	loop    *eventloop.Loop
	target  *canvas.Canvas
	buttons canvas.ButtonMask
	x, y    int
}

// Open creates a hidden window that posts its input to loop. The window
// is shown by the first SetSize.
func Open(loop *eventloop.Loop, title string) (*Window, error) {
	glfwState.Lock()
	defer glfwState.Unlock()

	if windows == 0 {
		if err := glfw.Init(); err != nil {
			return nil, errors.Annotate(err, "failed to initialize glfw")
		}

		glfw.WindowHint(glfw.Resizable, glfw.False)
		glfw.WindowHint(glfw.Visible, glfw.False)
		glfw.WindowHint(glfw.ContextVersionMajor, 2)
		glfw.WindowHint(glfw.ContextVersionMinor, 1)
	}

	window, err := glfw.CreateWindow(1, 1, title, nil, nil)
	if err != nil {
		if windows == 0 {
			glfw.Terminate()
		}
		return nil, errors.Annotate(err, "couldn't create window")
	}
	window.MakeContextCurrent()
	glfw.SwapInterval(0)

	if err := gl.Init(); err != nil {
		window.Destroy()
		if windows == 0 {
			glfw.Terminate()
		}
		return nil, errors.Annotate(err, "could not init opengl")
	}
	windows++

	w := &Window{window: window, loop: loop}
	w.installCallbacks()
	return w, nil
}

// Wake unblocks a Pump waiting for window events. It is safe to call
// from any goroutine, before Open and after Close.
func Wake() {
	glfwState.Lock()
	defer glfwState.Unlock()
	if windows > 0 {
		glfw.PostEmptyEvent()
	}
}

// Attach routes this window's input to c.
func (w *Window) Attach(c *canvas.Canvas) {
	w.target = c
}

func (w *Window) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true

	w.window.MakeContextCurrent()
	if w.rootTexture != 0 {
		gl.DeleteTextures(1, &w.rootTexture)
	}
	w.window.Destroy()

	glfwState.Lock()
	defer glfwState.Unlock()
	windows--
	if windows == 0 {
		glfw.Terminate()
	}
	return nil
}

// Pump runs the native event loop on the calling thread, draining loop
// after every batch of window events, until the window is closed, the
// loop is closed or ctx is done.
func (w *Window) Pump(ctx context.Context) error {
	for !w.closed {
		select {
		case <-ctx.Done():
			return errors.Annotate(ctx.Err(), "window pump stopped")
		case <-w.loop.Done():
			w.loop.Drain()
			return nil
		default:
		}

		glfw.WaitEventsTimeout(pumpTimeout.Seconds())
		if w.window.ShouldClose() {
			log.Debugf("window closed by user")
			return nil
		}
		w.loop.Drain()
		w.Render()
	}
	return nil
}

func (w *Window) post(e eventloop.Event) {
	if w.target == nil {
		return
	}
	e.Target = w.target
	if err := w.loop.Post(e); err != nil {
		log.Debugf("dropping %s window event: %v", e.Kind, err)
	}
}

func (w *Window) installCallbacks() {
	w.window.SetRefreshCallback(func(*glfw.Window) {
		w.post(eventloop.Event{
			Kind:  eventloop.KindPaint,
			Rects: []canvas.Rect{{Width: w.width, Height: w.height}},
		})
	})
	w.window.SetCursorPosCallback(func(_ *glfw.Window, x, y float64) {
		w.x, w.y = int(x), int(y)
		w.pointer(canvas.PointerMotion, 0)
	})
	w.window.SetMouseButtonCallback(func(_ *glfw.Window, button glfw.MouseButton, action glfw.Action, _ glfw.ModifierKey) {
		bit := buttonBit(button)
		if bit == 0 {
			return
		}
		if action == glfw.Press {
			w.buttons |= bit
			w.pointer(canvas.PointerDown, 0)
		} else {
			w.buttons &^= bit
			w.pointer(canvas.PointerUp, 0)
		}
	})
	w.window.SetScrollCallback(func(_ *glfw.Window, _, yoff float64) {
		if delta := wheelDelta(yoff); delta != 0 {
			w.pointer(canvas.PointerWheel, delta)
		}
	})
	w.window.SetCursorEnterCallback(func(_ *glfw.Window, entered bool) {
		if entered {
			w.pointer(canvas.PointerEnter, 0)
		} else {
			w.pointer(canvas.PointerLeave, 0)
		}
	})
	w.window.SetKeyCallback(func(_ *glfw.Window, key glfw.Key, _ int, action glfw.Action, mods glfw.ModifierKey) {
		e := eventloop.Event{
			Kind: eventloop.KindKeyDown,
			Key:  canvas.KeyEvent{Code: keyCode(key), Modifiers: modifiers(mods)},
		}
		if action == glfw.Release {
			e.Kind = eventloop.KindKeyUp
		}
		w.post(e)
	})
	w.window.SetCharModsCallback(func(_ *glfw.Window, char rune, mods glfw.ModifierKey) {
		w.post(eventloop.Event{
			Kind: eventloop.KindChar,
			Key:  canvas.KeyEvent{Code: int(char), Rune: char, Modifiers: modifiers(mods)},
		})
	})
	w.window.SetFocusCallback(func(_ *glfw.Window, focused bool) {
		if !focused {
			w.post(eventloop.Event{Kind: eventloop.KindFocusLoss})
		}
	})
}

func (w *Window) pointer(kind canvas.PointerKind, delta int) {
	buttons := w.buttons
	switch {
	case delta > 0:
		buttons |= canvas.ButtonWheelUp
	case delta < 0:
		buttons |= canvas.ButtonWheelDown
	}
	w.post(eventloop.Event{
		Kind: eventloop.KindPointer,
		Pointer: canvas.PointerEvent{
			Kind:       kind,
			X:          w.x,
			Y:          w.y,
			Buttons:    buttons,
			WheelDelta: delta,
		},
	})
}

// DrawImage uploads img into the framebuffer texture with its top-left
// corner at (x, y).
func (w *Window) DrawImage(img image.Image, x, y int) {
	if w.closed || w.rootTexture == 0 {
		return
	}
	size := img.Bounds().Size()
	dst := image.Rect(x, y, x+size.X, y+size.Y).Intersect(image.Rect(0, 0, w.width, w.height))
	if dst.Empty() {
		return
	}

	rgba := image.NewRGBA(dst)
	draw.Draw(rgba, dst, img, img.Bounds().Min.Add(dst.Min.Sub(image.Pt(x, y))), draw.Src)

	w.window.MakeContextCurrent()
	gl.BindTexture(gl.TEXTURE_2D, w.rootTexture)
	gl.TexSubImage2D(
		gl.TEXTURE_2D,
		0,
		int32(dst.Min.X),
		int32(dst.Min.Y),
		int32(dst.Dx()),
		int32(dst.Dy()),
		gl.RGBA,
		gl.UNSIGNED_BYTE,
		gl.Ptr(rgba.Pix))
	w.dirty = true
}

func (w *Window) Size() (int, int) {
	return w.width, w.height
}

// SetSize fixes the window to width x height and reallocates the
// texture. A zero dimension hides the window.
func (w *Window) SetSize(width, height int) {
	if w.closed {
		return
	}
	w.width, w.height = width, height
	w.window.MakeContextCurrent()
	if w.rootTexture != 0 {
		gl.DeleteTextures(1, &w.rootTexture)
		w.rootTexture = 0
	}
	if width == 0 || height == 0 {
		w.window.Hide()
		return
	}

	w.window.SetSizeLimits(width, height, width, height)
	w.window.SetSize(width, height)
	w.rootTexture = newTexture(image.NewRGBA(image.Rect(0, 0, width, height)))
	w.window.Show()
	w.dirty = true
}

func (w *Window) CenterOnParent() {
	if w.closed {
		return
	}
	monitor := glfw.GetPrimaryMonitor()
	if monitor == nil {
		return
	}
	mode := monitor.GetVideoMode()
	mx, my := monitor.GetPos()
	w.window.SetPos(mx+(mode.Width-w.width)/2, my+(mode.Height-w.height)/2)
}

// LayoutParent matches the viewport to the framebuffer size; a
// top-level window has no other layout.
func (w *Window) LayoutParent() {
	if w.closed {
		return
	}
	w.window.MakeContextCurrent()
	fbw, fbh := w.window.GetFramebufferSize()
	gl.Viewport(0, 0, int32(fbw), int32(fbh))
	w.dirty = true
}

func (w *Window) SetFocus() {
	if !w.closed {
		w.window.Focus()
	}
}

func (w *Window) SetCursor(c *canvas.Cursor) {
	if w.closed || c == nil {
		return
	}
	w.window.SetCursor(glfw.CreateCursor(c.Image, c.HotX, c.HotY))
}

// Clipboard returns the system clipboard as seen through this window.
func (w *Window) Clipboard() canvas.Clipboard {
	return clipboard{w}
}

type clipboard struct {
	w *Window
}

// Open succeeds while the window lives: GLFW holds the clipboard for
// the whole process, so there is nothing to acquire.
func (c clipboard) Open() bool { return !c.w.closed }
func (c clipboard) Close()     {}

func (c clipboard) Text() (string, bool) {
	text, err := c.w.window.GetClipboardString()
	if err != nil {
		return "", false
	}
	return text, true
}

// Render redraws the window if anything changed since the last frame.
func (w *Window) Render() {
	if w.closed || !w.dirty || w.rootTexture == 0 {
		return
	}
	w.dirty = false

	w.window.MakeContextCurrent()
	w.drawScene()
	gl.Finish()

	start := time.Now()
	w.window.SwapBuffers()
	log.Debugf("SwapBuffers: time=%v", time.Since(start))
}

func newTexture(rgba *image.RGBA) uint32 {
	var texture uint32
	gl.Enable(gl.TEXTURE_2D)
	gl.GenTextures(1, &texture)
	gl.BindTexture(gl.TEXTURE_2D, texture)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.TexImage2D(
		gl.TEXTURE_2D,
		0,
		gl.RGBA,
		int32(rgba.Rect.Size().X),
		int32(rgba.Rect.Size().Y),
		0,
		gl.RGBA,
		gl.UNSIGNED_BYTE,
		gl.Ptr(rgba.Pix))

	return texture
}

func (w *Window) drawScene() {
	gl.MatrixMode(gl.PROJECTION)
	gl.LoadIdentity()
	gl.Ortho(0, float64(w.width), 0, float64(w.height), -1, 1)
	gl.Enable(gl.TEXTURE_2D)

	gl.Clear(gl.COLOR_BUFFER_BIT)
	gl.BindTexture(gl.TEXTURE_2D, w.rootTexture)
	gl.Begin(gl.QUADS)
	gl.TexCoord2d(0.0, 0.0)
	gl.Vertex3f(0, float32(w.height), 0.0)

	gl.TexCoord2d(1.0, 0.0)
	gl.Vertex3f(float32(w.width), float32(w.height), 0.0)

	gl.TexCoord2d(1.0, 1.0)
	gl.Vertex3f(float32(w.width), 0.0, 0.0)

	gl.TexCoord2d(0.0, 1.0)
	gl.Vertex3f(0, 0.0, 0.0)

	gl.End()
}

func init() {
	// GLFW event handling must run on the main OS thread
	runtime.LockOSThread()
}
