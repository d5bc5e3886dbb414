package container

import (
	"image/color"
	"testing"

	"github.com/go-vncview/vncview/canvas"
	"github.com/go-vncview/vncview/canvas/canvastest"
	"github.com/go-vncview/vncview/eventloop"
	"github.com/go-vncview/vncview/stats"
)

type nullDisplay struct {
	visible bool
	fields  map[stats.Field]string
	gauge   int
}

func (d *nullDisplay) SetVisible(v bool)                { d.visible = v }
func (d *nullDisplay) SetMulticastVisible(bool)         {}
func (d *nullDisplay) Layout()                          {}
func (d *nullDisplay) ClearFields()                     { d.fields = map[stats.Field]string{} }
func (d *nullDisplay) SetField(f stats.Field, s string) { d.fields[f] = s }
func (d *nullDisplay) SetGaugeRange(int)                {}
func (d *nullDisplay) SetGaugeValue(n int)              { d.gauge = n }
func (d *nullDisplay) BufferLabelColor() color.RGBA     { return color.RGBA{} }
func (d *nullDisplay) SetBufferLabelColor(color.RGBA)   {}

type inline struct{}

func (inline) Call(fn func()) error {
	fn()
	return nil
}

func TestContainerOwnsCanvas(t *testing.T) {
	loop := eventloop.New()
	c := New(&nullDisplay{fields: map[stats.Field]string{}}, inline{}, loop, WithScrollRate(20))
	if c.Conn() != nil {
		t.Fatal("empty container reports a connection")
	}
	if c.ScrollRate() != 20 {
		t.Fatalf("ScrollRate() = %d, want 20", c.ScrollRate())
	}

	surface := &canvastest.Surface{}
	conn := canvastest.NewConn(10, 10)
	cv := canvas.New(surface, conn)
	c.SetCanvas(cv)

	if c.Canvas() != cv || c.Conn() != conn {
		t.Fatal("container does not expose its canvas and connection")
	}

	eventloop.NewNotifier(loop).Notify(conn, canvas.Rect{Width: 1, Height: 1})
	loop.Drain()
	if n := len(surface.Draws()); n != 1 {
		t.Fatalf("bound canvas drew %d times, want 1", n)
	}

	c.Close()
	if !cv.Destroyed() {
		t.Fatal("Close did not destroy the canvas")
	}
	if c.Canvas() != nil || c.Conn() != nil {
		t.Fatal("closed container still has a canvas")
	}
	eventloop.NewNotifier(loop).Notify(conn, canvas.Rect{Width: 1, Height: 1})
	loop.Drain()
	if n := len(surface.Draws()); n != 1 {
		t.Fatalf("destroyed canvas drew again (%d draws)", n)
	}
}

func TestSetCanvasReplacesPrevious(t *testing.T) {
	c := New(&nullDisplay{fields: map[stats.Field]string{}}, inline{}, nil)
	first := canvas.New(&canvastest.Surface{}, canvastest.NewConn(1, 1))
	second := canvas.New(&canvastest.Surface{}, canvastest.NewConn(2, 2))

	c.SetCanvas(first)
	c.SetCanvas(second)

	if !first.Destroyed() || second.Destroyed() {
		t.Fatalf("first destroyed=%v second destroyed=%v", first.Destroyed(), second.Destroyed())
	}
}

func TestSetCanvasTwiceBindsOnce(t *testing.T) {
	loop := eventloop.New()
	c := New(&nullDisplay{fields: map[stats.Field]string{}}, inline{}, loop)
	surface := &canvastest.Surface{}
	conn := canvastest.NewConn(10, 10)
	cv := canvas.New(surface, conn)

	c.SetCanvas(cv)
	c.SetCanvas(cv)
	if cv.Destroyed() {
		t.Fatal("re-setting the held canvas destroyed it")
	}

	eventloop.NewNotifier(loop).Notify(conn, canvas.Rect{Width: 1, Height: 1})
	loop.Drain()
	if n := len(surface.Draws()); n != 1 {
		t.Fatalf("got %d draws for one update, want 1", n)
	}

	c.Close()
	eventloop.NewNotifier(loop).Notify(conn, canvas.Rect{Width: 1, Height: 1})
	loop.Drain()
	if n := len(surface.Draws()); n != 1 {
		t.Fatalf("handlers outlived Close: %d draws", n)
	}
}

func TestShowStatsSamplesCanvasConn(t *testing.T) {
	d := &nullDisplay{fields: map[stats.Field]string{}}
	c := New(d, inline{}, nil)
	conn := canvastest.NewConn(1, 1)
	conn.RawBytes = []string{"12345,2048"}
	c.SetCanvas(canvas.New(&canvastest.Surface{}, conn))

	c.ShowStats(true)
	c.Sampler().Tick()
	if d.fields[stats.FieldRawKBps] != "2" || !d.visible {
		t.Fatalf("raw KB/s = %q visible=%v, want \"2\" and visible", d.fields[stats.FieldRawKBps], d.visible)
	}

	c.Close()
	if c.Sampler().Running() || d.visible || len(d.fields) != 0 || d.gauge != 0 {
		t.Fatal("Close left statistics running or populated")
	}
}
