// Package container composes one canvas with the statistics display and
// owns the canvas's lifetime.
package container

import (
	"github.com/op/go-logging"

	"github.com/go-vncview/vncview/canvas"
	"github.com/go-vncview/vncview/stats"
)

var log = logging.MustGetLogger("container")

// DefaultScrollRate is the scroll step, in pixels, of a container whose
// canvas is larger than its viewport.
const DefaultScrollRate = 10

type Option func(*Container)

func WithScrollRate(rate int) Option {
	return func(c *Container) {
		if rate > 0 {
			c.scrollRate = rate
		}
	}
}

// WithSamplerOptions passes options through to the statistics sampler.
func WithSamplerOptions(opts ...stats.Option) Option {
	return func(c *Container) {
		c.samplerOpts = append(c.samplerOpts, opts...)
	}
}

// Binder attaches a canvas to event delivery; the returned func detaches
// it. *eventloop.Loop implements it.
type Binder interface {
	Bind(c *canvas.Canvas) (unbind func())
}

type Container struct {
	canvas  *canvas.Canvas
	unbind  func()
	binder  Binder
	sampler *stats.Sampler

	scrollRate  int
	samplerOpts []stats.Option
}

// New creates an empty container. Statistics ticks are scheduled through
// scheduler; canvases set later are bound to events through binder when
// it is non-nil.
func New(display stats.Display, scheduler stats.Scheduler, binder Binder, opts ...Option) *Container {
	c := &Container{
		binder:     binder,
		scrollRate: DefaultScrollRate,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.sampler = stats.New(display, c, scheduler, c.samplerOpts...)
	return c
}

// SetCanvas places cv in the container, destroying any previous canvas.
func (c *Container) SetCanvas(cv *canvas.Canvas) {
	if cv == c.canvas {
		return
	}
	if c.canvas != nil {
		c.destroyCanvas()
	}
	c.canvas = cv
	if cv != nil && c.binder != nil {
		c.unbind = c.binder.Bind(cv)
	}
}

func (c *Container) Canvas() *canvas.Canvas {
	return c.canvas
}

// Conn returns the canvas's connection, or nil without a canvas.
func (c *Container) Conn() canvas.Conn {
	if c.canvas == nil || c.canvas.Destroyed() {
		return nil
	}
	return c.canvas.Conn()
}

func (c *Container) ScrollRate() int {
	return c.scrollRate
}

func (c *Container) Sampler() *stats.Sampler {
	return c.sampler
}

// ShowStats shows and starts, or hides and stops, the statistics.
func (c *Container) ShowStats(show bool) {
	c.sampler.Show(show)
}

// Close stops the statistics and destroys the canvas.
func (c *Container) Close() error {
	if c.sampler.Running() {
		c.sampler.Show(false)
	}
	c.destroyCanvas()
	return nil
}

func (c *Container) destroyCanvas() {
	if c.canvas == nil {
		return
	}
	if c.unbind != nil {
		c.unbind()
		c.unbind = nil
	}
	log.Debugf("[%s] destroying canvas", c.canvas.Label())
	c.canvas.Destroy()
	c.canvas = nil
}
