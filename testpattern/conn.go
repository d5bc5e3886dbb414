// Package testpattern provides a self-contained framebuffer connection
// that animates a colour-bar pattern. It stands in for a remote desktop
// when exercising the viewer without a server.
package testpattern

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"sync"
	"sync/atomic"
	"time"

	"github.com/juju/errors"
	"github.com/op/go-logging"

	"github.com/go-vncview/vncview/canvas"
)

var log = logging.MustGetLogger("testpattern")

var nextID int32

const (
	DefaultFPS     = 30
	DefaultBufSize = 64
	bandWidth      = 16
	historyLen     = 60
)

// Notifier receives the connection's change announcements. An
// *eventloop.Notifier satisfies it.
type Notifier interface {
	Notify(conn canvas.Conn, rect canvas.Rect) error
	Resized(conn canvas.Conn) error
}

type Config struct {
	Name      string
	Width     int
	Height    int
	FPS       int
	Multicast bool
	BufSize   int // multicast receive buffer slots
}

// Conn is a canvas.Conn backed by an in-memory framebuffer.
type Conn struct {
	id     int32
	label  string
	config Config

	lock     sync.RWMutex
	screen   *image.RGBA
	frame    int
	fill     int
	cutText  string
	notifier Notifier
	stats    *statsLog

	pointerEvents int64
	keyEvents     int64

	done      chan struct{}
	closeOnce sync.Once
	running   sync.WaitGroup
}

func New(c Config) *Conn {
	if c.Width < 0 {
		log.Warningf("[%s] width %d requested, but it must be at least 0. Using 0 instead.", c.Name, c.Width)
		c.Width = 0
	}
	if c.Height < 0 {
		log.Warningf("[%s] height %d requested, but it must be at least 0. Using 0 instead.", c.Name, c.Height)
		c.Height = 0
	}
	if c.FPS <= 0 {
		log.Warningf("[%s] %d fps requested, but it must be positive. Using %d instead.", c.Name, c.FPS, DefaultFPS)
		c.FPS = DefaultFPS
	}
	if c.BufSize <= 0 {
		c.BufSize = DefaultBufSize
	}
	if c.Name == "" {
		c.Name = "testpattern"
	}

	id := atomic.AddInt32(&nextID, 1) - 1
	conn := &Conn{
		id:     id,
		label:  fmt.Sprintf("%d:%s", id, c.Name),
		config: c,
		screen: newScreen(c.Width, c.Height),
		stats:  newStatsLog(historyLen, time.Now()),
		done:   make(chan struct{}),
	}
	return conn
}

func (c *Conn) Label() string { return c.label }

// Start launches the producer goroutine, which advances the pattern
// once per frame and announces each changed region to n.
func (c *Conn) Start(n Notifier) error {
	c.lock.Lock()
	defer c.lock.Unlock()
	select {
	case <-c.done:
		return errors.Errorf("[%s] connection closed", c.label)
	default:
	}
	if c.notifier != nil {
		return errors.Errorf("[%s] already started", c.label)
	}
	c.notifier = n

	c.running.Add(1)
	go c.produce(n)
	return nil
}

func (c *Conn) produce(n Notifier) {
	defer c.running.Done()

	interval := time.Second / time.Duration(c.config.FPS)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	log.Infof("[%s] producing %dx%d frames every %v", c.label, c.FramebufferWidth(), c.FramebufferHeight(), interval)
	for {
		select {
		case <-c.done:
			return
		case now := <-ticker.C:
			rect := c.Step(now)
			if rect.Empty() {
				continue
			}
			if err := n.Notify(c, rect); err != nil {
				log.Debugf("[%s] stopping producer: %v", c.label, err)
				return
			}
		}
	}
}

// Close stops the producer and waits for it to exit.
func (c *Conn) Close() error {
	c.closeOnce.Do(func() {
		log.Debugf("[%s] closing", c.label)
		close(c.done)
	})
	c.running.Wait()
	return nil
}

// Step advances the animation by one frame at time now and returns the
// region it repainted.
func (c *Conn) Step(now time.Time) canvas.Rect {
	start := time.Now()

	c.lock.Lock()
	defer c.lock.Unlock()

	width, height := c.screen.Rect.Dx(), c.screen.Rect.Dy()
	c.frame++
	if width == 0 || height == 0 {
		return canvas.Rect{}
	}

	x := ((c.frame - 1) * bandWidth) % width
	rect := canvas.Rect{X: x, Y: 0, Width: min(bandWidth, width-x), Height: height}
	fill := barColor(c.frame / max(1, width/bandWidth))
	draw.Draw(c.screen, rect.ImageRect(), &image.Uniform{C: fill}, image.Point{}, draw.Src)

	full := false
	if c.config.Multicast {
		c.fill = (c.fill + 7) % (c.config.BufSize + 1)
		full = c.fill == c.config.BufSize
	}
	c.stats.record(now, rect.Area()*4, time.Since(start), full)
	return rect
}

// Resize replaces the framebuffer with a fresh pattern of the given
// dimensions and announces the change.
func (c *Conn) Resize(width, height int) error {
	if width < 0 || height < 0 {
		return errors.NotValidf("framebuffer size %dx%d", width, height)
	}
	c.lock.Lock()
	c.screen = newScreen(width, height)
	n := c.notifier
	c.lock.Unlock()

	log.Infof("[%s] framebuffer resized to %dx%d", c.label, width, height)
	if n == nil {
		return nil
	}
	if err := n.Resized(c); err != nil {
		return errors.Annotate(err, "announcing resize")
	}
	return errors.Annotate(n.Notify(c, canvas.Rect{Width: width, Height: height}), "announcing repaint")
}

func (c *Conn) FramebufferRegion(r canvas.Rect) image.Image {
	c.lock.RLock()
	defer c.lock.RUnlock()

	bounds := r.ImageRect().Intersect(c.screen.Rect)
	region := image.NewRGBA(bounds)
	draw.Draw(region, bounds, c.screen, bounds.Min, draw.Src)
	return region
}

func (c *Conn) FramebufferWidth() int {
	c.lock.RLock()
	defer c.lock.RUnlock()
	return c.screen.Rect.Dx()
}

func (c *Conn) FramebufferHeight() int {
	c.lock.RLock()
	defer c.lock.RUnlock()
	return c.screen.Rect.Dy()
}

// SendPointerEvent paints a marker under the pointer while the left
// button is held, so input is visible on the pattern.
func (c *Conn) SendPointerEvent(e canvas.PointerEvent) {
	atomic.AddInt64(&c.pointerEvents, 1)
	if e.Buttons&canvas.ButtonLeft == 0 {
		return
	}

	c.lock.Lock()
	marker := canvas.Rect{X: e.X - 1, Y: e.Y - 1, Width: 3, Height: 3}
	bounds := marker.ImageRect().Intersect(c.screen.Rect)
	draw.Draw(c.screen, bounds, image.White, image.Point{}, draw.Src)
	n := c.notifier
	c.lock.Unlock()

	if n != nil && !bounds.Empty() {
		n.Notify(c, canvas.FromImageRect(bounds))
	}
}

func (c *Conn) SendKeyEvent(e canvas.KeyEvent, down, isChar bool) {
	atomic.AddInt64(&c.keyEvents, 1)
	log.Debugf("[%s] key code=%d rune=%q down=%v char=%v", c.label, e.Code, e.Rune, down, isChar)
}

func (c *Conn) SetCutText(text string) {
	c.lock.Lock()
	defer c.lock.Unlock()
	c.cutText = text
}

// CutText returns the last clipboard text pushed by the viewer.
func (c *Conn) CutText() string {
	c.lock.RLock()
	defer c.lock.RUnlock()
	return c.cutText
}

func (c *Conn) PointerEvents() int64 { return atomic.LoadInt64(&c.pointerEvents) }
func (c *Conn) KeyEvents() int64     { return atomic.LoadInt64(&c.keyEvents) }

func (c *Conn) IsMulticast() bool { return c.config.Multicast }

func (c *Conn) UpdRawByteStats() []string { return c.stats.snapshot(seriesRawBytes) }
func (c *Conn) UpdCountStats() []string   { return c.stats.snapshot(seriesCount) }
func (c *Conn) LatencyStats() []string    { return c.stats.snapshot(seriesLatency) }

func (c *Conn) MCLossRatioStats() []string {
	if !c.config.Multicast {
		return nil
	}
	return c.stats.snapshot(seriesLoss)
}

func (c *Conn) MCBufSize() int {
	if !c.config.Multicast {
		return 0
	}
	return c.config.BufSize
}

func (c *Conn) MCBufFill() int {
	c.lock.RLock()
	defer c.lock.RUnlock()
	return c.fill
}

var bars = []color.RGBA{
	{0xc0, 0xc0, 0xc0, 0xff},
	{0xc0, 0xc0, 0x00, 0xff},
	{0x00, 0xc0, 0xc0, 0xff},
	{0x00, 0xc0, 0x00, 0xff},
	{0xc0, 0x00, 0xc0, 0xff},
	{0xc0, 0x00, 0x00, 0xff},
	{0x00, 0x00, 0xc0, 0xff},
	{0x10, 0x10, 0x10, 0xff},
}

func barColor(i int) color.RGBA {
	return bars[i%len(bars)]
}

func newScreen(width, height int) *image.RGBA {
	screen := image.NewRGBA(image.Rect(0, 0, width, height))
	if width == 0 {
		return screen
	}
	for i := range bars {
		x0, x1 := i*width/len(bars), (i+1)*width/len(bars)
		draw.Draw(screen, image.Rect(x0, 0, x1, height), &image.Uniform{C: bars[i]}, image.Point{}, draw.Src)
	}
	return screen
}
