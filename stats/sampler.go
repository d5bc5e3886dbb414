// Package stats periodically samples a connection's performance counters
// into a statistics display.
package stats

import (
	"image/color"
	"sync"
	"time"

	"github.com/op/go-logging"

	"github.com/go-vncview/vncview/canvas"
	"github.com/go-vncview/vncview/metrics"
)

var log = logging.MustGetLogger("stats")

const DefaultInterval = 100 * time.Millisecond

// AlarmRed is the default colour of the buffer label when the receive
// buffer is full.
var AlarmRed = color.RGBA{R: 0xff, A: 0xff}

type Field int

const (
	FieldRawKBps Field = iota
	FieldUpdates
	FieldLatency
	FieldLossRatio
)

var fieldLabels = [...]string{"Raw KB/s:", "Updates/s:", "Latency ms:", "Loss Ratio:"}

// Label is the caption shown next to the field.
func (f Field) Label() string {
	if f >= 0 && int(f) < len(fieldLabels) {
		return fieldLabels[f]
	}
	return ""
}

// BufferLabel is the caption of the receive buffer gauge.
const BufferLabel = "Rcv Buffer:"

// Display is the statistics widget group. It is only touched from the UI
// context.
type Display interface {
	SetVisible(visible bool)
	// SetMulticastVisible shows or hides the loss ratio field and the
	// buffer gauge.
	SetMulticastVisible(visible bool)
	Layout()

	ClearFields()
	SetField(f Field, text string)

	SetGaugeRange(n int)
	SetGaugeValue(n int)

	BufferLabelColor() color.RGBA
	SetBufferLabelColor(c color.RGBA)
}

// Source yields the connection to sample, or nil when there is none.
type Source interface {
	Conn() canvas.Conn
}

// Scheduler runs fn in the UI context. *eventloop.Loop implements it.
type Scheduler interface {
	Call(fn func()) error
}

type Option func(*Sampler)

func WithInterval(d time.Duration) Option {
	return func(s *Sampler) {
		if d > 0 {
			s.interval = d
		}
	}
}

func WithAlarmColor(c color.RGBA) Option {
	return func(s *Sampler) {
		s.alarm = c
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Sampler) {
		s.metrics = m
	}
}

// Sampler is stopped until Show(true). While running, a ticker goroutine
// schedules a tick into the UI context every interval; each tick shows
// only the newest value of each counter.
type Sampler struct {
	display   Display
	source    Source
	scheduler Scheduler
	interval  time.Duration
	alarm     color.RGBA
	dfltFg    color.RGBA
	metrics   *metrics.Metrics

	mu      sync.Mutex
	running bool
	gen     uint64
	stop    chan struct{}
}

func New(display Display, source Source, scheduler Scheduler, opts ...Option) *Sampler {
	s := &Sampler{
		display:   display,
		source:    source,
		scheduler: scheduler,
		interval:  DefaultInterval,
		alarm:     AlarmRed,
		dfltFg:    display.BufferLabelColor(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Sampler) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// Show starts or stops sampling. Either way the fields are cleared and
// the gauge reset.
func (s *Sampler) Show(show bool) {
	if show {
		s.start()
	} else {
		s.halt()
	}
	s.display.SetVisible(show)
	s.display.Layout()

	s.display.ClearFields()
	s.display.SetGaugeValue(0)
}

func (s *Sampler) start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		close(s.stop)
	}
	s.running = true
	s.gen++
	s.stop = make(chan struct{})
	go s.tickLoop(s.gen, s.stop)
	log.Debugf("statistics sampling every %v", s.interval)
}

func (s *Sampler) halt() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}
	s.running = false
	close(s.stop)
	s.stop = nil
}

func (s *Sampler) tickLoop(gen uint64, stop <-chan struct{}) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			err := s.scheduler.Call(func() {
				if s.current(gen) {
					s.Tick()
				}
			})
			if err != nil {
				log.Debugf("statistics tick not scheduled: %v", err)
				return
			}
		case <-stop:
			return
		}
	}
}

// current reports whether ticks of generation gen are still wanted. A
// tick queued just before a stop or restart is discarded.
func (s *Sampler) current(gen uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running && s.gen == gen
}

// Tick samples the connection once. It does nothing while stopped or
// when there is no connection.
func (s *Sampler) Tick() {
	if !s.Running() {
		return
	}
	conn := s.source.Conn()
	if conn == nil {
		return
	}
	d := s.display

	d.ClearFields()
	d.SetMulticastVisible(conn.IsMulticast())
	d.Layout()

	if v, ok := LastSample(conn.UpdRawByteStats()); ok {
		d.SetField(FieldRawKBps, RawKBps(v))
	}
	if v, ok := LastSample(conn.UpdCountStats()); ok {
		d.SetField(FieldUpdates, v)
	}
	if v, ok := LastSample(conn.LatencyStats()); ok {
		d.SetField(FieldLatency, v)
	}
	if v, ok := LastSample(conn.MCLossRatioStats()); ok {
		d.SetField(FieldLossRatio, v)
	}

	size, fill := conn.MCBufSize(), conn.MCBufFill()
	d.SetGaugeRange(size)
	d.SetGaugeValue(fill)

	// flash when the buffer is full
	if fill == size {
		d.SetBufferLabelColor(s.alarm)
	} else {
		d.SetBufferLabelColor(s.dfltFg)
	}

	s.metrics.StatsTick()
}
