// Package metrics exposes Prometheus collectors for the render pipeline.
// A nil *Metrics is valid and records nothing.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Config configures the collectors.
type Config struct {
	// Namespace is the metrics namespace (default: "vncview").
	Namespace string

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

type Option func(*Config)

func WithNamespace(namespace string) Option {
	return func(c *Config) {
		if namespace != "" {
			c.Namespace = namespace
		}
	}
}

func WithRegistry(registry prometheus.Registerer) Option {
	return func(c *Config) {
		c.Registry = registry
	}
}

// Draw sources.
const (
	SourcePaint  = "paint"
	SourceUpdate = "update"
)

type Metrics struct {
	draws                  *prometheus.CounterVec
	drawDuration           prometheus.Histogram
	notificationsDiscarded prometheus.Counter
	pointerEvents          prometheus.Counter
	keyEvents              *prometheus.CounterVec
	statsTicks             prometheus.Counter
	queueDepth             prometheus.Gauge
}

func New(opts ...Option) *Metrics {
	config := Config{
		Namespace: "vncview",
		Registry:  prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(&config)
	}
	factory := promauto.With(config.Registry)

	return &Metrics{
		draws: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: config.Namespace,
			Name:      "draws_total",
			Help:      "Region draws issued against the surface",
		}, []string{"source"}),

		drawDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: config.Namespace,
			Name:      "draw_duration_seconds",
			Help:      "Time to fetch and blit one region",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
		}),

		notificationsDiscarded: factory.NewCounter(prometheus.CounterOpts{
			Namespace: config.Namespace,
			Name:      "notifications_discarded_total",
			Help:      "Update notifications ignored because they came from another connection",
		}),

		pointerEvents: factory.NewCounter(prometheus.CounterOpts{
			Namespace: config.Namespace,
			Name:      "pointer_events_total",
			Help:      "Pointer events forwarded to the connection",
		}),

		keyEvents: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: config.Namespace,
			Name:      "key_events_total",
			Help:      "Key events forwarded to the connection",
		}, []string{"kind"}),

		statsTicks: factory.NewCounter(prometheus.CounterOpts{
			Namespace: config.Namespace,
			Name:      "stats_ticks_total",
			Help:      "Statistics sampler ticks that read a connection",
		}),

		queueDepth: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: config.Namespace,
			Name:      "queue_depth",
			Help:      "Events waiting for the UI context",
		}),
	}
}

func (m *Metrics) ObserveDraw(source string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.draws.WithLabelValues(source).Inc()
	m.drawDuration.Observe(elapsed.Seconds())
}

func (m *Metrics) NotificationDiscarded() {
	if m == nil {
		return
	}
	m.notificationsDiscarded.Inc()
}

func (m *Metrics) PointerEvent() {
	if m == nil {
		return
	}
	m.pointerEvents.Inc()
}

// KeyEvent counts a forwarded key event; kind is "down", "up", "char" or
// "release" for synthesized modifier releases.
func (m *Metrics) KeyEvent(kind string) {
	if m == nil {
		return
	}
	m.keyEvents.WithLabelValues(kind).Inc()
}

func (m *Metrics) StatsTick() {
	if m == nil {
		return
	}
	m.statsTicks.Inc()
}

func (m *Metrics) SetQueueDepth(n int) {
	if m == nil {
		return
	}
	m.queueDepth.Set(float64(n))
}
