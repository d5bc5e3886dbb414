package main

import (
	"context"
	"io"
	"net"
	"os"

	"github.com/juju/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rivo/tview"
	"golang.org/x/term"

	"github.com/go-vncview/vncview/canvas"
	"github.com/go-vncview/vncview/config"
	"github.com/go-vncview/vncview/container"
	"github.com/go-vncview/vncview/eventloop"
	"github.com/go-vncview/vncview/metrics"
	"github.com/go-vncview/vncview/stats"
	"github.com/go-vncview/vncview/testpattern"
	"github.com/go-vncview/vncview/tui"
)

// frontend is where the canvas is shown and where native events come
// from. Pump runs the UI context on the calling goroutine.
type frontend interface {
	canvas.Surface
	Clipboard() canvas.Clipboard
	Attach(c *canvas.Canvas)
	Pump(ctx context.Context) error
	Close() error
}

type viewerOptions struct {
	headless    bool
	logsToFile  bool
	interactive bool // stdout is a terminal
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

func runViewer(ctx context.Context, cfg config.Config, opts viewerOptions) error {
	if !opts.headless && !haveGL {
		return errors.New("built without OpenGL support; use --headless")
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	registry := prometheus.NewRegistry()
	m := metrics.New(metrics.WithNamespace(cfg.Metrics.Namespace), metrics.WithRegistry(registry))
	if cfg.Metrics.Listen != "" {
		ln, err := net.Listen("tcp", cfg.Metrics.Listen)
		if err != nil {
			return errors.Annotatef(err, "could not listen on %s", cfg.Metrics.Listen)
		}
		srv := serveMetrics(ln, registry)
		defer srv.Close()
	}

	var app *tview.Application
	if cfg.Stats.ShowOnStart && !opts.interactive {
		log.Warningf("stdout is not a terminal; not showing statistics")
		cfg.Stats.ShowOnStart = false
	}
	if cfg.Stats.ShowOnStart {
		app = tview.NewApplication()
		if !opts.logsToFile {
			config.SetLogOutput(io.Discard)
			config.ConfigureLogging(cfg.Logging.Level)
		}
	}
	panel := tui.NewStatsPanel(app)

	var wake func()
	if !opts.headless {
		wake = glWake
	}
	loop := eventloop.New(eventloop.WithWake(wake), eventloop.WithMetrics(m))

	alarm, err := config.ParseColor(cfg.Stats.AlarmColor)
	if err != nil {
		return err
	}
	cont := container.New(panel, loop, loop,
		container.WithScrollRate(cfg.Window.ScrollRate),
		container.WithSamplerOptions(
			stats.WithInterval(cfg.Stats.Interval()),
			stats.WithAlarmColor(alarm),
			stats.WithMetrics(m),
		),
	)

	var fe frontend
	if opts.headless {
		fe = newHeadless(loop)
	} else if fe, err = openWindow(loop, cfg.Window.Title); err != nil {
		return err
	}

	conn := testpattern.New(testpattern.Config{
		Name:      "demo",
		Width:     cfg.Demo.Width,
		Height:    cfg.Demo.Height,
		FPS:       cfg.Demo.FPS,
		Multicast: cfg.Demo.Multicast,
	})
	canvasOpts := []canvas.Option{canvas.WithMetrics(m), canvas.WithLabel(conn.Label())}
	if cb := fe.Clipboard(); cb != nil {
		canvasOpts = append(canvasOpts, canvas.WithClipboard(cb))
	}
	cv := canvas.New(fe, conn, canvasOpts...)
	fe.Attach(cv)
	cont.SetCanvas(cv)

	if err := conn.Start(eventloop.NewNotifier(loop)); err != nil {
		fe.Close()
		return err
	}
	if app != nil {
		app.SetRoot(panel.Primitive(), true)
		go func() {
			if err := app.Run(); err != nil {
				log.Errorf("terminal display: %v", err)
			}
			panel.Detach()
			cancel()
		}()
		cont.ShowStats(true)
	}

	log.Infof("[%s] viewing %dx%d test pattern", cv.Label(), conn.FramebufferWidth(), conn.FramebufferHeight())
	err = fe.Pump(ctx)

	conn.Close()
	cont.Close()
	loop.Close()
	if app != nil {
		app.Stop()
	}
	fe.Close()

	if errors.Cause(err) == context.Canceled {
		return nil
	}
	return err
}
