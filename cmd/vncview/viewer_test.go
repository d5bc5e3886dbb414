package main

import (
	"context"
	"io"
	"net"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/go-vncview/vncview/config"
	"github.com/go-vncview/vncview/metrics"
)

func TestHeadlessViewerStopsOnCancel(t *testing.T) {
	cfg := config.Default()
	cfg.Demo.Width, cfg.Demo.Height, cfg.Demo.FPS = 64, 48, 100
	cfg.Demo.Multicast = true
	cfg.Stats.ShowOnStart = true

	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(200*time.Millisecond, cancel)

	done := make(chan error, 1)
	go func() {
		done <- runViewer(ctx, cfg, viewerOptions{headless: true})
	}()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("runViewer: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("viewer did not stop after cancel")
	}
}

func TestHeadlessSurface(t *testing.T) {
	h := newHeadless(nil)
	h.SetSize(10, 20)
	if w, hh := h.Size(); w != 10 || hh != 20 {
		t.Fatalf("size = %dx%d", w, hh)
	}
	if h.Clipboard() != nil {
		t.Fatal("headless frontend has a clipboard")
	}
}

func TestMetricsEndpoint(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := metrics.New(metrics.WithRegistry(registry))
	m.StatsTick()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	srv := serveMetrics(ln, registry)
	defer srv.Close()

	resp, err := http.Get("http://" + ln.Addr().String() + "/metrics")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(body), "vncview_stats_ticks_total 1") {
		t.Fatalf("metrics body missing stats ticks:\n%s", body)
	}
}
