package tui

import (
	"image/color"
	"strings"
	"testing"
	"time"

	"github.com/rivo/tview"

	"github.com/go-vncview/vncview/canvas"
	"github.com/go-vncview/vncview/stats"
	"github.com/go-vncview/vncview/testpattern"
)

func cellText(p *StatsPanel, row, col int) string {
	cell := p.table.GetCell(row, col)
	if cell == nil {
		return ""
	}
	return cell.Text
}

func TestHiddenPanelIsBlank(t *testing.T) {
	p := NewStatsPanel(nil)
	p.SetField(stats.FieldRawKBps, "12")
	if p.table.GetRowCount() != 0 || p.gauge.GetText(true) != "" {
		t.Fatal("hidden panel rendered content")
	}
}

func TestUnicastRowsOmitLossRatio(t *testing.T) {
	p := NewStatsPanel(nil)
	p.SetVisible(true)
	p.SetField(stats.FieldRawKBps, "1,024")
	p.SetField(stats.FieldUpdates, "30")
	p.SetField(stats.FieldLatency, "4.5")

	if got := p.table.GetRowCount(); got != 3 {
		t.Fatalf("rows = %d, want 3", got)
	}
	if cellText(p, 0, 0) != "Raw KB/s:" || cellText(p, 0, 1) != "1,024" {
		t.Fatalf("row 0 = %q %q", cellText(p, 0, 0), cellText(p, 0, 1))
	}
	if p.gauge.GetText(true) != "" {
		t.Fatal("gauge shown for unicast")
	}
}

func TestMulticastGauge(t *testing.T) {
	p := NewStatsPanel(nil)
	p.SetVisible(true)
	p.SetMulticastVisible(true)
	p.SetField(stats.FieldLossRatio, "0.01")
	p.SetGaugeRange(10)
	p.SetGaugeValue(5)

	if got := p.table.GetRowCount(); got != 4 {
		t.Fatalf("rows = %d, want 4", got)
	}
	if cellText(p, 3, 1) != "0.01" {
		t.Fatalf("loss ratio = %q", cellText(p, 3, 1))
	}
	text := p.gauge.GetText(true)
	if !strings.HasPrefix(text, stats.BufferLabel) || !strings.HasSuffix(text, " 5/10") {
		t.Fatalf("gauge = %q", text)
	}
	if strings.Count(text, "█") != gaugeWidth/2 {
		t.Fatalf("gauge fill = %q", text)
	}
}

func TestBufferLabelColor(t *testing.T) {
	p := NewStatsPanel(nil)
	if p.BufferLabelColor() != defaultLabelColor {
		t.Fatalf("default colour = %v", p.BufferLabelColor())
	}
	red := color.RGBA{R: 0xff, A: 0xff}
	p.SetBufferLabelColor(red)
	p.SetVisible(true)
	p.SetMulticastVisible(true)
	if p.BufferLabelColor() != red {
		t.Fatalf("colour = %v", p.BufferLabelColor())
	}
	if !strings.Contains(p.gauge.GetText(false), "[#ff0000]") {
		t.Fatalf("gauge markup = %q", p.gauge.GetText(false))
	}
}

func TestBarClamps(t *testing.T) {
	if got := bar(20, 10); strings.Count(got, "█") != gaugeWidth {
		t.Fatalf("overfull bar = %q", got)
	}
	if got := bar(3, 0); strings.Count(got, "█") != 0 {
		t.Fatalf("zero-size bar = %q", got)
	}
}

func TestSamplerDrivesPanel(t *testing.T) {
	conn := testpattern.New(testpattern.Config{Width: 64, Height: 16, Multicast: true, BufSize: 7})
	start := time.Now()
	conn.Step(start)
	conn.Step(start.Add(2 * time.Second))

	p := NewStatsPanel(nil)
	s := stats.New(p, source{conn}, inline{}, stats.WithInterval(time.Hour))
	s.Show(true)
	defer s.Show(false)
	if p.table.GetRowCount() != 3 {
		t.Fatalf("rows after show = %d", p.table.GetRowCount())
	}

	s.Tick()
	if got := p.table.GetRowCount(); got != 4 {
		t.Fatalf("rows after multicast tick = %d, want 4", got)
	}
	if cellText(p, 1, 1) != "1" {
		t.Fatalf("updates = %q, want 1", cellText(p, 1, 1))
	}
	if !strings.Contains(p.gauge.GetText(true), "/7") {
		t.Fatalf("gauge = %q", p.gauge.GetText(true))
	}
}

type source struct{ conn canvas.Conn }

func (s source) Conn() canvas.Conn { return s.conn }

type inline struct{}

func (inline) Call(fn func()) error { fn(); return nil }

func TestDetachRendersSynchronously(t *testing.T) {
	p := NewStatsPanel(tview.NewApplication())
	p.Detach()
	p.SetVisible(true)
	p.SetField(stats.FieldUpdates, "7")
	if cellText(p, 1, 1) != "7" {
		t.Fatalf("updates = %q after detach", cellText(p, 1, 1))
	}
}
