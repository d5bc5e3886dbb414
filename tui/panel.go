// Package tui renders the statistics display in a terminal.
package tui

import (
	"fmt"
	"image/color"
	"strings"
	"sync"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/go-vncview/vncview/stats"
)

const gaugeWidth = 30

var defaultLabelColor = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}

var fieldOrder = []stats.Field{stats.FieldRawKBps, stats.FieldUpdates, stats.FieldLatency, stats.FieldLossRatio}

// StatsPanel is a stats.Display backed by tview widgets. State changes
// are recorded immediately and pushed to the widgets on the tview
// goroutine, so it may be driven from another UI context.
type StatsPanel struct {
	app   *tview.Application
	root  *tview.Flex
	table *tview.Table
	gauge *tview.TextView

	lock       sync.Mutex
	visible    bool
	multicast  bool
	fields     map[stats.Field]string
	gaugeMax   int
	gaugeValue int
	labelColor color.RGBA
}

// NewStatsPanel builds the panel. app may be nil, in which case widgets
// are updated synchronously.
func NewStatsPanel(app *tview.Application) *StatsPanel {
	p := &StatsPanel{
		app:        app,
		table:      tview.NewTable(),
		gauge:      tview.NewTextView().SetDynamicColors(true),
		fields:     make(map[stats.Field]string),
		labelColor: defaultLabelColor,
	}
	p.root = tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(p.table, len(fieldOrder), 0, false).
		AddItem(p.gauge, 1, 0, false)
	p.root.SetBorder(true).SetTitle(" Statistics ")
	p.render()
	return p
}

func (p *StatsPanel) Primitive() tview.Primitive { return p.root }

// Detach stops pushing updates to the application, for use once it has
// exited and no longer drains its update queue.
func (p *StatsPanel) Detach() {
	p.lock.Lock()
	defer p.lock.Unlock()
	p.app = nil
}

func (p *StatsPanel) SetVisible(visible bool) {
	p.update(func() { p.visible = visible })
}

func (p *StatsPanel) SetMulticastVisible(visible bool) {
	p.update(func() { p.multicast = visible })
}

func (p *StatsPanel) Layout() {
	p.update(func() {})
}

func (p *StatsPanel) ClearFields() {
	p.update(func() { p.fields = make(map[stats.Field]string) })
}

func (p *StatsPanel) SetField(f stats.Field, text string) {
	p.update(func() { p.fields[f] = text })
}

func (p *StatsPanel) SetGaugeRange(n int) {
	p.update(func() { p.gaugeMax = n })
}

func (p *StatsPanel) SetGaugeValue(n int) {
	p.update(func() { p.gaugeValue = n })
}

func (p *StatsPanel) BufferLabelColor() color.RGBA {
	p.lock.Lock()
	defer p.lock.Unlock()
	return p.labelColor
}

func (p *StatsPanel) SetBufferLabelColor(c color.RGBA) {
	p.update(func() { p.labelColor = c })
}

func (p *StatsPanel) update(fn func()) {
	p.lock.Lock()
	fn()
	app := p.app
	p.lock.Unlock()

	if app == nil {
		p.render()
		return
	}
	app.QueueUpdateDraw(p.render)
}

func (p *StatsPanel) render() {
	p.lock.Lock()
	defer p.lock.Unlock()

	p.table.Clear()
	p.gauge.Clear()
	if !p.visible {
		return
	}

	row := 0
	for _, f := range fieldOrder {
		if f == stats.FieldLossRatio && !p.multicast {
			continue
		}
		p.table.SetCell(row, 0, tview.NewTableCell(f.Label()).SetTextColor(tcell.ColorGray))
		p.table.SetCell(row, 1, tview.NewTableCell(p.fields[f]).SetAlign(tview.AlignRight))
		row++
	}

	if p.multicast {
		c := p.labelColor
		fmt.Fprintf(p.gauge, "[#%02x%02x%02x]%s[-] %s", c.R, c.G, c.B, stats.BufferLabel, bar(p.gaugeValue, p.gaugeMax))
	}
}

// bar draws value out of size as a fixed-width text gauge.
func bar(value, size int) string {
	filled := 0
	if size > 0 {
		filled = value * gaugeWidth / size
	}
	filled = max(0, min(gaugeWidth, filled))
	return fmt.Sprintf("%s%s %d/%d", strings.Repeat("█", filled), strings.Repeat("░", gaugeWidth-filled), value, size)
}
