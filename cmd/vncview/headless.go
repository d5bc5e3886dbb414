package main

import (
	"context"
	"image"

	"github.com/go-vncview/vncview/canvas"
	"github.com/go-vncview/vncview/eventloop"
)

// headless is a frontend without a window. Draws are counted and
// discarded; the UI context is the event loop's own Run.
type headless struct {
	loop          *eventloop.Loop
	width, height int
	draws         int
}

func newHeadless(loop *eventloop.Loop) *headless {
	return &headless{loop: loop}
}

func (h *headless) DrawImage(img image.Image, x, y int) { h.draws++ }
func (h *headless) Size() (int, int)                    { return h.width, h.height }
func (h *headless) SetSize(width, height int)           { h.width, h.height = width, height }
func (h *headless) CenterOnParent()                     {}
func (h *headless) LayoutParent()                       {}
func (h *headless) SetFocus()                           {}
func (h *headless) SetCursor(*canvas.Cursor)            {}
func (h *headless) Clipboard() canvas.Clipboard         { return nil }
func (h *headless) Attach(*canvas.Canvas)               {}
func (h *headless) Close() error                        { return nil }

func (h *headless) Pump(ctx context.Context) error {
	return h.loop.Run(ctx)
}
