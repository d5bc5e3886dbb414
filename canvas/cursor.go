package canvas

import (
	"image"
	"image/color"
	"sync"
)

// Cursor is a small RGBA image with its hotspot.
type Cursor struct {
	Image      *image.RGBA
	HotX, HotY int
}

const cursorSize = 16

// Rows are drawn with the most significant bit leftmost. A pixel is
// opaque where the mask bit is set; black where the image bit is set,
// white otherwise.
var (
	vnccursorBits = [cursorSize]uint16{
		0x0000, 0x0080, 0x0080, 0x0080, 0x0080, 0x0080, 0x0080, 0x0000,
		0x7ebf, 0x0000, 0x0080, 0x0080, 0x0080, 0x0080, 0x0080, 0x0080,
	}
	vnccursorMask = [cursorSize]uint16{
		0x01c0, 0x01c0, 0x01c0, 0x01c0, 0x01c0, 0x01c0, 0x01c0, 0xfffe,
		0xfffe, 0xfffe, 0x01c0, 0x01c0, 0x01c0, 0x01c0, 0x01c0, 0x01c0,
	}

	cursorOnce sync.Once
	vncCursor  *Cursor
)

// VNCCursor returns the canvas cursor, built on first use.
func VNCCursor() *Cursor {
	cursorOnce.Do(func() {
		vncCursor = newCursor(vnccursorBits, vnccursorMask, 8, 8)
	})
	return vncCursor
}

func newCursor(bits, mask [cursorSize]uint16, hotX, hotY int) *Cursor {
	img := image.NewRGBA(image.Rect(0, 0, cursorSize, cursorSize))
	for y := 0; y < cursorSize; y++ {
		for x := 0; x < cursorSize; x++ {
			bit := uint16(1) << uint(cursorSize-1-x)
			if mask[y]&bit == 0 {
				continue
			}
			if bits[y]&bit != 0 {
				img.SetRGBA(x, y, color.RGBA{A: 0xff})
			} else {
				img.SetRGBA(x, y, color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff})
			}
		}
	}
	return &Cursor{Image: img, HotX: hotX, HotY: hotY}
}
