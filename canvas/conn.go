package canvas

import "image"

// Conn is the connection a canvas renders from and forwards input to.
// Implementations own protocol handling, pixel decoding and statistics
// accumulation; every method must be safe to call from the UI context
// while the connection's own goroutines keep updating the framebuffer.
//
// Update events are matched to canvases by comparing Conn values, so
// implementations must be comparable; use a pointer type.
type Conn interface {
	// FramebufferRegion returns a bitmap of the requested region. It
	// must tolerate concurrent framebuffer writes.
	FramebufferRegion(r Rect) image.Image
	FramebufferWidth() int
	FramebufferHeight() int

	SendPointerEvent(e PointerEvent)
	SendKeyEvent(e KeyEvent, down, isChar bool)
	SetCutText(text string)

	IsMulticast() bool

	// Each statistics sequence is ordered oldest first; the counter
	// value of an entry follows its last ','.
	UpdRawByteStats() []string
	UpdCountStats() []string
	LatencyStats() []string
	MCLossRatioStats() []string

	MCBufSize() int
	MCBufFill() int
}
