package canvas

import "image"

// Surface is the window-system widget a Canvas draws on. Every method is
// called from the UI context only.
type Surface interface {
	DrawImage(img image.Image, x, y int)
	Size() (width, height int)
	// SetSize sets the initial/minimum size, not only the current one.
	SetSize(width, height int)
	CenterOnParent()
	LayoutParent()
	SetFocus()
	SetCursor(c *Cursor)
}

// Clipboard is the process-wide clipboard. Callers hold the lock from
// LockClipboard around the whole Open/Text/Close sequence.
type Clipboard interface {
	Open() bool
	// Text returns the clipboard contents if it holds plain text.
	Text() (string, bool)
	Close()
}
