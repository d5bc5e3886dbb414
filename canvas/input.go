package canvas

import "fmt"

type PointerKind int

const (
	PointerMotion PointerKind = iota
	PointerDown
	PointerUp
	PointerEnter
	PointerLeave
	PointerWheel
)

var pointerKindNames = [...]string{"motion", "down", "up", "enter", "leave", "wheel"}

func (k PointerKind) String() string {
	if int(k) < len(pointerKindNames) {
		return pointerKindNames[k]
	}
	return fmt.Sprintf("PointerKind(%d)", int(k))
}

// ButtonMask mirrors the RFB pointer button bits.
type ButtonMask uint8

const (
	ButtonLeft ButtonMask = 1 << iota
	ButtonMiddle
	ButtonRight
	ButtonWheelUp
	ButtonWheelDown
)

// PointerEvent is forwarded to the connection verbatim.
type PointerEvent struct {
	Kind    PointerKind
	X, Y    int
	Buttons ButtonMask

	// WheelDelta is positive for scrolling up.
	WheelDelta int
}

type Modifiers uint8

const (
	ModShift Modifiers = 1 << iota
	ModAlt
	ModControl
	ModSuper
)

// Key codes for keys the canvas synthesizes itself. Other values are
// whatever the windowing system reports.
const (
	KeyShift   = 306
	KeyAlt     = 307
	KeyControl = 308
)

// KeyEvent carries a native key code, and for character input the
// translated rune.
type KeyEvent struct {
	Code      int
	Rune      rune
	Modifiers Modifiers
}
