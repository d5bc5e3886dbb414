//go:build !no_gl
// +build !no_gl

package vncgl

import (
	"math"

	"github.com/go-gl/glfw/v3.2/glfw"

	"github.com/go-vncview/vncview/canvas"
)

// keyCode maps GLFW keys to canvas key codes. Modifier keys use the
// canvas constants so focus-loss releases match what was pressed.
func keyCode(key glfw.Key) int {
	switch key {
	case glfw.KeyLeftShift, glfw.KeyRightShift:
		return canvas.KeyShift
	case glfw.KeyLeftAlt, glfw.KeyRightAlt:
		return canvas.KeyAlt
	case glfw.KeyLeftControl, glfw.KeyRightControl:
		return canvas.KeyControl
	}
	return int(key)
}

func modifiers(mods glfw.ModifierKey) canvas.Modifiers {
	var m canvas.Modifiers
	if mods&glfw.ModShift != 0 {
		m |= canvas.ModShift
	}
	if mods&glfw.ModAlt != 0 {
		m |= canvas.ModAlt
	}
	if mods&glfw.ModControl != 0 {
		m |= canvas.ModControl
	}
	if mods&glfw.ModSuper != 0 {
		m |= canvas.ModSuper
	}
	return m
}

func buttonBit(button glfw.MouseButton) canvas.ButtonMask {
	switch button {
	case glfw.MouseButtonLeft:
		return canvas.ButtonLeft
	case glfw.MouseButtonMiddle:
		return canvas.ButtonMiddle
	case glfw.MouseButtonRight:
		return canvas.ButtonRight
	}
	return 0
}

// wheelDelta rounds a scroll offset away from zero, so a fractional
// touchpad scroll still moves one notch.
func wheelDelta(offset float64) int {
	switch {
	case offset > 0:
		return int(math.Ceil(offset))
	case offset < 0:
		return int(math.Floor(offset))
	}
	return 0
}
