package canvas

// OnPointer forwards a pointer event. Entering the surface also takes
// keyboard focus and pushes the local clipboard text to the connection
// before the event itself.
func (c *Canvas) OnPointer(e PointerEvent) {
	if c.destroyed {
		return
	}
	if e.Kind == PointerEnter {
		c.surface.SetFocus()
		c.syncCutText()
	}
	c.conn.SendPointerEvent(e)
	c.metrics.PointerEvent()
}

func (c *Canvas) syncCutText() {
	if c.clipboard == nil {
		return
	}
	text, ok := readClipboardText(c.clipboard)
	if !ok {
		return
	}
	log.Debugf("[%s] setting cuttext: '%s'", c.label, text)
	c.conn.SetCutText(text)
}

func (c *Canvas) OnKeyDown(e KeyEvent) {
	c.sendKey(e, true, false, "down")
}

func (c *Canvas) OnKeyUp(e KeyEvent) {
	c.sendKey(e, false, false, "up")
}

// OnChar forwards translated character input (IME, dead keys).
func (c *Canvas) OnChar(e KeyEvent) {
	c.sendKey(e, true, true, "char")
}

// OnFocusLoss releases Shift, Alt and Control on the remote side whether
// or not they are held, so no modifier stays stuck after focus moves
// away in the middle of a chord.
func (c *Canvas) OnFocusLoss() {
	if c.destroyed {
		return
	}
	log.Debugf("[%s] lost focus, upping key modifiers", c.label)
	for _, code := range []int{KeyShift, KeyAlt, KeyControl} {
		c.sendKey(KeyEvent{Code: code}, false, false, "release")
	}
}

func (c *Canvas) sendKey(e KeyEvent, down, isChar bool, kind string) {
	if c.destroyed {
		return
	}
	c.conn.SendKeyEvent(e, down, isChar)
	c.metrics.KeyEvent(kind)
}
