package canvas_test

import (
	"testing"
	"time"

	"github.com/go-vncview/vncview/canvas"
	"github.com/go-vncview/vncview/canvas/canvastest"
)

func TestPointerEnterPushesClipboardFirst(t *testing.T) {
	cb := &canvastest.Clipboard{Data: "hello", HasText: true}
	c, surface, conn := newCanvas(t, 100, 100, canvas.WithClipboard(cb))

	enter := canvas.PointerEvent{Kind: canvas.PointerEnter, X: 4, Y: 5}
	c.OnPointer(enter)

	calls := conn.Calls()
	if len(calls) != 2 {
		t.Fatalf("got calls %+v, want SetCutText then SendPointerEvent", calls)
	}
	if calls[0].Method != "SetCutText" || calls[0].Text != "hello" {
		t.Fatalf("first call = %+v, want SetCutText(\"hello\")", calls[0])
	}
	if calls[1].Method != "SendPointerEvent" || calls[1].Ptr != enter {
		t.Fatalf("second call = %+v, want the enter event", calls[1])
	}
	if surface.Focused != 1 {
		t.Fatalf("focus taken %d times, want 1", surface.Focused)
	}
	if cb.Opens != 1 || cb.Closes != 1 {
		t.Fatalf("clipboard opens=%d closes=%d, want 1 and 1", cb.Opens, cb.Closes)
	}
}

func TestPointerEnterClipboardEdgeCases(t *testing.T) {
	cases := []struct {
		name       string
		cb         *canvastest.Clipboard
		wantCloses int
	}{
		{"unavailable", &canvastest.Clipboard{Unavailable: true, Data: "x", HasText: true}, 0},
		{"not text", &canvastest.Clipboard{Data: "", HasText: false}, 1},
	}
	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			c, _, conn := newCanvas(t, 100, 100, canvas.WithClipboard(tt.cb))

			c.OnPointer(canvas.PointerEvent{Kind: canvas.PointerEnter})

			if n := len(conn.CallsTo("SetCutText")); n != 0 {
				t.Fatalf("SetCutText called %d times, want 0", n)
			}
			if n := len(conn.CallsTo("SendPointerEvent")); n != 1 {
				t.Fatalf("SendPointerEvent called %d times, want 1", n)
			}
			if tt.cb.Closes != tt.wantCloses {
				t.Fatalf("clipboard closed %d times, want %d", tt.cb.Closes, tt.wantCloses)
			}
		})
	}
}

func TestPointerEnterReleasesClipboardLock(t *testing.T) {
	cb := &canvastest.Clipboard{Unavailable: true}
	c, _, _ := newCanvas(t, 100, 100, canvas.WithClipboard(cb))

	c.OnPointer(canvas.PointerEvent{Kind: canvas.PointerEnter})

	// Would deadlock if the failed open left the lock held.
	unlock := canvas.LockClipboard()
	unlock()
}

func TestPointerEnterWaitsForClipboardLock(t *testing.T) {
	cb := &canvastest.Clipboard{Data: "held", HasText: true}
	c, _, conn := newCanvas(t, 100, 100, canvas.WithClipboard(cb))

	unlock := canvas.LockClipboard()
	done := make(chan struct{})
	go func() {
		defer close(done)
		c.OnPointer(canvas.PointerEvent{Kind: canvas.PointerEnter})
	}()

	select {
	case <-done:
		t.Fatal("pointer enter finished while another holder had the clipboard lock")
	case <-time.After(50 * time.Millisecond):
	}
	if n := len(conn.CallsTo("SetCutText")) + len(conn.CallsTo("SendPointerEvent")); n != 0 {
		t.Fatalf("connection saw %d calls before the lock was released", n)
	}

	unlock()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("pointer enter never acquired the clipboard lock")
	}
	if cb.Opens != 1 || cb.Closes != 1 {
		t.Fatalf("opens=%d closes=%d, want 1 and 1", cb.Opens, cb.Closes)
	}
	if got := conn.CallsTo("SetCutText"); len(got) != 1 || got[0].Text != "held" {
		t.Fatalf("cut text calls = %+v, want one with \"held\"", got)
	}
}

func TestPointerEventsForwardedVerbatim(t *testing.T) {
	cb := &canvastest.Clipboard{Data: "x", HasText: true}
	c, surface, conn := newCanvas(t, 100, 100, canvas.WithClipboard(cb))

	events := []canvas.PointerEvent{
		{Kind: canvas.PointerMotion, X: 1, Y: 2},
		{Kind: canvas.PointerDown, X: 1, Y: 2, Buttons: canvas.ButtonLeft},
		{Kind: canvas.PointerUp, X: 1, Y: 2},
		{Kind: canvas.PointerWheel, X: 1, Y: 2, WheelDelta: -1},
		{Kind: canvas.PointerLeave, X: 99, Y: 2},
	}
	for _, e := range events {
		c.OnPointer(e)
	}

	got := conn.CallsTo("SendPointerEvent")
	if len(got) != len(events) {
		t.Fatalf("forwarded %d events, want %d", len(got), len(events))
	}
	for i, e := range events {
		if got[i].Ptr != e {
			t.Errorf("event %d = %+v, want %+v", i, got[i].Ptr, e)
		}
	}
	if surface.Focused != 0 || cb.Opens != 0 {
		t.Fatalf("non-enter events touched focus (%d) or clipboard (%d)", surface.Focused, cb.Opens)
	}
}

func TestKeyForwarding(t *testing.T) {
	c, _, conn := newCanvas(t, 100, 100)
	key := canvas.KeyEvent{Code: 65}
	char := canvas.KeyEvent{Code: 65, Rune: 'a'}

	c.OnKeyDown(key)
	c.OnKeyUp(key)
	c.OnChar(char)

	want := []canvastest.Call{
		{Method: "SendKeyEvent", Key: key, Down: true, IsChar: false},
		{Method: "SendKeyEvent", Key: key, Down: false, IsChar: false},
		{Method: "SendKeyEvent", Key: char, Down: true, IsChar: true},
	}
	got := conn.CallsTo("SendKeyEvent")
	if len(got) != len(want) {
		t.Fatalf("got %d key events, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("key event %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestFocusLossReleasesModifiers(t *testing.T) {
	for _, held := range []canvas.Modifiers{0, canvas.ModShift, canvas.ModShift | canvas.ModAlt | canvas.ModControl} {
		c, _, conn := newCanvas(t, 100, 100)
		if held != 0 {
			c.OnKeyDown(canvas.KeyEvent{Code: canvas.KeyShift, Modifiers: held})
		}
		before := len(conn.CallsTo("SendKeyEvent"))

		c.OnFocusLoss()

		got := conn.CallsTo("SendKeyEvent")[before:]
		wantCodes := []int{canvas.KeyShift, canvas.KeyAlt, canvas.KeyControl}
		if len(got) != 3 {
			t.Fatalf("held=%v: got %d key events on focus loss, want 3", held, len(got))
		}
		for i, code := range wantCodes {
			if got[i].Key.Code != code || got[i].Down || got[i].IsChar {
				t.Errorf("held=%v: event %d = %+v, want release of %d", held, i, got[i], code)
			}
		}
	}
}
