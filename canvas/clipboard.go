package canvas

import "sync"

var clipboardMu sync.Mutex

// LockClipboard acquires the process-wide clipboard lock. Every piece of
// code touching the system clipboard goes through it.
func LockClipboard() (unlock func()) {
	clipboardMu.Lock()
	return clipboardMu.Unlock
}

// readClipboardText returns the clipboard's plain text, if any. A
// clipboard that cannot be opened is skipped.
func readClipboardText(cb Clipboard) (string, bool) {
	unlock := LockClipboard()
	defer unlock()

	if !cb.Open() {
		return "", false
	}
	defer cb.Close()
	return cb.Text()
}
