package platform

// WindowSource finds top-level windows.
type WindowSource interface {
	// FindWindow returns the top-level window whose title equals title
	// exactly (case-sensitive), or nil when there is none.
	FindWindow(title string) (*Window, error)
}

// WindowManager changes which window has input focus.
type WindowManager interface {
	// BringToForeground asks the OS to make w the foreground window. The OS
	// may refuse (focus-stealing prevention); callers treat that as advisory.
	BringToForeground(w Window) error
}

// Inputter synthesizes keystrokes into whatever currently holds input focus.
// Delivery is never confirmed: keystrokes sent while the target is not
// focused are lost silently.
type Inputter interface {
	// TypeChar sends a single character as one keystroke.
	TypeChar(ch rune) error
	// PressKey sends a named control key (see KeyNames).
	PressKey(name string) error
}

// ProcessLauncher starts external executables.
type ProcessLauncher interface {
	Launch(path string, args []string) (Process, error)
}
