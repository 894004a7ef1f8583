// Package windows provides Windows platform support using user32 through
// golang.org/x/sys/windows: EnumWindows for window lookup,
// SetForegroundWindow for focus and SendInput for keystrokes.
package windows
