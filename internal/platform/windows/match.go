package windows

// topWindow is a top-level window seen while enumerating the desktop.
type topWindow struct {
	handle  uintptr
	title   string
	visible bool
	pid     uint32
}

// matchWindow returns the window whose title equals title exactly,
// preferring visible windows over hidden ones. Enumeration order breaks ties.
func matchWindow(windows []topWindow, title string) (topWindow, bool) {
	var hidden *topWindow
	for i, w := range windows {
		if w.title != title {
			continue
		}
		if w.visible {
			return w, true
		}
		if hidden == nil {
			hidden = &windows[i]
		}
	}
	if hidden != nil {
		return *hidden, true
	}
	return topWindow{}, false
}
