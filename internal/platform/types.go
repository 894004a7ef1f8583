package platform

import (
	"fmt"
	"sort"
	"strings"
)

// Window identifies a top-level window.
type Window struct {
	Handle uintptr `yaml:"handle" json:"handle"`
	Title  string  `yaml:"title"  json:"title"`
	PID    int     `yaml:"pid,omitempty" json:"pid,omitempty"`
}

// Process is a started external process.
type Process struct {
	PID  int    `yaml:"pid"  json:"pid"`
	Path string `yaml:"path" json:"path"`
}

// Named control keys every Inputter backend understands.
const (
	KeyTab       = "tab"
	KeyEnter     = "enter"
	KeyEscape    = "escape"
	KeyBackspace = "backspace"
	KeyDelete    = "delete"
	KeySpace     = "space"
	KeyUp        = "up"
	KeyDown      = "down"
	KeyLeft      = "left"
	KeyRight     = "right"
	KeyHome      = "home"
	KeyEnd       = "end"
)

var keyAliases = map[string]string{
	"tab":       KeyTab,
	"enter":     KeyEnter,
	"return":    KeyEnter,
	"escape":    KeyEscape,
	"esc":       KeyEscape,
	"backspace": KeyBackspace,
	"delete":    KeyDelete,
	"del":       KeyDelete,
	"space":     KeySpace,
	"up":        KeyUp,
	"down":      KeyDown,
	"left":      KeyLeft,
	"right":     KeyRight,
	"home":      KeyHome,
	"end":       KeyEnd,
}

// ParseKey normalizes a key name ("Tab", "RETURN", "esc") to its canonical
// form.
func ParseKey(s string) (string, error) {
	if k, ok := keyAliases[strings.ToLower(strings.TrimSpace(s))]; ok {
		return k, nil
	}
	return "", fmt.Errorf("unknown key: %q (expected one of %s)", s, strings.Join(KeyNames(), ", "))
}

// KeyNames returns the canonical key names, sorted.
func KeyNames() []string {
	seen := make(map[string]bool)
	var names []string
	for _, k := range keyAliases {
		if !seen[k] {
			seen[k] = true
			names = append(names, k)
		}
	}
	sort.Strings(names)
	return names
}
