// Package picker implements an interactive terminal list picker: the user
// moves a highlight with the arrow keys and confirms with Enter or cancels
// with Escape. The list is redrawn in place and blanked when done.
package picker

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// Terminal is the capability the picker needs: somewhere to draw and a
// source of single, unechoed key presses.
type Terminal interface {
	io.Writer
	ReadKey() (Key, error)
}

// ColorProfiler is implemented by terminals that know their colour profile.
// Terminals without it are drawn with the profile termenv detects for them.
type ColorProfiler interface {
	ColorProfile() termenv.Profile
}

// Pick lets the user choose one of items. It returns the chosen value and
// true, or the zero value and false when the user pressed Escape.
//
// A single item is returned immediately without drawing or reading a key.
// An empty list is an InvalidInput error.
func Pick[T any](t Terminal, header string, items []Item[T]) (T, bool, error) {
	var zero T

	list, err := NewList(items)
	if err != nil {
		return zero, false, err
	}
	if list.Len() == 1 {
		return list.Selected().Value, true, nil
	}

	var opts []termenv.OutputOption
	if p, ok := t.(ColorProfiler); ok {
		opts = append(opts, termenv.WithProfile(p.ColorProfile()))
	}
	r := NewRenderer(t, opts...)
	r.HideCursor()
	defer r.ShowCursor()

	labels := list.Labels()
	region := r.Render(header, labels, list.Cursor())

	for {
		key, err := t.ReadKey()
		if err != nil {
			r.Blank(region)
			return zero, false, fmt.Errorf("read key: %w", err)
		}

		switch key {
		case KeyUp:
			list.Up()
		case KeyDown:
			list.Down()
		case KeyEnter:
			r.Blank(region)
			return list.Selected().Value, true, nil
		case KeyEscape:
			r.Blank(region)
			return zero, false, nil
		}

		region = r.Redraw(region, header, labels, list.Cursor())
	}
}

// Strings is a convenience for picking among plain strings, where each label
// is derived from its value by label (identity when nil).
func Strings(t Terminal, header string, values []string, label func(string) string) (string, bool, error) {
	items := make([]Item[string], len(values))
	for i, v := range values {
		l := v
		if label != nil {
			l = label(v)
		}
		items[i] = Item[string]{Label: l, Value: v}
	}
	return Pick(t, header, items)
}
