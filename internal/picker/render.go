package picker

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// Region is a block of lines written by a Renderer. The block occupies the
// Lines rows directly above the cursor; its origin is the first of them.
type Region struct {
	Lines int
}

// Renderer draws a header and a list of labels in place and erases them
// again. Every line starts at column 0 and is cleared before it is written,
// so redraws never leave stale characters or highlights behind.
type Renderer struct {
	out       *termenv.Output
	highlight termenv.Color
}

// NewRenderer returns a renderer writing to w. The colour profile is detected
// from w unless overridden with termenv.WithProfile.
func NewRenderer(w io.Writer, opts ...termenv.OutputOption) *Renderer {
	out := termenv.NewOutput(w, opts...)
	return &Renderer{
		out:       out,
		highlight: out.Color("6"),
	}
}

// Render writes header and labels starting at the current line and returns
// the region they occupy. The label at cursor is highlighted.
func (r *Renderer) Render(header string, labels []string, cursor int) Region {
	r.line(header, false)
	for i, label := range labels {
		r.line(" > "+label, i == cursor)
	}
	return Region{Lines: len(labels) + 1}
}

// Redraw moves back to the origin of reg and renders the whole block again.
func (r *Renderer) Redraw(reg Region, header string, labels []string, cursor int) Region {
	r.rewind(reg)
	return r.Render(header, labels, cursor)
}

// Blank overwrites every line of reg with an empty line and leaves the cursor
// at the region origin, so the next output continues where the block began.
func (r *Renderer) Blank(reg Region) {
	r.rewind(reg)
	for i := 0; i < reg.Lines; i++ {
		r.line("", false)
	}
	r.rewind(reg)
	fmt.Fprint(r.out, "\r")
}

// HideCursor hides the terminal cursor.
func (r *Renderer) HideCursor() { r.out.HideCursor() }

// ShowCursor shows the terminal cursor.
func (r *Renderer) ShowCursor() { r.out.ShowCursor() }

func (r *Renderer) rewind(reg Region) {
	// CSI 0 A moves one line on most terminals.
	if reg.Lines > 0 {
		r.out.CursorUp(reg.Lines)
	}
}

func (r *Renderer) line(s string, highlighted bool) {
	fmt.Fprint(r.out, "\r")
	r.out.ClearLine()
	if highlighted {
		s = r.out.String(s).Foreground(r.highlight).String()
	}
	fmt.Fprint(r.out, s, "\n")
}
