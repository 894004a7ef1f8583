package output

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/mj1618/cslogin/internal/apperr"
)

// Tags used on status lines.
const (
	TagConnectionString = "CONNECTION STRING"
	TagWebConfig        = "WEB.CONFIG"
	TagSSMS             = "SSMS"
	TagFound            = "FOUND"
	TagWaiting          = "WAITING"
	TagError            = "ERROR"
)

// Status writes "[TAG] message" lines. A progress line is left unterminated
// and is overwritten by whatever is written next.
type Status struct {
	w         io.Writer
	tag       lipgloss.Style
	errTag    lipgloss.Style
	transient int
}

// NewStatus returns a Status writing to w. Colour is used only when w is a
// terminal that supports it.
func NewStatus(w io.Writer) *Status {
	r := lipgloss.NewRenderer(w)
	return &Status{
		w:      w,
		tag:    r.NewStyle().Foreground(lipgloss.Color("2")),
		errTag: r.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),
	}
}

// Line writes a tagged status line.
func (s *Status) Line(tag, msg string) {
	s.Clear()
	fmt.Fprintf(s.w, "%s %s\n", s.tag.Render("["+tag+"]"), msg)
}

// Plain writes an untagged line.
func (s *Status) Plain(msg string) {
	s.Clear()
	fmt.Fprintln(s.w, msg)
}

// Progress shows msg until the next write.
func (s *Status) Progress(msg string) {
	s.Clear()
	fmt.Fprint(s.w, msg)
	s.transient = lipgloss.Width(msg)
}

// Waiting redraws the "[WAITING Ns] msg" line in place. Elapsed time is
// shown in whole seconds.
func (s *Status) Waiting(elapsed time.Duration, msg string) {
	s.Clear()
	line := s.tag.Render(fmt.Sprintf("[%s %ds]", TagWaiting, int64(elapsed/time.Second))) + " " + msg
	fmt.Fprint(s.w, line)
	s.transient = lipgloss.Width(line)
}

// Commit keeps the current progress line by terminating it.
func (s *Status) Commit() {
	if s.transient > 0 {
		fmt.Fprintln(s.w)
		s.transient = 0
	}
}

// Clear erases the current progress line, if any.
func (s *Status) Clear() {
	if s.transient > 0 {
		fmt.Fprint(s.w, "\r"+strings.Repeat(" ", s.transient)+"\r")
		s.transient = 0
	}
}

// Error writes "[ERROR] message". When err carries a cause, the cause goes on
// an indented second line.
func (s *Status) Error(err error) {
	if err == nil {
		return
	}
	s.Clear()
	msg, cause := splitCause(err)
	fmt.Fprintf(s.w, "%s %s\n", s.errTag.Render("["+TagError+"]"), msg)
	if cause != "" {
		fmt.Fprintf(s.w, "        %s\n", cause)
	}
}

func splitCause(err error) (string, string) {
	cause := apperr.Cause(err)
	if cause == nil {
		return err.Error(), ""
	}
	return strings.TrimSuffix(err.Error(), ": "+cause.Error()), cause.Error()
}
