package picker

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// ErrNotInteractive is returned when stdin is not a terminal and a picker
// therefore cannot be shown.
var ErrNotInteractive = errors.New("not an interactive terminal")

// escapeWait is how long a read waits for the rest of an escape sequence
// before a lone ESC counts as the Escape key.
const escapeWait = 50 * time.Millisecond

// Console is a Terminal backed by the process's console. Keys are read in
// raw mode, so they are neither echoed nor line-buffered.
type Console struct {
	in      *os.File
	out     io.Writer
	profile termenv.Profile
	pending []Key
	restore func() error
}

// NewConsole returns a console reading keys from in and drawing to out.
// On Windows it enables VT processing on out so cursor sequences work.
func NewConsole(in *os.File, out io.Writer) (*Console, error) {
	if !term.IsTerminal(int(in.Fd())) {
		return nil, ErrNotInteractive
	}
	o := termenv.NewOutput(out)
	c := &Console{in: in, out: out, profile: o.Profile, restore: func() error { return nil }}
	if restore, err := termenv.EnableVirtualTerminalProcessing(o); err == nil {
		c.restore = restore
	}
	return c, nil
}

// Close restores the console output mode.
func (c *Console) Close() error {
	return c.restore()
}

func (c *Console) Write(p []byte) (int, error) {
	return c.out.Write(p)
}

// ColorProfile is the colour profile detected for the console's output.
func (c *Console) ColorProfile() termenv.Profile {
	return c.profile
}

// ReadKey returns the next key press. Keys left over from a read that
// carried several of them are returned before the console is read again.
func (c *Console) ReadKey() (Key, error) {
	if len(c.pending) == 0 {
		keys, err := c.readKeys()
		if err != nil {
			return KeyOther, err
		}
		c.pending = keys
	}
	k := c.pending[0]
	c.pending = c.pending[1:]
	return k, nil
}

// readKeys blocks in raw mode until at least one key is decoded.
func (c *Console) readKeys() ([]Key, error) {
	fd := int(c.in.Fd())
	state, err := term.MakeRaw(fd)
	if err != nil {
		return nil, fmt.Errorf("raw mode: %w", err)
	}
	defer func() { _ = term.Restore(fd, state) }()

	var (
		keys []Key
		buf  []byte
		read [64]byte
	)
	for len(keys) == 0 || len(buf) > 0 {
		n, err := c.in.Read(read[:])
		if err != nil {
			return nil, err
		}
		decoded, rest := DecodeKeys(append(buf, read[:n]...))
		keys = append(keys, decoded...)
		buf = append([]byte(nil), rest...)
		if len(buf) > 0 && !inputReady(c.in, escapeWait) {
			keys = append(keys, FlushKeys(buf)...)
			buf = nil
		}
	}
	return keys, nil
}
