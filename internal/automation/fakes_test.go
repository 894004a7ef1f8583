package automation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mj1618/cslogin/internal/platform"
)

// fakeWindows reports the window as missing for the first `misses` polls.
type fakeWindows struct {
	title  string
	misses int
	polls  int
	err    error
}

func (f *fakeWindows) FindWindow(title string) (*platform.Window, error) {
	f.polls++
	if f.err != nil {
		return nil, f.err
	}
	if title != f.title || f.polls <= f.misses {
		return nil, nil
	}
	return &platform.Window{Handle: 0x42, Title: title, PID: 7}, nil
}

// recorder logs every keystroke as "char:x" or "key:name".
type recorder struct {
	events []string
	failOn string
}

func (r *recorder) TypeChar(ch rune) error {
	ev := fmt.Sprintf("char:%c", ch)
	r.events = append(r.events, ev)
	if ev == r.failOn {
		return errors.New("blocked")
	}
	return nil
}

func (r *recorder) PressKey(name string) error {
	ev := "key:" + name
	r.events = append(r.events, ev)
	if ev == r.failOn {
		return errors.New("blocked")
	}
	return nil
}

type fakeLauncher struct {
	launched []string
	err      error
}

func (f *fakeLauncher) Launch(path string, args []string) (platform.Process, error) {
	if f.err != nil {
		return platform.Process{}, f.err
	}
	f.launched = append(f.launched, path)
	return platform.Process{PID: 1234, Path: path}, nil
}

type fakeWindowManager struct {
	focused []platform.Window
	err     error
}

func (f *fakeWindowManager) BringToForeground(w platform.Window) error {
	f.focused = append(f.focused, w)
	return f.err
}

// noSleep records requested sleeps without waiting.
type noSleep struct {
	slept []time.Duration
}

func (n *noSleep) sleep(ctx context.Context, d time.Duration) error {
	n.slept = append(n.slept, d)
	return ctx.Err()
}
