package automation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/shirou/gopsutil/process"

	"github.com/mj1618/cslogin/internal/platform"
)

// DefaultPollInterval is how often WaitForWindow looks for the window.
const DefaultPollInterval = 500 * time.Millisecond

// ErrProcessExited is returned by the ProcessAlive tick when the launched
// process ends before its window appears.
var ErrProcessExited = errors.New("process exited before its window appeared")

// ErrWaitTimeout is returned by the Deadline tick.
var ErrWaitTimeout = errors.New("timed out waiting for window")

// WindowQuery selects a top-level window by exact, case-sensitive title.
type WindowQuery struct {
	Title string
}

// TickFunc is called after every unsuccessful poll with the total time
// waited so far. A non-nil return ends the wait with that error; this is
// the hook for cancellation predicates.
type TickFunc func(elapsed time.Duration) error

// Waiter polls a WindowSource until a window appears.
type Waiter struct {
	Source   platform.WindowSource
	Interval time.Duration
	// Sleep waits d or until ctx is done. Defaults to a timer.
	Sleep  func(ctx context.Context, d time.Duration) error
	Logger *log.Logger
}

// WaitForWindow polls for a window matching q. It returns as soon as one is
// found. Otherwise elapsed grows by the poll interval, onTick is called with
// it, and the loop sleeps one interval. The successful poll produces no tick.
//
// There is no built-in timeout: the wait ends only when the window appears,
// ctx is cancelled, or onTick returns an error.
func (w *Waiter) WaitForWindow(ctx context.Context, q WindowQuery, onTick TickFunc) (platform.Window, error) {
	interval := w.Interval
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	sleep := w.Sleep
	if sleep == nil {
		sleep = sleepContext
	}

	var elapsed time.Duration
	for {
		if err := ctx.Err(); err != nil {
			return platform.Window{}, err
		}

		win, err := w.Source.FindWindow(q.Title)
		if err != nil && w.Logger != nil {
			w.Logger.Debug("window query failed", "title", q.Title, "err", err)
		}
		if err == nil && win != nil {
			return *win, nil
		}

		elapsed += interval
		if onTick != nil {
			if err := onTick(elapsed); err != nil {
				return platform.Window{}, err
			}
		}

		if err := sleep(ctx, interval); err != nil {
			return platform.Window{}, err
		}
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Ticks runs every tick in order and stops at the first error.
func Ticks(ticks ...TickFunc) TickFunc {
	return func(elapsed time.Duration) error {
		for _, t := range ticks {
			if t == nil {
				continue
			}
			if err := t(elapsed); err != nil {
				return err
			}
		}
		return nil
	}
}

// Deadline fails once elapsed reaches max. A max of zero never fails.
func Deadline(max time.Duration) TickFunc {
	return func(elapsed time.Duration) error {
		if max > 0 && elapsed >= max {
			return fmt.Errorf("%w after %s", ErrWaitTimeout, max)
		}
		return nil
	}
}

// ProcessAlive fails with ErrProcessExited once pid no longer exists.
// Errors from the process table are ignored so a flaky lookup never aborts
// the wait.
func ProcessAlive(pid int) TickFunc {
	return func(time.Duration) error {
		if pid <= 0 {
			return nil
		}
		exists, err := process.PidExists(int32(pid))
		if err != nil || exists {
			return nil
		}
		return fmt.Errorf("%w (pid %d)", ErrProcessExited, pid)
	}
}
