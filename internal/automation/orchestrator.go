// Package automation launches an external program, waits for one of its
// windows to appear, brings it forward and types a script of keystrokes
// into it.
package automation

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/log"

	"github.com/mj1618/cslogin/internal/apperr"
	"github.com/mj1618/cslogin/internal/platform"
)

// State is a step of an automation run.
type State int

const (
	StateIdle State = iota
	StateLaunching
	StateWaitingForWindow
	StateFocusing
	StateInjecting
	StateDone
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLaunching:
		return "launching"
	case StateWaitingForWindow:
		return "waiting-for-window"
	case StateFocusing:
		return "focusing"
	case StateInjecting:
		return "injecting"
	case StateDone:
		return "done"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Job describes one run. An empty Executable attaches to an already running
// program instead of launching one.
type Job struct {
	Executable  string
	Args        []string
	WindowTitle string
	Script      Script
}

// Result reports how far a run got.
type Result struct {
	State   State            `yaml:"state"             json:"state"`
	Process platform.Process `yaml:"process,omitempty" json:"process,omitempty"`
	Window  platform.Window  `yaml:"window,omitempty"  json:"window,omitempty"`
	Waited  time.Duration    `yaml:"waited"            json:"waited"`
	Focused bool             `yaml:"focused"           json:"focused"`
}

// Orchestrator runs Launching → WaitingForWindow → Focusing → Injecting → Done.
// A launch failure or an aborted wait ends in Failed; later steps are best
// effort and always reach Done.
type Orchestrator struct {
	Launcher      platform.ProcessLauncher
	Windows       platform.WindowSource
	WindowManager platform.WindowManager
	Inputter      platform.Inputter

	PollInterval time.Duration
	// Timeout bounds the wait for the window; zero waits forever.
	Timeout time.Duration
	// WatchProcess aborts the wait when the launched process exits.
	WatchProcess   bool
	KeystrokeDelay time.Duration
	Sleep          func(ctx context.Context, d time.Duration) error

	// OnState is called on every state change.
	OnState func(State)
	// OnWait is called after every unsuccessful poll; a non-nil return
	// aborts the wait.
	OnWait TickFunc

	Logger *log.Logger
}

// Run executes job. The returned Result is meaningful even when err != nil.
func (o *Orchestrator) Run(ctx context.Context, job Job) (Result, error) {
	res := Result{State: StateIdle}
	o.enter(&res, StateIdle)

	if err := job.Script.Validate(); err != nil {
		o.enter(&res, StateFailed)
		return res, apperr.Wrap(apperr.KindInvalidInput, err, "invalid script")
	}

	if job.Executable != "" {
		o.enter(&res, StateLaunching)
		proc, err := o.Launcher.Launch(job.Executable, job.Args)
		if err != nil {
			o.enter(&res, StateFailed)
			return res, apperr.Wrap(apperr.KindLaunchFailure, err, "could not start %s", job.Executable)
		}
		res.Process = proc
		o.debug("launched", "path", proc.Path, "pid", proc.PID)
	}

	o.enter(&res, StateWaitingForWindow)
	ticks := []TickFunc{
		func(elapsed time.Duration) error {
			res.Waited = elapsed
			return nil
		},
		o.OnWait,
		Deadline(o.Timeout),
	}
	if o.WatchProcess && res.Process.PID > 0 {
		ticks = append(ticks, ProcessAlive(res.Process.PID))
	}
	waiter := &Waiter{
		Source:   o.Windows,
		Interval: o.PollInterval,
		Sleep:    o.Sleep,
		Logger:   o.Logger,
	}
	win, err := waiter.WaitForWindow(ctx, WindowQuery{Title: job.WindowTitle}, Ticks(ticks...))
	if err != nil {
		o.enter(&res, StateFailed)
		if errors.Is(err, ErrWaitTimeout) || errors.Is(err, ErrProcessExited) {
			return res, apperr.Wrap(apperr.KindLaunchFailure, err, "%q did not appear", job.WindowTitle)
		}
		return res, err
	}
	res.Window = win
	o.debug("window found", "title", win.Title, "handle", win.Handle, "waited", res.Waited)

	o.enter(&res, StateFocusing)
	if err := o.WindowManager.BringToForeground(win); err != nil {
		if o.Logger != nil {
			o.Logger.Warn("could not bring window to foreground, typing anyway", "title", win.Title, "err", err)
		}
	} else {
		res.Focused = true
	}

	o.enter(&res, StateInjecting)
	inj := &Injector{Inputter: o.Inputter, Delay: o.KeystrokeDelay, Logger: o.Logger}
	if err := inj.Inject(job.Script); err != nil {
		o.enter(&res, StateFailed)
		return res, err
	}

	o.enter(&res, StateDone)
	return res, nil
}

func (o *Orchestrator) enter(res *Result, s State) {
	res.State = s
	if o.OnState != nil {
		o.OnState(s)
	}
}

func (o *Orchestrator) debug(msg string, kv ...any) {
	if o.Logger != nil {
		o.Logger.Debug(msg, kv...)
	}
}
