package platform

import (
	"fmt"
	"os/exec"

	"github.com/kballard/go-shellquote"
)

// ExecLauncher starts executables with os/exec and does not wait for them.
type ExecLauncher struct{}

// Launch starts path with args and releases the process handle.
func (ExecLauncher) Launch(path string, args []string) (Process, error) {
	cmd := exec.Command(path, args...)
	if err := cmd.Start(); err != nil {
		return Process{}, err
	}
	pid := cmd.Process.Pid
	_ = cmd.Process.Release()
	return Process{PID: pid, Path: path}, nil
}

// SplitArgs splits a command-line string into arguments using shell quoting
// rules, e.g. `-S "db 1" -nosplash`.
func SplitArgs(s string) ([]string, error) {
	args, err := shellquote.Split(s)
	if err != nil {
		return nil, fmt.Errorf("invalid arguments %q: %w", s, err)
	}
	return args, nil
}
