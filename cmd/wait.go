package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/mj1618/cslogin/internal/automation"
	"github.com/mj1618/cslogin/internal/logging"
	"github.com/mj1618/cslogin/internal/output"
	"github.com/mj1618/cslogin/internal/platform"
)

// WaitResult is the output of the wait command.
type WaitResult struct {
	OK       bool             `yaml:"ok"                  json:"ok"`
	Action   string           `yaml:"action"              json:"action"`
	Elapsed  string           `yaml:"elapsed"             json:"elapsed"`
	Window   *platform.Window `yaml:"window,omitempty"    json:"window,omitempty"`
	TimedOut bool             `yaml:"timed_out,omitempty" json:"timed_out,omitempty"`
}

var waitCmd = &cobra.Command{
	Use:   "wait",
	Short: "Wait for a window to appear",
	Long: `Poll for a top-level window with an exact title until it appears or the
timeout is reached. Useful for checking the login window title on a new SSMS
version before configuring window-title.`,
	Args: cobra.NoArgs,
	RunE: runWait,
}

func init() {
	rootCmd.AddCommand(waitCmd)
}

func runWait(cmd *cobra.Command, args []string) error {
	settings, err := loadSettings()
	if err != nil {
		return err
	}
	provider, err := platform.NewProvider()
	if err != nil {
		return err
	}

	status := output.NewStatus(statusOut())
	msg := fmt.Sprintf("Waiting for %q..", settings.WindowTitle)
	var elapsed time.Duration
	waiter := &automation.Waiter{
		Source:   provider.Windows,
		Interval: settings.PollInterval,
		Logger:   logging.Logger,
	}
	win, err := waiter.WaitForWindow(cmd.Context(), automation.WindowQuery{Title: settings.WindowTitle},
		automation.Ticks(
			func(e time.Duration) error {
				elapsed = e
				status.Waiting(e, msg)
				return nil
			},
			automation.Deadline(settings.Timeout),
		))
	status.Clear()

	result := WaitResult{Action: "wait", Elapsed: elapsed.String()}
	switch {
	case errors.Is(err, automation.ErrWaitTimeout):
		result.TimedOut = true
		if perr := output.Print(result); perr != nil {
			return perr
		}
		return err
	case err != nil:
		return err
	}
	result.OK = true
	result.Window = &win
	return output.Print(result)
}
