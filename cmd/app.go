package cmd

import (
	"os"
	"time"

	"golang.org/x/term"

	"github.com/mj1618/cslogin/internal/automation"
	"github.com/mj1618/cslogin/internal/config"
	"github.com/mj1618/cslogin/internal/discovery"
	"github.com/mj1618/cslogin/internal/logging"
	"github.com/mj1618/cslogin/internal/output"
	"github.com/mj1618/cslogin/internal/picker"
	"github.com/mj1618/cslogin/internal/platform"
	"github.com/mj1618/cslogin/internal/workflow"
)

func loadSettings() (config.Settings, error) {
	return config.Load(v)
}

// newWorkflow wires the real collaborators. Prompts are only offered when
// stdin is a terminal.
func newWorkflow(settings config.Settings, status *output.Status, runner workflow.Runner) *workflow.Workflow {
	wf := &workflow.Workflow{
		Settings: settings,
		Status:   status,
		Runner:   runner,
		Logger:   logging.Logger,
	}
	if cache, err := discovery.ForCurrentExecutable(); err == nil {
		wf.Cache = cache
	} else {
		logging.Logger.Warn("executable path cache unavailable", "err", err)
	}
	if term.IsTerminal(int(os.Stdin.Fd())) {
		wf.Choose = terminalChooser(statusOut())
	}
	return wf
}

func terminalChooser(out *os.File) workflow.Chooser {
	return func(header string, values []string, label func(string) string) (string, bool, error) {
		console, err := picker.NewConsole(os.Stdin, out)
		if err != nil {
			return "", false, err
		}
		defer console.Close()
		return picker.Strings(console, header, values, label)
	}
}

// statusOut keeps stdout clean for structured output.
func statusOut() *os.File {
	if output.Structured() {
		return os.Stderr
	}
	return os.Stdout
}

// newRunner builds the orchestrator on top of this OS's automation backend.
// message is shown as the program starts, and every unsuccessful poll redraws
// it as "[WAITING Ns] message".
func newRunner(settings config.Settings, status *output.Status, message string) (*automation.Orchestrator, error) {
	provider, err := platform.NewProvider()
	if err != nil {
		return nil, err
	}
	watch, _ := rootCmd.PersistentFlags().GetBool("watch-process")
	return &automation.Orchestrator{
		Launcher:       provider.Launcher,
		Windows:        provider.Windows,
		WindowManager:  provider.WindowManager,
		Inputter:       provider.Inputter,
		PollInterval:   settings.PollInterval,
		Timeout:        settings.Timeout,
		WatchProcess:   watch,
		KeystrokeDelay: settings.KeystrokeDelay,
		OnState:        reportState(status, message),
		OnWait: func(elapsed time.Duration) error {
			status.Waiting(elapsed, message)
			return nil
		},
		Logger: logging.Logger,
	}, nil
}

func reportState(status *output.Status, message string) func(automation.State) {
	return func(s automation.State) {
		logging.Logger.Debug("automation", "state", s)
		if s == automation.StateLaunching && message != "" {
			status.Progress(message)
		}
	}
}
