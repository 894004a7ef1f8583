package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/mj1618/cslogin/internal/apperr"
	"github.com/mj1618/cslogin/internal/automation"
	"github.com/mj1618/cslogin/internal/output"
	"github.com/mj1618/cslogin/internal/workflow"
)

var scriptCmd = &cobra.Command{
	Use:   "script",
	Short: "Type a keystroke script into a window",
	Long: `Wait for a window with an exact title and type a sequence of steps from a
YAML list on stdin (or --file) into it.

Each step is either literal text or a named key (tab, enter, escape, backspace,
delete, space, up, down, left, right, home, end). With --exec the program is
launched first; otherwise the window must already be open or about to open.

Example:
  cslogin script --window-title "Connect to Server" <<'EOF'
  - text: db1
  - key: tab
  - key: tab
  - text: sa
  - key: tab
  - text: secret
  - key: enter
  EOF`,
	Args: cobra.NoArgs,
	RunE: runScript,
}

func init() {
	rootCmd.AddCommand(scriptCmd)
	scriptCmd.Flags().StringP("file", "f", "", "Read the script from this file instead of stdin")
}

func runScript(cmd *cobra.Command, args []string) error {
	file, _ := cmd.Flags().GetString("file")
	execPath, _ := cmd.Flags().GetString("exec")

	data, err := readScript(cmd, file)
	if err != nil {
		return err
	}
	script, err := automation.ParseScript(data)
	if err != nil {
		return apperr.Wrap(apperr.KindInvalidInput, err, "invalid script")
	}

	settings, err := loadSettings()
	if err != nil {
		return err
	}
	status := output.NewStatus(statusOut())
	runner, err := newRunner(settings, status, fmt.Sprintf("Waiting for %q..", settings.WindowTitle))
	if err != nil {
		return err
	}
	wf := newWorkflow(settings, status, runner)

	res, err := wf.RunScript(cmd.Context(), workflow.ScriptRequest{
		ExecPath:    execPath,
		ExecArgs:    settings.ExecArgs,
		WindowTitle: settings.WindowTitle,
		Script:      script,
	})
	if err != nil {
		return err
	}
	return output.Print(res)
}

func readScript(cmd *cobra.Command, file string) ([]byte, error) {
	if file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("read script: %w", err)
		}
		return data, nil
	}
	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return nil, fmt.Errorf("failed to read stdin: %w", err)
	}
	return data, nil
}
