package cmd

import (
	"github.com/spf13/cobra"

	"github.com/mj1618/cslogin/internal/apperr"
	"github.com/mj1618/cslogin/internal/output"
	"github.com/mj1618/cslogin/internal/platform"
)

// FocusResult is the output of a successful focus.
type FocusResult struct {
	OK     bool            `yaml:"ok"     json:"ok"`
	Action string          `yaml:"action" json:"action"`
	Window platform.Window `yaml:"window" json:"window"`
}

var focusCmd = &cobra.Command{
	Use:   "focus",
	Short: "Bring the login window to the foreground",
	Long:  "Find the top-level window titled --window-title and bring it to the foreground.",
	Args:  cobra.NoArgs,
	RunE:  runFocus,
}

func init() {
	rootCmd.AddCommand(focusCmd)
}

func runFocus(cmd *cobra.Command, args []string) error {
	settings, err := loadSettings()
	if err != nil {
		return err
	}
	provider, err := platform.NewProvider()
	if err != nil {
		return err
	}

	win, err := provider.Windows.FindWindow(settings.WindowTitle)
	if err != nil {
		return err
	}
	if win == nil {
		return apperr.New(apperr.KindNotFound, "no window titled %q", settings.WindowTitle)
	}
	if err := provider.WindowManager.BringToForeground(*win); err != nil {
		return err
	}

	return output.Print(FocusResult{OK: true, Action: "focus", Window: *win})
}
