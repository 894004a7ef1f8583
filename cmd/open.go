package cmd

import (
	"github.com/spf13/cobra"

	"github.com/mj1618/cslogin/internal/config"
	"github.com/mj1618/cslogin/internal/output"
	"github.com/mj1618/cslogin/internal/workflow"
)

const launchingMessage = "Launching Microsoft SQL Server Management Studio.."

func runOpen(cmd *cobra.Command) error {
	configPath, _ := cmd.Flags().GetString("config")
	execPath, _ := cmd.Flags().GetString("exec")

	settings, err := loadSettings()
	if err != nil {
		return err
	}
	name := connectionStringName(cmd, settings)

	status := output.NewStatus(statusOut())
	runner, err := newRunner(settings, status, launchingMessage)
	if err != nil {
		return err
	}
	wf := newWorkflow(settings, status, runner)

	res, err := wf.Open(cmd.Context(), workflow.Request{
		ConfigPath: configPath,
		ExecPath:   execPath,
		Name:       name,
	})
	if err != nil {
		return err
	}
	if output.Structured() {
		return output.Print(res)
	}
	return nil
}

// connectionStringName picks --cs, else TestConnectionString with --test-cs,
// else the configured main connection string.
func connectionStringName(cmd *cobra.Command, settings config.Settings) string {
	if cs, _ := cmd.Flags().GetString("cs"); cs != "" {
		return cs
	}
	if test, _ := cmd.Flags().GetBool("test-cs"); test {
		return settings.TestConnectionString
	}
	return settings.ConnectionString
}
