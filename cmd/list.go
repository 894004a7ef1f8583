package cmd

import (
	"github.com/spf13/cobra"

	"github.com/mj1618/cslogin/internal/output"
	"github.com/mj1618/cslogin/internal/workflow"
)

func runList(cmd *cobra.Command) error {
	configPath, _ := cmd.Flags().GetString("config")

	settings, err := loadSettings()
	if err != nil {
		return err
	}
	status := output.NewStatus(statusOut())
	wf := newWorkflow(settings, status, nil)

	res, err := wf.List(cmd.Context(), workflow.Request{ConfigPath: configPath})
	if err != nil {
		return err
	}

	if output.Structured() {
		for i, cs := range res.ConnectionStrings {
			res.ConnectionStrings[i] = cs.Masked()
		}
		return output.Print(res)
	}
	for _, cs := range res.ConnectionStrings {
		status.Plain(cs.Summary())
	}
	return nil
}
