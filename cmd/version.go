package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mj1618/cslogin/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := fmt.Fprintf(cmd.OutOrStdout(), "cslogin %s\n", version.String())
		return err
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
