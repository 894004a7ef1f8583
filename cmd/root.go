package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mj1618/cslogin/internal/config"
	"github.com/mj1618/cslogin/internal/logging"
	"github.com/mj1618/cslogin/internal/output"
	"github.com/mj1618/cslogin/internal/version"
	"github.com/mj1618/cslogin/internal/workflow"
)

var rootCmd = &cobra.Command{
	Use:   "cslogin [options]",
	Short: "Log in to SQL Server Management Studio with a web.config connection string",
	Long: `Read the web.config below the current directory, launch Microsoft SQL Server
Management Studio and fill its "Connect to Server" dialog with the credentials
of a named connection string.

When several web.config files or SSMS installations are found you pick one with
the arrow keys and Enter (Escape cancels). The chosen Ssms.exe is remembered in
a .cache file next to cslogin.

Examples:
  cslogin --list
  cslogin --open
  cslogin --open --test-cs
  cslogin --open --cs ReportingConnectionString
  cslogin --open --config src/Web/web.config --timeout 2m`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// v holds the layered settings: cslogin.yaml < CSLOGIN_* < flags.
var v = config.New()

// Execute runs the root command and exits non-zero on failure. Errors are
// reported once here as "[ERROR] message"; a cancelled prompt exits quietly.
func Execute() {
	err := rootCmd.Execute()
	if err != nil && !errors.Is(err, workflow.ErrAborted) {
		output.NewStatus(statusOut()).Error(err)
		logging.Close()
		os.Exit(1)
	}
	logging.Close()
}

func init() {
	rootCmd.RunE = runRoot
	rootCmd.Version = version.String()

	rootCmd.Flags().BoolP("list", "l", false, "List all connection strings found in the local web.config")
	rootCmd.Flags().BoolP("open", "o", false, "Open SQL Server Management Studio and log in")
	rootCmd.Flags().String("cs", "", "Use the named connection string (default: MainConnectionString)")
	rootCmd.Flags().Bool("test-cs", false, "Use the connection string TestConnectionString")

	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "Config file to read instead of searching for "+v.GetString(config.KeyConfigName))
	pf.String("exec", "", "Executable to launch instead of searching for "+v.GetString(config.KeyExecName))
	pf.String("exec-args", "", "Arguments passed to the launched executable")
	pf.String("window-title", "", "Exact title of the login window (default \"Connect to Server\")")
	pf.Duration("timeout", 0, "Give up waiting for the login window after this long (0 waits forever)")
	pf.Bool("watch-process", false, "Stop waiting when the launched process exits")
	pf.String("format", "", "Output format: text, yaml, json")
	pf.Bool("pretty", false, "Indent JSON output")
	pf.String("log-level", "", "Log level: debug, info, warn, error (env CSLOGIN_LOG_LEVEL)")
	pf.String("log-file", "", "Write diagnostic logs to this file instead of stderr")

	for _, key := range []string{config.KeyExecArgs, config.KeyWindowTitle, config.KeyTimeout, "log-level", "log-file"} {
		if err := v.BindPFlag(key, pf.Lookup(key)); err != nil {
			fmt.Fprintf(os.Stderr, "Error binding %s flag: %v\n", key, err)
			os.Exit(1)
		}
	}

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return setup(v)
	}
}

// setup reads cslogin.yaml before configuring logging, so log-level and
// log-file may come from the settings file as well as flags and env.
func setup(vp *viper.Viper) error {
	if err := config.Read(vp); err != nil {
		return err
	}
	if err := logging.Configure(vp.GetString("log-level"), vp.GetString("log-file")); err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	if used := vp.ConfigFileUsed(); used != "" {
		logging.Logger.Debug("loaded settings", "file", used)
	}

	format, _ := rootCmd.PersistentFlags().GetString("format")
	f, err := output.ParseFormat(format)
	if err != nil {
		return err
	}
	output.OutputFormat = f
	output.PrettyOutput, _ = rootCmd.PersistentFlags().GetBool("pretty")
	return nil
}

func runRoot(cmd *cobra.Command, args []string) error {
	list, _ := cmd.Flags().GetBool("list")
	open, _ := cmd.Flags().GetBool("open")

	switch {
	case list:
		return runList(cmd)
	case open:
		return runOpen(cmd)
	default:
		return cmd.Help()
	}
}
