package cmd

import (
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/mj1618/cslogin/internal/config"
	"github.com/mj1618/cslogin/internal/discovery"
	"github.com/mj1618/cslogin/internal/logging"
	"github.com/mj1618/cslogin/internal/output"
	"github.com/mj1618/cslogin/internal/server"
	"github.com/mj1618/cslogin/internal/version"
	"github.com/mj1618/cslogin/internal/workflow"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start an MCP server exposing cslogin tools",
	Long: `Start a Model Context Protocol (MCP) server so agents can list connection
strings and open logins without a terminal.

Tools:
  list_connection_strings    connection strings of a web.config (passwords masked)
  lookup_connection_string   one connection string (password masked)
  open                       launch SSMS and log in; never prompts

Supported transports:
  stdio             Standard I/O (default, for MCP clients)
  streamable-http   Streamable HTTP transport (for remote agents)

Examples:
  cslogin serve
  cslogin serve --transport streamable-http --port 8080
  cslogin serve --cache-ttl 0`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("transport", "stdio", "Transport: stdio, streamable-http")
	serveCmd.Flags().Int("port", 8080, "HTTP port for streamable-http transport")
	serveCmd.Flags().Int("cache-ttl", 5000, "Parsed config file cache TTL in milliseconds (0 to disable)")
}

func runServe(cmd *cobra.Command, args []string) error {
	transport, _ := cmd.Flags().GetString("transport")
	port, _ := cmd.Flags().GetInt("port")
	cacheTTLMs, _ := cmd.Flags().GetInt("cache-ttl")

	settings, err := loadSettings()
	if err != nil {
		return err
	}

	cfg := server.Config{
		Transport: transport,
		Port:      port,
		CacheTTL:  time.Duration(cacheTTLMs) * time.Millisecond,
		Version:   version.Version,
	}

	runnerFunc := func() (workflow.Runner, error) {
		return newQuietRunner(settings)
	}
	var pathCache workflow.PathCache
	if c, err := discovery.ForCurrentExecutable(); err == nil {
		pathCache = c
	}

	srv := server.New(settings, cfg, runnerFunc, pathCache, logging.Logger)
	logging.Logger.Info("serving", "transport", transport, "port", port)
	return srv.Serve(cfg)
}

// newQuietRunner is newRunner without the waiting line; stdout belongs to
// the stdio transport.
func newQuietRunner(settings config.Settings) (workflow.Runner, error) {
	orch, err := newRunner(settings, output.NewStatus(io.Discard), "")
	if err != nil {
		return nil, err
	}
	return orch, nil
}
