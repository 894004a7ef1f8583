// Package server exposes cslogin as Model Context Protocol tools so agents
// can list connection strings and open logins without a terminal.
package server

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/mj1618/cslogin/internal/config"
	"github.com/mj1618/cslogin/internal/connstr"
	"github.com/mj1618/cslogin/internal/output"
	"github.com/mj1618/cslogin/internal/workflow"
)

// Config holds MCP server configuration.
type Config struct {
	Transport string
	Port      int
	CacheTTL  time.Duration
	Version   string
}

// RunnerFunc creates the runner used by the open tool. It is called lazily
// so listing works on hosts without desktop automation.
type RunnerFunc func() (workflow.Runner, error)

// Server wraps the MCP server with the settings, config file cache and the
// automation runner.
type Server struct {
	settings  config.Settings
	cache     *connstr.Cache
	newRunner RunnerFunc
	pathCache workflow.PathCache
	logger    *log.Logger

	runMu sync.Mutex
	mcp   *mcpserver.MCPServer
}

// New creates an MCP server with all cslogin tools registered.
func New(settings config.Settings, cfg Config, newRunner RunnerFunc, pathCache workflow.PathCache, logger *log.Logger) *Server {
	version := cfg.Version
	if version == "" {
		version = "dev"
	}
	s := &Server{
		settings:  settings,
		cache:     connstr.NewCache(cfg.CacheTTL),
		newRunner: newRunner,
		pathCache: pathCache,
		logger:    logger,
	}
	s.mcp = mcpserver.NewMCPServer("cslogin", version, mcpserver.WithToolCapabilities(false))
	s.registerTools()
	return s
}

// Serve starts the MCP server with the configured transport.
func (s *Server) Serve(cfg Config) error {
	switch cfg.Transport {
	case "stdio", "":
		return mcpserver.ServeStdio(s.mcp)
	case "streamable-http":
		httpServer := mcpserver.NewStreamableHTTPServer(s.mcp)
		return httpServer.Start(fmt.Sprintf(":%d", cfg.Port))
	default:
		return fmt.Errorf("unsupported transport: %s (use stdio or streamable-http)", cfg.Transport)
	}
}

func (s *Server) registerTools() {
	s.mcp.AddTool(
		mcp.NewTool("list_connection_strings",
			mcp.WithDescription("List the connection strings of a web.config that name a host and a user. Passwords are masked."),
			mcp.WithString("dir", mcp.Description("Directory searched recursively for the config file (default: server working directory)")),
			mcp.WithString("config", mcp.Description("Explicit config file path; skips the search")),
		),
		s.handleList,
	)

	s.mcp.AddTool(
		mcp.NewTool("lookup_connection_string",
			mcp.WithDescription("Show one connection string of a web.config with its password masked, and whether it has everything needed to log in."),
			mcp.WithString("name", mcp.Description("Connection string name"), mcp.Required()),
			mcp.WithString("dir", mcp.Description("Directory searched recursively for the config file")),
			mcp.WithString("config", mcp.Description("Explicit config file path; skips the search")),
		),
		s.handleLookup,
	)

	s.mcp.AddTool(
		mcp.NewTool("open",
			mcp.WithDescription("Launch SQL Server Management Studio and log in with a named connection string. Fails instead of prompting when more than one config file or executable matches."),
			mcp.WithString("name", mcp.Description("Connection string name (default: "+s.settings.ConnectionString+")")),
			mcp.WithString("dir", mcp.Description("Directory searched recursively for the config file")),
			mcp.WithString("config", mcp.Description("Explicit config file path; skips the search")),
			mcp.WithString("exec", mcp.Description("Explicit executable path; skips the search and the cache")),
		),
		s.handleOpen,
	)
}

// workflow returns a non-interactive workflow whose status lines are
// discarded.
func (s *Server) workflow(runner workflow.Runner) *workflow.Workflow {
	return &workflow.Workflow{
		Settings:   s.settings,
		Status:     output.NewStatus(io.Discard),
		Runner:     runner,
		Cache:      s.pathCache,
		LoadConfig: s.cache.Load,
		Logger:     s.logger,
	}
}
