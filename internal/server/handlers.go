package server

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"gopkg.in/yaml.v3"

	"github.com/mj1618/cslogin/internal/apperr"
	"github.com/mj1618/cslogin/internal/model"
	"github.com/mj1618/cslogin/internal/workflow"
)

// lookupResult is the output of lookup_connection_string.
type lookupResult struct {
	model.ConnectionString `yaml:",inline"`
	Config                 string `yaml:"config"`
	Complete               bool   `yaml:"complete"`
	Missing                string `yaml:"missing,omitempty"`
}

func toText(v interface{}) (*mcp.CallToolResult, error) {
	b, err := yaml.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("yaml encode: %v", err)), nil
	}
	return mcp.NewToolResultText(string(b)), nil
}

// toolError reports err to the client, prefixed with its kind when it has one.
func toolError(err error) *mcp.CallToolResult {
	if kind := apperr.KindOf(err); kind != "" {
		return mcp.NewToolResultError(fmt.Sprintf("%s: %v", kind, err))
	}
	return mcp.NewToolResultError(err.Error())
}

func request(req mcp.CallToolRequest) workflow.Request {
	return workflow.Request{
		Dir:        req.GetString("dir", ""),
		ConfigPath: req.GetString("config", ""),
		ExecPath:   req.GetString("exec", ""),
		Name:       req.GetString("name", ""),
	}
}

func (s *Server) handleList(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	res, err := s.workflow(nil).List(ctx, request(req))
	if err != nil {
		return toolError(err), nil
	}
	for i, cs := range res.ConnectionStrings {
		res.ConnectionStrings[i] = cs.Masked()
	}
	return toText(res)
}

func (s *Server) handleLookup(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("name")
	if err != nil {
		return toolError(err), nil
	}
	r := request(req)

	wf := s.workflow(nil)
	path, err := wf.ResolveConfig(ctx, r.Dir, r.ConfigPath)
	if err != nil {
		return toolError(err), nil
	}
	file, err := s.cache.Load(path)
	if err != nil {
		return toolError(err), nil
	}
	cs, ok := file.ConnectionString(name)
	if !ok {
		return toolError(apperr.New(apperr.KindNotFound, "connection string %q not found in %s", name, path)), nil
	}

	out := lookupResult{
		ConnectionString: cs.Masked(),
		Config:           path,
		Complete:         true,
	}
	if _, err := file.Lookup(name); err != nil {
		out.Complete = false
		out.Missing = err.Error()
	}
	return toText(out)
}

func (s *Server) handleOpen(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	r := request(req)
	if r.Name == "" {
		r.Name = s.settings.ConnectionString
	}

	s.runMu.Lock()
	defer s.runMu.Unlock()

	runner, err := s.newRunner()
	if err != nil {
		return toolError(err), nil
	}
	res, err := s.workflow(runner).Open(ctx, r)
	if err != nil {
		return toolError(err), nil
	}
	return toText(res)
}
