// Package workflow holds the caller control flow behind each cslogin
// operation: pick the config file, look up the connection string, locate the
// executable and hand the login off to the automation orchestrator.
package workflow

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/mj1618/cslogin/internal/apperr"
	"github.com/mj1618/cslogin/internal/automation"
	"github.com/mj1618/cslogin/internal/config"
	"github.com/mj1618/cslogin/internal/connstr"
	"github.com/mj1618/cslogin/internal/discovery"
	"github.com/mj1618/cslogin/internal/output"
	"github.com/mj1618/cslogin/internal/platform"
)

// ErrAborted is returned when the user dismisses a selection prompt.
var ErrAborted = errors.New("aborted")

// Chooser asks the user to pick one of values. ok is false when the user
// backs out.
type Chooser func(header string, values []string, label func(string) string) (value string, ok bool, err error)

// Runner executes an automation job.
type Runner interface {
	Run(ctx context.Context, job automation.Job) (automation.Result, error)
}

// PathCache remembers the executable the user settled on.
type PathCache interface {
	Load() (string, bool)
	Store(path string) error
}

// Workflow wires the collaborators of every operation. Zero-valued function
// fields fall back to the discovery and connstr implementations.
type Workflow struct {
	Settings config.Settings
	Status   *output.Status
	// Choose is nil when no one can answer a prompt; several candidates are
	// then an error.
	Choose Chooser
	Runner Runner
	Cache  PathCache

	FindFiles      func(ctx context.Context, root, pattern string) ([]string, error)
	FindExecutable func(ctx context.Context, roots []string, name string) ([]string, error)
	LoadConfig     func(path string) (*connstr.File, error)

	Logger *log.Logger
}

// Request names what an operation works on. Empty fields are discovered.
type Request struct {
	// Dir is where config files are searched for; the working directory
	// when empty.
	Dir        string
	ConfigPath string
	ExecPath   string
	Name       string
}

// ListResult is returned by List.
type ListResult = output.ListResult

// ResolveConfig returns the config file to read: explicit when given,
// otherwise the only match under dir or the one the user picks.
func (w *Workflow) ResolveConfig(ctx context.Context, dir, explicit string) (string, error) {
	if explicit != "" {
		path, err := existingFile(explicit)
		if err != nil {
			return "", err
		}
		w.Status.Line(output.TagWebConfig, path)
		return path, nil
	}

	root, err := searchRoot(dir)
	if err != nil {
		return "", err
	}
	name := w.Settings.ConfigName
	w.Status.Progress("Locating " + name + " files..")
	files, err := w.findFiles(ctx, root, name)
	if err != nil {
		w.Status.Clear()
		return "", err
	}
	label := func(p string) string { return relLabel(root, p) }

	switch len(files) {
	case 0:
		w.Status.Clear()
		return "", apperr.New(apperr.KindNotFound, "Unable to find any %s files to parse in %s", name, root)
	case 1:
		w.Status.Line(output.TagWebConfig, label(files[0]))
		return files[0], nil
	}

	header := "Found " + strconv.Itoa(len(files)) + " " + name + " files to select from. Select the correct one."
	path, err := w.choose(header, files, label)
	if err != nil {
		return "", err
	}
	w.Status.Line(output.TagWebConfig, label(path))
	return path, nil
}

// ResolveExecutable returns the program to launch: explicit when given,
// otherwise the cached choice, otherwise the only match under the search
// roots or the one the user picks. Discovered paths are cached.
func (w *Workflow) ResolveExecutable(ctx context.Context, explicit string) (string, error) {
	if explicit != "" {
		path, err := existingFile(explicit)
		if err != nil {
			return "", err
		}
		w.Status.Line(output.TagSSMS, path)
		return path, nil
	}

	if w.Cache != nil {
		if path, ok := w.Cache.Load(); ok {
			w.Status.Line(output.TagSSMS, path)
			return path, nil
		}
	}

	name := w.Settings.ExecName
	roots := w.Settings.SearchRoots
	if len(roots) == 0 {
		roots = discovery.DefaultSearchRoots()
	}
	w.Status.Progress("Locating " + name + "..")
	found, err := w.findExecutable(ctx, roots, name)
	if err != nil {
		w.Status.Clear()
		return "", err
	}

	var path string
	switch len(found) {
	case 0:
		w.Status.Clear()
		return "", apperr.New(apperr.KindNotFound, "Unable to find %s in %s", name, strings.Join(roots, ", "))
	case 1:
		path = found[0]
		w.Status.Line(output.TagSSMS, path)
	default:
		header := "Found " + strconv.Itoa(len(found)) + " files to select from. Select the correct one."
		path, err = w.choose(header, found, nil)
		if err != nil {
			return "", err
		}
		w.Status.Line(output.TagFound, path)
	}

	if w.Cache != nil {
		if err := w.Cache.Store(path); err != nil {
			w.warn("could not cache executable path", "path", path, "err", err)
		}
	}
	return path, nil
}

// List returns the connection strings of the resolved config file that
// name both a host and a user.
func (w *Workflow) List(ctx context.Context, req Request) (ListResult, error) {
	path, err := w.ResolveConfig(ctx, req.Dir, req.ConfigPath)
	if err != nil {
		return ListResult{}, err
	}
	file, err := w.loadConfig(path)
	if err != nil {
		return ListResult{}, err
	}
	return ListResult{Config: path, ConnectionStrings: file.Entries()}, nil
}

// Open logs in with the connection string req.Name: the credentials are
// looked up first, so nothing is launched when they are missing.
func (w *Workflow) Open(ctx context.Context, req Request) (output.OpenResult, error) {
	res := output.OpenResult{ConnectionString: req.Name, Window: w.Settings.WindowTitle}
	if strings.TrimSpace(req.Name) == "" {
		return res, apperr.New(apperr.KindInvalidInput, "no connection string name given")
	}

	path, err := w.ResolveConfig(ctx, req.Dir, req.ConfigPath)
	if err != nil {
		return res, err
	}
	res.Config = path
	file, err := w.loadConfig(path)
	if err != nil {
		return res, err
	}

	w.Status.Line(output.TagConnectionString, req.Name)
	creds, err := file.Lookup(req.Name)
	if err != nil {
		return res, err
	}

	exe, err := w.ResolveExecutable(ctx, req.ExecPath)
	if err != nil {
		return res, err
	}
	res.Executable = exe

	args, err := platform.SplitArgs(w.Settings.ExecArgs)
	if err != nil {
		return res, apperr.Wrap(apperr.KindInvalidInput, err, "bad exec-args")
	}

	script := automation.LoginScript(creds)
	run, err := w.run(ctx, automation.Job{
		Executable:  exe,
		Args:        args,
		WindowTitle: w.Settings.WindowTitle,
		Script:      script,
	})
	fill(&res, run, script)
	return res, err
}

// ScriptRequest describes a RunScript call.
type ScriptRequest struct {
	// ExecPath is launched first when set; otherwise the script is typed
	// into an already open window.
	ExecPath    string
	ExecArgs    string
	WindowTitle string
	Script      automation.Script
}

// RunScript types script into the window titled req.WindowTitle.
func (w *Workflow) RunScript(ctx context.Context, req ScriptRequest) (output.OpenResult, error) {
	title := req.WindowTitle
	if title == "" {
		title = w.Settings.WindowTitle
	}
	res := output.OpenResult{Window: title}

	var exe string
	if req.ExecPath != "" {
		path, err := existingFile(req.ExecPath)
		if err != nil {
			return res, err
		}
		exe = path
		res.Executable = exe
	}
	args, err := platform.SplitArgs(req.ExecArgs)
	if err != nil {
		return res, apperr.Wrap(apperr.KindInvalidInput, err, "bad exec-args")
	}

	run, err := w.run(ctx, automation.Job{
		Executable:  exe,
		Args:        args,
		WindowTitle: title,
		Script:      req.Script,
	})
	fill(&res, run, req.Script)
	return res, err
}

func (w *Workflow) run(ctx context.Context, job automation.Job) (automation.Result, error) {
	res, err := w.Runner.Run(ctx, job)
	w.Status.Commit()
	return res, err
}

func fill(res *output.OpenResult, run automation.Result, script automation.Script) {
	res.PID = run.Process.PID
	res.WaitedMs = run.Waited.Milliseconds()
	res.Focused = run.Focused
	if run.State == automation.StateDone {
		res.Keystrokes = script.Keystrokes()
	}
}

func (w *Workflow) choose(header string, values []string, label func(string) string) (string, error) {
	w.Status.Clear()
	if w.Choose == nil {
		return "", apperr.New(apperr.KindInvalidInput,
			"%s Cannot prompt without a terminal; candidates: %s", header, strings.Join(values, ", "))
	}
	v, ok, err := w.Choose(header, values, label)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", ErrAborted
	}
	return v, nil
}

func (w *Workflow) findFiles(ctx context.Context, root, pattern string) ([]string, error) {
	if w.FindFiles != nil {
		return w.FindFiles(ctx, root, pattern)
	}
	return discovery.FindFiles(ctx, root, pattern)
}

func (w *Workflow) findExecutable(ctx context.Context, roots []string, name string) ([]string, error) {
	if w.FindExecutable != nil {
		return w.FindExecutable(ctx, roots, name)
	}
	return discovery.FindExecutable(ctx, roots, name)
}

func (w *Workflow) loadConfig(path string) (*connstr.File, error) {
	if w.LoadConfig != nil {
		return w.LoadConfig(path)
	}
	return connstr.Load(path)
}

func (w *Workflow) warn(msg string, kv ...any) {
	if w.Logger != nil {
		w.Logger.Warn(msg, kv...)
	}
}

func searchRoot(dir string) (string, error) {
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", err
		}
		return wd, nil
	}
	return filepath.Abs(dir)
}

func existingFile(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", apperr.Wrap(apperr.KindInvalidInput, err, "bad path %q", path)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", apperr.Wrap(apperr.KindNotFound, err, "%s", abs)
	}
	if info.IsDir() {
		return "", apperr.New(apperr.KindInvalidInput, "%s is a directory", abs)
	}
	return abs, nil
}

// relLabel renders a path below root as "../sub/file".
func relLabel(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return path
	}
	return ".." + string(filepath.Separator) + rel
}
