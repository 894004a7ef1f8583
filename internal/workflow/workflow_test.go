package workflow

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mj1618/cslogin/internal/apperr"
	"github.com/mj1618/cslogin/internal/automation"
	"github.com/mj1618/cslogin/internal/config"
	"github.com/mj1618/cslogin/internal/connstr"
	"github.com/mj1618/cslogin/internal/output"
	"github.com/mj1618/cslogin/internal/platform"
)

const webConfig = `<configuration><connectionStrings>
<add name="MainConnectionString" connectionString="Data Source=db1;Initial Catalog=Sales;User ID=sa;Password=secret" />
<add name="Integrated" connectionString="Data Source=db2;Integrated Security=SSPI" />
</connectionStrings></configuration>`

type fakeRunner struct {
	jobs []automation.Job
	res  automation.Result
	err  error
}

func (f *fakeRunner) Run(_ context.Context, job automation.Job) (automation.Result, error) {
	f.jobs = append(f.jobs, job)
	if f.err != nil {
		return automation.Result{State: automation.StateFailed}, f.err
	}
	res := f.res
	res.State = automation.StateDone
	return res, nil
}

type fakeCache struct {
	path   string
	stored []string
	err    error
}

func (f *fakeCache) Load() (string, bool) { return f.path, f.path != "" }

func (f *fakeCache) Store(p string) error {
	f.stored = append(f.stored, p)
	return f.err
}

type chooser struct {
	headers []string
	labels  [][]string
	pick    int
	abort   bool
}

func (c *chooser) choose(header string, values []string, label func(string) string) (string, bool, error) {
	c.headers = append(c.headers, header)
	var labels []string
	for _, v := range values {
		if label != nil {
			v = label(v)
		}
		labels = append(labels, v)
	}
	c.labels = append(c.labels, labels)
	if c.abort {
		return "", false, nil
	}
	return values[c.pick], true, nil
}

func settings(t *testing.T) config.Settings {
	t.Helper()
	v := viper.New()
	config.SetDefaults(v)
	s, err := config.Load(v)
	require.NoError(t, err)
	return s
}

func write(t *testing.T, path, content string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

type env struct {
	wf      *Workflow
	out     *bytes.Buffer
	runner  *fakeRunner
	cache   *fakeCache
	chooser *chooser
	dir     string
	exe     string
}

func newEnv(t *testing.T) *env {
	t.Helper()
	e := &env{
		out:     &bytes.Buffer{},
		runner:  &fakeRunner{res: automation.Result{Process: platform.Process{PID: 99}, Waited: 1500 * time.Millisecond, Focused: true}},
		cache:   &fakeCache{},
		chooser: &chooser{},
		dir:     t.TempDir(),
	}
	programs := t.TempDir()
	e.exe = write(t, filepath.Join(programs, "SSMS", "Ssms.exe"), "")

	s := settings(t)
	s.SearchRoots = []string{programs}
	e.wf = &Workflow{
		Settings: s,
		Status:   output.NewStatus(e.out),
		Choose:   e.chooser.choose,
		Runner:   e.runner,
		Cache:    e.cache,
	}
	return e
}

func TestOpen_LogsIn(t *testing.T) {
	e := newEnv(t)
	cfg := write(t, filepath.Join(e.dir, "web.config"), webConfig)

	res, err := e.wf.Open(context.Background(), Request{Dir: e.dir, Name: "MainConnectionString"})
	require.NoError(t, err)

	require.Len(t, e.runner.jobs, 1)
	job := e.runner.jobs[0]
	assert.Equal(t, e.exe, job.Executable)
	assert.Equal(t, "Connect to Server", job.WindowTitle)
	assert.Equal(t, automation.Script{
		automation.Text("db1"),
		automation.Key(platform.KeyTab),
		automation.Key(platform.KeyTab),
		automation.Text("sa"),
		automation.Key(platform.KeyTab),
		automation.Text("secret"),
		automation.Key(platform.KeyEnter),
	}, job.Script)

	assert.Equal(t, []string{e.exe}, e.cache.stored)
	assert.Empty(t, e.chooser.headers)

	assert.Equal(t, cfg, res.Config)
	assert.Equal(t, 99, res.PID)
	assert.Equal(t, int64(1500), res.WaitedMs)
	assert.Equal(t, 15, res.Keystrokes)

	text := e.out.String()
	assert.Contains(t, text, "[WEB.CONFIG] .."+string(filepath.Separator)+"web.config\n")
	assert.Contains(t, text, "[CONNECTION STRING] MainConnectionString\n")
	assert.Contains(t, text, "[SSMS] "+e.exe+"\n")
	assert.NotContains(t, text, "secret")
}

func TestOpen_MissingCredentialsLaunchesNothing(t *testing.T) {
	e := newEnv(t)
	write(t, filepath.Join(e.dir, "web.config"), webConfig)

	for _, name := range []string{"Integrated", "Nope"} {
		_, err := e.wf.Open(context.Background(), Request{Dir: e.dir, Name: name})
		assert.ErrorIs(t, err, apperr.ErrNotFound, name)
	}
	assert.Empty(t, e.runner.jobs)
	assert.Empty(t, e.cache.stored)
}

func TestOpen_NoConfigFiles(t *testing.T) {
	e := newEnv(t)

	_, err := e.wf.Open(context.Background(), Request{Dir: e.dir, Name: "MainConnectionString"})
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	assert.Contains(t, err.Error(), "Unable to find any web.config files to parse in "+e.dir)
	assert.Empty(t, e.chooser.headers)
	assert.Empty(t, e.runner.jobs)
}

func TestOpen_MalformedConfig(t *testing.T) {
	e := newEnv(t)
	write(t, filepath.Join(e.dir, "web.config"), "<configuration>")

	_, err := e.wf.Open(context.Background(), Request{Dir: e.dir, Name: "MainConnectionString"})
	assert.ErrorIs(t, err, apperr.ErrParseFailure)
	assert.Empty(t, e.runner.jobs)
}

func TestOpen_RunnerErrorPropagates(t *testing.T) {
	e := newEnv(t)
	write(t, filepath.Join(e.dir, "web.config"), webConfig)
	e.runner.err = apperr.Wrap(apperr.KindLaunchFailure, errors.New("access denied"), "could not start")

	_, err := e.wf.Open(context.Background(), Request{Dir: e.dir, Name: "MainConnectionString"})
	assert.ErrorIs(t, err, apperr.ErrLaunchFailure)
}

func TestOpen_EmptyName(t *testing.T) {
	e := newEnv(t)
	_, err := e.wf.Open(context.Background(), Request{Dir: e.dir})
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)
}

func TestOpen_BadExecArgs(t *testing.T) {
	e := newEnv(t)
	write(t, filepath.Join(e.dir, "web.config"), webConfig)
	e.wf.Settings.ExecArgs = `-nosplash "unterminated`

	_, err := e.wf.Open(context.Background(), Request{Dir: e.dir, Name: "MainConnectionString"})
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)
	assert.Empty(t, e.runner.jobs)
}

func TestResolveConfig_PicksAmongSeveral(t *testing.T) {
	e := newEnv(t)
	write(t, filepath.Join(e.dir, "Admin", "web.config"), webConfig)
	api := write(t, filepath.Join(e.dir, "api", "web.config"), webConfig)
	e.chooser.pick = 1

	path, err := e.wf.ResolveConfig(context.Background(), e.dir, "")
	require.NoError(t, err)
	assert.Equal(t, api, path)

	sep := string(filepath.Separator)
	assert.Equal(t, []string{"Found 2 web.config files to select from. Select the correct one."}, e.chooser.headers)
	assert.Equal(t, [][]string{{".." + sep + "Admin" + sep + "web.config", ".." + sep + "api" + sep + "web.config"}}, e.chooser.labels)
	assert.True(t, strings.HasSuffix(e.out.String(), "[WEB.CONFIG] .."+sep+"api"+sep+"web.config\n"))
}

func TestResolveConfig_AbortIsQuiet(t *testing.T) {
	e := newEnv(t)
	write(t, filepath.Join(e.dir, "a", "web.config"), webConfig)
	write(t, filepath.Join(e.dir, "b", "web.config"), webConfig)
	e.chooser.abort = true

	_, err := e.wf.ResolveConfig(context.Background(), e.dir, "")
	assert.ErrorIs(t, err, ErrAborted)
}

func TestResolveConfig_NonInteractiveAmbiguity(t *testing.T) {
	e := newEnv(t)
	write(t, filepath.Join(e.dir, "a", "web.config"), webConfig)
	write(t, filepath.Join(e.dir, "b", "web.config"), webConfig)
	e.wf.Choose = nil

	_, err := e.wf.ResolveConfig(context.Background(), e.dir, "")
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)
}

func TestResolveConfig_Explicit(t *testing.T) {
	e := newEnv(t)
	cfg := write(t, filepath.Join(t.TempDir(), "app.config"), webConfig)

	path, err := e.wf.ResolveConfig(context.Background(), e.dir, cfg)
	require.NoError(t, err)
	assert.Equal(t, cfg, path)

	_, err = e.wf.ResolveConfig(context.Background(), e.dir, filepath.Join(e.dir, "missing.config"))
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	_, err = e.wf.ResolveConfig(context.Background(), e.dir, e.dir)
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)
}

func TestResolveExecutable_CacheHitSkipsSearch(t *testing.T) {
	e := newEnv(t)
	e.cache.path = `C:\cached\Ssms.exe`
	e.wf.FindExecutable = func(context.Context, []string, string) ([]string, error) {
		t.Fatal("search should not run on a cache hit")
		return nil, nil
	}

	path, err := e.wf.ResolveExecutable(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, `C:\cached\Ssms.exe`, path)
	assert.Empty(t, e.cache.stored)
}

func TestResolveExecutable_SeveralFound(t *testing.T) {
	e := newEnv(t)
	e.wf.FindExecutable = func(context.Context, []string, string) ([]string, error) {
		return []string{`C:\a\Ssms.exe`, `C:\b\Ssms.exe`, `C:\c\Ssms.exe`}, nil
	}
	e.chooser.pick = 2

	path, err := e.wf.ResolveExecutable(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, `C:\c\Ssms.exe`, path)
	assert.Equal(t, []string{"Found 3 files to select from. Select the correct one."}, e.chooser.headers)
	assert.Equal(t, []string{`C:\c\Ssms.exe`}, e.cache.stored)
	assert.Contains(t, e.out.String(), `[FOUND] C:\c\Ssms.exe`)
}

func TestResolveExecutable_AbortCachesNothing(t *testing.T) {
	e := newEnv(t)
	e.wf.FindExecutable = func(context.Context, []string, string) ([]string, error) {
		return []string{`C:\a\Ssms.exe`, `C:\b\Ssms.exe`}, nil
	}
	e.chooser.abort = true

	_, err := e.wf.ResolveExecutable(context.Background(), "")
	assert.ErrorIs(t, err, ErrAborted)
	assert.Empty(t, e.cache.stored)
}

func TestResolveExecutable_NoneFound(t *testing.T) {
	e := newEnv(t)
	e.wf.Settings.SearchRoots = []string{t.TempDir()}

	_, err := e.wf.ResolveExecutable(context.Background(), "")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	assert.Empty(t, e.cache.stored)
}

func TestResolveExecutable_CacheStoreFailureIsNotFatal(t *testing.T) {
	e := newEnv(t)
	e.cache.err = errors.New("read-only")

	path, err := e.wf.ResolveExecutable(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, e.exe, path)
}

func TestList(t *testing.T) {
	e := newEnv(t)
	write(t, filepath.Join(e.dir, "web.config"), webConfig)

	res, err := e.wf.List(context.Background(), Request{Dir: e.dir})
	require.NoError(t, err)
	require.Len(t, res.ConnectionStrings, 1)
	assert.Equal(t, "MainConnectionString - sa@Sales:db1", res.ConnectionStrings[0].Summary())
	assert.Empty(t, e.runner.jobs)
}

func TestList_UsesLoader(t *testing.T) {
	e := newEnv(t)
	cfg := write(t, filepath.Join(e.dir, "web.config"), webConfig)
	loads := 0
	cache := connstr.NewCache(time.Minute)
	e.wf.LoadConfig = func(path string) (*connstr.File, error) {
		loads++
		return cache.Load(path)
	}

	_, err := e.wf.List(context.Background(), Request{ConfigPath: cfg})
	require.NoError(t, err)
	assert.Equal(t, 1, loads)
}

func TestRunScript_AttachesWithoutExecutable(t *testing.T) {
	e := newEnv(t)
	script := automation.Script{automation.Text("hi"), automation.Key(platform.KeyEnter)}

	res, err := e.wf.RunScript(context.Background(), ScriptRequest{WindowTitle: "Untitled - Notepad", Script: script})
	require.NoError(t, err)
	require.Len(t, e.runner.jobs, 1)
	assert.Equal(t, "", e.runner.jobs[0].Executable)
	assert.Equal(t, "Untitled - Notepad", e.runner.jobs[0].WindowTitle)
	assert.Equal(t, 3, res.Keystrokes)
}

func TestRunScript_LaunchesExecutable(t *testing.T) {
	e := newEnv(t)

	_, err := e.wf.RunScript(context.Background(), ScriptRequest{
		ExecPath: e.exe,
		ExecArgs: `-S db1 -nosplash`,
		Script:   automation.Script{automation.Key(platform.KeyEnter)},
	})
	require.NoError(t, err)
	assert.Equal(t, e.exe, e.runner.jobs[0].Executable)
	assert.Equal(t, []string{"-S", "db1", "-nosplash"}, e.runner.jobs[0].Args)
	assert.Equal(t, "Connect to Server", e.runner.jobs[0].WindowTitle)
}
