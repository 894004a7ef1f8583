package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]log.Level{
		"debug":  log.DebugLevel,
		"INFO":   log.InfoLevel,
		" warn ": log.WarnLevel,
		"error":  log.ErrorLevel,
		"fatal":  log.FatalLevel,
		"":       log.WarnLevel,
		"chatty": log.WarnLevel,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseLevel(in), "level %q", in)
	}
}

func TestConfigure_EnvFallback(t *testing.T) {
	t.Setenv("CSLOGIN_LOG_LEVEL", "debug")
	require.NoError(t, Configure("", ""))
	assert.Equal(t, log.DebugLevel, Logger.GetLevel())

	require.NoError(t, Configure("error", ""))
	assert.Equal(t, log.ErrorLevel, Logger.GetLevel(), "flag wins over env")
}

func TestConfigure_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cslogin.log")
	require.NoError(t, Configure("info", path))
	t.Cleanup(func() {
		Close()
		_ = Configure("", "")
	})

	Logger.Info("launched", "pid", 42)
	Close()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "launched")
	assert.Contains(t, string(data), "pid=42")
}

func TestConfigure_BadFile(t *testing.T) {
	err := Configure("", filepath.Join(t.TempDir(), "missing", "x.log"))
	assert.Error(t, err)
}
