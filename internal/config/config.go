// Package config loads cslogin settings from cslogin.yaml, CSLOGIN_*
// environment variables and command-line flags, in increasing precedence.
package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/mj1618/cslogin/internal/apperr"
	"github.com/mj1618/cslogin/internal/discovery"
)

// Setting keys. Flags of the same name are bound onto them.
const (
	KeyConnectionString     = "connection-string"
	KeyTestConnectionString = "test-connection-string"
	KeyConfigName           = "config-name"
	KeyExecName             = "exec-name"
	KeyExecArgs             = "exec-args"
	KeySearchRoots          = "search-roots"
	KeyWindowTitle          = "window-title"
	KeyPollInterval         = "poll-interval"
	KeyTimeout              = "timeout"
	KeyKeystrokeDelay       = "keystroke-delay"
)

// Settings is the resolved configuration.
type Settings struct {
	ConnectionString     string        `yaml:"connection-string"      json:"connectionString"`
	TestConnectionString string        `yaml:"test-connection-string" json:"testConnectionString"`
	ConfigName           string        `yaml:"config-name"            json:"configName"`
	ExecName             string        `yaml:"exec-name"              json:"execName"`
	ExecArgs             string        `yaml:"exec-args"              json:"execArgs"`
	SearchRoots          []string      `yaml:"search-roots"           json:"searchRoots"`
	WindowTitle          string        `yaml:"window-title"           json:"windowTitle"`
	PollInterval         time.Duration `yaml:"poll-interval"          json:"pollInterval"`
	Timeout              time.Duration `yaml:"timeout"                json:"timeout"`
	KeystrokeDelay       time.Duration `yaml:"keystroke-delay"        json:"keystrokeDelay"`
}

// New returns a viper instance with defaults, the CSLOGIN_ environment
// prefix and the config search path set up. Nothing is read yet.
func New() *viper.Viper {
	v := viper.New()
	SetDefaults(v)

	v.SetEnvPrefix("CSLOGIN")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetConfigName("cslogin")
	v.SetConfigType("yaml")
	if exe, err := os.Executable(); err == nil {
		v.AddConfigPath(filepath.Dir(exe))
	}
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".config", "cslogin"))
	}
	return v
}

// SetDefaults registers the built-in value of every key.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyConnectionString, "MainConnectionString")
	v.SetDefault(KeyTestConnectionString, "TestConnectionString")
	v.SetDefault(KeyConfigName, "web.config")
	v.SetDefault(KeyExecName, "ssms.exe")
	v.SetDefault(KeyExecArgs, "")
	v.SetDefault(KeySearchRoots, discovery.DefaultSearchRoots())
	v.SetDefault(KeyWindowTitle, "Connect to Server")
	v.SetDefault(KeyPollInterval, 500*time.Millisecond)
	v.SetDefault(KeyTimeout, time.Duration(0))
	v.SetDefault(KeyKeystrokeDelay, time.Duration(0))
}

// Read loads the config file if one exists. A missing file is not an error.
func Read(v *viper.Viper) error {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return apperr.Wrap(apperr.KindParseFailure, err, "read config file")
	}
	return nil
}

// Load resolves and validates the settings held by v.
func Load(v *viper.Viper) (Settings, error) {
	s := Settings{
		ConnectionString:     strings.TrimSpace(v.GetString(KeyConnectionString)),
		TestConnectionString: strings.TrimSpace(v.GetString(KeyTestConnectionString)),
		ConfigName:           strings.TrimSpace(v.GetString(KeyConfigName)),
		ExecName:             strings.TrimSpace(v.GetString(KeyExecName)),
		ExecArgs:             v.GetString(KeyExecArgs),
		SearchRoots:          v.GetStringSlice(KeySearchRoots),
		WindowTitle:          v.GetString(KeyWindowTitle),
		PollInterval:         v.GetDuration(KeyPollInterval),
		Timeout:              v.GetDuration(KeyTimeout),
		KeystrokeDelay:       v.GetDuration(KeyKeystrokeDelay),
	}

	switch {
	case s.ConfigName == "":
		return s, apperr.New(apperr.KindInvalidInput, "%s must not be empty", KeyConfigName)
	case s.ExecName == "":
		return s, apperr.New(apperr.KindInvalidInput, "%s must not be empty", KeyExecName)
	case s.WindowTitle == "":
		return s, apperr.New(apperr.KindInvalidInput, "%s must not be empty", KeyWindowTitle)
	case s.PollInterval <= 0:
		return s, apperr.New(apperr.KindInvalidInput, "%s must be positive, got %s", KeyPollInterval, s.PollInterval)
	case s.Timeout < 0:
		return s, apperr.New(apperr.KindInvalidInput, "%s must not be negative, got %s", KeyTimeout, s.Timeout)
	case s.KeystrokeDelay < 0:
		return s, apperr.New(apperr.KindInvalidInput, "%s must not be negative, got %s", KeyKeystrokeDelay, s.KeystrokeDelay)
	}
	return s, nil
}
