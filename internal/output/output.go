// Package output writes what cslogin shows the user on stdout: structured
// results in YAML or JSON, and tagged status lines.
package output

import (
	"fmt"
	"io"
	"os"

	"github.com/mj1618/cslogin/internal/model"
)

// Format represents the output format.
type Format string

const (
	FormatText Format = "text"
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// OutputFormat is the current output format, set by the root command's --format flag.
var OutputFormat Format = FormatText

// PrettyOutput enables pretty-printing for JSON output.
var PrettyOutput bool

// Stdout is where results and status lines go.
var Stdout io.Writer = os.Stdout

// ParseFormat validates a --format value.
func ParseFormat(s string) (Format, error) {
	switch f := Format(s); f {
	case FormatText, FormatYAML, FormatJSON:
		return f, nil
	case "":
		return FormatText, nil
	default:
		return "", fmt.Errorf("unsupported output format: %s (want text, yaml or json)", s)
	}
}

// ListResult is the structured output of --list.
type ListResult struct {
	Config            string                   `yaml:"config"            json:"config"`
	ConnectionStrings []model.ConnectionString `yaml:"connectionStrings" json:"connectionStrings"`
}

// OpenResult is the structured output of --open and the script command.
type OpenResult struct {
	ConnectionString string `yaml:"connectionString,omitempty" json:"connectionString,omitempty"`
	Config           string `yaml:"config,omitempty"           json:"config,omitempty"`
	Executable       string `yaml:"executable,omitempty"       json:"executable,omitempty"`
	PID              int    `yaml:"pid,omitempty"              json:"pid,omitempty"`
	Window           string `yaml:"window"                     json:"window"`
	WaitedMs         int64  `yaml:"waitedMs"                   json:"waitedMs"`
	Focused          bool   `yaml:"focused"                    json:"focused"`
	Keystrokes       int    `yaml:"keystrokes"                 json:"keystrokes"`
}

// Structured reports whether results should be serialized instead of shown
// as text.
func Structured() bool {
	return OutputFormat == FormatYAML || OutputFormat == FormatJSON
}

// Print serializes v to Stdout in the current output format. Text format
// falls back to YAML.
func Print(v interface{}) error {
	switch OutputFormat {
	case FormatJSON:
		return PrintJSON(v, PrettyOutput)
	case FormatYAML, FormatText:
		return PrintYAML(v)
	default:
		return fmt.Errorf("unsupported output format: %s", OutputFormat)
	}
}
