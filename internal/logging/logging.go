// Package logging owns the process-wide diagnostic logger. Diagnostics go to
// stderr (or a file) so they never mix with the status lines on stdout.
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
)

// Logger is the global logger instance.
var Logger = newLogger(os.Stderr, log.WarnLevel)

var logFile *os.File

func newLogger(w io.Writer, level log.Level) *log.Logger {
	l := log.NewWithOptions(w, log.Options{Prefix: "cslogin"})
	l.SetTimeFormat("")
	l.SetLevel(level)
	return l
}

// Configure sets the level and destination of Logger. The level comes from
// the flag, then CSLOGIN_LOG_LEVEL, then defaults to warn. A non-empty file
// is opened for append and receives all output instead of stderr.
func Configure(level, file string) error {
	if level == "" {
		level = os.Getenv("CSLOGIN_LOG_LEVEL")
	}

	var out io.Writer = os.Stderr
	if file != "" {
		f, err := os.OpenFile(file, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			return err
		}
		Close()
		logFile = f
		out = f
	}

	Logger = newLogger(out, ParseLevel(level))
	return nil
}

// ParseLevel maps a level name to a log level, defaulting to warn.
func ParseLevel(level string) log.Level {
	l, err := log.ParseLevel(strings.TrimSpace(level))
	if err != nil {
		return log.WarnLevel
	}
	return l
}

// Close releases the log file opened by Configure, if any.
func Close() {
	if logFile != nil {
		_ = logFile.Close()
		logFile = nil
	}
}
