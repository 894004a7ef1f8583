//go:build windows

package picker

import (
	"os"
	"time"

	"golang.org/x/sys/windows"
)

// inputReady reports whether f has input to read within d.
func inputReady(f *os.File, d time.Duration) bool {
	event, err := windows.WaitForSingleObject(windows.Handle(f.Fd()), uint32(d/time.Millisecond))
	return err == nil && event == windows.WAIT_OBJECT_0
}
