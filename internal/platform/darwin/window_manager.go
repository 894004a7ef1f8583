//go:build darwin && cgo

package darwin

/*
#cgo CFLAGS: -x objective-c
#cgo LDFLAGS: -framework AppKit -framework Foundation
#import <AppKit/AppKit.h>

static int ns_activate_pid(int pid) {
    @autoreleasepool {
        NSRunningApplication *app = [NSRunningApplication runningApplicationWithProcessIdentifier:pid];
        if (!app) return -1;
        return [app activateWithOptions:NSApplicationActivateIgnoringOtherApps] ? 0 : -1;
    }
}
*/
import "C"
import (
	"fmt"

	"github.com/mj1618/cslogin/internal/platform"
)

// DarwinWindowManager implements the platform.WindowManager interface for macOS.
// macOS activates applications, not windows, so the owner of the window is
// brought forward.
type DarwinWindowManager struct{}

// NewWindowManager creates a new macOS window manager.
func NewWindowManager() *DarwinWindowManager {
	return &DarwinWindowManager{}
}

func (wm *DarwinWindowManager) BringToForeground(w platform.Window) error {
	if w.PID == 0 {
		return fmt.Errorf("window %q has no owning process", w.Title)
	}
	if C.ns_activate_pid(C.int(w.PID)) != 0 {
		return fmt.Errorf("failed to activate app with PID %d", w.PID)
	}
	return nil
}
