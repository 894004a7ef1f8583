//go:build darwin && cgo

package darwin

/*
#cgo LDFLAGS: -framework CoreGraphics -framework CoreFoundation
#include <CoreGraphics/CoreGraphics.h>
#include <CoreFoundation/CoreFoundation.h>
#include <stdlib.h>

// Find a normal-layer on-screen window whose title equals title exactly.
// Returns 1 and fills window_id/pid when found, 0 when not, -1 on failure.
static int cg_find_window(const char *title, int *window_id, int *pid) {
    CFArrayRef list = CGWindowListCopyWindowInfo(
        kCGWindowListOptionOnScreenOnly | kCGWindowListExcludeDesktopElements,
        kCGNullWindowID);
    if (!list) return -1;

    CFStringRef want = CFStringCreateWithCString(NULL, title, kCFStringEncodingUTF8);
    if (!want) {
        CFRelease(list);
        return -1;
    }

    int found = 0;
    CFIndex n = CFArrayGetCount(list);
    for (CFIndex i = 0; i < n && !found; i++) {
        CFDictionaryRef info = (CFDictionaryRef)CFArrayGetValueAtIndex(list, i);

        CFStringRef name = (CFStringRef)CFDictionaryGetValue(info, kCGWindowName);
        if (!name || CFStringCompare(name, want, 0) != kCFCompareEqualTo) continue;

        int layer = 0;
        CFNumberRef layerRef = (CFNumberRef)CFDictionaryGetValue(info, kCGWindowLayer);
        if (layerRef) CFNumberGetValue(layerRef, kCFNumberIntType, &layer);
        if (layer != 0) continue;

        CFNumberRef num = (CFNumberRef)CFDictionaryGetValue(info, kCGWindowNumber);
        CFNumberRef owner = (CFNumberRef)CFDictionaryGetValue(info, kCGWindowOwnerPID);
        if (num) CFNumberGetValue(num, kCFNumberIntType, window_id);
        if (owner) CFNumberGetValue(owner, kCFNumberIntType, pid);
        found = 1;
    }

    CFRelease(want);
    CFRelease(list);
    return found;
}
*/
import "C"
import (
	"fmt"
	"unsafe"

	"github.com/mj1618/cslogin/internal/platform"
)

// DarwinWindowSource implements platform.WindowSource for macOS. Window
// titles are only visible with the screen recording permission.
type DarwinWindowSource struct{}

// NewWindowSource creates a new macOS window source.
func NewWindowSource() *DarwinWindowSource {
	return &DarwinWindowSource{}
}

func (s *DarwinWindowSource) FindWindow(title string) (*platform.Window, error) {
	cTitle := C.CString(title)
	defer C.free(unsafe.Pointer(cTitle))

	var windowID, pid C.int
	switch C.cg_find_window(cTitle, &windowID, &pid) {
	case 1:
		return &platform.Window{Handle: uintptr(windowID), Title: title, PID: int(pid)}, nil
	case 0:
		return nil, nil
	default:
		return nil, fmt.Errorf("failed to list windows")
	}
}
