//go:build darwin && cgo

package darwin

/*
#cgo LDFLAGS: -framework CoreGraphics -framework ApplicationServices
#include <CoreGraphics/CoreGraphics.h>

// Type a single UTF-16 code unit using CGEvent key simulation.
static int cg_type_unit(UniChar ch) {
    CGEventRef keyDown = CGEventCreateKeyboardEvent(NULL, 0, true);
    CGEventRef keyUp = CGEventCreateKeyboardEvent(NULL, 0, false);
    if (!keyDown || !keyUp) {
        if (keyDown) CFRelease(keyDown);
        if (keyUp) CFRelease(keyUp);
        return -1;
    }
    CGEventKeyboardSetUnicodeString(keyDown, 1, &ch);
    CGEventKeyboardSetUnicodeString(keyUp, 1, &ch);
    CGEventPost(kCGHIDEventTap, keyDown);
    CGEventPost(kCGHIDEventTap, keyUp);
    CFRelease(keyDown);
    CFRelease(keyUp);
    return 0;
}

// Press and release a virtual key.
static int cg_press_key(CGKeyCode keyCode) {
    CGEventRef keyDown = CGEventCreateKeyboardEvent(NULL, keyCode, true);
    CGEventRef keyUp = CGEventCreateKeyboardEvent(NULL, keyCode, false);
    if (!keyDown || !keyUp) {
        if (keyDown) CFRelease(keyDown);
        if (keyUp) CFRelease(keyUp);
        return -1;
    }
    CGEventPost(kCGHIDEventTap, keyDown);
    CGEventPost(kCGHIDEventTap, keyUp);
    CFRelease(keyDown);
    CFRelease(keyUp);
    return 0;
}
*/
import "C"

import (
	"fmt"
	"unicode/utf16"

	"github.com/mj1618/cslogin/internal/platform"
)

// DarwinInputter implements the platform.Inputter interface for macOS.
type DarwinInputter struct{}

// NewInputter creates a new macOS inputter.
func NewInputter() *DarwinInputter {
	return &DarwinInputter{}
}

func (inp *DarwinInputter) TypeChar(ch rune) error {
	if err := CheckAccessibilityPermission(); err != nil {
		return err
	}
	for _, unit := range utf16.Encode([]rune{ch}) {
		if C.cg_type_unit(C.UniChar(unit)) != 0 {
			return fmt.Errorf("failed to type %q", ch)
		}
	}
	return nil
}

func (inp *DarwinInputter) PressKey(name string) error {
	if err := CheckAccessibilityPermission(); err != nil {
		return err
	}
	key, err := platform.ParseKey(name)
	if err != nil {
		return err
	}
	code, ok := keyCodeMap[key]
	if !ok {
		return fmt.Errorf("unknown key: %q", name)
	}
	if C.cg_press_key(C.CGKeyCode(code)) != 0 {
		return fmt.Errorf("failed to press %s", key)
	}
	return nil
}

// macOS virtual key codes from Carbon Events.h.
var keyCodeMap = map[string]uint16{
	platform.KeyEnter: 0x24, platform.KeyTab: 0x30, platform.KeySpace: 0x31,
	platform.KeyBackspace: 0x33, platform.KeyEscape: 0x35, platform.KeyDelete: 0x75,
	platform.KeyUp: 0x7E, platform.KeyDown: 0x7D, platform.KeyLeft: 0x7B, platform.KeyRight: 0x7C,
	platform.KeyHome: 0x73, platform.KeyEnd: 0x77,
}
