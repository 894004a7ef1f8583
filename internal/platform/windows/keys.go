package windows

import "github.com/mj1618/cslogin/internal/platform"

// Virtual-key codes from WinUser.h.
const (
	vkBack   = 0x08
	vkTab    = 0x09
	vkReturn = 0x0D
	vkEscape = 0x1B
	vkSpace  = 0x20
	vkEnd    = 0x23
	vkHome   = 0x24
	vkLeft   = 0x25
	vkUp     = 0x26
	vkRight  = 0x27
	vkDown   = 0x28
	vkDelete = 0x2E
)

type virtualKey struct {
	code     uint16
	extended bool
}

// keyCodeMap maps canonical key names to virtual keys. Navigation keys live
// on the extended part of the keyboard and need KEYEVENTF_EXTENDEDKEY.
var keyCodeMap = map[string]virtualKey{
	platform.KeyTab:       {code: vkTab},
	platform.KeyEnter:     {code: vkReturn},
	platform.KeyEscape:    {code: vkEscape},
	platform.KeyBackspace: {code: vkBack},
	platform.KeySpace:     {code: vkSpace},
	platform.KeyDelete:    {code: vkDelete, extended: true},
	platform.KeyUp:        {code: vkUp, extended: true},
	platform.KeyDown:      {code: vkDown, extended: true},
	platform.KeyLeft:      {code: vkLeft, extended: true},
	platform.KeyRight:     {code: vkRight, extended: true},
	platform.KeyHome:      {code: vkHome, extended: true},
	platform.KeyEnd:       {code: vkEnd, extended: true},
}

func lookupKey(name string) (virtualKey, error) {
	canonical, err := platform.ParseKey(name)
	if err != nil {
		return virtualKey{}, err
	}
	return keyCodeMap[canonical], nil
}
