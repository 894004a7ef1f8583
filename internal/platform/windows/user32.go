//go:build windows

package windows

import (
	"fmt"
	"unicode/utf16"
	"unsafe"

	syswin "golang.org/x/sys/windows"

	"github.com/mj1618/cslogin/internal/platform"
)

var (
	user32                  = syswin.NewLazySystemDLL("user32.dll")
	procGetWindowTextW      = user32.NewProc("GetWindowTextW")
	procGetWindowTextLength = user32.NewProc("GetWindowTextLengthW")
	procSetForegroundWindow = user32.NewProc("SetForegroundWindow")
	procSendInput           = user32.NewProc("SendInput")
)

const (
	inputKeyboard = 1

	keyeventfExtendedKey = 0x0001
	keyeventfKeyUp       = 0x0002
	keyeventfUnicode     = 0x0004
)

// keybdInput mirrors KEYBDINPUT.
type keybdInput struct {
	wVk         uint16
	wScan       uint16
	dwFlags     uint32
	time        uint32
	dwExtraInfo uintptr
}

// input mirrors INPUT for the keyboard case. The trailing padding makes the
// struct as large as the MOUSEINPUT member of the C union.
type input struct {
	inputType uint32
	ki        keybdInput
	_         [8]byte
}

// WindowsWindowSource implements platform.WindowSource by enumerating
// top-level windows and comparing titles exactly. FindWindowW is not used
// because it ignores case.
type WindowsWindowSource struct{}

// NewWindowSource creates a window source.
func NewWindowSource() *WindowsWindowSource {
	return &WindowsWindowSource{}
}

func (s *WindowsWindowSource) FindWindow(title string) (*platform.Window, error) {
	windows, err := topLevelWindows()
	if err != nil {
		return nil, err
	}
	w, ok := matchWindow(windows, title)
	if !ok {
		return nil, nil
	}
	return &platform.Window{Handle: w.handle, Title: w.title, PID: int(w.pid)}, nil
}

var enumWindowsCallback = syswin.NewCallback(func(hwnd syswin.HWND, lparam uintptr) uintptr {
	windows := (*[]topWindow)(unsafe.Pointer(lparam))
	var pid uint32
	_, _ = syswin.GetWindowThreadProcessId(hwnd, &pid)
	*windows = append(*windows, topWindow{
		handle:  uintptr(hwnd),
		title:   windowText(hwnd),
		visible: syswin.IsWindowVisible(hwnd),
		pid:     pid,
	})
	return 1
})

// topLevelWindows lists every top-level window in Z order.
func topLevelWindows() ([]topWindow, error) {
	var windows []topWindow
	if err := syswin.EnumWindows(enumWindowsCallback, unsafe.Pointer(&windows)); err != nil {
		return nil, fmt.Errorf("EnumWindows: %w", err)
	}
	return windows, nil
}

func windowText(hwnd syswin.HWND) string {
	n, _, _ := procGetWindowTextLength.Call(uintptr(hwnd))
	if n == 0 {
		return ""
	}
	buf := make([]uint16, n+1)
	copied, _, _ := procGetWindowTextW.Call(uintptr(hwnd), uintptr(unsafe.Pointer(&buf[0])), uintptr(len(buf)))
	return syswin.UTF16ToString(buf[:copied])
}

// WindowsWindowManager implements platform.WindowManager.
type WindowsWindowManager struct{}

// NewWindowManager creates a window manager.
func NewWindowManager() *WindowsWindowManager {
	return &WindowsWindowManager{}
}

func (wm *WindowsWindowManager) BringToForeground(w platform.Window) error {
	ok, _, _ := procSetForegroundWindow.Call(w.Handle)
	if ok == 0 {
		return fmt.Errorf("SetForegroundWindow refused for %q", w.Title)
	}
	return nil
}

// WindowsInputter implements platform.Inputter with SendInput.
type WindowsInputter struct{}

// NewInputter creates an inputter.
func NewInputter() *WindowsInputter {
	return &WindowsInputter{}
}

func (inp *WindowsInputter) TypeChar(ch rune) error {
	var inputs []input
	for _, unit := range utf16.Encode([]rune{ch}) {
		inputs = append(inputs,
			input{inputType: inputKeyboard, ki: keybdInput{wScan: unit, dwFlags: keyeventfUnicode}},
			input{inputType: inputKeyboard, ki: keybdInput{wScan: unit, dwFlags: keyeventfUnicode | keyeventfKeyUp}},
		)
	}
	return sendInput(inputs)
}

func (inp *WindowsInputter) PressKey(name string) error {
	vk, err := lookupKey(name)
	if err != nil {
		return err
	}
	var flags uint32
	if vk.extended {
		flags |= keyeventfExtendedKey
	}
	return sendInput([]input{
		{inputType: inputKeyboard, ki: keybdInput{wVk: vk.code, dwFlags: flags}},
		{inputType: inputKeyboard, ki: keybdInput{wVk: vk.code, dwFlags: flags | keyeventfKeyUp}},
	})
}

func sendInput(inputs []input) error {
	if len(inputs) == 0 {
		return nil
	}
	n, _, err := procSendInput.Call(
		uintptr(len(inputs)),
		uintptr(unsafe.Pointer(&inputs[0])),
		unsafe.Sizeof(inputs[0]),
	)
	if int(n) != len(inputs) {
		return fmt.Errorf("SendInput delivered %d of %d events: %w", n, len(inputs), err)
	}
	return nil
}
