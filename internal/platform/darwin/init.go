//go:build darwin && cgo

package darwin

import "github.com/mj1618/cslogin/internal/platform"

func init() {
	platform.NewProviderFunc = func() (*platform.Provider, error) {
		return &platform.Provider{
			Windows:       NewWindowSource(),
			WindowManager: NewWindowManager(),
			Inputter:      NewInputter(),
			Launcher:      platform.ExecLauncher{},
		}, nil
	}
}
