//go:build darwin && cgo

package main

import _ "github.com/mj1618/cslogin/internal/platform/darwin"
