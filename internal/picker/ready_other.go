//go:build !unix && !windows

package picker

import (
	"os"
	"time"
)

func inputReady(*os.File, time.Duration) bool { return false }
