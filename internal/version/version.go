// Package version holds build metadata, set with -ldflags at release time:
//
//	go build -ldflags "-X github.com/mj1618/cslogin/internal/version.Version=v1.2.0"
package version

var (
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"
)

// String renders the metadata as shown by --version.
func String() string {
	return Version + " (commit: " + Commit + ", built: " + BuildDate + ")"
}
