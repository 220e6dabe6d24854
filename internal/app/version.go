package app

import "fmt"

// Build metadata, injected at release time:
// go build -ldflags "-X github.com/heartmarshall/nutriplan-backend/internal/app.Version=1.0.0"
var (
	Version   = "dev"
	Commit    = "none"
	BuildTime = "unknown"
)

// BuildVersion renders the build metadata for the startup log line.
func BuildVersion() string {
	return fmt.Sprintf("%s (commit %s, built %s)", Version, Commit, BuildTime)
}
