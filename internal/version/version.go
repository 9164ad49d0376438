// Package version reports build metadata injected via ldflags:
//
//	go build -ldflags "-X github.com/example/outreach/internal/version.Commit=$(git rev-parse HEAD)"
package version

import "fmt"

var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

// String returns the human-readable version line.
func String() string {
	return fmt.Sprintf("outreach %s (commit: %s, built: %s)", Version, ShortCommit(), BuildTime)
}

// ShortCommit returns the abbreviated commit hash.
func ShortCommit() string {
	if len(Commit) > 7 {
		return Commit[:7]
	}
	return Commit
}
