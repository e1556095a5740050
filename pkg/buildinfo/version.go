// Package buildinfo exposes the version stamped into prepdeck at build time.
//
// Variables are set via ldflags:
//
//	go build -ldflags "-X github.com/prepdeck/prepdeck/pkg/buildinfo.Version=v1.0.0 \
//	    -X github.com/prepdeck/prepdeck/pkg/buildinfo.Commit=$(git rev-parse HEAD) \
//	    -X github.com/prepdeck/prepdeck/pkg/buildinfo.Date=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
package buildinfo

import "fmt"

var (
	// Version is the semantic version (e.g., "v1.2.3").
	Version = "dev"

	// Commit is the git commit SHA.
	Commit = "none"

	// Date is the build timestamp.
	Date = "unknown"
)

// Info is the build information reported by the API health check.
type Info struct {
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"date"`
}

// Get returns the current build information.
func Get() Info {
	return Info{Version: Version, Commit: Commit, Date: Date}
}

// Template returns the version template string for cobra.
func Template() string {
	return fmt.Sprintf("{{.Name}} version %s\ncommit: %s\nbuilt: %s\n", Version, Commit, Date)
}
