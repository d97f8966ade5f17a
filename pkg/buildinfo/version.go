// Package buildinfo provides build-time version information.
//
// Variables are set via ldflags during build:
//
//	go build -ldflags "-X github.com/matzehuels/advancecard/pkg/buildinfo.Version=v1.0.0 \
//	    -X github.com/matzehuels/advancecard/pkg/buildinfo.Commit=$(git rev-parse HEAD) \
//	    -X github.com/matzehuels/advancecard/pkg/buildinfo.Date=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
package buildinfo

import (
	"fmt"
	"strings"
)

var (
	// Version is the semantic version (e.g., "v1.2.3").
	// Set via ldflags: -X github.com/matzehuels/advancecard/pkg/buildinfo.Version=...
	Version = "dev"

	// Commit is the git commit SHA.
	// Set via ldflags: -X github.com/matzehuels/advancecard/pkg/buildinfo.Commit=...
	Commit = "none"

	// Date is the build timestamp.
	// Set via ldflags: -X github.com/matzehuels/advancecard/pkg/buildinfo.Date=...
	Date = "unknown"
)

// Contact details reported by the card's about group.
const (
	HelpURL  = "http://bhaveshjadav.in/powerbi/advancecard/"
	HelpMail = "alan181096@gmail.com"
)

// fallbackVersion is reported in the about group for development builds.
const fallbackVersion = "1.0.0"

// String returns the formatted build information.
func String() string {
	return fmt.Sprintf("version: %s\ncommit: %s\nbuilt: %s", Version, Commit, Date)
}

// Template returns the version template string for cobra.
func Template() string {
	return fmt.Sprintf("{{.Name}} version %s\ncommit: %s\nbuilt: %s\n", Version, Commit, Date)
}

// CardVersion returns the version shown in the about group: the release
// version without its "v" prefix, or 1.0.0 for development builds.
func CardVersion() string {
	if Version == "" || Version == "dev" {
		return fallbackVersion
	}
	return strings.TrimPrefix(Version, "v")
}
