// Package version provides version information for the application.
package version

import "fmt"

// Version information - populated via ldflags during release builds
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// GetVersion returns the version string
func GetVersion() string {
	return Version
}

// GetFullVersion returns version with build information
// Format: "v1.2.0 (commit: abc123, built: 2026-08-23T10:30:00Z)"
func GetFullVersion() string {
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, Date)
}
