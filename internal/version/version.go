// Package version exposes the build version string.
package version

import "fmt"

// Overridden at build time via -ldflags "-X .../internal/version.version=...".
var (
	version = "dev"
	commit  = ""
)

func Get() string {
	if commit == "" {
		return version
	}
	return fmt.Sprintf("%s (%s)", version, commit)
}
