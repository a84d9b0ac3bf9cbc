package version

import "fmt"

// Set at build time via -ldflags.
var (
	Version = "0.1.0"
	Commit  = "unknown"
	Date    = "unknown"
)

// Resolve returns the version string, with a short commit suffix when the
// build embedded one.
func Resolve() string {
	return resolve(Version, Commit)
}

func resolve(version, commit string) string {
	if version == "" {
		version = "0.0.0"
	}
	if commit == "" || commit == "unknown" {
		return version
	}
	if len(commit) > 7 {
		commit = commit[:7]
	}
	return fmt.Sprintf("%s+%s", version, commit)
}
