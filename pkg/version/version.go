// Package version holds bkmr's build-time version metadata, set via
// -ldflags at build time.
package version

var (
	// Version is the semantic version, overridden at build time.
	Version = "dev"
	// Commit is the git commit hash, overridden at build time.
	Commit = "none"
	// BuildDate is the build timestamp, overridden at build time.
	BuildDate = "unknown"
)

// String renders a one-line version summary.
func String() string {
	return "bkmr " + Version + " (" + Commit + ", built " + BuildDate + ")"
}
