// Package version carries build metadata stamped in via -ldflags.
package version

var (
	// App is the binary family name used in logs and user-facing output.
	App = "tension-report"
	// Version is the release tag, "dev" for untagged builds.
	Version = "dev"
	// GitSHA identifies the commit the binary was built from.
	GitSHA = "unknown"
	// BuildTime records when the binary was linked.
	BuildTime = "unknown"
)

// String returns a single-line version summary.
func String() string {
	return App + " " + Version + " (" + GitSHA + ", built " + BuildTime + ")"
}
