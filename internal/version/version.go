// Package version holds corefront's build fingerprint, overridable at
// build time via -ldflags, matching the teacher's internal/version.
package version

var (
	// Version is the semantic version of the corefrontc CLI.
	Version = "0.1.0-dev"

	// GitCommit is an optional git commit hash.
	GitCommit = ""

	// BuildDate is an optional build date in ISO-8601.
	BuildDate = ""
)

// String returns "corefrontc <version>", used as cobra's --version output.
func String() string {
	v := Version
	if v == "" {
		v = "dev"
	}
	return "corefrontc " + v
}
