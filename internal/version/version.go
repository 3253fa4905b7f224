// Package version holds build metadata injected at link time.
package version

// Version is the sitepack release. Set it with
// go build -ldflags "-X git.home.luguber.info/inful/sitepack/internal/version.Version=v0.3.0".
var Version = "dev"

// Build metadata, also set via ldflags.
var (
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// String formats the version with its commit for --version output.
func String() string {
	if GitCommit == "unknown" {
		return Version
	}
	return Version + " (" + GitCommit + ", " + BuildTime + ")"
}
