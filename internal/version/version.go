package version

import (
	"fmt"
	"strings"
)

// Name is the application name reported to AWS and in logs.
const Name = "serverless-cors"

var (
	// These variables are set via ldflags at build time.
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Info contains version information.
type Info struct {
	Version   string
	GitCommit string
	BuildDate string
}

// Get returns version information as a struct.
func Get() Info {
	return Info{
		Version:   Version,
		GitCommit: GitCommit,
		BuildDate: BuildDate,
	}
}

// Short returns a short version string.
// Example: "v1.0.0".
func Short() string {
	return Version
}

// Full returns a detailed version string.
// Example: "v1.0.0 (commit: abc123, built: 2024-01-01T00:00:00Z)".
func Full() string {
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, GitCommit, BuildDate)
}

// AppID returns the application id sent with AWS requests, e.g.
// "serverless-cors/v1.0.0". Characters AWS does not accept in an app id are
// replaced with dashes.
func AppID() string {
	id := Name + "/" + Version

	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case strings.ContainsRune("!#$%&'*+-.^_`|~/", r):
			return r
		default:
			return '-'
		}
	}, id)
}
