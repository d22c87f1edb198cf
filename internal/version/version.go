package version

// These variables are set at build time using -ldflags
// Example: go build -ldflags "-X github.com/ukaji3/beamsheet-go/internal/version.Version=0.3.0"
var (
	// Version is the semantic version of the application
	Version = "dev"

	// GitCommit is the git commit hash (set via ldflags)
	GitCommit = "unknown"

	// BuildTime is the time the binary was built (set via ldflags)
	BuildTime = "unknown"
)
