package version

// Version and GitCommit are set at build time with
// -ldflags "-X github.com/charlie0129/calc/pkg/version.Version=..."
var (
	Version   = "v0.0.0-dev"
	GitCommit = "unknown"
)
