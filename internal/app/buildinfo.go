package app

// Build information populated via -ldflags at build time by CI.
// Defaults are meaningful for local development and tests; they are recorded
// in every run manifest.
var (
    // BuildVersion is the semantic version of the built binary.
    BuildVersion = "0.0.0-dev"
    // BuildCommit is the VCS commit SHA associated with the build.
    BuildCommit  = "unknown"
    // BuildDate is the ISO-8601 timestamp of the build.
    BuildDate    = "unknown"
)

// VersionString renders the build information for --version output.
func VersionString() string {
    return BuildVersion + " (commit " + BuildCommit + ", built " + BuildDate + ")"
}
