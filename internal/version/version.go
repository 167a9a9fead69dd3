// Package version carries build metadata stamped via ldflags.
package version

//nolint:revive // Overridden at build time.
var (
	Version = "dev"
	Commit  = "unknown"
)
