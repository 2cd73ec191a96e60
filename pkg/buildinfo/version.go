// Package buildinfo provides build-time version information.
//
// Variables are set via ldflags during build:
//
//	go build -ldflags "-X github.com/matzehuels/cargo-ebuild/pkg/buildinfo.Version=v0.6.0 \
//	    -X github.com/matzehuels/cargo-ebuild/pkg/buildinfo.Commit=$(git rev-parse HEAD) \
//	    -X github.com/matzehuels/cargo-ebuild/pkg/buildinfo.Date=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
//
// Binaries installed with `go install` fall back to the module version
// recorded by the Go toolchain.
package buildinfo

import (
	"fmt"
	"runtime/debug"
	"strings"
)

// Name is the program name used in generated files and the User-Agent.
const Name = "cargo-ebuild"

// RepoURL is the project homepage sent to crates.io with every request.
const RepoURL = "https://github.com/matzehuels/cargo-ebuild"

var (
	// Version is the semantic version (e.g., "v0.6.0").
	Version = "dev"

	// Commit is the git commit SHA.
	Commit = "none"

	// Date is the build timestamp.
	Date = "unknown"
)

// ResolvedVersion returns Version, or the module version from the binary's
// build info when Version was not set at link time.
func ResolvedVersion() string {
	if Version != "dev" {
		return Version
	}
	if bi, ok := debug.ReadBuildInfo(); ok && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
		return bi.Main.Version
	}
	return Version
}

// ProviderVersion is the version string stamped into generated ebuilds,
// without the leading "v" (e.g., "0.6.0").
func ProviderVersion() string {
	return strings.TrimPrefix(ResolvedVersion(), "v")
}

// UserAgent returns the User-Agent header crates.io requires of API clients.
func UserAgent() string {
	return fmt.Sprintf("%s/%s (%s)", Name, ProviderVersion(), RepoURL)
}

// String returns the formatted build information.
func String() string {
	return fmt.Sprintf("version: %s\ncommit: %s\nbuilt: %s", ResolvedVersion(), Commit, Date)
}

// Template returns the version template string for cobra.
func Template() string {
	return fmt.Sprintf("{{.Name}} version %s\ncommit: %s\nbuilt: %s\n", ResolvedVersion(), Commit, Date)
}
