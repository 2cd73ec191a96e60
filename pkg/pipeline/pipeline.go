// Package pipeline turns a cargo project into an ebuild.
//
// This package implements the complete locate → resolve → classify →
// assemble → write pipeline. The CLI is a thin layer over it so that every
// entry point produces the same file for the same project.
//
// # Architecture
//
// The pipeline consists of five stages:
//
//  1. Locate: Find Cargo.toml and its workspace root ([cargo.Open])
//  2. Resolve: Ask a [deps.Resolver] for the full dependency graph
//  3. Classify: Reduce the graph to crate lines ([deps.Classify]) and
//     license atoms ([license.Collect])
//  4. Assemble: Build the [ebuild.Record]
//  5. Write: Render the record and write it to disk
//
// Stages 1 and 2 are available on their own through [Runner.Resolve], which
// the graph export uses.
//
// # Usage
//
//	resolver, _ := pipeline.NewResolver(pipeline.ResolverMetadata, nil)
//	runner := pipeline.NewRunner(resolver, logger)
//	result, err := runner.Run(ctx, pipeline.Options{Output: "dist/"})
//	if err != nil {
//	    return err
//	}
//	fmt.Println("Wrote:", result.Path)
package pipeline

import (
	"time"

	"github.com/matzehuels/cargo-ebuild/pkg/deps"
	"github.com/matzehuels/cargo-ebuild/pkg/deps/rust"
	"github.com/matzehuels/cargo-ebuild/pkg/ebuild"
	"github.com/matzehuels/cargo-ebuild/pkg/errors"
	"github.com/matzehuels/cargo-ebuild/pkg/httputil"
	"github.com/matzehuels/cargo-ebuild/pkg/integrations/crates"
)

// Resolver names accepted by [NewResolver].
const (
	ResolverMetadata = "metadata"
	ResolverLockfile = "lockfile"
)

// DefaultResolver is used when NewResolver gets an empty name.
const DefaultResolver = ResolverMetadata

// ValidResolvers is the set of supported resolver names.
var ValidResolvers = map[string]bool{
	ResolverMetadata: true,
	ResolverLockfile: true,
}

// ValidateResolver checks that name is a supported resolver.
func ValidateResolver(name string) error {
	if !ValidResolvers[name] {
		return errors.New(errors.ErrCodeInvalidInput, "invalid resolver %q: must be %s or %s",
			name, ResolverMetadata, ResolverLockfile)
	}
	return nil
}

// NewResolver returns the resolver registered under name. The lockfile
// resolver looks licenses up on crates.io through a client backed by cache;
// cache may be nil to disable caching.
func NewResolver(name string, cache *httputil.Cache) (deps.Resolver, error) {
	if name == "" {
		name = DefaultResolver
	}
	if err := ValidateResolver(name); err != nil {
		return nil, err
	}
	if name == ResolverLockfile {
		return rust.NewLockfileResolver(crates.NewClient(cache)), nil
	}
	return rust.NewMetadataResolver(), nil
}

// Options contains all configuration for one pipeline run.
type Options struct {
	Dir             string          // Directory to search for Cargo.toml (default: ".")
	ManifestPath    string          // Explicit Cargo.toml, overrides the search
	Output          string          // Output file or existing directory (default: working directory)
	Deps            deps.Options    // Cargo invocation settings
	Settings        ebuild.Settings // Ebuild variables
	ProviderVersion string          // cargo-ebuild version stamped into the header
	Year            int             // Copyright year; 0 derives it from SOURCE_DATE_EPOCH or the clock
}

// ValidateAndSetDefaults fills defaults and validates the ebuild settings.
func (o *Options) ValidateAndSetDefaults() error {
	if o.Dir == "" {
		o.Dir = "."
	}
	o.Settings = o.Settings.WithDefaults()
	if err := o.Settings.Validate(); err != nil {
		return err
	}
	if o.Year < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "invalid copyright year %d", o.Year)
	}
	return nil
}

// Result contains the outputs of a pipeline run.
type Result struct {
	Path       string           // Written ebuild
	Record     ebuild.Record    // Rendered content
	Resolution *deps.Resolution // Full resolved graph
	Warnings   []string         // Resolver, classification and license warnings
	Stats      Stats
}

// Stats contains timing and size information.
type Stats struct {
	ResolveTime  time.Duration
	RenderTime   time.Duration
	PackageCount int // Resolved packages, root and path packages included
	CrateCount   int // Default-registry crates in CRATES
}
