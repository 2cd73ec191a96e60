package deps

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/matzehuels/cargo-ebuild/pkg/cargo"
	"github.com/matzehuels/cargo-ebuild/pkg/dag"
)

const (
	DefaultTimeout  = 10 * time.Minute // Default bound on each cargo invocation
	DefaultCacheTTL = 24 * time.Hour   // Default HTTP cache duration
	DefaultCargo    = "cargo"          // Default resolution engine binary
)

// Options configures dependency resolution. It is threaded explicitly into
// resolvers; nothing is read from process-wide state.
type Options struct {
	Cargo         string               // Cargo binary (default: "cargo")
	Timeout       time.Duration        // Bound on each cargo invocation (default: 10m)
	Frozen        bool                 // Pass --frozen (implies --locked and --offline)
	Locked        bool                 // Pass --locked
	Offline       bool                 // Pass --offline
	UnstableFlags []string             // Passed as -Z <flag>
	CacheTTL      time.Duration        // HTTP cache duration (default: 24h)
	Refresh       bool                 // Bypass cache for fresh data
	Logger        func(string, ...any) // Progress callback (optional)
}

// WithDefaults returns a copy of Options with zero values replaced by defaults.
func (o Options) WithDefaults() Options {
	opts := o
	if opts.Cargo == "" {
		opts.Cargo = DefaultCargo
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = DefaultCacheTTL
	}
	if opts.Logger == nil {
		opts.Logger = func(string, ...any) {}
	}
	return opts
}

// CargoFlags returns the global cargo flags implied by the options.
func (o Options) CargoFlags() []string {
	var flags []string
	if o.Frozen {
		flags = append(flags, "--frozen")
	}
	if o.Locked {
		flags = append(flags, "--locked")
	}
	if o.Offline {
		flags = append(flags, "--offline")
	}
	for _, z := range o.UnstableFlags {
		flags = append(flags, "-Z", z)
	}
	return flags
}

// ResolvedPackage is one node of a resolved dependency graph. It is created
// once per resolution and never modified afterwards.
type ResolvedPackage struct {
	ID           string   // Cargo package ID, unique within a resolution
	Name         string   // Crate name
	Version      string   // Exact resolved version
	Origin       Origin   // Where the crate's sources come from
	License      string   // License expression (may be empty)
	LicenseFile  string   // License file reference (may be empty)
	Description  string   // Package description (may be empty)
	Homepage     string   // Homepage URL (may be empty)
	Repository   string   // Repository URL (may be empty)
	ManifestPath string   // Path to the package's Cargo.toml when known
	Dependencies []string // IDs of resolved dependencies, sorted
}

// Resolution is the complete resolved graph of a workspace, covering all
// optional and feature-gated dependencies.
type Resolution struct {
	Root          string            // ID of the root package
	Packages      []ResolvedPackage // All resolved packages, sorted by ID
	Graph         *dag.DAG          // Graph view keyed by package ID
	WorkspaceRoot string            // Workspace root directory
	LockfilePath  string            // Lock-state consulted or generated
	Generated     bool              // Whether the lock-state was generated by this run
	Warnings      []string          // Non-fatal resolver problems
}

// RootPackage returns the root package record.
func (r *Resolution) RootPackage() (ResolvedPackage, bool) {
	i, found := slices.BinarySearchFunc(r.Packages, r.Root, func(p ResolvedPackage, id string) int {
		return strings.Compare(p.ID, id)
	})
	if !found {
		return ResolvedPackage{}, false
	}
	return r.Packages[i], true
}

// Resolver produces the resolved dependency graph of a workspace.
type Resolver interface {
	// Resolve returns the full resolution for ws, generating the lock-state
	// first when it is absent. Failures are fatal; there is no partial mode.
	Resolve(ctx context.Context, ws *cargo.Workspace, opts Options) (*Resolution, error)
	// Name returns the resolver's identifier (e.g., "metadata", "lockfile").
	Name() string
}

// NewResolution sorts pkgs by ID, builds the graph view and returns the
// resolution. Packages and dependencies the graph cannot hold (duplicate
// IDs, dependencies on unknown IDs) are left out of the graph and reported
// in Warnings, as is a cycle.
func NewResolution(root string, pkgs []ResolvedPackage) *Resolution {
	sorted := slices.Clone(pkgs)
	slices.SortFunc(sorted, func(a, b ResolvedPackage) int { return strings.Compare(a.ID, b.ID) })

	var warnings []string
	g := dag.New(dag.Metadata{"root": root})
	for _, p := range sorted {
		if err := g.AddNode(dag.Node{ID: p.ID, Meta: p.Metadata()}); err != nil {
			warnings = append(warnings, fmt.Sprintf("%s: left out of the dependency graph: %v", p.ID, err))
		}
	}
	for _, p := range sorted {
		for _, dep := range p.Dependencies {
			if err := g.AddEdge(dag.Edge{From: p.ID, To: dep}); err != nil {
				warnings = append(warnings, fmt.Sprintf("%s: dependency %s left out of the dependency graph: %v", p.ID, dep, err))
			}
		}
	}
	if err := g.Validate(); err != nil {
		warnings = append(warnings, fmt.Sprintf("dependency graph of %s: %v", root, err))
	}
	return &Resolution{Root: root, Packages: sorted, Graph: g, Warnings: warnings}
}

// Metadata converts package fields to a map for node metadata.
func (p *ResolvedPackage) Metadata() dag.Metadata {
	m := dag.Metadata{
		"name":    p.Name,
		"version": p.Version,
		"origin":  p.Origin.Kind.String(),
	}
	if p.Origin.URL != "" {
		m["source"] = p.Origin.URL
	}
	if p.License != "" {
		m["license"] = p.License
	}
	if p.LicenseFile != "" {
		m["license_file"] = p.LicenseFile
	}
	if p.Description != "" {
		m["description"] = p.Description
	}
	if p.Repository != "" {
		m["repository"] = p.Repository
	}
	return m
}
