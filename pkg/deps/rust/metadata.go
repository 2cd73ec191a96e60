package rust

import (
	"context"
	"encoding/json"
	"slices"
	"strings"
	"time"

	"github.com/matzehuels/cargo-ebuild/pkg/cargo"
	"github.com/matzehuels/cargo-ebuild/pkg/deps"
	"github.com/matzehuels/cargo-ebuild/pkg/errors"
	"github.com/matzehuels/cargo-ebuild/pkg/observability"
)

// MetadataResolver resolves the dependency graph with
// `cargo metadata --all-features`, so optional and feature-gated crates are
// part of the result.
type MetadataResolver struct {
	Run Runner // Command runner (default: ExecRunner)
}

// NewMetadataResolver returns a resolver that shells out to cargo.
func NewMetadataResolver() *MetadataResolver {
	return &MetadataResolver{Run: ExecRunner}
}

// Name returns "metadata".
func (r *MetadataResolver) Name() string { return "metadata" }

// Resolve implements [deps.Resolver].
func (r *MetadataResolver) Resolve(ctx context.Context, ws *cargo.Workspace, opts deps.Options) (*deps.Resolution, error) {
	opts = opts.WithDefaults()
	run := r.Run
	if run == nil {
		run = ExecRunner
	}

	start := time.Now()
	hooks := observability.Pipeline()
	hooks.OnResolveStart(ctx, r.Name(), ws.ManifestPath)

	res, err := r.resolve(ctx, run, ws, opts)
	count := 0
	if res != nil {
		count = len(res.Packages)
	}
	hooks.OnResolveComplete(ctx, r.Name(), count, time.Since(start), err)
	return res, err
}

func (r *MetadataResolver) resolve(ctx context.Context, run Runner, ws *cargo.Workspace, opts deps.Options) (*deps.Resolution, error) {
	generated, err := ensureLockfile(ctx, run, ws, opts)
	if err != nil {
		return nil, err
	}

	out, err := invoke(ctx, run, opts, ws.Root(),
		"metadata", "--format-version", "1", "--all-features", "--manifest-path", ws.ManifestPath)
	if err != nil {
		return nil, err
	}

	res, err := ParseMetadata(out)
	if err != nil {
		return nil, err
	}
	if res.WorkspaceRoot == "" {
		res.WorkspaceRoot = ws.Root()
	}
	res.LockfilePath = ws.LockfilePath()
	res.Generated = generated
	return res, nil
}

// ParseMetadata decodes `cargo metadata --format-version 1` output.
//
// Edges come from resolve.nodes. Edges that exist only as dev-dependencies
// are left out of each package's Dependencies: dev-dependencies may point
// back at the package that declares them, and the graph must stay acyclic.
// The dev-only packages themselves remain in the result.
func ParseMetadata(data []byte) (*deps.Resolution, error) {
	var md metadata
	if err := json.Unmarshal(data, &md); err != nil {
		return nil, errors.Wrap(errors.ErrCodeResolution, err, "cannot decode cargo metadata output")
	}
	if md.Resolve == nil {
		return nil, errors.New(errors.ErrCodeResolution, "cargo metadata output has no dependency resolution")
	}
	if md.Resolve.Root == "" {
		return nil, errors.New(errors.ErrCodeMissingRoot,
			"no root package: the manifest is a virtual workspace manifest, select a member with --manifest-path")
	}

	edges := make(map[string][]string, len(md.Resolve.Nodes))
	for _, n := range md.Resolve.Nodes {
		edges[n.ID] = n.runtimeDependencies()
	}

	pkgs := make([]deps.ResolvedPackage, 0, len(md.Packages))
	for _, p := range md.Packages {
		pkgs = append(pkgs, deps.ResolvedPackage{
			ID:           p.ID,
			Name:         p.Name,
			Version:      p.Version,
			Origin:       deps.ParseSource(deref(p.Source)),
			License:      strings.TrimSpace(deref(p.License)),
			LicenseFile:  strings.TrimSpace(deref(p.LicenseFile)),
			Description:  deref(p.Description),
			Homepage:     deref(p.Homepage),
			Repository:   deref(p.Repository),
			ManifestPath: p.ManifestPath,
			Dependencies: edges[p.ID],
		})
	}

	res := deps.NewResolution(md.Resolve.Root, pkgs)
	if _, ok := res.RootPackage(); !ok {
		return nil, errors.New(errors.ErrCodeMissingRoot, "root package %s is missing from cargo metadata output", md.Resolve.Root)
	}
	res.WorkspaceRoot = md.WorkspaceRoot
	return res, nil
}

type metadata struct {
	Packages      []metadataPackage `json:"packages"`
	Resolve       *metadataResolve  `json:"resolve"`
	WorkspaceRoot string            `json:"workspace_root"`
}

type metadataPackage struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Version      string  `json:"version"`
	Source       *string `json:"source"`
	License      *string `json:"license"`
	LicenseFile  *string `json:"license_file"`
	Description  *string `json:"description"`
	Homepage     *string `json:"homepage"`
	Repository   *string `json:"repository"`
	ManifestPath string  `json:"manifest_path"`
}

type metadataResolve struct {
	Nodes []metadataNode `json:"nodes"`
	Root  string         `json:"root"`
}

type metadataNode struct {
	ID           string        `json:"id"`
	Dependencies []string      `json:"dependencies"`
	Deps         []metadataDep `json:"deps"`
}

type metadataDep struct {
	Pkg      string `json:"pkg"`
	DepKinds []struct {
		Kind *string `json:"kind"`
	} `json:"dep_kinds"`
}

// runtimeDependencies returns the node's dependency IDs minus dev-only
// edges, sorted. Cargo older than 1.41 emits no dep_kinds; then every
// listed dependency is kept.
func (n metadataNode) runtimeDependencies() []string {
	if len(n.Deps) == 0 {
		out := slices.Clone(n.Dependencies)
		slices.Sort(out)
		return slices.Compact(out)
	}
	var out []string
	for _, d := range n.Deps {
		if d.devOnly() {
			continue
		}
		out = append(out, d.Pkg)
	}
	slices.Sort(out)
	return slices.Compact(out)
}

func (d metadataDep) devOnly() bool {
	if len(d.DepKinds) == 0 {
		return false
	}
	for _, k := range d.DepKinds {
		if k.Kind == nil || *k.Kind != "dev" {
			return false
		}
	}
	return true
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
