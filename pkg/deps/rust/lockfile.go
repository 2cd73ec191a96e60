package rust

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/cargo-ebuild/pkg/cargo"
	"github.com/matzehuels/cargo-ebuild/pkg/deps"
	"github.com/matzehuels/cargo-ebuild/pkg/errors"
	"github.com/matzehuels/cargo-ebuild/pkg/integrations/crates"
	"github.com/matzehuels/cargo-ebuild/pkg/observability"
)

// DefaultConcurrency bounds parallel crates.io lookups.
const DefaultConcurrency = 8

// VersionFetcher looks up published crate versions. *crates.Client
// implements it.
type VersionFetcher interface {
	FetchVersion(ctx context.Context, name, version string, refresh bool) (*crates.VersionInfo, error)
}

// LockfileResolver reads Cargo.lock directly instead of asking cargo for
// metadata. Cargo.lock pins every crate of every feature combination, so
// the crate list matches [MetadataResolver]; what the lock file lacks is
// license data, which is taken from local manifests for path packages and
// from crates.io for default-registry crates.
//
// Cargo only runs when Cargo.lock is missing.
type LockfileResolver struct {
	Run         Runner         // Command runner for generate-lockfile (default: ExecRunner)
	Crates      VersionFetcher // License source for registry crates; nil disables lookups
	Concurrency int            // Parallel lookups (default: DefaultConcurrency)
}

// NewLockfileResolver returns a resolver that fills licenses from client.
func NewLockfileResolver(client VersionFetcher) *LockfileResolver {
	return &LockfileResolver{Run: ExecRunner, Crates: client, Concurrency: DefaultConcurrency}
}

// Name returns "lockfile".
func (r *LockfileResolver) Name() string { return "lockfile" }

// Resolve implements [deps.Resolver].
func (r *LockfileResolver) Resolve(ctx context.Context, ws *cargo.Workspace, opts deps.Options) (*deps.Resolution, error) {
	opts = opts.WithDefaults()
	start := time.Now()
	hooks := observability.Pipeline()
	hooks.OnResolveStart(ctx, r.Name(), ws.ManifestPath)

	res, err := r.resolve(ctx, ws, opts)
	count := 0
	if res != nil {
		count = len(res.Packages)
	}
	hooks.OnResolveComplete(ctx, r.Name(), count, time.Since(start), err)
	return res, err
}

func (r *LockfileResolver) resolve(ctx context.Context, ws *cargo.Workspace, opts deps.Options) (*deps.Resolution, error) {
	run := r.Run
	if run == nil {
		run = ExecRunner
	}
	generated, err := ensureLockfile(ctx, run, ws, opts)
	if err != nil {
		return nil, err
	}

	current, err := ws.Current()
	if err != nil {
		return nil, err
	}
	lf, err := cargo.ReadLockfile(ws.LockfilePath())
	if err != nil {
		return nil, err
	}

	local := localMetadata(ws, current)
	pkgs, rootID, err := lockPackages(lf, current, local)
	if err != nil {
		return nil, err
	}

	for i := range pkgs {
		p := &pkgs[i]
		if p.Origin.Kind != deps.OriginPath {
			continue
		}
		if m, ok := local[p.Name+" "+p.Version]; ok {
			p.License = strings.TrimSpace(m.License)
			p.LicenseFile = strings.TrimSpace(m.LicenseFile)
			p.Description = m.Description
			p.Homepage = m.Homepage
			p.Repository = m.Repository
			p.ManifestPath = m.path
		}
	}

	warnings, err := r.fetchLicenses(ctx, pkgs, opts)
	if err != nil {
		return nil, err
	}

	res := deps.NewResolution(rootID, pkgs)
	res.Warnings = append(res.Warnings, warnings...)
	res.WorkspaceRoot = ws.Root()
	res.LockfilePath = ws.LockfilePath()
	res.Generated = generated
	return res, nil
}

// lockID mirrors cargo's legacy package id format, "name version (source)".
func lockID(p cargo.LockPackage) string {
	if p.Source == "" {
		return p.Name + " " + p.Version
	}
	return fmt.Sprintf("%s %s (%s)", p.Name, p.Version, p.Source)
}

// lockPackages converts lock entries to resolved packages and returns the
// ID of the entry matching the current package. Cargo.lock does not record
// dependency kinds, so edges of local packages to their dev-only
// dependencies are dropped using the local manifests; the dev-only packages
// themselves stay in the result.
func lockPackages(lf *cargo.Lockfile, current *cargo.Metadata, local map[string]localPackage) ([]deps.ResolvedPackage, string, error) {
	byName := make(map[string][]cargo.LockPackage)
	for _, p := range lf.Packages {
		byName[p.Name] = append(byName[p.Name], p)
	}

	var rootID string
	pkgs := make([]deps.ResolvedPackage, 0, len(lf.Packages))
	for _, lp := range lf.Packages {
		id := lockID(lp)
		if lp.Source == "" && lp.Name == current.Name && lp.Version == current.Version {
			rootID = id
		}

		var devOnly map[string]bool
		if lp.Source == "" {
			devOnly = local[lp.Name+" "+lp.Version].devOnly
		}

		var depIDs []string
		for _, d := range lp.Dependencies {
			ref := cargo.ParseDependencyRef(d)
			if devOnly[ref.Name] {
				continue
			}
			for _, cand := range byName[ref.Name] {
				if ref.Matches(cand) {
					depIDs = append(depIDs, lockID(cand))
					break
				}
			}
		}
		slices.Sort(depIDs)

		pkgs = append(pkgs, deps.ResolvedPackage{
			ID:           id,
			Name:         lp.Name,
			Version:      lp.Version,
			Origin:       deps.ParseSource(lp.Source),
			Dependencies: depIDs,
		})
	}

	if rootID == "" {
		return nil, "", errors.New(errors.ErrCodeMissingRoot,
			"package %s %s not found in %s", current.Name, current.Version, cargo.LockfileName)
	}
	return pkgs, rootID, nil
}

type localPackage struct {
	cargo.Metadata
	path    string
	devOnly map[string]bool
}

func newLocalPackage(m *cargo.Metadata, manifest *cargo.Manifest, path string) localPackage {
	lp := localPackage{Metadata: *m, path: path, devOnly: map[string]bool{}}
	for _, name := range manifest.DevOnlyDependencies() {
		lp.devOnly[name] = true
	}
	return lp
}

// localMetadata maps "name version" to the metadata of every locally
// available package, with workspace inheritance applied.
func localMetadata(ws *cargo.Workspace, current *cargo.Metadata) map[string]localPackage {
	out := map[string]localPackage{
		current.Name + " " + current.Version: newLocalPackage(current, ws.Manifest, ws.ManifestPath),
	}
	for _, path := range ws.LocalManifests() {
		member, err := cargo.Open(filepath.Dir(path), path)
		if err != nil {
			continue
		}
		m, err := member.Current()
		if err != nil {
			continue
		}
		out[m.Name+" "+m.Version] = newLocalPackage(m, member.Manifest, path)
	}
	return out
}

// fetchLicenses fills License for default-registry crates from crates.io.
// Lookup failures become warnings and leave the license empty; only
// context cancellation aborts the resolution.
func (r *LockfileResolver) fetchLicenses(ctx context.Context, pkgs []deps.ResolvedPackage, opts deps.Options) ([]string, error) {
	var targets []int
	for i, p := range pkgs {
		if p.Origin.Kind == deps.OriginDefaultRegistry {
			targets = append(targets, i)
		}
	}
	if len(targets) == 0 {
		return nil, nil
	}
	if r.Crates == nil || opts.Offline || opts.Frozen {
		return []string{fmt.Sprintf("offline: licenses of %d registry crates are unknown", len(targets))}, nil
	}

	limit := r.Concurrency
	if limit <= 0 {
		limit = DefaultConcurrency
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	licenses := make([]*crates.VersionInfo, len(pkgs))
	failures := make([]error, len(pkgs))
	for _, i := range targets {
		g.Go(func() error {
			p := pkgs[i]
			info, err := r.Crates.FetchVersion(gctx, p.Name, p.Version, opts.Refresh)
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				failures[i] = err
				return nil
			}
			licenses[i] = info
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var warnings []string
	for _, i := range targets {
		if err := failures[i]; err != nil {
			warnings = append(warnings, fmt.Sprintf("%s %s: license lookup failed: %v", pkgs[i].Name, pkgs[i].Version, err))
			continue
		}
		if info := licenses[i]; info != nil {
			if strings.TrimSpace(info.License) == "" {
				warnings = append(warnings, fmt.Sprintf("%s %s: crates.io reports no license expression (license file?), not included in LICENSE", pkgs[i].Name, pkgs[i].Version))
			}
			pkgs[i].License = strings.TrimSpace(info.License)
			pkgs[i].Description = info.Description
			pkgs[i].Homepage = info.Homepage
			pkgs[i].Repository = info.Repository
		}
	}
	return warnings, nil
}
