package pipeline

import (
	"context"
	"os"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/cargo-ebuild/pkg/cargo"
	"github.com/matzehuels/cargo-ebuild/pkg/deps"
	"github.com/matzehuels/cargo-ebuild/pkg/ebuild"
	"github.com/matzehuels/cargo-ebuild/pkg/errors"
	"github.com/matzehuels/cargo-ebuild/pkg/license"
	"github.com/matzehuels/cargo-ebuild/pkg/observability"
)

// Runner executes the pipeline with one resolver.
//
// The Runner keeps no state between runs. Multiple goroutines can use the
// same Runner with different options as long as they write to different
// outputs.
type Runner struct {
	Resolver deps.Resolver
	Logger   *log.Logger
	Getenv   func(string) string // Environment lookup for SOURCE_DATE_EPOCH (default: os.Getenv)
	Now      func() time.Time    // Clock for the copyright year (default: time.Now)
}

// NewRunner creates a runner. If logger is nil, log.Default() is used.
func NewRunner(resolver deps.Resolver, logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Resolver: resolver,
		Logger:   logger,
		Getenv:   os.Getenv,
		Now:      time.Now,
	}
}

// Run executes the complete pipeline and writes the ebuild.
//
// Fatal errors are returned unchanged; no file is written when any stage
// before the write fails. Non-fatal problems are collected in
// Result.Warnings for the caller to report.
func (r *Runner) Run(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	year, err := r.year(opts)
	if err != nil {
		return nil, err
	}

	result := &Result{}

	// Stage 1 + 2: Locate and resolve
	resolveStart := time.Now()
	res, err := r.Resolve(ctx, opts)
	if err != nil {
		return nil, err
	}
	root, ok := res.RootPackage()
	if !ok {
		return nil, errors.New(errors.ErrCodeMissingRoot, "root package %s is missing from the resolution", res.Root)
	}
	result.Resolution = res
	result.Stats.ResolveTime = time.Since(resolveStart)
	result.Stats.PackageCount = len(res.Packages)
	result.Warnings = append(result.Warnings, res.Warnings...)

	r.Logger.Info("resolved dependencies",
		"resolver", r.Resolver.Name(),
		"packages", len(res.Packages),
		"duration", result.Stats.ResolveTime)

	// Stage 3: Classify crates and collect licenses over the same set
	crates := deps.Classify(res)
	licenses := license.Collect(licenseSources(res))
	result.Warnings = append(result.Warnings, crates.Warnings...)
	result.Warnings = append(result.Warnings, licenses.Warnings...)
	result.Stats.CrateCount = crates.CrateCount
	observability.Pipeline().OnClassify(ctx, crates.CrateCount, len(result.Warnings))

	r.Logger.Debug("classified packages",
		"crates", len(crates.Crates),
		"alternate", len(crates.Alternate),
		"registries", len(crates.Registries),
		"git", len(crates.GitSources),
		"licenses", licenses.Atoms.Len())

	// Stage 4: Assemble
	result.Record = ebuild.Assemble(ebuild.Input{
		Package: ebuild.Metadata{
			Name:        root.Name,
			Version:     root.Version,
			Description: root.Description,
			Homepage:    root.Homepage,
			Repository:  root.Repository,
		},
		Crates:          crates,
		Licenses:        licenses,
		Settings:        opts.Settings,
		ProviderVersion: opts.ProviderVersion,
		Year:            year,
	})

	// Stage 5: Render and write
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	result.Path = ebuild.Path(result.Record, opts.Output)
	renderStart := time.Now()
	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, result.Path)
	err = ebuild.Write(result.Path, result.Record)
	result.Stats.RenderTime = time.Since(renderStart)
	hooks.OnRenderComplete(ctx, result.Path, result.Stats.RenderTime, err)
	if err != nil {
		return nil, err
	}

	r.Logger.Info("wrote ebuild",
		"path", result.Path,
		"crates", result.Stats.CrateCount,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// Resolve locates the manifest and resolves its dependency graph without
// writing anything.
func (r *Runner) Resolve(ctx context.Context, opts Options) (*deps.Resolution, error) {
	if r.Resolver == nil {
		return nil, errors.New(errors.ErrCodeInternal, "pipeline: no resolver configured")
	}
	if opts.Dir == "" {
		opts.Dir = "."
	}
	if opts.Deps.Logger == nil {
		opts.Deps.Logger = r.Logger.Infof
	}

	ws, err := cargo.Open(opts.Dir, opts.ManifestPath)
	if err != nil {
		return nil, err
	}
	r.Logger.Debug("located manifest",
		"manifest", ws.ManifestPath,
		"workspace", ws.Root())

	return r.Resolver.Resolve(ctx, ws, opts.Deps)
}

func (r *Runner) year(opts Options) (int, error) {
	if opts.Year > 0 {
		return opts.Year, nil
	}
	getenv, now := r.Getenv, r.Now
	if getenv == nil {
		getenv = os.Getenv
	}
	if now == nil {
		now = time.Now
	}
	return ebuild.CopyrightYear(getenv, now())
}

// licenseSources lists every resolved package, root and path packages
// included.
func licenseSources(res *deps.Resolution) []license.Source {
	sources := make([]license.Source, 0, len(res.Packages))
	for _, p := range res.Packages {
		sources = append(sources, license.Source{
			Name:        p.Name,
			Expression:  p.License,
			LicenseFile: p.LicenseFile,
		})
	}
	return sources
}
