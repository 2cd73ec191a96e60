package pipeline

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/cargo-ebuild/pkg/cargo"
	"github.com/matzehuels/cargo-ebuild/pkg/deps"
	"github.com/matzehuels/cargo-ebuild/pkg/deps/rust"
	"github.com/matzehuels/cargo-ebuild/pkg/ebuild"
	"github.com/matzehuels/cargo-ebuild/pkg/errors"
)

const cratesIO = "registry+https://github.com/rust-lang/crates.io-index"

type fakeResolver struct {
	packages []deps.ResolvedPackage
	warnings []string
	err      error
	calls    int
	manifest string
}

func (f *fakeResolver) Name() string { return "fake" }

func (f *fakeResolver) Resolve(_ context.Context, ws *cargo.Workspace, _ deps.Options) (*deps.Resolution, error) {
	f.calls++
	f.manifest = ws.ManifestPath
	if f.err != nil {
		return nil, f.err
	}
	res := deps.NewResolution("demo 1.2.3", f.packages)
	res.Warnings = f.warnings
	return res, nil
}

func pkg(name, version, source, lic string) deps.ResolvedPackage {
	return deps.ResolvedPackage{
		ID:      name + " " + version,
		Name:    name,
		Version: version,
		Origin:  deps.ParseSource(source),
		License: lic,
	}
}

func demoPackages() []deps.ResolvedPackage {
	root := pkg("demo", "1.2.3", "", "")
	root.Repository = "https://example.com/demo"
	root.Dependencies = []string{"demo-core 0.1.0", "left-pad 1.0.0"}
	return []deps.ResolvedPackage{
		root,
		pkg("demo-core", "0.1.0", "path+file:///src/demo/demo-core", ""),
		pkg("left-pad", "1.0.0", cratesIO, "MIT"),
	}
}

func demoProject(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	manifest := "[package]\nname = \"demo\"\nversion = \"1.2.3\"\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Cargo.toml"), []byte(manifest), 0o644))
	return dir
}

func quietRunner(resolver deps.Resolver) *Runner {
	r := NewRunner(resolver, log.New(io.Discard))
	r.Getenv = func(string) string { return "" }
	r.Now = func() time.Time { return time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC) }
	return r
}

func TestRunDemo(t *testing.T) {
	dir := demoProject(t)
	out := t.TempDir()
	resolver := &fakeResolver{packages: demoPackages()}

	result, err := quietRunner(resolver).Run(context.Background(), Options{
		Dir:             dir,
		Output:          out,
		ProviderVersion: "0.6.0",
	})
	require.NoError(t, err)

	if result.Path != filepath.Join(out, "demo-1.2.3.ebuild") {
		t.Errorf("Path = %q", result.Path)
	}
	if resolver.manifest != filepath.Join(dir, "Cargo.toml") {
		t.Errorf("resolver saw manifest %q", resolver.manifest)
	}
	rec := result.Record
	if rec.Crates != "left-pad-1.0.0\n" {
		t.Errorf("Crates = %q, want %q", rec.Crates, "left-pad-1.0.0\n")
	}
	if rec.License != "MIT" {
		t.Errorf("License = %q, want MIT", rec.License)
	}
	if rec.Description != "demo" || rec.Homepage != "https://example.com/demo" {
		t.Errorf("Description/Homepage = %q/%q", rec.Description, rec.Homepage)
	}
	if rec.Year != 2025 {
		t.Errorf("Year = %d, want 2025", rec.Year)
	}
	if len(result.Warnings) != 0 {
		t.Errorf("Warnings = %v, want none", result.Warnings)
	}
	if result.Stats.PackageCount != 3 || result.Stats.CrateCount != 1 {
		t.Errorf("Stats = %+v", result.Stats)
	}

	data, err := os.ReadFile(result.Path)
	require.NoError(t, err)
	want, err := ebuild.Bytes(rec)
	require.NoError(t, err)
	if diff := cmp.Diff(string(want), string(data)); diff != "" {
		t.Errorf("written file mismatch (-want +got):\n%s", diff)
	}
	if !strings.Contains(string(data), "CRATES=\"\nleft-pad-1.0.0\n\"") {
		t.Errorf("CRATES block missing from:\n%s", data)
	}
	if strings.Contains(string(data), "demo-core") {
		t.Error("path package demo-core leaked into the ebuild")
	}
}

func TestRunIsIdempotent(t *testing.T) {
	dir := demoProject(t)
	output := filepath.Join(t.TempDir(), "out.ebuild")
	runner := quietRunner(&fakeResolver{packages: demoPackages()})
	opts := Options{Dir: dir, Output: output, ProviderVersion: "0.6.0"}

	_, err := runner.Run(context.Background(), opts)
	require.NoError(t, err)
	first, err := os.ReadFile(output)
	require.NoError(t, err)

	_, err = runner.Run(context.Background(), opts)
	require.NoError(t, err)
	second, err := os.ReadFile(output)
	require.NoError(t, err)

	if diff := cmp.Diff(string(first), string(second)); diff != "" {
		t.Errorf("second run differs (-first +second):\n%s", diff)
	}
}

func TestRunWarnings(t *testing.T) {
	packages := demoPackages()
	packages[1].LicenseFile = "LICENSE.txt"
	packages = append(packages,
		pkg("patched", "0.9.0", "git+https://github.com/o/patched#abc", "MIT"),
		pkg("odd", "1.0.0", "svn+https://example.com/odd", "Zlib"),
	)
	resolver := &fakeResolver{packages: packages, warnings: []string{"rand 0.7.3: license lookup failed"}}

	result, err := quietRunner(resolver).Run(context.Background(), Options{
		Dir:    demoProject(t),
		Output: t.TempDir(),
	})
	require.NoError(t, err)

	require.Len(t, result.Warnings, 4)
	for i, want := range []string{"license lookup failed", "unclassifiable package origin", "git source", "license is specified as a file"} {
		found := false
		for _, w := range result.Warnings {
			if strings.Contains(w, want) {
				found = true
			}
		}
		if !found {
			t.Errorf("warning %d %q missing from %v", i, want, result.Warnings)
		}
	}
	if diff := cmp.Diff([]string{"demo-core"}, result.Record.LicenseFiles); diff != "" {
		t.Errorf("LicenseFiles mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"https://github.com/o/patched"}, result.Record.GitSources); diff != "" {
		t.Errorf("GitSources mismatch (-want +got):\n%s", diff)
	}
	// Licenses of excluded packages still apply to the build.
	if result.Record.License != "MIT Zlib" {
		t.Errorf("License = %q, want %q", result.Record.License, "MIT Zlib")
	}
}

func TestRunErrorsWriteNothing(t *testing.T) {
	tests := []struct {
		name     string
		opts     Options
		err      error
		wantCode errors.Code
		resolves bool
	}{
		{
			name:     "resolution failure",
			err:      errors.New(errors.ErrCodeResolution, "cargo metadata failed"),
			wantCode: errors.ErrCodeResolution,
			resolves: true,
		},
		{
			name:     "invalid eapi",
			opts:     Options{Settings: ebuild.Settings{EAPI: "6"}},
			wantCode: errors.ErrCodeInvalidInput,
		},
		{
			name:     "missing manifest",
			opts:     Options{ManifestPath: "does/not/exist/Cargo.toml"},
			wantCode: errors.ErrCodeManifestNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := t.TempDir()
			resolver := &fakeResolver{packages: demoPackages(), err: tt.err}
			opts := tt.opts
			opts.Dir = demoProject(t)
			opts.Output = out

			_, err := quietRunner(resolver).Run(context.Background(), opts)
			if !errors.Is(err, tt.wantCode) {
				t.Fatalf("Run() error = %v, want code %s", err, tt.wantCode)
			}
			if (resolver.calls > 0) != tt.resolves {
				t.Errorf("resolver calls = %d", resolver.calls)
			}
			entries, err := os.ReadDir(out)
			require.NoError(t, err)
			if len(entries) != 0 {
				t.Errorf("output dir has %d entries after failure", len(entries))
			}
		})
	}
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	out := t.TempDir()

	_, err := quietRunner(&fakeResolver{packages: demoPackages()}).Run(ctx, Options{
		Dir:    demoProject(t),
		Output: out,
	})
	if err != context.Canceled {
		t.Fatalf("Run() error = %v, want context.Canceled", err)
	}
	entries, _ := os.ReadDir(out)
	if len(entries) != 0 {
		t.Error("cancelled run wrote a file")
	}
}

func TestRunSourceDateEpoch(t *testing.T) {
	runner := quietRunner(&fakeResolver{packages: demoPackages()})
	runner.Getenv = func(key string) string {
		if key == "SOURCE_DATE_EPOCH" {
			return "946684800"
		}
		return ""
	}

	result, err := runner.Run(context.Background(), Options{Dir: demoProject(t), Output: t.TempDir()})
	require.NoError(t, err)
	if result.Record.Year != 2000 {
		t.Errorf("Year = %d, want 2000", result.Record.Year)
	}

	runner.Getenv = func(string) string { return "yesterday" }
	_, err = runner.Run(context.Background(), Options{Dir: demoProject(t), Output: t.TempDir()})
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("invalid SOURCE_DATE_EPOCH error = %v", err)
	}
}

func TestNewResolver(t *testing.T) {
	tests := []struct {
		name    string
		want    string
		wantErr bool
	}{
		{"", ResolverMetadata, false},
		{ResolverMetadata, ResolverMetadata, false},
		{ResolverLockfile, ResolverLockfile, false},
		{"guess", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := NewResolver(tt.name, nil)
			if tt.wantErr {
				if !errors.Is(err, errors.ErrCodeInvalidInput) {
					t.Errorf("NewResolver(%q) error = %v", tt.name, err)
				}
				return
			}
			require.NoError(t, err)
			if r.Name() != tt.want {
				t.Errorf("Name() = %q, want %q", r.Name(), tt.want)
			}
		})
	}

	r, _ := NewResolver(ResolverLockfile, nil)
	if lr, ok := r.(*rust.LockfileResolver); !ok || lr.Crates == nil {
		t.Errorf("lockfile resolver has no crates.io client: %#v", r)
	}
}
