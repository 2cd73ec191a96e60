package cargo

import (
	"os"
	"path/filepath"
	"slices"

	"github.com/matzehuels/cargo-ebuild/pkg/errors"
)

// LockfileName is the file name of cargo's lock-state.
const LockfileName = "Cargo.lock"

// Workspace is the located project: the selected manifest plus the manifest
// of the workspace it belongs to (which may be the same file).
type Workspace struct {
	ManifestPath     string    // Absolute path of the selected Cargo.toml
	Manifest         *Manifest // Decoded selected manifest
	RootManifestPath string    // Absolute path of the workspace root Cargo.toml
	RootManifest     *Manifest // Decoded workspace root manifest
}

// Open locates and decodes the manifest for dir (or override) and its
// workspace root.
func Open(dir, override string) (*Workspace, error) {
	path, err := Locate(dir, override)
	if err != nil {
		return nil, err
	}
	m, err := ReadManifest(path)
	if err != nil {
		return nil, err
	}
	rootPath, rootManifest, err := FindWorkspaceRoot(path, m)
	if err != nil {
		return nil, err
	}
	return &Workspace{
		ManifestPath:     path,
		Manifest:         m,
		RootManifestPath: rootPath,
		RootManifest:     rootManifest,
	}, nil
}

// Root returns the workspace root directory.
func (w *Workspace) Root() string { return filepath.Dir(w.RootManifestPath) }

// LockfilePath returns where Cargo.lock lives for this workspace.
func (w *Workspace) LockfilePath() string { return filepath.Join(w.Root(), LockfileName) }

// HasLockfile reports whether the lock-state exists.
func (w *Workspace) HasLockfile() bool {
	info, err := os.Stat(w.LockfilePath())
	return err == nil && !info.IsDir()
}

// Metadata is the root package metadata with workspace inheritance applied.
type Metadata struct {
	Name        string
	Version     string
	Description string
	Homepage    string
	Repository  string
	License     string
	LicenseFile string
}

// Current returns the metadata of the selected package. A virtual workspace
// manifest has no current package and yields a MISSING_ROOT error.
func (w *Workspace) Current() (*Metadata, error) {
	pkg := w.Manifest.Package
	if pkg == nil || pkg.Name == "" {
		return nil, errors.New(errors.ErrCodeMissingRoot,
			"manifest path `%s` is a virtual manifest, but this command requires running against an actual package in this workspace", w.ManifestPath)
	}

	var inherited WorkspaceSection
	if w.RootManifest != nil && w.RootManifest.Workspace != nil {
		inherited = *w.RootManifest.Workspace
	}
	pick := func(f Field, fallback string) string {
		if f.Workspace {
			return fallback
		}
		return f.Value
	}

	meta := &Metadata{
		Name:        pkg.Name,
		Version:     pick(pkg.Version, inherited.Package.Version),
		Description: pick(pkg.Description, inherited.Package.Description),
		Homepage:    pick(pkg.Homepage, inherited.Package.Homepage),
		Repository:  pick(pkg.Repository, inherited.Package.Repository),
		License:     pick(pkg.License, inherited.Package.License),
		LicenseFile: pick(pkg.LicenseFile, inherited.Package.LicenseFile),
	}
	if meta.Version == "" {
		// cargo treats a missing version as 0.0.0 since 1.75
		meta.Version = "0.0.0"
	}
	return meta, nil
}

// PathDependencies returns the `path = "..."` entries of all dependency
// tables, resolved against the manifest's directory. The result is sorted
// and duplicate-free.
func (m *Manifest) PathDependencies(manifestPath string) []string {
	dir := filepath.Dir(manifestPath)
	seen := map[string]struct{}{}
	for _, table := range []map[string]any{m.Dependencies, m.DevDependencies, m.BuildDependencies} {
		for _, spec := range table {
			t, ok := spec.(map[string]any)
			if !ok {
				continue
			}
			if p, ok := t["path"].(string); ok && p != "" {
				seen[filepath.Clean(filepath.Join(dir, p))] = struct{}{}
			}
		}
	}
	return sortedPaths(seen)
}

// DevOnlyDependencies returns the package names that appear in
// [dev-dependencies] but in neither [dependencies] nor
// [build-dependencies], sorted. Renamed entries (`package = "..."`) are
// reported under the package name, which is what Cargo.lock records.
func (m *Manifest) DevOnlyDependencies() []string {
	other := map[string]struct{}{}
	for _, table := range []map[string]any{m.Dependencies, m.BuildDependencies} {
		for key, spec := range table {
			other[packageName(key, spec)] = struct{}{}
		}
	}
	dev := map[string]struct{}{}
	for key, spec := range m.DevDependencies {
		name := packageName(key, spec)
		if _, ok := other[name]; !ok {
			dev[name] = struct{}{}
		}
	}
	return sortedPaths(dev)
}

func packageName(key string, spec any) string {
	if t, ok := spec.(map[string]any); ok {
		if p, ok := t["package"].(string); ok && p != "" {
			return p
		}
	}
	return key
}

// LocalManifests returns the manifests of every package that can be
// reached locally: the workspace members (glob patterns expanded), and the
// path dependencies of the selected and root manifests. Paths that do not
// contain a Cargo.toml are skipped.
func (w *Workspace) LocalManifests() []string {
	seen := map[string]struct{}{}
	add := func(dir string) {
		p := filepath.Join(dir, ManifestName)
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			seen[p] = struct{}{}
		}
	}

	root := w.Root()
	if ws := w.RootManifest.Workspace; ws != nil {
		for _, pattern := range ws.Members {
			matches, err := filepath.Glob(filepath.Join(root, pattern))
			if err != nil {
				continue
			}
			for _, m := range matches {
				if !excluded(root, m, ws.Exclude) {
					add(m)
				}
			}
		}
	}
	for _, p := range w.Manifest.PathDependencies(w.ManifestPath) {
		add(p)
	}
	for _, p := range w.RootManifest.PathDependencies(w.RootManifestPath) {
		add(p)
	}
	delete(seen, w.ManifestPath)
	return sortedPaths(seen)
}

func sortedPaths(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for p := range set {
		out = append(out, p)
	}
	slices.Sort(out)
	return out
}
