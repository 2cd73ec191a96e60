package cargo

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/cargo-ebuild/pkg/errors"
)

// ManifestName is the file name of a cargo manifest.
const ManifestName = "Cargo.toml"

// Field is a manifest string field that may instead be inherited from the
// workspace root with `field.workspace = true`.
type Field struct {
	Value     string
	Workspace bool
}

// UnmarshalTOML implements toml.Unmarshaler.
func (f *Field) UnmarshalTOML(v any) error {
	switch t := v.(type) {
	case string:
		f.Value = t
	case map[string]any:
		ws, _ := t["workspace"].(bool)
		if !ws {
			return fmt.Errorf("unsupported table value %v", t)
		}
		f.Workspace = true
	default:
		return fmt.Errorf("unsupported value of type %T", v)
	}
	return nil
}

// Package is the [package] table of a manifest.
type Package struct {
	Name        string `toml:"name"`
	Version     Field  `toml:"version"`
	Description Field  `toml:"description"`
	Homepage    Field  `toml:"homepage"`
	Repository  Field  `toml:"repository"`
	License     Field  `toml:"license"`
	LicenseFile Field  `toml:"license-file"`
	Workspace   string `toml:"workspace"` // explicit path to the workspace root
}

// WorkspaceSection is the [workspace] table of a manifest.
type WorkspaceSection struct {
	Members []string `toml:"members"`
	Exclude []string `toml:"exclude"`
	Package struct {
		Version     string `toml:"version"`
		Description string `toml:"description"`
		Homepage    string `toml:"homepage"`
		Repository  string `toml:"repository"`
		License     string `toml:"license"`
		LicenseFile string `toml:"license-file"`
	} `toml:"package"`
}

// Manifest is the subset of Cargo.toml cargo-ebuild needs.
type Manifest struct {
	Package           *Package          `toml:"package"`
	Workspace         *WorkspaceSection `toml:"workspace"`
	Dependencies      map[string]any    `toml:"dependencies"`
	DevDependencies   map[string]any    `toml:"dev-dependencies"`
	BuildDependencies map[string]any    `toml:"build-dependencies"`
}

// IsVirtual reports whether the manifest declares a workspace without a package.
func (m *Manifest) IsVirtual() bool { return m.Package == nil && m.Workspace != nil }

// ReadManifest decodes the manifest at path.
func ReadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeManifestNotFound, err, "could not find %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidManifest, err, "failed to read %s", path)
	}
	return ParseManifest(data, path)
}

// ParseManifest decodes manifest bytes. path is only used in error messages.
func ParseManifest(data []byte, path string) (*Manifest, error) {
	var m Manifest
	if err := toml.Unmarshal(data, &m); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidManifest, err, "failed to parse manifest at %s", path)
	}
	if m.Package == nil && m.Workspace == nil {
		return nil, errors.New(errors.ErrCodeInvalidManifest, "manifest at %s has neither [package] nor [workspace]", path)
	}
	return &m, nil
}

// Locate returns the absolute path of the manifest to use. When override is
// set it must name an existing file (or a directory holding Cargo.toml).
// Otherwise the nearest Cargo.toml at or above dir is returned.
func Locate(dir, override string) (string, error) {
	if override != "" {
		path, err := filepath.Abs(override)
		if err != nil {
			return "", errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid manifest path %q", override)
		}
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			path = filepath.Join(path, ManifestName)
		}
		if _, err := os.Stat(path); err != nil {
			return "", errors.Wrap(errors.ErrCodeManifestNotFound, err, "manifest path `%s` does not exist", override)
		}
		return path, nil
	}

	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid directory %q", dir)
	}
	for d := dir; ; d = filepath.Dir(d) {
		candidate := filepath.Join(d, ManifestName)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, nil
		}
		if parent := filepath.Dir(d); parent == d {
			break
		}
	}
	return "", errors.New(errors.ErrCodeManifestNotFound, "could not find `%s` in `%s` or any parent directory", ManifestName, dir)
}

// FindWorkspaceRoot returns the path of the manifest that defines the
// workspace containing manifestPath. A manifest with a [workspace] table is
// its own root; an explicit package.workspace key wins over the search;
// otherwise parents are searched for a [workspace] that does not exclude
// the package. A package outside any workspace is its own root.
func FindWorkspaceRoot(manifestPath string, m *Manifest) (string, *Manifest, error) {
	if m.Workspace != nil {
		return manifestPath, m, nil
	}
	pkgDir := filepath.Dir(manifestPath)

	if m.Package != nil && m.Package.Workspace != "" {
		root := filepath.Join(pkgDir, m.Package.Workspace, ManifestName)
		rm, err := ReadManifest(root)
		if err != nil {
			return "", nil, err
		}
		return root, rm, nil
	}

	for d := filepath.Dir(pkgDir); ; d = filepath.Dir(d) {
		candidate := filepath.Join(d, ManifestName)
		if _, err := os.Stat(candidate); err == nil {
			rm, err := ReadManifest(candidate)
			if err != nil {
				return "", nil, err
			}
			if rm.Workspace != nil && !excluded(d, pkgDir, rm.Workspace.Exclude) {
				return candidate, rm, nil
			}
		}
		if parent := filepath.Dir(d); parent == d {
			break
		}
	}
	return manifestPath, m, nil
}

func excluded(rootDir, pkgDir string, exclude []string) bool {
	rel, err := filepath.Rel(rootDir, pkgDir)
	if err != nil {
		return false
	}
	rel = filepath.ToSlash(rel)
	return slices.ContainsFunc(exclude, func(e string) bool {
		e = filepath.ToSlash(filepath.Clean(e))
		return rel == e || len(rel) > len(e) && rel[:len(e)+1] == e+"/"
	})
}
