package cargo

import (
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/cargo-ebuild/pkg/errors"
)

// Lockfile is a decoded Cargo.lock.
type Lockfile struct {
	Version  int           `toml:"version"`
	Packages []LockPackage `toml:"package"`
}

// LockPackage is one [[package]] entry of Cargo.lock. Source is empty for
// path dependencies and workspace members.
type LockPackage struct {
	Name         string   `toml:"name"`
	Version      string   `toml:"version"`
	Source       string   `toml:"source"`
	Checksum     string   `toml:"checksum"`
	Dependencies []string `toml:"dependencies"`
}

// ReadLockfile decodes the Cargo.lock at path.
func ReadLockfile(path string) (*Lockfile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeResolution, err, "failed to read %s", path)
	}
	var lf Lockfile
	if err := toml.Unmarshal(data, &lf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeResolution, err, "failed to parse %s", path)
	}
	return &lf, nil
}

// DependencyRef is a parsed entry of LockPackage.Dependencies. Cargo writes
// "name", "name version" or "name version (source)" depending on whether the
// name alone is ambiguous within the lock file.
type DependencyRef struct {
	Name    string
	Version string
	Source  string
}

// ParseDependencyRef splits a Cargo.lock dependency string.
func ParseDependencyRef(s string) DependencyRef {
	var ref DependencyRef
	if i := strings.Index(s, " ("); i >= 0 && strings.HasSuffix(s, ")") {
		ref.Source = s[i+2 : len(s)-1]
		s = s[:i]
	}
	name, version, _ := strings.Cut(strings.TrimSpace(s), " ")
	ref.Name = name
	ref.Version = version
	return ref
}

// Matches reports whether p satisfies ref.
func (ref DependencyRef) Matches(p LockPackage) bool {
	if p.Name != ref.Name {
		return false
	}
	if ref.Version != "" && p.Version != ref.Version {
		return false
	}
	return ref.Source == "" || p.Source == ref.Source
}
