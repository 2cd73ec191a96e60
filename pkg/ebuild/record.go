package ebuild

import (
	"slices"
	"strings"

	"github.com/matzehuels/cargo-ebuild/pkg/deps"
	"github.com/matzehuels/cargo-ebuild/pkg/license"
)

// Metadata is the root package information that ends up in the ebuild.
type Metadata struct {
	Name        string
	Version     string
	Description string
	Homepage    string
	Repository  string
}

// Input gathers everything [Assemble] derives a [Record] from.
type Input struct {
	Package         Metadata
	Crates          deps.Classification
	Licenses        license.Result
	Settings        Settings
	ProviderVersion string // cargo-ebuild version stamped in the header
	Year            int    // Copyright year
}

// Record is the finished ebuild content. It is built once by [Assemble]
// and only read afterwards.
type Record struct {
	Name            string
	Version         string
	Description     string
	Homepage        string
	License         string
	Crates          string   // Sorted crate lines, each terminated by "\n"
	CrateCount      int      // Lines in Crates
	AlternateCrates []string // "name-version (index)" crates CRATES cannot express
	GitSources      []string // Git repositories that CRATES cannot express
	LicenseFiles    []string // Packages licensed by file only
	Settings        Settings
	ProviderVersion string
	Year            int
}

// Assemble builds the ebuild record. It performs no I/O.
//
// Fields fall back in order: the description defaults to the package name;
// the homepage to the repository, then to ""; the license to
// [license.Unknown]. All strings are whitespace-trimmed.
func Assemble(in Input) Record {
	pkg := in.Package
	name := strings.TrimSpace(pkg.Name)

	description := strings.TrimSpace(pkg.Description)
	if description == "" {
		description = name
	}
	homepage := strings.TrimSpace(pkg.Homepage)
	if homepage == "" {
		homepage = strings.TrimSpace(pkg.Repository)
	}

	lic := license.Unknown
	if in.Licenses.Atoms != nil {
		lic = strings.TrimSpace(in.Licenses.Atoms.Summary())
	}

	var crates strings.Builder
	for _, line := range in.Crates.Lines() {
		crates.WriteString(line)
		crates.WriteByte('\n')
	}

	return Record{
		Name:            name,
		Version:         strings.TrimSpace(pkg.Version),
		Description:     description,
		Homepage:        homepage,
		License:         lic,
		Crates:          crates.String(),
		CrateCount:      in.Crates.CrateCount,
		AlternateCrates: in.Crates.AlternateLines(),
		GitSources:      slices.Clone(in.Crates.GitSources),
		LicenseFiles:    slices.Clone(in.Licenses.FileOnly),
		Settings:        in.Settings.WithDefaults(),
		ProviderVersion: strings.TrimSpace(in.ProviderVersion),
		Year:            in.Year,
	}
}

// FileName returns "<name>-<version>.ebuild".
func (r *Record) FileName() string {
	return r.Name + "-" + r.Version + ".ebuild"
}
