package ebuild

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/cargo-ebuild/pkg/deps"
	"github.com/matzehuels/cargo-ebuild/pkg/errors"
	"github.com/matzehuels/cargo-ebuild/pkg/license"
)

func demoInput() Input {
	return Input{
		Package: Metadata{
			Name:        "demo",
			Version:     "1.2.3",
			Description: "  A demo crate\n",
			Repository:  "https://example.com/demo",
		},
		Crates: deps.Classification{
			Crates:     []deps.CrateLine{{Name: "left-pad", Version: "1.0.0"}},
			CrateCount: 1,
		},
		Licenses:        license.Collect([]license.Source{{Name: "left-pad", Expression: "MIT"}}),
		Settings:        DefaultSettings(),
		ProviderVersion: "0.6.0",
		Year:            2025,
	}
}

const demoEbuild = `# Copyright 2025 Gentoo Authors
# Distributed under the terms of the GNU General Public License v2

# Auto-Generated by cargo-ebuild 0.6.0

EAPI=8

CRATES="
left-pad-1.0.0
"

inherit cargo

DESCRIPTION="A demo crate"
# Double check the homepage as the cargo metadata
# may only provide the repository URL
HOMEPAGE="https://example.com/demo"
SRC_URI="${CARGO_CRATE_URIS}"

# License set may be more restrictive as OR is not respected
# use cargo-license for a more accurate license picture
LICENSE="MIT"
SLOT="0"
KEYWORDS="~amd64"
RESTRICT="mirror"
`

func TestAssembleFallbacks(t *testing.T) {
	tests := []struct {
		name         string
		pkg          Metadata
		licenses     license.Result
		wantDesc     string
		wantHomepage string
		wantLicense  string
	}{
		{
			name:         "all present",
			pkg:          Metadata{Name: "demo", Version: "1", Description: " d ", Homepage: " https://h ", Repository: "https://r"},
			licenses:     license.Collect([]license.Source{{Name: "a", Expression: "MIT/Apache-2.0"}}),
			wantDesc:     "d",
			wantHomepage: "https://h",
			wantLicense:  "Apache-2.0 MIT",
		},
		{
			name:         "repository as homepage",
			pkg:          Metadata{Name: "demo", Version: "1", Repository: "https://r"},
			wantDesc:     "demo",
			wantHomepage: "https://r",
			wantLicense:  license.Unknown,
		},
		{
			name:         "nothing",
			pkg:          Metadata{Name: "demo", Version: "1", Description: "   "},
			licenses:     license.Collect([]license.Source{{Name: "a", LicenseFile: "LICENSE"}}),
			wantDesc:     "demo",
			wantHomepage: "",
			wantLicense:  "unknown license",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := Assemble(Input{Package: tt.pkg, Licenses: tt.licenses})
			if rec.Description != tt.wantDesc {
				t.Errorf("Description = %q, want %q", rec.Description, tt.wantDesc)
			}
			if rec.Homepage != tt.wantHomepage {
				t.Errorf("Homepage = %q, want %q", rec.Homepage, tt.wantHomepage)
			}
			if rec.License != tt.wantLicense {
				t.Errorf("License = %q, want %q", rec.License, tt.wantLicense)
			}
		})
	}
}

func TestAssembleCrates(t *testing.T) {
	in := demoInput()
	in.Crates = deps.Classification{
		Crates:     []deps.CrateLine{{Name: "a", Version: "1.0.0"}},
		CrateCount: 1,
		Alternate:  []deps.CrateLine{{Name: "b", Version: "2.0.0", Registry: "https://alt/index"}},
		Registries: []string{"https://alt/index"},
		GitSources: []string{"https://github.com/o/patched"},
	}
	rec := Assemble(in)
	if want := "a-1.0.0\n"; rec.Crates != want {
		t.Errorf("Crates = %q, want %q", rec.Crates, want)
	}
	if rec.CrateCount != 1 {
		t.Errorf("CrateCount = %d, want 1", rec.CrateCount)
	}
	if diff := cmp.Diff([]string{"b-2.0.0 (https://alt/index)"}, rec.AlternateCrates); diff != "" {
		t.Errorf("AlternateCrates mismatch (-want +got):\n%s", diff)
	}

	in.Crates.GitSources[0] = "mutated"
	if rec.GitSources[0] != "https://github.com/o/patched" {
		t.Error("Record aliases the classification's slices")
	}

	if empty := Assemble(Input{Package: Metadata{Name: "x", Version: "1"}}); empty.Crates != "" {
		t.Errorf("Crates = %q for no dependencies, want empty", empty.Crates)
	}
}

func TestRenderDemo(t *testing.T) {
	got, err := Bytes(Assemble(demoInput()))
	require.NoError(t, err)
	if diff := cmp.Diff(demoEbuild, string(got)); diff != "" {
		t.Errorf("Render() mismatch (-want +got):\n%s", diff)
	}
}

func TestRenderDeterministic(t *testing.T) {
	rec := Assemble(demoInput())
	var a, b bytes.Buffer
	require.NoError(t, Render(&a, rec))
	require.NoError(t, Render(&b, rec))
	if !bytes.Equal(a.Bytes(), b.Bytes()) {
		t.Error("rendering the same record twice differs")
	}
}

func TestRenderOptionalSections(t *testing.T) {
	in := demoInput()
	in.Package.Description = `say "hi" for $5`
	in.Crates.Alternate = []deps.CrateLine{{Name: "internal", Version: "0.3.0", Registry: "https://alt/index"}}
	in.Crates.Registries = []string{"https://alt/index"}
	in.Crates.GitSources = []string{"https://github.com/o/patched"}
	in.Licenses = license.Collect([]license.Source{
		{Name: "left-pad", Expression: "MIT"},
		{Name: "odd", LicenseFile: "COPYING"},
	})
	in.Settings = Settings{
		EAPI:            "7",
		Inherit:         []string{"cargo", "desktop"},
		IUse:            []string{"doc"},
		Depend:          "dev-libs/openssl:=",
		BDepend:         "virtual/pkgconfig",
		DependIsRDepend: true,
	}

	got, err := Bytes(Assemble(in))
	require.NoError(t, err)
	out := string(got)

	for _, want := range []string{
		"EAPI=7\n",
		"must be added by hand:\n#\tinternal-0.3.0 (https://alt/index)\n",
		"#\thttps://github.com/o/patched\n",
		"inherit cargo desktop\n",
		`DESCRIPTION="say \"hi\" for \$5"`,
		`SRC_URI="$(cargo_crate_uris)"`,
		"LICENSE=\"MIT\"\n# The following crates ship their license as a file, review them by hand:\n#\todd\nSLOT=\"0\"\n",
		"IUSE=\"doc\"\n",
		"\n\nDEPEND=\"dev-libs/openssl:=\"\nRDEPEND=\"${DEPEND}\"\nBDEPEND=\"virtual/pkgconfig\"\n",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "internal-0.3.0\n") || strings.Contains(out, "@https://alt/index") {
		t.Errorf("alternate registry crate rendered as a CRATES entry:\n%s", out)
	}
	if strings.Contains(out, "RESTRICT=") || strings.Contains(out, "PDEPEND=") {
		t.Errorf("unset variables rendered:\n%s", out)
	}
}

func TestSettings(t *testing.T) {
	s := Settings{Keywords: []string{"~arm64"}}.WithDefaults()
	if s.EAPI != "8" || s.Slot != "0" || s.Inherit[0] != "cargo" || s.Keywords[0] != "~arm64" {
		t.Errorf("WithDefaults() = %+v", s)
	}
	require.NoError(t, DefaultSettings().Validate())

	d := DefaultSettings()
	if !d.DependIsRDepend {
		t.Error("DefaultSettings() must mirror DEPEND into RDEPEND")
	}
	if got := d.rdepend(); got != "" {
		t.Errorf("rdepend() = %q without DEPEND, want empty", got)
	}
	d.Depend = "dev-libs/openssl:="
	if got := d.rdepend(); got != "${DEPEND}" {
		t.Errorf("rdepend() = %q, want ${DEPEND}", got)
	}

	bad := []Settings{
		{EAPI: "5", Inherit: []string{"cargo"}, Slot: "0"},
		{EAPI: "8", Inherit: []string{"meson"}, Slot: "0"},
		{EAPI: "8", Inherit: []string{"cargo"}},
	}
	for _, s := range bad {
		if err := s.Validate(); !errors.Is(err, errors.ErrCodeInvalidInput) {
			t.Errorf("Validate(%+v) = %v, want INVALID_INPUT", s, err)
		}
	}
}

func TestPath(t *testing.T) {
	rec := Assemble(demoInput())
	dir := t.TempDir()

	tests := []struct {
		output string
		want   string
	}{
		{"", "demo-1.2.3.ebuild"},
		{dir, filepath.Join(dir, "demo-1.2.3.ebuild")},
		{filepath.Join(dir, "custom.ebuild"), filepath.Join(dir, "custom.ebuild")},
	}
	for _, tt := range tests {
		if got := Path(rec, tt.output); got != tt.want {
			t.Errorf("Path(%q) = %q, want %q", tt.output, got, tt.want)
		}
	}
}

func TestWriteTruncatesAndIsIdempotent(t *testing.T) {
	rec := Assemble(demoInput())
	path := filepath.Join(t.TempDir(), rec.FileName())
	require.NoError(t, os.WriteFile(path, bytes.Repeat([]byte("stale\n"), 500), 0o644))

	require.NoError(t, Write(path, rec))
	first, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NoError(t, Write(path, rec))
	second, err := os.ReadFile(path)
	require.NoError(t, err)

	if string(first) != demoEbuild {
		t.Errorf("Write() content mismatch:\n%s", first)
	}
	if !bytes.Equal(first, second) {
		t.Error("rewriting the same record changed the file")
	}
}

func TestWriteFailure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "demo-1.2.3.ebuild")
	err := Write(path, Assemble(demoInput()))
	if !errors.Is(err, errors.ErrCodeWriteFailed) {
		t.Errorf("Write() error = %v, want WRITE_FAILED", err)
	}
}

func TestCopyrightYear(t *testing.T) {
	now := time.Date(2031, 6, 1, 0, 0, 0, 0, time.UTC)
	env := func(v string) func(string) string {
		return func(string) string { return v }
	}

	if y, err := CopyrightYear(env(""), now); err != nil || y != 2031 {
		t.Errorf("CopyrightYear(unset) = %d, %v", y, err)
	}
	if y, err := CopyrightYear(env("1700000000"), now); err != nil || y != 2023 {
		t.Errorf("CopyrightYear(epoch) = %d, %v; want 2023", y, err)
	}
	if _, err := CopyrightYear(env("yesterday"), now); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("CopyrightYear(invalid) = %v, want INVALID_INPUT", err)
	}
}
