package ebuild

import (
	"slices"

	"github.com/matzehuels/cargo-ebuild/pkg/errors"
)

// Settings are the ebuild variables cargo-ebuild cannot derive from the
// project. They come from the [ebuild] table of cargo-ebuild.toml.
type Settings struct {
	EAPI            string   `mapstructure:"eapi"`
	Inherit         []string `mapstructure:"inherit"`
	Slot            string   `mapstructure:"slot"`
	Keywords        []string `mapstructure:"keywords"`
	IUse            []string `mapstructure:"iuse"`
	Restrict        []string `mapstructure:"restrict"`
	Depend          string   `mapstructure:"depend"`
	RDepend         string   `mapstructure:"rdepend"`
	BDepend         string   `mapstructure:"bdepend"`
	PDepend         string   `mapstructure:"pdepend"`
	DependIsRDepend bool     `mapstructure:"depend_is_rdepend"` // RDEPEND="${DEPEND}" when rdepend is unset
}

var supportedEAPIs = []string{"7", "8"}

// DefaultSettings returns the settings used when nothing is configured.
// Runtime dependencies mirror DEPEND unless configured otherwise.
func DefaultSettings() Settings {
	return Settings{
		EAPI:            "8",
		Inherit:         []string{"cargo"},
		Slot:            "0",
		Keywords:        []string{"~amd64"},
		Restrict:        []string{"mirror"},
		DependIsRDepend: true,
	}
}

// WithDefaults returns a copy with empty EAPI, inherit, slot and keywords
// taken from [DefaultSettings]. IUSE, RESTRICT and the dependency variables
// stay empty when unset.
func (s Settings) WithDefaults() Settings {
	d := DefaultSettings()
	if s.EAPI == "" {
		s.EAPI = d.EAPI
	}
	if len(s.Inherit) == 0 {
		s.Inherit = d.Inherit
	}
	if s.Slot == "" {
		s.Slot = d.Slot
	}
	if len(s.Keywords) == 0 {
		s.Keywords = d.Keywords
	}
	return s
}

// Validate checks that the settings describe an ebuild the cargo eclass
// supports.
func (s Settings) Validate() error {
	if !slices.Contains(supportedEAPIs, s.EAPI) {
		return errors.New(errors.ErrCodeInvalidInput, "unsupported EAPI %q (supported: %v)", s.EAPI, supportedEAPIs)
	}
	if !slices.Contains(s.Inherit, "cargo") {
		return errors.New(errors.ErrCodeInvalidInput, "inherit must include the cargo eclass, got %v", s.Inherit)
	}
	if s.Slot == "" {
		return errors.New(errors.ErrCodeInvalidInput, "SLOT must not be empty")
	}
	return nil
}

// rdepend is the effective RDEPEND value.
func (s Settings) rdepend() string {
	if s.RDepend == "" && s.DependIsRDepend && s.Depend != "" {
		return "${DEPEND}"
	}
	return s.RDepend
}
