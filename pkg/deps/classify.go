package deps

import (
	"fmt"
	"slices"
	"strings"
)

// CrateLine is one registry crate of the resolution.
type CrateLine struct {
	Name     string
	Version  string
	Registry string // Alternate registry index URL; empty for crates.io
}

// String renders "name-version", the CRATES form, or
// "name-version (index)" for crates from an alternate registry. The cargo
// eclass only fetches from crates.io, so the latter never goes into CRATES.
func (c CrateLine) String() string {
	s := c.Name + "-" + c.Version
	if c.Registry != "" {
		s += " (" + c.Registry + ")"
	}
	return s
}

// Classification is the filtered view of a resolution that ends up in the
// ebuild. All slices are sorted.
type Classification struct {
	Crates     []CrateLine // crates.io crates, sorted by String()
	CrateCount int         // len(Crates)
	Alternate  []CrateLine // Alternate registry crates, sorted by String()
	Registries []string    // Distinct alternate registry index URLs
	GitSources []string    // Distinct git repository URLs
	Warnings   []string    // Non-fatal problems, one per affected package
}

// Lines returns the rendered CRATES lines in order.
func (c *Classification) Lines() []string { return crateStrings(c.Crates) }

// AlternateLines returns the rendered alternate registry crates in order.
func (c *Classification) AlternateLines() []string { return crateStrings(c.Alternate) }

func crateStrings(crates []CrateLine) []string {
	lines := make([]string, len(crates))
	for i, cl := range crates {
		lines[i] = cl.String()
	}
	return lines
}

// Classify filters the resolution down to the crates that must be fetched.
// The root package and path packages are dropped, crates.io crates become
// CRATES lines, alternate registry crates and git packages are reported
// separately with a warning each, and packages of unknown origin produce a
// warning. The result depends only on each package's own origin, never on
// the order of res.Packages.
func Classify(res *Resolution) Classification {
	var (
		out        Classification
		registries = map[string]struct{}{}
		gits       = map[string]struct{}{}
	)

	for _, p := range res.Packages {
		if p.ID == res.Root {
			continue
		}
		switch p.Origin.Kind {
		case OriginPath:
			continue
		case OriginDefaultRegistry:
			out.Crates = append(out.Crates, CrateLine{Name: p.Name, Version: p.Version})
		case OriginAlternateRegistry:
			out.Alternate = append(out.Alternate, CrateLine{Name: p.Name, Version: p.Version, Registry: p.Origin.URL})
			registries[p.Origin.URL] = struct{}{}
			out.Warnings = append(out.Warnings,
				fmt.Sprintf("%s %s: alternate registry %s is not supported by CRATES and must be fetched manually", p.Name, p.Version, p.Origin.URL))
		case OriginGit:
			gits[p.Origin.URL] = struct{}{}
			out.Warnings = append(out.Warnings,
				fmt.Sprintf("%s %s: git source %s cannot be listed in CRATES and must be fetched manually", p.Name, p.Version, p.Origin.URL))
		case OriginUnknown:
			out.Warnings = append(out.Warnings,
				fmt.Sprintf("%s %s: unclassifiable package origin %q, excluded", p.Name, p.Version, p.Origin.URL))
		default:
			panic(fmt.Sprintf("deps: unhandled origin kind %d", p.Origin.Kind))
		}
	}

	out.Crates = sortedCrates(out.Crates)
	out.Alternate = sortedCrates(out.Alternate)
	out.CrateCount = len(out.Crates)
	out.Registries = sortedKeys(registries)
	out.GitSources = sortedKeys(gits)
	slices.Sort(out.Warnings)
	return out
}

func sortedCrates(crates []CrateLine) []CrateLine {
	slices.SortFunc(crates, func(a, b CrateLine) int { return strings.Compare(a.String(), b.String()) })
	return slices.CompactFunc(crates, func(a, b CrateLine) bool { return a == b })
}

func sortedKeys(m map[string]struct{}) []string {
	if len(m) == 0 {
		return nil
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
