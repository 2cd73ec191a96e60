// Package license normalizes crate license expressions into atoms.
//
// Crates declare licenses either in the legacy slash form ("MIT/Apache-2.0")
// or as SPDX expressions ("MIT OR Apache-2.0", "MIT AND BSD-3-Clause").
// [Split] reduces both to the same atoms so that one license reached through
// different syntaxes in different crates aggregates to one entry, and [Set]
// keeps the project-wide collection sorted for deterministic output.
//
// Operators are not preserved: an ebuild LICENSE built from a [Set] lists
// every license that may apply, which can be more restrictive than the
// original OR expression.
package license

import (
	"fmt"
	"slices"
	"strings"
)

// Unknown is the license string used when no crate carried an expression.
const Unknown = "unknown license"

var operators = []string{" OR ", " AND "}

// Split breaks a license expression into atoms. The expression is first
// split on "/", then every segment on " OR " and " AND ". Tokens are trimmed
// of whitespace and enclosing parentheses; empty tokens are dropped.
func Split(expr string) []string {
	var atoms []string
	for _, segment := range strings.Split(expr, "/") {
		parts := []string{segment}
		for _, op := range operators {
			var next []string
			for _, p := range parts {
				next = append(next, strings.Split(p, op)...)
			}
			parts = next
		}
		for _, p := range parts {
			if atom := clean(p); atom != "" {
				atoms = append(atoms, atom)
			}
		}
	}
	return atoms
}

func clean(token string) string {
	return strings.TrimSpace(strings.Trim(strings.TrimSpace(token), "()"))
}

// Set is an ordered, duplicate-free collection of license atoms.
// The zero value is an empty set ready to use.
type Set struct {
	atoms []string
}

// NewSet returns a set holding the given atoms.
func NewSet(atoms ...string) *Set {
	s := &Set{}
	for _, a := range atoms {
		s.Add(a)
	}
	return s
}

// Add inserts atom keeping the set sorted. Empty atoms are ignored.
func (s *Set) Add(atom string) {
	if atom == "" {
		return
	}
	i, found := slices.BinarySearch(s.atoms, atom)
	if found {
		return
	}
	s.atoms = slices.Insert(s.atoms, i, atom)
}

// AddExpression splits expr and adds every atom.
func (s *Set) AddExpression(expr string) {
	for _, a := range Split(expr) {
		s.Add(a)
	}
}

// Len returns the number of atoms.
func (s *Set) Len() int { return len(s.atoms) }

// Atoms returns a copy of the atoms in sorted order.
func (s *Set) Atoms() []string { return slices.Clone(s.atoms) }

// Contains reports whether atom is in the set.
func (s *Set) Contains(atom string) bool {
	_, found := slices.BinarySearch(s.atoms, atom)
	return found
}

// String joins the atoms with a single space.
func (s *Set) String() string { return strings.Join(s.atoms, " ") }

// Summary returns String, or [Unknown] when the set is empty.
func (s *Set) Summary() string {
	if s.Len() == 0 {
		return Unknown
	}
	return s.String()
}

// Source is the license information of one resolved package.
type Source struct {
	Name        string // Package name, used in warnings
	Expression  string // License expression, may be empty
	LicenseFile string // License file reference, may be empty
}

// Result is the outcome of [Collect].
type Result struct {
	Atoms    *Set     // Aggregated atoms
	FileOnly []string // Sorted names of packages that only reference a license file
	Warnings []string // Human-readable warnings, sorted
}

// Collect aggregates the license atoms of all sources. Sources that only
// reference a license file cannot be represented as atoms; they are listed in
// FileOnly and produce a warning. Sources with neither field are skipped.
func Collect(sources []Source) Result {
	res := Result{Atoms: &Set{}}
	for _, src := range sources {
		switch {
		case strings.TrimSpace(src.Expression) != "":
			res.Atoms.AddExpression(src.Expression)
		case strings.TrimSpace(src.LicenseFile) != "":
			res.FileOnly = append(res.FileOnly, src.Name)
		}
	}
	slices.Sort(res.FileOnly)
	res.FileOnly = slices.Compact(res.FileOnly)
	for _, name := range res.FileOnly {
		res.Warnings = append(res.Warnings, fmt.Sprintf("%s: license is specified as a file, not included in LICENSE", name))
	}
	return res
}
