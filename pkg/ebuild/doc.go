// Package ebuild assembles and renders the Gentoo ebuild for a cargo
// project.
//
// [Assemble] merges the root package metadata, the classified crate list
// and the aggregated license set into an immutable [Record]. [Render] turns
// a record into text with an embedded text/template; it has no other
// input, so the same record always yields the same bytes. [Write] puts the
// result at [Path]:
//
//	rec := ebuild.Assemble(ebuild.Input{
//	    Package:  ebuild.Metadata{Name: "demo", Version: "1.2.3"},
//	    Crates:   deps.Classify(res),
//	    Licenses: license.Collect(sources),
//	    Settings: ebuild.DefaultSettings(),
//	    Year:     2025,
//	})
//	err := ebuild.Write(ebuild.Path(rec, ""), rec) // demo-1.2.3.ebuild
//
// [Settings] holds what cannot be derived from Cargo.toml: EAPI, inherited
// eclasses, SLOT, KEYWORDS, IUSE, RESTRICT and the dependency variables.
package ebuild
