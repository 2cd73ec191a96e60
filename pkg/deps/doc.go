// Package deps turns a resolved cargo dependency graph into the crate list
// an ebuild needs.
//
// # Resolution
//
// A [Resolver] (see package rust) returns a [Resolution]: every package of
// the workspace's full, all-features dependency graph as an immutable
// [ResolvedPackage], sorted by package ID, plus a [dag.DAG] view for export.
//
// # Origins
//
// Each package carries exactly one [Origin], parsed from cargo's source id
// by [ParseSource]:
//
//	registry+https://github.com/rust-lang/crates.io-index  OriginDefaultRegistry
//	sparse+https://index.crates.io/                        OriginDefaultRegistry
//	registry+https://my-intranet/index                     OriginAlternateRegistry
//	git+https://github.com/o/r?rev=abc#abc                 OriginGit
//	path+file:///src/demo, or no source                    OriginPath
//
// # Classification
//
// [Classify] drops the root package and all path packages, then switches
// over [OriginKind]:
//
//   - default registry: a "name-version" [CrateLine] for CRATES
//   - alternate registry: a [CrateLine] in Classification.Alternate, the
//     index URL in Classification.Registries and a warning; the cargo
//     eclass cannot fetch these, so they stay out of CRATES
//   - git: no line, the repository URL in Classification.GitSources
//   - unknown: a warning, the package is excluded
//
// Lines are sorted, so two runs over the same graph produce identical
// output regardless of how the resolver ordered its packages.
package deps
