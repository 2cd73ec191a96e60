// Package pkg provides the libraries behind cargo-ebuild.
//
// # Overview
//
// cargo-ebuild turns a Cargo project into a Gentoo ebuild that lists every
// crate the build may download, the licenses that cover them and the
// project metadata. The pkg directory is organized by pipeline stage:
//
//  1. [cargo] - Manifest discovery, workspace inheritance and Cargo.lock parsing
//  2. [deps] - Resolved dependency graphs and crate classification
//  3. [license] - License expression normalization
//  4. [ebuild] - Ebuild assembly, rendering and writing
//  5. [pipeline] - Orchestration (locate → resolve → classify → assemble → write)
//
// # Architecture
//
// The typical data flow:
//
//	Cargo.toml / Cargo.lock
//	         ↓
//	    [cargo] package (find the manifest and workspace root)
//	         ↓
//	    [deps/rust] package (cargo metadata or Cargo.lock + crates.io)
//	         ↓
//	    [deps] + [license] packages (CRATES lines and LICENSE atoms)
//	         ↓
//	    [ebuild] package (record + template)
//	         ↓
//	    <name>-<version>.ebuild
//
// # Quick Start
//
//	import (
//	    "github.com/matzehuels/cargo-ebuild/pkg/pipeline"
//	)
//
//	resolver, err := pipeline.NewResolver(pipeline.ResolverMetadata, nil)
//	if err != nil {
//	    return err
//	}
//	result, err := pipeline.NewRunner(resolver, nil).Run(ctx, pipeline.Options{})
//	if err != nil {
//	    return err
//	}
//	fmt.Println("Wrote:", result.Path)
//
// # Supporting Packages
//
// [dag] - The directed acyclic graph every resolution is exposed as.
//
// [io] - JSON import and export of resolved graphs.
//
// [render/nodelink] - Graphviz DOT and SVG rendering of resolved graphs.
//
// [integrations] - HTTP client base and the crates.io API client used by
// the lockfile resolver.
//
// [httputil] - File-backed response cache and retry helpers.
//
// [observability] - Hooks for tracing resolution, rendering, cache and HTTP
// activity.
//
// [errors] - Coded errors shared by all packages.
//
// [buildinfo] - Version information stamped into generated ebuilds.
//
// [cargo]: https://pkg.go.dev/github.com/matzehuels/cargo-ebuild/pkg/cargo
// [deps]: https://pkg.go.dev/github.com/matzehuels/cargo-ebuild/pkg/deps
// [deps/rust]: https://pkg.go.dev/github.com/matzehuels/cargo-ebuild/pkg/deps/rust
// [license]: https://pkg.go.dev/github.com/matzehuels/cargo-ebuild/pkg/license
// [ebuild]: https://pkg.go.dev/github.com/matzehuels/cargo-ebuild/pkg/ebuild
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/cargo-ebuild/pkg/pipeline
// [dag]: https://pkg.go.dev/github.com/matzehuels/cargo-ebuild/pkg/dag
// [io]: https://pkg.go.dev/github.com/matzehuels/cargo-ebuild/pkg/io
// [render/nodelink]: https://pkg.go.dev/github.com/matzehuels/cargo-ebuild/pkg/render/nodelink
// [integrations]: https://pkg.go.dev/github.com/matzehuels/cargo-ebuild/pkg/integrations
// [httputil]: https://pkg.go.dev/github.com/matzehuels/cargo-ebuild/pkg/httputil
// [observability]: https://pkg.go.dev/github.com/matzehuels/cargo-ebuild/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/cargo-ebuild/pkg/errors
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/cargo-ebuild/pkg/buildinfo
package pkg
