// Package io provides JSON import and export for resolved dependency graphs.
//
// # Overview
//
// The graph command of cargo-ebuild exports the full resolution, dev-only
// packages and path members included, so it can be inspected or fed to
// other tools. A previously exported file can be read back and rendered
// without running cargo again.
//
// # JSON Format
//
// The format has an optional root and two required arrays:
//
//	{
//	  "root": "demo 1.2.3",
//	  "nodes": [
//	    {"id": "demo 1.2.3", "meta": {"name": "demo", "version": "1.2.3", "origin": "path"}},
//	    {"id": "left-pad 1.0.0 (registry+...)", "meta": {"name": "left-pad", "license": "MIT"}}
//	  ],
//	  "edges": [
//	    {"from": "demo 1.2.3", "to": "left-pad 1.0.0 (registry+...)"}
//	  ]
//	}
//
// Node IDs are cargo package IDs and are opaque. Nodes and edges are written
// in the DAG's deterministic order, so exporting the same resolution twice
// produces identical files.
//
// # Metadata Keys
//
// Nodes built from a resolution carry:
//
//   - name, version: Crate name and exact version
//   - origin: "registry", "alternate-registry", "path", "git" or "unknown"
//   - source: Index URL, repository URL or path
//   - license, license_file: License expression or file reference
//   - description, repository: Package metadata
//
// # Import
//
// [ReadJSON] and [ImportJSON] validate the structure: duplicate node IDs,
// edges to unknown nodes and cycles are rejected with an error naming the
// offending node or edge.
package io
