// Package rust resolves the complete dependency graph of a cargo workspace.
//
// Two [deps.Resolver] implementations are provided:
//
//   - [MetadataResolver] runs `cargo metadata --format-version 1
//     --all-features` and decodes its JSON. This is the default: cargo
//     reports licenses for every package and applies its own resolution.
//   - [LockfileResolver] reads Cargo.lock and the local manifests directly
//     and looks up registry licenses on crates.io. Useful when the cargo
//     installed is too old for the project's manifest, or to avoid
//     downloading sources.
//
// Both generate Cargo.lock with `cargo generate-lockfile` when it is
// missing, and both work from a workspace member directory. Cargo is found
// through [CargoBinary]; every invocation is bounded by deps.Options.Timeout
// and reported as a TIMEOUT error when it expires.
//
// Tests substitute the [Runner] so cargo is never executed:
//
//	r := &rust.MetadataResolver{Run: func(ctx context.Context, dir, name string, args ...string) ([]byte, error) {
//	    return fixture, nil
//	}}
package rust
