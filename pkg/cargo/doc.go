// Package cargo locates and decodes cargo project files.
//
// # Locating a Project
//
// [Locate] mirrors cargo's own lookup: an explicit --manifest-path wins,
// otherwise the nearest Cargo.toml at or above the working directory is
// used. [Open] then finds the workspace root (see [FindWorkspaceRoot]) so
// the lock-state location is known even when running inside a member crate:
//
//	ws, err := cargo.Open(".", "")
//	if err != nil {
//	    return err
//	}
//	meta, err := ws.Current() // MISSING_ROOT for virtual manifests
//
// # Files
//
//   - Cargo.toml: [ReadManifest], with `field.workspace = true` inheritance
//     resolved by [Workspace.Current]
//   - Cargo.lock: [ReadLockfile] and [ParseDependencyRef]
//
// Decoding uses github.com/BurntSushi/toml.
package cargo
