// Package crates provides an HTTP client for the crates.io API.
//
// cargo-ebuild only needs one endpoint, the metadata of an exact published
// version, to fill in licenses when resolving from Cargo.lock without
// `cargo metadata`:
//
//	client := crates.NewClient(cache)
//	v, err := client.FetchVersion(ctx, "serde", "1.0.200", false)
//	fmt.Println(v.License) // MIT OR Apache-2.0
//
// Responses are cached under the "crates:" namespace. The client sends the
// User-Agent header crates.io requires of API consumers.
package crates
