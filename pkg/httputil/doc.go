// Package httputil provides the on-disk cache and retry policy used by the
// crates.io client.
//
// # Caching
//
// [Cache] keeps JSON-encoded API responses under the user cache directory
// (~/.cache/cargo-ebuild by default) with a TTL. License lookups for a
// pinned crate version never change, so repeated runs against the same
// lock file are served entirely from disk:
//
//	cache, err := httputil.NewCache("", 24*time.Hour)
//	crates := cache.Namespace("crates:")
//
// `cargo-ebuild cache clear` calls [Cache.Clear].
//
// # Retry
//
// [Retry] re-runs a request on [RetryableError] (network failures and 5xx
// responses) with exponential backoff. Other errors, including 404, are
// returned immediately.
package httputil
