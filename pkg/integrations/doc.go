// Package integrations provides the HTTP plumbing for registry API clients.
//
// [Client] wraps an [http.Client] with the on-disk [httputil.Cache], the
// retry policy of [httputil.Retry] and default headers. Registry-specific
// clients embed it; the only one cargo-ebuild needs is [crates], used by the
// lock file resolver to look up licenses of pinned crate versions:
//
//	cache, _ := httputil.NewCache("", 24*time.Hour)
//	c := crates.NewClient(cache)
//	v, err := c.FetchVersion(ctx, "serde", "1.0.200", false)
//
// Errors are classified as [ErrNotFound] (404) or [ErrNetwork] (connection
// failures and unexpected statuses). Connection failures, 429 and 5xx are
// retried.
package integrations
