package crates

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/matzehuels/cargo-ebuild/pkg/buildinfo"
	"github.com/matzehuels/cargo-ebuild/pkg/httputil"
	"github.com/matzehuels/cargo-ebuild/pkg/integrations"
)

// DefaultBaseURL is the crates.io API root.
const DefaultBaseURL = "https://crates.io/api/v1"

// VersionInfo is the published metadata of one crate version.
//
// License is the SPDX expression from the crate's manifest at publish time
// (e.g., "MIT OR Apache-2.0"); it is empty for crates that only ship a
// license file. The remaining fields may be empty on older versions.
type VersionInfo struct {
	Name        string `json:"name"`
	Version     string `json:"version"`
	License     string `json:"license,omitempty"`
	Description string `json:"description,omitempty"`
	Homepage    string `json:"homepage,omitempty"`
	Repository  string `json:"repository,omitempty"`
	Yanked      bool   `json:"yanked,omitempty"`
}

// Client provides access to the crates.io API with caching and retries.
// It is safe for concurrent use.
type Client struct {
	*integrations.Client
	baseURL string
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL points the client at another API root, such as a mirror or a
// test server.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimSuffix(u, "/") }
}

// NewClient creates a crates.io client. cache may be nil to disable caching;
// entries are stored under the "crates:" namespace.
func NewClient(cache *httputil.Cache, opts ...Option) *Client {
	if cache != nil {
		cache = cache.Namespace("crates:")
	}
	headers := map[string]string{"User-Agent": buildinfo.UserAgent()}
	c := &Client{
		Client:  integrations.NewClient(cache, "crates", headers),
		baseURL: DefaultBaseURL,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FetchVersion retrieves the metadata of crate at an exact version.
//
// Published versions are immutable, so cached entries are reused until the
// cache TTL expires; refresh forces a new request.
//
// Returns [integrations.ErrNotFound] if the crate or version does not
// exist, [integrations.ErrNetwork] for HTTP failures.
func (c *Client) FetchVersion(ctx context.Context, crate, version string, refresh bool) (*VersionInfo, error) {
	if crate == "" || version == "" {
		return nil, fmt.Errorf("crates: name and version are required")
	}

	var info VersionInfo
	err := c.Cached(ctx, crate+"@"+version, refresh, &info, func() error {
		return c.fetchVersion(ctx, crate, version, &info)
	})
	if err != nil {
		return nil, err
	}
	return &info, nil
}

func (c *Client) fetchVersion(ctx context.Context, crate, version string, info *VersionInfo) error {
	u := fmt.Sprintf("%s/crates/%s/%s", c.baseURL, url.PathEscape(crate), url.PathEscape(version))

	var data versionResponse
	if err := c.Get(ctx, u, &data); err != nil {
		if errors.Is(err, integrations.ErrNotFound) {
			return fmt.Errorf("%w: crate %s %s", err, crate, version)
		}
		return err
	}

	v := data.Version
	*info = VersionInfo{
		Name:        v.Crate,
		Version:     v.Num,
		License:     strings.TrimSpace(v.License),
		Description: strings.TrimSpace(v.Description),
		Homepage:    v.Homepage,
		Repository:  v.Repository,
		Yanked:      v.Yanked,
	}
	if info.Name == "" {
		info.Name = crate
	}
	if info.Version == "" {
		info.Version = version
	}
	return nil
}

type versionResponse struct {
	Version struct {
		Crate       string `json:"crate"`
		Num         string `json:"num"`
		License     string `json:"license"`
		Description string `json:"description"`
		Homepage    string `json:"homepage"`
		Repository  string `json:"repository"`
		Yanked      bool   `json:"yanked"`
	} `json:"version"`
}
