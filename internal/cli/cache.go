package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/cargo-ebuild/pkg/errors"
	"github.com/matzehuels/cargo-ebuild/pkg/httputil"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the crates.io response cache",
		Long: `Manage the crates.io response cache.

The lockfile resolver looks crate licenses up on crates.io and caches each
response for cache_ttl (default 24h).`,
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove all cached responses",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := httputil.DefaultDir()
			if err != nil {
				return errors.Wrap(errors.ErrCodeInternal, err, "cannot determine cache directory")
			}
			cache, err := httputil.NewCache(dir, 0)
			if err != nil {
				return errors.Wrap(errors.ErrCodeWriteFailed, err, "cannot open cache %s", dir)
			}
			n, err := cache.Clear()
			if err != nil {
				return errors.Wrap(errors.ErrCodeWriteFailed, err, "cannot clear cache %s", dir)
			}
			if n == 0 {
				printInfo("Cache is empty")
				return nil
			}
			printSuccess("Cleared %s", count(n, "cached entry", "cached entries"))
			printDetail("Directory: %s", dir)
			return nil
		},
	}
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache directory path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := httputil.DefaultDir()
			if err != nil {
				return errors.Wrap(errors.ErrCodeInternal, err, "cannot determine cache directory")
			}
			fmt.Fprintln(stdout, dir)
			return nil
		},
	}
}
