package cli

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/matzehuels/cargo-ebuild/pkg/buildinfo"
	"github.com/matzehuels/cargo-ebuild/pkg/deps"
	"github.com/matzehuels/cargo-ebuild/pkg/ebuild"
	"github.com/matzehuels/cargo-ebuild/pkg/errors"
	"github.com/matzehuels/cargo-ebuild/pkg/httputil"
	"github.com/matzehuels/cargo-ebuild/pkg/pipeline"
)

// Config keys that have no flag.
const (
	keyCargo    = "cargo"
	keyCacheTTL = "cache_ttl"
	keyEbuild   = "ebuild"
)

// bindFlags binds every flag in fs to the config key of the same name, so a
// flag that is not set on the command line falls back to the environment,
// then the config file, then the flag default.
func (c *CLI) bindFlags(fs *pflag.FlagSet) {
	fs.VisitAll(func(f *pflag.Flag) {
		switch f.Name {
		case "verbose", "quiet", "config":
			return
		}
		_ = c.config.BindPFlag(configKey(f.Name), f)
	})
}

// initConfig reads the config file and enables environment overrides. A
// missing default config file is not an error; an explicit --config that
// cannot be read is.
func (c *CLI) initConfig() error {
	v := c.config
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()
	v.SetDefault(keyCacheTTL, deps.DefaultCacheTTL)

	if c.configFile != "" {
		v.SetConfigFile(c.configFile)
		if err := v.ReadInConfig(); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidInput, err, "failed to read config file %s", c.configFile)
		}
		return nil
	}

	v.SetConfigName(configName)
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	if dir, err := os.UserConfigDir(); err == nil {
		v.AddConfigPath(filepath.Join(dir, buildinfo.Name))
	}
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil
		}
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "failed to read config file")
	}
	c.Logger.Debug("loaded config", "file", v.ConfigFileUsed())
	return nil
}

// depsOptions builds the cargo invocation settings.
func (c *CLI) depsOptions() deps.Options {
	v := c.config
	return deps.Options{
		Cargo:         v.GetString(keyCargo),
		Timeout:       v.GetDuration("timeout"),
		Frozen:        v.GetBool("frozen"),
		Locked:        v.GetBool("locked"),
		Offline:       v.GetBool("offline"),
		UnstableFlags: v.GetStringSlice("unstable"),
		CacheTTL:      v.GetDuration(keyCacheTTL),
		Refresh:       v.GetBool("refresh"),
	}
}

// settings returns the ebuild variables: the defaults overlaid with the
// [ebuild] config table.
func (c *CLI) settings() (ebuild.Settings, error) {
	s := ebuild.DefaultSettings()
	if !c.config.IsSet(keyEbuild) {
		return s, nil
	}
	if err := c.config.UnmarshalKey(keyEbuild, &s); err != nil {
		return s, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid [ebuild] configuration")
	}
	return s, s.Validate()
}

// pipelineOptions assembles the options of one run.
func (c *CLI) pipelineOptions(output string) (pipeline.Options, error) {
	settings, err := c.settings()
	if err != nil {
		return pipeline.Options{}, err
	}
	if output == "" {
		output = c.config.GetString("output")
	}
	return pipeline.Options{
		Dir:             ".",
		ManifestPath:    c.config.GetString("manifest_path"),
		Output:          output,
		Deps:            c.depsOptions(),
		Settings:        settings,
		ProviderVersion: buildinfo.ProviderVersion(),
	}, nil
}

// newRunner creates a pipeline runner with the configured resolver. Only
// the lockfile resolver talks to crates.io, so only it gets a cache.
func (c *CLI) newRunner() (*pipeline.Runner, error) {
	name := c.config.GetString("resolver")
	var cache *httputil.Cache
	if name == pipeline.ResolverLockfile {
		cache = c.openCache()
	}
	resolver, err := c.newResolver(name, cache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(resolver, c.Logger), nil
}

// openCache opens the crates.io response cache. The cache is skipped with
// --no-cache and when the cache directory cannot be determined.
func (c *CLI) openCache() *httputil.Cache {
	if c.config.GetBool("no_cache") {
		return nil
	}
	cache, err := httputil.NewCache("", c.config.GetDuration(keyCacheTTL))
	if err != nil {
		c.Logger.Debug("cache disabled", "error", err)
		return nil
	}
	return cache
}
