// Package cli implements the cargo-ebuild command-line interface.
//
// The root command generates an ebuild for the Cargo project in the working
// directory. It runs standalone (cargo-ebuild) or as a cargo subcommand
// (cargo ebuild), in which case cargo passes "ebuild" as the first argument;
// [Args] strips it.
//
// # Commands
//
//   - (root): Resolve dependencies and write <name>-<version>.ebuild
//   - graph: Export the resolved dependency graph as JSON, DOT or SVG
//   - cache: Inspect or clear the crates.io response cache
//   - completion: Generate shell completion scripts
//
// # Configuration
//
// Settings are read, in increasing precedence, from cargo-ebuild.toml (in
// the working directory or the user config directory), CARGO_EBUILD_*
// environment variables and command-line flags. The [ebuild] table of the
// config file sets the ebuild variables:
//
//	resolver = "lockfile"
//	timeout = "5m"
//
//	[ebuild]
//	eapi = "8"
//	keywords = ["~amd64", "~arm64"]
//	depend = "dev-libs/openssl:="
//
// RDEPEND repeats DEPEND unless rdepend is set or depend_is_rdepend = false.
//
// # Logging
//
// Warnings are shown by default. -v enables info logging, -vv debug logging
// with cache and HTTP tracing, -q limits output to errors.
package cli

import (
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/matzehuels/cargo-ebuild/pkg/buildinfo"
	"github.com/matzehuels/cargo-ebuild/pkg/deps"
	"github.com/matzehuels/cargo-ebuild/pkg/httputil"
	"github.com/matzehuels/cargo-ebuild/pkg/pipeline"
)

const (
	// envPrefix prefixes environment overrides, e.g. CARGO_EBUILD_RESOLVER.
	envPrefix = "CARGO_EBUILD"

	// configName is the config file name without extension.
	configName = buildinfo.Name

	// subcommandArg is the argument cargo passes when run as "cargo ebuild".
	subcommandArg = "ebuild"
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	config      *viper.Viper
	newResolver func(name string, cache *httputil.Cache) (deps.Resolver, error)

	// Persistent flag values
	configFile string
	verbose    int
	quiet      bool
}

// New creates a new CLI instance logging to w.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger:      newLogger(w, level),
		config:      viper.New(),
		newResolver: pipeline.NewResolver,
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// Args strips the leading "ebuild" argument cargo passes to external
// subcommands.
func Args(args []string) []string {
	if len(args) > 0 && args[0] == subcommandArg {
		return args[1:]
	}
	return args
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	var output string

	root := &cobra.Command{
		Use:   "cargo-ebuild",
		Short: "Generate a Gentoo ebuild from a Cargo project",
		Long: `cargo-ebuild resolves the complete dependency graph of a Cargo project and
writes a Gentoo ebuild listing every crate version, the union of all crate
licenses and the project metadata.`,
		Version:       buildinfo.ResolvedVersion(),
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.setup(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runEbuild(cmd.Context(), output)
		},
	}
	root.SetVersionTemplate(buildinfo.Template())

	pf := root.PersistentFlags()
	pf.CountVarP(&c.verbose, "verbose", "v", "increase logging (-v info, -vv debug)")
	pf.BoolVarP(&c.quiet, "quiet", "q", false, "only log errors")
	pf.StringVar(&c.configFile, "config", "", "config file (default: ./cargo-ebuild.toml)")
	pf.String("manifest-path", "", "path to Cargo.toml")
	pf.String("resolver", pipeline.DefaultResolver, "dependency resolver: metadata or lockfile")
	pf.Bool("frozen", false, "require Cargo.lock and cache are up to date")
	pf.Bool("locked", false, "require Cargo.lock is up to date")
	pf.Bool("offline", false, "run without accessing the network")
	pf.StringArrayP("unstable", "Z", nil, "unstable (nightly-only) flags to cargo")
	pf.Duration("timeout", deps.DefaultTimeout, "time limit for each cargo invocation")
	pf.Bool("no-cache", false, "disable the crates.io response cache")
	pf.Bool("refresh", false, "ignore cached crates.io responses")
	c.bindFlags(pf)

	root.Flags().StringVarP(&output, "output", "o", "", "output file or directory (default: <name>-<version>.ebuild)")

	root.AddCommand(c.graphCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// setup runs before every command: it loads the configuration, applies the
// log level and attaches the logger to the command context.
func (c *CLI) setup(cmd *cobra.Command) error {
	if err := c.initConfig(); err != nil {
		return err
	}
	level := logLevel(c.verbose, c.quiet)
	c.SetLogLevel(level)
	if level <= log.DebugLevel {
		installLogHooks(c.Logger)
	}
	cmd.SetContext(withLogger(cmd.Context(), c.Logger))
	return nil
}

// configKey maps a flag name to its config and environment key.
func configKey(flag string) string {
	return strings.ReplaceAll(flag, "-", "_")
}
