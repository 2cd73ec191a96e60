package cli

import (
	"context"
	"time"

	"github.com/matzehuels/cargo-ebuild/pkg/license"
)

// runEbuild generates the ebuild for the project in the working directory.
func (c *CLI) runEbuild(ctx context.Context, output string) error {
	logger := loggerFromContext(ctx)

	opts, err := c.pipelineOptions(output)
	if err != nil {
		return err
	}
	runner, err := c.newRunner()
	if err != nil {
		return err
	}

	spinner := c.startSpinner(ctx, "Resolving dependencies...")
	result, err := runner.Run(ctx, opts)
	spinner.Stop()
	if err != nil {
		return err
	}

	for _, w := range result.Warnings {
		logger.Warn(w)
	}

	printSuccess("Wrote: %s", result.Path)
	if !c.quiet {
		licenses := 0
		if result.Record.License != license.Unknown {
			licenses = len(license.Split(result.Record.License))
		}
		printStats(
			count(result.Stats.CrateCount, "crate", "crates"),
			count(licenses, "license", "licenses"),
			(result.Stats.ResolveTime + result.Stats.RenderTime).Round(time.Millisecond).String(),
		)
	}
	if n := len(result.Warnings); n > 0 && !c.quiet {
		printWarning("%s, review the generated ebuild", count(n, "warning", "warnings"))
	}
	return nil
}

// startSpinner shows a spinner at the default verbosity only; with -v the
// log lines already report progress.
func (c *CLI) startSpinner(ctx context.Context, message string) *Spinner {
	if c.verbose > 0 || c.quiet {
		return nil
	}
	return startSpinner(ctx, message)
}
