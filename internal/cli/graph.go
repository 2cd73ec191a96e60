package cli

import (
	"bytes"
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/cargo-ebuild/pkg/dag"
	"github.com/matzehuels/cargo-ebuild/pkg/errors"
	graphio "github.com/matzehuels/cargo-ebuild/pkg/io"
	"github.com/matzehuels/cargo-ebuild/pkg/render/nodelink"
)

// Graph export formats.
const (
	formatJSON = "json"
	formatDOT  = "dot"
	formatSVG  = "svg"
)

type graphOptions struct {
	format   string
	output   string
	input    string
	detailed bool
}

// graphCommand creates the graph export command.
func (c *CLI) graphCommand() *cobra.Command {
	var opts graphOptions

	cmd := &cobra.Command{
		Use:   "graph",
		Short: "Export the resolved dependency graph",
		Long: `Export the complete resolved dependency graph, including path members and
dev-dependencies, as JSON, Graphviz DOT or SVG.

A JSON export can be rendered again later with --input, without running cargo.`,
		Example: `  cargo-ebuild graph > deps.json
  cargo-ebuild graph --format svg -o deps.svg
  cargo-ebuild graph --input deps.json --format dot`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runGraph(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.format, "format", "f", formatJSON, "output format: json, dot or svg")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().StringVar(&opts.input, "input", "", "render a previously exported JSON graph instead of resolving")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "include package metadata in DOT and SVG labels")

	return cmd
}

func (c *CLI) runGraph(ctx context.Context, opts graphOptions) error {
	switch opts.format {
	case formatJSON, formatDOT, formatSVG:
	default:
		return errors.New(errors.ErrCodeInvalidInput, "invalid format %q: must be json, dot or svg", opts.format)
	}

	g, err := c.loadGraph(ctx, opts.input)
	if err != nil {
		return err
	}

	data, err := encodeGraph(ctx, g, opts)
	if err != nil {
		return err
	}

	if opts.output == "" {
		_, err := stdout.Write(data)
		return err
	}
	if err := os.WriteFile(opts.output, data, 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeWriteFailed, err, "failed to write %s", opts.output)
	}
	printSuccess("Wrote: %s", opts.output)
	printStats(count(g.NodeCount(), "package", "packages"), count(g.EdgeCount(), "edge", "edges"))
	return nil
}

// loadGraph reads an exported graph, or resolves the project when input is
// empty.
func (c *CLI) loadGraph(ctx context.Context, input string) (*dag.DAG, error) {
	if input != "" {
		g, err := graphio.ImportJSON(input)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "cannot read graph")
		}
		return g, nil
	}

	opts, err := c.pipelineOptions("")
	if err != nil {
		return nil, err
	}
	runner, err := c.newRunner()
	if err != nil {
		return nil, err
	}

	prog := newProgress(loggerFromContext(ctx))
	spinner := c.startSpinner(ctx, "Resolving dependencies...")
	res, err := runner.Resolve(ctx, opts)
	spinner.Stop()
	if err != nil {
		return nil, err
	}
	for _, w := range res.Warnings {
		c.Logger.Warn(w)
	}
	prog.done(fmt.Sprintf("Resolved %d packages", len(res.Packages)))
	return res.Graph, nil
}

func encodeGraph(ctx context.Context, g *dag.DAG, opts graphOptions) ([]byte, error) {
	switch opts.format {
	case formatDOT:
		return []byte(nodelink.ToDOT(g, nodelink.Options{Detailed: opts.detailed})), nil
	case formatSVG:
		svg, err := nodelink.RenderSVG(ctx, nodelink.ToDOT(g, nodelink.Options{Detailed: opts.detailed}))
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "cannot render graph")
		}
		return svg, nil
	}
	var buf bytes.Buffer
	if err := graphio.WriteJSON(g, &buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "cannot encode graph")
	}
	return buf.Bytes(), nil
}
