// Package nodelink renders resolved dependency graphs as node-link diagrams.
//
// # Usage
//
// Convert a DAG to DOT format, then render to SVG:
//
//	dot := nodelink.ToDOT(res.Graph, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// # Styling
//
// Nodes are labelled "name version" and styled by origin so the packages
// that end up in CRATES stand out from those that do not:
//
//   - the root package has a thick outline
//   - path packages have dashed outlines
//   - alternate-registry crates are light blue
//   - git packages are orange
//   - packages of unknown origin are red
//
// With Options.Detailed set, labels also list every metadata key.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering; no Graphviz installation is required.
package nodelink
