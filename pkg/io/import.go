package io

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/cargo-ebuild/pkg/dag"
)

// ErrUnknownRoot is returned when the root field names no node.
var ErrUnknownRoot = errors.New("root is not a node of the graph")

// ReadJSON decodes a JSON graph from r into a DAG.
//
// Each node must have an "id" field; "meta" is optional. Each edge must
// reference known node IDs. A top-level "root" is kept as the graph's
// "root" metadata.
//
// ReadJSON returns an error if the JSON is malformed, a node ID is empty or
// duplicated, an edge references an unknown node, the root is unknown, or
// the graph has a cycle. Errors wrap the [dag] sentinel errors and
// [ErrUnknownRoot], so errors.Is works on them.
// ReadJSON does not close r.
func ReadJSON(r io.Reader) (*dag.DAG, error) {
	var data graph
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}

	meta := dag.Metadata{}
	if data.Root != "" {
		meta["root"] = data.Root
	}
	g := dag.New(meta)
	for _, n := range data.Nodes {
		if err := g.AddNode(dag.Node{ID: n.ID, Meta: n.Meta}); err != nil {
			return nil, fmt.Errorf("node %s: %w", n.ID, err)
		}
	}
	for _, e := range data.Edges {
		if err := g.AddEdge(dag.Edge{From: e.From, To: e.To}); err != nil {
			return nil, fmt.Errorf("edge %s->%s: %w", e.From, e.To, err)
		}
	}
	if err := g.Validate(); err != nil {
		return nil, err
	}
	if data.Root != "" {
		if _, ok := g.Node(data.Root); !ok {
			return nil, fmt.Errorf("root %s: %w", data.Root, ErrUnknownRoot)
		}
	}
	return g, nil
}

// ImportJSON reads a JSON file at path and returns the decoded DAG.
func ImportJSON(path string) (*dag.DAG, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	g, err := ReadJSON(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return g, nil
}
