package io

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/cargo-ebuild/pkg/dag"
)

func demoGraph(t *testing.T) *dag.DAG {
	t.Helper()
	g := dag.New(dag.Metadata{"root": "demo 1.2.3"})
	for _, n := range []dag.Node{
		{ID: "demo 1.2.3", Meta: dag.Metadata{"name": "demo", "version": "1.2.3", "origin": "path"}},
		{ID: "left-pad 1.0.0", Meta: dag.Metadata{"name": "left-pad", "version": "1.0.0", "license": "MIT"}},
	} {
		if err := g.AddNode(n); err != nil {
			t.Fatal(err)
		}
	}
	if err := g.AddEdge(dag.Edge{From: "demo 1.2.3", To: "left-pad 1.0.0"}); err != nil {
		t.Fatal(err)
	}
	return g
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSON(demoGraph(t), &buf); err != nil {
		t.Fatalf("WriteJSON() error = %v", err)
	}
	out := buf.String()
	for _, want := range []string{`"root": "demo 1.2.3"`, `"license": "MIT"`, `"from": "demo 1.2.3"`} {
		if !strings.Contains(out, want) {
			t.Errorf("WriteJSON() output missing %s:\n%s", want, out)
		}
	}

	// Deterministic output.
	var again bytes.Buffer
	_ = WriteJSON(demoGraph(t), &again)
	if buf.String() != again.String() {
		t.Error("WriteJSON() output is not deterministic")
	}
}

func TestExportImportJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "graph.json")
	if err := ExportJSON(demoGraph(t), path); err != nil {
		t.Fatalf("ExportJSON() error = %v", err)
	}
	g, err := ImportJSON(path)
	if err != nil {
		t.Fatalf("ImportJSON() error = %v", err)
	}
	if g.Meta()["root"] != "demo 1.2.3" {
		t.Errorf("root = %v", g.Meta()["root"])
	}
	if diff := cmp.Diff([]string{"left-pad 1.0.0"}, g.Children("demo 1.2.3")); diff != "" {
		t.Errorf("children mismatch (-want +got):\n%s", diff)
	}
	n, _ := g.Node("left-pad 1.0.0")
	if n.Label() != "left-pad 1.0.0" {
		t.Errorf("Label() = %q", n.Label())
	}
}

func TestReadJSONErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  error
	}{
		{"duplicate node", `{"nodes":[{"id":"a"},{"id":"a"}],"edges":[]}`, dag.ErrDuplicateNodeID},
		{"empty id", `{"nodes":[{"id":""}],"edges":[]}`, dag.ErrInvalidNodeID},
		{"unknown target", `{"nodes":[{"id":"a"}],"edges":[{"from":"a","to":"b"}]}`, dag.ErrUnknownTargetNode},
		{"cycle", `{"nodes":[{"id":"a"},{"id":"b"}],"edges":[{"from":"a","to":"b"},{"from":"b","to":"a"}]}`, dag.ErrGraphHasCycle},
		{"unknown root", `{"root":"x","nodes":[{"id":"a"}],"edges":[]}`, ErrUnknownRoot},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadJSON(strings.NewReader(tt.input))
			if !errors.Is(err, tt.want) {
				t.Errorf("ReadJSON() error = %v, want %v", err, tt.want)
			}
		})
	}

	if _, err := ReadJSON(strings.NewReader("{")); err == nil {
		t.Error("ReadJSON() accepted malformed JSON")
	}
	if _, err := ImportJSON(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("ImportJSON() accepted a missing file")
	}
}
