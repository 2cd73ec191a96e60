// Package dag provides the directed dependency graph produced by resolving a
// cargo workspace.
//
// # Overview
//
// Each node is one resolved package, keyed by its cargo package ID, with the
// crate name, version and origin stored in [Metadata]. Edges point from a
// package to the packages it depends on. Development-only edges are left out
// when the graph is built from cargo metadata, which keeps the graph acyclic;
// [DAG.Validate] reports a cycle if one slips through.
//
// # Basic Usage
//
//	g := dag.New(nil)
//	g.AddNode(dag.Node{ID: "demo 1.2.3", Meta: dag.Metadata{"name": "demo"}})
//	g.AddNode(dag.Node{ID: "left-pad 1.0.0"})
//	g.AddEdge(dag.Edge{From: "demo 1.2.3", To: "left-pad 1.0.0"})
//
// # Determinism
//
// [DAG.Nodes], [DAG.Edges], [DAG.Children] and [DAG.Parents] return sorted
// results regardless of insertion order, so every export of the same
// resolution is byte-identical.
//
// # Concurrency
//
// DAG is not safe for concurrent mutation. Build it on one goroutine, then
// share it read-only.
package dag
