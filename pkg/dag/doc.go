// Package dag provides the directed graph model used by the layout engine
// for process diagrams.
//
// # Overview
//
// A process diagram is a set of elements (events, tasks, gateways,
// sub-processes) connected by control-flow edges. Real processes loop: retry
// paths, escalations and exception handlers all point backwards. The graph
// therefore starts out cyclic, and the [transform] subpackage turns it into a
// DAG before layering.
//
// # Basic Usage
//
// Create a new graph with [New], add nodes with [DAG.AddNode], and edges with
// [DAG.AddEdge]. Nodes must have unique IDs and edges can only connect
// existing nodes:
//
//	g := dag.New(nil)
//	g.AddNode(dag.Node{ID: "start", Category: "startEvent"})
//	g.AddNode(dag.Node{ID: "review", Category: "userTask"})
//	g.AddEdge(dag.Edge{ID: "flow1", From: "start", To: "review"})
//
// Nodes are kept in insertion order. Every downstream stage iterates in that
// order, which is what makes layouts reproducible for identical input.
//
// # Categories
//
// A node's display size comes from its category. [SizeOf] maps a category
// name to one of a handful of sizes (events 36x36, tasks 100x80, gateways
// 50x50, sub-processes 150x120); unknown categories fall back to 100x80.
// [DAG.AddNode] applies the table when a node carries no explicit size.
//
// # Edge Crossings
//
// [CountCrossings] and [CountLayerCrossings] use a Fenwick tree to count
// inversions in O(E log V) time. The layout engine reports the final crossing
// count of every native layout.
//
// # Concurrency
//
// DAG instances are not safe for concurrent use. The layout engine never
// shares a graph between strategies; each one works on its own [DAG.Clone].
//
// [transform]: github.com/matzehuels/bpmnlayout/pkg/dag/transform
package dag
