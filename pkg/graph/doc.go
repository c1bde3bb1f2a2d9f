// Package graph provides serialization types for process graphs and layouts.
//
// This package defines the canonical wire format for bpmnlayout's graph data,
// used for JSON files, API requests and responses, caching, and
// cross-tool interoperability.
//
// # Architecture
//
// The package sits at the serialization boundary between internal
// representations and external formats:
//
//   - [Graph], [Layout]: Serialization types (this package)
//   - pkg/dag.DAG: Internal graph representation
//   - pkg/layout.Result: Internal layout (positions, back edges, layers)
//
// Use [FromDAG]/[ToDAG] and [NewLayout] to convert between them.
//
// # Graph Serialization
//
// Graphs use a simple node-link JSON format:
//
//	{
//	  "nodes": [{"id": "start", "category": "startEvent"}, {"id": "review", "category": "userTask"}],
//	  "edges": [{"id": "f1", "from": "start", "to": "review"}]
//	}
//
// Common operations:
//
//	g, _ := graph.ReadGraphFile("order.json")   // File → DAG
//	graph.WriteGraphFile(g, "output.json")      // DAG → File
//	data, _ := graph.MarshalGraph(g)            // DAG → []byte
//	parsed, _ := graph.UnmarshalGraph(data)     // []byte → Graph
//
// # Layout Serialization
//
// A [Layout] carries placed boxes ([PlacedNode]), edge waypoints, the back
// edges removed to break cycles, and the fallback tier that produced it:
//
//	l := graph.NewLayout(g, layout.Compute(ctx, g, opts), 1.5, layout.RouteStraight)
//	data, _ := graph.MarshalLayout(l)
//
// All types carry bson tags so layouts can be stored in document caches
// unchanged.
//
// # Concurrency
//
// All functions are safe for concurrent reads but not concurrent writes.
package graph
