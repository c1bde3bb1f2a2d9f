// Package pkg holds the libraries behind bpmnlayout, an automatic layout
// engine for BPMN process diagrams.
//
// # Overview
//
// A process is a directed graph of flow elements (events, activities,
// gateways) joined by sequence flows. bpmnlayout places those elements left
// to right in flow order and writes the result back as BPMN diagram
// interchange:
//
//	BPMN XML or graph JSON
//	         ↓
//	    [bpmn] / [graph] (parse into a [dag.DAG])
//	         ↓
//	    [layout] (graphviz → native → grid fallback chain)
//	         ↓
//	    [bpmn] (inject shapes and waypoints) / [render] (SVG, PNG, PDF)
//
// # Quick Start
//
//	doc, _ := bpmn.ParseBytes(src)
//	g, _ := doc.Graph()
//	res := layout.Compute(ctx, g, layout.Options{})
//	out, _ := bpmn.Inject(src, doc, graph.NewLayout(g, res, 1.5, layout.RouteStraight), bpmn.InjectOptions{})
//
// For a bare node list, [layout.ComputeNodes] maps ids and categories to
// top-left coordinates and never fails.
//
// # Packages
//
// [dag] - The process graph: nodes with categories and sizes, directed
// edges, crossing counts.
//
// [dag/transform] - Cycle breaking, longest-path layering and barycenter
// crossing reduction.
//
// [layout] - Layout tiers, coordinate assignment and edge routing. Graphviz
// is tried first when enabled, the native layered layout next, and a grid
// always succeeds.
//
// [bpmn] - BPMN 2.0 parsing and diagram interchange injection.
//
// [graph] - JSON node-link input and the serialized layout.
//
// [render] - SVG drawing and PNG/PDF conversion. [render/nodelink] writes
// DOT for Graphviz.
//
// [pipeline] - Load → layout → render with caching, shared by the CLI and
// the HTTP server.
//
// [cache] - Cache backends (memory, file, SQLite, Redis, MongoDB) and key
// derivation.
//
// [observability] - Hooks for metrics and tracing.
//
// [errors] - Coded errors with HTTP status mapping and input validation.
//
// [buildinfo] - Version information.
//
// [dag]: https://pkg.go.dev/github.com/matzehuels/bpmnlayout/pkg/dag
// [dag/transform]: https://pkg.go.dev/github.com/matzehuels/bpmnlayout/pkg/dag/transform
// [layout]: https://pkg.go.dev/github.com/matzehuels/bpmnlayout/pkg/layout
// [layout.ComputeNodes]: https://pkg.go.dev/github.com/matzehuels/bpmnlayout/pkg/layout#ComputeNodes
// [bpmn]: https://pkg.go.dev/github.com/matzehuels/bpmnlayout/pkg/bpmn
// [graph]: https://pkg.go.dev/github.com/matzehuels/bpmnlayout/pkg/graph
// [render]: https://pkg.go.dev/github.com/matzehuels/bpmnlayout/pkg/render
// [render/nodelink]: https://pkg.go.dev/github.com/matzehuels/bpmnlayout/pkg/render/nodelink
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/bpmnlayout/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/bpmnlayout/pkg/cache
// [observability]: https://pkg.go.dev/github.com/matzehuels/bpmnlayout/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/bpmnlayout/pkg/errors
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/bpmnlayout/pkg/buildinfo
// [dag.DAG]: https://pkg.go.dev/github.com/matzehuels/bpmnlayout/pkg/dag#DAG
package pkg
