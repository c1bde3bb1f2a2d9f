// Package bpmn reads process structure from BPMN 2.0 XML and writes computed
// layouts back as diagram interchange (DI).
//
// [Parse] walks the document with encoding/xml and collects every flow
// element and sequence flow inside process elements, nested sub-processes
// included. [Document.Graph] turns that into a [dag.DAG] ready for
// layout.Compute.
//
// [Inject] splices a BPMNDiagram section into the original bytes: one
// BPMNShape per placed element and one BPMNEdge per sequence flow, with the
// waypoints of the layout's routes. The rest of the document is not
// re-serialized, so comments, attribute order and formatting survive.
//
//	doc, _ := bpmn.ParseBytes(src)
//	g, _ := doc.Graph()
//	res := layout.Compute(ctx, g, layout.Options{})
//	out, _ := bpmn.Inject(src, doc, graph.NewLayout(g, res, 1.5, layout.RouteStraight), bpmn.InjectOptions{})
//
// Documents that already contain shapes and edges are left alone unless
// [InjectOptions.Force] is set.
package bpmn
