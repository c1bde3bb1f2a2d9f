// Package render draws computed process layouts.
//
// [RenderSVG] writes a [graph.Layout] as a standalone SVG document: events as
// circles, gateways as diamonds, tasks and call activities as rounded boxes,
// sub-processes as plain boxes. Sequence flows follow the layout's routes
// and end in an arrowhead; flows removed to break cycles are dashed.
//
//	svg := render.RenderSVG(l, render.WithTitle("Order handling"))
//	png, err := render.ToPNG(ctx, svg, 2.0)
//
// [ToPDF] and [ToPNG] convert any SVG using the external rsvg-convert tool
// (from librsvg).
//
// The [nodelink] subpackage renders the graph through Graphviz instead,
// ignoring computed positions. It is mostly useful for debugging.
//
// [nodelink]: github.com/matzehuels/bpmnlayout/pkg/render/nodelink
package render
