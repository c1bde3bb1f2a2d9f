// Package nodelink renders process graphs through Graphviz.
//
// Unlike [render.RenderSVG], which draws computed positions, this package
// hands the graph to the dot engine and lets it place everything. The
// result is a quick cross-check of what a layout should roughly look like.
//
//	dot := nodelink.ToDOT(g, nodelink.Options{BackEdges: res.BackEdges})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// [ToDOT] output can also be saved and fed to the Graphviz command-line
// tools. Back edges are dashed and excluded from ranking.
//
// [render.RenderSVG]: github.com/matzehuels/bpmnlayout/pkg/render.RenderSVG
package nodelink
