package pipeline

import (
	"context"

	"github.com/matzehuels/bpmnlayout/pkg/dag"
	"github.com/matzehuels/bpmnlayout/pkg/graph"
	"github.com/matzehuels/bpmnlayout/pkg/layout"
)

// ComputeLayout runs the layout fallback chain and assembles the serialized
// layout. It never fails; a degraded layout carries its tier and attempts.
func ComputeLayout(ctx context.Context, g *dag.DAG, opts Options) graph.Layout {
	l, _ := computeLayout(ctx, g, opts)
	return l
}

// computeLayout also reports whether the result may be cached: a layout that
// fell back because a tier ran out of time is not.
func computeLayout(ctx context.Context, g *dag.DAG, opts Options) (graph.Layout, bool) {
	opts.SetLayoutDefaults()
	res := layout.Compute(ctx, g, opts.LayoutOptions())
	return graph.NewLayout(g, res, opts.SpacingFactor, opts.RouteStyle()), !res.TimedOut()
}
