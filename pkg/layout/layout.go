package layout

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/bpmnlayout/pkg/dag"
	"github.com/matzehuels/bpmnlayout/pkg/dag/transform"
)

// Geometry constants in pixels. Positions are the top-left corners of the
// element boxes.
const (
	// Margin offsets every tier's output from the origin on both axes.
	Margin = 100.0
	// LayerSpacing is the base horizontal distance between layers.
	LayerSpacing = 200.0
	// NodeSpacing is the base vertical distance between nodes of one layer.
	NodeSpacing = 100.0
	// GridColumnWidth and GridRowHeight size the cells of the grid tier.
	GridColumnWidth = 200.0
	GridRowHeight   = 150.0
	// GraphvizXScale and GraphvizYScale size the box Graphviz output is
	// normalised into, before the spacing factor is applied.
	GraphvizXScale = 200.0
	GraphvizYScale = 150.0
)

// DefaultSpacingFactor scales LayerSpacing and NodeSpacing when none is set.
const DefaultSpacingFactor = 1.5

// DefaultTimeout bounds the native tier. Cycle enumeration is the only stage
// whose cost grows faster than the graph; everything else is linear or
// close to it.
const DefaultTimeout = 2 * time.Second

// Point is a position in diagram space. Y grows downwards.
type Point struct {
	X float64 `json:"x" bson:"x"`
	Y float64 `json:"y" bson:"y"`
}

// Positions maps node IDs to the top-left corner of their box.
type Positions map[string]Point

// Tier identifies which strategy produced a layout.
type Tier string

const (
	TierGraphviz Tier = "graphviz"
	TierNative   Tier = "native"
	TierGrid     Tier = "grid"
)

// Options configures [Compute]. The zero value is usable; unset fields take
// their defaults.
type Options struct {
	// SpacingFactor scales inter-layer and intra-layer spacing (default 1.5).
	SpacingFactor float64

	// Graphviz enables the Graphviz tier in front of the native tier.
	Graphviz bool

	// Sweeps is the number of barycenter rounds (default 3).
	Sweeps int

	// CycleLimit caps cycle enumeration (default transform.DefaultCycleLimit).
	CycleLimit int

	// Timeout bounds the native tier (default DefaultTimeout). A tier that
	// runs out of time falls through to the next one.
	Timeout time.Duration

	// Scorer picks back edges (default transform.ExceptionScorer).
	Scorer transform.EdgeScorer

	// Logger receives tier failures at Info and a summary at Debug. Nil
	// means log.Default().
	Logger *log.Logger
}

// DefaultOptions returns the options Compute uses for unset fields.
func DefaultOptions() Options {
	return Options{
		SpacingFactor: DefaultSpacingFactor,
		Sweeps:        transform.DefaultSweeps,
		CycleLimit:    transform.DefaultCycleLimit,
		Timeout:       DefaultTimeout,
		Scorer:        transform.ExceptionScorer,
		Logger:        log.Default(),
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.SpacingFactor <= 0 {
		o.SpacingFactor = d.SpacingFactor
	}
	if o.Sweeps <= 0 {
		o.Sweeps = d.Sweeps
	}
	if o.CycleLimit <= 0 {
		o.CycleLimit = d.CycleLimit
	}
	if o.Timeout <= 0 {
		o.Timeout = d.Timeout
	}
	if o.Scorer == nil {
		o.Scorer = d.Scorer
	}
	if o.Logger == nil {
		o.Logger = d.Logger
	}
	return o
}

// Strategies returns the tiers Compute tries, in order.
func (o Options) Strategies() []Strategy {
	o = o.withDefaults()
	var s []Strategy
	if o.Graphviz {
		s = append(s, GraphvizStrategy{SpacingFactor: o.SpacingFactor})
	}
	return append(s,
		NativeStrategy{
			SpacingFactor: o.SpacingFactor,
			Sweeps:        o.Sweeps,
			CycleLimit:    o.CycleLimit,
			Timeout:       o.Timeout,
			Scorer:        o.Scorer,
		},
		GridStrategy{},
	)
}

// Attempt records one tier's try.
type Attempt struct {
	Tier     Tier
	Err      error
	Duration time.Duration
}

// Result is the outcome of a layout computation.
type Result struct {
	// Positions holds one entry per input node.
	Positions Positions

	// BackEdges are the edges removed to break cycles, in removal order.
	// Only the native tier fills this.
	BackEdges []dag.Edge

	// Layers is the final ordered layering of the native tier.
	Layers [][]string

	// Tier is the strategy that produced Positions. Empty for an empty graph.
	Tier Tier

	// Attempts lists every tier tried, including failures.
	Attempts []Attempt

	// Crossings is the native tier's remaining edge crossing count.
	Crossings int
}

// Degraded reports whether the layout came from the grid tier.
func (r Result) Degraded() bool { return r.Tier == TierGrid }

// TimedOut reports whether a tier gave up because its deadline passed. Such a
// result depends on machine load rather than on the graph.
func (r Result) TimedOut() bool {
	for _, a := range r.Attempts {
		if errors.Is(a.Err, context.DeadlineExceeded) {
			return true
		}
	}
	return false
}

// Compute lays out g and returns a position for every node. It never fails:
// each tier that errors, panics, times out or misses a node hands over to the
// next, and the grid tier always succeeds.
//
// g is not modified. An empty or nil graph yields an empty Result.
func Compute(ctx context.Context, g *dag.DAG, opts Options) Result {
	if g == nil || g.NodeCount() == 0 {
		return Result{Positions: Positions{}}
	}
	opts = opts.withDefaults()
	return NewChain(opts.Logger, opts.Strategies()...).Run(ctx, g)
}

// NodeSpec is a node in the plain input format of [ComputeNodes].
type NodeSpec struct {
	ID       string `json:"id"`
	Category string `json:"category"`
}

// EdgeSpec is an edge in the plain input format of [ComputeNodes].
type EdgeSpec struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

// ComputeNodes lays out a plain node and edge list. Node sizes come from the
// category table. Node IDs must be non-empty: nodes with an empty ID,
// duplicate node IDs and edges with unknown endpoints are dropped with a
// warning. The result is empty only when no node has a usable ID.
func ComputeNodes(ctx context.Context, nodes []NodeSpec, edges []EdgeSpec, spacingFactor float64) Positions {
	opts := Options{SpacingFactor: spacingFactor}
	return Compute(ctx, BuildGraph(nodes, edges, opts.withDefaults().Logger), opts).Positions
}

// BuildGraph converts plain specs into a graph, skipping invalid entries:
// nodes with an empty or repeated ID and edges with unknown endpoints.
func BuildGraph(nodes []NodeSpec, edges []EdgeSpec, logger *log.Logger) *dag.DAG {
	if logger == nil {
		logger = log.Default()
	}
	g := dag.New(nil)
	for _, n := range nodes {
		if err := g.AddNode(dag.Node{ID: n.ID, Category: n.Category}); err != nil {
			logger.Warn("skipping node", "id", n.ID, "err", err)
		}
	}
	for _, e := range edges {
		if err := g.AddEdge(dag.Edge{From: e.Source, To: e.Target}); err != nil {
			logger.Warn("skipping edge", "source", e.Source, "target", e.Target, "err", err)
		}
	}
	return g
}
