package layout

import (
	"context"
	"fmt"
	"time"

	"github.com/matzehuels/bpmnlayout/pkg/dag"
	"github.com/matzehuels/bpmnlayout/pkg/dag/transform"
)

// NativeStrategy is the layered layout: break cycles, assign layers, reduce
// crossings, assign coordinates. It modifies the graph it is given, so the
// chain hands it a clone.
type NativeStrategy struct {
	SpacingFactor float64
	Sweeps        int
	CycleLimit    int
	Timeout       time.Duration
	Scorer        transform.EdgeScorer
}

func (NativeStrategy) Tier() Tier { return TierNative }

func (s NativeStrategy) Place(ctx context.Context, g *dag.DAG) (Placement, error) {
	if s.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.Timeout)
		defer cancel()
	}

	back, err := transform.BreakCycles(ctx, g, transform.CycleOptions{
		Limit:  s.CycleLimit,
		Scorer: s.Scorer,
	})
	if err != nil {
		return Placement{}, fmt.Errorf("break cycles: %w", err)
	}

	l := transform.AssignLayers(g)
	transform.MinimizeCrossings(g, l, s.Sweeps)
	if err := ctx.Err(); err != nil {
		return Placement{}, fmt.Errorf("native layout: %w", err)
	}

	return Placement{
		Positions: AssignCoordinates(l, s.SpacingFactor),
		BackEdges: back,
		Layers:    l.Layers,
		Crossings: transform.Crossings(g, l),
		Degraded:  l.Degraded,
	}, nil
}
