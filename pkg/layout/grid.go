package layout

import (
	"context"
	"math"

	"github.com/matzehuels/bpmnlayout/pkg/dag"
)

// Grid places ids row-major in a grid with ceil(sqrt(n))+1 columns. The
// result depends only on the order of ids.
func Grid(ids []string) Positions {
	pos := make(Positions, len(ids))
	if len(ids) == 0 {
		return pos
	}
	cols := int(math.Ceil(math.Sqrt(float64(len(ids))))) + 1
	for i, id := range ids {
		pos[id] = Point{
			X: Margin + float64(i%cols)*GridColumnWidth,
			Y: Margin + float64(i/cols)*GridRowHeight,
		}
	}
	return pos
}

// GridStrategy is the last tier. It ignores edges and cannot fail.
type GridStrategy struct{}

func (GridStrategy) Tier() Tier { return TierGrid }

func (GridStrategy) Place(_ context.Context, g *dag.DAG) (Placement, error) {
	return Placement{Positions: Grid(g.NodeIDs())}, nil
}
