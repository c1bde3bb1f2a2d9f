package transform

import (
	"cmp"
	"slices"

	"github.com/matzehuels/bpmnlayout/pkg/dag"
)

// DefaultSweeps is the number of forward/backward barycenter rounds run by
// [MinimizeCrossings] when sweeps <= 0.
const DefaultSweeps = 3

// MinimizeCrossings reorders the nodes inside each layer of l to reduce edge
// crossings between adjacent layers. It never moves a node to another layer.
//
// Each sweep runs two passes of the barycenter heuristic:
//   - forward: layers 1..n-1, each node ranked by the mean position of its
//     predecessors in the previous layer
//   - backward: layers n-2..0, each node ranked by the mean position of its
//     successors in the next layer
//
// A node with no neighbour in the reference layer gets the reference layer's
// length as its barycenter, which moves it to the end. Sorting is stable, so
// ties keep their previous relative order and the result is deterministic.
//
// This is a local heuristic. It typically reduces crossings but gives no
// guarantee of a minimum.
func MinimizeCrossings(g *dag.DAG, l *Layering, sweeps int) {
	if sweeps <= 0 {
		sweeps = DefaultSweeps
	}
	n := len(l.Layers)
	if n < 2 {
		return
	}
	for range sweeps {
		for i := 1; i < n; i++ {
			sortByBarycenter(l.Layers[i], l.Layers[i-1], g.Predecessors)
		}
		for i := n - 2; i >= 0; i-- {
			sortByBarycenter(l.Layers[i], l.Layers[i+1], g.Successors)
		}
	}
}

func sortByBarycenter(layer, ref []string, neighbours func(string) []string) {
	pos := dag.PosMap(ref)
	bary := make(map[string]float64, len(layer))
	for _, id := range layer {
		sum, count := 0, 0
		for _, nb := range neighbours(id) {
			if p, ok := pos[nb]; ok {
				sum += p
				count++
			}
		}
		if count == 0 {
			bary[id] = float64(len(ref))
			continue
		}
		bary[id] = float64(sum) / float64(count)
	}
	slices.SortStableFunc(layer, func(a, b string) int {
		return cmp.Compare(bary[a], bary[b])
	})
}

// Crossings returns the number of edge crossings between adjacent layers of l.
func Crossings(g *dag.DAG, l *Layering) int {
	return dag.CountCrossings(g, l.Layers)
}
