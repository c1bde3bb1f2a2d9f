package dag

import "slices"

// PosMap returns a map from node ID to its index in the slice.
// If the same ID appears twice, the last index wins.
func PosMap(ids []string) map[string]int {
	m := make(map[string]int, len(ids))
	for i, id := range ids {
		m[id] = i
	}
	return m
}

// CountCrossings returns the total number of edge crossings for a layered
// ordering. layers[i] holds the node IDs of layer i from top to bottom; only
// edges between consecutive layers are counted.
//
// Example:
//
//	layers := [][]string{
//	    {"start"},
//	    {"review", "approve"},
//	    {"end"},
//	}
//	crossings := dag.CountCrossings(g, layers)
//
// It runs in O(L × E log V) time where L is the number of layers, E is edges
// per layer pair, and V is nodes per layer.
func CountCrossings(g *DAG, layers [][]string) int {
	crossings := 0
	for i := 0; i+1 < len(layers); i++ {
		crossings += CountLayerCrossings(g, layers[i], layers[i+1])
	}
	return crossings
}

// CountLayerCrossings counts edge crossings between two adjacent layers using a
// Fenwick tree (binary indexed tree) for O(E log V) performance where E is the
// number of edges between the layers and V is the number of nodes in the next
// layer.
//
// Two edges (u1,v1) and (u2,v2) cross if and only if:
//
//	pos(u1) < pos(u2) AND pos(v1) > pos(v2)
//
// This is equivalent to counting inversions in the sequence of target positions
// when edges are sorted by source position. Parallel edges count separately.
//
// Returns 0 if either layer is empty or nil.
func CountLayerCrossings(g *DAG, upper, lower []string) int {
	if len(upper) == 0 || len(lower) == 0 {
		return 0
	}

	lowerPos := PosMap(lower)

	type edge struct{ upper, lower int }
	edges := make([]edge, 0, len(upper)*2)
	for i, nodeID := range upper {
		for _, succ := range g.Successors(nodeID) {
			if pos, ok := lowerPos[succ]; ok {
				edges = append(edges, edge{i, pos})
			}
		}
	}
	if len(edges) < 2 {
		return 0
	}

	slices.SortFunc(edges, func(a, b edge) int {
		if a.upper != b.upper {
			return a.upper - b.upper
		}
		return a.lower - b.lower
	})

	fenwick := make([]int, len(lower)+1)
	crossings, total := 0, 0
	for _, e := range edges {
		// edges seen so far with target <= e.lower
		lessOrEqual := 0
		for q := e.lower + 1; q > 0; q -= q & (-q) {
			lessOrEqual += fenwick[q]
		}
		crossings += total - lessOrEqual

		total++
		for idx := e.lower + 1; idx < len(fenwick); idx += idx & (-idx) {
			fenwick[idx]++
		}
	}
	return crossings
}
