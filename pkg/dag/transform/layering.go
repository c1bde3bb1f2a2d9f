package transform

import (
	"slices"

	"github.com/matzehuels/bpmnlayout/pkg/dag"
)

// Layering is an assignment of nodes to layers. Layers[i] holds the nodes of
// layer i in their current order; there are no empty layers.
//
// Layer membership is fixed once [AssignLayers] returns. [MinimizeCrossings]
// only permutes nodes within a layer.
type Layering struct {
	Layers [][]string

	// Degraded is set when the topological sort failed and layers were
	// derived from a depth-first preorder instead. On an acyclic graph this
	// never happens.
	Degraded bool

	index map[string]int
}

// LayerOf returns the layer of a node and whether the node is assigned.
func (l *Layering) LayerOf(id string) (int, bool) {
	i, ok := l.index[id]
	return i, ok
}

// Len returns the number of layers.
func (l *Layering) Len() int { return len(l.Layers) }

// NodeCount returns the number of assigned nodes.
func (l *Layering) NodeCount() int { return len(l.index) }

// Clone returns a deep copy of the layering.
func (l *Layering) Clone() *Layering {
	c := &Layering{
		Layers:   make([][]string, len(l.Layers)),
		Degraded: l.Degraded,
		index:    make(map[string]int, len(l.index)),
	}
	for i, layer := range l.Layers {
		c.Layers[i] = slices.Clone(layer)
	}
	for id, i := range l.index {
		c.index[id] = i
	}
	return c
}

// NewLayering builds a Layering from explicit layers. Empty layers are
// dropped. It is mainly useful for tests and for callers that compute layers
// elsewhere.
func NewLayering(layers [][]string) *Layering {
	l := &Layering{index: make(map[string]int)}
	for _, layer := range layers {
		if len(layer) == 0 {
			continue
		}
		for _, id := range layer {
			l.index[id] = len(l.Layers)
		}
		l.Layers = append(l.Layers, slices.Clone(layer))
	}
	return l
}

// AssignLayers places every node of g on a layer using the longest path from
// a start node.
//
// # Algorithm
//
//  1. Start nodes are the nodes with in-degree 0, not counting self-loops. If
//     there are none, the nodes with the minimum in-degree are used instead.
//  2. Start nodes go on layer 0.
//  3. The remaining nodes are visited in topological order. If the sort fails
//     (the graph still has a cycle), a depth-first preorder from each start
//     node, then from every unvisited node, is used and the result is marked
//     Degraded.
//  4. Each unassigned node goes one layer after its deepest assigned
//     predecessor, or on layer 0 when no predecessor is assigned yet.
//
// On an acyclic graph every edge u→v other than a self-loop ends up with
// layer(u) < layer(v). Within a layer, nodes keep the order in which they were
// assigned. Nodes unreachable from any start node still get a layer.
//
// Time complexity is O(V + E).
func AssignLayers(g *dag.DAG) *Layering {
	nodes := g.NodeIDs()
	if len(nodes) == 0 {
		return NewLayering(nil)
	}

	starts := startNodes(g, nodes)
	layer := make(map[string]int, len(nodes))
	assigned := make([]string, 0, len(nodes))
	for _, id := range starts {
		layer[id] = 0
		assigned = append(assigned, id)
	}

	degraded := false
	order, err := g.TopologicalSort()
	if err != nil {
		degraded = true
		order = preorder(g, starts, nodes)
	}

	for _, id := range order {
		if _, ok := layer[id]; ok {
			continue
		}
		best := -1
		for _, p := range g.Predecessors(id) {
			if l, ok := layer[p]; ok && l > best {
				best = l
			}
		}
		layer[id] = best + 1
		assigned = append(assigned, id)
	}

	depth := 0
	for _, l := range layer {
		depth = max(depth, l+1)
	}
	layers := make([][]string, depth)
	for _, id := range assigned {
		layers[layer[id]] = append(layers[layer[id]], id)
	}

	l := NewLayering(layers)
	l.Degraded = degraded
	return l
}

// startNodes returns the nodes with the smallest in-degree, ignoring
// self-loops, in insertion order.
func startNodes(g *dag.DAG, nodes []string) []string {
	degree := make(map[string]int, len(nodes))
	minDegree := -1
	for _, id := range nodes {
		for _, p := range g.Predecessors(id) {
			if p != id {
				degree[id]++
			}
		}
		if d := degree[id]; minDegree < 0 || d < minDegree {
			minDegree = d
		}
	}
	var starts []string
	for _, id := range nodes {
		if degree[id] == minDegree {
			starts = append(starts, id)
		}
	}
	return starts
}

func preorder(g *dag.DAG, starts, nodes []string) []string {
	visited := make(map[string]bool, len(nodes))
	order := make([]string, 0, len(nodes))

	var visit func(id string)
	visit = func(id string) {
		visited[id] = true
		order = append(order, id)
		for _, succ := range g.Successors(id) {
			if !visited[succ] {
				visit(succ)
			}
		}
	}

	for _, id := range starts {
		if !visited[id] {
			visit(id)
		}
	}
	for _, id := range nodes {
		if !visited[id] {
			visit(id)
		}
	}
	return order
}
