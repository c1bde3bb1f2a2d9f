package graph

import (
	"encoding/json"
	"fmt"
	"maps"

	"github.com/matzehuels/bpmnlayout/pkg/dag"
)

// =============================================================================
// Graph - Process Graph Serialization
// =============================================================================

// Graph is the canonical serialization format for process graphs.
// Used for API requests, storage, caching, and cross-tool compatibility.
//
// Node order is significant: layout tie-breaks follow insertion order, so
// FromDAG and ToDAG preserve it.
type Graph struct {
	Nodes []Node `json:"nodes" bson:"nodes" validate:"dive"`
	Edges []Edge `json:"edges" bson:"edges" validate:"dive"`
}

// Node is a flow element.
type Node struct {
	ID       string `json:"id" bson:"id" validate:"required,max=256"`
	Category string `json:"category,omitempty" bson:"category,omitempty"` // BPMN element type, e.g. "userTask"
	Label    string `json:"label,omitempty" bson:"label,omitempty"`
	// Width and Height override the category size when both are set.
	Width  float64        `json:"width,omitempty" bson:"width,omitempty" validate:"gte=0"`
	Height float64        `json:"height,omitempty" bson:"height,omitempty" validate:"gte=0"`
	Meta   map[string]any `json:"meta,omitempty" bson:"meta,omitempty"`
}

// DisplayLabel returns the label if set, otherwise the ID.
func (n *Node) DisplayLabel() string {
	if n.Label != "" {
		return n.Label
	}
	return n.ID
}

// Edge is a sequence flow.
type Edge struct {
	ID   string `json:"id,omitempty" bson:"id,omitempty"`
	From string `json:"from" bson:"from" validate:"required"`
	To   string `json:"to" bson:"to" validate:"required"`
}

// =============================================================================
// DAG ↔ Graph Conversion
// =============================================================================

// FromDAG converts a graph to its serialization format, in insertion order.
func FromDAG(g *dag.DAG) Graph {
	nodes := g.Nodes()
	edges := g.Edges()
	out := Graph{
		Nodes: make([]Node, len(nodes)),
		Edges: make([]Edge, len(edges)),
	}
	for i, n := range nodes {
		out.Nodes[i] = Node{
			ID:       n.ID,
			Category: n.Category,
			Label:    n.Label,
			Width:    n.Width,
			Height:   n.Height,
			Meta:     copyMeta(n.Meta),
		}
	}
	for i, e := range edges {
		out.Edges[i] = Edge{ID: e.ID, From: e.From, To: e.To}
	}
	return out
}

// ToDAG converts a Graph to a dag.DAG. Nodes without a size get the size of
// their category. Duplicate IDs and dangling edges are errors.
func ToDAG(gj Graph) (*dag.DAG, error) {
	d := dag.New(nil)

	for _, nj := range gj.Nodes {
		n := dag.Node{
			ID:       nj.ID,
			Category: nj.Category,
			Label:    nj.Label,
			Width:    nj.Width,
			Height:   nj.Height,
			Meta:     copyMeta(nj.Meta),
		}
		if err := d.AddNode(n); err != nil {
			return nil, fmt.Errorf("add node %s: %w", nj.ID, err)
		}
	}

	for _, ej := range gj.Edges {
		if err := d.AddEdge(dag.Edge{ID: ej.ID, From: ej.From, To: ej.To}); err != nil {
			return nil, fmt.Errorf("add edge %s→%s: %w", ej.From, ej.To, err)
		}
	}

	return d, nil
}

// copyMeta creates a shallow copy of metadata to avoid mutation.
// Empty maps come back as nil.
func copyMeta(m map[string]any) map[string]any {
	if len(m) == 0 {
		return nil
	}
	return maps.Clone(m)
}

// UnmarshalGraph deserializes JSON bytes to a Graph.
func UnmarshalGraph(data []byte) (Graph, error) {
	var g Graph
	if err := json.Unmarshal(data, &g); err != nil {
		return Graph{}, err
	}
	return g, nil
}
