package dag

import (
	"errors"
	"maps"
	"slices"
)

var (
	// ErrInvalidNodeID is returned by [DAG.AddNode] when the node ID is empty.
	ErrInvalidNodeID = errors.New("node ID must not be empty")

	// ErrDuplicateNodeID is returned by [DAG.AddNode] when a node with the
	// same ID already exists in the graph. Node IDs must be unique.
	ErrDuplicateNodeID = errors.New("duplicate node ID")

	// ErrUnknownSourceNode is returned by [DAG.AddEdge] when the From node
	// does not exist.
	ErrUnknownSourceNode = errors.New("unknown source node")

	// ErrUnknownTargetNode is returned by [DAG.AddEdge] when the To node
	// does not exist in the graph.
	ErrUnknownTargetNode = errors.New("unknown target node")

	// ErrInvalidEdgeEndpoint is returned by [DAG.Validate] when an edge
	// references a node that doesn't exist. This indicates graph corruption.
	ErrInvalidEdgeEndpoint = errors.New("invalid edge endpoint")

	// ErrGraphHasCycle is returned by [DAG.Validate] and [DAG.TopologicalSort]
	// when a directed cycle other than a self-loop exists.
	ErrGraphHasCycle = errors.New("graph contains a cycle")
)

// Metadata stores arbitrary key-value pairs attached to nodes, edges or the
// graph. Metadata maps are never nil after the owner is added to a DAG.
type Metadata map[string]any

// Node is a process element: an event, task, gateway or sub-process.
//
// Width and Height are the element's display dimensions. When both are zero,
// [DAG.AddNode] resolves them from Category using [SizeOf].
type Node struct {
	ID       string   // Unique identifier
	Category string   // Element category, e.g. "startEvent" or "exclusive-gateway"
	Label    string   // Display name (optional)
	Width    float64  // Display width in pixels
	Height   float64  // Display height in pixels
	Meta     Metadata // Arbitrary key-value metadata (never nil after AddNode)
}

// Kind returns the node's category classification.
func (n Node) Kind() Kind { return Classify(n.Category) }

// DisplayLabel returns the label if set, otherwise the ID.
func (n Node) DisplayLabel() string {
	if n.Label != "" {
		return n.Label
	}
	return n.ID
}

// Edge is a directed control-flow connection. Multiple edges between the same
// pair of nodes are allowed and are treated independently.
type Edge struct {
	ID   string   // Flow identifier from the source document (may be empty)
	From string   // Source node ID
	To   string   // Target node ID
	Meta Metadata // Arbitrary key-value metadata (never nil after AddEdge)
}

// IsSelfLoop reports whether the edge starts and ends at the same node.
func (e Edge) IsSelfLoop() bool { return e.From == e.To }

// DAG is a directed process graph. Despite the name it may contain cycles
// until they are broken by the transform package; every layout stage after
// cycle breaking relies on it being acyclic apart from self-loops.
//
// Nodes are kept in insertion order so that every stage is deterministic.
// The zero value is not usable - use New to create a valid DAG instance.
// DAG is not safe for concurrent use without external synchronization.
type DAG struct {
	nodes    map[string]*Node
	order    []string
	edges    []Edge
	outgoing map[string][]string // nodeID -> successor IDs (one entry per edge)
	incoming map[string][]string // nodeID -> predecessor IDs (one entry per edge)
	meta     Metadata
}

// New creates an empty DAG with optional graph-level metadata.
// The metadata parameter can be nil, in which case an empty map is created.
func New(meta Metadata) *DAG {
	if meta == nil {
		meta = Metadata{}
	}
	return &DAG{
		nodes:    make(map[string]*Node),
		outgoing: make(map[string][]string),
		incoming: make(map[string][]string),
		meta:     meta,
	}
}

// Meta returns the graph-level metadata map.
func (d *DAG) Meta() Metadata { return d.meta }

// AddNode adds a node to the graph. Returns ErrInvalidNodeID if the node ID
// is empty, or ErrDuplicateNodeID if a node with the same ID already exists.
//
// A node without explicit dimensions gets the dimensions of its category.
// Unknown categories never fail; they use the default size.
func (d *DAG) AddNode(n Node) error {
	if n.ID == "" {
		return ErrInvalidNodeID
	}
	if _, exists := d.nodes[n.ID]; exists {
		return ErrDuplicateNodeID
	}
	if n.Width == 0 && n.Height == 0 {
		s := SizeOf(n.Category)
		n.Width, n.Height = s.Width, s.Height
	}
	if n.Meta == nil {
		n.Meta = Metadata{}
	}
	node := &n
	d.nodes[node.ID] = node
	d.order = append(d.order, node.ID)
	return nil
}

// AddEdge adds a directed edge between two existing nodes.
// Returns ErrUnknownSourceNode if the From node doesn't exist, or
// ErrUnknownTargetNode if the To node doesn't exist.
func (d *DAG) AddEdge(e Edge) error {
	if _, ok := d.nodes[e.From]; !ok {
		return ErrUnknownSourceNode
	}
	if _, ok := d.nodes[e.To]; !ok {
		return ErrUnknownTargetNode
	}
	if e.Meta == nil {
		e.Meta = Metadata{}
	}
	d.edges = append(d.edges, e)
	d.outgoing[e.From] = append(d.outgoing[e.From], e.To)
	d.incoming[e.To] = append(d.incoming[e.To], e.From)
	return nil
}

// RemoveEdge removes every edge from→to and returns the removed edges in
// insertion order. Removing an edge that does not exist is a no-op and
// returns nil.
func (d *DAG) RemoveEdge(from, to string) []Edge {
	var removed []Edge
	d.edges = slices.DeleteFunc(d.edges, func(e Edge) bool {
		if e.From == from && e.To == to {
			removed = append(removed, e)
			return true
		}
		return false
	})
	if len(removed) == 0 {
		return nil
	}
	d.outgoing[from] = slices.DeleteFunc(d.outgoing[from], func(s string) bool { return s == to })
	d.incoming[to] = slices.DeleteFunc(d.incoming[to], func(s string) bool { return s == from })
	return removed
}

// HasEdge reports whether at least one edge from→to exists.
func (d *DAG) HasEdge(from, to string) bool {
	return slices.Contains(d.outgoing[from], to)
}

// Nodes returns all nodes in insertion order. The returned slice contains
// pointers to the actual node structs.
func (d *DAG) Nodes() []*Node {
	nodes := make([]*Node, len(d.order))
	for i, id := range d.order {
		nodes[i] = d.nodes[id]
	}
	return nodes
}

// NodeIDs returns all node IDs in insertion order.
func (d *DAG) NodeIDs() []string { return slices.Clone(d.order) }

// Edges returns a copy of all edges in insertion order.
func (d *DAG) Edges() []Edge { return slices.Clone(d.edges) }

// NodeCount returns the number of nodes in the graph.
func (d *DAG) NodeCount() int { return len(d.nodes) }

// EdgeCount returns the number of edges in the graph.
func (d *DAG) EdgeCount() int { return len(d.edges) }

// Successors returns the IDs of nodes this node has edges to, one entry per
// edge. The returned slice should be treated as read-only.
func (d *DAG) Successors(id string) []string { return d.outgoing[id] }

// Predecessors returns the IDs of nodes that have edges to this node, one
// entry per edge. The returned slice should be treated as read-only.
func (d *DAG) Predecessors(id string) []string { return d.incoming[id] }

// OutDegree returns the number of outgoing edges from the node, counting
// self-loops. Returns 0 if the node doesn't exist.
func (d *DAG) OutDegree(id string) int { return len(d.outgoing[id]) }

// InDegree returns the number of incoming edges to the node, counting
// self-loops. Returns 0 if the node doesn't exist.
func (d *DAG) InDegree(id string) int { return len(d.incoming[id]) }

// Node returns the node with the given ID and true, or nil and false if not found.
func (d *DAG) Node(id string) (*Node, bool) {
	n, ok := d.nodes[id]
	return n, ok
}

// Sources returns nodes with no incoming edges, in insertion order.
func (d *DAG) Sources() []*Node {
	var sources []*Node
	for _, id := range d.order {
		if len(d.incoming[id]) == 0 {
			sources = append(sources, d.nodes[id])
		}
	}
	return sources
}

// Clone returns a deep copy of the graph. Metadata maps are copied shallowly.
func (d *DAG) Clone() *DAG {
	c := New(maps.Clone(d.meta))
	for _, id := range d.order {
		n := *d.nodes[id]
		n.Meta = maps.Clone(n.Meta)
		c.nodes[id] = &n
	}
	c.order = slices.Clone(d.order)
	c.edges = make([]Edge, len(d.edges))
	for i, e := range d.edges {
		e.Meta = maps.Clone(e.Meta)
		c.edges[i] = e
	}
	for id, out := range d.outgoing {
		c.outgoing[id] = slices.Clone(out)
	}
	for id, in := range d.incoming {
		c.incoming[id] = slices.Clone(in)
	}
	return c
}

// TopologicalSort returns the node IDs in an order where every edge points
// forward. It uses Kahn's algorithm seeded in insertion order, so the result
// is deterministic. Self-loops are ignored.
//
// Returns ErrGraphHasCycle if any other cycle exists.
func (d *DAG) TopologicalSort() ([]string, error) {
	inDegree := make(map[string]int, len(d.nodes))
	queue := make([]string, 0, len(d.nodes))
	for _, id := range d.order {
		for _, p := range d.incoming[id] {
			if p != id {
				inDegree[id]++
			}
		}
		if inDegree[id] == 0 {
			queue = append(queue, id)
		}
	}

	order := make([]string, 0, len(d.nodes))
	for len(queue) > 0 {
		curr := queue[0]
		queue = queue[1:]
		order = append(order, curr)
		for _, next := range d.outgoing[curr] {
			if next == curr {
				continue
			}
			inDegree[next]--
			if inDegree[next] == 0 {
				queue = append(queue, next)
			}
		}
	}

	if len(order) != len(d.nodes) {
		return nil, ErrGraphHasCycle
	}
	return order, nil
}

// IsAcyclic reports whether the graph has no cycles apart from self-loops.
func (d *DAG) IsAcyclic() bool {
	_, err := d.TopologicalSort()
	return err == nil
}

// Validate checks graph integrity and returns nil if valid.
// It verifies that all edges connect existing nodes and that the graph has no
// cycles apart from self-loops.
func (d *DAG) Validate() error {
	for _, e := range d.edges {
		_, okS := d.nodes[e.From]
		_, okD := d.nodes[e.To]
		if !okS || !okD {
			return ErrInvalidEdgeEndpoint
		}
	}
	if !d.IsAcyclic() {
		return ErrGraphHasCycle
	}
	return nil
}
