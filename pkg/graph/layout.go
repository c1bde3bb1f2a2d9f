package graph

import (
	"encoding/json"
	"fmt"
	"math"
	"os"

	"github.com/matzehuels/bpmnlayout/pkg/dag"
	"github.com/matzehuels/bpmnlayout/pkg/layout"
)

// =============================================================================
// Layout - Placed Diagram Format
// =============================================================================

// Layout is the serialized result of a layout computation: placed node boxes,
// edge waypoints and the bookkeeping needed to explain them.
type Layout struct {
	Tier          string  `json:"tier" bson:"tier"`
	SpacingFactor float64 `json:"spacing_factor" bson:"spacing_factor"`
	Routing       string  `json:"routing" bson:"routing"`

	Nodes     []PlacedNode   `json:"nodes" bson:"nodes"`
	Edges     []layout.Route `json:"edges" bson:"edges"`
	BackEdges []Edge         `json:"back_edges,omitempty" bson:"back_edges,omitempty"`
	Layers    [][]string     `json:"layers,omitempty" bson:"layers,omitempty"`
	Crossings int            `json:"crossings" bson:"crossings"`
	Attempts  []TierAttempt  `json:"attempts,omitempty" bson:"attempts,omitempty"`
}

// PlacedNode is a node box in diagram space. X and Y are the top-left corner.
type PlacedNode struct {
	layout.Shape `bson:",inline"`
	Layer        int `json:"layer" bson:"layer"`
}

// TierAttempt records one tier of the fallback chain.
type TierAttempt struct {
	Tier       string  `json:"tier" bson:"tier"`
	Error      string  `json:"error,omitempty" bson:"error,omitempty"`
	DurationMS float64 `json:"duration_ms" bson:"duration_ms"`
}

// NewLayout assembles a Layout from a graph and its computed result. Layer
// is -1 for nodes the native tier did not place.
func NewLayout(g *dag.DAG, res layout.Result, spacing float64, style layout.RouteStyle) Layout {
	if style == "" {
		style = layout.RouteStraight
	}
	layerOf := make(map[string]int)
	for i, ids := range res.Layers {
		for _, id := range ids {
			layerOf[id] = i
		}
	}

	shapes := layout.Shapes(g, res.Positions)
	nodes := make([]PlacedNode, len(shapes))
	for i, s := range shapes {
		l, ok := layerOf[s.ID]
		if !ok {
			l = -1
		}
		nodes[i] = PlacedNode{Shape: s, Layer: l}
	}

	var back []Edge
	for _, e := range res.BackEdges {
		back = append(back, Edge{ID: e.ID, From: e.From, To: e.To})
	}

	var attempts []TierAttempt
	for _, a := range res.Attempts {
		ta := TierAttempt{Tier: string(a.Tier), DurationMS: float64(a.Duration.Microseconds()) / 1000}
		if a.Err != nil {
			ta.Error = a.Err.Error()
		}
		attempts = append(attempts, ta)
	}

	return Layout{
		Tier:          string(res.Tier),
		SpacingFactor: spacing,
		Routing:       string(style),
		Nodes:         nodes,
		Edges:         layout.Routes(g, res.Positions, res.BackEdges, style),
		BackEdges:     back,
		Layers:        res.Layers,
		Crossings:     res.Crossings,
		Attempts:      attempts,
	}
}

// Positions returns the top-left corner of every node.
func (l *Layout) Positions() layout.Positions {
	pos := make(layout.Positions, len(l.Nodes))
	for _, n := range l.Nodes {
		pos[n.ID] = layout.Point{X: n.X, Y: n.Y}
	}
	return pos
}

// Node returns the placed node with the given ID.
func (l *Layout) Node(id string) (PlacedNode, bool) {
	for _, n := range l.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return PlacedNode{}, false
}

// Bounds returns the bounding box of all boxes and waypoints. An empty
// layout has a zero box.
func (l *Layout) Bounds() (minX, minY, maxX, maxY float64) {
	if len(l.Nodes) == 0 {
		return 0, 0, 0, 0
	}
	minX, minY = math.Inf(1), math.Inf(1)
	maxX, maxY = math.Inf(-1), math.Inf(-1)
	for _, n := range l.Nodes {
		minX, minY = min(minX, n.X), min(minY, n.Y)
		maxX, maxY = max(maxX, n.X+n.Width), max(maxY, n.Y+n.Height)
	}
	for _, r := range l.Edges {
		for _, p := range r.Points {
			minX, minY = min(minX, p.X), min(minY, p.Y)
			maxX, maxY = max(maxX, p.X), max(maxY, p.Y)
		}
	}
	return minX, minY, maxX, maxY
}

// =============================================================================
// Layout Serialization API
// =============================================================================

// MarshalLayout serializes a Layout to pretty-printed JSON bytes.
func MarshalLayout(l Layout) ([]byte, error) {
	return json.MarshalIndent(l, "", "  ")
}

// UnmarshalLayout deserializes JSON bytes into a Layout.
// A layout with nodes must name the tier that produced it.
func UnmarshalLayout(data []byte) (Layout, error) {
	var l Layout
	if err := json.Unmarshal(data, &l); err != nil {
		return Layout{}, fmt.Errorf("unmarshal layout: %w", err)
	}
	if len(l.Nodes) > 0 && l.Tier == "" {
		return Layout{}, fmt.Errorf("layout with nodes must name its tier")
	}
	for _, n := range l.Nodes {
		if n.ID == "" {
			return Layout{}, fmt.Errorf("layout node without id")
		}
	}
	return l, nil
}

// WriteLayoutFile writes a Layout to a JSON file. Readers never see a
// partial file.
func WriteLayoutFile(l Layout, path string) error {
	data, err := MarshalLayout(l)
	if err != nil {
		return err
	}
	return writeFileAtomic(path, data)
}

// ReadLayoutFile reads a Layout from a JSON file.
func ReadLayoutFile(path string) (Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Layout{}, fmt.Errorf("read %s: %w", path, err)
	}
	return UnmarshalLayout(data)
}
