package layout

import (
	"fmt"
	"strings"

	"github.com/matzehuels/bpmnlayout/pkg/dag"
)

// Shape is a placed node box.
type Shape struct {
	ID       string  `json:"id" bson:"id"`
	Category string  `json:"category,omitempty" bson:"category,omitempty"`
	Label    string  `json:"label,omitempty" bson:"label,omitempty"`
	X        float64 `json:"x" bson:"x"`
	Y        float64 `json:"y" bson:"y"`
	Width    float64 `json:"width" bson:"width"`
	Height   float64 `json:"height" bson:"height"`
}

// Right returns the centre of the box's right side.
func (s Shape) Right() Point { return Point{X: s.X + s.Width, Y: s.Y + s.Height/2} }

// Left returns the centre of the box's left side.
func (s Shape) Left() Point { return Point{X: s.X, Y: s.Y + s.Height/2} }

// Shapes returns one shape per positioned node, in graph insertion order.
// Nodes without a position are skipped.
func Shapes(g *dag.DAG, pos Positions) []Shape {
	out := make([]Shape, 0, g.NodeCount())
	for _, n := range g.Nodes() {
		p, ok := pos[n.ID]
		if !ok {
			continue
		}
		out = append(out, Shape{
			ID:       n.ID,
			Category: n.Category,
			Label:    n.Label,
			X:        p.X,
			Y:        p.Y,
			Width:    n.Width,
			Height:   n.Height,
		})
	}
	return out
}

// RouteStyle selects how edge waypoints are drawn.
type RouteStyle string

const (
	// RouteStraight is two points: source right-centre to target left-centre.
	RouteStraight RouteStyle = "straight"
	// RouteOrthogonal adds elbows so every segment is axis-aligned.
	RouteOrthogonal RouteStyle = "orthogonal"
)

// ParseRouteStyle accepts "straight" and "orthogonal", case-insensitively.
// The empty string means RouteStraight.
func ParseRouteStyle(s string) (RouteStyle, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", string(RouteStraight):
		return RouteStraight, nil
	case string(RouteOrthogonal):
		return RouteOrthogonal, nil
	}
	return "", fmt.Errorf("unknown route style %q", s)
}

// Route is the waypoint list of one edge.
type Route struct {
	ID     string  `json:"id,omitempty" bson:"id,omitempty"`
	From   string  `json:"from" bson:"from"`
	To     string  `json:"to" bson:"to"`
	Points []Point `json:"points" bson:"points"`
	// Back is set for edges removed during cycle breaking.
	Back bool `json:"back,omitempty" bson:"back,omitempty"`
}

// loopOffset is how far orthogonal detours and self-loops clear their boxes.
const loopOffset = 20.0

// Routes computes waypoints for every edge of g whose endpoints are both
// positioned. back lists the removed back edges; each is matched against one
// edge of g by ID and endpoints, so parallel copies are all flagged.
func Routes(g *dag.DAG, pos Positions, back []dag.Edge, style RouteStyle) []Route {
	shapes := make(map[string]Shape, g.NodeCount())
	for _, s := range Shapes(g, pos) {
		shapes[s.ID] = s
	}

	type key struct{ id, from, to string }
	backs := make(map[key]int, len(back))
	for _, e := range back {
		backs[key{e.ID, e.From, e.To}]++
	}

	out := make([]Route, 0, g.EdgeCount())
	for _, e := range g.Edges() {
		src, ok1 := shapes[e.From]
		dst, ok2 := shapes[e.To]
		if !ok1 || !ok2 {
			continue
		}
		r := Route{ID: e.ID, From: e.From, To: e.To}
		if k := (key{e.ID, e.From, e.To}); backs[k] > 0 {
			backs[k]--
			r.Back = true
		}
		switch {
		case e.IsSelfLoop():
			r.Points = selfLoop(src)
		case style == RouteOrthogonal:
			r.Points = orthogonal(src, dst)
		default:
			r.Points = []Point{src.Right(), dst.Left()}
		}
		out = append(out, r)
	}
	return out
}

// selfLoop leaves the right side, passes over the box and enters from the top.
func selfLoop(s Shape) []Point {
	r := s.Right()
	top := s.Y - loopOffset
	return []Point{
		r,
		{X: r.X + loopOffset, Y: r.Y},
		{X: r.X + loopOffset, Y: top},
		{X: s.X + s.Width/2, Y: top},
		{X: s.X + s.Width/2, Y: s.Y},
	}
}

func orthogonal(src, dst Shape) []Point {
	a, b := src.Right(), dst.Left()
	if b.X > a.X {
		if a.Y == b.Y {
			return []Point{a, b}
		}
		mid := (a.X + b.X) / 2
		return []Point{a, {X: mid, Y: a.Y}, {X: mid, Y: b.Y}, b}
	}
	// Target sits left of the source: detour below both boxes.
	bottom := max(src.Y+src.Height, dst.Y+dst.Height) + loopOffset
	return []Point{
		a,
		{X: a.X + loopOffset, Y: a.Y},
		{X: a.X + loopOffset, Y: bottom},
		{X: b.X - loopOffset, Y: bottom},
		{X: b.X - loopOffset, Y: b.Y},
		b,
	}
}
