package render

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/matzehuels/bpmnlayout/pkg/dag"
	"github.com/matzehuels/bpmnlayout/pkg/graph"
	"github.com/matzehuels/bpmnlayout/pkg/layout"
)

// DefaultPadding is the blank border around the drawing, in pixels.
const DefaultPadding = 20.0

const svgStyle = `
    .node { fill: #fff; stroke: #333; stroke-width: 2; }
    .node.end { stroke-width: 4; }
    .node.call { stroke-width: 4; }
    .edge { fill: none; stroke: #333; stroke-width: 1.5; }
    .edge.back { stroke: #b03a2e; stroke-dasharray: 6 4; }
    .label { font: 12px sans-serif; fill: #222; text-anchor: middle; dominant-baseline: middle; }`

type SVGOption func(*svgRenderer)

type svgRenderer struct {
	labels  bool
	padding float64
	title   string
}

// WithoutLabels omits node labels.
func WithoutLabels() SVGOption { return func(r *svgRenderer) { r.labels = false } }

// WithPadding sets the blank border around the drawing.
func WithPadding(p float64) SVGOption { return func(r *svgRenderer) { r.padding = max(p, 0) } }

// WithTitle adds a <title> element.
func WithTitle(s string) SVGOption { return func(r *svgRenderer) { r.title = s } }

// RenderSVG draws l. The drawing is translated so its bounding box starts at
// the padding offset; negative coordinates are therefore fine.
func RenderSVG(l graph.Layout, opts ...SVGOption) []byte {
	r := svgRenderer{labels: true, padding: DefaultPadding}
	for _, opt := range opts {
		opt(&r)
	}

	minX, minY, maxX, maxY := l.Bounds()
	w := maxX - minX + 2*r.padding
	h := maxY - minY + 2*r.padding

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		w, h, w, h)
	if r.title != "" {
		fmt.Fprintf(&buf, "  <title>%s</title>\n", escape(r.title))
	}
	renderDefs(&buf)
	fmt.Fprintf(&buf, `  <g transform="translate(%.1f,%.1f)">`+"\n", r.padding-minX, r.padding-minY)

	for _, e := range l.Edges {
		renderEdge(&buf, e)
	}
	for _, n := range l.Nodes {
		renderNode(&buf, n.Shape)
	}
	if r.labels {
		for _, n := range l.Nodes {
			renderLabel(&buf, n.Shape)
		}
	}

	buf.WriteString("  </g>\n</svg>\n")
	return buf.Bytes()
}

func renderDefs(buf *bytes.Buffer) {
	buf.WriteString("  <defs>\n")
	buf.WriteString(`    <marker id="arrow" viewBox="0 0 10 10" refX="10" refY="5" markerWidth="8" markerHeight="8" orient="auto-start-reverse">`)
	buf.WriteString(`<path d="M 0 0 L 10 5 L 0 10 z" fill="#333"/></marker>` + "\n")
	fmt.Fprintf(buf, "    <style>%s\n    </style>\n", svgStyle)
	buf.WriteString("  </defs>\n")
}

func renderNode(buf *bytes.Buffer, s layout.Shape) {
	id := escape(s.ID)
	cx, cy := s.X+s.Width/2, s.Y+s.Height/2

	switch dag.Classify(s.Category) {
	case dag.KindEvent:
		class := "node"
		if isEndEvent(s.Category) {
			class += " end"
		}
		fmt.Fprintf(buf, `    <circle id="node-%s" class="%s" cx="%.1f" cy="%.1f" r="%.1f"/>`+"\n",
			id, class, cx, cy, min(s.Width, s.Height)/2)
	case dag.KindGateway:
		fmt.Fprintf(buf, `    <polygon id="node-%s" class="node" points="%.1f,%.1f %.1f,%.1f %.1f,%.1f %.1f,%.1f"/>`+"\n",
			id, cx, s.Y, s.X+s.Width, cy, cx, s.Y+s.Height, s.X, cy)
	case dag.KindSubProcess:
		fmt.Fprintf(buf, `    <rect id="node-%s" class="node" x="%.1f" y="%.1f" width="%.1f" height="%.1f"/>`+"\n",
			id, s.X, s.Y, s.Width, s.Height)
	case dag.KindCallActivity:
		fmt.Fprintf(buf, `    <rect id="node-%s" class="node call" x="%.1f" y="%.1f" width="%.1f" height="%.1f" rx="10"/>`+"\n",
			id, s.X, s.Y, s.Width, s.Height)
	default:
		fmt.Fprintf(buf, `    <rect id="node-%s" class="node" x="%.1f" y="%.1f" width="%.1f" height="%.1f" rx="10"/>`+"\n",
			id, s.X, s.Y, s.Width, s.Height)
	}
}

// renderLabel centres task labels inside the box and puts event and gateway
// labels underneath, where BPMN tools usually show them.
func renderLabel(buf *bytes.Buffer, s layout.Shape) {
	label := s.Label
	if label == "" {
		label = s.ID
	}
	x, y := s.X+s.Width/2, s.Y+s.Height/2
	switch dag.Classify(s.Category) {
	case dag.KindEvent, dag.KindGateway:
		y = s.Y + s.Height + 12
	}
	fmt.Fprintf(buf, `    <text class="label" x="%.1f" y="%.1f">%s</text>`+"\n", x, y, escape(label))
}

func renderEdge(buf *bytes.Buffer, e layout.Route) {
	if len(e.Points) < 2 {
		return
	}
	class := "edge"
	if e.Back {
		class += " back"
	}
	pts := make([]string, len(e.Points))
	for i, p := range e.Points {
		pts[i] = fmt.Sprintf("%.1f,%.1f", p.X, p.Y)
	}
	fmt.Fprintf(buf, `    <polyline class="%s" data-from="%s" data-to="%s" points="%s" marker-end="url(#arrow)"/>`+"\n",
		class, escape(e.From), escape(e.To), strings.Join(pts, " "))
}

func isEndEvent(category string) bool {
	return strings.HasPrefix(strings.ToLower(category), "end")
}

func escape(s string) string {
	var b strings.Builder
	_ = xml.EscapeText(&b, []byte(s))
	return b.String()
}
