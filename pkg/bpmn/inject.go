package bpmn

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strconv"

	"github.com/matzehuels/bpmnlayout/pkg/graph"
	"github.com/matzehuels/bpmnlayout/pkg/layout"
)

// InjectOptions configures Inject.
type InjectOptions struct {
	// Force rewrites the diagram even when the document already has shapes
	// and edges.
	Force bool

	// DiagramID and PlaneID name the generated elements. Defaults are
	// "BPMNDiagram_1" and "BPMNPlane_1".
	DiagramID string
	PlaneID   string
}

// Inject writes the layout into the document's diagram interchange section.
// The first BPMNDiagram element is replaced; without one, a new diagram is
// appended to the definitions element. Everything outside that region is
// kept byte for byte.
//
// Shapes are named "<element>_di" and edges "<flow>_di"; coordinates are
// truncated to integers. Flows with an unplaced endpoint get no edge. A
// document that already has a layout is returned unchanged unless
// opts.Force is set, as is a layout with no nodes.
func Inject(src []byte, d *Document, l graph.Layout, opts InjectOptions) ([]byte, error) {
	if int64(len(src)) != d.size || d.rootEnd < 0 {
		return nil, ErrOffsetMismatch
	}
	if (d.HasLayout() && !opts.Force) || len(l.Nodes) == 0 {
		return src, nil
	}
	if opts.DiagramID == "" {
		opts.DiagramID = "BPMNDiagram_1"
	}
	if opts.PlaneID == "" {
		opts.PlaneID = "BPMNPlane_1"
	}

	diagram := writeDiagram(d, l, opts)

	var out bytes.Buffer
	out.Grow(len(src) + len(diagram) + 4)
	if d.HasDiagram() {
		out.Write(src[:d.diagramStart])
		out.Write(diagram)
		out.Write(src[d.diagramEnd:])
	} else {
		out.Write(src[:d.rootEnd])
		out.WriteString("  ")
		out.Write(diagram)
		out.WriteString("\n")
		out.Write(src[d.rootEnd:])
	}
	return out.Bytes(), nil
}

func writeDiagram(d *Document, l graph.Layout, opts InjectOptions) []byte {
	process := d.ProcessID()
	if process == "" {
		process = "Process_1"
	}

	var b bytes.Buffer
	fmt.Fprintf(&b, `<bpmndi:BPMNDiagram xmlns:bpmndi=%q xmlns:dc=%q xmlns:di=%q id=%s>`,
		NamespaceDI, NamespaceDC, NamespaceDD, quoteAttr(opts.DiagramID))
	fmt.Fprintf(&b, "\n    <bpmndi:BPMNPlane id=%s bpmnElement=%s>",
		quoteAttr(opts.PlaneID), quoteAttr(process))

	shapes := make(map[string]layout.Shape, len(l.Nodes))
	for _, n := range l.Nodes {
		shapes[n.ID] = n.Shape
	}

	for _, e := range d.Elements {
		s, ok := shapes[e.ID]
		if !ok {
			continue
		}
		fmt.Fprintf(&b, "\n      <bpmndi:BPMNShape id=%s bpmnElement=%s>",
			quoteAttr(e.ID+"_di"), quoteAttr(e.ID))
		fmt.Fprintf(&b, `<dc:Bounds x="%d" y="%d" width="%d" height="%d"/>`,
			int(s.X), int(s.Y), int(s.Width), int(s.Height))
		b.WriteString("</bpmndi:BPMNShape>")
	}

	routes := make(map[string]layout.Route, len(l.Edges))
	for _, r := range l.Edges {
		if r.ID != "" {
			routes[r.ID] = r
		}
	}

	for _, f := range d.Flows {
		src, ok1 := shapes[f.Source]
		dst, ok2 := shapes[f.Target]
		if !ok1 || !ok2 {
			continue
		}
		points := []layout.Point{src.Right(), dst.Left()}
		if r, ok := routes[f.ID]; ok && len(r.Points) >= 2 {
			points = r.Points
		}
		fmt.Fprintf(&b, "\n      <bpmndi:BPMNEdge id=%s bpmnElement=%s>",
			quoteAttr(f.ID+"_di"), quoteAttr(f.ID))
		for _, p := range points {
			fmt.Fprintf(&b, `<di:waypoint x="%d" y="%d"/>`, int(p.X), int(p.Y))
		}
		b.WriteString("</bpmndi:BPMNEdge>")
	}

	b.WriteString("\n    </bpmndi:BPMNPlane>\n  </bpmndi:BPMNDiagram>")
	return b.Bytes()
}

func quoteAttr(s string) string {
	var b bytes.Buffer
	b.WriteByte('"')
	if err := xml.EscapeText(&b, []byte(s)); err != nil {
		return strconv.Quote(s)
	}
	b.WriteByte('"')
	return b.String()
}
