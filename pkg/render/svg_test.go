package render

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/matzehuels/bpmnlayout/pkg/graph"
	"github.com/matzehuels/bpmnlayout/pkg/layout"
)

func placed(id, category string, x, y, w, h float64) graph.PlacedNode {
	return graph.PlacedNode{Shape: layout.Shape{ID: id, Category: category, X: x, Y: y, Width: w, Height: h}}
}

func sampleLayout() graph.Layout {
	return graph.Layout{
		Tier: "native",
		Nodes: []graph.PlacedNode{
			placed("start", "startEvent", 100, 100, 36, 36),
			placed("check", "userTask", 400, 100, 100, 80),
			placed("gw", "exclusiveGateway", 700, 100, 50, 50),
			placed("stop", "endEvent", 1000, 100, 36, 36),
		},
		Edges: []layout.Route{
			{From: "start", To: "check", Points: []layout.Point{{X: 136, Y: 118}, {X: 400, Y: 140}}},
			{From: "check", To: "gw", Points: []layout.Point{{X: 500, Y: 140}, {X: 700, Y: 125}}},
			{From: "gw", To: "check", Back: true, Points: []layout.Point{{X: 750, Y: 125}, {X: 400, Y: 140}}},
			{From: "gw", To: "stop", Points: []layout.Point{{X: 750, Y: 125}, {X: 1000, Y: 118}}},
		},
	}
}

func TestRenderSVG(t *testing.T) {
	svg := string(RenderSVG(sampleLayout()))

	// Bounds are (100,100)-(1036,180); 20px padding on each side.
	for _, want := range []string{
		`viewBox="0 0 976.0 120.0"`,
		`<g transform="translate(-80.0,-80.0)">`,
		`<circle id="node-start" class="node" cx="118.0" cy="118.0" r="18.0"/>`,
		`<circle id="node-stop" class="node end"`,
		`<polygon id="node-gw" class="node" points="725.0,100.0 750.0,125.0 725.0,150.0 700.0,125.0"/>`,
		`<rect id="node-check" class="node" x="400.0" y="100.0" width="100.0" height="80.0" rx="10"/>`,
		`<polyline class="edge back" data-from="gw" data-to="check"`,
		`marker-end="url(#arrow)"`,
		`<text class="label" x="450.0" y="140.0">check</text>`,
	} {
		if !strings.Contains(svg, want) {
			t.Errorf("SVG missing %s", want)
		}
	}
	if got := strings.Count(svg, "<polyline"); got != 4 {
		t.Errorf("polylines = %d, want 4", got)
	}
	if !strings.HasSuffix(svg, "</svg>\n") {
		t.Error("SVG should be closed")
	}
}

func TestRenderSVGOptions(t *testing.T) {
	svg := string(RenderSVG(sampleLayout(), WithoutLabels(), WithPadding(0), WithTitle("a < b")))

	if strings.Contains(svg, "<text") {
		t.Error("labels should be omitted")
	}
	if !strings.Contains(svg, `viewBox="0 0 936.0 80.0"`) {
		t.Error("padding 0 should shrink the view box")
	}
	if !strings.Contains(svg, "<title>a &lt; b</title>") {
		t.Error("title should be escaped")
	}
}

func TestRenderSVGShapes(t *testing.T) {
	l := graph.Layout{Nodes: []graph.PlacedNode{
		placed("sub", "subProcess", 0, 0, 150, 120),
		placed("call", "callActivity", 200, 0, 100, 80),
		placed("odd", "", 400, 0, 100, 80),
	}}
	l.Nodes[2].Label = `"quoted" & <odd>`
	svg := string(RenderSVG(l))

	if !strings.Contains(svg, `<rect id="node-sub" class="node" x="0.0" y="0.0" width="150.0" height="120.0"/>`) {
		t.Error("sub-process should be a square-cornered rect")
	}
	if !strings.Contains(svg, `class="node call"`) {
		t.Error("call activity should use the call class")
	}
	if !strings.Contains(svg, "&#34;quoted&#34; &amp; &lt;odd&gt;") {
		t.Error("label should be escaped")
	}
}

func TestRenderSVGEmpty(t *testing.T) {
	svg := string(RenderSVG(graph.Layout{}))
	if !strings.Contains(svg, `viewBox="0 0 40.0 40.0"`) {
		t.Errorf("empty layout should only have padding:\n%s", svg)
	}
}

func TestRenderSVGSkipsDegenerateRoutes(t *testing.T) {
	l := sampleLayout()
	l.Edges = append(l.Edges, layout.Route{From: "a", To: "b", Points: []layout.Point{{X: 1, Y: 1}}})
	if got := strings.Count(string(RenderSVG(l)), "<polyline"); got != 4 {
		t.Errorf("polylines = %d, want 4", got)
	}
}

func TestConverterMissing(t *testing.T) {
	t.Setenv("PATH", t.TempDir())

	if _, err := ToPDF(context.Background(), []byte("<svg/>")); !errors.Is(err, ErrConverterMissing) {
		t.Errorf("ToPDF err = %v, want ErrConverterMissing", err)
	}
	if _, err := ToPNG(context.Background(), []byte("<svg/>"), 2); !errors.Is(err, ErrConverterMissing) {
		t.Errorf("ToPNG err = %v, want ErrConverterMissing", err)
	}
}
