package bpmn

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/bpmnlayout/pkg/graph"
	"github.com/matzehuels/bpmnlayout/pkg/layout"
)

func readTestdata(t *testing.T, name string) []byte {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", name))
	if err != nil {
		t.Fatalf("read %s: %v", name, err)
	}
	return data
}

func layoutOf(t *testing.T, d *Document) graph.Layout {
	t.Helper()
	g, err := d.Graph()
	if err != nil {
		t.Fatalf("Graph: %v", err)
	}
	res := layout.Compute(context.Background(), g, layout.Options{Logger: log.New(io.Discard)})
	return graph.NewLayout(g, res, layout.DefaultSpacingFactor, layout.RouteStraight)
}

const simple = `<?xml version="1.0" encoding="UTF-8"?>
<definitions xmlns="http://www.omg.org/spec/BPMN/20100524/MODEL" id="Definitions_1">
  <process id="Process_1" isExecutable="false">
    <startEvent id="StartEvent_1" name="Start"/>
    <task id="Task_1" name="Task 1"/>
    <sequenceFlow id="Flow_1" sourceRef="StartEvent_1" targetRef="Task_1"/>
  </process>
</definitions>
`

func TestParse(t *testing.T) {
	d, err := Parse(bytes.NewReader(readTestdata(t, "order.bpmn")))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if got := d.ProcessID(); got != "Process_Order" {
		t.Errorf("ProcessID() = %q, want Process_Order", got)
	}
	if len(d.Elements) != 8 {
		t.Errorf("elements = %d, want 8", len(d.Elements))
	}
	if len(d.Flows) != 8 {
		t.Errorf("flows = %d, want 8", len(d.Flows))
	}
	if d.HasShapes || d.HasEdges || d.HasDiagram() {
		t.Error("order.bpmn has no diagram section")
	}

	review, ok := d.Element("Review")
	if !ok || review.Type != "userTask" || review.Name != "Review order" || review.Process != "Process_Order" {
		t.Errorf("Review = %+v", review)
	}
	if _, ok := d.Element("Billing_Invoice"); !ok {
		t.Error("nested sub-process elements should be collected")
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		isNot bool
	}{
		{"Empty", "", true},
		{"WrongRoot", `<svg xmlns="http://www.w3.org/2000/svg"/>`, true},
		{"ForeignDefinitions", `<definitions xmlns="urn:other"/>`, true},
		{"Malformed", `<definitions><process>`, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseBytes([]byte(tt.input))
			if err == nil {
				t.Fatal("expected error")
			}
			if got := errors.Is(err, ErrNotBPMN); got != tt.isNot {
				t.Errorf("errors.Is(err, ErrNotBPMN) = %v, want %v (%v)", got, tt.isNot, err)
			}
		})
	}
}

func TestParseNoProcess(t *testing.T) {
	d, err := ParseBytes([]byte(`<definitions xmlns="http://www.omg.org/spec/BPMN/20100524/MODEL"/>`))
	if err != nil {
		t.Fatalf("ParseBytes: %v", err)
	}
	if len(d.Elements) != 0 || d.ProcessID() != "" {
		t.Errorf("document = %+v", d)
	}
}

func TestDocumentGraph(t *testing.T) {
	d, err := ParseBytes(readTestdata(t, "order.bpmn"))
	if err != nil {
		t.Fatalf("ParseBytes: %v", err)
	}
	g, err := d.Graph()
	if err != nil {
		t.Fatalf("Graph: %v", err)
	}
	if g.NodeCount() != 8 {
		t.Errorf("nodes = %d, want 8", g.NodeCount())
	}
	// Flow_7 points at an unknown element.
	if g.EdgeCount() != 7 {
		t.Errorf("edges = %d, want 7", g.EdgeCount())
	}
	sub, _ := g.Node("Sub_Billing")
	if sub.Width != 150 || sub.Height != 120 {
		t.Errorf("sub-process size = %vx%v, want 150x120", sub.Width, sub.Height)
	}
	if sub.Label != "Billing" {
		t.Errorf("label = %q, want Billing", sub.Label)
	}
}

func TestDocumentGraphDuplicate(t *testing.T) {
	d, err := ParseBytes([]byte(`<definitions xmlns="http://www.omg.org/spec/BPMN/20100524/MODEL">
<process id="P"><task id="A"/><task id="A"/></process></definitions>`))
	if err != nil {
		t.Fatalf("ParseBytes: %v", err)
	}
	if _, err := d.Graph(); !errors.Is(err, ErrDuplicateElement) {
		t.Errorf("err = %v, want ErrDuplicateElement", err)
	}
}

func TestInjectAppendsDiagram(t *testing.T) {
	src := []byte(simple)
	d, err := ParseBytes(src)
	if err != nil {
		t.Fatalf("ParseBytes: %v", err)
	}
	out, err := Inject(src, d, layoutOf(t, d), InjectOptions{})
	if err != nil {
		t.Fatalf("Inject: %v", err)
	}
	s := string(out)

	for _, want := range []string{
		`<bpmndi:BPMNDiagram xmlns:bpmndi="http://www.omg.org/spec/BPMN/20100524/DI"`,
		`<bpmndi:BPMNPlane id="BPMNPlane_1" bpmnElement="Process_1">`,
		`<bpmndi:BPMNShape id="StartEvent_1_di" bpmnElement="StartEvent_1"><dc:Bounds x="100" y="100" width="36" height="36"/>`,
		`<bpmndi:BPMNShape id="Task_1_di" bpmnElement="Task_1"><dc:Bounds x="400" y="100" width="100" height="80"/>`,
		`<bpmndi:BPMNEdge id="Flow_1_di" bpmnElement="Flow_1"><di:waypoint x="136" y="118"/><di:waypoint x="400" y="140"/></bpmndi:BPMNEdge>`,
	} {
		if !strings.Contains(s, want) {
			t.Errorf("output missing %s\n%s", want, s)
		}
	}

	// The process section is untouched and the result parses again.
	if !strings.HasPrefix(s, simple[:strings.Index(simple, "</definitions>")]) {
		t.Error("content before the diagram changed")
	}
	if !strings.HasSuffix(s, "</bpmndi:BPMNDiagram>\n</definitions>\n") {
		t.Errorf("unexpected tail:\n%s", s)
	}
	again, err := ParseBytes(out)
	if err != nil {
		t.Fatalf("re-parse: %v", err)
	}
	if !again.HasLayout() || len(again.Elements) != 2 {
		t.Errorf("re-parsed = %+v", again)
	}
}

func TestInjectKeepsExistingLayout(t *testing.T) {
	src := readTestdata(t, "laid_out.bpmn")
	d, err := ParseBytes(src)
	if err != nil {
		t.Fatalf("ParseBytes: %v", err)
	}
	if !d.HasLayout() {
		t.Fatal("laid_out.bpmn should have a layout")
	}

	out, err := Inject(src, d, layoutOf(t, d), InjectOptions{})
	if err != nil {
		t.Fatalf("Inject: %v", err)
	}
	if !bytes.Equal(out, src) {
		t.Error("document with layout should be returned unchanged")
	}
}

func TestInjectForceReplacesDiagram(t *testing.T) {
	src := readTestdata(t, "laid_out.bpmn")
	d, err := ParseBytes(src)
	if err != nil {
		t.Fatalf("ParseBytes: %v", err)
	}

	out, err := Inject(src, d, layoutOf(t, d), InjectOptions{Force: true, DiagramID: "Diagram_New"})
	if err != nil {
		t.Fatalf("Inject: %v", err)
	}
	s := string(out)
	if strings.Contains(s, "Diagram_Old") || strings.Contains(s, `x="10" y="10"`) {
		t.Errorf("old diagram survived:\n%s", s)
	}
	if strings.Count(s, "<bpmndi:BPMNDiagram") != 1 {
		t.Errorf("want exactly one diagram:\n%s", s)
	}
	if !strings.Contains(s, `id="Diagram_New"`) {
		t.Error("diagram id not applied")
	}
	prefix := string(src[:bytes.Index(src, []byte("<bpmndi:BPMNDiagram"))])
	if !strings.HasPrefix(s, prefix) {
		t.Error("content before the diagram changed")
	}
	if _, err := ParseBytes(out); err != nil {
		t.Errorf("re-parse: %v", err)
	}
}

func TestInjectBackEdgeAndDanglingFlow(t *testing.T) {
	src := readTestdata(t, "order.bpmn")
	d, err := ParseBytes(src)
	if err != nil {
		t.Fatalf("ParseBytes: %v", err)
	}
	l := layoutOf(t, d)
	if len(l.BackEdges) != 1 || l.BackEdges[0].ID != "Flow_3" {
		t.Errorf("back edges = %+v, want [Flow_3]", l.BackEdges)
	}

	out, err := Inject(src, d, l, InjectOptions{})
	if err != nil {
		t.Fatalf("Inject: %v", err)
	}
	s := string(out)
	if strings.Count(s, "<bpmndi:BPMNShape") != 8 {
		t.Errorf("shapes = %d, want 8", strings.Count(s, "<bpmndi:BPMNShape"))
	}
	if strings.Count(s, "<bpmndi:BPMNEdge") != 7 {
		t.Errorf("edges = %d, want 7", strings.Count(s, "<bpmndi:BPMNEdge"))
	}
	if strings.Contains(s, "Flow_7_di") {
		t.Error("flow with unknown target should get no edge")
	}
	if !strings.Contains(s, `<bpmndi:BPMNEdge id="Flow_3_di" bpmnElement="Flow_3">`) {
		t.Error("back edge should still be drawn")
	}
}

func TestInjectMismatch(t *testing.T) {
	d, err := ParseBytes([]byte(simple))
	if err != nil {
		t.Fatalf("ParseBytes: %v", err)
	}
	if _, err := Inject([]byte("<definitions/>"), d, graph.Layout{}, InjectOptions{}); !errors.Is(err, ErrOffsetMismatch) {
		t.Errorf("err = %v, want ErrOffsetMismatch", err)
	}
}

func TestInjectEmptyLayout(t *testing.T) {
	src := []byte(simple)
	d, _ := ParseBytes(src)
	out, err := Inject(src, d, graph.Layout{}, InjectOptions{})
	if err != nil {
		t.Fatalf("Inject: %v", err)
	}
	if !bytes.Equal(out, src) {
		t.Error("empty layout should leave the document unchanged")
	}
}

func TestQuoteAttr(t *testing.T) {
	if got := quoteAttr(`a"<b>&`); got != `"a&#34;&lt;b&gt;&amp;"` {
		t.Errorf("quoteAttr = %s", got)
	}
}
