package cli

import (
	"fmt"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/bpmnlayout/pkg/graph"
	"github.com/matzehuels/bpmnlayout/pkg/layout"
)

func sampleLayout(n int) graph.Layout {
	l := graph.Layout{Tier: "native"}
	for i := range n {
		l.Nodes = append(l.Nodes, graph.PlacedNode{
			Shape: layout.Shape{ID: fmt.Sprintf("n%d", i), Category: "task", X: float64(i) * 150, Width: 100, Height: 80},
			Layer: i,
		})
		if i > 0 {
			l.Edges = append(l.Edges, layout.Route{From: fmt.Sprintf("n%d", i-1), To: fmt.Sprintf("n%d", i)})
		}
	}
	l.Edges = append(l.Edges, layout.Route{From: fmt.Sprintf("n%d", n-1), To: "n0", Back: true})
	return l
}

func key(s string) tea.KeyMsg {
	switch s {
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(m InspectModel, keys ...string) InspectModel {
	for _, k := range keys {
		next, _ := m.Update(key(k))
		m = next.(InspectModel)
	}
	return m
}

func TestInspectModelNavigation(t *testing.T) {
	m := NewInspectModel("flow", sampleLayout(20))
	m.Height = 5

	m = press(m, "down", "j", "down")
	if m.Cursor != 3 || m.Offset != 0 {
		t.Errorf("cursor=%d offset=%d, want 3/0", m.Cursor, m.Offset)
	}

	m = press(m, "down", "down")
	if m.Cursor != 5 || m.Offset != 1 {
		t.Errorf("cursor=%d offset=%d, want 5/1", m.Cursor, m.Offset)
	}

	m = press(m, "G")
	if m.Cursor != 19 || m.Offset != 15 {
		t.Errorf("after G: cursor=%d offset=%d, want 19/15", m.Cursor, m.Offset)
	}
	m = press(m, "down")
	if m.Cursor != 19 {
		t.Errorf("cursor moved past the end: %d", m.Cursor)
	}

	m = press(m, "g", "up", "k")
	if m.Cursor != 0 || m.Offset != 0 {
		t.Errorf("after g: cursor=%d offset=%d", m.Cursor, m.Offset)
	}
}

func TestInspectModelQuit(t *testing.T) {
	m := NewInspectModel("flow", sampleLayout(3))
	for _, k := range []string{"q", "esc"} {
		msg := key(k)
		if k == "esc" {
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		}
		if _, cmd := m.Update(msg); cmd == nil {
			t.Errorf("%s should quit", k)
		}
	}
	if _, cmd := m.Update(key("x")); cmd != nil {
		t.Error("unbound key should not return a command")
	}
}

func TestInspectModelResize(t *testing.T) {
	m := NewInspectModel("flow", sampleLayout(3))
	next, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 40})
	if got := next.(InspectModel).Height; got != 30 {
		t.Errorf("Height = %d, want 30", got)
	}
	next, _ = m.Update(tea.WindowSizeMsg{Width: 80, Height: 8})
	if got := next.(InspectModel).Height; got != 5 {
		t.Errorf("Height = %d, want 5", got)
	}
}

func TestInspectModelView(t *testing.T) {
	m := NewInspectModel("flow.bpmn", sampleLayout(3))
	view := m.View()

	for _, want := range []string{"flow.bpmn", "n0", "n2", "Category", "[1/3]", "n2 (back)"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
}

func TestInspectModelEmpty(t *testing.T) {
	m := NewInspectModel("empty", graph.Layout{Tier: "native"})
	m = press(m, "down", "G")
	if m.Cursor != 0 {
		t.Errorf("cursor = %d, want 0", m.Cursor)
	}
	if !strings.Contains(m.View(), "[0/0]") {
		t.Error("empty view should show [0/0]")
	}
}

func TestRenderPlainTable(t *testing.T) {
	out := renderPlainTable(sampleLayout(2))
	for _, want := range []string{"Node", "Category", "Layer", "n0", "n1", "task", "150"} {
		if !strings.Contains(out, want) {
			t.Errorf("table missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "▸") {
		t.Error("plain table has no cursor")
	}
}

func TestLayoutSummary(t *testing.T) {
	l := sampleLayout(3)
	l.BackEdges = []graph.Edge{{From: "n2", To: "n0"}}
	l.Crossings = 2
	want := "tier native · 3 nodes · 3 edges · 1 back edges · 2 crossings"
	if got := layoutSummary(l); got != want {
		t.Errorf("layoutSummary = %q, want %q", got, want)
	}
}
