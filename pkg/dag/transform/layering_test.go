package transform

import (
	"reflect"
	"testing"

	"github.com/matzehuels/bpmnlayout/pkg/dag"
)

func TestAssignLayers(t *testing.T) {
	tests := []struct {
		name     string
		nodes    []string
		edges    [][2]string
		want     [][]string
		degraded bool
	}{
		{
			name:  "chain",
			nodes: []string{"A", "B", "C", "D"},
			edges: [][2]string{{"A", "B"}, {"B", "C"}, {"C", "D"}},
			want:  [][]string{{"A"}, {"B"}, {"C"}, {"D"}},
		},
		{
			name:  "diamond",
			nodes: []string{"A", "B", "C", "D"},
			edges: [][2]string{{"A", "B"}, {"A", "C"}, {"B", "D"}, {"C", "D"}},
			want:  [][]string{{"A"}, {"B", "C"}, {"D"}},
		},
		{
			name:  "longest path wins",
			nodes: []string{"a", "b", "c"},
			edges: [][2]string{{"a", "c"}, {"a", "b"}, {"b", "c"}},
			want:  [][]string{{"a"}, {"b"}, {"c"}},
		},
		{
			name:  "isolated node",
			nodes: []string{"a", "b", "x"},
			edges: [][2]string{{"a", "b"}},
			want:  [][]string{{"a", "x"}, {"b"}},
		},
		{
			name:  "reverse insertion order",
			nodes: []string{"end", "mid", "start"},
			edges: [][2]string{{"start", "mid"}, {"mid", "end"}},
			want:  [][]string{{"start"}, {"mid"}, {"end"}},
		},
		{
			name:  "self-loop ignored",
			nodes: []string{"a", "b"},
			edges: [][2]string{{"a", "a"}, {"a", "b"}},
			want:  [][]string{{"a"}, {"b"}},
		},
		{
			name:     "pure cycle",
			nodes:    []string{"a", "b"},
			edges:    [][2]string{{"a", "b"}, {"b", "a"}},
			want:     [][]string{{"a", "b"}},
			degraded: true,
		},
		{
			name:     "cycle behind a start",
			nodes:    []string{"a", "b", "c"},
			edges:    [][2]string{{"a", "b"}, {"b", "c"}, {"c", "b"}},
			want:     [][]string{{"a"}, {"b"}, {"c"}},
			degraded: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := AssignLayers(newGraph(t, tt.nodes, tt.edges))
			if !reflect.DeepEqual(l.Layers, tt.want) {
				t.Errorf("Layers = %v, want %v", l.Layers, tt.want)
			}
			if l.Degraded != tt.degraded {
				t.Errorf("Degraded = %v, want %v", l.Degraded, tt.degraded)
			}
			if l.NodeCount() != len(tt.nodes) {
				t.Errorf("NodeCount() = %d, want %d", l.NodeCount(), len(tt.nodes))
			}
		})
	}
}

func TestAssignLayers_EdgesPointForward(t *testing.T) {
	g := newGraph(t, []string{"s", "t1", "gw", "t2", "t3", "join", "e"}, [][2]string{
		{"s", "t1"}, {"t1", "gw"}, {"gw", "t2"}, {"gw", "t3"},
		{"t2", "join"}, {"t3", "join"}, {"join", "e"}, {"t1", "e"},
	})
	l := AssignLayers(g)
	for _, e := range g.Edges() {
		lu, _ := l.LayerOf(e.From)
		lv, _ := l.LayerOf(e.To)
		if lu >= lv {
			t.Errorf("edge %s→%s: layer %d >= %d", e.From, e.To, lu, lv)
		}
	}
}

func TestAssignLayers_Empty(t *testing.T) {
	l := AssignLayers(dag.New(nil))
	if l.Len() != 0 {
		t.Errorf("Len() = %d, want 0", l.Len())
	}
	if _, ok := l.LayerOf("x"); ok {
		t.Error("LayerOf on empty layering returned ok")
	}
}

func TestLayering_Clone(t *testing.T) {
	l := NewLayering([][]string{{"a"}, {}, {"b", "c"}})
	if l.Len() != 2 {
		t.Fatalf("Len() = %d, want empty layer dropped", l.Len())
	}
	if i, _ := l.LayerOf("c"); i != 1 {
		t.Errorf("LayerOf(c) = %d, want 1", i)
	}

	c := l.Clone()
	c.Layers[1][0] = "z"
	if l.Layers[1][0] != "b" {
		t.Error("Clone shares layer slices")
	}
}
