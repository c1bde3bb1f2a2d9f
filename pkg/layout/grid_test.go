package layout

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/bpmnlayout/pkg/dag/transform"
)

func TestGrid(t *testing.T) {
	tests := []struct {
		name string
		ids  []string
		want Positions
	}{
		{"empty", nil, Positions{}},
		{"single", []string{"a"}, Positions{"a": {X: 100, Y: 100}}},
		{
			// ceil(sqrt(5))+1 = 4 columns
			"five", []string{"a", "b", "c", "d", "e"},
			Positions{
				"a": {X: 100, Y: 100},
				"b": {X: 300, Y: 100},
				"c": {X: 500, Y: 100},
				"d": {X: 700, Y: 100},
				"e": {X: 100, Y: 250},
			},
		},
		{
			// ceil(sqrt(4))+1 = 3 columns
			"four", []string{"a", "b", "c", "d"},
			Positions{
				"a": {X: 100, Y: 100},
				"b": {X: 300, Y: 100},
				"c": {X: 500, Y: 100},
				"d": {X: 100, Y: 250},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Grid(tt.ids))
		})
	}
}

func TestGridIdempotent(t *testing.T) {
	ids := []string{"x", "y", "z", "w", "v", "u", "t"}
	assert.Equal(t, Grid(ids), Grid(ids))
}

func TestGridStrategyIgnoresEdges(t *testing.T) {
	g := buildGraph(t,
		[][2]string{{"a", "task"}, {"b", "task"}},
		[][2]string{{"a", "b"}, {"b", "a"}},
	)
	p, err := GridStrategy{}.Place(context.Background(), g)
	require.NoError(t, err)
	assert.Equal(t, Grid([]string{"a", "b"}), p.Positions)
	assert.Empty(t, p.BackEdges)
}

func TestAssignCoordinates(t *testing.T) {
	l := transform.NewLayering([][]string{{"a"}, {"b", "c", "d"}})

	pos := AssignCoordinates(l, 1.5)
	assert.Equal(t, Positions{
		"a": {X: 100, Y: 100},
		"b": {X: 400, Y: -50},
		"c": {X: 400, Y: 100},
		"d": {X: 400, Y: 250},
	}, pos)

	// Non-positive factors use the default.
	assert.Equal(t, pos, AssignCoordinates(l, 0))
}
