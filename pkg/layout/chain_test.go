package layout

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/bpmnlayout/pkg/dag"
)

type stubStrategy struct {
	tier  Tier
	place func(ctx context.Context, g *dag.DAG) (Placement, error)
}

func (s stubStrategy) Tier() Tier { return s.tier }

func (s stubStrategy) Place(ctx context.Context, g *dag.DAG) (Placement, error) {
	return s.place(ctx, g)
}

func twoNodes(t *testing.T) *dag.DAG {
	return buildGraph(t, [][2]string{{"A", "task"}, {"B", "task"}}, [][2]string{{"A", "B"}})
}

func TestChainAppendsGrid(t *testing.T) {
	assert.Equal(t, []Tier{TierGrid}, NewChain(quiet).Tiers())
	assert.Equal(t, []Tier{TierNative, TierGrid}, NewChain(quiet, NativeStrategy{}).Tiers())
	assert.Equal(t, []Tier{TierGrid}, NewChain(quiet, GridStrategy{}).Tiers())
}

func TestChainFallsThrough(t *testing.T) {
	tests := []struct {
		name  string
		place func(context.Context, *dag.DAG) (Placement, error)
	}{
		{"error", func(context.Context, *dag.DAG) (Placement, error) {
			return Placement{}, errors.New("engine unavailable")
		}},
		{"panic", func(context.Context, *dag.DAG) (Placement, error) {
			panic("boom")
		}},
		{"missing node", func(context.Context, *dag.DAG) (Placement, error) {
			return Placement{Positions: Positions{"A": {X: 1, Y: 1}}}, nil
		}},
		{"nan", func(context.Context, *dag.DAG) (Placement, error) {
			return Placement{Positions: Positions{"A": {X: math.NaN()}, "B": {}}}, nil
		}},
		{"inf", func(context.Context, *dag.DAG) (Placement, error) {
			return Placement{Positions: Positions{"A": {}, "B": {Y: math.Inf(-1)}}}, nil
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := twoNodes(t)
			c := NewChain(quiet, stubStrategy{tier: TierGraphviz, place: tt.place}, GridStrategy{})
			res := c.Run(context.Background(), g)

			assert.Equal(t, TierGrid, res.Tier)
			require.Len(t, res.Attempts, 2)
			assert.Error(t, res.Attempts[0].Err)
			assert.Equal(t, Grid([]string{"A", "B"}), res.Positions)
		})
	}
}

func TestChainFirstSuccessWins(t *testing.T) {
	want := Positions{"A": {X: 1, Y: 2}, "B": {X: 3, Y: 4}}
	calls := 0
	c := NewChain(quiet,
		stubStrategy{tier: TierGraphviz, place: func(context.Context, *dag.DAG) (Placement, error) {
			calls++
			return Placement{Positions: want}, nil
		}},
		stubStrategy{tier: TierNative, place: func(context.Context, *dag.DAG) (Placement, error) {
			calls++
			return Placement{}, errors.New("should not run")
		}},
	)
	res := c.Run(context.Background(), twoNodes(t))
	assert.Equal(t, TierGraphviz, res.Tier)
	assert.Equal(t, want, res.Positions)
	assert.Equal(t, 1, calls)
	assert.Len(t, res.Attempts, 1)
}

func TestChainStrategiesGetClones(t *testing.T) {
	g := twoNodes(t)
	c := NewChain(quiet,
		stubStrategy{tier: TierNative, place: func(_ context.Context, h *dag.DAG) (Placement, error) {
			h.RemoveEdge("A", "B")
			return Placement{}, errors.New("gave up")
		}},
		stubStrategy{tier: TierGrid, place: func(_ context.Context, h *dag.DAG) (Placement, error) {
			if !h.HasEdge("A", "B") {
				return Placement{}, errors.New("edge leaked")
			}
			return GridStrategy{}.Place(context.Background(), h)
		}},
	)
	res := c.Run(context.Background(), g)
	assert.Equal(t, TierGrid, res.Tier)
	assert.NoError(t, res.Attempts[1].Err)
	assert.True(t, g.HasEdge("A", "B"))
}

func TestChainFailingFinalTier(t *testing.T) {
	c := NewChain(quiet, stubStrategy{tier: TierGrid, place: func(context.Context, *dag.DAG) (Placement, error) {
		return Placement{}, errors.New("broken")
	}})
	res := c.Run(context.Background(), twoNodes(t))
	assert.Equal(t, TierGrid, res.Tier)
	assert.Len(t, res.Positions, 2)
}
