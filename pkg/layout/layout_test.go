package layout

import (
	"context"
	"errors"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/bpmnlayout/pkg/dag"
	"github.com/matzehuels/bpmnlayout/pkg/observability"
)

var quiet = log.New(io.Discard)

func buildGraph(t *testing.T, nodes [][2]string, edges [][2]string) *dag.DAG {
	t.Helper()
	g := dag.New(nil)
	for _, n := range nodes {
		require.NoError(t, g.AddNode(dag.Node{ID: n[0], Category: n[1]}))
	}
	for _, e := range edges {
		require.NoError(t, g.AddEdge(dag.Edge{From: e[0], To: e[1]}))
	}
	return g
}

func TestComputeLinearChain(t *testing.T) {
	g := buildGraph(t,
		[][2]string{{"A", "startEvent"}, {"B", "task"}, {"C", "userTask"}, {"D", "endEvent"}},
		[][2]string{{"A", "B"}, {"B", "C"}, {"C", "D"}},
	)
	res := Compute(context.Background(), g, Options{Logger: quiet})

	require.Equal(t, TierNative, res.Tier)
	assert.Equal(t, [][]string{{"A"}, {"B"}, {"C"}, {"D"}}, res.Layers)
	assert.Equal(t, Positions{
		"A": {X: 100, Y: 100},
		"B": {X: 400, Y: 100},
		"C": {X: 700, Y: 100},
		"D": {X: 1000, Y: 100},
	}, res.Positions)
	assert.Empty(t, res.BackEdges)
	assert.Zero(t, res.Crossings)
}

func TestComputeDiamond(t *testing.T) {
	g := buildGraph(t,
		[][2]string{{"A", "startEvent"}, {"B", "task"}, {"C", "task"}, {"D", "endEvent"}},
		[][2]string{{"A", "B"}, {"A", "C"}, {"B", "D"}, {"C", "D"}},
	)
	res := Compute(context.Background(), g, Options{Logger: quiet})

	require.Equal(t, TierNative, res.Tier)
	assert.Equal(t, [][]string{{"A"}, {"B", "C"}, {"D"}}, res.Layers)
	assert.Equal(t, Point{X: 100, Y: 100}, res.Positions["A"])
	assert.Equal(t, Point{X: 400, Y: 25}, res.Positions["B"])
	assert.Equal(t, Point{X: 400, Y: 175}, res.Positions["C"])
	assert.Equal(t, Point{X: 700, Y: 100}, res.Positions["D"])
}

func TestComputeSimpleCycle(t *testing.T) {
	g := buildGraph(t,
		[][2]string{{"A", "task"}, {"B", "task"}},
		[][2]string{{"A", "B"}, {"B", "A"}},
	)
	res := Compute(context.Background(), g, Options{Logger: quiet})

	require.Equal(t, TierNative, res.Tier)
	require.Len(t, res.BackEdges, 1)
	assert.Equal(t, "B", res.BackEdges[0].From)
	assert.Equal(t, "A", res.BackEdges[0].To)
	assert.Equal(t, Point{X: 100, Y: 100}, res.Positions["A"])
	assert.Equal(t, Point{X: 400, Y: 100}, res.Positions["B"])

	// The input graph is left intact.
	assert.True(t, g.HasEdge("B", "A"))
}

func TestComputeSelfLoop(t *testing.T) {
	g := buildGraph(t, [][2]string{{"A", "task"}}, [][2]string{{"A", "A"}})
	res := Compute(context.Background(), g, Options{Logger: quiet})

	require.Equal(t, TierNative, res.Tier)
	assert.Empty(t, res.BackEdges)
	assert.Equal(t, Positions{"A": {X: 100, Y: 100}}, res.Positions)
}

func TestComputeEmpty(t *testing.T) {
	res := Compute(context.Background(), dag.New(nil), Options{})
	assert.NotNil(t, res.Positions)
	assert.Empty(t, res.Positions)
	assert.Empty(t, res.Attempts)
	assert.Equal(t, Tier(""), res.Tier)

	res = Compute(context.Background(), nil, Options{})
	assert.Empty(t, res.Positions)
}

func TestComputeSpacingFactor(t *testing.T) {
	g := buildGraph(t,
		[][2]string{{"A", "task"}, {"B", "task"}, {"C", "task"}},
		[][2]string{{"A", "B"}, {"A", "C"}},
	)
	res := Compute(context.Background(), g, Options{SpacingFactor: 1, Logger: quiet})
	assert.Equal(t, Point{X: 300, Y: 50}, res.Positions["B"])
	assert.Equal(t, Point{X: 300, Y: 150}, res.Positions["C"])
}

func TestComputeCycleBudgetFallsBackToGrid(t *testing.T) {
	// K5 has 84 simple cycles.
	var nodes, edges [][2]string
	for i := range 5 {
		nodes = append(nodes, [2]string{fmt.Sprintf("n%d", i), "task"})
		for j := range 5 {
			if i != j {
				edges = append(edges, [2]string{fmt.Sprintf("n%d", i), fmt.Sprintf("n%d", j)})
			}
		}
	}
	g := buildGraph(t, nodes, edges)

	res := Compute(context.Background(), g, Options{CycleLimit: 10, Logger: quiet})
	require.Equal(t, TierGrid, res.Tier)
	assert.True(t, res.Degraded())
	require.Len(t, res.Attempts, 2)
	assert.Equal(t, TierNative, res.Attempts[0].Tier)
	assert.Error(t, res.Attempts[0].Err)
	assert.NoError(t, res.Attempts[1].Err)
	assert.Len(t, res.Positions, 5)
	assert.Equal(t, Grid(g.NodeIDs()), res.Positions)
	assert.False(t, res.TimedOut(), "a budget fallback does not depend on load")
}

func TestResultTimedOut(t *testing.T) {
	deadline := fmt.Errorf("native tier: %w", fmt.Errorf("enumerate cycles: %w", context.DeadlineExceeded))
	tests := []struct {
		name     string
		attempts []Attempt
		want     bool
	}{
		{"NoAttempts", nil, false},
		{"Success", []Attempt{{Tier: TierNative}}, false},
		{"Canceled", []Attempt{{Tier: TierNative, Err: context.Canceled}, {Tier: TierGrid}}, false},
		{"Deadline", []Attempt{{Tier: TierNative, Err: deadline}, {Tier: TierGrid}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Result{Attempts: tt.attempts}.TimedOut())
		})
	}
}

func TestComputeCancelledContext(t *testing.T) {
	g := buildGraph(t,
		[][2]string{{"A", "task"}, {"B", "task"}},
		[][2]string{{"A", "B"}},
	)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res := Compute(ctx, g, Options{Logger: quiet})
	assert.Equal(t, TierGrid, res.Tier)
	assert.Len(t, res.Positions, 2)
}

func TestComputeDeterministic(t *testing.T) {
	nodes := [][2]string{
		{"start", "startEvent"}, {"t1", "task"}, {"gw", "exclusiveGateway"},
		{"t2", "task"}, {"t3", "task"}, {"join", "parallelGateway"}, {"end", "endEvent"},
	}
	edges := [][2]string{
		{"start", "t1"}, {"t1", "gw"}, {"gw", "t3"}, {"gw", "t2"},
		{"t2", "join"}, {"t3", "join"}, {"join", "t1"}, {"join", "end"},
	}
	a := Compute(context.Background(), buildGraph(t, nodes, edges), Options{Logger: quiet})
	b := Compute(context.Background(), buildGraph(t, nodes, edges), Options{Logger: quiet})
	assert.Equal(t, a.Positions, b.Positions)
	assert.Equal(t, a.Layers, b.Layers)
	assert.Equal(t, a.BackEdges, b.BackEdges)
}

func TestComputeNodes(t *testing.T) {
	nodes := []NodeSpec{
		{ID: "A", Category: "startEvent"},
		{ID: "B", Category: "task"},
		{ID: "B", Category: "task"},
	}
	edges := []EdgeSpec{
		{Source: "A", Target: "B"},
		{Source: "A", Target: "missing"},
	}
	pos := ComputeNodes(context.Background(), nodes, edges, 1.5)
	assert.Equal(t, Positions{"A": {X: 100, Y: 100}, "B": {X: 400, Y: 100}}, pos)

	assert.Empty(t, ComputeNodes(context.Background(), nil, nil, 0))
}

func TestComputeNodesEmptyID(t *testing.T) {
	nodes := []NodeSpec{{ID: "", Category: "task"}, {ID: "A", Category: "task"}}
	pos := ComputeNodes(context.Background(), nodes, []EdgeSpec{{Source: "", Target: "A"}}, 1.5)
	assert.Equal(t, Positions{"A": {X: 100, Y: 100}}, pos)

	assert.Empty(t, ComputeNodes(context.Background(), []NodeSpec{{ID: ""}}, nil, 1.5))
}

func TestBuildGraphSizes(t *testing.T) {
	g := BuildGraph([]NodeSpec{
		{ID: "e", Category: "endEvent"},
		{ID: "g", Category: "inclusiveGateway"},
		{ID: "s", Category: "subProcess"},
		{ID: "c", Category: "callActivity"},
		{ID: "x", Category: "dataObject"},
	}, nil, quiet)

	sizes := map[string][2]float64{}
	for _, n := range g.Nodes() {
		sizes[n.ID] = [2]float64{n.Width, n.Height}
	}
	assert.Equal(t, map[string][2]float64{
		"e": {36, 36},
		"g": {50, 50},
		"s": {150, 120},
		"c": {100, 80},
		"x": {100, 80},
	}, sizes)
}

func TestOptionsStrategies(t *testing.T) {
	tiers := func(s []Strategy) []Tier {
		var out []Tier
		for _, x := range s {
			out = append(out, x.Tier())
		}
		return out
	}
	assert.Equal(t, []Tier{TierNative, TierGrid}, tiers(Options{}.Strategies()))
	assert.Equal(t, []Tier{TierGraphviz, TierNative, TierGrid}, tiers(Options{Graphviz: true}.Strategies()))
}

type recordingHooks struct {
	observability.NoopLayoutHooks
	started  int
	attempts []string
	tier     string
}

func (h *recordingHooks) OnLayoutStart(context.Context, int, int) { h.started++ }

func (h *recordingHooks) OnTierAttempt(_ context.Context, tier string, _ time.Duration, _ error) {
	h.attempts = append(h.attempts, tier)
}

func (h *recordingHooks) OnLayoutComplete(_ context.Context, tier string, _ int, _ time.Duration) {
	h.tier = tier
}

func TestComputeHooks(t *testing.T) {
	h := &recordingHooks{}
	observability.SetLayoutHooks(h)
	t.Cleanup(observability.Reset)

	g := buildGraph(t, [][2]string{{"A", "task"}}, nil)
	Compute(context.Background(), g, Options{Logger: quiet})

	assert.Equal(t, 1, h.started)
	assert.Equal(t, []string{"native"}, h.attempts)
	assert.Equal(t, "native", h.tier)
}

func TestErrIncompletePlacementWrapped(t *testing.T) {
	g := buildGraph(t, [][2]string{{"A", "task"}, {"B", "task"}}, nil)
	err := checkComplete(g, Positions{"A": {}})
	assert.True(t, errors.Is(err, ErrIncompletePlacement))
	assert.NoError(t, checkComplete(g, Positions{"A": {}, "B": {}}))
}
