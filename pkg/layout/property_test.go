package layout

import (
	"context"
	"fmt"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/matzehuels/bpmnlayout/pkg/dag"
)

// randomGraph builds a graph with n nodes and one edge per pair, each pair
// value encoding (from, to) as from*n+to. Self-loops and parallel edges are
// kept.
func randomGraph(n int, pairs []int) *dag.DAG {
	g := dag.New(nil)
	cats := []string{"startEvent", "task", "exclusiveGateway", "subProcess", "endEvent"}
	for i := range n {
		_ = g.AddNode(dag.Node{ID: fmt.Sprintf("n%d", i), Category: cats[i%len(cats)]})
	}
	for _, p := range pairs {
		from, to := (p/n)%n, p%n
		_ = g.AddEdge(dag.Edge{From: fmt.Sprintf("n%d", from), To: fmt.Sprintf("n%d", to)})
	}
	return g
}

func TestLayoutProperties(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping property-based test in short mode")
	}

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200

	properties := gopter.NewProperties(parameters)

	properties.Property("every node gets a position", prop.ForAll(
		func(n int, pairs []int) bool {
			g := randomGraph(n, pairs)
			res := Compute(context.Background(), g, Options{Logger: quiet})
			if len(res.Positions) != n {
				return false
			}
			for _, id := range g.NodeIDs() {
				if _, ok := res.Positions[id]; !ok {
					return false
				}
			}
			return true
		},
		gen.IntRange(1, 8),
		gen.SliceOfN(12, gen.IntRange(0, 63)),
	))

	properties.Property("kept edges point right", prop.ForAll(
		func(n int, pairs []int) bool {
			g := randomGraph(n, pairs)
			res := Compute(context.Background(), g, Options{Logger: quiet})
			if res.Tier != TierNative {
				return true
			}

			removed := map[[2]string]int{}
			for _, e := range res.BackEdges {
				removed[[2]string{e.From, e.To}]++
			}
			for _, e := range g.Edges() {
				k := [2]string{e.From, e.To}
				if removed[k] > 0 {
					removed[k]--
					continue
				}
				if e.IsSelfLoop() {
					continue
				}
				if res.Positions[e.From].X >= res.Positions[e.To].X {
					return false
				}
			}
			return true
		},
		gen.IntRange(1, 7),
		gen.SliceOfN(10, gen.IntRange(0, 48)),
	))

	properties.Property("native tier is deterministic", prop.ForAll(
		func(n int, pairs []int) bool {
			a := Compute(context.Background(), randomGraph(n, pairs), Options{Logger: quiet})
			b := Compute(context.Background(), randomGraph(n, pairs), Options{Logger: quiet})
			if len(a.Positions) != len(b.Positions) {
				return false
			}
			for id, p := range a.Positions {
				if b.Positions[id] != p {
					return false
				}
			}
			return a.Tier == b.Tier
		},
		gen.IntRange(1, 7),
		gen.SliceOfN(10, gen.IntRange(0, 48)),
	))

	properties.TestingRun(t)
}
