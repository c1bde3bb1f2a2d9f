package transform

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/matzehuels/bpmnlayout/pkg/dag"
)

// DefaultCycleLimit is the number of simple cycles [SimpleCycles] enumerates
// before giving up. Process diagrams have a handful of loops; a graph that
// exceeds this is dense enough that the grid layout is the better answer.
const DefaultCycleLimit = 10000

// ErrCycleBudgetExceeded is returned when cycle enumeration finds more cycles
// than the configured limit.
var ErrCycleBudgetExceeded = errors.New("cycle enumeration budget exceeded")

// EdgeScorer rates how strongly an edge looks like a backward flow. When a
// cycle has to be broken, the edge with the highest score is removed.
type EdgeScorer func(from, to *dag.Node) int

// ScoreDecisive is the score at which an edge is removed without looking at
// the rest of the cycle.
const ScoreDecisive = 2

// ExceptionScorer is the default [EdgeScorer]. It is a naming heuristic, not a
// semantic analysis:
//
//   - [ScoreDecisive] when the source node's ID or category contains "catch"
//     or "exception" (case-insensitive). Exception and compensation flows are the usual way
//     back in a process.
//   - 1 when the target ID sorts before the source ID, a stand-in for "points
//     backwards relative to declaration order".
//   - 0 otherwise.
//
// The ID comparison in particular has no guaranteed relationship to process
// semantics. Supply a different scorer when the graph carries a real signal,
// such as an explicit compensation category.
func ExceptionScorer(from, to *dag.Node) int {
	if isExceptional(from.ID) || isExceptional(from.Category) {
		return ScoreDecisive
	}
	if to.ID < from.ID {
		return 1
	}
	return 0
}

func isExceptional(s string) bool {
	s = strings.ToLower(s)
	return strings.Contains(s, "catch") || strings.Contains(s, "exception")
}

// CycleOptions configures [BreakCycles].
type CycleOptions struct {
	// Limit caps the number of enumerated cycles. Zero or negative means
	// DefaultCycleLimit.
	Limit int
	// Scorer picks the edge to remove from each cycle. Nil means
	// ExceptionScorer.
	Scorer EdgeScorer
}

// BreakCycles removes one edge from every simple cycle in g and returns the
// removed edges in removal order (the back-edge record). The graph is
// modified in place and is acyclic on success, apart from self-loops.
//
// For each cycle c of length k the candidate edges are scanned in order,
// c[0]→c[1], ..., c[k-2]→c[k-1], and finally the closing edge c[k-1]→c[0].
// The first candidate scoring [ScoreDecisive] or more is removed at once.
// Otherwise the highest-scoring candidate wins and later candidates win ties,
// so when no edge scores above zero the closing edge is removed. All parallel copies
// of the chosen edge are removed together; a candidate already removed while
// processing an earlier cycle is skipped.
//
// Self-loops are reported by [SimpleCycles] as cycles of length 1. They are
// left in the graph and never appear in the back-edge record.
//
// If enumeration exceeds the budget or ctx ends, the graph is left untouched
// and the error is returned.
func BreakCycles(ctx context.Context, g *dag.DAG, opts CycleOptions) ([]dag.Edge, error) {
	scorer := opts.Scorer
	if scorer == nil {
		scorer = ExceptionScorer
	}

	cycles, err := SimpleCycles(ctx, g, opts.Limit)
	if err != nil {
		return nil, err
	}

	var back []dag.Edge
	for _, c := range cycles {
		if len(c) <= 1 {
			continue
		}
		from, to := pickEdge(g, c, scorer)
		back = append(back, g.RemoveEdge(from, to)...)
	}
	return back, nil
}

func pickEdge(g *dag.DAG, cycle []string, scorer EdgeScorer) (string, string) {
	best := -1
	var from, to string
	for i := range cycle {
		u, v := cycle[i], cycle[(i+1)%len(cycle)]
		un, _ := g.Node(u)
		vn, _ := g.Node(v)
		s := scorer(un, vn)
		if s >= ScoreDecisive {
			return u, v
		}
		if s >= best {
			best, from, to = s, u, v
		}
	}
	return from, to
}

// SimpleCycles enumerates every simple cycle of g using Johnson's algorithm.
// Each cycle is returned as the sequence of its nodes starting with the node
// that comes first in insertion order; the closing edge back to the first
// node is implied. A self-loop is reported as a cycle of length 1.
//
// Enumeration is deterministic: start nodes and successors are visited in
// insertion order, with parallel edges collapsed.
//
// It returns [ErrCycleBudgetExceeded] once more than limit cycles have been
// found (limit <= 0 means DefaultCycleLimit) and the context error when ctx
// ends first.
func SimpleCycles(ctx context.Context, g *dag.DAG, limit int) ([][]string, error) {
	if limit <= 0 {
		limit = DefaultCycleLimit
	}

	ids := g.NodeIDs()
	index := dag.PosMap(ids)
	adj := make([][]int, len(ids))
	for i, id := range ids {
		seen := make(map[int]bool)
		for _, succ := range g.Successors(id) {
			j := index[succ]
			if !seen[j] {
				seen[j] = true
				adj[i] = append(adj[i], j)
			}
		}
	}

	j := &johnson{ctx: ctx, ids: ids, adj: adj, limit: limit}
	for s := range ids {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("enumerate cycles: %w", err)
		}
		scc := j.component(s)
		if len(scc) == 0 {
			continue
		}
		j.reset(s, scc)
		j.circuit(s)
		if j.err != nil {
			return nil, j.err
		}
	}
	return j.cycles, nil
}

type johnson struct {
	ctx   context.Context
	ids   []string
	adj   [][]int
	limit int

	start   int
	member  map[int]bool
	blocked map[int]bool
	blockB  map[int]map[int]bool
	stack   []int
	steps   int

	cycles [][]string
	err    error
}

// component returns the strongly connected component of s within the
// subgraph of nodes at index >= s. It returns nil when s lies on no cycle.
func (j *johnson) component(s int) map[int]bool {
	forward := j.reach(s)
	if !forward[s] {
		return nil
	}
	scc := map[int]bool{s: true}
	for v := range forward {
		if v != s && j.reaches(v, s) {
			scc[v] = true
		}
	}
	return scc
}

// reach returns the nodes reachable from s by at least one edge, restricted
// to indices >= s.
func (j *johnson) reach(s int) map[int]bool {
	seen := make(map[int]bool)
	queue := []int{s}
	for len(queue) > 0 {
		v := queue[0]
		queue = queue[1:]
		for _, w := range j.adj[v] {
			if w < s || seen[w] {
				continue
			}
			seen[w] = true
			queue = append(queue, w)
		}
	}
	return seen
}

func (j *johnson) reaches(from, to int) bool {
	seen := map[int]bool{from: true}
	queue := []int{from}
	for len(queue) > 0 {
		v := queue[0]
		queue = queue[1:]
		for _, w := range j.adj[v] {
			if w < to {
				continue
			}
			if w == to {
				return true
			}
			if !seen[w] {
				seen[w] = true
				queue = append(queue, w)
			}
		}
	}
	return false
}

func (j *johnson) reset(s int, scc map[int]bool) {
	j.start = s
	j.member = scc
	j.blocked = make(map[int]bool, len(scc))
	j.blockB = make(map[int]map[int]bool, len(scc))
	j.stack = j.stack[:0]
}

func (j *johnson) circuit(v int) bool {
	if j.err != nil {
		return false
	}
	if j.steps++; j.steps%256 == 0 {
		if err := j.ctx.Err(); err != nil {
			j.err = fmt.Errorf("enumerate cycles: %w", err)
			return false
		}
	}

	found := false
	j.stack = append(j.stack, v)
	j.blocked[v] = true

	for _, w := range j.adj[v] {
		if !j.member[w] {
			continue
		}
		if w == j.start {
			if !j.emit() {
				return false
			}
			found = true
		} else if !j.blocked[w] {
			if j.circuit(w) {
				found = true
			}
			if j.err != nil {
				return false
			}
		}
	}

	if found {
		j.unblock(v)
	} else {
		for _, w := range j.adj[v] {
			if !j.member[w] {
				continue
			}
			if j.blockB[w] == nil {
				j.blockB[w] = make(map[int]bool)
			}
			j.blockB[w][v] = true
		}
	}
	j.stack = j.stack[:len(j.stack)-1]
	return found
}

func (j *johnson) unblock(u int) {
	j.blocked[u] = false
	for w := range j.blockB[u] {
		delete(j.blockB[u], w)
		if j.blocked[w] {
			j.unblock(w)
		}
	}
}

func (j *johnson) emit() bool {
	if len(j.cycles) >= j.limit {
		j.err = fmt.Errorf("%w: more than %d cycles", ErrCycleBudgetExceeded, j.limit)
		return false
	}
	cycle := make([]string, len(j.stack))
	for i, v := range j.stack {
		cycle[i] = j.ids[v]
	}
	j.cycles = append(j.cycles, cycle)
	return true
}
