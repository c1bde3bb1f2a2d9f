package layout

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/bpmnlayout/pkg/dag"
	"github.com/matzehuels/bpmnlayout/pkg/observability"
)

// ErrIncompletePlacement is returned when a tier leaves nodes unplaced or
// places them at non-finite coordinates.
var ErrIncompletePlacement = errors.New("incomplete placement")

// Strategy is one tier of the fallback chain. Place may modify g.
type Strategy interface {
	Tier() Tier
	Place(ctx context.Context, g *dag.DAG) (Placement, error)
}

// Placement is what a tier produces.
type Placement struct {
	Positions Positions
	BackEdges []dag.Edge
	Layers    [][]string
	Crossings int
	// Degraded is set when layering had to fall back to a DFS order.
	Degraded bool
}

// Chain tries strategies in order and returns the first complete placement.
type Chain struct {
	strategies []Strategy
	logger     *log.Logger
}

// NewChain builds a chain. A GridStrategy is appended when the list does not
// already end in one, so Run always produces positions.
func NewChain(logger *log.Logger, strategies ...Strategy) *Chain {
	if logger == nil {
		logger = log.Default()
	}
	s := append([]Strategy(nil), strategies...)
	if len(s) == 0 || s[len(s)-1].Tier() != TierGrid {
		s = append(s, GridStrategy{})
	}
	return &Chain{strategies: s, logger: logger}
}

// Tiers lists the chain's tiers in the order they are tried.
func (c *Chain) Tiers() []Tier {
	out := make([]Tier, len(c.strategies))
	for i, s := range c.strategies {
		out[i] = s.Tier()
	}
	return out
}

// Run lays out g. Each strategy gets its own clone of g, so g is never
// modified and a failed tier cannot leak partial edits into the next one.
func (c *Chain) Run(ctx context.Context, g *dag.DAG) Result {
	if g == nil || g.NodeCount() == 0 {
		return Result{Positions: Positions{}}
	}

	hooks := observability.Layout()
	ctx, span := observability.StartLayoutSpan(ctx, g.NodeCount(), g.EdgeCount())
	defer observability.EndSpanWithError(span, nil)
	hooks.OnLayoutStart(ctx, g.NodeCount(), g.EdgeCount())

	start := time.Now()
	var res Result
	for i, s := range c.strategies {
		t0 := time.Now()
		p, err := c.try(ctx, s, g)
		d := time.Since(t0)

		res.Attempts = append(res.Attempts, Attempt{Tier: s.Tier(), Err: err, Duration: d})
		hooks.OnTierAttempt(ctx, string(s.Tier()), d, err)

		if err != nil {
			if i < len(c.strategies)-1 {
				c.logger.Info("layout tier failed, falling back",
					"tier", s.Tier(), "next", c.strategies[i+1].Tier(), "err", err)
			}
			continue
		}

		res.Positions = p.Positions
		res.BackEdges = p.BackEdges
		res.Layers = p.Layers
		res.Crossings = p.Crossings
		res.Tier = s.Tier()
		break
	}

	// Only reachable when a caller-supplied final tier fails.
	if res.Positions == nil {
		res.Positions = Grid(g.NodeIDs())
		res.Tier = TierGrid
	}

	d := time.Since(start)
	hooks.OnLayoutComplete(ctx, string(res.Tier), g.NodeCount(), d)
	c.logger.Debug("layout computed",
		"tier", res.Tier, "nodes", g.NodeCount(), "edges", g.EdgeCount(),
		"back_edges", len(res.BackEdges), "crossings", res.Crossings, "took", d)
	return res
}

func (c *Chain) try(ctx context.Context, s Strategy, g *dag.DAG) (p Placement, err error) {
	defer func() {
		if r := recover(); r != nil {
			p, err = Placement{}, fmt.Errorf("%s tier panicked: %v", s.Tier(), r)
		}
	}()
	p, err = s.Place(ctx, g.Clone())
	if err != nil {
		return Placement{}, err
	}
	if err := checkComplete(g, p.Positions); err != nil {
		return Placement{}, fmt.Errorf("%s tier: %w", s.Tier(), err)
	}
	return p, nil
}

func checkComplete(g *dag.DAG, pos Positions) error {
	for _, id := range g.NodeIDs() {
		pt, ok := pos[id]
		if !ok {
			return fmt.Errorf("%w: node %q has no position", ErrIncompletePlacement, id)
		}
		if math.IsNaN(pt.X) || math.IsNaN(pt.Y) || math.IsInf(pt.X, 0) || math.IsInf(pt.Y, 0) {
			return fmt.Errorf("%w: node %q at (%v, %v)", ErrIncompletePlacement, id, pt.X, pt.Y)
		}
	}
	return nil
}
