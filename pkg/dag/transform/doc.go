// Package transform provides the graph transformations behind the native
// layered layout: cycle breaking, layer assignment and crossing reduction.
//
// # Overview
//
// Process graphs loop. A retry path, an escalation or an exception handler
// leads back to an earlier element, and a layered drawing cannot place a
// node both before and after another. The transformations here turn a
// possibly cyclic graph into ordered layers in three steps:
//
//  1. [BreakCycles] removes one edge per simple cycle and records it.
//  2. [AssignLayers] puts every node on a layer by longest path.
//  3. [MinimizeCrossings] reorders each layer with barycenter sweeps.
//
// The layout package turns the ordered layers into coordinates.
//
// # Cycle Breaking
//
// [SimpleCycles] enumerates every simple cycle with Johnson's algorithm.
// The number of simple cycles grows combinatorially with density, so
// enumeration runs under a cycle limit and a context; exceeding either
// returns an error instead of hanging. Which edge of a cycle is removed is
// decided by an [EdgeScorer]. The default, [ExceptionScorer], is a naming
// heuristic that prefers edges leaving catch or exception elements.
//
// Self-loops are left alone. They are reported as length-1 cycles but never
// removed, and every later stage ignores them.
//
// # Layer Assignment
//
// [AssignLayers] returns a [Layering]: an explicit sequence of layers where
// the index is the layer number. On an acyclic graph every edge goes from a
// lower to a strictly higher layer.
//
// # Crossing Reduction
//
// [MinimizeCrossings] alternates forward and backward barycenter passes.
// Sorting is stable, so identical input always produces identical output.
//
// # Usage
//
//	back, err := transform.BreakCycles(ctx, g, transform.CycleOptions{})
//	if err != nil {
//	    return err // too many cycles or ctx done
//	}
//	l := transform.AssignLayers(g)
//	transform.MinimizeCrossings(g, l, transform.DefaultSweeps)
package transform
