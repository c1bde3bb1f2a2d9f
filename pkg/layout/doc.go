// Package layout computes diagram coordinates for process graphs.
//
// # Tiers
//
// [Compute] runs a fallback chain and always returns a position for every
// node:
//
//  1. Graphviz (optional, [Options.Graphviz]): the dot engine laid out
//     left-to-right, rescaled into a fixed box.
//  2. Native: cycle breaking, longest-path layering, barycenter crossing
//     reduction and layer-based coordinates, bounded by [Options.Timeout].
//  3. Grid: row-major placement with ceil(sqrt(n))+1 columns. It ignores
//     edges and cannot fail.
//
// A tier that returns an error, panics, times out or leaves a node without a
// finite position hands over to the next. [Result.Attempts] records each
// try and [Result.Tier] names the tier that won.
//
// # Coordinates
//
// Positions are top-left corners in pixels. In the native tier layer L sits
// at x = 100 + L*200*f and the n nodes of a layer are stacked 100*f apart,
// centred on y = 100, where f is the spacing factor (default 1.5).
//
// # Edges
//
// [Routes] turns positions into waypoints. The default is two points, from
// the right-centre of the source box to the left-centre of the target box.
// [RouteOrthogonal] adds elbows, and self-loops always get a small loop over
// the node.
package layout
