// Package planar provides the coordinate-keyed undirected graph at the heart
// of floorgeo.
//
// # Overview
//
// A floor plan arrives as a list of line segments in pixel space. Segments
// that share an endpoint share a coordinate, and that coordinate must become
// a single [Node] so the exported network is connected. [Registry] owns that
// identity: within one registry, two lookups of the same coordinate always
// return the same *Node.
//
// # Identity and Lifetime
//
// Every [Graph] owns exactly one [Registry]. Node coordinates are fixed at
// construction and never change, because the registry is keyed by them.
// Transforms therefore never move nodes; they build a new graph through
// [Graph.Remap], which allocates a fresh registry and re-links every edge
// between the mapped nodes:
//
//	g := planar.New()
//	_ = g.AddEdge(0, 0, 1, 0)
//	_ = g.AddEdge(1, 0, 1, 1)
//	shifted := g.Remap(func(p orb.Point) orb.Point {
//	    return orb.Point{p[0] + 10, p[1]}
//	})
//
// The old graph is left untouched, so every pipeline stage owns its output
// and nothing is shared between stages.
//
// # Coordinate Equality
//
// Equality is exact: coordinates that differ by rounding error are distinct
// nodes. Only [Graph.Locate] applies a tolerance, for looking up control
// points that were typed in by hand.
//
// # Edges
//
// Adjacency is symmetric at every mutation. [Graph.Edges] reports each
// undirected edge once, as an [Edge] whose endpoints are ordered
// lexicographically (x, then y), and the slice itself is sorted so output is
// deterministic.
package planar
