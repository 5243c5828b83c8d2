// Package transform provides the coordinate transforms that move a floor-plan
// graph from pixel space onto the map.
//
// # Overview
//
// Every transform here is a pure function from one [planar.Graph] to a new
// one, built with [planar.Graph.Remap]. The input graph is never modified, so
// a pipeline can keep every intermediate snapshot.
//
// # Rotation
//
// [Rotate] turns the graph a quarter turn about its [Centroid]:
//
//	(tx, ty) = (x - cx, y - cy)
//	(rx, ry) = (ty, -tx)
//	(x', y') = (rx + cx, ry + cy)
//
// The swap-and-negate form is exact: no trigonometry, no rounding beyond the
// centroid subtraction. The centroid is computed once, over the graph as it
// was before the turn. [RotateN] applies several quarter turns.
//
// # Two-Point Fit
//
// [Fit] derives independent per-axis scales and offsets from two
// [Correspondence] values (source pixel coordinate, target longitude and
// latitude). Offsets average the value implied by each correspondence. Two
// sources sharing an x or a y coordinate cannot determine a scale and are
// rejected rather than producing Inf or NaN.
//
// [Apply] pushes [Params] through a graph.
package transform
