// Package nodelink renders planar graphs as node-link diagrams.
//
// # Overview
//
// This package previews a graph at any pipeline stage using Graphviz. Unlike
// a layout engine placing nodes freely, every node is pinned to its own
// coordinate, so the picture shows the floor plan skeleton as it is.
//
// # Usage
//
// Convert a graph to DOT format, then render to SVG:
//
//	dot := nodelink.ToDOT(g, nodelink.Options{FlipY: true})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// # Options
//
// The [Options] struct controls diagram generation:
//
//   - Size: length of the longer side in points
//   - FlipY: mirror y for pixel-space graphs
//   - Labels: annotate nodes with their coordinates
//   - Color: stroke color
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering with the neato engine.
package nodelink
