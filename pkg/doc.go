// Package pkg provides the core libraries for floorgeo floor-plan
// georeferencing.
//
// # Overview
//
// floorgeo takes the skeleton of a floor plan, traced as line segments in image
// pixel coordinates, and places it on a map. The segments become an undirected
// planar graph, the graph is turned by quarter turns to match the map
// orientation, and two control points with known longitude/latitude fix a
// per-axis scale and offset. The result is exported as GeoJSON.
//
// # Architecture
//
// The data flow through floorgeo:
//
//	edge list CSV
//	     ↓
//	[io] package (parse records, build the graph)
//	     ↓
//	[core/planar] package (node registry + undirected graph)
//	     ↓
//	[core/planar/transform] package (rotate, fit, apply)
//	     ↓
//	[io] package (GeoJSON FeatureCollection)
//
// [pipeline] runs these stages in order and is shared by every CLI command
// and the viewer server.
//
// # Quick Start
//
//	records, _ := io.ImportEdges("skeleton.csv")
//	g, _ := io.BuildGraph(records)
//
//	rotated, _, _ := transform.RotateN(g, 1)
//	a, _ := rotated.Locate(orb.Point{1031.14, -179.09}, 1e-6)
//	b, _ := rotated.Locate(orb.Point{395.05, -1770.38}, 1e-6)
//
//	params, _ := transform.Fit(
//	    transform.Correspondence{Source: a.Point(), Target: orb.Point{-122.066278, 37.361}},
//	    transform.Correspondence{Source: b.Point(), Target: orb.Point{-122.068444, 37.357}},
//	)
//	final := transform.Apply(rotated, params)
//	_ = io.ExportGeoJSON(io.FeatureCollection(final, io.DefaultStyle), "graph.geojson")
//
// # Main Packages
//
// ## Core Domain Logic
//
// [core/planar] - Undirected graph of coordinate-keyed nodes. A registry
// deduplicates nodes by exact coordinate; edges are stored symmetrically.
//
// [core/planar/transform] - Quarter-turn rotation about the centroid, the
// two-point axis-aligned affine fit, and its application.
//
// [locations] - Named location records in pixel space, their JSON file store,
// and the interactive editor state machine.
//
// ## Input and Output
//
// [io] - Edge list CSV import and GeoJSON export with atomic file
// replacement.
//
// [render/nodelink] - Node-link previews of the graph via Graphviz.
//
// ## Infrastructure
//
// [pipeline] - Staged execution (load, build, rotate, locate, fit, apply,
// export, write) with per-stage errors and timings.
//
// [config] - Project files in TOML, YAML or JSON.
//
// [errors] - Coded errors shared by every package.
//
// [observability] - Hooks for pipeline stages and HTTP requests.
//
// [core/planar]: https://pkg.go.dev/github.com/matzehuels/floorgeo/pkg/core/planar
// [core/planar/transform]: https://pkg.go.dev/github.com/matzehuels/floorgeo/pkg/core/planar/transform
// [locations]: https://pkg.go.dev/github.com/matzehuels/floorgeo/pkg/locations
// [io]: https://pkg.go.dev/github.com/matzehuels/floorgeo/pkg/io
// [render/nodelink]: https://pkg.go.dev/github.com/matzehuels/floorgeo/pkg/render/nodelink
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/floorgeo/pkg/pipeline
// [config]: https://pkg.go.dev/github.com/matzehuels/floorgeo/pkg/config
// [errors]: https://pkg.go.dev/github.com/matzehuels/floorgeo/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/floorgeo/pkg/observability
package pkg
