// Package io reads skeleton edge lists and writes georeferenced GeoJSON.
//
// # Input Format
//
// The input is a CSV file with one undirected segment per row:
//
//	x1,y1,x2,y2[,weight...]
//	120.5,40,180.5,40,1.0
//	180.5,40,180.5,96,1.0
//
// Only the first four fields are read. Extra columns, such as the weight the
// skeleton extractor appends, are ignored. A first row whose leading fields
// are all non-numeric is treated as a header and skipped. Any other short or
// non-numeric row fails with an ErrCodeMalformedRecord error that names the
// line.
//
// Use [ImportEdges] to read from a path or [ReadEdges] to read from any
// io.Reader, then [BuildGraph] to load the records into a [planar.Graph]:
//
//	records, err := io.ImportEdges("skeleton.csv")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	g, err := io.BuildGraph(records)
//
// # Output Format
//
// [FeatureCollection] emits one LineString feature per undirected edge, each
// carrying the simplestyle properties of a [Style]:
//
//	{
//	  "type": "Feature",
//	  "geometry": {"type": "LineString", "coordinates": [[-122.06, 37.36], [-122.07, 37.35]]},
//	  "properties": {"stroke": "#0000FF", "stroke-opacity": 1, "stroke-width": 4}
//	}
//
// Coordinates are emitted as computed, without rounding. Nodes are not
// exported as Point features.
//
// [ExportGeoJSON] writes atomically: the file at the destination path is
// either the previous content or the complete new collection.
//
// [planar.Graph]: github.com/matzehuels/floorgeo/pkg/core/planar.Graph
package io
