package pipeline

import (
	"context"

	"github.com/paulmach/orb"

	"github.com/matzehuels/floorgeo/pkg/core/planar"
	"github.com/matzehuels/floorgeo/pkg/core/planar/transform"
	"github.com/matzehuels/floorgeo/pkg/errors"
	floorio "github.com/matzehuels/floorgeo/pkg/io"
	"github.com/matzehuels/floorgeo/pkg/locations"
)

// Parse returns the edge records for a run: opts.Edges when set, otherwise
// the records read from opts.Input.
func Parse(ctx context.Context, opts Options) ([]floorio.EdgeRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if opts.Edges != nil {
		return opts.Edges, nil
	}
	return floorio.ImportEdges(opts.Input)
}

// LoadLocations reads the location records file at path.
func LoadLocations(ctx context.Context, path string) ([]locations.Record, error) {
	store, err := locations.NewFileStore(path)
	if err != nil {
		return nil, err
	}
	return store.Load(ctx)
}

// Locate finds the node of g matching each control point source within
// epsilon and pairs it with the control point target.
func Locate(g *planar.Graph, cps []ControlPoint, epsilon float64) ([2]transform.Correspondence, error) {
	var out [2]transform.Correspondence
	if err := ValidateControlPoints(cps); err != nil {
		return out, err
	}
	for i, cp := range cps[:2] {
		n, err := g.Locate(cp.Source, epsilon)
		if err != nil {
			return out, errors.Wrap(errors.GetCode(err), err, "control point %q", cp.Name)
		}
		out[i] = transform.Correspondence{Source: n.Point(), Target: cp.Target}
	}
	return out, nil
}

// TransformLocations carries records through the same turns about centroid
// and the same fitted params as the graph.
//
// The centroid of a graph is fixed by a rotation about itself, so every turn
// of [transform.RotateN] is about the same point.
func TransformLocations(records []locations.Record, centroid orb.Point, rotations int, p transform.Params) []locations.Record {
	turn := transform.QuarterTurn(centroid)
	turns := ((rotations % 4) + 4) % 4
	return locations.Transform(records, func(pt orb.Point) orb.Point {
		for range turns {
			pt = turn(pt)
		}
		return p.Transform(pt)
	})
}
