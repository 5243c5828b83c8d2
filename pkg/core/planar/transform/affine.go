package transform

import (
	"math"

	"github.com/paulmach/orb"

	"github.com/matzehuels/floorgeo/pkg/core/planar"
	"github.com/matzehuels/floorgeo/pkg/errors"
)

// Params is a per-axis scale and offset:
//
//	x' = x*XScale + XOffset
//	y' = y*YScale + YOffset
type Params struct {
	XScale  float64 `json:"x_scale"`
	YScale  float64 `json:"y_scale"`
	XOffset float64 `json:"x_offset"`
	YOffset float64 `json:"y_offset"`
}

// Identity leaves every coordinate unchanged.
var Identity = Params{XScale: 1, YScale: 1}

// Transform applies p to a single coordinate.
func (p Params) Transform(pt orb.Point) orb.Point {
	return orb.Point{pt[0]*p.XScale + p.XOffset, pt[1]*p.YScale + p.YOffset}
}

// Correspondence pairs a source coordinate (a node of the rotated graph) with
// the target coordinate it must land on (longitude, latitude).
type Correspondence struct {
	Source orb.Point
	Target orb.Point
}

// Fit derives Params that carry a.Source to a.Target and b.Source to
// b.Target.
//
// Scales are independent per axis. Each offset is the mean of the offsets
// implied by the two correspondences. Returns an
// ErrCodeDegenerateCorrespondence error when the sources share an x or a y
// coordinate, or when the result is not finite.
func Fit(a, b Correspondence) (Params, error) {
	dx := b.Source[0] - a.Source[0]
	dy := b.Source[1] - a.Source[1]
	if dx == 0 {
		return Params{}, errors.New(errors.ErrCodeDegenerateCorrespondence,
			"control points share x = %v; x scale is undefined", a.Source[0])
	}
	if dy == 0 {
		return Params{}, errors.New(errors.ErrCodeDegenerateCorrespondence,
			"control points share y = %v; y scale is undefined", a.Source[1])
	}

	xs := (b.Target[0] - a.Target[0]) / dx
	ys := (b.Target[1] - a.Target[1]) / dy
	p := Params{
		XScale:  xs,
		YScale:  ys,
		XOffset: ((a.Target[0] - a.Source[0]*xs) + (b.Target[0] - b.Source[0]*xs)) / 2,
		YOffset: ((a.Target[1] - a.Source[1]*ys) + (b.Target[1] - b.Source[1]*ys)) / 2,
	}
	for _, v := range []float64{p.XScale, p.YScale, p.XOffset, p.YOffset} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return Params{}, errors.New(errors.ErrCodeDegenerateCorrespondence,
				"fit produced a non-finite parameter: %+v", p)
		}
	}
	return p, nil
}

// Apply returns a new graph with p applied to every node of g.
func Apply(g *planar.Graph, p Params) *planar.Graph {
	return g.Remap(p.Transform)
}
