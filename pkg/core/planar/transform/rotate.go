package transform

import (
	"github.com/paulmach/orb"

	"github.com/matzehuels/floorgeo/pkg/core/planar"
	"github.com/matzehuels/floorgeo/pkg/errors"
)

// Centroid returns the arithmetic mean of all node coordinates.
// Returns an ErrCodeEmptyGraph error if g has no nodes.
func Centroid(g *planar.Graph) (orb.Point, error) {
	nodes := g.Nodes()
	if len(nodes) == 0 {
		return orb.Point{}, errors.New(errors.ErrCodeEmptyGraph, "centroid of an empty graph is undefined")
	}
	var sx, sy float64
	for _, n := range nodes {
		sx += n.X()
		sy += n.Y()
	}
	count := float64(len(nodes))
	return orb.Point{sx / count, sy / count}, nil
}

// QuarterTurn returns the point-wise rotation about c used by [Rotate].
func QuarterTurn(c orb.Point) func(orb.Point) orb.Point {
	return func(p orb.Point) orb.Point {
		tx, ty := p[0]-c[0], p[1]-c[1]
		return orb.Point{ty + c[0], -tx + c[1]}
	}
}

// Rotate turns g a quarter turn about its centroid and returns the rotated
// graph together with the centroid used.
func Rotate(g *planar.Graph) (*planar.Graph, orb.Point, error) {
	c, err := Centroid(g)
	if err != nil {
		return nil, orb.Point{}, err
	}
	return g.Remap(QuarterTurn(c)), c, nil
}

// RotateN applies n quarter turns (n taken modulo 4, negative n turning the
// other way) and returns the centroid of g. Each turn is about the centroid
// of the graph it rotates. With n%4 == 0 the result is an unrotated copy.
func RotateN(g *planar.Graph, n int) (*planar.Graph, orb.Point, error) {
	c, err := Centroid(g)
	if err != nil {
		return nil, orb.Point{}, err
	}
	turns := ((n % 4) + 4) % 4
	if turns == 0 {
		return g.Remap(func(p orb.Point) orb.Point { return p }), c, nil
	}
	out := g
	for range turns {
		if out, _, err = Rotate(out); err != nil {
			return nil, orb.Point{}, err
		}
	}
	return out, c, nil
}
