package planar

import (
	"math"
	"slices"

	"github.com/paulmach/orb"
	orbplanar "github.com/paulmach/orb/planar"

	"github.com/matzehuels/floorgeo/pkg/errors"
)

// Edge is an undirected edge in canonical form: A sorts before B under
// [Compare].
type Edge struct {
	A orb.Point
	B orb.Point
}

// NewEdge returns the canonical edge between p and q.
func NewEdge(p, q orb.Point) Edge {
	if Compare(q, p) < 0 {
		p, q = q, p
	}
	return Edge{A: p, B: q}
}

// LineString returns the edge as a two-point line.
func (e Edge) LineString() orb.LineString {
	return orb.LineString{e.A, e.B}
}

// Graph is an undirected graph whose nodes are identified by coordinate.
//
// The zero value is not usable - use New to create a Graph.
// Graph is not safe for concurrent use without external synchronization.
type Graph struct {
	reg   *Registry
	edges int
}

// New creates an empty graph with its own registry.
func New() *Graph {
	return &Graph{reg: NewRegistry()}
}

// AddEdge links (x1, y1) and (x2, y2), creating either endpoint if it does
// not exist yet. Adding an edge that already exists is a no-op.
//
// Returns an ErrCodeMalformedRecord error if a coordinate is NaN or infinite,
// and an ErrCodeDegenerateEdge error if both endpoints are the same
// coordinate. The graph is unchanged on error.
func (g *Graph) AddEdge(x1, y1, x2, y2 float64) error {
	return g.Link(orb.Point{x1, y1}, orb.Point{x2, y2})
}

// Link is AddEdge for points.
func (g *Graph) Link(p, q orb.Point) error {
	for _, c := range []struct {
		name string
		v    float64
	}{{"x1", p[0]}, {"y1", p[1]}, {"x2", q[0]}, {"y2", q[1]}} {
		if err := errors.ValidateCoordinate(c.name, c.v); err != nil {
			return err
		}
	}
	if p == q {
		return errors.New(errors.ErrCodeDegenerateEdge,
			"edge endpoints coincide at (%g, %g)", p[0], p[1])
	}
	g.linkNodes(g.reg.GetOrCreate(p), g.reg.GetOrCreate(q))
	return nil
}

func (g *Graph) linkNodes(a, b *Node) {
	if a.IsNeighbor(b) {
		return
	}
	link(a, b)
	g.edges++
}

// Size returns the number of nodes.
func (g *Graph) Size() int { return g.reg.Len() }

// EdgeCount returns the number of distinct undirected edges.
func (g *Graph) EdgeCount() int { return g.edges }

// Node returns the node at exactly p, if any.
func (g *Graph) Node(p orb.Point) (*Node, bool) { return g.reg.Lookup(p) }

// Nodes returns all nodes sorted by coordinate.
func (g *Graph) Nodes() []*Node {
	out := make([]*Node, 0, g.reg.Len())
	for _, n := range g.reg.nodes {
		out = append(out, n)
	}
	slices.SortFunc(out, func(a, b *Node) int { return Compare(a.pt, b.pt) })
	return out
}

// Edges returns every undirected edge once, canonicalized and sorted.
func (g *Graph) Edges() []Edge {
	out := make([]Edge, 0, g.edges)
	for _, n := range g.reg.nodes {
		for m := range n.neighbors {
			// Each edge is seen from both ends; keep the view from its lower endpoint.
			if Compare(n.pt, m.pt) < 0 {
				out = append(out, Edge{A: n.pt, B: m.pt})
			}
		}
	}
	slices.SortFunc(out, func(e, f Edge) int {
		if c := Compare(e.A, f.A); c != 0 {
			return c
		}
		return Compare(e.B, f.B)
	})
	return out
}

// Remap builds a new graph whose nodes are fn applied to this graph's nodes.
//
// The result has a fresh registry. Every edge is re-linked between the mapped
// nodes, so when fn is injective over the node set the edge set is preserved
// exactly. If fn sends two adjacent nodes to the same coordinate, their edge
// would become a self-loop and is dropped; other collisions merge nodes and
// their edges. The receiver is not modified.
func (g *Graph) Remap(fn func(orb.Point) orb.Point) *Graph {
	out := New()
	mapping := make(map[*Node]*Node, g.reg.Len())
	for _, n := range g.reg.nodes {
		mapping[n] = out.reg.GetOrCreate(fn(n.pt))
	}
	for old, mapped := range mapping {
		for nb := range old.neighbors {
			other := mapping[nb]
			if other == mapped {
				continue
			}
			out.linkNodes(mapped, other)
		}
	}
	return out
}

// Locate finds the node matching p.
//
// With epsilon == 0 the match must be exact. Otherwise the nearest node whose
// planar distance to p is at most epsilon is returned; ties go to the node
// that sorts first. Returns an ErrCodeControlPointNotFound error if nothing
// matches.
func (g *Graph) Locate(p orb.Point, epsilon float64) (*Node, error) {
	if epsilon < 0 || math.IsNaN(epsilon) {
		return nil, errors.New(errors.ErrCodeInvalidInput, "epsilon must be >= 0, got %v", epsilon)
	}
	if n, ok := g.reg.Lookup(p); ok {
		return n, nil
	}
	if epsilon > 0 {
		var best *Node
		bestDist := math.Inf(1)
		for _, n := range g.Nodes() {
			if d := orbplanar.Distance(p, n.pt); d <= epsilon && d < bestDist {
				best, bestDist = n, d
			}
		}
		if best != nil {
			return best, nil
		}
	}
	return nil, errors.New(errors.ErrCodeControlPointNotFound,
		"no node within %g of (%v, %v)", epsilon, p[0], p[1])
}

// Bound returns the bounding box of all nodes. An empty graph yields the
// zero bound.
func (g *Graph) Bound() orb.Bound {
	if g.reg.Len() == 0 {
		return orb.Bound{}
	}
	mp := make(orb.MultiPoint, 0, g.reg.Len())
	for p := range g.reg.nodes {
		mp = append(mp, p)
	}
	return mp.Bound()
}
