package planar

import (
	"slices"

	"github.com/paulmach/orb"
)

// Node is one deduplicated coordinate of the graph.
//
// The coordinate is fixed for the lifetime of the node. Neighbors are held by
// pointer, so two nodes are the same node only if they came from the same
// [Registry].
type Node struct {
	pt        orb.Point
	neighbors map[*Node]struct{}
}

func newNode(p orb.Point) *Node {
	return &Node{pt: p, neighbors: make(map[*Node]struct{})}
}

// X returns the node's x coordinate.
func (n *Node) X() float64 { return n.pt[0] }

// Y returns the node's y coordinate.
func (n *Node) Y() float64 { return n.pt[1] }

// Point returns the node's coordinate.
func (n *Node) Point() orb.Point { return n.pt }

// Degree returns the number of distinct neighbors.
func (n *Node) Degree() int { return len(n.neighbors) }

// IsNeighbor reports whether m is adjacent to n.
func (n *Node) IsNeighbor(m *Node) bool {
	_, ok := n.neighbors[m]
	return ok
}

// Neighbors returns the adjacent nodes sorted by coordinate.
func (n *Node) Neighbors() []*Node {
	out := make([]*Node, 0, len(n.neighbors))
	for m := range n.neighbors {
		out = append(out, m)
	}
	slices.SortFunc(out, func(a, b *Node) int { return Compare(a.pt, b.pt) })
	return out
}

// link connects a and b in both directions.
func link(a, b *Node) {
	a.neighbors[b] = struct{}{}
	b.neighbors[a] = struct{}{}
}

// Compare orders coordinates lexicographically: by x, then by y.
// It returns -1, 0 or +1.
func Compare(a, b orb.Point) int {
	switch {
	case a[0] < b[0]:
		return -1
	case a[0] > b[0]:
		return 1
	case a[1] < b[1]:
		return -1
	case a[1] > b[1]:
		return 1
	}
	return 0
}

// Registry maps coordinates to nodes and guarantees one node per coordinate.
//
// A registry belongs to exactly one [Graph]. It is not safe for concurrent
// use.
type Registry struct {
	nodes map[orb.Point]*Node
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{nodes: make(map[orb.Point]*Node)}
}

// GetOrCreate returns the node at p, creating and recording it if needed.
// Coordinates are compared exactly.
func (r *Registry) GetOrCreate(p orb.Point) *Node {
	if n, ok := r.nodes[p]; ok {
		return n
	}
	n := newNode(p)
	r.nodes[p] = n
	return n
}

// Lookup returns the node at exactly p, if any.
func (r *Registry) Lookup(p orb.Point) (*Node, bool) {
	n, ok := r.nodes[p]
	return n, ok
}

// Len returns the number of recorded nodes.
func (r *Registry) Len() int { return len(r.nodes) }
