package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/floorgeo/pkg/core/planar"
)

// DefaultSize is the default length, in points, of the longer drawing side.
const DefaultSize = 800.0

// Options configures node-link diagram rendering.
type Options struct {
	// Size is the length of the longer side of the drawing in points.
	// Zero means DefaultSize.
	Size float64

	// FlipY mirrors the y axis. Pixel coordinates grow downwards while
	// Graphviz and lon/lat grow upwards, so set it for pixel-space stages.
	FlipY bool

	// Labels adds the source coordinate next to every node.
	Labels bool

	// Color is the stroke color of nodes and edges. Empty means blue.
	Color string
}

// ToDOT converts a planar graph to Graphviz DOT format for node-link visualization.
// Every node is pinned to its coordinate, scaled to fit opts.Size, so the
// drawing keeps the geometry of the graph. Render the result with [RenderSVG].
func ToDOT(g *planar.Graph, opts Options) string {
	size := opts.Size
	if size <= 0 {
		size = DefaultSize
	}
	color := opts.Color
	if color == "" {
		color = "#0000FF"
	}

	b := g.Bound()
	span := max(b.Max[0]-b.Min[0], b.Max[1]-b.Min[1])
	scale := 1.0
	if span > 0 {
		scale = size / span
	}

	var buf bytes.Buffer
	buf.WriteString("graph G {\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  splines=false;\n")
	fmt.Fprintf(&buf, "  node [shape=point, width=0.06, color=%q];\n", color)
	fmt.Fprintf(&buf, "  edge [color=%q, penwidth=2];\n", color)
	buf.WriteString("\n")

	nodes := g.Nodes()
	ids := make(map[*planar.Node]int, len(nodes))
	for i, n := range nodes {
		ids[n] = i
		x := (n.X() - b.Min[0]) * scale
		y := (n.Y() - b.Min[1]) * scale
		if opts.FlipY {
			y = (b.Max[1] - n.Y()) * scale
		}
		attrs := fmt.Sprintf("pos=\"%s,%s!\"", fmtFloat(x), fmtFloat(y))
		if opts.Labels {
			attrs += fmt.Sprintf(", xlabel=%q, fontsize=8", fmtLabel(n))
		}
		fmt.Fprintf(&buf, "  n%d [%s];\n", i, attrs)
	}

	buf.WriteString("\n")
	for _, e := range g.Edges() {
		na, _ := g.Node(e.A)
		nb, _ := g.Node(e.B)
		fmt.Fprintf(&buf, "  n%d -- n%d;\n", ids[na], ids[nb])
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(n *planar.Node) string {
	return strconv.FormatFloat(n.X(), 'g', 6, 64) + ", " + strconv.FormatFloat(n.Y(), 'g', 6, 64)
}

func fmtFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// RenderSVG renders a DOT graph to SVG using the Graphviz neato engine, which
// honors the pinned node positions written by [ToDOT].
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()
	gv.SetLayout(graphviz.NEATO)

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
