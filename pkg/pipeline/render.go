package pipeline

import (
	"context"
	"fmt"

	"github.com/matzehuels/floorgeo/pkg/core/planar"
	"github.com/matzehuels/floorgeo/pkg/errors"
	"github.com/matzehuels/floorgeo/pkg/render/nodelink"
)

// Preview output formats.
const (
	FormatSVG = "svg"
	FormatDOT = "dot"
)

// ValidFormats is the set of supported preview formats.
var ValidFormats = map[string]bool{
	FormatSVG: true,
	FormatDOT: true,
}

// ValidateFormat checks that a preview format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidInput, "invalid format: %q (must be one of: svg, dot)", format)
	}
	return nil
}

// PreviewOptions configures [Runner.Preview].
type PreviewOptions struct {
	// Stage selects the graph to draw. build draws the input graph, rotate
	// (and locate, fit) the rotated graph, and any later stage the final
	// georeferenced graph. Empty means StageApply.
	Stage Stage

	// Format is FormatSVG (default) or FormatDOT.
	Format string

	// Labels annotates nodes with their coordinates.
	Labels bool

	// Size is the longer side of the drawing in points.
	Size float64
}

// Preview runs the pipeline up to the requested stage and renders that
// graph. It never writes output files.
func (r *Runner) Preview(ctx context.Context, opts Options, p PreviewOptions) ([]byte, error) {
	if p.Format == "" {
		p.Format = FormatSVG
	}
	if err := ValidateFormat(p.Format); err != nil {
		return nil, err
	}
	stage := previewStage(p.Stage)
	if stage == "" {
		return nil, errors.New(errors.ErrCodeInvalidInput, "cannot preview stage %q", p.Stage)
	}

	opts.StopAfter = stage
	opts.Output, opts.LocationsOutput = "", ""
	res, err := r.Execute(ctx, opts)
	if err != nil {
		return nil, err
	}
	g := res.Last()

	// Pixel coordinates grow downwards until the fit maps them to lon/lat.
	return Render(ctx, g, p.Format, nodelink.Options{
		Size:   p.Size,
		FlipY:  res.Final == nil,
		Labels: p.Labels,
	})
}

// Render draws g in the given format.
func Render(ctx context.Context, g *planar.Graph, format string, opts nodelink.Options) ([]byte, error) {
	dot := nodelink.ToDOT(g, opts)
	switch format {
	case FormatDOT:
		return []byte(dot), nil
	case FormatSVG:
		svg, err := nodelink.RenderSVG(ctx, dot)
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		return svg, nil
	default:
		return nil, ValidateFormat(format)
	}
}

// previewStage maps a requested stage onto the last stage that produces a
// new graph for it.
func previewStage(s Stage) Stage {
	switch s {
	case StageBuild:
		return StageBuild
	case StageRotate, StageLocate, StageFit:
		return StageRotate
	case "", StageApply, StageExport, StageWrite:
		return StageApply
	default:
		return ""
	}
}
