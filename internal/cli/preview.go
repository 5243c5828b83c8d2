package cli

import (
	"context"
	"io"

	"github.com/spf13/cobra"

	floorio "github.com/matzehuels/floorgeo/pkg/io"
	"github.com/matzehuels/floorgeo/pkg/pipeline"
	"github.com/matzehuels/floorgeo/pkg/render/nodelink"
)

// previewCommand creates the preview command for drawing the graph at a stage.
func (c *CLI) previewCommand() *cobra.Command {
	var (
		flags   projectFlags
		stage   string
		out     string
		preview = pipeline.PreviewOptions{Format: pipeline.FormatSVG, Size: nodelink.DefaultSize}
	)

	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Draw the graph at a pipeline stage",
		Long: `Draw the graph at a pipeline stage.

preview renders the graph as a node-link diagram with every node pinned at its
coordinates. --stage build draws the input graph, rotate draws the rotated
graph (useful when choosing control points), and apply draws the
georeferenced result. Output goes to stdout unless --file is given.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := pipeline.ValidateFormat(preview.Format); err != nil {
				return err
			}
			if stage != "" {
				s, err := pipeline.ParseStage(stage)
				if err != nil {
					return err
				}
				preview.Stage = s
			}
			cfg, err := flags.load(cmd)
			if err != nil {
				return err
			}
			return c.runPreview(cmd.Context(), cfg.Options(), preview, out)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&stage, "stage", "", "stage to draw: build, rotate, apply (default apply)")
	cmd.Flags().StringVarP(&preview.Format, "format", "f", preview.Format, "output format: svg, dot")
	cmd.Flags().BoolVar(&preview.Labels, "labels", false, "annotate nodes with their coordinates")
	cmd.Flags().Float64Var(&preview.Size, "size", preview.Size, "longer side of the drawing in points")
	cmd.Flags().StringVar(&out, "file", "", "write the drawing to this file instead of stdout")

	return cmd
}

func (c *CLI) runPreview(ctx context.Context, opts pipeline.Options, p pipeline.PreviewOptions, out string) error {
	logger := loggerFromContext(ctx)
	opts.Logger = logger

	data, err := c.newRunner().Preview(ctx, opts, p)
	if err != nil {
		return err
	}

	if out == "" {
		_, err := stdout.Write(data)
		return err
	}
	err = floorio.WriteFileAtomic(out, func(w io.Writer) error {
		_, err := w.Write(data)
		return err
	})
	if err != nil {
		return err
	}
	logger.Info("wrote preview", "path", out, "format", p.Format)
	printFile(out)
	return nil
}
