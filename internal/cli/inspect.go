package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/floorgeo/pkg/core/planar"
	"github.com/matzehuels/floorgeo/pkg/core/planar/transform"
	"github.com/matzehuels/floorgeo/pkg/pipeline"
)

// inspectCommand creates the inspect command for input graph statistics.
func (c *CLI) inspectCommand() *cobra.Command {
	var flags projectFlags

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Show node and edge statistics of the input graph",
		Long: `Show node and edge statistics of the input graph.

inspect builds the graph from the edge list and prints its size, bounding box
and centroid. The centroid is the pivot used by the rotation stage, and the
bounding box helps pick control point coordinates.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.load(cmd)
			if err != nil {
				return err
			}
			opts := cfg.Options()
			opts.StopAfter = pipeline.StageBuild
			return c.runInspect(cmd.Context(), opts)
		},
	}

	flags.register(cmd)
	return cmd
}

func (c *CLI) runInspect(ctx context.Context, opts pipeline.Options) error {
	opts.Logger = loggerFromContext(ctx)
	res, err := c.newRunner().Execute(ctx, opts)
	if err != nil {
		return err
	}

	fmt.Fprintln(stdout, StyleTitle.Render("Floor plan "+opts.Input))
	fmt.Fprintln(stdout, inspectTable(res.Graph, res.Stats.RecordCount))
	return nil
}

// inspectTable renders the statistics of g.
func inspectTable(g *planar.Graph, records int) string {
	rows := [][]string{
		{"records", strconv.Itoa(records)},
		{"nodes", strconv.Itoa(g.Size())},
		{"edges", strconv.Itoa(g.EdgeCount())},
	}
	if c, err := transform.Centroid(g); err == nil {
		b := g.Bound()
		rows = append(rows,
			[]string{"centroid", formatPoint(c[0], c[1])},
			[]string{"min", formatPoint(b.Min[0], b.Min[1])},
			[]string{"max", formatPoint(b.Max[0], b.Max[1])},
		)
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true).Padding(0, 1)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Stat", "Value").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col == 1:
				return StyleNumber.Padding(0, 1)
			default:
				return StyleDim.Padding(0, 1)
			}
		})
	return t.Render()
}

func formatPoint(x, y float64) string {
	return fmt.Sprintf("(%g, %g)", x, y)
}
