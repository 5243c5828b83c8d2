package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/floorgeo/pkg/pipeline"
)

// runCommand creates the run command, which executes the whole pipeline.
func (c *CLI) runCommand() *cobra.Command {
	var (
		flags     projectFlags
		stopAfter string
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Georeference the floor plan and write GeoJSON",
		Long: `Georeference the floor plan and write GeoJSON.

run reads the edge list, rotates the graph by the configured number of
quarter turns, locates the two control points, fits the pixel-to-map
transform and writes the transformed edges as a GeoJSON FeatureCollection.

The output file is replaced atomically, so a failed run leaves the previous
export untouched. Use --stop-after to run only a prefix of the stages.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.load(cmd)
			if err != nil {
				return err
			}
			opts := cfg.Options()
			if stopAfter != "" {
				if opts.StopAfter, err = pipeline.ParseStage(stopAfter); err != nil {
					return err
				}
			} else if err := cfg.Validate(); err != nil {
				return err
			}
			return c.runPipeline(cmd.Context(), flags.config, opts)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&stopAfter, "stop-after", "", "last stage to run: load, build, rotate, locate, fit, apply, export, write")

	return cmd
}

func (c *CLI) runPipeline(ctx context.Context, configPath string, opts pipeline.Options) error {
	logger := loggerFromContext(ctx)
	opts.Logger = logger
	prog := newProgress(logger)

	spinner := newSpinnerWithContext(ctx, "Starting pipeline...")
	defer trackStages(spinner)()
	spinner.Start()

	res, err := c.newRunner().Execute(ctx, opts)
	if err != nil {
		spinner.StopWithError("Pipeline failed")
		return err
	}
	spinner.Stop()

	g := res.Last()
	if g == nil {
		printSuccess("Loaded %d edge records", res.Stats.RecordCount)
		return nil
	}
	prog.done(fmt.Sprintf("Processed %d nodes", g.Size()))

	if res.Final == nil {
		printSuccess("Stopped after %s", opts.StopAfter)
		printStats(g.Size(), g.EdgeCount(), res.Stats.Total)
		return nil
	}

	printSuccess("Georeferenced floor plan")
	printStats(res.Final.Size(), res.Final.EdgeCount(), res.Stats.Total)
	p := res.Params
	printKeyValue("  scale", fmt.Sprintf("%g, %g", p.XScale, p.YScale))
	printKeyValue("  offset", fmt.Sprintf("%g, %g", p.XOffset, p.YOffset))
	if opts.StopAfter != "" && opts.StopAfter != pipeline.StageWrite {
		return nil
	}
	for _, path := range []string{opts.Output, opts.LocationsOutput} {
		if path != "" {
			printFile(path)
		}
	}
	printNextStep("View it", fmt.Sprintf("%s serve --config %s", appName, configPath))
	return nil
}
