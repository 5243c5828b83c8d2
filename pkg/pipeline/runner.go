package pipeline

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/floorgeo/pkg/core/planar/transform"
	floorio "github.com/matzehuels/floorgeo/pkg/io"
	"github.com/matzehuels/floorgeo/pkg/locations"
	"github.com/matzehuels/floorgeo/pkg/observability"
)

// Runner executes the pipeline.
//
// The Runner is stateless except for the logger - it doesn't store pipeline
// results. Multiple goroutines can safely use the same Runner with different
// options.
type Runner struct {
	Logger *log.Logger
}

// NewRunner creates a runner that logs to logger.
// If logger is nil, the default logger is used.
func NewRunner(logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Logger: logger}
}

// step is one pipeline stage. run returns the node count of the graph the
// stage produced, or zero.
type step struct {
	stage Stage
	run   func() (int, error)
}

// Execute runs the pipeline up to opts.StopAfter.
//
// Cancellation is checked before every stage. Output files are written only by
// the final stage, so a failed or canceled run leaves existing files untouched.
// Every failure is returned as a [*StageError].
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	res := &Result{
		RunID: uuid.NewString(),
		Stats: Stats{StageTimes: make(map[Stage]time.Duration)},
	}
	logger := opts.Logger.With("run", res.RunID[:8])
	begin := time.Now()

	var (
		records []floorio.EdgeRecord
		locs    []locations.Record
	)

	steps := []step{
		{StageLoad, func() (int, error) {
			var err error
			if records, err = Parse(ctx, opts); err != nil {
				return 0, err
			}
			res.Stats.RecordCount = len(records)
			if opts.LocationsInput != "" {
				if locs, err = LoadLocations(ctx, opts.LocationsInput); err != nil {
					return 0, err
				}
			}
			return 0, nil
		}},
		{StageBuild, func() (int, error) {
			g, err := floorio.BuildGraph(records)
			if err != nil {
				return 0, err
			}
			res.Graph = g
			res.Stats.NodeCount = g.Size()
			res.Stats.EdgeCount = g.EdgeCount()
			return g.Size(), nil
		}},
		{StageRotate, func() (int, error) {
			g, c, err := transform.RotateN(res.Graph, opts.Rotations)
			if err != nil {
				return 0, err
			}
			res.Rotated, res.Centroid = g, c
			logger.Debug("rotated graph", "turns", opts.Rotations, "centroid", c)
			return g.Size(), nil
		}},
		{StageLocate, func() (int, error) {
			cs, err := Locate(res.Rotated, opts.ControlPoints, opts.Epsilon)
			if err != nil {
				return 0, err
			}
			res.Correspondences = cs
			for i, c := range cs {
				logger.Debug("located control point",
					"name", opts.ControlPoints[i].Name,
					"source", c.Source,
					"target", c.Target)
			}
			return res.Rotated.Size(), nil
		}},
		{StageFit, func() (int, error) {
			p, err := transform.Fit(res.Correspondences[0], res.Correspondences[1])
			if err != nil {
				return 0, err
			}
			res.Params = p
			logger.Debug("fitted transform",
				"x_scale", p.XScale, "y_scale", p.YScale,
				"x_offset", p.XOffset, "y_offset", p.YOffset)
			return res.Rotated.Size(), nil
		}},
		{StageApply, func() (int, error) {
			res.Final = transform.Apply(res.Rotated, res.Params)
			return res.Final.Size(), nil
		}},
		{StageExport, func() (int, error) {
			res.Collection = floorio.FeatureCollection(res.Final, opts.Style)
			if locs != nil {
				res.Locations = TransformLocations(locs, res.Centroid, opts.Rotations, res.Params)
			}
			return res.Final.Size(), nil
		}},
		{StageWrite, func() (int, error) {
			return 0, r.write(ctx, logger, opts, res)
		}},
	}

	for _, s := range steps {
		if !opts.runs(s.stage) {
			break
		}
		if err := r.runStep(ctx, logger, res, s); err != nil {
			return nil, err
		}
	}

	res.Stats.Total = time.Since(begin)
	logger.Info("pipeline complete",
		"nodes", res.Stats.NodeCount,
		"edges", res.Stats.EdgeCount,
		"duration", res.Stats.Total)
	return res, nil
}

func (r *Runner) runStep(ctx context.Context, logger *log.Logger, res *Result, s step) error {
	if err := ctx.Err(); err != nil {
		return &StageError{Stage: s.stage, Snapshot: res.Last(), Err: err}
	}

	hooks := observability.Pipeline()
	hooks.OnStageStart(ctx, res.RunID, string(s.stage))
	start := time.Now()
	snapshot := res.Last()

	nodes, err := s.run()

	elapsed := time.Since(start)
	res.Stats.StageTimes[s.stage] = elapsed
	hooks.OnStageComplete(ctx, res.RunID, string(s.stage), nodes, elapsed, err)
	if err != nil {
		logger.Debug("stage failed", "stage", s.stage, "error", err)
		return &StageError{Stage: s.stage, Snapshot: snapshot, Err: err}
	}

	logger.Debug("stage complete", "stage", s.stage, "nodes", nodes, "duration", elapsed)
	return nil
}

// write stores the collection and the transformed locations. Paths left
// empty are skipped.
func (r *Runner) write(ctx context.Context, logger *log.Logger, opts Options, res *Result) error {
	if opts.Output != "" {
		if err := floorio.ExportGeoJSON(res.Collection, opts.Output); err != nil {
			return err
		}
		logger.Info("wrote geojson", "path", opts.Output, "features", len(res.Collection.Features))
	}
	if opts.LocationsOutput != "" {
		store, err := locations.NewFileStore(opts.LocationsOutput)
		if err != nil {
			return err
		}
		if err := store.Save(ctx, res.Locations); err != nil {
			return err
		}
		logger.Info("wrote locations", "path", opts.LocationsOutput, "records", len(res.Locations))
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
