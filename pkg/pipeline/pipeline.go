// Package pipeline provides the floor plan georeferencing pipeline.
//
// This package implements the complete load → rotate → fit → export pipeline
// used by the CLI commands and the viewer server. By centralizing this logic,
// every entry point applies the same stages in the same order.
//
// # Architecture
//
// The pipeline runs these stages in order:
//
//  1. load: Read edge records (and optionally location records)
//  2. build: Deduplicate coordinates into a planar graph
//  3. rotate: Quarter-turn the graph about its centroid
//  4. locate: Find the nodes matching the two control points
//  5. fit: Derive per-axis scale and offset from the correspondences
//  6. apply: Transform every node
//  7. export: Build the GeoJSON FeatureCollection
//  8. write: Write the output files
//
// Every stage produces a new graph; none mutates its input. A failing stage
// returns a [*StageError] that names the stage and carries the last graph that
// was produced, and nothing is written.
//
// # Usage
//
//	runner := pipeline.NewRunner(logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Input:     "skeleton.csv",
//	    Output:    "www/graph.geojson",
//	    Rotations: 1,
//	    Epsilon:   pipeline.DefaultEpsilon,
//	    ControlPoints: []pipeline.ControlPoint{
//	        {Name: "gate", Source: orb.Point{1031.14, -179.09}, Target: orb.Point{-122.066278, 37.361}},
//	        {Name: "gym", Source: orb.Point{395.05, -1770.38}, Target: orb.Point{-122.068444, 37.357}},
//	    },
//	})
//
// Set [Options.StopAfter] to run a prefix of the stages, for example to
// inspect or preview the rotated graph before control points are known.
package pipeline

import (
	"fmt"
	"io"
	"math"
	"time"

	"github.com/charmbracelet/log"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/matzehuels/floorgeo/pkg/core/planar"
	"github.com/matzehuels/floorgeo/pkg/core/planar/transform"
	"github.com/matzehuels/floorgeo/pkg/errors"
	floorio "github.com/matzehuels/floorgeo/pkg/io"
	"github.com/matzehuels/floorgeo/pkg/locations"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI, config, and server
// =============================================================================

const (
	// DefaultRotations is the number of quarter turns applied when the
	// configuration does not say otherwise.
	DefaultRotations = 1

	// DefaultEpsilon is the control-point matching tolerance.
	DefaultEpsilon = 1e-6
)

// Stage names a pipeline step.
type Stage string

// Pipeline stages, in execution order.
const (
	StageLoad   Stage = "load"
	StageBuild  Stage = "build"
	StageRotate Stage = "rotate"
	StageLocate Stage = "locate"
	StageFit    Stage = "fit"
	StageApply  Stage = "apply"
	StageExport Stage = "export"
	StageWrite  Stage = "write"
)

// Stages lists every stage in execution order.
var Stages = []Stage{
	StageLoad, StageBuild, StageRotate, StageLocate,
	StageFit, StageApply, StageExport, StageWrite,
}

func (s Stage) index() int {
	for i, st := range Stages {
		if st == s {
			return i
		}
	}
	return -1
}

// ParseStage validates a stage name.
func ParseStage(name string) (Stage, error) {
	s := Stage(name)
	if s.index() < 0 {
		return "", errors.New(errors.ErrCodeInvalidInput, "unknown stage %q", name)
	}
	return s, nil
}

// StageError reports the stage a run failed in. Snapshot is the last graph
// the run produced before the failure, or nil if it failed before the graph
// was built. The wrapped error keeps its code for errors.Is and errors.GetCode.
type StageError struct {
	Stage    Stage
	Snapshot *planar.Graph
	Err      error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// ControlPoint ties a pixel coordinate of the rotated graph to the longitude
// and latitude it must end up at.
type ControlPoint struct {
	Name   string    `json:"name"`
	Source orb.Point `json:"source"`
	Target orb.Point `json:"target"`
}

// Options contains all configuration for one pipeline run.
type Options struct {
	// Input is the edge CSV path. Ignored when Edges is set.
	Input string `json:"input,omitempty"`
	// Edges supplies records directly instead of reading Input.
	Edges []floorio.EdgeRecord `json:"-"`

	// Output is the GeoJSON path. Empty skips writing.
	Output string `json:"output,omitempty"`

	// Rotations is the number of quarter turns, taken modulo 4. Zero leaves
	// the graph unrotated; see DefaultRotations.
	Rotations int `json:"rotations"`

	// Epsilon is the control-point matching tolerance. Zero requires an exact
	// coordinate match; see DefaultEpsilon.
	Epsilon float64 `json:"epsilon"`

	// ControlPoints must hold exactly two entries unless StopAfter ends the
	// run before the locate stage.
	ControlPoints []ControlPoint `json:"control_points,omitempty"`

	// Style is attached to every exported feature. Zero fields take
	// floorio.DefaultStyle values.
	Style floorio.Style `json:"style"`

	// LocationsInput names a location records file to carry through the same
	// rotation and fit. The result is written to LocationsOutput when set.
	LocationsInput  string `json:"locations_input,omitempty"`
	LocationsOutput string `json:"locations_output,omitempty"`

	// StopAfter ends the run after the named stage. Empty runs every stage.
	StopAfter Stage `json:"stop_after,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a pipeline run. Fields for stages that did
// not run are left zero.
type Result struct {
	// RunID identifies the run in logs and hook events.
	RunID string

	// Graph is the graph built from the input records.
	Graph *planar.Graph

	// Rotated is Graph after the quarter turns.
	Rotated *planar.Graph

	// Centroid is the centroid of Graph the rotation turned about.
	Centroid orb.Point

	// Correspondences are the located control points.
	Correspondences [2]transform.Correspondence

	// Params is the fitted transform.
	Params transform.Params

	// Final is Rotated with Params applied.
	Final *planar.Graph

	// Collection is the exported line network.
	Collection *geojson.FeatureCollection

	// Locations are the location records after rotation and fit. Nil unless
	// LocationsInput was set.
	Locations []locations.Record

	// Stats contains timing and size information.
	Stats Stats
}

// Last returns the most advanced graph the run produced.
func (r *Result) Last() *planar.Graph {
	switch {
	case r.Final != nil:
		return r.Final
	case r.Rotated != nil:
		return r.Rotated
	default:
		return r.Graph
	}
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount   int
	EdgeCount   int
	RecordCount int
	StageTimes  map[Stage]time.Duration
	Total       time.Duration
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks the options and fills in defaults.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Input == "" && o.Edges == nil {
		return errors.New(errors.ErrCodeInvalidConfig, "input is required")
	}
	if o.StopAfter != "" && o.StopAfter.index() < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "unknown stage %q", o.StopAfter)
	}
	if o.Epsilon < 0 || math.IsNaN(o.Epsilon) {
		return errors.New(errors.ErrCodeInvalidConfig, "epsilon must be a non-negative number, got %v", o.Epsilon)
	}
	if o.runs(StageLocate) {
		if err := ValidateControlPoints(o.ControlPoints); err != nil {
			return err
		}
	}
	if o.LocationsOutput != "" && o.LocationsInput == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "locations output requires a locations input")
	}
	for _, path := range []string{o.Output, o.LocationsOutput} {
		if path == "" {
			continue
		}
		if err := errors.ValidateOutputPath(path); err != nil {
			return err
		}
	}
	o.SetStyleDefaults()
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// SetStyleDefaults replaces an unset style with floorio.DefaultStyle. A style
// with any field set is kept as given, zero width and opacity included; only
// an empty stroke color is filled in.
func (o *Options) SetStyleDefaults() {
	if o.Style == (floorio.Style{}) {
		o.Style = floorio.DefaultStyle
		return
	}
	if o.Style.Stroke == "" {
		o.Style.Stroke = floorio.DefaultStyle.Stroke
	}
}

// runs reports whether the run reaches stage s.
func (o *Options) runs(s Stage) bool {
	if o.StopAfter == "" {
		return true
	}
	return s.index() <= o.StopAfter.index()
}

// ValidateControlPoints checks that exactly two named, finite control points
// are given.
func ValidateControlPoints(cps []ControlPoint) error {
	if len(cps) != 2 {
		return errors.New(errors.ErrCodeInvalidConfig, "exactly two control points are required, got %d", len(cps))
	}
	for i, cp := range cps {
		name := cp.Name
		if name == "" {
			name = fmt.Sprintf("#%d", i+1)
		}
		for _, v := range []struct {
			what string
			v    float64
		}{
			{"source x", cp.Source[0]}, {"source y", cp.Source[1]},
			{"target lon", cp.Target[0]}, {"target lat", cp.Target[1]},
		} {
			if err := errors.ValidateCoordinate(v.what, v.v); err != nil {
				return errors.Wrap(errors.ErrCodeInvalidConfig, err, "control point %s", name)
			}
		}
	}
	return nil
}
