// Package config loads floorgeo project files.
//
// A project file names the input and output paths, the rotation, and the two
// control points that pin the floor plan to the map. TOML, YAML and JSON are
// accepted, chosen by file extension:
//
//	input = "skeleton.csv"
//	output = "www/graph.geojson"
//	rotations = 1
//	epsilon = 1e-6
//
//	[[control_points]]
//	name = "front gate"
//	source = { x = 1031.1445148051941, y = -179.0924576623372 }
//	target = { lon = -122.066278, lat = 37.361 }
//
//	[[control_points]]
//	name = "gym"
//	source = { x = 395.050514805194, y = -1770.3804576623374 }
//	target = { lon = -122.068444, lat = 37.357 }
//
//	[style]
//	stroke = "#0000FF"
//	stroke_width = 4
//	stroke_opacity = 1
//
//	[locations]
//	input = "locations.json"
//	output = "www/locations.json"
//
//	[serve]
//	addr = "127.0.0.1:8080"
//	dir = "www"
//
// Relative paths are resolved against the directory of the project file.
// Unknown keys are rejected so typos do not silently fall back to defaults.
package config

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/paulmach/orb"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/floorgeo/pkg/errors"
	floorio "github.com/matzehuels/floorgeo/pkg/io"
	"github.com/matzehuels/floorgeo/pkg/pipeline"
)

// Default server settings.
const (
	DefaultAddr = "127.0.0.1:8080"
	DefaultDir  = "www"
)

// Point is a pixel coordinate.
type Point struct {
	X float64 `toml:"x" yaml:"x" json:"x"`
	Y float64 `toml:"y" yaml:"y" json:"y"`
}

// GeoPoint is a longitude and latitude.
type GeoPoint struct {
	Lon float64 `toml:"lon" yaml:"lon" json:"lon"`
	Lat float64 `toml:"lat" yaml:"lat" json:"lat"`
}

// ControlPoint pins a rotated-graph pixel coordinate to a map position.
type ControlPoint struct {
	Name   string   `toml:"name" yaml:"name" json:"name"`
	Source Point    `toml:"source" yaml:"source" json:"source"`
	Target GeoPoint `toml:"target" yaml:"target" json:"target"`
}

// Style is the line style of exported features. Width and opacity are
// pointers so an explicit zero is kept rather than defaulted.
type Style struct {
	Stroke        string   `toml:"stroke" yaml:"stroke" json:"stroke"`
	StrokeWidth   *float64 `toml:"stroke_width" yaml:"stroke_width" json:"stroke_width"`
	StrokeOpacity *float64 `toml:"stroke_opacity" yaml:"stroke_opacity" json:"stroke_opacity"`
}

// Export returns the style with omitted fields taken from
// floorio.DefaultStyle.
func (s Style) Export() floorio.Style {
	out := floorio.DefaultStyle
	if s.Stroke != "" {
		out.Stroke = s.Stroke
	}
	if s.StrokeWidth != nil {
		out.StrokeWidth = *s.StrokeWidth
	}
	if s.StrokeOpacity != nil {
		out.StrokeOpacity = *s.StrokeOpacity
	}
	return out
}

// Locations names the location records to carry through the pipeline.
type Locations struct {
	Input  string `toml:"input" yaml:"input" json:"input"`
	Output string `toml:"output" yaml:"output" json:"output"`
}

// Serve configures the viewer server.
type Serve struct {
	Addr string `toml:"addr" yaml:"addr" json:"addr"`
	Dir  string `toml:"dir" yaml:"dir" json:"dir"`
}

// Config is a project file.
//
// Rotations and Epsilon are pointers so an explicit zero (no rotation, exact
// matching) can be told apart from an omitted key.
type Config struct {
	Input         string         `toml:"input" yaml:"input" json:"input"`
	Output        string         `toml:"output" yaml:"output" json:"output"`
	Rotations     *int           `toml:"rotations" yaml:"rotations" json:"rotations"`
	Epsilon       *float64       `toml:"epsilon" yaml:"epsilon" json:"epsilon"`
	ControlPoints []ControlPoint `toml:"control_points" yaml:"control_points" json:"control_points"`
	Style         Style          `toml:"style" yaml:"style" json:"style"`
	Locations     Locations      `toml:"locations" yaml:"locations" json:"locations"`
	Serve         Serve          `toml:"serve" yaml:"serve" json:"serve"`

	// dir is the directory relative paths are resolved against.
	dir string
}

// Load reads the project file at path. The format follows the extension:
// .toml, .yaml or .yml, or .json. Defaults are applied but the result is not
// validated; call [Config.Validate] once command-line overrides are merged.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "config %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read config %s", path)
	}

	cfg, err := Parse(data, Format(path))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "config %s", path)
	}
	cfg.dir = filepath.Dir(path)
	cfg.resolvePaths()
	return cfg, nil
}

// Format returns the config format implied by the extension of path:
// "toml", "yaml" or "json". Anything else is treated as TOML.
func Format(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return "yaml"
	case ".json":
		return "json"
	default:
		return "toml"
	}
}

// Parse decodes a project file in the given format and applies defaults.
func Parse(data []byte, format string) (*Config, error) {
	var cfg Config
	switch format {
	case "toml":
		md, err := toml.Decode(string(data), &cfg)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "decode toml")
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown key %q", undecoded[0].String())
		}
	case "yaml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&cfg); err != nil && !stderrors.Is(err, io.EOF) {
			return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "decode yaml")
		}
	case "json":
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&cfg); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "decode json")
		}
	default:
		return nil, errors.New(errors.ErrCodeInvalidConfig, "unsupported config format %q", format)
	}
	cfg.SetDefaults()
	return &cfg, nil
}

// SetDefaults fills omitted settings.
func (c *Config) SetDefaults() {
	if c.Rotations == nil {
		n := pipeline.DefaultRotations
		c.Rotations = &n
	}
	if c.Epsilon == nil {
		eps := pipeline.DefaultEpsilon
		c.Epsilon = &eps
	}
	if c.Style.Stroke == "" {
		c.Style.Stroke = floorio.DefaultStyle.Stroke
	}
	if c.Style.StrokeWidth == nil {
		w := floorio.DefaultStyle.StrokeWidth
		c.Style.StrokeWidth = &w
	}
	if c.Style.StrokeOpacity == nil {
		op := floorio.DefaultStyle.StrokeOpacity
		c.Style.StrokeOpacity = &op
	}
	if c.Serve.Addr == "" {
		c.Serve.Addr = DefaultAddr
	}
	if c.Serve.Dir == "" {
		c.Serve.Dir = DefaultDir
	}
}

// Validate checks a complete configuration for the run command.
func (c *Config) Validate() error {
	if c.Input == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "input is required")
	}
	if c.Output == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "output is required")
	}
	if c.Epsilon != nil && *c.Epsilon < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "epsilon must not be negative, got %v", *c.Epsilon)
	}
	style := c.Style.Export()
	if style.StrokeWidth < 0 || math.IsNaN(style.StrokeWidth) {
		return errors.New(errors.ErrCodeInvalidConfig, "stroke_width must not be negative")
	}
	if !(style.StrokeOpacity >= 0 && style.StrokeOpacity <= 1) {
		return errors.New(errors.ErrCodeInvalidConfig, "stroke_opacity must be between 0 and 1")
	}
	if c.Locations.Output != "" && c.Locations.Input == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "locations.output requires locations.input")
	}
	return pipeline.ValidateControlPoints(c.controlPoints())
}

// Options converts the configuration into pipeline options.
func (c *Config) Options() pipeline.Options {
	opts := pipeline.Options{
		Input:           c.Input,
		Output:          c.Output,
		ControlPoints:   c.controlPoints(),
		Style:           c.Style.Export(),
		LocationsInput:  c.Locations.Input,
		LocationsOutput: c.Locations.Output,
	}
	if c.Rotations != nil {
		opts.Rotations = *c.Rotations
	}
	if c.Epsilon != nil {
		opts.Epsilon = *c.Epsilon
	}
	return opts
}

// Resolve returns path relative to the config file directory unless it is
// absolute or empty.
func (c *Config) Resolve(path string) string {
	if path == "" || filepath.IsAbs(path) || c.dir == "" {
		return path
	}
	return filepath.Join(c.dir, path)
}

func (c *Config) resolvePaths() {
	for _, p := range []*string{&c.Input, &c.Output, &c.Locations.Input, &c.Locations.Output, &c.Serve.Dir} {
		*p = c.Resolve(*p)
	}
}

func (c *Config) controlPoints() []pipeline.ControlPoint {
	cps := make([]pipeline.ControlPoint, len(c.ControlPoints))
	for i, cp := range c.ControlPoints {
		cps[i] = pipeline.ControlPoint{
			Name:   cp.Name,
			Source: orb.Point{cp.Source.X, cp.Source.Y},
			Target: orb.Point{cp.Target.Lon, cp.Target.Lat},
		}
	}
	return cps
}
