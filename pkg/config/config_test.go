package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/floorgeo/pkg/errors"
	floorio "github.com/matzehuels/floorgeo/pkg/io"
	"github.com/matzehuels/floorgeo/pkg/pipeline"
)

const tomlConfig = `
input = "skeleton.csv"
output = "www/graph.geojson"
rotations = 3
epsilon = 0

[[control_points]]
name = "front gate"
source = { x = 1031.1445148051941, y = -179.0924576623372 }
target = { lon = -122.066278, lat = 37.361 }

[[control_points]]
name = "gym"
source = { x = 395.050514805194, y = -1770.3804576623374 }
target = { lon = -122.068444, lat = 37.357 }

[style]
stroke = "#FF0000"
stroke_width = 2

[locations]
input = "locations.json"
output = "www/locations.json"
`

const yamlConfig = `
input: skeleton.csv
output: /tmp/graph.geojson
control_points:
  - name: front gate
    source: {x: 1031.1445148051941, y: -179.0924576623372}
    target: {lon: -122.066278, lat: 37.361}
  - name: gym
    source: {x: 395.050514805194, y: -1770.3804576623374}
    target: {lon: -122.068444, lat: 37.357}
serve:
  addr: ":9000"
`

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadTOML(t *testing.T) {
	path := writeConfig(t, "floorgeo.toml", tomlConfig)
	dir := filepath.Dir(path)

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, filepath.Join(dir, "skeleton.csv"), cfg.Input)
	assert.Equal(t, filepath.Join(dir, "www", "graph.geojson"), cfg.Output)
	assert.Equal(t, 3, *cfg.Rotations)
	assert.Equal(t, 0.0, *cfg.Epsilon)
	assert.Equal(t, floorio.Style{Stroke: "#FF0000", StrokeWidth: 2, StrokeOpacity: 1}, cfg.Style.Export())
	assert.Equal(t, filepath.Join(dir, "locations.json"), cfg.Locations.Input)
	assert.Equal(t, DefaultAddr, cfg.Serve.Addr)
	assert.Equal(t, filepath.Join(dir, DefaultDir), cfg.Serve.Dir)

	require.Len(t, cfg.ControlPoints, 2)
	assert.Equal(t, "front gate", cfg.ControlPoints[0].Name)
	assert.Equal(t, GeoPoint{Lon: -122.068444, Lat: 37.357}, cfg.ControlPoints[1].Target)
}

func TestLoadYAML(t *testing.T) {
	for _, name := range []string{"floorgeo.yaml", "floorgeo.yml"} {
		t.Run(name, func(t *testing.T) {
			cfg, err := Load(writeConfig(t, name, yamlConfig))
			require.NoError(t, err)
			require.NoError(t, cfg.Validate())

			assert.Equal(t, "/tmp/graph.geojson", cfg.Output, "absolute paths are kept")
			assert.Equal(t, pipeline.DefaultRotations, *cfg.Rotations)
			assert.Equal(t, pipeline.DefaultEpsilon, *cfg.Epsilon)
			assert.Equal(t, ":9000", cfg.Serve.Addr)
			assert.Equal(t, floorio.DefaultStyle, cfg.Style.Export())
		})
	}
}

func TestLoadJSON(t *testing.T) {
	cfg, err := Load(writeConfig(t, "floorgeo.json", `{"input": "a.csv", "output": "b.geojson", "rotations": 0}`))
	require.NoError(t, err)
	assert.Equal(t, 0, *cfg.Rotations, "explicit zero is kept")
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		code    errors.Code
	}{
		{"unknown toml key", "a.toml", "inptu = \"x\"\n", errors.ErrCodeInvalidConfig},
		{"unknown yaml key", "a.yaml", "inptu: x\n", errors.ErrCodeInvalidConfig},
		{"unknown json key", "a.json", `{"inptu": "x"}`, errors.ErrCodeInvalidConfig},
		{"bad toml", "a.toml", "input = \n", errors.ErrCodeInvalidConfig},
		{"wrong type", "a.toml", "rotations = \"one\"\n", errors.ErrCodeInvalidConfig},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.file, tt.content))
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.code), "got %v", err)
		})
	}

	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.True(t, errors.Is(err, errors.ErrCodeFileNotFound))
}

func TestEmptyYAML(t *testing.T) {
	cfg, err := Parse([]byte(""), "yaml")
	require.NoError(t, err)
	assert.Equal(t, pipeline.DefaultRotations, *cfg.Rotations)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg, err := Parse([]byte(tomlConfig), "toml")
		require.NoError(t, err)
		return cfg
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing input", func(c *Config) { c.Input = "" }},
		{"missing output", func(c *Config) { c.Output = "" }},
		{"one control point", func(c *Config) { c.ControlPoints = c.ControlPoints[:1] }},
		{"three control points", func(c *Config) { c.ControlPoints = append(c.ControlPoints, ControlPoint{Name: "x"}) }},
		{"negative epsilon", func(c *Config) { eps := -1.0; c.Epsilon = &eps }},
		{"opacity above one", func(c *Config) { op := 2.0; c.Style.StrokeOpacity = &op }},
		{"negative width", func(c *Config) { w := -1.0; c.Style.StrokeWidth = &w }},
		{"locations output alone", func(c *Config) { c.Locations.Input = "" }},
	}

	require.NoError(t, valid().Validate())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.True(t, errors.Is(err, errors.ErrCodeInvalidConfig), "got %v", err)
		})
	}
}

func TestOptions(t *testing.T) {
	cfg, err := Parse([]byte(tomlConfig), "toml")
	require.NoError(t, err)

	opts := cfg.Options()
	assert.Equal(t, "skeleton.csv", opts.Input)
	assert.Equal(t, 3, opts.Rotations)
	assert.Equal(t, 0.0, opts.Epsilon)
	assert.Equal(t, "locations.json", opts.LocationsInput)
	require.Len(t, opts.ControlPoints, 2)
	assert.Equal(t, pipeline.ControlPoint{
		Name:   "gym",
		Source: orb.Point{395.050514805194, -1770.3804576623374},
		Target: orb.Point{-122.068444, 37.357},
	}, opts.ControlPoints[1])
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "toml", Format("floorgeo.toml"))
	assert.Equal(t, "yaml", Format("floorgeo.YAML"))
	assert.Equal(t, "yaml", Format("x.yml"))
	assert.Equal(t, "json", Format("x.json"))
	assert.Equal(t, "toml", Format("floorgeo"))
}

func TestResolve(t *testing.T) {
	cfg := &Config{dir: "/proj"}
	assert.Equal(t, filepath.Join("/proj", "a.csv"), cfg.Resolve("a.csv"))
	assert.Equal(t, "/abs/a.csv", cfg.Resolve("/abs/a.csv"))
	assert.Equal(t, "", cfg.Resolve(""))

	assert.Equal(t, "a.csv", (&Config{}).Resolve("a.csv"))
}

func TestStyleExplicitZero(t *testing.T) {
	cfg, err := Parse([]byte("input = \"a.csv\"\n[style]\nstroke_width = 0\nstroke_opacity = 0\n"), "toml")
	require.NoError(t, err)

	style := cfg.Options().Style
	assert.Equal(t, floorio.DefaultStyle.Stroke, style.Stroke)
	assert.Equal(t, 0.0, style.StrokeWidth)
	assert.Equal(t, 0.0, style.StrokeOpacity)

	opts := cfg.Options()
	opts.StopAfter = pipeline.StageBuild
	require.NoError(t, opts.ValidateAndSetDefaults())
	assert.Equal(t, 0.0, opts.Style.StrokeOpacity, "pipeline defaults must keep an explicit zero")
}
