package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/paulmach/orb/geojson"

	"github.com/matzehuels/floorgeo/pkg/core/planar"
	"github.com/matzehuels/floorgeo/pkg/errors"
)

// Style is the fixed presentation payload attached to every exported line.
// Map viewers that follow the simplestyle convention pick these up.
type Style struct {
	Stroke        string  `json:"stroke" toml:"stroke" yaml:"stroke"`
	StrokeWidth   float64 `json:"stroke_width" toml:"stroke_width" yaml:"stroke_width"`
	StrokeOpacity float64 `json:"stroke_opacity" toml:"stroke_opacity" yaml:"stroke_opacity"`
}

// DefaultStyle is a 4px opaque blue line.
var DefaultStyle = Style{Stroke: "#0000FF", StrokeWidth: 4, StrokeOpacity: 1}

// Properties returns the style as GeoJSON feature properties.
func (s Style) Properties() geojson.Properties {
	return geojson.Properties{
		"stroke":         s.Stroke,
		"stroke-width":   s.StrokeWidth,
		"stroke-opacity": s.StrokeOpacity,
	}
}

// FeatureCollection builds one LineString feature per undirected edge of g,
// in the order of [planar.Graph.Edges]. Nodes are not exported as points.
func FeatureCollection(g *planar.Graph, style Style) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, e := range g.Edges() {
		f := geojson.NewFeature(e.LineString())
		f.Properties = style.Properties()
		fc.Append(f)
	}
	return fc
}

// WriteGeoJSON encodes fc as two-space indented JSON and writes it to w.
func WriteGeoJSON(fc *geojson.FeatureCollection, w io.Writer) error {
	data, err := json.MarshalIndent(fc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	data = append(data, '\n')
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	return nil
}

// ExportGeoJSON writes fc to path.
//
// The collection is written to a temporary file next to path and renamed into
// place, so a failure never leaves a truncated file behind and an existing
// file is only replaced by a complete one.
func ExportGeoJSON(fc *geojson.FeatureCollection, path string) error {
	if err := errors.ValidateOutputPath(path); err != nil {
		return err
	}
	return WriteFileAtomic(path, func(w io.Writer) error { return WriteGeoJSON(fc, w) })
}

// ReadGeoJSON decodes a FeatureCollection from r.
func ReadGeoJSON(r io.Reader) (*geojson.FeatureCollection, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return fc, nil
}

// WriteFileAtomic calls write with a temporary file in the directory of path
// and renames it to path once write and close succeed. Missing parent
// directories are created.
func WriteFileAtomic(path string, write func(io.Writer) error) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer os.Remove(tmp.Name())

	if err := write(tmp); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", tmp.Name(), err)
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		return fmt.Errorf("chmod %s: %w", tmp.Name(), err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename %s: %w", path, err)
	}
	return nil
}
