package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/floorgeo/pkg/config"
	"github.com/matzehuels/floorgeo/pkg/errors"
)

// projectFlags are the settings every command can take from the project file
// or override on the command line.
type projectFlags struct {
	config       string
	input        string
	output       string
	rotations    int
	epsilon      float64
	locations    string
	locationsOut string
}

// register adds the project flags to cmd.
func (f *projectFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.config, "config", "c", defaultConfig, "project file (toml, yaml or json)")
	cmd.Flags().StringVarP(&f.input, "input", "i", "", "edge list CSV")
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "GeoJSON output path")
	cmd.Flags().IntVarP(&f.rotations, "rotations", "r", 1, "clockwise quarter turns applied before fitting")
	cmd.Flags().Float64Var(&f.epsilon, "epsilon", 1e-6, "control point match tolerance (0 for exact)")
	cmd.Flags().StringVar(&f.locations, "locations", "", "location records to transform")
	cmd.Flags().StringVar(&f.locationsOut, "locations-output", "", "output path for transformed location records")
}

// load reads the project file and applies flags the user set explicitly.
//
// A missing project file is only an error when --config was given; otherwise
// the command runs from flags alone.
func (f *projectFlags) load(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(f.config)
	switch {
	case err == nil:
	case errors.Is(err, errors.ErrCodeFileNotFound) && !cmd.Flags().Changed("config"):
		cfg = &config.Config{}
		cfg.SetDefaults()
	default:
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("input") {
		cfg.Input = f.input
	}
	if flags.Changed("output") {
		cfg.Output = f.output
	}
	if flags.Changed("rotations") {
		cfg.Rotations = &f.rotations
	}
	if flags.Changed("epsilon") {
		cfg.Epsilon = &f.epsilon
	}
	if flags.Changed("locations") {
		cfg.Locations.Input = f.locations
	}
	if flags.Changed("locations-output") {
		cfg.Locations.Output = f.locationsOut
	}
	return cfg, nil
}

// fileExists reports whether path names an existing file.
func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
