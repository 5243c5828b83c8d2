package cli

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/floorgeo/pkg/errors"
	"github.com/matzehuels/floorgeo/pkg/locations"
)

// editCommand creates the edit command for the interactive location editor.
func (c *CLI) editCommand() *cobra.Command {
	var flags projectFlags

	cmd := &cobra.Command{
		Use:   "edit [locations.json]",
		Short: "Edit location records interactively",
		Long: `Edit location records interactively.

edit opens a terminal editor over the location records in pixel coordinates.
Move the cursor with the arrow keys, press space on a location to pick it up
and move it, and space again to drop it. Press a to add a location at the
cursor, d to delete the one under it, and s to save.

The file defaults to locations.input from the project file. A missing file is
created on the first save.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.load(cmd)
			if err != nil {
				return err
			}
			path := cfg.Locations.Input
			if len(args) == 1 {
				path = args[0]
			}
			if path == "" {
				return errors.New(errors.ErrCodeInvalidInput, "no locations file: pass one or set locations.input")
			}
			return c.runEdit(cmd.Context(), path)
		},
	}

	flags.register(cmd)
	return cmd
}

func (c *CLI) runEdit(ctx context.Context, path string) error {
	logger := loggerFromContext(ctx)

	store, err := locations.NewFileStore(path)
	if err != nil {
		return err
	}
	records, err := store.Load(ctx)
	switch {
	case err == nil:
		logger.Debug("loaded locations", "path", path, "records", len(records))
	case errors.Is(err, errors.ErrCodeFileNotFound):
		logger.Debug("starting new locations file", "path", path)
	default:
		return err
	}

	p := tea.NewProgram(NewEditorModel(ctx, store, records), tea.WithContext(ctx), tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		return err
	}

	m, ok := final.(EditorModel)
	if !ok {
		return nil
	}
	if m.Editor().Dirty() {
		printWarning("Quit with unsaved changes to %s", path)
		return nil
	}
	printSuccess("%d locations in %s", len(m.Editor().Records()), path)
	return nil
}
