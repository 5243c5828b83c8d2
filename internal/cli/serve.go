package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/floorgeo/internal/server"
)

// serveCommand creates the serve command for the browser viewer.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		flags projectFlags
		addr  string
		dir   string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the georeferenced floor plan to the browser viewer",
		Long: `Serve the georeferenced floor plan to the browser viewer.

serve exposes /graph.json, /locations.json and /health, and serves static
viewer files from --dir. Until the first run writes the output file,
/graph.json is computed in memory on every request.

The server shuts down gracefully on interrupt.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.load(cmd)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("addr") {
				cfg.Serve.Addr = addr
			}
			if cmd.Flags().Changed("dir") {
				cfg.Serve.Dir = dir
			}

			opts := cfg.Options()
			if opts.Output != "" && !fileExists(opts.Output) {
				printWarning("%s not found, /graph.json runs the pipeline per request", opts.Output)
			}
			if !fileExists(cfg.Serve.Dir) {
				printWarning("viewer directory %s not found, static files disabled", cfg.Serve.Dir)
				cfg.Serve.Dir = ""
			}

			srv := server.New(server.Options{
				Dir:      cfg.Serve.Dir,
				Pipeline: opts,
				Logger:   loggerFromContext(cmd.Context()),
			})
			printInfo("Listening on http://%s", cfg.Serve.Addr)
			return srv.ListenAndServe(cmd.Context(), cfg.Serve.Addr)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, 127.0.0.1:8080)")
	cmd.Flags().StringVar(&dir, "dir", "", "static viewer directory (default from config, www)")

	return cmd
}
