package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/pipeflow/internal/api"
)

// serveCommand creates the serve command, which exposes solve, optimize and
// render over HTTP until interrupted.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API",
		Long: `Start an HTTP server with the endpoints

  GET  /healthz
  GET  /v1/version
  POST /v1/solve
  POST /v1/optimize
  POST /v1/render/{network,chart}?format=svg

Request bodies carry an optional "config" object shaped like a config file.
Results are cached in memory for the life of the process.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			runner := api.NewRunner(logger)
			defer runner.Close()

			return api.New(runner, logger).ListenAndServe(ctx, addr)
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", defaultAddr, "listen address")
	return cmd
}
