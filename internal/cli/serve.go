package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/wordtiles/pkg/server"
)

// serveCommand creates the serve command for the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the layout and render API over HTTP",
		Long: `Serve exposes the pipeline over HTTP:

  POST /v1/layouts          place a word list and return the layout
  POST /v1/render/{format}  place and render (png, poster, json, txt)
  GET  /healthz             liveness
  GET  /metrics             Prometheus metrics`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = c.Config.Server.Addr
			}
			ctx := cmd.Context()
			runner, err := c.newRunner(ctx, noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			srv := server.New(runner,
				server.WithLogger(loggerFromContext(ctx)),
				server.WithTemplate(c.Config.Template()),
				server.WithGatherer(c.metricsRegistry()),
			)
			printKeyValue("Listening", addr)
			return srv.ListenAndServe(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "bypass the cache")

	return cmd
}
