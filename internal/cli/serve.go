package cli

import (
	"github.com/spf13/cobra"

	"github.com/prepdeck/prepdeck/internal/server"
	"github.com/prepdeck/prepdeck/pkg/observability/metrics"
)

// serveCommand runs the HTTP API until interrupted.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API",
		Long: `Serve the HTTP API for roadmaps, explanations and interview questions.

Without an API key the server still lays out stored and posted courses;
generation endpoints answer 503.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := c.config()
			if err != nil {
				return err
			}
			if addr == "" {
				addr = cfg.Server.Addr
			}

			b, err := c.open(ctx, openOpts{})
			if err != nil {
				return err
			}
			defer b.Close()
			if b.service == nil {
				c.Logger.Warn("no API key configured; generation is disabled")
			}

			opts := []server.Option{
				server.WithLogger(c.Logger),
				server.WithPrefetch(cfg.Generator.Prefetch),
			}
			if b.service != nil {
				opts = append(opts, server.WithBank(c.newBank(b)))
			}
			if cfg.Server.Metrics {
				hooks := metrics.New()
				hooks.Register()
				opts = append(opts, server.WithMetrics(hooks.Handler()))
			}

			c.printInfo("Listening on %s", StyleHighlight.Render(addr))
			return server.New(b.runner, opts...).ListenAndServe(ctx, addr, cfg.Server.ShutdownTimeout)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	return cmd
}
