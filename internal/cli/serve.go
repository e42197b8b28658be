package cli

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/matzehuels/meru/internal/server"
	"github.com/matzehuels/meru/pkg/observability"
	"github.com/matzehuels/meru/pkg/observability/prom"
)

func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr      string
		noCache   bool
		noMetrics bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the scene API over HTTP",
		Long: `Serve rows, patterns, trees and rendered scenes over HTTP.

Routes:
  GET /v1/rows/{count}            triangle rows
  GET /v1/patterns/{length}       Pingala patterns
  GET /v1/tree?depth=4            binomial tree layout and labels
  GET /v1/scenes/{kind}.{format}  any scene as svg, dot, png, pdf, json or yaml
  GET /v1/store/scenes[/{id}]     saved scenes
  GET /healthz, /version, /metrics`,
		Example: `  meru serve --addr :9090
  curl localhost:9090/v1/scenes/tree.svg?depth=5`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := c.loadSettings()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("addr") {
				s.Server.Addr = addr
			}

			runner, err := c.newRunner(ctx, noCache, true)
			if err != nil {
				return err
			}
			defer runner.Close()

			opts := server.Options{
				ReadTimeout:  s.Server.ReadTimeout.Duration,
				WriteTimeout: s.Server.WriteTimeout.Duration,
			}
			if s.Server.Metrics && !noMetrics {
				reg := prometheus.NewRegistry()
				reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
				m := prom.New(reg)
				observability.SetPipelineHooks(m)
				observability.SetCacheHooks(m)
				observability.SetHTTPHooks(m)
				defer observability.Reset()
				opts.Gatherer = reg
			}

			srv := server.New(runner, runner.Store, c.Logger, opts)
			printInfo("Serving on %s", s.Server.Addr)
			printDetail("cache %s · store %s · metrics %v", s.Cache.Backend, s.Store.Backend, opts.Gatherer != nil)
			return srv.Run(ctx, s.Server.Addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from settings, :8080)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&noMetrics, "no-metrics", false, "disable the /metrics route")
	return cmd
}
