package cli

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/matzehuels/bpmnlayout/internal/server"
	"github.com/matzehuels/bpmnlayout/pkg/cache"
	"github.com/matzehuels/bpmnlayout/pkg/observability"
	"github.com/matzehuels/bpmnlayout/pkg/pipeline"
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		metrics bool
		tracing bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP layout service",
		Long: `Run the HTTP layout service.

Endpoints: POST /v1/compute, /v1/layout, /v1/bpmn/layout and /v1/render,
plus /healthz, /version and, with --metrics, /metrics.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := c.Config.Server
			if cmd.Flags().Changed("addr") {
				cfg.Addr = addr
			}
			if cmd.Flags().Changed("metrics") {
				cfg.Metrics = metrics
			}
			if cmd.Flags().Changed("tracing") {
				cfg.Tracing = tracing
			}

			ctx := cmd.Context()
			store, err := cache.Open(ctx, c.Config.Cache)
			if err != nil {
				return err
			}
			var keyer cache.Keyer
			if cfg.KeyPrefix != "" {
				keyer = cache.NewScopedKeyer(nil, cfg.KeyPrefix)
			}
			runner := pipeline.NewRunner(store, keyer, c.Logger)
			defer runner.Close()

			var opts []server.Option
			opts = append(opts, server.WithDefaults(c.Config.PipelineOptions()))

			var layoutHooks []observability.LayoutHooks
			if cfg.Metrics {
				reg := prometheus.NewRegistry()
				reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
				hooks := observability.NewPrometheusHooks(reg)
				layoutHooks = append(layoutHooks, hooks)
				observability.SetCacheHooks(hooks)
				observability.SetHTTPHooks(hooks)
				opts = append(opts, server.WithMetrics(reg))
			}
			if cfg.Tracing {
				layoutHooks = append(layoutHooks, observability.TracingHooks{})
			}
			if len(layoutHooks) > 0 {
				observability.SetLayoutHooks(observability.MultiLayoutHooks(layoutHooks...))
			}
			defer observability.Reset()

			c.Logger.Info("starting server", "addr", cfg.Addr, "cache", c.Config.Cache.Backend,
				"metrics", cfg.Metrics, "tracing", cfg.Tracing)
			return server.New(runner, cfg, c.Logger, opts...).ListenAndServe(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default :8080)")
	cmd.Flags().BoolVar(&metrics, "metrics", false, "serve Prometheus metrics on /metrics")
	cmd.Flags().BoolVar(&tracing, "tracing", false, "emit OpenTelemetry span events")

	return cmd
}
