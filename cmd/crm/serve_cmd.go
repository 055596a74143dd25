package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/iota-uz/recruiting-crm/pkg/logging"
	"github.com/iota-uz/recruiting-crm/pkg/metrics"
	"github.com/iota-uz/recruiting-crm/pkg/middleware"
	"github.com/iota-uz/recruiting-crm/pkg/server"
)

func newServeCmd() *cobra.Command {
	var migrate bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the ops HTTP server together with the outbox relay and cleaner",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return withRuntime(ctx, func(r *runtime) error {
				return runServe(ctx, r, migrate)
			})
		},
	}
	cmd.Flags().BoolVar(&migrate, "migrate", false, "Apply pending migrations before serving")
	return cmd
}

func runServe(ctx context.Context, r *runtime, migrate bool) error {
	conf := r.conf
	if conf.OpenTelemetry.Enabled {
		cleanup := logging.SetupTracing(ctx, conf.OpenTelemetry.ServiceName, conf.OpenTelemetry.TempoURL)
		defer cleanup()
		r.logger.Info("OpenTelemetry tracing enabled, exporting to Tempo at " + conf.OpenTelemetry.TempoURL)
	}

	if migrate {
		if err := r.app.Migrations().Run(ctx); err != nil {
			return withCode(exitDB, err)
		}
	}

	registerOpsMiddleware(r)
	r.app.RegisterControllers(metrics.NewHealthController(r.pool))
	if conf.Prometheus.Enabled {
		r.app.RegisterControllers(metrics.NewPrometheusController(conf.Prometheus.Path))
	}

	g, gctx := errgroup.WithContext(ctx)
	startOutboxBackground(gctx, g, conf, r.pool, r.logger, r.app.EventPublisher())

	srv := server.NewHTTPServer(r.app, r.logger)
	g.Go(func() error {
		r.logger.Infof("Listening on: %s", conf.SocketAddress)
		return srv.Start(gctx, conf.SocketAddress)
	})
	return ignoreCancel(g.Wait())
}

func registerOpsMiddleware(r *runtime) {
	conf := r.conf
	r.app.RegisterMiddleware(
		middleware.WithLogger(r.logger, conf),
		middleware.ProvidePool(r.pool),
		middleware.OpsGuard(conf, conf.Prometheus.Path),
	)
	if !conf.RateLimit.Enabled {
		return
	}
	store := middleware.NewMemoryStore()
	if conf.RateLimit.Storage == "redis" {
		redisStore, err := middleware.NewRedisStore(conf.RateLimit.RedisURL)
		if err != nil {
			r.logger.WithError(err).Warn("Failed to create Redis store for rate limiting, falling back to memory")
		} else {
			store = redisStore
		}
	}
	r.app.RegisterMiddleware(middleware.RateLimit(middleware.RateLimitConfig{
		RequestsPerPeriod: conf.RateLimit.GlobalRPS,
		Store:             store,
	}))
}

func ignoreCancel(err error) error {
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
