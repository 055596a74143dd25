package main

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"

	"github.com/iota-uz/recruiting-crm/modules"
	"github.com/iota-uz/recruiting-crm/pkg/application"
	"github.com/iota-uz/recruiting-crm/pkg/composables"
	"github.com/iota-uz/recruiting-crm/pkg/configuration"
	"github.com/iota-uz/recruiting-crm/pkg/eventbus"
)

// runtime bundles what every database-backed command needs.
type runtime struct {
	conf   *configuration.Configuration
	logger *logrus.Logger
	pool   *pgxpool.Pool
	app    application.Application
}

func openRuntime(ctx context.Context) (*runtime, error) {
	conf := configuration.Use()
	logger := conf.Logger()

	poolConf, err := pgxpool.ParseConfig(conf.Database.Opts)
	if err != nil {
		return nil, withCode(exitUsage, fmt.Errorf("parse database config: %w", err))
	}
	poolConf.MaxConns = conf.Database.PoolMaxConns

	connectCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	pool, err := pgxpool.NewWithConfig(connectCtx, poolConf)
	if err != nil {
		return nil, withCode(exitDB, fmt.Errorf("connect database: %w", err))
	}

	app := application.New(&application.ApplicationOptions{
		Pool:     pool,
		EventBus: eventbus.NewEventPublisher(logger),
		Logger:   logger,
	})
	if err := modules.Load(app, modules.BuiltInModules...); err != nil {
		pool.Close()
		return nil, fmt.Errorf("load modules: %w", err)
	}
	return &runtime{conf: conf, logger: logger, pool: pool, app: app}, nil
}

// context binds the pool, a component logger and the acting identity to ctx.
func (r *runtime) context(ctx context.Context, component, actor string) context.Context {
	ctx = composables.WithPool(ctx, r.pool)
	ctx = composables.WithLogger(ctx, r.logger.WithField("component", component))
	if actor != "" {
		ctx = composables.WithActor(ctx, actor)
	}
	return ctx
}

func (r *runtime) Close() {
	r.pool.Close()
	r.conf.Unload()
}

// withRuntime opens a runtime for the duration of fn.
func withRuntime(ctx context.Context, fn func(r *runtime) error) error {
	r, err := openRuntime(ctx)
	if err != nil {
		return err
	}
	defer r.Close()
	return fn(r)
}
