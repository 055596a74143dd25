package itf

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iota-uz/recruiting-crm/pkg/application"
	"github.com/iota-uz/recruiting-crm/pkg/composables"
	"github.com/iota-uz/recruiting-crm/pkg/configuration"
	"github.com/iota-uz/recruiting-crm/pkg/eventbus"
)

// TestContext provides a fluent API for building integration test environments.
// Every environment gets its own freshly migrated database; nothing runs inside
// a wrapping transaction, so services commit for real and row locks contend.
type TestContext struct {
	ctx     context.Context
	modules []application.Module
	actor   string
	dbName  string
}

func NewTestContext() *TestContext {
	return &TestContext{ctx: context.Background()}
}

func (tc *TestContext) WithModules(modules ...application.Module) *TestContext {
	tc.modules = append(tc.modules, modules...)
	return tc
}

// WithActor sets the identity recorded as changed_by/created_by.
func (tc *TestContext) WithActor(actor string) *TestContext {
	tc.actor = actor
	return tc
}

func (tc *TestContext) WithDBName(name string) *TestContext {
	tc.dbName = name
	return tc
}

// Build skips the test when Postgres is unreachable outside CI.
func (tc *TestContext) Build(tb testing.TB) *TestEnvironment {
	tb.Helper()

	RequirePostgres(tb)
	if tc.dbName == "" {
		tc.dbName = tb.Name()
	}
	CreateDB(tc.dbName)
	pool := NewPool(DbOpts(tc.dbName))
	tb.Cleanup(pool.Close)

	conf := configuration.Use()
	app := application.New(&application.ApplicationOptions{
		Pool:     pool,
		EventBus: eventbus.NewEventPublisher(conf.Logger()),
		Logger:   conf.Logger(),
	})
	for _, m := range tc.modules {
		if err := m.Register(app); err != nil {
			tb.Fatalf("register module %s: %v", m.Name(), err)
		}
	}
	if err := app.Migrations().Run(tc.ctx); err != nil {
		tb.Fatalf("migrations: %v", err)
	}

	ctx := composables.WithPool(tc.ctx, pool)
	ctx = composables.WithLogger(ctx, conf.Logger().WithField("test", tb.Name()))
	if tc.actor != "" {
		ctx = composables.WithActor(ctx, tc.actor)
	}

	return &TestEnvironment{
		Ctx:  ctx,
		Pool: pool,
		App:  app,
	}
}

// TestEnvironment contains all test dependencies
type TestEnvironment struct {
	Ctx  context.Context
	Pool *pgxpool.Pool
	App  application.Application
}

// Service retrieves a service from the application
func (te *TestEnvironment) Service(service any) any {
	return te.App.Service(service)
}

// GetService is a generic helper that retrieves and casts a service
func GetService[T any](te *TestEnvironment) *T {
	var zero T
	service := te.App.Service(zero)
	if service == nil {
		return nil
	}
	return service.(*T)
}

// Seed runs the seed functions registered by the loaded modules.
func (te *TestEnvironment) Seed(tb testing.TB) {
	tb.Helper()
	if err := te.App.Seeder().Seed(te.Ctx, te.App); err != nil {
		tb.Fatalf("seed: %v", err)
	}
}
