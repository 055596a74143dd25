package application

import (
	"context"
	"reflect"

	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"

	"github.com/iota-uz/recruiting-crm/pkg/eventbus"
	"github.com/iota-uz/recruiting-crm/pkg/outbox"
	"github.com/iota-uz/recruiting-crm/pkg/uow"
)

// Application is the shared wiring every module registers into.
type Application interface {
	DB() *pgxpool.Pool
	Logger() *logrus.Logger
	EventPublisher() eventbus.EventBusWithError
	UnitOfWork() uow.UnitOfWork
	Outbox() outbox.Publisher
	Migrations() MigrationManager
	Seeder() Seeder

	Controllers() []Controller
	RegisterControllers(controllers ...Controller)
	Middleware() []mux.MiddlewareFunc
	RegisterMiddleware(middleware ...mux.MiddlewareFunc)

	RegisterServices(services ...any)
	Service(service any) any
	Services() map[reflect.Type]any
}

type Module interface {
	Name() string
	Register(app Application) error
}

type Controller interface {
	Key() string
	Register(r *mux.Router)
}

type SeedFunc func(ctx context.Context, app Application) error

type Seeder interface {
	Seed(ctx context.Context, app Application) error
	Register(seedFuncs ...SeedFunc)
}

type MigrationManager interface {
	Run(ctx context.Context) error
	Rollback(ctx context.Context) error
	Status(ctx context.Context) error
}
