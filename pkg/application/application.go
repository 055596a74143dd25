package application

import (
	"context"
	"fmt"
	"reflect"
	"runtime"

	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"

	"github.com/iota-uz/recruiting-crm/migrations"
	"github.com/iota-uz/recruiting-crm/pkg/eventbus"
	"github.com/iota-uz/recruiting-crm/pkg/outbox"
	"github.com/iota-uz/recruiting-crm/pkg/uow"
)

// ---- Seeder implementation ----

func NewSeeder(logger *logrus.Logger) Seeder {
	return &seeder{logger: logger}
}

type seeder struct {
	logger    *logrus.Logger
	seedFuncs []SeedFunc
}

func (s *seeder) Seed(ctx context.Context, app Application) error {
	for _, seedFunc := range s.seedFuncs {
		name := runtime.FuncForPC(reflect.ValueOf(seedFunc).Pointer()).Name()
		if s.logger != nil {
			s.logger.Infof("Seeding %s", name)
		}
		if err := seedFunc(ctx, app); err != nil {
			return fmt.Errorf("seed %s: %w", name, err)
		}
	}
	return nil
}

func (s *seeder) Register(seedFuncs ...SeedFunc) {
	s.seedFuncs = append(s.seedFuncs, seedFuncs...)
}

// ---- Application implementation ----

type ApplicationOptions struct {
	Pool     *pgxpool.Pool
	EventBus eventbus.EventBusWithError
	Logger   *logrus.Logger
	// UnitOfWork defaults to a pgx unit of work over Pool.
	UnitOfWork uow.UnitOfWork
	// Outbox defaults to a publisher writing to outbox.DefaultTable.
	Outbox outbox.Publisher
}

func New(opts *ApplicationOptions) Application {
	logger := opts.Logger
	if logger == nil {
		logger = logrus.New()
		logger.SetLevel(logrus.PanicLevel)
	}
	bus := opts.EventBus
	if bus == nil {
		bus = eventbus.NewEventPublisher(logger)
	}
	unit := opts.UnitOfWork
	if unit == nil {
		unit = uow.New(opts.Pool, uow.Options{Logger: logger.WithField("component", "uow")})
	}
	publisher := opts.Outbox
	if publisher == nil {
		publisher = outbox.NewPublisher(outbox.DefaultTable)
	}

	return &application{
		pool:           opts.Pool,
		logger:         logger,
		eventPublisher: bus,
		unitOfWork:     unit,
		outbox:         publisher,
		controllers:    make(map[string]Controller),
		services:       make(map[reflect.Type]any),
		migrations:     NewMigrationManager(opts.Pool, migrations.FS, logger),
		seeder:         NewSeeder(logger),
	}
}

// application with a dynamically extendable service registry
type application struct {
	pool           *pgxpool.Pool
	logger         *logrus.Logger
	eventPublisher eventbus.EventBusWithError
	unitOfWork     uow.UnitOfWork
	outbox         outbox.Publisher
	controllers    map[string]Controller
	middleware     []mux.MiddlewareFunc
	services       map[reflect.Type]any
	migrations     MigrationManager
	seeder         Seeder
}

func (app *application) DB() *pgxpool.Pool {
	return app.pool
}

func (app *application) Logger() *logrus.Logger {
	return app.logger
}

func (app *application) EventPublisher() eventbus.EventBusWithError {
	return app.eventPublisher
}

func (app *application) UnitOfWork() uow.UnitOfWork {
	return app.unitOfWork
}

func (app *application) Outbox() outbox.Publisher {
	return app.outbox
}

func (app *application) Migrations() MigrationManager {
	return app.migrations
}

func (app *application) Seeder() Seeder {
	return app.seeder
}

func (app *application) Middleware() []mux.MiddlewareFunc {
	return app.middleware
}

func (app *application) RegisterMiddleware(middleware ...mux.MiddlewareFunc) {
	app.middleware = append(app.middleware, middleware...)
}

func (app *application) Controllers() []Controller {
	controllers := make([]Controller, 0, len(app.controllers))
	for _, c := range app.controllers {
		controllers = append(controllers, c)
	}
	return controllers
}

// RegisterControllers replaces any controller already registered under the same key.
func (app *application) RegisterControllers(controllers ...Controller) {
	for _, c := range controllers {
		app.controllers[c.Key()] = c
	}
}

// RegisterServices registers a new service in the application by its type
func (app *application) RegisterServices(services ...any) {
	for _, service := range services {
		serviceType := reflect.TypeOf(service).Elem()
		app.services[serviceType] = service
	}
}

// Service retrieves a service by its type
func (app *application) Service(service any) any {
	serviceType := reflect.TypeOf(service)
	svc, exists := app.services[serviceType]
	if !exists {
		panic(fmt.Sprintf("service %s not found", serviceType.Name()))
	}
	return svc
}

func (app *application) Services() map[reflect.Type]any {
	return app.services
}
