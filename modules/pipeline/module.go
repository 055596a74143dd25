package pipeline

import (
	"github.com/iota-uz/recruiting-crm/modules/pipeline/handlers"
	"github.com/iota-uz/recruiting-crm/modules/pipeline/infrastructure/persistence"
	"github.com/iota-uz/recruiting-crm/modules/pipeline/seed"
	"github.com/iota-uz/recruiting-crm/modules/pipeline/services"
	"github.com/iota-uz/recruiting-crm/pkg/application"
)

func NewModule() application.Module {
	return &Module{}
}

type Module struct {
}

func (m *Module) Register(app application.Application) error {
	candidateRepo := persistence.NewCandidateRepository()
	statusRepo := persistence.NewStatusRepository()
	historyRepo := persistence.NewHistoryRepository()

	app.RegisterServices(
		services.NewStatusService(statusRepo, app.UnitOfWork()),
		services.NewCandidateService(candidateRepo, statusRepo, historyRepo, app.UnitOfWork()),
		services.NewHistoryService(historyRepo, candidateRepo),
		services.NewTransitionService(candidateRepo, statusRepo, historyRepo, app.UnitOfWork(), app.Outbox()),
	)
	handlers.RegisterOutboxEventHandlers(app)
	app.Seeder().Register(seed.CreateDefaultStatuses)
	return nil
}

func (m *Module) Name() string {
	return "pipeline"
}
