package deals

import (
	"github.com/iota-uz/recruiting-crm/modules/deals/infrastructure/persistence"
	"github.com/iota-uz/recruiting-crm/modules/deals/services"
	"github.com/iota-uz/recruiting-crm/pkg/application"
)

func NewModule() application.Module {
	return &Module{}
}

type Module struct {
}

func (m *Module) Register(app application.Application) error {
	jobRepo := persistence.NewJobRepository()
	app.RegisterServices(
		services.NewJobService(jobRepo, app.UnitOfWork()),
		services.NewDealSplitService(jobRepo, persistence.NewSplitRepository(), app.UnitOfWork(), app.Outbox()),
	)
	return nil
}

func (m *Module) Name() string {
	return "deals"
}
