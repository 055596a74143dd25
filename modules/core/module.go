package core

import (
	"github.com/iota-uz/recruiting-crm/modules/core/infrastructure/persistence"
	"github.com/iota-uz/recruiting-crm/modules/core/seed"
	"github.com/iota-uz/recruiting-crm/modules/core/services"
	"github.com/iota-uz/recruiting-crm/pkg/application"
)

func NewModule() application.Module {
	return &Module{}
}

type Module struct {
}

func (m *Module) Register(app application.Application) error {
	app.RegisterServices(
		services.NewUserService(persistence.NewUserRepository(), app.UnitOfWork()),
		services.NewOrganizationService(persistence.NewOrganizationRepository(), app.UnitOfWork()),
	)
	app.Seeder().Register(seed.CreateDefaultOrganization)
	return nil
}

func (m *Module) Name() string {
	return "core"
}
