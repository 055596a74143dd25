package invites

import (
	corepersistence "github.com/iota-uz/recruiting-crm/modules/core/infrastructure/persistence"
	"github.com/iota-uz/recruiting-crm/modules/invites/infrastructure/persistence"
	"github.com/iota-uz/recruiting-crm/modules/invites/services"
	"github.com/iota-uz/recruiting-crm/pkg/application"
	"github.com/iota-uz/recruiting-crm/pkg/configuration"
)

func NewModule() application.Module {
	return &Module{}
}

type Module struct {
}

func (m *Module) Register(app application.Application) error {
	conf := configuration.Use()
	app.RegisterServices(
		services.NewInviteService(
			persistence.NewInviteRepository(),
			corepersistence.NewUserRepository(),
			app.UnitOfWork(),
			app.Outbox(),
			services.Limits{
				DefaultMaxUses: conf.Invites.DefaultMaxUses,
				MaxUsesLimit:   conf.Invites.MaxUsesLimit,
			},
		),
	)
	return nil
}

func (m *Module) Name() string {
	return "invites"
}
