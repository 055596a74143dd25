package modules

import (
	"github.com/iota-uz/recruiting-crm/modules/core"
	"github.com/iota-uz/recruiting-crm/modules/deals"
	dealevents "github.com/iota-uz/recruiting-crm/modules/deals/domain/events"
	"github.com/iota-uz/recruiting-crm/modules/invites"
	inviteevents "github.com/iota-uz/recruiting-crm/modules/invites/domain/events"
	"github.com/iota-uz/recruiting-crm/modules/pipeline"
	pipelineevents "github.com/iota-uz/recruiting-crm/modules/pipeline/domain/events"
	"github.com/iota-uz/recruiting-crm/pkg/application"
	dispatcher "github.com/iota-uz/recruiting-crm/pkg/outbox/dispatchers/eventbus"
)

var (
	BuiltInModules = []application.Module{
		core.NewModule(),
		pipeline.NewModule(),
		invites.NewModule(),
		deals.NewModule(),
	}
)

func Load(app application.Application, externalModules ...application.Module) error {
	for _, module := range externalModules {
		if err := module.Register(app); err != nil {
			return err
		}
	}
	return nil
}

// RegisterOutboxRoutes decodes every topic the built-in modules enqueue.
func RegisterOutboxRoutes(d *dispatcher.Dispatcher) {
	dispatcher.Register[pipelineevents.CandidateMovedV1](d, pipelineevents.TopicCandidateMovedV1)
	dispatcher.Register[inviteevents.InviteRedeemedV1](d, inviteevents.TopicInviteRedeemedV1)
	dispatcher.Register[dealevents.SplitsReplacedV1](d, dealevents.TopicSplitsReplacedV1)
}
