package persistence

import (
	"github.com/iota-uz/recruiting-crm/modules/core/domain/aggregates/user"
	"github.com/iota-uz/recruiting-crm/modules/invites/domain/aggregates/invite"
	"github.com/iota-uz/recruiting-crm/modules/invites/infrastructure/persistence/models"
)

func toDomainInvite(m *models.Invite) invite.Invite {
	opts := []invite.Option{
		invite.WithID(m.ID),
		invite.WithUsedCount(m.UsedCount),
		invite.WithStatus(invite.Status(m.Status)),
		invite.WithCreatedBy(m.CreatedBy),
		invite.WithMetadata(m.Metadata),
		invite.WithCreatedAt(m.CreatedAt),
	}
	if m.RevokedAt.Valid {
		opts = append(opts, invite.WithRevoked(m.RevokedBy.String, m.RevokedAt.Time))
	}
	return invite.New(m.OrganizationID, m.Code, user.Role(m.Role), m.MaxUses, opts...)
}
