package persistence

import (
	"github.com/iota-uz/recruiting-crm/modules/core/domain/aggregates/user"
	"github.com/iota-uz/recruiting-crm/modules/core/domain/entities/organization"
	"github.com/iota-uz/recruiting-crm/modules/core/infrastructure/persistence/models"
)

func toDomainOrganization(m *models.Organization) *organization.Organization {
	return organization.New(
		m.Name,
		organization.WithID(m.ID),
		organization.WithSlug(m.Slug),
		organization.WithCreatedAt(m.CreatedAt),
	)
}

// toDomainUser keeps unknown roles as-is; the table constraint guards writes.
func toDomainUser(m *models.User) user.User {
	return user.New(
		m.ExternalID,
		m.Email,
		m.Name,
		user.Role(m.Role),
		m.OrganizationID,
		user.WithID(m.ID),
		user.WithIsActive(m.IsActive),
		user.WithCreatedAt(m.CreatedAt),
		user.WithUpdatedAt(m.UpdatedAt),
	)
}
