package persistence

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/google/uuid"

	"github.com/iota-uz/recruiting-crm/modules/core/domain/entities/organization"
	"github.com/iota-uz/recruiting-crm/modules/core/infrastructure/persistence/models"
	"github.com/iota-uz/recruiting-crm/pkg/composables"
	"github.com/iota-uz/recruiting-crm/pkg/repo"
	"github.com/iota-uz/recruiting-crm/pkg/serrors"
)

var ErrOrganizationSlugTaken = serrors.NewInvalidState("ORGANIZATION_SLUG_TAKEN", "organization slug already taken", "Errors.OrganizationSlugTaken")

const organizationFindQuery = `SELECT organization_id, name, slug, created_at FROM organizations`

type OrganizationRepository struct{}

func NewOrganizationRepository() organization.Repository {
	return &OrganizationRepository{}
}

func (r *OrganizationRepository) GetByID(ctx context.Context, id uuid.UUID) (*organization.Organization, error) {
	orgs, err := r.queryOrganizations(ctx, organizationFindQuery+` WHERE organization_id = $1`, id)
	if err != nil {
		return nil, err
	}
	if len(orgs) == 0 {
		return nil, organization.ErrNotFound
	}
	return orgs[0], nil
}

func (r *OrganizationRepository) GetBySlug(ctx context.Context, slug string) (*organization.Organization, error) {
	orgs, err := r.queryOrganizations(ctx, organizationFindQuery+` WHERE slug = $1`, slug)
	if err != nil {
		return nil, err
	}
	if len(orgs) == 0 {
		return nil, organization.ErrNotFound
	}
	return orgs[0], nil
}

func (r *OrganizationRepository) List(ctx context.Context) ([]*organization.Organization, error) {
	return r.queryOrganizations(ctx, organizationFindQuery+` ORDER BY created_at`)
}

func (r *OrganizationRepository) Create(ctx context.Context, o *organization.Organization) (*organization.Organization, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get transaction")
	}

	tag, err := tx.Exec(ctx,
		`INSERT INTO organizations (organization_id, name, slug, created_at) VALUES ($1, $2, $3, $4)
		 ON CONFLICT (organization_id) DO NOTHING`,
		o.ID(), o.Name(), o.Slug(), o.CreatedAt(),
	)
	if err != nil {
		if repo.IsUniqueViolation(err, "organizations_slug_key") {
			return nil, ErrOrganizationSlugTaken
		}
		return nil, errors.Wrap(err, "failed to insert organization")
	}
	if tag.RowsAffected() == 0 {
		// Same id already present: creation is idempotent for seeds.
		return r.GetByID(ctx, o.ID())
	}
	return o, nil
}

func (r *OrganizationRepository) queryOrganizations(ctx context.Context, query string, args ...any) ([]*organization.Organization, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get transaction")
	}

	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to execute query")
	}
	defer rows.Close()

	var orgs []*organization.Organization
	for rows.Next() {
		var m models.Organization
		if err := rows.Scan(&m.ID, &m.Name, &m.Slug, &m.CreatedAt); err != nil {
			return nil, errors.Wrap(err, "failed to scan organization row")
		}
		orgs = append(orgs, toDomainOrganization(&m))
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return orgs, nil
}
