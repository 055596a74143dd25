package persistence

import (
	"context"
	"strings"

	"github.com/go-faster/errors"
	"github.com/google/uuid"

	"github.com/iota-uz/recruiting-crm/modules/core/domain/aggregates/user"
	"github.com/iota-uz/recruiting-crm/modules/core/domain/entities/organization"
	"github.com/iota-uz/recruiting-crm/modules/core/infrastructure/persistence/models"
	"github.com/iota-uz/recruiting-crm/pkg/composables"
	"github.com/iota-uz/recruiting-crm/pkg/repo"
)

const (
	userColumns   = `user_id, external_id, email, name, role, organization_id, is_active, created_at, updated_at`
	userFindQuery = `SELECT ` + userColumns + ` FROM users`

	userUpsertQuery = `
		INSERT INTO users (user_id, external_id, email, name, role, organization_id, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (external_id) DO UPDATE
		SET email = EXCLUDED.email,
		    name = EXCLUDED.name,
		    role = EXCLUDED.role,
		    organization_id = EXCLUDED.organization_id,
		    updated_at = now()
		RETURNING ` + userColumns
)

type UserRepository struct{}

func NewUserRepository() user.Repository {
	return &UserRepository{}
}

func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (user.User, error) {
	users, err := r.queryUsers(ctx, userFindQuery+` WHERE user_id = $1`, id)
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, user.ErrNotFound
	}
	return users[0], nil
}

func (r *UserRepository) GetByExternalID(ctx context.Context, externalID string) (user.User, error) {
	users, err := r.queryUsers(ctx, userFindQuery+` WHERE external_id = $1`, strings.TrimSpace(externalID))
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, user.ErrNotFound
	}
	return users[0], nil
}

func (r *UserRepository) ListByOrganization(ctx context.Context, organizationID uuid.UUID) ([]user.User, error) {
	return r.queryUsers(ctx, userFindQuery+` WHERE organization_id = $1 ORDER BY created_at DESC`, organizationID)
}

func (r *UserRepository) UpsertByExternalID(ctx context.Context, u user.User) (user.User, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get transaction")
	}

	users, err := scanUsers(ctx, tx, userUpsertQuery,
		u.ID(),
		u.ExternalID(),
		u.Email(),
		u.Name(),
		u.Role().String(),
		u.OrganizationID(),
		u.IsActive(),
		u.CreatedAt(),
		u.UpdatedAt(),
	)
	if err != nil {
		if repo.IsForeignKeyViolation(err) {
			return nil, organization.ErrNotFound
		}
		return nil, errors.Wrap(err, "failed to upsert user")
	}
	return users[0], nil
}

func (r *UserRepository) queryUsers(ctx context.Context, query string, args ...any) ([]user.User, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get transaction")
	}
	return scanUsers(ctx, tx, query, args...)
}

func scanUsers(ctx context.Context, tx repo.Tx, query string, args ...any) ([]user.User, error) {
	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to execute query")
	}
	defer rows.Close()

	var users []user.User
	for rows.Next() {
		var m models.User
		if err := rows.Scan(
			&m.ID,
			&m.ExternalID,
			&m.Email,
			&m.Name,
			&m.Role,
			&m.OrganizationID,
			&m.IsActive,
			&m.CreatedAt,
			&m.UpdatedAt,
		); err != nil {
			return nil, errors.Wrap(err, "failed to scan user row")
		}
		users = append(users, toDomainUser(&m))
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return users, nil
}
