package persistence

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/iota-uz/recruiting-crm/modules/core/domain/entities/organization"
	"github.com/iota-uz/recruiting-crm/modules/invites/domain/aggregates/invite"
	"github.com/iota-uz/recruiting-crm/modules/invites/infrastructure/persistence/models"
	"github.com/iota-uz/recruiting-crm/pkg/composables"
	"github.com/iota-uz/recruiting-crm/pkg/repo"
)

const (
	inviteColumns = `invite_id, organization_id, code, role, max_uses, used_count, status, created_by,
		revoked_at, revoked_by, metadata, created_at`

	inviteFindQuery = `SELECT ` + inviteColumns + ` FROM org_invite_codes`

	inviteInsertQuery = `
		INSERT INTO org_invite_codes (` + inviteColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING ` + inviteColumns

	inviteSaveUsageQuery = `
		UPDATE org_invite_codes
		SET used_count = $2, status = $3, metadata = $4
		WHERE invite_id = $1`

	inviteSaveRevocationQuery = `
		UPDATE org_invite_codes
		SET status = $2, revoked_at = $3, revoked_by = $4
		WHERE invite_id = $1`
)

type InviteRepository struct{}

func NewInviteRepository() invite.Repository {
	return &InviteRepository{}
}

func (r *InviteRepository) GetByCode(ctx context.Context, code string) (invite.Invite, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get transaction")
	}
	return firstInvite(queryInvites(ctx, tx, inviteFindQuery+` WHERE code = $1`, code))
}

func (r *InviteRepository) LockByCode(ctx context.Context, code string) (invite.Invite, error) {
	tx, err := composables.UseExplicitTx(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "lock invite")
	}
	return firstInvite(queryInvites(ctx, tx, inviteFindQuery+` WHERE code = $1 FOR UPDATE`, code))
}

func (r *InviteRepository) ListByOrganization(ctx context.Context, organizationID uuid.UUID) ([]invite.Invite, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get transaction")
	}
	return queryInvites(ctx, tx, inviteFindQuery+` WHERE organization_id = $1 ORDER BY created_at DESC`, organizationID)
}

func (r *InviteRepository) Create(ctx context.Context, i invite.Invite) (invite.Invite, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get transaction")
	}
	created, err := firstInvite(queryInvites(ctx, tx, inviteInsertQuery,
		i.ID(),
		i.OrganizationID(),
		i.Code(),
		i.Role().String(),
		i.MaxUses(),
		i.UsedCount(),
		string(i.Status()),
		i.CreatedBy(),
		revokedAt(i),
		pgtype.Text{String: i.RevokedBy(), Valid: i.RevokedBy() != ""},
		i.Metadata(),
		i.CreatedAt(),
	))
	switch {
	case err == nil:
		return created, nil
	case repo.IsUniqueViolation(err, "org_invite_codes_code_key"):
		return nil, invite.ErrCodeTaken
	case repo.IsForeignKeyViolation(err):
		return nil, organization.ErrNotFound
	default:
		return nil, err
	}
}

func (r *InviteRepository) SaveUsage(ctx context.Context, i invite.Invite) error {
	return r.exec(ctx, inviteSaveUsageQuery, i.ID(), i.UsedCount(), string(i.Status()), i.Metadata())
}

func (r *InviteRepository) SaveRevocation(ctx context.Context, i invite.Invite) error {
	return r.exec(ctx, inviteSaveRevocationQuery,
		i.ID(),
		string(i.Status()),
		revokedAt(i),
		pgtype.Text{String: i.RevokedBy(), Valid: i.RevokedBy() != ""},
	)
}

func (r *InviteRepository) exec(ctx context.Context, query string, args ...any) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to get transaction")
	}
	tag, err := tx.Exec(ctx, query, args...)
	if err != nil {
		return errors.Wrap(err, "failed to update invite")
	}
	if tag.RowsAffected() == 0 {
		return invite.ErrInvalidCode
	}
	return nil
}

func revokedAt(i invite.Invite) pgtype.Timestamptz {
	return pgtype.Timestamptz{Time: i.RevokedAt(), Valid: !i.RevokedAt().IsZero()}
}

func firstInvite(invites []invite.Invite, err error) (invite.Invite, error) {
	if err != nil {
		return nil, err
	}
	if len(invites) == 0 {
		return nil, invite.ErrInvalidCode
	}
	return invites[0], nil
}

func queryInvites(ctx context.Context, tx repo.Tx, query string, args ...any) ([]invite.Invite, error) {
	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to execute query")
	}
	defer rows.Close()

	invites := make([]invite.Invite, 0)
	for rows.Next() {
		var m models.Invite
		if err := rows.Scan(
			&m.ID,
			&m.OrganizationID,
			&m.Code,
			&m.Role,
			&m.MaxUses,
			&m.UsedCount,
			&m.Status,
			&m.CreatedBy,
			&m.RevokedAt,
			&m.RevokedBy,
			&m.Metadata,
			&m.CreatedAt,
		); err != nil {
			return nil, errors.Wrap(err, "failed to scan invite row")
		}
		invites = append(invites, toDomainInvite(&m))
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return invites, nil
}
