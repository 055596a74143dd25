package persistence

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/google/uuid"

	"github.com/iota-uz/recruiting-crm/modules/pipeline/domain/entities/status"
	"github.com/iota-uz/recruiting-crm/modules/pipeline/infrastructure/persistence/models"
	"github.com/iota-uz/recruiting-crm/pkg/composables"
)

const (
	statusFindQuery = `SELECT status_id, name, order_index, is_terminal, created_at FROM status_configs`

	statusUpsertQuery = `
		INSERT INTO status_configs (status_id, name, order_index, is_terminal, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (name) DO UPDATE
		SET order_index = EXCLUDED.order_index,
		    is_terminal = EXCLUDED.is_terminal
		RETURNING status_id, name, order_index, is_terminal, created_at`
)

type StatusRepository struct{}

func NewStatusRepository() status.Repository {
	return &StatusRepository{}
}

func (r *StatusRepository) List(ctx context.Context) ([]*status.Status, error) {
	return r.queryStatuses(ctx, statusFindQuery+` ORDER BY order_index, name`)
}

func (r *StatusRepository) GetByID(ctx context.Context, id uuid.UUID) (*status.Status, error) {
	statuses, err := r.queryStatuses(ctx, statusFindQuery+` WHERE status_id = $1`, id)
	if err != nil {
		return nil, err
	}
	if len(statuses) == 0 {
		return nil, status.ErrNotFound
	}
	return statuses[0], nil
}

func (r *StatusRepository) GetByName(ctx context.Context, name string) (*status.Status, error) {
	statuses, err := r.queryStatuses(ctx, statusFindQuery+` WHERE lower(name) = lower($1)`, name)
	if err != nil {
		return nil, err
	}
	if len(statuses) == 0 {
		return nil, status.ErrNotFound
	}
	return statuses[0], nil
}

func (r *StatusRepository) Upsert(ctx context.Context, s *status.Status) (*status.Status, error) {
	statuses, err := r.queryStatuses(ctx, statusUpsertQuery,
		s.ID(), s.Name(), s.OrderIndex(), s.IsTerminal(), s.CreatedAt(),
	)
	if err != nil {
		return nil, errors.Wrap(err, "failed to upsert status")
	}
	return statuses[0], nil
}

func (r *StatusRepository) queryStatuses(ctx context.Context, query string, args ...any) ([]*status.Status, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get transaction")
	}

	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to execute query")
	}
	defer rows.Close()

	var statuses []*status.Status
	for rows.Next() {
		var m models.Status
		if err := rows.Scan(&m.ID, &m.Name, &m.OrderIndex, &m.IsTerminal, &m.CreatedAt); err != nil {
			return nil, errors.Wrap(err, "failed to scan status row")
		}
		statuses = append(statuses, toDomainStatus(&m))
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return statuses, nil
}
