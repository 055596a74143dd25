package persistence

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/iota-uz/recruiting-crm/modules/deals/domain/aggregates/job"
	"github.com/iota-uz/recruiting-crm/modules/deals/domain/entities/split"
	"github.com/iota-uz/recruiting-crm/modules/deals/infrastructure/persistence/models"
	"github.com/iota-uz/recruiting-crm/pkg/composables"
	"github.com/iota-uz/recruiting-crm/pkg/repo"
)

const (
	splitColumns = `split_id, job_id, position, teammate_name, teammate_status, role, split_percent,
		total_deal, weighted_deal, created_at`

	splitListQuery   = `SELECT ` + splitColumns + ` FROM job_deal_splits WHERE job_id = $1 ORDER BY position`
	splitDeleteQuery = `DELETE FROM job_deal_splits WHERE job_id = $1`
	splitInsertQuery = `
		INSERT INTO job_deal_splits (split_id, job_id, position, teammate_name, teammate_status, role,
			split_percent, total_deal, weighted_deal)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
)

type SplitRepository struct{}

func NewSplitRepository() split.Repository {
	return &SplitRepository{}
}

func (r *SplitRepository) ListByJob(ctx context.Context, jobID uuid.UUID) ([]split.Split, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get transaction")
	}
	return querySplits(ctx, tx, splitListQuery, jobID)
}

func (r *SplitRepository) DeleteByJob(ctx context.Context, jobID uuid.UUID) (int64, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return 0, errors.Wrap(err, "failed to get transaction")
	}
	tag, err := tx.Exec(ctx, splitDeleteQuery, jobID)
	if err != nil {
		return 0, errors.Wrap(err, "failed to delete splits")
	}
	return tag.RowsAffected(), nil
}

// Insert queues every row in one batch and reads them back in position order.
func (r *SplitRepository) Insert(ctx context.Context, splits []split.Split) ([]split.Split, error) {
	if len(splits) == 0 {
		return []split.Split{}, nil
	}
	tx, err := composables.UseExplicitTx(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "insert splits")
	}

	batch := &pgx.Batch{}
	for _, s := range splits {
		m, err := toDBSplit(s)
		if err != nil {
			return nil, errors.Wrapf(err, "split %d", s.Position)
		}
		batch.Queue(splitInsertQuery,
			m.ID,
			m.JobID,
			m.Position,
			m.TeammateName,
			m.TeammateStatus,
			m.Role,
			m.SplitPercent,
			m.TotalDeal,
			m.WeightedDeal,
		)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		if repo.IsForeignKeyViolation(err) {
			return nil, job.ErrNotFound
		}
		return nil, errors.Wrap(err, "failed to insert splits")
	}
	return querySplits(ctx, tx, splitListQuery, splits[0].JobID)
}

func querySplits(ctx context.Context, tx repo.Tx, query string, args ...any) ([]split.Split, error) {
	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to execute query")
	}
	defer rows.Close()

	splits := make([]split.Split, 0)
	for rows.Next() {
		var m models.Split
		if err := rows.Scan(
			&m.ID,
			&m.JobID,
			&m.Position,
			&m.TeammateName,
			&m.TeammateStatus,
			&m.Role,
			&m.SplitPercent,
			&m.TotalDeal,
			&m.WeightedDeal,
			&m.CreatedAt,
		); err != nil {
			return nil, errors.Wrap(err, "failed to scan split row")
		}
		splits = append(splits, toDomainSplit(&m))
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return splits, nil
}
