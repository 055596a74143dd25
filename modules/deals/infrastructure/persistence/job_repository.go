package persistence

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/google/uuid"

	"github.com/iota-uz/recruiting-crm/modules/deals/domain/aggregates/job"
	"github.com/iota-uz/recruiting-crm/modules/deals/infrastructure/persistence/models"
	"github.com/iota-uz/recruiting-crm/pkg/composables"
	"github.com/iota-uz/recruiting-crm/pkg/repo"
)

const (
	jobColumns   = `job_id, title, department, location, status, deal_amount, weighted_deal_amount, created_at`
	jobFindQuery = `SELECT ` + jobColumns + ` FROM job_requisitions`

	jobInsertQuery = `
		INSERT INTO job_requisitions (` + jobColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + jobColumns
)

type JobRepository struct{}

func NewJobRepository() job.Repository {
	return &JobRepository{}
}

func (r *JobRepository) GetByID(ctx context.Context, id uuid.UUID) (*job.Job, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get transaction")
	}
	return firstJob(queryJobs(ctx, tx, jobFindQuery+` WHERE job_id = $1`, id))
}

func (r *JobRepository) LockByID(ctx context.Context, id uuid.UUID) (*job.Job, error) {
	tx, err := composables.UseExplicitTx(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "lock job")
	}
	return firstJob(queryJobs(ctx, tx, jobFindQuery+` WHERE job_id = $1 FOR UPDATE`, id))
}

func (r *JobRepository) List(ctx context.Context) ([]*job.Job, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get transaction")
	}
	return queryJobs(ctx, tx, jobFindQuery+` ORDER BY created_at DESC`)
}

func (r *JobRepository) Create(ctx context.Context, j *job.Job) (*job.Job, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get transaction")
	}
	deal, err := numericFromNullDecimal(j.DealAmount())
	if err != nil {
		return nil, errors.Wrap(err, "deal amount")
	}
	weighted, err := numericFromNullDecimal(j.WeightedDealAmount())
	if err != nil {
		return nil, errors.Wrap(err, "weighted deal amount")
	}
	return firstJob(queryJobs(ctx, tx, jobInsertQuery,
		j.ID(),
		j.Title(),
		textFromString(j.Department()),
		textFromString(j.Location()),
		string(j.Status()),
		deal,
		weighted,
		j.CreatedAt(),
	))
}

func firstJob(jobs []*job.Job, err error) (*job.Job, error) {
	if err != nil {
		return nil, err
	}
	if len(jobs) == 0 {
		return nil, job.ErrNotFound
	}
	return jobs[0], nil
}

func queryJobs(ctx context.Context, tx repo.Tx, query string, args ...any) ([]*job.Job, error) {
	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to execute query")
	}
	defer rows.Close()

	jobs := make([]*job.Job, 0)
	for rows.Next() {
		var m models.Job
		if err := rows.Scan(
			&m.ID,
			&m.Title,
			&m.Department,
			&m.Location,
			&m.Status,
			&m.DealAmount,
			&m.WeightedDealAmount,
			&m.CreatedAt,
		); err != nil {
			return nil, errors.Wrap(err, "failed to scan job row")
		}
		jobs = append(jobs, toDomainJob(&m))
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return jobs, nil
}
