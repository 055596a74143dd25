package persistence

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/google/uuid"

	"github.com/iota-uz/recruiting-crm/modules/pipeline/domain/aggregates/candidate"
	"github.com/iota-uz/recruiting-crm/modules/pipeline/domain/entities/status"
	"github.com/iota-uz/recruiting-crm/modules/pipeline/infrastructure/persistence/models"
	"github.com/iota-uz/recruiting-crm/pkg/composables"
	"github.com/iota-uz/recruiting-crm/pkg/repo"
)

const (
	candidateColumns = `candidate_id, name, email, phone, current_status_id, job_requisition_id, flags, skills, notes, created_at`

	candidateFindQuery = `SELECT ` + candidateColumns + ` FROM candidates WHERE candidate_id = $1`
	candidateLockQuery = candidateFindQuery + ` FOR UPDATE`

	candidateInsertQuery = `
		INSERT INTO candidates (` + candidateColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING ` + candidateColumns

	candidateUpdateStatusQuery = `UPDATE candidates SET current_status_id = $2 WHERE candidate_id = $1`

	candidateStatusFK = "candidates_current_status_id_fkey"
)

type CandidateRepository struct{}

func NewCandidateRepository() candidate.Repository {
	return &CandidateRepository{}
}

func (r *CandidateRepository) GetByID(ctx context.Context, id uuid.UUID) (candidate.Candidate, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get transaction")
	}
	return scanCandidate(ctx, tx, candidateFindQuery, id)
}

func (r *CandidateRepository) LockByID(ctx context.Context, id uuid.UUID) (candidate.Candidate, error) {
	tx, err := composables.UseExplicitTx(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "lock candidate")
	}
	return scanCandidate(ctx, tx, candidateLockQuery, id)
}

func (r *CandidateRepository) Create(ctx context.Context, c candidate.Candidate) (candidate.Candidate, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get transaction")
	}
	created, err := scanCandidate(ctx, tx, candidateInsertQuery,
		c.ID(),
		c.Name(),
		c.Email(),
		toDBText(c.Phone()),
		c.CurrentStatusID(),
		toDBUUID(c.JobRequisitionID()),
		c.Flags(),
		c.Skills(),
		toDBText(c.Notes()),
		c.CreatedAt(),
	)
	if err != nil {
		if repo.IsForeignKeyViolation(err, candidateStatusFK) {
			return nil, status.ErrNotFound
		}
		return nil, err
	}
	return created, nil
}

func (r *CandidateRepository) UpdateStatus(ctx context.Context, id, statusID uuid.UUID) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to get transaction")
	}
	tag, err := tx.Exec(ctx, candidateUpdateStatusQuery, id, statusID)
	if err != nil {
		if repo.IsForeignKeyViolation(err, candidateStatusFK) {
			return status.ErrNotFound
		}
		return errors.Wrap(err, "failed to update candidate status")
	}
	if tag.RowsAffected() == 0 {
		return candidate.ErrNotFound
	}
	return nil
}

func scanCandidate(ctx context.Context, tx repo.Tx, query string, args ...any) (candidate.Candidate, error) {
	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to execute query")
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, errors.Wrap(err, "failed to read candidate")
		}
		return nil, candidate.ErrNotFound
	}
	var m models.Candidate
	if err := rows.Scan(
		&m.ID,
		&m.Name,
		&m.Email,
		&m.Phone,
		&m.CurrentStatusID,
		&m.JobRequisitionID,
		&m.Flags,
		&m.Skills,
		&m.Notes,
		&m.CreatedAt,
	); err != nil {
		return nil, errors.Wrap(err, "failed to scan candidate row")
	}
	return toDomainCandidate(&m), nil
}
