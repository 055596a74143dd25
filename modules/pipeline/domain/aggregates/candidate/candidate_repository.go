package candidate

import (
	"context"

	"github.com/google/uuid"

	"github.com/iota-uz/recruiting-crm/pkg/serrors"
)

var ErrNotFound = serrors.NewNotFound("CANDIDATE_NOT_FOUND", "candidate not found", "Errors.CandidateNotFound")

type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (Candidate, error)
	// LockByID reads the candidate with SELECT ... FOR UPDATE. It requires a
	// transaction in ctx and holds the row lock until that transaction ends.
	LockByID(ctx context.Context, id uuid.UUID) (Candidate, error)
	Create(ctx context.Context, c Candidate) (Candidate, error)
	// UpdateStatus fails with status.ErrNotFound when statusID does not exist.
	UpdateStatus(ctx context.Context, id, statusID uuid.UUID) error
}
