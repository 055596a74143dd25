package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/iota-uz/recruiting-crm/modules/pipeline/domain/aggregates/candidate"
	"github.com/iota-uz/recruiting-crm/modules/pipeline/domain/entities/history"
	"github.com/iota-uz/recruiting-crm/modules/pipeline/domain/entities/status"
	"github.com/iota-uz/recruiting-crm/pkg/composables"
	"github.com/iota-uz/recruiting-crm/pkg/uow"
)

type CandidateService struct {
	repo     candidate.Repository
	statuses status.Repository
	history  history.Repository
	uow      uow.UnitOfWork
}

func NewCandidateService(
	repo candidate.Repository,
	statuses status.Repository,
	historyRepo history.Repository,
	unitOfWork uow.UnitOfWork,
) *CandidateService {
	return &CandidateService{
		repo:     repo,
		statuses: statuses,
		history:  historyRepo,
		uow:      unitOfWork,
	}
}

func (s *CandidateService) GetByID(ctx context.Context, id uuid.UUID) (candidate.Candidate, error) {
	return s.repo.GetByID(ctx, id)
}

// Create stores the candidate together with an opening history entry, so the
// newest entry of every trail names the candidate's current status.
func (s *CandidateService) Create(ctx context.Context, dto *candidate.CreateDTO) (candidate.Candidate, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}
	return uow.Result(ctx, s.uow, "pipeline.create_candidate", func(txCtx context.Context) (candidate.Candidate, error) {
		statusID := dto.StatusID
		if statusID == uuid.Nil {
			st, err := s.statuses.GetByName(txCtx, dto.StatusName)
			if err != nil {
				return nil, err
			}
			statusID = st.ID()
		}
		created, err := s.repo.Create(txCtx, dto.ToEntity(statusID))
		if err != nil {
			return nil, err
		}
		if _, err := s.history.Append(txCtx, history.Entry{
			CandidateID: created.ID(),
			ToStatusID:  statusID,
			ChangedBy:   composables.UseActor(txCtx),
		}); err != nil {
			return nil, err
		}
		return created, nil
	})
}
