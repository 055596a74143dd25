package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/iota-uz/recruiting-crm/modules/pipeline/domain/aggregates/candidate"
	"github.com/iota-uz/recruiting-crm/modules/pipeline/domain/entities/history"
)

type HistoryService struct {
	repo       history.Repository
	candidates candidate.Repository
}

func NewHistoryService(repo history.Repository, candidates candidate.Repository) *HistoryService {
	return &HistoryService{
		repo:       repo,
		candidates: candidates,
	}
}

// ListByCandidate returns the candidate's trail, most recent change first.
func (s *HistoryService) ListByCandidate(ctx context.Context, candidateID uuid.UUID) ([]history.View, error) {
	if _, err := s.candidates.GetByID(ctx, candidateID); err != nil {
		return nil, err
	}
	return s.repo.ListByCandidate(ctx, candidateID)
}

func (s *HistoryService) PlacementMetrics(ctx context.Context) ([]history.MonthlyPlacements, error) {
	return s.repo.PlacementsByMonth(ctx)
}
