package services

import (
	"context"

	"github.com/iota-uz/recruiting-crm/modules/pipeline/domain/entities/status"
	"github.com/iota-uz/recruiting-crm/pkg/uow"
)

type StatusService struct {
	repo status.Repository
	uow  uow.UnitOfWork
}

func NewStatusService(repo status.Repository, unitOfWork uow.UnitOfWork) *StatusService {
	return &StatusService{
		repo: repo,
		uow:  unitOfWork,
	}
}

func (s *StatusService) List(ctx context.Context) ([]*status.Status, error) {
	return s.repo.List(ctx)
}

func (s *StatusService) GetByName(ctx context.Context, name string) (*status.Status, error) {
	return s.repo.GetByName(ctx, name)
}

// SeedDefaults installs status.Defaults, keeping ids of statuses that already exist.
func (s *StatusService) SeedDefaults(ctx context.Context) ([]*status.Status, error) {
	return uow.Result(ctx, s.uow, "pipeline.seed_statuses", func(txCtx context.Context) ([]*status.Status, error) {
		for _, st := range status.Defaults() {
			if _, err := s.repo.Upsert(txCtx, st); err != nil {
				return nil, err
			}
		}
		return s.repo.List(txCtx)
	})
}
