package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/iota-uz/recruiting-crm/modules/core/domain/aggregates/user"
	"github.com/iota-uz/recruiting-crm/pkg/uow"
)

type UserService struct {
	repo user.Repository
	uow  uow.UnitOfWork
}

func NewUserService(repo user.Repository, unitOfWork uow.UnitOfWork) *UserService {
	return &UserService{
		repo: repo,
		uow:  unitOfWork,
	}
}

func (s *UserService) GetByID(ctx context.Context, id uuid.UUID) (user.User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *UserService) GetByExternalID(ctx context.Context, externalID string) (user.User, error) {
	return s.repo.GetByExternalID(ctx, externalID)
}

func (s *UserService) ListByOrganization(ctx context.Context, organizationID uuid.UUID) ([]user.User, error) {
	return s.repo.ListByOrganization(ctx, organizationID)
}

// Upsert creates or refreshes the user holding u's external id.
func (s *UserService) Upsert(ctx context.Context, u user.User) (user.User, error) {
	if !u.Role().IsValid() {
		return nil, user.ErrInvalidRole
	}
	return uow.Result(ctx, s.uow, "core.upsert_user", func(txCtx context.Context) (user.User, error) {
		return s.repo.UpsertByExternalID(txCtx, u)
	})
}
