package services

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/iota-uz/recruiting-crm/modules/core/domain/entities/organization"
	"github.com/iota-uz/recruiting-crm/pkg/serrors"
	"github.com/iota-uz/recruiting-crm/pkg/uow"
)

type OrganizationService struct {
	repo organization.Repository
	uow  uow.UnitOfWork
}

func NewOrganizationService(repo organization.Repository, unitOfWork uow.UnitOfWork) *OrganizationService {
	return &OrganizationService{
		repo: repo,
		uow:  unitOfWork,
	}
}

func (s *OrganizationService) GetByID(ctx context.Context, id uuid.UUID) (*organization.Organization, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *OrganizationService) GetBySlug(ctx context.Context, slug string) (*organization.Organization, error) {
	return s.repo.GetBySlug(ctx, slug)
}

func (s *OrganizationService) List(ctx context.Context) ([]*organization.Organization, error) {
	return s.repo.List(ctx)
}

func (s *OrganizationService) Create(ctx context.Context, name string, opts ...organization.Option) (*organization.Organization, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, serrors.ValidationErrors{"Name": "is required"}
	}
	o := organization.New(name, opts...)
	if o.Slug() == "" {
		return nil, serrors.ValidationErrors{"Name": "must contain letters or digits"}
	}
	return uow.Result(ctx, s.uow, "core.create_organization", func(txCtx context.Context) (*organization.Organization, error) {
		return s.repo.Create(txCtx, o)
	})
}
