package services

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/iota-uz/recruiting-crm/modules/deals/domain/aggregates/job"
	"github.com/iota-uz/recruiting-crm/pkg/serrors"
	"github.com/iota-uz/recruiting-crm/pkg/uow"
)

type JobService struct {
	repo job.Repository
	uow  uow.UnitOfWork
}

func NewJobService(repo job.Repository, unitOfWork uow.UnitOfWork) *JobService {
	return &JobService{
		repo: repo,
		uow:  unitOfWork,
	}
}

type CreateJobDTO struct {
	Title              string
	Department         string
	Location           string
	DealAmount         decimal.NullDecimal
	WeightedDealAmount decimal.NullDecimal
}

func (s *JobService) Create(ctx context.Context, dto CreateJobDTO) (*job.Job, error) {
	title := strings.TrimSpace(dto.Title)
	if title == "" {
		return nil, serrors.ValidationErrors{"Title": "is required"}
	}
	j := job.New(title,
		job.WithDepartment(strings.TrimSpace(dto.Department)),
		job.WithLocation(strings.TrimSpace(dto.Location)),
		job.WithDealAmount(dto.DealAmount),
		job.WithWeightedDealAmount(dto.WeightedDealAmount),
	)
	return uow.Result(ctx, s.uow, "deals.create_job", func(txCtx context.Context) (*job.Job, error) {
		return s.repo.Create(txCtx, j)
	})
}

func (s *JobService) GetByID(ctx context.Context, id uuid.UUID) (*job.Job, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *JobService) List(ctx context.Context) ([]*job.Job, error) {
	return s.repo.List(ctx)
}
