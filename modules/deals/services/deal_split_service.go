package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/iota-uz/recruiting-crm/modules/deals/domain/aggregates/job"
	"github.com/iota-uz/recruiting-crm/modules/deals/domain/entities/split"
	"github.com/iota-uz/recruiting-crm/modules/deals/domain/events"
	"github.com/iota-uz/recruiting-crm/pkg/composables"
	"github.com/iota-uz/recruiting-crm/pkg/constants"
	"github.com/iota-uz/recruiting-crm/pkg/outbox"
	"github.com/iota-uz/recruiting-crm/pkg/serrors"
	"github.com/iota-uz/recruiting-crm/pkg/uow"
)

type DealSplitService struct {
	jobs   job.Repository
	splits split.Repository
	uow    uow.UnitOfWork
	outbox outbox.Publisher
	m      *metrics
}

func NewDealSplitService(
	jobs job.Repository,
	splits split.Repository,
	unitOfWork uow.UnitOfWork,
	publisher outbox.Publisher,
) *DealSplitService {
	return &DealSplitService{
		jobs:   jobs,
		splits: splits,
		uow:    unitOfWork,
		outbox: publisher,
		m:      getMetrics(),
	}
}

// ReplaceSplits swaps the job's split set for the allocation of inputs. The
// job row is locked first, so concurrent replacements of one job serialize
// and a failure leaves the previous set in place.
func (s *DealSplitService) ReplaceSplits(ctx context.Context, jobID uuid.UUID, inputs []split.Input) ([]split.Split, error) {
	inputs, err := normalizeInputs(inputs)
	if err != nil {
		return nil, err
	}
	logger := composables.UseLogger(ctx).WithField("job_id", jobID)

	result, err := uow.Result(ctx, s.uow, "deals.replace_splits", func(txCtx context.Context) ([]split.Split, error) {
		j, err := s.jobs.LockByID(txCtx, jobID)
		if err != nil {
			return nil, err
		}
		removed, err := s.splits.DeleteByJob(txCtx, jobID)
		if err != nil {
			return nil, err
		}

		allocations := split.Allocate(split.Base{
			DealAmount:         j.DealAmount().Decimal,
			WeightedDealAmount: j.WeightedDealAmount().Decimal,
		}, inputs)
		persisted, err := s.splits.Insert(txCtx, split.ToSplits(jobID, allocations))
		if err != nil {
			return nil, err
		}

		payload := events.SplitsReplacedV1{
			JobID:     jobID,
			Removed:   removed,
			Splits:    make([]events.SplitV1, 0, len(persisted)),
			ChangedBy: composables.UseActor(txCtx),
		}
		for _, p := range persisted {
			payload.Splits = append(payload.Splits, events.SplitV1{
				Position:     p.Position,
				TeammateName: p.TeammateName,
				Role:         string(p.Role),
				TotalDeal:    p.TotalDeal,
				WeightedDeal: p.WeightedDeal,
			})
		}
		msg, err := outbox.NewMessage(events.TopicSplitsReplacedV1, jobID, payload)
		if err != nil {
			return nil, err
		}
		if _, err := s.outbox.Enqueue(txCtx, msg); err != nil {
			return nil, err
		}
		return persisted, nil
	})
	if err != nil {
		s.m.replacementsTotal.WithLabelValues(serrors.KindOf(err).String()).Inc()
		logger.WithError(err).Warn("deals: split replacement failed")
		return nil, err
	}

	s.m.replacementsTotal.WithLabelValues("ok").Inc()
	s.m.splitRows.Observe(float64(len(result)))
	logger.WithFields(logrus.Fields{"splits": len(result)}).Info("deals: splits replaced")
	return result, nil
}

func (s *DealSplitService) ListByJob(ctx context.Context, jobID uuid.UUID) ([]split.Split, error) {
	if _, err := s.jobs.GetByID(ctx, jobID); err != nil {
		return nil, err
	}
	return s.splits.ListByJob(ctx, jobID)
}

// normalizeInputs returns trimmed copies of inputs; the caller's slice is left as is.
func normalizeInputs(inputs []split.Input) ([]split.Input, error) {
	out := make([]split.Input, len(inputs))
	errs := serrors.ValidationErrors{}
	for i, in := range inputs {
		in.TeammateName = strings.TrimSpace(in.TeammateName)
		in.Role = split.Role(strings.TrimSpace(string(in.Role)))
		out[i] = in
		err := constants.Validate.Struct(in)
		if err == nil {
			continue
		}
		vErrs, ok := err.(validator.ValidationErrors)
		if !ok {
			return nil, err
		}
		for field, msg := range serrors.ProcessValidatorErrors(vErrs, func(f string) string {
			return fmt.Sprintf("Splits[%d].%s", i, f)
		}) {
			errs[field] = msg
		}
	}
	if len(errs) > 0 {
		return nil, errs
	}
	return out, nil
}
