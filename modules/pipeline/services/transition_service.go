package services

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/iota-uz/recruiting-crm/modules/pipeline/domain/aggregates/candidate"
	"github.com/iota-uz/recruiting-crm/modules/pipeline/domain/entities/history"
	"github.com/iota-uz/recruiting-crm/modules/pipeline/domain/entities/status"
	"github.com/iota-uz/recruiting-crm/modules/pipeline/domain/events"
	"github.com/iota-uz/recruiting-crm/pkg/composables"
	"github.com/iota-uz/recruiting-crm/pkg/outbox"
	"github.com/iota-uz/recruiting-crm/pkg/serrors"
	"github.com/iota-uz/recruiting-crm/pkg/uow"
)

// TransitionService moves candidates between pipeline statuses. Every move
// updates the candidate and appends exactly one history row atomically.
type TransitionService struct {
	candidates candidate.Repository
	statuses   status.Repository
	history    history.Repository
	uow        uow.UnitOfWork
	outbox     outbox.Publisher
	m          *metrics
}

func NewTransitionService(
	candidates candidate.Repository,
	statuses status.Repository,
	historyRepo history.Repository,
	unitOfWork uow.UnitOfWork,
	publisher outbox.Publisher,
) *TransitionService {
	return &TransitionService{
		candidates: candidates,
		statuses:   statuses,
		history:    historyRepo,
		uow:        unitOfWork,
		outbox:     publisher,
		m:          getMetrics(),
	}
}

// MoveCandidate sets the candidate's current status to toStatusID and records
// the change. An empty actorID falls back to the actor in ctx, then to
// composables.SystemActor. Moving to the current status still appends a row.
func (s *TransitionService) MoveCandidate(ctx context.Context, candidateID, toStatusID uuid.UUID, actorID string) (candidate.Candidate, error) {
	actor := strings.TrimSpace(actorID)
	if actor == "" {
		actor = composables.UseActor(ctx)
	}
	logger := composables.UseLogger(ctx).WithFields(logrus.Fields{
		"candidate_id": candidateID,
		"to_status_id": toStatusID,
		"actor":        actor,
	})

	moved, err := uow.Result(ctx, s.uow, "pipeline.move_candidate", func(txCtx context.Context) (candidate.Candidate, error) {
		current, err := s.candidates.LockByID(txCtx, candidateID)
		if err != nil {
			return nil, err
		}
		if err := s.candidates.UpdateStatus(txCtx, candidateID, toStatusID); err != nil {
			return nil, err
		}
		entry, err := s.history.Append(txCtx, history.Entry{
			CandidateID:  candidateID,
			FromStatusID: current.CurrentStatusID(),
			ToStatusID:   toStatusID,
			ChangedBy:    actor,
		})
		if err != nil {
			return nil, err
		}
		target, err := s.statuses.GetByID(txCtx, toStatusID)
		if err != nil {
			return nil, err
		}
		msg, err := outbox.NewMessage(events.TopicCandidateMovedV1, candidateID, events.CandidateMovedV1{
			CandidateID:  candidateID,
			HistoryID:    entry.ID,
			FromStatusID: entry.FromStatusID,
			ToStatusID:   toStatusID,
			ToStatusName: target.Name(),
			IsTerminal:   target.IsTerminal(),
			ChangedBy:    actor,
			ChangedAt:    entry.ChangeDate,
		})
		if err != nil {
			return nil, err
		}
		if _, err := s.outbox.Enqueue(txCtx, msg); err != nil {
			return nil, err
		}
		return current.MoveTo(toStatusID), nil
	})
	if err != nil {
		s.m.movesTotal.WithLabelValues(serrors.KindOf(err).String()).Inc()
		logger.WithError(err).Warn("pipeline: move failed")
		return nil, err
	}

	s.m.movesTotal.WithLabelValues("ok").Inc()
	logger.Info("pipeline: candidate moved")
	return moved, nil
}
