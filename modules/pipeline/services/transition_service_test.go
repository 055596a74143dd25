package services_test

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iota-uz/recruiting-crm/modules/pipeline/domain/aggregates/candidate"
	"github.com/iota-uz/recruiting-crm/modules/pipeline/domain/entities/status"
	"github.com/iota-uz/recruiting-crm/modules/pipeline/domain/events"
	"github.com/iota-uz/recruiting-crm/modules/pipeline/services"
	"github.com/iota-uz/recruiting-crm/pkg/composables"
	"github.com/iota-uz/recruiting-crm/pkg/outbox/outboxtest"
	"github.com/iota-uz/recruiting-crm/pkg/serrors"
	"github.com/iota-uz/recruiting-crm/pkg/uow/uowtest"
)

type pipelineFixture struct {
	store      *memStore
	uow        *uowtest.UnitOfWork
	outbox     *outboxtest.Recorder
	transition *services.TransitionService
	candidates *services.CandidateService
	history    *services.HistoryService
	statuses   *services.StatusService

	sourced   *status.Status
	screening *status.Status
	placed    *status.Status
}

func newPipelineFixture(t *testing.T) *pipelineFixture {
	t.Helper()
	store := newMemStore()
	recorder := outboxtest.NewRecorder()
	unit := uowtest.New(store, recorder)

	f := &pipelineFixture{
		store:      store,
		uow:        unit,
		outbox:     recorder,
		transition: services.NewTransitionService(candidateRepo{store}, statusRepo{store}, historyRepo{store}, unit, recorder),
		candidates: services.NewCandidateService(candidateRepo{store}, statusRepo{store}, historyRepo{store}, unit),
		history:    services.NewHistoryService(historyRepo{store}, candidateRepo{store}),
		statuses:   services.NewStatusService(statusRepo{store}, unit),
	}
	f.sourced = store.addStatus(status.New("Sourced", 1))
	f.screening = store.addStatus(status.New("Screening", 2))
	f.placed = store.addStatus(status.New("Placed", 5, status.WithTerminal(true)))
	return f
}

func (f *pipelineFixture) newCandidate(t *testing.T) candidate.Candidate {
	t.Helper()
	c, err := f.candidates.Create(context.Background(), &candidate.CreateDTO{
		Name:     "Ada Lovelace",
		Email:    "ada@example.com",
		StatusID: f.sourced.ID(),
	})
	require.NoError(t, err)
	return c
}

func TestTransitionService_MoveCandidate(t *testing.T) {
	f := newPipelineFixture(t)
	c := f.newCandidate(t)

	moved, err := f.transition.MoveCandidate(context.Background(), c.ID(), f.screening.ID(), "recruiter-7")
	require.NoError(t, err)
	require.Equal(t, f.screening.ID(), moved.CurrentStatusID())
	require.Equal(t, c.Name(), moved.Name())
	require.Equal(t, c.Email(), moved.Email())
	require.Equal(t, f.screening.ID(), f.store.candidate(c.ID()).CurrentStatusID())

	trail := f.store.historyFor(c.ID())
	require.Len(t, trail, 2)
	last := trail[1]
	require.Equal(t, f.sourced.ID(), last.FromStatusID)
	require.Equal(t, f.screening.ID(), last.ToStatusID)
	require.Equal(t, "recruiter-7", last.ChangedBy)

	msgs := f.outbox.Topic(events.TopicCandidateMovedV1)
	require.Len(t, msgs, 1)
	require.Equal(t, c.ID(), msgs[0].AggregateID)
	var ev events.CandidateMovedV1
	require.NoError(t, json.Unmarshal(msgs[0].Payload, &ev))
	require.Equal(t, last.ID, ev.HistoryID)
	require.Equal(t, "Screening", ev.ToStatusName)
	require.False(t, ev.IsTerminal)
}

func TestTransitionService_MoveCandidate_Actor(t *testing.T) {
	f := newPipelineFixture(t)
	c := f.newCandidate(t)

	_, err := f.transition.MoveCandidate(context.Background(), c.ID(), f.screening.ID(), "  ")
	require.NoError(t, err)

	ctx := composables.WithActor(context.Background(), "auth0|recruiter")
	_, err = f.transition.MoveCandidate(ctx, c.ID(), f.placed.ID(), "")
	require.NoError(t, err)

	trail := f.store.historyFor(c.ID())
	require.Len(t, trail, 3)
	require.Equal(t, composables.SystemActor, trail[1].ChangedBy)
	require.Equal(t, "auth0|recruiter", trail[2].ChangedBy)
}

func TestTransitionService_MoveCandidate_UnknownCandidate(t *testing.T) {
	f := newPipelineFixture(t)

	_, err := f.transition.MoveCandidate(context.Background(), uuid.New(), f.screening.ID(), "")
	require.ErrorIs(t, err, candidate.ErrNotFound)
	require.Equal(t, serrors.KindNotFound, serrors.KindOf(err))
	require.Empty(t, f.store.history)
	require.Empty(t, f.outbox.Messages())
}

func TestTransitionService_MoveCandidate_UnknownStatusRollsBack(t *testing.T) {
	f := newPipelineFixture(t)
	c := f.newCandidate(t)

	_, err := f.transition.MoveCandidate(context.Background(), c.ID(), uuid.New(), "")
	require.ErrorIs(t, err, status.ErrNotFound)
	require.Equal(t, f.sourced.ID(), f.store.candidate(c.ID()).CurrentStatusID())
	require.Len(t, f.store.historyFor(c.ID()), 1)
	require.Empty(t, f.outbox.Messages())
}

func TestTransitionService_MoveCandidate_OutboxFailureRollsBack(t *testing.T) {
	f := newPipelineFixture(t)
	c := f.newCandidate(t)
	f.outbox.Err = errors.New("outbox unavailable")

	_, err := f.transition.MoveCandidate(context.Background(), c.ID(), f.screening.ID(), "")
	require.Error(t, err)
	require.Equal(t, f.sourced.ID(), f.store.candidate(c.ID()).CurrentStatusID())
	require.Len(t, f.store.historyFor(c.ID()), 1)
}

func TestTransitionService_MoveCandidate_SameStatusAppends(t *testing.T) {
	f := newPipelineFixture(t)
	c := f.newCandidate(t)

	for range 2 {
		_, err := f.transition.MoveCandidate(context.Background(), c.ID(), f.sourced.ID(), "")
		require.NoError(t, err)
	}
	trail := f.store.historyFor(c.ID())
	require.Len(t, trail, 3)
	require.Equal(t, f.sourced.ID(), trail[2].FromStatusID)
	require.Equal(t, f.sourced.ID(), trail[2].ToStatusID)
}

func TestTransitionService_MoveCandidate_AnyOrder(t *testing.T) {
	f := newPipelineFixture(t)
	c := f.newCandidate(t)

	_, err := f.transition.MoveCandidate(context.Background(), c.ID(), f.placed.ID(), "")
	require.NoError(t, err)
	_, err = f.transition.MoveCandidate(context.Background(), c.ID(), f.sourced.ID(), "")
	require.NoError(t, err)
	require.Equal(t, f.sourced.ID(), f.store.candidate(c.ID()).CurrentStatusID())
}

func TestTransitionService_MoveCandidate_ConcurrentChainIsConsistent(t *testing.T) {
	f := newPipelineFixture(t)
	c := f.newCandidate(t)
	targets := []uuid.UUID{f.sourced.ID(), f.screening.ID(), f.placed.ID()}

	const movers = 30
	var wg sync.WaitGroup
	for i := range movers {
		wg.Add(1)
		go func(to uuid.UUID) {
			defer wg.Done()
			_, err := f.transition.MoveCandidate(context.Background(), c.ID(), to, "")
			assert.NoError(t, err)
		}(targets[i%len(targets)])
	}
	wg.Wait()

	trail := f.store.historyFor(c.ID())
	require.Len(t, trail, movers+1)
	for i := 1; i < len(trail); i++ {
		require.Equal(t, trail[i-1].ToStatusID, trail[i].FromStatusID, "entry %d", i)
	}
	require.Equal(t, trail[len(trail)-1].ToStatusID, f.store.candidate(c.ID()).CurrentStatusID())
}
