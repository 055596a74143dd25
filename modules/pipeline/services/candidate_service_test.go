package services_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/iota-uz/recruiting-crm/modules/pipeline/domain/aggregates/candidate"
	"github.com/iota-uz/recruiting-crm/modules/pipeline/domain/entities/status"
	"github.com/iota-uz/recruiting-crm/pkg/serrors"
)

func TestCandidateService_Create(t *testing.T) {
	f := newPipelineFixture(t)

	c, err := f.candidates.Create(context.Background(), &candidate.CreateDTO{
		Name:       " Grace Hopper ",
		Email:      "grace@example.com",
		StatusName: "screening",
		Skills:     []string{"cobol"},
	})
	require.NoError(t, err)
	require.Equal(t, "Grace Hopper", c.Name())
	require.Equal(t, f.screening.ID(), c.CurrentStatusID())

	trail := f.store.historyFor(c.ID())
	require.Len(t, trail, 1)
	require.Equal(t, uuid.Nil, trail[0].FromStatusID)
	require.Equal(t, f.screening.ID(), trail[0].ToStatusID)
}

func TestCandidateService_Create_Validation(t *testing.T) {
	f := newPipelineFixture(t)

	_, err := f.candidates.Create(context.Background(), &candidate.CreateDTO{Email: "not-an-email"})
	require.Equal(t, serrors.KindValidation, serrors.KindOf(err))
	var vErrs serrors.ValidationErrors
	require.ErrorAs(t, err, &vErrs)
	require.Contains(t, vErrs, "Name")
	require.Contains(t, vErrs, "Email")
	require.Contains(t, vErrs, "StatusID")

	_, err = f.candidates.Create(context.Background(), &candidate.CreateDTO{
		Name:       "X",
		Email:      "x@example.com",
		StatusName: "Hired",
	})
	require.ErrorIs(t, err, status.ErrNotFound)
	require.Equal(t, 0, f.uow.Commits())
}

func TestHistoryService(t *testing.T) {
	f := newPipelineFixture(t)
	c := f.newCandidate(t)

	_, err := f.transition.MoveCandidate(context.Background(), c.ID(), f.screening.ID(), "")
	require.NoError(t, err)
	_, err = f.transition.MoveCandidate(context.Background(), c.ID(), f.placed.ID(), "")
	require.NoError(t, err)

	views, err := f.history.ListByCandidate(context.Background(), c.ID())
	require.NoError(t, err)
	require.Len(t, views, 3)
	require.Equal(t, "Placed", views[0].ToStatusName)
	require.Equal(t, "Screening", views[0].FromStatusName)
	require.Equal(t, "", views[2].FromStatusName)

	_, err = f.history.ListByCandidate(context.Background(), uuid.New())
	require.ErrorIs(t, err, candidate.ErrNotFound)

	placements, err := f.history.PlacementMetrics(context.Background())
	require.NoError(t, err)
	require.Len(t, placements, 1)
	require.Equal(t, "Placed", placements[0].StatusName)
	require.EqualValues(t, 1, placements[0].Count)
}

func TestStatusService_SeedDefaults(t *testing.T) {
	f := newPipelineFixture(t)

	statuses, err := f.statuses.SeedDefaults(context.Background())
	require.NoError(t, err)
	require.Len(t, statuses, 6)

	again, err := f.statuses.SeedDefaults(context.Background())
	require.NoError(t, err)
	require.Len(t, again, 6)

	sourced, err := f.statuses.GetByName(context.Background(), "Sourced")
	require.NoError(t, err)
	require.Equal(t, f.sourced.ID(), sourced.ID())

	rejected, err := f.statuses.GetByName(context.Background(), "Rejected")
	require.NoError(t, err)
	require.True(t, rejected.IsTerminal())
}
