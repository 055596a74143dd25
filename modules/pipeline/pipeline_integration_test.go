package pipeline_test

import (
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iota-uz/recruiting-crm/modules/pipeline"
	"github.com/iota-uz/recruiting-crm/modules/pipeline/domain/aggregates/candidate"
	"github.com/iota-uz/recruiting-crm/modules/pipeline/domain/entities/status"
	"github.com/iota-uz/recruiting-crm/modules/pipeline/domain/events"
	"github.com/iota-uz/recruiting-crm/modules/pipeline/services"
	"github.com/iota-uz/recruiting-crm/pkg/itf"
)

func TestMoveCandidate_Postgres(t *testing.T) {
	f := itf.NewTestContext().
		WithModules(pipeline.NewModule()).
		WithActor("auth0|it-recruiter").
		Build(t)
	f.Seed(t)

	statuses := itf.GetService[services.StatusService](f)
	candidates := itf.GetService[services.CandidateService](f)
	transitions := itf.GetService[services.TransitionService](f)
	historySvc := itf.GetService[services.HistoryService](f)

	sourced, err := statuses.GetByName(f.Ctx, "Sourced")
	require.NoError(t, err)
	screening, err := statuses.GetByName(f.Ctx, "Screening")
	require.NoError(t, err)
	placed, err := statuses.GetByName(f.Ctx, "Placed")
	require.NoError(t, err)

	c, err := candidates.Create(f.Ctx, &candidate.CreateDTO{
		Name:     "Linus",
		Email:    "linus@example.com",
		StatusID: sourced.ID(),
		Skills:   []string{"c", "git"},
	})
	require.NoError(t, err)
	require.Equal(t, []string{"c", "git"}, c.Skills())

	t.Run("move records history and outbox", func(t *testing.T) {
		moved, err := transitions.MoveCandidate(f.Ctx, c.ID(), screening.ID(), "")
		require.NoError(t, err)
		require.Equal(t, screening.ID(), moved.CurrentStatusID())

		views, err := historySvc.ListByCandidate(f.Ctx, c.ID())
		require.NoError(t, err)
		require.Len(t, views, 2)
		require.Equal(t, "Sourced", views[0].FromStatusName)
		require.Equal(t, "Screening", views[0].ToStatusName)
		require.Equal(t, "auth0|it-recruiter", views[0].ChangedBy)

		var queued int
		require.NoError(t, f.Pool.QueryRow(f.Ctx,
			`SELECT count(*) FROM crm_outbox WHERE topic = $1 AND aggregate_id = $2`,
			events.TopicCandidateMovedV1, c.ID(),
		).Scan(&queued))
		require.Equal(t, 1, queued)
	})

	t.Run("unknown status rolls back", func(t *testing.T) {
		_, err := transitions.MoveCandidate(f.Ctx, c.ID(), uuid.New(), "")
		require.ErrorIs(t, err, status.ErrNotFound)

		reloaded, err := candidates.GetByID(f.Ctx, c.ID())
		require.NoError(t, err)
		require.Equal(t, screening.ID(), reloaded.CurrentStatusID())

		views, err := historySvc.ListByCandidate(f.Ctx, c.ID())
		require.NoError(t, err)
		require.Len(t, views, 2)
	})

	t.Run("unknown candidate", func(t *testing.T) {
		_, err := transitions.MoveCandidate(f.Ctx, uuid.New(), screening.ID(), "")
		require.ErrorIs(t, err, candidate.ErrNotFound)
	})

	t.Run("concurrent moves keep the chain consistent", func(t *testing.T) {
		targets := []uuid.UUID{sourced.ID(), screening.ID(), placed.ID()}
		const movers = 12

		var wg sync.WaitGroup
		for i := range movers {
			wg.Add(1)
			go func(to uuid.UUID) {
				defer wg.Done()
				_, err := transitions.MoveCandidate(f.Ctx, c.ID(), to, "")
				assert.NoError(t, err)
			}(targets[i%len(targets)])
		}
		wg.Wait()

		views, err := historySvc.ListByCandidate(f.Ctx, c.ID())
		require.NoError(t, err)
		require.Len(t, views, movers+2)
		for i := 0; i < len(views)-1; i++ {
			require.Equal(t, views[i+1].ToStatusID, views[i].FromStatusID, "entry %d", i)
		}

		reloaded, err := candidates.GetByID(f.Ctx, c.ID())
		require.NoError(t, err)
		require.Equal(t, views[0].ToStatusID, reloaded.CurrentStatusID())

		placements, err := historySvc.PlacementMetrics(f.Ctx)
		require.NoError(t, err)
		require.NotEmpty(t, placements)
	})
}
