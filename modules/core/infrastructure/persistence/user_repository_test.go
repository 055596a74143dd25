package persistence_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/iota-uz/recruiting-crm/modules/core/domain/aggregates/user"
	"github.com/iota-uz/recruiting-crm/modules/core/domain/entities/organization"
	"github.com/iota-uz/recruiting-crm/modules/core/infrastructure/persistence"
)

func TestUserRepository_UpsertByExternalID(t *testing.T) {
	f := setupTest(t)

	orgRepo := persistence.NewOrganizationRepository()
	userRepo := persistence.NewUserRepository()

	acme, err := orgRepo.Create(f.Ctx, organization.New("Acme Recruiting"))
	require.NoError(t, err)
	globex, err := orgRepo.Create(f.Ctx, organization.New("Globex"))
	require.NoError(t, err)

	created, err := userRepo.UpsertByExternalID(f.Ctx, user.New(
		"auth0|alice", "alice@acme.test", "Alice", user.RoleOrgEmployee, acme.ID(),
	))
	require.NoError(t, err)
	require.Equal(t, "auth0|alice", created.ExternalID())

	t.Run("refreshes profile and overwrites role and organization", func(t *testing.T) {
		updated, err := userRepo.UpsertByExternalID(f.Ctx, user.New(
			"auth0|alice", "alice@globex.test", "Alice G", user.RoleOrgAdmin, globex.ID(),
		))
		require.NoError(t, err)
		require.Equal(t, created.ID(), updated.ID())
		require.Equal(t, "alice@globex.test", updated.Email())
		require.Equal(t, "Alice G", updated.Name())
		require.Equal(t, user.RoleOrgAdmin, updated.Role())
		require.Equal(t, globex.ID(), updated.OrganizationID())
		require.False(t, updated.UpdatedAt().Before(created.UpdatedAt()))
	})

	t.Run("lookups", func(t *testing.T) {
		byExternal, err := userRepo.GetByExternalID(f.Ctx, " auth0|alice ")
		require.NoError(t, err)
		require.Equal(t, created.ID(), byExternal.ID())

		members, err := userRepo.ListByOrganization(f.Ctx, globex.ID())
		require.NoError(t, err)
		require.Len(t, members, 1)

		_, err = userRepo.GetByID(f.Ctx, uuid.New())
		require.ErrorIs(t, err, user.ErrNotFound)
	})

	t.Run("unknown organization", func(t *testing.T) {
		_, err := userRepo.UpsertByExternalID(f.Ctx, user.New(
			"auth0|bob", "bob@acme.test", "Bob", user.RoleOrgEmployee, uuid.New(),
		))
		require.ErrorIs(t, err, organization.ErrNotFound)
	})
}

func TestOrganizationRepository_Create(t *testing.T) {
	f := setupTest(t)
	repo := persistence.NewOrganizationRepository()
	ctx := context.WithoutCancel(f.Ctx)

	org, err := repo.Create(ctx, organization.New("Initech Talent"))
	require.NoError(t, err)
	require.Equal(t, "initech-talent", org.Slug())

	again, err := repo.Create(ctx, organization.New("Other", organization.WithID(org.ID())))
	require.NoError(t, err)
	require.Equal(t, "Initech Talent", again.Name())

	_, err = repo.Create(ctx, organization.New("Initech  Talent"))
	require.ErrorIs(t, err, persistence.ErrOrganizationSlugTaken)

	bySlug, err := repo.GetBySlug(ctx, "initech-talent")
	require.NoError(t, err)
	require.Equal(t, org.ID(), bySlug.ID())

	all, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
}
