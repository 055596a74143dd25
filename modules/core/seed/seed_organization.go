package seed

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/iota-uz/recruiting-crm/modules/core/domain/entities/organization"
	"github.com/iota-uz/recruiting-crm/modules/core/infrastructure/persistence"
	"github.com/iota-uz/recruiting-crm/pkg/application"
)

var DefaultOrganizationID = uuid.MustParse("00000000-0000-0000-0000-000000000001")

func CreateDefaultOrganization(ctx context.Context, app application.Application) error {
	logger := app.Logger()
	repo := persistence.NewOrganizationRepository()

	return app.UnitOfWork().Do(ctx, "core.seed_organization", func(txCtx context.Context) error {
		existing, err := repo.GetByID(txCtx, DefaultOrganizationID)
		if err == nil && existing != nil {
			logger.Infof("Default organization already exists")
			return nil
		}
		if err != nil && !errors.Is(err, organization.ErrNotFound) {
			return err
		}

		logger.Infof("Creating default organization")
		_, err = repo.Create(txCtx, organization.New(
			"Default",
			organization.WithID(DefaultOrganizationID),
		))
		if err != nil {
			logger.Errorf("Failed to create default organization: %v", err)
		}
		return err
	})
}
