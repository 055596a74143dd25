package seed

import (
	"context"

	"github.com/iota-uz/recruiting-crm/modules/pipeline/services"
	"github.com/iota-uz/recruiting-crm/pkg/application"
)

func CreateDefaultStatuses(ctx context.Context, app application.Application) error {
	svc := app.Service(services.StatusService{}).(*services.StatusService)
	statuses, err := svc.SeedDefaults(ctx)
	if err != nil {
		app.Logger().Errorf("Failed to seed pipeline statuses: %v", err)
		return err
	}
	app.Logger().Infof("Pipeline has %d statuses", len(statuses))
	return nil
}
