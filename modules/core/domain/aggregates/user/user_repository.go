package user

import (
	"context"

	"github.com/google/uuid"

	"github.com/iota-uz/recruiting-crm/pkg/serrors"
)

var ErrNotFound = serrors.NewNotFound("USER_NOT_FOUND", "user not found", "Errors.UserNotFound")

type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (User, error)
	GetByExternalID(ctx context.Context, externalID string) (User, error)
	ListByOrganization(ctx context.Context, organizationID uuid.UUID) ([]User, error)
	// UpsertByExternalID inserts u, or refreshes the profile of the user already
	// holding u's external id and overwrites its role and organization.
	UpsertByExternalID(ctx context.Context, u User) (User, error)
}
