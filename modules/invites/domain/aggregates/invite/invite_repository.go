package invite

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/iota-uz/recruiting-crm/pkg/serrors"
)

var (
	ErrInvalidCode   = serrors.NewNotFound("INVITE_INVALID_CODE", "invalid invite code", "Errors.InviteInvalidCode")
	ErrCodeInactive  = serrors.NewInvalidState("INVITE_CODE_INACTIVE", "invite code is not active", "Errors.InviteCodeInactive")
	ErrCodeExhausted = serrors.NewInvalidState("INVITE_CODE_EXHAUSTED", "invite code has no uses left", "Errors.InviteCodeExhausted")
	ErrCodeTaken     = serrors.NewInvalidState("INVITE_CODE_TAKEN", "invite code already exists", "Errors.InviteCodeTaken")
)

func inactive(s Status) error {
	return fmt.Errorf("%w: %s", ErrCodeInactive, s)
}

type Repository interface {
	GetByCode(ctx context.Context, code string) (Invite, error)
	// LockByCode reads the invite with SELECT ... FOR UPDATE inside the
	// transaction carried by ctx.
	LockByCode(ctx context.Context, code string) (Invite, error)
	ListByOrganization(ctx context.Context, organizationID uuid.UUID) ([]Invite, error)
	Create(ctx context.Context, i Invite) (Invite, error)
	// SaveUsage persists used_count, status and metadata.
	SaveUsage(ctx context.Context, i Invite) error
	SaveRevocation(ctx context.Context, i Invite) error
}
