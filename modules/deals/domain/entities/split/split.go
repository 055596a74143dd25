package split

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Role string

const (
	RoleLead      Role = "lead"
	RoleSecondary Role = "secondary"
)

// Split is one persisted participant share of a job's deal.
type Split struct {
	ID             uuid.UUID
	JobID          uuid.UUID
	Position       int
	TeammateName   string
	TeammateStatus string
	Role           Role
	SplitPercent   decimal.NullDecimal
	TotalDeal      decimal.Decimal
	WeightedDeal   decimal.Decimal
	CreatedAt      time.Time
}

type Repository interface {
	ListByJob(ctx context.Context, jobID uuid.UUID) ([]Split, error)
	DeleteByJob(ctx context.Context, jobID uuid.UUID) (int64, error)
	// Insert stores splits in order; positions must already be assigned.
	Insert(ctx context.Context, splits []Split) ([]Split, error)
}
