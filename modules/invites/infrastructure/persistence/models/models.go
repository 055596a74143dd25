package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type Invite struct {
	ID             uuid.UUID
	OrganizationID uuid.UUID
	Code           string
	Role           string
	MaxUses        int
	UsedCount      int
	Status         string
	CreatedBy      string
	RevokedAt      pgtype.Timestamptz
	RevokedBy      pgtype.Text
	Metadata       map[string]any
	CreatedAt      time.Time
}
