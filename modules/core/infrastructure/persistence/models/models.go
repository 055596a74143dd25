package models

import (
	"time"

	"github.com/google/uuid"
)

type Organization struct {
	ID        uuid.UUID
	Name      string
	Slug      string
	CreatedAt time.Time
}

type User struct {
	ID             uuid.UUID
	ExternalID     string
	Email          string
	Name           string
	Role           string
	OrganizationID uuid.UUID
	IsActive       bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
