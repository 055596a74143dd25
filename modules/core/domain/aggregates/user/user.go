package user

import (
	"time"

	"github.com/google/uuid"
)

// User is an organization member identified by the external identity provider's subject.
type User interface {
	ID() uuid.UUID
	ExternalID() string
	Email() string
	Name() string
	Role() Role
	OrganizationID() uuid.UUID
	IsActive() bool
	CreatedAt() time.Time
	UpdatedAt() time.Time
}

type Option func(u *user)

func WithID(id uuid.UUID) Option {
	return func(u *user) {
		u.id = id
	}
}

func WithIsActive(active bool) Option {
	return func(u *user) {
		u.isActive = active
	}
}

func WithCreatedAt(t time.Time) Option {
	return func(u *user) {
		u.createdAt = t
	}
}

func WithUpdatedAt(t time.Time) Option {
	return func(u *user) {
		u.updatedAt = t
	}
}

func New(externalID, email, name string, role Role, organizationID uuid.UUID, opts ...Option) User {
	now := time.Now()
	u := &user{
		id:             uuid.New(),
		externalID:     externalID,
		email:          email,
		name:           name,
		role:           role,
		organizationID: organizationID,
		isActive:       true,
		createdAt:      now,
		updatedAt:      now,
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

type user struct {
	id             uuid.UUID
	externalID     string
	email          string
	name           string
	role           Role
	organizationID uuid.UUID
	isActive       bool
	createdAt      time.Time
	updatedAt      time.Time
}

func (u *user) ID() uuid.UUID {
	return u.id
}

func (u *user) ExternalID() string {
	return u.externalID
}

func (u *user) Email() string {
	return u.email
}

func (u *user) Name() string {
	return u.name
}

func (u *user) Role() Role {
	return u.role
}

func (u *user) OrganizationID() uuid.UUID {
	return u.organizationID
}

func (u *user) IsActive() bool {
	return u.isActive
}

func (u *user) CreatedAt() time.Time {
	return u.createdAt
}

func (u *user) UpdatedAt() time.Time {
	return u.updatedAt
}
