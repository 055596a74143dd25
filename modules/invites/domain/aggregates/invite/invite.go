package invite

import (
	"time"

	"github.com/google/uuid"

	"github.com/iota-uz/recruiting-crm/modules/core/domain/aggregates/user"
)

type Status string

const (
	StatusActive  Status = "active"
	StatusUsed    Status = "used"
	StatusRevoked Status = "revoked"
)

// MetadataLastUserID names the metadata key holding the most recent redeemer.
const MetadataLastUserID = "last_user_id"

// Invite is an organization passcode that admits up to MaxUses users.
type Invite interface {
	ID() uuid.UUID
	OrganizationID() uuid.UUID
	Code() string
	Role() user.Role
	MaxUses() int
	UsedCount() int
	Status() Status
	CreatedBy() string
	RevokedAt() time.Time
	RevokedBy() string
	Metadata() map[string]any
	CreatedAt() time.Time

	// Redeemable reports why the invite cannot be consumed, or nil.
	Redeemable() error
	// Consume records one use by userID. The invite flips to StatusUsed
	// when UsedCount reaches MaxUses.
	Consume(userID uuid.UUID) (Invite, error)
	Revoke(by string, at time.Time) Invite
}

type Option func(i *invite)

func WithID(id uuid.UUID) Option {
	return func(i *invite) {
		i.id = id
	}
}

func WithUsedCount(n int) Option {
	return func(i *invite) {
		i.usedCount = n
	}
}

func WithStatus(s Status) Option {
	return func(i *invite) {
		i.status = s
	}
}

func WithCreatedBy(by string) Option {
	return func(i *invite) {
		i.createdBy = by
	}
}

func WithRevoked(by string, at time.Time) Option {
	return func(i *invite) {
		i.revokedBy = by
		i.revokedAt = at
	}
}

func WithMetadata(m map[string]any) Option {
	return func(i *invite) {
		i.metadata = m
	}
}

func WithCreatedAt(t time.Time) Option {
	return func(i *invite) {
		i.createdAt = t
	}
}

func New(organizationID uuid.UUID, code string, role user.Role, maxUses int, opts ...Option) Invite {
	i := &invite{
		id:             uuid.New(),
		organizationID: organizationID,
		code:           code,
		role:           role,
		maxUses:        maxUses,
		status:         StatusActive,
		metadata:       map[string]any{},
		createdAt:      time.Now(),
	}
	for _, opt := range opts {
		opt(i)
	}
	if i.metadata == nil {
		i.metadata = map[string]any{}
	}
	return i
}

type invite struct {
	id             uuid.UUID
	organizationID uuid.UUID
	code           string
	role           user.Role
	maxUses        int
	usedCount      int
	status         Status
	createdBy      string
	revokedAt      time.Time
	revokedBy      string
	metadata       map[string]any
	createdAt      time.Time
}

func (i *invite) ID() uuid.UUID {
	return i.id
}

func (i *invite) OrganizationID() uuid.UUID {
	return i.organizationID
}

func (i *invite) Code() string {
	return i.code
}

func (i *invite) Role() user.Role {
	return i.role
}

func (i *invite) MaxUses() int {
	return i.maxUses
}

func (i *invite) UsedCount() int {
	return i.usedCount
}

func (i *invite) Status() Status {
	return i.status
}

func (i *invite) CreatedBy() string {
	return i.createdBy
}

func (i *invite) RevokedAt() time.Time {
	return i.revokedAt
}

func (i *invite) RevokedBy() string {
	return i.revokedBy
}

func (i *invite) Metadata() map[string]any {
	return i.metadata
}

func (i *invite) CreatedAt() time.Time {
	return i.createdAt
}

// Redeemable checks revocation first, then the counter. A used invite whose
// counter reached MaxUses reports ErrCodeExhausted, so racing redeemers that
// lose all see the same error.
func (i *invite) Redeemable() error {
	if i.status == StatusRevoked {
		return inactive(i.status)
	}
	if i.usedCount >= i.maxUses {
		return ErrCodeExhausted
	}
	if i.status != StatusActive {
		return inactive(i.status)
	}
	return nil
}

func (i *invite) Consume(userID uuid.UUID) (Invite, error) {
	if err := i.Redeemable(); err != nil {
		return nil, err
	}
	next := i.clone()
	next.usedCount++
	if next.usedCount >= next.maxUses {
		next.status = StatusUsed
	}
	next.metadata[MetadataLastUserID] = userID.String()
	return next, nil
}

func (i *invite) Revoke(by string, at time.Time) Invite {
	next := i.clone()
	next.status = StatusRevoked
	next.revokedBy = by
	next.revokedAt = at
	return next
}

func (i *invite) clone() *invite {
	next := *i
	next.metadata = make(map[string]any, len(i.metadata)+1)
	for k, v := range i.metadata {
		next.metadata[k] = v
	}
	return &next
}
