package organization

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/iota-uz/recruiting-crm/pkg/serrors"
)

var ErrNotFound = serrors.NewNotFound("ORGANIZATION_NOT_FOUND", "organization not found", "Errors.OrganizationNotFound")

type Organization struct {
	id        uuid.UUID
	name      string
	slug      string
	createdAt time.Time
}

type Option func(*Organization)

func WithID(id uuid.UUID) Option {
	return func(o *Organization) {
		o.id = id
	}
}

func WithSlug(slug string) Option {
	return func(o *Organization) {
		o.slug = slug
	}
}

func WithCreatedAt(createdAt time.Time) Option {
	return func(o *Organization) {
		o.createdAt = createdAt
	}
}

// New derives the slug from name unless WithSlug is given.
func New(name string, opts ...Option) *Organization {
	o := &Organization{
		id:        uuid.New(),
		name:      name,
		slug:      Slugify(name),
		createdAt: time.Now(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

func (o *Organization) ID() uuid.UUID {
	return o.id
}

func (o *Organization) Name() string {
	return o.name
}

func (o *Organization) Slug() string {
	return o.slug
}

func (o *Organization) CreatedAt() time.Time {
	return o.createdAt
}

var slugStrip = regexp.MustCompile(`[^a-z0-9]+`)

func Slugify(name string) string {
	return strings.Trim(slugStrip.ReplaceAllString(strings.ToLower(name), "-"), "-")
}

type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Organization, error)
	GetBySlug(ctx context.Context, slug string) (*Organization, error)
	List(ctx context.Context) ([]*Organization, error)
	Create(ctx context.Context, o *Organization) (*Organization, error)
}
