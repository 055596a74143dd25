package status

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/iota-uz/recruiting-crm/pkg/serrors"
)

var ErrNotFound = serrors.NewNotFound("STATUS_NOT_FOUND", "status not found", "Errors.StatusNotFound")

// Status is a configurable pipeline stage. OrderIndex only drives display
// order; any status may follow any other.
type Status struct {
	id         uuid.UUID
	name       string
	orderIndex int
	isTerminal bool
	createdAt  time.Time
}

type Option func(*Status)

func WithID(id uuid.UUID) Option {
	return func(s *Status) {
		s.id = id
	}
}

func WithTerminal(terminal bool) Option {
	return func(s *Status) {
		s.isTerminal = terminal
	}
}

func WithCreatedAt(t time.Time) Option {
	return func(s *Status) {
		s.createdAt = t
	}
}

func New(name string, orderIndex int, opts ...Option) *Status {
	s := &Status{
		id:         uuid.New(),
		name:       name,
		orderIndex: orderIndex,
		createdAt:  time.Now(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Status) ID() uuid.UUID {
	return s.id
}

func (s *Status) Name() string {
	return s.name
}

func (s *Status) OrderIndex() int {
	return s.orderIndex
}

// IsTerminal marks outcome stages such as Placed or Rejected.
func (s *Status) IsTerminal() bool {
	return s.isTerminal
}

func (s *Status) CreatedAt() time.Time {
	return s.createdAt
}

type Repository interface {
	List(ctx context.Context) ([]*Status, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Status, error)
	GetByName(ctx context.Context, name string) (*Status, error)
	// Upsert inserts s or updates the status that already has its name.
	Upsert(ctx context.Context, s *Status) (*Status, error)
}

// Defaults is the stage set installed on a fresh database.
func Defaults() []*Status {
	return []*Status{
		New("Sourced", 1),
		New("Screening", 2),
		New("Interviewing", 3),
		New("Offer Extended", 4),
		New("Placed", 5, WithTerminal(true)),
		New("Rejected", 6, WithTerminal(true)),
	}
}
