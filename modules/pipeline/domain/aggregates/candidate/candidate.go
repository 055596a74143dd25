package candidate

import (
	"time"

	"github.com/google/uuid"
)

type Candidate interface {
	ID() uuid.UUID
	Name() string
	Email() string
	Phone() string
	CurrentStatusID() uuid.UUID
	JobRequisitionID() uuid.UUID
	Flags() []string
	Skills() []string
	Notes() string
	CreatedAt() time.Time

	// MoveTo returns a copy positioned on statusID. Nothing else changes.
	MoveTo(statusID uuid.UUID) Candidate
}

type Option func(c *candidate)

func WithID(id uuid.UUID) Option {
	return func(c *candidate) {
		c.id = id
	}
}

func WithPhone(phone string) Option {
	return func(c *candidate) {
		c.phone = phone
	}
}

// WithJobRequisitionID links the candidate to an opening; uuid.Nil means none.
func WithJobRequisitionID(id uuid.UUID) Option {
	return func(c *candidate) {
		c.jobRequisitionID = id
	}
}

func WithFlags(flags []string) Option {
	return func(c *candidate) {
		c.flags = flags
	}
}

func WithSkills(skills []string) Option {
	return func(c *candidate) {
		c.skills = skills
	}
}

func WithNotes(notes string) Option {
	return func(c *candidate) {
		c.notes = notes
	}
}

func WithCreatedAt(t time.Time) Option {
	return func(c *candidate) {
		c.createdAt = t
	}
}

func New(name, email string, statusID uuid.UUID, opts ...Option) Candidate {
	c := &candidate{
		id:              uuid.New(),
		name:            name,
		email:           email,
		currentStatusID: statusID,
		flags:           []string{},
		skills:          []string{},
		createdAt:       time.Now(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type candidate struct {
	id               uuid.UUID
	name             string
	email            string
	phone            string
	currentStatusID  uuid.UUID
	jobRequisitionID uuid.UUID
	flags            []string
	skills           []string
	notes            string
	createdAt        time.Time
}

func (c *candidate) ID() uuid.UUID {
	return c.id
}

func (c *candidate) Name() string {
	return c.name
}

func (c *candidate) Email() string {
	return c.email
}

func (c *candidate) Phone() string {
	return c.phone
}

func (c *candidate) CurrentStatusID() uuid.UUID {
	return c.currentStatusID
}

func (c *candidate) JobRequisitionID() uuid.UUID {
	return c.jobRequisitionID
}

func (c *candidate) Flags() []string {
	return c.flags
}

func (c *candidate) Skills() []string {
	return c.skills
}

func (c *candidate) Notes() string {
	return c.notes
}

func (c *candidate) CreatedAt() time.Time {
	return c.createdAt
}

func (c *candidate) MoveTo(statusID uuid.UUID) Candidate {
	moved := *c
	moved.currentStatusID = statusID
	return &moved
}
