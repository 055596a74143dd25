package job

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/iota-uz/recruiting-crm/pkg/serrors"
)

var ErrNotFound = serrors.NewNotFound("JOB_NOT_FOUND", "job requisition not found", "Errors.JobNotFound")

type Status string

const (
	StatusOpen   Status = "open"
	StatusOnHold Status = "on_hold"
	StatusClosed Status = "closed"
)

// Job is a requisition whose deal amounts seed split allocation. Unset
// amounts are invalid NullDecimals.
type Job struct {
	id                 uuid.UUID
	title              string
	department         string
	location           string
	status             Status
	dealAmount         decimal.NullDecimal
	weightedDealAmount decimal.NullDecimal
	createdAt          time.Time
}

type Option func(*Job)

func WithID(id uuid.UUID) Option {
	return func(j *Job) {
		j.id = id
	}
}

func WithDepartment(department string) Option {
	return func(j *Job) {
		j.department = department
	}
}

func WithLocation(location string) Option {
	return func(j *Job) {
		j.location = location
	}
}

func WithStatus(s Status) Option {
	return func(j *Job) {
		j.status = s
	}
}

func WithDealAmount(amount decimal.NullDecimal) Option {
	return func(j *Job) {
		j.dealAmount = amount
	}
}

func WithWeightedDealAmount(amount decimal.NullDecimal) Option {
	return func(j *Job) {
		j.weightedDealAmount = amount
	}
}

func WithCreatedAt(t time.Time) Option {
	return func(j *Job) {
		j.createdAt = t
	}
}

func New(title string, opts ...Option) *Job {
	j := &Job{
		id:        uuid.New(),
		title:     title,
		status:    StatusOpen,
		createdAt: time.Now(),
	}
	for _, opt := range opts {
		opt(j)
	}
	return j
}

func (j *Job) ID() uuid.UUID {
	return j.id
}

func (j *Job) Title() string {
	return j.title
}

func (j *Job) Department() string {
	return j.department
}

func (j *Job) Location() string {
	return j.location
}

func (j *Job) Status() Status {
	return j.status
}

func (j *Job) DealAmount() decimal.NullDecimal {
	return j.dealAmount
}

func (j *Job) WeightedDealAmount() decimal.NullDecimal {
	return j.weightedDealAmount
}

func (j *Job) CreatedAt() time.Time {
	return j.createdAt
}

type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Job, error)
	// LockByID reads the job with SELECT ... FOR UPDATE inside the
	// transaction carried by ctx.
	LockByID(ctx context.Context, id uuid.UUID) (*Job, error)
	List(ctx context.Context) ([]*Job, error)
	Create(ctx context.Context, j *Job) (*Job, error)
}
