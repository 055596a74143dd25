package history

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Entry is one row of a candidate's status trail. FromStatusID is uuid.Nil for
// the entry written when the candidate was created.
type Entry struct {
	ID           uuid.UUID
	CandidateID  uuid.UUID
	FromStatusID uuid.UUID
	ToStatusID   uuid.UUID
	ChangeDate   time.Time
	ChangedBy    string
}

// View is an Entry with the status names resolved.
type View struct {
	Entry
	FromStatusName string
	ToStatusName   string
}

type MonthlyPlacements struct {
	Month      time.Time
	StatusName string
	Count      int64
}

type Repository interface {
	// Append stores e. ChangeDate is taken from the database clock at insert
	// time, after any row lock was granted, so it orders entries of one candidate.
	Append(ctx context.Context, e Entry) (Entry, error)
	ListByCandidate(ctx context.Context, candidateID uuid.UUID) ([]View, error)
	// PlacementsByMonth counts transitions into terminal statuses, newest month first.
	PlacementsByMonth(ctx context.Context) ([]MonthlyPlacements, error)
}
