package models

import (
	"time"

	"github.com/jackc/pgx/v5/pgtype"
)

type Status struct {
	ID         pgtype.UUID
	Name       string
	OrderIndex int
	IsTerminal bool
	CreatedAt  time.Time
}

type Candidate struct {
	ID               pgtype.UUID
	Name             string
	Email            string
	Phone            pgtype.Text
	CurrentStatusID  pgtype.UUID
	JobRequisitionID pgtype.UUID
	Flags            []string
	Skills           []string
	Notes            pgtype.Text
	CreatedAt        time.Time
}

type HistoryEntry struct {
	ID             pgtype.UUID
	CandidateID    pgtype.UUID
	FromStatusID   pgtype.UUID
	ToStatusID     pgtype.UUID
	ChangeDate     time.Time
	ChangedBy      string
	FromStatusName pgtype.Text
	ToStatusName   pgtype.Text
}
