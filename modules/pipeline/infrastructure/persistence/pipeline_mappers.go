package persistence

import (
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/iota-uz/recruiting-crm/modules/pipeline/domain/aggregates/candidate"
	"github.com/iota-uz/recruiting-crm/modules/pipeline/domain/entities/history"
	"github.com/iota-uz/recruiting-crm/modules/pipeline/domain/entities/status"
	"github.com/iota-uz/recruiting-crm/modules/pipeline/infrastructure/persistence/models"
)

func toDBUUID(id uuid.UUID) pgtype.UUID {
	return pgtype.UUID{Bytes: id, Valid: id != uuid.Nil}
}

func fromDBUUID(id pgtype.UUID) uuid.UUID {
	if !id.Valid {
		return uuid.Nil
	}
	return id.Bytes
}

func toDBText(s string) pgtype.Text {
	return pgtype.Text{String: s, Valid: s != ""}
}

func toDomainStatus(m *models.Status) *status.Status {
	return status.New(
		m.Name,
		m.OrderIndex,
		status.WithID(fromDBUUID(m.ID)),
		status.WithTerminal(m.IsTerminal),
		status.WithCreatedAt(m.CreatedAt),
	)
}

func toDomainCandidate(m *models.Candidate) candidate.Candidate {
	flags, skills := m.Flags, m.Skills
	if flags == nil {
		flags = []string{}
	}
	if skills == nil {
		skills = []string{}
	}
	return candidate.New(
		m.Name,
		m.Email,
		fromDBUUID(m.CurrentStatusID),
		candidate.WithID(fromDBUUID(m.ID)),
		candidate.WithPhone(m.Phone.String),
		candidate.WithJobRequisitionID(fromDBUUID(m.JobRequisitionID)),
		candidate.WithFlags(flags),
		candidate.WithSkills(skills),
		candidate.WithNotes(m.Notes.String),
		candidate.WithCreatedAt(m.CreatedAt),
	)
}

func toDomainHistory(m *models.HistoryEntry) history.View {
	return history.View{
		Entry: history.Entry{
			ID:           fromDBUUID(m.ID),
			CandidateID:  fromDBUUID(m.CandidateID),
			FromStatusID: fromDBUUID(m.FromStatusID),
			ToStatusID:   fromDBUUID(m.ToStatusID),
			ChangeDate:   m.ChangeDate,
			ChangedBy:    m.ChangedBy,
		},
		FromStatusName: m.FromStatusName.String,
		ToStatusName:   m.ToStatusName.String,
	}
}
