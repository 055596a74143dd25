package events

import (
	"time"

	"github.com/google/uuid"
)

const TopicCandidateMovedV1 = "pipeline.candidate.moved.v1"

type CandidateMovedV1 struct {
	CandidateID  uuid.UUID `json:"candidate_id"`
	HistoryID    uuid.UUID `json:"history_id"`
	FromStatusID uuid.UUID `json:"from_status_id"`
	ToStatusID   uuid.UUID `json:"to_status_id"`
	ToStatusName string    `json:"to_status_name"`
	IsTerminal   bool      `json:"is_terminal"`
	ChangedBy    string    `json:"changed_by"`
	ChangedAt    time.Time `json:"changed_at"`
}
