package events

import (
	"time"

	"github.com/google/uuid"
)

const TopicInviteRedeemedV1 = "invites.invite.redeemed.v1"

type InviteRedeemedV1 struct {
	InviteID       uuid.UUID `json:"invite_id"`
	OrganizationID uuid.UUID `json:"organization_id"`
	UserID         uuid.UUID `json:"user_id"`
	ExternalID     string    `json:"external_id"`
	Role           string    `json:"role"`
	UsedCount      int       `json:"used_count"`
	MaxUses        int       `json:"max_uses"`
	Status         string    `json:"status"`
	RedeemedAt     time.Time `json:"redeemed_at"`
}
