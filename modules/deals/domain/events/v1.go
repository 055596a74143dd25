package events

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const TopicSplitsReplacedV1 = "deals.splits.replaced.v1"

type SplitV1 struct {
	Position     int             `json:"position"`
	TeammateName string          `json:"teammate_name"`
	Role         string          `json:"role"`
	TotalDeal    decimal.Decimal `json:"total_deal"`
	WeightedDeal decimal.Decimal `json:"weighted_deal"`
}

type SplitsReplacedV1 struct {
	JobID     uuid.UUID `json:"job_id"`
	Removed   int64     `json:"removed"`
	Splits    []SplitV1 `json:"splits"`
	ChangedBy string    `json:"changed_by"`
}
