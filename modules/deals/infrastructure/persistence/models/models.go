package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type Job struct {
	ID                 uuid.UUID
	Title              string
	Department         pgtype.Text
	Location           pgtype.Text
	Status             string
	DealAmount         pgtype.Numeric
	WeightedDealAmount pgtype.Numeric
	CreatedAt          time.Time
}

type Split struct {
	ID             uuid.UUID
	JobID          uuid.UUID
	Position       int
	TeammateName   string
	TeammateStatus pgtype.Text
	Role           string
	SplitPercent   pgtype.Numeric
	TotalDeal      pgtype.Numeric
	WeightedDeal   pgtype.Numeric
	CreatedAt      time.Time
}
