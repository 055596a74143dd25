package persistence

import (
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"

	"github.com/iota-uz/recruiting-crm/modules/deals/domain/aggregates/job"
	"github.com/iota-uz/recruiting-crm/modules/deals/domain/entities/split"
	"github.com/iota-uz/recruiting-crm/modules/deals/infrastructure/persistence/models"
)

func numericFromDecimal(d decimal.Decimal) (pgtype.Numeric, error) {
	var num pgtype.Numeric
	if err := num.Scan(d.String()); err != nil {
		return pgtype.Numeric{}, err
	}
	return num, nil
}

func numericFromNullDecimal(d decimal.NullDecimal) (pgtype.Numeric, error) {
	if !d.Valid {
		return pgtype.Numeric{}, nil
	}
	return numericFromDecimal(d.Decimal)
}

func decimalFromNumeric(n pgtype.Numeric) decimal.NullDecimal {
	if !n.Valid || n.NaN || n.Int == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(decimal.NewFromBigInt(n.Int, n.Exp))
}

func textFromString(s string) pgtype.Text {
	return pgtype.Text{String: s, Valid: s != ""}
}

func toDomainJob(m *models.Job) *job.Job {
	return job.New(
		m.Title,
		job.WithID(m.ID),
		job.WithDepartment(m.Department.String),
		job.WithLocation(m.Location.String),
		job.WithStatus(job.Status(m.Status)),
		job.WithDealAmount(decimalFromNumeric(m.DealAmount)),
		job.WithWeightedDealAmount(decimalFromNumeric(m.WeightedDealAmount)),
		job.WithCreatedAt(m.CreatedAt),
	)
}

func toDomainSplit(m *models.Split) split.Split {
	return split.Split{
		ID:             m.ID,
		JobID:          m.JobID,
		Position:       m.Position,
		TeammateName:   m.TeammateName,
		TeammateStatus: m.TeammateStatus.String,
		Role:           split.Role(m.Role),
		SplitPercent:   decimalFromNumeric(m.SplitPercent),
		TotalDeal:      decimalFromNumeric(m.TotalDeal).Decimal,
		WeightedDeal:   decimalFromNumeric(m.WeightedDeal).Decimal,
		CreatedAt:      m.CreatedAt,
	}
}

func toDBSplit(s split.Split) (*models.Split, error) {
	percent, err := numericFromNullDecimal(s.SplitPercent)
	if err != nil {
		return nil, err
	}
	total, err := numericFromDecimal(s.TotalDeal)
	if err != nil {
		return nil, err
	}
	weighted, err := numericFromDecimal(s.WeightedDeal)
	if err != nil {
		return nil, err
	}
	return &models.Split{
		ID:             s.ID,
		JobID:          s.JobID,
		Position:       s.Position,
		TeammateName:   s.TeammateName,
		TeammateStatus: textFromString(s.TeammateStatus),
		Role:           string(s.Role),
		SplitPercent:   percent,
		TotalDeal:      total,
		WeightedDeal:   weighted,
	}, nil
}
