package split

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Base is the job amount pair every non-carved share is computed from.
type Base struct {
	DealAmount         decimal.Decimal
	WeightedDealAmount decimal.Decimal
}

// Input describes one participant. Role is free-form and empty means lead.
// Nil SplitPercent counts as zero. A non-nil TotalDeal or WeightedDeal
// replaces the computed figure in the output.
type Input struct {
	TeammateName   string           `json:"teammate_name" validate:"required"`
	TeammateStatus string           `json:"teammate_status"`
	Role           Role             `json:"role" validate:"max=64"`
	SplitPercent   *decimal.Decimal `json:"split_percent"`
	TotalDeal      *decimal.Decimal `json:"total_deal"`
	WeightedDeal   *decimal.Decimal `json:"weighted_deal"`
}

// Allocation is the computed share for the Input at the same index.
type Allocation struct {
	Input        Input
	Role         Role
	TotalDeal    decimal.Decimal
	WeightedDeal decimal.Decimal
	// Carved is set when the share was taken from the accumulated lead amounts.
	Carved bool
}

// Allocate runs the waterfall in input order. A secondary that follows at
// least one lead is paid from the lead totals accumulated so far; every other
// row is paid from base. Leads add their unrounded share to the accumulators;
// only the emitted amounts are rounded to cents.
func Allocate(base Base, inputs []Input) []Allocation {
	out := make([]Allocation, 0, len(inputs))
	leadTotal := decimal.Zero
	leadWeightedTotal := decimal.Zero

	for _, in := range inputs {
		role := in.Role
		if role == "" {
			role = RoleLead
		}
		p := decimal.Zero
		if in.SplitPercent != nil {
			p = in.SplitPercent.Div(hundred)
		}

		a := Allocation{Input: in, Role: role}
		if role == RoleSecondary && leadTotal.GreaterThan(decimal.Zero) {
			a.TotalDeal = leadTotal.Mul(p).Round(2)
			a.WeightedDeal = leadWeightedTotal.Mul(p).Round(2)
			a.Carved = true
		} else {
			total := base.DealAmount.Mul(p)
			weighted := base.WeightedDealAmount.Mul(p)
			a.TotalDeal = total.Round(2)
			a.WeightedDeal = weighted.Round(2)
			if role == RoleLead {
				leadTotal = leadTotal.Add(total)
				leadWeightedTotal = leadWeightedTotal.Add(weighted)
			}
		}

		if in.TotalDeal != nil {
			a.TotalDeal = *in.TotalDeal
		}
		if in.WeightedDeal != nil {
			a.WeightedDeal = *in.WeightedDeal
		}
		out = append(out, a)
	}
	return out
}

// ToSplits assigns ordinal positions starting at 1.
func ToSplits(jobID uuid.UUID, allocations []Allocation) []Split {
	splits := make([]Split, 0, len(allocations))
	for i, a := range allocations {
		s := Split{
			ID:             uuid.New(),
			JobID:          jobID,
			Position:       i + 1,
			TeammateName:   a.Input.TeammateName,
			TeammateStatus: a.Input.TeammateStatus,
			Role:           a.Role,
			TotalDeal:      a.TotalDeal,
			WeightedDeal:   a.WeightedDeal,
		}
		if a.Input.SplitPercent != nil {
			s.SplitPercent = decimal.NewNullDecimal(*a.Input.SplitPercent)
		}
		splits = append(splits, s)
	}
	return splits
}
