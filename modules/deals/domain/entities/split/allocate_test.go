package split_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/iota-uz/recruiting-crm/modules/deals/domain/entities/split"
)

func pct(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func base(deal, weighted int64) split.Base {
	return split.Base{
		DealAmount:         decimal.NewFromInt(deal),
		WeightedDealAmount: decimal.NewFromInt(weighted),
	}
}

func requireAmount(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	require.Truef(t, decimal.RequireFromString(want).Equal(got), "want %s, got %s", want, got)
}

func TestAllocate_LeadThenSecondary(t *testing.T) {
	out := split.Allocate(base(100000, 50000), []split.Input{
		{TeammateName: "Lee", Role: split.RoleLead, SplitPercent: pct("60")},
		{TeammateName: "Sam", Role: split.RoleSecondary, SplitPercent: pct("50")},
	})

	require.Len(t, out, 2)
	requireAmount(t, "60000", out[0].TotalDeal)
	requireAmount(t, "30000", out[0].WeightedDeal)
	requireAmount(t, "30000", out[1].TotalDeal)
	requireAmount(t, "15000", out[1].WeightedDeal)
	require.False(t, out[0].Carved)
	require.True(t, out[1].Carved)
}

func TestAllocate_SecondaryBeforeAnyLeadUsesBase(t *testing.T) {
	out := split.Allocate(base(100000, 50000), []split.Input{
		{TeammateName: "Sam", Role: split.RoleSecondary, SplitPercent: pct("10")},
		{TeammateName: "Lee", Role: split.RoleLead, SplitPercent: pct("40")},
		{TeammateName: "Kim", Role: split.RoleSecondary, SplitPercent: pct("25")},
	})

	requireAmount(t, "10000", out[0].TotalDeal)
	requireAmount(t, "5000", out[0].WeightedDeal)
	requireAmount(t, "40000", out[1].TotalDeal)
	requireAmount(t, "10000", out[2].TotalDeal)
	requireAmount(t, "5000", out[2].WeightedDeal)
}

func TestAllocate_LeadsAccumulate(t *testing.T) {
	out := split.Allocate(base(200000, 100000), []split.Input{
		{TeammateName: "A", SplitPercent: pct("30")},
		{TeammateName: "B", Role: split.RoleLead, SplitPercent: pct("20")},
		{TeammateName: "C", Role: split.RoleSecondary, SplitPercent: pct("50")},
	})

	require.Equal(t, split.RoleLead, out[0].Role)
	requireAmount(t, "50000", out[2].TotalDeal)
	requireAmount(t, "25000", out[2].WeightedDeal)
}

func TestAllocate_OverrideDoesNotFeedAccumulator(t *testing.T) {
	out := split.Allocate(base(100000, 50000), []split.Input{
		{TeammateName: "Lee", Role: split.RoleLead, SplitPercent: pct("60"), TotalDeal: pct("1"), WeightedDeal: pct("2")},
		{TeammateName: "Sam", Role: split.RoleSecondary, SplitPercent: pct("50")},
	})

	requireAmount(t, "1", out[0].TotalDeal)
	requireAmount(t, "2", out[0].WeightedDeal)
	requireAmount(t, "30000", out[1].TotalDeal)
	requireAmount(t, "15000", out[1].WeightedDeal)
}

func TestAllocate_MissingPercentAndUnsetBase(t *testing.T) {
	out := split.Allocate(split.Base{}, []split.Input{
		{TeammateName: "Lee", Role: split.RoleLead, SplitPercent: pct("100")},
		{TeammateName: "Sam", Role: split.RoleSecondary},
	})
	requireAmount(t, "0", out[0].TotalDeal)
	requireAmount(t, "0", out[1].TotalDeal)
	require.False(t, out[1].Carved)
}

func TestAllocate_NoSumValidation(t *testing.T) {
	out := split.Allocate(base(1000, 1000), []split.Input{
		{TeammateName: "A", SplitPercent: pct("80")},
		{TeammateName: "B", SplitPercent: pct("80")},
	})
	requireAmount(t, "800", out[0].TotalDeal)
	requireAmount(t, "800", out[1].TotalDeal)
}

func TestAllocate_RoundsToCents(t *testing.T) {
	out := split.Allocate(base(100, 100), []split.Input{
		{TeammateName: "A", SplitPercent: pct("33.3333")},
	})
	requireAmount(t, "33.33", out[0].TotalDeal)
}

func TestAllocate_LeadTotalsKeepFullPrecision(t *testing.T) {
	out := split.Allocate(base(1, 1), []split.Input{
		{TeammateName: "A", Role: split.RoleLead, SplitPercent: pct("0.5")},
		{TeammateName: "B", Role: split.RoleLead, SplitPercent: pct("0.5")},
		{TeammateName: "C", Role: split.RoleSecondary, SplitPercent: pct("100")},
	})

	requireAmount(t, "0.01", out[0].TotalDeal)
	requireAmount(t, "0.01", out[1].TotalDeal)
	requireAmount(t, "0.01", out[2].TotalDeal)
	requireAmount(t, "0.01", out[2].WeightedDeal)
}

func TestAllocate_OtherRoleDoesNotAccumulate(t *testing.T) {
	out := split.Allocate(base(100000, 50000), []split.Input{
		{TeammateName: "Lee", Role: split.RoleLead, SplitPercent: pct("60")},
		{TeammateName: "Ana", Role: "coordinator", SplitPercent: pct("10")},
		{TeammateName: "Sam", Role: split.RoleSecondary, SplitPercent: pct("50")},
	})

	require.Equal(t, split.Role("coordinator"), out[1].Role)
	require.False(t, out[1].Carved)
	requireAmount(t, "10000", out[1].TotalDeal)
	requireAmount(t, "5000", out[1].WeightedDeal)
	requireAmount(t, "30000", out[2].TotalDeal)
	requireAmount(t, "15000", out[2].WeightedDeal)
}

func TestAllocate_Empty(t *testing.T) {
	require.Empty(t, split.Allocate(base(100, 100), nil))
}

func TestToSplits(t *testing.T) {
	jobID := uuid.New()
	splits := split.ToSplits(jobID, split.Allocate(base(100, 50), []split.Input{
		{TeammateName: "A", SplitPercent: pct("50")},
		{TeammateName: "B", Role: split.RoleSecondary},
	}))

	require.Len(t, splits, 2)
	require.Equal(t, 1, splits[0].Position)
	require.Equal(t, 2, splits[1].Position)
	require.Equal(t, jobID, splits[1].JobID)
	require.True(t, splits[0].SplitPercent.Valid)
	require.False(t, splits[1].SplitPercent.Valid)
	require.Equal(t, split.RoleSecondary, splits[1].Role)
}
