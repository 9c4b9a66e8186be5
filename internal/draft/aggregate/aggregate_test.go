package aggregate

import (
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fieldserve/contractbill/internal/draft/domain"
	"github.com/fieldserve/contractbill/internal/draft/pricing"
	"github.com/fieldserve/contractbill/pkg/money"
)

func billable(price string, qty int, inclusion domain.TaxInclusion, components ...domain.TaxComponent) domain.ConfigurableBlock {
	b := domain.ConfigurableBlock{
		Name:         "Service Visit",
		Category:     domain.CategoryService,
		HasPricing:   true,
		Quantity:     qty,
		Price:        decimal.RequireFromString(price),
		Currency:     "USD",
		TaxInclusion: inclusion,
		Cycle:        domain.CyclePrepaid,
	}
	if err := b.SetTaxComponents(components); err != nil {
		panic(err)
	}
	if err := pricing.Recompute(&b); err != nil {
		panic(err)
	}
	return b
}

func gst(rate string) domain.TaxComponent {
	return domain.TaxComponent{Name: "GST", Rate: decimal.RequireFromString(rate)}
}

func TestAggregate_ExclusiveIdentity(t *testing.T) {
	blocks := []domain.ConfigurableBlock{
		billable("100", 2, domain.TaxExclusive, gst("18")),
		billable("50", 1, domain.TaxExclusive, gst("18")),
	}

	totals := Aggregate(blocks, ScopeContract())
	assert.Equal(t, "250.00", totals.Subtotal.StringFixed(2))
	require.Len(t, totals.TaxBreakdown, 1)
	assert.Equal(t, "45.00", totals.TaxBreakdown[0].Amount.StringFixed(2))
	assert.Equal(t, "295.00", totals.GrandTotal.StringFixed(2))
	assert.Equal(t, 2, totals.BillableCount)

	// grandTotal == subtotal + sum(taxBreakdown.amount)
	sum := totals.Subtotal
	for _, line := range totals.TaxBreakdown {
		sum = sum.Add(line.Amount)
	}
	assert.True(t, money.WithinCent(sum, totals.GrandTotal))
}

func TestAggregate_InclusiveDecomposition(t *testing.T) {
	// price=118 inclusive of 18% -> base 100.00, tax 18.00, total 118.00
	blocks := []domain.ConfigurableBlock{
		billable("118", 1, domain.TaxInclusive, gst("18")),
	}

	totals := Aggregate(blocks, ScopeContract())
	assert.Equal(t, "100.00", totals.Subtotal.StringFixed(2))
	require.Len(t, totals.TaxBreakdown, 1)
	assert.Equal(t, "18.00", totals.TaxBreakdown[0].Amount.StringFixed(2))
	assert.Equal(t, "118.00", totals.GrandTotal.StringFixed(2))
}

func TestAggregate_MultiComponentBreakdown(t *testing.T) {
	cgst := domain.TaxComponent{Name: "CGST", Rate: decimal.RequireFromString("9")}
	sgst := domain.TaxComponent{Name: "SGST", Rate: decimal.RequireFromString("9")}
	blocks := []domain.ConfigurableBlock{
		billable("100", 1, domain.TaxExclusive, cgst, sgst),
		billable("200", 1, domain.TaxExclusive, cgst, sgst),
	}

	totals := Aggregate(blocks, ScopeContract())
	require.Len(t, totals.TaxBreakdown, 2)
	assert.Equal(t, "CGST", totals.TaxBreakdown[0].Name)
	assert.Equal(t, "27.00", totals.TaxBreakdown[0].Amount.StringFixed(2))
	assert.Equal(t, "SGST", totals.TaxBreakdown[1].Name)
	assert.Equal(t, "27.00", totals.TaxBreakdown[1].Amount.StringFixed(2))
	assert.Equal(t, "354.00", totals.GrandTotal.StringFixed(2))
}

func TestAggregate_SkipsNonBillable(t *testing.T) {
	text := domain.ConfigurableBlock{
		Name:     "Scope of Work",
		Category: domain.CategoryText,
	}
	blocks := []domain.ConfigurableBlock{
		text,
		billable("100", 1, domain.TaxExclusive),
	}

	totals := Aggregate(blocks, ScopeContract())
	assert.Equal(t, 1, totals.BillableCount)
	assert.Equal(t, "100.00", totals.GrandTotal.StringFixed(2))
}

func TestAggregate_ZeroRateContributesNoTax(t *testing.T) {
	blocks := []domain.ConfigurableBlock{
		billable("75.50", 2, domain.TaxExclusive),
	}

	totals := Aggregate(blocks, ScopeContract())
	assert.Equal(t, "151.00", totals.Subtotal.StringFixed(2))
	assert.Empty(t, totals.TaxBreakdown)
	assert.Equal(t, "151.00", totals.GrandTotal.StringFixed(2))
}

func TestAggregate_GroupScope(t *testing.T) {
	groupA := snowflake.ID(1)
	groupB := snowflake.ID(2)

	inA := billable("100", 1, domain.TaxExclusive)
	inA.CoverageGroupID = &groupA
	inB := billable("900", 1, domain.TaxExclusive)
	inB.CoverageGroupID = &groupB

	totals := Aggregate([]domain.ConfigurableBlock{inA, inB}, ScopeGroup(groupA))
	assert.Equal(t, 1, totals.BillableCount)
	assert.Equal(t, "100.00", totals.GrandTotal.StringFixed(2))
}

func TestAggregate_EmptySet(t *testing.T) {
	totals := Aggregate(nil, ScopeContract())
	assert.True(t, totals.Subtotal.IsZero())
	assert.True(t, totals.GrandTotal.IsZero())
	assert.Empty(t, totals.TaxBreakdown)
	assert.Zero(t, totals.BillableCount)
}

func TestStats(t *testing.T) {
	groupA := snowflake.ID(1)
	groups := []domain.CoverageType{{ID: groupA, SubCategory: "hvac", ResourceName: "Chiller"}}

	inA := billable("100", 1, domain.TaxExclusive)
	inA.CoverageGroupID = &groupA
	flat := billable("40", 1, domain.TaxExclusive)

	stats := Stats([]domain.ConfigurableBlock{inA, flat}, groups)
	require.Len(t, stats, 2)
	assert.Equal(t, 1, stats[0].Count)
	assert.Equal(t, "100.00", stats[0].Subtotal.StringFixed(2))
	assert.Nil(t, stats[1].GroupID)
	assert.Equal(t, "40.00", stats[1].Subtotal.StringFixed(2))
}
