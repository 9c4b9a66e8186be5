// Package aggregate sums line totals across a draft's billable blocks into a
// subtotal, a per-tax-component breakdown, and a grand total.
package aggregate

import (
	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"

	"github.com/fieldserve/contractbill/internal/draft/domain"
	"github.com/fieldserve/contractbill/pkg/money"
)

// Scope selects which blocks contribute: the whole contract or one coverage
// group (tab-scoped view).
type Scope struct {
	groupID *snowflake.ID
	grouped bool
}

// ScopeContract aggregates every billable block of the draft.
func ScopeContract() Scope { return Scope{} }

// ScopeGroup aggregates the blocks of a single coverage group.
func ScopeGroup(groupID snowflake.ID) Scope {
	return Scope{groupID: &groupID, grouped: true}
}

func (s Scope) includes(b *domain.ConfigurableBlock) bool {
	if !s.grouped {
		return true
	}
	return b.CoverageGroupID != nil && *b.CoverageGroupID == *s.groupID
}

// Aggregate computes the scoped totals. Inclusive totals are decomposed into
// base and tax here (the resolver never decomposes); exclusive bases
// accumulate as stored. Component amounts are computed on the base so the
// per-tax breakdown reconciles with the summed rate within rounding drift of
// one cent per component.
func Aggregate(blocks []domain.ConfigurableBlock, scope Scope) domain.Totals {
	base := decimal.Zero
	grand := decimal.Zero
	count := 0

	type bucket struct {
		line domain.TaxLine
	}
	buckets := map[string]*bucket{}
	var order []string

	for i := range blocks {
		b := &blocks[i]
		if !scope.includes(b) || !b.HasPricing {
			continue
		}
		count++
		grand = grand.Add(b.TotalPrice)

		qty := decimal.NewFromInt(int64(b.EffectiveQuantity()))
		lineAmount := b.EffectivePrice().Mul(qty)

		if b.TaxRate.IsZero() {
			base = base.Add(lineAmount)
			continue
		}

		var lineBase decimal.Decimal
		if b.TaxInclusion == domain.TaxInclusive {
			divisor := decimal.NewFromInt(1).Add(b.TaxRate.Div(decimal.NewFromInt(100)))
			lineBase = lineAmount.DivRound(divisor, 6)
		} else {
			lineBase = lineAmount
		}
		base = base.Add(lineBase)

		for _, component := range b.TaxComponents() {
			key := component.Name + "@" + component.Rate.String()
			bk, ok := buckets[key]
			if !ok {
				bk = &bucket{line: domain.TaxLine{Key: key, Name: component.Name, Rate: component.Rate}}
				buckets[key] = bk
				order = append(order, key)
			}
			bk.line.Amount = bk.line.Amount.Add(money.Percent(lineBase, component.Rate))
		}
	}

	breakdown := make([]domain.TaxLine, 0, len(order))
	for _, key := range order {
		line := buckets[key].line
		line.Amount = money.Round2(line.Amount)
		breakdown = append(breakdown, line)
	}

	return domain.Totals{
		Subtotal:      money.Round2(base),
		TaxBreakdown:  breakdown,
		GrandTotal:    money.Round2(grand),
		BillableCount: count,
	}
}

// Stats summarizes each coverage group plus the implicit flat group when
// un-grouped blocks exist. Subtotals are tax-aware line total sums.
func Stats(blocks []domain.ConfigurableBlock, groups []domain.CoverageType) []domain.GroupStats {
	out := make([]domain.GroupStats, 0, len(groups)+1)
	for i := range groups {
		id := groups[i].ID
		st := domain.GroupStats{GroupID: &id, Subtotal: decimal.Zero}
		for j := range blocks {
			if blocks[j].CoverageGroupID != nil && *blocks[j].CoverageGroupID == id {
				st.Count++
				st.Subtotal = st.Subtotal.Add(blocks[j].TotalPrice)
			}
		}
		st.Subtotal = money.Round2(st.Subtotal)
		out = append(out, st)
	}

	flat := domain.GroupStats{Subtotal: decimal.Zero}
	for j := range blocks {
		if blocks[j].CoverageGroupID == nil {
			flat.Count++
			flat.Subtotal = flat.Subtotal.Add(blocks[j].TotalPrice)
		}
	}
	if flat.Count > 0 {
		flat.Subtotal = money.Round2(flat.Subtotal)
		out = append(out, flat)
	}
	return out
}
