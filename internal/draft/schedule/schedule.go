// Package schedule derives the contract payment plan from the aggregated
// billable blocks and the draft's declared payment mode.
package schedule

import (
	"github.com/shopspring/decimal"

	"github.com/fieldserve/contractbill/internal/draft/domain"
	"github.com/fieldserve/contractbill/pkg/money"
)

// cyclePriority is the fixed emission order for cycle group breakdowns.
var cyclePriority = []domain.Cycle{
	domain.CyclePrepaid,
	domain.CycleMonthly,
	domain.CycleFortnightly,
	domain.CycleQuarterly,
	domain.CycleCustom,
	domain.CyclePostpaid,
}

// Build produces the payment plan for the given billable blocks.
//
// EMI divides the grand total into equal installments. The per-installment
// amount is not reconciled against the grand total: 100.00 over 3 months
// yields 33.33 x 3 = 99.99 and the missing cent is not re-absorbed into the
// last installment. This mirrors the authoring workflow's display behavior.
//
// An empty block set yields a zero plan, never an error.
func Build(blocks []domain.ConfigurableBlock, mode domain.PaymentMode, emiMonths int) (domain.PaymentPlan, error) {
	if !mode.Valid() {
		return domain.PaymentPlan{}, domain.ErrInvalidPaymentMode
	}

	grand := decimal.Zero
	for i := range blocks {
		if blocks[i].HasPricing {
			grand = grand.Add(blocks[i].TotalPrice)
		}
	}
	grand = money.Round2(grand)

	plan := domain.PaymentPlan{Mode: mode, GrandTotal: grand}

	switch mode {
	case domain.PaymentModePrepaid:
		// Single upfront payment covering the grand total; no breakdown.
		return plan, nil

	case domain.PaymentModeEMI:
		if emiMonths <= 0 {
			return domain.PaymentPlan{}, domain.ErrInvalidEmiConfig
		}
		plan.EMIMonths = emiMonths
		plan.Installment = grand.DivRound(decimal.NewFromInt(int64(emiMonths)), 2)
		return plan, nil

	default:
		// defined and mixed share the cycle grouping algorithm.
		plan.CycleGroups = groupByCycle(blocks)
		return plan, nil
	}
}

func groupByCycle(blocks []domain.ConfigurableBlock) []domain.CycleGroup {
	totals := map[domain.Cycle]*domain.CycleGroup{}
	for i := range blocks {
		b := &blocks[i]
		if !b.HasPricing {
			continue
		}
		g, ok := totals[b.Cycle]
		if !ok {
			g = &domain.CycleGroup{
				Cycle:       b.Cycle,
				Label:       b.Cycle.Label(),
				Total:       decimal.Zero,
				IsRecurring: b.Cycle.Recurring(),
			}
			totals[b.Cycle] = g
		}
		g.Total = g.Total.Add(b.TotalPrice)
		g.BlockCount++
	}

	out := make([]domain.CycleGroup, 0, len(totals))
	for _, cycle := range cyclePriority {
		if g, ok := totals[cycle]; ok {
			g.Total = money.Round2(g.Total)
			out = append(out, *g)
		}
	}
	return out
}
