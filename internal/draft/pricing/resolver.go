// Package pricing computes a single block's tax-aware line total.
//
// The resolver is a pure function of (effective price, effective quantity,
// tax rate, tax inclusion). It never decomposes inclusive totals into base
// and tax; that is the aggregator's job.
package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/fieldserve/contractbill/internal/draft/domain"
	"github.com/fieldserve/contractbill/pkg/money"
)

// Validate checks the block's locally-editable fields without touching totals.
func Validate(b *domain.ConfigurableBlock) error {
	if !b.Unlimited && b.Quantity < 1 {
		return domain.ErrInvalidQuantity
	}
	if b.Cycle == domain.CycleCustom && (b.CustomCycleDays == nil || *b.CustomCycleDays <= 0) {
		return domain.ErrInvalidCycleConfig
	}
	return nil
}

// Resolve returns the block's line total. Idempotent: unchanged inputs yield
// the same value. Amounts are rounded to 2 decimals half-up after each
// multiplication, not before.
func Resolve(b *domain.ConfigurableBlock) (decimal.Decimal, error) {
	if err := Validate(b); err != nil {
		return decimal.Zero, err
	}
	if !b.HasPricing {
		return decimal.Zero, nil
	}

	price := b.EffectivePrice()
	qty := decimal.NewFromInt(int64(b.EffectiveQuantity()))

	if b.TaxRate.IsZero() || b.TaxInclusion == domain.TaxInclusive {
		// Inclusive prices already contain tax; no re-addition.
		return money.Round2(price.Mul(qty)), nil
	}

	unitTax := money.Round2(money.Percent(price, b.TaxRate))
	return money.Round2(price.Add(unitTax).Mul(qty)), nil
}

// Recompute validates the block and stores the refreshed derived total.
// Non-priced categories are pinned to zero total and zero tax rate.
func Recompute(b *domain.ConfigurableBlock) error {
	total, err := Resolve(b)
	if err != nil {
		return err
	}
	if !b.HasPricing {
		b.TaxRate = decimal.Zero
		b.Taxes = nil
	}
	b.TotalPrice = total
	return nil
}
