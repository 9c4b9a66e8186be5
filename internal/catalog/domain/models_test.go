package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	draftdomain "github.com/fieldserve/contractbill/internal/draft/domain"
)

func record(currency string, active bool, amount string) PricingRecord {
	return PricingRecord{
		Currency: currency,
		Amount:   decimal.RequireFromString(amount),
		IsActive: active,
	}
}

func TestSelectPricingRecord_PrefersActiveCurrencyMatch(t *testing.T) {
	records := []PricingRecord{
		record("EUR", true, "90"),
		record("USD", true, "100"),
		record("USD", false, "80"),
	}
	got := SelectPricingRecord(records, "USD")
	require.NotNil(t, got)
	assert.Equal(t, "USD", got.Currency)
	assert.True(t, got.IsActive)
	assert.Equal(t, "100.00", got.Amount.StringFixed(2))
}

func TestSelectPricingRecord_FallsBackToAnyActive(t *testing.T) {
	records := []PricingRecord{
		record("USD", false, "80"),
		record("EUR", true, "90"),
	}
	got := SelectPricingRecord(records, "USD")
	require.NotNil(t, got)
	assert.Equal(t, "EUR", got.Currency)
}

func TestSelectPricingRecord_FallsBackToFirst(t *testing.T) {
	records := []PricingRecord{
		record("USD", false, "80"),
		record("EUR", false, "90"),
	}
	got := SelectPricingRecord(records, "GBP")
	require.NotNil(t, got)
	assert.Equal(t, "USD", got.Currency)

	assert.Nil(t, SelectPricingRecord(nil, "USD"))
}

func TestDefaultCycle(t *testing.T) {
	def := BlockDefinition{}
	cycle, days := def.DefaultCycle()
	assert.Equal(t, draftdomain.CyclePrepaid, cycle)
	assert.Nil(t, days)

	ninety := 90
	def.ServiceCycleDays = &ninety
	cycle, days = def.DefaultCycle()
	assert.Equal(t, draftdomain.CycleCustom, cycle)
	require.NotNil(t, days)
	assert.Equal(t, 90, *days)
}
