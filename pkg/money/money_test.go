package money

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestRound2_HalfUp(t *testing.T) {
	cases := map[string]string{
		"2.495":   "2.50",
		"2.494":   "2.49",
		"0.005":   "0.01",
		"99.999":  "100.00",
		"33.3333": "33.33",
	}
	for in, want := range cases {
		got := Round2(decimal.RequireFromString(in))
		assert.Equal(t, want, got.StringFixed(2), "round %s", in)
	}
}

func TestParse_DefensiveDefaults(t *testing.T) {
	assert.True(t, Parse("").IsZero())
	assert.True(t, Parse("not-a-number").IsZero())
	assert.Equal(t, "12.50", Parse(" 12.5 ").StringFixed(2))
}

func TestPercent(t *testing.T) {
	got := Percent(decimal.RequireFromString("200"), decimal.RequireFromString("18"))
	assert.Equal(t, "36.00", got.StringFixed(2))
}

func TestWithinCent(t *testing.T) {
	a := decimal.RequireFromString("99.99")
	b := decimal.RequireFromString("100.00")
	assert.True(t, WithinCent(a, b))
	assert.False(t, WithinCent(a, decimal.RequireFromString("100.01")))
}
