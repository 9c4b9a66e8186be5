package domain

import (
	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

// TaxLine is one accumulated tax component across the scoped blocks.
type TaxLine struct {
	Key    string          `json:"key"`
	Name   string          `json:"name"`
	Rate   decimal.Decimal `json:"rate"`
	Amount decimal.Decimal `json:"amount"`
}

// Totals is the contract-level financial view derived from the block
// collection on demand.
type Totals struct {
	Subtotal      decimal.Decimal `json:"subtotal"`
	TaxBreakdown  []TaxLine       `json:"tax_breakdown"`
	GrandTotal    decimal.Decimal `json:"grand_total"`
	BillableCount int             `json:"billable_count"`
}

// GroupStats is the per-coverage-group summary (block count and subtotal).
type GroupStats struct {
	GroupID  *snowflake.ID   `json:"group_id,omitempty"`
	Count    int             `json:"count"`
	Subtotal decimal.Decimal `json:"subtotal"`
}

// CycleGroup is one emitted payment group in a defined/mixed plan.
type CycleGroup struct {
	Cycle       Cycle           `json:"cycle"`
	Label       string          `json:"label"`
	Total       decimal.Decimal `json:"total"`
	BlockCount  int             `json:"block_count"`
	IsRecurring bool            `json:"is_recurring"`
}

// PaymentPlan is the contract-level payment schedule.
type PaymentPlan struct {
	Mode        PaymentMode     `json:"mode"`
	GrandTotal  decimal.Decimal `json:"grand_total"`
	EMIMonths   int             `json:"emi_months,omitempty"`
	Installment decimal.Decimal `json:"installment,omitempty"`
	CycleGroups []CycleGroup    `json:"cycle_groups,omitempty"`
}
