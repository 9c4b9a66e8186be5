// Package domain contains catalog block templates and per-currency pricing.
package domain

import (
	"encoding/json"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"

	draftdomain "github.com/fieldserve/contractbill/internal/draft/domain"
)

// BlockDefinition is an immutable catalog template a contract line can be
// attached from.
type BlockDefinition struct {
	ID          string          `gorm:"primaryKey;type:text"`
	Name        string          `gorm:"type:text;not null"`
	Category    string          `gorm:"type:text;not null"`
	Description string          `gorm:"type:text"`
	BasePrice   decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0"`
	// ServiceCycleDays drives the default cycle of new instances: set and
	// positive means a custom cycle with that many days, otherwise prepaid.
	ServiceCycleDays *int      `gorm:""`
	Active           bool      `gorm:"not null;default:true"`
	CreatedAt        time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt        time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`

	PricingRecords []PricingRecord `gorm:"foreignKey:DefinitionID"`
}

// TableName sets the database table name.
func (BlockDefinition) TableName() string { return "block_definitions" }

// DefaultCycle derives the cycle a fresh instance starts with.
func (d *BlockDefinition) DefaultCycle() (draftdomain.Cycle, *int) {
	if d.ServiceCycleDays != nil && *d.ServiceCycleDays > 0 {
		days := *d.ServiceCycleDays
		return draftdomain.CycleCustom, &days
	}
	return draftdomain.CyclePrepaid, nil
}

// PricingRecord is one per-currency price of a block definition, including
// its tax terms.
type PricingRecord struct {
	ID           snowflake.ID             `gorm:"primaryKey"`
	DefinitionID string                   `gorm:"type:text;not null;index"`
	Currency     string                   `gorm:"type:text;not null"`
	Amount       decimal.Decimal          `gorm:"type:numeric(14,2);not null"`
	TaxInclusion draftdomain.TaxInclusion `gorm:"type:text;not null;default:'exclusive'"`
	Taxes        datatypes.JSON           `gorm:"type:jsonb"`
	IsActive     bool                     `gorm:"not null;default:true"`
	CreatedAt    time.Time                `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (PricingRecord) TableName() string { return "block_pricing_records" }

// TaxComponents decodes the record's tax component terms.
func (r *PricingRecord) TaxComponents() []draftdomain.TaxComponent {
	if len(r.Taxes) == 0 {
		return nil
	}
	var components []draftdomain.TaxComponent
	if err := json.Unmarshal(r.Taxes, &components); err != nil {
		return nil
	}
	return components
}

// SelectPricingRecord picks the record used when attaching under a contract
// currency: prefer an active record in that currency, fall back to any
// active record, fall back to the first available.
func SelectPricingRecord(records []PricingRecord, currency string) *PricingRecord {
	for i := range records {
		if records[i].IsActive && records[i].Currency == currency {
			return &records[i]
		}
	}
	for i := range records {
		if records[i].IsActive {
			return &records[i]
		}
	}
	if len(records) > 0 {
		return &records[0]
	}
	return nil
}
