// Package domain contains the contract draft line model and persistence types.
package domain

import (
	"encoding/json"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// PaymentMode declares how a contract draft is billed.
type PaymentMode string

const (
	PaymentModePrepaid PaymentMode = "prepaid"
	PaymentModeEMI     PaymentMode = "emi"
	PaymentModeDefined PaymentMode = "defined"
	PaymentModeMixed   PaymentMode = "mixed"
)

// Valid reports whether the payment mode is one of the supported values.
func (m PaymentMode) Valid() bool {
	switch m {
	case PaymentModePrepaid, PaymentModeEMI, PaymentModeDefined, PaymentModeMixed:
		return true
	}
	return false
}

// Cycle is the billing cadence of a single block.
type Cycle string

const (
	CyclePrepaid     Cycle = "prepaid"
	CyclePostpaid    Cycle = "postpaid"
	CycleMonthly     Cycle = "monthly"
	CycleFortnightly Cycle = "fortnightly"
	CycleQuarterly   Cycle = "quarterly"
	CycleCustom      Cycle = "custom"
)

// Valid reports whether the cycle is one of the supported values.
func (c Cycle) Valid() bool {
	switch c {
	case CyclePrepaid, CyclePostpaid, CycleMonthly, CycleFortnightly, CycleQuarterly, CycleCustom:
		return true
	}
	return false
}

// Recurring reports whether the cycle repeats over the contract duration.
func (c Cycle) Recurring() bool {
	return c != CyclePrepaid && c != CyclePostpaid
}

// Label is the display label used in payment plan breakdowns.
func (c Cycle) Label() string {
	switch c {
	case CyclePrepaid:
		return "On Acceptance (Prepaid)"
	case CyclePostpaid:
		return "On Completion (Postpaid)"
	case CycleMonthly:
		return "Monthly"
	case CycleFortnightly:
		return "Fortnightly"
	case CycleQuarterly:
		return "Quarterly"
	case CycleCustom:
		return "Custom Cycle"
	}
	return string(c)
}

// TaxInclusion declares whether a stored price already contains tax.
type TaxInclusion string

const (
	TaxInclusive TaxInclusion = "inclusive"
	TaxExclusive TaxInclusion = "exclusive"
)

// Category codes for block definitions. Text-like categories never carry price.
const (
	CategoryService   = "service"
	CategorySpare     = "spare"
	CategoryText      = "text"
	CategoryDocument  = "document"
	CategoryChecklist = "checklist"
)

// CategoryHasPricing is the pricing-applicability predicate dispatched on the
// category tag. Blocks from non-priced categories are pinned to zero totals.
func CategoryHasPricing(category string) bool {
	switch category {
	case CategoryText, CategoryDocument, CategoryChecklist:
		return false
	}
	return true
}

// FlyByType tags ad-hoc blocks that are not backed by a catalog entry.
type FlyByType string

const (
	FlyByService  FlyByType = "service"
	FlyBySpare    FlyByType = "spare"
	FlyByText     FlyByType = "text"
	FlyByDocument FlyByType = "document"
)

// Valid reports whether the fly-by type is one of the supported values.
func (t FlyByType) Valid() bool {
	switch t {
	case FlyByService, FlyBySpare, FlyByText, FlyByDocument:
		return true
	}
	return false
}

// Category maps a fly-by type onto its category code.
func (t FlyByType) Category() string {
	switch t {
	case FlyBySpare:
		return CategorySpare
	case FlyByText:
		return CategoryText
	case FlyByDocument:
		return CategoryDocument
	}
	return CategoryService
}

// TaxComponent is one named component of a block's tax terms, frozen onto the
// block at attach time for per-tax reporting.
type TaxComponent struct {
	Name string          `json:"name"`
	Rate decimal.Decimal `json:"rate"`
}

// ContractDraft is a single-owner editing session over a block collection.
type ContractDraft struct {
	ID             snowflake.ID      `gorm:"primaryKey"`
	Title          string            `gorm:"type:text;not null"`
	Currency       string            `gorm:"type:text;not null"`
	DurationMonths int               `gorm:"not null;default:12"`
	PaymentMode    PaymentMode       `gorm:"type:text;not null;default:'defined'"`
	EMIMonths      int               `gorm:"not null;default:0"`
	Metadata       datatypes.JSONMap `gorm:"type:jsonb;not null;default:'{}'"`
	CreatedAt      time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt      time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (ContractDraft) TableName() string { return "contract_drafts" }

// CoverageType is one covered equipment/entity category of a draft. It scopes
// block uniqueness and reordering.
type CoverageType struct {
	ID           snowflake.ID `gorm:"primaryKey"`
	DraftID      snowflake.ID `gorm:"not null;index"`
	SubCategory  string       `gorm:"type:text;not null"`
	ResourceID   string       `gorm:"type:text;not null"`
	ResourceName string       `gorm:"type:text;not null"`
	Position     int          `gorm:"not null;default:0"`
	CreatedAt    time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (CoverageType) TableName() string { return "coverage_types" }

// ConfigurableBlock is one contract line item instance. Catalog-sourced
// instances under a coverage group carry a namespaced id
// ("<catalogID>__<groupID>") so the same catalog block may appear once per
// group but never twice within one group. Fly-by instances carry a freshly
// generated id.
type ConfigurableBlock struct {
	ID              string              `gorm:"primaryKey;type:text"`
	DraftID         snowflake.ID        `gorm:"not null;index"`
	CatalogID       *string             `gorm:"type:text;index"`
	Name            string              `gorm:"type:text;not null"`
	Description     string              `gorm:"type:text"`
	Category        string              `gorm:"type:text;not null"`
	HasPricing      bool                `gorm:"not null;default:true"`
	Quantity        int                 `gorm:"not null;default:1"`
	Unlimited       bool                `gorm:"not null;default:false"`
	Price           decimal.Decimal     `gorm:"type:numeric(14,2);not null"`
	CustomPrice     decimal.NullDecimal `gorm:"type:numeric(14,2)"`
	Currency        string              `gorm:"type:text;not null"`
	TaxRate         decimal.Decimal     `gorm:"type:numeric(7,4);not null"`
	TaxInclusion    TaxInclusion        `gorm:"type:text;not null;default:'exclusive'"`
	Taxes           datatypes.JSON      `gorm:"type:jsonb"`
	Cycle           Cycle               `gorm:"type:text;not null;default:'prepaid'"`
	CustomCycleDays *int                `gorm:""`
	CoverageGroupID *snowflake.ID       `gorm:"index"`
	IsFlyBy         bool                `gorm:"not null;default:false"`
	FlyByType       *FlyByType          `gorm:"type:text"`
	// TotalPrice is derived, never authoritative. It is recomputed by the
	// pricing resolver on every mutation.
	TotalPrice decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	Position   int             `gorm:"not null;default:0"`
	CreatedAt  time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt  time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (ConfigurableBlock) TableName() string { return "configurable_blocks" }

// EffectivePrice is the selling price: custom price when set, catalog price
// otherwise.
func (b *ConfigurableBlock) EffectivePrice() decimal.Decimal {
	if b.CustomPrice.Valid {
		return b.CustomPrice.Decimal
	}
	return b.Price
}

// EffectiveQuantity treats unlimited blocks as a single unit for pricing.
func (b *ConfigurableBlock) EffectiveQuantity() int {
	if b.Unlimited {
		return 1
	}
	return b.Quantity
}

// SameGroup reports whether two blocks belong to the same coverage group.
// Two un-grouped blocks count as same-group (flat legacy mode).
func (b *ConfigurableBlock) SameGroup(other *ConfigurableBlock) bool {
	if b.CoverageGroupID == nil && other.CoverageGroupID == nil {
		return true
	}
	if b.CoverageGroupID == nil || other.CoverageGroupID == nil {
		return false
	}
	return *b.CoverageGroupID == *other.CoverageGroupID
}

// TaxComponents decodes the frozen tax component snapshot. A missing or
// malformed snapshot resolves to no components (tax rate zero behavior).
func (b *ConfigurableBlock) TaxComponents() []TaxComponent {
	if len(b.Taxes) == 0 {
		return nil
	}
	var components []TaxComponent
	if err := json.Unmarshal(b.Taxes, &components); err != nil {
		return nil
	}
	return components
}

// SetTaxComponents freezes the given components onto the block and keeps the
// summed rate in sync.
func (b *ConfigurableBlock) SetTaxComponents(components []TaxComponent) error {
	rate := decimal.Zero
	for _, component := range components {
		rate = rate.Add(component.Rate)
	}
	b.TaxRate = rate
	if len(components) == 0 {
		b.Taxes = nil
		return nil
	}
	raw, err := json.Marshal(components)
	if err != nil {
		return err
	}
	b.Taxes = datatypes.JSON(raw)
	return nil
}
