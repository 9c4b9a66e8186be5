// Package domain contains the tax rate catalog consumed at attach time.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"

	draftdomain "github.com/fieldserve/contractbill/internal/draft/domain"
)

// TaxRate is one named tax component for a jurisdiction. Components are
// resolved into a block's frozen taxes[] snapshot when the block is attached
// and are not re-resolved later unless the block is explicitly re-attached.
type TaxRate struct {
	ID           snowflake.ID    `gorm:"primaryKey"`
	Jurisdiction string          `gorm:"type:text;not null;index"`
	Name         string          `gorm:"type:text;not null"`
	Rate         decimal.Decimal `gorm:"type:numeric(7,4);not null"`
	IsEnabled    bool            `gorm:"not null;default:true"`
	CreatedAt    time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt    time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (TaxRate) TableName() string { return "tax_rates" }

func (t *TaxRate) Validate() error {
	if t.Name == "" {
		return ErrInvalidName
	}
	if t.Rate.IsNegative() {
		return ErrInvalidTaxRate
	}
	return nil
}

// Component converts the catalog entry into the frozen line-item form.
func (t *TaxRate) Component() draftdomain.TaxComponent {
	return draftdomain.TaxComponent{Name: t.Name, Rate: t.Rate}
}
