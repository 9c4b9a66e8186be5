// Package seed bootstraps a starter catalog and tax rates on first run so a
// fresh install can author contracts immediately.
package seed

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	catalogdomain "github.com/fieldserve/contractbill/internal/catalog/domain"
	"github.com/fieldserve/contractbill/internal/config"
	draftdomain "github.com/fieldserve/contractbill/internal/draft/domain"
	taxdomain "github.com/fieldserve/contractbill/internal/tax/domain"
)

// EnsureStarterCatalog seeds a minimal block catalog and the default
// jurisdiction's tax rates. It is idempotent: an existing catalog is left
// untouched.
func EnsureStarterCatalog(db *gorm.DB, cfg config.Config) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		return err
	}

	ctx := context.Background()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureDefinitionsTx(ctx, tx, node, cfg.DefaultCurrency); err != nil {
			return err
		}
		return ensureTaxRatesTx(ctx, tx, node, cfg.TaxJurisdiction)
	})
}

func ensureDefinitionsTx(ctx context.Context, tx *gorm.DB, node *snowflake.Node, currency string) error {
	var count int64
	if err := tx.WithContext(ctx).Model(&catalogdomain.BlockDefinition{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	definitions := []catalogdomain.BlockDefinition{
		{
			ID:        "svc-preventive-maintenance",
			Name:      "Preventive Maintenance Visit",
			Category:  draftdomain.CategoryService,
			BasePrice: decimal.RequireFromString("150.00"),
			Active:    true,
		},
		{
			ID:        "spare-filter-set",
			Name:      "Replacement Filter Set",
			Category:  draftdomain.CategorySpare,
			BasePrice: decimal.RequireFromString("45.00"),
			Active:    true,
		},
		{
			ID:       "text-scope-of-work",
			Name:     "Scope of Work",
			Category: draftdomain.CategoryText,
			Active:   true,
		},
		{
			ID:       "doc-compliance-certificate",
			Name:     "Compliance Certificate",
			Category: draftdomain.CategoryDocument,
			Active:   true,
		},
	}
	for i := range definitions {
		if err := tx.WithContext(ctx).Create(&definitions[i]).Error; err != nil {
			return err
		}
		if !draftdomain.CategoryHasPricing(definitions[i].Category) {
			continue
		}
		record := catalogdomain.PricingRecord{
			ID:           node.Generate(),
			DefinitionID: definitions[i].ID,
			Currency:     currency,
			Amount:       definitions[i].BasePrice,
			TaxInclusion: draftdomain.TaxExclusive,
			IsActive:     true,
		}
		if err := tx.WithContext(ctx).Create(&record).Error; err != nil {
			return err
		}
	}
	return nil
}

func ensureTaxRatesTx(ctx context.Context, tx *gorm.DB, node *snowflake.Node, jurisdiction string) error {
	if jurisdiction == "" {
		return nil
	}

	var count int64
	if err := tx.WithContext(ctx).Model(&taxdomain.TaxRate{}).
		Where("jurisdiction = ?", jurisdiction).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	rate := taxdomain.TaxRate{
		ID:           node.Generate(),
		Jurisdiction: jurisdiction,
		Name:         "Sales Tax",
		Rate:         decimal.RequireFromString("7.25"),
		IsEnabled:    true,
	}
	return tx.WithContext(ctx).Create(&rate).Error
}
