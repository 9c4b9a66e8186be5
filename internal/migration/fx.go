package migration

import (
	"go.uber.org/fx"
	"gorm.io/gorm"

	catalogdomain "github.com/fieldserve/contractbill/internal/catalog/domain"
	"github.com/fieldserve/contractbill/internal/config"
	draftdomain "github.com/fieldserve/contractbill/internal/draft/domain"
	"github.com/fieldserve/contractbill/internal/seed"
	taxdomain "github.com/fieldserve/contractbill/internal/tax/domain"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config) error {
		if cfg.DBType == "postgres" {
			sqlDB, err := conn.DB()
			if err != nil {
				return err
			}
			if err := RunMigrations(sqlDB); err != nil {
				return err
			}
		} else {
			// mysql and sqlite setups rely on gorm's schema sync.
			if err := conn.AutoMigrate(
				&draftdomain.ContractDraft{},
				&draftdomain.CoverageType{},
				&draftdomain.ConfigurableBlock{},
				&catalogdomain.BlockDefinition{},
				&catalogdomain.PricingRecord{},
				&taxdomain.TaxRate{},
			); err != nil {
				return err
			}
		}

		return seed.EnsureStarterCatalog(conn, cfg)
	}),
)
