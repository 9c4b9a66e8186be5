package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, rate *TaxRate) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*TaxRate, error)
	ListEnabled(ctx context.Context, db *gorm.DB, jurisdiction string) ([]TaxRate, error)
	Save(ctx context.Context, db *gorm.DB, rate *TaxRate) error
}
