package domain

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, def *BlockDefinition) error
	FindByID(ctx context.Context, db *gorm.DB, id string) (*BlockDefinition, error)
	List(ctx context.Context, db *gorm.DB) ([]BlockDefinition, error)
}
