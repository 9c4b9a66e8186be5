package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	catalogdomain "github.com/fieldserve/contractbill/internal/catalog/domain"
)

type repository struct{}

func NewRepository() catalogdomain.Repository {
	return &repository{}
}

func (r *repository) Insert(ctx context.Context, db *gorm.DB, def *catalogdomain.BlockDefinition) error {
	return db.WithContext(ctx).Create(def).Error
}

func (r *repository) FindByID(ctx context.Context, db *gorm.DB, id string) (*catalogdomain.BlockDefinition, error) {
	var def catalogdomain.BlockDefinition
	err := db.WithContext(ctx).
		Preload("PricingRecords").
		Where("id = ?", id).
		First(&def).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &def, nil
}

func (r *repository) List(ctx context.Context, db *gorm.DB) ([]catalogdomain.BlockDefinition, error) {
	var defs []catalogdomain.BlockDefinition
	err := db.WithContext(ctx).
		Preload("PricingRecords").
		Where("active = ?", true).
		Order("id ASC").
		Find(&defs).Error
	return defs, err
}
