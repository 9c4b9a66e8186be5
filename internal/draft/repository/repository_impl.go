package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"

	draftdomain "github.com/fieldserve/contractbill/internal/draft/domain"
)

type repository struct{}

func NewRepository() draftdomain.Repository {
	return &repository{}
}

func (r *repository) InsertDraft(ctx context.Context, db *gorm.DB, draft *draftdomain.ContractDraft) error {
	return db.WithContext(ctx).Create(draft).Error
}

func (r *repository) FindDraft(ctx context.Context, db *gorm.DB, id snowflake.ID) (*draftdomain.ContractDraft, error) {
	var draft draftdomain.ContractDraft
	err := db.WithContext(ctx).Where("id = ?", id).First(&draft).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &draft, nil
}

func (r *repository) ListDrafts(ctx context.Context, db *gorm.DB) ([]draftdomain.ContractDraft, error) {
	var drafts []draftdomain.ContractDraft
	err := db.WithContext(ctx).Order("created_at DESC").Find(&drafts).Error
	return drafts, err
}

func (r *repository) SaveDraft(ctx context.Context, db *gorm.DB, draft *draftdomain.ContractDraft) error {
	return db.WithContext(ctx).Save(draft).Error
}

func (r *repository) DeleteDraft(ctx context.Context, db *gorm.DB, id snowflake.ID) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("draft_id = ?", id).Delete(&draftdomain.ConfigurableBlock{}).Error; err != nil {
			return err
		}
		if err := tx.Where("draft_id = ?", id).Delete(&draftdomain.CoverageType{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&draftdomain.ContractDraft{}).Error
	})
}

func (r *repository) InsertCoverageType(ctx context.Context, db *gorm.DB, group *draftdomain.CoverageType) error {
	return db.WithContext(ctx).Create(group).Error
}

func (r *repository) ListCoverageTypes(ctx context.Context, db *gorm.DB, draftID snowflake.ID) ([]draftdomain.CoverageType, error) {
	var groups []draftdomain.CoverageType
	err := db.WithContext(ctx).
		Where("draft_id = ?", draftID).
		Order("position ASC, id ASC").
		Find(&groups).Error
	return groups, err
}

func (r *repository) FindCoverageType(ctx context.Context, db *gorm.DB, draftID, id snowflake.ID) (*draftdomain.CoverageType, error) {
	var group draftdomain.CoverageType
	err := db.WithContext(ctx).Where("draft_id = ? AND id = ?", draftID, id).First(&group).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &group, nil
}

func (r *repository) DeleteCoverageType(ctx context.Context, db *gorm.DB, draftID, id snowflake.ID) error {
	return db.WithContext(ctx).Where("draft_id = ? AND id = ?", draftID, id).Delete(&draftdomain.CoverageType{}).Error
}

func (r *repository) ListBlocks(ctx context.Context, db *gorm.DB, draftID snowflake.ID) ([]draftdomain.ConfigurableBlock, error) {
	var blocks []draftdomain.ConfigurableBlock
	err := db.WithContext(ctx).
		Where("draft_id = ?", draftID).
		Order("position ASC, created_at ASC").
		Find(&blocks).Error
	return blocks, err
}

func (r *repository) FindBlock(ctx context.Context, db *gorm.DB, draftID snowflake.ID, id string) (*draftdomain.ConfigurableBlock, error) {
	var block draftdomain.ConfigurableBlock
	err := db.WithContext(ctx).Where("draft_id = ? AND id = ?", draftID, id).First(&block).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &block, nil
}

func (r *repository) InsertBlock(ctx context.Context, db *gorm.DB, block *draftdomain.ConfigurableBlock) error {
	return db.WithContext(ctx).Create(block).Error
}

func (r *repository) SaveBlock(ctx context.Context, db *gorm.DB, block *draftdomain.ConfigurableBlock) error {
	return db.WithContext(ctx).Save(block).Error
}

func (r *repository) DeleteBlock(ctx context.Context, db *gorm.DB, draftID snowflake.ID, id string) error {
	return db.WithContext(ctx).Where("draft_id = ? AND id = ?", draftID, id).Delete(&draftdomain.ConfigurableBlock{}).Error
}

func (r *repository) DeleteBlocksInGroup(ctx context.Context, db *gorm.DB, draftID, groupID snowflake.ID) error {
	return db.WithContext(ctx).
		Where("draft_id = ? AND coverage_group_id = ?", draftID, groupID).
		Delete(&draftdomain.ConfigurableBlock{}).Error
}

func (r *repository) SavePositions(ctx context.Context, db *gorm.DB, blocks []draftdomain.ConfigurableBlock) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range blocks {
			err := tx.Model(&draftdomain.ConfigurableBlock{}).
				Where("id = ?", blocks[i].ID).
				Update("position", blocks[i].Position).Error
			if err != nil {
				return err
			}
		}
		return nil
	})
}
